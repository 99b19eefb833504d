// Package serial implements the archive format used to ship programs and
// tuples between the planner, the executor and the client connection.
// An archive is symmetric: the same Serialize method both stores and
// restores an object depending on the archive direction.
package serial

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/kasuga-db/kasuga/internal/errors"
)

// Externalizable is implemented by every object that travels through an
// archive. ClassID identifies the concrete type for the registry.
type Externalizable interface {
	ClassID() int32
	Serialize(a *Archive) error
}

// Archive reads or writes primitive fields in little-endian order.
type Archive struct {
	w       io.Writer
	r       io.Reader
	storing bool
	err     error
}

// NewWriter creates a storing archive.
func NewWriter(w io.Writer) *Archive {
	return &Archive{w: w, storing: true}
}

// NewReader creates a restoring archive.
func NewReader(r io.Reader) *Archive {
	return &Archive{r: r}
}

// IsStoring reports the archive direction.
func (a *Archive) IsStoring() bool { return a.storing }

// Err returns the first error encountered.
func (a *Archive) Err() error { return a.err }

func (a *Archive) fail(err error) {
	if a.err == nil && err != nil {
		a.err = err
	}
}

func (a *Archive) write(v interface{}) {
	if a.err != nil {
		return
	}
	a.fail(binary.Write(a.w, binary.LittleEndian, v))
}

func (a *Archive) read(v interface{}) {
	if a.err != nil {
		return
	}
	a.fail(binary.Read(a.r, binary.LittleEndian, v))
}

// Bool transfers a bool.
func (a *Archive) Bool(v *bool) {
	if a.storing {
		b := uint8(0)
		if *v {
			b = 1
		}
		a.write(b)
		return
	}
	var b uint8
	a.read(&b)
	*v = b != 0
}

// Int32 transfers an int32.
func (a *Archive) Int32(v *int32) {
	if a.storing {
		a.write(*v)
		return
	}
	a.read(v)
}

// Int transfers an int as int32.
func (a *Archive) Int(v *int) {
	if a.storing {
		i := int32(*v)
		a.write(i)
		return
	}
	var i int32
	a.read(&i)
	*v = int(i)
}

// Uint16 transfers a uint16.
func (a *Archive) Uint16(v *uint16) {
	if a.storing {
		a.write(*v)
		return
	}
	a.read(v)
}

// Uint32 transfers a uint32.
func (a *Archive) Uint32(v *uint32) {
	if a.storing {
		a.write(*v)
		return
	}
	a.read(v)
}

// Int64 transfers an int64.
func (a *Archive) Int64(v *int64) {
	if a.storing {
		a.write(*v)
		return
	}
	a.read(v)
}

// Uint64 transfers a uint64.
func (a *Archive) Uint64(v *uint64) {
	if a.storing {
		a.write(*v)
		return
	}
	a.read(v)
}

// Float64 transfers a float64.
func (a *Archive) Float64(v *float64) {
	if a.storing {
		a.write(math.Float64bits(*v))
		return
	}
	var bits uint64
	a.read(&bits)
	*v = math.Float64frombits(bits)
}

// Bytes transfers a length-prefixed byte run.
func (a *Archive) Bytes(v *[]byte) {
	if a.storing {
		n := uint32(len(*v))
		a.write(n)
		if a.err == nil && n > 0 {
			_, err := a.w.Write(*v)
			a.fail(err)
		}
		return
	}
	var n uint32
	a.read(&n)
	if a.err != nil {
		return
	}
	buf := make([]byte, n)
	if n > 0 {
		_, err := io.ReadFull(a.r, buf)
		a.fail(err)
	}
	*v = buf
}

// String transfers a length-prefixed UTF-8 string.
func (a *Archive) String(v *string) {
	if a.storing {
		b := []byte(*v)
		a.Bytes(&b)
		return
	}
	var b []byte
	a.Bytes(&b)
	*v = string(b)
}

// UTF16 transfers a length-prefixed run of UTF-16 code units.
func (a *Archive) UTF16(v *[]uint16) {
	if a.storing {
		n := uint32(len(*v))
		a.write(n)
		for i := range *v {
			a.write((*v)[i])
		}
		return
	}
	var n uint32
	a.read(&n)
	if a.err != nil {
		return
	}
	buf := make([]uint16, n)
	for i := range buf {
		a.read(&buf[i])
	}
	*v = buf
}

// IntSlice transfers a length-prefixed []int.
func (a *Archive) IntSlice(v *[]int) {
	if a.storing {
		n := uint32(len(*v))
		a.write(n)
		for i := range *v {
			a.write(int32((*v)[i]))
		}
		return
	}
	var n uint32
	a.read(&n)
	if a.err != nil {
		return
	}
	buf := make([]int, n)
	for i := range buf {
		var x int32
		a.read(&x)
		buf[i] = int(x)
	}
	*v = buf
}

// classNone marks a nil object on the wire; a nil object serves as the
// end-of-stream marker on connections.
const classNone int32 = 0

// WriteObject stores obj preceded by its class id. A nil obj writes the
// None marker.
func (a *Archive) WriteObject(obj Externalizable) error {
	if !a.storing {
		return errors.New(errors.BadArgument)
	}
	if obj == nil {
		id := classNone
		a.write(id)
		return a.err
	}
	id := obj.ClassID()
	a.write(id)
	if a.err != nil {
		return a.err
	}
	if err := obj.Serialize(a); err != nil {
		a.fail(err)
	}
	return a.err
}

// ReadObject restores the next object, constructing it through the class
// registry. It returns nil for the None marker.
func (a *Archive) ReadObject() (Externalizable, error) {
	if a.storing {
		return nil, errors.New(errors.BadArgument)
	}
	var id int32
	a.read(&id)
	if a.err != nil {
		return nil, a.err
	}
	if id == classNone {
		return nil, nil
	}
	obj, err := Instance(id)
	if err != nil {
		a.fail(err)
		return nil, err
	}
	if err := obj.Serialize(a); err != nil {
		a.fail(err)
		return nil, err
	}
	return obj, a.err
}
