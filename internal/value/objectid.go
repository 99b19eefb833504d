package value

import (
	"encoding/binary"
	"strconv"

	"github.com/kasuga-db/kasuga/internal/errors"
)

// ObjectID identifies a stored record: a 32-bit page id and a 16-bit
// area id packed into one 64-bit word with the area in the low 16 bits.
type ObjectID uint64

const (
	// UndefinedPageID is the all-ones page pattern.
	UndefinedPageID uint32 = 0xFFFFFFFF
	// ObjectIDWireSize is the on-disk size: 4-byte page then 2-byte area.
	ObjectIDWireSize = 6

	areaBits = 16
	areaMask = (1 << areaBits) - 1
)

// PackObjectID composes an ObjectID from its parts.
func PackObjectID(page uint32, area uint16) ObjectID {
	return ObjectID(uint64(page)<<areaBits | uint64(area))
}

func (o ObjectID) Page() uint32 { return uint32(o >> areaBits) }
func (o ObjectID) Area() uint16 { return uint16(o & areaMask) }

// IsInvalid reports whether the page id is the undefined pattern.
func (o ObjectID) IsInvalid() bool { return o.Page() == UndefinedPageID }

// WriteObjectID writes the 6-byte wire form: page first, area second,
// both little-endian. The two copies are sized separately for binary
// compatibility with older records.
func WriteObjectID(buf []byte, o ObjectID) error {
	if len(buf) < ObjectIDWireSize {
		return errors.New(errors.BadArgument)
	}
	binary.LittleEndian.PutUint32(buf[0:4], o.Page())
	binary.LittleEndian.PutUint16(buf[4:6], o.Area())
	return nil
}

// ReadObjectID reads the 6-byte wire form.
func ReadObjectID(buf []byte) (ObjectID, error) {
	if len(buf) < ObjectIDWireSize {
		return 0, errors.New(errors.BadArgument)
	}
	page := binary.LittleEndian.Uint32(buf[0:4])
	area := binary.LittleEndian.Uint16(buf[4:6])
	return PackObjectID(page, area), nil
}

// ObjectIDData is a nullable ObjectID value.
type ObjectIDData struct {
	nullable
	value ObjectID
}

func NewObjectID(v ObjectID) *ObjectIDData { return &ObjectIDData{value: v} }

func (d *ObjectIDData) Type() Type        { return TypeObjectID }
func (d *ObjectIDData) ElementType() Type { return TypeUndefined }
func (d *ObjectIDData) ClassID() int32    { return ClassObjectIDData }
func (d *ObjectIDData) Value() ObjectID   { return d.value }

func (d *ObjectIDData) SetValue(v ObjectID) {
	d.value = v
	d.setNotNull()
}

func (d *ObjectIDData) Assign(src Data) error {
	if src.IsNull() {
		d.SetNull()
		return nil
	}
	if o, ok := src.(*ObjectIDData); ok {
		d.SetValue(o.value)
		return nil
	}
	return errNotCompatible(d, src)
}

func (d *ObjectIDData) Copy() Data {
	c := *d
	return &c
}

func (d *ObjectIDData) Compare(other Data) int {
	if r, decided := compareNull(d, other); decided {
		return r
	}
	o, ok := other.(*ObjectIDData)
	if !ok {
		return compareTypeOrder(d, other)
	}
	switch {
	case d.value < o.value:
		return -1
	case d.value > o.value:
		return 1
	}
	return 0
}

func (d *ObjectIDData) Equals(other Data) bool { return d.Compare(other) == 0 }

func (d *ObjectIDData) Hash() uint32 {
	if d.null {
		return nullHash
	}
	return uint32(d.value) ^ uint32(d.value>>32)
}

func (d *ObjectIDData) String() string {
	if d.null {
		return "(null)"
	}
	return "(" + strconv.FormatUint(uint64(d.value.Page()), 10) + "," +
		strconv.FormatUint(uint64(d.value.Area()), 10) + ")"
}

func (d *ObjectIDData) Serialize(a *Archive) error {
	a.Bool(&d.null)
	v := uint64(d.value)
	a.Uint64(&v)
	d.value = ObjectID(v)
	return a.Err()
}
