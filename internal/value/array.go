package value

import (
	"strings"

	"github.com/kasuga-db/kasuga/internal/errors"
)

// ArrayData is an ordered sequence of values. With element type TypeData
// it is a heterogeneous row; a concrete element type constrains every
// element.
type ArrayData struct {
	nullable
	elementType Type
	elements    []Data
}

// NewArray creates an empty heterogeneous array.
func NewArray() *ArrayData {
	return &ArrayData{elementType: TypeData}
}

// NewArrayOf creates a heterogeneous array over the given elements.
func NewArrayOf(elements ...Data) *ArrayData {
	return &ArrayData{elementType: TypeData, elements: elements}
}

// NewTypedArray creates an array whose elements are constrained to t.
func NewTypedArray(t Type, elements ...Data) *ArrayData {
	return &ArrayData{elementType: t, elements: elements}
}

func (d *ArrayData) Type() Type        { return TypeArray }
func (d *ArrayData) ElementType() Type { return d.elementType }
func (d *ArrayData) ClassID() int32    { return ClassArrayData }

func (d *ArrayData) Count() int { return len(d.elements) }

func (d *ArrayData) Reserve(n int) {
	if cap(d.elements) < n {
		grown := make([]Data, len(d.elements), n)
		copy(grown, d.elements)
		d.elements = grown
	}
}

func (d *ArrayData) Clear() {
	d.elements = d.elements[:0]
	d.setNotNull()
}

func (d *ArrayData) Element(i int) Data { return d.elements[i] }

func (d *ArrayData) SetElement(i int, v Data) { d.elements[i] = v }

func (d *ArrayData) PushBack(v Data) {
	d.elements = append(d.elements, v)
	d.setNotNull()
}

func (d *ArrayData) PushFront(v Data) {
	d.elements = append([]Data{v}, d.elements...)
	d.setNotNull()
}

func (d *ArrayData) PopBack() Data {
	if len(d.elements) == 0 {
		return nil
	}
	v := d.elements[len(d.elements)-1]
	d.elements = d.elements[:len(d.elements)-1]
	return v
}

func (d *ArrayData) PopFront() Data {
	if len(d.elements) == 0 {
		return nil
	}
	v := d.elements[0]
	d.elements = d.elements[1:]
	return v
}

func (d *ArrayData) Erase(i int) {
	d.elements = append(d.elements[:i], d.elements[i+1:]...)
}

// Contains reports whether any element equals v.
func (d *ArrayData) Contains(v Data) bool {
	for _, e := range d.elements {
		if e.Equals(v) {
			return true
		}
	}
	return false
}

// Overlaps reports whether the arrays share any element.
func (d *ArrayData) Overlaps(other *ArrayData) bool {
	for _, e := range d.elements {
		if other.Contains(e) {
			return true
		}
	}
	return false
}

// Distinct reports whether no element of one array is contained in the
// other.
func (d *ArrayData) Distinct(other *ArrayData) bool {
	return !d.Overlaps(other)
}

// Connect appends other's elements.
func (d *ArrayData) Connect(other *ArrayData) {
	d.elements = append(d.elements, other.elements...)
	d.setNotNull()
}

// AssignElements assigns src's elements one by one into the receiver's
// existing element slots, preserving their declared types. Counts must
// match.
func (d *ArrayData) AssignElements(src *ArrayData) error {
	if len(d.elements) != len(src.elements) {
		return errors.Newf(errors.NotSupported,
			"element count mismatch %d vs %d", len(d.elements), len(src.elements))
	}
	for i, e := range d.elements {
		if err := e.Assign(src.elements[i]); err != nil {
			return err
		}
	}
	d.setNotNull()
	return nil
}

func (d *ArrayData) Assign(src Data) error {
	if src.IsNull() {
		d.SetNull()
		return nil
	}
	a, ok := src.(*ArrayData)
	if !ok {
		return errNotCompatible(d, src)
	}
	d.elements = make([]Data, len(a.elements))
	for i, e := range a.elements {
		d.elements[i] = e.Copy()
	}
	d.setNotNull()
	return nil
}

func (d *ArrayData) Copy() Data {
	c := &ArrayData{nullable: d.nullable, elementType: d.elementType}
	c.elements = make([]Data, len(d.elements))
	for i, e := range d.elements {
		c.elements[i] = e.Copy()
	}
	return c
}

func (d *ArrayData) Compare(other Data) int {
	if r, decided := compareNull(d, other); decided {
		return r
	}
	a, ok := other.(*ArrayData)
	if !ok {
		return compareTypeOrder(d, other)
	}
	n := len(d.elements)
	if len(a.elements) < n {
		n = len(a.elements)
	}
	for i := 0; i < n; i++ {
		if c := d.elements[i].Compare(a.elements[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(d.elements) < len(a.elements):
		return -1
	case len(d.elements) > len(a.elements):
		return 1
	}
	return 0
}

func (d *ArrayData) Equals(other Data) bool { return d.Compare(other) == 0 }

// Hash folds the element hashes.
func (d *ArrayData) Hash() uint32 {
	if d.null {
		return nullHash
	}
	var h uint32 = 2166136261
	for _, e := range d.elements {
		h ^= e.Hash()
		h *= 16777619
	}
	return h
}

func (d *ArrayData) String() string {
	if d.null {
		return "(null)"
	}
	var sb strings.Builder
	sb.WriteByte('{')
	for i, e := range d.elements {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(e.String())
	}
	sb.WriteByte('}')
	return sb.String()
}

func (d *ArrayData) Serialize(a *Archive) error {
	a.Bool(&d.null)
	t := int32(d.elementType)
	a.Int32(&t)
	d.elementType = Type(t)
	if a.IsStoring() {
		n := int32(len(d.elements))
		a.Int32(&n)
		for _, e := range d.elements {
			if err := a.WriteObject(e); err != nil {
				return err
			}
		}
		return a.Err()
	}
	var n int32
	a.Int32(&n)
	if a.Err() != nil {
		return a.Err()
	}
	d.elements = make([]Data, n)
	for i := range d.elements {
		obj, err := a.ReadObject()
		if err != nil {
			return err
		}
		e, ok := obj.(Data)
		if !ok {
			return errors.New(errors.Unexpected)
		}
		d.elements[i] = e
	}
	return a.Err()
}

// IsRow reports whether d is a heterogeneous row array.
func IsRow(d Data) (*ArrayData, bool) {
	a, ok := d.(*ArrayData)
	if !ok || a.ElementType() != TypeData {
		return nil, false
	}
	return a, true
}
