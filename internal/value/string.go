package value

import (
	"strconv"
	"strings"
	"unicode/utf16"
)

// StringData holds character data as UTF-16 code units. Surrogate pairs
// are kept as-is; Length counts code units, not runes.
type StringData struct {
	nullable
	units []uint16
}

func NewString(s string) *StringData {
	return &StringData{units: utf16.Encode([]rune(s))}
}

// NewStringUnits adopts the given code units without copying.
func NewStringUnits(units []uint16) *StringData {
	return &StringData{units: units}
}

func (d *StringData) Type() Type        { return TypeString }
func (d *StringData) ElementType() Type { return TypeUndefined }
func (d *StringData) ClassID() int32    { return ClassStringData }

// Units returns the backing code units; callers must not mutate them.
func (d *StringData) Units() []uint16 { return d.units }

// Length returns the number of UTF-16 code units.
func (d *StringData) Length() int { return len(d.units) }

func (d *StringData) Value() string { return string(utf16.Decode(d.units)) }

func (d *StringData) SetValue(s string) {
	d.units = utf16.Encode([]rune(s))
	d.setNotNull()
}

func (d *StringData) SetUnits(units []uint16) {
	d.units = units
	d.setNotNull()
}

// Connect appends other's code units.
func (d *StringData) Connect(other *StringData) {
	d.units = append(d.units, other.units...)
	d.setNotNull()
}

// Substring returns the [start, start+length) code-unit slice as an owned
// string value. The caller has already validated the bounds.
func (d *StringData) Substring(start, length int) *StringData {
	out := make([]uint16, length)
	copy(out, d.units[start:start+length])
	return &StringData{units: out}
}

func (d *StringData) Assign(src Data) error {
	if src.IsNull() {
		d.SetNull()
		return nil
	}
	switch v := src.(type) {
	case *StringData:
		d.SetUnits(append([]uint16(nil), v.units...))
		return nil
	case *IntegerData, *UnsignedData, *Integer64Data, *Unsigned64Data, *DoubleData, *DecimalData:
		d.SetValue(v.String())
		return nil
	}
	return errNotCompatible(d, src)
}

func (d *StringData) Copy() Data {
	c := &StringData{nullable: d.nullable}
	c.units = append([]uint16(nil), d.units...)
	return c
}

func (d *StringData) Compare(other Data) int {
	if r, decided := compareNull(d, other); decided {
		return r
	}
	s, ok := other.(*StringData)
	if !ok {
		return compareTypeOrder(d, other)
	}
	n := len(d.units)
	if len(s.units) < n {
		n = len(s.units)
	}
	for i := 0; i < n; i++ {
		switch {
		case d.units[i] < s.units[i]:
			return -1
		case d.units[i] > s.units[i]:
			return 1
		}
	}
	switch {
	case len(d.units) < len(s.units):
		return -1
	case len(d.units) > len(s.units):
		return 1
	}
	return 0
}

func (d *StringData) Equals(other Data) bool { return d.Compare(other) == 0 }

func (d *StringData) Hash() uint32 {
	if d.null {
		return nullHash
	}
	var h uint32 = 2166136261
	for _, u := range d.units {
		h ^= uint32(u)
		h *= 16777619
	}
	return h
}

func (d *StringData) String() string {
	if d.null {
		return "(null)"
	}
	return d.Value()
}

func (d *StringData) Serialize(a *Archive) error {
	a.Bool(&d.null)
	a.UTF16(&d.units)
	return a.Err()
}

// BinaryData holds an opaque byte run.
type BinaryData struct {
	nullable
	value []byte
}

func NewBinary(b []byte) *BinaryData { return &BinaryData{value: b} }

func (d *BinaryData) Type() Type        { return TypeBinary }
func (d *BinaryData) ElementType() Type { return TypeUndefined }
func (d *BinaryData) ClassID() int32    { return ClassBinaryData }
func (d *BinaryData) Value() []byte     { return d.value }
func (d *BinaryData) Size() int         { return len(d.value) }

func (d *BinaryData) SetValue(b []byte) {
	d.value = b
	d.setNotNull()
}

// Connect appends a raw run.
func (d *BinaryData) Connect(b []byte) {
	d.value = append(d.value, b...)
	d.setNotNull()
}

func (d *BinaryData) Assign(src Data) error {
	if src.IsNull() {
		d.SetNull()
		return nil
	}
	if b, ok := src.(*BinaryData); ok {
		d.SetValue(append([]byte(nil), b.value...))
		return nil
	}
	return errNotCompatible(d, src)
}

func (d *BinaryData) Copy() Data {
	c := &BinaryData{nullable: d.nullable}
	c.value = append([]byte(nil), d.value...)
	return c
}

func (d *BinaryData) Compare(other Data) int {
	if r, decided := compareNull(d, other); decided {
		return r
	}
	b, ok := other.(*BinaryData)
	if !ok {
		return compareTypeOrder(d, other)
	}
	return strings.Compare(string(d.value), string(b.value))
}

func (d *BinaryData) Equals(other Data) bool { return d.Compare(other) == 0 }

func (d *BinaryData) Hash() uint32 {
	if d.null {
		return nullHash
	}
	var h uint32 = 2166136261
	for _, c := range d.value {
		h ^= uint32(c)
		h *= 16777619
	}
	return h
}

func (d *BinaryData) String() string {
	if d.null {
		return "(null)"
	}
	return "binary(" + strconv.Itoa(len(d.value)) + ")"
}

func (d *BinaryData) Serialize(a *Archive) error {
	a.Bool(&d.null)
	a.Bytes(&d.value)
	return a.Err()
}
