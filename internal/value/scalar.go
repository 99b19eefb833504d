package value

import (
	"math"
	"strconv"

	"github.com/kasuga-db/kasuga/internal/errors"
	"github.com/kasuga-db/kasuga/internal/serial"
)

func errNotCompatible(dst, src Data) error {
	return errors.Newf(errors.NotCompatible, "cannot assign %s to %s", src.Type(), dst.Type())
}

// numeric payload extraction. ok is false for non-numeric or NULL data.

func asInt64(d Data) (int64, bool) {
	if d.IsNull() {
		return 0, false
	}
	switch v := d.(type) {
	case *IntegerData:
		return int64(v.value), true
	case *UnsignedData:
		return int64(v.value), true
	case *Integer64Data:
		return v.value, true
	case *Unsigned64Data:
		if v.value > math.MaxInt64 {
			return 0, false
		}
		return int64(v.value), true
	case *BooleanData:
		if v.value {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

func asFloat64(d Data) (float64, bool) {
	if d.IsNull() {
		return 0, false
	}
	switch v := d.(type) {
	case *IntegerData:
		return float64(v.value), true
	case *UnsignedData:
		return float64(v.value), true
	case *Integer64Data:
		return float64(v.value), true
	case *Unsigned64Data:
		return float64(v.value), true
	case *DoubleData:
		return v.value, true
	case *DecimalData:
		return v.Float64(), true
	}
	return 0, false
}

// IntegerData is a nullable int32.
type IntegerData struct {
	nullable
	value int32
}

func NewInteger(v int32) *IntegerData { return &IntegerData{value: v} }

func (d *IntegerData) Type() Type        { return TypeInteger }
func (d *IntegerData) ElementType() Type { return TypeUndefined }
func (d *IntegerData) ClassID() int32    { return ClassIntegerData }
func (d *IntegerData) Value() int32      { return d.value }

func (d *IntegerData) SetValue(v int32) {
	d.value = v
	d.setNotNull()
}

func (d *IntegerData) Assign(src Data) error {
	if src.IsNull() {
		d.SetNull()
		return nil
	}
	if i, ok := asInt64(src); ok {
		if i < math.MinInt32 || i > math.MaxInt32 {
			return errors.New(errors.NumericValueOutOfRange)
		}
		d.SetValue(int32(i))
		return nil
	}
	if f, ok := asFloat64(src); ok {
		if f < math.MinInt32 || f > math.MaxInt32 {
			return errors.New(errors.NumericValueOutOfRange)
		}
		d.SetValue(int32(f))
		return nil
	}
	return errNotCompatible(d, src)
}

func (d *IntegerData) Copy() Data {
	c := *d
	return &c
}

func (d *IntegerData) Compare(other Data) int {
	if r, decided := compareNull(d, other); decided {
		return r
	}
	return compareNumeric(d, other)
}

func (d *IntegerData) Equals(other Data) bool { return d.Compare(other) == 0 }

func (d *IntegerData) Hash() uint32 {
	if d.null {
		return nullHash
	}
	return uint32(d.value)
}

func (d *IntegerData) String() string {
	if d.null {
		return "(null)"
	}
	return strconv.FormatInt(int64(d.value), 10)
}

func (d *IntegerData) Serialize(a *Archive) error { return serializeScalar(a, &d.null, &d.value) }

// UnsignedData is a nullable uint32.
type UnsignedData struct {
	nullable
	value uint32
}

func NewUnsigned(v uint32) *UnsignedData { return &UnsignedData{value: v} }

func (d *UnsignedData) Type() Type        { return TypeUnsignedInteger }
func (d *UnsignedData) ElementType() Type { return TypeUndefined }
func (d *UnsignedData) ClassID() int32    { return ClassUnsignedData }
func (d *UnsignedData) Value() uint32     { return d.value }

func (d *UnsignedData) SetValue(v uint32) {
	d.value = v
	d.setNotNull()
}

func (d *UnsignedData) Assign(src Data) error {
	if src.IsNull() {
		d.SetNull()
		return nil
	}
	if i, ok := asInt64(src); ok {
		if i < 0 || i > math.MaxUint32 {
			return errors.New(errors.NumericValueOutOfRange)
		}
		d.SetValue(uint32(i))
		return nil
	}
	if f, ok := asFloat64(src); ok {
		if f < 0 || f > math.MaxUint32 {
			return errors.New(errors.NumericValueOutOfRange)
		}
		d.SetValue(uint32(f))
		return nil
	}
	return errNotCompatible(d, src)
}

func (d *UnsignedData) Copy() Data {
	c := *d
	return &c
}

func (d *UnsignedData) Compare(other Data) int {
	if r, decided := compareNull(d, other); decided {
		return r
	}
	return compareNumeric(d, other)
}

func (d *UnsignedData) Equals(other Data) bool { return d.Compare(other) == 0 }

func (d *UnsignedData) Hash() uint32 {
	if d.null {
		return nullHash
	}
	return d.value
}

func (d *UnsignedData) String() string {
	if d.null {
		return "(null)"
	}
	return strconv.FormatUint(uint64(d.value), 10)
}

func (d *UnsignedData) Serialize(a *Archive) error { return serializeScalar(a, &d.null, &d.value) }

// Integer64Data is a nullable int64.
type Integer64Data struct {
	nullable
	value int64
}

func NewInteger64(v int64) *Integer64Data { return &Integer64Data{value: v} }

func (d *Integer64Data) Type() Type        { return TypeInteger64 }
func (d *Integer64Data) ElementType() Type { return TypeUndefined }
func (d *Integer64Data) ClassID() int32    { return ClassInteger64Data }
func (d *Integer64Data) Value() int64      { return d.value }

func (d *Integer64Data) SetValue(v int64) {
	d.value = v
	d.setNotNull()
}

func (d *Integer64Data) Assign(src Data) error {
	if src.IsNull() {
		d.SetNull()
		return nil
	}
	if i, ok := asInt64(src); ok {
		d.SetValue(i)
		return nil
	}
	if f, ok := asFloat64(src); ok {
		if f < math.MinInt64 || f > math.MaxInt64 {
			return errors.New(errors.NumericValueOutOfRange)
		}
		d.SetValue(int64(f))
		return nil
	}
	return errNotCompatible(d, src)
}

func (d *Integer64Data) Copy() Data {
	c := *d
	return &c
}

func (d *Integer64Data) Compare(other Data) int {
	if r, decided := compareNull(d, other); decided {
		return r
	}
	return compareNumeric(d, other)
}

func (d *Integer64Data) Equals(other Data) bool { return d.Compare(other) == 0 }

func (d *Integer64Data) Hash() uint32 {
	if d.null {
		return nullHash
	}
	return uint32(d.value) ^ uint32(d.value>>32)
}

func (d *Integer64Data) String() string {
	if d.null {
		return "(null)"
	}
	return strconv.FormatInt(d.value, 10)
}

func (d *Integer64Data) Serialize(a *Archive) error { return serializeScalar(a, &d.null, &d.value) }

// Unsigned64Data is a nullable uint64.
type Unsigned64Data struct {
	nullable
	value uint64
}

func NewUnsigned64(v uint64) *Unsigned64Data { return &Unsigned64Data{value: v} }

func (d *Unsigned64Data) Type() Type        { return TypeUnsignedInteger64 }
func (d *Unsigned64Data) ElementType() Type { return TypeUndefined }
func (d *Unsigned64Data) ClassID() int32    { return ClassUnsigned64Data }
func (d *Unsigned64Data) Value() uint64     { return d.value }

func (d *Unsigned64Data) SetValue(v uint64) {
	d.value = v
	d.setNotNull()
}

func (d *Unsigned64Data) Assign(src Data) error {
	if src.IsNull() {
		d.SetNull()
		return nil
	}
	if u, ok := src.(*Unsigned64Data); ok {
		d.SetValue(u.value)
		return nil
	}
	if i, ok := asInt64(src); ok {
		if i < 0 {
			return errors.New(errors.NumericValueOutOfRange)
		}
		d.SetValue(uint64(i))
		return nil
	}
	if f, ok := asFloat64(src); ok {
		if f < 0 || f > math.MaxUint64 {
			return errors.New(errors.NumericValueOutOfRange)
		}
		d.SetValue(uint64(f))
		return nil
	}
	return errNotCompatible(d, src)
}

func (d *Unsigned64Data) Copy() Data {
	c := *d
	return &c
}

func (d *Unsigned64Data) Compare(other Data) int {
	if r, decided := compareNull(d, other); decided {
		return r
	}
	return compareNumeric(d, other)
}

func (d *Unsigned64Data) Equals(other Data) bool { return d.Compare(other) == 0 }

func (d *Unsigned64Data) Hash() uint32 {
	if d.null {
		return nullHash
	}
	return uint32(d.value) ^ uint32(d.value>>32)
}

func (d *Unsigned64Data) String() string {
	if d.null {
		return "(null)"
	}
	return strconv.FormatUint(d.value, 10)
}

func (d *Unsigned64Data) Serialize(a *Archive) error { return serializeScalar(a, &d.null, &d.value) }

// DoubleData is a nullable float64.
type DoubleData struct {
	nullable
	value float64
}

func NewDouble(v float64) *DoubleData { return &DoubleData{value: v} }

func (d *DoubleData) Type() Type        { return TypeDouble }
func (d *DoubleData) ElementType() Type { return TypeUndefined }
func (d *DoubleData) ClassID() int32    { return ClassDoubleData }
func (d *DoubleData) Value() float64    { return d.value }

func (d *DoubleData) SetValue(v float64) {
	d.value = v
	d.setNotNull()
}

func (d *DoubleData) Assign(src Data) error {
	if src.IsNull() {
		d.SetNull()
		return nil
	}
	if f, ok := asFloat64(src); ok {
		d.SetValue(f)
		return nil
	}
	return errNotCompatible(d, src)
}

func (d *DoubleData) Copy() Data {
	c := *d
	return &c
}

func (d *DoubleData) Compare(other Data) int {
	if r, decided := compareNull(d, other); decided {
		return r
	}
	return compareNumeric(d, other)
}

func (d *DoubleData) Equals(other Data) bool { return d.Compare(other) == 0 }

func (d *DoubleData) Hash() uint32 {
	if d.null {
		return nullHash
	}
	bits := math.Float64bits(d.value)
	return uint32(bits) ^ uint32(bits>>32)
}

func (d *DoubleData) String() string {
	if d.null {
		return "(null)"
	}
	return strconv.FormatFloat(d.value, 'g', -1, 64)
}

func (d *DoubleData) Serialize(a *Archive) error {
	a.Bool(&d.null)
	a.Float64(&d.value)
	return a.Err()
}

// BooleanData is a nullable bool.
type BooleanData struct {
	nullable
	value bool
}

func NewBoolean(v bool) *BooleanData { return &BooleanData{value: v} }

func (d *BooleanData) Type() Type        { return TypeBoolean }
func (d *BooleanData) ElementType() Type { return TypeUndefined }
func (d *BooleanData) ClassID() int32    { return ClassBooleanData }
func (d *BooleanData) Value() bool       { return d.value }

func (d *BooleanData) SetValue(v bool) {
	d.value = v
	d.setNotNull()
}

func (d *BooleanData) Assign(src Data) error {
	if src.IsNull() {
		d.SetNull()
		return nil
	}
	if b, ok := src.(*BooleanData); ok {
		d.SetValue(b.value)
		return nil
	}
	return errNotCompatible(d, src)
}

func (d *BooleanData) Copy() Data {
	c := *d
	return &c
}

func (d *BooleanData) Compare(other Data) int {
	if r, decided := compareNull(d, other); decided {
		return r
	}
	b, ok := other.(*BooleanData)
	if !ok {
		return compareTypeOrder(d, other)
	}
	switch {
	case d.value == b.value:
		return 0
	case d.value:
		return 1
	}
	return -1
}

func (d *BooleanData) Equals(other Data) bool { return d.Compare(other) == 0 }

func (d *BooleanData) Hash() uint32 {
	if d.null {
		return nullHash
	}
	if d.value {
		return 1
	}
	return 0
}

func (d *BooleanData) String() string {
	if d.null {
		return "(null)"
	}
	return strconv.FormatBool(d.value)
}

func (d *BooleanData) Serialize(a *Archive) error {
	a.Bool(&d.null)
	a.Bool(&d.value)
	return a.Err()
}

// Archive is re-exported so value types can declare Serialize without
// importing serial at every call site.
type Archive = serial.Archive

func serializeScalar(a *Archive, null *bool, v interface{}) error {
	a.Bool(null)
	switch p := v.(type) {
	case *int32:
		a.Int32(p)
	case *uint32:
		a.Uint32(p)
	case *int64:
		a.Int64(p)
	case *uint64:
		a.Uint64(p)
	default:
		return errors.Newf(errors.Unexpected, "unhandled scalar payload %T", v)
	}
	return a.Err()
}

// compareNumeric orders two non-NULL numeric values with promotion to the
// wider domain. Non-numeric operands fall back to type-tag order.
func compareNumeric(a, b Data) int {
	if ai, ok := asInt64(a); ok {
		if bi, ok := asInt64(b); ok {
			switch {
			case ai < bi:
				return -1
			case ai > bi:
				return 1
			}
			return 0
		}
	}
	af, aok := asFloat64(a)
	bf, bok := asFloat64(b)
	if aok && bok {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		}
		return 0
	}
	return compareTypeOrder(a, b)
}

// compareTypeOrder is the fallback order between incomparable dynamic
// types; it keeps sorting deterministic rather than meaningful.
func compareTypeOrder(a, b Data) int {
	at, bt := a.Type(), b.Type()
	switch {
	case at < bt:
		return -1
	case at > bt:
		return 1
	}
	return 0
}
