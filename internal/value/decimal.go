package value

import (
	"math"
	"strconv"
	"strings"

	"github.com/kasuga-db/kasuga/internal/errors"
)

// DecimalData is a fixed-point value stored as an unscaled int64 with a
// decimal scale. It covers the planner's needs; arbitrary precision is
// out of scope.
type DecimalData struct {
	nullable
	unscaled int64
	scale    int32
}

func NewDecimal(unscaled int64, scale int32) *DecimalData {
	return &DecimalData{unscaled: unscaled, scale: scale}
}

// ParseDecimal parses a plain decimal literal such as "-12.345".
func ParseDecimal(s string) (*DecimalData, error) {
	dot := strings.IndexByte(s, '.')
	digits := s
	var scale int32
	if dot >= 0 {
		digits = s[:dot] + s[dot+1:]
		scale = int32(len(s) - dot - 1)
	}
	unscaled, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return nil, errors.Wrap(errors.BadArgument, err, "decimal literal")
	}
	return &DecimalData{unscaled: unscaled, scale: scale}, nil
}

func (d *DecimalData) Type() Type        { return TypeDecimal }
func (d *DecimalData) ElementType() Type { return TypeUndefined }
func (d *DecimalData) ClassID() int32    { return ClassDecimalData }
func (d *DecimalData) Unscaled() int64   { return d.unscaled }
func (d *DecimalData) Scale() int32      { return d.scale }

func (d *DecimalData) Float64() float64 {
	return float64(d.unscaled) / math.Pow10(int(d.scale))
}

func (d *DecimalData) SetValue(unscaled int64, scale int32) {
	d.unscaled = unscaled
	d.scale = scale
	d.setNotNull()
}

func (d *DecimalData) Assign(src Data) error {
	if src.IsNull() {
		d.SetNull()
		return nil
	}
	switch v := src.(type) {
	case *DecimalData:
		d.SetValue(v.unscaled, v.scale)
		return nil
	}
	if i, ok := asInt64(src); ok {
		d.SetValue(i, 0)
		return nil
	}
	return errNotCompatible(d, src)
}

func (d *DecimalData) Copy() Data {
	c := *d
	return &c
}

func (d *DecimalData) Compare(other Data) int {
	if r, decided := compareNull(d, other); decided {
		return r
	}
	if o, ok := other.(*DecimalData); ok && o.scale == d.scale {
		switch {
		case d.unscaled < o.unscaled:
			return -1
		case d.unscaled > o.unscaled:
			return 1
		}
		return 0
	}
	return compareNumeric(d, other)
}

func (d *DecimalData) Equals(other Data) bool { return d.Compare(other) == 0 }

func (d *DecimalData) Hash() uint32 {
	if d.null {
		return nullHash
	}
	return uint32(d.unscaled) ^ uint32(d.unscaled>>32) ^ uint32(d.scale)
}

func (d *DecimalData) String() string {
	if d.null {
		return "(null)"
	}
	if d.scale == 0 {
		return strconv.FormatInt(d.unscaled, 10)
	}
	neg := d.unscaled < 0
	digits := strconv.FormatInt(d.unscaled, 10)
	if neg {
		digits = digits[1:]
	}
	for int32(len(digits)) <= d.scale {
		digits = "0" + digits
	}
	cut := len(digits) - int(d.scale)
	out := digits[:cut] + "." + digits[cut:]
	if neg {
		out = "-" + out
	}
	return out
}

func (d *DecimalData) Serialize(a *Archive) error {
	a.Bool(&d.null)
	a.Int64(&d.unscaled)
	a.Int32(&d.scale)
	return a.Err()
}
