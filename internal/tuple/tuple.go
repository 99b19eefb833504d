// Package tuple packs a row of values into a compact arena-resident blob
// and restores it. The packed form is written in units of 4 bytes so the
// sort and store collections can hold millions of rows without per-row
// allocation.
package tuple

import (
	"encoding/binary"
	"math"

	"github.com/kasuga-db/kasuga/internal/errors"
	"github.com/kasuga-db/kasuga/internal/value"
)

// UnitSize is the number of bytes per unit.
const UnitSize = 4

const flagNull uint16 = 1

// Size returns the number of units needed to Dump the row.
func Size(row *value.ArrayData) int {
	units := 1 // column count
	for i := 0; i < row.Count(); i++ {
		units += columnSize(row.Element(i))
	}
	return units
}

func columnSize(d value.Data) int {
	units := 1 // header: type + flags
	if d.IsNull() {
		return units
	}
	switch v := d.(type) {
	case *value.IntegerData, *value.UnsignedData, *value.BooleanData, *value.DateData:
		units++
	case *value.Integer64Data, *value.Unsigned64Data, *value.DoubleData,
		*value.DateTimeData, *value.ObjectIDData:
		units += 2
	case *value.DecimalData:
		units += 3
	case *value.StringData:
		units += 1 + (2*v.Length()+UnitSize-1)/UnitSize
	case *value.BinaryData:
		units += 1 + (v.Size()+UnitSize-1)/UnitSize
	case *value.WordData:
		units += 1 + (len(v.Term())+UnitSize-1)/UnitSize
		units += 1 + (len(v.Language())+UnitSize-1)/UnitSize
		units += 4 // category, df, scale
	case *value.BitSetData:
		units += 1 + (v.MarshalledSize()+UnitSize-1)/UnitSize
	case *value.ArrayData:
		units += Size(v)
	}
	return units
}

type cursor struct {
	buf []byte
	off int
}

func (c *cursor) putUint32(v uint32) {
	binary.LittleEndian.PutUint32(c.buf[c.off:], v)
	c.off += 4
}

func (c *cursor) uint32() uint32 {
	v := binary.LittleEndian.Uint32(c.buf[c.off:])
	c.off += 4
	return v
}

func (c *cursor) putUint64(v uint64) {
	binary.LittleEndian.PutUint64(c.buf[c.off:], v)
	c.off += 8
}

func (c *cursor) uint64() uint64 {
	v := binary.LittleEndian.Uint64(c.buf[c.off:])
	c.off += 8
	return v
}

func (c *cursor) putBytes(b []byte) {
	c.putUint32(uint32(len(b)))
	copy(c.buf[c.off:], b)
	c.off += (len(b) + UnitSize - 1) &^ (UnitSize - 1)
}

func (c *cursor) bytes() []byte {
	n := int(c.uint32())
	b := c.buf[c.off : c.off+n]
	c.off += (n + UnitSize - 1) &^ (UnitSize - 1)
	return b
}

// Dump writes the packed form of row into dst, which must hold at least
// Size(row) units.
func Dump(dst []byte, row *value.ArrayData) error {
	if len(dst) < Size(row)*UnitSize {
		return errors.New(errors.BadArgument)
	}
	c := &cursor{buf: dst}
	c.putUint32(uint32(row.Count()))
	for i := 0; i < row.Count(); i++ {
		if err := dumpColumn(c, row.Element(i)); err != nil {
			return err
		}
	}
	return nil
}

func dumpColumn(c *cursor, d value.Data) error {
	var flags uint16
	if d.IsNull() {
		flags |= flagNull
	}
	c.putUint32(uint32(d.Type())<<16 | uint32(flags))
	if d.IsNull() {
		return nil
	}
	switch v := d.(type) {
	case *value.IntegerData:
		c.putUint32(uint32(v.Value()))
	case *value.UnsignedData:
		c.putUint32(v.Value())
	case *value.BooleanData:
		b := uint32(0)
		if v.Value() {
			b = 1
		}
		c.putUint32(b)
	case *value.DateData:
		c.putUint32(uint32(v.Days()))
	case *value.Integer64Data:
		c.putUint64(uint64(v.Value()))
	case *value.Unsigned64Data:
		c.putUint64(v.Value())
	case *value.DoubleData:
		c.putUint64(math.Float64bits(v.Value()))
	case *value.DateTimeData:
		c.putUint64(uint64(v.Millis()))
	case *value.ObjectIDData:
		c.putUint64(uint64(v.Value()))
	case *value.DecimalData:
		c.putUint64(uint64(v.Unscaled()))
		c.putUint32(uint32(v.Scale()))
	case *value.StringData:
		units := v.Units()
		c.putUint32(uint32(len(units)))
		for _, u := range units {
			binary.LittleEndian.PutUint16(c.buf[c.off:], u)
			c.off += 2
		}
		c.off = (c.off + UnitSize - 1) &^ (UnitSize - 1)
	case *value.BinaryData:
		c.putBytes(v.Value())
	case *value.WordData:
		c.putBytes([]byte(v.Term()))
		c.putBytes([]byte(v.Language()))
		c.putUint32(uint32(v.Category()))
		c.putUint32(uint32(v.Df()))
		c.putUint64(math.Float64bits(v.Scale()))
	case *value.BitSetData:
		buf, err := v.Marshal()
		if err != nil {
			return err
		}
		c.putBytes(buf)
	case *value.ArrayData:
		sub := c.buf[c.off:]
		if err := Dump(sub, v); err != nil {
			return err
		}
		c.off += Size(v) * UnitSize
	default:
		return errors.Newf(errors.NotSupported, "dump of %s", d.Type())
	}
	return nil
}

// Restore decodes the packed form into row; the existing elements receive
// the decoded values through Assign, so their declared types stand.
func Restore(src []byte, row *value.ArrayData) error {
	c := &cursor{buf: src}
	n := int(c.uint32())
	if n != row.Count() {
		return errors.Newf(errors.Unexpected,
			"tuple column count %d, destination has %d", n, row.Count())
	}
	for i := 0; i < n; i++ {
		if err := restoreColumn(c, row.Element(i)); err != nil {
			return err
		}
	}
	return nil
}

func restoreColumn(c *cursor, dst value.Data) error {
	header := c.uint32()
	t := value.Type(header >> 16)
	if uint16(header)&flagNull != 0 {
		dst.SetNull()
		return nil
	}
	var decoded value.Data
	switch t {
	case value.TypeInteger:
		decoded = value.NewInteger(int32(c.uint32()))
	case value.TypeUnsignedInteger:
		decoded = value.NewUnsigned(c.uint32())
	case value.TypeBoolean:
		decoded = value.NewBoolean(c.uint32() != 0)
	case value.TypeDate:
		decoded = value.NewDateFromDays(int32(c.uint32()))
	case value.TypeInteger64:
		decoded = value.NewInteger64(int64(c.uint64()))
	case value.TypeUnsignedInteger64:
		decoded = value.NewUnsigned64(c.uint64())
	case value.TypeDouble:
		decoded = value.NewDouble(math.Float64frombits(c.uint64()))
	case value.TypeDateTime:
		decoded = value.NewDateTimeFromMillis(int64(c.uint64()))
	case value.TypeObjectID:
		decoded = value.NewObjectID(value.ObjectID(c.uint64()))
	case value.TypeDecimal:
		unscaled := int64(c.uint64())
		scale := int32(c.uint32())
		decoded = value.NewDecimal(unscaled, scale)
	case value.TypeString:
		n := int(c.uint32())
		units := make([]uint16, n)
		for i := range units {
			units[i] = binary.LittleEndian.Uint16(c.buf[c.off:])
			c.off += 2
		}
		c.off = (c.off + UnitSize - 1) &^ (UnitSize - 1)
		decoded = value.NewStringUnits(units)
	case value.TypeBinary:
		decoded = value.NewBinary(append([]byte(nil), c.bytes()...))
	case value.TypeWord:
		w := value.NewWord(string(c.bytes()))
		w.SetLanguage(string(c.bytes()))
		w.SetCategory(int32(c.uint32()))
		w.SetDf(int32(c.uint32()))
		w.SetScale(math.Float64frombits(c.uint64()))
		decoded = w
	case value.TypeBitSet:
		bits := value.NewBitSet()
		if err := bits.Unmarshal(c.bytes()); err != nil {
			return err
		}
		decoded = bits
	case value.TypeArray:
		sub, ok := dst.(*value.ArrayData)
		if !ok {
			return errors.New(errors.NotCompatible)
		}
		if err := Restore(c.buf[c.off:], sub); err != nil {
			return err
		}
		c.off += Size(sub) * UnitSize
		return nil
	default:
		return errors.Newf(errors.NotSupported, "restore of %s", t)
	}
	return dst.Assign(decoded)
}
