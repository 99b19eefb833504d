package value

import (
	"strconv"

	"github.com/RoaringBitmap/roaring"
)

// BitSetData is a set of 32-bit row ids backed by a roaring bitmap.
type BitSetData struct {
	nullable
	bits *roaring.Bitmap
}

func NewBitSet() *BitSetData {
	return &BitSetData{bits: roaring.New()}
}

// NewBitSetOf builds a bitset over the given row ids.
func NewBitSetOf(rows ...uint32) *BitSetData {
	return &BitSetData{bits: roaring.BitmapOf(rows...)}
}

func (d *BitSetData) Type() Type        { return TypeBitSet }
func (d *BitSetData) ElementType() Type { return TypeUndefined }
func (d *BitSetData) ClassID() int32    { return ClassBitSetData }

func (d *BitSetData) Set(row uint32) {
	d.bits.Add(row)
	d.setNotNull()
}

func (d *BitSetData) Unset(row uint32)     { d.bits.Remove(row) }
func (d *BitSetData) Test(row uint32) bool { return d.bits.Contains(row) }
func (d *BitSetData) Count() uint64        { return d.bits.GetCardinality() }

// Iterator returns an ordered iterator over the set bits.
func (d *BitSetData) Iterator() roaring.IntPeekable { return d.bits.Iterator() }

// MarshalledSize returns the serialized size in bytes.
func (d *BitSetData) MarshalledSize() int { return int(d.bits.GetSerializedSizeInBytes()) }

// Marshal serializes the bitmap payload.
func (d *BitSetData) Marshal() ([]byte, error) { return d.bits.ToBytes() }

// Unmarshal replaces the bitmap payload.
func (d *BitSetData) Unmarshal(buf []byte) error {
	d.bits = roaring.New()
	d.setNotNull()
	return d.bits.UnmarshalBinary(buf)
}

func (d *BitSetData) Assign(src Data) error {
	if src.IsNull() {
		d.SetNull()
		return nil
	}
	if b, ok := src.(*BitSetData); ok {
		d.bits = b.bits.Clone()
		d.setNotNull()
		return nil
	}
	return errNotCompatible(d, src)
}

func (d *BitSetData) Copy() Data {
	return &BitSetData{nullable: d.nullable, bits: d.bits.Clone()}
}

func (d *BitSetData) Compare(other Data) int {
	if r, decided := compareNull(d, other); decided {
		return r
	}
	b, ok := other.(*BitSetData)
	if !ok {
		return compareTypeOrder(d, other)
	}
	if d.bits.Equals(b.bits) {
		return 0
	}
	// order by cardinality, then by the first differing bit
	switch {
	case d.bits.GetCardinality() < b.bits.GetCardinality():
		return -1
	case d.bits.GetCardinality() > b.bits.GetCardinality():
		return 1
	}
	ai, bi := d.bits.Iterator(), b.bits.Iterator()
	for ai.HasNext() && bi.HasNext() {
		av, bv := ai.Next(), bi.Next()
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
	}
	return 0
}

func (d *BitSetData) Equals(other Data) bool { return d.Compare(other) == 0 }

func (d *BitSetData) Hash() uint32 {
	if d.null {
		return nullHash
	}
	var h uint32 = 2166136261
	it := d.bits.Iterator()
	for it.HasNext() {
		h ^= it.Next()
		h *= 16777619
	}
	return h
}

func (d *BitSetData) String() string {
	if d.null {
		return "(null)"
	}
	return "bitset(" + strconv.FormatUint(d.bits.GetCardinality(), 10) + ")"
}

func (d *BitSetData) Serialize(a *Archive) error {
	a.Bool(&d.null)
	if a.IsStoring() {
		buf, err := d.bits.ToBytes()
		if err != nil {
			return err
		}
		a.Bytes(&buf)
		return a.Err()
	}
	var buf []byte
	a.Bytes(&buf)
	if a.Err() != nil {
		return a.Err()
	}
	d.bits = roaring.New()
	return d.bits.UnmarshalBinary(buf)
}
