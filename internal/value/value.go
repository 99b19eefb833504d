// Package value implements the tagged runtime values flowing between
// actions and collections: scalars, strings, binaries, bitsets, arrays
// and full-text words, each with an explicit NULL bit.
package value

import (
	"github.com/kasuga-db/kasuga/internal/serial"
)

// Type tags the dynamic type of a Data.
type Type int32

const (
	TypeUndefined Type = iota
	TypeNull
	TypeInteger
	TypeUnsignedInteger
	TypeInteger64
	TypeUnsignedInteger64
	TypeDouble
	TypeDecimal
	TypeString
	TypeBinary
	TypeDate
	TypeDateTime
	TypeBoolean
	TypeObjectID
	TypeBitSet
	TypeWord
	TypeArray
	// TypeData is the heterogeneous element type of a row array.
	TypeData
)

var typeNames = map[Type]string{
	TypeUndefined:         "undefined",
	TypeNull:              "null",
	TypeInteger:           "int",
	TypeUnsignedInteger:   "unsigned int",
	TypeInteger64:         "bigint",
	TypeUnsignedInteger64: "unsigned bigint",
	TypeDouble:            "double",
	TypeDecimal:           "decimal",
	TypeString:            "string",
	TypeBinary:            "binary",
	TypeDate:              "date",
	TypeDateTime:          "datetime",
	TypeBoolean:           "bool",
	TypeObjectID:          "objectid",
	TypeBitSet:            "bitset",
	TypeWord:              "word",
	TypeArray:             "array",
	TypeData:              "data",
}

func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return "unknown"
}

// Class ids 1..31 are reserved for value types. Collections use 32..63,
// actions 64..127 and transport frames 128.. .
const (
	ClassNullData       int32 = 1
	ClassIntegerData    int32 = 2
	ClassUnsignedData   int32 = 3
	ClassInteger64Data  int32 = 4
	ClassUnsigned64Data int32 = 5
	ClassDoubleData     int32 = 6
	ClassDecimalData    int32 = 7
	ClassStringData     int32 = 8
	ClassBinaryData     int32 = 9
	ClassDateData       int32 = 10
	ClassDateTimeData   int32 = 11
	ClassBooleanData    int32 = 12
	ClassObjectIDData   int32 = 13
	ClassBitSetData     int32 = 14
	ClassWordData       int32 = 15
	ClassArrayData      int32 = 16
)

// nullHash is the hash of any NULL value.
const nullHash uint32 = 0x9e3779b9

// Data is the common contract of every runtime value.
type Data interface {
	serial.Externalizable

	Type() Type
	// ElementType is meaningful for arrays only; scalars report
	// TypeUndefined.
	ElementType() Type
	IsNull() bool
	SetNull()
	// Assign converts src into the receiver, keeping the receiver's
	// declared type. It fails with NotCompatible when no conversion
	// applies.
	Assign(src Data) error
	// Copy returns an owned deep copy.
	Copy() Data
	// Compare defines a total order. NULL compares equal to NULL and
	// greater than any non-NULL value, so an ascending sort places
	// NULLs last.
	Compare(other Data) int
	Equals(other Data) bool
	Hash() uint32
	String() string
}

// nullable carries the explicit NULL bit shared by all concrete types.
type nullable struct {
	null bool
}

func (n *nullable) IsNull() bool { return n.null }
func (n *nullable) SetNull()     { n.null = true }
func (n *nullable) setNotNull()  { n.null = false }

// compareNull resolves ordering when either side is NULL. The bool result
// is false when both sides are non-NULL and the caller must compare
// payloads.
func compareNull(a, b Data) (int, bool) {
	switch {
	case a.IsNull() && b.IsNull():
		return 0, true
	case a.IsNull():
		return 1, true
	case b.IsNull():
		return -1, true
	}
	return 0, false
}

// EqualsNoCast reports payload equality requiring identical dynamic types.
func EqualsNoCast(a, b Data) bool {
	if a.Type() != b.Type() {
		return false
	}
	return a.Equals(b)
}

// AssignNoCast assigns requiring identical dynamic types.
func AssignNoCast(dst, src Data) error {
	if dst.Type() != src.Type() {
		return errNotCompatible(dst, src)
	}
	return dst.Assign(src)
}

func init() {
	serial.Register(ClassNullData, func() serial.Externalizable { return NewNull() })
	serial.Register(ClassIntegerData, func() serial.Externalizable { return &IntegerData{} })
	serial.Register(ClassUnsignedData, func() serial.Externalizable { return &UnsignedData{} })
	serial.Register(ClassInteger64Data, func() serial.Externalizable { return &Integer64Data{} })
	serial.Register(ClassUnsigned64Data, func() serial.Externalizable { return &Unsigned64Data{} })
	serial.Register(ClassDoubleData, func() serial.Externalizable { return &DoubleData{} })
	serial.Register(ClassDecimalData, func() serial.Externalizable { return &DecimalData{} })
	serial.Register(ClassStringData, func() serial.Externalizable { return &StringData{} })
	serial.Register(ClassBinaryData, func() serial.Externalizable { return &BinaryData{} })
	serial.Register(ClassDateData, func() serial.Externalizable { return &DateData{} })
	serial.Register(ClassDateTimeData, func() serial.Externalizable { return &DateTimeData{} })
	serial.Register(ClassBooleanData, func() serial.Externalizable { return &BooleanData{} })
	serial.Register(ClassObjectIDData, func() serial.Externalizable { return &ObjectIDData{} })
	serial.Register(ClassBitSetData, func() serial.Externalizable { return NewBitSet() })
	serial.Register(ClassWordData, func() serial.Externalizable { return &WordData{} })
	serial.Register(ClassArrayData, func() serial.Externalizable { return NewArray() })
}
