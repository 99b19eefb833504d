package serial_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kasuga-db/kasuga/internal/action"
	"github.com/kasuga-db/kasuga/internal/collection"
	"github.com/kasuga-db/kasuga/internal/serial"
	"github.com/kasuga-db/kasuga/internal/value"
)

func roundTrip(t *testing.T, obj serial.Externalizable) serial.Externalizable {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, serial.NewWriter(&buf).WriteObject(obj))
	restored, err := serial.NewReader(&buf).ReadObject()
	require.NoError(t, err)
	require.NotNil(t, restored)
	require.Equal(t, obj.ClassID(), restored.ClassID())
	return restored
}

func TestPrimitiveFields(t *testing.T) {
	var buf bytes.Buffer
	w := serial.NewWriter(&buf)
	b := true
	i := int32(-5)
	u := uint64(9)
	f := 1.25
	s := "text"
	units := []uint16{0x30A2, 0xFF71}
	ints := []int{3, 1, 2}
	w.Bool(&b)
	w.Int32(&i)
	w.Uint64(&u)
	w.Float64(&f)
	w.String(&s)
	w.UTF16(&units)
	w.IntSlice(&ints)
	require.NoError(t, w.Err())

	r := serial.NewReader(&buf)
	var b2 bool
	var i2 int32
	var u2 uint64
	var f2 float64
	var s2 string
	var units2 []uint16
	var ints2 []int
	r.Bool(&b2)
	r.Int32(&i2)
	r.Uint64(&u2)
	r.Float64(&f2)
	r.String(&s2)
	r.UTF16(&units2)
	r.IntSlice(&ints2)
	require.NoError(t, r.Err())
	require.Equal(t, b, b2)
	require.Equal(t, i, i2)
	require.Equal(t, u, u2)
	require.Equal(t, f, f2)
	require.Equal(t, s, s2)
	require.Equal(t, units, units2)
	require.Equal(t, ints, ints2)
}

func TestNilObjectIsEndOfStream(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, serial.NewWriter(&buf).WriteObject(nil))
	obj, err := serial.NewReader(&buf).ReadObject()
	require.NoError(t, err)
	require.Nil(t, obj)
}

func TestUnknownClassID(t *testing.T) {
	_, err := serial.Instance(30000)
	require.Error(t, err)
}

func TestActionRoundTrip(t *testing.T) {
	a := action.NewArithmetic(value.OpAdd, 1, 2, 3)
	roundTrip(t, a)

	s := action.NewSubString(4, 5, -1, 6)
	roundTrip(t, s)
}

func TestCollectionRoundTrip(t *testing.T) {
	sorted := collection.NewSort([]int{0, 2}, []int{0, 1}, []int{0, 0})
	restored := roundTrip(t, sorted)
	_, ok := restored.(*collection.Sort)
	require.True(t, ok)

	q := collection.NewSafeQueue(16)
	roundTrip(t, q)

	g := collection.NewGrouping([]int{1}, true)
	restoredG := roundTrip(t, g).(*collection.Grouping)
	require.False(t, restoredG.IsEmptyGrouping())
}
