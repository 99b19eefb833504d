package collection

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kasuga-db/kasuga/internal/program"
	"github.com/kasuga-db/kasuga/internal/value"
)

func intRow(values ...int32) *value.ArrayData {
	row := value.NewArray()
	for _, v := range values {
		row.PushBack(value.NewInteger(v))
	}
	return row
}

func nullIntRow(width int) *value.ArrayData {
	row := value.NewArray()
	for i := 0; i < width; i++ {
		d := value.NewInteger(0)
		d.SetNull()
		row.PushBack(d)
	}
	return row
}

func firstInt(t *testing.T, row *value.ArrayData) (int32, bool) {
	t.Helper()
	d, ok := row.Element(0).(*value.IntegerData)
	require.True(t, ok)
	if d.IsNull() {
		return 0, false
	}
	return d.Value(), true
}

func TestStorePutGet(t *testing.T) {
	p := program.New(nil)
	s := NewStore()
	require.NoError(t, s.Initialize(p))

	put := s.PutInterface().(*storePut)
	for i := int32(0); i < 5; i++ {
		full, err := put.PutData(p, intRow(i, i*10))
		require.NoError(t, err)
		require.False(t, full)
		require.EqualValues(t, i, put.GetLastPosition())
	}

	get := s.GetInterface().(*storeGet)
	dst := intRow(0, 0)
	for i := int32(0); i < 5; i++ {
		ok, err := get.GetData(p, dst)
		require.NoError(t, err)
		require.True(t, ok)
		v, _ := firstInt(t, dst)
		require.Equal(t, i, v)
	}
	ok, err := get.GetData(p, dst)
	require.NoError(t, err)
	require.False(t, ok)

	// positional access
	ok, err = get.GetDataAt(p, dst, 3)
	require.NoError(t, err)
	require.True(t, ok)
	v, _ := firstInt(t, dst)
	require.EqualValues(t, 3, v)

	_, err = get.GetDataAt(p, dst, 99)
	require.Error(t, err)

	// reset rewinds without losing data
	get.Reset()
	ok, err = get.GetData(p, dst)
	require.NoError(t, err)
	require.True(t, ok)
	v, _ = firstInt(t, dst)
	require.EqualValues(t, 0, v)

	s.Clear()
	require.True(t, s.IsEmpty())
	ok, err = get.GetData(p, dst)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestStoreRejectsScalar(t *testing.T) {
	p := program.New(nil)
	s := NewStore()
	require.NoError(t, s.Initialize(p))
	_, err := s.PutInterface().PutData(p, value.NewInteger(1))
	require.Error(t, err)
}
