package collection

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kasuga-db/kasuga/internal/program"
	"github.com/kasuga-db/kasuga/internal/value"
)

func TestBitsetDisintegration(t *testing.T) {
	p := program.New(nil)
	b := NewBitsetDisintegration(ModeExpand)
	require.NoError(t, b.Initialize(p))
	require.True(t, b.IsGetNextOperand(), "fresh collection wants input")

	source := value.NewArrayOf(
		value.NewString("doc"),
		value.NewBitSetOf(3, 7, 11),
	)
	_, err := b.PutInterface().PutData(p, source)
	require.NoError(t, err)
	require.False(t, b.IsGetNextOperand())

	dst := value.NewArrayOf(value.NewString(""), value.NewUnsigned(0))
	var rows []uint32
	get := b.GetInterface()
	for {
		ok, err := get.GetData(p, dst)
		require.NoError(t, err)
		if !ok {
			break
		}
		require.Equal(t, "doc", dst.Element(0).(*value.StringData).Value(),
			"the non-bitset prefix copies into every output row")
		rows = append(rows, dst.Element(1).(*value.UnsignedData).Value())
	}
	require.Equal(t, []uint32{3, 7, 11}, rows)
	require.True(t, b.IsGetNextOperand(), "exhausted iterator asks for the next operand")
}

func TestBitsetDisintegrationRejectsBadRow(t *testing.T) {
	p := program.New(nil)
	b := NewBitsetDisintegration(ModeExpand)
	require.NoError(t, b.Initialize(p))
	_, err := b.PutInterface().PutData(p, intRow(1, 2))
	require.Error(t, err, "the last element must be a bitset")
}

func TestBitsetPairwiseMode(t *testing.T) {
	p := program.New(nil)
	b := NewBitsetDisintegration(ModePairwise)
	require.NoError(t, b.Initialize(p))

	_, err := b.PutInterface().PutData(p, intRow(1))
	require.NoError(t, err)
	_, err = b.PutInterface().PutData(p, intRow(2))
	require.NoError(t, err)

	dst := intRow(0)
	get := b.GetInterface()
	for want := int32(1); want <= 2; want++ {
		ok, err := get.GetData(p, dst)
		require.NoError(t, err)
		require.True(t, ok)
		v, _ := firstInt(t, dst)
		require.Equal(t, want, v)
	}
	ok, err := get.GetData(p, dst)
	require.NoError(t, err)
	require.False(t, ok)
	require.True(t, b.IsGetNextOperand())
}
