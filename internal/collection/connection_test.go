package collection

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kasuga-db/kasuga/internal/program"
	"github.com/kasuga-db/kasuga/internal/transport"
	"github.com/kasuga-db/kasuga/internal/value"
)

func TestConnectionShipsRows(t *testing.T) {
	p := program.New(nil)
	pipe := transport.NewPipe(16)
	id := p.AddConnection(pipe)

	c := NewConnection(id)
	require.NoError(t, c.Initialize(p))

	put := c.PutInterface()
	for i := int32(0); i < 3; i++ {
		_, err := put.PutData(p, intRow(i))
		require.NoError(t, err)
	}
	require.EqualValues(t, 3, p.SendRows().Value())

	// finish terminates the stream with the nil marker
	require.NoError(t, put.Finish(p))

	var got []int32
	for {
		obj, err := pipe.ReadObject()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		row, ok := obj.(*value.ArrayData)
		require.True(t, ok)
		got = append(got, row.Element(0).(*value.IntegerData).Value())
	}
	require.Equal(t, []int32{0, 1, 2}, got)

	c.Terminate(p)
}

func TestConnectionUnknownID(t *testing.T) {
	p := program.New(nil)
	c := NewConnection(5)
	require.Error(t, c.Initialize(p))
}
