package collection

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kasuga-db/kasuga/internal/program"
	"github.com/kasuga-db/kasuga/internal/transport"
	"github.com/kasuga-db/kasuga/internal/value"
)

// The scenario mirrors the runtime's shape: buffered rows sort, the
// sorted stream deduplicates per group key, and one row per group ships
// to the client connection.
func TestSortGroupConnectionPipeline(t *testing.T) {
	p := program.New(nil)
	pipe := transport.NewPipe(32)
	connID := p.AddConnection(pipe)

	sorter := NewSort([]int{0}, []int{0}, nil)
	grouping := NewGrouping([]int{0}, false)
	sink := NewConnection(connID)
	for _, c := range []Collection{sorter, grouping, sink} {
		require.NoError(t, c.Initialize(p))
	}

	input := [][]int32{{2, 20}, {1, 10}, {2, 21}, {1, 11}}
	for _, r := range input {
		_, err := sorter.PutInterface().PutData(p, intRow(r...))
		require.NoError(t, err)
	}

	// drive sorted rows through the grouping into the sink
	row := intRow(0, 0)
	groupPut := grouping.PutInterface()
	groupGet := grouping.GetInterface()
	sinkPut := sink.PutInterface()
	emit := func() {
		out := intRow(0, 0)
		ok, err := groupGet.GetData(p, out)
		require.NoError(t, err)
		if ok {
			_, err = sinkPut.PutData(p, out)
			require.NoError(t, err)
		}
	}
	for {
		ok, err := sorter.GetInterface().GetData(p, row)
		require.NoError(t, err)
		if !ok {
			break
		}
		changed, err := groupPut.PutData(p, row)
		require.NoError(t, err)
		if changed {
			emit()
		} else {
			require.NoError(t, groupPut.Shift(p))
		}
	}
	// drain the trailing rows and terminate the stream
	emit()
	emit()
	require.NoError(t, sinkPut.Finish(p))

	var got [][]int32
	for {
		obj, err := pipe.ReadObject()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		r := obj.(*value.ArrayData)
		got = append(got, []int32{
			r.Element(0).(*value.IntegerData).Value(),
			r.Element(1).(*value.IntegerData).Value(),
		})
	}
	// grouping keeps the most recent row of each group; the transition
	// and the final drain ship exactly one row per group
	require.Equal(t, [][]int32{{1, 11}, {2, 21}}, got)
	require.EqualValues(t, 2, p.SendRows().Value())
}

func TestCollectionExplain(t *testing.T) {
	p := program.New(nil)
	e := program.NewExplain(0)
	NewSort([]int{0, 1}, []int{0, 1}, nil).Explain(p, e)
	e.NewLine()
	NewSafeQueue(8).Explain(p, e)
	e.NewLine()
	NewGrouping([]int{2}, false).Explain(p, e)
	require.Equal(t, "sort(0,1 desc)\nsafe queue\ngrouping(2)", e.String())
}
