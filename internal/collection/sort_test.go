package collection

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kasuga-db/kasuga/internal/program"
	"github.com/kasuga-db/kasuga/internal/value"
)

func drainSort(t *testing.T, p *program.Program, s *Sort, width int) [][]int32 {
	t.Helper()
	get := s.GetInterface()
	dst := intRow(make([]int32, width)...)
	var out [][]int32
	for {
		ok, err := get.GetData(p, dst)
		require.NoError(t, err)
		if !ok {
			return out
		}
		row := make([]int32, width)
		for i := range row {
			row[i] = dst.Element(i).(*value.IntegerData).Value()
		}
		out = append(out, row)
	}
}

func TestSortAscendingNullsLast(t *testing.T) {
	p := program.New(nil)
	s := NewSort([]int{0}, []int{0}, nil)
	require.NoError(t, s.Initialize(p))

	put := s.PutInterface()
	rows := []*value.ArrayData{
		intRow(3), nullIntRow(1), intRow(1), intRow(2), nullIntRow(1),
	}
	for _, r := range rows {
		_, err := put.PutData(p, r)
		require.NoError(t, err)
	}

	get := s.GetInterface()
	dst := intRow(0)
	var got []string
	for {
		ok, err := get.GetData(p, dst)
		require.NoError(t, err)
		if !ok {
			break
		}
		if v, notNull := firstInt(t, dst); notNull {
			got = append(got, string(rune('0'+v)))
		} else {
			got = append(got, "null")
		}
	}
	require.Equal(t, []string{"1", "2", "3", "null", "null"}, got)
}

func TestSortDescending(t *testing.T) {
	p := program.New(nil)
	s := NewSort([]int{0}, []int{1}, nil)
	require.NoError(t, s.Initialize(p))
	for _, v := range []int32{5, 1, 4, 2} {
		_, err := s.PutInterface().PutData(p, intRow(v))
		require.NoError(t, err)
	}
	got := drainSort(t, p, s, 1)
	require.Equal(t, [][]int32{{5}, {4}, {2}, {1}}, got)
}

func TestSortStablePermutation(t *testing.T) {
	p := program.New(nil)
	s := NewSort([]int{0}, []int{0}, nil)
	require.NoError(t, s.Initialize(p))

	// second column tags input order; equal keys must keep it
	input := [][]int32{{2, 0}, {1, 1}, {2, 2}, {1, 3}, {2, 4}}
	for _, r := range input {
		_, err := s.PutInterface().PutData(p, intRow(r...))
		require.NoError(t, err)
	}
	got := drainSort(t, p, s, 2)
	require.Equal(t, [][]int32{{1, 1}, {1, 3}, {2, 0}, {2, 2}, {2, 4}}, got)
	require.Len(t, got, len(input), "output must be a permutation of input")
}

func TestSortMultiKey(t *testing.T) {
	p := program.New(nil)
	s := NewSort([]int{0, 1}, []int{0, 1}, nil)
	require.NoError(t, s.Initialize(p))
	input := [][]int32{{1, 1}, {0, 5}, {1, 9}, {0, 2}}
	for _, r := range input {
		_, err := s.PutInterface().PutData(p, intRow(r...))
		require.NoError(t, err)
	}
	got := drainSort(t, p, s, 2)
	require.Equal(t, [][]int32{{0, 5}, {0, 2}, {1, 9}, {1, 1}}, got)
}

func TestSortReset(t *testing.T) {
	p := program.New(nil)
	s := NewSort([]int{0}, []int{0}, nil)
	require.NoError(t, s.Initialize(p))
	for _, v := range []int32{2, 1} {
		_, err := s.PutInterface().PutData(p, intRow(v))
		require.NoError(t, err)
	}
	first := drainSort(t, p, s, 1)
	s.GetInterface().Reset()
	second := drainSort(t, p, s, 1)
	require.Equal(t, first, second)
}

func TestSortWordComparators(t *testing.T) {
	mkRow := func(term string, df int32, scale float64) *value.ArrayData {
		w := value.NewWord(term)
		w.SetDf(df)
		w.SetScale(scale)
		return value.NewArrayOf(w)
	}

	p := program.New(nil)
	// wordPosition 1 selects the document-frequency comparator
	s := NewSort([]int{0}, []int{0}, []int{1})
	require.NoError(t, s.Initialize(p))
	for _, r := range []*value.ArrayData{
		mkRow("zz", 1, 0), mkRow("aa", 3, 0), mkRow("mm", 2, 0),
	} {
		_, err := s.PutInterface().PutData(p, r)
		require.NoError(t, err)
	}
	get := s.GetInterface()
	dst := value.NewArrayOf(value.NewWord(""))
	var dfs []int32
	for {
		ok, err := get.GetData(p, dst)
		require.NoError(t, err)
		if !ok {
			break
		}
		dfs = append(dfs, dst.Element(0).(*value.WordData).Df())
	}
	require.Equal(t, []int32{1, 2, 3}, dfs)
}
