package collection

import (
	"sort"

	"github.com/kasuga-db/kasuga/internal/arena"
	"github.com/kasuga-db/kasuga/internal/program"
	"github.com/kasuga-db/kasuga/internal/serial"
	"github.com/kasuga-db/kasuga/internal/tuple"
	"github.com/kasuga-db/kasuga/internal/value"
)

// Sort buffers rows and emits them in key order. Rows are packed into
// the arena on put; the stable sort runs at the first get.
type Sort struct {
	keyPositions  []int
	directions    []int
	wordPositions []int

	arena    *arena.Arena
	storage  [][]byte
	sorted   bool
	template *value.ArrayData
	scratchA *value.ArrayData
	scratchB *value.ArrayData

	put sortPut
	get sortGet
}

// NewSort creates a sort over the given key columns. A nonzero
// direction sorts that key descending. wordPositions selects the
// word-data comparator variant per key: 0 normal, 1 by document
// frequency, 2 by scale.
func NewSort(keyPositions, directions, wordPositions []int) *Sort {
	s := &Sort{
		keyPositions:  keyPositions,
		directions:    directions,
		wordPositions: wordPositions,
		arena:         arena.New(0),
	}
	s.put.outer = s
	s.get.outer = s
	s.get.cursor = -1
	return s
}

func (s *Sort) Explain(p *program.Program, e *program.Explain) {
	e.Put("sort(")
	for i, k := range s.keyPositions {
		if i > 0 {
			e.Put(",")
		}
		e.PutInt(k)
		if i < len(s.directions) && s.directions[i] != 0 {
			e.Put(" desc")
		}
	}
	e.Put(")")
}

func (s *Sort) Initialize(p *program.Program) error {
	if chunk := int(p.Config().ArenaChunkSize.Bytes()); chunk > 0 && len(s.storage) == 0 {
		s.arena = arena.New(chunk)
	}
	return nil
}

func (s *Sort) Terminate(p *program.Program) { s.Clear() }

func (s *Sort) Clear() {
	s.storage = nil
	s.arena.Clear()
	s.sorted = false
	s.template = nil
	s.scratchA = nil
	s.scratchB = nil
	s.get.cursor = -1
}

func (s *Sort) IsEmpty() bool         { return len(s.storage) == 0 }
func (s *Sort) IsEmptyGrouping() bool { return false }
func (s *Sort) PutInterface() Put     { return &s.put }
func (s *Sort) GetInterface() Get     { return &s.get }

func (s *Sort) ClassID() int32 { return ClassSort }

func (s *Sort) Serialize(a *serial.Archive) error {
	a.IntSlice(&s.keyPositions)
	a.IntSlice(&s.directions)
	a.IntSlice(&s.wordPositions)
	return a.Err()
}

func (s *Sort) add(d value.Data) error {
	row, err := asRow(d)
	if err != nil {
		return err
	}
	if s.template == nil {
		s.template = row.Copy().(*value.ArrayData)
		s.scratchA = row.Copy().(*value.ArrayData)
		s.scratchB = row.Copy().(*value.ArrayData)
	}
	size := tuple.Size(row) * tuple.UnitSize
	region := s.arena.Get(size)
	if err := tuple.Dump(region, row); err != nil {
		return err
	}
	s.storage = append(s.storage, region)
	return nil
}

// compareKey compares one key column of two restored rows honoring the
// word-comparator variant.
func (s *Sort) compareKey(a, b *value.ArrayData, idx int) int {
	key := s.keyPositions[idx]
	da, db := a.Element(key), b.Element(key)
	variant := value.WordCompareNormal
	if idx < len(s.wordPositions) {
		variant = value.WordCompare(s.wordPositions[idx])
	}
	if variant != value.WordCompareNormal {
		if w, ok := da.(*value.WordData); ok {
			return w.CompareWord(db, variant)
		}
	}
	return da.Compare(db)
}

func (s *Sort) sortNow() error {
	var restoreErr error
	sort.SliceStable(s.storage, func(i, j int) bool {
		if restoreErr != nil {
			return false
		}
		if err := tuple.Restore(s.storage[i], s.scratchA); err != nil {
			restoreErr = err
			return false
		}
		if err := tuple.Restore(s.storage[j], s.scratchB); err != nil {
			restoreErr = err
			return false
		}
		for k := range s.keyPositions {
			c := s.compareKey(s.scratchA, s.scratchB, k)
			if k < len(s.directions) && s.directions[k] != 0 {
				c = -c
			}
			if c != 0 {
				return c < 0
			}
		}
		return false
	})
	s.sorted = true
	return restoreErr
}

type sortPut struct {
	putBase
	outer *Sort
}

func (pt *sortPut) PutData(p *program.Program, d value.Data) (bool, error) {
	if err := pt.outer.add(d); err != nil {
		return false, err
	}
	return false, nil
}

type sortGet struct {
	getBase
	outer  *Sort
	cursor int
}

func (g *sortGet) GetData(p *program.Program, d value.Data) (bool, error) {
	// sort at the first get
	if !g.outer.sorted {
		if err := g.outer.sortNow(); err != nil {
			return false, err
		}
	}
	next := g.cursor + 1
	if next >= len(g.outer.storage) {
		return false, nil
	}
	g.cursor = next
	row, err := asRow(d)
	if err != nil {
		return false, err
	}
	if err := tuple.Restore(g.outer.storage[next], row); err != nil {
		return false, err
	}
	return true, nil
}

// Reset re-arms the cursor without discarding the sorted data.
func (g *sortGet) Reset() { g.cursor = -1 }

func init() {
	serial.Register(ClassSort, func() serial.Externalizable { return NewSort(nil, nil, nil) })
}
