package collection

import (
	"github.com/kasuga-db/kasuga/internal/arena"
	"github.com/kasuga-db/kasuga/internal/errors"
	"github.com/kasuga-db/kasuga/internal/program"
	"github.com/kasuga-db/kasuga/internal/serial"
	"github.com/kasuga-db/kasuga/internal/tuple"
	"github.com/kasuga-db/kasuga/internal/value"
)

// Store is an append-only in-memory log of rows. Rows are packed into
// the arena on put; the get side cursors forward or random-accesses by
// position.
type Store struct {
	arena   *arena.Arena
	storage [][]byte
	put     storePut
	get     storeGet
}

// NewStore creates a store collection.
func NewStore() *Store {
	s := &Store{arena: arena.New(0)}
	s.put.outer = s
	s.get.outer = s
	s.get.cursor = -1
	return s
}

func (s *Store) Explain(p *program.Program, e *program.Explain) {
	e.Put("store")
}

func (s *Store) Initialize(p *program.Program) error {
	if chunk := int(p.Config().ArenaChunkSize.Bytes()); chunk > 0 && len(s.storage) == 0 {
		s.arena = arena.New(chunk)
	}
	return nil
}

func (s *Store) Terminate(p *program.Program) { s.Clear() }

func (s *Store) Clear() {
	s.storage = nil
	s.arena.Clear()
	s.get.cursor = -1
}

func (s *Store) IsEmpty() bool         { return len(s.storage) == 0 }
func (s *Store) IsEmptyGrouping() bool { return false }
func (s *Store) PutInterface() Put     { return &s.put }
func (s *Store) GetInterface() Get     { return &s.get }

func (s *Store) ClassID() int32 { return ClassStore }

func (s *Store) Serialize(a *serial.Archive) error { return a.Err() }

func (s *Store) add(d value.Data) error {
	row, err := asRow(d)
	if err != nil {
		return err
	}
	size := tuple.Size(row) * tuple.UnitSize
	region := s.arena.Get(size)
	if err := tuple.Dump(region, row); err != nil {
		return err
	}
	s.storage = append(s.storage, region)
	return nil
}

type storePut struct {
	putBase
	outer *Store
}

func (pt *storePut) PutData(p *program.Program, d value.Data) (bool, error) {
	if err := pt.outer.add(d); err != nil {
		return false, err
	}
	return false, nil
}

// GetLastPosition returns the zero-based index of the most recent put.
func (pt *storePut) GetLastPosition() int { return len(pt.outer.storage) - 1 }

type storeGet struct {
	getBase
	outer  *Store
	cursor int
}

func (g *storeGet) GetData(p *program.Program, d value.Data) (bool, error) {
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

// GetDataAt random-accesses the stored row at position.
func (g *storeGet) GetDataAt(p *program.Program, d value.Data, position int) (bool, error) {
	if position < 0 || position >= len(g.outer.storage) {
		return false, errors.Newf(errors.BadArgument, "store position %d", position)
	}
	row, err := asRow(d)
	if err != nil {
		return false, err
	}
	if err := tuple.Restore(g.outer.storage[position], row); err != nil {
		return false, err
	}
	return true, nil
}

// Reset rewinds the cursor without discarding data.
func (g *storeGet) Reset() { g.cursor = -1 }

func init() {
	serial.Register(ClassStore, func() serial.Externalizable { return NewStore() })
}
