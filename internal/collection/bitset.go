package collection

import (
	"github.com/RoaringBitmap/roaring"

	"github.com/kasuga-db/kasuga/internal/errors"
	"github.com/kasuga-db/kasuga/internal/program"
	"github.com/kasuga-db/kasuga/internal/serial"
	"github.com/kasuga-db/kasuga/internal/value"
)

// DisintegrationMode selects how the collection expands its input. The
// two historical implementations are kept selectable by construction
// parameter.
type DisintegrationMode int32

const (
	// ModeExpand expands a trailing bitset column into one output row
	// per set bit.
	ModeExpand DisintegrationMode = iota
	// ModePairwise buffers already-disintegrated rows pairwise and
	// emits whichever is current.
	ModePairwise
)

// BitsetDisintegration turns a row whose last column is a bitset of row
// ids into a stream of rows whose last column is the unsigned row id of
// each set bit.
type BitsetDisintegration struct {
	mode DisintegrationMode

	source *value.ArrayData
	bits   *value.BitSetData
	iter   roaring.IntPeekable

	pair []*value.ArrayData

	put bitsetPut
	get bitsetGet
}

// NewBitsetDisintegration creates the collection in the given mode.
func NewBitsetDisintegration(mode DisintegrationMode) *BitsetDisintegration {
	b := &BitsetDisintegration{mode: mode}
	b.put.outer = b
	b.get.outer = b
	return b
}

func (b *BitsetDisintegration) Explain(p *program.Program, e *program.Explain) {
	e.Put("bitset disintegration")
}

func (b *BitsetDisintegration) Initialize(p *program.Program) error { return nil }
func (b *BitsetDisintegration) Terminate(p *program.Program)        { b.Clear() }

func (b *BitsetDisintegration) Clear() {
	b.source = nil
	b.bits = nil
	b.iter = nil
	b.pair = nil
}

func (b *BitsetDisintegration) IsEmpty() bool {
	if b.mode == ModePairwise {
		return len(b.pair) == 0
	}
	return b.source == nil
}

func (b *BitsetDisintegration) IsEmptyGrouping() bool { return false }
func (b *BitsetDisintegration) PutInterface() Put     { return &b.put }
func (b *BitsetDisintegration) GetInterface() Get     { return &b.get }

func (b *BitsetDisintegration) ClassID() int32 { return ClassBitsetDisintegration }

func (b *BitsetDisintegration) Serialize(a *serial.Archive) error {
	m := int32(b.mode)
	a.Int32(&m)
	b.mode = DisintegrationMode(m)
	return a.Err()
}

// IsGetNextOperand reports that the current source is exhausted, so the
// surrounding iterator should pull the next input row.
func (b *BitsetDisintegration) IsGetNextOperand() bool {
	if b.mode == ModePairwise {
		return len(b.pair) == 0
	}
	return b.iter == nil || !b.iter.HasNext()
}

func (b *BitsetDisintegration) pushData(d value.Data) error {
	row, ok := value.IsRow(d)
	if !ok {
		return errors.New(errors.Unexpected)
	}
	if b.mode == ModePairwise {
		b.pair = append(b.pair, row.Copy().(*value.ArrayData))
		return nil
	}
	copied := row.Copy().(*value.ArrayData)
	if copied.Count() == 0 {
		return errors.New(errors.Unexpected)
	}
	// the last element is the row ids in bitset form
	last := copied.Element(copied.Count() - 1)
	bits, ok := last.(*value.BitSetData)
	if !ok {
		return errors.New(errors.Unexpected)
	}
	b.source = copied
	b.bits = bits
	b.iter = bits.Iterator()
	return nil
}

func (b *BitsetDisintegration) nextData(dst *value.ArrayData) (bool, error) {
	if b.mode == ModePairwise {
		if len(b.pair) == 0 {
			return false, nil
		}
		row := b.pair[0]
		b.pair = b.pair[1:]
		if err := dst.AssignElements(row); err != nil {
			return false, err
		}
		return true, nil
	}
	if b.iter == nil || !b.iter.HasNext() {
		return false, nil
	}
	if dst.Count() != b.source.Count() {
		return false, errors.New(errors.Unexpected)
	}
	n := dst.Count() - 1
	for i := 0; i < n; i++ {
		if err := dst.Element(i).Assign(b.source.Element(i)); err != nil {
			return false, err
		}
	}
	rowID, ok := dst.Element(n).(*value.UnsignedData)
	if !ok {
		return false, errors.New(errors.Unexpected)
	}
	rowID.SetValue(b.iter.Next())
	return true, nil
}

type bitsetPut struct {
	putBase
	outer *BitsetDisintegration
}

func (pt *bitsetPut) PutData(p *program.Program, d value.Data) (bool, error) {
	if err := pt.outer.pushData(d); err != nil {
		return false, err
	}
	return false, nil
}

func (pt *bitsetPut) Shift(p *program.Program) error { return nil }

type bitsetGet struct {
	getBase
	outer *BitsetDisintegration
}

func (g *bitsetGet) GetData(p *program.Program, d value.Data) (bool, error) {
	row, err := asRow(d)
	if err != nil {
		return false, err
	}
	return g.outer.nextData(row)
}

func init() {
	serial.Register(ClassBitsetDisintegration, func() serial.Externalizable {
		return NewBitsetDisintegration(ModeExpand)
	})
}
