package collection

import (
	"github.com/kasuga-db/kasuga/internal/errors"
	"github.com/kasuga-db/kasuga/internal/program"
	"github.com/kasuga-db/kasuga/internal/serial"
	"github.com/kasuga-db/kasuga/internal/value"
)

// Grouping streams rows while detecting group-key transitions. It holds
// at most the two most recent rows; putData reports a transition so the
// driver drains the finished group before shifting.
type Grouping struct {
	keyPositions []int
	distribute   bool

	first  *value.ArrayData
	second *value.ArrayData

	put groupingPut
	get groupingGet
}

// NewGrouping creates a grouping over the given key columns. With no
// keys and distribute false the collection degenerates to a single-group
// pass-through.
func NewGrouping(keyPositions []int, distribute bool) *Grouping {
	g := &Grouping{keyPositions: keyPositions, distribute: distribute}
	g.put.outer = g
	g.get.outer = g
	return g
}

func (g *Grouping) Explain(p *program.Program, e *program.Explain) {
	e.Put("grouping(")
	for i, k := range g.keyPositions {
		if i > 0 {
			e.Put(",")
		}
		e.PutInt(k)
	}
	e.Put(")")
}

func (g *Grouping) Initialize(p *program.Program) error { return nil }
func (g *Grouping) Terminate(p *program.Program)        { g.Clear() }

func (g *Grouping) Clear() {
	g.first = nil
	g.second = nil
}

func (g *Grouping) IsEmpty() bool { return g.first == nil && g.second == nil }

func (g *Grouping) IsEmptyGrouping() bool {
	return len(g.keyPositions) == 0 && !g.distribute
}

func (g *Grouping) PutInterface() Put { return &g.put }
func (g *Grouping) GetInterface() Get { return &g.get }

func (g *Grouping) ClassID() int32 { return ClassGrouping }

func (g *Grouping) Serialize(a *serial.Archive) error {
	a.Bool(&g.distribute)
	a.IntSlice(&g.keyPositions)
	return a.Err()
}

func (g *Grouping) pushData(d value.Data) error {
	row, ok := value.IsRow(d)
	if !ok {
		return errors.New(errors.Unexpected)
	}
	g.second = row.Copy().(*value.ArrayData)
	return nil
}

// shiftData promotes the second slot into the first and returns the old
// first row, which the get side emits.
func (g *Grouping) shiftData() *value.ArrayData {
	result := g.first
	g.first = g.second
	g.second = nil
	return result
}

// compare reports a group transition: true iff both slots are filled and
// any key column differs.
func (g *Grouping) compare() (bool, error) {
	if g.first == nil || g.second == nil {
		// fewer than two rows buffered; ask for more input
		return false, nil
	}
	for _, k := range g.keyPositions {
		switch g.first.Element(k).Compare(g.second.Element(k)) {
		case 0:
		case -1, 1:
			return true, nil
		default:
			return false, errors.New(errors.Unexpected)
		}
	}
	return false, nil
}

type groupingPut struct {
	putBase
	outer *Grouping
}

func (pt *groupingPut) PutData(p *program.Program, d value.Data) (bool, error) {
	if err := pt.outer.pushData(d); err != nil {
		return false, err
	}
	return pt.outer.compare()
}

// Shift promotes the buffered row after the driver consumed the group
// boundary.
func (pt *groupingPut) Shift(p *program.Program) error {
	pt.outer.shiftData()
	return nil
}

type groupingGet struct {
	getBase
	outer *Grouping
}

func (g *groupingGet) GetData(p *program.Program, d value.Data) (bool, error) {
	row := g.outer.shiftData()
	if row == nil {
		// fewer than two rows are stored
		return false, nil
	}
	if err := assignRow(d, row); err != nil {
		return false, err
	}
	return true, nil
}

func init() {
	serial.Register(ClassGrouping, func() serial.Externalizable { return NewGrouping(nil, false) })
}
