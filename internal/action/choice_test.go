package action

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kasuga-db/kasuga/internal/errors"
	"github.com/kasuga-db/kasuga/internal/program"
	"github.com/kasuga-db/kasuga/internal/value"
)

func TestGetMax(t *testing.T) {
	p := program.New(nil)
	null := value.NewInteger(0)
	null.SetNull()
	ids := []int{
		p.AddVariable(value.NewInteger(3)),
		p.AddVariable(null),
		p.AddVariable(value.NewInteger(7)),
		p.AddVariable(value.NewInteger(7)),
	}
	outID := p.AddVariable(value.NewInteger(0))
	require.NoError(t, runAction(t, p, NewGetMax(ids, outID)))
	require.EqualValues(t, 7, p.Variable(outID).(*value.IntegerData).Value())
}

func TestGetMaxAllNull(t *testing.T) {
	p := program.New(nil)
	a := value.NewInteger(0)
	a.SetNull()
	b := value.NewInteger(0)
	b.SetNull()
	outID := p.AddVariable(value.NewInteger(1))
	require.NoError(t, runAction(t, p,
		NewGetMax([]int{p.AddVariable(a), p.AddVariable(b)}, outID)))
	require.True(t, p.Variable(outID).IsNull())
}

func TestCoalesce(t *testing.T) {
	p := program.New(nil)
	null := value.NewInteger(0)
	null.SetNull()
	nullID := p.AddVariable(null)
	sevenID := p.AddVariable(value.NewInteger(7))
	outID := p.AddVariable(value.NewInteger(0))

	require.NoError(t, runAction(t, p, NewCoalesce(nullID, sevenID, outID)))
	require.EqualValues(t, 7, p.Variable(outID).(*value.IntegerData).Value())

	// both null without default -> null
	null2 := value.NewInteger(0)
	null2.SetNull()
	null2ID := p.AddVariable(null2)
	out2ID := p.AddVariable(value.NewInteger(0))
	require.NoError(t, runAction(t, p, NewCoalesce(nullID, null2ID, out2ID)))
	require.True(t, p.Variable(out2ID).IsNull())

	// the default variant substitutes
	defID := p.AddVariable(value.NewInteger(42))
	out3ID := p.AddVariable(value.NewInteger(0))
	require.NoError(t, runAction(t, p, NewCoalesceDefault(nullID, null2ID, defID, out3ID)))
	require.EqualValues(t, 42, p.Variable(out3ID).(*value.IntegerData).Value())
}

func TestNullIf(t *testing.T) {
	p := program.New(nil)
	aID := p.AddVariable(value.NewInteger(5))
	bID := p.AddVariable(value.NewInteger(5))
	cID := p.AddVariable(value.NewInteger(6))

	outID := p.AddVariable(value.NewInteger(0))
	require.NoError(t, runAction(t, p, NewNullIf(aID, bID, outID)))
	require.True(t, p.Variable(outID).IsNull(), "equal operands yield NULL")

	out2ID := p.AddVariable(value.NewInteger(0))
	require.NoError(t, runAction(t, p, NewNullIf(aID, cID, out2ID)))
	require.EqualValues(t, 5, p.Variable(out2ID).(*value.IntegerData).Value())
}

// falseAction is a predicate stub returning a fixed status.
type falseAction struct {
	base
	status program.Status
}

func (f *falseAction) ClassID() int32                                { return 0 }
func (f *falseAction) Explain(*program.Program, *program.Explain)    {}
func (f *falseAction) Initialize(*program.Program) error             { return nil }
func (f *falseAction) Terminate(*program.Program)                    {}
func (f *falseAction) Serialize(a *value.Archive) error              { return nil }
func (f *falseAction) Execute(*program.Program) (program.Status, error) {
	return f.status, nil
}

func TestCase(t *testing.T) {
	p := program.New(nil)
	r1 := p.AddVariable(value.NewString("first"))
	r2 := p.AddVariable(value.NewString("second"))
	outID := p.AddVariable(value.NewString(""))

	c := NewCase([]CaseBranch{
		{Condition: &falseAction{status: program.False}, ResultID: r1},
		{Condition: &falseAction{status: program.Success}, ResultID: r2},
	}, outID)
	require.NoError(t, runAction(t, p, c))
	require.Equal(t, "second", p.Variable(outID).(*value.StringData).Value())

	// no branch matches: NULL
	out2ID := p.AddVariable(value.NewString(""))
	c2 := NewCase([]CaseBranch{
		{Condition: &falseAction{status: program.False}, ResultID: r1},
	}, out2ID)
	require.NoError(t, runAction(t, p, c2))
	require.True(t, p.Variable(out2ID).IsNull())

	// an ELSE branch has no condition
	out3ID := p.AddVariable(value.NewString(""))
	c3 := NewCase([]CaseBranch{
		{Condition: &falseAction{status: program.False}, ResultID: r1},
		{Condition: nil, ResultID: r2},
	}, out3ID)
	require.NoError(t, runAction(t, p, c3))
	require.Equal(t, "second", p.Variable(out3ID).(*value.StringData).Value())
}

func TestCardinalityAndElementReference(t *testing.T) {
	p := program.New(nil)
	arrID := p.AddVariable(value.NewArrayOf(
		value.NewInteger(10), value.NewInteger(20), value.NewInteger(30)))
	outID := p.AddVariable(value.NewInteger(0))

	require.NoError(t, runAction(t, p, NewCardinality(arrID, outID)))
	require.EqualValues(t, 3, p.Variable(outID).(*value.IntegerData).Value())

	// CARDINALITY of a non-array fails
	scalarID := p.AddVariable(value.NewInteger(1))
	err := runAction(t, p, NewCardinality(scalarID, p.AddVariable(value.NewInteger(0))))
	require.True(t, errors.Is(err, errors.InvalidCardinality))

	// 1-based element reference
	idx2 := p.AddVariable(value.NewInteger(2))
	ref2 := p.AddVariable(value.NewInteger(0))
	require.NoError(t, runAction(t, p, NewElementReference(arrID, idx2, ref2)))
	require.EqualValues(t, 20, p.Variable(ref2).(*value.IntegerData).Value())

	idx4 := p.AddVariable(value.NewInteger(4))
	err = runAction(t, p, NewElementReference(arrID, idx4, p.AddVariable(value.NewInteger(0))))
	require.True(t, errors.Is(err, errors.BadArrayElement))
}

func TestLengthKinds(t *testing.T) {
	p := program.New(nil)
	strID := p.AddVariable(value.NewString("abc"))
	outID := p.AddVariable(value.NewInteger(0))
	require.NoError(t, runAction(t, p, NewLength(CharLength, strID, outID)))
	require.EqualValues(t, 3, p.Variable(outID).(*value.IntegerData).Value())

	octID := p.AddVariable(value.NewInteger(0))
	require.NoError(t, runAction(t, p, NewLength(OctetLength, strID, octID)))
	require.EqualValues(t, 6, p.Variable(octID).(*value.IntegerData).Value(),
		"strings count two bytes per code unit")

	binID := p.AddVariable(value.NewBinary([]byte{1, 2, 3, 4, 5}))
	binOutID := p.AddVariable(value.NewInteger(0))
	require.NoError(t, runAction(t, p, NewLength(OctetLength, binID, binOutID)))
	require.EqualValues(t, 5, p.Variable(binOutID).(*value.IntegerData).Value())

	// arrays sum their elements
	arrID := p.AddVariable(value.NewArrayOf(value.NewString("ab"), value.NewString("cde")))
	arrOutID := p.AddVariable(value.NewInteger(0))
	require.NoError(t, runAction(t, p, NewLength(CharLength, arrID, arrOutID)))
	require.EqualValues(t, 5, p.Variable(arrOutID).(*value.IntegerData).Value())
}

func TestConcatenate(t *testing.T) {
	p := program.New(nil)
	aID := p.AddVariable(value.NewString("foo"))
	bID := p.AddVariable(value.NewString("bar"))
	outID := p.AddVariable(value.NewString(""))
	require.NoError(t, runAction(t, p, NewConcatenate(aID, bID, outID)))
	require.Equal(t, "foobar", p.Variable(outID).(*value.StringData).Value())

	// mismatched container types are not compatible
	binID := p.AddVariable(value.NewBinary([]byte{1}))
	err := runAction(t, p, NewConcatenate(aID, binID, p.AddVariable(value.NewString(""))))
	require.True(t, errors.Is(err, errors.NotCompatible))

	// NULL operand yields NULL
	null := value.NewString("")
	null.SetNull()
	nullID := p.AddVariable(null)
	nullOutID := p.AddVariable(value.NewString(""))
	require.NoError(t, runAction(t, p, NewConcatenate(aID, nullID, nullOutID)))
	require.True(t, p.Variable(nullOutID).IsNull())
}

func TestCopyAndAssign(t *testing.T) {
	p := program.New(nil)
	srcID := p.AddVariable(value.NewString("payload"))
	dstID := p.AddVariable(value.NewString(""))
	require.NoError(t, runAction(t, p, NewCopy(srcID, dstID)))
	require.Equal(t, "payload", p.Variable(dstID).(*value.StringData).Value())

	// row assignment is element-wise with matching counts
	rowSrcID := p.AddVariable(value.NewArrayOf(value.NewInteger(1), value.NewString("x")))
	rowDstID := p.AddVariable(value.NewArrayOf(value.NewInteger(0), value.NewString("")))
	require.NoError(t, runAction(t, p, NewAssign(rowSrcID, rowDstID)))
	dst := p.Variable(rowDstID).(*value.ArrayData)
	require.EqualValues(t, 1, dst.Element(0).(*value.IntegerData).Value())

	shortID := p.AddVariable(value.NewArrayOf(value.NewInteger(0)))
	err := runAction(t, p, NewAssign(rowSrcID, shortID))
	require.True(t, errors.Is(err, errors.NotSupported))
}
