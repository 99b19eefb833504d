package program

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kasuga-db/kasuga/internal/value"
)

func TestHolderResolution(t *testing.T) {
	p := New(nil)
	id := p.AddVariable(value.NewInteger(7))

	h := NewHolder(id)
	require.True(t, h.IsValid())
	require.False(t, h.IsInitialized())
	require.NoError(t, h.Initialize(p))
	require.True(t, h.IsInitialized())
	require.EqualValues(t, 7, h.Get().(*value.IntegerData).Value())

	h.Terminate(p)
	require.False(t, h.IsInitialized())
	require.Nil(t, h.Get())
}

func TestHolderInvalid(t *testing.T) {
	p := New(nil)
	h := InvalidHolder()
	require.False(t, h.IsValid())
	// initializing an invalid holder is a no-op, keeping optional
	// operands optional
	require.NoError(t, h.Initialize(p))
	require.Nil(t, h.Get())
}

func TestHolderUnresolved(t *testing.T) {
	p := New(nil)
	h := NewHolder(3)
	require.Error(t, h.Initialize(p))
}

func TestTypedHolderMismatch(t *testing.T) {
	p := New(nil)
	id := p.AddVariable(value.NewInteger(7))
	h := NewStringHolder(id)
	require.Error(t, h.Initialize(p), "dynamic type check must fail")

	sid := p.AddVariable(value.NewString("ok"))
	sh := NewStringHolder(sid)
	require.NoError(t, sh.Initialize(p))
	require.Equal(t, "ok", sh.GetString().Value())
}

func TestExplainNoNewLine(t *testing.T) {
	e := NewExplain(0)
	e.Put("outer")
	e.PushNoNewLine()
	e.NewLine()
	e.Put("inner")
	e.PopNoNewLine()
	e.NewLine()
	e.Put("next")
	require.Equal(t, "outer inner\nnext", e.String())
}

// countingAction records executions and honors the done latch.
type countingAction struct {
	ActionBase
	count  int
	status Status
}

func (c *countingAction) ClassID() int32               { return 0 }
func (c *countingAction) Explain(*Program, *Explain)   {}
func (c *countingAction) Initialize(*Program) error    { return nil }
func (c *countingAction) Terminate(*Program)           {}
func (c *countingAction) Finish(*Program) error        { return nil }
func (c *countingAction) Reset(*Program)               {}
func (c *countingAction) Serialize(a *value.Archive) error { return nil }

func (c *countingAction) Execute(p *Program) (Status, error) {
	if c.IsDone() {
		return Success, nil
	}
	c.count++
	c.SetDone()
	return c.status, nil
}

func TestActionListStatuses(t *testing.T) {
	p := New(nil)
	first := &countingAction{status: Success}
	second := &countingAction{status: False}
	third := &countingAction{status: Success}
	list := NewActionList(first, second, third)
	require.NoError(t, list.Initialize(p))

	st, err := list.Execute(p)
	require.NoError(t, err)
	require.Equal(t, False, st)
	require.Equal(t, 1, first.count)
	require.Equal(t, 1, second.count)
	require.Equal(t, 0, third.count, "False stops the list")

	// after Undone the next row evaluates everything again
	list.Undone(p)
	st, err = list.Execute(p)
	require.NoError(t, err)
	require.Equal(t, False, st)
	require.Equal(t, 2, first.count)
	require.Equal(t, 2, second.count)
	require.Equal(t, 0, third.count)
}

func TestLocatorLifecycle(t *testing.T) {
	data := value.NewString("abc")
	loc := NewLocator(NewStringLocator(data))
	require.True(t, loc.IsValid())
	loc.Invalidate()
	require.False(t, loc.IsValid())
	loc.Rebind(NewStringLocator(data))
	require.True(t, loc.IsValid())
}

func TestFunctionRegistry(t *testing.T) {
	p := New(nil)
	p.RegisterFunction(&Function{Name: "f", Language: "sql"})
	_, err := p.LookupFunction("f", "sql")
	require.NoError(t, err)
	_, err = p.LookupFunction("f", "java")
	require.Error(t, err)
}
