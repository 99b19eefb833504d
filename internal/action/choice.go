package action

import (
	"github.com/kasuga-db/kasuga/internal/program"
	"github.com/kasuga-db/kasuga/internal/serial"
)

// GetMax picks the maximum among its non-NULL operands under the
// standard compare; ties keep the earliest operand. With every operand
// NULL the result is NULL.
type GetMax struct {
	base
	inData  []program.Holder
	outData program.Holder
}

func NewGetMax(inIDs []int, outID int) *GetMax {
	g := &GetMax{outData: program.NewHolder(outID)}
	for _, id := range inIDs {
		g.inData = append(g.inData, program.NewHolder(id))
	}
	return g
}

func (g *GetMax) ClassID() int32 { return ClassGetMax }

func (g *GetMax) Explain(p *program.Program, e *program.Explain) {
	e.PushNoNewLine()
	e.Put("get_max")
	for i := range g.inData {
		explainData(p, e, &g.inData[i])
	}
	e.PopNoNewLine()
}

func (g *GetMax) Initialize(p *program.Program) error {
	if g.initialized {
		return nil
	}
	for i := range g.inData {
		if err := g.inData[i].Initialize(p); err != nil {
			return err
		}
	}
	if err := g.outData.Initialize(p); err != nil {
		return err
	}
	g.initialized = true
	return nil
}

func (g *GetMax) Terminate(p *program.Program) {
	for i := range g.inData {
		g.inData[i].Terminate(p)
	}
	g.outData.Terminate(p)
	g.initialized = false
}

func (g *GetMax) Execute(p *program.Program) (program.Status, error) {
	if g.IsDone() {
		return program.Success, nil
	}
	found := -1
	for i := range g.inData {
		if g.inData[i].Get().IsNull() {
			continue
		}
		if found < 0 || g.inData[found].Get().Compare(g.inData[i].Get()) < 0 {
			found = i
		}
	}
	if found < 0 {
		g.outData.Get().SetNull()
		g.SetDone()
		return program.Success, nil
	}
	if err := g.outData.Get().Assign(g.inData[found].Get()); err != nil {
		return program.Success, err
	}
	g.SetDone()
	return program.Success, nil
}

func (g *GetMax) Serialize(a *serial.Archive) error {
	n := len(g.inData)
	a.Int(&n)
	if !a.IsStoring() {
		g.inData = make([]program.Holder, n)
	}
	for i := range g.inData {
		g.inData[i].Serialize(a)
	}
	g.outData.Serialize(a)
	return a.Err()
}

// Coalesce picks the first non-NULL of its two operands; the default
// variant substitutes a third value when both are NULL.
type Coalesce struct {
	base
	left       program.Holder
	right      program.Holder
	defaultVal program.Holder // valid only for the default variant
	outData    program.Holder
}

func NewCoalesce(leftID, rightID, outID int) *Coalesce {
	return &Coalesce{
		left:       program.NewHolder(leftID),
		right:      program.NewHolder(rightID),
		defaultVal: program.InvalidHolder(),
		outData:    program.NewHolder(outID),
	}
}

// NewCoalesceDefault creates the variant with a fallback default.
func NewCoalesceDefault(leftID, rightID, defaultID, outID int) *Coalesce {
	c := NewCoalesce(leftID, rightID, outID)
	c.defaultVal = program.NewHolder(defaultID)
	return c
}

func (c *Coalesce) ClassID() int32 {
	if c.defaultVal.IsValid() {
		return ClassCoalesceDefault
	}
	return ClassCoalesce
}

func (c *Coalesce) Explain(p *program.Program, e *program.Explain) {
	e.PushNoNewLine()
	e.Put("coalesce")
	explainData(p, e, &c.left)
	explainData(p, e, &c.right)
	if c.defaultVal.IsValid() {
		explainData(p, e, &c.defaultVal)
	}
	e.PopNoNewLine()
}

func (c *Coalesce) Initialize(p *program.Program) error {
	if c.initialized {
		return nil
	}
	for _, h := range []*program.Holder{&c.left, &c.right, &c.defaultVal, &c.outData} {
		if err := h.Initialize(p); err != nil {
			return err
		}
	}
	c.initialized = true
	return nil
}

func (c *Coalesce) Terminate(p *program.Program) {
	for _, h := range []*program.Holder{&c.left, &c.right, &c.defaultVal, &c.outData} {
		h.Terminate(p)
	}
	c.initialized = false
}

func (c *Coalesce) Execute(p *program.Program) (program.Status, error) {
	if c.IsDone() {
		return program.Success, nil
	}
	out := c.outData.Get()
	var err error
	switch {
	case !c.left.Get().IsNull():
		err = out.Assign(c.left.Get())
	case !c.right.Get().IsNull():
		err = out.Assign(c.right.Get())
	case c.defaultVal.IsValid():
		err = out.Assign(c.defaultVal.Get())
	default:
		out.SetNull()
	}
	if err != nil {
		return program.Success, err
	}
	c.SetDone()
	return program.Success, nil
}

func (c *Coalesce) Serialize(a *serial.Archive) error {
	c.left.Serialize(a)
	c.right.Serialize(a)
	c.defaultVal.Serialize(a)
	c.outData.Serialize(a)
	return a.Err()
}

// NullIf yields NULL when its operands are equal, the first operand
// otherwise.
type NullIf struct {
	base
	left    program.Holder
	right   program.Holder
	outData program.Holder
}

func NewNullIf(leftID, rightID, outID int) *NullIf {
	return &NullIf{
		left:    program.NewHolder(leftID),
		right:   program.NewHolder(rightID),
		outData: program.NewHolder(outID),
	}
}

func (n *NullIf) ClassID() int32 { return ClassNullIf }

func (n *NullIf) Explain(p *program.Program, e *program.Explain) {
	e.PushNoNewLine()
	e.Put("nullif")
	explainData(p, e, &n.left)
	explainData(p, e, &n.right)
	e.PopNoNewLine()
}

func (n *NullIf) Initialize(p *program.Program) error {
	if n.initialized {
		return nil
	}
	for _, h := range []*program.Holder{&n.left, &n.right, &n.outData} {
		if err := h.Initialize(p); err != nil {
			return err
		}
	}
	n.initialized = true
	return nil
}

func (n *NullIf) Terminate(p *program.Program) {
	for _, h := range []*program.Holder{&n.left, &n.right, &n.outData} {
		h.Terminate(p)
	}
	n.initialized = false
}

func (n *NullIf) Execute(p *program.Program) (program.Status, error) {
	if n.IsDone() {
		return program.Success, nil
	}
	out := n.outData.Get()
	left, right := n.left.Get(), n.right.Get()
	if left.IsNull() || right.IsNull() {
		out.SetNull()
		n.SetDone()
		return program.Success, nil
	}
	if left.Equals(right) {
		out.SetNull()
	} else if err := out.Assign(left); err != nil {
		return program.Success, err
	}
	n.SetDone()
	return program.Success, nil
}

func (n *NullIf) Serialize(a *serial.Archive) error {
	n.left.Serialize(a)
	n.right.Serialize(a)
	n.outData.Serialize(a)
	return a.Err()
}

// CaseBranch is one WHEN of a case expression: a predicate action whose
// False status skips the branch, and the result variable assigned when
// the predicate holds.
type CaseBranch struct {
	// Condition may be nil for the ELSE branch.
	Condition program.Action
	ResultID  int
}

// Case evaluates a searched or simple CASE: the first branch whose
// condition succeeds supplies the result; with no match the result is
// NULL.
type Case struct {
	base
	branches []CaseBranch
	results  []program.Holder
	outData  program.Holder
}

func NewCase(branches []CaseBranch, outID int) *Case {
	c := &Case{branches: branches, outData: program.NewHolder(outID)}
	for _, b := range branches {
		c.results = append(c.results, program.NewHolder(b.ResultID))
	}
	return c
}

func (c *Case) ClassID() int32 { return ClassCase }

func (c *Case) Explain(p *program.Program, e *program.Explain) {
	e.PushNoNewLine()
	e.Put("case(")
	e.PutInt(len(c.branches))
	e.Put(" branches)")
	e.PopNoNewLine()
}

func (c *Case) Initialize(p *program.Program) error {
	if c.initialized {
		return nil
	}
	for i := range c.branches {
		if c.branches[i].Condition != nil {
			if err := c.branches[i].Condition.Initialize(p); err != nil {
				return err
			}
		}
		if err := c.results[i].Initialize(p); err != nil {
			return err
		}
	}
	if err := c.outData.Initialize(p); err != nil {
		return err
	}
	c.initialized = true
	return nil
}

func (c *Case) Terminate(p *program.Program) {
	for i := range c.branches {
		if c.branches[i].Condition != nil {
			c.branches[i].Condition.Terminate(p)
		}
		c.results[i].Terminate(p)
	}
	c.outData.Terminate(p)
	c.initialized = false
}

func (c *Case) Execute(p *program.Program) (program.Status, error) {
	if c.IsDone() {
		return program.Success, nil
	}
	out := c.outData.Get()
	for i := range c.branches {
		if cond := c.branches[i].Condition; cond != nil {
			st, err := cond.Execute(p)
			if err != nil {
				return program.Success, err
			}
			if st == program.False {
				continue
			}
		}
		if err := out.Assign(c.results[i].Get()); err != nil {
			return program.Success, err
		}
		c.SetDone()
		return program.Success, nil
	}
	out.SetNull()
	c.SetDone()
	return program.Success, nil
}

func (c *Case) Undone(p *program.Program) {
	c.ActionBase.Undone(p)
	for i := range c.branches {
		if c.branches[i].Condition != nil {
			c.branches[i].Condition.Undone(p)
		}
	}
}

func (c *Case) Serialize(a *serial.Archive) error {
	n := len(c.results)
	a.Int(&n)
	if !a.IsStoring() {
		c.results = make([]program.Holder, n)
		c.branches = make([]CaseBranch, n)
	}
	for i := range c.results {
		c.results[i].Serialize(a)
	}
	c.outData.Serialize(a)
	return a.Err()
}

func init() {
	serial.Register(ClassGetMax, func() serial.Externalizable { return NewGetMax(nil, -1) })
	serial.Register(ClassCoalesce, func() serial.Externalizable { return NewCoalesce(-1, -1, -1) })
	serial.Register(ClassCoalesceDefault, func() serial.Externalizable { return NewCoalesceDefault(-1, -1, -1, -1) })
	serial.Register(ClassNullIf, func() serial.Externalizable { return NewNullIf(-1, -1, -1) })
	serial.Register(ClassCase, func() serial.Externalizable { return NewCase(nil, -1) })
}
