package action

import (
	"github.com/kasuga-db/kasuga/internal/errors"
	"github.com/kasuga-db/kasuga/internal/program"
	"github.com/kasuga-db/kasuga/internal/serial"
	"github.com/kasuga-db/kasuga/internal/value"
)

// Concatenate joins two values of the same container type: string,
// binary or array. The any-type form dispatches on the runtime type.
// NULL in either operand yields NULL; mismatched types fail with
// NotCompatible.
type Concatenate struct {
	base
	left    program.Holder
	right   program.Holder
	outData program.Holder
}

func NewConcatenate(leftID, rightID, outID int) *Concatenate {
	return &Concatenate{
		left:    program.NewHolder(leftID),
		right:   program.NewHolder(rightID),
		outData: program.NewHolder(outID),
	}
}

func (c *Concatenate) ClassID() int32 { return ClassConcatenate }

func (c *Concatenate) Explain(p *program.Program, e *program.Explain) {
	e.PushNoNewLine()
	e.Put("||")
	explainData(p, e, &c.left)
	explainData(p, e, &c.right)
	e.PopNoNewLine()
}

func (c *Concatenate) Initialize(p *program.Program) error {
	if c.initialized {
		return nil
	}
	if err := c.left.Initialize(p); err != nil {
		return err
	}
	if err := c.right.Initialize(p); err != nil {
		return err
	}
	if err := c.outData.Initialize(p); err != nil {
		return err
	}
	c.initialized = true
	return nil
}

func (c *Concatenate) Terminate(p *program.Program) {
	c.left.Terminate(p)
	c.right.Terminate(p)
	c.outData.Terminate(p)
	c.initialized = false
}

func (c *Concatenate) Execute(p *program.Program) (program.Status, error) {
	if c.IsDone() {
		return program.Success, nil
	}
	left, right := c.left.Get(), c.right.Get()
	out := c.outData.Get()
	if left.IsNull() || right.IsNull() {
		out.SetNull()
		c.SetDone()
		return program.Success, nil
	}
	var result value.Data
	switch l := left.(type) {
	case *value.StringData:
		r, ok := right.(*value.StringData)
		if !ok {
			return program.Success, errors.New(errors.NotCompatible)
		}
		joined := l.Copy().(*value.StringData)
		joined.Connect(r)
		result = joined
	case *value.BinaryData:
		r, ok := right.(*value.BinaryData)
		if !ok {
			return program.Success, errors.New(errors.NotCompatible)
		}
		joined := l.Copy().(*value.BinaryData)
		joined.Connect(r.Value())
		result = joined
	case *value.ArrayData:
		r, ok := right.(*value.ArrayData)
		if !ok {
			return program.Success, errors.New(errors.NotCompatible)
		}
		joined := l.Copy().(*value.ArrayData)
		joined.Connect(r)
		result = joined
	default:
		return program.Success, errors.Newf(errors.NotCompatible,
			"concatenate of %s", left.Type())
	}
	if err := out.Assign(result); err != nil {
		return program.Success, err
	}
	c.SetDone()
	return program.Success, nil
}

func (c *Concatenate) Serialize(a *serial.Archive) error {
	c.left.Serialize(a)
	c.right.Serialize(a)
	c.outData.Serialize(a)
	return a.Err()
}

func init() {
	serial.Register(ClassConcatenate, func() serial.Externalizable { return NewConcatenate(-1, -1, -1) })
}
