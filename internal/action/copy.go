package action

import (
	"time"

	"github.com/kasuga-db/kasuga/internal/errors"
	"github.com/kasuga-db/kasuga/internal/program"
	"github.com/kasuga-db/kasuga/internal/serial"
	"github.com/kasuga-db/kasuga/internal/value"
)

// Copy clones the input value into the destination slot.
type Copy struct {
	base
	inData  program.Holder
	outData program.Holder
}

func NewCopy(inID, outID int) *Copy {
	return &Copy{inData: program.NewHolder(inID), outData: program.NewHolder(outID)}
}

func (c *Copy) ClassID() int32 { return ClassCopy }

func (c *Copy) Explain(p *program.Program, e *program.Explain) {
	e.PushNoNewLine()
	e.Put("copy")
	explainData(p, e, &c.inData)
	explainData(p, e, &c.outData)
	e.PopNoNewLine()
}

func (c *Copy) Initialize(p *program.Program) error {
	if c.initialized {
		return nil
	}
	if err := c.inData.Initialize(p); err != nil {
		return err
	}
	if err := c.outData.Initialize(p); err != nil {
		return err
	}
	c.initialized = true
	return nil
}

func (c *Copy) Terminate(p *program.Program) {
	c.inData.Terminate(p)
	c.outData.Terminate(p)
	c.initialized = false
}

func (c *Copy) Execute(p *program.Program) (program.Status, error) {
	if c.IsDone() {
		return program.Success, nil
	}
	if err := c.outData.Get().Assign(c.inData.Get().Copy()); err != nil {
		return program.Success, err
	}
	c.SetDone()
	return program.Success, nil
}

func (c *Copy) Serialize(a *serial.Archive) error {
	c.inData.Serialize(a)
	c.outData.Serialize(a)
	return a.Err()
}

// Assign performs an in-place assignment. Row arrays assign element by
// element with matching counts; anything else requires a compatible
// scalar pair.
type Assign struct {
	base
	inData  program.Holder
	outData program.Holder
}

func NewAssign(inID, outID int) *Assign {
	return &Assign{inData: program.NewHolder(inID), outData: program.NewHolder(outID)}
}

func (a *Assign) ClassID() int32 { return ClassAssign }

func (a *Assign) Explain(p *program.Program, e *program.Explain) {
	e.PushNoNewLine()
	e.Put("assign")
	explainData(p, e, &a.inData)
	explainData(p, e, &a.outData)
	e.PopNoNewLine()
}

func (a *Assign) Initialize(p *program.Program) error {
	if a.initialized {
		return nil
	}
	if err := a.inData.Initialize(p); err != nil {
		return err
	}
	if err := a.outData.Initialize(p); err != nil {
		return err
	}
	a.initialized = true
	return nil
}

func (a *Assign) Terminate(p *program.Program) {
	a.inData.Terminate(p)
	a.outData.Terminate(p)
	a.initialized = false
}

func (a *Assign) Execute(p *program.Program) (program.Status, error) {
	if a.IsDone() {
		return program.Success, nil
	}
	in, out := a.inData.Get(), a.outData.Get()
	outRow, outIsRow := value.IsRow(out)
	inRow, inIsRow := value.IsRow(in)
	switch {
	case outIsRow && inIsRow:
		if err := outRow.AssignElements(inRow); err != nil {
			return program.Success, err
		}
	case outIsRow != inIsRow:
		return program.Success, errors.New(errors.NotSupported)
	default:
		if err := out.Assign(in); err != nil {
			return program.Success, err
		}
	}
	a.SetDone()
	return program.Success, nil
}

func (a *Assign) Serialize(ar *serial.Archive) error {
	a.inData.Serialize(ar)
	a.outData.Serialize(ar)
	return ar.Err()
}

// CurrentTimestamp writes the evaluation timestamp into its output. The
// done latch pins the value for the whole row.
type CurrentTimestamp struct {
	base
	outData program.Holder
}

func NewCurrentTimestamp(outID int) *CurrentTimestamp {
	return &CurrentTimestamp{outData: program.NewHolder(outID)}
}

func (c *CurrentTimestamp) ClassID() int32 { return ClassCurrentTimestamp }

func (c *CurrentTimestamp) Explain(p *program.Program, e *program.Explain) {
	e.Put("current_timestamp")
}

func (c *CurrentTimestamp) Initialize(p *program.Program) error {
	if c.initialized {
		return nil
	}
	if err := c.outData.Initialize(p); err != nil {
		return err
	}
	c.initialized = true
	return nil
}

func (c *CurrentTimestamp) Terminate(p *program.Program) {
	c.outData.Terminate(p)
	c.initialized = false
}

func (c *CurrentTimestamp) Execute(p *program.Program) (program.Status, error) {
	if c.IsDone() {
		return program.Success, nil
	}
	if err := c.outData.Get().Assign(value.NewDateTime(time.Now())); err != nil {
		return program.Success, err
	}
	c.SetDone()
	return program.Success, nil
}

func (c *CurrentTimestamp) Serialize(a *serial.Archive) error {
	c.outData.Serialize(a)
	return a.Err()
}

func init() {
	serial.Register(ClassCopy, func() serial.Externalizable { return NewCopy(-1, -1) })
	serial.Register(ClassAssign, func() serial.Externalizable { return NewAssign(-1, -1) })
	serial.Register(ClassCurrentTimestamp, func() serial.Externalizable { return NewCurrentTimestamp(-1) })
}
