package action

import (
	"github.com/kasuga-db/kasuga/internal/errors"
	"github.com/kasuga-db/kasuga/internal/program"
	"github.com/kasuga-db/kasuga/internal/serial"
	"github.com/kasuga-db/kasuga/internal/value"
)

// Cardinality evaluates CARDINALITY: the element count of an array.
// Non-array input fails with InvalidCardinality; NULL yields NULL.
type Cardinality struct {
	base
	inData  program.Holder
	outData program.Holder
}

func NewCardinality(inID, outID int) *Cardinality {
	return &Cardinality{inData: program.NewHolder(inID), outData: program.NewHolder(outID)}
}

func (c *Cardinality) ClassID() int32 { return ClassCardinality }

func (c *Cardinality) Explain(p *program.Program, e *program.Explain) {
	e.PushNoNewLine()
	e.Put("cardinality")
	explainData(p, e, &c.inData)
	e.PopNoNewLine()
}

func (c *Cardinality) Initialize(p *program.Program) error {
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

func (c *Cardinality) Terminate(p *program.Program) {
	c.inData.Terminate(p)
	c.outData.Terminate(p)
	c.initialized = false
}

func (c *Cardinality) Execute(p *program.Program) (program.Status, error) {
	if c.IsDone() {
		return program.Success, nil
	}
	in := c.inData.Get()
	out := c.outData.Get()
	if in.IsNull() {
		out.SetNull()
		c.SetDone()
		return program.Success, nil
	}
	arr, ok := in.(*value.ArrayData)
	if !ok {
		return program.Success, errors.New(errors.InvalidCardinality)
	}
	if err := out.Assign(value.NewInteger(int32(arr.Count()))); err != nil {
		return program.Success, err
	}
	c.SetDone()
	return program.Success, nil
}

func (c *Cardinality) Serialize(a *serial.Archive) error {
	c.inData.Serialize(a)
	c.outData.Serialize(a)
	return a.Err()
}

// ElementReference evaluates array[index] with 1-based indexing. An
// out-of-range index fails with BadArrayElement; a NULL operand or
// index yields NULL.
type ElementReference struct {
	base
	inData  program.Holder
	option  program.Holder
	outData program.Holder
}

func NewElementReference(inID, indexID, outID int) *ElementReference {
	return &ElementReference{
		inData:  program.NewHolder(inID),
		option:  program.NewHolder(indexID),
		outData: program.NewHolder(outID),
	}
}

func (r *ElementReference) ClassID() int32 { return ClassElementReference }

func (r *ElementReference) Explain(p *program.Program, e *program.Explain) {
	e.PushNoNewLine()
	e.Put("element")
	explainData(p, e, &r.inData)
	explainData(p, e, &r.option)
	e.PopNoNewLine()
}

func (r *ElementReference) Initialize(p *program.Program) error {
	if r.initialized {
		return nil
	}
	if err := r.inData.Initialize(p); err != nil {
		return err
	}
	if err := r.option.Initialize(p); err != nil {
		return err
	}
	if err := r.outData.Initialize(p); err != nil {
		return err
	}
	r.initialized = true
	return nil
}

func (r *ElementReference) Terminate(p *program.Program) {
	r.inData.Terminate(p)
	r.option.Terminate(p)
	r.outData.Terminate(p)
	r.initialized = false
}

func (r *ElementReference) Execute(p *program.Program) (program.Status, error) {
	if r.IsDone() {
		return program.Success, nil
	}
	in := r.inData.Get()
	out := r.outData.Get()
	if in.IsNull() || r.option.Get().IsNull() {
		out.SetNull()
		r.SetDone()
		return program.Success, nil
	}
	arr, ok := in.(*value.ArrayData)
	if !ok {
		return program.Success, errors.New(errors.NotSupported)
	}
	idx, err := intOperand(r.option.Get())
	if err != nil {
		return program.Success, err
	}
	idx-- // 1-base to 0-base
	if idx < 0 || idx >= arr.Count() {
		return program.Success, errors.New(errors.BadArrayElement)
	}
	if err := out.Assign(arr.Element(idx)); err != nil {
		return program.Success, err
	}
	r.SetDone()
	return program.Success, nil
}

func (r *ElementReference) Serialize(a *serial.Archive) error {
	r.inData.Serialize(a)
	r.option.Serialize(a)
	r.outData.Serialize(a)
	return a.Err()
}

func init() {
	serial.Register(ClassCardinality, func() serial.Externalizable { return NewCardinality(-1, -1) })
	serial.Register(ClassElementReference, func() serial.Externalizable { return NewElementReference(-1, -1, -1) })
}
