package action

import (
	"github.com/kasuga-db/kasuga/internal/errors"
	"github.com/kasuga-db/kasuga/internal/program"
	"github.com/kasuga-db/kasuga/internal/serial"
	"github.com/kasuga-db/kasuga/internal/value"
)

// Normalize rewrites character data through the program's text
// normalizer. The option operand names the normalization profile. A
// NULL operand or option yields NULL.
type Normalize struct {
	base
	inData  program.StringHolder
	option  program.StringHolder
	outData program.StringHolder
}

func NewNormalize(inID, optionID, outID int) *Normalize {
	return &Normalize{
		inData:  program.NewStringHolder(inID),
		option:  program.NewStringHolder(optionID),
		outData: program.NewStringHolder(outID),
	}
}

func (n *Normalize) ClassID() int32 { return ClassNormalize }

func (n *Normalize) Explain(p *program.Program, e *program.Explain) {
	e.PushNoNewLine()
	e.Put("normalize")
	explainData(p, e, &n.inData.Holder)
	e.PopNoNewLine()
}

func (n *Normalize) Initialize(p *program.Program) error {
	if n.initialized {
		return nil
	}
	if err := n.inData.Initialize(p); err != nil {
		return err
	}
	if err := n.option.Initialize(p); err != nil {
		return err
	}
	if err := n.outData.Initialize(p); err != nil {
		return err
	}
	n.initialized = true
	return nil
}

func (n *Normalize) Terminate(p *program.Program) {
	n.inData.Terminate(p)
	n.option.Terminate(p)
	n.outData.Terminate(p)
	n.initialized = false
}

func (n *Normalize) Execute(p *program.Program) (program.Status, error) {
	if n.IsDone() {
		return program.Success, nil
	}
	in, opt, out := n.inData.GetString(), n.option.GetString(), n.outData.GetString()
	if in.IsNull() || opt.IsNull() {
		out.SetNull()
		n.SetDone()
		return program.Success, nil
	}
	norm := p.Normalizer()
	if norm == nil {
		return program.Success, errors.Newf(errors.NotInitialized, "no text normalizer")
	}
	result, err := norm.Normalize(in.Value(), opt.Value())
	if err != nil {
		return program.Success, err
	}
	out.SetValue(result)
	n.SetDone()
	return program.Success, nil
}

func (n *Normalize) Serialize(a *serial.Archive) error {
	n.inData.Serialize(a)
	n.option.Serialize(a)
	n.outData.Serialize(a)
	return a.Err()
}

// ExpandSynonym produces the synonym alternatives of its input as a
// string array. A NULL operand or option yields NULL; empty input
// yields an empty array.
type ExpandSynonym struct {
	base
	inData  program.StringHolder
	option  program.StringHolder
	outData program.ArrayHolder
}

func NewExpandSynonym(inID, optionID, outID int) *ExpandSynonym {
	return &ExpandSynonym{
		inData:  program.NewStringHolder(inID),
		option:  program.NewStringHolder(optionID),
		outData: program.NewArrayHolder(outID),
	}
}

func (x *ExpandSynonym) ClassID() int32 { return ClassExpandSynonym }

func (x *ExpandSynonym) Explain(p *program.Program, e *program.Explain) {
	e.PushNoNewLine()
	e.Put("expand_synonym")
	explainData(p, e, &x.inData.Holder)
	e.PopNoNewLine()
}

func (x *ExpandSynonym) Initialize(p *program.Program) error {
	if x.initialized {
		return nil
	}
	if err := x.inData.Initialize(p); err != nil {
		return err
	}
	if err := x.option.Initialize(p); err != nil {
		return err
	}
	if err := x.outData.Initialize(p); err != nil {
		return err
	}
	x.initialized = true
	return nil
}

func (x *ExpandSynonym) Terminate(p *program.Program) {
	x.inData.Terminate(p)
	x.option.Terminate(p)
	x.outData.Terminate(p)
	x.initialized = false
}

func (x *ExpandSynonym) Execute(p *program.Program) (program.Status, error) {
	if x.IsDone() {
		return program.Success, nil
	}
	in, opt := x.inData.GetString(), x.option.GetString()
	out := x.outData.GetArray()
	if in.IsNull() || opt.IsNull() {
		out.SetNull()
		x.SetDone()
		return program.Success, nil
	}
	norm := p.Normalizer()
	if norm == nil {
		return program.Success, errors.Newf(errors.NotInitialized, "no text normalizer")
	}
	alternatives, err := norm.Expand(in.Value(), opt.Value())
	if err != nil {
		return program.Success, err
	}
	out.Clear()
	for _, alt := range alternatives {
		out.PushBack(value.NewString(alt))
	}
	x.SetDone()
	return program.Success, nil
}

func (x *ExpandSynonym) Serialize(a *serial.Archive) error {
	x.inData.Serialize(a)
	x.option.Serialize(a)
	x.outData.Serialize(a)
	return a.Err()
}

func init() {
	serial.Register(ClassNormalize, func() serial.Externalizable { return NewNormalize(-1, -1, -1) })
	serial.Register(ClassExpandSynonym, func() serial.Externalizable { return NewExpandSynonym(-1, -1, -1) })
}
