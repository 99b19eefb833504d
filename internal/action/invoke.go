package action

import (
	"github.com/kasuga-db/kasuga/internal/program"
	"github.com/kasuga-db/kasuga/internal/serial"
)

// Invoke calls a stored function. Initialize compiles the function body
// into a sub-program and starts its single execute iterator; each
// execute feeds the operand row in as the parameter, steps the iterator
// once and assigns the iterator's out-data into the caller's output
// (NULL when the iterator produced nothing).
type Invoke struct {
	base
	name     string
	language string

	operand program.ArrayHolder
	outData program.Holder

	compiled *program.Compiled
}

func NewInvoke(name, language string, operandID, outID int) *Invoke {
	return &Invoke{
		name:     name,
		language: language,
		operand:  program.NewArrayHolder(operandID),
		outData:  program.NewHolder(outID),
	}
}

func (i *Invoke) ClassID() int32 { return ClassInvoke }

func (i *Invoke) Explain(p *program.Program, e *program.Explain) {
	e.PushNoNewLine()
	e.Put("invoke ")
	e.Put(i.name)
	explainData(p, e, &i.operand.Holder)
	e.PopNoNewLine()
}

func (i *Invoke) Initialize(p *program.Program) error {
	if i.initialized {
		return nil
	}
	if err := i.operand.Initialize(p); err != nil {
		return err
	}
	if err := i.outData.Initialize(p); err != nil {
		return err
	}
	fn, err := p.LookupFunction(i.name, i.language)
	if err != nil {
		return err
	}
	compiled, err := fn.Compile()
	if err != nil {
		return err
	}
	if err := compiled.Iterator.Initialize(compiled.Program); err != nil {
		return err
	}
	i.compiled = compiled
	i.initialized = true
	return nil
}

func (i *Invoke) Terminate(p *program.Program) {
	if i.compiled != nil {
		i.compiled.Iterator.Terminate(i.compiled.Program)
		i.compiled = nil
	}
	i.operand.Terminate(p)
	i.outData.Terminate(p)
	i.initialized = false
}

func (i *Invoke) Execute(p *program.Program) (program.Status, error) {
	if i.IsDone() {
		return program.Success, nil
	}
	sub := i.compiled
	param := sub.Program.Variable(sub.ParamID)
	if param != nil {
		if err := param.Assign(i.operand.GetArray()); err != nil {
			return program.Success, err
		}
	}
	ok, err := sub.Iterator.Next(sub.Program)
	if err != nil {
		return program.Success, err
	}
	out := i.outData.Get()
	if !ok {
		out.SetNull()
	} else if result := sub.Program.Variable(sub.OutDataID); result == nil {
		out.SetNull()
	} else if err := out.Assign(result); err != nil {
		return program.Success, err
	}
	i.SetDone()
	return program.Success, nil
}

// Finish forwards to the sub-program iterator.
func (i *Invoke) Finish(p *program.Program) error {
	if i.compiled != nil {
		return i.compiled.Iterator.Finish(i.compiled.Program)
	}
	return nil
}

// Reset re-arms the sub-program iterator.
func (i *Invoke) Reset(p *program.Program) {
	if i.compiled != nil {
		i.compiled.Iterator.Reset(i.compiled.Program)
	}
}

func (i *Invoke) Serialize(a *serial.Archive) error {
	a.String(&i.name)
	a.String(&i.language)
	i.operand.Serialize(a)
	i.outData.Serialize(a)
	return a.Err()
}

func init() {
	serial.Register(ClassInvoke, func() serial.Externalizable { return NewInvoke("", "", -1, -1) })
}
