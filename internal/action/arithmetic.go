package action

import (
	"github.com/kasuga-db/kasuga/internal/errors"
	"github.com/kasuga-db/kasuga/internal/program"
	"github.com/kasuga-db/kasuga/internal/serial"
	"github.com/kasuga-db/kasuga/internal/value"
)

// Arithmetic evaluates a unary or binary arithmetic expression. Any
// NULL operand makes the result NULL. Overflow either raises
// NumericValueOutOfRange or demotes to NULL when the configuration says
// overflow-as-null.
type Arithmetic struct {
	base
	op      value.Op
	left    program.Holder
	right   program.Holder // invalid for unary operations
	outData program.Holder
}

// NewArithmetic creates a binary arithmetic action.
func NewArithmetic(op value.Op, leftID, rightID, outID int) *Arithmetic {
	return &Arithmetic{
		op:      op,
		left:    program.NewHolder(leftID),
		right:   program.NewHolder(rightID),
		outData: program.NewHolder(outID),
	}
}

// NewArithmeticUnary creates a unary arithmetic action.
func NewArithmeticUnary(op value.Op, operandID, outID int) *Arithmetic {
	return &Arithmetic{
		op:      op,
		left:    program.NewHolder(operandID),
		right:   program.InvalidHolder(),
		outData: program.NewHolder(outID),
	}
}

func (a *Arithmetic) ClassID() int32 { return ClassArithmetic }

func (a *Arithmetic) Explain(p *program.Program, e *program.Explain) {
	e.PushNoNewLine()
	e.Put(a.op.String())
	explainData(p, e, &a.left)
	if a.right.IsValid() {
		explainData(p, e, &a.right)
	}
	e.PopNoNewLine()
}

func (a *Arithmetic) Initialize(p *program.Program) error {
	if a.initialized {
		return nil
	}
	if err := a.left.Initialize(p); err != nil {
		return err
	}
	if err := a.right.Initialize(p); err != nil {
		return err
	}
	if err := a.outData.Initialize(p); err != nil {
		return err
	}
	a.initialized = true
	return nil
}

func (a *Arithmetic) Terminate(p *program.Program) {
	a.left.Terminate(p)
	a.right.Terminate(p)
	a.outData.Terminate(p)
	a.initialized = false
}

func (a *Arithmetic) Execute(p *program.Program) (program.Status, error) {
	if a.IsDone() {
		return program.Success, nil
	}
	out := a.outData.Get()
	if a.left.Get().IsNull() || (a.right.IsValid() && a.right.Get().IsNull()) {
		out.SetNull()
		a.SetDone()
		return program.Success, nil
	}
	var (
		result value.Data
		ok     bool
		err    error
	)
	if a.right.IsValid() {
		result, ok, err = value.Operate(a.op, a.left.Get(), a.right.Get())
	} else {
		result, ok, err = value.OperateUnary(a.op, a.left.Get())
	}
	if err != nil {
		return program.Success, err
	}
	if !ok {
		if p.Config().OverflowNull {
			// set null instead of raising
			out.SetNull()
			a.SetDone()
			return program.Success, nil
		}
		return program.Success, errors.New(errors.NumericValueOutOfRange)
	}
	if err := out.Assign(result); err != nil {
		return program.Success, err
	}
	a.SetDone()
	return program.Success, nil
}

func (a *Arithmetic) Serialize(ar *serial.Archive) error {
	op := int32(a.op)
	ar.Int32(&op)
	a.op = value.Op(op)
	a.left.Serialize(ar)
	a.right.Serialize(ar)
	a.outData.Serialize(ar)
	return ar.Err()
}

func init() {
	serial.Register(ClassArithmetic, func() serial.Externalizable {
		return &Arithmetic{left: program.InvalidHolder(), right: program.InvalidHolder(), outData: program.InvalidHolder()}
	})
}
