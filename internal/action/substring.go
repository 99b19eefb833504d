package action

import (
	"math"

	"github.com/kasuga-db/kasuga/internal/errors"
	"github.com/kasuga-db/kasuga/internal/program"
	"github.com/kasuga-db/kasuga/internal/serial"
	"github.com/kasuga-db/kasuga/internal/value"
)

// CheckArgument normalizes a zero-based (start, length) window against
// maxLength following the SQL SUBSTRING rules. A negative length fails;
// a start at or past the end collapses to the empty window; otherwise
// the window is clamped into [0, maxLength]. It is shared with overlay
// and the locator operations.
func CheckArgument(start, length *int, maxLength int) error {
	if *length < 0 {
		// illegal argument for substring
		return errors.New(errors.SubStringError)
	}
	if *start >= maxLength {
		*start, *length = 0, 0
		return nil
	}
	rest := maxLength - *start
	if rest > *length {
		rest = *length
	}
	end := *start + rest
	start1 := *start
	if start1 < 0 {
		start1 = 0
	}
	end1 := end
	if end1 > maxLength {
		end1 = maxLength
	}
	*length = end1 - start1
	if *length < 0 {
		*length = 0
	}
	*start = start1
	return nil
}

// SubString evaluates SQL SUBSTRING over string, binary or array data.
// The operand's dynamic type picks the specialization at construction.
type SubString struct {
	base
	data    program.Holder
	start   program.Holder
	length  program.Holder // invalid when omitted
	outData program.Holder
}

// NewSubString creates the action; lengthID may be negative when the
// FOR clause is omitted.
func NewSubString(dataID, startID, lengthID, outID int) *SubString {
	return &SubString{
		data:    program.NewHolder(dataID),
		start:   program.NewHolder(startID),
		length:  program.NewHolder(lengthID),
		outData: program.NewHolder(outID),
	}
}

func (s *SubString) ClassID() int32 { return ClassSubString }

func (s *SubString) Explain(p *program.Program, e *program.Explain) {
	e.PushNoNewLine()
	e.Put("substring")
	if e.IsOn(program.ExplainData) {
		e.Put(" ")
		s.data.Explain(p, e)
		e.Put(" from ")
		s.start.Explain(p, e)
		if s.length.IsValid() {
			e.Put(" for ")
			s.length.Explain(p, e)
		}
		e.Put(" to ")
		s.outData.Explain(p, e)
	}
	e.PopNoNewLine()
}

func (s *SubString) Initialize(p *program.Program) error {
	if s.initialized {
		return nil
	}
	if err := s.data.Initialize(p); err != nil {
		return err
	}
	if err := s.start.Initialize(p); err != nil {
		return err
	}
	if err := s.length.Initialize(p); err != nil {
		return err
	}
	if err := s.outData.Initialize(p); err != nil {
		return err
	}
	s.initialized = true
	return nil
}

func (s *SubString) Terminate(p *program.Program) {
	s.data.Terminate(p)
	s.start.Terminate(p)
	s.length.Terminate(p)
	s.outData.Terminate(p)
	s.initialized = false
}

func (s *SubString) Execute(p *program.Program) (program.Status, error) {
	if s.IsDone() {
		return program.Success, nil
	}
	out := s.outData.Get()
	if s.data.Get().IsNull() || s.start.Get().IsNull() ||
		(s.length.IsValid() && s.length.Get().IsNull()) {
		out.SetNull()
		s.SetDone()
		return program.Success, nil
	}
	start, err := intOperand(s.start.Get())
	if err != nil {
		return program.Success, err
	}
	start-- // 1-base to 0-base
	length := math.MaxInt32
	if s.length.IsValid() {
		if length, err = intOperand(s.length.Get()); err != nil {
			return program.Success, err
		}
	}
	if err := s.calculate(start, length, out); err != nil {
		return program.Success, err
	}
	s.SetDone()
	return program.Success, nil
}

func (s *SubString) calculate(start, length int, out value.Data) error {
	switch d := s.data.Get().(type) {
	case *value.StringData:
		if err := CheckArgument(&start, &length, d.Length()); err != nil {
			return err
		}
		return out.Assign(d.Substring(start, length))
	case *value.BinaryData:
		if err := CheckArgument(&start, &length, d.Size()); err != nil {
			return err
		}
		return out.Assign(value.NewBinary(append([]byte(nil), d.Value()[start:start+length]...)))
	case *value.ArrayData:
		if err := CheckArgument(&start, &length, d.Count()); err != nil {
			return err
		}
		sub := value.NewArray()
		for i := start; i < start+length; i++ {
			sub.PushBack(d.Element(i).Copy())
		}
		return out.Assign(sub)
	}
	return errors.Newf(errors.NotSupported, "substring of %s", s.data.Get().Type())
}

func (s *SubString) Serialize(a *serial.Archive) error {
	s.data.Serialize(a)
	s.start.Serialize(a)
	s.length.Serialize(a)
	s.outData.Serialize(a)
	return a.Err()
}

// intOperand reads an int-valued operand.
func intOperand(d value.Data) (int, error) {
	switch v := d.(type) {
	case *value.IntegerData:
		return int(v.Value()), nil
	case *value.UnsignedData:
		return int(v.Value()), nil
	case *value.Integer64Data:
		return int(v.Value()), nil
	}
	return 0, errors.Newf(errors.NotCompatible, "%s is not an integer", d.Type())
}

func init() {
	serial.Register(ClassSubString, func() serial.Externalizable { return NewSubString(-1, -1, -1, -1) })
}
