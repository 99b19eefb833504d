package action

import (
	"github.com/kasuga-db/kasuga/internal/errors"
	"github.com/kasuga-db/kasuga/internal/program"
	"github.com/kasuga-db/kasuga/internal/serial"
	"github.com/kasuga-db/kasuga/internal/value"
)

// LengthKind selects CHAR_LENGTH or OCTET_LENGTH counting.
type LengthKind int32

const (
	// CharLength counts string code units and binary bytes.
	CharLength LengthKind = iota
	// OctetLength counts strings at two bytes per code unit.
	OctetLength
)

// Length evaluates CHAR_LENGTH / OCTET_LENGTH. Array input sums the
// per-element lengths. NULL input yields NULL.
type Length struct {
	base
	kind    LengthKind
	inData  program.Holder
	outData program.Holder
}

func NewLength(kind LengthKind, inID, outID int) *Length {
	return &Length{kind: kind, inData: program.NewHolder(inID), outData: program.NewHolder(outID)}
}

func (l *Length) ClassID() int32 {
	if l.kind == OctetLength {
		return ClassOctetLength
	}
	return ClassCharLength
}

func (l *Length) Explain(p *program.Program, e *program.Explain) {
	e.PushNoNewLine()
	if l.kind == OctetLength {
		e.Put("octet_length")
	} else {
		e.Put("char_length")
	}
	explainData(p, e, &l.inData)
	e.PopNoNewLine()
}

func (l *Length) Initialize(p *program.Program) error {
	if l.initialized {
		return nil
	}
	if err := l.inData.Initialize(p); err != nil {
		return err
	}
	if err := l.outData.Initialize(p); err != nil {
		return err
	}
	l.initialized = true
	return nil
}

func (l *Length) Terminate(p *program.Program) {
	l.inData.Terminate(p)
	l.outData.Terminate(p)
	l.initialized = false
}

func (l *Length) Execute(p *program.Program) (program.Status, error) {
	if l.IsDone() {
		return program.Success, nil
	}
	in := l.inData.Get()
	out := l.outData.Get()
	if in.IsNull() {
		out.SetNull()
		l.SetDone()
		return program.Success, nil
	}
	n, err := l.measure(in)
	if err != nil {
		return program.Success, err
	}
	if err := out.Assign(value.NewInteger(int32(n))); err != nil {
		return program.Success, err
	}
	l.SetDone()
	return program.Success, nil
}

func (l *Length) measure(d value.Data) (int, error) {
	switch v := d.(type) {
	case *value.StringData:
		if l.kind == OctetLength {
			return v.Length() * 2, nil
		}
		return v.Length(), nil
	case *value.BinaryData:
		return v.Size(), nil
	case *value.ArrayData:
		total := 0
		for i := 0; i < v.Count(); i++ {
			e := v.Element(i)
			if e.IsNull() {
				continue
			}
			n, err := l.measure(e)
			if err != nil {
				return 0, err
			}
			total += n
		}
		return total, nil
	}
	return 0, errors.Newf(errors.NotSupported, "length of %s", d.Type())
}

func (l *Length) Serialize(a *serial.Archive) error {
	k := int32(l.kind)
	a.Int32(&k)
	l.kind = LengthKind(k)
	l.inData.Serialize(a)
	l.outData.Serialize(a)
	return a.Err()
}

func init() {
	serial.Register(ClassCharLength, func() serial.Externalizable { return NewLength(CharLength, -1, -1) })
	serial.Register(ClassOctetLength, func() serial.Externalizable { return NewLength(OctetLength, -1, -1) })
}
