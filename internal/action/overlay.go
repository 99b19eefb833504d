package action

import (
	"math"

	"github.com/kasuga-db/kasuga/internal/errors"
	"github.com/kasuga-db/kasuga/internal/program"
	"github.com/kasuga-db/kasuga/internal/serial"
	"github.com/kasuga-db/kasuga/internal/value"
)

// Overlay evaluates SQL OVERLAY: the source splits around the placement
// window and the three parts concatenate. Out-of-range windows degrade
// to empty pieces through the shared argument check. NULL placement,
// start or length makes the result NULL; an omitted length defaults to
// the placement's length.
type Overlay struct {
	base
	data      program.Holder
	placement program.Holder
	start     program.Holder
	length    program.Holder // invalid when omitted
	outData   program.Holder
}

func NewOverlay(dataID, placementID, startID, lengthID, outID int) *Overlay {
	return &Overlay{
		data:      program.NewHolder(dataID),
		placement: program.NewHolder(placementID),
		start:     program.NewHolder(startID),
		length:    program.NewHolder(lengthID),
		outData:   program.NewHolder(outID),
	}
}

func (o *Overlay) ClassID() int32 { return ClassOverlay }

func (o *Overlay) Explain(p *program.Program, e *program.Explain) {
	e.PushNoNewLine()
	e.Put("overlay")
	if e.IsOn(program.ExplainData) {
		e.Put(" ")
		o.data.Explain(p, e)
		e.Put(" placing ")
		o.placement.Explain(p, e)
		e.Put(" from ")
		o.start.Explain(p, e)
		if o.length.IsValid() {
			e.Put(" for ")
			o.length.Explain(p, e)
		}
	}
	e.PopNoNewLine()
}

func (o *Overlay) Initialize(p *program.Program) error {
	if o.initialized {
		return nil
	}
	for _, h := range []*program.Holder{&o.data, &o.placement, &o.start, &o.length, &o.outData} {
		if err := h.Initialize(p); err != nil {
			return err
		}
	}
	o.initialized = true
	return nil
}

func (o *Overlay) Terminate(p *program.Program) {
	for _, h := range []*program.Holder{&o.data, &o.placement, &o.start, &o.length, &o.outData} {
		h.Terminate(p)
	}
	o.initialized = false
}

func (o *Overlay) Execute(p *program.Program) (program.Status, error) {
	if o.IsDone() {
		return program.Success, nil
	}
	out := o.outData.Get()
	if o.data.Get().IsNull() || o.placement.Get().IsNull() || o.start.Get().IsNull() ||
		(o.length.IsValid() && o.length.Get().IsNull()) {
		out.SetNull()
		o.SetDone()
		return program.Success, nil
	}
	start, err := intOperand(o.start.Get())
	if err != nil {
		return program.Success, err
	}
	start-- // 1-base to 0-base
	var length int
	if o.length.IsValid() {
		if length, err = intOperand(o.length.Get()); err != nil {
			return program.Success, err
		}
	} else {
		if length, err = placementLength(o.placement.Get()); err != nil {
			return program.Success, err
		}
	}
	if err := o.calculate(start, length, out); err != nil {
		return program.Success, err
	}
	o.SetDone()
	return program.Success, nil
}

func placementLength(d value.Data) (int, error) {
	switch v := d.(type) {
	case *value.StringData:
		return v.Length(), nil
	case *value.BinaryData:
		return v.Size(), nil
	case *value.ArrayData:
		return v.Count(), nil
	}
	return 0, errors.Newf(errors.NotSupported, "overlay placement of %s", d.Type())
}

func (o *Overlay) calculate(start, length int, out value.Data) error {
	switch d := o.data.Get().(type) {
	case *value.StringData:
		placement, ok := o.placement.Get().(*value.StringData)
		if !ok {
			return errors.New(errors.NotCompatible)
		}
		max := d.Length()
		// first part [0, start)
		headStart, headLength := 0, start
		if err := CheckArgument(&headStart, &headLength, max); err != nil {
			return err
		}
		result := d.Substring(headStart, headLength)
		// second part: the placement in full
		result.Connect(placement)
		// last part [start+length, end)
		tailStart, tailLength := start+length, math.MaxInt32
		if err := CheckArgument(&tailStart, &tailLength, max); err != nil {
			return err
		}
		if tailLength > 0 {
			result.Connect(d.Substring(tailStart, tailLength))
		}
		return out.Assign(result)
	case *value.BinaryData:
		placement, ok := o.placement.Get().(*value.BinaryData)
		if !ok {
			return errors.New(errors.NotCompatible)
		}
		max := d.Size()
		headStart, headLength := 0, start
		if err := CheckArgument(&headStart, &headLength, max); err != nil {
			return err
		}
		result := value.NewBinary(append([]byte(nil), d.Value()[headStart:headStart+headLength]...))
		result.Connect(placement.Value())
		tailStart, tailLength := start+length, math.MaxInt32
		if err := CheckArgument(&tailStart, &tailLength, max); err != nil {
			return err
		}
		if tailLength > 0 {
			result.Connect(d.Value()[tailStart : tailStart+tailLength])
		}
		return out.Assign(result)
	case *value.ArrayData:
		placement, ok := o.placement.Get().(*value.ArrayData)
		if !ok {
			return errors.New(errors.NotCompatible)
		}
		max := d.Count()
		headStart, headLength := 0, start
		if err := CheckArgument(&headStart, &headLength, max); err != nil {
			return err
		}
		result := value.NewArray()
		for i := headStart; i < headStart+headLength; i++ {
			result.PushBack(d.Element(i).Copy())
		}
		for i := 0; i < placement.Count(); i++ {
			result.PushBack(placement.Element(i).Copy())
		}
		tailStart, tailLength := start+length, math.MaxInt32
		if err := CheckArgument(&tailStart, &tailLength, max); err != nil {
			return err
		}
		for i := tailStart; i < tailStart+tailLength; i++ {
			result.PushBack(d.Element(i).Copy())
		}
		return out.Assign(result)
	}
	return errors.Newf(errors.NotSupported, "overlay of %s", o.data.Get().Type())
}

func (o *Overlay) Serialize(a *serial.Archive) error {
	o.data.Serialize(a)
	o.placement.Serialize(a)
	o.start.Serialize(a)
	o.length.Serialize(a)
	o.outData.Serialize(a)
	return a.Err()
}

func init() {
	serial.Register(ClassOverlay, func() serial.Externalizable {
		return NewOverlay(-1, -1, -1, -1, -1)
	})
}
