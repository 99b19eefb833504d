package program

import (
	"github.com/kasuga-db/kasuga/internal/errors"
	"github.com/kasuga-db/kasuga/internal/serial"
	"github.com/kasuga-db/kasuga/internal/value"
)

// Holder is a late-binding reference from an action to a program
// variable slot. Only the id is serialized; Initialize resolves it
// against the program's variable table.
type Holder struct {
	id          int
	data        value.Data
	initialized bool
}

// NewHolder creates a holder bound to a variable id; a negative id is
// the invalid holder.
func NewHolder(id int) Holder { return Holder{id: id} }

// InvalidHolder is an unset holder.
func InvalidHolder() Holder { return Holder{id: -1} }

// IsValid reports whether the holder references a slot at all.
func (h *Holder) IsValid() bool { return h.id >= 0 }

// IsInitialized reports whether Initialize resolved the slot.
func (h *Holder) IsInitialized() bool { return h.initialized }

// ID returns the variable id.
func (h *Holder) ID() int { return h.id }

// Initialize resolves the id to the variable slot. Resolving an invalid
// holder is a no-op so optional operands stay optional.
func (h *Holder) Initialize(p *Program) error {
	if h.initialized || h.id < 0 {
		h.initialized = true
		return nil
	}
	d := p.Variable(h.id)
	if d == nil {
		return errors.Newf(errors.BadArgument, "unresolved variable %d", h.id)
	}
	h.data = d
	h.initialized = true
	return nil
}

// Terminate drops the resolved pointer.
func (h *Holder) Terminate(p *Program) {
	h.data = nil
	h.initialized = false
}

// Get returns the resolved value.
func (h *Holder) Get() value.Data { return h.data }

// Serialize persists only the id.
func (h *Holder) Serialize(a *serial.Archive) {
	a.Int(&h.id)
}

// Explain renders the holder reference.
func (h *Holder) Explain(p *Program, e *Explain) {
	e.Put("#")
	e.PutInt(h.id)
	if h.initialized && h.data != nil {
		e.Put("=")
		e.Put(h.data.String())
	}
}

// typed holders specialize the Get return type while sharing the slot
// resolution. Each checks the dynamic type at initialize.

// ArrayHolder resolves to a row array.
type ArrayHolder struct {
	Holder
	array *value.ArrayData
}

func NewArrayHolder(id int) ArrayHolder { return ArrayHolder{Holder: NewHolder(id)} }

func (h *ArrayHolder) Initialize(p *Program) error {
	if err := h.Holder.Initialize(p); err != nil {
		return err
	}
	if h.data == nil {
		return nil
	}
	a, ok := h.data.(*value.ArrayData)
	if !ok {
		return errors.Newf(errors.NotCompatible, "variable %d is %s, not array",
			h.id, h.data.Type())
	}
	h.array = a
	return nil
}

func (h *ArrayHolder) Terminate(p *Program) {
	h.array = nil
	h.Holder.Terminate(p)
}

func (h *ArrayHolder) GetArray() *value.ArrayData { return h.array }

// StringHolder resolves to character data.
type StringHolder struct {
	Holder
	str *value.StringData
}

func NewStringHolder(id int) StringHolder { return StringHolder{Holder: NewHolder(id)} }

func (h *StringHolder) Initialize(p *Program) error {
	if err := h.Holder.Initialize(p); err != nil {
		return err
	}
	if h.data == nil {
		return nil
	}
	s, ok := h.data.(*value.StringData)
	if !ok {
		return errors.Newf(errors.NotCompatible, "variable %d is %s, not string",
			h.id, h.data.Type())
	}
	h.str = s
	return nil
}

func (h *StringHolder) Terminate(p *Program) {
	h.str = nil
	h.Holder.Terminate(p)
}

func (h *StringHolder) GetString() *value.StringData { return h.str }

// IntegerHolder resolves to int data.
type IntegerHolder struct {
	Holder
	i *value.IntegerData
}

func NewIntegerHolder(id int) IntegerHolder { return IntegerHolder{Holder: NewHolder(id)} }

func (h *IntegerHolder) Initialize(p *Program) error {
	if err := h.Holder.Initialize(p); err != nil {
		return err
	}
	if h.data == nil {
		return nil
	}
	i, ok := h.data.(*value.IntegerData)
	if !ok {
		return errors.Newf(errors.NotCompatible, "variable %d is %s, not int",
			h.id, h.data.Type())
	}
	h.i = i
	return nil
}

func (h *IntegerHolder) Terminate(p *Program) {
	h.i = nil
	h.Holder.Terminate(p)
}

func (h *IntegerHolder) GetInteger() *value.IntegerData { return h.i }

// UnsignedHolder resolves to unsigned int data.
type UnsignedHolder struct {
	Holder
	u *value.UnsignedData
}

func NewUnsignedHolder(id int) UnsignedHolder { return UnsignedHolder{Holder: NewHolder(id)} }

func (h *UnsignedHolder) Initialize(p *Program) error {
	if err := h.Holder.Initialize(p); err != nil {
		return err
	}
	if h.data == nil {
		return nil
	}
	u, ok := h.data.(*value.UnsignedData)
	if !ok {
		return errors.Newf(errors.NotCompatible, "variable %d is %s, not unsigned",
			h.id, h.data.Type())
	}
	h.u = u
	return nil
}

func (h *UnsignedHolder) Terminate(p *Program) {
	h.u = nil
	h.Holder.Terminate(p)
}

func (h *UnsignedHolder) GetUnsigned() *value.UnsignedData { return h.u }

// BinaryHolder resolves to binary data.
type BinaryHolder struct {
	Holder
	b *value.BinaryData
}

func NewBinaryHolder(id int) BinaryHolder { return BinaryHolder{Holder: NewHolder(id)} }

func (h *BinaryHolder) Initialize(p *Program) error {
	if err := h.Holder.Initialize(p); err != nil {
		return err
	}
	if h.data == nil {
		return nil
	}
	b, ok := h.data.(*value.BinaryData)
	if !ok {
		return errors.Newf(errors.NotCompatible, "variable %d is %s, not binary",
			h.id, h.data.Type())
	}
	h.b = b
	return nil
}

func (h *BinaryHolder) Terminate(p *Program) {
	h.b = nil
	h.Holder.Terminate(p)
}

func (h *BinaryHolder) GetBinary() *value.BinaryData { return h.b }
