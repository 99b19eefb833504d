package program

import (
	"github.com/kasuga-db/kasuga/internal/errors"
	"github.com/kasuga-db/kasuga/internal/serial"
	"github.com/kasuga-db/kasuga/internal/value"
)

// LocatorTarget is the storage-side handle to a row-resident large
// object. Positions are zero-based here; the SQL-level 1-based
// adjustment happens in the locator actions.
type LocatorTarget interface {
	Length() int
	Get(start, length int) (value.Data, error)
	Append(v value.Data) error
	Truncate(length int) error
	Replace(v value.Data, start, length int) error
}

// Locator is a borrow of a target whose validity is tied to the owning
// cursor: advancing the cursor invalidates it. Reads through an invalid
// locator produce NULL and writes are ignored by the wrapping action.
type Locator struct {
	target LocatorTarget
	valid  bool
}

// NewLocator wraps a target in a valid locator.
func NewLocator(target LocatorTarget) *Locator {
	return &Locator{target: target, valid: target != nil}
}

// IsValid reports whether the borrow is still alive.
func (l *Locator) IsValid() bool { return l != nil && l.valid && l.target != nil }

// Invalidate is called by the owning cursor when it advances.
func (l *Locator) Invalidate() { l.valid = false }

// Rebind points the locator at a new target, revalidating it.
func (l *Locator) Rebind(target LocatorTarget) {
	l.target = target
	l.valid = target != nil
}

func (l *Locator) Target() LocatorTarget { return l.target }

// StringLocator is a locator target over in-row character data.
type StringLocator struct {
	data *value.StringData
}

func NewStringLocator(data *value.StringData) *StringLocator {
	return &StringLocator{data: data}
}

func (s *StringLocator) Length() int { return s.data.Length() }

func (s *StringLocator) Get(start, length int) (value.Data, error) {
	if start < 0 || length < 0 || start+length > s.data.Length() {
		return nil, errors.New(errors.BadArgument)
	}
	return s.data.Substring(start, length), nil
}

func (s *StringLocator) Append(v value.Data) error {
	str, ok := v.(*value.StringData)
	if !ok {
		return errors.New(errors.NotCompatible)
	}
	s.data.Connect(str)
	return nil
}

func (s *StringLocator) Truncate(length int) error {
	if length < 0 {
		return errors.New(errors.BadArgument)
	}
	if length >= s.data.Length() {
		return nil
	}
	s.data.SetUnits(append([]uint16(nil), s.data.Units()[:length]...))
	return nil
}

func (s *StringLocator) Replace(v value.Data, start, length int) error {
	str, ok := v.(*value.StringData)
	if !ok {
		return errors.New(errors.NotCompatible)
	}
	units := s.data.Units()
	if start < 0 || start > len(units) {
		return errors.New(errors.BadArgument)
	}
	end := start + length
	if end > len(units) {
		end = len(units)
	}
	out := make([]uint16, 0, len(units)-(end-start)+str.Length())
	out = append(out, units[:start]...)
	out = append(out, str.Units()...)
	out = append(out, units[end:]...)
	s.data.SetUnits(out)
	return nil
}

// LocatorHolder late-binds an action to a program locator slot.
type LocatorHolder struct {
	id          int
	locator     *Locator
	initialized bool
}

func NewLocatorHolder(id int) LocatorHolder { return LocatorHolder{id: id} }

func InvalidLocatorHolder() LocatorHolder { return LocatorHolder{id: -1} }

func (h *LocatorHolder) IsValid() bool       { return h.id >= 0 }
func (h *LocatorHolder) IsInitialized() bool { return h.initialized }
func (h *LocatorHolder) ID() int             { return h.id }

func (h *LocatorHolder) Initialize(p *Program) error {
	if h.initialized || h.id < 0 {
		h.initialized = true
		return nil
	}
	loc, err := p.GetLocator(h.id)
	if err != nil {
		return err
	}
	h.locator = loc
	h.initialized = true
	return nil
}

func (h *LocatorHolder) Terminate(p *Program) {
	h.locator = nil
	h.initialized = false
}

func (h *LocatorHolder) GetLocator() *Locator { return h.locator }

func (h *LocatorHolder) Serialize(a *serial.Archive) {
	a.Int(&h.id)
}

func (h *LocatorHolder) Explain(p *Program, e *Explain) {
	e.Put("locator#")
	e.PutInt(h.id)
}
