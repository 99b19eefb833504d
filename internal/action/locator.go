package action

import (
	"math"

	"github.com/kasuga-db/kasuga/internal/program"
	"github.com/kasuga-db/kasuga/internal/serial"
	"github.com/kasuga-db/kasuga/internal/value"
)

// The locator operations wrap a locator holder. When the locator is
// invalid or a required option is NULL they degrade: reads set the
// result NULL, writes become no-ops.

// locatorBase shares the holder plumbing of the five operations.
type locatorBase struct {
	base
	locator program.LocatorHolder
}

func (l *locatorBase) initHolders(p *program.Program, holders ...*program.Holder) error {
	if err := l.locator.Initialize(p); err != nil {
		return err
	}
	for _, h := range holders {
		if err := h.Initialize(p); err != nil {
			return err
		}
	}
	return nil
}

func (l *locatorBase) isValid() bool {
	loc := l.locator.GetLocator()
	return loc.IsValid()
}

// LocatorLength reads the target length.
type LocatorLength struct {
	locatorBase
	outData program.Holder
}

func NewLocatorLength(locatorID, outID int) *LocatorLength {
	return &LocatorLength{
		locatorBase: locatorBase{locator: program.NewLocatorHolder(locatorID)},
		outData:     program.NewHolder(outID),
	}
}

func (l *LocatorLength) ClassID() int32 { return ClassLocatorLength }

func (l *LocatorLength) Explain(p *program.Program, e *program.Explain) {
	e.Put("locator length")
}

func (l *LocatorLength) Initialize(p *program.Program) error {
	if l.initialized {
		return nil
	}
	if err := l.initHolders(p, &l.outData); err != nil {
		return err
	}
	l.initialized = true
	return nil
}

func (l *LocatorLength) Terminate(p *program.Program) {
	l.locator.Terminate(p)
	l.outData.Terminate(p)
	l.initialized = false
}

func (l *LocatorLength) Execute(p *program.Program) (program.Status, error) {
	if l.IsDone() {
		return program.Success, nil
	}
	out := l.outData.Get()
	if !l.isValid() {
		out.SetNull()
		l.SetDone()
		return program.Success, nil
	}
	n := l.locator.GetLocator().Target().Length()
	if err := out.Assign(value.NewUnsigned(uint32(n))); err != nil {
		return program.Success, err
	}
	l.SetDone()
	return program.Success, nil
}

func (l *LocatorLength) Serialize(a *serial.Archive) error {
	l.locator.Serialize(a)
	l.outData.Serialize(a)
	return a.Err()
}

// LocatorGet reads a window of the target. A missing start means the
// beginning; a missing length means the rest.
type LocatorGet struct {
	locatorBase
	start   program.Holder
	length  program.Holder
	outData program.Holder
}

func NewLocatorGet(locatorID, startID, lengthID, outID int) *LocatorGet {
	return &LocatorGet{
		locatorBase: locatorBase{locator: program.NewLocatorHolder(locatorID)},
		start:       program.NewHolder(startID),
		length:      program.NewHolder(lengthID),
		outData:     program.NewHolder(outID),
	}
}

func (l *LocatorGet) ClassID() int32 { return ClassLocatorGet }

func (l *LocatorGet) Explain(p *program.Program, e *program.Explain) {
	e.Put("locator get")
}

func (l *LocatorGet) Initialize(p *program.Program) error {
	if l.initialized {
		return nil
	}
	if err := l.initHolders(p, &l.start, &l.length, &l.outData); err != nil {
		return err
	}
	l.initialized = true
	return nil
}

func (l *LocatorGet) Terminate(p *program.Program) {
	l.locator.Terminate(p)
	l.start.Terminate(p)
	l.length.Terminate(p)
	l.outData.Terminate(p)
	l.initialized = false
}

func (l *LocatorGet) Execute(p *program.Program) (program.Status, error) {
	if l.IsDone() {
		return program.Success, nil
	}
	out := l.outData.Get()
	if !l.isValid() ||
		(l.start.IsValid() && l.start.Get().IsNull()) ||
		(l.length.IsValid() && l.length.Get().IsNull()) {
		out.SetNull()
		l.SetDone()
		return program.Success, nil
	}
	target := l.locator.GetLocator().Target()
	start := 0
	length := math.MaxInt32
	if l.start.IsValid() {
		v, err := intOperand(l.start.Get())
		if err != nil {
			return program.Success, err
		}
		start = v - 1 // the argument check needs 0-base
	}
	if l.length.IsValid() {
		v, err := intOperand(l.length.Get())
		if err != nil {
			return program.Success, err
		}
		length = v
	}
	maxLength := target.Length()
	if err := CheckArgument(&start, &length, maxLength); err != nil {
		return program.Success, err
	}
	result, err := target.Get(start, length)
	if err != nil {
		return program.Success, err
	}
	if err := out.Assign(result); err != nil {
		return program.Success, err
	}
	l.SetDone()
	return program.Success, nil
}

func (l *LocatorGet) Serialize(a *serial.Archive) error {
	l.locator.Serialize(a)
	l.start.Serialize(a)
	l.length.Serialize(a)
	l.outData.Serialize(a)
	return a.Err()
}

// LocatorAppend appends a value to the target.
type LocatorAppend struct {
	locatorBase
	appendData program.Holder
}

func NewLocatorAppend(locatorID, dataID int) *LocatorAppend {
	return &LocatorAppend{
		locatorBase: locatorBase{locator: program.NewLocatorHolder(locatorID)},
		appendData:  program.NewHolder(dataID),
	}
}

func (l *LocatorAppend) ClassID() int32 { return ClassLocatorAppend }

func (l *LocatorAppend) Explain(p *program.Program, e *program.Explain) {
	e.Put("locator append")
}

func (l *LocatorAppend) Initialize(p *program.Program) error {
	if l.initialized {
		return nil
	}
	if err := l.initHolders(p, &l.appendData); err != nil {
		return err
	}
	l.initialized = true
	return nil
}

func (l *LocatorAppend) Terminate(p *program.Program) {
	l.locator.Terminate(p)
	l.appendData.Terminate(p)
	l.initialized = false
}

func (l *LocatorAppend) Execute(p *program.Program) (program.Status, error) {
	if l.IsDone() {
		return program.Success, nil
	}
	if !l.isValid() || l.appendData.Get().IsNull() {
		// invalid locator: the operation is silently ignored
		l.SetDone()
		return program.Success, nil
	}
	if err := l.locator.GetLocator().Target().Append(l.appendData.Get()); err != nil {
		return program.Success, err
	}
	l.SetDone()
	return program.Success, nil
}

func (l *LocatorAppend) Serialize(a *serial.Archive) error {
	l.locator.Serialize(a)
	l.appendData.Serialize(a)
	return a.Err()
}

// LocatorTruncate shortens the target; a missing length truncates
// nothing beyond the maximum window.
type LocatorTruncate struct {
	locatorBase
	truncateLength program.Holder
}

func NewLocatorTruncate(locatorID, lengthID int) *LocatorTruncate {
	return &LocatorTruncate{
		locatorBase:    locatorBase{locator: program.NewLocatorHolder(locatorID)},
		truncateLength: program.NewHolder(lengthID),
	}
}

func (l *LocatorTruncate) ClassID() int32 { return ClassLocatorTruncate }

func (l *LocatorTruncate) Explain(p *program.Program, e *program.Explain) {
	e.Put("locator truncate")
}

func (l *LocatorTruncate) Initialize(p *program.Program) error {
	if l.initialized {
		return nil
	}
	if err := l.initHolders(p, &l.truncateLength); err != nil {
		return err
	}
	l.initialized = true
	return nil
}

func (l *LocatorTruncate) Terminate(p *program.Program) {
	l.locator.Terminate(p)
	l.truncateLength.Terminate(p)
	l.initialized = false
}

func (l *LocatorTruncate) Execute(p *program.Program) (program.Status, error) {
	if l.IsDone() {
		return program.Success, nil
	}
	if !l.isValid() ||
		(l.truncateLength.IsValid() && l.truncateLength.Get().IsNull()) {
		l.SetDone()
		return program.Success, nil
	}
	length := math.MaxInt32
	if l.truncateLength.IsValid() {
		v, err := intOperand(l.truncateLength.Get())
		if err != nil {
			return program.Success, err
		}
		length = v
	}
	target := l.locator.GetLocator().Target()
	if length > target.Length() {
		length = target.Length()
	}
	if err := target.Truncate(length); err != nil {
		return program.Success, err
	}
	l.SetDone()
	return program.Success, nil
}

func (l *LocatorTruncate) Serialize(a *serial.Archive) error {
	l.locator.Serialize(a)
	l.truncateLength.Serialize(a)
	return a.Err()
}

// LocatorReplace overwrites a window of the target with the placement
// value. The head and tail windows bound through the shared argument
// check so out-of-range arguments degrade instead of failing.
type LocatorReplace struct {
	locatorBase
	placement program.Holder
	start     program.Holder
	length    program.Holder
}

func NewLocatorReplace(locatorID, placementID, startID, lengthID int) *LocatorReplace {
	return &LocatorReplace{
		locatorBase: locatorBase{locator: program.NewLocatorHolder(locatorID)},
		placement:   program.NewHolder(placementID),
		start:       program.NewHolder(startID),
		length:      program.NewHolder(lengthID),
	}
}

func (l *LocatorReplace) ClassID() int32 { return ClassLocatorReplace }

func (l *LocatorReplace) Explain(p *program.Program, e *program.Explain) {
	e.Put("locator replace")
}

func (l *LocatorReplace) Initialize(p *program.Program) error {
	if l.initialized {
		return nil
	}
	if err := l.initHolders(p, &l.placement, &l.start, &l.length); err != nil {
		return err
	}
	l.initialized = true
	return nil
}

func (l *LocatorReplace) Terminate(p *program.Program) {
	l.locator.Terminate(p)
	l.placement.Terminate(p)
	l.start.Terminate(p)
	l.length.Terminate(p)
	l.initialized = false
}

func (l *LocatorReplace) Execute(p *program.Program) (program.Status, error) {
	if l.IsDone() {
		return program.Success, nil
	}
	if !l.isValid() || l.placement.Get().IsNull() ||
		(l.start.IsValid() && l.start.Get().IsNull()) ||
		(l.length.IsValid() && l.length.Get().IsNull()) {
		l.SetDone()
		return program.Success, nil
	}
	target := l.locator.GetLocator().Target()
	maxLength := target.Length()
	start := 0
	if l.start.IsValid() {
		v, err := intOperand(l.start.Get())
		if err != nil {
			return program.Success, err
		}
		start = v - 1
	}
	length, err := placementLength(l.placement.Get())
	if err != nil {
		return program.Success, err
	}
	if l.length.IsValid() {
		if length, err = intOperand(l.length.Get()); err != nil {
			return program.Success, err
		}
	}
	if err := CheckArgument(&start, &length, maxLength); err != nil {
		return program.Success, err
	}
	if err := target.Replace(l.placement.Get(), start, length); err != nil {
		return program.Success, err
	}
	l.SetDone()
	return program.Success, nil
}

func (l *LocatorReplace) Serialize(a *serial.Archive) error {
	l.locator.Serialize(a)
	l.placement.Serialize(a)
	l.start.Serialize(a)
	l.length.Serialize(a)
	return a.Err()
}

func init() {
	serial.Register(ClassLocatorLength, func() serial.Externalizable { return NewLocatorLength(-1, -1) })
	serial.Register(ClassLocatorGet, func() serial.Externalizable { return NewLocatorGet(-1, -1, -1, -1) })
	serial.Register(ClassLocatorAppend, func() serial.Externalizable { return NewLocatorAppend(-1, -1) })
	serial.Register(ClassLocatorTruncate, func() serial.Externalizable { return NewLocatorTruncate(-1, -1) })
	serial.Register(ClassLocatorReplace, func() serial.Externalizable { return NewLocatorReplace(-1, -1, -1, -1) })
}
