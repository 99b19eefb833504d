package program

import (
	"github.com/kasuga-db/kasuga/internal/serial"
)

// Status is the result of one action execution.
type Status int

const (
	// Success means the action completed and the list continues.
	Success Status = iota
	// False means a predicate failed; the current row is dropped.
	False
	// Break leaves the enclosing action list.
	Break
	// Continue restarts the enclosing action list.
	Continue
)

// Action is one unit of computation over one output row.
type Action interface {
	serial.Externalizable

	Explain(p *Program, e *Explain)
	// Initialize binds holders and allocates per-run state; it is
	// idempotent.
	Initialize(p *Program) error
	Terminate(p *Program)
	// Execute performs the work once per row; a second call before
	// Undone short-circuits through the done latch.
	Execute(p *Program) (Status, error)
	Finish(p *Program) error
	Reset(p *Program)
	Undone(p *Program)
}

// ActionBase carries the done latch shared by every action. The latch
// encodes the common-subexpression rule: a reused expression evaluates
// once per output tuple.
type ActionBase struct {
	done bool
}

// IsDone reports whether the action already ran for this row.
func (b *ActionBase) IsDone() bool { return b.done }

// SetDone latches the action for this row.
func (b *ActionBase) SetDone() { b.done = true }

// Undone clears the latch between rows.
func (b *ActionBase) Undone(p *Program) { b.done = false }

// ActionList drives a sequence of actions for one row.
type ActionList struct {
	actions []Action
}

func NewActionList(actions ...Action) *ActionList {
	return &ActionList{actions: actions}
}

func (l *ActionList) Add(a Action) { l.actions = append(l.actions, a) }

func (l *ActionList) Len() int { return len(l.actions) }

// Initialize initializes every action in order.
func (l *ActionList) Initialize(p *Program) error {
	for _, a := range l.actions {
		if err := a.Initialize(p); err != nil {
			return err
		}
	}
	return nil
}

// Terminate terminates every action; it never fails.
func (l *ActionList) Terminate(p *Program) {
	for _, a := range l.actions {
		a.Terminate(p)
	}
}

// Execute runs the list for one row, honoring Break/Continue/False.
func (l *ActionList) Execute(p *Program) (Status, error) {
	for _, a := range l.actions {
		st, err := a.Execute(p)
		if err != nil {
			return st, err
		}
		switch st {
		case Success:
		case False, Break, Continue:
			return st, nil
		}
	}
	return Success, nil
}

// Finish propagates finish.
func (l *ActionList) Finish(p *Program) error {
	for _, a := range l.actions {
		if err := a.Finish(p); err != nil {
			return err
		}
	}
	return nil
}

// Reset returns every action to its post-initialize state.
func (l *ActionList) Reset(p *Program) {
	for _, a := range l.actions {
		a.Reset(p)
	}
}

// Undone clears every done latch; called between rows.
func (l *ActionList) Undone(p *Program) {
	for _, a := range l.actions {
		a.Undone(p)
	}
}

// Explain renders one action per line.
func (l *ActionList) Explain(p *Program, e *Explain) {
	for _, a := range l.actions {
		a.Explain(p, e)
		e.NewLine()
	}
}
