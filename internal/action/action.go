// Package action implements the scalar action catalog: arithmetic,
// string functions, choice, copy/assign, normalization, stored-function
// invocation and locator operations. Every action evaluates at most once
// per output row through the done latch.
package action

import (
	"github.com/kasuga-db/kasuga/internal/program"
)

// Class ids 64..127 are reserved for actions.
const (
	ClassArithmetic       int32 = 64
	ClassConcatenate      int32 = 65
	ClassSubString        int32 = 66
	ClassOverlay          int32 = 67
	ClassCharLength       int32 = 68
	ClassOctetLength      int32 = 69
	ClassCardinality      int32 = 70
	ClassElementReference int32 = 71
	ClassGetMax           int32 = 72
	ClassCoalesce         int32 = 73
	ClassCoalesceDefault  int32 = 74
	ClassNullIf           int32 = 75
	ClassCase             int32 = 76
	ClassCopy             int32 = 77
	ClassAssign           int32 = 78
	ClassNormalize        int32 = 79
	ClassExpandSynonym    int32 = 80
	ClassInvoke           int32 = 81
	ClassCurrentTimestamp int32 = 82
	ClassLocatorLength    int32 = 83
	ClassLocatorGet       int32 = 84
	ClassLocatorAppend    int32 = 85
	ClassLocatorTruncate  int32 = 86
	ClassLocatorReplace   int32 = 87
)

// base bundles the done latch with the empty lifecycle methods most
// actions share.
type base struct {
	program.ActionBase
	initialized bool
}

func (b *base) Finish(p *program.Program) error { return nil }
func (b *base) Reset(p *program.Program)        {}

// explainData renders an operand holder when the explain data option is
// on.
func explainData(p *program.Program, e *program.Explain, h *program.Holder) {
	if e.IsOn(program.ExplainData) {
		e.Put(" ")
		h.Explain(p, e)
	}
}
