package errors

import (
	"fmt"
	"testing"
)

func TestKindMatching(t *testing.T) {
	err := New(Cancelled)
	if !Is(err, Cancelled) {
		t.Error("kind must match")
	}
	if Is(err, NotSupported) {
		t.Error("kind must not match a different kind")
	}
	if Is(nil, Cancelled) {
		t.Error("nil matches nothing")
	}
}

func TestWrappedKindSurvives(t *testing.T) {
	inner := Newf(NumericValueOutOfRange, "int32 + 1")
	outer := fmt.Errorf("executing action: %w", inner)
	if !Is(outer, NumericValueOutOfRange) {
		t.Error("kind must be found through wrapping")
	}
	if KindOf(outer) != NumericValueOutOfRange {
		t.Errorf("KindOf = %s", KindOf(outer))
	}
}

func TestMessages(t *testing.T) {
	if got := New(BadArgument).Error(); got != "BadArgument" {
		t.Errorf("bare kind = %q", got)
	}
	if got := Newf(BadArgument, "id %d", 7).Error(); got != "BadArgument: id 7" {
		t.Errorf("message = %q", got)
	}
	wrapped := Wrap(Unexpected, fmt.Errorf("boom"), "draining")
	if KindOf(wrapped) != Unexpected {
		t.Error("wrap must keep the kind")
	}
}
