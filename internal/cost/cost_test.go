package cost

import (
	"math"
	"testing"
)

func TestValueSaturation(t *testing.T) {
	if !NewValue(-5).Less(NewValue(1)) {
		t.Error("negative input must clamp to zero")
	}
	if NewValue(-5).Get() != 0 {
		t.Error("negative clamps to zero")
	}
	if !Infinity().IsInfinity() {
		t.Error("infinity flag lost")
	}
	if got := NewValue(1).Add(Infinity()); !got.IsInfinity() {
		t.Error("addition must saturate to infinity")
	}
	if got := NewValue(1).Div(NewValue(0)); !got.IsInfinity() {
		t.Error("division by zero must saturate to infinity")
	}
	if got := NewValue(1).Sub(NewValue(5)); got.Get() != 0 {
		t.Errorf("negative result must clamp, got %v", got.Get())
	}
	if got := NewValue(math.MaxFloat64).Mul(NewValue(math.MaxFloat64)); !got.IsInfinity() {
		t.Error("overflow must saturate")
	}
}

func TestValueCompare(t *testing.T) {
	if Infinity().Compare(NewValue(math.MaxFloat64/2)) != 1 {
		t.Error("infinity must compare as the maximum")
	}
	if Infinity().Compare(Infinity()) != 0 {
		t.Error("infinity equals infinity")
	}
	if NewValue(1).Compare(NewValue(2)) != -1 {
		t.Error("ordering broken")
	}
}

func TestValueLog(t *testing.T) {
	// log adds one before the logarithm so zero stays zero
	if got := NewValue(0).Log().Get(); got != 0 {
		t.Errorf("log(0) = %v", got)
	}
	if got := NewValue(math.E - 1).Log().Get(); math.Abs(got-1) > 1e-12 {
		t.Errorf("log(e-1) = %v", got)
	}
	if got := Infinity().Log(); got.IsInfinity() || got.Get() != 0 {
		t.Errorf("log(inf) must degrade to zero, got %v", got)
	}
}

func TestCalculateValue(t *testing.T) {
	c := New()
	c.Overhead = NewValue(10)
	c.Startup = NewValue(5)
	c.TotalCost = NewValue(100)
	c.RetrieveCost = NewValue(1)
	c.TupleSize = NewValue(64)
	c.SetTupleCount(NewValue(50))

	// repeat = startup + (process + retrieve) * min(limit, count)
	process := 100.0 / 50.0
	want := 10 + 5 + (process+1)*50
	if got := c.CalculateValue().Get(); math.Abs(got-want) > 1e-9 {
		t.Errorf("calculateValue = %v, want %v", got, want)
	}

	limited := New()
	limited.Startup = NewValue(5)
	limited.TotalCost = NewValue(100)
	limited.TupleSize = NewValue(64)
	limited.SetTupleCount(NewValue(50))
	limited.LimitCount = NewValue(10)
	wantLimited := 5 + (process+0)*10
	if got := limited.CalculateValue().Get(); math.Abs(got-wantLimited) > 1e-9 {
		t.Errorf("limited calculateValue = %v, want %v", got, wantLimited)
	}
}

func TestAddSortingCost(t *testing.T) {
	c := New()
	c.TotalCost = NewValue(100)
	c.TupleSize = NewValue(64)
	c.SetTupleCount(NewValue(1000))

	before := c.Startup.Get()
	c.AddSortingCost(4e9, 1e8, 16e6)
	if c.Startup.Get() <= before {
		t.Error("sorting must charge startup")
	}

	// a single tuple sorts for free
	single := New()
	single.TotalCost = NewValue(100)
	single.SetTupleCount(NewValue(1))
	single.AddSortingCost(4e9, 1e8, 16e6)
	if single.Startup.Get() != 0 {
		t.Error("single-tuple sort must not charge")
	}

	// crossing the threshold switches to the slower bandwidth
	small := New()
	small.TotalCost = NewValue(100)
	small.TupleSize = NewValue(64)
	small.SetTupleCount(NewValue(1000))
	small.AddSortingCost(4e9, 1e8, 1)
	if small.Startup.Get() <= c.Startup.Get() {
		t.Error("above the threshold the penalty must grow")
	}
}

func TestAddDistinctCost(t *testing.T) {
	c := New()
	c.LimitCount = NewValue(3)
	c.AddDistinctCost()
	if got := c.LimitCount.Get(); got != 300 {
		t.Errorf("distinct limit = %v", got)
	}
	inf := New()
	inf.AddDistinctCost()
	if !inf.LimitCount.IsInfinity() {
		t.Error("unbounded limit stays unbounded")
	}
}
