// Package cost implements the saturating arithmetic used by the planner
// to compare access plans.
package cost

import (
	"math"
	"strconv"

	"github.com/ledgerwatch/log/v3"
)

// Value is a non-negative double with an explicit infinity flag. All
// operations saturate: overflow and division by zero go to infinity,
// negative results clamp to zero.
type Value struct {
	v        float64
	infinity bool
}

// Infinity returns the infinite value.
func Infinity() Value { return Value{infinity: true} }

// NewValue clamps v into the non-negative domain.
func NewValue(v float64) Value {
	if math.IsInf(v, 1) {
		return Infinity()
	}
	if v < 0 || math.IsNaN(v) {
		v = 0
	}
	return Value{v: v}
}

func (a Value) IsInfinity() bool { return a.infinity }

// Get returns the payload; infinity reports the largest double.
func (a Value) Get() float64 {
	if a.infinity {
		return math.MaxFloat64
	}
	return a.v
}

// Int returns the payload as int, saturating at MaxInt32.
func (a Value) Int() int {
	if a.infinity || a.v > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(a.v)
}

func (a Value) Add(b Value) Value {
	if a.infinity || b.infinity {
		return Infinity()
	}
	return NewValue(a.v + b.v)
}

func (a Value) Sub(b Value) Value {
	if a.infinity {
		return Infinity()
	}
	if b.infinity {
		return Value{}
	}
	return NewValue(a.v - b.v)
}

func (a Value) Mul(b Value) Value {
	if a.infinity || b.infinity {
		return Infinity()
	}
	return NewValue(a.v * b.v)
}

func (a Value) Div(b Value) Value {
	if a.infinity {
		return Infinity()
	}
	if b.infinity {
		return Value{}
	}
	if b.v == 0 {
		log.Warn("cost: division by zero saturates to infinity")
		return Infinity()
	}
	return NewValue(a.v / b.v)
}

// Log returns ln(v + 1); the +1 keeps the logarithm defined and smooth
// near zero so tiny tuple counts do not produce negative penalties.
func (a Value) Log() Value {
	if a.infinity {
		return Value{}
	}
	return NewValue(math.Log(a.v + 1.0))
}

// Compare treats infinity as the maximum.
func (a Value) Compare(b Value) int {
	switch {
	case a.infinity && b.infinity:
		return 0
	case a.infinity:
		return 1
	case b.infinity:
		return -1
	case a.v < b.v:
		return -1
	case a.v > b.v:
		return 1
	}
	return 0
}

func (a Value) Less(b Value) bool { return a.Compare(b) < 0 }

func (a Value) String() string {
	if a.infinity {
		return "inf"
	}
	return strconv.FormatFloat(a.v, 'g', -1, 64)
}

// Cost aggregates the per-plan-node estimates.
type Cost struct {
	Overhead     Value
	Startup      Value
	TotalCost    Value
	TupleCount   Value
	TupleSize    Value
	RetrieveCost Value
	LimitCount   Value

	IsFetch  bool
	rateSet  bool
	countSet bool
}

// New creates a cost with an unbounded limit.
func New() *Cost {
	return &Cost{LimitCount: Infinity()}
}

// SetTupleCount records the estimated tuple count.
func (c *Cost) SetTupleCount(v Value) {
	c.TupleCount = v
	c.countSet = true
}

// SetRate marks the selectivity rate as known.
func (c *Cost) SetRate() { c.rateSet = true }

// ResultCount is the tuple count clamped by the limit.
func (c *Cost) ResultCount() Value {
	if c.LimitCount.Less(c.TupleCount) {
		return c.LimitCount
	}
	return c.TupleCount
}

// ProcessCost is the per-tuple processing cost.
func (c *Cost) ProcessCost() Value {
	if c.countSet && c.TupleCount.Compare(NewValue(0)) > 0 {
		return c.TotalCost.Div(c.TupleCount)
	}
	return c.TotalCost
}

// RepeatCost is the cost of one repetition inside a join.
func (c *Cost) RepeatCost() Value {
	if c.countSet && c.ResultCount().Compare(NewValue(0)) > 0 {
		return c.Startup.Add(c.ProcessCost().Add(c.RetrieveCost).Mul(c.ResultCount()))
	}
	return c.Startup.Add(c.ProcessCost().Add(c.RetrieveCost))
}

// CalculateValue is the comparable total.
func (c *Cost) CalculateValue() Value {
	return c.Overhead.Add(c.RepeatCost())
}

// Compare orders two costs by their calculated value.
func (c *Cost) Compare(other *Cost) int {
	return c.CalculateValue().Compare(other.CalculateValue())
}

// AddSortingCost charges an n·log n penalty against startup, using memory
// bandwidth until the buffered size crosses threshold, file bandwidth
// beyond it.
func (c *Cost) AddSortingCost(memorySpeed, fileSpeed, threshold float64) {
	if c.TupleCount.Compare(NewValue(1)) <= 0 {
		return
	}
	count := c.ResultCount()
	c.Startup = c.Startup.Add(c.ProcessCost().Mul(count))
	if c.RetrieveCost.Compare(NewValue(0)) > 0 {
		c.Startup = c.Startup.Add(c.RetrieveCost.Mul(count))
	}
	speed := memorySpeed
	if count.Mul(c.TupleSize).Compare(NewValue(threshold)) > 0 {
		speed = fileSpeed
	}
	c.Startup = c.Startup.Add(
		c.TupleSize.Div(NewValue(speed)).Mul(count).Mul(count.Log()))
	ratio := NewValue(fileSpeed / memorySpeed)
	c.TotalCost = c.TotalCost.Mul(ratio)
	c.RetrieveCost = c.RetrieveCost.Mul(ratio)
}

// AddDistinctCost widens the limit so a distinct scan reads enough input.
func (c *Cost) AddDistinctCost() {
	c.LimitCount = c.LimitCount.Mul(NewValue(100))
}
