package value

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kasuga-db/kasuga/internal/serial"
)

func sample() []Data {
	arr := NewArrayOf(NewInteger(1), NewString("two"), NewDouble(3.5))
	null := NewInteger(0)
	null.SetNull()
	return []Data{
		NewInteger(-42),
		NewUnsigned(42),
		NewInteger64(1 << 40),
		NewUnsigned64(1 << 60),
		NewDouble(2.25),
		NewDecimal(12345, 2),
		NewString("こんにちは"),
		NewBinary([]byte{1, 2, 3}),
		NewBoolean(true),
		NewObjectID(PackObjectID(7, 9)),
		NewBitSetOf(1, 5, 100000),
		NewWord("term"),
		arr,
		null,
	}
}

func TestCopyEquals(t *testing.T) {
	for _, d := range sample() {
		c := d.Copy()
		if !c.Equals(d) {
			t.Errorf("%s: copy not equal to original", d.Type())
		}
		if c.Hash() != d.Hash() {
			t.Errorf("%s: copy hash differs", d.Type())
		}
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	for _, d := range sample() {
		var buf bytes.Buffer
		w := serial.NewWriter(&buf)
		require.NoError(t, w.WriteObject(d))

		r := serial.NewReader(&buf)
		obj, err := r.ReadObject()
		require.NoError(t, err)
		restored, ok := obj.(Data)
		require.True(t, ok)
		require.True(t, restored.Equals(d), "%s: %s != %s", d.Type(), restored, d)
	}
}

func TestNullOrdering(t *testing.T) {
	null := NewInteger(0)
	null.SetNull()
	if c := null.Compare(NewInteger(100)); c != 1 {
		t.Errorf("null should order above any value, got %d", c)
	}
	if c := NewInteger(100).Compare(null); c != -1 {
		t.Errorf("value should order below null, got %d", c)
	}
	other := NewString("x")
	other.SetNull()
	if c := null.Compare(other); c != 0 {
		t.Errorf("null == null expected, got %d", c)
	}
	if null.Hash() != other.Hash() {
		t.Error("null hash must be the fixed sentinel")
	}
}

func TestAssignConversions(t *testing.T) {
	i64 := NewInteger64(0)
	require.NoError(t, i64.Assign(NewInteger(7)))
	require.EqualValues(t, 7, i64.Value())

	i32 := NewInteger(0)
	require.NoError(t, i32.Assign(NewInteger64(1234)))
	require.EqualValues(t, 1234, i32.Value())

	err := i32.Assign(NewInteger64(1 << 40))
	require.Error(t, err)

	s := NewString("")
	require.NoError(t, s.Assign(NewInteger(42)))
	require.Equal(t, "42", s.Value())

	err = i32.Assign(NewBinary([]byte{1}))
	require.Error(t, err)

	// assigning NULL propagates the null bit, keeping the slot type
	null := NewInteger(0)
	null.SetNull()
	require.NoError(t, i32.Assign(null))
	require.True(t, i32.IsNull())
}

func TestArrayOperations(t *testing.T) {
	a := NewArrayOf(NewInteger(1), NewInteger(2))
	b := NewArrayOf(NewInteger(3), NewInteger(4))
	if !a.Distinct(b) {
		t.Error("disjoint arrays must be distinct")
	}
	b.PushBack(NewInteger(2))
	if a.Distinct(b) {
		t.Error("overlapping arrays must not be distinct")
	}
	if !a.Overlaps(b) {
		t.Error("expected overlap")
	}

	a.Connect(b)
	if a.Count() != 5 {
		t.Errorf("connect count = %d", a.Count())
	}
	if !a.Contains(NewInteger(4)) {
		t.Error("expected containment after connect")
	}

	a.PushFront(NewInteger(0))
	if got := a.Element(0).(*IntegerData).Value(); got != 0 {
		t.Errorf("push front got %d", got)
	}
	a.PopFront()
	a.PopBack()
	a.Erase(0)
	if a.Count() != 3 {
		t.Errorf("count after mutations = %d", a.Count())
	}
}

func TestAssignElements(t *testing.T) {
	dst := NewArrayOf(NewInteger(0), NewString(""))
	src := NewArrayOf(NewInteger(9), NewString("nine"))
	require.NoError(t, dst.AssignElements(src))
	require.EqualValues(t, 9, dst.Element(0).(*IntegerData).Value())
	require.Equal(t, "nine", dst.Element(1).(*StringData).Value())

	short := NewArrayOf(NewInteger(1))
	require.Error(t, dst.AssignElements(short))
}

func TestStringConnect(t *testing.T) {
	s := NewString("ab")
	s.Connect(NewString("cd"))
	if s.Value() != "abcd" {
		t.Errorf("connect = %q", s.Value())
	}
	// surrogate pairs stay intact
	sp := NewString("𠮷野")
	if sp.Length() != 3 {
		t.Errorf("surrogate length = %d code units", sp.Length())
	}
	if sp.Copy().(*StringData).Value() != "𠮷野" {
		t.Error("surrogate round trip failed")
	}
}

func TestOperate(t *testing.T) {
	tests := []struct {
		name  string
		op    Op
		left  Data
		right Data
		want  Data
		okay  bool
	}{
		{"add int", OpAdd, NewInteger(2), NewInteger(3), NewInteger(5), true},
		{"sub int", OpSubtract, NewInteger(2), NewInteger(3), NewInteger(-1), true},
		{"mul promote", OpMultiply, NewInteger(4), NewInteger64(1 << 32), NewInteger64(4 << 32), true},
		{"div", OpDivide, NewInteger(7), NewInteger(2), NewInteger(3), true},
		{"mod", OpModulus, NewInteger(7), NewInteger(2), NewInteger(1), true},
		{"int32 overflow", OpAdd, NewInteger(2147483647), NewInteger(1), nil, false},
		{"div by zero", OpDivide, NewInteger(1), NewInteger(0), nil, false},
		{"double", OpAdd, NewDouble(1.5), NewInteger(1), NewDouble(2.5), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := Operate(tt.op, tt.left, tt.right)
			require.NoError(t, err)
			require.Equal(t, tt.okay, ok)
			if tt.okay {
				require.True(t, got.Equals(tt.want), "got %s want %s", got, tt.want)
			}
		})
	}

	_, _, err := Operate(OpAdd, NewString("a"), NewInteger(1))
	require.Error(t, err)

	neg, ok, err := OperateUnary(OpNegative, NewInteger(5))
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, neg.Equals(NewInteger(-5)))

	abs, ok, err := OperateUnary(OpAbsolute, NewInteger(-5))
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, abs.Equals(NewInteger(5)))
}

func TestDecimal(t *testing.T) {
	d, err := ParseDecimal("-12.345")
	require.NoError(t, err)
	require.Equal(t, "-12.345", d.String())
	require.EqualValues(t, 3, d.Scale())

	sum, ok, err := Operate(OpAdd, NewDecimal(150, 2), NewDecimal(25, 1))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "4.00", sum.String())
}
