package value

import (
	"math"

	"github.com/kasuga-db/kasuga/internal/errors"
)

// Op enumerates the arithmetic operations supported by Operate.
type Op int32

const (
	OpAdd Op = iota
	OpSubtract
	OpMultiply
	OpDivide
	OpModulus
	OpNegative
	OpAbsolute
)

var opNames = map[Op]string{
	OpAdd:      "+",
	OpSubtract: "-",
	OpMultiply: "*",
	OpDivide:   "/",
	OpModulus:  "%",
	OpNegative: "-",
	OpAbsolute: "abs",
}

func (o Op) String() string { return opNames[o] }

// numeric ranks drive result-type promotion.
func rank(t Type) int {
	switch t {
	case TypeInteger:
		return 1
	case TypeUnsignedInteger:
		return 2
	case TypeInteger64:
		return 3
	case TypeUnsignedInteger64:
		return 4
	case TypeDecimal:
		return 5
	case TypeDouble:
		return 6
	}
	return 0
}

// Operate applies a binary arithmetic operation. The result adopts the
// wider operand type, except that decimal division and modulus yield a
// double. ok is false on overflow or division by zero; the
// caller decides between NumericValueOutOfRange and NULL. Operands must
// be non-NULL; non-numeric types yield NotSupported.
func Operate(op Op, left, right Data) (Data, bool, error) {
	lr, rr := rank(left.Type()), rank(right.Type())
	if lr == 0 || rr == 0 {
		return nil, false, errors.Newf(errors.NotSupported,
			"arithmetic on %s and %s", left.Type(), right.Type())
	}
	result := lr
	if rr > result {
		result = rr
	}
	if result == 6 || (result == 5 && (op == OpDivide || op == OpModulus)) {
		lf, _ := asFloat64(left)
		rf, _ := asFloat64(right)
		f, ok := operateFloat(op, lf, rf)
		if !ok {
			return nil, false, nil
		}
		return NewDouble(f), true, nil
	}
	if result == 5 {
		return operateDecimal(op, left, right)
	}
	li, lok := asInt64(left)
	ri, rok := asInt64(right)
	if !lok || !rok {
		// uint64 payloads beyond int64 range
		return nil, false, nil
	}
	v, ok := operateInt(op, li, ri)
	if !ok {
		return nil, false, nil
	}
	return intResult(result, v)
}

// OperateUnary applies Negative or Absolute keeping the operand type.
func OperateUnary(op Op, operand Data) (Data, bool, error) {
	switch op {
	case OpNegative, OpAbsolute:
	default:
		return nil, false, errors.Newf(errors.NotSupported, "unary %s", op)
	}
	r := rank(operand.Type())
	if r == 0 {
		return nil, false, errors.Newf(errors.NotSupported,
			"arithmetic on %s", operand.Type())
	}
	if r == 6 {
		f, _ := asFloat64(operand)
		if op == OpNegative {
			f = -f
		} else {
			f = math.Abs(f)
		}
		return NewDouble(f), true, nil
	}
	if r == 5 {
		dec := operand.(*DecimalData)
		u := dec.Unscaled()
		if u == math.MinInt64 {
			return nil, false, nil
		}
		switch {
		case op == OpNegative:
			u = -u
		case u < 0:
			u = -u
		}
		return NewDecimal(u, dec.Scale()), true, nil
	}
	i, ok := asInt64(operand)
	if !ok {
		return nil, false, nil
	}
	if i == math.MinInt64 {
		return nil, false, nil
	}
	if op == OpNegative {
		i = -i
	} else if i < 0 {
		i = -i
	}
	return intResult(r, i)
}

func operateInt(op Op, a, b int64) (int64, bool) {
	switch op {
	case OpAdd:
		s := a + b
		if (b > 0 && s < a) || (b < 0 && s > a) {
			return 0, false
		}
		return s, true
	case OpSubtract:
		s := a - b
		if (b < 0 && s < a) || (b > 0 && s > a) {
			return 0, false
		}
		return s, true
	case OpMultiply:
		if a == 0 || b == 0 {
			return 0, true
		}
		p := a * b
		if p/b != a {
			return 0, false
		}
		return p, true
	case OpDivide:
		if b == 0 || (a == math.MinInt64 && b == -1) {
			return 0, false
		}
		return a / b, true
	case OpModulus:
		if b == 0 {
			return 0, false
		}
		return a % b, true
	}
	return 0, false
}

func operateFloat(op Op, a, b float64) (float64, bool) {
	var f float64
	switch op {
	case OpAdd:
		f = a + b
	case OpSubtract:
		f = a - b
	case OpMultiply:
		f = a * b
	case OpDivide:
		if b == 0 {
			return 0, false
		}
		f = a / b
	case OpModulus:
		if b == 0 {
			return 0, false
		}
		f = math.Mod(a, b)
	default:
		return 0, false
	}
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

func operateDecimal(op Op, left, right Data) (Data, bool, error) {
	toDec := func(d Data) *DecimalData {
		if dec, ok := d.(*DecimalData); ok {
			return dec
		}
		i, _ := asInt64(d)
		return NewDecimal(i, 0)
	}
	l, r := toDec(left), toDec(right)
	// align scales
	scale := l.Scale()
	if r.Scale() > scale {
		scale = r.Scale()
	}
	lu, ok := rescale(l.Unscaled(), scale-l.Scale())
	if !ok {
		return nil, false, nil
	}
	ru, ok := rescale(r.Unscaled(), scale-r.Scale())
	if !ok {
		return nil, false, nil
	}
	switch op {
	case OpAdd, OpSubtract:
		v, ok := operateInt(op, lu, ru)
		if !ok {
			return nil, false, nil
		}
		return NewDecimal(v, scale), true, nil
	case OpMultiply:
		v, ok := operateInt(op, lu, ru)
		if !ok {
			return nil, false, nil
		}
		return NewDecimal(v, scale*2), true, nil
	}
	return nil, false, errors.Newf(errors.NotSupported, "decimal %s", op)
}

func rescale(v int64, by int32) (int64, bool) {
	for ; by > 0; by-- {
		next := v * 10
		if next/10 != v {
			return 0, false
		}
		v = next
	}
	return v, true
}

func intResult(rankValue int, v int64) (Data, bool, error) {
	switch rankValue {
	case 1:
		if v < math.MinInt32 || v > math.MaxInt32 {
			return nil, false, nil
		}
		return NewInteger(int32(v)), true, nil
	case 2:
		if v < 0 || v > math.MaxUint32 {
			return nil, false, nil
		}
		return NewUnsigned(uint32(v)), true, nil
	case 3:
		return NewInteger64(v), true, nil
	case 4:
		if v < 0 {
			return nil, false, nil
		}
		return NewUnsigned64(uint64(v)), true, nil
	}
	return nil, false, errors.New(errors.Unexpected)
}
