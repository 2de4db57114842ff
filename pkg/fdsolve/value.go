package fdsolve

import "fmt"

// Value is a tagged union of {Int(i64), Float(f64), Bool}. It is used in
// assignments and constraint literals; domains store typed bounds directly
// rather than sets of Value.
type Value struct {
	kind VarKind
	i    int64
	f    float64
}

// IntValue builds an integer Value.
func IntValue(i int64) Value { return Value{kind: KindInt, i: i} }

// FloatValue builds a float Value.
func FloatValue(f float64) Value { return Value{kind: KindFloat, f: f} }

// BoolValue builds a boolean Value.
func BoolValue(b bool) Value {
	v := Value{kind: KindBool}
	if b {
		v.i = 1
	}
	return v
}

// Kind reports which variant this Value holds.
func (v Value) Kind() VarKind { return v.kind }

// Int returns the integer value, or ErrTypeMismatch if this Value is not an
// Int.
func (v Value) Int() (int64, error) {
	if v.kind != KindInt {
		return 0, fmt.Errorf("%w: value is %s, not int", ErrTypeMismatch, v.kind)
	}
	return v.i, nil
}

// Float returns the float value, or ErrTypeMismatch if this Value is not a
// Float.
func (v Value) Float() (float64, error) {
	if v.kind != KindFloat {
		return 0, fmt.Errorf("%w: value is %s, not float", ErrTypeMismatch, v.kind)
	}
	return v.f, nil
}

// Bool returns the boolean value, or ErrTypeMismatch if this Value is not a
// Bool.
func (v Value) Bool() (bool, error) {
	if v.kind != KindBool {
		return false, fmt.Errorf("%w: value is %s, not bool", ErrTypeMismatch, v.kind)
	}
	return v.i != 0, nil
}

// AsFloat64 widens any Value kind to a float64, for use in numeric
// comparisons that must treat ints, floats and bools uniformly.
func (v Value) AsFloat64() float64 {
	switch v.kind {
	case KindFloat:
		return v.f
	default:
		return float64(v.i)
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return fmt.Sprintf("%d", v.i)
	case KindFloat:
		return fmt.Sprintf("%g", v.f)
	case KindBool:
		return fmt.Sprintf("%t", v.i != 0)
	default:
		return "<invalid>"
	}
}
