// Package types implements the tagged value union (AllTypeVariant) shared
// by every segment variant, plus the closed set of five column types the
// rest of the storage core is generic over.
package types

import (
	"fmt"
	"math"
	"strconv"

	"opossumdb/perrors"
)

// Kind tags the underlying Go type carried by a Variant.
type Kind int

const (
	KindNull Kind = iota
	KindInt32
	KindInt64
	KindFloat32
	KindFloat64
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInt32:
		return "int32"
	case KindInt64:
		return "int64"
	case KindFloat32:
		return "float32"
	case KindFloat64:
		return "float64"
	case KindString:
		return "string"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// nameToKind is the closed set of type-name strings a table schema may use.
var nameToKind = map[string]Kind{
	"int":    KindInt32,
	"long":   KindInt64,
	"float":  KindFloat32,
	"double": KindFloat64,
	"string": KindString,
}

var kindToName = map[Kind]string{
	KindInt32:   "int",
	KindInt64:   "long",
	KindFloat32: "float",
	KindFloat64: "double",
	KindString:  "string",
}

// KindForName resolves one of the five closed-set type names to its Kind.
func KindForName(name string) (Kind, error) {
	k, ok := nameToKind[name]
	if !ok {
		return KindNull, perrors.NewErrorf(perrors.UnknownType, "unknown type name %q", name)
	}
	return k, nil
}

// NameForKind is the inverse of KindForName, used by schema accessors that
// report a column's declared type back as a string.
func NameForKind(k Kind) (string, error) {
	name, ok := kindToName[k]
	if !ok {
		return "", perrors.NewErrorf(perrors.UnknownType, "no type name for %s", k)
	}
	return name, nil
}

// Scalar is the closed set of Go types a segment may be generic over.
type Scalar interface {
	int32 | int64 | float32 | float64 | string
}

// Variant is the sum type AllTypeVariant = {i32, i64, f32, f64, string, null}.
// The zero value is null.
type Variant struct {
	kind Kind
	val  interface{}
}

func Null() Variant { return Variant{kind: KindNull} }

func FromInt32(v int32) Variant   { return Variant{kind: KindInt32, val: v} }
func FromInt64(v int64) Variant   { return Variant{kind: KindInt64, val: v} }
func FromFloat32(v float32) Variant { return Variant{kind: KindFloat32, val: v} }
func FromFloat64(v float64) Variant { return Variant{kind: KindFloat64, val: v} }
func FromString(v string) Variant { return Variant{kind: KindString, val: v} }

// From builds a Variant from a concrete scalar value, for generic callers
// that only know T.
func From[T Scalar](v T) Variant {
	return Variant{kind: kindOf[T](), val: v}
}

func (v Variant) Kind() Kind   { return v.kind }
func (v Variant) IsNull() bool { return v.kind == KindNull }

func (v Variant) String() string {
	if v.IsNull() {
		return "null"
	}
	return fmt.Sprintf("%v", v.val)
}

// kindOf reports the Kind corresponding to a generic scalar type parameter -
// the Go stand-in for the C++ template's compile-time type tag.
func kindOf[T Scalar]() Kind {
	var zero T
	switch any(zero).(type) {
	case int32:
		return KindInt32
	case int64:
		return KindInt64
	case float32:
		return KindFloat32
	case float64:
		return KindFloat64
	case string:
		return KindString
	default:
		panic(fmt.Sprintf("unreachable scalar type %T", zero))
	}
}

// CastTo converts v to T, following the same rules as the source's
// type_cast<T>: an exact-kind Variant returns its value directly, a
// string<->numeric pair is converted lexically, and a numeric<->numeric
// pair is converted only when no precision is lost. A null Variant, an
// unparsable string, or a lossy numeric conversion fails with TypeMismatch.
func CastTo[T Scalar](v Variant) (T, error) {
	var zero T
	if v.IsNull() {
		return zero, perrors.NewError(perrors.TypeMismatch, "cannot cast null to a non-optional value")
	}
	target := kindOf[T]()
	raw, err := castValue(v, target)
	if err != nil {
		return zero, err
	}
	out, ok := raw.(T)
	if !ok {
		return zero, perrors.NewErrorf(perrors.TypeMismatch, "cannot cast %s to %s", v.kind, target)
	}
	return out, nil
}

func castValue(v Variant, target Kind) (interface{}, error) {
	if v.kind == target {
		return v.val, nil
	}
	if target == KindString {
		return formatNumeric(v), nil
	}
	if v.kind == KindString {
		return parseNumeric(v.val.(string), target)
	}
	return convertNumeric(v, target)
}

func formatNumeric(v Variant) string {
	switch v.kind {
	case KindInt32:
		return strconv.FormatInt(int64(v.val.(int32)), 10)
	case KindInt64:
		return strconv.FormatInt(v.val.(int64), 10)
	case KindFloat32:
		return strconv.FormatFloat(float64(v.val.(float32)), 'g', -1, 32)
	case KindFloat64:
		return strconv.FormatFloat(v.val.(float64), 'g', -1, 64)
	default:
		return v.String()
	}
}

func parseNumeric(s string, target Kind) (interface{}, error) {
	switch target {
	case KindInt32:
		n, err := strconv.ParseInt(s, 10, 32)
		if err != nil {
			return nil, perrors.NewErrorf(perrors.TypeMismatch, "cannot cast %q to int32", s)
		}
		return int32(n), nil
	case KindInt64:
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, perrors.NewErrorf(perrors.TypeMismatch, "cannot cast %q to int64", s)
		}
		return n, nil
	case KindFloat32:
		n, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return nil, perrors.NewErrorf(perrors.TypeMismatch, "cannot cast %q to float32", s)
		}
		return float32(n), nil
	case KindFloat64:
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, perrors.NewErrorf(perrors.TypeMismatch, "cannot cast %q to float64", s)
		}
		return n, nil
	default:
		return nil, perrors.NewErrorf(perrors.TypeMismatch, "cannot cast %q to %s", s, target)
	}
}

// convertNumeric converts between the four numeric kinds, rejecting any
// conversion that would lose precision (a float with a fractional part
// going to an integer type, or a value that overflows the narrower type).
func convertNumeric(v Variant, target Kind) (interface{}, error) {
	f := numericToFloat64(v)
	switch target {
	case KindInt32:
		if f != math.Trunc(f) || f < math.MinInt32 || f > math.MaxInt32 {
			return nil, perrors.NewErrorf(perrors.TypeMismatch, "cannot cast %s to int32 without loss of precision", v.kind)
		}
		return int32(f), nil
	case KindInt64:
		if f != math.Trunc(f) || f < math.MinInt64 || f > math.MaxInt64 {
			return nil, perrors.NewErrorf(perrors.TypeMismatch, "cannot cast %s to int64 without loss of precision", v.kind)
		}
		return int64(f), nil
	case KindFloat32:
		if float64(float32(f)) != f {
			return nil, perrors.NewErrorf(perrors.TypeMismatch, "cannot cast %s to float32 without loss of precision", v.kind)
		}
		return float32(f), nil
	case KindFloat64:
		return f, nil
	default:
		return nil, perrors.NewErrorf(perrors.TypeMismatch, "cannot cast %s to %s", v.kind, target)
	}
}

func numericToFloat64(v Variant) float64 {
	switch v.kind {
	case KindInt32:
		return float64(v.val.(int32))
	case KindInt64:
		return float64(v.val.(int64))
	case KindFloat32:
		return float64(v.val.(float32))
	case KindFloat64:
		return v.val.(float64)
	default:
		panic("numericToFloat64 called on non-numeric variant")
	}
}

// Compare orders two values of the same scalar type, returning -1, 0 or 1.
// It has no null case: callers skip null rows before comparing.
func Compare[T Scalar](a, b T) int {
	switch av := any(a).(type) {
	case int32:
		bv := any(b).(int32)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		default:
			return 0
		}
	case int64:
		bv := any(b).(int64)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		default:
			return 0
		}
	case float32:
		bv := any(b).(float32)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		default:
			return 0
		}
	case float64:
		bv := any(b).(float64)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		default:
			return 0
		}
	case string:
		bv := any(b).(string)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		default:
			return 0
		}
	default:
		panic(fmt.Sprintf("unreachable scalar type %T", a))
	}
}
