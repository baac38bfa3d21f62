package util

import (
	"fmt"
	"math/big"
	"reflect"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/napalu/argbind/types"
)

var (
	charType     = reflect.TypeOf(types.Char(0))
	durationType = reflect.TypeOf(time.Duration(0))
	bigIntType   = reflect.TypeOf((*big.Int)(nil))
	bigFloatType = reflect.TypeOf((*big.Float)(nil))
	bigRatType   = reflect.TypeOf((*big.Rat)(nil))
)

// IsBuiltin reports whether t is converted by ParseBuiltin: the predeclared string, boolean and numeric types,
// types.Char and the math/big pointer types. Named types are not builtins even when their kind is.
func IsBuiltin(t reflect.Type) bool {
	switch t {
	case charType, bigIntType, bigFloatType, bigRatType:
		return true
	}
	return t.PkgPath() == "" && hasKindRule(t)
}

// hasKindRule reports whether values of t's kind can be parsed and formatted by kind alone
func hasKindRule(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	}
	return false
}

// ParseBuiltin converts value to type t using the core rules. ok is false when t has no core rule.
// An empty value converts to false for boolean kinds.
func ParseBuiltin(value string, t reflect.Type) (v reflect.Value, ok bool, err error) {
	if !IsBuiltin(t) {
		return reflect.Value{}, false, nil
	}
	v, err = parseBuiltin(value, t)
	return v, true, err
}

// ParseKind converts value to t by t's underlying kind. It serves named types such as `type Port uint16`
// which have no converter of their own. ok is false when the kind has no rule.
func ParseKind(value string, t reflect.Type) (v reflect.Value, ok bool, err error) {
	if !IsBuiltin(t) && !hasKindRule(t) {
		return reflect.Value{}, false, nil
	}
	v, err = parseBuiltin(value, t)
	return v, true, err
}

func parseBuiltin(value string, t reflect.Type) (reflect.Value, error) {
	switch t {
	case charType:
		if utf8.RuneCountInString(value) != 1 {
			return reflect.Value{}, fmt.Errorf("expected exactly one character, got %d", utf8.RuneCountInString(value))
		}
		r, _ := utf8.DecodeRuneInString(value)
		return reflect.ValueOf(types.Char(r)), nil
	case bigIntType:
		n, ok := new(big.Int).SetString(value, 10)
		if !ok {
			return reflect.Value{}, fmt.Errorf("invalid integer")
		}
		return reflect.ValueOf(n), nil
	case bigFloatType:
		f, _, err := big.ParseFloat(value, 10, 0, big.ToNearestEven)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(f), nil
	case bigRatType:
		r, ok := new(big.Rat).SetString(value)
		if !ok {
			return reflect.Value{}, fmt.Errorf("invalid rational")
		}
		return reflect.ValueOf(r), nil
	}

	out := reflect.New(t).Elem()
	switch t.Kind() {
	case reflect.String:
		out.SetString(value)
	case reflect.Bool:
		if value == "" {
			return out, nil
		}
		b, err := strconv.ParseBool(value)
		if err != nil {
			return reflect.Value{}, err
		}
		out.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(value, 10, t.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		out.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(value, 10, t.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		out.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(value, t.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		out.SetFloat(f)
	case reflect.Complex64, reflect.Complex128:
		c, err := strconv.ParseComplex(value, t.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		out.SetComplex(c)
	}
	return out, nil
}

// FormatBuiltin is the inverse of ParseBuiltin
func FormatBuiltin(v reflect.Value) (string, bool) {
	if !IsBuiltin(v.Type()) {
		return "", false
	}
	return formatBuiltin(v)
}

// FormatKind is the inverse of ParseKind
func FormatKind(v reflect.Value) (string, bool) {
	if !IsBuiltin(v.Type()) && !hasKindRule(v.Type()) {
		return "", false
	}
	return formatBuiltin(v)
}

func formatBuiltin(v reflect.Value) (string, bool) {
	t := v.Type()
	switch t {
	case charType:
		return string(rune(v.Int())), true
	case bigIntType:
		return formatBig(v, func() string { return v.Interface().(*big.Int).String() }), true
	case bigFloatType:
		return formatBig(v, func() string { return v.Interface().(*big.Float).Text('g', -1) }), true
	case bigRatType:
		return formatBig(v, func() string { return v.Interface().(*big.Rat).String() }), true
	}

	switch t.Kind() {
	case reflect.String:
		return v.String(), true
	case reflect.Bool:
		return strconv.FormatBool(v.Bool()), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10), true
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'g', -1, t.Bits()), true
	case reflect.Complex64, reflect.Complex128:
		return strconv.FormatComplex(v.Complex(), 'g', -1, t.Bits()), true
	}
	return "", false
}

func formatBig(v reflect.Value, f func() string) string {
	if v.IsNil() {
		return ""
	}
	return f()
}

// IsChar reports whether t is the single-character type
func IsChar(t reflect.Type) bool {
	return t == charType
}

// IsNumeric reports whether t converts from a number literal
func IsNumeric(t reflect.Type) bool {
	switch t {
	case charType, durationType:
		return false
	case bigIntType, bigFloatType, bigRatType:
		return true
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	}
	return false
}

// IsFloat reports whether t converts from a floating point literal
func IsFloat(t reflect.Type) bool {
	if t == bigFloatType || t == bigRatType {
		return true
	}
	k := t.Kind()
	return k == reflect.Float32 || k == reflect.Float64
}
