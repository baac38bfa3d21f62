package util

import (
	"reflect"
)

// UnwrapType recursively unwraps pointer types and returns the underlying type
func UnwrapType(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

// IsBool reports whether t, or the type t points to, is a boolean kind
func IsBool(t reflect.Type) bool {
	return UnwrapType(t).Kind() == reflect.Bool
}
