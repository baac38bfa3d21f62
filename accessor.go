package argbind

import (
	"fmt"
	"reflect"
	"unicode"
	"unicode/utf8"

	"github.com/napalu/argbind/errs"
)

// accessor reads and writes one field of an addressable struct value. It is resolved once during schema
// extraction.
type accessor struct {
	get func(dest reflect.Value) reflect.Value
	set func(dest reflect.Value, v reflect.Value)
}

// newAccessor resolves direct access for exported fields. Unexported fields need a Set<Name> method and a <Name>
// or Get<Name> method on the pointer to the struct declaring the field.
func newAccessor(owner reflect.Type, field reflect.StructField, index []int) (accessor, error) {
	if field.IsExported() {
		return accessor{
			get: func(dest reflect.Value) reflect.Value {
				return dest.FieldByIndex(index)
			},
			set: func(dest reflect.Value, v reflect.Value) {
				dest.FieldByIndex(index).Set(v)
			},
		}, nil
	}

	ptr := reflect.PointerTo(owner)
	name := exportName(field.Name)

	setter, ok := ptr.MethodByName("Set" + name)
	if !ok || setter.Type.NumIn() != 2 || setter.Type.In(1) != field.Type {
		return accessor{}, &errs.InaccessibleFieldError{
			Type:  owner,
			Field: field.Name,
			Err:   fmt.Errorf("missing method Set%s(%s)", name, field.Type),
		}
	}

	getter, ok := findGetter(ptr, name, field.Type)
	if !ok {
		return accessor{}, &errs.InaccessibleFieldError{
			Type:  owner,
			Field: field.Name,
			Err:   fmt.Errorf("missing method %s() %s or Get%s() %s", name, field.Type, name, field.Type),
		}
	}

	parent := index[:len(index)-1]
	return accessor{
		get: func(dest reflect.Value) reflect.Value {
			return getter.Func.Call([]reflect.Value{dest.FieldByIndex(parent).Addr()})[0]
		},
		set: func(dest reflect.Value, v reflect.Value) {
			setter.Func.Call([]reflect.Value{dest.FieldByIndex(parent).Addr(), v})
		},
	}, nil
}

func findGetter(ptr reflect.Type, name string, want reflect.Type) (reflect.Method, bool) {
	for _, candidate := range []string{name, "Get" + name} {
		m, ok := ptr.MethodByName(candidate)
		if ok && m.Type.NumIn() == 1 && m.Type.NumOut() == 1 && m.Type.Out(0) == want {
			return m, true
		}
	}
	return reflect.Method{}, false
}

func exportName(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
