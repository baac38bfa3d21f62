package argbind

import (
	"encoding"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/araddon/dateparse"
	"github.com/napalu/argbind/errs"
	"github.com/napalu/argbind/internal/util"
)

// Converter is a bidirectional mapping between raw strings and values of one type
type Converter interface {
	// Type returns the type produced by Read and accepted by Write
	Type() reflect.Type
	// Read converts a raw string
	Read(value string) (any, error)
	// Write is the inverse of Read
	Write(value any) (string, error)
}

type funcConverter[T any] struct {
	read  func(string) (T, error)
	write func(T) (string, error)
}

// NewConverter creates a Converter for T from a read function and an optional write function. When write is nil,
// values are formatted with fmt.Sprint.
func NewConverter[T any](read func(string) (T, error), write func(T) (string, error)) Converter {
	return &funcConverter[T]{read: read, write: write}
}

func (c *funcConverter[T]) Type() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

func (c *funcConverter[T]) Read(value string) (any, error) {
	return c.read(value)
}

func (c *funcConverter[T]) Write(value any) (string, error) {
	v, ok := value.(T)
	if !ok {
		return "", fmt.Errorf("converter for %s cannot format %T", c.Type(), value)
	}
	if c.write == nil {
		return fmt.Sprint(v), nil
	}
	return c.write(v)
}

var (
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
	textMarshalerType   = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
)

// defaultConverters are consulted after the per-type table, so registering a converter for one of these types
// replaces the default
var defaultConverters = map[reflect.Type]Converter{
	reflect.TypeOf(time.Time{}): NewConverter(parseTime, func(t time.Time) (string, error) {
		return t.Format(time.RFC3339Nano), nil
	}),
	reflect.TypeOf(time.Duration(0)): NewConverter(time.ParseDuration, func(d time.Duration) (string, error) {
		return d.String(), nil
	}),
}

func parseTime(value string) (time.Time, error) {
	return dateparse.ParseLocal(value)
}

// Registry is the type conversion registry. Conversion follows this precedence: core built-ins (predeclared
// types, types.Char and math/big), the override converter named by a field, the per-type table, the default
// table (time.Time, time.Duration), encoding.TextUnmarshaler, the underlying kind of a named type, then pointer
// unwrapping.
//
// A Registry is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	byType map[reflect.Type]Converter
	byName map[string]Converter
}

// NewRegistry returns an empty Registry
func NewRegistry() *Registry {
	return &Registry{
		byType: map[reflect.Type]Converter{},
		byName: map[string]Converter{},
	}
}

// Register adds c to the per-type table under c.Type()
func (r *Registry) Register(c Converter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byType[c.Type()] = c
}

// RegisterNamed makes c available to fields declaring `converter:name`
func (r *Registry) RegisterNamed(name string, c Converter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byName[name] = c
}

// Named returns the converter registered under name
func (r *Registry) Named(name string) (Converter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byName[name]
	return c, ok
}

func (r *Registry) forType(t reflect.Type) (Converter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byType[t]
	return c, ok
}

// Handles reports whether t is converted as a single value by the per-type table, the default table or
// encoding.TextUnmarshaler. Collection types which are handled are bound as scalars.
func (r *Registry) Handles(t reflect.Type) bool {
	if _, ok := r.forType(t); ok {
		return true
	}
	if _, ok := defaultConverters[t]; ok {
		return true
	}
	return reflect.PointerTo(t).Implements(textUnmarshalerType)
}

// Convert converts value to t. override names a converter registered with RegisterNamed and may be empty.
func (r *Registry) Convert(value string, t reflect.Type, override string) (reflect.Value, error) {
	if v, ok, err := util.ParseBuiltin(value, t); ok {
		if err != nil {
			return reflect.Value{}, &errs.ParseError{Value: value, Type: t, Err: err}
		}
		return v, nil
	}

	if override != "" {
		c, ok := r.Named(override)
		if !ok {
			return reflect.Value{}, &errs.MissingConstructorError{
				Name:   override,
				Reason: "no converter is registered under this name",
			}
		}
		return read(c, value, t)
	}

	if c, ok := r.forType(t); ok {
		return read(c, value, t)
	}
	if c, ok := defaultConverters[t]; ok {
		return read(c, value, t)
	}

	if reflect.PointerTo(t).Implements(textUnmarshalerType) {
		ptr := reflect.New(t)
		if err := ptr.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(value)); err != nil {
			return reflect.Value{}, &errs.ParseError{Value: value, Type: t, Err: err}
		}
		return ptr.Elem(), nil
	}

	if v, ok, err := util.ParseKind(value, t); ok {
		if err != nil {
			return reflect.Value{}, &errs.ParseError{Value: value, Type: t, Err: err}
		}
		return v, nil
	}

	if t.Kind() == reflect.Ptr {
		v, err := r.Convert(value, t.Elem(), "")
		if err != nil {
			return reflect.Value{}, err
		}
		ptr := reflect.New(t.Elem())
		ptr.Elem().Set(v)
		return ptr, nil
	}

	return reflect.Value{}, &errs.UnsupportedTypeError{Type: t}
}

// Format is the inverse of Convert
func (r *Registry) Format(v reflect.Value, override string) (string, error) {
	if s, ok := util.FormatBuiltin(v); ok {
		return s, nil
	}

	t := v.Type()
	if override != "" {
		c, ok := r.Named(override)
		if !ok {
			return "", &errs.MissingConstructorError{Name: override, Reason: "no converter is registered under this name"}
		}
		return c.Write(v.Interface())
	}
	if c, ok := r.forType(t); ok {
		return c.Write(v.Interface())
	}
	if c, ok := defaultConverters[t]; ok {
		return c.Write(v.Interface())
	}
	if t.Implements(textMarshalerType) || reflect.PointerTo(t).Implements(textMarshalerType) {
		if !t.Implements(textMarshalerType) {
			ptr := reflect.New(t)
			ptr.Elem().Set(v)
			v = ptr
		}
		b, err := v.Interface().(encoding.TextMarshaler).MarshalText()
		return string(b), err
	}
	if s, ok := util.FormatKind(v); ok {
		return s, nil
	}
	if t.Kind() == reflect.Ptr {
		if v.IsNil() {
			return "", nil
		}
		return r.Format(v.Elem(), "")
	}

	return "", &errs.UnsupportedTypeError{Type: t}
}

// read runs c and adapts its result to t
func read(c Converter, value string, t reflect.Type) (reflect.Value, error) {
	out, err := c.Read(value)
	if err != nil {
		return reflect.Value{}, &errs.ParseError{Value: value, Type: t, Err: err}
	}

	v := reflect.ValueOf(out)
	if !v.IsValid() {
		return reflect.Zero(t), nil
	}
	if adapted, ok := adapt(v, t); ok {
		return adapted, nil
	}

	return reflect.Value{}, &errs.ParseError{
		Value: value,
		Type:  t,
		Msg:   fmt.Sprintf("converter produced %s where %s was expected", v.Type(), t),
	}
}

// adapt fits a converter result to t. Conversions are limited to values of the same kind, and pointers are
// allocated when t points to the result type.
func adapt(v reflect.Value, t reflect.Type) (reflect.Value, bool) {
	switch {
	case v.Type().AssignableTo(t):
		return v, true
	case v.Kind() == t.Kind() && v.Type().ConvertibleTo(t):
		return v.Convert(t), true
	case t.Kind() == reflect.Ptr:
		inner, ok := adapt(v, t.Elem())
		if !ok {
			return reflect.Value{}, false
		}
		ptr := reflect.New(t.Elem())
		ptr.Elem().Set(inner)
		return ptr, true
	}
	return reflect.Value{}, false
}
