package argbind

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/napalu/argbind/env"
	"github.com/napalu/argbind/errs"
	"github.com/napalu/argbind/internal/parse"
	"github.com/napalu/argbind/internal/util"
	"github.com/napalu/argbind/types"
)

// binder holds the state of a single bind against one command value
type binder struct {
	parser *Parser
	schema *Schema
	dest   reflect.Value
	tokens *parse.Tokens

	current    string
	inline     *string
	terminated bool
	help       bool

	cursor       int
	positionals  int
	counts       map[*FieldDescriptor]int
	materialized map[*FieldDescriptor]bool
}

func newBinder(p *Parser, s *Schema, dest reflect.Value, args []string) *binder {
	return &binder{
		parser:       p,
		schema:       s,
		dest:         dest,
		tokens:       parse.NewTokens(args),
		counts:       map[*FieldDescriptor]int{},
		materialized: map[*FieldDescriptor]bool{},
	}
}

// bind runs the state machine, then applies fallbacks and validates. Validation is skipped when help was
// requested.
func (b *binder) bind() error {
	if err := b.materialize(); err != nil {
		return err
	}

	if err := b.run(); err != nil {
		return err
	}
	if b.help {
		return nil
	}

	if err := b.fallback(); err != nil {
		return err
	}

	return b.validate()
}

// materialize defaults unset *bool named fields to false
func (b *binder) materialize() error {
	for _, d := range b.schema.Named {
		if d.collection != scalar || d.Type.Kind() != reflect.Ptr || d.Type.Elem().Kind() != reflect.Bool {
			continue
		}
		err := b.safely(d, "", func() error {
			if d.access.get(b.dest).IsNil() {
				d.access.set(b.dest, reflect.New(d.Type.Elem()))
				b.materialized[d] = true
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	return nil
}

// bindNamed binds raw to the field registered under name. Unknown names are ignored.
func (b *binder) bindNamed(name, raw string) error {
	d, ok := b.schema.Lookup(name)
	if !ok {
		return nil
	}
	return b.assign(d, raw)
}

// bindPositional binds raw to the next positional field. Collections absorb up to Max values before the cursor
// advances.
func (b *binder) bindPositional(raw string) error {
	ordinal := b.positionals
	b.positionals++

	for b.cursor < len(b.schema.Positional) {
		d := b.schema.Positional[b.cursor]
		if d.collection == scalar {
			b.cursor++
			return b.assign(d, raw)
		}
		if d.Max != types.Unbounded && b.counts[d] >= d.Max {
			b.cursor++
			continue
		}

		err := b.assign(d, raw)
		if d.Max != types.Unbounded && b.counts[d] >= d.Max {
			b.cursor++
		}
		return err
	}

	label := fmt.Sprintf("position %d", ordinal)
	return &errs.BindError{
		Field: label,
		Value: raw,
		Err: &errs.ParseError{
			Value: raw,
			Field: label,
			Msg:   fmt.Sprintf("unexpected positional argument %q", raw),
		},
	}
}

// assign converts raw and stores it, appending to collections
func (b *binder) assign(d *FieldDescriptor, raw string) error {
	return b.safely(d, raw, func() error {
		switch d.collection {
		case unsupportedCollection:
			return &errs.UnsupportedCollectionError{Field: d.Field, Type: d.Type}
		case scalar:
			v, err := b.parser.registry.Convert(raw, d.Type, d.Converter)
			if err != nil {
				return err
			}
			d.access.set(b.dest, v)
			b.counts[d]++
			return nil
		}

		if d.Max != types.Unbounded && b.counts[d] >= d.Max {
			return &errs.ParseError{
				Value: raw,
				Field: d.Label(),
				Msg:   fmt.Sprintf("%s accepts at most %d values", d.Label(), d.Max),
			}
		}

		v, err := b.parser.registry.Convert(raw, d.Elem, d.Converter)
		if err != nil {
			return err
		}

		current := d.access.get(b.dest)
		switch d.collection {
		case sliceCollection:
			if current.IsNil() {
				current = reflect.MakeSlice(d.Type, 0, d.Capacity)
			}
			d.access.set(b.dest, reflect.Append(current, v))
		case setCollection:
			if current.IsNil() {
				current = reflect.MakeMap(d.Type)
				d.access.set(b.dest, current)
			}
			member := reflect.New(d.Type.Elem()).Elem()
			if member.Kind() == reflect.Bool {
				member.SetBool(true)
			}
			current.SetMapIndex(v, member)
		}
		b.counts[d]++

		return nil
	})
}

// safely runs f, giving field context to its error and turning reflection panics into an InaccessibleFieldError
func (b *binder) safely(d *FieldDescriptor, raw string, f func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &errs.InaccessibleFieldError{Type: b.schema.Type, Field: d.Field, Err: fmt.Errorf("%v", r)}
		}
		if err != nil {
			err = b.fieldError(d, raw, err)
		}
	}()

	return f()
}

func (b *binder) fieldError(d *FieldDescriptor, raw string, err error) error {
	var pe *errs.ParseError
	if errors.As(err, &pe) {
		if pe.Field == "" {
			pe.Field = d.Label()
		}
		if pe.Status == 0 {
			pe.Status = d.ExitStatus
		}
	}
	return &errs.BindError{Field: d.Label(), Value: raw, Err: err}
}

// fallback binds fields which received no token from the environment, then the properties, then the default tag
func (b *binder) fallback() error {
	fields := make([]*FieldDescriptor, 0, len(b.schema.Named)+len(b.schema.Positional))
	fields = append(fields, b.schema.Named...)
	fields = append(fields, b.schema.Positional...)

	for _, d := range fields {
		if b.counts[d] > 0 {
			continue
		}
		raw, ok, err := b.lookupFallback(d)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}

		if d.collection == scalar {
			if err := b.assign(d, raw); err != nil {
				return err
			}
			continue
		}
		for _, item := range util.SplitList(raw) {
			if err := b.assign(d, item); err != nil {
				return err
			}
		}
	}

	return nil
}

// lookupFallback returns the environment or property value of d, else its default tag. The default tag is
// skipped when the destination already holds a value for d.
func (b *binder) lookupFallback(d *FieldDescriptor) (string, bool, error) {
	if d.Env != "" {
		if v, ok := (env.Chain{b.parser.envResolver, b.parser.properties}).Lookup(d.Env); ok {
			return v, true, nil
		}
	}
	if d.Default == "" {
		return "", false, nil
	}

	set, err := b.isSet(d)
	if err != nil || set {
		return "", false, err
	}
	return d.Default, true, nil
}

// isSet reports whether the destination holds a non-zero value for d. *bool fields defaulted by materialize
// count as unset.
func (b *binder) isSet(d *FieldDescriptor) (bool, error) {
	if b.materialized[d] {
		return false, nil
	}
	set := false
	err := b.safely(d, "", func() error {
		set = !d.access.get(b.dest).IsZero()
		return nil
	})
	return set, err
}

// validate checks collection minimums and required fields
func (b *binder) validate() error {
	for _, d := range append(append([]*FieldDescriptor{}, b.schema.Named...), b.schema.Positional...) {
		if n := b.counts[d]; d.collection != scalar && n > 0 && n < d.Min {
			return &errs.ParseError{
				Field:  d.Label(),
				Msg:    fmt.Sprintf("%s requires at least %d values, got %d", d.Label(), d.Min, n),
				Status: d.ExitStatus,
			}
		}
	}

	for _, d := range b.schema.Required {
		if b.counts[d] > 0 || d.IsBool() {
			continue
		}
		set, err := b.isSet(d)
		if err != nil {
			return err
		}
		if !set {
			return errs.NewRequiredFieldError(d.Label(), d.ExitStatus)
		}
	}

	return nil
}
