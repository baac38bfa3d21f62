package argbind

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/napalu/argbind/errs"
	"github.com/napalu/argbind/internal/parse"
	"github.com/napalu/argbind/internal/util"
	"github.com/napalu/argbind/types"
	orderedmap "github.com/wk8/go-ordered-map"
)

var commanderType = reflect.TypeOf((*types.Commander)(nil)).Elem()

type collectionKind int

const (
	scalar collectionKind = iota
	sliceCollection
	setCollection
	unsupportedCollection
)

// FieldDescriptor describes one bindable field of a command type
type FieldDescriptor struct {
	Kind types.FieldKind
	// Field is the Go field name. Fields promoted from embedded structs are prefixed with the embedded type name.
	Field string
	// Name is the long flag of a named field or the name of a sub-command field
	Name        string
	Short       string
	Description string
	Category    string
	Required    bool
	Position    int
	Min         int
	// Max bounds the number of values of a collection field, types.Unbounded for no bound
	Max        int
	Env        string
	Default    string
	Converter  string
	ExitStatus int
	Capacity   int
	// Type is the declared field type
	Type reflect.Type
	// Elem is the element type of a collection field, nil for scalars
	Elem reflect.Type

	collection collectionKind
	access     accessor
}

// IsCollection reports whether the field accumulates values
func (d *FieldDescriptor) IsCollection() bool {
	return d.collection != scalar
}

// ValueType returns the type a single raw value converts to
func (d *FieldDescriptor) ValueType() reflect.Type {
	if d.Elem != nil {
		return d.Elem
	}
	return d.Type
}

// IsBool reports whether the field takes no value token
func (d *FieldDescriptor) IsBool() bool {
	return util.IsBool(d.ValueType())
}

// Label returns the externally visible name of the field: "--long" for named fields, "position N" for
// positional fields
func (d *FieldDescriptor) Label() string {
	switch d.Kind {
	case types.Positional:
		return fmt.Sprintf("position %d", d.Position)
	case types.Subcommand:
		return d.Name
	}
	return "--" + d.Name
}

// Schema is the type-keyed description of the bindable fields of one command type
type Schema struct {
	Type reflect.Type
	Info types.CommandInfo
	// HelpTokens are the tokens requesting help while this command is active
	HelpTokens []string
	// Named fields in declaration order
	Named []*FieldDescriptor
	// Positional fields sorted by position, ties broken by declaration order
	Positional []*FieldDescriptor
	// Required named and positional fields in declaration order
	Required []*FieldDescriptor

	names    *orderedmap.OrderedMap
	commands *orderedmap.OrderedMap
}

// Lookup returns the named field registered under a long flag or short code
func (s *Schema) Lookup(name string) (*FieldDescriptor, bool) {
	v, ok := s.names.Get(name)
	if !ok {
		return nil, false
	}
	return v.(*FieldDescriptor), true
}

// Command returns the sub-command field selected by name
func (s *Schema) Command(name string) (*FieldDescriptor, bool) {
	v, ok := s.commands.Get(name)
	if !ok {
		return nil, false
	}
	return v.(*FieldDescriptor), true
}

// Commands returns the sub-command fields in declaration order
func (s *Schema) Commands() []*FieldDescriptor {
	commands := make([]*FieldDescriptor, 0, s.commands.Len())
	for pair := s.commands.Oldest(); pair != nil; pair = pair.Next() {
		commands = append(commands, pair.Value.(*FieldDescriptor))
	}
	return commands
}

// IsHelpToken reports whether token requests help while this command is active
func (s *Schema) IsHelpToken(token string) bool {
	for _, h := range s.HelpTokens {
		if h == token {
			return true
		}
	}
	return false
}

type schemaEntry struct {
	once   sync.Once
	schema *Schema
	err    error
}

// Schema returns the schema of the struct type t (or the struct t points to). Schemas are extracted once per type
// and parser; extraction errors are cached as well.
func (p *Parser) Schema(t reflect.Type) (*Schema, error) {
	if t == nil {
		return nil, &errs.MissingConstructorError{Name: "nil", Reason: "no destination type given"}
	}
	t = util.UnwrapType(t)

	e, _ := p.schemas.Load().LoadOrStore(t, &schemaEntry{})
	entry := e.(*schemaEntry)
	entry.once.Do(func() {
		entry.schema, entry.err = p.extract(t)
	})

	return entry.schema, entry.err
}

func (p *Parser) extract(t reflect.Type) (*Schema, error) {
	if t.Kind() != reflect.Struct {
		return nil, &errs.MissingConstructorError{Type: t, Reason: "only struct types can be bound"}
	}

	s := &Schema{
		Type:     t,
		names:    orderedmap.New(),
		commands: orderedmap.New(),
	}
	if reflect.PointerTo(t).Implements(commanderType) {
		s.Info = reflect.New(t).Interface().(types.Commander).CommandInfo()
	}

	switch {
	case len(s.Info.HelpTokens) > 0:
		s.HelpTokens = s.Info.HelpTokens
	case len(p.helpTokens) > 0:
		s.HelpTokens = p.helpTokens
	default:
		s.HelpTokens = types.DefaultHelpTokens
	}

	if err := p.walk(s, t, nil, ""); err != nil {
		return nil, err
	}

	sort.SliceStable(s.Positional, func(i, j int) bool {
		return s.Positional[i].Position < s.Positional[j].Position
	})

	return s, nil
}

// walk registers the fields of t, flattening embedded structs which are neither tagged nor commands
func (p *Parser) walk(s *Schema, t reflect.Type, prefix []int, path string) error {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		config, err := parse.Lookup(field)
		if err != nil {
			return err
		}
		if config == nil {
			continue
		}

		index := make([]int, len(prefix)+1)
		copy(index, prefix)
		index[len(prefix)] = i

		_, tagged := field.Tag.Lookup(parse.TagKey)
		if field.Anonymous && field.Type.Kind() == reflect.Struct && !tagged && !isCommandType(field.Type) {
			if err := p.walk(s, field.Type, index, path+field.Name+"."); err != nil {
				return err
			}
			continue
		}
		if !field.IsExported() && !tagged {
			continue
		}

		d, err := p.describe(t, field, config, index)
		if err != nil {
			return err
		}
		d.Field = path + field.Name

		switch d.Kind {
		case types.Subcommand:
			if existing, ok := s.commands.Get(d.Name); ok {
				return &errs.DuplicateOptionError{Name: d.Name, Field: d.Field, Existing: existing.(*FieldDescriptor).Field}
			}
			s.commands.Set(d.Name, d)
			continue
		case types.Positional:
			s.Positional = append(s.Positional, d)
		default:
			for _, name := range []string{d.Name, d.Short} {
				if name == "" {
					continue
				}
				if existing, ok := s.names.Get(name); ok {
					return &errs.DuplicateOptionError{Name: name, Field: d.Field, Existing: existing.(*FieldDescriptor).Field}
				}
				s.names.Set(name, d)
			}
			s.Named = append(s.Named, d)
		}

		if d.Required {
			s.Required = append(s.Required, d)
		}
	}

	return nil
}

func (p *Parser) describe(owner reflect.Type, field reflect.StructField, config *types.TagConfig,
	index []int) (*FieldDescriptor, error) {
	d := &FieldDescriptor{
		Description: config.Description,
		Category:    config.Category,
		Required:    config.Required,
		Min:         config.Min,
		Max:         types.Unbounded,
		Env:         config.Env,
		Default:     config.Default,
		Converter:   config.Converter,
		ExitStatus:  config.ExitStatus,
		Capacity:    config.Capacity,
		Type:        field.Type,
	}
	if d.ExitStatus == 0 {
		d.ExitStatus = errs.DefaultExitStatus
	}

	if config.Kind == types.KindCommand || isCommandType(field.Type) {
		return p.describeCommand(d, field, config, index)
	}

	access, err := newAccessor(owner, field, index)
	if err != nil {
		return nil, err
	}
	d.access = access

	d.collection, d.Elem = p.classify(field.Type, config.Converter != "")

	if config.Position != nil {
		d.Kind = types.Positional
		d.Position = *config.Position
		if d.collection != scalar {
			d.Max = 1
		}
	} else {
		d.Kind = types.Named
		d.Name = config.Name
		if d.Name == "" {
			d.Name = p.flagNameConverter(field.Name)
		}
		d.Short = config.Short
		if d.Env == "" && p.envNameConverter != nil {
			d.Env = p.envNameConverter(d.Name)
		}
	}
	if config.Max != nil {
		d.Max = *config.Max
	}

	return d, nil
}

func (p *Parser) describeCommand(d *FieldDescriptor, field reflect.StructField, config *types.TagConfig,
	index []int) (*FieldDescriptor, error) {
	target := util.UnwrapType(field.Type)
	if target.Kind() != reflect.Struct {
		return nil, &errs.MissingConstructorError{Type: field.Type, Reason: "a command field must hold a struct"}
	}
	if !field.IsExported() {
		return nil, &errs.InaccessibleFieldError{
			Type:  field.Type,
			Field: field.Name,
			Err:   fmt.Errorf("command fields must be exported"),
		}
	}

	d.Kind = types.Subcommand
	d.Elem = target
	d.Name = config.Name
	if reflect.PointerTo(target).Implements(commanderType) {
		info := reflect.New(target).Interface().(types.Commander).CommandInfo()
		if info.Name != "" {
			d.Name = info.Name
		}
		if d.Description == "" {
			d.Description = info.Description
		}
	}
	if d.Name == "" {
		d.Name = p.commandNameConverter(field.Name)
	}

	d.access = accessor{
		get: func(dest reflect.Value) reflect.Value {
			return dest.FieldByIndex(index)
		},
		set: func(dest reflect.Value, v reflect.Value) {
			dest.FieldByIndex(index).Set(v)
		},
	}

	return d, nil
}

// classify determines how values accumulate in a field of type t. Types with a converter, named or otherwise,
// are bound as scalars.
func (p *Parser) classify(t reflect.Type, hasOverride bool) (collectionKind, reflect.Type) {
	if hasOverride || p.registry.Handles(t) {
		return scalar, nil
	}

	switch t.Kind() {
	case reflect.Slice:
		return sliceCollection, t.Elem()
	case reflect.Array:
		return unsupportedCollection, t.Elem()
	case reflect.Map:
		switch {
		case t.Elem().Kind() == reflect.Bool:
			return setCollection, t.Key()
		case t.Elem().Kind() == reflect.Struct && t.Elem().NumField() == 0:
			return setCollection, t.Key()
		}
		return unsupportedCollection, t.Key()
	}

	return scalar, nil
}

func isCommandType(t reflect.Type) bool {
	target := util.UnwrapType(t)
	return target.Kind() == reflect.Struct && reflect.PointerTo(target).Implements(commanderType)
}
