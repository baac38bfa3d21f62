package argbind

import (
	"errors"
	"io"
	"reflect"

	"github.com/napalu/argbind/env"
)

// NewParserWith allows initialization of Parser using option functions. The caller should always test for error on
// return because Parser will be nil when an error occurs during initialization.
//
// Configuration example:
//
//	parser, err := NewParserWith(
//		WithHelpTokens("-?", "--help"),
//		WithProperties(map[string]string{"LOG_LEVEL": "info"}),
//		WithNamedConverter("upper", NewConverter(func(s string) (string, error) {
//			return strings.ToUpper(s), nil
//		}, nil)))
func NewParserWith(configs ...ConfigureParserFunc) (*Parser, error) {
	p := NewParser()

	var err error
	for _, config := range configs {
		config(p, &err)
		if err != nil {
			return nil, err
		}
	}

	return p, err
}

// WithHelpTokens replaces the tokens requesting help for commands which do not declare their own
func WithHelpTokens(tokens ...string) ConfigureParserFunc {
	return func(p *Parser, err *error) {
		if len(tokens) == 0 {
			*err = errors.New("at least one help token is required")
			return
		}
		p.helpTokens = tokens
		p.resetSchemas()
	}
}

// WithStdout sets the writer receiving help text in BindOrExit
func WithStdout(w io.Writer) ConfigureParserFunc {
	return func(p *Parser, err *error) {
		p.stdout = w
	}
}

// WithStderr sets the writer receiving failure messages in BindOrExit
func WithStderr(w io.Writer) ConfigureParserFunc {
	return func(p *Parser, err *error) {
		p.stderr = w
	}
}

// WithExitFunc replaces os.Exit in BindOrExit
func WithExitFunc(exit ExitFunc) ConfigureParserFunc {
	return func(p *Parser, err *error) {
		p.exit = exit
	}
}

// WithEnvResolver replaces the process environment as the first fallback source of fields declaring `env`
func WithEnvResolver(resolver env.Resolver) ConfigureParserFunc {
	return func(p *Parser, err *error) {
		p.envResolver = resolver
	}
}

// WithProperties sets the properties consulted after the environment, keyed by the same `env` name
func WithProperties(properties map[string]string) ConfigureParserFunc {
	return func(p *Parser, err *error) {
		p.properties = env.MapResolver(properties)
	}
}

// WithWrapWidth sets the column at which help text is wrapped. 0 disables wrapping.
func WithWrapWidth(width int) ConfigureParserFunc {
	return func(p *Parser, err *error) {
		if width < 0 {
			*err = errors.New("wrap width must not be negative")
			return
		}
		p.wrapWidth = width
	}
}

// WithConverter registers c for every field of type c.Type()
func WithConverter(c Converter) ConfigureParserFunc {
	return func(p *Parser, err *error) {
		p.Register(c)
	}
}

// WithNamedConverter registers c for fields declaring `converter:name`
func WithNamedConverter(name string, c Converter) ConfigureParserFunc {
	return func(p *Parser, err *error) {
		if name == "" {
			*err = errors.New("a named converter requires a name")
			return
		}
		p.RegisterNamed(name, c)
	}
}

// WithConverterFor registers read as the converter of values of type T
func WithConverterFor[T any](read func(string) (T, error)) ConfigureParserFunc {
	return func(p *Parser, err *error) {
		p.Register(NewConverter(read, nil))
	}
}

// WithCommandNameConverter allows setting a custom name converter for command names
func WithCommandNameConverter(converter NameConversionFunc) ConfigureParserFunc {
	return func(p *Parser, err *error) {
		p.commandNameConverter = converter
		p.resetSchemas()
	}
}

// WithFlagNameConverter allows setting a custom name converter for flag names
func WithFlagNameConverter(converter NameConversionFunc) ConfigureParserFunc {
	return func(p *Parser, err *error) {
		p.flagNameConverter = converter
		p.resetSchemas()
	}
}

// WithEnvNameConverter derives an environment variable name from the long flag of named fields which do not
// declare `env`. Without it, only declared names are looked up.
func WithEnvNameConverter(converter NameConversionFunc) ConfigureParserFunc {
	return func(p *Parser, err *error) {
		p.envNameConverter = converter
		p.resetSchemas()
	}
}

// Register adds c to the parser's per-type converter table and discards cached schemas. It may be called while
// other goroutines bind; a bind already running keeps the schema it started with.
func (p *Parser) Register(c Converter) {
	p.registry.Register(c)
	p.resetSchemas()
}

// RegisterNamed makes c available to fields declaring `converter:name`. Like Register, it is safe to call
// while other goroutines bind.
func (p *Parser) RegisterNamed(name string, c Converter) {
	p.registry.RegisterNamed(name, c)
	p.resetSchemas()
}

// Convert converts value to t the way a field of type t without override converter is bound
func (p *Parser) Convert(value string, t reflect.Type) (reflect.Value, error) {
	return p.registry.Convert(value, t, "")
}

// Format is the inverse of Convert
func (p *Parser) Format(v reflect.Value) (string, error) {
	return p.registry.Format(v, "")
}
