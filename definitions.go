package argbind

import (
	"io"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/iancoleman/strcase"
	"github.com/napalu/argbind/env"
)

// Outcome classifies a bind which did not fail
type Outcome int

const (
	// Bound means every token was consumed and validation passed
	Bound Outcome = iota
	// HelpRequested means a help token halted parsing. Validation did not run.
	HelpRequested
)

// String returns the string representation of an Outcome
func (o Outcome) String() string {
	switch o {
	case Bound:
		return "bound"
	case HelpRequested:
		return "help requested"
	}
	return "unknown"
}

// Result is returned by every bind which did not fail
type Result struct {
	Outcome Outcome
	// Value points to the command value which was active when parsing stopped: the destination itself, or the
	// nested value of the last selected sub-command
	Value any
	// Root points to the destination
	Root any
	// Type is the struct type of Value. Help is rendered for this type.
	Type reflect.Type
	// Path holds the names of the selected sub-commands in order
	Path []string
}

// NameConversionFunc converts a field name to a flag, command or environment variable name
type NameConversionFunc func(string) string

// ConfigureParserFunc is used when configuring a Parser with NewParserWith
type ConfigureParserFunc func(p *Parser, err *error)

// ExitFunc terminates the process with code. BindOrExit calls it instead of os.Exit.
type ExitFunc func(code int)

// Built-in conversion strategies
var (
	// ToKebabCase converts a string to kebab case "my-flag-name"
	ToKebabCase = func(s string) string {
		return strcase.ToKebab(s)
	}

	// ToSnakeCase converts a string to snake case "my_flag_name"
	ToSnakeCase = func(s string) string {
		return strcase.ToSnake(s)
	}

	// ToScreamingSnake converts a string to screaming snake case "MY_FLAG_NAME"
	ToScreamingSnake = func(s string) string {
		return strcase.ToScreamingSnake(s)
	}

	// ToLowerCamel converts a string to lower camel case "myFlagName"
	ToLowerCamel = func(s string) string {
		return strcase.ToLowerCamel(s)
	}

	// ToLowerCase converts a string to lower case "myflagname"
	ToLowerCase = func(s string) string {
		return strings.ToLower(s)
	}

	DefaultCommandNameConverter = ToLowerCase
	DefaultFlagNameConverter    = ToKebabCase
)

// DefaultWrapWidth is the column at which help text is wrapped
const DefaultWrapWidth = 80

// Parser binds command-line tokens to struct values. A configured Parser may be shared by concurrent binds, and
// Register and RegisterNamed may run alongside them. Options are applied by NewParserWith only.
type Parser struct {
	registry             *Registry
	schemas              atomic.Pointer[sync.Map]
	helpTokens           []string
	envResolver          env.Resolver
	properties           env.Resolver
	flagNameConverter    NameConversionFunc
	commandNameConverter NameConversionFunc
	envNameConverter     NameConversionFunc
	wrapWidth            int
	stdout               io.Writer
	stderr               io.Writer
	exit                 ExitFunc
}
