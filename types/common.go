package types

// Kind is used to define the kind of entity a struct tag represents
type Kind string

const (
	KindFlag    Kind = "flag"
	KindCommand Kind = "command"
	KindEmpty   Kind = ""
)

// FieldKind classifies a bindable field within a schema. Every field has exactly one classification.
type FieldKind int

const (
	Named      FieldKind = iota // Named fields are bound through a long flag or a short code
	Positional                  // Positional fields are bound by their order in the non-flag token stream
	Subcommand                  // Subcommand fields hold a nested command type selected by a leading token
)

// String returns the string representation of a FieldKind
func (k FieldKind) String() string {
	switch k {
	case Named:
		return "named"
	case Positional:
		return "positional"
	case Subcommand:
		return "subcommand"
	}
	return "unknown"
}

// Char is the single-character value type. A raw value converts to Char only when it holds exactly one character.
type Char rune

// String returns the character as a string
func (c Char) String() string {
	return string(rune(c))
}

// DefaultHelpTokens are the tokens which trigger a help request when a command does not declare its own.
var DefaultHelpTokens = []string{"-h", "--help"}

// CommandInfo describes a command type. It is returned by types implementing Commander.
type CommandInfo struct {
	// Name selects the command when it appears as the first token. Defaults to the lower-cased field name.
	Name string
	// Description is shown in the commands section of the parent's help text
	Description string
	// OpeningText precedes the option list in help text
	OpeningText string
	// ClosingText follows the option list in help text
	ClosingText string
	// HelpTokens override DefaultHelpTokens for this command
	HelpTokens []string
}

// Commander is implemented by struct types which declare command metadata. A field whose type
// implements Commander is a sub-command field.
type Commander interface {
	CommandInfo() CommandInfo
}

// Unbounded is used as a collection maximum to accept any number of values
const Unbounded = -1

// TagConfig is used to store struct tag information about a field
type TagConfig struct {
	Kind        Kind
	Name        string
	Short       string
	Description string
	Category    string
	Default     string
	Env         string
	Converter   string
	Required    bool
	Position    *int
	Min         int
	Max         *int
	ExitStatus  int
	Capacity    int
}
