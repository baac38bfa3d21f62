package argbind

import (
	"strings"
	"unicode/utf8"

	"github.com/napalu/argbind/internal/util"
)

// stateFn is one state of the token state machine. A nil next state terminates the machine.
type stateFn func(b *binder) (stateFn, error)

func (b *binder) run() error {
	for state := stateFn(neutral); state != nil; {
		var err error
		if state, err = state(b); err != nil {
			return err
		}
	}
	return nil
}

// neutral classifies the next token without consuming flags
func neutral(b *binder) (stateFn, error) {
	token, ok := b.tokens.Peek()
	if !ok {
		return nil, nil
	}

	if !b.terminated && b.schema.IsHelpToken(token) {
		return flag, nil
	}

	if b.terminated || !isFlag(token) {
		b.tokens.Pop()
		return neutral, b.bindPositional(token)
	}

	if token == "--" {
		b.tokens.Pop()
		b.terminated = true
		return neutral, nil
	}

	if strings.HasPrefix(token, "--") || utf8.RuneCountInString(token) == 2 {
		return flag, nil
	}

	// -abc is expanded to -a -b -c
	b.tokens.Pop()
	cluster := []rune(token[1:])
	util.Reverse(cluster)
	for _, r := range cluster {
		b.tokens.Push("-" + string(r))
	}

	return flag, nil
}

// flag consumes a flag token and records the option name
func flag(b *binder) (stateFn, error) {
	token, _ := b.tokens.Pop()
	if b.schema.IsHelpToken(token) {
		b.help = true
		return nil, nil
	}

	b.inline = nil
	name := strings.TrimPrefix(token, "-")
	if strings.HasPrefix(name, "-") {
		name = name[1:]
		if n, v, found := strings.Cut(name, "="); found {
			name = n
			b.inline = &v
		}
	}
	b.current = name

	return value, nil
}

// value binds the value of the current option
func value(b *binder) (stateFn, error) {
	if b.inline != nil {
		raw := *b.inline
		b.inline = nil
		return neutral, b.bindNamed(b.current, raw)
	}

	if d, found := b.schema.Lookup(b.current); found && d.IsBool() {
		return neutral, b.bindNamed(b.current, "true")
	}

	token, ok := b.tokens.Peek()
	if !ok {
		return nil, nil
	}
	if b.schema.IsHelpToken(token) {
		return flag, nil
	}

	b.tokens.Pop()
	return neutral, b.bindNamed(b.current, token)
}

// isFlag reports whether token starts with a flag marker. A lone "-" is a value.
func isFlag(token string) bool {
	return len(token) > 1 && token[0] == '-'
}
