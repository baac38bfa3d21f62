// Package argbind binds command-line tokens to the fields of a struct described by `arg` struct tags. It supports
// long and short flags, combined short flags, positional fields, collections, environment and property fallbacks,
// and sub-commands selected by a leading token.
package argbind

import (
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"sync"

	"github.com/fatih/color"
	"github.com/napalu/argbind/env"
	"github.com/napalu/argbind/errs"
	"github.com/napalu/argbind/internal/parse"
	"github.com/napalu/argbind/internal/util"
)

// NewParser returns a Parser with default settings: help tokens -h and --help, kebab-case long flags, lower-case
// command names and the process environment as fallback source.
func NewParser() *Parser {
	p := &Parser{
		registry:             NewRegistry(),
		envResolver:          &env.OSResolver{},
		flagNameConverter:    DefaultFlagNameConverter,
		commandNameConverter: DefaultCommandNameConverter,
		wrapWidth:            DefaultWrapWidth,
		stdout:               os.Stdout,
		stderr:               os.Stderr,
		exit:                 os.Exit,
	}
	p.resetSchemas()

	return p
}

func (p *Parser) resetSchemas() {
	p.schemas.Store(&sync.Map{})
}

// Bind populates dest, a non-nil pointer to a struct, from args. When args start with sub-command names, the
// nested command value is populated instead and returned in Result.Value.
//
// A help token stops parsing and yields a Result with Outcome HelpRequested; required fields are not validated
// in that case. The first failure stops parsing and is returned.
func (p *Parser) Bind(dest any, args []string) (*Result, error) {
	v := reflect.ValueOf(dest)
	if !v.IsValid() || v.Kind() != reflect.Ptr || v.IsNil() {
		return nil, &errs.MissingConstructorError{
			Type:   reflect.TypeOf(dest),
			Reason: "destination must be a non-nil pointer to a struct",
		}
	}

	root, err := p.Schema(v.Type().Elem())
	if err != nil {
		return nil, err
	}

	sel, err := p.resolve(v.Elem(), root, args)
	if err != nil {
		return nil, err
	}

	b := newBinder(p, sel.schema, sel.dest, sel.args)
	if err := b.bind(); err != nil {
		return nil, err
	}

	res := &Result{
		Outcome: Bound,
		Value:   sel.dest.Addr().Interface(),
		Root:    dest,
		Type:    sel.schema.Type,
		Path:    sel.path,
	}
	if b.help {
		res.Outcome = HelpRequested
	}

	return res, nil
}

// BindType allocates a value of t, a struct type or a pointer to one, and binds args to it
func (p *Parser) BindType(t reflect.Type, args []string) (*Result, error) {
	if t == nil {
		return nil, &errs.MissingConstructorError{Name: "nil", Reason: "no destination type given"}
	}
	target := util.UnwrapType(t)
	if target.Kind() != reflect.Struct {
		return nil, &errs.MissingConstructorError{Type: t, Reason: "only struct types can be bound"}
	}

	return p.Bind(reflect.New(target).Interface(), args)
}

// BindNew allocates a T and binds args to it
func BindNew[T any](p *Parser, args []string) (*T, *Result, error) {
	dest := new(T)
	res, err := p.Bind(dest, args)
	if err != nil {
		return nil, nil, err
	}
	return dest, res, nil
}

// BindString splits cmdLine with shell quoting rules and binds the tokens to dest
func (p *Parser) BindString(dest any, cmdLine string) (*Result, error) {
	args, err := parse.Split(cmdLine)
	if err != nil {
		return nil, &errs.ParseError{Value: cmdLine, Msg: "invalid command line", Err: err}
	}
	return p.Bind(dest, args)
}

// BindOrExit binds args to dest. When help is requested, the help text of the active command is written to
// stdout and the process exits with status 0. A failure is written to stderr and the process exits with the
// status reported by errs.ExitStatus. The Result is returned when binding succeeded, or when the exit function
// returned.
func (p *Parser) BindOrExit(dest any, args []string) *Result {
	res, err := p.Bind(dest, args)
	if err != nil {
		p.fail(err)
		return nil
	}

	if res.Outcome == HelpRequested {
		help, err := p.Help(res.Type)
		if err != nil {
			p.fail(err)
			return res
		}
		fmt.Fprintln(p.stdout, help)
		p.exit(0)
	}

	return res
}

func (p *Parser) fail(err error) {
	red := color.New(color.FgRed)
	if f, ok := p.stderr.(*os.File); !ok || f != os.Stderr {
		red.DisableColor()
	}
	red.Fprintln(p.stderr, err.Error())
	p.exit(errs.ExitStatus(err))
}

// Help renders the help text of t, a struct type or a pointer to one
func (p *Parser) Help(t reflect.Type) (string, error) {
	s, err := p.Schema(t)
	if err != nil {
		return "", err
	}
	return newRenderer(p, s).render(), nil
}

// PrintHelp writes the help text of t to w
func (p *Parser) PrintHelp(w io.Writer, t reflect.Type) error {
	help, err := p.Help(t)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, help)
	return err
}

// IsHelpRequested reports whether res stems from a help request
func IsHelpRequested(res *Result) bool {
	return res != nil && res.Outcome == HelpRequested
}

// ExitStatus returns the exit status for err, 0 when err is nil
func ExitStatus(err error) int {
	return errs.ExitStatus(err)
}

// IsParseError reports whether err stems from a raw value which could not be bound
func IsParseError(err error) bool {
	return errors.Is(err, errs.ErrParse)
}
