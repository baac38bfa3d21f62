package argbind

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/napalu/argbind/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type exitRecorder struct {
	codes []int
}

func (e *exitRecorder) exit(code int) {
	e.codes = append(e.codes, code)
}

func TestParser_BindOrExit(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantCodes  []int
		wantStdout string
		wantStderr string
		wantResult bool
	}{
		{
			name:       "success",
			args:       []string{"-n", "x", "target"},
			wantResult: true,
		},
		{
			name:       "help",
			args:       []string{"--help"},
			wantCodes:  []int{0},
			wantStdout: "The following options are accepted: ",
			wantResult: true,
		},
		{
			name:       "field exit status",
			args:       []string{"target"},
			wantCodes:  []int{3},
			wantStderr: "required argument --name is not set\n",
		},
		{
			name:       "default exit status",
			args:       []string{"-n", "x", "target", "extra"},
			wantCodes:  []int{1},
			wantStderr: `unexpected positional argument "extra"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			rec := &exitRecorder{}
			p := newTestParser(t, WithStdout(&stdout), WithStderr(&stderr), WithExitFunc(rec.exit))

			var opts requiredOptions
			res := p.BindOrExit(&opts, tt.args)

			assert.Equal(t, tt.wantCodes, rec.codes)
			assert.Equal(t, tt.wantResult, res != nil)
			if tt.wantStdout != "" {
				assert.True(t, strings.HasPrefix(stdout.String(), tt.wantStdout), stdout.String())
			} else {
				assert.Empty(t, stdout.String())
			}
			if tt.wantStderr != "" {
				assert.Contains(t, stderr.String(), tt.wantStderr)
			} else {
				assert.Empty(t, stderr.String())
			}
		})
	}
}

func TestParser_BindOrExitHelpForSubCommand(t *testing.T) {
	var stdout bytes.Buffer
	rec := &exitRecorder{}
	p := newTestParser(t, WithStdout(&stdout), WithExitFunc(rec.exit))

	res := p.BindOrExit(&rootCommand{}, []string{"sub", "-h"})
	require.NotNil(t, res)
	assert.Equal(t, []int{0}, rec.codes)
	assert.True(t, strings.HasPrefix(stdout.String(), "Usage: sub [options]"))
	assert.True(t, strings.HasSuffix(stdout.String(), "See the manual for details.\n"))
}

func TestParser_BindString(t *testing.T) {
	p := newTestParser(t)

	var opts typeOptions
	_, err := p.BindString(&opts, `-t "first tag" -t 'second tag' --long-value 5 -B`)
	require.NoError(t, err)
	assert.Equal(t, []string{"first tag", "second tag"}, opts.Tags)
	assert.Equal(t, int64(5), opts.LongValue)
	assert.True(t, opts.Boolean)

	_, err = p.BindString(&opts, `-t "unterminated`)
	assert.True(t, errors.Is(err, errs.ErrParse))
}

func TestParser_BindNew(t *testing.T) {
	p := newTestParser(t)

	opts, res, err := BindNew[typeOptions](p, []string{"-D", "2.5"})
	require.NoError(t, err)
	assert.Equal(t, 2.5, opts.Double)
	assert.Same(t, opts, res.Root)
	assert.Same(t, opts, res.Value)
	assert.Nil(t, res.Path)

	opts, res, err = BindNew[typeOptions](p, []string{"-D", "x"})
	assert.Error(t, err)
	assert.Nil(t, opts)
	assert.Nil(t, res)
}

func TestParser_BindType(t *testing.T) {
	p := newTestParser(t)

	res, err := p.BindType(reflect.TypeOf(&typeOptions{}), []string{"-L", "9"})
	require.NoError(t, err)
	opts, ok := res.Value.(*typeOptions)
	require.True(t, ok)
	assert.Equal(t, int64(9), opts.LongValue)

	_, err = p.BindType(reflect.TypeOf(""), nil)
	assert.True(t, errors.Is(err, errs.ErrMissingConstructor))

	_, err = p.BindType(nil, nil)
	assert.True(t, errors.Is(err, errs.ErrMissingConstructor))
}

func TestParser_InvalidDestination(t *testing.T) {
	p := newTestParser(t)
	var nilOpts *typeOptions

	for _, dest := range []interface{}{nil, typeOptions{}, nilOpts, new(int)} {
		_, err := p.Bind(dest, nil)
		assert.True(t, errors.Is(err, errs.ErrMissingConstructor), "%T", dest)
	}
}

func TestNewParserWith_Errors(t *testing.T) {
	tests := []struct {
		name   string
		config ConfigureParserFunc
	}{
		{name: "no help tokens", config: WithHelpTokens()},
		{name: "negative wrap width", config: WithWrapWidth(-1)},
		{name: "unnamed converter", config: WithNamedConverter("", NewConverter(parsePoint, nil))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewParserWith(tt.config)
			assert.Error(t, err)
			assert.Nil(t, p)
		})
	}
}

func TestExitStatus(t *testing.T) {
	assert.Equal(t, 0, ExitStatus(nil))
	assert.Equal(t, 1, ExitStatus(errors.New("plain")))
	assert.Equal(t, 7, ExitStatus(errs.NewRequiredFieldError("--x", 7)))
	assert.True(t, IsParseError(errs.NewRequiredFieldError("--x", 7)))
	assert.False(t, IsParseError(&errs.DuplicateOptionError{Name: "x"}))
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "bound", Bound.String())
	assert.Equal(t, "help requested", HelpRequested.String())
	assert.Equal(t, "unknown", Outcome(9).String())
}
