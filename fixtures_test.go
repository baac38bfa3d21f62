package argbind

import (
	"bytes"
	"errors"
	"testing"

	"github.com/napalu/argbind/env"
	"github.com/napalu/argbind/types"
	"github.com/stretchr/testify/require"
)

type typeOptions struct {
	Hidden    bool       `arg:"short:H"`
	Boolean   bool       `arg:"short:B"`
	Double    float64    `arg:"short:D"`
	LongValue int64      `arg:"short:L;desc:a long value"`
	Letter    types.Char `arg:"short:c"`
	Tags      []string   `arg:"short:t"`
	Optional  *bool
	Level     *int `arg:"short:l"`
}

type requiredOptions struct {
	Name   string `arg:"short:n;required:true;exit:3"`
	Force  bool   `arg:"short:f;required:true"`
	Target string `arg:"pos:0;required:true;exit:4"`
}

type orderedOptions struct {
	Third  string   `arg:"pos:2"`
	First  string   `arg:"pos:0"`
	Fourth []string `arg:"pos:3"`
	Second int      `arg:"pos:1"`
}

type subCommand struct {
	URL   string `arg:"short:u;name:url;required:true"`
	Count int    `arg:"short:c"`
}

func (subCommand) CommandInfo() types.CommandInfo {
	return types.CommandInfo{
		Name:        "sub",
		Description: "a sub command",
		OpeningText: "Usage: sub [options]",
		ClosingText: "See the manual for details.",
	}
}

type otherCommand struct {
	Flag bool
}

type rootCommand struct {
	Verbose bool `arg:"short:v"`
	Sub     *subCommand
	Other   otherCommand `arg:"kind:command;desc:other things"`
	Input   string       `arg:"pos:0"`
}

func newTestParser(t *testing.T, configs ...ConfigureParserFunc) *Parser {
	t.Helper()
	configs = append([]ConfigureParserFunc{
		WithStdout(&bytes.Buffer{}),
		WithStderr(&bytes.Buffer{}),
		WithEnvResolver(env.MapResolver{}),
		WithExitFunc(func(code int) {
			t.Fatalf("unexpected exit with status %d", code)
		}),
	}, configs...)

	p, err := NewParserWith(configs...)
	require.NoError(t, err)
	return p
}

func requireErrorAs[T error](t *testing.T, err error) T {
	t.Helper()
	var target T
	require.Error(t, err)
	require.True(t, errors.As(err, &target), "expected %T in chain of %v", target, err)
	return target
}
