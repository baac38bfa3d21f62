package argbind

import (
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/napalu/argbind/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommand_Resolution(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		want      rootCommand
		wantType  reflect.Type
		wantPath  []string
		wantValue interface{}
	}{
		{
			name:      "sub-command",
			args:      []string{"sub", "-u", "http://x"},
			want:      rootCommand{Sub: &subCommand{URL: "http://x"}},
			wantType:  reflect.TypeOf(subCommand{}),
			wantPath:  []string{"sub"},
			wantValue: &subCommand{URL: "http://x"},
		},
		{
			name:      "value command",
			args:      []string{"other", "--flag"},
			want:      rootCommand{Other: otherCommand{Flag: true}},
			wantType:  reflect.TypeOf(otherCommand{}),
			wantPath:  []string{"other"},
			wantValue: &otherCommand{Flag: true},
		},
		{
			name:      "no command",
			args:      []string{"-v", "sub"},
			want:      rootCommand{Verbose: true, Input: "sub"},
			wantType:  reflect.TypeOf(rootCommand{}),
			wantValue: &rootCommand{Verbose: true, Input: "sub"},
		},
		{
			name:      "unknown first token",
			args:      []string{"file.txt", "-v"},
			want:      rootCommand{Verbose: true, Input: "file.txt"},
			wantType:  reflect.TypeOf(rootCommand{}),
			wantValue: &rootCommand{Verbose: true, Input: "file.txt"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestParser(t)
			var root rootCommand
			res, err := p.Bind(&root, tt.args)
			require.NoError(t, err)

			if diff := cmp.Diff(tt.want, root); diff != "" {
				t.Errorf("root mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantValue, res.Value); diff != "" {
				t.Errorf("value mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, tt.wantType, res.Type)
			assert.Equal(t, tt.wantPath, res.Path)
			assert.Same(t, &root, res.Root)
		})
	}
}

func TestCommand_ReturnsNestedInstance(t *testing.T) {
	p := newTestParser(t)

	res, err := p.BindType(reflect.TypeOf(rootCommand{}), []string{"sub", "-u", "http://x"})
	require.NoError(t, err)

	sub, ok := res.Value.(*subCommand)
	require.True(t, ok, "got %T", res.Value)
	assert.Equal(t, "http://x", sub.URL)

	root := res.Root.(*rootCommand)
	assert.Same(t, sub, root.Sub)
}

func TestCommand_ValidatesActiveCommandOnly(t *testing.T) {
	p := newTestParser(t)

	_, err := p.Bind(&rootCommand{}, []string{"sub", "-c", "2"})
	rfe := requireErrorAs[*errs.RequiredFieldError](t, err)
	assert.Equal(t, "--url", rfe.Field)

	_, err = p.Bind(&rootCommand{}, []string{"other"})
	assert.NoError(t, err, "the root does not require sub-command fields")
}

func TestCommand_Help(t *testing.T) {
	p := newTestParser(t)

	res, err := p.Bind(&rootCommand{}, []string{"sub", "--help"})
	require.NoError(t, err)
	assert.Equal(t, HelpRequested, res.Outcome)
	assert.Equal(t, reflect.TypeOf(subCommand{}), res.Type)

	res, err = p.Bind(&rootCommand{}, []string{"-h", "sub"})
	require.NoError(t, err)
	assert.Equal(t, HelpRequested, res.Outcome)
	assert.Equal(t, reflect.TypeOf(rootCommand{}), res.Type)
}

type deepLeaf struct {
	Depth int `arg:"short:d"`
}

type deepMiddle struct {
	Leaf *deepLeaf `arg:"kind:command"`
}

type deepRoot struct {
	Middle deepMiddle `arg:"kind:command;name:mid"`
}

func TestCommand_Nested(t *testing.T) {
	p := newTestParser(t)

	root, res, err := BindNew[deepRoot](p, []string{"mid", "leaf", "-d", "3"})
	require.NoError(t, err)
	assert.Equal(t, []string{"mid", "leaf"}, res.Path)
	require.NotNil(t, root.Middle.Leaf)
	assert.Equal(t, 3, root.Middle.Leaf.Depth)
	assert.Same(t, root.Middle.Leaf, res.Value)
}
