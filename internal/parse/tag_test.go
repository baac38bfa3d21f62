package parse

import (
	"errors"
	"reflect"
	"testing"

	"github.com/napalu/argbind/errs"
	"github.com/napalu/argbind/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func structField(t *testing.T, v interface{}, name string) reflect.StructField {
	t.Helper()
	f, ok := reflect.TypeOf(v).FieldByName(name)
	require.True(t, ok, "field %s not found", name)
	return f
}

func TestLookup(t *testing.T) {
	type sample struct {
		Plain    string
		Ignored  string `ignore:""`
		Dashed   string `arg:"-"`
		Named    int    `arg:"name:long-value;short:L;required:true;desc:A long value: with colon;category:Type tests"`
		Env      int64  `arg:"env:LONG_VALUE;exit:3"`
		Ordered  string `arg:"pos:2;required:true"`
		Bounded  []int  `arg:"pos:{idx:0};min:1;max:*"`
		Capped   []int  `arg:"capacity:4;max:2"`
		Command  struct{}
		Cmd      struct{} `arg:"kind:command;name:sub;desc:a sub command"`
		Convert  string   `arg:"converter:date;default:2022-12-11"`
		Trailing bool     `arg:"short:v;"`
	}

	var s sample

	cfg, err := Lookup(structField(t, s, "Plain"))
	require.NoError(t, err)
	assert.Equal(t, types.KindFlag, cfg.Kind)
	assert.Empty(t, cfg.Name)

	for _, name := range []string{"Ignored", "Dashed"} {
		cfg, err = Lookup(structField(t, s, name))
		assert.NoError(t, err)
		assert.Nil(t, cfg, name)
	}

	cfg, err = Lookup(structField(t, s, "Named"))
	require.NoError(t, err)
	assert.Equal(t, "long-value", cfg.Name)
	assert.Equal(t, "L", cfg.Short)
	assert.True(t, cfg.Required)
	assert.Equal(t, "A long value: with colon", cfg.Description)
	assert.Equal(t, "Type tests", cfg.Category)

	cfg, err = Lookup(structField(t, s, "Env"))
	require.NoError(t, err)
	assert.Equal(t, "LONG_VALUE", cfg.Env)
	assert.Equal(t, 3, cfg.ExitStatus)

	cfg, err = Lookup(structField(t, s, "Ordered"))
	require.NoError(t, err)
	require.NotNil(t, cfg.Position)
	assert.Equal(t, 2, *cfg.Position)
	assert.True(t, cfg.Required)

	cfg, err = Lookup(structField(t, s, "Bounded"))
	require.NoError(t, err)
	assert.Equal(t, 0, *cfg.Position)
	assert.Equal(t, 1, cfg.Min)
	assert.Equal(t, types.Unbounded, *cfg.Max)

	cfg, err = Lookup(structField(t, s, "Capped"))
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Capacity)
	assert.Equal(t, 2, *cfg.Max)

	cfg, err = Lookup(structField(t, s, "Cmd"))
	require.NoError(t, err)
	assert.Equal(t, types.KindCommand, cfg.Kind)
	assert.Equal(t, "sub", cfg.Name)

	cfg, err = Lookup(structField(t, s, "Convert"))
	require.NoError(t, err)
	assert.Equal(t, "date", cfg.Converter)
	assert.Equal(t, "2022-12-11", cfg.Default)

	cfg, err = Lookup(structField(t, s, "Trailing"))
	require.NoError(t, err)
	assert.Equal(t, "v", cfg.Short)
}

func TestUnmarshalTagFormat_Errors(t *testing.T) {
	field := reflect.StructField{Name: "Field", Type: reflect.TypeOf("")}

	tests := []struct {
		name string
		tag  string
	}{
		{name: "missing separator", tag: "name"},
		{name: "unknown key", tag: "colour:red"},
		{name: "bad kind", tag: "kind:widget"},
		{name: "long short code", tag: "short:ab"},
		{name: "bad required", tag: "required:maybe"},
		{name: "negative position", tag: "pos:-1"},
		{name: "positional with name", tag: "pos:0;name:x"},
		{name: "positional with short", tag: "pos:0;short:x"},
		{name: "positional command", tag: "kind:command;pos:0"},
		{name: "bad exit", tag: "exit:one"},
		{name: "negative capacity", tag: "capacity:-3"},
		{name: "min above max", tag: "min:3;max:2"},
		{name: "unbounded min", tag: "min:*"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := UnmarshalTagFormat(tt.tag, field)
			assert.Nil(t, cfg)
			assert.True(t, errors.Is(err, errs.ErrInvalidTag), "got %v", err)

			var tagErr *errs.TagError
			if assert.True(t, errors.As(err, &tagErr)) {
				assert.Equal(t, "Field", tagErr.Field)
			}
		})
	}
}
