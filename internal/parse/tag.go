package parse

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/napalu/argbind/errs"
	"github.com/napalu/argbind/types"
)

const (
	// TagKey is the struct tag key holding field metadata
	TagKey = "arg"
	// IgnoreTag excludes a field when present, whatever its value
	IgnoreTag = "ignore"
)

// Lookup reads the metadata of a struct field. It returns a nil config when the field is excluded,
// and an empty flag config when the field carries no tag at all.
func Lookup(field reflect.StructField) (*types.TagConfig, error) {
	if _, ok := field.Tag.Lookup(IgnoreTag); ok {
		return nil, nil
	}

	tag, ok := field.Tag.Lookup(TagKey)
	if !ok {
		return &types.TagConfig{Kind: types.KindFlag}, nil
	}
	if strings.TrimSpace(tag) == "-" {
		return nil, nil
	}

	return UnmarshalTagFormat(tag, field)
}

// UnmarshalTagFormat parses the "key:value;key:value" tag grammar
func UnmarshalTagFormat(tag string, field reflect.StructField) (*types.TagConfig, error) {
	config := &types.TagConfig{}

	for _, part := range strings.Split(tag, ";") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		k, value, found := strings.Cut(part, ":")
		if !found {
			return nil, tagError(field, "invalid tag format: %s", part)
		}

		switch key := strings.ToLower(strings.TrimSpace(k)); key {
		case "kind":
			switch types.Kind(value) {
			case types.KindFlag, types.KindCommand, types.KindEmpty:
				config.Kind = types.Kind(value)
			default:
				return nil, tagError(field, "invalid kind %q (must be 'command', 'flag', or empty)", value)
			}
		case "name":
			config.Name = value
		case "short":
			if utf8.RuneCountInString(value) != 1 {
				return nil, tagError(field, "short code %q must be exactly one character", value)
			}
			config.Short = value
		case "desc":
			config.Description = value
		case "category":
			config.Category = value
		case "default":
			config.Default = value
		case "env":
			config.Env = value
		case "converter":
			config.Converter = value
		case "required":
			boolVal, err := strconv.ParseBool(value)
			if err != nil {
				return nil, tagError(field, "invalid 'required' value %q", value)
			}
			config.Required = boolVal
		case "pos":
			idx, err := Position(value)
			if err != nil {
				return nil, tagError(field, "invalid 'pos' value %q: %v", value, err)
			}
			config.Position = &idx
		case "min":
			n, err := Bound(value)
			if err != nil || n < 0 {
				return nil, tagError(field, "invalid 'min' value %q", value)
			}
			config.Min = n
		case "max":
			n, err := Bound(value)
			if err != nil {
				return nil, tagError(field, "invalid 'max' value %q: %v", value, err)
			}
			config.Max = &n
		case "exit":
			n, err := strconv.Atoi(value)
			if err != nil {
				return nil, tagError(field, "invalid 'exit' value %q", value)
			}
			config.ExitStatus = n
		case "capacity":
			kap, err := strconv.Atoi(value)
			if err != nil || kap < 0 {
				return nil, tagError(field, "invalid 'capacity' value %q", value)
			}
			config.Capacity = kap
		default:
			return nil, tagError(field, "unrecognized key %q", key)
		}
	}

	if config.Kind == types.KindEmpty {
		config.Kind = types.KindFlag
	}

	if config.Position != nil {
		if config.Kind == types.KindCommand {
			return nil, tagError(field, "a command cannot be positional")
		}
		if config.Name != "" || config.Short != "" {
			return nil, tagError(field, "a positional field cannot declare a name or short code")
		}
	}

	if config.Max != nil && *config.Max >= 0 && config.Min > *config.Max {
		return nil, tagError(field, "min %d exceeds max %d", config.Min, *config.Max)
	}

	return config, nil
}

func tagError(field reflect.StructField, format string, args ...interface{}) error {
	return &errs.TagError{Field: field.Name, Msg: fmt.Sprintf(format, args...)}
}

func errMissingValue(what string) error {
	return fmt.Errorf("missing or empty %s", what)
}

func errMalformed(input string) error {
	return fmt.Errorf("invalid format in: %s", input)
}

func errNegative(n int) error {
	return fmt.Errorf("negative value not allowed: %d", n)
}
