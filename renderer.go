package argbind

import (
	"os"
	"reflect"
	"sort"
	"strings"

	"github.com/napalu/argbind/internal/util"
)

const defaultOpeningText = "The following options are accepted: "

// renderer produces the help text of one command: opening text, sub-commands, named options grouped by
// category, closing text. Positional fields are not listed.
type renderer struct {
	schema *Schema
	width  int
}

func newRenderer(p *Parser, s *Schema) *renderer {
	width := p.wrapWidth
	if f, ok := p.stdout.(*os.File); ok && width > 0 {
		if cols, ok := util.TerminalWidth(f); ok && cols < width {
			width = cols
		}
	}
	return &renderer{schema: s, width: width}
}

func (r *renderer) render() string {
	var sb strings.Builder

	opening := r.schema.Info.OpeningText
	if opening == "" {
		opening = defaultOpeningText
	}
	sb.WriteString(opening)

	if commands := r.schema.Commands(); len(commands) > 0 {
		sb.WriteString("\ncommands:")
		for _, c := range commands {
			sb.WriteString("\n\t")
			sb.WriteString(c.Name)
			if c.Description != "" {
				sb.WriteString("\t\t")
				sb.WriteString(c.Description)
			}
		}
		sb.WriteString("\n")
	}

	longest := 0
	groups := map[string][]*FieldDescriptor{}
	var categories []string
	for _, d := range r.schema.Named {
		if _, ok := groups[d.Category]; !ok && d.Category != "" {
			categories = append(categories, d.Category)
		}
		groups[d.Category] = append(groups[d.Category], d)
		if len(d.Name) > longest {
			longest = len(d.Name)
		}
	}
	sort.Strings(categories)

	indent := strings.Repeat(" ", 10+longest)
	for _, category := range append([]string{""}, categories...) {
		if category != "" {
			sb.WriteString("\n\n")
			sb.WriteString(category)
			sb.WriteString(":")
		}
		for _, d := range groups[category] {
			sb.WriteString("\n")
			sb.WriteString(r.wrap(optionLine(d, longest), indent))
		}
	}

	if closing := r.schema.Info.ClosingText; closing != "" {
		sb.WriteString("\n")
		sb.WriteString(closing)
	}

	return sb.String()
}

// optionLine renders "* -c, --long  description", the long flag padded to longest
func optionLine(d *FieldDescriptor, longest int) string {
	var sb strings.Builder
	if d.Required {
		sb.WriteString("* ")
	} else {
		sb.WriteString("  ")
	}
	if d.Short != "" {
		sb.WriteString("-" + d.Short + ",")
	} else {
		sb.WriteString("   ")
	}
	sb.WriteString(" --")
	sb.WriteString(d.Name)
	sb.WriteString(strings.Repeat(" ", longest-len(d.Name)))
	sb.WriteString("  ")
	sb.WriteString(optionDescription(d))

	return sb.String()
}

// wrap breaks line at the last space before the wrap width, indenting continuation lines
func (r *renderer) wrap(line, indent string) string {
	if r.width <= 0 || len(line) <= r.width {
		return line
	}

	var sb strings.Builder
	for len(line) > r.width {
		cut := strings.LastIndexByte(line[:r.width], ' ')
		if cut <= len(indent) {
			break
		}
		sb.WriteString(strings.TrimRight(line[:cut], " "))
		sb.WriteString("\n")
		line = indent + strings.TrimLeft(line[cut+1:], " ")
	}
	sb.WriteString(line)

	return sb.String()
}

// optionDescription returns the declared description, or one derived from the field type
func optionDescription(d *FieldDescriptor) string {
	if d.Description != "" {
		return d.Description
	}

	t := d.ValueType()
	if t.Kind() == reflect.Ptr && !util.IsBuiltin(t) {
		t = util.UnwrapType(t)
	}
	switch {
	case d.IsCollection():
		return "Accepts multiple values"
	case d.IsBool():
		return "Boolean flag which requires no argument"
	case t.Kind() == reflect.String:
		return "Accepts a string value"
	case util.IsFloat(t):
		return "Accepts a floating point number"
	case util.IsChar(t):
		return "Accepts a single character"
	case util.IsNumeric(t):
		return "Accepts a number"
	}
	return "Accepts a value"
}
