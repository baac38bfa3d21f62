package argbind

import (
	"reflect"
	"strings"
)

// selection is the command value chosen by resolve
type selection struct {
	dest   reflect.Value
	schema *Schema
	args   []string
	path   []string
}

// resolve follows leading tokens naming sub-command fields, allocating nil command pointers on the way. Resolution
// stops at the first token which is a flag or names no sub-command of the current command.
func (p *Parser) resolve(dest reflect.Value, s *Schema, args []string) (*selection, error) {
	sel := &selection{dest: dest, schema: s, args: args}

	for len(sel.args) > 0 && !strings.HasPrefix(sel.args[0], "-") {
		d, ok := sel.schema.Command(sel.args[0])
		if !ok {
			break
		}

		nested, err := p.Schema(d.Elem)
		if err != nil {
			return nil, err
		}

		field := d.access.get(sel.dest)
		if field.Kind() == reflect.Ptr {
			if field.IsNil() {
				d.access.set(sel.dest, reflect.New(d.Elem))
				field = d.access.get(sel.dest)
			}
			field = field.Elem()
		}

		sel.dest = field
		sel.schema = nested
		sel.path = append(sel.path, d.Name)
		sel.args = sel.args[1:]
	}

	return sel, nil
}
