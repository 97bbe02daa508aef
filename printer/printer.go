// Package printer formats values produced by the recognizer.
package printer

import (
	"io"
	"sort"
	"strings"

	"cogentcore.org/core/glop/indent"

	"github.com/ava12/sublex"
	"github.com/ava12/sublex/value"
)

// UnknownFormatError is returned for unknown format names.
const UnknownFormatError = sublex.OutputErrors

// Func writes a list of values (usually statements) to w.
type Func func(w io.Writer, vs ...value.Value) error

var formats = map[string]Func{
	"text":   Text,
	"source": Source,
	"yaml":   YAML,
}

// Get returns formatting function by name.
func Get(name string) (Func, error) {
	if f, found := formats[name]; found {
		return f, nil
	}
	return nil, sublex.FormatError(UnknownFormatError, "unknown output format %q, expecting one of: %s",
		name, strings.Join(Names(), ", "))
}

// Names returns known format names in alphabetical order.
func Names() []string {
	res := make([]string, 0, len(formats))
	for name := range formats {
		res = append(res, name)
	}
	sort.Strings(res)
	return res
}

const indentWidth = 2

type textPrinter struct {
	sb strings.Builder
}

func (p *textPrinter) value(prefix string, v value.Value, depth int) {
	p.sb.WriteString(indent.Spaces(depth, indentWidth))
	p.sb.WriteString(prefix)
	if v.Kind() != value.KindObject {
		p.sb.WriteString(v.String())
		p.sb.WriteByte('\n')
		return
	}

	o := v.Object()
	p.sb.WriteString("object")
	var nested []string
	for _, name := range o.AttrNames() {
		a := o.Get(name)
		if a.Kind() == value.KindObject {
			nested = append(nested, name)
			continue
		}
		p.sb.WriteByte(' ')
		p.sb.WriteString(name)
		p.sb.WriteByte('=')
		p.sb.WriteString(a.String())
	}
	p.sb.WriteByte('\n')

	for _, name := range nested {
		p.value(name+": ", o.Get(name), depth+1)
	}
	for _, e := range o.Elems() {
		p.value("", e, depth+1)
	}
}

// Text writes values as an indented tree, one value per line. Objects are shown as
// "object" followed by scalar attributes, then object attributes and elements one level deeper.
func Text(w io.Writer, vs ...value.Value) error {
	p := &textPrinter{}
	for _, v := range vs {
		p.value("", v, 0)
	}
	_, e := io.WriteString(w, p.sb.String())
	return e
}
