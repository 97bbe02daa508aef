package printer

import (
	"io"
	"strings"

	"cogentcore.org/core/glop/indent"

	"github.com/ava12/sublex/recognizer"
	"github.com/ava12/sublex/value"
)

type sourcePrinter struct {
	sb        strings.Builder
	depth     int
	lineStart bool
}

func (p *sourcePrinter) word(s string) {
	if p.lineStart {
		p.sb.WriteString(indent.Spaces(p.depth, indentWidth))
		p.lineStart = false
	} else if p.sb.Len() > 0 {
		p.sb.WriteByte(' ')
	}
	p.sb.WriteString(s)
}

func (p *sourcePrinter) newLine() {
	if !p.lineStart {
		p.sb.WriteByte('\n')
		p.lineStart = true
	}
}

func (p *sourcePrinter) marker(v value.Value) {
	switch {
	case v.IsNone():
	case v.Kind() == value.KindSymbol && v.Text() == recognizer.LineInitiator:
	case v.Kind() == value.KindSymbol && v.Text() == recognizer.ParagraphTerminator:
	case v.Kind() == value.KindSymbol && v.Text() == recognizer.LineTerminator:
		p.newLine()
	default:
		p.value(v)
	}
}

func (p *sourcePrinter) value(v value.Value) {
	switch v.Kind() {
	case value.KindNone:
	case value.KindLabel:
		for _, part := range v.Parts() {
			p.value(part)
		}
	case value.KindObject:
		p.object(v.Object())
	default:
		p.word(v.String())
	}
}

func isParagraph(o *value.Object) bool {
	t := o.Get(value.Terminator)
	return t.Kind() == value.KindSymbol && t.Text() == recognizer.ParagraphTerminator
}

func (p *sourcePrinter) object(o *value.Object) {
	start := o.Get(value.Initiator)
	p.marker(start)
	if start.Kind() != value.KindSymbol || start.Text() != recognizer.LineInitiator {
		p.depth++
		defer func() { p.depth-- }()
	}

	p.value(o.Get(value.Name))
	if args := o.Get(value.Arguments).Object(); args != nil {
		for _, e := range args.Elems() {
			p.value(e)
		}
	}
	if keys := o.Get(value.Keys).Object(); keys != nil {
		sep := keys.Get(value.Separator)
		for _, k := range keys.Elems() {
			p.value(sep)
			p.value(k)
		}
	}
	p.value(o.Get(value.Middle))

	paragraph := isParagraph(o)
	if paragraph {
		p.newLine()
	}
	for _, e := range o.Elems() {
		p.value(e)
	}
	if paragraph {
		p.newLine()
	}
	p.marker(o.Get(value.Terminator))
}

// Source writes values back as source text which the recognizer turns into equal values
// when the same definitions are used. Tokens are separated by single spaces, nested lines are
// indented two spaces per bracket or paragraph level.
func Source(w io.Writer, vs ...value.Value) error {
	p := &sourcePrinter{lineStart: true}
	for _, v := range vs {
		p.value(v)
	}
	p.newLine()
	_, e := io.WriteString(w, p.sb.String())
	return e
}
