package directive

import (
	"strings"

	"github.com/ava12/sublex/table"
)

func selectorOption(t *table.Table, name string, s, def table.Selectors) (Option, bool) {
	if s == def {
		return Option{}, false
	}
	if s == table.AllSelectors {
		return Option{name, "*"}, true
	}
	return Option{name, strings.Join(t.SelectorNames(s), ",")}, true
}

func (c *Command) addSelectors(t *table.Table, e *table.Entry) {
	if o, ok := selectorOption(t, "selectors", e.Selectors, table.AllSelectors); ok {
		c.Options = append(c.Options, o)
	}
	if o, ok := selectorOption(t, "set", e.Rule.Set, 0); ok {
		c.Options = append(c.Options, o)
	}
	if o, ok := selectorOption(t, "clear", e.Rule.Clear, 0); ok {
		c.Options = append(c.Options, o)
	}
}

func (c *Command) addLabel(t *table.Table, name string, id table.ID) {
	if e := t.Entry(id); e != nil {
		c.Options = append(c.Options, Option{name, e.LabelText()})
	}
}

// Describe returns commands which recreate primary definitions of the table in definition order.
// Selector names are declared first so that selector bits keep their order.
func Describe(t *table.Table) []*Command {
	var res []*Command
	if names := t.SelectorNames(table.AllSelectors); len(names) > 0 {
		res = append(res, &Command{Name: "selector", Args: names})
	}

	level := 0
	for _, e := range t.Entries() {
		if !e.Kind.IsPrimary() {
			continue
		}
		for ; level < e.Level; level++ {
			res = append(res, &Command{Name: "begin"})
		}

		c := &Command{Args: []string{e.LabelText()}}
		switch e.Kind {
		case table.OpeningBracket:
			c.Name = "bracket"
			c.Args = append(c.Args, t.Entry(e.Closing).LabelText())
			if e.FullLine {
				c.Options = append(c.Options, Option{"full-line", "yes"})
			}

		case table.NamedOpening:
			c.Name = "named-bracket"
			c.Args = append(c.Args, t.Entry(e.Closing).LabelText())
			c.addLabel(t, "separator", e.Separator)
			c.addLabel(t, "middle", e.Middle)
			if m, mc := t.Entry(e.Middle), t.Entry(e.MiddleClosing); mc != nil && table.GlueLabel(m.Label, t.Entry(e.Closing).Label) == nil {
				c.Options = append(c.Options, Option{"middle-closing", mc.LabelText()})
			}

		case table.IndentationMark:
			c.Name = "indentation-mark"
			c.addLabel(t, "separator", e.Separator)
			if e.Glue {
				c.Options = append(c.Options, Option{"glue", "yes"})
			}
		}
		c.addSelectors(t, e)
		res = append(res, c)
	}
	return res
}
