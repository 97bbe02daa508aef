package directive

import (
	"strconv"
	"strings"

	"github.com/ava12/sublex/table"
)

type handler struct {
	minArgs, maxArgs int
	options          []string
	apply            func(t *table.Table, c *Command) error
}

var ruleOptions = []string{"selectors", "set", "clear"}

var handlers map[string]handler

func init() {
	handlers = map[string]handler{
		"selector":         {1, -1, nil, applySelector},
		"bracket":          {2, 2, append([]string{"full-line"}, ruleOptions...), applyBracket},
		"named-bracket":    {2, 2, append([]string{"separator", "middle", "middle-closing"}, ruleOptions...), applyNamedBracket},
		"indentation-mark": {1, 1, append([]string{"separator", "glue"}, ruleOptions...), applyIndentationMark},
		"undefine":         {1, 1, []string{"selectors"}, applyUndefine},
		"begin":            {0, 0, nil, applyBegin},
		"end":              {0, 0, nil, applyEnd},
	}
}

// Check validates command name, number of arguments, and option names.
func Check(c *Command) error {
	h, found := handlers[c.Name]
	if !found {
		return makeUnknownCommandError(c)
	}
	if len(c.Args) < h.minArgs || (h.maxArgs >= 0 && len(c.Args) > h.maxArgs) {
		return makeNumberOfArgumentsError(c, h.minArgs, h.maxArgs)
	}

	for _, o := range c.Options {
		known := false
		for _, name := range h.options {
			if o.Name == name {
				known = true
				break
			}
		}
		if !known {
			return makeUnknownOptionError(c, o.Name)
		}
	}
	return nil
}

// Apply executes commands against the table, stopping at the first failed command.
func Apply(t *table.Table, cmds []*Command) error {
	for _, c := range cmds {
		if err := Check(c); err != nil {
			return err
		}
		if err := handlers[c.Name].apply(t, c); err != nil {
			return err
		}
	}
	return nil
}

// Run parses and executes script text.
func Run(t *table.Table, sourceName string, text []byte) error {
	cmds, err := Parse(sourceName, text)
	if err == nil {
		err = Apply(t, cmds)
	}
	return err
}

func label(s string) []string {
	return strings.Fields(s)
}

func optionLabel(c *Command, name string) []string {
	v, found := c.Option(name)
	if !found {
		return nil
	}
	return label(v)
}

func optionBool(c *Command, name string) (bool, error) {
	v, found := c.Option(name)
	if !found {
		return false, nil
	}

	switch strings.ToLower(v) {
	case "yes", "on":
		return true, nil
	case "no", "off":
		return false, nil
	}
	res, err := strconv.ParseBool(v)
	if err != nil {
		return false, makeInvalidOptionError(c, name, "boolean expected")
	}
	return res, nil
}

func selectorSet(t *table.Table, c *Command, name string, def table.Selectors) (table.Selectors, error) {
	v, found := c.Option(name)
	if !found {
		return def, nil
	}
	if v == "*" {
		return table.AllSelectors, nil
	}

	var names []string
	for _, n := range strings.Split(v, ",") {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if n == "*" {
			return 0, makeInvalidOptionError(c, name, "* must be the only selector")
		}
		names = append(names, n)
	}
	s, err := t.SelectorSet(names...)
	if err != nil {
		return 0, makeDefinitionError(c, err)
	}
	return s, nil
}

func selectorsAndRule(t *table.Table, c *Command) (sel table.Selectors, rule table.SelectorRule, err error) {
	if sel, err = selectorSet(t, c, "selectors", table.AllSelectors); err != nil {
		return
	}
	if rule.Set, err = selectorSet(t, c, "set", 0); err != nil {
		return
	}
	rule.Clear, err = selectorSet(t, c, "clear", 0)
	return
}

func applySelector(t *table.Table, c *Command) error {
	if _, err := t.SelectorSet(c.Args...); err != nil {
		return makeDefinitionError(c, err)
	}
	return nil
}

func applyBracket(t *table.Table, c *Command) error {
	sel, rule, err := selectorsAndRule(t, c)
	if err != nil {
		return err
	}
	fullLine, err := optionBool(c, "full-line")
	if err != nil {
		return err
	}

	if _, err = t.DefineBracket(label(c.Args[0]), label(c.Args[1]), sel, rule, fullLine); err != nil {
		return makeDefinitionError(c, err)
	}
	return nil
}

func applyNamedBracket(t *table.Table, c *Command) error {
	sel, rule, err := selectorsAndRule(t, c)
	if err != nil {
		return err
	}

	_, err = t.DefineNamedBracket(table.NamedBracket{
		Opening:       label(c.Args[0]),
		Closing:       label(c.Args[1]),
		Separator:     optionLabel(c, "separator"),
		Middle:        optionLabel(c, "middle"),
		MiddleClosing: optionLabel(c, "middle-closing"),
		Selectors:     sel,
		Rule:          rule,
	})
	if err != nil {
		return makeDefinitionError(c, err)
	}
	return nil
}

func applyIndentationMark(t *table.Table, c *Command) error {
	sel, rule, err := selectorsAndRule(t, c)
	if err != nil {
		return err
	}
	glue, err := optionBool(c, "glue")
	if err != nil {
		return err
	}

	if _, err = t.DefineIndentationMark(label(c.Args[0]), optionLabel(c, "separator"), sel, rule, glue); err != nil {
		return makeDefinitionError(c, err)
	}
	return nil
}

func applyUndefine(t *table.Table, c *Command) error {
	sel, err := selectorSet(t, c, "selectors", table.AllSelectors)
	if err == nil {
		t.Undefine(label(c.Args[0]), sel)
	}
	return err
}

func applyBegin(t *table.Table, _ *Command) error {
	t.BeginBlock()
	return nil
}

func applyEnd(t *table.Table, c *Command) error {
	if err := t.EndBlock(); err != nil {
		return makeDefinitionError(c, err)
	}
	return nil
}
