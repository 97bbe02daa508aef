package table

// NamedBracket describes a named bracket definition. Opening and Closing are required,
// other labels are optional. MiddleClosing is computed by gluing Middle and Closing
// when the lexer would produce a single lexeme out of them; an explicitly given MiddleClosing
// must agree with the computed one.
type NamedBracket struct {
	Opening       []string
	Separator     []string
	Middle        []string
	Closing       []string
	MiddleClosing []string
	Selectors     Selectors
	Rule          SelectorRule
}

// DefineBracket adds bracket definition and returns its opening entry.
// Full-line bracket bodies ignore outer indentation.
func (t *Table) DefineBracket(opening, closing []string, sel Selectors, rule SelectorRule, fullLine bool) (*Entry, error) {
	opening, err := normalizeLabel("opening bracket", opening)
	if err != nil {
		return nil, err
	}

	closing, err = normalizeLabel("closing bracket", closing)
	if err != nil {
		return nil, err
	}

	o := t.add(&Entry{Kind: OpeningBracket, Label: opening, Selectors: sel, Rule: rule, FullLine: fullLine})
	c := t.add(&Entry{Kind: ClosingBracket, Label: closing, Selectors: AllSelectors, Opening: o.ID})
	o.Closing = c.ID
	return o, nil
}

// DefineNamedBracket adds named bracket definition and returns its opening entry.
func (t *Table) DefineNamedBracket(d NamedBracket) (*Entry, error) {
	var err error
	if d.Opening, err = normalizeLabel("named opening", d.Opening); err != nil {
		return nil, err
	}
	if d.Closing, err = normalizeLabel("named closing", d.Closing); err != nil {
		return nil, err
	}
	if d.Separator != nil {
		if d.Separator, err = normalizeLabel("named separator", d.Separator); err != nil {
			return nil, err
		}
	}
	if d.Middle != nil {
		if d.Middle, err = normalizeLabel("named middle", d.Middle); err != nil {
			return nil, err
		}
	}
	if d.MiddleClosing != nil {
		if d.Middle == nil {
			return nil, makeInvalidDefinitionError("named bracket", "middle-closing requires middle")
		}
		if d.MiddleClosing, err = normalizeLabel("named middle-closing", d.MiddleClosing); err != nil {
			return nil, err
		}
	}

	glued := GlueLabel(d.Middle, d.Closing)
	if glued != nil {
		if d.MiddleClosing != nil && !sameLabel(d.MiddleClosing, glued) {
			return nil, makeMismatchedMiddleError(d.MiddleClosing, glued)
		}
		d.MiddleClosing = glued
	}

	o := t.add(&Entry{Kind: NamedOpening, Label: d.Opening, Selectors: d.Selectors, Rule: d.Rule})
	o.Closing = t.add(&Entry{Kind: NamedClosing, Label: d.Closing, Selectors: AllSelectors, Opening: o.ID}).ID
	if d.Separator != nil {
		o.Separator = t.add(&Entry{Kind: NamedSeparator, Label: d.Separator, Selectors: AllSelectors, Opening: o.ID}).ID
	}
	if d.Middle != nil {
		o.Middle = t.add(&Entry{Kind: NamedMiddle, Label: d.Middle, Selectors: AllSelectors, Opening: o.ID}).ID
	}
	if d.MiddleClosing != nil {
		o.MiddleClosing = t.add(&Entry{Kind: NamedMiddleClosing, Label: d.MiddleClosing, Selectors: AllSelectors, Opening: o.ID}).ID
	}
	return o, nil
}

// DefineIndentationMark adds indentation mark definition and returns its entry.
// separator may be nil. A gluing mark is a single symbol which is also recognized
// as a suffix of a longer symbol ending a line.
func (t *Table) DefineIndentationMark(mark, separator []string, sel Selectors, rule SelectorRule, glue bool) (*Entry, error) {
	mark, err := normalizeLabel("indentation mark", mark)
	if err != nil {
		return nil, err
	}
	if glue && len(mark) != 1 {
		return nil, makeGlueLabelError(mark)
	}

	if separator != nil {
		separator, err = normalizeLabel("line separator", separator)
		if err != nil {
			return nil, err
		}
	}

	m := t.add(&Entry{Kind: IndentationMark, Label: mark, Selectors: sel, Rule: rule, Glue: glue})
	if separator != nil {
		m.Separator = t.add(&Entry{Kind: LineSeparator, Label: separator, Selectors: AllSelectors, Opening: m.ID}).ID
	}
	if glue {
		t.addSplit(m)
	}
	return m, nil
}
