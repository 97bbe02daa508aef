package recognizer

import (
	"github.com/ava12/sublex/source"
	"github.com/ava12/sublex/table"
	"github.com/ava12/sublex/token"
	"github.com/ava12/sublex/value"
)

type endKind int

const (
	endEOF endKind = iota
	endDedent
	endClosed
	endSeparator
)

// end describes how an activation terminated.
// stop is the first token not belonging to activation content: end of file, line break, closer, or line separator.
// next follows the consumed closer or separator, otherwise it is the token following stop line break or stop itself.
type end struct {
	kind       endKind
	stop, next *token.Token
	lineIndent int
}

// frame is a single recursive activation.
type frame struct {
	indent     int
	lineIndent int
	sel        table.Selectors
	mark       *table.Entry
	stack      *stackEntry
	heading    *stackEntry

	cur          *token.Token
	pending      *table.Entry
	pendingFirst *token.Token
	backup       *token.Token
	plain        *token.Token
}

func (f *frame) end(kind endKind, stop, next *token.Token) end {
	return end{kind: kind, stop: stop, next: next, lineIndent: f.lineIndent}
}

func (f *frame) resetRun() {
	f.backup = nil
	f.plain = nil
}

func (f *frame) child() *frame {
	return &frame{indent: f.indent, lineIndent: f.lineIndent, sel: f.sel, stack: f.stack}
}

// run scans tokens following before (nil means the list start) until the activation terminates.
func (r *Recognizer) run(f *frame, before *token.Token) end {
	f.cur = r.after(before)
	for {
		cur := f.cur
		if cur == nil {
			return f.end(endEOF, nil, nil)
		}

		var (
			res  end
			done bool
		)
		switch cur.Kind {
		case token.EOF:
			return f.end(endEOF, cur, cur)

		case token.LineBreak:
			res, done = r.lineBreak(f, cur)

		case token.Comment:
			f.cur = r.free(cur)

		case token.QuotedString:
			r.quoted(f, cur)

		default:
			if cur.IsLineStart() {
				f.lineIndent = cur.Indent
			}
			res, done = r.symbol(f, cur)
		}

		if done {
			return res
		}
	}
}

func (r *Recognizer) quoted(f *frame, cur *token.Token) {
	if cur.IsLineStart() {
		f.lineIndent = cur.Indent
	}

	prev := cur.Prev()
	if prev != nil && prev.Kind == token.QuotedString {
		prev.Raw = append(prev.Raw, cur.Raw...)
		prev.Range.End = cur.Range.End
		f.cur = r.free(cur)
	} else {
		f.cur = r.list.Next(cur)
	}
	f.resetRun()
}

func (r *Recognizer) lineBreak(f *frame, lb *token.Token) (end, bool) {
	if f.pending == nil && f.plain != nil && f.plain.Next() == lb && r.split(f, f.plain) {
		f.cur = f.backup
		f.resetRun()
		return end{}, false
	}

	next := r.skipBlank(lb)
	if f.pending != nil {
		mark, markFirst := f.pending, f.pendingFirst
		f.pending = nil
		f.pendingFirst = nil

		base := f.indent
		if base == noIndent {
			base = f.lineIndent
		}
		if next.Kind != token.EOF && r.deeper(next, base) {
			res := r.paragraph(f, mark, markFirst, lb, base)
			f.lineIndent = res.lineIndent
			if res.kind == endClosed {
				return res, true
			}

			f.cur = res.stop
			f.resetRun()
			return end{}, false
		}

		r.logger.Debug("indentation mark has no paragraph", "mark", mark.LabelText(), "line", markFirst.Line())
	}

	f.resetRun()
	if next.Kind == token.EOF {
		r.list.Free(lb)
		f.cur = next
		return end{}, false
	}

	if f.indent != noIndent && !r.deeper(next, f.indent) {
		return f.end(endDedent, lb, next), true
	}

	r.list.Free(lb)
	f.cur = next
	return end{}, false
}

type commentInfo struct {
	indent int
	rng    source.Range
}

// skipBlank removes line breaks and full-line comments following lb and returns the next real token.
func (r *Recognizer) skipBlank(lb *token.Token) *token.Token {
	var comments []commentInfo
	t := r.list.Next(lb)
	for t != nil && (t.Kind == token.LineBreak || t.Kind == token.Comment) {
		if t.Kind == token.Comment && t.IsLineStart() {
			comments = append(comments, commentInfo{t.Indent, t.Range})
		}
		r.list.Free(t)
		t = r.list.Next(lb)
	}

	if t == nil {
		panic("token list has no end of file token")
	}

	if t.Kind != token.EOF {
		for _, c := range comments {
			if c.indent < t.Indent {
				r.reporter.Warnf(c.rng, AmbiguousIndentWarning, "comment indentation %d is less than next line indentation %d",
					c.indent, t.Indent)
			}
		}
	}
	return t
}

// split tries to split a gluing indentation mark off the end of t.
func (r *Recognizer) split(f *frame, t *token.Token) bool {
	if !t.IsSymbol() {
		return false
	}

	text := t.Value.Text()
	prefix, e, ok := r.table.Split(text, f.sel)
	if !ok {
		return false
	}

	label := e.Label[0]
	tail := t.Range.End
	at := source.NewPos(tail.Source(), tail.Pos()-len(label))
	t.Value = value.Symbol(prefix)
	t.Range.End = at
	m := r.list.New(token.Mark, value.Symbol(label), source.Range{Begin: at, End: tail})
	r.list.InsertBefore(t.Next(), m)
	r.logger.Debug("gluing mark split", "symbol", text, "mark", label, "line", t.Line())
	return true
}

// paragraph recognizes indented paragraph lines following the mark line and replaces
// the mark together with the lines by a paragraph subexpression.
func (r *Recognizer) paragraph(f *frame, mark *table.Entry, markFirst, lb *token.Token, base int) end {
	sel := mark.Rule.Apply(f.sel)
	sep := r.table.Entry(mark.Separator)
	lineIndent := f.lineIndent
	var lines []value.Value
	before := lb
	var res end

	for {
		if start := r.list.Next(before); start != nil && start.IsLineStart() {
			lineIndent = start.Indent
		}

		lf := &frame{indent: lineIndent, lineIndent: lineIndent, sel: sel, mark: mark, stack: f.stack}
		res = r.run(lf, before)
		lineIndent = res.lineIndent

		term := value.Symbol(LineTerminator)
		next := res.stop
		if res.kind == endSeparator {
			term = labelValue(sep.Label)
			next = res.next
		}

		if line := r.compactLine(before, res.stop, next, term); line != nil {
			lines = append(lines, line.Value)
			before = line
		} else if res.kind == endSeparator {
			r.list.FreeRange(res.stop, res.next)
		}

		if res.kind == endSeparator {
			continue
		}

		if res.kind == endDedent && res.next.Kind != token.EOF && r.deeper(res.next, base) {
			r.list.Free(res.stop)
			continue
		}

		break
	}

	o := newObject(labelValue(mark.Label), value.Symbol(ParagraphTerminator))
	o.Append(lines...)
	r.replace(markFirst, res.stop, o)
	res.lineIndent = lineIndent
	return res
}

// atLineEnd reports whether t is followed by a line break or end of file, possibly after a trailing comment.
func (r *Recognizer) atLineEnd(t *token.Token) bool {
	t = r.list.Next(t)
	if t != nil && t.Kind == token.Comment && !t.IsLineStart() {
		t = r.list.Next(t)
	}
	return t == nil || t.Kind == token.LineBreak || t.Kind == token.EOF
}

func (r *Recognizer) symbol(f *frame, cur *token.Token) (end, bool) {
	if !isNameToken(cur) {
		f.resetRun()
		f.cur = r.list.Next(cur)
		return end{}, false
	}

	var spurious *table.Match
	finder := r.table.Find(r.list, cur, f.sel)
	for m, ok := finder.Next(); ok; m, ok = finder.Next() {
		switch m.Entry.Kind {
		case table.OpeningBracket:
			return r.openBracket(f, m)

		case table.NamedOpening:
			if res, done, accepted := r.openNamed(f, m); accepted {
				return res, done
			}

		case table.ClosingBracket:
			if res, ok := r.closeBracket(f, m); ok {
				return res, true
			}
			if spurious == nil {
				sm := m
				spurious = &sm
			}

		case table.NamedMiddle, table.NamedClosing, table.NamedMiddleClosing:
			if res, ok := r.closeNamed(f, m); ok {
				return res, true
			}

		case table.NamedSeparator:
			if f.heading != nil && m.Entry.Opening == f.heading.def.ID {
				f.heading.separators = append(f.heading.separators, separatorSpan{m.First, m.Last})
				f.cur = r.list.Next(m.Last)
				f.resetRun()
				return end{}, false
			}

		case table.IndentationMark:
			if r.atLineEnd(m.Last) {
				f.pending = m.Entry
				f.pendingFirst = m.First
				f.cur = r.list.Next(m.Last)
				f.resetRun()
				return end{}, false
			}
			r.logger.Debug("indentation mark rejected in the middle of line", "mark", m.Entry.LabelText(), "line", m.First.Line())

		case table.LineSeparator:
			if f.mark != nil && m.Entry.Opening == f.mark.ID {
				return f.end(endSeparator, m.First, r.list.Next(m.Last)), true
			}
		}
	}

	if spurious != nil {
		r.reporter.Errorf(source.Range{Begin: spurious.First.Range.Begin, End: spurious.Last.Range.End}, SpuriousClosingError,
			"spurious closing bracket %q", spurious.Entry.LabelText())
		next := r.list.Next(spurious.Last)
		r.list.FreeRange(spurious.First, next)
		f.cur = next
		f.resetRun()
		return end{}, false
	}

	if f.backup == nil {
		f.backup = cur
	}
	f.plain = cur
	f.cur = r.list.Next(cur)
	return end{}, false
}

func (r *Recognizer) openBracket(f *frame, m table.Match) (end, bool) {
	def := m.Entry
	closing := r.table.Entry(def.Closing)
	s := &stackEntry{def: def, prev: f.stack}
	body := f.child()
	body.sel = def.Rule.Apply(f.sel)
	body.stack = s
	if def.FullLine {
		body.indent = noIndent
		s.prev = nil
	}

	res := r.run(body, m.Last)
	f.lineIndent = res.lineIndent
	f.resetRun()

	if s.isClosed() && !s.isMissing() {
		r.compactBracket(m.First, m.Last, s.closingFirst, s.closingNext, def, closing)
		f.cur = s.closingNext
		return end{}, false
	}

	r.reportMissing(res.stop, closing)
	r.compactBracket(m.First, m.Last, res.stop, res.stop, def, closing)
	if s.isMissing() {
		return res, true
	}

	f.cur = res.stop
	return end{}, false
}

func (r *Recognizer) closeBracket(f *frame, m table.Match) (end, bool) {
	for s := f.stack; s != nil; s = s.prev {
		if !s.isNamed() && s.def.ID == m.Entry.Opening {
			return r.closeAt(f, s, m), true
		}
	}
	return end{}, false
}

func (r *Recognizer) closeAt(f *frame, s *stackEntry, m table.Match) end {
	next := r.list.Next(m.Last)
	if skipped := closeStack(f.stack, s, m.Entry, m.First, next); skipped > 0 {
		r.logger.Debug("skip-level close", "closer", m.Entry.LabelText(), "skipped", skipped, "line", m.First.Line())
	}
	return f.end(endClosed, m.First, next)
}

// matchLabel checks whether tokens starting at t spell label, returns the last token.
func (r *Recognizer) matchLabel(t *token.Token, label []string) (*token.Token, bool) {
	var last *token.Token
	for _, sym := range label {
		if t == nil {
			return nil, false
		}
		key, ok := t.Key()
		if !ok || table.Normalize(key) != sym {
			return nil, false
		}
		last = t
		t = r.list.Next(t)
	}
	return last, true
}

// namedEnd checks whether matched named bracket part closes current phase of s.
// Returns the last token of the closing sequence.
func (r *Recognizer) namedEnd(s *stackEntry, m table.Match) (*token.Token, bool) {
	if !s.body || m.Entry.Kind == table.NamedMiddleClosing {
		return m.Last, true
	}

	if m.Entry.Kind != table.NamedMiddle {
		return nil, false
	}

	closing := r.table.Entry(s.def.Closing).Label
	t := r.list.Next(m.Last)
	if last, ok := r.matchLabel(t, closing); ok {
		return last, true
	}

	for _, name := range s.name {
		if t == nil {
			return nil, false
		}
		key, ok := t.Key()
		if !ok || table.Normalize(key) != name {
			return nil, false
		}
		t = r.list.Next(t)
	}
	return r.matchLabel(t, closing)
}

func (r *Recognizer) closeNamed(f *frame, m table.Match) (end, bool) {
	for s := f.stack; s != nil; s = s.prev {
		if !s.isNamed() || s.def.ID != m.Entry.Opening {
			continue
		}
		// heading parts are accepted only at heading level, not inside argument subexpressions
		if !s.body && f.heading != s {
			continue
		}

		if last, ok := r.namedEnd(s, m); ok {
			m.Last = last
			return r.closeAt(f, s, m), true
		}
	}
	return end{}, false
}

func (r *Recognizer) openNamed(f *frame, m table.Match) (res end, done, accepted bool) {
	def := m.Entry
	if t := r.list.Next(m.Last); t == nil || !isPlainName(t) {
		return end{}, false, false
	}

	closing := r.table.Entry(def.Closing)
	s := &stackEntry{def: def, prev: f.stack}
	heading := f.child()
	heading.sel = def.Rule.Apply(f.sel)
	heading.stack = s
	heading.heading = s
	res = r.run(heading, m.Last)
	f.lineIndent = res.lineIndent
	f.resetRun()

	o := newObject(labelValue(def.Label), value.None)
	if !s.isClosed() || s.isMissing() {
		r.reportMissing(res.stop, closing)
		r.namedAttributes(o, s, m.Last, res.stop)
		o.Set(value.Terminator, labelValue(closing.Label))
		r.replace(m.First, res.stop, o)
		if s.isMissing() {
			return res, true, true
		}
		f.cur = res.stop
		return end{}, false, true
	}

	headNext := s.closingFirst
	if s.closer.Kind != table.NamedMiddle {
		r.namedAttributes(o, s, m.Last, headNext)
		o.Set(value.Terminator, spanValue(s.closingFirst, s.closingNext))
		f.cur = s.closingNext
		r.replace(m.First, s.closingNext, o)
		return end{}, false, true
	}

	middle := s.closer
	middleLast := s.closingNext.Prev()
	nameNext := headNext
	if len(s.separators) > 0 {
		nameNext = s.separators[0].first
	}
	for t := r.list.Next(m.Last); t != nameNext && isPlainName(t); t = t.Next() {
		key, _ := t.Key()
		s.name = append(s.name, table.Normalize(key))
	}

	s.reopen()
	s.body = true
	body := f.child()
	body.sel = heading.sel
	body.stack = s
	res = r.run(body, middleLast)
	f.lineIndent = res.lineIndent

	r.namedAttributes(o, s, m.Last, headNext)
	o.Set(value.Middle, labelValue(middle.Label))
	if s.isClosed() && !s.isMissing() {
		o.Set(value.Terminator, spanValue(s.closingFirst, s.closingNext))
		o.Append(r.elements(middleLast, s.closingFirst)...)
		r.replace(m.First, s.closingNext, o)
		f.cur = s.closingNext
		return end{}, false, true
	}

	r.reportMissing(res.stop, closing)
	o.Set(value.Terminator, labelValue(closing.Label))
	o.Append(r.elements(middleLast, res.stop)...)
	r.replace(m.First, res.stop, o)
	if s.isMissing() {
		return res, true, true
	}
	f.cur = res.stop
	return end{}, false, true
}
