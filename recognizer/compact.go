package recognizer

import (
	"strconv"

	"github.com/ava12/sublex/source"
	"github.com/ava12/sublex/table"
	"github.com/ava12/sublex/token"
	"github.com/ava12/sublex/value"
)

// ElementPass processes tokens of a subexpression before it is compacted.
// It may replace, delete, or insert tokens strictly between before and next;
// both anchors must stay in the list. Nil before means the list start.
type ElementPass interface {
	Process(l *token.List, before, next *token.Token)
}

// ElementFunc adapts a function to ElementPass.
type ElementFunc func(l *token.List, before, next *token.Token)

func (f ElementFunc) Process(l *token.List, before, next *token.Token) {
	f(l, before, next)
}

// TokenValue returns the value a token contributes to a compacted subexpression.
// Raw quoted strings and numbers are converted, None means the token is not a legal element.
func TokenValue(t *token.Token) value.Value {
	switch t.Kind {
	case token.QuotedString:
		return value.String(string(t.Raw))

	case token.Natural, token.Numeric:
		if t.Raw == nil {
			return t.Value
		}
		n, e := strconv.ParseFloat(string(t.Raw), 64)
		if e != nil {
			return value.None
		}
		return value.Number(n)

	case token.LineBreak, token.Comment, token.EOF:
		return value.None
	}

	return t.Value
}

func labelValue(label []string) value.Value {
	return value.SymbolLabel(label...)
}

// spanValue returns label made of token values in [first, next).
func spanValue(first, next *token.Token) value.Value {
	var parts []value.Value
	for t := first; t != nil && t != next; t = t.Next() {
		parts = append(parts, TokenValue(t))
	}
	return value.Label(parts...)
}

func isNameToken(t *token.Token) bool {
	_, ok := t.Key()
	return ok
}

// isPlainName reports whether t may be a part of a named bracket name or key: a word or a natural number.
func isPlainName(t *token.Token) bool {
	switch t.Kind {
	case token.Word, token.Symbol:
		return t.IsSymbol()
	case token.Natural:
		return isNameToken(t)
	}
	return false
}

func (r *Recognizer) after(t *token.Token) *token.Token {
	if t == nil {
		return r.list.First()
	}
	return r.list.Next(t)
}

// elements runs element pass over tokens strictly between before and next and returns their values.
// Illegal values are reported and skipped.
func (r *Recognizer) elements(before, next *token.Token) []value.Value {
	if r.pass != nil {
		r.pass.Process(r.list, before, next)
	}

	var res []value.Value
	for t := r.after(before); t != nil && t != next; t = t.Next() {
		v := TokenValue(t)
		if v.IsLegalElement() {
			res = append(res, v)
		} else {
			r.reporter.Errorf(t.Range, IllegalElementError, "illegal element %s", t)
		}
	}
	return res
}

// replace inserts a bracketed token holding obj before first and frees [first, next).
// first == next means empty span, nothing is freed.
func (r *Recognizer) replace(first, next *token.Token, obj *value.Object) *token.Token {
	var rng source.Range
	indent := token.MidLine
	if first != nil {
		rng.Begin = first.Range.Begin
		rng.End = first.Range.Begin
		indent = first.Indent
	}
	for t := first; t != nil && t != next; t = t.Next() {
		rng.End = t.Range.End
	}

	res := r.list.New(token.Bracketed, value.ObjectValue(obj), rng)
	res.Indent = indent
	r.list.InsertBefore(first, res)
	if first != next {
		r.list.FreeRange(first, next)
	}
	return res
}

func newObject(initiator, terminator value.Value) *value.Object {
	o := value.NewObject()
	o.Set(value.Initiator, initiator)
	o.Set(value.Terminator, terminator)
	return o
}

// compactBracket replaces a bracket spanning from open to the token preceding next.
// The body lies strictly between openLast and close.
func (r *Recognizer) compactBracket(open, openLast, close, next *token.Token, def, closing *table.Entry) *token.Token {
	elems := r.elements(openLast, close)
	o := newObject(labelValue(def.Label), labelValue(closing.Label))
	o.Append(elems...)
	return r.replace(open, next, o)
}

// compactLine replaces line content strictly between before and stop together with the tokens
// in [stop, next) by a line subexpression. Returns nil for an empty line, nothing is replaced then.
func (r *Recognizer) compactLine(before, stop, next *token.Token, terminator value.Value) *token.Token {
	if r.after(before) == stop {
		return nil
	}

	elems := r.elements(before, stop)
	o := newObject(value.Symbol(LineInitiator), terminator)
	o.Append(elems...)
	first := r.after(before)
	return r.replace(first, next, o)
}

// namedAttributes sets .name, .arguments, and .keys attributes built from heading tokens
// strictly between before and next.
func (r *Recognizer) namedAttributes(o *value.Object, s *stackEntry, before, next *token.Token) {
	argsNext := next
	if len(s.separators) > 0 {
		argsNext = s.separators[0].first
	}

	var parts []value.Value
	nameLast := before
	for t := r.after(before); t != nil && t != argsNext && isPlainName(t); t = t.Next() {
		parts = append(parts, TokenValue(t))
		nameLast = t
	}
	o.Set(value.Name, value.Label(parts...))
	if args := r.elements(nameLast, argsNext); len(args) > 0 {
		ao := value.NewObject()
		ao.Append(args...)
		o.Set(value.Arguments, value.ObjectValue(ao))
	}

	if len(s.separators) == 0 {
		return
	}

	sep := labelValue(r.table.Entry(s.def.Separator).Label)
	ko := value.NewObject()
	ko.Set(value.Initiator, sep)
	ko.Set(value.Separator, sep)
	for i, span := range s.separators {
		keyNext := next
		if i+1 < len(s.separators) {
			keyNext = s.separators[i+1].first
		}
		if key, ok := r.key(span, keyNext); ok {
			ko.Append(key)
		}
	}
	if ko.Len() > 0 {
		o.Set(value.Keys, value.ObjectValue(ko))
	}
}

// key builds a key out of name tokens following separator span up to next.
func (r *Recognizer) key(span separatorSpan, next *token.Token) (value.Value, bool) {
	var parts []value.Value
	for t := span.last.Next(); t != nil && t != next; t = t.Next() {
		if isPlainName(t) {
			parts = append(parts, TokenValue(t))
		} else {
			r.reporter.Errorf(t.Range, IllegalElementError, "illegal key element %s", t)
		}
	}

	if len(parts) == 0 {
		r.reporter.Errorf(source.Range{Begin: span.first.Range.Begin, End: span.last.Range.End}, EmptyKeyError,
			"empty key after %q", span.first.Text())
		return value.None, false
	}
	return value.Label(parts...), true
}
