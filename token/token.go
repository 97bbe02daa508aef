// Package token defines tokens and the pull-extensible token list edited in place by the recognizer.
package token

import (
	"strconv"

	"github.com/ava12/sublex/source"
	"github.com/ava12/sublex/value"
)

// Kind is a lexeme type or one of synthetic token kinds.
type Kind int8

// Lexeme types produced by a lexer.
const (
	EOF Kind = iota
	LineBreak
	Comment
	QuotedString
	Word
	Mark
	Separator
	Natural
	Numeric
)

// Synthetic kinds.
const (
	Symbol Kind = iota + Numeric + 1
	Number
	Label
	Bracketed
)

var kindNames = [...]string{
	"end-of-file", "line-break", "comment", "quoted-string", "word", "mark", "separator", "natural", "numeric",
	"symbol", "number", "label", "bracketed",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// MidLine is the indentation of a token which is not the first one on its line.
const MidLine = -1

// Token is a list item. Symbol-class tokens carry a symbol Value from the start,
// quoted strings and numbers keep their text in Raw until converted.
type Token struct {
	Kind   Kind
	Value  value.Value
	Raw    []byte
	Range  source.Range
	Indent int

	prev, next *Token
	list       *List
}

// Prev returns previous token or nil, never pulls tokens.
func (t *Token) Prev() *Token {
	return t.prev
}

// Next returns next token or nil, never pulls tokens. Use List.Next to pull.
func (t *Token) Next() *Token {
	return t.next
}

func (t *Token) SourceName() string {
	return t.Range.Begin.SourceName()
}

func (t *Token) Line() int {
	return t.Range.Begin.Line()
}

func (t *Token) Col() int {
	return t.Range.Begin.Col()
}

// IsSymbol reports whether token holds a plain symbol.
func (t *Token) IsSymbol() bool {
	switch t.Kind {
	case Word, Mark, Separator, Symbol:
		return t.Value.Kind() == value.KindSymbol
	}
	return false
}

// Key returns the text used to match definition labels: symbol name or natural number text.
func (t *Token) Key() (string, bool) {
	if t.IsSymbol() {
		return t.Value.Text(), true
	}
	if t.Kind == Natural && t.Raw != nil {
		return string(t.Raw), true
	}
	return "", false
}

// Text returns symbol name, raw lexeme text, or string representation of the value.
func (t *Token) Text() string {
	if t.IsSymbol() {
		return t.Value.Text()
	}
	if t.Raw != nil {
		return string(t.Raw)
	}
	if t.Value.IsNone() {
		return ""
	}
	return t.Value.String()
}

// IsLineStart reports whether token is the first one on its line.
func (t *Token) IsLineStart() bool {
	return t.Indent != MidLine
}

// IsFullLineComment reports whether token is a comment occupying the rest of its line alone.
func (t *Token) IsFullLineComment() bool {
	return t.Kind == Comment && t.Indent != MidLine
}

func (t *Token) String() string {
	return t.Kind.String() + " " + strconv.Quote(t.Text())
}
