// Package lexer defines regexp-driven lexical analyzer producing tokens for token lists.
package lexer

import (
	"fmt"
	"regexp"
	"strconv"
	"unicode/utf8"

	"github.com/ava12/sublex"
	"github.com/ava12/sublex/diag"
	"github.com/ava12/sublex/source"
	"github.com/ava12/sublex/token"
	"github.com/ava12/sublex/value"
)

// ErrorKind is the kind for fake lexemes capturing broken text (e.g. unterminated string literals).
// The purpose of these lexemes is to generate more informative error messages.
// Lexer will never emit a token of this kind, it reports an error containing lexeme text instead.
const ErrorKind token.Kind = -1

// Error codes used by lexer:
const (
	// WrongCharError indicates that lexer cannot fetch any lexeme at current position.
	// Error message contains the rune at current source position.
	WrongCharError = sublex.LexicalErrors + iota

	// BadTokenError indicates that lexer has fetched a lexeme of ErrorKind or a malformed literal.
	BadTokenError
)

// DefaultTabWidth is the distance between tab stops used to measure indentation.
const DefaultTabWidth = 8

// TokenType describes token kind for specific capturing group of regular expression.
type TokenType struct {
	// Kind contains token kind, ErrorKind is treated specially.
	Kind token.Kind

	// Name contains human-readable lexeme type name.
	Name string
}

// DefaultPattern is the regular expression used by Default lexer, see DefaultTypes for capturing groups.
const DefaultPattern = `(?s:[ \t\r\f]+` +
	`|(\n)` +
	`|(//[^\n]*)` +
	`|("(?:[^"\\\n]|\\.)*")` +
	`|("[^\n]*)` +
	`|([0-9]+(?:\.[0-9]+)?(?:[eE][+-]?[0-9]+)?)` +
	`|([\p{L}_][\p{L}\p{N}_]*)` +
	"|([()\\[\\]{},;`])" +
	"|([^\\s\\p{L}\\p{N}_\"()\\[\\]{},;`]+))"

// DefaultTypes describes capturing groups of DefaultPattern.
var DefaultTypes = []TokenType{
	{token.LineBreak, "line break"},
	{token.Comment, "comment"},
	{token.QuotedString, "quoted string"},
	{ErrorKind, "unterminated string"},
	{token.Natural, "number"},
	{token.Word, "word"},
	{token.Separator, "separator"},
	{token.Mark, "mark"},
}

// Lexer performs lexical analysis using regexp.Regexp.
// Lexer itself is immutable, stateless, and safe for concurrent use;
// scanning state is kept in Scanner.
// Each lexeme type maps to its own regexp capturing group index.
// A match containing no captured groups is treated as insignificant lexeme (e.g. whitespace).
// Every byte of source must belong to some lexeme.
type Lexer struct {
	types    []TokenType
	re       *regexp.Regexp
	tabWidth int
}

// New creates new Lexer.
// Each n-th element of types describes token kind for (n+1)-th regexp capturing group.
// A group that has no description is treated as ErrorKind.
// Non-positive tabWidth means DefaultTabWidth.
func New(re *regexp.Regexp, types []TokenType, tabWidth int) *Lexer {
	ts := make([]TokenType, len(types))
	copy(ts, types)
	if tabWidth <= 0 {
		tabWidth = DefaultTabWidth
	}
	return &Lexer{types: ts, re: re, tabWidth: tabWidth}
}

var defaultRe = regexp.MustCompile(DefaultPattern)

// Default creates lexer using DefaultPattern and DefaultTypes.
func Default(tabWidth int) *Lexer {
	return New(defaultRe, DefaultTypes, tabWidth)
}

// TabWidth returns the distance between tab stops.
func (l *Lexer) TabWidth() int {
	return l.tabWidth
}

// Scan creates token producer for given source. Lexical errors go to reporter.
func (l *Lexer) Scan(src *source.Source, reporter *diag.Reporter) *Scanner {
	return &Scanner{lexer: l, src: src, reporter: reporter, lineStart: true}
}

type match struct {
	tt         TokenType
	start, end int
}

// matchAt returns the lexeme at pos (tt.Kind is ErrorKind for broken lexemes) and the number of bytes to skip.
// found is false for insignificant lexemes. advance is 0 if nothing matches.
func (l *Lexer) matchAt(content []byte, pos int) (m match, found bool, advance int) {
	rest := content[pos:]
	sm := l.re.FindSubmatchIndex(rest)
	if len(sm) == 0 || sm[0] != 0 || sm[1] <= sm[0] {
		return m, false, 0
	}

	for i := 2; i < len(sm); i += 2 {
		if sm[i] < 0 || sm[i+1] < 0 {
			continue
		}

		tt := TokenType{ErrorKind, "broken lexeme"}
		if len(l.types) >= (i >> 1) {
			tt = l.types[(i>>1)-1]
		}
		return match{tt, pos + sm[i], pos + sm[i+1]}, true, sm[1]
	}

	return m, false, sm[1]
}

// Scanner is a token producer reading one source line per Produce call.
type Scanner struct {
	lexer     *Lexer
	src       *source.Source
	reporter  *diag.Reporter
	pos       int
	lineStart bool
	done      bool
}

// Produce appends tokens of the next source line including its line break, or an EOF token.
func (s *Scanner) Produce(l *token.List) int {
	if s.done {
		return 0
	}

	content := s.src.Content()
	count := 0
	for {
		if s.pos >= len(content) {
			eof := l.New(token.EOF, value.None, s.rangeOf(len(content), len(content)))
			eof.Indent = 0
			l.Append(eof)
			s.done = true
			return count + 1
		}

		m, found, advance := s.lexer.matchAt(content, s.pos)
		if advance == 0 {
			s.wrongChar(content)
			continue
		}

		if !found {
			s.pos += advance
			continue
		}

		if m.tt.Kind == ErrorKind {
			s.reportf(m.start, m.end, BadTokenError, "bad token %q (%s)", content[m.start:m.end], m.tt.Name)
			s.pos += advance
			continue
		}

		t := s.makeToken(l, m, content)
		s.pos += advance
		if t == nil {
			continue
		}

		l.Append(t)
		count++
		if t.Kind == token.LineBreak {
			s.lineStart = true
			return count
		}
	}
}

func (s *Scanner) rangeOf(start, end int) source.Range {
	return source.Range{Begin: source.NewPos(s.src, start), End: source.NewPos(s.src, end)}
}

func (s *Scanner) makeToken(l *token.List, m match, content []byte) *token.Token {
	text := content[m.start:m.end]
	rng := s.rangeOf(m.start, m.end)
	var t *token.Token

	switch m.tt.Kind {
	case token.Word, token.Mark, token.Separator, token.Symbol:
		t = l.New(m.tt.Kind, value.Symbol(string(text)), rng)

	case token.Natural, token.Numeric:
		kind := token.Natural
		for _, b := range text {
			if b < '0' || b > '9' {
				kind = token.Numeric
				break
			}
		}
		t = l.NewRaw(kind, text, rng)

	case token.QuotedString:
		str, e := strconv.Unquote(string(text))
		if e != nil {
			s.reportf(m.start, m.end, BadTokenError, "bad string literal %s", text)
			str = string(text[1 : len(text)-1])
		}
		t = l.NewRaw(token.QuotedString, []byte(str), rng)

	default:
		t = l.NewRaw(m.tt.Kind, text, rng)
	}

	if s.lineStart && m.tt.Kind != token.LineBreak {
		t.Indent = s.indent(m.start)
		s.lineStart = false
	}
	return t
}

// indent measures the width of spacing between the line start and pos, tabs advance to the next tab stop.
func (s *Scanner) indent(pos int) int {
	content := s.src.Content()
	width := 0
	for i := s.src.LineStart(pos); i < pos; i++ {
		switch content[i] {
		case '\t':
			width += s.lexer.tabWidth - width%s.lexer.tabWidth
		case ' ':
			width++
		}
	}
	return width
}

func (s *Scanner) wrongChar(content []byte) {
	r, size := utf8.DecodeRune(content[s.pos:])
	s.reportf(s.pos, s.pos+size, WrongCharError, "wrong char %s", fmt.Sprintf("%q (u+%x)", r, r))
	s.pos += size
}

func (s *Scanner) reportf(start, end, code int, msg string, params ...any) {
	if s.reporter != nil {
		s.reporter.Errorf(s.rangeOf(start, end), code, msg, params...)
	}
}
