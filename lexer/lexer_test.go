package lexer

import (
	"fmt"
	"regexp"
	"strings"
	"testing"

	"github.com/ava12/sublex/diag"
	"github.com/ava12/sublex/internal/test"
	"github.com/ava12/sublex/source"
	"github.com/ava12/sublex/token"
)

func scan(src string) ([]*token.Token, *diag.Reporter) {
	r := diag.NewReporter(nil, 0)
	l := token.NewList(Default(4).Scan(source.New("", []byte(src)), r), nil)
	for t := l.First(); t != nil; t = l.Next(t) {
	}
	return l.Tokens(), r
}

func TestEmpty(t *testing.T) {
	sources := []string{"", " ", "  ", " \t\r "}
	for _, src := range sources {
		tokens, r := scan(src)
		if len(tokens) != 1 || tokens[0].Kind != token.EOF {
			t.Fatalf("source %q: expecting single EOF token, got %v", src, tokens)
		}
		if r.Errors() != 0 {
			t.Fatalf("source %q: unexpected errors %v", src, r.Diagnostics())
		}
	}
}

func TestTokenSamples(t *testing.T) {
	tokens, r := scan("foo += 12 3.5e2 \"a\\\"b\" (x;) // note\n  bar")
	expected := []struct {
		kind   token.Kind
		text   string
		indent int
	}{
		{token.Word, "foo", 0},
		{token.Mark, "+=", token.MidLine},
		{token.Natural, "12", token.MidLine},
		{token.Numeric, "3.5e2", token.MidLine},
		{token.QuotedString, "a\"b", token.MidLine},
		{token.Separator, "(", token.MidLine},
		{token.Word, "x", token.MidLine},
		{token.Separator, ";", token.MidLine},
		{token.Separator, ")", token.MidLine},
		{token.Comment, "// note", token.MidLine},
		{token.LineBreak, "\n", token.MidLine},
		{token.Word, "bar", 2},
		{token.EOF, "", 0},
	}

	test.ExpectInt(t, 0, r.Errors())
	test.ExpectInt(t, len(expected), len(tokens))
	for i, e := range expected {
		tok := tokens[i]
		if tok.Kind != e.kind || tok.Text() != e.text || tok.Indent != e.indent {
			t.Fatalf("token #%d: expecting %s %q (indent %d), got %s (indent %d)", i, e.kind, e.text, e.indent, tok, tok.Indent)
		}
	}
}

func TestPositions(t *testing.T) {
	tokens, _ := scan("a\n  bc")
	test.ExpectInt(t, 2, tokens[2].Line())
	test.ExpectInt(t, 3, tokens[2].Col())
	test.ExpectInt(t, 2, tokens[2].Range.End.Line())
	test.ExpectInt(t, 5, tokens[2].Range.End.Col())
}

func TestIndentation(t *testing.T) {
	samples := []struct {
		src    string
		indent int
	}{
		{"x", 0},
		{"  x", 2},
		{"\tx", 4},
		{"  \tx", 4},
		{"\t  x", 6},
		{"     \tx", 8},
		{"  // c", 2},
	}

	for i, s := range samples {
		t.Run(fmt.Sprintf("sample #%d", i), func(t *testing.T) {
			tokens, _ := scan(s.src)
			test.ExpectInt(t, s.indent, tokens[0].Indent)
		})
	}

	tokens, _ := scan("  // c")
	test.Assert(t, tokens[0].IsFullLineComment(), "expecting full-line comment")
	tokens, _ = scan("x // c")
	test.Assert(t, !tokens[1].IsFullLineComment(), "expecting trailing comment")
}

func TestBrokenToken(t *testing.T) {
	tokens, r := scan("\n  \"*  *\nfoo")
	test.ExpectInt(t, 1, r.Errors())
	e := r.Diagnostics()[0].Err
	test.ExpectInt(t, BadTokenError, e.Code)
	if e.Line != 2 || e.Col != 3 {
		t.Fatalf("expected error at line 2, col 3, got %d, %d", e.Line, e.Col)
	}
	if !strings.Contains(e.Message, "\"\\\"*  *\"") {
		t.Fatalf("expected broken token in error message, got %q", e.Message)
	}
	test.ExpectString(t, "foo", tokens[2].Text())
}

func TestWrongChar(t *testing.T) {
	re := regexp.MustCompile(`(\d+)|\s+|(\w+)`)
	types := []TokenType{{token.Natural, "num"}, {token.Word, "name"}}
	r := diag.NewReporter(nil, 0)
	l := token.NewList(New(re, types, 0).Scan(source.New("", []byte("a*b")), r), nil)
	for tok := l.First(); tok != nil; tok = l.Next(tok) {
	}
	test.ExpectInt(t, 1, r.Errors())
	test.ExpectInt(t, WrongCharError, r.Diagnostics()[0].Err.Code)
	test.ExpectInt(t, 3, l.Len())
	test.ExpectString(t, "b", l.Tokens()[1].Text())
}

func TestLinePerPull(t *testing.T) {
	calls := 0
	sc := Default(0).Scan(source.New("", []byte("a b\nc\n\nd")), nil)
	p := token.ProducerFunc(func(l *token.List) int {
		calls++
		return sc.Produce(l)
	})
	l := token.NewList(p, nil)
	l.First()
	test.ExpectInt(t, 1, calls)
	test.ExpectInt(t, 3, l.Len())

	for tok := l.First(); tok != nil; tok = l.Next(tok) {
	}
	test.ExpectInt(t, 4, calls)
	test.ExpectInt(t, 0, sc.Produce(l))
	test.ExpectInt(t, 0, sc.Produce(l))
}

func TestCustomTypes(t *testing.T) {
	re := regexp.MustCompile(`(\d+)|\s+|(\w+)|([+-])`)
	types := []TokenType{{token.Natural, "num"}, {token.Word, "name"}, {token.Mark, "op"}}
	sc := New(re, types, 0).Scan(source.New("", []byte("1 + foo")), nil)
	l := token.NewList(sc, nil)
	expected := []token.Kind{token.Natural, token.Mark, token.Word, token.EOF}
	i := 0
	for tok := l.First(); tok != nil; tok = l.Next(tok) {
		if tok.Kind != expected[i] {
			t.Fatalf("token #%d: expecting %s, got %s", i, expected[i], tok.Kind)
		}
		i++
	}
	test.ExpectInt(t, len(expected), i)
}
