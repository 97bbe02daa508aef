package table

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ava12/sublex/internal/test"
	"github.com/ava12/sublex/source"
	"github.com/ava12/sublex/token"
	"github.com/ava12/sublex/value"
)

func symbolList(text string) *token.List {
	l := token.NewList(nil, nil)
	for _, s := range strings.Fields(text) {
		l.Append(l.New(token.Mark, value.Symbol(s), source.Range{}))
	}
	l.Append(l.New(token.EOF, value.None, source.Range{}))
	return l
}

func label(s string) []string {
	return strings.Fields(s)
}

func findAll(tb *Table, text string, sel Selectors) []string {
	l := symbolList(text)
	f := tb.Find(l, l.First(), sel)
	var res []string
	for m, ok := f.Next(); ok; m, ok = f.Next() {
		res = append(res, m.Entry.Kind.String()+":"+m.Entry.LabelText()+":"+m.Last.Text())
	}
	return res
}

func TestBucketCount(t *testing.T) {
	assert.Len(t, New(0).buckets, DefaultBucketCount)
	assert.Len(t, New(4).buckets, 4)
	assert.Panics(t, func() { New(3) })
	assert.Panics(t, func() { New(-1) })
}

func TestLongestFirst(t *testing.T) {
	tb := New(4)
	_, err := tb.DefineBracket(label("("), label(")"), AllSelectors, SelectorRule{}, false)
	require.NoError(t, err)
	_, err = tb.DefineBracket(label("( *"), label("* )"), AllSelectors, SelectorRule{}, false)
	require.NoError(t, err)

	assert.Equal(t, []string{"opening bracket:( *:*", "opening bracket:(:("}, findAll(tb, "( * x", AllSelectors))
	assert.Equal(t, []string{"opening bracket:(:("}, findAll(tb, "( x", AllSelectors))
	assert.Equal(t, []string{"closing bracket:* ):)"}, findAll(tb, "* ) )", AllSelectors))
	assert.Nil(t, findAll(tb, "x ( *", AllSelectors))
}

func TestSelectors(t *testing.T) {
	tb := New(0)
	a, err := tb.Selector("a")
	require.NoError(t, err)
	b, err := tb.Selector("b")
	require.NoError(t, err)
	again, _ := tb.Selector("a")
	assert.Equal(t, a, again)
	assert.NotEqual(t, a, b)

	_, err = tb.DefineBracket(label("<"), label(">"), a, SelectorRule{}, false)
	require.NoError(t, err)

	assert.Len(t, findAll(tb, "<", a), 1)
	assert.Len(t, findAll(tb, "<", b), 0)
	assert.Len(t, findAll(tb, ">", b), 1, "closing entries are active under any selectors")
	assert.Equal(t, []string{"a", "b"}, tb.SelectorNames(a|b))

	rule := SelectorRule{Clear: a, Set: b}
	assert.Equal(t, b, rule.Apply(a))
	assert.Equal(t, a|b, SelectorRule{}.Apply(a|b))
}

func TestSelectorOverflow(t *testing.T) {
	tb := New(0)
	for i := 0; i < 64; i++ {
		_, err := tb.Selector(fmt.Sprintf("s%d", i))
		require.NoError(t, err)
	}
	_, err := tb.Selector("extra")
	test.ExpectErrorCode(t, SelectorOverflowError, err)
}

func TestInvalidLabels(t *testing.T) {
	tb := New(0)
	_, err := tb.DefineBracket(nil, label(")"), AllSelectors, SelectorRule{}, false)
	test.ExpectErrorCode(t, InvalidLabelError, err)
	_, err = tb.DefineBracket(label("("), []string{""}, AllSelectors, SelectorRule{}, false)
	test.ExpectErrorCode(t, InvalidLabelError, err)
	_, err = tb.DefineIndentationMark(label(": :"), nil, AllSelectors, SelectorRule{}, true)
	test.ExpectErrorCode(t, GlueLabelError, err)
	_, err = tb.DefineNamedBracket(NamedBracket{Opening: label("[<"), Closing: label(">]"), MiddleClosing: label("|>]")})
	test.ExpectErrorCode(t, InvalidDefinitionError, err)
	assert.Empty(t, tb.Entries())
}

func TestNamedBracketGlue(t *testing.T) {
	samples := []struct {
		middle, closing, given, expected string
		code                             int
	}{
		{"|", ">]", "", "|>]", 0},
		{"|", ">]", "|>]", "|>]", 0},
		{"|", ">]", "| >]", "", MismatchedMiddleError},
		{"then", "end", "", "", 0},
		{"|", "]", "", "", 0},
		{"- -", "> x", "", "- -> x", 0},
		{"|", "> ]", "", "|> ]", 0},
		{"a|", ">b", "", "a|>b", 0},
		{"|a", ">]", "", "", 0},
		{"|", ">]", "|", "", MismatchedMiddleError},
	}

	for i, s := range samples {
		t.Run(fmt.Sprintf("sample #%d", i), func(t *testing.T) {
			tb := New(0)
			d := NamedBracket{
				Opening:   label("[<"),
				Separator: label("#"),
				Middle:    label(s.middle),
				Closing:   label(s.closing),
				Selectors: AllSelectors,
			}
			if s.given != "" {
				d.MiddleClosing = label(s.given)
			}

			o, err := tb.DefineNamedBracket(d)
			if s.code != 0 {
				test.ExpectErrorCode(t, s.code, err)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, tb.Entry(o.Closing))
			require.NotNil(t, tb.Entry(o.Separator))
			require.NotNil(t, tb.Entry(o.Middle))
			mc := tb.Entry(o.MiddleClosing)
			if s.expected == "" {
				assert.Nil(t, mc)
			} else {
				require.NotNil(t, mc)
				assert.Equal(t, s.expected, mc.LabelText())
				assert.Equal(t, o.ID, mc.Opening)
			}
		})
	}
}

func TestBlocks(t *testing.T) {
	tb := New(2)
	_, err := tb.DefineBracket(label("("), label(")"), AllSelectors, SelectorRule{}, false)
	require.NoError(t, err)

	assert.Equal(t, 1, tb.BeginBlock())
	_, err = tb.DefineBracket(label("("), label("]"), AllSelectors, SelectorRule{}, false)
	require.NoError(t, err)
	_, err = tb.DefineIndentationMark(label("do"), label(";"), AllSelectors, SelectorRule{}, false)
	require.NoError(t, err)
	assert.Len(t, findAll(tb, "(", AllSelectors), 2)
	assert.Len(t, tb.Entries(), 6)

	require.NoError(t, tb.EndBlock())
	assert.Equal(t, 0, tb.Level())
	assert.Len(t, findAll(tb, "(", AllSelectors), 1)
	assert.Nil(t, findAll(tb, "do", AllSelectors))
	assert.Nil(t, findAll(tb, "]", AllSelectors))
	assert.Len(t, tb.Entries(), 2)

	test.ExpectErrorCode(t, BlockLevelError, tb.EndBlock())
}

func TestUndefine(t *testing.T) {
	tb := New(0)
	a, _ := tb.Selector("a")
	b, _ := tb.Selector("b")
	_, err := tb.DefineBracket(label("( ("), label(") )"), a, SelectorRule{}, false)
	require.NoError(t, err)
	_, err = tb.DefineBracket(label("( ("), label("]"), b, SelectorRule{}, false)
	require.NoError(t, err)

	assert.Equal(t, 0, tb.Undefine(label("("), AllSelectors))
	assert.Equal(t, 0, tb.Undefine(label(") )"), AllSelectors), "closing entries are not primary")
	assert.Equal(t, 1, tb.Undefine(label("( ("), a))
	assert.Equal(t, []string{"opening bracket:( (:("}, findAll(tb, "( (", AllSelectors))
	assert.Nil(t, findAll(tb, ") )", AllSelectors))
	assert.Equal(t, 1, tb.Undefine(label("( ("), AllSelectors))
	assert.Empty(t, tb.Entries())

	for _, n := range tb.buckets {
		assert.Nil(t, n, "unreachable trie nodes must be removed")
	}
}

func TestNormalization(t *testing.T) {
	tb := New(0)
	_, err := tb.DefineBracket([]string{"e\u0301"}, label(")"), AllSelectors, SelectorRule{}, false)
	require.NoError(t, err)
	assert.Len(t, findAll(tb, "\u00e9", AllSelectors), 1)
}

func TestSplit(t *testing.T) {
	tb := New(0)
	a, _ := tb.Selector("a")
	_, err := tb.DefineIndentationMark(label(":"), nil, AllSelectors, SelectorRule{}, true)
	require.NoError(t, err)
	_, err = tb.DefineIndentationMark(label("::"), nil, a, SelectorRule{}, true)
	require.NoError(t, err)
	_, err = tb.DefineIndentationMark(label("do"), nil, AllSelectors, SelectorRule{}, false)
	require.NoError(t, err)

	samples := []struct {
		symbol string
		sel    Selectors
		prefix string
		mark   string
	}{
		{"x:", AllSelectors, "x", ":"},
		{"x::", AllSelectors, "x", "::"},
		{"x::", ^a, "x:", ":"},
		{":", AllSelectors, "", ""},
		{"::", a, ":", ":"},
		{"::", AllSelectors, ":", ":"},
		{"undo", AllSelectors, "", ""},
		{"", AllSelectors, "", ""},
	}

	for i, s := range samples {
		t.Run(fmt.Sprintf("sample #%d", i), func(t *testing.T) {
			prefix, e, ok := tb.Split(s.symbol, s.sel)
			if s.mark == "" {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.Equal(t, s.prefix, prefix)
			assert.Equal(t, s.mark, e.LabelText())
		})
	}
}

func TestIsMarkSymbol(t *testing.T) {
	assert.True(t, IsMarkSymbol("|>"))
	assert.True(t, IsMarkSymbol("+="))
	assert.False(t, IsMarkSymbol(""))
	assert.False(t, IsMarkSymbol("]"))
	assert.False(t, IsMarkSymbol("a+"))
	assert.False(t, IsMarkSymbol("_"))
}
