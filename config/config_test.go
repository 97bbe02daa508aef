package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ava12/sublex/internal/logx"
	"github.com/ava12/sublex/internal/test"
	"github.com/ava12/sublex/source"
	"github.com/ava12/sublex/table"
	"github.com/ava12/sublex/value"
)

const tomlSample = `
indent_offset = 4
selectors = ["code"]

[[brackets]]
opening = "<"
closing = ">"
selectors = ["code"]
set = ["text"]

[[indentation_marks]]
mark = "=>"
`

const yamlSample = `
tab_width: 4
named_brackets: []
script: |
  # one more
  bracket '<' '>' full-line=yes
`

func TestDefault(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	tb, err := c.Table()
	require.NoError(t, err)
	assert.Equal(t, 13, len(tb.Entries()))

	var glued string
	for _, e := range tb.Entries() {
		if e.Kind == table.NamedMiddleClosing {
			glued = e.LabelText()
		}
	}
	assert.Equal(t, "|> ]", glued)
}

func TestParseTOML(t *testing.T) {
	c, err := Parse("sample.toml", []byte(tomlSample))
	require.NoError(t, err)
	assert.Equal(t, "sample.toml", c.Name())
	assert.Equal(t, 4, c.IndentOffset)
	assert.Equal(t, 8, c.TabWidth)
	assert.Equal(t, []Bracket{{Opening: "<", Closing: ">", Selectors: []string{"code"}, Set: []string{"text"}}}, c.Brackets)
	assert.Equal(t, Default().NamedBrackets, c.NamedBrackets)
	assert.Equal(t, []IndentationMark{{Mark: "=>"}}, c.IndentationMarks)

	tb, err := c.Table()
	require.NoError(t, err)
	code, _ := tb.Selector("code")
	text, _ := tb.Selector("text")
	sel, err := c.InitialSelectors(tb)
	require.NoError(t, err)
	assert.Equal(t, code, sel)

	e := tb.Entries()[0]
	assert.Equal(t, table.OpeningBracket, e.Kind)
	assert.Equal(t, code, e.Selectors)
	assert.Equal(t, table.SelectorRule{Set: text}, e.Rule)
}

func TestParseYAML(t *testing.T) {
	c, err := Parse("sample.yml", []byte(yamlSample))
	require.NoError(t, err)
	assert.Equal(t, 4, c.TabWidth)
	assert.Equal(t, 2, c.IndentOffset)
	assert.Empty(t, c.NamedBrackets)
	assert.Equal(t, 3, len(c.Brackets))

	tb, err := c.Table()
	require.NoError(t, err)
	assert.Equal(t, 10, len(tb.Entries()))
	last := tb.Entries()[8]
	assert.Equal(t, "<", last.LabelText())
	assert.True(t, last.FullLine)
}

func TestEmptyFiles(t *testing.T) {
	for _, name := range []string{"empty.toml", "empty.yaml"} {
		c, err := Parse(name, nil)
		require.NoError(t, err, name)
		assert.Equal(t, Default().Brackets, c.Brackets)
	}
}

func TestParseErrors(t *testing.T) {
	samples := []struct {
		name, text string
		code       int
	}{
		{"a.json", "{}", UnknownFormatError},
		{"a.toml", "indent = 3", DecodeError},
		{"a.yaml", "indent: 3", DecodeError},
		{"a.toml", "tab_width = ", DecodeError},
		{"a.toml", "tab_width = 0", InvalidValueError},
		{"a.yaml", "indent_offset: -1", InvalidValueError},
		{"a.yaml", "max_diagnostics: -1", InvalidValueError},
	}

	for _, s := range samples {
		_, err := Parse(s.name, []byte(s.text))
		test.ExpectErrorCode(t, s.code, err)
	}
}

func TestApplyErrors(t *testing.T) {
	samples := []struct {
		text string
		code int
	}{
		{"brackets:\n  - opening: ''\n    closing: ')'", table.InvalidLabelError},
		{"named_brackets:\n  - {opening: '<', closing: '>', middle: '|', middle_closing: 'x'}", table.MismatchedMiddleError},
		{"indentation_marks:\n  - {mark: ': :', glue: true}", table.GlueLabelError},
		{"script: end", table.BlockLevelError},
	}

	for _, s := range samples {
		c, err := Parse("a.yaml", []byte(s.text))
		require.NoError(t, err)
		_, err = c.Table()
		test.ExpectErrorCode(t, s.code, err)
	}
}

func TestMarshal(t *testing.T) {
	for _, format := range []string{"toml", "yaml"} {
		data, err := Default().Marshal(format)
		require.NoError(t, err)
		c, err := Parse("default."+format, data)
		require.NoError(t, err, string(data))
		c.name = Default().name
		assert.Equal(t, Default(), c)
	}

	_, err := Default().Marshal("ini")
	test.ExpectErrorCode(t, UnknownFormatError, err)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sublex.toml"), []byte(tomlSample), 0o666))

	t.Setenv("HOME", dir)
	t.Setenv("USERPROFILE", dir)
	homedir.DisableCache = true
	defer func() { homedir.DisableCache = false }()

	c, err := Load("~/sublex.toml")
	require.NoError(t, err)
	assert.Equal(t, 4, c.IndentOffset)

	_, err = Load(filepath.Join(dir, "missing.toml"))
	test.ExpectErrorCode(t, ReadError, err)
}

func TestRecognizer(t *testing.T) {
	c := Default()
	tb, err := c.Table()
	require.NoError(t, err)

	r, err := c.Recognizer(tb, source.New("test", []byte("a (b c)\nd:\n  e\n")), logx.Discard())
	require.NoError(t, err)

	line := r.Next()
	require.NotNil(t, line)
	o := line.Value.Object()
	require.Equal(t, 2, o.Len())
	inner := o.Elem(1).Object()
	require.NotNil(t, inner)
	assert.True(t, inner.Get(value.Initiator).Equal(value.SymbolLabel("(")))
	assert.Equal(t, 2, inner.Len())

	line = r.Next()
	require.NotNil(t, line)
	assert.Equal(t, 2, line.Value.Object().Len())
	assert.Nil(t, r.Next())
	assert.Equal(t, 0, r.Reporter().Errors())
}
