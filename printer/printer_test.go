package printer

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ava12/sublex/config"
	"github.com/ava12/sublex/internal/logx"
	"github.com/ava12/sublex/internal/test"
	"github.com/ava12/sublex/source"
	"github.com/ava12/sublex/value"
)

func recognize(t *testing.T, src string) []value.Value {
	t.Helper()
	c := config.Default()
	tb, err := c.Table()
	require.NoError(t, err)
	r, err := c.Recognizer(tb, source.New("test", []byte(src)), logx.Discard())
	require.NoError(t, err)

	var res []value.Value
	for _, line := range r.All() {
		res = append(res, line.Value)
	}
	require.Equal(t, 0, r.Reporter().Errors())
	return res
}

func TestGet(t *testing.T) {
	assert.Equal(t, []string{"source", "text", "yaml"}, Names())
	for _, name := range Names() {
		f, err := Get(name)
		assert.NoError(t, err)
		assert.NotNil(t, f)
	}

	_, err := Get("json")
	test.ExpectErrorCode(t, UnknownFormatError, err)
}

func TestText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Text(&buf, recognize(t, "a (b \"c\" 1.5)\n[< f \"x\" # k | y |>]\n")...))
	expected := `object .initiator=<BOL> .terminator=<LF>
  a
  object .initiator=( .terminator=)
    b
    "c"
    1.5
object .initiator=<BOL> .terminator=<LF>
  object .initiator=[[ <] .name=f .middle=| .terminator=[|> ]]
    .arguments: object
      "x"
    .keys: object .initiator=# .separator=#
      k
    y
`
	assert.Equal(t, expected, buf.String())
}

func TestSource(t *testing.T) {
	samples := []struct {
		src, expected string
	}{
		{"a (b c)\n", "a ( b c )\n"},
		{"x:\n  a\n  b\ny\n", "x :\n  a\n  b\ny\n"},
		{"x:\n    a; b\n    c:\n      d\n", "x :\n  a ; b\n  c :\n    d\n"},
		{"[< f \"x\" # k | y |>]", "[ < f \"x\" # k | y |> ]\n"},
		{"[< f | y | f > ]", "[ < f | y | f > ]\n"},
		{"f (x:\n    a\n  ) g", "f ( x :\n    a\n  ) g\n"},
		{"s \"q\\\"\" 12", "s \"q\\\"\" 12\n"},
	}

	for i, s := range samples {
		t.Run(fmt.Sprintf("sample #%d", i), func(t *testing.T) {
			values := recognize(t, s.src)
			var buf bytes.Buffer
			require.NoError(t, Source(&buf, values...))
			assert.Equal(t, s.expected, buf.String())

			again := recognize(t, buf.String())
			require.Equal(t, len(values), len(again))
			for j, v := range values {
				assert.True(t, v.Equal(again[j]), "statement #%d: %s != %s", j, v, again[j])
			}
		})
	}
}

func TestYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, YAML(&buf, recognize(t, "n (1 2.5 \"s\" w):\n  z\n")...))

	var doc []any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc), buf.String())
	require.Equal(t, 1, len(doc))

	line := doc[0].(map[string]any)
	assert.Equal(t, "<BOL>", line[value.Initiator])
	assert.Equal(t, "<LF>", line[value.Terminator])
	elems := line[ElementsKey].([]any)
	require.Equal(t, 3, len(elems))
	assert.Equal(t, "n", elems[0])

	bracket := elems[1].(map[string]any)
	assert.Equal(t, "(", bracket[value.Initiator])
	assert.Equal(t, []any{1, 2.5, "s", "w"}, bracket[ElementsKey])

	block := elems[2].(map[string]any)
	assert.Equal(t, ":", block[value.Initiator])
	lines := block[ElementsKey].([]any)
	require.Equal(t, 1, len(lines))
	assert.Equal(t, []any{"z"}, lines[0].(map[string]any)[ElementsKey])
}

func TestYAMLLabel(t *testing.T) {
	n := Node(value.SymbolLabel("[", "<"))
	assert.Equal(t, yaml.SequenceNode, n.Kind)
	assert.Equal(t, yaml.FlowStyle, n.Style)
	out, err := yaml.Marshal(n)
	require.NoError(t, err)
	var back []string
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, []string{"[", "<"}, back)
}
