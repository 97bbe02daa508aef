package printer

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/ava12/sublex/value"
)

// ElementsKey is the mapping key holding object elements in YAML output.
const ElementsKey = "elements"

func scalarNode(tag, text string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: text}
}

// Node converts a value to a YAML node. Symbols become plain strings, quoted strings become
// double-quoted strings, labels become flow sequences, objects become mappings of attributes
// followed by the elements sequence.
func Node(v value.Value) *yaml.Node {
	switch v.Kind() {
	case value.KindSymbol:
		return scalarNode("!!str", v.Text())

	case value.KindString:
		n := scalarNode("!!str", v.Text())
		n.Style = yaml.DoubleQuotedStyle
		return n

	case value.KindNumber:
		n := v.Number()
		text := value.FormatNumber(n)
		if n < 1e15 && n > -1e15 && float64(int64(n)) == n {
			return scalarNode("!!int", text)
		}
		return scalarNode("!!float", text)

	case value.KindLabel:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Style: yaml.FlowStyle}
		for _, p := range v.Parts() {
			n.Content = append(n.Content, Node(p))
		}
		return n

	case value.KindObject:
		o := v.Object()
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, name := range o.AttrNames() {
			n.Content = append(n.Content, scalarNode("!!str", name), Node(o.Get(name)))
		}
		if o.Len() > 0 {
			elems := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
			for _, e := range o.Elems() {
				elems.Content = append(elems.Content, Node(e))
			}
			n.Content = append(n.Content, scalarNode("!!str", ElementsKey), elems)
		}
		return n
	}

	return scalarNode("!!null", "")
}

// YAML writes values as a single YAML document holding a sequence.
func YAML(w io.Writer, vs ...value.Value) error {
	doc := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for _, v := range vs {
		doc.Content = append(doc.Content, Node(v))
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(indentWidth)
	if e := enc.Encode(doc); e != nil {
		return e
	}
	return enc.Close()
}
