// Package value defines values stored in tokens: scalars, labels, and ordered attribute containers.
package value

import (
	"strconv"
	"strings"

	"cogentcore.org/core/ordmap"
)

// Kind tells which variant a Value holds.
type Kind byte

const (
	KindNone Kind = iota
	KindSymbol
	KindString
	KindNumber
	KindLabel
	KindObject
)

var kindNames = [...]string{"none", "symbol", "string", "number", "label", "object"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Standard attribute names of compacted subexpressions.
const (
	Initiator  = ".initiator"
	Terminator = ".terminator"
	Separator  = ".separator"
	Middle     = ".middle"
	Name       = ".name"
	Arguments  = ".arguments"
	Keys       = ".keys"
)

// Value is an immutable sum of none, symbol, quoted string, number, label (a sequence of symbols),
// and object. The zero Value is none.
type Value struct {
	kind  Kind
	text  string
	num   float64
	parts []Value
	obj   *Object
}

// None is the empty value.
var None = Value{}

func Symbol(s string) Value {
	return Value{kind: KindSymbol, text: s}
}

func String(s string) Value {
	return Value{kind: KindString, text: s}
}

func Number(n float64) Value {
	return Value{kind: KindNumber, num: n}
}

// Label creates a label from its parts. A single part is returned as is, no parts give None.
func Label(parts ...Value) Value {
	switch len(parts) {
	case 0:
		return None
	case 1:
		return parts[0]
	}

	ps := make([]Value, len(parts))
	copy(ps, parts)
	return Value{kind: KindLabel, parts: ps}
}

// SymbolLabel creates a label out of symbol names.
func SymbolLabel(names ...string) Value {
	parts := make([]Value, len(names))
	for i, n := range names {
		parts[i] = Symbol(n)
	}
	return Label(parts...)
}

func ObjectValue(o *Object) Value {
	if o == nil {
		return None
	}
	return Value{kind: KindObject, obj: o}
}

func (v Value) Kind() Kind {
	return v.kind
}

func (v Value) IsNone() bool {
	return v.kind == KindNone
}

// Text returns symbol name or string content, empty string for other kinds.
func (v Value) Text() string {
	return v.text
}

func (v Value) Number() float64 {
	return v.num
}

// Parts returns label parts; a symbol or a number is a single-part label.
func (v Value) Parts() []Value {
	switch v.kind {
	case KindLabel:
		return v.parts
	case KindSymbol, KindNumber:
		return []Value{v}
	}
	return nil
}

func (v Value) Object() *Object {
	return v.obj
}

// IsLegalElement reports whether the value may become an element or an attribute value.
func (v Value) IsLegalElement() bool {
	return v.kind != KindNone
}

// Equal compares values deeply. Objects are compared by attributes and elements.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}

	switch v.kind {
	case KindSymbol, KindString:
		return v.text == other.text
	case KindNumber:
		return v.num == other.num
	case KindLabel:
		if len(v.parts) != len(other.parts) {
			return false
		}
		for i, p := range v.parts {
			if !p.Equal(other.parts[i]) {
				return false
			}
		}
		return true
	case KindObject:
		return v.obj.Equal(other.obj)
	}
	return true
}

// String renders value for debugging and diagnostics.
func (v Value) String() string {
	var sb strings.Builder
	v.write(&sb)
	return sb.String()
}

func (v Value) write(sb *strings.Builder) {
	switch v.kind {
	case KindNone:
		sb.WriteString("NONE")
	case KindSymbol:
		sb.WriteString(v.text)
	case KindString:
		sb.WriteString(strconv.Quote(v.text))
	case KindNumber:
		sb.WriteString(FormatNumber(v.num))
	case KindLabel:
		sb.WriteByte('[')
		for i, p := range v.parts {
			if i > 0 {
				sb.WriteByte(' ')
			}
			p.write(sb)
		}
		sb.WriteByte(']')
	case KindObject:
		v.obj.write(sb)
	}
}

// FormatNumber renders integral numbers without fraction and exponent.
func FormatNumber(n float64) string {
	if n == float64(int64(n)) && n < 1e15 && n > -1e15 {
		return strconv.FormatInt(int64(n), 10)
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}

// Object is an ordered attribute container with a list of elements.
type Object struct {
	attrs *ordmap.Map[string, Value]
	elems []Value
}

func NewObject() *Object {
	return &Object{attrs: ordmap.New[string, Value]()}
}

// Set adds an attribute or replaces its value keeping the original order. None removes the attribute.
func (o *Object) Set(name string, v Value) {
	if v.IsNone() {
		idx, has := o.attrs.IndexByKeyTry(name)
		if has {
			o.attrs.DeleteIndex(idx, idx+1)
		}
		return
	}

	o.attrs.Add(name, v)
}

// Get returns attribute value or None.
func (o *Object) Get(name string) Value {
	return o.attrs.ValueByKey(name)
}

func (o *Object) Has(name string) bool {
	_, has := o.attrs.IndexByKeyTry(name)
	return has
}

// AttrNames returns attribute names in insertion order.
func (o *Object) AttrNames() []string {
	res := make([]string, 0, o.attrs.Len())
	for _, kv := range o.attrs.Order {
		res = append(res, kv.Key)
	}
	return res
}

func (o *Object) Append(vs ...Value) {
	o.elems = append(o.elems, vs...)
}

func (o *Object) Elems() []Value {
	return o.elems
}

func (o *Object) Len() int {
	return len(o.elems)
}

func (o *Object) Elem(i int) Value {
	if i < 0 || i >= len(o.elems) {
		return None
	}
	return o.elems[i]
}

func (o *Object) Equal(other *Object) bool {
	if o == other {
		return true
	}
	if o == nil || other == nil {
		return false
	}
	if o.attrs.Len() != other.attrs.Len() || len(o.elems) != len(other.elems) {
		return false
	}

	for i, kv := range o.attrs.Order {
		okv := other.attrs.Order[i]
		if kv.Key != okv.Key || !kv.Value.Equal(okv.Value) {
			return false
		}
	}
	for i, e := range o.elems {
		if !e.Equal(other.elems[i]) {
			return false
		}
	}
	return true
}

func (o *Object) String() string {
	var sb strings.Builder
	o.write(&sb)
	return sb.String()
}

func (o *Object) write(sb *strings.Builder) {
	sb.WriteByte('{')
	first := true
	for _, kv := range o.attrs.Order {
		if !first {
			sb.WriteString(", ")
		}
		first = false
		sb.WriteString(kv.Key)
		sb.WriteString(": ")
		kv.Value.write(sb)
	}
	sb.WriteString(" |")
	for _, e := range o.elems {
		sb.WriteByte(' ')
		e.write(sb)
	}
	sb.WriteString(" |}")
}
