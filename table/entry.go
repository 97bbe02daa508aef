package table

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Selectors is a set of up to 64 selector bits. A definition is active while its selectors intersect
// the current selector set.
type Selectors uint64

const AllSelectors = Selectors(1<<64 - 1)

// SelectorRule modifies current selector set when recursing into a bracketed subexpression
// or an indented paragraph: cleared bits are removed first, then set bits are added.
// The zero rule keeps selectors unchanged.
type SelectorRule struct {
	Clear, Set Selectors
}

func (r SelectorRule) Apply(s Selectors) Selectors {
	return (s &^ r.Clear) | r.Set
}

// Kind is a definition entry kind.
type Kind byte

const (
	OpeningBracket Kind = iota + 1
	ClosingBracket
	NamedOpening
	NamedSeparator
	NamedMiddle
	NamedClosing
	NamedMiddleClosing
	IndentationMark
	LineSeparator
)

var kindNames = [...]string{"", "opening bracket", "closing bracket", "named opening", "named separator",
	"named middle", "named closing", "named middle-closing", "indentation mark", "line separator"}

func (k Kind) String() string {
	if int(k) < len(kindNames) && k != 0 {
		return kindNames[k]
	}
	return "unknown"
}

// IsPrimary reports whether entries of this kind are defined directly rather than as parts of other definitions.
func (k Kind) IsPrimary() bool {
	return k == OpeningBracket || k == NamedOpening || k == IndentationMark
}

// ID identifies an entry within its table, 0 means no entry.
type ID int32

// Entry is a definition table entry. Cross references to related entries are stored as IDs
// and resolved with Table.Entry:
//   - opening bracket: Closing;
//   - named opening: Separator, Middle, Closing, MiddleClosing (all but Closing are optional);
//   - indentation mark: Separator (line separator, optional);
//   - all other kinds: Opening refers to the owning opening bracket, named opening, or indentation mark.
type Entry struct {
	ID        ID
	Kind      Kind
	Label     []string
	Selectors Selectors
	Level     int
	Rule      SelectorRule
	FullLine  bool
	Glue      bool

	Opening       ID
	Closing       ID
	Separator     ID
	Middle        ID
	MiddleClosing ID

	node *node
}

// IsActive reports whether entry selectors intersect given set.
func (e *Entry) IsActive(sel Selectors) bool {
	return e.Selectors&sel != 0
}

// LabelText returns label symbols separated by spaces.
func (e *Entry) LabelText() string {
	return labelText(e.Label)
}

func (e *Entry) String() string {
	return e.Kind.String() + " " + e.LabelText()
}

const separatorChars = "()[]{},;`\""

func isMarkRune(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.IsSpace(r) && r != '_' &&
		!strings.ContainsRune(separatorChars, r)
}

// IsMarkSymbol reports whether symbol consists of mark characters only, i.e. whether a lexer
// would glue it with adjacent mark characters into a single lexeme.
func IsMarkSymbol(s string) bool {
	if s == "" {
		return false
	}

	for _, r := range s {
		if !isMarkRune(r) {
			return false
		}
	}
	return true
}

// GlueLabel returns the label a lexer produces for middle immediately followed by closing,
// or nil if the last middle symbol and the first closing symbol are not glued together.
// Symbols are glued when the last rune of the former and the first rune of the latter are both mark characters.
func GlueLabel(middle, closing []string) []string {
	if len(middle) == 0 || len(closing) == 0 {
		return nil
	}

	last := middle[len(middle)-1]
	first := closing[0]
	lr, _ := utf8.DecodeLastRuneInString(last)
	fr, _ := utf8.DecodeRuneInString(first)
	if last == "" || first == "" || !isMarkRune(lr) || !isMarkRune(fr) {
		return nil
	}

	res := make([]string, 0, len(middle)+len(closing)-1)
	res = append(res, middle[:len(middle)-1]...)
	res = append(res, last+first)
	return append(res, closing[1:]...)
}

func sameLabel(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i, s := range a {
		if s != b[i] {
			return false
		}
	}
	return true
}
