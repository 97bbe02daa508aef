/*
Package directive implements a small command language populating a definition table.

A script consists of lines, each line is a single command. Empty lines and lines starting
with # are ignored. A line is split into words the way a shell does it, so labels
containing spaces, parentheses, or shell operators (; & | < >) must be quoted. A label is a word
containing symbols separated by spaces. Words of the form name=value are options:

	selector <name>...
	bracket <opening> <closing> [selectors=<names>] [set=<names>] [clear=<names>] [full-line=<bool>]
	named-bracket <opening> <closing> [separator=<label>] [middle=<label>] [middle-closing=<label>]
		[selectors=<names>] [set=<names>] [clear=<names>]
	indentation-mark <mark> [separator=<label>] [glue=<bool>] [selectors=<names>] [set=<names>] [clear=<names>]
	undefine <label> [selectors=<names>]
	begin
	end

<names> is a comma-separated list of selector names, * stands for all selectors.
Selectors are allocated on first use. Definitions without selectors option are active under all selectors.

Example:

	bracket '(' ')'
	named-bracket '[ <' '> ]' separator=# middle='|'
	indentation-mark : separator=';' glue=yes
*/
package directive

import (
	"strings"

	"github.com/mattn/go-shellwords"
)

// Option is a name=value command word.
type Option struct {
	Name, Value string
}

// Command is a single parsed directive. Command implements sublex.SourcePos.
type Command struct {
	Name    string
	Args    []string
	Options []Option

	sourceName string
	line       int
}

func (c *Command) SourceName() string {
	return c.sourceName
}

func (c *Command) Line() int {
	return c.line
}

func (c *Command) Col() int {
	if c.line == 0 {
		return 0
	}
	return 1
}

// Option returns option value and whether the option is present.
func (c *Command) Option(name string) (string, bool) {
	for _, o := range c.Options {
		if o.Name == name {
			return o.Value, true
		}
	}
	return "", false
}

// String returns the command as a script line which parses back into the same command.
func (c *Command) String() string {
	if c == nil {
		return "<nil>"
	}

	words := make([]string, 0, 1+len(c.Args)+len(c.Options))
	words = append(words, c.Name)
	for _, a := range c.Args {
		words = append(words, Quote(a))
	}
	for _, o := range c.Options {
		words = append(words, Quote(o.Name+"="+o.Value))
	}
	return strings.Join(words, " ")
}

func isOptionName(s string) bool {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return false
	}
	for i := 1; i < len(s); i++ {
		if (s[i] < 'a' || s[i] > 'z') && s[i] != '-' {
			return false
		}
	}
	return true
}

type linePos struct {
	name string
	line int
}

func (p linePos) SourceName() string { return p.name }
func (p linePos) Line() int          { return p.line }
func (p linePos) Col() int           { return 1 }

// ParseLine parses a single script line. Returns nil command for empty and comment lines.
// sourceName and line are used in error messages only.
func ParseLine(sourceName string, line int, text string) (*Command, error) {
	text = strings.TrimSpace(text)
	if text == "" || text[0] == '#' {
		return nil, nil
	}

	p := shellwords.NewParser()
	words, err := p.Parse(text)
	if err != nil {
		return nil, makeSyntaxError(linePos{sourceName, line}, err.Error())
	}
	if p.Position >= 0 {
		return nil, makeSyntaxError(linePos{sourceName, line}, "unquoted shell operator")
	}
	if len(words) == 0 {
		return nil, nil
	}

	c := &Command{Name: words[0], sourceName: sourceName, line: line}
	for _, w := range words[1:] {
		name, val, found := strings.Cut(w, "=")
		if found && isOptionName(name) {
			c.Options = append(c.Options, Option{name, val})
		} else {
			c.Args = append(c.Args, w)
		}
	}
	return c, nil
}

// Parse splits script text into commands. Parsing stops at the first malformed line.
func Parse(sourceName string, text []byte) ([]*Command, error) {
	var res []*Command
	for i, line := range strings.Split(string(text), "\n") {
		c, err := ParseLine(sourceName, i+1, strings.TrimSuffix(line, "\r"))
		if err != nil {
			return res, err
		}
		if c != nil {
			res = append(res, c)
		}
	}
	return res, nil
}

// Format returns script text, one command per line.
func Format(cmds []*Command) string {
	var sb strings.Builder
	for _, c := range cmds {
		sb.WriteString(c.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

const plainChars = "-_.,:/=+@%^!?#*"

func isPlain(s string) bool {
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r > 0x7f ||
			strings.ContainsRune(plainChars, r)) {
			return false
		}
	}
	return true
}

// Quote returns a script word which is parsed back into s.
func Quote(s string) string {
	switch {
	case s == "":
		return "''"
	case isPlain(s) && s[0] != '#':
		return s
	case !strings.ContainsRune(s, '\''):
		return "'" + s + "'"
	}

	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		if r == '"' || r == '\\' {
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	sb.WriteByte('"')
	return sb.String()
}
