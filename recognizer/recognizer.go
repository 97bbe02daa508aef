/*
Package recognizer turns a flat token list into nested subexpressions using definition table.

Recognizer edits the list in place. Every recognized bracket, named bracket, and indented paragraph
is replaced by a single token of token.Bracketed kind holding a value.Object:

	( a b )               {.initiator: ( .terminator: ) | a b}
	[< f x # k | y | >]   {.initiator: [< .name: f .arguments: {| x} .keys: {.initiator: # .separator: # | k}
	                       .middle: | .terminator: [| >]] | y}
	x:                    {.initiator: : .terminator: <indented paragraph> |
	  a; b                  {.initiator: <BOL> .terminator: ; | a} {.initiator: <BOL> .terminator: <LF> | b}}

Named bracket body ends either with middle label followed by an optional repetition of bracket name
and closing label, or with glued middle-closing label; .terminator holds the actual ending.
A named opening followed by its closing without middle is a named operator having no body.

Statements are logical lines of the outermost indentation level, continuation lines are indented deeper.
Next compacts one statement at a time into a line subexpression and detaches it from the list.
*/
package recognizer

import (
	"log/slog"

	"github.com/ava12/sublex/diag"
	"github.com/ava12/sublex/source"
	"github.com/ava12/sublex/table"
	"github.com/ava12/sublex/token"
	"github.com/ava12/sublex/value"
)

// Synthetic labels of line and paragraph subexpressions.
const (
	LineInitiator       = "<BOL>"
	LineTerminator      = "<LF>"
	ParagraphTerminator = "<indented paragraph>"
)

// DefaultIndentOffset is the minimal indentation difference not reported as ambiguous.
const DefaultIndentOffset = 2

// noIndent disables dedent termination (used for full-line brackets).
const noIndent = -2

// Recognizer holds the state shared by all recursive activations.
type Recognizer struct {
	list         *token.List
	table        *table.Table
	reporter     *diag.Reporter
	logger       *slog.Logger
	pass         ElementPass
	selectors    table.Selectors
	indentOffset int

	warned    bool
	warnedPos source.Pos
}

// Option configures Recognizer.
type Option func(r *Recognizer)

// WithReporter sets diagnostics reporter, by default a new reporter logging to the recognizer logger is used.
func WithReporter(rep *diag.Reporter) Option {
	return func(r *Recognizer) {
		r.reporter = rep
	}
}

// WithLogger sets logger used for debug tracing.
func WithLogger(l *slog.Logger) Option {
	return func(r *Recognizer) {
		r.logger = l
	}
}

// WithIndentOffset sets minimal unambiguous indentation difference.
func WithIndentOffset(offset int) Option {
	return func(r *Recognizer) {
		r.indentOffset = offset
	}
}

// WithElementPass sets the pass processing subexpression tokens before compaction.
func WithElementPass(p ElementPass) Option {
	return func(r *Recognizer) {
		r.pass = p
	}
}

// WithSelectors sets initial selector set, all selectors are active by default.
func WithSelectors(s table.Selectors) Option {
	return func(r *Recognizer) {
		r.selectors = s
	}
}

// New creates recognizer for given token list and definition table.
func New(l *token.List, t *table.Table, opts ...Option) *Recognizer {
	r := &Recognizer{
		list:         l,
		table:        t,
		selectors:    table.AllSelectors,
		indentOffset: DefaultIndentOffset,
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.logger == nil {
		r.logger = slog.Default()
	}
	if r.reporter == nil {
		r.reporter = diag.NewReporter(r.logger, 0)
	}
	return r
}

// Reporter returns diagnostics reporter.
func (r *Recognizer) Reporter() *diag.Reporter {
	return r.reporter
}

// List returns processed token list.
func (r *Recognizer) List() *token.List {
	return r.list
}

// Next recognizes the next statement and returns it as a detached line subexpression token.
// Returns nil when end of file is reached.
func (r *Recognizer) Next() *token.Token {
	for {
		t := r.list.First()
		for t != nil && (t.Kind == token.LineBreak || t.Kind == token.Comment) {
			r.list.Free(t)
			t = r.list.First()
		}
		if t == nil || t.Kind == token.EOF {
			return nil
		}

		indent := t.Indent
		if indent < 0 {
			indent = 0
		}
		f := &frame{indent: indent, lineIndent: indent, sel: r.selectors}
		res := r.run(f, nil)
		line := r.compactLine(nil, res.stop, res.stop, value.Symbol(LineTerminator))
		if res.stop != nil && res.stop.Kind == token.LineBreak {
			r.list.Free(res.stop)
		}
		if line != nil {
			return r.list.Remove(line)
		}
	}
}

// All recognizes all remaining statements.
func (r *Recognizer) All() []*token.Token {
	var res []*token.Token
	for t := r.Next(); t != nil; t = r.Next() {
		res = append(res, t)
	}
	return res
}

func (r *Recognizer) free(t *token.Token) *token.Token {
	next := r.list.Next(t)
	r.list.Free(t)
	return next
}

func pointRange(t *token.Token) source.Range {
	if t == nil {
		return source.Range{}
	}
	return source.Range{Begin: t.Range.Begin, End: t.Range.Begin}
}

// deeper reports whether t is indented deeper than base, ambiguous difference is reported once per token.
func (r *Recognizer) deeper(t *token.Token, base int) bool {
	d := t.Indent - base
	if d != 0 && d > -r.indentOffset && d < r.indentOffset && !(r.warned && r.warnedPos == t.Range.Begin) {
		r.warned = true
		r.warnedPos = t.Range.Begin
		r.reporter.Warnf(t.Range, AmbiguousIndentWarning, "ambiguous indentation %d, expecting %d", t.Indent, base)
	}
	return d > 0
}

func (r *Recognizer) reportMissing(at *token.Token, closing *table.Entry) {
	r.reporter.Errorf(pointRange(at), MissingClosingError, "missing closing bracket %q inserted here", closing.LabelText())
}
