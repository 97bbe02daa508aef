// Package config loads recognizer configuration from TOML or YAML files.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/ava12/sublex/diag"
	"github.com/ava12/sublex/directive"
	"github.com/ava12/sublex/lexer"
	"github.com/ava12/sublex/recognizer"
	"github.com/ava12/sublex/source"
	"github.com/ava12/sublex/table"
	"github.com/ava12/sublex/token"
)

// Bracket is a bracket definition. In all definitions a nil Selectors list means all selectors,
// Set and Clear list selectors of the rule applied when recursing into the subexpression.
type Bracket struct {
	Opening   string   `toml:"opening" yaml:"opening"`
	Closing   string   `toml:"closing" yaml:"closing"`
	FullLine  bool     `toml:"full_line,omitempty" yaml:"full_line,omitempty"`
	Selectors []string `toml:"selectors,omitempty" yaml:"selectors,omitempty"`
	Set       []string `toml:"set,omitempty" yaml:"set,omitempty"`
	Clear     []string `toml:"clear,omitempty" yaml:"clear,omitempty"`
}

type NamedBracket struct {
	Opening       string   `toml:"opening" yaml:"opening"`
	Closing       string   `toml:"closing" yaml:"closing"`
	Separator     string   `toml:"separator,omitempty" yaml:"separator,omitempty"`
	Middle        string   `toml:"middle,omitempty" yaml:"middle,omitempty"`
	MiddleClosing string   `toml:"middle_closing,omitempty" yaml:"middle_closing,omitempty"`
	Selectors     []string `toml:"selectors,omitempty" yaml:"selectors,omitempty"`
	Set           []string `toml:"set,omitempty" yaml:"set,omitempty"`
	Clear         []string `toml:"clear,omitempty" yaml:"clear,omitempty"`
}

type IndentationMark struct {
	Mark      string   `toml:"mark" yaml:"mark"`
	Separator string   `toml:"separator,omitempty" yaml:"separator,omitempty"`
	Glue      bool     `toml:"glue,omitempty" yaml:"glue,omitempty"`
	Selectors []string `toml:"selectors,omitempty" yaml:"selectors,omitempty"`
	Set       []string `toml:"set,omitempty" yaml:"set,omitempty"`
	Clear     []string `toml:"clear,omitempty" yaml:"clear,omitempty"`
}

// Config holds recognizer parameters and definitions. Labels are symbols separated by spaces.
// Definitions are installed in field order: selectors, brackets, named brackets, indentation marks,
// then the directive script.
type Config struct {
	IndentOffset   int `toml:"indent_offset" yaml:"indent_offset"`
	TabWidth       int `toml:"tab_width" yaml:"tab_width"`
	PoolCapacity   int `toml:"pool_capacity" yaml:"pool_capacity"`
	MaxDiagnostics int `toml:"max_diagnostics" yaml:"max_diagnostics"`

	// Selectors is the initial selector set, empty means all selectors.
	Selectors []string `toml:"selectors,omitempty" yaml:"selectors,omitempty"`

	Brackets         []Bracket         `toml:"brackets" yaml:"brackets"`
	NamedBrackets    []NamedBracket    `toml:"named_brackets" yaml:"named_brackets"`
	IndentationMarks []IndentationMark `toml:"indentation_marks" yaml:"indentation_marks"`
	Script           string            `toml:"script,omitempty" yaml:"script,omitempty"`

	name string
}

// Default returns built-in configuration.
func Default() *Config {
	return &Config{
		IndentOffset: recognizer.DefaultIndentOffset,
		TabWidth:     lexer.DefaultTabWidth,
		PoolCapacity: token.DefaultPoolCapacity,
		Brackets: []Bracket{
			{Opening: "(", Closing: ")"},
			{Opening: "[", Closing: "]"},
			{Opening: "{", Closing: "}"},
		},
		NamedBrackets: []NamedBracket{
			{Opening: "[ <", Closing: "> ]", Separator: "#", Middle: "|"},
		},
		IndentationMarks: []IndentationMark{
			{Mark: ":", Separator: ";", Glue: true},
		},
		name: "default config",
	}
}

// Name returns the name of the file the configuration was loaded from.
func (c *Config) Name() string {
	return c.name
}

// Load reads configuration file, a leading ~ is expanded to the home directory.
// Parameters absent from the file keep default values, a definition list present in the file
// replaces the default list.
func Load(path string) (*Config, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, makeReadError(path, err)
	}

	data, err := os.ReadFile(expanded)
	if err != nil {
		return nil, makeReadError(path, err)
	}

	return Parse(path, data)
}

// Parse decodes configuration text, format is chosen by the name extension.
// Unknown parameters are rejected.
func Parse(name string, data []byte) (*Config, error) {
	c := Default()
	c.name = name
	defs := *c
	c.Brackets, c.NamedBrackets, c.IndentationMarks = nil, nil, nil

	var err error
	switch strings.ToLower(filepath.Ext(name)) {
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(c)
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(c)
		if errors.Is(err, io.EOF) {
			err = nil
		}
	default:
		return nil, makeUnknownFormatError(name)
	}
	if err != nil {
		return nil, makeDecodeError(name, err)
	}

	if c.Brackets == nil {
		c.Brackets = defs.Brackets
	}
	if c.NamedBrackets == nil {
		c.NamedBrackets = defs.NamedBrackets
	}
	if c.IndentationMarks == nil {
		c.IndentationMarks = defs.IndentationMarks
	}

	return c, c.Validate()
}

// Validate checks numeric parameters.
func (c *Config) Validate() error {
	switch {
	case c.IndentOffset < 1:
		return makeInvalidValueError(c.name, "indent_offset", c.IndentOffset)
	case c.TabWidth < 1:
		return makeInvalidValueError(c.name, "tab_width", c.TabWidth)
	case c.PoolCapacity < 0:
		return makeInvalidValueError(c.name, "pool_capacity", c.PoolCapacity)
	case c.MaxDiagnostics < 0:
		return makeInvalidValueError(c.name, "max_diagnostics", c.MaxDiagnostics)
	}
	return nil
}

// Marshal encodes configuration as "toml" or "yaml".
func (c *Config) Marshal(format string) ([]byte, error) {
	switch format {
	case "toml":
		return toml.Marshal(c)
	case "yaml", "yml":
		return yaml.Marshal(c)
	}
	return nil, makeUnknownFormatError("." + format)
}

func label(s string) []string {
	return strings.Fields(s)
}

func optLabel(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Fields(s)
}

func selectors(t *table.Table, names []string, def table.Selectors) (table.Selectors, error) {
	if names == nil {
		return def, nil
	}
	return t.SelectorSet(names...)
}

func rule(t *table.Table, set, clear []string) (r table.SelectorRule, err error) {
	if r.Set, err = selectors(t, set, 0); err == nil {
		r.Clear, err = selectors(t, clear, 0)
	}
	return
}

// Apply installs definitions into the table, stopping at the first rejected one.
func (c *Config) Apply(t *table.Table) error {
	if _, err := t.SelectorSet(c.Selectors...); err != nil {
		return makeDefinitionError(c.name, "selectors", err)
	}

	for i, b := range c.Brackets {
		where := fmt.Sprintf("brackets[%d]", i)
		sel, err := selectors(t, b.Selectors, table.AllSelectors)
		if err != nil {
			return makeDefinitionError(c.name, where, err)
		}
		r, err := rule(t, b.Set, b.Clear)
		if err == nil {
			_, err = t.DefineBracket(label(b.Opening), label(b.Closing), sel, r, b.FullLine)
		}
		if err != nil {
			return makeDefinitionError(c.name, where, err)
		}
	}

	for i, nb := range c.NamedBrackets {
		where := fmt.Sprintf("named_brackets[%d]", i)
		sel, err := selectors(t, nb.Selectors, table.AllSelectors)
		if err != nil {
			return makeDefinitionError(c.name, where, err)
		}
		r, err := rule(t, nb.Set, nb.Clear)
		if err == nil {
			_, err = t.DefineNamedBracket(table.NamedBracket{
				Opening:       label(nb.Opening),
				Closing:       label(nb.Closing),
				Separator:     optLabel(nb.Separator),
				Middle:        optLabel(nb.Middle),
				MiddleClosing: optLabel(nb.MiddleClosing),
				Selectors:     sel,
				Rule:          r,
			})
		}
		if err != nil {
			return makeDefinitionError(c.name, where, err)
		}
	}

	for i, m := range c.IndentationMarks {
		where := fmt.Sprintf("indentation_marks[%d]", i)
		sel, err := selectors(t, m.Selectors, table.AllSelectors)
		if err != nil {
			return makeDefinitionError(c.name, where, err)
		}
		r, err := rule(t, m.Set, m.Clear)
		if err == nil {
			_, err = t.DefineIndentationMark(label(m.Mark), optLabel(m.Separator), sel, r, m.Glue)
		}
		if err != nil {
			return makeDefinitionError(c.name, where, err)
		}
	}

	if c.Script != "" {
		if err := directive.Run(t, c.name, []byte(c.Script)); err != nil {
			return makeDefinitionError(c.name, "script", err)
		}
	}
	return nil
}

// Table creates a table populated with the configured definitions.
func (c *Config) Table() (*table.Table, error) {
	t := table.New(0)
	if err := c.Apply(t); err != nil {
		return nil, err
	}
	return t, nil
}

// InitialSelectors returns the selector set recognition starts with.
func (c *Config) InitialSelectors(t *table.Table) (table.Selectors, error) {
	if len(c.Selectors) == 0 {
		return table.AllSelectors, nil
	}
	return t.SelectorSet(c.Selectors...)
}

// Recognizer creates a recognizer reading src with the default lexer configured by c.
// Nil logger means slog.Default().
func (c *Config) Recognizer(t *table.Table, src *source.Source, logger *slog.Logger) (*recognizer.Recognizer, error) {
	sel, err := c.InitialSelectors(t)
	if err != nil {
		return nil, makeDefinitionError(c.name, "selectors", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	rep := diag.NewReporter(logger, c.MaxDiagnostics)
	l := token.NewList(lexer.Default(c.TabWidth).Scan(src, rep), token.NewPool(c.PoolCapacity))
	return recognizer.New(l, t,
		recognizer.WithReporter(rep),
		recognizer.WithLogger(logger),
		recognizer.WithIndentOffset(c.IndentOffset),
		recognizer.WithSelectors(sel),
	), nil
}
