package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/ava12/sublex/directive"
	"github.com/ava12/sublex/internal/logx"
	"github.com/ava12/sublex/printer"
	"github.com/ava12/sublex/recognizer"
	"github.com/ava12/sublex/source"
	"github.com/ava12/sublex/table"
)

const (
	historyFile = ".sublex_history"
	promptMain  = ">> "
	promptCont  = "-> "
)

const replHelp = `Type statements to see how they are recognized.
Unclosed brackets and lines ending with an indentation mark continue input, an empty line ends it.
Lines starting with ! are directives, e.g. !bracket '<' '>' or !undefine '('.
!format <name> switches output format (text, source, yaml), !defs lists definitions.
Empty line or Ctrl-D exits.
`

func newReplCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "recognize statements interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(o, slog.Default())
			if err != nil {
				return err
			}
			return e.repl(cmd.OutOrStdout())
		},
	}
}

func historyPath() string {
	home, err := homedir.Dir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, historyFile)
}

func (e *env) repl(w io.Writer) error {
	fmt.Fprintln(w, "sublex interactive mode, !help for help.")

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	hist := historyPath()
	if f, err := os.Open(hist); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(hist); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	format := printer.Text
	for {
		input, ok := e.readInput(ln)
		if !ok || input == "" {
			fmt.Fprintln(w)
			return nil
		}
		ln.AppendHistory(strings.ReplaceAll(input, "\n", " "))

		if cmd, found := strings.CutPrefix(input, "!"); found {
			if f := e.command(w, cmd); f != nil {
				format = f
			}
			continue
		}

		if _, err := e.recognize(w, format, source.New("input", []byte(input+"\n"))); err != nil {
			e.logger.Error(err.Error())
		}
	}
}

// command executes a ! line, returns new output format if it was changed.
func (e *env) command(w io.Writer, text string) printer.Func {
	name, arg, _ := strings.Cut(strings.TrimSpace(text), " ")
	switch name {
	case "help":
		fmt.Fprint(w, replHelp)
	case "defs":
		fmt.Fprint(w, directive.Format(directive.Describe(e.table)))
	case "format":
		f, err := printer.Get(strings.TrimSpace(arg))
		if err != nil {
			e.logger.Error(err.Error())
			return nil
		}
		return f
	default:
		c, err := directive.ParseLine("input", 1, text)
		if err == nil && c != nil {
			err = directive.Apply(e.table, []*directive.Command{c})
		}
		if err != nil {
			e.logger.Error(err.Error())
		}
	}
	return nil
}

// readInput reads a statement which may span several lines.
// ok is false at the end of input.
func (e *env) readInput(ln *liner.State) (input string, ok bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			return b.String(), b.Len() > 0
		}
		if err != nil {
			e.logger.Error(err.Error())
			return "", false
		}

		if b.Len() > 0 {
			if strings.TrimSpace(line) == "" {
				return b.String(), true
			}
			b.WriteByte('\n')
		}
		b.WriteString(line)

		if strings.HasPrefix(b.String(), "!") || !e.incomplete(b.String()) {
			return b.String(), true
		}
	}
}

// incomplete reports whether input lacks closing brackets or its last line ends with an indentation mark.
func (e *env) incomplete(input string) bool {
	lines := strings.Split(input, "\n")
	if len(lines) > 1 || endsWithMark(e.table, lines[len(lines)-1]) {
		return true
	}

	r, err := e.cfg.Recognizer(e.table, source.New("input", []byte(input)), logx.Discard())
	if err != nil {
		return false
	}
	r.All()
	return r.Reporter().Count(recognizer.MissingClosingError) > 0
}

func endsWithMark(t *table.Table, line string) bool {
	line = strings.TrimSpace(line)
	for _, en := range t.Entries() {
		if en.Kind == table.IndentationMark && strings.HasSuffix(line, en.Label[len(en.Label)-1]) {
			return true
		}
	}
	return false
}
