/*
sublex is a console utility recognizing bracketed subexpressions and indented paragraphs.
Usage is

	sublex [-c <config>] [-d <script>]... [-v|-vv|-q] <command> [<args>]

Commands are:

	parse [-f text|source|yaml] [-w] [<file>...]  recognize files (or stdin) and print statements;
	repl                                         read and recognize statements interactively;
	defs [-f script|toml|yaml]                   print installed definitions.

-c <config> defines TOML or YAML configuration file, built-in definitions are used by default;

-d <script> adds directive script applied after the configuration, may be repeated;

-v, -vv, -q select verbosity: info, debug, or errors only.

Exit code is 1 if recognition reported errors, 3 for other failures.
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/ava12/sublex/config"
	"github.com/ava12/sublex/directive"
	"github.com/ava12/sublex/internal/logx"
	"github.com/ava12/sublex/printer"
	"github.com/ava12/sublex/source"
	"github.com/ava12/sublex/table"
)

var errDiagnostics = errors.New("recognition errors reported")

type options struct {
	configPath string
	scripts    []string
	verbose    int
	quiet      bool
	format     string
	defsFormat string
	watch      bool
}

// env holds definitions shared by all commands.
type env struct {
	cfg    *config.Config
	table  *table.Table
	logger *slog.Logger
}

func setup(o *options, logger *slog.Logger) (*env, error) {
	cfg := config.Default()
	if o.configPath != "" {
		var err error
		if cfg, err = config.Load(o.configPath); err != nil {
			return nil, err
		}
	}

	tb, err := cfg.Table()
	if err != nil {
		return nil, err
	}

	for _, name := range o.scripts {
		text, err := os.ReadFile(name)
		if err == nil {
			err = directive.Run(tb, name, text)
		}
		if err != nil {
			return nil, err
		}
	}

	logger.Debug("definitions installed", "config", cfg.Name(), "entries", len(tb.Entries()))
	return &env{cfg, tb, logger}, nil
}

// recognize prints statements of a single source and returns the number of reported errors.
func (e *env) recognize(w io.Writer, format printer.Func, src *source.Source) (int, error) {
	r, err := e.cfg.Recognizer(e.table, src, e.logger.With("source", src.Name()))
	if err != nil {
		return 0, err
	}

	for line := r.Next(); line != nil; line = r.Next() {
		if err = format(w, line.Value); err != nil {
			return 0, err
		}
	}

	rep := r.Reporter()
	e.logger.Info("recognized", "source", src.Name(), "errors", rep.Errors(), "warnings", rep.Warnings())
	return rep.Errors(), nil
}

func newRootCmd() *cobra.Command {
	o := &options{}
	root := &cobra.Command{
		Use:           "sublex",
		Short:         "recognize bracketed subexpressions and indented paragraphs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logx.UserLevel = logx.LevelFromFlags(o.verbose > 1, o.verbose == 1, o.quiet)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&o.configPath, "config", "c", "", "configuration file (.toml, .yaml, .yml)")
	pf.StringArrayVarP(&o.scripts, "defs", "d", nil, "directive script applied after configuration, may be repeated")
	pf.CountVarP(&o.verbose, "verbose", "v", "verbose output, repeat for debug output")
	pf.BoolVarP(&o.quiet, "quiet", "q", false, "report errors only")

	root.AddCommand(newParseCmd(o), newReplCmd(o), newDefsCmd(o))
	return root
}

func newParseCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [<file>...]",
		Short: "recognize files (stdin if none) and print statements",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := printer.Get(o.format)
			if err != nil {
				return err
			}
			e, err := setup(o, slog.Default())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(args) == 0 {
				content, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return err
				}
				return e.check(e.recognize(out, format, source.New("stdin", content)))
			}

			errCount := 0
			for _, name := range args {
				n, err := e.recognizeFile(out, format, name)
				if err != nil {
					return err
				}
				errCount += n
			}
			if o.watch {
				return e.watch(cmd.Context(), out, format, args)
			}
			return e.check(errCount, nil)
		},
	}

	cmd.Flags().StringVarP(&o.format, "format", "f", "text", "output format: text, source, or yaml")
	cmd.Flags().BoolVarP(&o.watch, "watch", "w", false, "recognize files again when they change")
	return cmd
}

func (e *env) recognizeFile(w io.Writer, format printer.Func, name string) (int, error) {
	content, err := os.ReadFile(name)
	if err != nil {
		return 0, err
	}
	return e.recognize(w, format, source.New(name, content))
}

func (e *env) check(errCount int, err error) error {
	if err == nil && errCount > 0 {
		err = errDiagnostics
	}
	return err
}

func newDefsCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "defs",
		Short: "print installed definitions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(o, slog.Default())
			if err != nil {
				return err
			}

			var text []byte
			switch o.defsFormat {
			case "script":
				text = []byte(directive.Format(directive.Describe(e.table)))
			default:
				if text, err = e.cfg.Marshal(o.defsFormat); err != nil {
					return err
				}
			}
			_, err = cmd.OutOrStdout().Write(text)
			return err
		},
	}

	cmd.Flags().StringVarP(&o.defsFormat, "format", "f", "script", "output format: script (all definitions), toml or yaml (configuration only)")
	return cmd
}

func main() {
	logx.SetDefaultLogger()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	switch {
	case err == nil:
	case errors.Is(err, errDiagnostics):
		os.Exit(1)
	default:
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(3)
	}
}
