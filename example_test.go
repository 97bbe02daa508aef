package sublex_test

import (
	"fmt"
	"os"

	"github.com/ava12/sublex/diag"
	"github.com/ava12/sublex/directive"
	"github.com/ava12/sublex/lexer"
	"github.com/ava12/sublex/printer"
	"github.com/ava12/sublex/recognizer"
	"github.com/ava12/sublex/source"
	"github.com/ava12/sublex/table"
	"github.com/ava12/sublex/token"
	"github.com/ava12/sublex/value"
)

func Example() {
	input := `
config:
  name "demo"
  limits (max 10) (min 1)
[< section main # draft | body text |>]
`
	defs := `
bracket '(' ')'
named-bracket '[ <' '> ]' separator=# middle='|'
indentation-mark : separator=';' glue=yes
`
	tb := table.New(0)
	if e := directive.Run(tb, "defs", []byte(defs)); e != nil {
		fmt.Println(e)
		return
	}

	reporter := diag.NewReporter(nil, 0)
	scanner := lexer.Default(lexer.DefaultTabWidth).Scan(source.New("input", []byte(input)), reporter)
	r := recognizer.New(token.NewList(scanner, token.NewPool(0)), tb, recognizer.WithReporter(reporter))

	var statements []value.Value
	for _, line := range r.All() {
		statements = append(statements, line.Value)
	}
	if reporter.Errors() > 0 {
		fmt.Println(reporter.Diagnostics())
		return
	}

	section := statements[1].Object().Elem(0).Object()
	fmt.Println(section.Get(value.Name), section.Get(value.Keys).Object().Elem(0))
	_ = printer.Source(os.Stdout, statements...)

	// Output:
	// [section main] draft
	// config :
	//   name "demo"
	//   limits ( max 10 ) ( min 1 )
	// [ < section main # draft | body text |> ]
}
