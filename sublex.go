/*
Package sublex is a table-driven front end turning a flat token stream into nested subexpressions.

Consists of subpackages:
  - source: source text and positions;
  - token: tokens, the pull-extensible token list, token producer interface;
  - value: values stored in tokens, ordered attribute containers;
  - lexer: regexp-driven token producer;
  - diag: diagnostics stream;
  - table: definition table holding bracket, named bracket, and indentation mark definitions;
  - recognizer: bracket and indentation subexpression recognizer;
  - directive: command language populating definition table;
  - config: recognizer configuration files;
  - printer: output formatting;
  - cmd/sublex: console utility.

Typical usage is:

1. Populate definition table, either with table.Define* functions, a directive script,
or a configuration file.

2. Create a token list fed by a lexer (or any other token.Producer).

3. Create a recognizer for the list and the table and fetch compacted statements one by one.
Every bracketed span, named bracket, and indented paragraph is replaced by a single token
holding an attribute container.
*/
package sublex

import (
	"fmt"
)

// Error classes used by subpackages, each class contains up to 99 error codes:
const (
	LexicalErrors    = 101 // used by lexer
	DefinitionErrors = 201 // used by table
	RecognizerErrors = 301 // used by recognizer
	DirectiveErrors  = 401 // used by directive
	ConfigErrors     = 501 // used by config
	OutputErrors     = 601 // used by printer
)

// Error is the error type used by sublex subpackages.
type Error struct {
	// Code contains non-zero error code.
	Code int

	// Message contains non-empty error message including source name and position information if provided.
	Message string

	// SourceName contains source name that caused this error or empty string.
	SourceName string

	// Line contains line number in source file or 0.
	Line int

	// Col contains column number in source file or 0.
	Col int
}

// SourcePos is used to retrieve source name and position information when constructing an error;
// source.Pos and token.Token implement this interface.
type SourcePos interface {
	// SourceName returns source file name or empty string.
	SourceName() string
	// Line returns line number or 0.
	Line() int
	// Col returns column number or 0.
	Col() int
}

// NewError creates new Error structure.
// name, line, and col will be added to error message if provided (non-zero).
func NewError(code int, msg, name string, line, col int) *Error {
	if line != 0 && col != 0 {
		if name != "" {
			msg += fmt.Sprintf(" in %s at line %d col %d", name, line, col)
		} else {
			msg += fmt.Sprintf(" at line %d col %d", line, col)
		}
	}
	return &Error{code, msg, name, line, col}
}

// Error simply returns Error.Message.
func (e *Error) Error() string {
	return e.Message
}

// FormatError creates Error structure with no source and position information.
// params will be added to error message using fmt.Sprintf function.
func FormatError(code int, msg string, params ...any) *Error {
	if len(params) > 0 {
		msg = fmt.Sprintf(msg, params...)
	}
	return NewError(code, msg, "", 0, 0)
}

// FormatErrorPos creates Error structure with source and position information.
// pos must not be nil.
// params will be added to error message using fmt.Sprintf function.
func FormatErrorPos(pos SourcePos, code int, msg string, params ...any) *Error {
	if len(params) > 0 {
		msg = fmt.Sprintf(msg, params...)
	}
	return NewError(code, msg, pos.SourceName(), pos.Line(), pos.Col())
}
