package directive

import (
	"errors"
	"strconv"

	"github.com/ava12/sublex"
)

// Error codes returned by directive parsing and execution:
const (
	// a line cannot be split into words
	SyntaxError = sublex.DirectiveErrors + iota
	// unknown command name
	UnknownCommandError
	// a command has too few or too many arguments
	NumberOfArgumentsError
	// unknown option for a command
	UnknownOptionError
	// an option value is malformed
	InvalidOptionError
	// the definition table rejected a command
	DefinitionError
)

func makeSyntaxError(pos sublex.SourcePos, reason string) *sublex.Error {
	return sublex.FormatErrorPos(pos, SyntaxError, "malformed directive: %s", reason)
}

func makeUnknownCommandError(c *Command) *sublex.Error {
	return sublex.FormatErrorPos(c, UnknownCommandError, "unknown command %q", c.Name)
}

func makeNumberOfArgumentsError(c *Command, min, max int) *sublex.Error {
	var expected string
	switch {
	case min == max:
		expected = strconv.Itoa(min)
	case max < 0:
		expected = "at least " + strconv.Itoa(min)
	default:
		expected = strconv.Itoa(min) + " to " + strconv.Itoa(max)
	}
	return sublex.FormatErrorPos(c, NumberOfArgumentsError, "wrong number of arguments for %q command: expecting %s, got %d",
		c.Name, expected, len(c.Args))
}

func makeUnknownOptionError(c *Command, option string) *sublex.Error {
	return sublex.FormatErrorPos(c, UnknownOptionError, "unknown option %q for %q command", option, c.Name)
}

func makeInvalidOptionError(c *Command, option, reason string) *sublex.Error {
	return sublex.FormatErrorPos(c, InvalidOptionError, "invalid %q option for %q command: %s", option, c.Name, reason)
}

// makeDefinitionError keeps the code of a table error and adds command position.
func makeDefinitionError(c *Command, err error) *sublex.Error {
	var e *sublex.Error
	if errors.As(err, &e) {
		return sublex.FormatErrorPos(c, e.Code, "%s", e.Message)
	}
	return sublex.FormatErrorPos(c, DefinitionError, "%q command failed: %s", c.Name, err.Error())
}
