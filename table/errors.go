package table

import (
	"strings"

	"github.com/ava12/sublex"
)

// Error codes returned by definition functions:
const (
	// a label is empty or contains an empty symbol
	InvalidLabelError = sublex.DefinitionErrors + iota
	// given named middle-closing label disagrees with the glued middle and closing labels
	MismatchedMiddleError
	// a gluing indentation mark label contains more than one symbol
	GlueLabelError
	// all 64 selectors are already allocated
	SelectorOverflowError
	// block level cannot be decreased
	BlockLevelError
	// a definition misses a required part
	InvalidDefinitionError
)

func labelText(label []string) string {
	return strings.Join(label, " ")
}

func makeInvalidLabelError(what string, label []string) *sublex.Error {
	return sublex.FormatError(InvalidLabelError, "invalid %s label %q", what, labelText(label))
}

func makeMismatchedMiddleError(given, computed []string) *sublex.Error {
	return sublex.FormatError(MismatchedMiddleError, "named middle-closing %q does not match glued middle and closing %q",
		labelText(given), labelText(computed))
}

func makeGlueLabelError(label []string) *sublex.Error {
	return sublex.FormatError(GlueLabelError, "gluing indentation mark %q must be a single symbol", labelText(label))
}

func makeSelectorOverflowError(name string) *sublex.Error {
	return sublex.FormatError(SelectorOverflowError, "cannot allocate selector %q: all selectors are in use", name)
}

func makeBlockLevelError(level int) *sublex.Error {
	return sublex.FormatError(BlockLevelError, "cannot end block at level %d", level)
}

func makeInvalidDefinitionError(what, reason string) *sublex.Error {
	return sublex.FormatError(InvalidDefinitionError, "invalid %s definition: %s", what, reason)
}
