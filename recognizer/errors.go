package recognizer

import (
	"github.com/ava12/sublex"
)

// Diagnostic codes reported by recognizer:
const (
	// a bracket, named bracket, or named bracket body was not closed before its scope end
	MissingClosingError = sublex.RecognizerErrors + iota
	// a closing bracket has no matching opening bracket
	SpuriousClosingError
	// a named bracket key between separators contains no symbols
	EmptyKeyError
	// indentation differs from the baseline by less than indentation offset (warning)
	AmbiguousIndentWarning
	// a token cannot become an element of compacted subexpression
	IllegalElementError
)
