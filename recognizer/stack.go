package recognizer

import (
	"github.com/ava12/sublex/table"
	"github.com/ava12/sublex/token"
)

// separatorSpan holds the first and the last token of a named separator label found in a heading.
type separatorSpan struct {
	first, last *token.Token
}

// stackEntry is a currently open bracket or named bracket. The entry is open while closingFirst is nil.
// Closed entry with closingFirst == closingNext was closed by an enclosing bracket closer,
// its own closer is missing and must be inserted before closingNext.
// Otherwise [closingFirst, closingNext) is the closer.
type stackEntry struct {
	def    *table.Entry
	prev   *stackEntry
	closer *table.Entry

	closingFirst, closingNext *token.Token

	// named brackets only
	body       bool
	name       []string
	separators []separatorSpan
}

func (s *stackEntry) isClosed() bool {
	return s.closingFirst != nil
}

func (s *stackEntry) isMissing() bool {
	return s.closingFirst != nil && s.closingFirst == s.closingNext
}

func (s *stackEntry) isNamed() bool {
	return s.def.Kind == table.NamedOpening
}

func (s *stackEntry) close(closer *table.Entry, first, next *token.Token) {
	s.closer = closer
	s.closingFirst = first
	s.closingNext = next
}

func (s *stackEntry) closeMissing(at *token.Token) {
	s.closer = nil
	s.closingFirst = at
	s.closingNext = at
}

func (s *stackEntry) reopen() {
	s.closer = nil
	s.closingFirst = nil
	s.closingNext = nil
}

// closeStack closes target as properly closed by [first, next)
// and marks all entries above it as closed with missing closers.
func closeStack(top, target *stackEntry, closer *table.Entry, first, next *token.Token) int {
	skipped := 0
	for s := top; s != target; s = s.prev {
		if s == nil {
			panic("closed bracket is not on the stack")
		}
		s.closeMissing(first)
		skipped++
	}
	target.close(closer, first, next)
	return skipped
}
