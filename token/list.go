package token

import (
	"github.com/ava12/sublex/source"
	"github.com/ava12/sublex/value"
)

// Producer appends tokens to the end of a list when the list is exhausted.
// Produce returns the number of appended tokens. It returns 0 only after an EOF token has been appended,
// all subsequent calls must return 0 without side effects.
type Producer interface {
	Produce(l *List) int
}

// ProducerFunc adapts a function to Producer.
type ProducerFunc func(l *List) int

func (f ProducerFunc) Produce(l *List) int {
	return f(l)
}

// List is a doubly linked token list, extended on demand by its producer.
// A token belongs to at most one list at a time. All link operations are O(1).
type List struct {
	first, last *Token
	producer    Producer
	pool        *Pool
	count       int
	exhausted   bool
}

// NewList creates empty list. producer and pool may be nil.
func NewList(producer Producer, pool *Pool) *List {
	return &List{producer: producer, pool: pool, exhausted: producer == nil}
}

// Len returns the number of tokens currently in the list.
func (l *List) Len() int {
	return l.count
}

// Pool returns list token pool or nil.
func (l *List) Pool() *Pool {
	return l.pool
}

func (l *List) pull() bool {
	if l.exhausted {
		return false
	}

	n := l.producer.Produce(l)
	if n == 0 {
		l.exhausted = true
	}
	return n > 0
}

// First returns the first token pulling tokens if the list is empty. Returns nil only if nothing can be pulled.
func (l *List) First() *Token {
	for l.first == nil && l.pull() {
	}
	return l.first
}

// Last returns the last token, never pulls.
func (l *List) Last() *Token {
	return l.last
}

// Next returns the token following t, pulling tokens if t is the last one.
// Returns nil after EOF token or if producer has nothing more.
func (l *List) Next(t *Token) *Token {
	if t == nil {
		return l.First()
	}

	for t.next == nil && t.Kind != EOF && l.pull() {
	}
	return t.next
}

// New creates a detached token, reusing a pooled one if possible.
func (l *List) New(kind Kind, v value.Value, r source.Range) *Token {
	var t *Token
	if l.pool != nil {
		t = l.pool.Get(0)
	} else {
		t = &Token{}
	}
	t.Kind = kind
	t.Value = v
	t.Raw = nil
	t.Range = r
	t.Indent = MidLine
	return t
}

// NewRaw creates a detached token with a copy of raw text.
func (l *List) NewRaw(kind Kind, raw []byte, r source.Range) *Token {
	var t *Token
	if l.pool != nil {
		t = l.pool.Get(len(raw))
	} else {
		t = &Token{}
	}
	t.Kind = kind
	t.Raw = append(t.Raw[:0], raw...)
	t.Range = r
	t.Indent = MidLine
	return t
}

func (l *List) attach(t *Token) {
	if t.list != nil {
		panic("token already belongs to a list")
	}
	t.list = l
	l.count++
}

// Append adds detached token to the end of the list.
func (l *List) Append(t *Token) {
	l.attach(t)
	t.prev = l.last
	t.next = nil
	if l.last == nil {
		l.first = t
	} else {
		l.last.next = t
	}
	l.last = t
}

// InsertBefore inserts detached token t before anchor. Nil anchor means appending.
func (l *List) InsertBefore(anchor, t *Token) {
	if anchor == nil {
		l.Append(t)
		return
	}
	if anchor.list != l {
		panic("anchor token does not belong to the list")
	}

	l.attach(t)
	t.next = anchor
	t.prev = anchor.prev
	if anchor.prev == nil {
		l.first = t
	} else {
		anchor.prev.next = t
	}
	anchor.prev = t
}

// Remove unlinks token from the list and returns it detached.
func (l *List) Remove(t *Token) *Token {
	if t.list != l {
		panic("token does not belong to the list")
	}

	if t.prev == nil {
		l.first = t.next
	} else {
		t.prev.next = t.next
	}
	if t.next == nil {
		l.last = t.prev
	} else {
		t.next.prev = t.prev
	}
	t.prev = nil
	t.next = nil
	t.list = nil
	l.count--
	return t
}

// Free removes token and returns it to the pool. The token must not be used afterwards.
func (l *List) Free(t *Token) {
	l.Remove(t)
	if l.pool != nil {
		l.pool.Put(t)
	}
}

// FreeRange frees tokens in [first, next) half-open range. Nil next means the end of the list.
func (l *List) FreeRange(first, next *Token) {
	for t := first; t != nil && t != next; {
		n := t.next
		l.Free(t)
		t = n
	}
}

// Tokens returns a snapshot of current list content, never pulls.
func (l *List) Tokens() []*Token {
	res := make([]*Token, 0, l.count)
	for t := l.first; t != nil; t = t.next {
		res = append(res, t)
	}
	return res
}

// Contains reports whether the token belongs to the list.
func (l *List) Contains(t *Token) bool {
	return t != nil && t.list == l
}
