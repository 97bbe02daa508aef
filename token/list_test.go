package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ava12/sublex/source"
	"github.com/ava12/sublex/value"
)

func symbols(l *List) []string {
	var res []string
	for _, t := range l.Tokens() {
		res = append(res, t.Text())
	}
	return res
}

func word(l *List, s string) *Token {
	return l.New(Word, value.Symbol(s), source.Range{})
}

// batchProducer appends one batch per call, then EOF.
type batchProducer struct {
	batches [][]string
	calls   int
	eof     bool
}

func (p *batchProducer) Produce(l *List) int {
	p.calls++
	if len(p.batches) == 0 {
		if p.eof {
			return 0
		}
		p.eof = true
		l.Append(l.New(EOF, value.None, source.Range{}))
		return 1
	}

	batch := p.batches[0]
	p.batches = p.batches[1:]
	for _, s := range batch {
		l.Append(word(l, s))
	}
	return len(batch)
}

func TestLinkOperations(t *testing.T) {
	l := NewList(nil, nil)
	a := word(l, "a")
	c := word(l, "c")
	l.Append(a)
	l.Append(c)
	b := word(l, "b")
	l.InsertBefore(c, b)
	z := word(l, "z")
	l.InsertBefore(a, z)
	assert.Equal(t, []string{"z", "a", "b", "c"}, symbols(l))
	assert.Equal(t, 4, l.Len())
	assert.Same(t, z, l.First())
	assert.Same(t, c, l.Last())

	assert.Same(t, b, l.Remove(b))
	assert.Nil(t, b.Next())
	assert.False(t, l.Contains(b))
	assert.Equal(t, []string{"z", "a", "c"}, symbols(l))
	assert.Same(t, c, a.Next())
	assert.Same(t, a, c.Prev())

	l.Free(z)
	l.Free(c)
	assert.Equal(t, []string{"a"}, symbols(l))
	assert.Same(t, a, l.First())
	assert.Same(t, a, l.Last())
}

func TestDoubleOwnership(t *testing.T) {
	l := NewList(nil, nil)
	other := NewList(nil, nil)
	a := word(l, "a")
	l.Append(a)
	assert.Panics(t, func() { other.Append(a) })
	assert.Panics(t, func() { other.Remove(a) })
}

func TestPull(t *testing.T) {
	p := &batchProducer{batches: [][]string{{"a", "b"}, {"c"}}}
	l := NewList(p, nil)
	first := l.First()
	require.NotNil(t, first)
	assert.Equal(t, 1, p.calls)

	b := l.Next(first)
	assert.Equal(t, "b", b.Text())
	c := l.Next(b)
	require.NotNil(t, c)
	assert.Equal(t, "c", c.Text())
	assert.Equal(t, 2, p.calls)

	eof := l.Next(c)
	require.NotNil(t, eof)
	assert.Equal(t, EOF, eof.Kind)
	assert.Nil(t, l.Next(eof))
	assert.Equal(t, 3, p.calls)
}

func TestFreeRange(t *testing.T) {
	pool := NewPool(4)
	l := NewList(nil, pool)
	for _, s := range []string{"a", "b", "c", "d"} {
		l.Append(word(l, s))
	}
	tokens := l.Tokens()
	l.FreeRange(tokens[1], tokens[3])
	assert.Equal(t, []string{"a", "d"}, symbols(l))
	assert.Equal(t, 2, pool.Len())

	l.FreeRange(tokens[0], nil)
	assert.Equal(t, 0, l.Len())
	assert.Nil(t, l.First())
}

func TestPoolReuse(t *testing.T) {
	pool := NewPool(1)
	l := NewList(nil, pool)
	a := l.NewRaw(QuotedString, []byte("some text"), source.Range{})
	b := l.NewRaw(QuotedString, []byte("more text"), source.Range{})
	l.Append(a)
	l.Append(b)
	l.Free(a)
	l.Free(b)
	reused, dropped := pool.Stats()
	assert.Equal(t, 0, reused)
	assert.Equal(t, 1, dropped)
	assert.Equal(t, 1, pool.Len())

	c := l.NewRaw(Numeric, []byte("12.5"), source.Range{})
	assert.Same(t, a, c)
	assert.Equal(t, "12.5", string(c.Raw))
	assert.Equal(t, MidLine, c.Indent)
	reused, _ = pool.Stats()
	assert.Equal(t, 1, reused)

	l.Append(c)
	l.Free(c)
	d := l.New(Bracketed, value.Symbol("x"), source.Range{})
	assert.Same(t, a, d)
	assert.Nil(t, d.Raw)
	assert.Equal(t, value.Symbol("x").String(), d.Text())
}

func TestDisabledPool(t *testing.T) {
	pool := NewPool(-1)
	l := NewList(nil, pool)
	a := word(l, "a")
	l.Append(a)
	l.Free(a)
	assert.Equal(t, 0, pool.Len())
	_, dropped := pool.Stats()
	assert.Equal(t, 1, dropped)
}

func TestTokenKey(t *testing.T) {
	l := NewList(nil, nil)
	samples := []struct {
		tok *Token
		key string
		ok  bool
	}{
		{word(l, "foo"), "foo", true},
		{l.New(Mark, value.Symbol("+="), source.Range{}), "+=", true},
		{l.NewRaw(Natural, []byte("42"), source.Range{}), "42", true},
		{l.NewRaw(Numeric, []byte("4.2"), source.Range{}), "", false},
		{l.NewRaw(QuotedString, []byte("x"), source.Range{}), "", false},
		{l.New(Bracketed, value.ObjectValue(value.NewObject()), source.Range{}), "", false},
	}

	for _, s := range samples {
		key, ok := s.tok.Key()
		assert.Equal(t, s.ok, ok, s.tok.String())
		assert.Equal(t, s.key, key)
	}
}
