package token

import (
	"github.com/ava12/sublex/internal/queue"
)

// DefaultPoolCapacity is the per-class capacity used when zero capacity is given to NewPool.
const DefaultPoolCapacity = 256

// raw buffer size limits of pool classes, larger buffers are never pooled.
var poolClassLimits = [...]int{0, 32, 128, 512}

// Pool recycles freed tokens. Tokens are kept in classes by their raw buffer capacity,
// each class holds up to capacity tokens, the rest are left to the garbage collector.
type Pool struct {
	classes         [len(poolClassLimits)]*queue.Queue[*Token]
	reused, dropped int
}

// NewPool creates token pool. Negative capacity disables pooling.
func NewPool(capacity int) *Pool {
	if capacity == 0 {
		capacity = DefaultPoolCapacity
	}
	p := &Pool{}
	if capacity < 0 {
		return p
	}

	for i := range p.classes {
		p.classes[i] = queue.NewBounded[*Token](capacity)
	}
	return p
}

func poolClass(size int) int {
	for i, limit := range poolClassLimits {
		if size <= limit {
			return i
		}
	}
	return -1
}

// Get returns a clean token whose raw buffer can hold size bytes if possible.
func (p *Pool) Get(size int) *Token {
	for c := poolClass(size); c >= 0 && c < len(p.classes); c++ {
		if p.classes[c] == nil {
			break
		}

		t, found := p.classes[c].First()
		if found {
			p.reused++
			return t
		}
	}

	return &Token{}
}

// Put resets token and stores it for reuse.
func (p *Pool) Put(t *Token) {
	raw := t.Raw[:0]
	*t = Token{Raw: raw}
	if cap(raw) == 0 {
		t.Raw = nil
	}

	c := poolClass(cap(raw))
	if c < 0 || p.classes[c] == nil || !p.classes[c].Append(t) {
		p.dropped++
	}
}

// Len returns the number of pooled tokens.
func (p *Pool) Len() int {
	res := 0
	for _, c := range p.classes {
		if c != nil {
			res += c.Len()
		}
	}
	return res
}

// Stats returns the number of reused and dropped tokens.
func (p *Pool) Stats() (reused, dropped int) {
	return p.reused, p.dropped
}
