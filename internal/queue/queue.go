// Package queue implements a ring buffer used as a FIFO free list.
package queue

const minSize = 3

// Queue is a growable ring buffer. Buffer length is always a power of 2,
// size is the buffer length minus one and serves as an index mask.
// A non-zero limit caps the number of stored items.
type Queue[T any] struct {
	items      []T
	size       int
	head, tail int
	limit      int
	zero       T
}

// New creates unbounded queue containing given items.
func New[T any](items ...T) *Queue[T] {
	result := &Queue[T]{}
	l := len(items)
	result.tail = l
	result.size = computeSize(l)
	result.items = make([]T, result.size+1)
	copy(result.items, items)
	return result
}

// NewBounded creates empty queue holding at most limit items.
func NewBounded[T any](limit int) *Queue[T] {
	result := New[T]()
	result.limit = limit
	return result
}

// IsEmpty reports whether queue has no items.
func (q *Queue[T]) IsEmpty() bool {
	return q.head == q.tail
}

// IsFull reports whether a bounded queue reached its limit.
func (q *Queue[T]) IsFull() bool {
	return q.limit > 0 && q.Len() >= q.limit
}

// Len returns the number of stored items.
func (q *Queue[T]) Len() int {
	return (q.tail + q.size + 1 - q.head) & q.size
}

// Items returns stored items, oldest first.
func (q *Queue[T]) Items() []T {
	if q.tail >= q.head {
		return q.items[q.head:q.tail]
	}

	l := q.Len()
	result := make([]T, l)
	copy(result, q.items[q.head:q.size+1])
	copy(result[q.size-q.head+1:], q.items[:q.tail])
	return result
}

// Append adds an item to the tail. Returns false and drops the item if the queue is full.
func (q *Queue[T]) Append(item T) bool {
	if q.IsFull() {
		return false
	}

	q.items[q.tail] = item
	q.tail = (q.tail + 1) & q.size
	if q.tail == q.head {
		q.grow()
	}
	return true
}

// Prepend adds an item to the head. Returns false and drops the item if the queue is full.
func (q *Queue[T]) Prepend(item T) bool {
	if q.IsFull() {
		return false
	}

	q.head = (q.head - 1) & q.size
	q.items[q.head] = item
	if q.head == q.tail {
		q.grow()
	}
	return true
}

// First removes and returns the head item.
// The buffer shrinks when it becomes mostly empty.
func (q *Queue[T]) First() (T, bool) {
	if q.head == q.tail {
		return q.zero, false
	}

	result := q.items[q.head]
	q.items[q.head] = q.zero
	q.head = (q.head + 1) & q.size

	if q.head == 0 && q.size > minSize && (q.tail<<2) <= q.size {
		q.size = computeSize(q.tail << 1)
		items := make([]T, q.size+1)
		copy(items, q.items[:q.tail])
		q.items = items
	}

	return result, true
}

// Last removes and returns the tail item.
func (q *Queue[T]) Last() (T, bool) {
	if q.head == q.tail {
		return q.zero, false
	}

	q.tail = (q.tail - 1) & q.size
	result := q.items[q.tail]
	q.items[q.tail] = q.zero
	return result, true
}

// Clear drops all items and releases the buffer.
func (q *Queue[T]) Clear() {
	q.size = minSize
	q.items = make([]T, minSize+1)
	q.head = 0
	q.tail = 0
}

func computeSize(length int) (size int) {
	if length <= minSize {
		size = minSize
	} else {
		length |= length >> 1
		length |= length >> 2
		length |= length >> 4
		length |= length >> 8
		size = length | length>>16
	}
	return
}

func (q *Queue[T]) grow() {
	items := make([]T, (q.size+1)<<1)
	copy(items, q.items[q.head:])
	if q.head > 0 {
		copy(items[q.size+1-q.head:], q.items[0:q.head])
	}
	q.head = 0
	q.tail = q.size + 1
	q.size = q.size + q.tail
	q.items = items
}
