// Package table contains definition table: a key-prefix trie of bracket, named bracket,
// and indentation mark labels with block scoping and selector filtering.
package table

import (
	"hash/fnv"
	"math/bits"

	"golang.org/x/text/unicode/norm"

	"github.com/ava12/sublex/token"
)

const DefaultBucketCount = 256

type node struct {
	symbol   string
	prev     *node
	hash     uint32
	chain    *node
	children int
	entries  []*Entry
}

// Table holds definitions. Labels are stored as trie paths, one node per symbol;
// nodes are kept in a fixed-size hash bucket array keyed by (parent node, symbol).
type Table struct {
	buckets   []*node
	mask      uint32
	entries   []*Entry
	level     int
	split     [256][]*Entry
	selectors map[string]Selectors
	names     []string
}

// New creates a table with given bucket count, which must be a power of two; 0 means DefaultBucketCount.
func New(bucketCount int) *Table {
	if bucketCount == 0 {
		bucketCount = DefaultBucketCount
	}
	if bucketCount < 0 || bits.OnesCount(uint(bucketCount)) != 1 {
		panic("table bucket count must be a power of two")
	}

	return &Table{
		buckets:   make([]*node, bucketCount),
		mask:      uint32(bucketCount - 1),
		selectors: make(map[string]Selectors),
	}
}

// Normalize returns NFC form of a symbol, labels are stored and matched in this form.
func Normalize(s string) string {
	if norm.NFC.IsNormalString(s) {
		return s
	}
	return norm.NFC.String(s)
}

func nodeHash(prev *node, symbol string) uint32 {
	h := fnv.New32a()
	if prev != nil {
		ph := prev.hash
		h.Write([]byte{byte(ph), byte(ph >> 8), byte(ph >> 16), byte(ph >> 24)})
	}
	h.Write([]byte(symbol))
	return h.Sum32()
}

func (t *Table) child(prev *node, symbol string) *node {
	h := nodeHash(prev, symbol)
	for n := t.buckets[h&t.mask]; n != nil; n = n.chain {
		if n.hash == h && n.prev == prev && n.symbol == symbol {
			return n
		}
	}
	return nil
}

func (t *Table) ensureNode(label []string) *node {
	var n *node
	for _, s := range label {
		c := t.child(n, s)
		if c == nil {
			c = &node{symbol: s, prev: n, hash: nodeHash(n, s)}
			i := c.hash & t.mask
			c.chain = t.buckets[i]
			t.buckets[i] = c
			if n != nil {
				n.children++
			}
		}
		n = c
	}
	return n
}

func (t *Table) unlinkNode(n *node) {
	i := n.hash & t.mask
	if t.buckets[i] == n {
		t.buckets[i] = n.chain
		return
	}
	for p := t.buckets[i]; p != nil; p = p.chain {
		if p.chain == n {
			p.chain = n.chain
			return
		}
	}
}

func (t *Table) prune(n *node) {
	for n != nil && len(n.entries) == 0 && n.children == 0 {
		t.unlinkNode(n)
		n = n.prev
		if n != nil {
			n.children--
		}
	}
}

func normalizeLabel(what string, label []string) ([]string, error) {
	if len(label) == 0 {
		return nil, makeInvalidLabelError(what, label)
	}

	res := make([]string, len(label))
	for i, s := range label {
		if s == "" {
			return nil, makeInvalidLabelError(what, label)
		}
		res[i] = Normalize(s)
	}
	return res, nil
}

func (t *Table) add(e *Entry) *Entry {
	e.ID = ID(len(t.entries) + 1)
	e.Level = t.level
	e.node = t.ensureNode(e.Label)
	e.node.entries = append([]*Entry{e}, e.node.entries...)
	t.entries = append(t.entries, e)
	return e
}

func (t *Table) remove(e *Entry) {
	if e == nil || t.Entry(e.ID) != e {
		return
	}

	t.entries[e.ID-1] = nil
	n := e.node
	for i, ne := range n.entries {
		if ne == e {
			n.entries = append(n.entries[:i], n.entries[i+1:]...)
			break
		}
	}
	t.prune(n)
	e.node = nil

	if e.Glue {
		b := t.splitBucket(e.Label[0])
		for i, se := range *b {
			if se == e {
				*b = append((*b)[:i], (*b)[i+1:]...)
				break
			}
		}
	}
}

func (t *Table) removeDefinition(e *Entry) {
	for _, id := range []ID{e.Closing, e.Separator, e.Middle, e.MiddleClosing} {
		if id != 0 {
			t.remove(t.Entry(id))
		}
	}
	t.remove(e)
}

// Entry returns entry by its ID or nil if there is no such (or removed) entry.
func (t *Table) Entry(id ID) *Entry {
	if id <= 0 || int(id) > len(t.entries) {
		return nil
	}
	return t.entries[id-1]
}

// Entries returns all defined entries in definition order.
func (t *Table) Entries() []*Entry {
	res := make([]*Entry, 0, len(t.entries))
	for _, e := range t.entries {
		if e != nil {
			res = append(res, e)
		}
	}
	return res
}

// Level returns current block level, 0 is the outermost level.
func (t *Table) Level() int {
	return t.level
}

// BeginBlock starts a new definition block and returns its level.
func (t *Table) BeginBlock() int {
	t.level++
	return t.level
}

// EndBlock removes all definitions made since the matching BeginBlock.
func (t *Table) EndBlock() error {
	if t.level == 0 {
		return makeBlockLevelError(t.level)
	}

	for i := len(t.entries) - 1; i >= 0; i-- {
		e := t.entries[i]
		if e != nil && e.Level >= t.level {
			t.remove(e)
		}
	}
	t.level--
	return nil
}

// Undefine removes primary definitions (brackets, named brackets, and indentation marks) with given
// opening label and selectors intersecting sel, together with their dependent entries.
// Returns the number of removed definitions.
func (t *Table) Undefine(label []string, sel Selectors) int {
	label, err := normalizeLabel("undefined", label)
	if err != nil {
		return 0
	}

	var n *node
	for _, s := range label {
		n = t.child(n, s)
		if n == nil {
			return 0
		}
	}

	var victims []*Entry
	for _, e := range n.entries {
		if e.Kind.IsPrimary() && e.IsActive(sel) {
			victims = append(victims, e)
		}
	}
	for _, e := range victims {
		t.removeDefinition(e)
	}
	return len(victims)
}

// Selector returns selector bit for given name, allocating a new one for unknown name.
func (t *Table) Selector(name string) (Selectors, error) {
	if s, f := t.selectors[name]; f {
		return s, nil
	}

	if len(t.names) >= 64 {
		return 0, makeSelectorOverflowError(name)
	}

	s := Selectors(1) << len(t.names)
	t.names = append(t.names, name)
	t.selectors[name] = s
	return s, nil
}

// SelectorSet returns union of named selectors.
func (t *Table) SelectorSet(names ...string) (Selectors, error) {
	var res Selectors
	for _, name := range names {
		s, err := t.Selector(name)
		if err != nil {
			return 0, err
		}
		res |= s
	}
	return res, nil
}

// SelectorNames returns names of allocated selectors contained in given set.
func (t *Table) SelectorNames(s Selectors) []string {
	var res []string
	for i, name := range t.names {
		if s&(1<<i) != 0 {
			res = append(res, name)
		}
	}
	return res
}

// Match is a found definition together with the tokens its label spans.
type Match struct {
	Entry       *Entry
	First, Last *token.Token
}

type step struct {
	node *node
	last *token.Token
}

// Finder enumerates definitions whose labels match tokens starting at a given position,
// longest label first. Only entries active under the finder selectors are returned.
type Finder struct {
	sel   Selectors
	first *token.Token
	path  []step
	ei    int
}

// Find walks the trie along successive symbol tokens starting at first.
// Tokens are pulled from the list as needed.
func (t *Table) Find(l *token.List, first *token.Token, sel Selectors) *Finder {
	f := &Finder{sel: sel, first: first}
	var n *node
	for tok := first; tok != nil; tok = l.Next(tok) {
		key, ok := tok.Key()
		if !ok {
			break
		}

		n = t.child(n, Normalize(key))
		if n == nil {
			break
		}

		f.path = append(f.path, step{n, tok})
	}
	return f
}

// Next returns the next matching definition; false means there are no more matches.
func (f *Finder) Next() (Match, bool) {
	for len(f.path) > 0 {
		s := f.path[len(f.path)-1]
		for f.ei < len(s.node.entries) {
			e := s.node.entries[f.ei]
			f.ei++
			if e.IsActive(f.sel) {
				return Match{Entry: e, First: f.first, Last: s.last}, true
			}
		}
		f.path = f.path[:len(f.path)-1]
		f.ei = 0
	}
	return Match{}, false
}

func (t *Table) splitBucket(label string) *[]*Entry {
	return &t.split[label[len(label)-1]]
}

func (t *Table) addSplit(e *Entry) {
	label := e.Label[0]
	b := t.splitBucket(label)
	i := 0
	for i < len(*b) && len((*b)[i].Label[0]) >= len(label) {
		i++
	}
	*b = append(*b, nil)
	copy((*b)[i+1:], (*b)[i:])
	(*b)[i] = e
}

// Split checks whether given symbol ends with a gluing indentation mark active under sel.
// The mark must be a proper suffix of the symbol. Returns the part preceding the mark
// and the mark entry; the longest matching mark wins.
func (t *Table) Split(symbol string, sel Selectors) (string, *Entry, bool) {
	if symbol == "" {
		return "", nil, false
	}

	symbol = Normalize(symbol)
	for _, e := range t.split[symbol[len(symbol)-1]] {
		label := e.Label[0]
		if len(label) < len(symbol) && e.IsActive(sel) && symbol[len(symbol)-len(label):] == label {
			return symbol[:len(symbol)-len(label)], e, true
		}
	}
	return "", nil, false
}
