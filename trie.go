package interpres

import (
	"sort"
	"strings"
)

// IDRange is an inclusive range of category or entity ids.
type IDRange struct {
	First uint32 `json:"first"`
	Last  uint32 `json:"last"`
}

// Contains reports whether id falls inside r.
func (r IDRange) Contains(id uint32) bool {
	return id >= r.First && id <= r.Last
}

// ContainsAny reports whether any of ids falls inside r.
func (r IDRange) ContainsAny(ids []uint32) bool {
	for _, id := range ids {
		if r.Contains(id) {
			return true
		}
	}
	return false
}

type categoryNode struct {
	name     string
	children map[string]int32
	code     string
	rng      IDRange
}

// CategoryTree is a path-keyed hierarchy ("noun/person/occupation").
// Node ids are assigned depth-first by Seal so that each node's range
// covers exactly its own subtree. Nodes only point to their children.
type CategoryTree struct {
	nodes  []categoryNode
	byID   []int32
	sealed bool
}

// NewCategoryTree returns a tree holding only the unnamed root.
func NewCategoryTree() *CategoryTree {
	return &CategoryTree{nodes: []categoryNode{{children: map[string]int32{}}}}
}

// Insert adds path (and its ancestors) to the tree. A non-empty code is
// attached to the last segment and inherited by its descendants.
// Inserting into a sealed tree is ignored.
func (t *CategoryTree) Insert(path, code string) {
	if t.sealed {
		return
	}
	cur := int32(0)
	for _, seg := range splitPath(path) {
		next, ok := t.nodes[cur].children[seg]
		if !ok {
			next = int32(len(t.nodes))
			t.nodes = append(t.nodes, categoryNode{name: seg, children: map[string]int32{}})
			t.nodes[cur].children[seg] = next
		}
		cur = next
	}
	if code != "" {
		t.nodes[cur].code = code
	}
}

// Seal assigns ids and ranges. Ids start at 1; 0 means "no category".
func (t *CategoryTree) Seal() {
	if t.sealed {
		return
	}
	t.byID = []int32{0}
	var walk func(n int32, code string)
	walk = func(n int32, code string) {
		node := &t.nodes[n]
		if node.code == "" {
			node.code = code
		}
		id := uint32(len(t.byID))
		t.byID = append(t.byID, n)
		names := make([]string, 0, len(node.children))
		for name := range node.children {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			walk(node.children[name], node.code)
		}
		t.nodes[n].rng = IDRange{First: id, Last: uint32(len(t.byID) - 1)}
	}
	root := &t.nodes[0]
	names := make([]string, 0, len(root.children))
	for name := range root.children {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		walk(root.children[name], "")
	}
	t.sealed = true
}

// find returns the arena index of path.
func (t *CategoryTree) find(path string) (int32, bool) {
	segs := splitPath(path)
	if len(segs) == 0 {
		return 0, false
	}
	cur := int32(0)
	for _, seg := range segs {
		next, ok := t.nodes[cur].children[seg]
		if !ok {
			return 0, false
		}
		cur = next
	}
	return cur, true
}

// Range returns the id range of path's subtree.
func (t *CategoryTree) Range(path string) (IDRange, bool) {
	n, ok := t.find(path)
	if !ok || !t.sealed {
		return IDRange{}, false
	}
	return t.nodes[n].rng, true
}

// ID returns the id of path itself.
func (t *CategoryTree) ID(path string) (uint32, bool) {
	r, ok := t.Range(path)
	return r.First, ok
}

// Code returns the classification code attached to id, if any.
func (t *CategoryTree) Code(id uint32) string {
	if int(id) >= len(t.byID) || id == 0 {
		return ""
	}
	return t.nodes[t.byID[id]].code
}

// Len returns the number of categories, root excluded.
func (t *CategoryTree) Len() int {
	return len(t.nodes) - 1
}

func splitPath(path string) []string {
	var segs []string
	for _, s := range strings.Split(path, "/") {
		s = strings.TrimSpace(s)
		if s != "" {
			segs = append(segs, s)
		}
	}
	return segs
}

type trieNode struct {
	children map[string]int32
	value    uint32
	terminal bool
}

// Trie maps word sequences to values. Children are kept in an arena and
// addressed by index.
type Trie struct {
	nodes []trieNode
}

// NewTrie returns an empty trie.
func NewTrie() *Trie {
	return &Trie{nodes: []trieNode{{}}}
}

// Insert stores value under the word sequence words. Later inserts of the
// same sequence overwrite earlier ones.
func (t *Trie) Insert(words []string, value uint32) {
	if len(words) == 0 {
		return
	}
	cur := int32(0)
	for _, w := range words {
		if t.nodes[cur].children == nil {
			t.nodes[cur].children = make(map[string]int32)
		}
		next, ok := t.nodes[cur].children[w]
		if !ok {
			next = int32(len(t.nodes))
			t.nodes = append(t.nodes, trieNode{})
			t.nodes[cur].children[w] = next
		}
		cur = next
	}
	t.nodes[cur].value = value
	t.nodes[cur].terminal = true
}

// Longest returns the length and value of the longest stored sequence that
// is a prefix of words.
func (t *Trie) Longest(words []string) (span int, value uint32, ok bool) {
	if t == nil {
		return 0, 0, false
	}
	cur := int32(0)
	for i, w := range words {
		next, found := t.nodes[cur].children[w]
		if !found {
			break
		}
		cur = next
		if t.nodes[cur].terminal {
			span, value, ok = i+1, t.nodes[cur].value, true
		}
	}
	return span, value, ok
}

// Lookup returns the value stored for exactly words.
func (t *Trie) Lookup(words []string) (uint32, bool) {
	if t == nil {
		return 0, false
	}
	cur := int32(0)
	for _, w := range words {
		next, found := t.nodes[cur].children[w]
		if !found {
			return 0, false
		}
		cur = next
	}
	return t.nodes[cur].value, t.nodes[cur].terminal
}

// Len returns the number of nodes, root excluded.
func (t *Trie) Len() int {
	if t == nil {
		return 0
	}
	return len(t.nodes) - 1
}
