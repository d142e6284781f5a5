package interpres

// checkSplit runs before a new head of the given class is pushed at i. Once
// the phrase holds a verb followed by a noun, the span between the previous
// head and i is scanned for a split point and the phrase is cut there.
func (in *interpreter) checkSplit(i int, class Class) {
	b := in.b
	if b.lastHead < 0 || !b.hasVerbThenNoun() {
		return
	}
	lo, hi := b.lastHead+1, i

	// A single past verb directly followed by its object stays whole.
	if class == ClassNoun && b.lastHeadClass == ClassVerb {
		if v := b.verbAt(b.lastHead); v != nil && len(v.Compound) == 0 &&
			in.toks[v.Head].Tag.IsPast() && in.onlyModifiers(lo, hi) {
			return
		}
	}

	if lo == hi && class == ClassVerb && b.lastHeadClass == ClassNoun {
		if n := b.nounAt(b.lastHead); n != nil {
			in.splitAt(firstIndex(n), SplitHeadMove)
			return
		}
	}
	s, kind := in.splitPoint(lo, hi)
	in.splitAt(s, kind)
}

// hasVerbThenNoun reports whether some noun head follows the first verb
// head.
func (b *builder) hasVerbThenNoun() bool {
	if len(b.verbs) == 0 {
		return false
	}
	first := b.verbs[0].Head
	for _, v := range b.verbs[1:] {
		if v.Head < first {
			first = v.Head
		}
	}
	for _, n := range b.nouns {
		if n.Head > first {
			return true
		}
	}
	return false
}

func (b *builder) verbAt(head int) *Verb {
	for k := range b.verbs {
		if b.verbs[k].Head == head {
			return &b.verbs[k]
		}
	}
	return nil
}

func (b *builder) nounAt(head int) *Noun {
	for k := range b.nouns {
		if b.nouns[k].Head == head {
			return &b.nouns[k]
		}
	}
	return nil
}

// firstIndex returns the leftmost token a noun group owns ahead of its head.
func firstIndex(n *Noun) int {
	first := n.Head
	for _, group := range [][]int{n.Determiners, n.Prepositions, n.Compound} {
		for _, k := range group {
			if k < first {
				first = k
			}
		}
	}
	for _, a := range n.Adjectives {
		if a.Head < first {
			first = a.Head
		}
	}
	return first
}

func (in *interpreter) onlyModifiers(lo, hi int) bool {
	for k := lo; k < hi; k++ {
		switch in.toks[k].Tag.Class() {
		case ClassDeterminer, ClassAdjective:
		default:
			return false
		}
	}
	return true
}

// splitPoint picks the leftmost token in [lo,hi) that can open a phrase:
// a preposition other than "of", a comma or semicolon, an adverb or a
// determiner. With none, the span start is used.
func (in *interpreter) splitPoint(lo, hi int) (int, SplitKind) {
	for k := lo; k < hi; k++ {
		tok := in.toks[k]
		switch {
		case tok.Tag.Class() == ClassPreposition && tok.Lower() != "of":
			return k, SplitPreposition
		case tok.Tag == TagComma || tok.Tag == TagSemicolon:
			return k, SplitSeparator
		case tok.Tag.Class() == ClassAdverb:
			return k, SplitAdverb
		case tok.Tag.Class() == ClassDeterminer:
			return k, SplitDeterminer
		}
	}
	return lo, SplitSpanStart
}

// splitAt closes the current phrase before token s. Groups headed at or
// after s, and pending items at or after s, move to a fresh builder.
func (in *interpreter) splitAt(s int, kind SplitKind) {
	old := in.b
	if s <= old.start {
		return
	}
	next := newBuilder(s)
	next.split = &SplitMarker{Index: s, Kind: kind}
	next.fromSplit = true

	old.nouns, next.nouns = partitionNouns(old.nouns, s)
	old.verbs, next.verbs = partitionVerbs(old.verbs, s)

	old.dets, next.dets = splitInts(old.dets, s)
	old.preps, next.preps = splitInts(old.preps, s)
	old.aux, next.aux = splitInts(old.aux, s)
	old.predVerbs, next.predVerbs = splitInts(old.predVerbs, s)
	old.linkers, next.linkers = splitInts(old.linkers, s)
	old.advs, next.advs = splitInts(old.advs, s)
	var keepAdjs []Adjective
	for _, a := range old.adjs {
		if a.Head >= s {
			next.adjs = append(next.adjs, a)
		} else {
			keepAdjs = append(keepAdjs, a)
		}
	}
	old.adjs = keepAdjs
	for _, sp := range old.seps {
		if sp.idx >= s {
			next.seps = append(next.seps, sp)
		}
	}

	old.lastNoun, old.lastVerb = len(old.nouns)-1, len(old.verbs)-1
	next.lastNoun, next.lastVerb = len(next.nouns)-1, len(next.verbs)-1
	next.lastHead, next.lastHeadClass = lastTopHead(next)

	in.flush()
	in.phrases = append(in.phrases, old.phrase(s))
	in.b = next
}

// lastTopHead returns the token index and class of the rightmost head-role
// group in b, or -1.
func lastTopHead(b *builder) (int, Class) {
	head, class := -1, ClassOther
	for _, n := range b.nouns {
		if n.Role == RoleHead && n.Head > head {
			head, class = n.Head, ClassNoun
		}
	}
	for _, v := range b.verbs {
		if v.Role == RoleHead && v.Head > head {
			head, class = v.Head, ClassVerb
		}
	}
	return head, class
}

func splitInts(xs []int, s int) (before, after []int) {
	for _, x := range xs {
		if x < s {
			before = append(before, x)
		} else {
			after = append(after, x)
		}
	}
	return before, after
}

// remapper renumbers group indices after a partition: idx is each group's
// new index within its half, moved says which half.
type remapper struct {
	idx   []int
	moved []bool
}

func newRemapper(n int, moved func(int) bool) remapper {
	r := remapper{idx: make([]int, n), moved: make([]bool, n)}
	var kept, gone int
	for k := 0; k < n; k++ {
		if moved(k) {
			r.moved[k], r.idx[k] = true, gone
			gone++
		} else {
			r.idx[k] = kept
			kept++
		}
	}
	return r
}

// refs keeps the references of a group that landed in the same half.
func (r remapper) refs(xs []int, moved bool) []int {
	var out []int
	for _, x := range xs {
		if r.moved[x] == moved {
			out = append(out, r.idx[x])
		}
	}
	return out
}

// parent returns the remapped parent, or -1 if it landed in the other half.
func (r remapper) parent(p int, moved bool) (int, bool) {
	if p < 0 || r.moved[p] != moved {
		return -1, false
	}
	return r.idx[p], true
}

func partitionNouns(ns []Noun, s int) (before, after []Noun) {
	r := newRemapper(len(ns), func(k int) bool { return ns[k].Head >= s })
	for k, n := range ns {
		moved := r.moved[k]
		n.Siblings = r.refs(n.Siblings, moved)
		n.Modifiers = r.refs(n.Modifiers, moved)
		if p, ok := r.parent(n.Parent, moved); ok {
			n.Parent = p
		} else {
			n.Parent, n.Role = -1, RoleHead
		}
		if moved {
			after = append(after, n)
		} else {
			before = append(before, n)
		}
	}
	return before, after
}

func partitionVerbs(vs []Verb, s int) (before, after []Verb) {
	r := newRemapper(len(vs), func(k int) bool { return vs[k].Head >= s })
	for k, v := range vs {
		moved := r.moved[k]
		v.Siblings = r.refs(v.Siblings, moved)
		v.Modifiers = r.refs(v.Modifiers, moved)
		if p, ok := r.parent(v.Parent, moved); ok {
			v.Parent = p
		} else {
			v.Parent, v.Role = -1, RoleHead
		}
		if moved {
			after = append(after, v)
		} else {
			before = append(before, v)
		}
	}
	return before, after
}
