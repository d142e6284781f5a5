package interpres

// interpRanges are the category ranges the interpreter consults.
type interpRanges struct {
	stateVerb    IDRange
	degreeAdverb IDRange
	placeAdverb  IDRange
	mannerAdverb IDRange
	hasState     bool
	hasDegree    bool
	hasPlace     bool
	hasManner    bool
}

func newInterpRanges(v Vocabulary, cfg InterpreterConfig) *interpRanges {
	r := &interpRanges{}
	r.stateVerb, r.hasState = v.CategoryRange(cfg.StateVerbCategory)
	r.degreeAdverb, r.hasDegree = v.CategoryRange(cfg.DegreeAdverbCategory)
	r.placeAdverb, r.hasPlace = v.CategoryRange(cfg.PlaceAdverbCategory)
	r.mannerAdverb, r.hasManner = v.CategoryRange(cfg.MannerAdverbCategory)
	return r
}

// sep is a buffered separator or conjunction.
type sep struct {
	idx      int
	conj     bool
	excludes bool
}

// builder holds the phrase under construction. All cross references are
// indices into its own nouns and verbs.
type builder struct {
	start     int
	split     *SplitMarker
	fromSplit bool

	nouns []Noun
	verbs []Verb

	dets      []int
	preps     []int
	seps      []sep
	aux       []int
	predVerbs []int
	linkers   []int
	advs      []int
	adjs      []Adjective

	runClass Class
	runHead  int // index into nouns or verbs, by runClass

	lastHead      int // token index of the last top-level head
	lastHeadClass Class
	lastNoun      int
	lastVerb      int
}

func newBuilder(start int) *builder {
	return &builder{start: start, runHead: -1, lastHead: -1, lastNoun: -1, lastVerb: -1}
}

func (b *builder) headless() bool { return len(b.nouns) == 0 && len(b.verbs) == 0 }

func (b *builder) hasConjunction() bool {
	for _, s := range b.seps {
		if s.conj {
			return true
		}
	}
	return false
}

func (b *builder) excludes() bool {
	for _, s := range b.seps {
		if s.excludes {
			return true
		}
	}
	return false
}

// interpreter is the per-call phrase state machine.
type interpreter struct {
	vocab  Vocabulary
	ranges *interpRanges
	coref  *resolver
	toks   []*Token

	phrases []Phrase
	b       *builder
}

func (in *interpreter) run(toks []*Token) []Phrase {
	in.toks = toks
	in.b = newBuilder(0)
	for i := range toks {
		in.step(i)
	}
	if in.b.start < len(toks) {
		in.hardSplit(len(toks) - 1)
	}
	in.finalize()
	return in.phrases
}

func (in *interpreter) peek(i int) *Token {
	if i >= 0 && i < len(in.toks) {
		return in.toks[i]
	}
	return nil
}

func (in *interpreter) step(i int) {
	tok := in.toks[i]
	in.coref.observe(tok)
	b := in.b

	switch tok.Tag.Class() {
	case ClassStop:
		in.hardSplit(i)
	case ClassNoun, ClassPronoun:
		in.noun(i)
	case ClassVerb:
		in.verb(i)
	case ClassAdjective:
		in.adjective(i)
	case ClassAdverb:
		b.advs = append(b.advs, i)
	case ClassPreposition:
		if next := in.peek(i + 1); tok.Tag == TagTO && next != nil && next.Tag.Class() == ClassVerb {
			b.linkers = append(b.linkers, i)
		} else {
			b.preps = append(b.preps, i)
		}
	case ClassDeterminer:
		b.dets = append(b.dets, i)
	case ClassConjunction:
		w := tok.Lower()
		b.seps = append(b.seps, sep{idx: i, conj: true, excludes: w == "but" || w == "except"})
	case ClassSeparator:
		b.seps = append(b.seps, sep{idx: i, conj: tok.Tag == TagComma})
	}
}

// isAuxiliary reports whether the verb at i serves the verb that follows,
// either directly ("will go", "is going") or across an inverted subject
// ("did you see").
func (in *interpreter) isAuxiliary(i int) bool {
	tok := in.toks[i]
	w := tok.Lower()
	if tok.Tag != TagMD && !inWordGroup(w, WordAuxiliary) {
		return false
	}
	for k := i + 1; k < len(in.toks) && k <= i+4; k++ {
		switch c := in.toks[k].Tag.Class(); c {
		case ClassVerb:
			return k == i+1 || len(in.b.verbs) == 0
		case ClassNoun, ClassPronoun, ClassAdverb, ClassDeterminer:
			continue
		default:
			return false
		}
	}
	return false
}

// isPredicative reports whether the verb at i is a copula introducing an
// adjective, possibly across adverbs.
func (in *interpreter) isPredicative(i int) bool {
	if !inWordGroup(in.toks[i].Lower(), WordPassive) {
		return false
	}
	for k := i + 1; k < len(in.toks); k++ {
		switch in.toks[k].Tag.Class() {
		case ClassAdjective:
			return true
		case ClassAdverb:
			continue
		}
		return false
	}
	return false
}

func (in *interpreter) noun(i int) {
	b := in.b
	tok := in.toks[i]
	in.closeVerbSide(i)

	if b.runClass == ClassNoun && b.runHead >= 0 {
		head := &b.nouns[b.runHead]
		headTok := in.toks[head.Head]
		switch {
		case i == head.Head+1 && len(b.dets)+len(b.preps)+len(b.seps)+len(b.adjs) == 0 &&
			tok.Tag.Class() == ClassNoun && headTok.Tag.Class() == ClassNoun:
			head.Compound = append(head.Compound, head.Head)
			head.Head = i
			b.lastNoun = b.runHead
			if b.lastHeadClass == ClassNoun {
				b.lastHead = i
			}
			return
		case b.hasConjunction() && len(b.preps) == 0:
			n := in.newNoun(i, RoleSibling, b.runHead)
			n.Excluded = b.excludes()
			b.nouns = append(b.nouns, n)
			b.nouns[b.runHead].Siblings = append(b.nouns[b.runHead].Siblings, len(b.nouns)-1)
			b.lastNoun = len(b.nouns) - 1
			return
		case len(b.preps) > 0 && len(head.Prepositions) == 0 && tok.Tag.Class() == ClassNoun:
			n := in.newNoun(i, RoleModifier, b.runHead)
			b.nouns = append(b.nouns, n)
			b.nouns[b.runHead].Modifiers = append(b.nouns[b.runHead].Modifiers, len(b.nouns)-1)
			b.lastNoun = len(b.nouns) - 1
			return
		}
	}

	in.checkSplit(i, ClassNoun)
	b = in.b
	n := in.newNoun(i, RoleHead, -1)
	b.nouns = append(b.nouns, n)
	b.runClass, b.runHead = ClassNoun, len(b.nouns)-1
	b.lastNoun = b.runHead
	b.lastHead, b.lastHeadClass = i, ClassNoun
}

// newNoun builds a noun group and hands it the pending determiners,
// prepositions, separators and attributive adjectives.
func (in *interpreter) newNoun(i int, role Role, parent int) Noun {
	b := in.b
	n := Noun{Head: i, Role: role, Parent: parent}
	n.Determiners, b.dets = b.dets, nil
	n.Prepositions, b.preps = b.preps, nil
	n.Adjectives, b.adjs = b.adjs, nil
	b.seps = b.seps[:0]
	return n
}

// closeVerbSide attaches pending adverbs that directly follow the most
// recent verb, and precede any preposition, to that verb when a noun
// arrives.
func (in *interpreter) closeVerbSide(i int) {
	b := in.b
	if b.lastVerb < 0 || len(b.advs) == 0 {
		return
	}
	firstPrep := i
	if len(b.preps) > 0 {
		firstPrep = b.preps[0]
	}
	next := b.verbs[b.lastVerb].Head + 1
	keep := b.advs[:0]
	for _, a := range b.advs {
		if a == next && a < firstPrep {
			b.verbs[b.lastVerb].Adverbs = append(b.verbs[b.lastVerb].Adverbs, in.adverb(a))
			next++
		} else {
			keep = append(keep, a)
		}
	}
	b.advs = keep
}

// closeNounSide attaches pending predicative adjectives to the most recent
// noun when a verb arrives.
func (in *interpreter) closeNounSide() {
	b := in.b
	if b.lastNoun < 0 || len(b.adjs) == 0 {
		return
	}
	keep := b.adjs[:0]
	for _, a := range b.adjs {
		if len(a.Verbs) > 0 {
			b.nouns[b.lastNoun].Adjectives = append(b.nouns[b.lastNoun].Adjectives, a)
		} else {
			keep = append(keep, a)
		}
	}
	b.adjs = keep
}

func (in *interpreter) verb(i int) {
	b := in.b
	if in.isAuxiliary(i) {
		b.aux = append(b.aux, i)
		return
	}
	if in.isPredicative(i) {
		b.predVerbs = append(b.predVerbs, i)
		return
	}
	in.pushVerb(i)
}

func (in *interpreter) pushVerb(i int) {
	b := in.b
	in.closeNounSide()

	if b.runClass == ClassVerb && b.runHead >= 0 {
		head := &b.verbs[b.runHead]
		switch {
		case i == head.Head+1 && len(b.seps)+len(b.linkers)+len(b.preps)+len(b.aux) == 0:
			head.Compound = append(head.Compound, head.Head)
			head.Head = i
			head.Negative = head.Negative || in.toks[i].Negative
			b.lastVerb = b.runHead
			if b.lastHeadClass == ClassVerb {
				b.lastHead = i
			}
			return
		case b.hasConjunction():
			v := in.newVerb(i, RoleSibling, b.runHead)
			v.Excluded = b.excludes()
			b.verbs = append(b.verbs, v)
			b.verbs[b.runHead].Siblings = append(b.verbs[b.runHead].Siblings, len(b.verbs)-1)
			b.lastVerb = len(b.verbs) - 1
			return
		case len(b.linkers) > 0 || (len(b.preps) > 0 && len(head.Prepositions) == 0):
			v := in.newVerb(i, RoleModifier, b.runHead)
			b.verbs = append(b.verbs, v)
			b.verbs[b.runHead].Modifiers = append(b.verbs[b.runHead].Modifiers, len(b.verbs)-1)
			b.lastVerb = len(b.verbs) - 1
			return
		}
	}
	if len(b.linkers) > 0 && b.lastVerb >= 0 {
		parent := b.lastVerb
		v := in.newVerb(i, RoleModifier, parent)
		b.verbs = append(b.verbs, v)
		b.verbs[parent].Modifiers = append(b.verbs[parent].Modifiers, len(b.verbs)-1)
		b.lastVerb = len(b.verbs) - 1
		b.runClass, b.runHead = ClassVerb, parent
		return
	}

	in.checkSplit(i, ClassVerb)
	b = in.b
	v := in.newVerb(i, RoleHead, -1)
	b.verbs = append(b.verbs, v)
	b.runClass, b.runHead = ClassVerb, len(b.verbs)-1
	b.lastVerb = b.runHead
	b.lastHead, b.lastHeadClass = i, ClassVerb
}

// newVerb builds a verb group and hands it the pending auxiliaries,
// linkers and adverbs that precede any pending preposition.
func (in *interpreter) newVerb(i int, role Role, parent int) Verb {
	b := in.b
	v := Verb{Head: i, Role: role, Parent: parent, Negative: in.toks[i].Negative}
	v.Auxiliaries, b.aux = b.aux, nil
	v.Prepositions, b.linkers = b.linkers, nil
	firstPrep := i
	if len(b.preps) > 0 {
		firstPrep = b.preps[0]
	}
	keep := b.advs[:0]
	for _, a := range b.advs {
		if a < firstPrep {
			v.Adverbs = append(v.Adverbs, in.adverb(a))
		} else {
			keep = append(keep, a)
		}
	}
	b.advs = keep
	b.seps = b.seps[:0]
	return v
}

func (in *interpreter) adjective(i int) {
	b := in.b
	adj := Adjective{Head: i, Categories: in.codes(in.toks[i])}
	if n := len(b.advs); n > 0 && b.advs[n-1] == i-1 && !in.isManner(i-1) {
		adj.Adverbs = append(adj.Adverbs, in.adverb(i-1))
		b.advs = b.advs[:n-1]
	}
	if len(b.predVerbs) > 0 {
		adj.Verbs, b.predVerbs = b.predVerbs, nil
		if b.lastNoun >= 0 {
			b.nouns[b.lastNoun].Adjectives = append(b.nouns[b.lastNoun].Adjectives, adj)
			return
		}
	}
	b.adjs = append(b.adjs, adj)
}

func (in *interpreter) isManner(i int) bool {
	return in.ranges.hasManner && in.ranges.mannerAdverb.ContainsAny(in.toks[i].Categories)
}

func (in *interpreter) adverb(i int) Adverb {
	return Adverb{Head: i, Categories: in.codes(in.toks[i])}
}

// codes returns the distinct classification codes of a token's categories.
func (in *interpreter) codes(tok *Token) []string {
	var out []string
	for _, id := range tok.Categories {
		if c := in.vocab.CategoryCode(id); c != "" && !containsString(out, c) {
			out = append(out, c)
		}
	}
	return out
}

// flush attaches whatever is still pending in the builder: adjectives go
// to the last noun, adverbs to the last verb, and orphan auxiliaries or
// copulas become verbs of their own.
func (in *interpreter) flush() {
	b := in.b
	for _, v := range append(b.aux, b.predVerbs...) {
		b.verbs = append(b.verbs, Verb{Head: v, Role: RoleHead, Parent: -1, Negative: in.toks[v].Negative})
		b.lastVerb = len(b.verbs) - 1
	}
	b.aux, b.predVerbs = nil, nil
	if b.lastNoun >= 0 {
		b.nouns[b.lastNoun].Adjectives = append(b.nouns[b.lastNoun].Adjectives, b.adjs...)
	}
	if b.lastVerb >= 0 {
		for _, a := range b.advs {
			b.verbs[b.lastVerb].Adverbs = append(b.verbs[b.lastVerb].Adverbs, in.adverb(a))
		}
	}
	b.adjs, b.advs = nil, nil
	b.dets, b.preps, b.linkers = nil, nil, nil
	b.seps = b.seps[:0]
	b.runClass, b.runHead = ClassOther, -1
}

// hardSplit ends the phrase at the stop token i. A headless or split-off
// fragment is merged into the previous phrase when that phrase lacks a verb
// or a noun; otherwise it closes as a phrase of its own.
func (in *interpreter) hardSplit(i int) {
	in.flush()
	b := in.b
	end := i + 1
	if n := len(in.phrases); n > 0 {
		prev := &in.phrases[n-1]
		if (b.headless() || b.fromSplit) && (!prev.HasVerb() || !prev.HasNoun()) {
			mergeInto(prev, b, end)
			in.b = newBuilder(end)
			return
		}
	}
	in.phrases = append(in.phrases, b.phrase(end))
	in.b = newBuilder(end)
}

func (b *builder) phrase(end int) Phrase {
	return Phrase{
		Range: Range{Start: b.start, End: end},
		Split: b.split,
		Nouns: b.nouns,
		Verbs: b.verbs,
	}
}

// mergeInto appends b's groups to prev and extends prev to end.
func mergeInto(prev *Phrase, b *builder, end int) {
	nOff, vOff := len(prev.Nouns), len(prev.Verbs)
	for _, n := range b.nouns {
		n.Siblings = shift(n.Siblings, nOff)
		n.Modifiers = shift(n.Modifiers, nOff)
		if n.Parent >= 0 {
			n.Parent += nOff
		}
		prev.Nouns = append(prev.Nouns, n)
	}
	for _, v := range b.verbs {
		v.Siblings = shift(v.Siblings, vOff)
		v.Modifiers = shift(v.Modifiers, vOff)
		if v.Parent >= 0 {
			v.Parent += vOff
		}
		prev.Verbs = append(prev.Verbs, v)
	}
	prev.Range.End = end
}

func shift(idx []int, off int) []int {
	if off == 0 || len(idx) == 0 {
		return idx
	}
	out := make([]int, len(idx))
	for i, x := range idx {
		out[i] = x + off
	}
	return out
}
