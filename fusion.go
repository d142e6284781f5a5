package interpres

import "strings"

// fuse replaces toks[i:j] with tok and returns the shortened slice.
func fuse(toks []Token, i, j int, tok Token) []Token {
	toks[i] = tok
	return append(toks[:i+1], toks[j:]...)
}

// joined builds the surface and word text of toks[i:j].
func joined(toks []Token, i, j int) (text, word string) {
	var tb, wb strings.Builder
	for k := i; k < j; k++ {
		if toks[k].Text != "" {
			if tb.Len() > 0 {
				tb.WriteByte(' ')
			}
			tb.WriteString(toks[k].Text)
		}
		if toks[k].Word != "" {
			if wb.Len() > 0 {
				wb.WriteByte(' ')
			}
			wb.WriteString(toks[k].Word)
		}
	}
	return tb.String(), wb.String()
}

func isDateUnit(t Tag) bool {
	return t == TagSysWeekday || t == TagSysMonth || t == TagSysPeriod
}

func literalValue(t *Token) float64 {
	if t.Literal != nil {
		return t.Literal.Value
	}
	return 0
}

// mergeSystem fuses adjacent date, time and money tokens. After a merge
// the scan steps back one token so chains like "in two weeks" or "three
// days ago" collapse fully.
func (tz *tokenizer) mergeSystem(toks []Token) []Token {
	for i := 0; i+1 < len(toks); {
		a, b := &toks[i], &toks[i+1]
		aw, bw := a.Lower(), b.Lower()

		var (
			tag Tag
			lit *Literal
		)
		switch {
		case (aw == "last" || aw == "previous" || aw == "past") && isDateUnit(b.Tag):
			tag, lit = TagSysDatePast, &Literal{Kind: LiteralDate, Unit: bw, Relative: -1}
		case (aw == "next" || aw == "coming") && isDateUnit(b.Tag):
			tag, lit = TagSysDateFuture, &Literal{Kind: LiteralDate, Unit: bw, Relative: 1}
		case aw == "this" && isDateUnit(b.Tag):
			tag, lit = TagSysDate, &Literal{Kind: LiteralDate, Unit: bw}
		case (a.Tag == TagSysMonth || a.Tag == TagSysWeekday) && b.Tag == TagCD:
			tag, lit = TagSysDate, &Literal{Kind: LiteralDate, Value: literalValue(b), Unit: aw}
		case a.Tag == TagCD && b.Tag == TagSysPeriod:
			tag, lit = TagSysDuration, &Literal{Kind: LiteralDuration, Value: cardinal(a), Unit: bw}
		case a.Tag == TagSysDuration && bw == "ago":
			tag, lit = TagSysDatePast, &Literal{Kind: LiteralDate, Value: literalValue(a), Unit: literalUnit(a), Relative: -1}
		case aw == "in" && b.Tag == TagSysDuration:
			tag, lit = TagSysDateFuture, &Literal{Kind: LiteralDate, Value: literalValue(b), Unit: literalUnit(b), Relative: 1}
		case a.Tag == TagSysCurrency && b.Tag == TagCD:
			tag, lit = TagSysMoney, &Literal{Kind: LiteralMoney, Value: cardinal(b), Unit: literalUnit(a)}
		case a.Tag == TagCD && b.Tag == TagSysCurrency:
			tag, lit = TagSysMoney, &Literal{Kind: LiteralMoney, Value: cardinal(a), Unit: literalUnit(b)}
		case a.Tag == TagCD && tz.isClockSuffix(bw):
			tag, lit = TagSysTime, &Literal{Kind: LiteralTime, Value: clockHour(cardinal(a), bw), Unit: bw}
		}
		if tag == TagFW {
			i++
			continue
		}
		text, word := joined(toks, i, i+2)
		tok := newSynthetic(text, word, tag)
		tok.Literal = lit
		toks = fuse(toks, i, i+2, tok)
		if i > 0 {
			i--
		}
	}
	return toks
}

// cardinal returns the numeric value of a CD token: digits carry a
// literal, small number words are looked up.
func cardinal(t *Token) float64 {
	if t.Literal != nil {
		return t.Literal.Value
	}
	if v, ok := numberWords[t.Lower()]; ok {
		return v
	}
	return 0
}

var numberWords = map[string]float64{
	"zero": 0, "one": 1, "two": 2, "three": 3, "four": 4, "five": 5, "six": 6,
	"seven": 7, "eight": 8, "nine": 9, "ten": 10, "eleven": 11, "twelve": 12,
	"twenty": 20, "thirty": 30, "forty": 40, "fifty": 50, "hundred": 100,
}

// literalUnit is the literal's unit, or the word itself for vocabulary
// readings that carry no literal.
func literalUnit(t *Token) string {
	if t.Literal != nil && t.Literal.Unit != "" {
		return t.Literal.Unit
	}
	return t.Lower()
}

func (tz *tokenizer) isClockSuffix(w string) bool {
	pre, ok := tz.vocab.Preprocess(w)
	return ok && pre.Kind == PreTime
}

// maxFutureSkip is how many adverbs may sit between a future prefix and
// its verb.
const maxFutureSkip = 3

// fuseFuture collapses "will go", "is going to leave" and the like into
// one VBF token.
func (tz *tokenizer) fuseFuture(toks []Token) []Token {
	trie := tz.vocab.FutureVerbs()
	if trie.Len() == 0 {
		return toks
	}
	words := make([]string, 0, 4)
	for i := 0; i < len(toks); i++ {
		words = words[:0]
		for k := i; k < len(toks) && k < i+4 && !toks[k].Tag.IsBoundary(); k++ {
			words = append(words, toks[k].Lower())
		}
		span, want, ok := trie.Longest(words)
		if !ok {
			continue
		}
		j, negative := i+span, false
		for skipped := 0; j < len(toks) && skipped < maxFutureSkip; skipped++ {
			w := toks[j].Lower()
			if w == "not" || w == "never" {
				negative = true
			} else if toks[j].Tag.Class() != ClassAdverb || toks[j].HasVerbReading() {
				break
			}
			j++
		}
		if j >= len(toks) || !toks[j].HasPotential(Tag(want)) {
			continue
		}
		verb := toks[j]
		id, _ := verb.candidateID(Tag(want))
		verb.resolve(Tag(want), tz.vocab)

		text, word := joined(toks, i, j+1)
		tok := verb
		tok.Text, tok.Word = text, word
		tok.Tag = TagVBF
		tok.ID = id
		tok.Candidates = []Candidate{{Tag: TagVBF, ID: id}}
		tok.Negative = negative || verb.Negative
		toks = fuse(toks, i, j+1, tok)
	}
	return toks
}

// HasVerbReading reports whether any candidate is a verb.
func (t *Token) HasVerbReading() bool {
	for _, c := range t.Candidates {
		if c.Tag.IsVerb() {
			return true
		}
	}
	return false
}

// fuseNegation merges "not", "never" and the perfect auxiliaries into the
// verb that follows them. A bare negation also folds into a following
// noun. Adverbs may intervene; any other token drops the pending markers.
func (tz *tokenizer) fuseNegation(toks []Token) []Token {
	start := -1
	negative := false
	var perfect Tag
	reset := func() { start, negative, perfect = -1, false, TagFW }

	for i := 0; i < len(toks); i++ {
		tok := &toks[i]
		w := tok.Lower()
		switch w {
		case "not", "never":
			if start < 0 {
				start = i
			}
			negative = true
			continue
		case "have", "has", "had":
			if perfect == TagFW {
				if start < 0 {
					start = i
				}
				perfect = TagVBPP
				if w == "had" {
					perfect = TagVBDP
				}
				continue
			}
		}
		if start < 0 {
			continue
		}

		if tok.HasVerbReading() && tok.Tag != TagVBF {
			tag, id, ok := fusedVerb(tok, perfect)
			if !ok && negative {
				perfect = TagFW
				tag, id, ok = fusedVerb(tok, TagFW)
			}
			if ok {
				fused := *tok
				fused.resolve(tag, tz.vocab)
				text, word := joined(toks, start, i+1)
				fused.Text, fused.Word = text, word
				if perfect != TagFW {
					fused.Tag = perfect
				}
				fused.ID = id
				fused.Candidates = []Candidate{{Tag: fused.Tag, ID: id}}
				fused.Negative = negative
				toks = fuse(toks, start, i+1, fused)
				i = start
				reset()
				continue
			}
			reset()
			continue
		}
		if tok.Tag.Class() == ClassNoun && negative && perfect == TagFW {
			fused := *tok
			text, word := joined(toks, start, i+1)
			fused.Text, fused.Word, fused.Negative = text, word, true
			toks = fuse(toks, start, i+1, fused)
			i = start
			reset()
			continue
		}
		if tok.Tag == TagVBF && negative && start >= 0 {
			fused := *tok
			text, word := joined(toks, start, i+1)
			fused.Text, fused.Word, fused.Negative = text, word, true
			toks = fuse(toks, start, i+1, fused)
			i = start
			reset()
			continue
		}
		if tok.Tag.Class() == ClassAdverb && len(tok.Candidates) <= 1 {
			continue
		}
		reset()
	}
	return toks
}

// fusedVerb picks the reading a fused token is built on: a participle or
// past form under a perfect auxiliary, otherwise the first verb reading.
func fusedVerb(tok *Token, perfect Tag) (Tag, uint32, bool) {
	if perfect != TagFW {
		for _, want := range []Tag{TagVBN, TagVBD} {
			if id, ok := tok.candidateID(want); ok {
				return want, id, true
			}
		}
		return TagFW, 0, false
	}
	for _, c := range tok.Candidates {
		if c.Tag.IsVerb() {
			return c.Tag, c.ID, true
		}
	}
	return TagFW, 0, false
}
