package interpres

import "strings"

// finalize fills in tense, person, classification and intent of every
// phrase once the token stream is exhausted.
func (in *interpreter) finalize() {
	for k := range in.phrases {
		p := &in.phrases[k]
		toks := in.toks[p.Range.Start:p.Range.End]
		p.Tense = phraseTense(toks)
		p.Person = phrasePerson(toks)
		p.Classification = in.classify(p, toks)
		p.Intent = in.intent(toks)
	}
}

// phraseTense reads tense off the verbs in range. Fused future verbs and
// the future modals win over any past form, which wins over present.
func phraseTense(toks []*Token) Tense {
	tense := TenseUndetermined
	for _, t := range toks {
		if t.Tag.Class() != ClassVerb {
			continue
		}
		w := t.Lower()
		switch {
		case t.Tag == TagVBF || (t.Tag == TagMD && (w == "will" || w == "shall")):
			return TenseFuture
		case t.Tag.IsPast():
			tense = TensePast
		case tense == TenseUndetermined:
			tense = TensePresent
		}
	}
	return tense
}

// phrasePerson ranks the pronouns in range: any first-person pronoun makes
// the phrase first person, then "you" makes it second, then a third-person
// pronoun makes it third. Without pronouns it is addressed to the listener.
func phrasePerson(toks []*Token) Person {
	var second, third bool
	for _, t := range toks {
		p := t.Pronoun
		if p == nil || t.Tag.Class() != ClassPronoun {
			continue
		}
		switch {
		case p.Person == 1:
			return PersonFirst
		case t.Lower() == "you":
			second = true
		case p.Person == 3:
			third = true
		}
	}
	switch {
	case second:
		return PersonSecond
	case third:
		return PersonThird
	}
	return PersonSecond
}

func (in *interpreter) classify(p *Phrase, toks []*Token) Classification {
	r := in.ranges
	switch {
	case (p.Person == PersonFirst || p.Person == PersonThird) && p.Tense == TensePast:
		return Conversational
	case p.Person == PersonThird:
		return Declarative
	case r.hasState && anyToken(toks, r.stateVerb), r.hasDegree && anyToken(toks, r.degreeAdverb):
		return Declarative
	case r.hasPlace && anyToken(toks, r.placeAdverb):
		return Conversational
	case isQuestion(toks):
		return Interrogative
	}
	return Imperative
}

func anyToken(toks []*Token, rng IDRange) bool {
	for _, t := range toks {
		if rng.ContainsAny(t.Categories) {
			return true
		}
	}
	return false
}

// isQuestion reports whether toks end in a terminator run holding a
// question mark, or open with a wh-word.
func isQuestion(toks []*Token) bool {
	for k := len(toks) - 1; k >= 0; k-- {
		t := toks[k]
		if t.Tag == TagLB {
			continue
		}
		if t.Tag == TagStop && strings.ContainsRune(t.Word, '?') {
			return true
		}
		break
	}
	for _, t := range toks {
		if t.Tag.IsPunct() {
			continue
		}
		switch t.Tag {
		case TagWDT, TagWP, TagWPS, TagWRB:
			return true
		}
		break
	}
	return false
}

// intent matches the intent patterns greedily and returns the kind with
// the longest total match.
func (in *interpreter) intent(toks []*Token) Intent {
	trie := in.vocab.IntentPatterns()
	var (
		matched [numIntents]int
		words   []string
	)
	total := len(toks)
	if trie == nil || total == 0 {
		return Intent{Kind: IntentNeutral}
	}
	for k := 0; k < len(toks); {
		words = words[:0]
		for j := k; j < len(toks) && !toks[j].Tag.IsPunct(); j++ {
			words = append(words, toks[j].Lower())
		}
		span, kind, ok := trie.Longest(words)
		if !ok || span == 0 || kind >= uint32(numIntents) {
			k++
			continue
		}
		matched[kind] += span
		k += span
	}
	best := IntentNeutral
	for kind := IntentNeutral + 1; kind < numIntents; kind++ {
		if matched[kind] > matched[best] {
			best = kind
		}
	}
	if matched[best] == 0 {
		return Intent{Kind: IntentNeutral}
	}
	return Intent{Kind: best, Score: float64(matched[best]) / float64(total)}
}

// categoryScores averages the classification codes of the scoring view.
// Each token spreads one unit evenly over its distinct codes.
func categoryScores(v Vocabulary, toks []*Token) map[string]float64 {
	scores := make(map[string]float64)
	var n int
	shares := make(map[string][]Weight)
	for _, t := range toks {
		if t.Tag.IsPunct() {
			continue
		}
		n++
		var codes []string
		for _, id := range t.Categories {
			if c := v.CategoryCode(id); c != "" && !containsString(codes, c) {
				codes = append(codes, c)
			}
		}
		for _, c := range codes {
			shares[c] = append(shares[c], WeightOf(1/float64(len(codes))))
		}
	}
	for c, xs := range shares {
		// Tokens without the code count as zero.
		scores[c] = Mean(xs) * float64(len(xs)) / float64(n)
	}
	return scores
}
