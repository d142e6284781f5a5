package interpres

import (
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"
)

// earlyStopDistance ends a cohort scan once a match this close is found.
const earlyStopDistance = 2

// spell handles an unknown (FW) token: it guesses a tag from the bigram
// context, then looks for a correction among same-class words of similar
// length. The token keeps the guessed tag when no correction is accepted.
func (tg *tagger) spell(toks []Token, lo, hi, i int) {
	tok := &toks[i]
	if i > lo && isCapitalized(tok.Word) {
		tok.Tag = TagNNP
		return
	}

	guess := tg.guessTag(toks, lo, hi, i)
	tok.Tag = guess

	word := tok.Lower()
	class := cohortClass(guess)
	if class == ClassOther || word == "" {
		return
	}
	bestID, bestDist := uint32(0), -1
	for _, id := range tg.vocab.Cohort(class, LengthBand(utf8.RuneCountInString(word))) {
		cand, ok := tg.vocab.TokenByID(id)
		if !ok {
			continue
		}
		d := levenshtein(word, cand.Word)
		if bestDist < 0 || d < bestDist {
			bestID, bestDist = id, d
		}
		if bestDist <= earlyStopDistance {
			break
		}
	}
	if bestDist < 0 || bestDist > tg.cfg.SpellMaxDistance {
		return
	}
	tpl, _ := tg.vocab.TokenByID(bestID)
	tok.ID = bestID
	tok.Stem = tpl.Stem
	tok.Tag = tpl.Tag
	tok.Categories = tpl.Categories
	tok.Entities = tpl.Entities
	tok.Correction = tpl.Word
	tg.log.Debug("spelling correction", zap.String("word", tok.Word), zap.String("correction", tpl.Word))
}

// guessTag picks the open-class tag maximizing P(t|prev)·P(next|t).
func (tg *tagger) guessTag(toks []Token, lo, hi, i int) Tag {
	h := tg.model.HMM
	if !h.Trained() {
		return TagNN
	}
	prev := TagStop
	if i > lo {
		prev = toks[i-1].Tag
	}
	next, hasNext := TagFW, false
	if i+1 < hi && !toks[i+1].Ambiguous() {
		next, hasNext = toks[i+1].Tag, true
	}
	best, bestScore := TagNN, -1.0
	for t := Tag(0); t < numTags; t++ {
		if !t.IsOpenClass() {
			continue
		}
		s := h.TagProbability(prev, t)
		if hasNext {
			s *= h.TagProbability(t, next)
		}
		if s > bestScore {
			best, bestScore = t, s
		}
	}
	return best
}

func isCapitalized(w string) bool {
	r, _ := utf8.DecodeRuneInString(w)
	return unicode.IsUpper(r)
}

// levenshtein returns the edit distance between a and b, over runes.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}
	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		cur[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(rb)]
}
