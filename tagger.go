package interpres

import (
	"math"

	"go.uber.org/zap"
)

// tagger resolves ambiguous tokens in place. It holds no per-call state.
type tagger struct {
	vocab Vocabulary
	model *Model
	cfg   TaggerConfig
	log   *zap.Logger
}

func newTagger(v Vocabulary, cfg TaggerConfig, log *zap.Logger) *tagger {
	m := v.Model()
	if m == nil {
		m = NewModel()
	}
	return &tagger{vocab: v, model: m, cfg: cfg, log: log}
}

// run tags every sentence of toks. Tokens with a single candidate keep
// their tag.
func (tg *tagger) run(toks []Token) {
	start := 0
	for i := 0; i <= len(toks); i++ {
		if i < len(toks) && !toks[i].Tag.IsBoundary() {
			continue
		}
		if i > start {
			tg.sentence(toks, start, i)
		}
		start = i + 1
	}
}

// sentence tags toks[lo:hi], which holds no boundary tokens.
func (tg *tagger) sentence(toks []Token, lo, hi int) {
	var (
		hmmTags []Tag
		hmmConf []float64
		hmmDone bool
	)
	viterbi := func() {
		if hmmDone {
			return
		}
		hmmDone = true
		words := make([]string, hi-lo)
		cands := make([][]Tag, hi-lo)
		for i := lo; i < hi; i++ {
			words[i-lo] = toks[i].Lower()
			if toks[i].Ambiguous() {
				cands[i-lo] = toks[i].PotentialTags()
			} else {
				cands[i-lo] = []Tag{toks[i].Tag}
			}
		}
		hmmTags, hmmConf = tg.model.HMM.Viterbi(words, cands)
	}

	for i := lo; i < hi; i++ {
		tok := &toks[i]
		if !tok.Ambiguous() {
			continue
		}
		if len(tok.Candidates) == 0 {
			if tg.cfg.SpellAssist {
				tg.spell(toks, lo, hi, i)
			}
			continue
		}

		if tg.cfg.Strategy != StrategyHMM {
			if tag, conf, ok := tg.predict(toks, lo, hi, i); ok {
				tok.resolve(tag, tg.vocab)
				tok.Confidence = conf
				continue
			}
		}
		viterbi()
		if j := i - lo; j < len(hmmTags) && tok.HasPotential(hmmTags[j]) {
			tok.resolve(hmmTags[j], tg.vocab)
			tok.Confidence = hmmConf[j]
			continue
		}
		tg.log.Debug("no tagging signal", zap.String("word", tok.Word), zap.Stringer("kept", tok.Tag))
	}
}

// window collects the feature views around position i. Slot Before holds
// the target's own features.
func (tg *tagger) window(toks []Token, lo, hi, i int) [][]Feature {
	w := tg.cfg.Window
	slots := make([][]Feature, w.Before+w.After+1)
	slots[w.Before] = targetFeatures(nil, &toks[i])
	for off := 1; off <= w.Before; off++ {
		j := i - off
		if j < lo {
			break
		}
		slots[w.Before-off] = appendFeatures(nil, &toks[j], true)
	}
	for off := 1; off <= w.After; off++ {
		j := i + off
		if j >= hi {
			break
		}
		known := !toks[j].Ambiguous()
		slots[w.Before+off] = appendFeatures(nil, &toks[j], known)
	}
	return slots
}

func (tg *tagger) decay(off int) float64 {
	switch {
	case off < 0:
		return math.Pow(tg.cfg.DecayBefore, float64(-off-1))
	case off > 0:
		return math.Pow(tg.cfg.DecayAfter, float64(off-1))
	}
	return 1
}

// predict runs the feature-conjunction model for toks[i]. ok is false when
// neither rules nor feature statistics give any signal.
func (tg *tagger) predict(toks []Token, lo, hi, i int) (Tag, float64, bool) {
	tok := &toks[i]
	slots := tg.window(toks, lo, hi, i)
	before := tg.cfg.Window.Before

	if tag, ok := tg.conjunction(tok, slots, before); ok {
		return tag, 1, true
	}

	scores := make([]float64, len(tok.Candidates))
	bestPrimary := make([]float64, len(tok.Candidates))
	for s, feats := range slots {
		off := s - before
		decay := tg.decay(off)
		clear(bestPrimary)
		for _, f := range feats {
			dist := tg.model.Features[FeatureAt{Feature: f, Offset: int8(off)}]
			if len(dist) == 0 {
				continue
			}
			base := WeightOf(tg.cfg.Weights.For(f.Kind) * decay)
			for c, cand := range tok.Candidates {
				p, ok := lookupWeight(dist, cand.Tag)
				if !ok {
					continue
				}
				v := base.Mul(p).Float()
				if f.Kind.Primary() {
					bestPrimary[c] = math.Max(bestPrimary[c], v)
				} else {
					scores[c] += v
				}
			}
		}
		for c := range scores {
			scores[c] += bestPrimary[c]
		}
	}

	var sum, freqSum float64
	for c, cand := range tok.Candidates {
		sum += scores[c]
		freqSum += tg.model.Frequencies[cand.Tag]
	}
	if sum == 0 {
		return tok.Tag, 0, false
	}

	blend := tg.cfg.FeatureBlend
	best, bestScore := 0, math.Inf(-1)
	var total float64
	for c, cand := range tok.Candidates {
		v := blend * scores[c] / sum
		if freqSum > 0 {
			v += (1 - blend) * tg.model.Frequencies[cand.Tag] / freqSum
		}
		scores[c] = v
		total += v
		if v > bestScore {
			best, bestScore = c, v
		}
	}
	conf := 0.0
	if total > 0 {
		conf = bestScore / total
	}
	return tok.Candidates[best].Tag, conf, true
}

// conjunction checks registered rules closest offset first. A deterministic
// rule or a forced exception returns at once; weighted rules accumulate.
func (tg *tagger) conjunction(tok *Token, slots [][]Feature, before int) (Tag, bool) {
	if len(tg.model.Rules) == 0 {
		return 0, false
	}
	word := tok.Lower()
	has := func(fa FeatureAt) bool {
		s := int(fa.Offset) + before
		if s < 0 || s >= len(slots) {
			return false
		}
		for _, f := range slots[s] {
			if f == fa.Feature {
				return true
			}
		}
		return false
	}

	weighted := make([]float64, len(tok.Candidates))
	fired := false
	for d := 0; d < len(slots); d++ {
		offs := []int{-d, d}
		if d == 0 {
			offs = offs[:1]
		}
		for _, off := range offs {
			s := off + before
			if s < 0 || s >= len(slots) {
				continue
			}
			for _, f := range slots[s] {
				for ri := range tg.model.Rules[f] {
					r := &tg.model.Rules[f][ri]
					if int(r.Anchor.Offset) != off {
						continue
					}
					matched := true
					for _, req := range r.Requires {
						if !has(req) {
							matched = false
							break
						}
					}
					if !matched {
						continue
					}
					if ex, ok := r.exception(word); ok {
						if ex.Skip {
							continue
						}
						if tok.HasPotential(ex.Tag) {
							return ex.Tag, true
						}
						continue
					}
					if r.Deterministic {
						if tok.HasPotential(r.Tag) {
							return r.Tag, true
						}
						continue
					}
					decay := tg.decay(off)
					for c, cand := range tok.Candidates {
						if w, ok := lookupWeight(r.Scores, cand.Tag); ok {
							weighted[c] += w.Float() * decay
							fired = true
						}
					}
				}
			}
		}
	}
	if !fired {
		return 0, false
	}
	best, bestScore := -1, 0.0
	for c, v := range weighted {
		if v > bestScore {
			best, bestScore = c, v
		}
	}
	if best < 0 {
		return 0, false
	}
	return tok.Candidates[best].Tag, true
}

func lookupWeight(dist []TagWeight, t Tag) (Weight, bool) {
	for _, tw := range dist {
		if tw.Tag == t {
			return tw.Weight, true
		}
	}
	return 0, false
}

// resolve fixes the token's tag and copies the lexical data of the chosen
// reading from the vocabulary.
func (t *Token) resolve(tag Tag, v Vocabulary) {
	t.Tag = tag
	id, ok := t.candidateID(tag)
	if !ok {
		return
	}
	t.ID = id
	tpl, ok := v.TokenByID(id)
	if !ok {
		return
	}
	t.Stem = tpl.Stem
	t.Categories = tpl.Categories
	t.Entities = tpl.Entities
	t.Pronoun = tpl.Pronoun
	t.Gender = tpl.Gender
}
