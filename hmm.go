package interpres

import "math"

// HMM is a first-order hidden Markov model over tags, trained by counting.
// Probabilities are kept in log space.
type HMM struct {
	initCounts  [numTags]int
	transCounts [numTags][numTags]int
	tagCounts   [numTags]int
	emitCounts  map[string]*[numTags]int
	tagVocab    [numTags]int
	sentences   int

	initial [numTags]float64
	trans   [numTags][numTags]float64
	seen    []Tag
}

func newHMM() *HMM {
	return &HMM{emitCounts: make(map[string]*[numTags]int)}
}

func (h *HMM) observe(sent []TaggedWord) {
	if len(sent) == 0 {
		return
	}
	h.sentences++
	h.initCounts[sent[0].Tag]++
	for i, tw := range sent {
		h.tagCounts[tw.Tag]++
		e := h.emitCounts[tw.Word]
		if e == nil {
			e = new([numTags]int)
			h.emitCounts[tw.Word] = e
		}
		if e[tw.Tag] == 0 {
			h.tagVocab[tw.Tag]++
		}
		e[tw.Tag]++
		if i > 0 {
			h.transCounts[sent[i-1].Tag][tw.Tag]++
		}
	}
}

// finish turns the raw counts into add-one smoothed log probabilities.
func (h *HMM) finish() {
	h.seen = h.seen[:0]
	for t := Tag(0); t < numTags; t++ {
		if h.tagCounts[t] > 0 {
			h.seen = append(h.seen, t)
		}
	}
	n := float64(len(h.seen))
	if n == 0 {
		n = 1
	}
	for t := Tag(0); t < numTags; t++ {
		h.initial[t] = math.Log((float64(h.initCounts[t]) + 1) / (float64(h.sentences) + n))
		out := 0
		for u := Tag(0); u < numTags; u++ {
			out += h.transCounts[t][u]
		}
		for u := Tag(0); u < numTags; u++ {
			h.trans[t][u] = math.Log((float64(h.transCounts[t][u]) + 1) / (float64(out) + n))
		}
	}
}

// Emission returns log P(word | tag). Unseen pairs are smoothed by the
// tag's observed vocabulary plus the global vocabulary size.
func (h *HMM) Emission(t Tag, word string) float64 {
	c := 0
	if e := h.emitCounts[word]; e != nil {
		c = e[t]
	}
	denom := float64(h.tagCounts[t] + h.tagVocab[t] + len(h.emitCounts))
	if denom == 0 {
		denom = 1
	}
	return math.Log((float64(c) + 1) / denom)
}

// Transition returns log P(next | prev).
func (h *HMM) Transition(prev, next Tag) float64 { return h.trans[prev][next] }

// TagProbability returns P(next | prev) in linear space.
func (h *HMM) TagProbability(prev, next Tag) float64 { return math.Exp(h.trans[prev][next]) }

// Trained reports whether the model saw any data.
func (h *HMM) Trained() bool { return h != nil && h.sentences > 0 }

// Viterbi returns the most likely tag for each word. cands restricts the
// states at each position; an empty set admits every tag seen in training.
// conf is the soft-max of the chosen state's score among its competitors.
func (h *HMM) Viterbi(words []string, cands [][]Tag) (tags []Tag, conf []float64) {
	n := len(words)
	if n == 0 || !h.Trained() {
		return nil, nil
	}
	states := make([][]Tag, n)
	for i := range words {
		if i < len(cands) && len(cands[i]) > 0 {
			states[i] = cands[i]
		} else {
			states[i] = h.seen
		}
	}

	delta := make([][]float64, n)
	back := make([][]int, n)
	delta[0] = make([]float64, len(states[0]))
	back[0] = make([]int, len(states[0]))
	for j, t := range states[0] {
		delta[0][j] = h.initial[t] + h.Emission(t, words[0])
	}
	for i := 1; i < n; i++ {
		delta[i] = make([]float64, len(states[i]))
		back[i] = make([]int, len(states[i]))
		for j, t := range states[i] {
			best, arg := math.Inf(-1), 0
			for k, p := range states[i-1] {
				if s := delta[i-1][k] + h.trans[p][t]; s > best {
					best, arg = s, k
				}
			}
			delta[i][j] = best + h.Emission(t, words[i])
			back[i][j] = arg
		}
	}

	path := make([]int, n)
	best := math.Inf(-1)
	for j, s := range delta[n-1] {
		if s > best {
			best, path[n-1] = s, j
		}
	}
	for i := n - 1; i > 0; i-- {
		path[i-1] = back[i][path[i]]
	}

	tags = make([]Tag, n)
	conf = make([]float64, n)
	for i := range path {
		tags[i] = states[i][path[i]]
		conf[i] = softmaxAt(delta[i], path[i])
	}
	return tags, conf
}

func softmaxAt(scores []float64, at int) float64 {
	peak := math.Inf(-1)
	for _, s := range scores {
		peak = math.Max(peak, s)
	}
	var sum float64
	for _, s := range scores {
		sum += math.Exp(s - peak)
	}
	if sum == 0 {
		return 0
	}
	return math.Exp(scores[at]-peak) / sum
}
