package interpres

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// TagWeight is one entry of a tag distribution.
type TagWeight struct {
	Tag    Tag
	Weight Weight
}

// RuleException overrides a conjunction rule for one target word: either
// the rule is skipped, or Tag is forced.
type RuleException struct {
	Word string
	Skip bool
	Tag  Tag
}

// ConjunctionRule pairs an anchor feature with sibling features that must
// all be present at fixed offsets relative to the target. A rule either
// names a deterministic Tag or contributes weighted Scores.
type ConjunctionRule struct {
	Anchor        FeatureAt
	Requires      []FeatureAt
	Deterministic bool
	Tag           Tag
	Scores        []TagWeight
	Exceptions    []RuleException
}

// exception returns the exception registered for word, if any.
func (r *ConjunctionRule) exception(word string) (RuleException, bool) {
	for _, e := range r.Exceptions {
		if e.Word == word {
			return e, true
		}
	}
	return RuleException{}, false
}

// Model holds the tagger parameters: unconditional tag frequencies,
// per-feature tag distributions, conjunction rules and the HMM tables.
type Model struct {
	Frequencies [numTags]float64
	Features    map[FeatureAt][]TagWeight
	Rules       map[Feature][]ConjunctionRule
	HMM         *HMM
}

// NewModel returns an empty model.
func NewModel() *Model {
	return &Model{
		Features: make(map[FeatureAt][]TagWeight),
		Rules:    make(map[Feature][]ConjunctionRule),
		HMM:      newHMM(),
	}
}

// AddRule registers r under its anchor feature.
func (m *Model) AddRule(r ConjunctionRule) {
	m.Rules[r.Anchor.Feature] = append(m.Rules[r.Anchor.Feature], r)
}

// TaggedWord is one word of a training sentence.
type TaggedWord struct {
	Word string
	Tag  Tag
}

// Train fills the frequency, feature and HMM tables from tagged sentences.
// build turns a training word into a token so that lexical attributes
// (pronoun descriptors) are available as features; it may return nil.
func (m *Model) Train(sentences [][]TaggedWord, window Window, build func(TaggedWord) *Token) {
	counts := make(map[FeatureAt]map[Tag]int)
	var tagTotals [numTags]int
	total := 0

	var feats []Feature
	for _, sent := range sentences {
		toks := make([]Token, len(sent))
		for i, tw := range sent {
			if tok := build(tw); tok != nil {
				toks[i] = *tok
			} else {
				toks[i] = Token{Word: tw.Word}
			}
			toks[i].Word = tw.Word
			toks[i].Tag = tw.Tag
			toks[i].Candidates = []Candidate{{Tag: tw.Tag}}
		}
		m.HMM.observe(sent)

		for i := range toks {
			target := toks[i].Tag
			tagTotals[target]++
			total++
			add := func(f Feature, off int) {
				key := FeatureAt{Feature: f, Offset: int8(off)}
				c := counts[key]
				if c == nil {
					c = make(map[Tag]int)
					counts[key] = c
				}
				c[target]++
			}
			feats = targetFeatures(feats, &toks[i])
			for _, f := range feats {
				add(f, 0)
			}
			for off := -1; off >= -window.Before && i+off >= 0; off-- {
				if toks[i+off].Tag.IsBoundary() {
					break
				}
				feats = appendFeatures(feats[:0], &toks[i+off], true)
				for _, f := range feats {
					add(f, off)
				}
			}
			for off := 1; off <= window.After && i+off < len(toks); off++ {
				if toks[i+off].Tag.IsBoundary() {
					break
				}
				feats = appendFeatures(feats[:0], &toks[i+off], true)
				for _, f := range feats {
					add(f, off)
				}
			}
		}
	}

	if total > 0 {
		for t := range tagTotals {
			m.Frequencies[t] = float64(tagTotals[t]) / float64(total)
		}
	}
	for key, c := range counts {
		sum := 0
		for _, n := range c {
			sum += n
		}
		dist := make([]TagWeight, 0, len(c))
		for t, n := range c {
			dist = append(dist, TagWeight{Tag: t, Weight: WeightOf(float64(n) / float64(sum))})
		}
		sort.Slice(dist, func(i, j int) bool { return dist[i].Tag < dist[j].Tag })
		m.Features[key] = dist
	}
	m.HMM.finish()
}

// ParseRule parses one rules.txt line:
//
//	word:to@-1 & tag:DT@1 => VB ! the=skip ! a=NN
//	tag:DT@-1 => NN:0.7 JJ:0.3
//
// The first feature is the anchor. A single bare tag is deterministic;
// TAG:weight pairs are weighted contributions.
func ParseRule(line string) (ConjunctionRule, error) {
	var r ConjunctionRule
	body, outcome, ok := strings.Cut(line, "=>")
	if !ok {
		return r, fmt.Errorf("rule %q: missing =>", line)
	}
	for i, part := range strings.Split(body, "&") {
		fa, err := parseFeatureAt(part)
		if err != nil {
			return r, fmt.Errorf("rule %q: %w", line, err)
		}
		if i == 0 {
			r.Anchor = fa
		} else {
			r.Requires = append(r.Requires, fa)
		}
	}

	parts := strings.Split(outcome, "!")
	fields := strings.Fields(parts[0])
	if len(fields) == 0 {
		return r, fmt.Errorf("rule %q: empty outcome", line)
	}
	if len(fields) == 1 && !strings.Contains(fields[0], ":") {
		t, err := ParseTag(fields[0])
		if err != nil {
			return r, fmt.Errorf("rule %q: %w", line, err)
		}
		r.Deterministic, r.Tag = true, t
	} else {
		for _, f := range fields {
			name, w, ok := strings.Cut(f, ":")
			if !ok {
				return r, fmt.Errorf("rule %q: bad score %q", line, f)
			}
			t, err := ParseTag(name)
			if err != nil {
				return r, fmt.Errorf("rule %q: %w", line, err)
			}
			v, err := strconv.ParseFloat(w, 64)
			if err != nil {
				return r, fmt.Errorf("rule %q: bad weight %q", line, w)
			}
			r.Scores = append(r.Scores, TagWeight{Tag: t, Weight: WeightOf(v)})
		}
	}

	for _, ex := range parts[1:] {
		word, action, ok := strings.Cut(strings.TrimSpace(ex), "=")
		if !ok {
			return r, fmt.Errorf("rule %q: bad exception %q", line, ex)
		}
		e := RuleException{Word: strings.ToLower(strings.TrimSpace(word))}
		action = strings.TrimSpace(action)
		if action == "skip" {
			e.Skip = true
		} else {
			t, err := ParseTag(action)
			if err != nil {
				return r, fmt.Errorf("rule %q: %w", line, err)
			}
			e.Tag = t
		}
		r.Exceptions = append(r.Exceptions, e)
	}
	return r, nil
}

func parseFeatureAt(s string) (FeatureAt, error) {
	s = strings.TrimSpace(s)
	at := strings.LastIndex(s, "@")
	if at < 0 {
		return FeatureAt{}, fmt.Errorf("feature %q: missing @offset", s)
	}
	off, err := strconv.Atoi(s[at+1:])
	if err != nil || off < -8 || off > 8 {
		return FeatureAt{}, fmt.Errorf("feature %q: bad offset", s)
	}
	f, err := ParseFeature(s[:at])
	if err != nil {
		return FeatureAt{}, err
	}
	return FeatureAt{Feature: f, Offset: int8(off)}, nil
}
