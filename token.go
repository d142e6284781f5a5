package interpres

import "strings"

// Candidate is one (tag, vocabulary id) reading of a word.
type Candidate struct {
	Tag Tag    `json:"tag"`
	ID  uint32 `json:"id"`
}

// Gender is a grammatical gender.
type Gender uint8

const (
	GenderUnset Gender = iota
	GenderMasculine
	GenderFeminine
	GenderNeuter
)

func (g Gender) String() string {
	switch g {
	case GenderMasculine:
		return "m"
	case GenderFeminine:
		return "f"
	case GenderNeuter:
		return "n"
	}
	return ""
}

// PronounCategory classifies pronouns.
type PronounCategory uint8

const (
	PronounPersonal PronounCategory = iota + 1
	PronounPossessive
	PronounReflexive
	PronounDemonstrative
	PronounInterrogative
	PronounRelative
	PronounIndefinite
)

var pronounCategoryNames = [...]string{
	PronounPersonal:      "personal",
	PronounPossessive:    "possessive",
	PronounReflexive:     "reflexive",
	PronounDemonstrative: "demonstrative",
	PronounInterrogative: "interrogative",
	PronounRelative:      "relative",
	PronounIndefinite:    "indefinite",
}

func (c PronounCategory) String() string {
	if int(c) < len(pronounCategoryNames) && c != 0 {
		return pronounCategoryNames[c]
	}
	return ""
}

// Number is grammatical number.
type Number uint8

const (
	NumberUnset Number = iota
	Singular
	Plural
)

// Pronoun describes a pronoun's category, person, number and gender.
type Pronoun struct {
	Category PronounCategory `json:"category"`
	Person   uint8           `json:"person"`
	Number   Number          `json:"number"`
	Gender   Gender          `json:"gender"`
}

// LiteralKind says what a synthesized literal holds.
type LiteralKind uint8

const (
	LiteralNumber LiteralKind = iota + 1
	LiteralOrdinal
	LiteralDecade
	LiteralTime
	LiteralDuration
	LiteralDate
	LiteralMoney
)

// Literal is the inner value of a synthesized numeric, date or time token.
// Relative is -1 for past references, +1 for future ones.
type Literal struct {
	Kind     LiteralKind `json:"kind"`
	Value    float64     `json:"value"`
	Unit     string      `json:"unit,omitempty"`
	Relative int8        `json:"relative,omitempty"`
}

// Token is one unit of tokenized input.
type Token struct {
	// Text is the surface text the token was read from. Tokens produced by
	// expanding a contraction leave it empty on all but the first token.
	Text string `json:"text"`
	// Word is the normalized lookup form.
	Word       string      `json:"word"`
	ID         uint32      `json:"id"`
	Stem       uint32      `json:"stem"`
	Tag        Tag         `json:"tag"`
	Candidates []Candidate `json:"candidates,omitempty"`
	Categories []uint32    `json:"categories,omitempty"`
	Entities   []uint32    `json:"entities,omitempty"`
	Pronoun    *Pronoun    `json:"pronoun,omitempty"`
	Gender     Gender      `json:"gender,omitempty"`
	Possessive bool        `json:"possessive,omitempty"`
	Negative   bool        `json:"negative,omitempty"`
	Antecedent string      `json:"antecedent,omitempty"`
	Literal    *Literal    `json:"literal,omitempty"`
	Correction string      `json:"correction,omitempty"`
	Confidence float64     `json:"confidence,omitempty"`
}

// PotentialTags lists the tags the token could take before tagging.
func (t *Token) PotentialTags() []Tag {
	tags := make([]Tag, 0, len(t.Candidates))
	for _, c := range t.Candidates {
		tags = append(tags, c.Tag)
	}
	return tags
}

// HasPotential reports whether tag is among the token's candidates.
func (t *Token) HasPotential(tag Tag) bool {
	for _, c := range t.Candidates {
		if c.Tag == tag {
			return true
		}
	}
	return false
}

// Ambiguous reports whether the tagger has to decide this token.
func (t *Token) Ambiguous() bool {
	return len(t.Candidates) > 1 || t.Tag == TagFW
}

// Lower returns the lower-cased word.
func (t *Token) Lower() string {
	return strings.ToLower(t.Word)
}

// candidateID returns the vocabulary id paired with tag.
func (t *Token) candidateID(tag Tag) (uint32, bool) {
	for _, c := range t.Candidates {
		if c.Tag == tag {
			return c.ID, true
		}
	}
	return 0, false
}

// MWEKind selects one of the two multi-word-expression tries.
type MWEKind uint8

const (
	// MWEStandard collapses spans into the logical words the interpreter reads.
	MWEStandard MWEKind = iota
	// MWEScoring collapses spans for category scoring only.
	MWEScoring
)

// MWEEntry is one logical word of an MWE view: either the flat token at Pos
// or, when Override is set, a synthesized token covering Span flat tokens.
type MWEEntry struct {
	Pos      int    `json:"pos"`
	Span     int    `json:"span"`
	Override *Token `json:"override,omitempty"`
}

// TokenizedInput is the tokenizer's output.
type TokenizedInput struct {
	Tokens   []Token    `json:"tokens"`
	Standard []MWEEntry `json:"standard"`
	Scoring  []MWEEntry `json:"scoring"`
}

// Logical returns the logical words of view. Entries without an override
// alias the flat tokens, so later mutations of Tokens show through.
func (in *TokenizedInput) Logical(view []MWEEntry) []*Token {
	out := make([]*Token, 0, len(view))
	for i := range view {
		e := &view[i]
		if e.Override != nil {
			out = append(out, e.Override)
			continue
		}
		if !invariant(e.Pos >= 0 && e.Pos < len(in.Tokens), "mwe entry outside token list") {
			continue
		}
		out = append(out, &in.Tokens[e.Pos])
	}
	return out
}

// Interpretation is the result of one pipeline call.
type Interpretation struct {
	Scores    map[string]float64 `json:"scores"`
	Tokens    []Token            `json:"tokens"`
	MWETokens []Token            `json:"mwe_tokens"`
	Phrases   []Phrase           `json:"phrases"`
}
