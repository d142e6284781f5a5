package interpres

import "encoding/json"

// Tense of a phrase.
type Tense uint8

const (
	TenseUndetermined Tense = iota
	TensePast
	TensePresent
	TenseFuture
)

// Person is the grammatical person of a phrase.
type Person uint8

const (
	PersonUndetermined Person = iota
	PersonFirst
	PersonSecond
	PersonThird
)

// Classification is the speech-act class of a phrase.
type Classification uint8

const (
	ClassificationUndetermined Classification = iota
	Imperative
	Interrogative
	Declarative
	Conversational
	Exclamatory
)

// IntentKind is the pragmatic intent matched in a phrase.
type IntentKind uint8

const (
	IntentNeutral IntentKind = iota
	IntentAcknowledgment
	IntentAffirmation
	IntentNegation
	IntentRejection
	IntentRequest
	IntentEmphasis
	IntentHesitation

	numIntents
)

// SplitKind records why a phrase was split off its predecessor.
type SplitKind uint8

const (
	SplitPreposition SplitKind = iota + 1
	SplitSeparator
	SplitAdverb
	SplitDeterminer
	SplitSpanStart
	SplitHeadMove
)

var (
	tenseNames          = [...]string{"undetermined", "past", "present", "future"}
	personNames         = [...]string{"undetermined", "first", "second", "third"}
	classificationNames = [...]string{"undetermined", "imperative", "interrogative", "declarative", "conversational", "exclamatory"}
	intentNames         = [numIntents]string{"neutral", "acknowledgment", "affirmation", "negation", "rejection", "request", "emphasis", "hesitation"}
	splitNames          = [...]string{"", "preposition", "separator", "adverb", "determiner", "span-start", "head-move"}
)

func enumName(names []string, i int) string {
	if i >= 0 && i < len(names) {
		return names[i]
	}
	return "unknown"
}

func (t Tense) String() string          { return enumName(tenseNames[:], int(t)) }
func (p Person) String() string         { return enumName(personNames[:], int(p)) }
func (c Classification) String() string { return enumName(classificationNames[:], int(c)) }
func (k IntentKind) String() string     { return enumName(intentNames[:], int(k)) }
func (k SplitKind) String() string      { return enumName(splitNames[:], int(k)) }

func (t Tense) MarshalJSON() ([]byte, error)          { return json.Marshal(t.String()) }
func (p Person) MarshalJSON() ([]byte, error)         { return json.Marshal(p.String()) }
func (c Classification) MarshalJSON() ([]byte, error) { return json.Marshal(c.String()) }
func (k IntentKind) MarshalJSON() ([]byte, error)     { return json.Marshal(k.String()) }
func (k SplitKind) MarshalJSON() ([]byte, error)      { return json.Marshal(k.String()) }

// ParseIntentKind returns the intent named s.
func ParseIntentKind(s string) (IntentKind, bool) {
	for k, name := range intentNames {
		if name == s {
			return IntentKind(k), true
		}
	}
	return IntentNeutral, false
}

// Intent is the best-scoring intent of a phrase. Score is the matched
// length over the phrase's token count.
type Intent struct {
	Kind  IntentKind `json:"kind"`
	Score float64    `json:"score"`
}

// Range is a half-open range of logical token indices.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of tokens in r.
func (r Range) Len() int { return r.End - r.Start }

// SplitMarker says where and why a phrase was split from the one before.
type SplitMarker struct {
	Index int       `json:"index"`
	Kind  SplitKind `json:"kind"`
}

// Role is how a noun or verb group hangs in its phrase.
type Role uint8

const (
	RoleHead Role = iota
	RoleSibling
	RoleModifier
)

var roleNames = [...]string{"head", "sibling", "modifier"}

func (r Role) String() string               { return enumName(roleNames[:], int(r)) }
func (r Role) MarshalJSON() ([]byte, error) { return json.Marshal(r.String()) }

// Noun is a noun group. Token fields are logical token indices; Siblings
// and Modifiers index the owning phrase's Nouns.
type Noun struct {
	Head         int         `json:"head"`
	Role         Role        `json:"role"`
	Parent       int         `json:"parent"`
	Determiners  []int       `json:"determiners,omitempty"`
	Prepositions []int       `json:"prepositions,omitempty"`
	Adjectives   []Adjective `json:"adjectives,omitempty"`
	Compound     []int       `json:"compound,omitempty"`
	Modifiers    []int       `json:"modifiers,omitempty"`
	Siblings     []int       `json:"siblings,omitempty"`
	Excluded     bool        `json:"excluded,omitempty"`
}

// Verb is a verb group. Siblings and Modifiers index the owning phrase's
// Verbs.
type Verb struct {
	Head         int      `json:"head"`
	Role         Role     `json:"role"`
	Parent       int      `json:"parent"`
	Auxiliaries  []int    `json:"auxiliaries,omitempty"`
	Prepositions []int    `json:"prepositions,omitempty"`
	Adverbs      []Adverb `json:"adverbs,omitempty"`
	Compound     []int    `json:"compound,omitempty"`
	Modifiers    []int    `json:"modifiers,omitempty"`
	Siblings     []int    `json:"siblings,omitempty"`
	Excluded     bool     `json:"excluded,omitempty"`
	Negative     bool     `json:"negative,omitempty"`
}

// Adjective is an adjective attached to a noun. Verbs are the predicative
// verbs that introduced it.
type Adjective struct {
	Head       int      `json:"head"`
	Categories []string `json:"categories,omitempty"`
	Verbs      []int    `json:"verbs,omitempty"`
	Adverbs    []Adverb `json:"adverbs,omitempty"`
}

// Adverb is an adverb attached to a verb or an adjective.
type Adverb struct {
	Head       int      `json:"head"`
	Categories []string `json:"categories,omitempty"`
}

// Phrase is one clause of the input.
type Phrase struct {
	Range          Range          `json:"range"`
	Split          *SplitMarker   `json:"split,omitempty"`
	Nouns          []Noun         `json:"nouns,omitempty"`
	Verbs          []Verb         `json:"verbs,omitempty"`
	Tense          Tense          `json:"tense"`
	Person         Person         `json:"person"`
	Classification Classification `json:"classification"`
	Intent         Intent         `json:"intent"`
}

// HasVerb reports whether p holds a verb group.
func (p *Phrase) HasVerb() bool { return len(p.Verbs) > 0 }

// HasNoun reports whether p holds a noun group.
func (p *Phrase) HasNoun() bool { return len(p.Nouns) > 0 }
