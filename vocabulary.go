package interpres

// Vocabulary is the read-only lookup store the pipeline consumes. It is
// loaded once by the caller and shared by every concurrent call; the
// pipeline never mutates it. Lexicon is the bundled implementation.
type Vocabulary interface {
	// LookupWord returns the canonical form of word and its candidate
	// readings.
	LookupWord(word string) (canonical string, cands []Candidate, ok bool)
	// TokenByID returns the token template stored under id.
	TokenByID(id uint32) (Token, bool)
	// CategoryRange returns the id range of a category path.
	CategoryRange(path string) (IDRange, bool)
	// EntityRange returns the id range of a named-entity path.
	EntityRange(path string) (IDRange, bool)
	// CategoryCode returns the classification code of a category id.
	CategoryCode(id uint32) string
	// MWE returns the multi-word-expression trie of the given kind. Trie
	// values are token ids.
	MWE(kind MWEKind) *Trie
	// Preprocess looks word up in the preprocessing hash.
	Preprocess(word string) (PreEntry, bool)
	// FutureVerbs returns the future-verb-phrase trie. Values are the tag
	// the closing verb must be able to take.
	FutureVerbs() *Trie
	// Model returns the tagger parameters.
	Model() *Model
	// Cohort returns the ids of open-class words of the given class whose
	// length falls in band.
	Cohort(class Class, band int) []uint32
	// IntentPatterns returns the intent trie. Values are IntentKinds.
	IntentPatterns() *Trie
}

// PreKind says what a preprocessing entry describes.
type PreKind uint8

const (
	PreContraction PreKind = iota + 1
	PreCurrency
	PreOrdinal
	PreTime
	PreUnit
	PreDecade
)

var preKindNames = map[string]PreKind{
	"contraction": PreContraction,
	"currency":    PreCurrency,
	"ordinal":     PreOrdinal,
	"time":        PreTime,
	"unit":        PreUnit,
	"decade":      PreDecade,
}

// PreEntry is one preprocessing-hash record. For contractions Value holds
// the expansion; for currencies the ISO code; for units the unit name.
type PreEntry struct {
	Kind  PreKind
	Tag   Tag
	Value string
}

// LengthBand buckets a word length for spelling cohorts.
func LengthBand(n int) int {
	switch {
	case n <= 3:
		return 0
	case n <= 5:
		return 1
	case n <= 8:
		return 2
	}
	return 3
}

// cohortClass maps a tag to the coarse class used to key spelling cohorts.
func cohortClass(t Tag) Class {
	switch c := t.Class(); c {
	case ClassNoun, ClassVerb, ClassAdjective, ClassAdverb:
		if t.IsOpenClass() {
			return c
		}
	}
	return ClassOther
}
