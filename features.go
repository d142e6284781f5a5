package interpres

import (
	"fmt"
	"strconv"
	"strings"
)

// FeatureKind enumerates the views a token is expanded into for tagging.
type FeatureKind uint8

const (
	FeatWord FeatureKind = iota
	FeatTag
	FeatWordGroup
	FeatTagGroup
	FeatSuffix
	FeatPronounCategory
	FeatPronounPerson
	FeatPronounNumber

	numFeatureKinds
)

var featureKindNames = [numFeatureKinds]string{
	FeatWord:            "word",
	FeatTag:             "tag",
	FeatWordGroup:       "group",
	FeatTagGroup:        "tgroup",
	FeatSuffix:          "suffix",
	FeatPronounCategory: "pcat",
	FeatPronounPerson:   "pperson",
	FeatPronounNumber:   "pnum",
}

// Primary reports whether features of this kind are exact (word or tag)
// rather than coarse.
func (k FeatureKind) Primary() bool {
	return k == FeatWord || k == FeatTag
}

// Feature is a closed sum type: Kind selects which payload is meaningful.
// Text carries words and suffixes; Code carries tags, groups and pronoun
// attributes. Features are comparable and used as map keys.
type Feature struct {
	Kind FeatureKind
	Text string
	Code uint8
}

// FeatureAt is a feature observed at an offset relative to the target.
type FeatureAt struct {
	Feature Feature
	Offset  int8
}

func (f Feature) String() string {
	if f.Kind >= numFeatureKinds {
		return "invalid"
	}
	name := featureKindNames[f.Kind]
	switch f.Kind {
	case FeatWord, FeatSuffix:
		return name + ":" + f.Text
	case FeatTag:
		return name + ":" + Tag(f.Code).String()
	case FeatWordGroup:
		return name + ":" + WordGroup(f.Code).String()
	case FeatTagGroup:
		return name + ":" + TagGroup(f.Code).String()
	case FeatPronounCategory:
		return name + ":" + PronounCategory(f.Code).String()
	case FeatPronounPerson:
		return name + ":" + strconv.Itoa(int(f.Code))
	case FeatPronounNumber:
		if Number(f.Code) == Plural {
			return name + ":pl"
		}
		return name + ":sg"
	}
	return "invalid"
}

// ParseFeature parses the "kind:value" notation used by rules.txt.
func ParseFeature(s string) (Feature, error) {
	kind, val, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || val == "" {
		return Feature{}, fmt.Errorf("feature %q: want kind:value", s)
	}
	switch kind {
	case "word":
		return Feature{Kind: FeatWord, Text: strings.ToLower(val)}, nil
	case "suffix":
		return Feature{Kind: FeatSuffix, Text: val}, nil
	case "tag":
		t, err := ParseTag(val)
		if err != nil {
			return Feature{}, err
		}
		return Feature{Kind: FeatTag, Code: uint8(t)}, nil
	case "group":
		g, ok := ParseWordGroup(val)
		if !ok {
			return Feature{}, fmt.Errorf("unknown word group %q", val)
		}
		return Feature{Kind: FeatWordGroup, Code: uint8(g)}, nil
	case "tgroup":
		g, ok := ParseTagGroup(val)
		if !ok {
			return Feature{}, fmt.Errorf("unknown tag group %q", val)
		}
		return Feature{Kind: FeatTagGroup, Code: uint8(g)}, nil
	case "pcat":
		for c, name := range pronounCategoryNames {
			if c != 0 && name == val {
				return Feature{Kind: FeatPronounCategory, Code: uint8(c)}, nil
			}
		}
		return Feature{}, fmt.Errorf("unknown pronoun category %q", val)
	case "pperson":
		n, err := strconv.Atoi(val)
		if err != nil || n < 1 || n > 3 {
			return Feature{}, fmt.Errorf("bad pronoun person %q", val)
		}
		return Feature{Kind: FeatPronounPerson, Code: uint8(n)}, nil
	case "pnum":
		switch val {
		case "sg":
			return Feature{Kind: FeatPronounNumber, Code: uint8(Singular)}, nil
		case "pl":
			return Feature{Kind: FeatPronounNumber, Code: uint8(Plural)}, nil
		}
		return Feature{}, fmt.Errorf("bad pronoun number %q", val)
	}
	return Feature{}, fmt.Errorf("unknown feature kind %q", kind)
}

// WordGroup is a closed list of function words sharing a tagging role.
type WordGroup uint8

const (
	WordModal WordGroup = iota + 1
	WordPassive
	WordAuxiliary
	WordPerfect
	WordTemporal
	WordCommonAdverb
)

var wordGroupNames = [...]string{
	WordModal:        "modal",
	WordPassive:      "passive",
	WordAuxiliary:    "auxiliary",
	WordPerfect:      "perfect",
	WordTemporal:     "temporal",
	WordCommonAdverb: "adverb",
}

func (g WordGroup) String() string {
	if int(g) < len(wordGroupNames) && g != 0 {
		return wordGroupNames[g]
	}
	return "none"
}

// ParseWordGroup returns the group named s.
func ParseWordGroup(s string) (WordGroup, bool) {
	for g, name := range wordGroupNames {
		if g != 0 && name == s {
			return WordGroup(g), true
		}
	}
	return 0, false
}

var wordGroupLists = map[WordGroup][]string{
	WordModal:        {"can", "could", "may", "might", "must", "shall", "should", "will", "would", "ought"},
	WordPassive:      {"be", "been", "being", "is", "are", "was", "were", "am", "get", "gets", "got", "gotten"},
	WordAuxiliary:    {"do", "does", "did", "be", "am", "is", "are", "was", "were", "been", "have", "has", "had"},
	WordPerfect:      {"have", "has", "had", "having"},
	WordTemporal:     {"now", "then", "today", "tonight", "yesterday", "tomorrow", "soon", "already", "yet", "still", "always", "never", "often", "sometimes", "later", "recently"},
	WordCommonAdverb: {"very", "really", "just", "also", "too", "so", "quite", "only", "even", "almost", "not"},
}

var wordGroupIndex = func() map[string][]WordGroup {
	m := make(map[string][]WordGroup)
	for g := WordModal; g <= WordCommonAdverb; g++ {
		for _, w := range wordGroupLists[g] {
			m[w] = append(m[w], g)
		}
	}
	return m
}()

// WordGroups returns the groups a lower-case word belongs to.
func WordGroups(word string) []WordGroup {
	return wordGroupIndex[word]
}

// inWordGroup reports whether word belongs to g.
func inWordGroup(word string, g WordGroup) bool {
	for _, have := range wordGroupIndex[word] {
		if have == g {
			return true
		}
	}
	return false
}

// suffixTable is ordered longest first; the first match wins.
var suffixTable = []string{
	"ization", "ational", "fulness", "ousness", "iveness",
	"ingly", "ation", "ement", "ously",
	"ness", "ment", "tion", "sion", "able", "ible", "less", "ship", "hood", "ward", "wise", "ical", "ally",
	"ful", "ous", "ive", "ing", "ity", "ism", "ist", "ize", "ise", "ent", "ant", "est", "ers", "ies", "ied",
	"al", "ed", "er", "ly", "en", "es", "ic",
	"s",
}

// SuffixClass returns the longest suffix of word found in the suffix
// table, requiring at least two letters of stem.
func SuffixClass(word string) string {
	for _, suf := range suffixTable {
		if len(word) >= len(suf)+2 && strings.HasSuffix(word, suf) {
			return suf
		}
	}
	return ""
}

// appendFeatures expands tok into every applicable feature view. tagKnown
// says whether tok's tag is final; unresolved tokens contribute tag groups
// only when all of their candidates agree.
func appendFeatures(dst []Feature, tok *Token, tagKnown bool) []Feature {
	word := tok.Lower()
	for k := FeatureKind(0); k < numFeatureKinds; k++ {
		switch k {
		case FeatWord:
			if word != "" {
				dst = append(dst, Feature{Kind: FeatWord, Text: word})
			}
		case FeatTag:
			if tagKnown {
				dst = append(dst, Feature{Kind: FeatTag, Code: uint8(tok.Tag)})
			}
		case FeatWordGroup:
			for _, g := range WordGroups(word) {
				dst = append(dst, Feature{Kind: FeatWordGroup, Code: uint8(g)})
			}
		case FeatTagGroup:
			for _, g := range sharedGroups(tok, tagKnown) {
				dst = append(dst, Feature{Kind: FeatTagGroup, Code: uint8(g)})
			}
		case FeatSuffix:
			if suf := SuffixClass(word); suf != "" {
				dst = append(dst, Feature{Kind: FeatSuffix, Text: suf})
			}
		case FeatPronounCategory:
			if tok.Pronoun != nil && tok.Pronoun.Category != 0 {
				dst = append(dst, Feature{Kind: FeatPronounCategory, Code: uint8(tok.Pronoun.Category)})
			}
		case FeatPronounPerson:
			if tok.Pronoun != nil && tok.Pronoun.Person != 0 {
				dst = append(dst, Feature{Kind: FeatPronounPerson, Code: tok.Pronoun.Person})
			}
		case FeatPronounNumber:
			if tok.Pronoun != nil && tok.Pronoun.Number != NumberUnset {
				dst = append(dst, Feature{Kind: FeatPronounNumber, Code: uint8(tok.Pronoun.Number)})
			}
		}
	}
	return dst
}

// sharedGroups returns the tag groups of a token's tag, or for an
// unresolved token the groups common to all of its candidates.
func sharedGroups(tok *Token, tagKnown bool) []TagGroup {
	if tagKnown {
		return tok.Tag.Groups()
	}
	if len(tok.Candidates) == 0 {
		return nil
	}
	var out []TagGroup
	for _, g := range tok.Candidates[0].Tag.Groups() {
		all := true
		for _, c := range tok.Candidates[1:] {
			if !hasGroup(c.Tag, g) {
				all = false
				break
			}
		}
		if all {
			out = append(out, g)
		}
	}
	return out
}

func hasGroup(t Tag, g TagGroup) bool {
	for _, have := range t.Groups() {
		if have == g {
			return true
		}
	}
	return false
}

// targetFeatures are the views of the token being tagged: everything but
// its (undecided) tag.
func targetFeatures(dst []Feature, tok *Token) []Feature {
	all := appendFeatures(dst[:0], tok, false)
	out := all[:0]
	for _, f := range all {
		if f.Kind != FeatTagGroup {
			out = append(out, f)
		}
	}
	return out
}
