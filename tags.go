package interpres

import (
	"encoding/json"
	"fmt"
)

// Tag is a part-of-speech tag. The zero value is TagFW, the tag given to
// foreign or unknown words.
type Tag uint8

const (
	TagFW Tag = iota
	TagNN
	TagNNS
	TagNNP
	TagNNPS
	TagVB
	TagVBD
	TagVBG
	TagVBN
	TagVBP
	TagVBZ
	TagVBF  // fused future verb ("will go")
	TagVBPP // fused present perfect ("have eaten")
	TagVBDP // fused past perfect ("had eaten")
	TagMD
	TagJJ
	TagJJR
	TagJJS
	TagRB
	TagRBR
	TagRBS
	TagPRP
	TagPRPS
	TagDT
	TagPDT
	TagIN
	TagTO
	TagCC
	TagCD
	TagEX
	TagRP
	TagUH
	TagWDT
	TagWP
	TagWPS
	TagWRB
	TagPOS
	TagComma
	TagSemicolon
	TagColon
	TagStop
	TagQuote
	TagOpen
	TagClose
	TagDash
	TagSym
	TagLB
	TagSysPeriod
	TagSysWeekday
	TagSysMonth
	TagSysCurrency
	TagSysDecade
	TagSysDuration
	TagSysDate
	TagSysDatePast
	TagSysDateFuture
	TagSysTime
	TagSysMoney

	numTags
)

var tagNames = [numTags]string{
	TagFW:            "FW",
	TagNN:            "NN",
	TagNNS:           "NNS",
	TagNNP:           "NNP",
	TagNNPS:          "NNPS",
	TagVB:            "VB",
	TagVBD:           "VBD",
	TagVBG:           "VBG",
	TagVBN:           "VBN",
	TagVBP:           "VBP",
	TagVBZ:           "VBZ",
	TagVBF:           "VBF",
	TagVBPP:          "VBPP",
	TagVBDP:          "VBDP",
	TagMD:            "MD",
	TagJJ:            "JJ",
	TagJJR:           "JJR",
	TagJJS:           "JJS",
	TagRB:            "RB",
	TagRBR:           "RBR",
	TagRBS:           "RBS",
	TagPRP:           "PRP",
	TagPRPS:          "PRP$",
	TagDT:            "DT",
	TagPDT:           "PDT",
	TagIN:            "IN",
	TagTO:            "TO",
	TagCC:            "CC",
	TagCD:            "CD",
	TagEX:            "EX",
	TagRP:            "RP",
	TagUH:            "UH",
	TagWDT:           "WDT",
	TagWP:            "WP",
	TagWPS:           "WP$",
	TagWRB:           "WRB",
	TagPOS:           "POS",
	TagComma:         ",",
	TagSemicolon:     ";",
	TagColon:         ":",
	TagStop:          ".",
	TagQuote:         "\"",
	TagOpen:          "(",
	TagClose:         ")",
	TagDash:          "--",
	TagSym:           "SYM",
	TagLB:            "LB",
	TagSysPeriod:     "SYS_PERIOD",
	TagSysWeekday:    "SYS_WEEKDAY",
	TagSysMonth:      "SYS_MONTH",
	TagSysCurrency:   "SYS_CURRENCY",
	TagSysDecade:     "SYS_DECADE",
	TagSysDuration:   "SYS_DURATION",
	TagSysDate:       "SYS_DATE",
	TagSysDatePast:   "SYS_DATE_PAST",
	TagSysDateFuture: "SYS_DATE_FUTURE",
	TagSysTime:       "SYS_TIME",
	TagSysMoney:      "SYS_MONEY",
}

var tagsByName = func() map[string]Tag {
	m := make(map[string]Tag, numTags)
	for t, name := range tagNames {
		m[name] = Tag(t)
	}
	return m
}()

// ParseTag returns the tag named s.
func ParseTag(s string) (Tag, error) {
	if t, ok := tagsByName[s]; ok {
		return t, nil
	}
	return TagFW, fmt.Errorf("unknown tag %q", s)
}

// String returns the tag's conventional name.
func (t Tag) String() string {
	if t >= numTags {
		return fmt.Sprintf("Tag(%d)", uint8(t))
	}
	return tagNames[t]
}

// MarshalJSON encodes the tag as its name.
func (t Tag) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON decodes a tag name.
func (t *Tag) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := ParseTag(s)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// IsNoun reports whether t is a common or proper noun tag.
func (t Tag) IsNoun() bool {
	return t >= TagNN && t <= TagNNPS
}

// IsProperNoun reports whether t is NNP or NNPS.
func (t Tag) IsProperNoun() bool {
	return t == TagNNP || t == TagNNPS
}

// IsPlural reports whether t marks a plural noun.
func (t Tag) IsPlural() bool {
	return t == TagNNS || t == TagNNPS
}

// IsVerb reports whether t is a lexical or fused verb tag.
func (t Tag) IsVerb() bool {
	return t >= TagVB && t <= TagVBDP
}

// IsPast reports whether t marks past tense or perfect aspect.
func (t Tag) IsPast() bool {
	return t == TagVBD || t == TagVBN || t == TagVBDP || t == TagVBPP
}

// IsSystem reports whether t is one of the synthesized date, time and
// money tags.
func (t Tag) IsSystem() bool {
	return t >= TagSysPeriod && t <= TagSysMoney
}

// IsBoundary reports whether t ends a sentence.
func (t Tag) IsBoundary() bool {
	return t == TagStop || t == TagLB
}

// IsPunct reports whether t is punctuation or a line break.
func (t Tag) IsPunct() bool {
	return t >= TagComma && t <= TagLB
}

// IsOpenClass reports whether t belongs to a class that admits new words.
func (t Tag) IsOpenClass() bool {
	return t.IsNoun() || (t >= TagVB && t <= TagVBZ) || (t >= TagJJ && t <= TagRBS)
}

// Class is the coarse word class the interpreter dispatches on.
type Class uint8

const (
	ClassOther Class = iota
	ClassNoun
	ClassVerb
	ClassAdjective
	ClassAdverb
	ClassPreposition
	ClassDeterminer
	ClassPronoun
	ClassConjunction
	ClassSeparator
	ClassStop
	ClassNoise
)

var classNames = [...]string{
	ClassOther:       "other",
	ClassNoun:        "noun",
	ClassVerb:        "verb",
	ClassAdjective:   "adjective",
	ClassAdverb:      "adverb",
	ClassPreposition: "preposition",
	ClassDeterminer:  "determiner",
	ClassPronoun:     "pronoun",
	ClassConjunction: "conjunction",
	ClassSeparator:   "separator",
	ClassStop:        "stop",
	ClassNoise:       "noise",
}

func (c Class) String() string {
	if int(c) < len(classNames) {
		return classNames[c]
	}
	return "other"
}

// Class maps t to its coarse class.
func (t Tag) Class() Class {
	switch {
	case t.IsNoun(), t == TagCD, t == TagEX, t.IsSystem():
		return ClassNoun
	case t.IsVerb(), t == TagMD:
		return ClassVerb
	}
	switch t {
	case TagJJ, TagJJR, TagJJS:
		return ClassAdjective
	case TagRB, TagRBR, TagRBS, TagRP, TagWRB:
		return ClassAdverb
	case TagIN, TagTO:
		return ClassPreposition
	case TagDT, TagPDT, TagWDT, TagWPS:
		return ClassDeterminer
	case TagPRP, TagPRPS, TagWP:
		return ClassPronoun
	case TagCC:
		return ClassConjunction
	case TagComma, TagSemicolon, TagColon:
		return ClassSeparator
	case TagStop, TagLB:
		return ClassStop
	case TagQuote, TagOpen, TagClose, TagDash, TagSym, TagUH, TagPOS:
		return ClassNoise
	}
	return ClassOther
}

// TagGroup is a coarse tag family used as a tagger feature.
type TagGroup uint8

const (
	GroupNoun TagGroup = iota + 1
	GroupVerb
	GroupBaseVerb
	GroupCurrentVerb
	GroupPastVerb
	GroupAdverb
	GroupAdjective
	GroupPronoun
)

var tagGroupNames = [...]string{
	GroupNoun:        "noun",
	GroupVerb:        "verb",
	GroupBaseVerb:    "base-verb",
	GroupCurrentVerb: "current-verb",
	GroupPastVerb:    "past-verb",
	GroupAdverb:      "adverb",
	GroupAdjective:   "adjective",
	GroupPronoun:     "pronoun",
}

func (g TagGroup) String() string {
	if int(g) < len(tagGroupNames) && g != 0 {
		return tagGroupNames[g]
	}
	return "none"
}

// ParseTagGroup returns the group named s.
func ParseTagGroup(s string) (TagGroup, bool) {
	for g, name := range tagGroupNames {
		if g != 0 && name == s {
			return TagGroup(g), true
		}
	}
	return 0, false
}

var tagGroups = func() [numTags][]TagGroup {
	var out [numTags][]TagGroup
	for t := Tag(0); t < numTags; t++ {
		switch {
		case t.IsNoun():
			out[t] = []TagGroup{GroupNoun}
		case t == TagVB:
			out[t] = []TagGroup{GroupVerb, GroupBaseVerb}
		case t == TagVBP || t == TagVBZ || t == TagVBG:
			out[t] = []TagGroup{GroupVerb, GroupCurrentVerb}
		case t == TagVBD || t == TagVBN || t == TagVBPP || t == TagVBDP:
			out[t] = []TagGroup{GroupVerb, GroupPastVerb}
		case t == TagVBF:
			out[t] = []TagGroup{GroupVerb}
		case t == TagRB || t == TagRBR || t == TagRBS:
			out[t] = []TagGroup{GroupAdverb}
		case t == TagJJ || t == TagJJR || t == TagJJS:
			out[t] = []TagGroup{GroupAdjective}
		case t == TagPRP || t == TagPRPS:
			out[t] = []TagGroup{GroupPronoun}
		}
	}
	return out
}()

// Groups returns the coarse groups t belongs to. The slice is shared and
// must not be modified.
func (t Tag) Groups() []TagGroup {
	if t >= numTags {
		return nil
	}
	return tagGroups[t]
}
