package interpres

import (
	"fmt"
	"strconv"
	"strings"
)

// Entry is one reading of a word as stored in lexicon.txt or the user
// lexicon database.
type Entry struct {
	Word string
	Tag  Tag
	// Stem is the word this one inflects from; empty for a base form.
	Stem       string
	Categories []string
	Entities   []string
	Pronoun    *Pronoun
	Gender     Gender
}

const entryFields = 6

// ParseEntry parses one lexicon line:
//
//	word|TAG|stem|categories|entities|attrs
//
// Only word and TAG are required. Categories and entities are
// comma-separated paths; attrs are space-separated key=value pairs
// (pron, person, number, gender).
func ParseEntry(line string) (*Entry, error) {
	return entryFromFields(strings.Split(line, "|"))
}

func entryFromFields(parts []string) (*Entry, error) {
	if len(parts) < 2 || len(parts) > entryFields {
		return nil, fmt.Errorf("entry %q: want word|TAG with at most %d fields", strings.Join(parts, "|"), entryFields)
	}
	field := func(i int) string {
		if i < len(parts) {
			return strings.TrimSpace(parts[i])
		}
		return ""
	}

	e := &Entry{Word: field(0), Stem: field(2)}
	if e.Word == "" {
		return nil, fmt.Errorf("entry %q: empty word", strings.Join(parts, "|"))
	}
	tag, err := ParseTag(field(1))
	if err != nil {
		return nil, fmt.Errorf("entry %q: %w", e.Word, err)
	}
	e.Tag = tag
	e.Categories = splitList(field(3))
	e.Entities = splitList(field(4))
	if err := e.parseAttrs(field(5)); err != nil {
		return nil, fmt.Errorf("entry %q: %w", e.Word, err)
	}
	return e, nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

var pronounCategories = map[string]PronounCategory{
	"personal":      PronounPersonal,
	"possessive":    PronounPossessive,
	"reflexive":     PronounReflexive,
	"demonstrative": PronounDemonstrative,
	"interrogative": PronounInterrogative,
	"relative":      PronounRelative,
	"indefinite":    PronounIndefinite,
}

func parseGender(s string) (Gender, error) {
	switch s {
	case "m":
		return GenderMasculine, nil
	case "f":
		return GenderFeminine, nil
	case "n":
		return GenderNeuter, nil
	case "":
		return GenderUnset, nil
	}
	return GenderUnset, fmt.Errorf("unknown gender %q", s)
}

func (e *Entry) parseAttrs(s string) error {
	var p Pronoun
	isPronoun := false
	for _, kv := range strings.Fields(s) {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			return fmt.Errorf("attribute %q: missing =", kv)
		}
		switch k {
		case "pron":
			c, ok := pronounCategories[v]
			if !ok {
				return fmt.Errorf("unknown pronoun category %q", v)
			}
			p.Category, isPronoun = c, true
		case "person":
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 || n > 3 {
				return fmt.Errorf("invalid person %q", v)
			}
			p.Person = uint8(n)
		case "number":
			switch v {
			case "sg":
				p.Number = Singular
			case "pl":
				p.Number = Plural
			default:
				return fmt.Errorf("invalid number %q", v)
			}
		case "gender":
			g, err := parseGender(v)
			if err != nil {
				return err
			}
			e.Gender, p.Gender = g, g
		default:
			return fmt.Errorf("unknown attribute %q", k)
		}
	}
	if isPronoun {
		e.Pronoun = &p
	}
	return nil
}

// Attrs formats the attribute field of e's lexicon line.
func (e *Entry) Attrs() string {
	var attrs []string
	if p := e.Pronoun; p != nil {
		attrs = append(attrs, "pron="+p.Category.String())
		if p.Person > 0 {
			attrs = append(attrs, "person="+strconv.Itoa(int(p.Person)))
		}
		switch p.Number {
		case Singular:
			attrs = append(attrs, "number=sg")
		case Plural:
			attrs = append(attrs, "number=pl")
		}
	}
	if e.Gender != GenderUnset {
		attrs = append(attrs, "gender="+e.Gender.String())
	}
	return strings.Join(attrs, " ")
}

// String formats e back into its lexicon line.
func (e *Entry) String() string {
	return strings.Join([]string{
		e.Word, e.Tag.String(), e.Stem,
		strings.Join(e.Categories, ","), strings.Join(e.Entities, ","),
		e.Attrs(),
	}, "|")
}
