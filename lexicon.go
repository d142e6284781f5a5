package interpres

import "strings"

type wordEntry struct {
	canonical string
	cands     []Candidate
}

type cohortKey struct {
	class Class
	band  int
}

// Lexicon is the bundled Vocabulary: a word list with categories, named
// entities, MWE and future-verb tries, a preprocessing table, intent
// patterns and a trained tagger model. It is immutable once loaded and
// safe for concurrent readers.
type Lexicon struct {
	categories *CategoryTree
	entities   *CategoryTree

	words     map[string]*wordEntry
	templates []Token // by id; id 0 is unused
	stemOf    []string
	forms     map[uint32][]uint32

	mwe     [2]*Trie
	pre     map[string]PreEntry
	future  *Trie
	intents *Trie
	model   *Model
	cohorts map[cohortKey][]uint32
}

func newLexicon() *Lexicon {
	return &Lexicon{
		categories: NewCategoryTree(),
		entities:   NewCategoryTree(),
		words:      make(map[string]*wordEntry),
		templates:  []Token{{}},
		stemOf:     []string{""},
		forms:      make(map[uint32][]uint32),
		mwe:        [2]*Trie{NewTrie(), NewTrie()},
		pre:        make(map[string]PreEntry),
		future:     NewTrie(),
		intents:    NewTrie(),
		model:      NewModel(),
		cohorts:    make(map[cohortKey][]uint32),
	}
}

// addTemplate stores a token template for e and returns its id. Category
// and entity paths unknown to the trees are reported back.
func (l *Lexicon) addTemplate(e *Entry) (uint32, []string) {
	id := uint32(len(l.templates))
	tok := Token{
		Word:    e.Word,
		ID:      id,
		Stem:    id,
		Tag:     e.Tag,
		Pronoun: e.Pronoun,
		Gender:  e.Gender,
	}
	tok.Candidates = []Candidate{{Tag: e.Tag, ID: id}}
	var unknown []string
	for _, p := range e.Categories {
		if cid, ok := l.categories.ID(p); ok {
			tok.Categories = append(tok.Categories, cid)
		} else {
			unknown = append(unknown, p)
		}
	}
	for _, p := range e.Entities {
		if eid, ok := l.entities.ID(p); ok {
			tok.Entities = append(tok.Entities, eid)
		} else {
			unknown = append(unknown, p)
		}
	}
	l.templates = append(l.templates, tok)
	l.stemOf = append(l.stemOf, e.Stem)
	return id, unknown
}

// addEntry registers a word reading. A word already holding the same tag
// keeps its first reading.
func (l *Lexicon) addEntry(e *Entry) (uint32, []string) {
	key := NormalizeKey(e.Word)
	we := l.words[key]
	if we != nil {
		for _, c := range we.cands {
			if c.Tag == e.Tag {
				return c.ID, nil
			}
		}
	}
	id, unknown := l.addTemplate(e)
	if we == nil {
		we = &wordEntry{canonical: e.Word}
		l.words[key] = we
	}
	we.cands = append(we.cands, Candidate{Tag: e.Tag, ID: id})
	return id, unknown
}

// link resolves stems and builds the spelling cohorts once every entry is
// in.
func (l *Lexicon) link() {
	for id := 1; id < len(l.templates); id++ {
		tpl := &l.templates[id]
		if stem := l.stemOf[id]; stem != "" {
			if we := l.words[NormalizeKey(stem)]; we != nil {
				tpl.Stem = we.cands[0].ID
			}
		}
		l.forms[tpl.Stem] = append(l.forms[tpl.Stem], uint32(id))

		if strings.Contains(tpl.Word, " ") || tpl.Tag.IsProperNoun() {
			continue
		}
		if c := cohortClass(tpl.Tag); c != ClassOther {
			k := cohortKey{class: c, band: LengthBand(len([]rune(tpl.Word)))}
			l.cohorts[k] = append(l.cohorts[k], uint32(id))
		}
	}
}

// LookupWord implements Vocabulary. word is expected in NormalizeKey form.
func (l *Lexicon) LookupWord(word string) (string, []Candidate, bool) {
	we, ok := l.words[word]
	if !ok {
		return "", nil, false
	}
	return we.canonical, we.cands, true
}

// TokenByID implements Vocabulary.
func (l *Lexicon) TokenByID(id uint32) (Token, bool) {
	if id == 0 || int(id) >= len(l.templates) {
		return Token{}, false
	}
	return l.templates[id], true
}

// CategoryRange implements Vocabulary.
func (l *Lexicon) CategoryRange(path string) (IDRange, bool) { return l.categories.Range(path) }

// EntityRange implements Vocabulary.
func (l *Lexicon) EntityRange(path string) (IDRange, bool) { return l.entities.Range(path) }

// CategoryCode implements Vocabulary.
func (l *Lexicon) CategoryCode(id uint32) string { return l.categories.Code(id) }

// MWE implements Vocabulary.
func (l *Lexicon) MWE(kind MWEKind) *Trie {
	if int(kind) >= len(l.mwe) {
		return nil
	}
	return l.mwe[kind]
}

// Preprocess implements Vocabulary.
func (l *Lexicon) Preprocess(word string) (PreEntry, bool) {
	e, ok := l.pre[word]
	return e, ok
}

func (l *Lexicon) FutureVerbs() *Trie    { return l.future }
func (l *Lexicon) Model() *Model         { return l.model }
func (l *Lexicon) IntentPatterns() *Trie { return l.intents }

// Cohort implements Vocabulary.
func (l *Lexicon) Cohort(class Class, band int) []uint32 {
	return l.cohorts[cohortKey{class: class, band: band}]
}

// Len returns the number of word readings.
func (l *Lexicon) Len() int { return len(l.templates) - 1 }

// candidateFor returns the template of word read as tag, for training.
func (l *Lexicon) candidateFor(word string, tag Tag) *Token {
	we, ok := l.words[NormalizeKey(word)]
	if !ok {
		return nil
	}
	for _, c := range we.cands {
		if c.Tag == tag {
			tpl := l.templates[c.ID]
			return &tpl
		}
	}
	return nil
}
