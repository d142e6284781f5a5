package interpres

import "strings"

// AntecedentType classifies a candidate antecedent.
type AntecedentType uint8

const (
	AntecedentNone AntecedentType = iota
	AntecedentPerson
	AntecedentEntity
	AntecedentObject
)

type antecedent struct {
	name   string
	tag    Tag
	typ    AntecedentType
	gender Gender
}

// corefRanges are the category and entity ranges the resolver classifies
// nouns with. They are resolved once per engine.
type corefRanges struct {
	personCats []IDRange
	entityCats []IDRange
	personNER  []IDRange
	entityNER  []IDRange
}

func newCorefRanges(v Vocabulary, cfg InterpreterConfig) *corefRanges {
	r := &corefRanges{}
	for _, p := range cfg.PersonCategories {
		if rng, ok := v.CategoryRange(p); ok {
			r.personCats = append(r.personCats, rng)
		}
	}
	for _, p := range cfg.EntityCategories {
		if rng, ok := v.CategoryRange(p); ok {
			r.entityCats = append(r.entityCats, rng)
		}
	}
	for _, p := range cfg.PersonEntities {
		if rng, ok := v.EntityRange(p); ok {
			r.personNER = append(r.personNER, rng)
		}
	}
	for _, p := range cfg.EntityEntities {
		if rng, ok := v.EntityRange(p); ok {
			r.entityNER = append(r.entityNER, rng)
		}
	}
	return r
}

func anyRange(rs []IDRange, ids []uint32) bool {
	for _, r := range rs {
		if r.ContainsAny(ids) {
			return true
		}
	}
	return false
}

// classify returns the antecedent type of a noun token.
func (r *corefRanges) classify(tok *Token) AntecedentType {
	personCat := anyRange(r.personCats, tok.Categories)
	switch {
	case anyRange(r.personNER, tok.Entities):
		return AntecedentPerson
	case anyRange(r.entityNER, tok.Entities):
		return AntecedentEntity
	case personCat && tok.Tag.IsPlural():
		return AntecedentEntity
	case personCat:
		return AntecedentPerson
	case anyRange(r.entityCats, tok.Categories):
		return AntecedentEntity
	}
	return AntecedentObject
}

// resolver tracks antecedents across one call.
type resolver struct {
	ranges  *corefRanges
	timeout int

	primary       *antecedent
	secondary     []antecedent
	primaryObject *antecedent
	plural        []string

	sinceNoun int
	lastLB    bool
}

func newResolver(r *corefRanges, timeout int) *resolver {
	return &resolver{ranges: r, timeout: timeout}
}

func (r *resolver) clear() {
	r.primary, r.primaryObject = nil, nil
	r.secondary = r.secondary[:0]
	r.plural = r.plural[:0]
	r.sinceNoun = 0
}

// observe feeds one logical token to the resolver. Third-person pronouns
// get their antecedent written onto the token.
func (r *resolver) observe(tok *Token) {
	if tok.Tag == TagLB {
		if r.lastLB {
			r.clear()
		}
		r.lastLB = true
		return
	}
	r.lastLB = false

	switch {
	case tok.Pronoun != nil && tok.Tag.Class() == ClassPronoun:
		if tok.Pronoun.Person == 3 {
			tok.Antecedent = r.resolve(tok.Pronoun)
		}
		r.tick()
	case tok.Tag.IsNoun():
		r.sinceNoun = 0
		r.add(tok)
	case tok.Tag.Class() == ClassVerb || tok.Tag.Class() == ClassPreposition:
		r.plural = r.plural[:0]
		r.tick()
	default:
		r.tick()
	}
}

func (r *resolver) tick() {
	r.sinceNoun++
	if r.sinceNoun >= r.timeout {
		r.clear()
	}
}

func (r *resolver) add(tok *Token) {
	a := antecedent{name: tok.Word, tag: tok.Tag, typ: r.ranges.classify(tok), gender: tok.Gender}
	switch {
	case a.typ == AntecedentPerson && r.primary == nil:
		r.primary = &a
	default:
		r.secondary = append(r.secondary, a)
	}
	if a.typ == AntecedentObject && r.primaryObject == nil {
		obj := a
		r.primaryObject = &obj
	}
	if a.typ == AntecedentPerson && !containsString(r.plural, a.name) {
		r.plural = append(r.plural, a.name)
	}
}

func containsString(ss []string, s string) bool {
	for _, x := range ss {
		if x == s {
			return true
		}
	}
	return false
}

func genderFits(have, want Gender) bool {
	return have == GenderUnset || have == want
}

// resolve returns the antecedent of a third-person pronoun, or "".
func (r *resolver) resolve(p *Pronoun) string {
	switch {
	case p.Number == Plural:
		return r.resolvePlural()
	case p.Gender == GenderNeuter:
		if r.primaryObject != nil {
			return r.primaryObject.name
		}
	case p.Gender != GenderUnset:
		if r.primary != nil && genderFits(r.primary.gender, p.Gender) {
			r.primary.gender = p.Gender
			return r.primary.name
		}
		for i := len(r.secondary) - 1; i >= 0; i-- {
			a := &r.secondary[i]
			if a.typ == AntecedentPerson && genderFits(a.gender, p.Gender) {
				a.gender = p.Gender
				return a.name
			}
		}
	}
	return ""
}

func (r *resolver) resolvePlural() string {
	if len(r.plural) >= 2 {
		return r.plural[0] + "|" + r.plural[1]
	}
	if r.primary != nil {
		for _, a := range r.secondary {
			if a.typ == AntecedentPerson && !strings.EqualFold(a.name, r.primary.name) {
				return r.primary.name + "|" + a.name
			}
		}
	}
	for i := len(r.secondary) - 1; i >= 0; i-- {
		a := r.secondary[i]
		if a.typ == AntecedentEntity || (a.typ == AntecedentObject && a.tag.IsProperNoun()) {
			return a.name
		}
	}
	return ""
}
