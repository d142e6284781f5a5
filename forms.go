package interpres

import "sort"

// Forms returns every word inflecting from stem, keyed by tag name. ok is
// false when stem is not in the lexicon.
func (l *Lexicon) Forms(stem string) (map[string][]string, bool) {
	we, ok := l.words[NormalizeKey(stem)]
	if !ok {
		return nil, false
	}
	out := make(map[string][]string)
	for _, c := range we.cands {
		root := l.templates[c.ID].Stem
		for _, id := range l.forms[root] {
			tpl := &l.templates[id]
			tag := tpl.Tag.String()
			if !containsString(out[tag], tpl.Word) {
				out[tag] = append(out[tag], tpl.Word)
			}
		}
	}
	for _, ws := range out {
		sort.Strings(ws)
	}
	return out, true
}

// formsSource is a vocabulary that can list inflected forms.
type formsSource interface {
	Forms(stem string) (map[string][]string, bool)
}

// Forms returns the inflected forms of stem when the engine's vocabulary
// can list them.
func (e *Engine) Forms(stem string) (map[string][]string, bool) {
	if fs, ok := e.vocab.(formsSource); ok {
		return fs.Forms(stem)
	}
	return nil, false
}
