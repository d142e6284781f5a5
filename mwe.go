package interpres

// maxMWESpan bounds how far an MWE probe looks ahead.
const maxMWESpan = 8

// mweView builds one logical-word view over toks. Matches are greedy and
// longest-first; a matched span becomes one override token built from the
// vocabulary's template.
func (tz *tokenizer) mweView(toks []Token, kind MWEKind) []MWEEntry {
	view := make([]MWEEntry, 0, len(toks))
	trie := tz.vocab.MWE(kind)
	words := make([]string, 0, maxMWESpan)
	for i := 0; i < len(toks); {
		words = words[:0]
		for k := i; k < len(toks) && k < i+maxMWESpan && !toks[k].Tag.IsPunct(); k++ {
			words = append(words, toks[k].Lower())
		}
		span, id, ok := trie.Longest(words)
		if !ok || span < 2 {
			view = append(view, MWEEntry{Pos: i, Span: 1})
			i++
			continue
		}
		tok := tz.mweToken(toks, i, i+span, id)
		view = append(view, MWEEntry{Pos: i, Span: span, Override: &tok})
		i += span
	}
	return view
}

func (tz *tokenizer) mweToken(toks []Token, i, j int, id uint32) Token {
	text, word := joined(toks, i, j)
	tok, ok := tz.vocab.TokenByID(id)
	if !ok {
		tok = Token{Tag: toks[j-1].Tag}
	}
	tok.Text = text
	if tok.Word == "" {
		tok.Word = word
	}
	tok.ID = id
	tok.Candidates = []Candidate{{Tag: tok.Tag, ID: id}}
	for k := i; k < j; k++ {
		if toks[k].Negative {
			tok.Negative = true
		}
	}
	return tok
}
