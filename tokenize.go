package interpres

import (
	"strings"

	"go.uber.org/zap"
)

// tokenizer turns text into a TokenizedInput. It holds no per-call state.
type tokenizer struct {
	vocab Vocabulary
	log   *zap.Logger
}

// queued is a word waiting in the tokenizer queue. text is the surface
// form it came from; words produced by a contraction after the first one
// carry no surface text.
type queued struct {
	text    string
	word    string
	peeled  bool // prefixes and trailing symbols already split off
	symbols bool // a run of trailing symbols
}

// suffixContractions are clitics split off a word when the whole form is
// not in the preprocessing table. Order matters: n't before 't forms.
var suffixContractions = []string{"n't", "'re", "'ve", "'ll", "'m", "'d", "'s"}

// pronounHosts take "'s" as "is" rather than as a possessive.
var pronounHosts = map[string]bool{
	"it": true, "he": true, "she": true, "that": true, "there": true, "here": true,
	"what": true, "who": true, "where": true, "how": true, "when": true, "this": true,
	"everyone": true, "everything": true, "nobody": true, "let": true,
}

func (tz *tokenizer) tokenize(text string) *TokenizedInput {
	var toks []Token
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for li, line := range lines {
		if li > 0 {
			toks = append(toks, Token{Tag: TagLB, Candidates: []Candidate{{Tag: TagLB}}})
		}
		toks = tz.line(toks, NormalizeLine(line))
	}

	toks = tz.mergeSystem(toks)
	toks = tz.fuseFuture(toks)
	toks = tz.fuseNegation(toks)

	in := &TokenizedInput{Tokens: toks}
	in.Standard = tz.mweView(toks, MWEStandard)
	in.Scoring = tz.mweView(toks, MWEScoring)
	return in
}

// line appends the tokens of one normalized line.
func (tz *tokenizer) line(dst []Token, line string) []Token {
	fields := strings.Fields(line)
	queue := make([]queued, 0, len(fields))
	for _, f := range fields {
		queue = append(queue, queued{text: f, word: f})
	}
	for len(queue) > 0 {
		q := queue[0]
		queue = queue[1:]

		if q.symbols {
			dst = tz.symbols(dst, q)
			continue
		}
		if tok, ok := tz.lookup(q.text, q.word); ok {
			dst = append(dst, tok)
			continue
		}
		if exp, ok := tz.expand(q); ok {
			queue = append(exp, queue...)
			continue
		}
		if !q.peeled {
			var requeue []queued
			var ok bool
			if dst, requeue, ok = tz.peel(dst, q); ok {
				queue = append(requeue, queue...)
				continue
			}
		}
		dst = append(dst, tz.classify(q))
	}
	return dst
}

// lookup builds a token from a direct vocabulary hit.
func (tz *tokenizer) lookup(text, word string) (Token, bool) {
	canonical, cands, ok := tz.vocab.LookupWord(NormalizeKey(word))
	if !ok || len(cands) == 0 {
		return Token{}, false
	}
	return tz.lexical(text, canonical, cands), true
}

// lexical builds a token from vocabulary candidates. The first candidate
// is the best guess until the tagger decides.
func (tz *tokenizer) lexical(text, canonical string, cands []Candidate) Token {
	tok := Token{Text: text, Word: canonical, Candidates: cands}
	tok.resolve(cands[0].Tag, tz.vocab)
	return tok
}

// expand splits a contraction into its words. The first expanded word
// keeps the surface text so the token stream still covers the input.
func (tz *tokenizer) expand(q queued) ([]queued, bool) {
	lower := NormalizeKey(q.word)
	if pre, ok := tz.vocab.Preprocess(lower); ok && pre.Kind == PreContraction {
		return spread(q.text, strings.Fields(pre.Value)), true
	}
	for _, suf := range suffixContractions {
		if !strings.HasSuffix(lower, suf) || len(lower) == len(suf) {
			continue
		}
		base := q.word[:len(q.word)-len(suf)]
		if suf == "'s" && !pronounHosts[strings.ToLower(base)] {
			return nil, false
		}
		pre, ok := tz.vocab.Preprocess(suf)
		if !ok || pre.Kind != PreContraction {
			continue
		}
		return spread(q.text, append([]string{base}, strings.Fields(pre.Value)...)), true
	}
	return nil, false
}

func spread(text string, words []string) []queued {
	out := make([]queued, len(words))
	for i, w := range words {
		out[i].word = w
	}
	if len(out) > 0 {
		out[0].text = text
	}
	return out
}

// newSynthetic builds a single-candidate token that does not come from a
// vocabulary lookup.
func newSynthetic(text, word string, tag Tag) Token {
	return Token{Text: text, Word: word, Tag: tag, Candidates: []Candidate{{Tag: tag}}}
}
