package interpres

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// prefixTags are characters split off the front of an unknown word into
// standalone tokens.
var prefixTags = map[rune]Tag{
	'"':  TagQuote,
	'\'': TagQuote,
	'`':  TagQuote,
	'(':  TagOpen,
	'[':  TagOpen,
	'{':  TagOpen,
	'<':  TagOpen,
}

// currencySymbols are prefix characters that become SYS_CURRENCY tokens.
const currencySymbols = "$€£¥"

// peel splits bracket, quote and currency prefixes off q and emits them.
// The remaining core goes back to the queue, followed by its trailing
// symbols, so the core gets another vocabulary and contraction pass.
// ok is false when there was nothing to peel.
func (tz *tokenizer) peel(dst []Token, q queued) ([]Token, []queued, bool) {
	surface := q.text != ""
	text := func(s string) string {
		if surface {
			return s
		}
		return ""
	}

	rest := q.word
	for rest != "" {
		r, size := utf8.DecodeRuneInString(rest)
		if tag, ok := prefixTags[r]; ok {
			tok := tz.punct(rest[:size], tag)
			tok.Text = text(tok.Text)
			dst = append(dst, tok)
		} else if strings.ContainsRune(currencySymbols, r) {
			tok := tz.currency(rest[:size])
			tok.Text = text(tok.Text)
			dst = append(dst, tok)
		} else {
			break
		}
		rest = rest[size:]
	}

	core, suffix := splitTrailing(rest)
	if core == rest && rest == q.word {
		return dst, nil, false
	}
	var requeue []queued
	if core != "" {
		requeue = append(requeue, queued{text: text(core), word: core, peeled: true})
	}
	if suffix != "" {
		requeue = append(requeue, queued{text: text(suffix), word: suffix, symbols: true})
	}
	return dst, requeue, true
}

// symbols emits the tokens of a trailing symbol run.
func (tz *tokenizer) symbols(dst []Token, q queued) []Token {
	for _, s := range splitSymbols(q.word) {
		tok := tz.punct(s, punctTag(s))
		if q.text == "" {
			tok.Text = ""
		}
		dst = append(dst, tok)
	}
	return dst
}

// classify decides what a peeled core is: a possessive, a number, a number
// with a known suffix, a known word or an unknown one.
func (tz *tokenizer) classify(q queued) Token {
	core := q.word
	possessive := false
	if c, ok := strings.CutSuffix(core, "'s"); ok && c != "" {
		core, possessive = c, true
	} else if c, ok := strings.CutSuffix(core, "s'"); ok && c != "" {
		core, possessive = c+"s", true
	}
	tok := tz.classifyCore(q.text, core)
	tok.Possessive = possessive
	return tok
}

func (tz *tokenizer) classifyCore(text, core string) Token {
	if v, ok := parseNumber(core); ok {
		tok := newSynthetic(text, core, TagCD)
		tok.Literal = &Literal{Kind: LiteralNumber, Value: v}
		return tok
	}
	if tok, ok := tz.numericSuffix(text, core); ok {
		return tok
	}
	if tok, ok := tz.lookup(text, core); ok {
		return tok
	}
	return Token{Text: text, Word: core, Tag: TagFW}
}

// numericSuffix recognizes "1990s", "90s", "3rd", "5pm" and "10km".
func (tz *tokenizer) numericSuffix(text, core string) (Token, bool) {
	i := strings.IndexFunc(core, func(r rune) bool { return !unicode.IsDigit(r) && r != '.' && r != ',' })
	if i <= 0 {
		return Token{}, false
	}
	v, ok := parseNumber(core[:i])
	if !ok {
		return Token{}, false
	}
	suf := strings.ToLower(core[i:])
	if suf == "s" && (i == 2 || i == 4) {
		tok := newSynthetic(text, core, TagSysDecade)
		tok.Literal = &Literal{Kind: LiteralDecade, Value: v}
		return tok, true
	}
	pre, ok := tz.vocab.Preprocess(suf)
	if !ok {
		return Token{}, false
	}
	switch pre.Kind {
	case PreOrdinal:
		tok := newSynthetic(text, core, TagCD)
		tok.Literal = &Literal{Kind: LiteralOrdinal, Value: v}
		return tok, true
	case PreTime:
		tok := newSynthetic(text, core, TagSysTime)
		tok.Literal = &Literal{Kind: LiteralTime, Value: clockHour(v, suf), Unit: suf}
		return tok, true
	case PreUnit:
		tok := newSynthetic(text, core, TagCD)
		tok.Literal = &Literal{Kind: LiteralNumber, Value: v, Unit: pre.Value}
		return tok, true
	case PreDecade:
		tok := newSynthetic(text, core, TagSysDecade)
		tok.Literal = &Literal{Kind: LiteralDecade, Value: v}
		return tok, true
	}
	return Token{}, false
}

// clockHour converts a 12-hour reading to 24-hour time.
func clockHour(v float64, suffix string) float64 {
	switch {
	case strings.HasPrefix(suffix, "p") && v < 12:
		return v + 12
	case strings.HasPrefix(suffix, "a") && v == 12:
		return 0
	}
	return v
}

// parseNumber accepts digits with separators that each sit between two
// digits. A single '.' is the decimal point; ',' groups thousands.
func parseNumber(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	dots := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
		case c == '.' || c == ',':
			if i == 0 || i == len(s)-1 || !isDigit(s[i-1]) || !isDigit(s[i+1]) {
				return 0, false
			}
			if c == '.' {
				dots++
			}
		default:
			return 0, false
		}
	}
	if dots > 1 {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// splitTrailing separates a word from its run of trailing symbols. The
// possessive apostrophe of "dogs'" stays with the word.
func splitTrailing(s string) (core, suffix string) {
	end := len(s)
	for end > 0 {
		r, size := utf8.DecodeLastRuneInString(s[:end])
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			break
		}
		if r == '\'' && end > 1 && s[end-2] == 's' && end == len(s) {
			break
		}
		end -= size
	}
	return s[:end], s[end:]
}

// splitSymbols cuts a symbol run into tokens: runs of sentence
// terminators and dashes stay together, anything else is one per rune.
func splitSymbols(s string) []string {
	var out []string
	for s != "" {
		r, size := utf8.DecodeRuneInString(s)
		n := size
		switch {
		case isTerminator(r):
			for n < len(s) && isTerminator(rune(s[n])) {
				n++
			}
		case r == '-':
			for n < len(s) && s[n] == '-' {
				n++
			}
		}
		out = append(out, s[:n])
		s = s[n:]
	}
	return out
}

func isTerminator(r rune) bool { return r == '.' || r == '!' || r == '?' }

// punctTag maps a symbol token to its tag.
func punctTag(s string) Tag {
	r, _ := utf8.DecodeRuneInString(s)
	switch {
	case isTerminator(r):
		return TagStop
	case r == '-':
		return TagDash
	}
	switch r {
	case ',':
		return TagComma
	case ';':
		return TagSemicolon
	case ':':
		return TagColon
	case '"', '\'', '`':
		return TagQuote
	case '(', '[', '{', '<':
		return TagOpen
	case ')', ']', '}', '>':
		return TagClose
	}
	return TagSym
}

// punct builds a punctuation token, preferring the vocabulary's entry.
func (tz *tokenizer) punct(text string, tag Tag) Token {
	if _, cands, ok := tz.vocab.LookupWord(text); ok {
		for _, c := range cands {
			if c.Tag == tag {
				tok := newSynthetic(text, text, tag)
				tok.ID = c.ID
				tok.Candidates[0].ID = c.ID
				return tok
			}
		}
	}
	return newSynthetic(text, text, tag)
}

func (tz *tokenizer) currency(sym string) Token {
	tok := newSynthetic(sym, sym, TagSysCurrency)
	unit := sym
	if pre, ok := tz.vocab.Preprocess(sym); ok && pre.Kind == PreCurrency {
		unit = pre.Value
	}
	tok.Literal = &Literal{Kind: LiteralMoney, Unit: unit}
	return tok
}
