package interpres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func words(toks []Token) []string {
	out := make([]string, len(toks))
	for i, t := range toks {
		out[i] = t.Word
	}
	return out
}

func TestTokenizeContractions(t *testing.T) {
	e := testEngine(t)
	tests := []struct {
		text string
		want []string
	}{
		{"I'm here", []string{"i", "am", "here"}},
		{"they're early", []string{"they", "are", "early"}},
		{"it's late", []string{"it", "is", "late"}},
		{"John's car", []string{"john", "car"}},
	}
	for _, tt := range tests {
		in := e.Tokenize(tt.text)
		assert.Equal(t, tt.want, lowerWords(in.Tokens), "tokenize %q", tt.text)
	}
}

func lowerWords(toks []Token) []string {
	out := make([]string, len(toks))
	for i := range toks {
		out[i] = toks[i].Lower()
	}
	return out
}

func TestTokenizePossessive(t *testing.T) {
	e := testEngine(t)
	in := e.Tokenize("John's car")
	require.Len(t, in.Tokens, 2)
	assert.True(t, in.Tokens[0].Possessive)
	assert.Equal(t, TagNNP, in.Tokens[0].Tag)
}

func TestTokenizeNegatedContraction(t *testing.T) {
	e := testEngine(t)
	in := e.Tokenize("I don't know")
	require.Len(t, in.Tokens, 3)
	know := in.Tokens[2]
	assert.Equal(t, "not know", know.Word)
	assert.True(t, know.Negative)
	assert.Equal(t, "don't", in.Tokens[1].Text)
}

func TestTokenizeNegatedNoun(t *testing.T) {
	e := testEngine(t)
	in := e.Tokenize("not John")
	require.Len(t, in.Tokens, 1)
	tok := in.Tokens[0]
	assert.Equal(t, "not John", tok.Word)
	assert.Equal(t, TagNNP, tok.Tag)
	assert.True(t, tok.Negative)

	// A perfect auxiliary before a noun is a main verb.
	in = e.Tokenize("I have cake")
	require.Len(t, in.Tokens, 3)
	assert.Equal(t, "have", in.Tokens[1].Word)
	assert.False(t, in.Tokens[2].Negative)
}

func TestTokenizeFuture(t *testing.T) {
	e := testEngine(t)
	tests := []struct {
		text     string
		word     string
		negative bool
	}{
		{"she will come", "will come", false},
		{"she will not come", "will not come", true},
		{"he is going to leave", "is going to leave", false},
	}
	for _, tt := range tests {
		in := e.Tokenize(tt.text)
		var fused *Token
		for i := range in.Tokens {
			if in.Tokens[i].Tag == TagVBF {
				fused = &in.Tokens[i]
			}
		}
		if !assert.NotNil(t, fused, "%q: no future token in %v", tt.text, words(in.Tokens)) {
			continue
		}
		assert.Equal(t, tt.word, fused.Word, tt.text)
		assert.Equal(t, tt.negative, fused.Negative, tt.text)
	}
}

func TestTokenizeSystemMerges(t *testing.T) {
	e := testEngine(t)
	tests := []struct {
		text string
		tag  Tag
		lit  Literal
	}{
		{"$5", TagSysMoney, Literal{Kind: LiteralMoney, Value: 5, Unit: "USD"}},
		{"three days ago", TagSysDatePast, Literal{Kind: LiteralDate, Value: 3, Unit: "days", Relative: -1}},
		{"in two weeks", TagSysDateFuture, Literal{Kind: LiteralDate, Value: 2, Unit: "weeks", Relative: 1}},
		{"last week", TagSysDatePast, Literal{Kind: LiteralDate, Unit: "week", Relative: -1}},
		{"5 pm", TagSysTime, Literal{Kind: LiteralTime, Value: 17, Unit: "pm"}},
		{"10km", TagCD, Literal{Kind: LiteralNumber, Value: 10, Unit: "kilometer"}},
	}
	for _, tt := range tests {
		in := e.Tokenize(tt.text)
		if !assert.Len(t, in.Tokens, 1, "%q: %v", tt.text, words(in.Tokens)) {
			continue
		}
		tok := in.Tokens[0]
		assert.Equal(t, tt.tag, tok.Tag, tt.text)
		if assert.NotNil(t, tok.Literal, tt.text) {
			assert.Equal(t, tt.lit, *tok.Literal, tt.text)
		}
	}
}

func TestTokenizePunctuation(t *testing.T) {
	e := testEngine(t)
	in := e.Tokenize(`"Hello," he said (quietly).`)
	want := []Tag{TagQuote, TagUH, TagComma, TagQuote, TagPRP, TagVBD, TagOpen, TagFW, TagClose, TagStop}
	got := make([]Tag, len(in.Tokens))
	for i, tok := range in.Tokens {
		got[i] = tok.Tag
	}
	assert.Equal(t, want, got, "tokens %v", words(in.Tokens))
}

func TestTokenizeLineBreaks(t *testing.T) {
	e := testEngine(t)
	in := e.Tokenize("hello\n\nhi")
	require.Len(t, in.Tokens, 4)
	assert.Equal(t, TagLB, in.Tokens[1].Tag)
	assert.Equal(t, TagLB, in.Tokens[2].Tag)
}

func TestTokenizeTypography(t *testing.T) {
	e := testEngine(t)
	in := e.Tokenize("I’m here…")
	assert.Equal(t, []string{"i", "am", "here", "..."}, lowerWords(in.Tokens))
}

func TestMWEViews(t *testing.T) {
	e := testEngine(t)
	in := e.Tokenize("I ate ice cream in New York")

	std := in.Logical(in.Standard)
	require.Len(t, std, 5)
	assert.Equal(t, "ice cream", std[2].Word)
	assert.Equal(t, "New York", std[4].Word)
	assert.Equal(t, TagNNP, std[4].Tag)
	assert.Equal(t, 2, in.Standard[4].Span)

	v := e.Vocabulary()
	city, ok := v.CategoryRange("noun/place/city")
	require.True(t, ok)
	assert.True(t, city.ContainsAny(std[4].Categories), "categories %v", std[4].Categories)
	cityNER, ok := v.EntityRange("location/city")
	require.True(t, ok)
	assert.True(t, cityNER.ContainsAny(std[4].Entities), "entities %v", std[4].Entities)
	food, ok := v.CategoryRange("noun/food")
	require.True(t, ok)
	assert.True(t, food.ContainsAny(std[2].Categories), "categories %v", std[2].Categories)

	// Both expressions are standard-only.
	assert.Len(t, in.Logical(in.Scoring), len(in.Tokens))
}

func TestMWEScoringOnly(t *testing.T) {
	e := testEngine(t)
	in := e.Tokenize("the fire truck")
	assert.Len(t, in.Logical(in.Standard), 3)
	sc := in.Logical(in.Scoring)
	require.Len(t, sc, 2)
	assert.Equal(t, "fire truck", sc[1].Word)
}

func TestTokenizeUnknown(t *testing.T) {
	e := testEngine(t)
	in := e.Tokenize("blorptastic")
	require.Len(t, in.Tokens, 1)
	tok := in.Tokens[0]
	assert.Equal(t, TagFW, tok.Tag)
	assert.Empty(t, tok.Categories)
	assert.Empty(t, tok.Entities)
}
