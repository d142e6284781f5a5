package interpres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func onePhrase(t *testing.T, text string) (Phrase, []Token) {
	t.Helper()
	res := testEngine(t).Interpret(text)
	require.Len(t, res.Phrases, 1, "%q", text)
	return res.Phrases[0], res.MWETokens
}

func TestInterpretSiblings(t *testing.T) {
	p, _ := onePhrase(t, "John and Sara left.")
	require.Len(t, p.Nouns, 2)
	assert.Equal(t, RoleHead, p.Nouns[0].Role)
	assert.Equal(t, []int{1}, p.Nouns[0].Siblings)
	assert.Equal(t, RoleSibling, p.Nouns[1].Role)
	assert.Equal(t, 0, p.Nouns[1].Parent)
	require.Len(t, p.Verbs, 1)
	assert.Equal(t, 3, p.Verbs[0].Head)
}

func TestInterpretCompoundNoun(t *testing.T) {
	p, _ := onePhrase(t, "I saw the school bus.")
	require.Len(t, p.Nouns, 2)
	bus := p.Nouns[1]
	assert.Equal(t, 4, bus.Head)
	assert.Equal(t, []int{3}, bus.Compound)
	assert.Equal(t, []int{2}, bus.Determiners)
}

func TestInterpretPredicativeAdjective(t *testing.T) {
	p, _ := onePhrase(t, "The train was late.")
	require.Len(t, p.Nouns, 1)
	require.Len(t, p.Nouns[0].Adjectives, 1)
	adj := p.Nouns[0].Adjectives[0]
	assert.Equal(t, 3, adj.Head)
	assert.Equal(t, []int{2}, adj.Verbs)
	assert.Equal(t, []string{"time"}, adj.Categories)
}

func TestInterpretLinkedVerb(t *testing.T) {
	p, _ := onePhrase(t, "I want to go home.")
	require.Len(t, p.Verbs, 2)
	assert.Equal(t, []int{1}, p.Verbs[0].Modifiers)
	assert.Equal(t, RoleModifier, p.Verbs[1].Role)
	assert.Equal(t, 0, p.Verbs[1].Parent)
	assert.Equal(t, []int{2}, p.Verbs[1].Prepositions)
}

func TestInterpretNegativeVerb(t *testing.T) {
	p, toks := onePhrase(t, "I have not eaten.")
	require.Len(t, p.Verbs, 1)
	assert.True(t, p.Verbs[0].Negative)
	assert.Equal(t, TagVBPP, toks[p.Verbs[0].Head].Tag)
	assert.Equal(t, TensePast, p.Tense)
}

func TestInterpretAuxiliary(t *testing.T) {
	p, _ := onePhrase(t, "Did you see that?")
	require.Len(t, p.Verbs, 1)
	assert.Equal(t, 2, p.Verbs[0].Head)
	assert.Equal(t, []int{0}, p.Verbs[0].Auxiliaries)
}

func TestInterpretHeadMove(t *testing.T) {
	res := testEngine(t).Interpret("We saw the men eat.")
	require.Len(t, res.Phrases, 2)
	assert.Equal(t, Range{Start: 0, End: 2}, res.Phrases[0].Range)
	require.NotNil(t, res.Phrases[1].Split)
	assert.Equal(t, SplitMarker{Index: 2, Kind: SplitHeadMove}, *res.Phrases[1].Split)
	assert.Len(t, res.Phrases[1].Nouns, 1)
	assert.Len(t, res.Phrases[1].Verbs, 1)
}

func TestInterpretAttributiveAdjective(t *testing.T) {
	p, _ := onePhrase(t, "John called the old man.")
	assert.Nil(t, p.Split)
	require.Len(t, p.Nouns, 2)
	assert.Len(t, p.Nouns[1].Adjectives, 1)
}

func TestInterpretHeadlessMerge(t *testing.T) {
	// The first fragment has no verb, so the headless one joins it.
	res := testEngine(t).Interpret("The big dog. Yes.")
	require.Len(t, res.Phrases, 1)
	assert.Equal(t, Range{Start: 0, End: len(res.MWETokens)}, res.Phrases[0].Range)
}

func TestInterpretHeadlessAfterCompletePhrase(t *testing.T) {
	for _, text := range []string{"I ate the cake. Yes.", "I saw the dog. Yes."} {
		res := testEngine(t).Interpret(text)
		require.Len(t, res.Phrases, 2, text)
		first, second := res.Phrases[0], res.Phrases[1]
		assert.Equal(t, first.Range.End, second.Range.Start, text)
		assert.Equal(t, len(res.MWETokens), second.Range.End, text)
		assert.Equal(t, IntentAffirmation, second.Intent.Kind, text)
		assert.InDelta(t, 0.5, second.Intent.Score, 1e-9, text)
		assert.Equal(t, IntentNeutral, first.Intent.Kind, text)
	}
}

func TestInterpretMultiwordHead(t *testing.T) {
	p, toks := onePhrase(t, "I went to New York.")
	require.Len(t, p.Nouns, 2)
	city := toks[p.Nouns[1].Head]
	assert.Equal(t, "New York", city.Word)
	assert.Equal(t, []int{2}, p.Nouns[1].Prepositions)
}
