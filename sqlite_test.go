package interpres

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestUserLexicon(t *testing.T) (*UserLexicon, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "db", "user.db")
	u, err := OpenUserLexicon(path)
	require.NoError(t, err)
	t.Cleanup(func() { u.Close() })
	return u, path
}

func mustEntry(t *testing.T, line string) *Entry {
	t.Helper()
	e, err := ParseEntry(line)
	require.NoError(t, err)
	return e
}

func TestUserLexiconAddRemove(t *testing.T) {
	ctx := context.Background()
	u, _ := openTestUserLexicon(t)

	require.NoError(t, u.Add(ctx, mustEntry(t, "zeppelin|NN|zeppelin|noun/vehicle/aircraft")))
	require.NoError(t, u.Add(ctx, mustEntry(t, "Ada|NNP|||person|gender=f")))
	// Same word and tag replaces the row.
	require.NoError(t, u.Add(ctx, mustEntry(t, "zeppelin|NN|zeppelin|noun/vehicle")))

	entries, err := u.Entries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "zeppelin|NN|zeppelin|noun/vehicle||", entries[0].String())
	assert.Equal(t, "Ada", entries[1].Word)
	assert.Equal(t, GenderFeminine, entries[1].Gender)

	removed, err := u.Remove(ctx, "zeppelin", TagNN)
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = u.Remove(ctx, "zeppelin", TagNN)
	require.NoError(t, err)
	assert.False(t, removed)

	entries, err = u.Entries(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestUserLexiconMerged(t *testing.T) {
	ctx := context.Background()
	u, path := openTestUserLexicon(t)
	require.NoError(t, u.Add(ctx, mustEntry(t, "zeppelin|NN|zeppelin|noun/vehicle/aircraft")))
	require.NoError(t, u.Add(ctx, mustEntry(t, "Ada|NNP||noun/person/individual|person|gender=f")))
	require.NoError(t, u.Close())

	e, err := New(dataDir, WithLexiconDB(path))
	require.NoError(t, err)

	in := e.Tokenize("zeppelin")
	require.Len(t, in.Tokens, 1)
	assert.Equal(t, TagNN, in.Tokens[0].Tag)
	assert.NotEmpty(t, in.Tokens[0].Categories)

	res := e.Interpret("Ada called John. She said hello.")
	for _, tok := range res.MWETokens {
		if tok.Lower() == "she" {
			assert.Equal(t, "Ada", tok.Antecedent)
		}
	}
}

func TestUserLexiconUnknownPath(t *testing.T) {
	ctx := context.Background()
	u, path := openTestUserLexicon(t)
	require.NoError(t, u.Add(ctx, mustEntry(t, "thing|NN||noun/nowhere")))
	require.NoError(t, u.Close())

	_, err := New(dataDir, WithLexiconDB(path))
	assert.Error(t, err)
}

func TestUserLexiconDurationWithoutLiteral(t *testing.T) {
	ctx := context.Background()
	u, path := openTestUserLexicon(t)
	require.NoError(t, u.Add(ctx, mustEntry(t, "fortnight|SYS_DURATION")))
	require.NoError(t, u.Close())

	e, err := New(dataDir, WithLexiconDB(path))
	require.NoError(t, err)

	for _, tt := range []struct {
		text string
		tag  Tag
		rel  int8
	}{
		{"in fortnight", TagSysDateFuture, 1},
		{"fortnight ago", TagSysDatePast, -1},
	} {
		in := e.Tokenize(tt.text)
		require.Len(t, in.Tokens, 1, tt.text)
		tok := in.Tokens[0]
		assert.Equal(t, tt.tag, tok.Tag, tt.text)
		require.NotNil(t, tok.Literal, tt.text)
		assert.Equal(t, "fortnight", tok.Literal.Unit, tt.text)
		assert.Equal(t, tt.rel, tok.Literal.Relative, tt.text)
	}

	assert.NotPanics(t, func() { e.Interpret("I will leave in fortnight.") })
}
