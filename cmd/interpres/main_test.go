package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testData = "../../data"

// execute runs the root command. Flag values outlive a run, so every test
// passes the ones it relies on.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestParse(t *testing.T) {
	out, err := execute(t, "parse", "--data", testData, "--userdb=", "Did", "you", "see", "that?")
	require.NoError(t, err, out)

	var got struct {
		Phrases []struct {
			Classification string `json:"classification"`
		} `json:"phrases"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got.Phrases, 1)
	assert.Equal(t, "interrogative", got.Phrases[0].Classification)
}

func TestTokenize(t *testing.T) {
	out, err := execute(t, "tokenize", "--data", testData, "--userdb=", "I don't know")
	require.NoError(t, err, out)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "i\tPRP"), lines[0])
	assert.Contains(t, lines[2], "not know")
	assert.Contains(t, lines[2], "\tneg")
}

func TestForms(t *testing.T) {
	out, err := execute(t, "forms", "--data", testData, "--userdb=", "eat")
	require.NoError(t, err, out)
	var got map[string][]string
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, []string{"ate"}, got["VBD"])

	_, err = execute(t, "forms", "--data", testData, "--userdb=", "xyzzy")
	assert.Error(t, err)
}

func TestMissingData(t *testing.T) {
	_, err := execute(t, "parse", "--data", filepath.Join(t.TempDir(), "nope"), "--userdb=", "hi")
	assert.Error(t, err)
}

func TestUserDB(t *testing.T) {
	db := filepath.Join(t.TempDir(), "user.db")

	_, err := execute(t, "userdb", "list", "--userdb=")
	require.Error(t, err)

	out, err := execute(t, "userdb", "add", "--userdb", db, "zeppelin|NN||noun/vehicle/aircraft", "Ada|NNP|||person|gender=f")
	require.NoError(t, err, out)
	assert.Contains(t, out, "added zeppelin|NN||noun/vehicle/aircraft||")

	_, err = execute(t, "userdb", "add", "--userdb", db, "broken")
	assert.Error(t, err)

	out, err = execute(t, "userdb", "list", "--userdb", db)
	require.NoError(t, err)
	assert.Equal(t, "zeppelin|NN||noun/vehicle/aircraft||\nAda|NNP|||person|gender=f\n", out)

	out, err = execute(t, "tokenize", "--data", testData, "--userdb", db, "the zeppelin")
	require.NoError(t, err, out)
	assert.Contains(t, out, "zeppelin\tNN")

	out, err = execute(t, "userdb", "remove", "--userdb", db, "zeppelin", "NN")
	require.NoError(t, err, out)
	assert.Equal(t, "removed zeppelin|NN\n", out)

	_, err = execute(t, "userdb", "remove", "--userdb", db, "zeppelin", "NN")
	assert.Error(t, err)
	_, err = execute(t, "userdb", "remove", "--userdb", db, "zeppelin", "BOGUS")
	assert.Error(t, err)
}

func TestConfigInitShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "interpres.yaml")
	out, err := execute(t, "config", "init", path)
	require.NoError(t, err)
	assert.Equal(t, "wrote "+path+"\n", out)

	out, err = execute(t, "config", "show", "--config", path)
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Contains(t, got, "Tagger")
}
