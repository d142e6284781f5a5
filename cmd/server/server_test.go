package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/cours-de-latin/interpres"
)

const testData = "../../data"

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var (
	engineOnce sync.Once
	engine     *interpres.Engine
	engineErr  error
)

func testServer(t *testing.T) *server {
	t.Helper()
	engineOnce.Do(func() {
		engine, engineErr = interpres.New(testData)
	})
	require.NoError(t, engineErr)
	return newServer(engine, zap.NewNop(), 4)
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

type phraseJSON struct {
	Classification string `json:"classification"`
	Tense          string `json:"tense"`
	Person         string `json:"person"`
}

type tokenJSON struct {
	Word string `json:"word"`
	Tag  string `json:"tag"`
}

type interpretJSON struct {
	RequestID string       `json:"request_id"`
	Tokens    []tokenJSON  `json:"tokens"`
	Phrases   []phraseJSON `json:"phrases"`
}

func TestInterpretEndpoint(t *testing.T) {
	h := testServer(t).routes()

	for _, tc := range []struct {
		name   string
		method string
		target string
		body   string
	}{
		{"get", http.MethodGet, "/api/interpret?text=Did+you+see+that%3F", ""},
		{"post", http.MethodPost, "/api/interpret", `{"text":"Did you see that?"}`},
	} {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, h, tc.method, tc.target, tc.body)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var got interpretJSON
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.NotEmpty(t, got.RequestID)
			assert.Equal(t, got.RequestID, rec.Header().Get(requestIDHeader))
			require.Len(t, got.Phrases, 1)
			assert.Equal(t, phraseJSON{Classification: "interrogative", Tense: "past", Person: "second"}, got.Phrases[0])
		})
	}
}

func TestRequestIDEcho(t *testing.T) {
	h := testServer(t).routes()
	req := httptest.NewRequest(http.MethodGet, "/api/interpret?text=hello", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))
	assert.Contains(t, rec.Body.String(), `"request_id":"abc-123"`)
}

func TestBadRequests(t *testing.T) {
	h := testServer(t).routes()

	for _, tc := range []struct {
		name   string
		method string
		target string
		body   string
		status int
	}{
		{"interpret missing text", http.MethodGet, "/api/interpret", "", http.StatusBadRequest},
		{"interpret bad json", http.MethodPost, "/api/interpret", `{"text":`, http.StatusBadRequest},
		{"interpret unknown field", http.MethodPost, "/api/interpret", `{"txt":"hi"}`, http.StatusBadRequest},
		{"interpret delete", http.MethodDelete, "/api/interpret", "", http.StatusMethodNotAllowed},
		{"tokenize get", http.MethodGet, "/api/tokenize?text=hi", "", http.StatusMethodNotAllowed},
		{"batch empty", http.MethodPost, "/api/batch", `{"texts":[]}`, http.StatusBadRequest},
		{"batch get", http.MethodGet, "/api/batch", "", http.StatusMethodNotAllowed},
		{"forms missing stem", http.MethodGet, "/api/forms", "", http.StatusBadRequest},
		{"forms unknown stem", http.MethodGet, "/api/forms?stem=xyzzy", "", http.StatusNotFound},
		{"schema post", http.MethodPost, "/api/schema", `{}`, http.StatusMethodNotAllowed},
	} {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, h, tc.method, tc.target, tc.body)
			assert.Equal(t, tc.status, rec.Code)

			var e errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))
			assert.NotEmpty(t, e.Error)
			assert.NotEmpty(t, e.RequestID)
		})
	}
}

func TestBatchTooLarge(t *testing.T) {
	h := testServer(t).routes()
	texts := make([]string, maxBatch+1)
	for i := range texts {
		texts[i] = "hi"
	}
	body, err := json.Marshal(batchRequest{Texts: texts})
	require.NoError(t, err)

	rec := do(t, h, http.MethodPost, "/api/batch", string(body))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestTokenizeEndpoint(t *testing.T) {
	h := testServer(t).routes()
	rec := do(t, h, http.MethodPost, "/api/tokenize", `{"text":"Please close the door."}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got struct {
		Tokens   []tokenJSON       `json:"tokens"`
		Standard []json.RawMessage `json:"standard"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got.Tokens, 5)
	assert.Equal(t, tokenJSON{Word: "close", Tag: "VB"}, got.Tokens[1])
	assert.Equal(t, tokenJSON{Word: "door", Tag: "NN"}, got.Tokens[3])
	assert.Len(t, got.Standard, 5)
}

func TestBatchEndpoint(t *testing.T) {
	s := testServer(t)
	h := s.routes()
	texts := []string{
		"Did you see that?",
		"Please close the door.",
		"I went to the store yesterday.",
		"She will come tomorrow.",
	}
	body, err := json.Marshal(batchRequest{Texts: texts})
	require.NoError(t, err)

	rec := do(t, h, http.MethodPost, "/api/batch", string(body))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got struct {
		Results []struct {
			Phrases []phraseJSON `json:"phrases"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got.Results, len(texts))

	// Order follows the request, not completion.
	want := []string{"interrogative", "imperative", "conversational", "declarative"}
	for i, r := range got.Results {
		require.NotEmpty(t, r.Phrases, texts[i])
		assert.Equal(t, want[i], r.Phrases[0].Classification, texts[i])
	}
}

func TestFormsEndpoint(t *testing.T) {
	h := testServer(t).routes()
	rec := do(t, h, http.MethodGet, "/api/forms?stem=eat", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got formsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "eat", got.Stem)
	assert.Equal(t, []string{"ate"}, got.Forms["VBD"])
	assert.Equal(t, []string{"eating"}, got.Forms["VBG"])
}

func TestSchemaEndpoint(t *testing.T) {
	h := testServer(t).routes()
	rec := do(t, h, http.MethodGet, "/api/schema", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Contains(t, got, "$defs")
	assert.Contains(t, rec.Body.String(), "Interpretation")
}

func TestHealthAndCORS(t *testing.T) {
	h := testServer(t).routes()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "http://example.test")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func copyData(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	entries, err := os.ReadDir(testData)
	require.NoError(t, err)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		b, err := os.ReadFile(filepath.Join(testData, e.Name()))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, e.Name()), b, 0o644))
	}
	return dir
}

func TestWatchReload(t *testing.T) {
	reloadDebounce = 20 * time.Millisecond
	dir := copyData(t)
	load := func() (*interpres.Engine, error) { return interpres.New(dir) }

	e, err := load()
	require.NoError(t, err)
	s := newServer(e, zap.NewNop(), 1)
	_, found := s.engine.Load().Forms("zeppelin")
	require.False(t, found)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.watch(ctx, dir, load) }()
	defer func() {
		cancel()
		require.NoError(t, <-done)
	}()

	// The watcher needs a moment to register before the write is seen.
	time.Sleep(50 * time.Millisecond)

	// A broken file keeps the running engine.
	lexPath := filepath.Join(dir, "lexicon.txt")
	orig, err := os.ReadFile(lexPath)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(lexPath, append(append([]byte{}, orig...), "zeppelin|NOPE\n"...), 0o644))
	time.Sleep(200 * time.Millisecond)
	assert.Same(t, e, s.engine.Load())

	require.NoError(t, os.WriteFile(lexPath, append(append([]byte{}, orig...), "zeppelin|NN\n"...), 0o644))
	require.Eventually(t, func() bool {
		_, ok := s.engine.Load().Forms("zeppelin")
		return ok
	}, 5*time.Second, 20*time.Millisecond)
	assert.NotSame(t, e, s.engine.Load())
}

func TestWatchMissingDir(t *testing.T) {
	s := testServer(t)
	err := s.watch(context.Background(), filepath.Join(t.TempDir(), "nope"), nil)
	assert.Error(t, err)
}
