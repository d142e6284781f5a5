package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/invopop/jsonschema"
	"github.com/rs/cors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cours-de-latin/interpres"
)

const (
	maxBodyBytes = 1 << 20
	maxBatch     = 256
)

// server holds the current engine. Reloads swap the pointer; requests in
// flight keep the engine they started with.
type server struct {
	engine     atomic.Pointer[interpres.Engine]
	log        *zap.Logger
	batchLimit int
	schema     func() *jsonschema.Schema
}

func newServer(e *interpres.Engine, log *zap.Logger, batchLimit int) *server {
	if batchLimit < 1 {
		batchLimit = 1
	}
	s := &server{
		log:        log,
		batchLimit: batchLimit,
		schema: sync.OnceValue(func() *jsonschema.Schema {
			return jsonschema.Reflect(&interpres.Interpretation{})
		}),
	}
	s.engine.Store(e)
	return s
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/interpret", s.handleInterpret())
	mux.HandleFunc("/api/tokenize", s.handleTokenize())
	mux.HandleFunc("/api/batch", s.handleBatch())
	mux.HandleFunc("/api/forms", s.handleForms())
	mux.HandleFunc("/api/schema", s.handleSchema())
	mux.HandleFunc("/healthz", s.handleHealth())

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
	})
	return c.Handler(s.withRequestID(mux))
}

// ---- JSON types ---------------------------------------------------------

type textRequest struct {
	Text string `json:"text"`
}

type batchRequest struct {
	Texts []string `json:"texts"`
}

type interpretResponse struct {
	RequestID string `json:"request_id"`
	*interpres.Interpretation
}

type tokenizeResponse struct {
	RequestID string `json:"request_id"`
	*interpres.TokenizedInput
}

type batchResponse struct {
	RequestID string                      `json:"request_id"`
	Results   []*interpres.Interpretation `json:"results"`
}

type formsResponse struct {
	Stem  string              `json:"stem"`
	Forms map[string][]string `json:"forms"`
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// ---- helpers ------------------------------------------------------------

const requestIDHeader = "X-Request-ID"

type ctxKey struct{}

func requestID(r *http.Request) string {
	id, _ := r.Context().Value(ctxKey{}).(string)
	return id
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (w *statusRecorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// withRequestID tags every request with an id, echoed in the response
// header, and logs it once served.
func (s *server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
		s.log.Debug("request",
			zap.String("id", id),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}

func (s *server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Warn("encode error", zap.Error(err))
	}
}

func (s *server) writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg, RequestID: requestID(r)})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// textParam reads the text to process from the query (GET) or a JSON body
// (POST).
func (s *server) textParam(w http.ResponseWriter, r *http.Request, allowGet bool) (string, bool) {
	switch {
	case r.Method == http.MethodGet && allowGet:
		text := r.URL.Query().Get("text")
		if text == "" {
			s.writeError(w, r, http.StatusBadRequest, "missing 'text' query parameter")
			return "", false
		}
		return text, true
	case r.Method == http.MethodPost:
		var body textRequest
		if err := decodeBody(w, r, &body); err != nil || body.Text == "" {
			s.writeError(w, r, http.StatusBadRequest, "body must be JSON with a non-empty 'text' field")
			return "", false
		}
		return body.Text, true
	}
	if allowGet {
		s.writeError(w, r, http.StatusMethodNotAllowed, "GET or POST required")
	} else {
		s.writeError(w, r, http.StatusMethodNotAllowed, "POST required")
	}
	return "", false
}

// ---- handlers -----------------------------------------------------------

func (s *server) handleInterpret() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		text, ok := s.textParam(w, r, true)
		if !ok {
			return
		}
		res := s.engine.Load().Interpret(text)
		s.writeJSON(w, http.StatusOK, interpretResponse{RequestID: requestID(r), Interpretation: res})
	}
}

func (s *server) handleTokenize() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		text, ok := s.textParam(w, r, false)
		if !ok {
			return
		}
		e := s.engine.Load()
		in := e.Tokenize(text)
		e.Tag(in)
		s.writeJSON(w, http.StatusOK, tokenizeResponse{RequestID: requestID(r), TokenizedInput: in})
	}
}

func (s *server) handleBatch() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			s.writeError(w, r, http.StatusMethodNotAllowed, "POST required")
			return
		}
		var body batchRequest
		if err := decodeBody(w, r, &body); err != nil || len(body.Texts) == 0 {
			s.writeError(w, r, http.StatusBadRequest, "body must be JSON with a non-empty 'texts' array")
			return
		}
		if len(body.Texts) > maxBatch {
			s.writeError(w, r, http.StatusRequestEntityTooLarge, fmt.Sprintf("at most %d texts per batch", maxBatch))
			return
		}

		e := s.engine.Load()
		results := make([]*interpres.Interpretation, len(body.Texts))
		g, ctx := errgroup.WithContext(r.Context())
		g.SetLimit(s.batchLimit)
		for i, text := range body.Texts {
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				results[i] = e.Interpret(text)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			s.writeError(w, r, http.StatusServiceUnavailable, "batch cancelled")
			return
		}
		s.writeJSON(w, http.StatusOK, batchResponse{RequestID: requestID(r), Results: results})
	}
}

func (s *server) handleForms() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			s.writeError(w, r, http.StatusMethodNotAllowed, "GET required")
			return
		}
		stem := r.URL.Query().Get("stem")
		if stem == "" {
			s.writeError(w, r, http.StatusBadRequest, "missing 'stem' query parameter")
			return
		}
		forms, ok := s.engine.Load().Forms(stem)
		if !ok {
			s.writeError(w, r, http.StatusNotFound, fmt.Sprintf("stem %q not found", stem))
			return
		}
		s.writeJSON(w, http.StatusOK, formsResponse{Stem: stem, Forms: forms})
	}
}

func (s *server) handleSchema() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			s.writeError(w, r, http.StatusMethodNotAllowed, "GET required")
			return
		}
		s.writeJSON(w, http.StatusOK, s.schema())
	}
}

func (s *server) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
