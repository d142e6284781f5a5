// Package interpres turns English utterances into tagged tokens, phrase
// structures and resolved pronoun references. The pipeline is a
// tokenizer, a part-of-speech tagger (feature-conjunction model with an
// HMM fallback), a single-pass phrase interpreter and a coreference
// resolver, all driven by a read-only Vocabulary.
package interpres

import (
	"fmt"

	"go.uber.org/zap"
)

// Engine runs the pipeline. It holds only read-only state and is safe for
// concurrent use; every call builds its own buffers.
type Engine struct {
	vocab Vocabulary
	cfg   *Config
	log   *zap.Logger

	tokenizer *tokenizer
	tagger    *tagger
	coref     *corefRanges
	ranges    *interpRanges
}

type options struct {
	cfg    *Config
	log    *zap.Logger
	userDB string
}

// Option configures an Engine.
type Option func(*options)

// WithConfig replaces the default configuration.
func WithConfig(cfg *Config) Option {
	return func(o *options) { o.cfg = cfg }
}

// WithLogger sets the logger. Engines log nothing by default.
func WithLogger(log *zap.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithLexiconDB merges the SQLite user lexicon at path when loading from
// a data directory.
func WithLexiconDB(path string) Option {
	return func(o *options) { o.userDB = path }
}

func collect(opts []Option) (*options, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.cfg == nil {
		o.cfg = DefaultConfig()
	}
	if o.log == nil {
		o.log = zap.NewNop()
	}
	if err := o.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return o, nil
}

// New loads the Lexicon in dataDir and returns a ready engine.
func New(dataDir string, opts ...Option) (*Engine, error) {
	o, err := collect(opts)
	if err != nil {
		return nil, err
	}
	lex, err := LoadLexicon(dataDir, LexiconOptions{
		Window: o.cfg.Tagger.Window,
		UserDB: o.userDB,
		Log:    o.log,
	})
	if err != nil {
		return nil, fmt.Errorf("load lexicon: %w", err)
	}
	return build(lex, o), nil
}

// NewWithVocabulary returns an engine over an already loaded vocabulary.
func NewWithVocabulary(v Vocabulary, opts ...Option) (*Engine, error) {
	if v == nil {
		return nil, fmt.Errorf("nil vocabulary")
	}
	o, err := collect(opts)
	if err != nil {
		return nil, err
	}
	return build(v, o), nil
}

func build(v Vocabulary, o *options) *Engine {
	return &Engine{
		vocab:     v,
		cfg:       o.cfg,
		log:       o.log,
		tokenizer: &tokenizer{vocab: v, log: o.log},
		tagger:    newTagger(v, o.cfg.Tagger, o.log),
		coref:     newCorefRanges(v, o.cfg.Interpreter),
		ranges:    newInterpRanges(v, o.cfg.Interpreter),
	}
}

// Vocabulary returns the engine's vocabulary.
func (e *Engine) Vocabulary() Vocabulary { return e.vocab }

// Config returns the engine's configuration. It must not be modified.
func (e *Engine) Config() *Config { return e.cfg }

// Tokenize splits text into tokens and builds both MWE views. Tags are
// the vocabulary's first guesses.
func (e *Engine) Tokenize(text string) *TokenizedInput {
	return e.tokenizer.tokenize(text)
}

// Tag resolves the tag of every ambiguous token of in, in place.
func (e *Engine) Tag(in *TokenizedInput) {
	e.tagger.run(in.Tokens)
}

// Interpret runs the whole pipeline over text.
func (e *Engine) Interpret(text string) *Interpretation {
	in := e.Tokenize(text)
	e.Tag(in)

	logical := in.Logical(in.Standard)
	interp := &interpreter{
		vocab:  e.vocab,
		ranges: e.ranges,
		coref:  newResolver(e.coref, e.cfg.Interpreter.CorefTimeout),
	}
	phrases := interp.run(logical)

	mwe := make([]Token, len(logical))
	for i, t := range logical {
		mwe[i] = *t
	}
	e.log.Debug("interpreted",
		zap.Int("tokens", len(in.Tokens)),
		zap.Int("logical", len(logical)),
		zap.Int("phrases", len(phrases)),
	)
	return &Interpretation{
		Scores:    categoryScores(e.vocab, in.Logical(in.Scoring)),
		Tokens:    in.Tokens,
		MWETokens: mwe,
		Phrases:   phrases,
	}
}
