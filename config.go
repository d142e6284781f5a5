package interpres

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds every tunable of the pipeline.
type Config struct {
	Tagger      TaggerConfig      `yaml:"tagger"`
	Interpreter InterpreterConfig `yaml:"interpreter"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// Tagger strategies.
const (
	StrategyFeatures = "features" // conjunction/feature model, HMM fallback
	StrategyHMM      = "hmm"      // Viterbi for every ambiguous token
)

// TaggerConfig configures the POS tagger.
type TaggerConfig struct {
	Strategy string         `yaml:"strategy"`
	Window   Window         `yaml:"window"`
	Weights  FeatureWeights `yaml:"weights"`

	// Per-step decay of a context feature's weight, before and after the
	// target.
	DecayBefore float64 `yaml:"decay_before"`
	DecayAfter  float64 `yaml:"decay_after"`

	// FeatureBlend is the share of the feature score in the final blend;
	// the remainder goes to the unconditional tag frequency.
	FeatureBlend float64 `yaml:"feature_blend"`

	SpellAssist      bool `yaml:"spell_assist"`
	SpellMaxDistance int  `yaml:"spell_max_distance"`
}

// Window is the tagging context size in tokens.
type Window struct {
	Before int `yaml:"before"`
	After  int `yaml:"after"`
}

// FeatureWeights are the base weights of each feature view.
type FeatureWeights struct {
	Word      float64 `yaml:"word"`
	Tag       float64 `yaml:"tag"`
	WordGroup float64 `yaml:"word_group"`
	TagGroup  float64 `yaml:"tag_group"`
	Other     float64 `yaml:"other"`
}

// For returns the base weight of a feature kind.
func (w FeatureWeights) For(k FeatureKind) float64 {
	switch k {
	case FeatWord:
		return w.Word
	case FeatTag:
		return w.Tag
	case FeatWordGroup:
		return w.WordGroup
	case FeatTagGroup:
		return w.TagGroup
	}
	return w.Other
}

// InterpreterConfig configures the phrase interpreter and the coreference
// resolver. Category lists are paths into the vocabulary's category tree.
type InterpreterConfig struct {
	// CorefTimeout is the number of tokens without a noun after which the
	// antecedent tracker is cleared.
	CorefTimeout int `yaml:"coref_timeout"`

	PersonCategories []string `yaml:"person_categories"`
	EntityCategories []string `yaml:"entity_categories"`
	PersonEntities   []string `yaml:"person_entities"`
	EntityEntities   []string `yaml:"entity_entities"`

	StateVerbCategory    string `yaml:"state_verb_category"`
	DegreeAdverbCategory string `yaml:"degree_adverb_category"`
	PlaceAdverbCategory  string `yaml:"place_adverb_category"`
	MannerAdverbCategory string `yaml:"manner_adverb_category"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level       string `yaml:"level"`  // debug, info, warn, error
	Format      string `yaml:"format"` // json, console
	Development bool   `yaml:"development"`
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() *Config {
	return &Config{
		Tagger: TaggerConfig{
			Strategy: StrategyFeatures,
			Window:   Window{Before: 8, After: 4},
			Weights: FeatureWeights{
				Word:      1.0,
				Tag:       0.85,
				WordGroup: 0.7,
				TagGroup:  0.6,
				Other:     0.4,
			},
			DecayBefore:      0.85,
			DecayAfter:       0.7,
			FeatureBlend:     0.8,
			SpellAssist:      true,
			SpellMaxDistance: 2,
		},
		Interpreter: InterpreterConfig{
			CorefTimeout: 30,
			PersonCategories: []string{
				"noun/person/military_rank",
				"noun/person/family",
				"noun/person/occupation",
				"noun/person/corporate_job",
				"noun/person/individual",
			},
			EntityCategories: []string{
				"noun/vehicle/aircraft",
				"noun/vehicle/automobile",
				"noun/vehicle/bicycle",
				"noun/vehicle/public_transit",
				"noun/vehicle/ship",
				"noun/vehicle/military_vehicle",
				"noun/place/landform",
				"noun/place/infrastructure",
				"noun/group",
			},
			PersonEntities:       []string{"person"},
			EntityEntities:       []string{"facility", "organization", "business"},
			StateVerbCategory:    "verb/state",
			DegreeAdverbCategory: "adverb/degree",
			PlaceAdverbCategory:  "adverb/place",
			MannerAdverbCategory: "adverb/manner",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadConfig reads a YAML file over the defaults. A missing file yields
// the defaults. Environment overrides are applied last.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if lvl := os.Getenv("INTERPRES_LOG_LEVEL"); lvl != "" {
		c.Logging.Level = lvl
	}
	if s := os.Getenv("INTERPRES_TAGGER_STRATEGY"); s != "" {
		c.Tagger.Strategy = s
	}
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	t := c.Tagger
	if t.Strategy != StrategyFeatures && t.Strategy != StrategyHMM {
		return fmt.Errorf("invalid tagger strategy: %q (valid: %s, %s)", t.Strategy, StrategyFeatures, StrategyHMM)
	}
	if t.Window.Before < 0 || t.Window.Before > 8 || t.Window.After < 0 || t.Window.After > 8 {
		return fmt.Errorf("invalid tagger window %+v: each side must be in [0,8]", t.Window)
	}
	for name, v := range map[string]float64{
		"decay_before":  t.DecayBefore,
		"decay_after":   t.DecayAfter,
		"feature_blend": t.FeatureBlend,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("invalid %s: %v not in [0,1]", name, v)
		}
	}
	if t.SpellMaxDistance < 0 {
		return fmt.Errorf("invalid spell_max_distance: %d", t.SpellMaxDistance)
	}
	if c.Interpreter.CorefTimeout <= 0 {
		return fmt.Errorf("invalid coref_timeout: %d", c.Interpreter.CorefTimeout)
	}
	switch c.Logging.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("invalid log format: %q", c.Logging.Format)
	}
	return nil
}
