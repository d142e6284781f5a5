package interpres

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigValid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestConfigSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "interpres.yaml")
	cfg := DefaultConfig()
	cfg.Tagger.Strategy = StrategyHMM
	cfg.Tagger.Window = Window{Before: 3, After: 2}
	cfg.Interpreter.CorefTimeout = 12
	require.NoError(t, cfg.Save(path))

	got, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestLoadConfigPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "interpres.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tagger:\n  spell_assist: false\n"), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.False(t, cfg.Tagger.SpellAssist)
	assert.Equal(t, StrategyFeatures, cfg.Tagger.Strategy, "unset keys keep defaults")
	assert.Equal(t, 30, cfg.Interpreter.CorefTimeout)
}

func TestLoadConfigBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "interpres.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tagger: [\n"), 0644))
	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestConfigEnvOverrides(t *testing.T) {
	t.Setenv("INTERPRES_LOG_LEVEL", "debug")
	t.Setenv("INTERPRES_TAGGER_STRATEGY", StrategyHMM)
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, StrategyHMM, cfg.Tagger.Strategy)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"strategy", func(c *Config) { c.Tagger.Strategy = "crf" }},
		{"window", func(c *Config) { c.Tagger.Window.Before = 9 }},
		{"negative window", func(c *Config) { c.Tagger.Window.After = -1 }},
		{"decay", func(c *Config) { c.Tagger.DecayBefore = 1.5 }},
		{"blend", func(c *Config) { c.Tagger.FeatureBlend = -0.1 }},
		{"spell distance", func(c *Config) { c.Tagger.SpellMaxDistance = -1 }},
		{"coref timeout", func(c *Config) { c.Interpreter.CorefTimeout = 0 }},
		{"log format", func(c *Config) { c.Logging.Format = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
			_, err := New(dataDir, WithConfig(cfg))
			assert.Error(t, err)
		})
	}
}

func TestNewLogger(t *testing.T) {
	log, err := NewLogger(LoggingConfig{Level: "warn", Format: "console"})
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(-1), "debug disabled at warn")

	_, err = NewLogger(LoggingConfig{Level: "loud"})
	assert.Error(t, err)
}
