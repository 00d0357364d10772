package textfeatures

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	yaml "gopkg.in/yaml.v3"
)

func TestParseConfig(t *testing.T) {
	data := `
backbone: basic
language: de
token_normalize: true
features:
  surface:
    n_tokens:
    n_long_words:
      threshold: 8
  lexical_richness:
    mattr:
      params:
        window_size: ["10"]
  emotion: [avg_valence, n_high_valence]
`
	cfg, err := ParseConfig([]byte(data))
	require.NoError(t, err)

	assert.Equal(t, "de", cfg.Language)
	assert.True(t, cfg.TokenNormalize)
	assert.True(t, cfg.RemoveConstantCols, "omitted settings keep their defaults")
	assert.Equal(t, "text", cfg.TextColumn)

	assert.Equal(t, []string{"n_tokens", "n_long_words", "mattr", "avg_valence", "n_high_valence"}, cfg.Features.Names())
	require.Len(t, cfg.Features, 3)
	assert.Equal(t, "lexical_richness", cfg.Features[1].Area)

	spec, ok := cfg.Features.Spec("n_long_words")
	require.True(t, ok)
	require.NotNil(t, spec.Threshold)
	assert.Equal(t, 8.0, *spec.Threshold)

	spec, _ = cfg.Features.Spec("mattr")
	assert.Equal(t, []string{"10"}, spec.Params["window_size"])

	_, ok = cfg.Features.Spec("ttr")
	assert.False(t, ok, "a features section replaces the default catalogue")
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		data string
		desc string
	}{
		{"backbone: stanza\n", "unknown backbone"},
		{"workers: -2\n", "negative workers"},
		{"text_column: \"\"\n", "empty text column"},
		{"features: [ttr]\n", "features must be a mapping"},
		{"features:\n  surface:\n    n_tokens:\n      threshold: high\n", "bad threshold"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			if _, err := ParseConfig([]byte(tt.data)); err == nil {
				t.Errorf("expected an error for %q", tt.data)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	reg := NewRegistry()
	assert.Len(t, cfg.Features.Names(), reg.Len())
	assert.Len(t, cfg.Lexicons, len(DefaultResources()))

	spec, ok := cfg.Features.Spec("n_high_valence")
	require.True(t, ok)
	assert.Equal(t, "vad_nrc", spec.Lexicon)
	require.NotNil(t, spec.Threshold)
	assert.Equal(t, DefaultHighEmotion, *spec.Threshold)

	spec, _ = cfg.Features.Spec("ttr")
	assert.Nil(t, spec.Threshold)
}

func TestConfigRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	data, err := yaml.Marshal(cfg)
	require.NoError(t, err)

	parsed, err := ParseConfig(data)
	require.NoError(t, err)
	assert.Equal(t, cfg.Features.Names(), parsed.Features.Names())
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "workers: 4\nfeatures:\n  surface: [n_tokens]\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, []string{"n_tokens"}, cfg.Features.Names())

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("TF_LANGUAGE", "fr")
	t.Setenv("TF_WORKERS", "3")
	t.Setenv("TF_RESOURCE_DIR", "/srv/lexicons")

	cfg := DefaultConfig()
	require.NoError(t, cfg.ApplyEnv("tf"))
	assert.Equal(t, "fr", cfg.Language)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, "/srv/lexicons", cfg.ResourceDir)

	t.Setenv("TF_BACKBONE", "stanza")
	assert.True(t, errors.Is(cfg.ApplyEnv("TF"), ErrUnknownBackbone))

	t.Setenv("TF_BACKBONE", "basic")
	t.Setenv("TF_WORKERS", "many")
	assert.Error(t, cfg.ApplyEnv("TF"))
}

func TestConfigResources(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Lexicons["hedges"] = LexiconInfo{File: "my_hedges.txt"}
	cfg.Lexicons["unknown"] = LexiconInfo{File: "ignored.csv"}

	resources := cfg.Resources()
	assert.Equal(t, "my_hedges.txt", resources["hedges"].Filename)
	assert.Equal(t, DefaultResources()["socialness"].Filename, resources["socialness"].Filename)
	_, ok := resources["unknown"]
	assert.False(t, ok)
}
