package textfeatures

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func featureSet(area string, names ...string) FeatureSet {
	af := AreaFeatures{Area: area}
	for _, name := range names {
		af.Features = append(af.Features, NamedFeature{Name: name})
	}
	return FeatureSet{af}
}

func testConfig(fs FeatureSet) Config {
	cfg := DefaultConfig()
	cfg.Features = fs
	cfg.RemoveConstantCols = false
	return cfg
}

func newTestExtractor(t *testing.T, cfg Config, opts ...ExtractorOpt) *Extractor {
	t.Helper()
	store := NewLexiconStore(nil, nil)
	store.Add(ratingLexicon(t))
	opts = append([]ExtractorOpt{UsingLexiconStore(store), UsingBackbone(&fakeBackbone{})}, opts...)
	ex, err := NewExtractor(cfg, opts...)
	require.NoError(t, err)
	return ex
}

func column(t *testing.T, c *Corpus, name string) []float64 {
	t.Helper()
	values, ok := c.Float(name)
	require.Truef(t, ok, "column %s missing; have %v", name, c.Columns())
	return values
}

func TestExtractLexiconAverage(t *testing.T) {
	reg := NewRegistry().With(Entry{
		Name: "avg_rating", Area: "test", Lexicon: "ratings", Threshold: math.NaN(),
		Func: lexiconFeature("rating", ReduceMean, math.NaN()),
	})
	ex := newTestExtractor(t, testConfig(featureSet("test", "avg_rating")), UsingRegistry(reg))

	c := NewCorpus([]string{"the cat sat", "the cat sat on the mat"})
	require.NoError(t, ex.Extract(context.Background(), c))

	assert.Equal(t, []float64{3.0, 2.0}, column(t, c, "avg_rating"))
	assert.Equal(t, []string{"text", "avg_rating"}, c.Columns())
}

func TestExtractBasicBackboneLexiconJoin(t *testing.T) {
	lex, err := NewLexicon("ratings", "word", []string{"happy", "concrete", "cat"}, map[string][]float64{
		"rating": {0.9, 4.5, 3.0},
	})
	require.NoError(t, err)
	store := NewLexiconStore(nil, nil)
	store.Add(lex)

	bb, err := NewBasicBackbone(English)
	require.NoError(t, err)

	reg := NewRegistry().With(Entry{
		Name: "avg_rating", Area: "test", Lexicon: "ratings", Threshold: math.NaN(),
		Func: lexiconFeature("rating", ReduceMean, math.NaN()),
	})
	ex := newTestExtractor(t, testConfig(featureSet("test", "avg_rating")),
		UsingRegistry(reg), UsingLexiconStore(store), UsingBackbone(bb))

	c := NewCorpus([]string{"I am happy", "The concrete wall", "The cats sat"})
	require.NoError(t, ex.Extract(context.Background(), c))

	expected := []float64{0.9, 4.5, 3}
	got := column(t, c, "avg_rating")
	for i := range expected {
		assert.InDeltaf(t, expected[i], got[i], 1e-9, "row %d", i)
	}
}

func TestExtractBasicBackboneStems(t *testing.T) {
	bb, err := NewBasicBackbone(English)
	require.NoError(t, err)
	ex := newTestExtractor(t, testConfig(featureSet("surface", "n_stems", "n_lemmas")), UsingBackbone(bb))

	c := NewCorpus([]string{"connection connected connecting"})
	require.NoError(t, ex.Extract(context.Background(), c))

	assert.Equal(t, []float64{1}, column(t, c, "n_stems"))
	assert.Greater(t, column(t, c, "n_lemmas")[0], 1.0, "lemmas keep word forms that stems merge")
}

func TestExtractRemovesConstantColumns(t *testing.T) {
	cfg := testConfig(featureSet("surface", "n_sentences", "n_tokens"))
	cfg.RemoveConstantCols = true

	t.Run("several rows", func(t *testing.T) {
		c := NewCorpus([]string{"the cat sat", "the cat sat on the mat"})
		require.NoError(t, newTestExtractor(t, cfg).Extract(context.Background(), c))

		assert.False(t, c.Has("n_sentences"), "constant column should be dropped")
		assert.Equal(t, []float64{3, 6}, column(t, c, "n_tokens"))
		assert.True(t, c.Has("text"), "input columns are kept")
	})

	t.Run("single row", func(t *testing.T) {
		c := NewCorpus([]string{"the cat sat"})
		require.NoError(t, newTestExtractor(t, cfg).Extract(context.Background(), c))

		assert.True(t, c.Has("n_sentences"), "a single row keeps every column")
		assert.True(t, c.Has("n_tokens"))
	})
}

func TestExtractSkipsUnknownFeatures(t *testing.T) {
	ex := newTestExtractor(t, testConfig(featureSet("surface", "not_a_feature", "n_tokens")))

	c := NewCorpus([]string{"the cat sat"})
	require.NoError(t, ex.Extract(context.Background(), c))

	assert.False(t, c.Has("not_a_feature"))
	assert.Equal(t, []string{"text", "n_tokens"}, c.Columns())
}

func TestExtractSkipsMissingLexicon(t *testing.T) {
	ex := newTestExtractor(t, testConfig(featureSet("psycholinguistic", "avg_concreteness", "n_tokens")))

	c := NewCorpus([]string{"the cat sat"})
	require.NoError(t, ex.Extract(context.Background(), c))

	assert.False(t, c.Has("avg_concreteness"))
	assert.True(t, c.Has("n_tokens"))
}

func TestExtractComputesDependencies(t *testing.T) {
	ex := newTestExtractor(t, testConfig(featureSet("lexical_richness", "ttr")))

	c := NewCorpus([]string{"the cat sat on the mat"})
	require.NoError(t, ex.Extract(context.Background(), c))

	assert.InDelta(t, 5.0/6.0, column(t, c, "ttr")[0], 1e-9)
	assert.Equal(t, []float64{6}, column(t, c, "n_tokens"))
	assert.Equal(t, []float64{5}, column(t, c, "n_types"))
}

func TestExtractRatioFeatures(t *testing.T) {
	fs := featureSet("surface", "n_characters_token_ratio", "avg_word_length", "n_stop_words_sentence_ratio")
	ex := newTestExtractor(t, testConfig(fs))

	c := NewCorpus([]string{"the cat sat on the mat .", "a dog ."})
	require.NoError(t, ex.Extract(context.Background(), c))

	chars := column(t, c, "n_characters")
	tokens := column(t, c, "n_tokens")
	ratio := column(t, c, "n_characters_token_ratio")
	for i := range ratio {
		assert.InDelta(t, chars[i]/tokens[i], ratio[i], 1e-9)
	}
	assert.Equal(t, column(t, c, "avg_word_length"), ratio)
	assert.Equal(t, []float64{3, 0}, column(t, c, "n_stop_words_sentence_ratio"))
}

func TestExtractTokenNormalize(t *testing.T) {
	cfg := testConfig(featureSet("surface", "n_long_words", "n_tokens"))
	cfg.TokenNormalize = true
	ex := newTestExtractor(t, cfg)

	c := NewCorpus([]string{"elephants are enormous"})
	require.NoError(t, ex.Extract(context.Background(), c))

	assert.InDelta(t, 2.0/3.0, column(t, c, "n_long_words")[0], 1e-9)
	assert.Equal(t, []float64{3}, column(t, c, "n_tokens"), "n_tokens is never normalized")
}

func TestExtractFeatureOptions(t *testing.T) {
	threshold := 3.0
	fs := FeatureSet{{Area: "surface", Features: []NamedFeature{
		{Name: "n_long_words", Spec: FeatureSpec{Threshold: &threshold}},
	}}, {Area: "lexical_richness", Features: []NamedFeature{
		{Name: "mattr", Spec: FeatureSpec{Params: map[string][]string{"window_size": {"2"}}}},
	}}}
	ex := newTestExtractor(t, testConfig(fs))

	c := NewCorpus([]string{"elephants are enormous"})
	require.NoError(t, ex.Extract(context.Background(), c))

	assert.Equal(t, []float64{3}, column(t, c, "n_long_words"))
	assert.InDelta(t, 1.0, column(t, c, "mattr")[0], 1e-9)
}

func TestExtractFailedRows(t *testing.T) {
	fb := &fakeBackbone{fail: map[string]bool{"broken": true}}
	ex := newTestExtractor(t, testConfig(featureSet("surface", "n_tokens", "raw_sequence_length")), UsingBackbone(fb))

	c := NewCorpus([]string{"the cat sat", "broken"})
	require.NoError(t, ex.Extract(context.Background(), c))

	tokens := column(t, c, "n_tokens")
	assert.Equal(t, 3.0, tokens[0])
	assert.True(t, math.IsNaN(tokens[1]))
	assert.True(t, math.IsNaN(column(t, c, "raw_sequence_length")[1]))
}

func TestExtractCancelled(t *testing.T) {
	ex := newTestExtractor(t, testConfig(featureSet("surface", "n_tokens")))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewCorpus([]string{"the cat sat"})
	err := ex.Extract(ctx, c)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.False(t, c.Has("n_tokens"))
}

func TestExtractAnnotatesOnce(t *testing.T) {
	fb := &fakeBackbone{}
	ex := newTestExtractor(t, testConfig(featureSet("surface", "n_tokens", "n_sentences", "n_characters", "n_types")), UsingBackbone(fb))

	c := NewCorpus([]string{"the cat sat", "a dog"})
	require.NoError(t, ex.Extract(context.Background(), c))
	assert.Equal(t, 2, fb.calls)
}

func TestNewExtractorRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Backbone = "stanza"
	_, err := NewExtractor(cfg)
	assert.True(t, errors.Is(err, ErrUnknownBackbone))
}

func TestIsConstant(t *testing.T) {
	tests := []struct {
		values   []float64
		expected bool
		desc     string
	}{
		{[]float64{1, 1, 1}, true, "equal values"},
		{[]float64{1, 2}, false, "different values"},
		{[]float64{math.NaN(), math.NaN()}, true, "all missing"},
		{[]float64{math.NaN(), 1}, false, "missing and present"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			if got := isConstant(tt.values); got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}
