package textfeatures

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// extract runs the named features over texts and returns the corpus.
func extract(t *testing.T, b Backbone, fs FeatureSet, texts []string, opts ...ExtractorOpt) *Corpus {
	t.Helper()
	if b == nil {
		b = &fakeBackbone{}
	}
	ex := newTestExtractor(t, testConfig(fs), append([]ExtractorOpt{UsingBackbone(b)}, opts...)...)
	c := NewCorpus(texts)
	require.NoError(t, ex.Extract(context.Background(), c))
	return c
}

func withParams(area, name string, params map[string][]string) FeatureSet {
	return FeatureSet{{Area: area, Features: []NamedFeature{{Name: name, Spec: FeatureSpec{Params: params}}}}}
}

func parsedBackbone(t *testing.T) *PrecomputedBackbone {
	t.Helper()
	pb, err := NewPrecomputedBackbone(strings.NewReader(annotationsJSONL), English)
	require.NoError(t, err)
	return pb
}

const parsedText = "Anna saw the dog."

func TestSurfaceFeatures(t *testing.T) {
	fs := featureSet("surface", "raw_sequence_length", "n_tokens", "n_sentences", "n_tokens_per_sentence",
		"n_characters", "avg_word_length", "n_types", "n_long_words", "n_lemmas", "n_stop_words")
	c := extract(t, nil, fs, []string{"The cat sat on the mat . The elephants ."})

	tests := []struct {
		column   string
		expected float64
	}{
		{"raw_sequence_length", 40},
		{"n_tokens", 10},
		{"n_sentences", 2},
		{"n_tokens_per_sentence", 5},
		{"n_characters", 31},
		{"avg_word_length", 3.1},
		{"n_types", 8},
		{"n_long_words", 1},
		{"n_lemmas", 7},
		{"n_stop_words", 4},
	}

	for _, tt := range tests {
		t.Run(tt.column, func(t *testing.T) {
			got := column(t, c, tt.column)[0]
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("expected %.4f, got %.4f", tt.expected, got)
			}
		})
	}
}

func TestLexicalRichnessFeatures(t *testing.T) {
	fs := featureSet("lexical_richness", "ttr", "herdan_c", "maas_index", "n_hapax_legomena",
		"n_hapax_dislegomena", "sichel_s", "yule_k", "simpsons_d", "herdan_v", "mtld", "hdd")
	c := extract(t, nil, fs, []string{"a a b", "x x x"})

	assert.InDelta(t, 2.0/3.0, column(t, c, "ttr")[0], 1e-9)
	assert.Equal(t, []float64{1, 0}, column(t, c, "n_hapax_legomena"))
	assert.Equal(t, []float64{1, 0}, column(t, c, "n_hapax_dislegomena"))
	assert.InDelta(t, 0.5, column(t, c, "sichel_s")[0], 1e-9)
	assert.InDelta(t, 1e4*2.0/9.0, column(t, c, "yule_k")[0], 1e-9)
	assert.InDelta(t, 1.0/3.0, column(t, c, "simpsons_d")[0], 1e-9)

	assert.Equal(t, 1.0, column(t, c, "herdan_c")[1], "a single type is degenerate")
	assert.Equal(t, 1.0, column(t, c, "maas_index")[1])
	assert.True(t, math.IsNaN(column(t, c, "hdd")[0]), "too few tokens for 42 draws")
}

func TestLexicalDensity(t *testing.T) {
	c := extract(t, parsedBackbone(t), featureSet("lexical_richness", "lexical_density"), []string{parsedText})
	assert.InDelta(t, 2.0/5.0, column(t, c, "lexical_density")[0], 1e-9)
	assert.Equal(t, []float64{2}, column(t, c, "n_lexical_tokens"))
}

func TestReadabilityFeatures(t *testing.T) {
	fs := featureSet("readability", "n_syllables", "n_monosyllables", "n_polysyllables",
		"flesch_reading_ease", "flesch_kincaid_grade", "lix", "rix")
	c := extract(t, nil, fs, []string{"The cat sat.", "elephants are enormous", ""})

	tests := []struct {
		column   string
		row      int
		expected float64
		desc     string
	}{
		{"n_syllables", 0, 3, "syllables"},
		{"n_monosyllables", 0, 3, "monosyllables"},
		{"n_polysyllables", 1, 2, "polysyllables"},
		{"flesch_reading_ease", 0, 206.835 - 1.015*3 - 84.6, "flesch reading ease"},
		{"flesch_kincaid_grade", 0, 0.39*3 + 11.8 - 15.59, "flesch-kincaid grade"},
		{"lix", 1, 3 + 100*2.0/3.0, "lix"},
		{"rix", 1, 2, "rix"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			got := column(t, c, tt.column)[tt.row]
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("expected %.4f, got %.4f", tt.expected, got)
			}
		})
	}

	assert.True(t, math.IsNaN(column(t, c, "flesch_reading_ease")[2]), "no sentences")
}

func TestEntropy(t *testing.T) {
	tests := []struct {
		text     string
		expected float64
		desc     string
	}{
		{"aaaa", 0, "one symbol"},
		{"aabb", 1, "two equally likely symbols"},
		{"abcd", 2, "four equally likely symbols"},
		{"ééaa", 1, "characters, not bytes"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			if got := Entropy(tt.text); math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("expected %.4f, got %.4f", tt.expected, got)
			}
		})
	}
	assert.True(t, math.IsNaN(Entropy("")))
}

func TestCompressibility(t *testing.T) {
	repetitive := Compressibility(strings.Repeat("the cat sat on the mat ", 200))
	assert.Greater(t, repetitive, 0.0)
	assert.Less(t, repetitive, 0.1)
	assert.Greater(t, Compressibility("q"), 1.0, "tiny inputs grow")
	assert.True(t, math.IsNaN(Compressibility("")))
}

func TestPOSAndEntityFeatures(t *testing.T) {
	fs := FeatureSet{
		{Area: "pos", Features: []NamedFeature{
			{Name: "pos_variability"},
			{Name: "n_per_pos", Spec: FeatureSpec{Params: map[string][]string{"pos": {"NOUN", "VERB", "ADJ"}}}},
		}},
		{Area: "entities", Features: []NamedFeature{
			{Name: "n_entities"},
			{Name: "n_per_entity_type", Spec: FeatureSpec{Params: map[string][]string{"entity_types": {"PERSON", "ORG"}}}},
		}},
	}
	c := extract(t, parsedBackbone(t), fs, []string{parsedText})

	assert.Equal(t, []float64{1}, column(t, c, "pos_variability"))
	assert.Equal(t, []float64{1}, column(t, c, "n_noun"))
	assert.Equal(t, []float64{1}, column(t, c, "n_verb"))
	assert.Equal(t, []float64{0}, column(t, c, "n_adj"))
	assert.Equal(t, []float64{1}, column(t, c, "n_entities"))
	assert.Equal(t, []float64{1}, column(t, c, "n_person"))
	assert.Equal(t, []float64{0}, column(t, c, "n_org"))
}

func TestDependencyFeatures(t *testing.T) {
	fs := FeatureSet{{Area: "dependency", Features: []NamedFeature{
		{Name: "tree_width"},
		{Name: "tree_depth"},
		{Name: "tree_branching"},
		{Name: "ramification_factor"},
		{Name: "n_noun_chunks"},
		{Name: "n_per_dependency_type", Spec: FeatureSpec{Params: map[string][]string{"dependencies": {"nsubj", "det", "root", "amod"}}}},
	}}}
	c := extract(t, parsedBackbone(t), fs, []string{parsedText})

	assert.Equal(t, []float64{3}, column(t, c, "tree_width"))
	assert.Equal(t, []float64{2}, column(t, c, "tree_depth"))
	assert.InDelta(t, 0.8, column(t, c, "tree_branching")[0], 1e-9)
	assert.InDelta(t, 0.8, column(t, c, "ramification_factor")[0], 1e-9)
	assert.Equal(t, []float64{2}, column(t, c, "n_noun_chunks"))
	assert.Equal(t, []float64{1}, column(t, c, "n_dependency_nsubj"))
	assert.Equal(t, []float64{1}, column(t, c, "n_dependency_det"))
	assert.Equal(t, []float64{1}, column(t, c, "n_dependency_root"))
	assert.Equal(t, []float64{0}, column(t, c, "n_dependency_amod"))
}

func TestTreeDepthCycle(t *testing.T) {
	ann := &Annotation{Tokens: []Token{
		{Text: "a", Head: 0},
		{Text: "b", Head: 2},
		{Text: "c", Head: 1},
	}}
	ann.Sentences = groupSentences(ann.Tokens, "a b c")

	assert.Equal(t, 0.0, TreeDepth(ann), "tokens outside any root's subtree are ignored")
	assert.True(t, math.IsNaN(TreeDepth(&Annotation{})))
}

func TestMorphologyFeatures(t *testing.T) {
	params := map[string][]string{"morph": {"VERB:Tense:Past", "NOUN:Number:Sing", "NOUN:Number:Plur", "bogus"}}
	c := extract(t, parsedBackbone(t), withParams("morphology", "n_per_morph_feature", params), []string{parsedText})

	assert.Equal(t, []float64{1}, column(t, c, "n_verb_tense_past"))
	assert.Equal(t, []float64{1}, column(t, c, "n_noun_number_sing"))
	assert.Equal(t, []float64{0}, column(t, c, "n_noun_number_plur"))
	assert.False(t, c.Has("n_bogus"))
}

func TestParseMorphFeature(t *testing.T) {
	mf, ok := parseMorphFeature(" PRON:PronType:Int ")
	assert.True(t, ok)
	assert.Equal(t, morphFeature{pos: "PRON", feat: "PronType", val: "Int"}, mf)

	for _, bad := range []string{"", "VERB", "VERB:Tense", "VERB::Past", "a:b:c:d"} {
		_, ok := parseMorphFeature(bad)
		assert.Falsef(t, ok, "%q should not parse", bad)
	}
}

func TestMorphValues(t *testing.T) {
	tok := Token{Morph: "PronType=Int,Rel|Number=Sing"}
	assert.Equal(t, []string{"Int", "Rel"}, tok.MorphValues("PronType"))
	assert.Equal(t, []string{"Sing"}, tok.MorphValues("Number"))
	assert.Nil(t, tok.MorphValues("Case"))
	assert.Nil(t, Token{}.MorphValues("Case"))
}

func TestCountHedges(t *testing.T) {
	tests := []struct {
		text     string
		expected int
		desc     string
	}{
		{"I think it is sort of fine, sort of.", 3, "phrases counted"},
		{"i THINK so", 1, "case-insensitive"},
		{"Nothing here.", 0, "no hedges"},
		{"", 0, "empty text"},
		{"The mayor may resign.", 2, "substring inside a longer word"},
	}

	phrases := []string{"I think", "sort of", "may", ""}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			if got := CountHedges(tt.text, phrases); got != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestHedgeFeature(t *testing.T) {
	hedges, err := NewLexicon("hedges", "phrase", []string{"kind of", "maybe"}, nil)
	require.NoError(t, err)
	store := NewLexiconStore(nil, nil)
	store.Add(hedges)

	c := extract(t, nil, featureSet("semantic", "n_hedges"), []string{"It is kind of odd, maybe.", "Plain."},
		UsingLexiconStore(store))
	assert.Equal(t, []float64{2, 0}, column(t, c, "n_hedges"))
}

func TestReadSenseTable(t *testing.T) {
	data := "lemma\tpos\tcount\nsee\tVERB\t24\ndog\tnoun\t7\nbroken\tNOUN\tmany\n"
	table, err := ReadSenseTable(strings.NewReader(data))
	require.NoError(t, err)

	assert.Len(t, table, 2)
	assert.Equal(t, 24, table.Synsets("see", "VERB"))
	assert.Equal(t, 7, table.Synsets("Dog", "NOUN"))
	assert.Equal(t, 0, table.Synsets("cat", "NOUN"))
}

func TestSynsetFeatures(t *testing.T) {
	senses := SenseTable{senseKey("see", "VERB"): 24, senseKey("dog", "NOUN"): 7}
	fs := featureSet("semantic", "avg_num_synsets", "n_low_synsets", "n_high_synsets", "avg_num_synsets_per_pos")
	c := extract(t, parsedBackbone(t), fs, []string{parsedText}, UsingSenseInventory(senses))

	assert.Equal(t, []float64{15.5}, column(t, c, "avg_num_synsets"))
	assert.Equal(t, []float64{0}, column(t, c, "n_low_synsets"))
	assert.Equal(t, []float64{2}, column(t, c, "n_high_synsets"))
	assert.Equal(t, []float64{7}, column(t, c, "avg_num_synsets_noun"))
	assert.Equal(t, []float64{24}, column(t, c, "avg_num_synsets_verb"))
	assert.True(t, math.IsNaN(column(t, c, "avg_num_synsets_adj")[0]))
}

func TestFeatureAliases(t *testing.T) {
	reg := NewRegistry()
	tests := []struct {
		alias  string
		target string
	}{
		{"dougast_u", "dugast_u"},
		{"low_synsets_per_pos", "n_low_synsets_per_pos"},
		{"high_synsets_per_pos", "n_high_synsets_per_pos"},
	}
	for _, tt := range tests {
		t.Run(tt.alias, func(t *testing.T) {
			e, ok := reg.Lookup(tt.alias)
			require.True(t, ok)
			assert.Equal(t, tt.target, e.Name)
			assert.NotContains(t, reg.Names(), tt.alias, "aliases are not listed")
		})
	}

	c := extract(t, nil, featureSet("lexical_richness", "dougast_u", "dugast_u"), []string{"the cat sat on the mat"})
	assert.InDelta(t, column(t, c, "dugast_u")[0], column(t, c, "dougast_u")[0], 1e-12)

	senses := SenseTable{senseKey("see", "VERB"): 24, senseKey("dog", "NOUN"): 7}
	c = extract(t, parsedBackbone(t), featureSet("semantic", "high_synsets_per_pos", "low_synsets_per_pos"),
		[]string{parsedText}, UsingSenseInventory(senses))
	assert.Equal(t, []float64{1}, column(t, c, "n_high_synsets_noun"))
	assert.Equal(t, []float64{1}, column(t, c, "n_high_synsets_verb"))
	assert.Equal(t, []float64{0}, column(t, c, "n_low_synsets_noun"))
}

func TestSynsetFeaturesWithoutInventory(t *testing.T) {
	c := extract(t, parsedBackbone(t), featureSet("semantic", "avg_num_synsets", "n_entities"), []string{parsedText})
	assert.False(t, c.Has("avg_num_synsets"))
	assert.True(t, c.Has("n_entities"))
}

func TestSentimentFeatures(t *testing.T) {
	lex, err := NewLexicon("sentiment_nrc", "word", []string{"good", "bad", "happy"}, map[string][]float64{
		"positive": {1, 0, 1},
		"negative": {0, 1, 0},
	})
	require.NoError(t, err)
	store := NewLexiconStore(nil, nil)
	store.Add(lex)

	c := extract(t, nil, featureSet("emotion", "sentiment_score"), []string{"good happy bad day", "good good"},
		UsingLexiconStore(store))

	assert.Equal(t, []float64{2, 2}, column(t, c, "n_positive_sentiment"))
	assert.Equal(t, []float64{1, 0}, column(t, c, "n_negative_sentiment"))
	assert.Equal(t, []float64{0.25, 1}, column(t, c, "sentiment_score"))
}

func TestEmotionIntensityFeatures(t *testing.T) {
	lex, err := NewLexicon("intensity_nrc", "word", []string{"joyful", "scared"}, map[string][]float64{
		"joy":  {0.9, math.NaN()},
		"fear": {math.NaN(), 0.8},
	})
	require.NoError(t, err)
	store := NewLexiconStore(nil, nil)
	store.Add(lex)

	params := map[string][]string{"emotions": {"joy", "fear", "anger"}}
	c := extract(t, nil, withParams("emotion", "avg_emotion_intensity", params),
		[]string{"joyful scared day", "a joyful joyful day"}, UsingLexiconStore(store))

	assert.Equal(t, []float64{0.9, 0.9}, column(t, c, "avg_intensity_joy"))
	fear := column(t, c, "avg_intensity_fear")
	assert.Equal(t, 0.8, fear[0])
	assert.True(t, math.IsNaN(fear[1]))
	assert.False(t, c.Has("avg_intensity_anger"), "dimensions the lexicon lacks are skipped")
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()

	assert.Equal(t, []string{"surface", "lexical_richness", "readability", "information", "pos",
		"entities", "dependency", "morphology", "emotion", "psycholinguistic", "semantic"}, reg.Areas())
	assert.Equal(t, len(reg.Names()), reg.Len())

	e, ok := reg.Lookup("mtld")
	require.True(t, ok)
	assert.Equal(t, DefaultMTLDThreshold, e.Threshold)

	e, ok = reg.Lookup("avg_concreteness")
	require.True(t, ok)
	assert.Equal(t, "concreteness_brysbaert", e.Lexicon)

	custom := reg.With(Entry{Name: "ttr", Area: "custom", Threshold: math.NaN()})
	assert.Contains(t, custom.Features("custom"), "ttr")
	assert.NotContains(t, custom.Features("lexical_richness"), "ttr")
	assert.Contains(t, reg.Features("lexical_richness"), "ttr", "With does not modify the original")
}

func TestSplitRatio(t *testing.T) {
	tests := []struct {
		name        string
		base        string
		denominator string
		ok          bool
	}{
		{"n_nouns_token_ratio", "n_nouns", "n_tokens", true},
		{"n_hedges_sentence_ratio", "n_hedges", "n_sentences", true},
		{"n_lemmas_type_ratio", "n_lemmas", "n_types", true},
		{"_token_ratio", "", "", false},
		{"lemma_token_ratio_x", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base, den, ok := splitRatio(tt.name)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.base, base)
			assert.Equal(t, tt.denominator, den)
		})
	}
}
