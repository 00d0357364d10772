package textfeatures

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// A Resource is one lexicon known to the catalogue.
type Resource struct {
	ID       string
	Area     string
	Subarea  string
	Filename string
	Schema   LexiconSchema
}

// SensorimotorDimensions are the eleven Lancaster norm dimensions.
var SensorimotorDimensions = []string{
	"Auditory", "Gustatory", "Haptic", "Interoceptive", "Olfactory", "Visual",
	"Foot_leg", "Hand_arm", "Head", "Mouth", "Torso",
}

func sensorimotorSchema() LexiconSchema {
	schema := LexiconSchema{
		WordColumn: "Word",
		SDColumns:  make(map[string]string, len(SensorimotorDimensions)),
		Lowercase:  true,
	}
	for _, d := range SensorimotorDimensions {
		mean, sd := d+".mean", d+".SD"
		schema.RatingColumns = append(schema.RatingColumns, mean)
		schema.SDColumns[mean] = sd
	}
	return schema
}

// DefaultResources returns the built-in lexicon catalogue keyed by id.
func DefaultResources() map[string]Resource {
	list := []Resource{
		{
			ID: "hedges", Area: "Semantics", Subarea: "Hedges",
			Filename: "hedges.txt",
			Schema:   LexiconSchema{PlainList: true},
		},
		{
			ID: "vad_nrc", Area: "Emotion", Subarea: "VAD",
			Filename: "NRC-VAD-Lexicon.txt",
			Schema: LexiconSchema{
				WordColumn:    "word",
				Columns:       []string{"word", "valence", "arousal", "dominance"},
				RatingColumns: []string{"valence", "arousal", "dominance"},
				Delimiter:     '\t',
			},
		},
		{
			ID: "vad_warriner", Area: "Emotion", Subarea: "VAD",
			Filename: "Ratings_Warriner_et_al.csv",
			Schema: LexiconSchema{
				WordColumn:    "Word",
				RatingColumns: []string{"valence", "arousal", "dominance"},
				Rename: map[string]string{
					"V.Mean.Sum": "valence",
					"A.Mean.Sum": "arousal",
					"D.Mean.Sum": "dominance",
				},
				Delimiter: ',',
			},
		},
		{
			ID: "intensity_nrc", Area: "Emotion", Subarea: "Intensity",
			Filename: "NRC-Emotion-Intensity-Lexicon-v1.txt",
			Schema: LexiconSchema{
				WordColumn: "word",
				Columns:    []string{"word", "emotion", "intensity"},
				Long:       &LongFormat{CategoryColumn: "emotion", ValueColumn: "intensity"},
				Delimiter:  '\t',
			},
		},
		{
			ID: "sentiment_nrc", Area: "Emotion", Subarea: "Sentiment",
			Filename: "NRC-Emotion-Lexicon-Wordlevel-v0.92.txt",
			Schema: LexiconSchema{
				WordColumn: "word",
				Columns:    []string{"word", "emotion", "label"},
				Long:       &LongFormat{CategoryColumn: "emotion", ValueColumn: "label"},
				Delimiter:  '\t',
			},
		},
		{
			ID: "concreteness_brysbaert", Area: "Psycholinguistics", Subarea: "Concreteness",
			Filename: "Concreteness_ratings_Brysbaert_et_al_BRM.csv",
			Schema: LexiconSchema{
				WordColumn:    "Word",
				RatingColumns: []string{"Conc.M"},
				SDColumns:     map[string]string{"Conc.M": "Conc.SD"},
			},
		},
		{
			ID: "aoa_kuperman", Area: "Psycholinguistics", Subarea: "Age of Acquisition",
			Filename: "AoA_51715_words.csv",
			Schema: LexiconSchema{
				WordColumn:    "Word",
				RatingColumns: []string{"Rating.Mean"},
				SDColumns:     map[string]string{"Rating.Mean": "Rating.SD"},
			},
		},
		{
			ID: "prevalence_brysbaert", Area: "Psycholinguistics", Subarea: "Prevalence",
			Filename: "word_prevalence.csv",
			Schema: LexiconSchema{
				WordColumn:    "Word",
				RatingColumns: []string{"Prevalence"},
			},
		},
		{
			ID: "socialness", Area: "Psycholinguistics", Subarea: "Socialness",
			Filename: "Socialness.csv",
			Schema: LexiconSchema{
				WordColumn:    "Word",
				RatingColumns: []string{"Mean"},
				SDColumns:     map[string]string{"Mean": "SD"},
			},
		},
		{
			ID: "sensorimotor_lancaster", Area: "Psycholinguistics", Subarea: "Sensorimotor",
			Filename: "Lancaster_sensorimotor_norms_for_39707_words.csv",
			Schema:   sensorimotorSchema(),
		},
		{
			ID: "iconicity_winter", Area: "Psycholinguistics", Subarea: "Iconicity",
			Filename: "iconicity_ratings.csv",
			Schema: LexiconSchema{
				WordColumn:    "word",
				RatingColumns: []string{"rating"},
				SDColumns:     map[string]string{"rating": "rating_sd"},
			},
		},
	}

	out := make(map[string]Resource, len(list))
	for _, r := range list {
		out[r.ID] = r
	}
	return out
}

// ResourceIDs returns the catalogue ids in sorted order.
func ResourceIDs(resources map[string]Resource) []string {
	ids := make([]string, 0, len(resources))
	for id := range resources {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ResourceProvider maps a lexicon id to a local file path.
type ResourceProvider interface {
	Resolve(id string) (string, error)
}

// DirProvider resolves catalogue files against a local directory. For
// languages other than English, a "{language}/{file}" variant is preferred
// when it exists.
type DirProvider struct {
	Dir       string
	Language  Language
	Resources map[string]Resource
}

// NewDirProvider creates a provider over dir using the default catalogue.
func NewDirProvider(dir string, lang Language) *DirProvider {
	return &DirProvider{Dir: dir, Language: lang, Resources: DefaultResources()}
}

// Resolve returns the path of the lexicon file for id.
func (p *DirProvider) Resolve(id string) (string, error) {
	res, ok := p.Resources[id]
	if !ok {
		return "", fmt.Errorf("%w: unknown lexicon %q", ErrLexiconNotFound, id)
	}

	candidates := []string{filepath.Join(p.Dir, res.Filename)}
	if p.Language != "" && p.Language != English {
		variant := filepath.Join(p.Dir, string(p.Language), res.Filename)
		candidates = append([]string{variant}, candidates...)
	}

	for _, path := range candidates {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: %s (looked for %s)", ErrLexiconNotFound, id, candidates[0])
}
