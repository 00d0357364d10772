package textfeatures

import (
	"math"
)

func registerPOS(r *Registry) {
	const area = "pos"

	lexical := make(map[string]bool, len(LexicalPOS))
	for _, tag := range LexicalPOS {
		lexical[tag] = true
	}

	r.simple(area, "n_lexical_tokens", countTokens(func(tok *Token) bool {
		return lexical[tok.Tag]
	}))
	r.simple(area, "pos_variability", docFeature(func(ann *Annotation) float64 {
		if len(ann.Tokens) == 0 {
			return math.NaN()
		}
		tags := make(map[string]struct{})
		for _, tok := range ann.Tokens {
			tags[tok.Tag] = struct{}{}
		}
		return float64(len(tags)) / float64(len(ann.Tokens))
	}))
	r.add(Entry{
		Name:      "n_per_pos",
		Area:      area,
		Threshold: math.NaN(),
		Params:    map[string][]string{"pos": UniversalPOS},
		Func: func(fc *FeatureContext) error {
			return perValue(fc, fc.Param("pos", UniversalPOS),
				func(tag string) string { return columnName("n", tag) },
				func(ann *Annotation, tag string) int {
					n := 0
					for _, tok := range ann.Tokens {
						if tok.Tag == tag {
							n++
						}
					}
					return n
				})
		},
	})
}

func registerEntities(r *Registry) {
	const area = "entities"

	r.simple(area, "n_entities", docFeature(func(ann *Annotation) float64 {
		return float64(len(ann.Entities))
	}))
	r.add(Entry{
		Name:      "n_per_entity_type",
		Area:      area,
		Threshold: math.NaN(),
		Params:    map[string][]string{"entity_types": EntityTypes},
		Func: func(fc *FeatureContext) error {
			return perValue(fc, fc.Param("entity_types", EntityTypes),
				func(label string) string { return columnName("n", label) },
				func(ann *Annotation, label string) int {
					n := 0
					for _, e := range ann.Entities {
						if e.Label == label {
							n++
						}
					}
					return n
				})
		},
	})
}
