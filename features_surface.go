package textfeatures

import (
	"unicode/utf8"
)

// DefaultLongWordLength is the rune length from which a token counts as a
// long word.
const DefaultLongWordLength = 6

func registerSurface(r *Registry) {
	const area = "surface"

	r.simple(area, "raw_sequence_length", func(fc *FeatureContext) error {
		return fc.set(fc.Corpus.mapTexts(func(text string) float64 {
			return float64(utf8.RuneCountInString(text))
		}))
	})
	r.simple(area, "n_tokens", docFeature(func(ann *Annotation) float64 {
		return float64(len(ann.Tokens))
	}))
	r.simple(area, "n_sentences", docFeature(func(ann *Annotation) float64 {
		return float64(len(ann.Sentences))
	}))
	r.simple(area, "n_tokens_per_sentence", ratio("n_tokens", "n_sentences"))
	r.simple(area, "n_characters", docFeature(func(ann *Annotation) float64 {
		n := 0
		for _, tok := range ann.Tokens {
			n += utf8.RuneCountInString(tok.Text)
		}
		return float64(n)
	}))
	r.simple(area, "avg_word_length", ratio("n_characters", "n_tokens"))
	r.simple(area, "n_types", docFeature(func(ann *Annotation) float64 {
		return float64(countTypes(ann.Words()))
	}))
	r.add(Entry{
		Name:      "n_long_words",
		Area:      area,
		Threshold: DefaultLongWordLength,
		Func: func(fc *FeatureContext) error {
			minLen := int(fc.threshold(DefaultLongWordLength))
			return countTokens(func(tok *Token) bool {
				return utf8.RuneCountInString(tok.Text) >= minLen
			})(fc)
		},
	})
	r.simple(area, "n_lemmas", docFeature(func(ann *Annotation) float64 {
		return float64(countTypes(ann.Lemmas()))
	}))
	r.simple(area, "n_stems", docFeature(func(ann *Annotation) float64 {
		stems := make(map[string]struct{})
		for _, stem := range ann.Stems() {
			if stem != "" {
				stems[stem] = struct{}{}
			}
		}
		return float64(len(stems))
	}))
	r.simple(area, "n_stop_words", countTokens(func(tok *Token) bool {
		return tok.IsStop
	}))
}
