package textfeatures

import (
	"math"
)

func registerReadability(r *Registry) {
	const area = "readability"

	r.simple(area, "n_syllables", docFeature(func(ann *Annotation) float64 {
		n := 0
		for _, tok := range ann.Tokens {
			n += tok.Syllables
		}
		return float64(n)
	}))
	r.simple(area, "n_monosyllables", countTokens(func(tok *Token) bool {
		return tok.Syllables == 1
	}))
	r.simple(area, "n_polysyllables", countTokens(func(tok *Token) bool {
		return tok.Syllables >= 3
	}))

	// Inputs, in order: tokens, sentences, and one more count.
	readability := func(name, extra string, fn func(tok, sent, x float64) float64) {
		r.simple(area, name, derived([]string{"n_tokens", "n_sentences", extra}, func(x []float64) float64 {
			if x[0] == 0 || x[1] == 0 {
				return math.NaN()
			}
			return fn(x[0], x[1], x[2])
		}))
	}

	readability("flesch_reading_ease", "n_syllables", func(tok, sent, syll float64) float64 {
		return 206.835 - 1.015*(tok/sent) - 84.6*(syll/tok)
	})
	readability("flesch_kincaid_grade", "n_syllables", func(tok, sent, syll float64) float64 {
		return 0.39*(tok/sent) + 11.8*(syll/tok) - 15.59
	})
	readability("ari", "n_characters", func(tok, sent, chars float64) float64 {
		return 4.71*(chars/tok) + 0.5*(tok/sent) - 21.43
	})
	readability("smog", "n_polysyllables", func(tok, sent, poly float64) float64 {
		return 1.0430*math.Sqrt(30*poly/sent) + 3.1291
	})
	readability("cli", "n_characters", func(tok, sent, chars float64) float64 {
		l := chars / tok * 100
		s := sent / tok * 100
		return 0.0588*l - 0.296*s - 15.8
	})
	readability("gunning_fog", "n_polysyllables", func(tok, sent, poly float64) float64 {
		return 0.4 * (tok/sent + 100*poly/tok)
	})
	readability("lix", "n_long_words", func(tok, sent, long float64) float64 {
		return tok/sent + 100*long/tok
	})
	readability("rix", "n_long_words", func(tok, sent, long float64) float64 {
		return long / sent
	})
}
