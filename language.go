package textfeatures

import (
	"strings"
	"unicode"
)

// AutoLanguage in Config.Language asks the extractor to detect each
// corpus's dominant language.
const AutoLanguage = "auto"

// minDetectionWords is the fewest words DetectLanguage will score.
const minDetectionWords = 3

// functionWords are frequent closed-class words of each language.
var functionWords = map[Language][]string{
	English: {"the", "and", "that", "have", "for", "not", "with", "you", "this", "but", "his", "from", "they", "is", "was", "are", "of", "to"},
	Spanish: {"que", "de", "no", "la", "el", "es", "en", "un", "por", "con", "como", "para", "pero", "los", "las", "del", "una", "y"},
	French:  {"le", "la", "les", "et", "un", "une", "il", "est", "que", "pour", "dans", "ce", "pas", "des", "du", "sur", "au", "je"},
	German:  {"der", "die", "und", "das", "den", "von", "zu", "mit", "sich", "des", "auf", "für", "ist", "nicht", "ein", "eine", "ich", "dem"},
	Italian: {"il", "di", "che", "la", "è", "per", "un", "non", "una", "sono", "del", "con", "gli", "le", "della", "ma", "questo", "ho"},
	Dutch:   {"de", "het", "een", "van", "en", "is", "dat", "niet", "op", "te", "zijn", "voor", "met", "ik", "je", "ook", "maar", "wat"},
}

// letterCues are characters that point strongly to one language.
var letterCues = map[rune]Language{
	'ñ': Spanish, '¿': Spanish, '¡': Spanish,
	'ç': French, 'œ': French, 'ê': French, 'â': French,
	'ß': German, 'ä': German, 'ö': German, 'ü': German,
	'ì': Italian, 'ò': Italian,
}

// LanguageDetector guesses the language of a text from its function words
// and a few telltale letters.
type LanguageDetector struct {
	words map[string][]Language
}

// NewLanguageDetector creates a detector for the supported languages.
func NewLanguageDetector() *LanguageDetector {
	ld := &LanguageDetector{words: make(map[string][]Language)}
	for lang, words := range functionWords {
		for _, w := range words {
			ld.words[w] = append(ld.words[w], lang)
		}
	}
	return ld
}

// Detect returns the most likely language of text and its share of the
// evidence in [0, 1]. Texts too short to judge are reported as English with
// zero confidence.
func (ld *LanguageDetector) Detect(text string) (Language, float64) {
	scores := ld.score(text)
	if scores == nil {
		return English, 0
	}
	return best(scores)
}

func (ld *LanguageDetector) score(text string) map[Language]float64 {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})
	if len(words) < minDetectionWords {
		return nil
	}

	scores := make(map[Language]float64)
	for _, w := range words {
		langs := ld.words[w]
		for _, lang := range langs {
			// shared words are split between their languages
			scores[lang] += 1 / float64(len(langs))
		}
	}
	for _, r := range strings.ToLower(text) {
		if lang, ok := letterCues[r]; ok {
			scores[lang] += 0.5
		}
	}
	return scores
}

// DetectLanguage is shorthand for NewLanguageDetector().Detect(text).
func DetectLanguage(text string) (Language, float64) {
	return NewLanguageDetector().Detect(text)
}

// DominantLanguage pools the evidence of up to sample texts (all of them
// when sample <= 0) and returns the winning language. English is returned
// when nothing can be judged.
func DominantLanguage(texts []string, sample int) Language {
	if sample > 0 && len(texts) > sample {
		texts = texts[:sample]
	}

	ld := NewLanguageDetector()
	total := make(map[Language]float64)
	for _, text := range texts {
		for lang, s := range ld.score(text) {
			total[lang] += s
		}
	}
	lang, _ := best(total)
	return lang
}

// best picks the highest score, breaking ties by language code so the
// result does not depend on map order.
func best(scores map[Language]float64) (Language, float64) {
	winner, top, sum := English, 0.0, 0.0
	for lang, s := range scores {
		sum += s
		if s > top || (s == top && s > 0 && lang < winner) {
			winner, top = lang, s
		}
	}
	if sum == 0 {
		return English, 0
	}
	return winner, top / sum
}
