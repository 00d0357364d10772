package textfeatures

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	englishVowelGroups = regexp.MustCompile(`[aeiouy]+`)
	vowelGroups        = regexp.MustCompile(`[aeiouyàáâäèéêëìíîïòóôöùúûüæœ]+`)
)

// CountSyllables estimates the syllables in word from its vowel groups.
// Tokens without letters have zero syllables.
func CountSyllables(word string, lang Language) int {
	hasLetter := false
	for _, r := range word {
		if unicode.IsLetter(r) {
			hasLetter = true
			break
		}
	}
	if !hasLetter {
		return 0
	}

	word = strings.ToLower(word)
	if lang != English && lang != "" {
		return max(1, len(vowelGroups.FindAllString(word, -1)))
	}

	syllables := len(englishVowelGroups.FindAllString(word, -1))

	// silent e, but not "-le" as in "table"
	if strings.HasSuffix(word, "e") && !strings.HasSuffix(word, "le") && syllables > 1 {
		syllables--
	}
	// "-ed" is silent unless preceded by t or d
	if strings.HasSuffix(word, "ed") && len(word) > 3 && syllables > 1 {
		prev := word[len(word)-3]
		if prev != 't' && prev != 'd' {
			syllables--
		}
	}

	return max(1, syllables)
}
