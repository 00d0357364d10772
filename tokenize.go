package textfeatures

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

type TokenTester func(string) bool

// Tokenizer splits text into tokens carrying byte offsets.
type Tokenizer interface {
	Tokenize(string) []*Token
}

// iterTokenizer splits a sentence into words.
type iterTokenizer struct {
	specialRE      *regexp.Regexp
	sanitizer      *strings.Replacer
	contractions   []string
	splitCases     []string
	suffixes       []string
	prefixes       []string
	emoticons      map[string]int
	isUnsplittable TokenTester
	tokenPool      *TokenPool
}

type TokenizerOptFunc func(*iterTokenizer)

// UsingIsUnsplittable gives a function that tests whether a token is splittable or not.
func UsingIsUnsplittable(x TokenTester) TokenizerOptFunc {
	return func(tokenizer *iterTokenizer) {
		tokenizer.isUnsplittable = x
	}
}

// UsingSpecialRE sets the regex for unsplittable tokens.
func UsingSpecialRE(x *regexp.Regexp) TokenizerOptFunc {
	return func(tokenizer *iterTokenizer) {
		tokenizer.specialRE = x
	}
}

// UsingSuffixes sets the suffixes split off the end of a token.
func UsingSuffixes(x []string) TokenizerOptFunc {
	return func(tokenizer *iterTokenizer) {
		tokenizer.suffixes = x
	}
}

// UsingPrefixes sets the prefixes split off the start of a token.
func UsingPrefixes(x []string) TokenizerOptFunc {
	return func(tokenizer *iterTokenizer) {
		tokenizer.prefixes = x
	}
}

// UsingContractions sets the contraction endings, e.g. "n't".
func UsingContractions(x []string) TokenizerOptFunc {
	return func(tokenizer *iterTokenizer) {
		tokenizer.contractions = x
	}
}

// UsingTokenPool sets the token pool for memory optimization.
func UsingTokenPool(pool *TokenPool) TokenizerOptFunc {
	return func(tokenizer *iterTokenizer) {
		tokenizer.tokenPool = pool
	}
}

// NewIterTokenizer builds the rule-based tokenizer used by the basic backbone.
func NewIterTokenizer(opts ...TokenizerOptFunc) *iterTokenizer {
	tok := &iterTokenizer{
		contractions:   contractions,
		emoticons:      emoticons,
		isUnsplittable: func(_ string) bool { return false },
		prefixes:       prefixes,
		sanitizer:      sanitizer,
		specialRE:      internalRE,
		suffixes:       suffixes,
		tokenPool:      NewTokenPool(),
	}

	for _, applyOpt := range opts {
		applyOpt(tok)
	}

	tok.splitCases = append(tok.splitCases, tok.contractions...)

	return tok
}

func (t *iterTokenizer) emit(s string, start int, toks []*Token) []*Token {
	if strings.TrimSpace(s) == "" {
		return toks
	}
	token := t.tokenPool.Get()
	token.Text = s
	token.Start = start
	token.End = start + len(s)
	return append(toks, token)
}

func (t *iterTokenizer) isSpecial(token string) bool {
	_, found := t.emoticons[token]
	return found || t.specialRE.MatchString(token) || t.isUnsplittable(token)
}

// split breaks one whitespace-delimited span into tokens.
func (t *iterTokenizer) split(token string, offset int) []*Token {
	var tokens, suffs []*Token

	last := 0
	for token != "" && utf8.RuneCountInString(token) != last {
		if t.isSpecial(token) {
			tokens = t.emit(token, offset, tokens)
			break
		}
		last = utf8.RuneCountInString(token)
		lower := strings.ToLower(token)
		if hasAnyPrefix(token, t.prefixes) {
			// $100 -> [$, 100]
			tokens = t.emit(token[:1], offset, tokens)
			token = token[1:]
			offset++
		} else if idx := hasAnyIndex(lower, t.splitCases); idx > 0 {
			// they'll -> [they, 'll], don't -> [do, n't]
			tokens = t.emit(token[:idx], offset, tokens)
			offset += idx
			token = token[idx:]
		} else if hasAnySuffix(token, t.suffixes) {
			// Well) -> [Well, )]
			n := len(token) - 1
			suffs = append(t.emit(token[n:], offset+n, nil), suffs...)
			token = token[:n]
		} else {
			tokens = t.emit(token, offset, tokens)
			break
		}
	}

	return append(tokens, suffs...)
}

// Tokenize splits text into a slice of tokens with byte offsets.
func (t *iterTokenizer) Tokenize(text string) []*Token {
	var tokens []*Token

	clean := t.sanitizer.Replace(text)
	start := -1
	for index, r := range clean {
		if unicode.IsSpace(r) {
			if start >= 0 {
				tokens = append(tokens, t.split(clean[start:index], start)...)
				start = -1
			}
			continue
		}
		if start < 0 {
			start = index
		}
	}
	if start >= 0 {
		tokens = append(tokens, t.split(clean[start:], start)...)
	}

	return tokens
}

// Release hands tokens back to the pool once they have been copied out.
func (t *iterTokenizer) Release(tokens []*Token) {
	for _, tok := range tokens {
		t.tokenPool.Put(tok)
	}
}

func hasAnyPrefix(s string, prefixes []string) bool {
	n := len(s)
	for _, prefix := range prefixes {
		if n > len(prefix) && strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}

func hasAnySuffix(s string, suffixes []string) bool {
	n := len(s)
	for _, suffix := range suffixes {
		if n > len(suffix) && strings.HasSuffix(s, suffix) {
			return true
		}
	}
	return false
}

func hasAnyIndex(s string, suffixes []string) int {
	n := len(s)
	for _, suffix := range suffixes {
		idx := strings.Index(s, suffix)
		if idx >= 0 && n > len(suffix) {
			return idx
		}
	}
	return -1
}

var internalRE = regexp.MustCompile(`^(?:[A-Za-z]\.){2,}$|^[A-Z][a-z]{1,2}\.$`)

// Token offsets refer to the sanitized text.
var sanitizer = strings.NewReplacer(
	"\u201c", `"`,
	"\u201d", `"`,
	"\u2018", "'",
	"\u2019", "'")

var contractions = []string{"'ll", "'s", "'re", "'m", "'ve", "'d", "n't"}
var suffixes = []string{",", ")", `"`, "]", "!", ";", ".", "?", ":", "'"}
var prefixes = []string{"$", "(", `"`, "["}
var emoticons = map[string]int{
	":)":   1,
	":(":   1,
	":-)":  1,
	":-(":  1,
	";)":   1,
	";-)":  1,
	":D":   1,
	":-D":  1,
	":P":   1,
	":-P":  1,
	":o":   1,
	":/":   1,
	":-/":  1,
	":'(":  1,
	"<3":   1,
	"xD":   1,
	"XD":   1,
	"=)":   1,
	"=(":   1,
	"o_O":  1,
	"O_o":  1,
	"-_-":  1,
	"^_^":  1,
	"^^":   1,
	":-|":  1,
	":|":   1,
	"8-)":  1,
	"(:":   1,
	"):":   1,
	":-*":  1,
	":*":   1,
	"\\o/": 1,
}
