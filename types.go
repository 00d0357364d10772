package textfeatures

import (
	"errors"
	"strings"
	"sync"
)

// A Token represents an individual token of an annotated document.
type Token struct {
	Text      string // The token's actual content.
	Lemma     string // The token's dictionary form.
	Stem      string // Snowball stem, when the backbone computes one.
	Tag       string // Universal POS tag (NOUN, VERB, ...).
	FineTag   string // Language-specific tag, if the backbone has one.
	Dep       string // Dependency label.
	Head      int    // Index of the syntactic head; a root points to itself.
	Sentence  int    // Index of the sentence containing the token.
	Start     int    // Start byte offset in the original text.
	End       int    // End byte offset in the original text.
	Morph     string // Morphological features as "Feat=Val|Feat=Val".
	Syllables int    // Number of syllables.
	IsStop    bool
	IsPunct   bool
}

// MorphValues returns the values of feat in the token's morphology.
// Multi-valued features use a comma, as in "PronType=Int,Rel".
func (t Token) MorphValues(feat string) []string {
	if t.Morph == "" {
		return nil
	}
	for _, pair := range strings.Split(t.Morph, "|") {
		k, v, ok := strings.Cut(pair, "=")
		if ok && k == feat {
			return strings.Split(v, ",")
		}
	}
	return nil
}

// A Span is a half-open range of token indices [Start, End).
type Span struct {
	Start int
	End   int
}

// Len returns the number of tokens in the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// A Sentence represents a segmented portion of text.
type Sentence struct {
	Span
	Text string
}

// String returns the text content of the sentence
func (s Sentence) String() string {
	return s.Text
}

// An Entity represents an individual named-entity.
type Entity struct {
	Span
	Label string
}

// Annotation is everything a backbone produces for one document.
type Annotation struct {
	Tokens     []Token
	Sentences  []Sentence
	Entities   []Entity
	NounChunks []Span
}

// Words returns the token texts in order.
func (a *Annotation) Words() []string {
	words := make([]string, len(a.Tokens))
	for i, tok := range a.Tokens {
		words[i] = tok.Text
	}
	return words
}

// Stems returns the token stems in order.
func (a *Annotation) Stems() []string {
	stems := make([]string, len(a.Tokens))
	for i, tok := range a.Tokens {
		stems[i] = tok.Stem
	}
	return stems
}

// Lemmas returns the token lemmas in order.
func (a *Annotation) Lemmas() []string {
	lemmas := make([]string, len(a.Tokens))
	for i, tok := range a.Tokens {
		lemmas[i] = tok.Lemma
	}
	return lemmas
}

// Children returns, for every token, the number of tokens whose head it is.
func (a *Annotation) Children() []int {
	children := make([]int, len(a.Tokens))
	for i, tok := range a.Tokens {
		if tok.Head != i && tok.Head >= 0 && tok.Head < len(a.Tokens) {
			children[tok.Head]++
		}
	}
	return children
}

// TokenPool manages a pool of Token objects to reduce GC pressure
type TokenPool struct {
	pool sync.Pool
}

// NewTokenPool creates a new token pool
func NewTokenPool() *TokenPool {
	return &TokenPool{
		pool: sync.Pool{
			New: func() interface{} {
				return &Token{}
			},
		},
	}
}

// Get retrieves a token from the pool
func (tp *TokenPool) Get() *Token {
	return tp.pool.Get().(*Token)
}

// Put returns a token to the pool
func (tp *TokenPool) Put(token *Token) {
	*token = Token{}
	tp.pool.Put(token)
}

// Language represents supported languages
type Language string

const (
	English Language = "en"
	Spanish Language = "es"
	French  Language = "fr"
	German  Language = "de"
	Italian Language = "it"
	Dutch   Language = "nl"
)

// snowballName maps a language to the name the snowball stemmer expects.
func (l Language) snowballName() string {
	switch l {
	case Spanish:
		return "spanish"
	case French:
		return "french"
	case German:
		return "german"
	case Italian:
		return "italian"
	case Dutch:
		return "dutch"
	default:
		return "english"
	}
}

// Universal POS tags.
const (
	TagADJ   = "ADJ"
	TagADP   = "ADP"
	TagADV   = "ADV"
	TagAUX   = "AUX"
	TagCONJ  = "CONJ"
	TagCCONJ = "CCONJ"
	TagDET   = "DET"
	TagINTJ  = "INTJ"
	TagNOUN  = "NOUN"
	TagNUM   = "NUM"
	TagPART  = "PART"
	TagPRON  = "PRON"
	TagPROPN = "PROPN"
	TagPUNCT = "PUNCT"
	TagSCONJ = "SCONJ"
	TagSYM   = "SYM"
	TagVERB  = "VERB"
	TagX     = "X"
)

// UniversalPOS lists every Universal POS tag in canonical order.
var UniversalPOS = []string{
	TagADJ, TagADP, TagADV, TagAUX, TagCONJ, TagCCONJ, TagDET, TagINTJ,
	TagNOUN, TagNUM, TagPART, TagPRON, TagPROPN, TagPUNCT, TagSCONJ,
	TagSYM, TagVERB, TagX,
}

// LexicalPOS are the content-word tags used for lexical density.
var LexicalPOS = []string{TagNOUN, TagVERB, TagADJ, TagADV}

// EntityTypes are the OntoNotes entity labels.
var EntityTypes = []string{
	"ORG", "CARDINAL", "DATE", "GPE", "PERSON", "MONEY", "PRODUCT", "TIME",
	"PERCENT", "WORK_OF_ART", "QUANTITY", "NORP", "LOC", "EVENT", "ORDINAL",
	"FAC", "LAW", "LANGUAGE",
}

// UniversalDependencies is the Universal Dependencies v2 label set.
var UniversalDependencies = []string{
	"acl", "advcl", "advmod", "amod", "appos", "aux", "case", "cc", "ccomp",
	"clf", "compound", "conj", "cop", "csubj", "dep", "det", "discourse",
	"dislocated", "expl", "fixed", "flat", "goeswith", "iobj", "list",
	"mark", "nmod", "nsubj", "nummod", "obj", "obl", "orphan", "parataxis",
	"punct", "reparandum", "root", "vocative", "xcomp",
}

// Sentinel errors checked with errors.Is.
var (
	ErrUnknownFeature    = errors.New("unknown feature")
	ErrLexiconNotFound   = errors.New("resource not found")
	ErrTextTooLong       = errors.New("text exceeds maximum annotation length")
	ErrNotAnnotated      = errors.New("no annotation for text")
	ErrMissingTextColumn = errors.New("text column not found")
	ErrUnknownBackbone   = errors.New("unknown backbone")
	ErrModelMismatch     = errors.New("annotation model mismatch")
)
