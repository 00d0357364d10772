package textfeatures

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"
	"github.com/bbalet/stopwords"
	"github.com/kljensen/snowball"
	"gopkg.in/neurosnap/sentences.v1"
	"gopkg.in/neurosnap/sentences.v1/english"
)

// Backbone turns raw text into an Annotation. Implementations must be
// deterministic and tag tokens with Universal POS tags.
type Backbone interface {
	Name() string
	Annotate(text string) (*Annotation, error)
}

// BasicBackbone is a parser-free annotator: rule-based tokenization,
// punkt sentence segmentation, dictionary lemmas for English, snowball
// stems, heuristic syllables and stop-word marking. It assigns only coarse tags (PUNCT, NUM, SYM, X) and
// produces no parse, entities, noun chunks or morphology.
type BasicBackbone struct {
	language   Language
	tokenizer  *iterTokenizer
	segmenter  *sentences.DefaultSentenceTokenizer
	lemmatizer *golem.Lemmatizer // nil outside English
}

var (
	englishLemmasOnce sync.Once
	englishLemmas     *golem.Lemmatizer
	englishLemmasErr  error
)

// englishLemmatizer loads the English lemma dictionary once per process.
func englishLemmatizer() (*golem.Lemmatizer, error) {
	englishLemmasOnce.Do(func() {
		englishLemmas, englishLemmasErr = golem.New(en.New())
	})
	return englishLemmas, englishLemmasErr
}

// NewBasicBackbone creates the rule-based backbone for lang.
func NewBasicBackbone(lang Language, opts ...TokenizerOptFunc) (*BasicBackbone, error) {
	segmenter, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load sentence tokenizer: %w", err)
	}
	if lang == "" {
		lang = English
	}

	var lemmatizer *golem.Lemmatizer
	if lang == English {
		if lemmatizer, err = englishLemmatizer(); err != nil {
			return nil, fmt.Errorf("failed to load lemma dictionary: %w", err)
		}
	}
	return &BasicBackbone{
		language:   lang,
		tokenizer:  NewIterTokenizer(opts...),
		segmenter:  segmenter,
		lemmatizer: lemmatizer,
	}, nil
}

// Name returns "basic".
func (b *BasicBackbone) Name() string {
	return "basic"
}

// Annotate tokenizes and segments text.
func (b *BasicBackbone) Annotate(text string) (*Annotation, error) {
	clean := b.tokenizer.sanitizer.Replace(text)
	pooled := b.tokenizer.Tokenize(clean)
	defer b.tokenizer.Release(pooled)

	bounds := b.sentenceStarts(clean)

	ann := &Annotation{Tokens: make([]Token, 0, len(pooled))}
	sent := 0
	for i, p := range pooled {
		for sent+1 < len(bounds) && p.Start >= bounds[sent+1] {
			sent++
		}
		tok := Token{
			Text:     p.Text,
			Head:     i,
			Sentence: sent,
			Start:    p.Start,
			End:      p.End,
		}
		b.decorate(&tok)
		ann.Tokens = append(ann.Tokens, tok)
	}

	ann.Sentences = groupSentences(ann.Tokens, clean)
	return ann, nil
}

// sentenceStarts returns the byte offset where each sentence begins.
func (b *BasicBackbone) sentenceStarts(text string) []int {
	var starts []int
	cursor := 0
	for _, s := range b.segmenter.Tokenize(text) {
		trimmed := strings.TrimSpace(s.Text)
		if trimmed == "" {
			continue
		}
		idx := strings.Index(text[cursor:], trimmed)
		if idx < 0 {
			continue
		}
		starts = append(starts, cursor+idx)
		cursor += idx + len(trimmed)
	}
	if len(starts) == 0 {
		starts = []int{0}
	}
	starts[0] = 0
	return starts
}

func (b *BasicBackbone) decorate(tok *Token) {
	lower := strings.ToLower(tok.Text)
	tok.Tag = coarseTag(tok.Text)
	tok.IsPunct = tok.Tag == TagPUNCT
	tok.Syllables = CountSyllables(tok.Text, b.language)
	tok.Lemma = lower

	if tok.Tag != TagX {
		return
	}
	// words missing from the dictionary keep their lower-cased form
	if b.lemmatizer != nil {
		if lemma := b.lemmatizer.Lemma(lower); lemma != "" {
			tok.Lemma = strings.ToLower(lemma)
		}
	}
	if stem, err := snowball.Stem(lower, b.language.snowballName(), true); err == nil && stem != "" {
		tok.Stem = stem
	}
	if strings.TrimSpace(stopwords.CleanString(lower, string(b.language), false)) == "" {
		tok.IsStop = true
	}
}

// groupSentences rebuilds sentence spans from the tokens' sentence indices.
// Sentence indices are renumbered so that none is empty.
func groupSentences(tokens []Token, text string) []Sentence {
	var out []Sentence
	for i := range tokens {
		if i == 0 || tokens[i].Sentence != tokens[i-1].Sentence {
			out = append(out, Sentence{Span: Span{Start: i, End: i}})
		}
		tokens[i].Sentence = len(out) - 1
		out[len(out)-1].End = i + 1
	}
	for i := range out {
		first, last := tokens[out[i].Start], tokens[out[i].End-1]
		if first.Start >= 0 && last.End <= len(text) && first.Start <= last.End {
			out[i].Text = text[first.Start:last.End]
		}
	}
	return out
}

func coarseTag(text string) string {
	if strings.ContainsAny(text, "0123456789") {
		if _, err := strconv.ParseFloat(strings.ReplaceAll(text, ",", ""), 64); err == nil {
			return TagNUM
		}
	}
	punct, sym, letters := 0, 0, 0
	for _, r := range text {
		switch {
		case unicode.IsPunct(r):
			punct++
		case unicode.IsSymbol(r):
			sym++
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			letters++
		}
	}
	switch {
	case letters > 0:
		return TagX
	case punct > 0 && sym == 0:
		return TagPUNCT
	case sym > 0:
		return TagSYM
	default:
		return TagX
	}
}

// NewBackbone creates the backbone named in cfg.
func NewBackbone(cfg Config) (Backbone, error) {
	lang := Language(cfg.Language)
	if cfg.autoLanguage() {
		lang = English
	}
	switch strings.ToLower(cfg.Backbone) {
	case "", "basic":
		b, err := NewBasicBackbone(lang)
		if err != nil {
			return nil, err
		}
		return b, nil
	case "precomputed":
		if cfg.Annotations == "" {
			return nil, fmt.Errorf("precomputed backbone needs an annotations file")
		}
		b, err := LoadPrecomputedBackbone(cfg.Annotations, lang)
		if err != nil {
			return nil, err
		}
		if cfg.Model != "" && b.Model() != "" && !strings.EqualFold(cfg.Model, b.Model()) {
			return nil, fmt.Errorf("%w: annotations come from %q, config asks for %q", ErrModelMismatch, b.Model(), cfg.Model)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackbone, cfg.Backbone)
	}
}
