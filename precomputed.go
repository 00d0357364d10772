package textfeatures

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"unicode"
)

// wireToken is one token of a spaCy-style JSON export.
type wireToken struct {
	ID         int    `json:"id"`
	Head       int    `json:"head"`
	SentenceID int    `json:"sent"`
	Pos        string `json:"pos"`
	Dep        string `json:"dep"`

	// A string containing detailed POS data
	Tag string `json:"tag"`

	// the index of the start character of the token in the original doc
	Idx int `json:"idx"`

	Text      string `json:"text"`
	Lemma     string `json:"lemma"`
	Morph     string `json:"morph"`
	Syllables int    `json:"syllables"`
	IsStop    bool   `json:"is_stop"`
}

type wireSpan struct {
	Label string `json:"label"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// wireDoc is one line of an annotations file.
type wireDoc struct {
	Model      string      `json:"model,omitempty"` // the parser pipeline, e.g. en_core_web_sm
	Text       string      `json:"text"`
	Tokens     []wireToken `json:"tokens"`
	Ents       []wireSpan  `json:"ents"`
	NounChunks []wireSpan  `json:"noun_chunks"`
}

// PrecomputedBackbone serves annotations produced ahead of time by an
// external parser, keyed by the exact document text.
type PrecomputedBackbone struct {
	language Language
	model    string
	docs     map[string]*Annotation
}

// LoadPrecomputedBackbone reads a JSON Lines annotations file.
func LoadPrecomputedBackbone(path string, lang Language) (*PrecomputedBackbone, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening annotations file: %w", err)
	}
	defer f.Close()

	return NewPrecomputedBackbone(f, lang)
}

// NewPrecomputedBackbone reads JSON Lines annotations from r.
func NewPrecomputedBackbone(r io.Reader, lang Language) (*PrecomputedBackbone, error) {
	pb := &PrecomputedBackbone{language: lang, docs: make(map[string]*Annotation)}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1<<20), 64<<20)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var doc wireDoc
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("error parsing annotations line %d: %w", line, err)
		}
		if doc.Model != "" {
			if pb.model != "" && pb.model != doc.Model {
				return nil, fmt.Errorf("annotations line %d: model %q differs from %q on earlier lines", line, doc.Model, pb.model)
			}
			pb.model = doc.Model
		}
		ann, err := pb.convert(doc)
		if err != nil {
			return nil, fmt.Errorf("annotations line %d: %w", line, err)
		}
		pb.docs[doc.Text] = ann
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading annotations: %w", err)
	}

	return pb, nil
}

// Name returns "precomputed".
func (pb *PrecomputedBackbone) Name() string {
	return "precomputed"
}

// Model returns the parser model named in the annotations, or "" when
// the file names none.
func (pb *PrecomputedBackbone) Model() string {
	return pb.model
}

// Len returns the number of annotated documents.
func (pb *PrecomputedBackbone) Len() int {
	return len(pb.docs)
}

// Annotate returns the stored annotation for text.
func (pb *PrecomputedBackbone) Annotate(text string) (*Annotation, error) {
	ann, ok := pb.docs[text]
	if !ok {
		return nil, ErrNotAnnotated
	}
	return ann, nil
}

func (pb *PrecomputedBackbone) convert(doc wireDoc) (*Annotation, error) {
	n := len(doc.Tokens)
	ann := &Annotation{Tokens: make([]Token, n)}

	for i, wt := range doc.Tokens {
		if wt.Head < 0 || wt.Head >= n {
			return nil, fmt.Errorf("token %d has head %d outside document", i, wt.Head)
		}
		syll := wt.Syllables
		if syll == 0 {
			syll = CountSyllables(wt.Text, pb.language)
		}
		ann.Tokens[i] = Token{
			Text:      wt.Text,
			Lemma:     wt.Lemma,
			Tag:       wt.Pos,
			FineTag:   wt.Tag,
			Dep:       wt.Dep,
			Head:      wt.Head,
			Sentence:  wt.SentenceID,
			Start:     wt.Idx,
			End:       wt.Idx + len(wt.Text),
			Morph:     wt.Morph,
			Syllables: syll,
			IsStop:    wt.IsStop,
			IsPunct:   wt.Pos == TagPUNCT || isAllPunct(wt.Text),
		}
	}
	ann.Sentences = groupSentences(ann.Tokens, doc.Text)

	for _, e := range doc.Ents {
		if e.Start < 0 || e.End > n || e.Start >= e.End {
			return nil, fmt.Errorf("entity %q has invalid span [%d,%d)", e.Label, e.Start, e.End)
		}
		ann.Entities = append(ann.Entities, Entity{Span: Span{e.Start, e.End}, Label: e.Label})
	}
	for _, c := range doc.NounChunks {
		if c.Start < 0 || c.End > n || c.Start >= c.End {
			return nil, fmt.Errorf("noun chunk has invalid span [%d,%d)", c.Start, c.End)
		}
		ann.NounChunks = append(ann.NounChunks, Span{c.Start, c.End})
	}

	return ann, nil
}

func isAllPunct(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsPunct(r) {
			return false
		}
	}
	return true
}
