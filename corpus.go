package textfeatures

import (
	"context"
	"fmt"
	"math"
	"sync"
	"unicode/utf8"

	"github.com/tsawler/textfeatures/logging"
)

// DefaultMaxLength is the longest text, in characters, a backbone is asked
// to annotate.
const DefaultMaxLength = 1000000

// A CorpusOpt represents a setting that changes how a corpus is built and
// annotated.
//
// For example, it might swap the annotation backbone:
//
//	corpus := textfeatures.NewCorpus(texts, textfeatures.WithBackbone(bb))
type CorpusOpt func(c *Corpus)

// WithBackbone sets the annotation backbone.
func WithBackbone(b Backbone) CorpusOpt {
	return func(c *Corpus) {
		c.backbone = b
	}
}

// WithTextColumn names the column holding the raw text.
func WithTextColumn(name string) CorpusOpt {
	return func(c *Corpus) {
		c.textColumn = name
	}
}

// WithMaxLength sets the longest text, in characters, that is annotated.
func WithMaxLength(n int) CorpusOpt {
	return func(c *Corpus) {
		c.maxLength = n
	}
}

// WithProgressCallback sets a callback invoked after each document is
// annotated.
func WithProgressCallback(callback func(done, total int)) CorpusOpt {
	return func(c *Corpus) {
		c.progress = callback
	}
}

// WithWorkers sets how many goroutines compute per-row features.
func WithWorkers(n int) CorpusOpt {
	return func(c *Corpus) {
		c.workers = n
	}
}

// A Corpus is a table of documents: one row per text, string columns from
// the input, and float64 feature columns added during extraction. Rows are
// never reordered or filtered.
type Corpus struct {
	textColumn string
	order      []string
	strs       map[string][]string
	floats     map[string][]float64
	rows       int

	backbone  Backbone
	maxLength int
	workers   int
	progress  func(done, total int)
	logger    logging.Logger

	annMu       sync.Mutex
	annotations []*Annotation
	annErrs     []error
	annotated   []bool
	lemmas      [][]string

	// resolve computes a missing column; the extractor installs it.
	resolve func(name string) error
}

// NewCorpus creates a corpus with a single text column.
func NewCorpus(texts []string, opts ...CorpusOpt) *Corpus {
	c := newCorpus(opts...)
	c.rows = len(texts)
	c.order = []string{c.textColumn}
	c.strs[c.textColumn] = append([]string(nil), texts...)
	c.initAnnotations()
	return c
}

// NewCorpusFromRecords creates a corpus from a header and string records,
// as read from a CSV file. The text column must be present.
func NewCorpusFromRecords(header []string, records [][]string, opts ...CorpusOpt) (*Corpus, error) {
	c := newCorpus(opts...)
	c.rows = len(records)

	for col, name := range header {
		if _, dup := c.strs[name]; dup {
			return nil, fmt.Errorf("duplicate column %q", name)
		}
		values := make([]string, len(records))
		for row, rec := range records {
			if col < len(rec) {
				values[row] = rec[col]
			}
		}
		c.order = append(c.order, name)
		c.strs[name] = values
	}
	if _, ok := c.strs[c.textColumn]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingTextColumn, c.textColumn)
	}

	c.initAnnotations()
	return c, nil
}

func newCorpus(opts ...CorpusOpt) *Corpus {
	c := &Corpus{
		textColumn: "text",
		strs:       make(map[string][]string),
		floats:     make(map[string][]float64),
		maxLength:  DefaultMaxLength,
		workers:    1,
		logger:     logging.WithFields(logging.Fields{"component": "corpus"}),
	}
	for _, applyOpt := range opts {
		applyOpt(c)
	}
	return c
}

func (c *Corpus) initAnnotations() {
	c.annotations = make([]*Annotation, c.rows)
	c.annErrs = make([]error, c.rows)
	c.annotated = make([]bool, c.rows)
}

// Len returns the number of rows.
func (c *Corpus) Len() int {
	return c.rows
}

// TextColumn returns the name of the text column.
func (c *Corpus) TextColumn() string {
	return c.textColumn
}

// Texts returns the raw texts.
func (c *Corpus) Texts() []string {
	return c.strs[c.textColumn]
}

// Columns returns the column names in output order.
func (c *Corpus) Columns() []string {
	return append([]string(nil), c.order...)
}

// Has reports whether a column exists.
func (c *Corpus) Has(name string) bool {
	if _, ok := c.floats[name]; ok {
		return true
	}
	_, ok := c.strs[name]
	return ok
}

// Float returns a numeric column.
func (c *Corpus) Float(name string) ([]float64, bool) {
	v, ok := c.floats[name]
	return v, ok
}

// Strings returns a string column.
func (c *Corpus) Strings(name string) ([]string, bool) {
	v, ok := c.strs[name]
	return v, ok
}

// Cell formats one value for output; missing numbers become "".
func (c *Corpus) Cell(name string, row int) string {
	if v, ok := c.floats[name]; ok {
		return formatFloat(v[row])
	}
	if v, ok := c.strs[name]; ok {
		return v[row]
	}
	return ""
}

// SetFloat adds or replaces a numeric column.
func (c *Corpus) SetFloat(name string, values []float64) error {
	if len(values) != c.rows {
		return fmt.Errorf("column %q has %d values for %d rows", name, len(values), c.rows)
	}
	if _, ok := c.strs[name]; ok {
		return fmt.Errorf("column %q already holds text", name)
	}
	if _, ok := c.floats[name]; !ok {
		c.order = append(c.order, name)
	}
	c.floats[name] = values
	return nil
}

// Drop removes a column; dropping an absent column is a no-op.
func (c *Corpus) Drop(name string) {
	if !c.Has(name) {
		return
	}
	delete(c.floats, name)
	delete(c.strs, name)
	for i, col := range c.order {
		if col == name {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Require returns a numeric column, computing it on first use.
func (c *Corpus) Require(name string) ([]float64, error) {
	if v, ok := c.floats[name]; ok {
		return v, nil
	}
	if c.resolve == nil {
		return nil, fmt.Errorf("%w: %q (no resolver installed)", ErrUnknownFeature, name)
	}
	if err := c.resolve(name); err != nil {
		return nil, err
	}
	v, ok := c.floats[name]
	if !ok {
		return nil, fmt.Errorf("feature %q did not produce its column", name)
	}
	return v, nil
}

// Annotation returns the memoized annotation of row i.
func (c *Corpus) Annotation(i int) (*Annotation, error) {
	c.annMu.Lock()
	defer c.annMu.Unlock()
	return c.annotateLocked(i)
}

func (c *Corpus) annotateLocked(i int) (*Annotation, error) {
	if c.annotated[i] {
		return c.annotations[i], c.annErrs[i]
	}
	c.annotated[i] = true

	text := c.Texts()[i]
	switch {
	case c.backbone == nil:
		c.annErrs[i] = fmt.Errorf("no backbone configured")
	case c.maxLength > 0 && utf8.RuneCountInString(text) > c.maxLength:
		c.annErrs[i] = fmt.Errorf("%w: %d characters", ErrTextTooLong, utf8.RuneCountInString(text))
	default:
		c.annotations[i], c.annErrs[i] = c.backbone.Annotate(text)
	}
	if c.annErrs[i] != nil {
		c.logger.Error(c.annErrs[i], "annotation failed", logging.Fields{"row": i})
		c.annotations[i] = nil
	}
	return c.annotations[i], c.annErrs[i]
}

// Annotate annotates every row not yet annotated. Failed rows are logged
// and left without an annotation; only cancellation is returned.
func (c *Corpus) Annotate(ctx context.Context) error {
	c.annMu.Lock()
	defer c.annMu.Unlock()

	for i := 0; i < c.rows; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if c.annotated[i] {
			continue
		}
		c.annotateLocked(i)
		if c.progress != nil {
			c.progress(i+1, c.rows)
		}
	}
	return nil
}

// Lemmas returns every row's lemma list, building the list column on first
// use. Rows whose annotation failed have a nil list.
func (c *Corpus) Lemmas() [][]string {
	if c.lemmas != nil {
		return c.lemmas
	}
	lemmas := make([][]string, c.rows)
	for i := range lemmas {
		if ann, err := c.Annotation(i); err == nil {
			lemmas[i] = ann.Lemmas()
		}
	}
	c.lemmas = lemmas
	return lemmas
}

// mapDocs computes one value per annotated row on the worker pool. Rows
// without an annotation get NaN.
func (c *Corpus) mapDocs(fn func(ann *Annotation) float64) []float64 {
	anns := make([]*Annotation, c.rows)
	for i := range anns {
		anns[i], _ = c.Annotation(i)
	}
	return mapRows(c.rows, c.workers, func(i int) float64 {
		if anns[i] == nil {
			return math.NaN()
		}
		return fn(anns[i])
	})
}

// mapTexts computes one value per raw text on the worker pool. Rows whose
// annotation already failed get NaN.
func (c *Corpus) mapTexts(fn func(text string) float64) []float64 {
	texts := c.Texts()
	failed := c.failedRows()
	return mapRows(c.rows, c.workers, func(i int) float64 {
		if failed[i] {
			return math.NaN()
		}
		return fn(texts[i])
	})
}

func (c *Corpus) failedRows() []bool {
	c.annMu.Lock()
	defer c.annMu.Unlock()
	failed := make([]bool, c.rows)
	for i := range failed {
		failed[i] = c.annotated[i] && c.annErrs[i] != nil
	}
	return failed
}

// mapRows runs fn for every row index with up to workers goroutines.
func mapRows(n, workers int, fn func(i int) float64) []float64 {
	out := make([]float64, n)
	if workers <= 1 || n < 2 {
		for i := range out {
			out[i] = fn(i)
		}
		return out
	}

	jobs := make(chan int, n)
	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)

	var wg sync.WaitGroup
	for w := 0; w < min(workers, n); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				out[i] = fn(i)
			}
		}()
	}
	wg.Wait()

	return out
}
