package textfeatures

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/tsawler/textfeatures/logging"
)

// An ExtractorOpt represents a setting that changes how an Extractor is
// built.
//
// For example, it might supply a custom registry:
//
//	ex, err := textfeatures.NewExtractor(cfg, textfeatures.UsingRegistry(reg))
type ExtractorOpt func(e *Extractor)

// UsingRegistry sets the feature registry.
func UsingRegistry(r *Registry) ExtractorOpt {
	return func(e *Extractor) {
		e.registry = r
	}
}

// UsingLexiconStore sets the lexicon store.
func UsingLexiconStore(s *LexiconStore) ExtractorOpt {
	return func(e *Extractor) {
		e.lexicons = s
	}
}

// UsingSenseInventory sets the sense inventory used by synset features.
func UsingSenseInventory(s SenseInventory) ExtractorOpt {
	return func(e *Extractor) {
		e.senses = s
	}
}

// UsingBackbone sets the backbone given to corpora that have none.
func UsingBackbone(b Backbone) ExtractorOpt {
	return func(e *Extractor) {
		e.backbone = b
	}
}

// UsingLogger sets the logger.
func UsingLogger(l logging.Logger) ExtractorOpt {
	return func(e *Extractor) {
		e.logger = l
	}
}

// Extractor runs a configured set of features over corpora.
type Extractor struct {
	cfg      Config
	registry *Registry
	lexicons *LexiconStore
	senses   SenseInventory
	backbone Backbone
	logger   logging.Logger
}

// NewExtractor creates an extractor for cfg. Collaborators not supplied
// through options are built from the configuration.
func NewExtractor(cfg Config, opts ...ExtractorOpt) (*Extractor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Extractor{cfg: cfg}
	for _, applyOpt := range opts {
		applyOpt(e)
	}

	if e.logger == nil {
		e.logger = logging.WithFields(logging.Fields{"component": "extractor"})
	}
	if e.registry == nil {
		e.registry = NewRegistry()
	}
	if e.lexicons == nil {
		lang := Language(cfg.Language)
		if cfg.autoLanguage() {
			lang = English
		}
		resources := cfg.Resources()
		provider := &DirProvider{Dir: cfg.ResourceDir, Language: lang, Resources: resources}
		e.lexicons = NewLexiconStore(provider, resources)
	}
	if e.senses == nil && cfg.Senses != "" {
		table, err := LoadSenseTable(cfg.Senses)
		if err != nil {
			return nil, err
		}
		e.senses = table
	}
	return e, nil
}

// Registry returns the extractor's feature registry.
func (e *Extractor) Registry() *Registry {
	return e.registry
}

// Config returns the extractor's configuration.
func (e *Extractor) Config() Config {
	return e.cfg
}

// Backbone returns the configured backbone, creating it on first use.
func (e *Extractor) Backbone() (Backbone, error) {
	if e.backbone != nil {
		return e.backbone, nil
	}
	b, err := NewBackbone(e.cfg)
	if err != nil {
		return nil, err
	}
	e.backbone = b
	return b, nil
}

// backboneFor returns the backbone for c. With language "auto" and no
// backbone supplied, a basic backbone is built for the corpus's dominant
// language.
func (e *Extractor) backboneFor(c *Corpus) (Backbone, error) {
	if e.backbone != nil || !e.cfg.autoLanguage() {
		return e.Backbone()
	}
	cfg := e.cfg
	cfg.Language = string(DominantLanguage(c.Texts(), languageSample))
	e.logger.Info("detected corpus language", logging.Fields{"language": cfg.Language})
	return NewBackbone(cfg)
}

// languageSample is how many texts language detection looks at.
const languageSample = 200

// Extract adds the configured feature columns to c. Unknown features,
// unavailable lexicons and failing features are logged and skipped; only
// a missing backbone or cancellation of ctx is returned as an error.
func (e *Extractor) Extract(ctx context.Context, c *Corpus) error {
	r := &run{
		extractor:  e,
		corpus:     c,
		logger:     e.logger.WithContext(ctx).WithFields(logging.Fields{"run_id": uuid.NewString()}),
		inProgress: make(map[string]bool),
		before:     make(map[string]bool),
	}
	for _, col := range c.Columns() {
		r.before[col] = true
	}

	if c.backbone == nil {
		b, err := e.backboneFor(c)
		if err != nil {
			return fmt.Errorf("error creating backbone: %w", err)
		}
		c.backbone = b
	}

	c.resolve = r.resolve
	defer func() { c.resolve = nil }()

	r.logger.Info("extraction started", logging.Fields{"rows": c.Len(), "backbone": c.backbone.Name()})
	if err := c.Annotate(ctx); err != nil {
		return err
	}

	var ratios []string
	for _, area := range e.cfg.Features {
		for _, nf := range area.Features {
			if err := ctx.Err(); err != nil {
				return err
			}
			if _, ok := e.registry.Lookup(nf.Name); ok {
				r.report(nf.Name, r.compute(nf.Name, nf.Spec))
				continue
			}
			if _, _, ok := splitRatio(nf.Name); ok {
				ratios = append(ratios, nf.Name)
				continue
			}
			r.logger.Warn("unknown feature, skipping", logging.Fields{"feature": nf.Name, "area": area.Area})
		}
	}

	for _, name := range ratios {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.report(name, r.ratio(name))
	}

	if e.cfg.TokenNormalize {
		r.report("token_normalize", r.normalize())
	}
	if e.cfg.RemoveConstantCols && c.Len() > 1 {
		r.dropConstant()
	}

	r.logger.Info("extraction finished", logging.Fields{"columns": len(c.Columns())})
	return nil
}

// run holds the state of one Extract call.
type run struct {
	extractor  *Extractor
	corpus     *Corpus
	logger     logging.Logger
	inProgress map[string]bool
	before     map[string]bool
}

// report logs the outcome of one requested feature.
func (r *run) report(name string, err error) {
	switch {
	case err == nil:
		r.logger.Debug("feature computed", logging.Fields{"feature": name})
	case errors.Is(err, ErrLexiconNotFound):
		r.logger.Warn("resource not found, skipping feature", logging.Fields{"feature": name, "error": err.Error()})
	default:
		r.logger.Warn("feature skipped", logging.Fields{"feature": name, "error": err.Error()})
	}
}

// resolve computes a column requested through Corpus.Require.
func (r *run) resolve(name string) error {
	if _, ok := r.extractor.registry.Lookup(name); !ok {
		if _, _, ok := splitRatio(name); ok {
			return r.ratio(name)
		}
		return fmt.Errorf("%w: %q", ErrUnknownFeature, name)
	}
	spec, _ := r.extractor.cfg.Features.Spec(name)
	return r.compute(name, spec)
}

// compute runs a registered feature with spec merged over its defaults.
func (r *run) compute(name string, spec FeatureSpec) error {
	if r.corpus.Has(name) {
		return nil
	}
	if r.inProgress[name] {
		return fmt.Errorf("feature %q depends on itself", name)
	}
	r.inProgress[name] = true
	defer delete(r.inProgress, name)

	entry, _ := r.extractor.registry.Lookup(name)
	fc := &FeatureContext{
		Name:       name,
		Corpus:     r.corpus,
		Threshold:  entry.Threshold,
		Params:     make(map[string][]string, len(entry.Params)+len(spec.Params)),
		Backbone:   r.corpus.backbone,
		TextColumn: r.corpus.TextColumn(),
		Senses:     r.extractor.senses,
		Logger:     r.logger.WithFields(logging.Fields{"feature": name}),
	}
	if spec.Threshold != nil {
		fc.Threshold = *spec.Threshold
	}
	for k, v := range entry.Params {
		fc.Params[k] = v
	}
	for k, v := range spec.Params {
		fc.Params[k] = v
	}

	lexicon := entry.Lexicon
	if spec.Lexicon != "" {
		lexicon = spec.Lexicon
	}
	if lexicon != "" {
		lex, err := r.extractor.lexicons.Get(lexicon)
		if err != nil {
			return err
		}
		fc.Lexicon = lex
	}

	return entry.Func(fc)
}

// ratio computes base / denominator for a ratio feature.
func (r *run) ratio(name string) error {
	base, denominator, _ := splitRatio(name)
	num, err := r.corpus.Require(base)
	if err != nil {
		return err
	}
	den, err := r.corpus.Require(denominator)
	if err != nil {
		return err
	}

	out := make([]float64, len(num))
	for i := range out {
		out[i] = safeDiv(num[i], den[i])
	}
	return r.corpus.SetFloat(name, out)
}

// isCountColumn reports whether a column is a count that token
// normalization divides by n_tokens.
func isCountColumn(name string) bool {
	if !strings.HasPrefix(name, "n_") {
		return false
	}
	switch name {
	case "n_tokens", "n_sentences", "n_types", "n_tokens_per_sentence":
		return false
	}
	_, _, isRatio := splitRatio(name)
	return !isRatio
}

// normalize divides the count columns added in this run by n_tokens.
func (r *run) normalize() error {
	var counts []string
	for _, col := range r.corpus.Columns() {
		if !r.before[col] && isCountColumn(col) {
			counts = append(counts, col)
		}
	}
	if len(counts) == 0 {
		return nil
	}

	tokens, err := r.corpus.Require("n_tokens")
	if err != nil {
		return err
	}
	for _, col := range counts {
		values, _ := r.corpus.Float(col)
		out := make([]float64, len(values))
		for i, v := range values {
			out[i] = safeDiv(v, tokens[i])
		}
		if err := r.corpus.SetFloat(col, out); err != nil {
			return err
		}
	}
	return nil
}

// dropConstant removes the feature columns added in this run that hold a
// single distinct value. NaN counts as one value.
func (r *run) dropConstant() {
	for _, col := range r.corpus.Columns() {
		if r.before[col] {
			continue
		}
		values, ok := r.corpus.Float(col)
		if !ok || !isConstant(values) {
			continue
		}
		r.corpus.Drop(col)
		r.logger.Debug("dropped constant column", logging.Fields{"column": col})
	}
}

func isConstant(values []float64) bool {
	for i := 1; i < len(values); i++ {
		a, b := values[0], values[i]
		if math.IsNaN(a) && math.IsNaN(b) {
			continue
		}
		if a != b {
			return false
		}
	}
	return true
}
