package textfeatures

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/tsawler/textfeatures/logging"
)

// A FeatureFunc adds one or more columns to the corpus in fc.
type FeatureFunc func(fc *FeatureContext) error

// FeatureSpec holds the per-feature options read from configuration. Zero
// values mean "use the registry default".
type FeatureSpec struct {
	Lexicon   string              `yaml:"lexicon,omitempty"`
	Threshold *float64            `yaml:"threshold,omitempty"`
	Params    map[string][]string `yaml:"params,omitempty"`
}

// FeatureContext is everything a feature function may use. Defaults from
// the registry entry are already merged in.
type FeatureContext struct {
	Name       string
	Corpus     *Corpus
	Lexicon    *Lexicon
	Threshold  float64 // NaN when the feature takes none
	Params     map[string][]string
	Backbone   Backbone
	TextColumn string
	Senses     SenseInventory
	Logger     logging.Logger
}

// Param returns a list parameter, or def when it is not set.
func (fc *FeatureContext) Param(name string, def []string) []string {
	if v, ok := fc.Params[name]; ok && len(v) > 0 {
		return v
	}
	return def
}

// IntParam returns the first value of a parameter as an int.
func (fc *FeatureContext) IntParam(name string, def int) int {
	v := fc.Param(name, nil)
	if len(v) == 0 {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(v[0]))
	if err != nil {
		fc.Logger.Warn("ignoring non-integer parameter", logging.Fields{"feature": fc.Name, "param": name, "value": v[0]})
		return def
	}
	return n
}

// BoolParam returns the first value of a parameter as a bool.
func (fc *FeatureContext) BoolParam(name string, def bool) bool {
	v := fc.Param(name, nil)
	if len(v) == 0 {
		return def
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v[0]))
	if err != nil {
		fc.Logger.Warn("ignoring non-boolean parameter", logging.Fields{"feature": fc.Name, "param": name, "value": v[0]})
		return def
	}
	return b
}

// require is Corpus.Require for feature functions.
func (fc *FeatureContext) require(name string) ([]float64, error) {
	return fc.Corpus.Require(name)
}

// set stores the feature's single output column.
func (fc *FeatureContext) set(values []float64) error {
	return fc.Corpus.SetFloat(fc.Name, values)
}

// An Entry describes one registered feature and its defaults.
type Entry struct {
	Name      string
	Area      string
	Lexicon   string              // default lexicon id, empty if none
	Threshold float64             // default threshold, NaN if none
	Params    map[string][]string // default list parameters
	Func      FeatureFunc
}

// Registry maps feature names to their computations and groups them by
// area. A Registry is not modified after construction.
type Registry struct {
	entries map[string]Entry
	aliases map[string]string // alternative name -> registered name
	areas   map[string][]string
	order   []string
}

// NewRegistry creates a registry holding the built-in feature catalogue.
func NewRegistry() *Registry {
	r := &Registry{
		entries: make(map[string]Entry),
		aliases: make(map[string]string),
		areas:   make(map[string][]string),
	}
	registerSurface(r)
	registerLexicalRichness(r)
	registerReadability(r)
	registerInformation(r)
	registerPOS(r)
	registerEntities(r)
	registerDependency(r)
	registerMorphology(r)
	registerEmotion(r)
	registerPsycholinguistic(r)
	registerSemantic(r)
	return r
}

// With returns a copy of the registry with entries added or replaced.
func (r *Registry) With(entries ...Entry) *Registry {
	out := &Registry{
		entries: make(map[string]Entry, len(r.entries)+len(entries)),
		aliases: make(map[string]string, len(r.aliases)),
		areas:   make(map[string][]string, len(r.areas)),
		order:   append([]string(nil), r.order...),
	}
	for name, e := range r.entries {
		out.entries[name] = e
	}
	for alias, name := range r.aliases {
		out.aliases[alias] = name
	}
	for area, names := range r.areas {
		out.areas[area] = append([]string(nil), names...)
	}
	for _, e := range entries {
		out.add(e)
	}
	return out
}

// add is used only while a registry is being built.
func (r *Registry) add(e Entry) {
	if e.Params == nil {
		e.Params = map[string][]string{}
	}
	if old, exists := r.entries[e.Name]; exists {
		r.areas[old.Area] = remove(r.areas[old.Area], e.Name)
	}
	if _, known := r.areas[e.Area]; !known {
		r.order = append(r.order, e.Area)
	}
	r.entries[e.Name] = e
	r.areas[e.Area] = append(r.areas[e.Area], e.Name)
}

// simple registers a feature without lexicon, threshold or parameters.
func (r *Registry) simple(area, name string, fn FeatureFunc) {
	r.add(Entry{Name: name, Area: area, Threshold: math.NaN(), Func: fn})
}

// alias makes name an alternative spelling of a registered feature.
// Aliases resolve through Lookup but are not listed by Areas, Features or
// Names.
func (r *Registry) alias(name, target string) {
	r.aliases[name] = target
}

// Lookup returns the entry for a feature name or alias. Columns are
// written under the requested name.
func (r *Registry) Lookup(name string) (Entry, bool) {
	if e, ok := r.entries[name]; ok {
		return e, true
	}
	if target, ok := r.aliases[name]; ok {
		e, ok := r.entries[target]
		return e, ok
	}
	return Entry{}, false
}

// Areas returns the feature areas in registration order.
func (r *Registry) Areas() []string {
	return append([]string(nil), r.order...)
}

// Features returns the features of an area in registration order.
func (r *Registry) Features(area string) []string {
	return append([]string(nil), r.areas[area]...)
}

// Names returns every registered feature name, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered features.
func (r *Registry) Len() int {
	return len(r.entries)
}

// Ratio feature suffixes and the column each divides by.
var ratioSuffixes = []struct {
	suffix      string
	denominator string
}{
	{"_token_ratio", "n_tokens"},
	{"_type_ratio", "n_types"},
	{"_sentence_ratio", "n_sentences"},
}

// splitRatio reports whether name is a ratio feature and returns its base
// and denominator columns.
func splitRatio(name string) (base, denominator string, ok bool) {
	for _, rs := range ratioSuffixes {
		if b, found := strings.CutSuffix(name, rs.suffix); found && b != "" {
			return b, rs.denominator, true
		}
	}
	return "", "", false
}

func remove(xs []string, x string) []string {
	out := xs[:0]
	for _, v := range xs {
		if v != x {
			out = append(out, v)
		}
	}
	return out
}
