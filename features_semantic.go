package textfeatures

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// SenseInventory reports how many senses (synsets) a lemma has for a
// Universal POS tag. WordNet is the usual source.
type SenseInventory interface {
	Synsets(lemma, pos string) int
}

// SynsetPOS are the tags synset features look up.
var SynsetPOS = []string{TagNOUN, TagVERB, TagADJ, TagADV}

// Default thresholds of the synset count features.
const (
	DefaultLowSynsets  = 2
	DefaultHighSynsets = 5
)

var errNoSenseInventory = errors.New("no sense inventory configured")

// SenseTable is a SenseInventory backed by a precomputed table.
type SenseTable map[string]int

func senseKey(lemma, pos string) string {
	return strings.ToLower(lemma) + "\t" + strings.ToUpper(pos)
}

// Synsets returns the stored sense count, or 0 for unknown lemmas.
func (t SenseTable) Synsets(lemma, pos string) int {
	return t[senseKey(lemma, pos)]
}

// LoadSenseTable reads a tab-separated lemma, POS, count file.
func LoadSenseTable(path string) (SenseTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening sense table: %w", err)
	}
	defer f.Close()
	return ReadSenseTable(f)
}

// ReadSenseTable reads a tab-separated lemma, POS, count table from r.
// Rows whose count does not parse, such as a header, are skipped.
func ReadSenseTable(r io.Reader) (SenseTable, error) {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	table := make(SenseTable)
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error parsing sense table: %w", err)
		}
		if len(rec) < 3 {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(rec[2]))
		if err != nil {
			continue
		}
		table[senseKey(strings.TrimSpace(rec[0]), strings.TrimSpace(rec[1]))] = n
	}
	return table, nil
}

// CountHedges sums, over the phrases, the non-overlapping occurrences of
// each phrase in the lower-cased text.
func CountHedges(text string, phrases []string) int {
	lower := strings.ToLower(text)
	n := 0
	for _, p := range phrases {
		if p == "" {
			continue
		}
		n += strings.Count(lower, strings.ToLower(p))
	}
	return n
}

// synsetCounts returns the sense counts of the document's tokens tagged
// with one of tags.
func synsetCounts(ann *Annotation, senses SenseInventory, tags []string) []float64 {
	var counts []float64
	for _, tok := range ann.Tokens {
		for _, tag := range tags {
			if tok.Tag == tag {
				counts = append(counts, float64(senses.Synsets(tok.Lemma, tag)))
				break
			}
		}
	}
	return counts
}

// synsetFeature adds one column per tag group. With perPOS false there is a
// single group covering SynsetPOS, written to the feature's own column.
func synsetFeature(perPOS bool, prefix string, reduce func(counts []float64, threshold float64) float64, def float64) FeatureFunc {
	return func(fc *FeatureContext) error {
		if fc.Senses == nil {
			return errNoSenseInventory
		}
		threshold := fc.threshold(def)
		run := func(column string, tags []string) error {
			return fc.Corpus.SetFloat(column, fc.Corpus.mapDocs(func(ann *Annotation) float64 {
				return reduce(synsetCounts(ann, fc.Senses, tags), threshold)
			}))
		}

		if !perPOS {
			return run(fc.Name, SynsetPOS)
		}
		for _, tag := range fc.Param("pos", SynsetPOS) {
			if err := run(columnName(prefix, tag), []string{strings.ToUpper(tag)}); err != nil {
				return err
			}
		}
		return nil
	}
}

func meanCount(counts []float64, _ float64) float64 {
	if len(counts) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, c := range counts {
		sum += c
	}
	return sum / float64(len(counts))
}

func countAtMost(counts []float64, threshold float64) float64 {
	n := 0
	for _, c := range counts {
		if c <= threshold {
			n++
		}
	}
	return float64(n)
}

func countAtLeast(counts []float64, threshold float64) float64 {
	n := 0
	for _, c := range counts {
		if c >= threshold {
			n++
		}
	}
	return float64(n)
}

func registerSemantic(r *Registry) {
	const area = "semantic"

	r.add(Entry{
		Name: "n_hedges", Area: area, Lexicon: "hedges", Threshold: math.NaN(),
		Func: func(fc *FeatureContext) error {
			phrases := fc.Lexicon.Words()
			return fc.set(fc.Corpus.mapTexts(func(text string) float64 {
				return float64(CountHedges(text, phrases))
			}))
		},
	})

	posParams := func() map[string][]string {
		return map[string][]string{"pos": SynsetPOS}
	}
	r.add(Entry{
		Name: "avg_num_synsets", Area: area, Threshold: math.NaN(),
		Func: synsetFeature(false, "", meanCount, math.NaN()),
	})
	r.add(Entry{
		Name: "avg_num_synsets_per_pos", Area: area, Threshold: math.NaN(), Params: posParams(),
		Func: synsetFeature(true, "avg_num_synsets", meanCount, math.NaN()),
	})
	r.add(Entry{
		Name: "n_low_synsets", Area: area, Threshold: DefaultLowSynsets,
		Func: synsetFeature(false, "", countAtMost, DefaultLowSynsets),
	})
	r.add(Entry{
		Name: "n_high_synsets", Area: area, Threshold: DefaultHighSynsets,
		Func: synsetFeature(false, "", countAtLeast, DefaultHighSynsets),
	})
	r.add(Entry{
		Name: "n_low_synsets_per_pos", Area: area, Threshold: DefaultLowSynsets, Params: posParams(),
		Func: synsetFeature(true, "n_low_synsets", countAtMost, DefaultLowSynsets),
	})
	r.add(Entry{
		Name: "n_high_synsets_per_pos", Area: area, Threshold: DefaultHighSynsets, Params: posParams(),
		Func: synsetFeature(true, "n_high_synsets", countAtLeast, DefaultHighSynsets),
	})
	r.alias("low_synsets_per_pos", "n_low_synsets_per_pos")
	r.alias("high_synsets_per_pos", "n_high_synsets_per_pos")
}
