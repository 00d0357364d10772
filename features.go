package textfeatures

import (
	"math"
	"strings"
)

// docFeature computes the feature's column from each document's
// annotation.
func docFeature(fn func(ann *Annotation) float64) FeatureFunc {
	return func(fc *FeatureContext) error {
		return fc.set(fc.Corpus.mapDocs(fn))
	}
}

// countTokens counts the tokens matching keep.
func countTokens(keep func(tok *Token) bool) FeatureFunc {
	return docFeature(func(ann *Annotation) float64 {
		n := 0
		for i := range ann.Tokens {
			if keep(&ann.Tokens[i]) {
				n++
			}
		}
		return float64(n)
	})
}

// derived computes the feature row by row from other columns, which are
// computed first if needed. A NaN input gives a NaN output.
func derived(inputs []string, fn func(x []float64) float64) FeatureFunc {
	return func(fc *FeatureContext) error {
		cols := make([][]float64, len(inputs))
		for i, name := range inputs {
			col, err := fc.require(name)
			if err != nil {
				return err
			}
			cols[i] = col
		}

		out := make([]float64, fc.Corpus.Len())
		x := make([]float64, len(inputs))
		for row := range out {
			missing := false
			for i := range cols {
				x[i] = cols[i][row]
				missing = missing || math.IsNaN(x[i])
			}
			if missing {
				out[row] = math.NaN()
				continue
			}
			out[row] = fn(x)
		}
		return fc.set(out)
	}
}

// ratio divides one column by another.
func ratio(numerator, denominator string) FeatureFunc {
	return derived([]string{numerator, denominator}, func(x []float64) float64 {
		return safeDiv(x[0], x[1])
	})
}

func safeDiv(a, b float64) float64 {
	if b == 0 {
		return math.NaN()
	}
	return a / b
}

// columnName lower-cases a generated column name.
func columnName(parts ...string) string {
	return strings.ToLower(strings.Join(parts, "_"))
}

// perValue adds one count column per value, named by name(value).
func perValue(fc *FeatureContext, values []string, name func(v string) string, count func(ann *Annotation, v string) int) error {
	for _, v := range values {
		v := v
		col := fc.Corpus.mapDocs(func(ann *Annotation) float64 {
			return float64(count(ann, v))
		})
		if err := fc.Corpus.SetFloat(name(v), col); err != nil {
			return err
		}
	}
	return nil
}

// threshold returns fc.Threshold, or def when the feature has none.
func (fc *FeatureContext) threshold(def float64) float64 {
	if math.IsNaN(fc.Threshold) {
		return def
	}
	return fc.Threshold
}
