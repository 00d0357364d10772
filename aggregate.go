package textfeatures

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Reducer selects how the matched ratings of one document are combined.
type Reducer int

const (
	ReduceMean Reducer = iota
	ReduceMin
	ReduceMax
	ReduceSD         // population standard deviation
	ReduceCountBelow // ratings strictly below the threshold
	ReduceCountAbove // ratings strictly above the threshold
)

func (r Reducer) String() string {
	switch r {
	case ReduceMean:
		return "mean"
	case ReduceMin:
		return "min"
	case ReduceMax:
		return "max"
	case ReduceSD:
		return "sd"
	case ReduceCountBelow:
		return "count_below"
	case ReduceCountAbove:
		return "count_above"
	default:
		return "unknown"
	}
}

// isCount reports whether the reducer counts rather than summarizes.
func (r Reducer) isCount() bool {
	return r == ReduceCountBelow || r == ReduceCountAbove
}

// Aggregate joins every document's lemmas, one per token occurrence,
// against the lexicon's ratingColumn and reduces the matched ratings into
// the new column. Documents without matches get NaN for summaries and 0
// for counts; documents whose annotation failed get NaN.
func Aggregate(c *Corpus, lex *Lexicon, ratingColumn string, reducer Reducer, threshold float64, newColumn string) error {
	if lex == nil {
		return fmt.Errorf("aggregate %s: %w", newColumn, ErrLexiconNotFound)
	}
	if !lex.HasColumn(ratingColumn) {
		return fmt.Errorf("aggregate %s: lexicon %s has no column %q", newColumn, lex.ID, ratingColumn)
	}

	lemmas := c.Lemmas()
	values := mapRows(c.Len(), c.workers, func(row int) float64 {
		if lemmas[row] == nil {
			if _, err := c.Annotation(row); err != nil {
				return math.NaN()
			}
		}
		return reduceRatings(matchRatings(lemmas[row], lex, ratingColumn), reducer, threshold)
	})

	return c.SetFloat(newColumn, values)
}

// matchRatings is the explode and left join of one document: each lemma
// occurrence found in the lexicon contributes one rating.
func matchRatings(lemmas []string, lex *Lexicon, column string) []float64 {
	var matched []float64
	for _, lemma := range lemmas {
		if v, ok := lex.Rating(lemma, column); ok {
			matched = append(matched, v)
		}
	}
	return matched
}

func reduceRatings(values []float64, reducer Reducer, threshold float64) float64 {
	if reducer.isCount() {
		n := 0
		for _, v := range values {
			if (reducer == ReduceCountBelow && v < threshold) || (reducer == ReduceCountAbove && v > threshold) {
				n++
			}
		}
		return float64(n)
	}

	if len(values) == 0 {
		return math.NaN()
	}
	switch reducer {
	case ReduceMean:
		return stat.Mean(values, nil)
	case ReduceMin:
		return floats.Min(values)
	case ReduceMax:
		return floats.Max(values)
	case ReduceSD:
		_, std := stat.PopMeanStdDev(values, nil)
		return std
	default:
		return math.NaN()
	}
}
