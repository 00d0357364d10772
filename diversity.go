package textfeatures

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/combin"
)

// Default parameters of the windowed and sampling estimators.
const (
	DefaultMTLDThreshold = 0.72
	DefaultHDDDraws      = 42
	DefaultWindowSize    = 5
)

// degenerate maps the NaN and infinite results of a log ratio to 1.
func degenerate(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 1
	}
	return v
}

func closedForm(types, tokens int, fn func(v, n float64) float64) float64 {
	if tokens <= 0 {
		return math.NaN()
	}
	return degenerate(fn(float64(types), float64(tokens)))
}

func logForm(types, tokens int, fn func(v, n float64) float64) float64 {
	if tokens <= 0 {
		return math.NaN()
	}
	if types == 1 {
		return 1
	}
	return degenerate(fn(float64(types), float64(tokens)))
}

// TTR is the type-token ratio V/N.
func TTR(types, tokens int) float64 {
	return closedForm(types, tokens, func(v, n float64) float64 { return v / n })
}

// RTTR is the root type-token ratio V/sqrt(N).
func RTTR(types, tokens int) float64 {
	return closedForm(types, tokens, func(v, n float64) float64 { return v / math.Sqrt(n) })
}

// CTTR is the corrected type-token ratio V/sqrt(2N).
func CTTR(types, tokens int) float64 {
	return closedForm(types, tokens, func(v, n float64) float64 { return v / math.Sqrt(2*n) })
}

// GiroudIndex is V/sqrt(N); it equals RTTR.
func GiroudIndex(types, tokens int) float64 {
	return RTTR(types, tokens)
}

// HerdanC is log V / log N.
func HerdanC(types, tokens int) float64 {
	return logForm(types, tokens, func(v, n float64) float64 {
		return math.Log(v) / math.Log(n)
	})
}

// SummerIndex is log log V / log log N.
func SummerIndex(types, tokens int) float64 {
	return logForm(types, tokens, func(v, n float64) float64 {
		return math.Log(math.Log(v)) / math.Log(math.Log(n))
	})
}

// DugastU is (log N)² / (log N − log V).
func DugastU(types, tokens int) float64 {
	return logForm(types, tokens, func(v, n float64) float64 {
		ln := math.Log(n)
		return ln * ln / (ln - math.Log(v))
	})
}

// MaasIndex is (log N − log V) / (log N)².
func MaasIndex(types, tokens int) float64 {
	return logForm(types, tokens, func(v, n float64) float64 {
		ln := math.Log(n)
		return (ln - math.Log(v)) / (ln * ln)
	})
}

// countTypes returns the number of distinct strings in tokens.
func countTypes(tokens []string) int {
	seen := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		seen[t] = struct{}{}
	}
	return len(seen)
}

// frequencies counts occurrences per type.
func frequencies(tokens []string) map[string]int {
	freqs := make(map[string]int, len(tokens))
	for _, t := range tokens {
		freqs[t]++
	}
	return freqs
}

// spectrum is the frequency-of-frequencies table: spectrum[i] is the number
// of types that occur exactly i times.
func spectrum(tokens []string) map[int]int {
	spec := make(map[int]int)
	for _, f := range frequencies(tokens) {
		spec[f]++
	}
	return spec
}

// mtldPass counts factors over one direction of the sequence.
func mtldPass(tokens []string, threshold float64) float64 {
	seen := make(map[string]struct{})
	count := 0
	ratio := 1.0
	factors := 0.0

	for _, t := range tokens {
		count++
		seen[t] = struct{}{}
		ratio = float64(len(seen)) / float64(count)
		if ratio < threshold {
			factors++
			seen = make(map[string]struct{})
			count = 0
			ratio = 1.0
		}
	}
	if count > 0 && ratio >= threshold {
		factors += (1 - ratio) / (1 - threshold)
	}

	n := float64(len(tokens))
	if factors == 0 {
		return n
	}
	return n / factors
}

// MTLD is the measure of textual lexical diversity: the mean of the
// forward and backward factor scores.
func MTLD(tokens []string, threshold float64) float64 {
	if len(tokens) == 0 {
		return math.NaN()
	}
	reversed := make([]string, len(tokens))
	for i, t := range tokens {
		reversed[len(tokens)-1-i] = t
	}
	return (mtldPass(tokens, threshold) + mtldPass(reversed, threshold)) / 2
}

// HDD is the hypergeometric distribution diversity: for every type, the
// probability that it occurs at least once in a random sample of draws
// tokens, divided by draws and summed. The sample must be smaller than
// the text; otherwise the result is NaN.
func HDD(tokens []string, draws int) float64 {
	n := len(tokens)
	if draws <= 0 || draws >= n {
		return math.NaN()
	}

	d := float64(draws)
	logTotal := combin.LogGeneralizedBinomial(float64(n), d)
	hdd := 0.0
	for _, f := range frequencies(tokens) {
		// P(X = 0) = C(N-f, d) / C(N, d)
		absent := 0.0
		if rest := n - f; rest >= draws {
			absent = math.Exp(combin.LogGeneralizedBinomial(float64(rest), d) - logTotal)
		}
		hdd += (1 - absent) / d
	}
	return hdd
}

// MATTR is the moving-average type-token ratio with a stride of one. Tail
// windows shorter than window are kept, and the result is the mean number
// of distinct tokens divided by the mean window length.
func MATTR(tokens []string, window int) float64 {
	n := len(tokens)
	if n == 0 || window <= 0 {
		return math.NaN()
	}
	if window >= n {
		return TTR(countTypes(tokens), n)
	}

	distinct := make([]float64, n)
	lengths := make([]float64, n)
	for i := 0; i < n; i++ {
		w := tokens[i:min(i+window, n)]
		distinct[i] = float64(countTypes(w))
		lengths[i] = float64(len(w))
	}
	return floats.Sum(distinct) / floats.Sum(lengths)
}

// MSTTR is the mean segmental type-token ratio over consecutive chunks of
// window tokens. A short final chunk is dropped when discardIncomplete is
// set.
func MSTTR(tokens []string, window int, discardIncomplete bool) float64 {
	n := len(tokens)
	if n == 0 || window <= 0 {
		return math.NaN()
	}

	var scores []float64
	for i := 0; i < n; i += window {
		chunk := tokens[i:min(i+window, n)]
		if len(chunk) < window && discardIncomplete {
			break
		}
		scores = append(scores, float64(countTypes(chunk))/float64(len(chunk)))
	}
	if len(scores) == 0 {
		return math.NaN()
	}
	return stat.Mean(scores, nil)
}

// YuleK is Yule's characteristic K: 10⁴ · (Σ Vᵢ·i² − N) / N², where Vᵢ is
// the number of types occurring i times.
func YuleK(tokens []string) float64 {
	n := float64(len(tokens))
	if n == 0 {
		return math.NaN()
	}
	sum := 0.0
	for i, count := range spectrum(tokens) {
		sum += float64(count) * float64(i) * float64(i)
	}
	return 1e4 * (sum - n) / (n * n)
}

// SimpsonsD is Σ Vᵢ · (i/N) · ((i−1)/(N−1)).
func SimpsonsD(tokens []string) float64 {
	n := float64(len(tokens))
	if n < 2 {
		return math.NaN()
	}
	d := 0.0
	for i, count := range spectrum(tokens) {
		fi := float64(i)
		d += float64(count) * (fi / n) * ((fi - 1) / (n - 1))
	}
	return d
}

// HerdanVm is Herdan's Vm: sqrt(K/10⁴ + 1/N − 1/V).
func HerdanVm(tokens []string) float64 {
	n := len(tokens)
	if n == 0 {
		return math.NaN()
	}
	v := float64(countTypes(tokens))
	inner := YuleK(tokens)/1e4 + 1/float64(n) - 1/v
	if inner < 0 {
		// rounding only; the expression is never negative
		inner = 0
	}
	return math.Sqrt(inner)
}
