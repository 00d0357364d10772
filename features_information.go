package textfeatures

import (
	"bytes"
	"math"

	"github.com/dsnet/compress/bzip2"
	"gonum.org/v1/gonum/stat"
)

func registerInformation(r *Registry) {
	const area = "information"

	r.simple(area, "compressibility", func(fc *FeatureContext) error {
		return fc.set(fc.Corpus.mapTexts(Compressibility))
	})
	r.simple(area, "entropy", func(fc *FeatureContext) error {
		return fc.set(fc.Corpus.mapTexts(Entropy))
	})
}

// Compressibility returns the bzip2-compressed size of text divided by its
// size in bytes. Empty text gives NaN.
func Compressibility(text string) float64 {
	if len(text) == 0 {
		return math.NaN()
	}

	var buf bytes.Buffer
	w, err := bzip2.NewWriter(&buf, &bzip2.WriterConfig{Level: bzip2.BestCompression})
	if err != nil {
		return math.NaN()
	}
	if _, err := w.Write([]byte(text)); err != nil {
		return math.NaN()
	}
	if err := w.Close(); err != nil {
		return math.NaN()
	}
	return float64(buf.Len()) / float64(len(text))
}

// Entropy returns the Shannon entropy of the text's characters in bits.
// Empty text gives NaN.
func Entropy(text string) float64 {
	counts := make(map[rune]float64)
	total := 0.0
	for _, r := range text {
		counts[r]++
		total++
	}
	if total == 0 {
		return math.NaN()
	}

	p := make([]float64, 0, len(counts))
	for _, c := range counts {
		p = append(p, c/total)
	}
	return stat.Entropy(p) / math.Ln2
}
