package textfeatures

import (
	"math"

	"github.com/tsawler/textfeatures/logging"
)

// VADDimensions are the rating columns of a valence-arousal-dominance
// lexicon.
var VADDimensions = []string{"valence", "arousal", "dominance"}

// PlutchikEmotions are the eight basic emotions of the NRC lexicons.
var PlutchikEmotions = []string{
	"anger", "anticipation", "disgust", "fear", "joy", "sadness", "surprise", "trust",
}

// Default thresholds of the emotion features.
const (
	DefaultLowEmotion  = 0.33
	DefaultHighEmotion = 0.66
)

// lexiconFeature aggregates one rating column into the feature's column.
// The "column" parameter overrides the rating column.
func lexiconFeature(column string, reducer Reducer, def float64) FeatureFunc {
	return func(fc *FeatureContext) error {
		col := fc.Param("column", []string{column})[0]
		return Aggregate(fc.Corpus, fc.Lexicon, col, reducer, fc.threshold(def), fc.Name)
	}
}

// perDimension aggregates one rating column per dimension. A dimension the
// lexicon lacks is logged and skipped.
func perDimension(param string, defaults []string, column, output func(d string) string, reducer Reducer, def float64) FeatureFunc {
	return func(fc *FeatureContext) error {
		threshold := fc.threshold(def)
		for _, d := range fc.Param(param, defaults) {
			if err := Aggregate(fc.Corpus, fc.Lexicon, column(d), reducer, threshold, output(d)); err != nil {
				fc.Logger.Warn("skipping dimension", logging.Fields{"feature": fc.Name, "dimension": d, "error": err.Error()})
			}
		}
		return nil
	}
}

func registerEmotion(r *Registry) {
	const area = "emotion"

	for _, dim := range VADDimensions {
		r.add(Entry{
			Name: "avg_" + dim, Area: area, Lexicon: "vad_nrc", Threshold: math.NaN(),
			Func: lexiconFeature(dim, ReduceMean, math.NaN()),
		})
		r.add(Entry{
			Name: "n_low_" + dim, Area: area, Lexicon: "vad_nrc", Threshold: DefaultLowEmotion,
			Func: lexiconFeature(dim, ReduceCountBelow, DefaultLowEmotion),
		})
		r.add(Entry{
			Name: "n_high_" + dim, Area: area, Lexicon: "vad_nrc", Threshold: DefaultHighEmotion,
			Func: lexiconFeature(dim, ReduceCountAbove, DefaultHighEmotion),
		})
	}

	emotionParams := func() map[string][]string {
		return map[string][]string{"emotions": PlutchikEmotions}
	}
	identity := func(e string) string { return columnName(e) }

	r.add(Entry{
		Name: "avg_emotion_intensity", Area: area, Lexicon: "intensity_nrc", Threshold: math.NaN(),
		Params: emotionParams(),
		Func: perDimension("emotions", PlutchikEmotions, identity,
			func(e string) string { return columnName("avg_intensity", e) }, ReduceMean, math.NaN()),
	})
	r.add(Entry{
		Name: "n_low_intensity", Area: area, Lexicon: "intensity_nrc", Threshold: DefaultLowEmotion,
		Params: emotionParams(),
		Func: perDimension("emotions", PlutchikEmotions, identity,
			func(e string) string { return columnName("n_low_intensity", e) }, ReduceCountBelow, DefaultLowEmotion),
	})
	r.add(Entry{
		Name: "n_high_intensity", Area: area, Lexicon: "intensity_nrc", Threshold: DefaultHighEmotion,
		Params: emotionParams(),
		Func: perDimension("emotions", PlutchikEmotions, identity,
			func(e string) string { return columnName("n_high_intensity", e) }, ReduceCountAbove, DefaultHighEmotion),
	})

	// NRC associations are 0 or 1.
	r.add(Entry{
		Name: "n_positive_sentiment", Area: area, Lexicon: "sentiment_nrc", Threshold: math.NaN(),
		Func: lexiconFeature("positive", ReduceCountAbove, 0.5),
	})
	r.add(Entry{
		Name: "n_negative_sentiment", Area: area, Lexicon: "sentiment_nrc", Threshold: math.NaN(),
		Func: lexiconFeature("negative", ReduceCountAbove, 0.5),
	})
	r.simple(area, "sentiment_score", derived(
		[]string{"n_positive_sentiment", "n_negative_sentiment", "n_tokens"},
		func(x []float64) float64 {
			return safeDiv(x[0]-x[1], x[2])
		}))
}
