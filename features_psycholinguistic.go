package textfeatures

import (
	"math"
)

// A ratingNorm describes a psycholinguistic rating lexicon and the thresholds of
// its count features.
type ratingNorm struct {
	name          string
	lexicon       string
	rating        string
	sd            string // empty when the norm has no SD column
	low, high     float64
	controversial float64
}

var norms = []ratingNorm{
	{name: "concreteness", lexicon: "concreteness_brysbaert", rating: "Conc.M", sd: "Conc.SD", low: 1.66, high: 3.33, controversial: 2.0},
	{name: "aoa", lexicon: "aoa_kuperman", rating: "Rating.Mean", sd: "Rating.SD", low: 10, high: 10, controversial: 4.5},
	{name: "prevalence", lexicon: "prevalence_brysbaert", rating: "Prevalence", low: 1.0, high: 1.0},
	{name: "socialness", lexicon: "socialness", rating: "Mean", sd: "SD", low: 2.33, high: 3.66, controversial: 2.0},
	{name: "iconicity", lexicon: "iconicity_winter", rating: "rating", sd: "rating_sd", low: 2.33, high: 3.66, controversial: 2.5},
}

// Thresholds of the sensorimotor features.
const (
	sensorimotorLow           = 2.33
	sensorimotorHigh          = 3.66
	sensorimotorControversial = 2.0
)

func registerPsycholinguistic(r *Registry) {
	const area = "psycholinguistic"

	for _, n := range norms {
		r.add(Entry{
			Name: "avg_" + n.name, Area: area, Lexicon: n.lexicon, Threshold: math.NaN(),
			Func: lexiconFeature(n.rating, ReduceMean, math.NaN()),
		})
		r.add(Entry{
			Name: "n_low_" + n.name, Area: area, Lexicon: n.lexicon, Threshold: n.low,
			Func: lexiconFeature(n.rating, ReduceCountBelow, n.low),
		})
		r.add(Entry{
			Name: "n_high_" + n.name, Area: area, Lexicon: n.lexicon, Threshold: n.high,
			Func: lexiconFeature(n.rating, ReduceCountAbove, n.high),
		})
		if n.sd == "" {
			continue
		}
		r.add(Entry{
			Name: "avg_sd_" + n.name, Area: area, Lexicon: n.lexicon, Threshold: math.NaN(),
			Func: lexiconFeature(n.sd, ReduceMean, math.NaN()),
		})
		r.add(Entry{
			Name: "n_controversial_" + n.name, Area: area, Lexicon: n.lexicon, Threshold: n.controversial,
			Func: lexiconFeature(n.sd, ReduceCountAbove, n.controversial),
		})
	}

	const lexicon = "sensorimotor_lancaster"
	dims := func() map[string][]string {
		return map[string][]string{"dimensions": SensorimotorDimensions}
	}
	mean := func(d string) string { return d + ".mean" }
	sd := func(d string) string { return d + ".SD" }
	named := func(prefix string) func(d string) string {
		return func(d string) string { return columnName(prefix, d, "sensorimotor") }
	}

	r.add(Entry{
		Name: "avg_sensorimotor", Area: area, Lexicon: lexicon, Threshold: math.NaN(), Params: dims(),
		Func: perDimension("dimensions", SensorimotorDimensions, mean, named("avg"), ReduceMean, math.NaN()),
	})
	r.add(Entry{
		Name: "avg_sd_sensorimotor", Area: area, Lexicon: lexicon, Threshold: math.NaN(), Params: dims(),
		Func: perDimension("dimensions", SensorimotorDimensions, sd, named("avg_sd"), ReduceMean, math.NaN()),
	})
	r.add(Entry{
		Name: "n_low_sensorimotor", Area: area, Lexicon: lexicon, Threshold: sensorimotorLow, Params: dims(),
		Func: perDimension("dimensions", SensorimotorDimensions, mean, named("n_low"), ReduceCountBelow, sensorimotorLow),
	})
	r.add(Entry{
		Name: "n_high_sensorimotor", Area: area, Lexicon: lexicon, Threshold: sensorimotorHigh, Params: dims(),
		Func: perDimension("dimensions", SensorimotorDimensions, mean, named("n_high"), ReduceCountAbove, sensorimotorHigh),
	})
	r.add(Entry{
		Name: "n_controversial_sensorimotor", Area: area, Lexicon: lexicon, Threshold: sensorimotorControversial, Params: dims(),
		Func: perDimension("dimensions", SensorimotorDimensions, sd, named("n_controversial"), ReduceCountAbove, sensorimotorControversial),
	})
}
