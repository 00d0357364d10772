package textfeatures

import (
	"math"
)

func registerLexicalRichness(r *Registry) {
	const area = "lexical_richness"

	r.simple(area, "lemma_token_ratio", ratio("n_lemmas", "n_tokens"))

	closed := []struct {
		name string
		fn   func(types, tokens int) float64
	}{
		{"ttr", TTR},
		{"rttr", RTTR},
		{"cttr", CTTR},
		{"herdan_c", HerdanC},
		{"summer_index", SummerIndex},
		{"dugast_u", DugastU},
		{"maas_index", MaasIndex},
		{"giroud_index", GiroudIndex},
	}
	for _, c := range closed {
		fn := c.fn
		r.simple(area, c.name, derived([]string{"n_types", "n_tokens"}, func(x []float64) float64 {
			return fn(int(x[0]), int(x[1]))
		}))
	}

	r.alias("dougast_u", "dugast_u")

	r.simple(area, "n_hapax_legomena", docFeature(func(ann *Annotation) float64 {
		return float64(spectrum(ann.Words())[1])
	}))
	r.simple(area, "n_hapax_dislegomena", docFeature(func(ann *Annotation) float64 {
		return float64(spectrum(ann.Words())[2])
	}))
	r.simple(area, "sichel_s", ratio("n_hapax_dislegomena", "n_types"))
	r.simple(area, "lexical_density", ratio("n_lexical_tokens", "n_tokens"))

	r.add(Entry{
		Name:      "mtld",
		Area:      area,
		Threshold: DefaultMTLDThreshold,
		Func: func(fc *FeatureContext) error {
			tau := fc.threshold(DefaultMTLDThreshold)
			return docFeature(func(ann *Annotation) float64 {
				return MTLD(ann.Words(), tau)
			})(fc)
		},
	})
	r.add(Entry{
		Name:      "hdd",
		Area:      area,
		Threshold: math.NaN(),
		Params:    map[string][]string{"draws": {"42"}},
		Func: func(fc *FeatureContext) error {
			draws := fc.IntParam("draws", DefaultHDDDraws)
			return docFeature(func(ann *Annotation) float64 {
				return HDD(ann.Words(), draws)
			})(fc)
		},
	})
	r.add(Entry{
		Name:      "mattr",
		Area:      area,
		Threshold: math.NaN(),
		Params:    map[string][]string{"window_size": {"5"}},
		Func: func(fc *FeatureContext) error {
			window := fc.IntParam("window_size", DefaultWindowSize)
			return docFeature(func(ann *Annotation) float64 {
				return MATTR(ann.Words(), window)
			})(fc)
		},
	})
	r.add(Entry{
		Name:      "msttr",
		Area:      area,
		Threshold: math.NaN(),
		Params:    map[string][]string{"window_size": {"5"}, "discard_incomplete": {"true"}},
		Func: func(fc *FeatureContext) error {
			window := fc.IntParam("window_size", DefaultWindowSize)
			discard := fc.BoolParam("discard_incomplete", true)
			return docFeature(func(ann *Annotation) float64 {
				return MSTTR(ann.Words(), window, discard)
			})(fc)
		},
	})

	r.simple(area, "yule_k", docFeature(func(ann *Annotation) float64 {
		return YuleK(ann.Words())
	}))
	r.simple(area, "simpsons_d", docFeature(func(ann *Annotation) float64 {
		return SimpsonsD(ann.Words())
	}))
	r.simple(area, "herdan_v", docFeature(func(ann *Annotation) float64 {
		return HerdanVm(ann.Words())
	}))
}
