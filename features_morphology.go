package textfeatures

import (
	"math"
	"strings"

	"github.com/tsawler/textfeatures/logging"
)

// DefaultMorphFeatures are the POS:Feat:Val triples counted when no morph
// parameter is configured.
var DefaultMorphFeatures = []string{
	"VERB:VerbForm:Fin", "VERB:VerbForm:Inf", "VERB:VerbForm:Part", "VERB:VerbForm:Ger",
	"VERB:Mood:Ind", "VERB:Mood:Imp", "VERB:Mood:Sub", "VERB:Mood:Cnd",
	"VERB:Tense:Past", "VERB:Tense:Pres", "VERB:Tense:Fut",
	"VERB:Aspect:Perf", "VERB:Aspect:Prog",
	"VERB:Voice:Act", "VERB:Voice:Pass",
	"VERB:Person:1", "VERB:Person:2", "VERB:Person:3",
	"NOUN:Number:Sing", "NOUN:Number:Plur",
	"NOUN:Gender:Masc", "NOUN:Gender:Fem", "NOUN:Gender:Neut",
	"NOUN:Case:Nom", "NOUN:Case:Acc", "NOUN:Case:Dat", "NOUN:Case:Gen",
	"ADJ:Degree:Pos", "ADJ:Degree:Cmp", "ADJ:Degree:Sup",
	"PRON:Person:1", "PRON:Person:2", "PRON:Person:3",
	"PRON:PronType:Prs", "PRON:PronType:Dem", "PRON:PronType:Int", "PRON:PronType:Rel",
}

// morphFeature is one parsed POS:Feat:Val triple.
type morphFeature struct {
	pos, feat, val string
}

func parseMorphFeature(s string) (morphFeature, bool) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return morphFeature{}, false
	}
	return morphFeature{pos: parts[0], feat: parts[1], val: parts[2]}, true
}

func registerMorphology(r *Registry) {
	r.add(Entry{
		Name:      "n_per_morph_feature",
		Area:      "morphology",
		Threshold: math.NaN(),
		Params:    map[string][]string{"morph": DefaultMorphFeatures},
		Func: func(fc *FeatureContext) error {
			var valid []string
			parsed := make(map[string]morphFeature)
			for _, s := range fc.Param("morph", DefaultMorphFeatures) {
				mf, ok := parseMorphFeature(s)
				if !ok {
					fc.Logger.Warn("skipping malformed morph entry, want POS:Feat:Val", logging.Fields{"entry": s})
					continue
				}
				valid = append(valid, s)
				parsed[s] = mf
			}

			return perValue(fc, valid,
				func(s string) string {
					mf := parsed[s]
					return columnName("n", mf.pos, mf.feat, mf.val)
				},
				func(ann *Annotation, s string) int {
					mf := parsed[s]
					n := 0
					for _, tok := range ann.Tokens {
						if tok.Tag != mf.pos {
							continue
						}
						for _, v := range tok.MorphValues(mf.feat) {
							if v == mf.val {
								n++
								break
							}
						}
					}
					return n
				})
		},
	})
}
