package textfeatures

import (
	"math"
	"strings"

	"gonum.org/v1/gonum/stat"
)

func registerDependency(r *Registry) {
	const area = "dependency"

	r.simple(area, "tree_width", docFeature(TreeWidth))
	r.simple(area, "tree_depth", docFeature(TreeDepth))
	r.simple(area, "tree_branching", docFeature(func(ann *Annotation) float64 {
		if len(ann.Tokens) == 0 {
			return math.NaN()
		}
		total := 0
		for _, c := range ann.Children() {
			total += c
		}
		return float64(total) / float64(len(ann.Tokens))
	}))
	r.simple(area, "ramification_factor", docFeature(RamificationFactor))
	r.simple(area, "n_noun_chunks", docFeature(func(ann *Annotation) float64 {
		return float64(len(ann.NounChunks))
	}))
	r.add(Entry{
		Name:      "n_per_dependency_type",
		Area:      area,
		Threshold: math.NaN(),
		Params:    map[string][]string{"dependencies": UniversalDependencies},
		Func: func(fc *FeatureContext) error {
			return perValue(fc, fc.Param("dependencies", UniversalDependencies),
				func(dep string) string { return columnName("n_dependency", dep) },
				func(ann *Annotation, dep string) int {
					n := 0
					for _, tok := range ann.Tokens {
						if strings.EqualFold(tok.Dep, dep) {
							n++
						}
					}
					return n
				})
		},
	})
}

// TreeWidth is the largest number of children of any token.
func TreeWidth(ann *Annotation) float64 {
	width := 0
	for _, c := range ann.Children() {
		width = max(width, c)
	}
	return float64(width)
}

// TreeDepth is the mean, over sentences, of the longest path from a root
// to a leaf. A root is a token that is its own head; its depth is 0.
func TreeDepth(ann *Annotation) float64 {
	if len(ann.Sentences) == 0 {
		return math.NaN()
	}

	children := make([][]int, len(ann.Tokens))
	for i, tok := range ann.Tokens {
		if tok.Head != i && tok.Head >= 0 && tok.Head < len(ann.Tokens) {
			children[tok.Head] = append(children[tok.Head], i)
		}
	}

	depths := make([]float64, len(ann.Sentences))
	for s, sent := range ann.Sentences {
		deepest := 0
		for i := sent.Start; i < sent.End; i++ {
			if ann.Tokens[i].Head == i {
				deepest = max(deepest, subtreeDepth(children, i))
			}
		}
		depths[s] = float64(deepest)
	}
	return stat.Mean(depths, nil)
}

// subtreeDepth walks the tree breadth first; visited nodes are not
// revisited, so a malformed parse cannot loop.
func subtreeDepth(children [][]int, root int) int {
	visited := map[int]bool{root: true}
	level := []int{root}
	depth := 0
	for {
		var next []int
		for _, node := range level {
			for _, child := range children[node] {
				if !visited[child] {
					visited[child] = true
					next = append(next, child)
				}
			}
		}
		if len(next) == 0 {
			return depth
		}
		depth++
		level = next
	}
}

// RamificationFactor is the mean, over dependency labels, of the total
// number of children of tokens carrying that label.
func RamificationFactor(ann *Annotation) float64 {
	if len(ann.Tokens) == 0 {
		return math.NaN()
	}
	children := ann.Children()
	levels := make(map[string]int)
	for i, tok := range ann.Tokens {
		levels[tok.Dep] += children[i]
	}
	total := 0
	for _, n := range levels {
		total += n
	}
	return float64(total) / float64(len(levels))
}
