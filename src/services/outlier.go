// backend/src/services/outlier.go
package services

import (
	"hash/fnv"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// TextOutlierScorer computes a [0,1] semantic-outlier score for every
// description in a run. Implementations must return one score per input
// and must not fail: a degraded scorer returns all zeros.
type TextOutlierScorer interface {
	// Name identifies the scorer in audit metadata.
	Name() string
	Score(descriptions []string) []float64
}

// NoopTextScorer returns zero for every description. It stands in when
// the statistical scorer is disabled, leaving only the amount signal.
type NoopTextScorer struct{}

func (NoopTextScorer) Name() string { return "amount-only (text scorer unavailable)" }

func (NoopTextScorer) Score(descriptions []string) []float64 {
	return make([]float64, len(descriptions))
}

const (
	embeddingDim    = 256
	maxLOFNeighbors = 20
)

// LOFTextScorer embeds each description as a hashed character-trigram
// vector and ranks outliers with the Local Outlier Factor over those
// embeddings. Raw LOF values are min-max normalized across the run.
type LOFTextScorer struct{}

// NewLOFTextScorer creates the trigram/LOF description scorer.
func NewLOFTextScorer() *LOFTextScorer {
	return &LOFTextScorer{}
}

func (s *LOFTextScorer) Name() string { return "trigram-lof-outlier-model" }

// embed maps a description to a fixed-dimension l2-normalized vector via
// feature hashing of its character trigrams.
func embed(description string) []float64 {
	vec := make([]float64, embeddingDim)
	text := strings.ToLower(strings.TrimSpace(description))
	runes := []rune(" " + text + " ")
	for i := 0; i+3 <= len(runes); i++ {
		h := fnv.New32a()
		h.Write([]byte(string(runes[i : i+3])))
		vec[h.Sum32()%embeddingDim]++
	}
	norm := floats.Norm(vec, 2)
	if norm > 0 {
		floats.Scale(1/norm, vec)
	}
	return vec
}

func (s *LOFTextScorer) Score(descriptions []string) []float64 {
	n := len(descriptions)
	scores := make([]float64, n)
	if n < 2 {
		return scores
	}

	embeddings := make([][]float64, n)
	for i, d := range descriptions {
		embeddings[i] = embed(d)
	}

	k := maxLOFNeighbors
	if n-1 < k {
		k = n - 1
	}

	raw := localOutlierFactors(embeddings, k)

	// An infinite factor appears when a point's own density is zero
	// against a duplicate cluster. Clamp to one step past the largest
	// finite factor so normalization stays well defined.
	maxFinite := 0.0
	hasFinite := false
	for _, v := range raw {
		if !math.IsInf(v, 1) && (!hasFinite || v > maxFinite) {
			maxFinite = v
			hasFinite = true
		}
	}
	if !hasFinite {
		return scores
	}
	for i, v := range raw {
		if math.IsInf(v, 1) {
			raw[i] = maxFinite + 1
		}
	}

	// Min-max normalize to [0,1]; a constant run carries no signal.
	lo := floats.Min(raw)
	hi := floats.Max(raw)
	if hi-lo <= 0 {
		return scores
	}
	for i, v := range raw {
		scores[i] = (v - lo) / (hi - lo)
	}
	return scores
}

// localOutlierFactors computes the LOF of every point: the ratio of the
// average local reachability density of a point's k neighbors to its
// own. Values near 1 mean inlier, larger values mean outlier.
func localOutlierFactors(points [][]float64, k int) []float64 {
	n := len(points)

	dist := make([][]float64, n)
	for i := range dist {
		dist[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := floats.Distance(points[i], points[j], 2)
			dist[i][j] = d
			dist[j][i] = d
		}
	}

	neighbors := make([][]int, n)
	kDist := make([]float64, n)
	for i := 0; i < n; i++ {
		order := make([]int, 0, n-1)
		for j := 0; j < n; j++ {
			if j != i {
				order = append(order, j)
			}
		}
		sort.SliceStable(order, func(a, b int) bool {
			return dist[i][order[a]] < dist[i][order[b]]
		})
		neighbors[i] = order[:k]
		kDist[i] = dist[i][order[k-1]]
	}

	// Local reachability density. Duplicate points give a zero average
	// reachability distance; their density is treated as infinite.
	lrd := make([]float64, n)
	for i := 0; i < n; i++ {
		sum := 0.0
		for _, j := range neighbors[i] {
			sum += math.Max(kDist[j], dist[i][j])
		}
		if sum == 0 {
			lrd[i] = math.Inf(1)
		} else {
			lrd[i] = float64(k) / sum
		}
	}

	lof := make([]float64, n)
	for i := 0; i < n; i++ {
		sum := 0.0
		for _, j := range neighbors[i] {
			sum += lrd[j]
		}
		ratio := sum / float64(k) / lrd[i]
		if math.IsNaN(ratio) {
			// Both densities infinite: the point sits in a cluster of
			// exact duplicates and is no outlier.
			ratio = 1
		}
		lof[i] = ratio
	}
	return lof
}
