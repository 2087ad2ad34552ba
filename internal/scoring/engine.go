// Package scoring ranks candidates with a fixed-weight composite score.
//
// Score = approval_rate*0.5 + (avg_commission/max_commission)*0.3 +
// (volume/max_volume)*0.2, where both maxima are taken over the candidate
// set being ranked. A zero maximum collapses that sub-score to 0, so a set
// with no commission and no volume degrades to approval-rate-only ranking.
package scoring

import (
	"fmt"
	"math"
	"sort"

	"github.com/cardwise/coach_api/internal/utils"
)

// Epsilon is the score distance under which two candidates count as tied.
const Epsilon = 1e-6

// Factor names reported in score breakdowns.
const (
	FactorApprovalRate = "approval_rate"
	FactorCommission   = "avg_commission"
	FactorVolume       = "volume"
)

// Weights holds the relative weight of each scoring factor. Weights must be
// non-negative and sum to 1.0.
type Weights struct {
	ApprovalRate float64 `json:"approval_rate"`
	Commission   float64 `json:"avg_commission"`
	Volume       float64 `json:"volume"`
}

// DefaultWeights is the fixed scoring policy.
var DefaultWeights = Weights{
	ApprovalRate: 0.5,
	Commission:   0.3,
	Volume:       0.2,
}

// Candidate is one item to rank, described by its derived statistics.
type Candidate struct {
	ID            string  `json:"id"`
	ApprovalRate  float64 `json:"approval_rate"`
	AvgCommission float64 `json:"avg_commission"`
	Volume        int     `json:"volume"`
}

// Factor is one weighted contribution to a composite score.
type Factor struct {
	Name     string  `json:"name"`
	Value    float64 `json:"value"`
	Weight   float64 `json:"weight"`
	Weighted float64 `json:"weighted"`
}

// Scored is a candidate with its composite score and breakdown attached.
type Scored struct {
	Candidate
	Score          float64  `json:"score"`
	Factors        []Factor `json:"factors"`
	DominantFactor string   `json:"dominant_factor"`
	Explanation    string   `json:"explanation"`
}

// Engine computes composite scores under a validated weight set.
type Engine struct {
	weights Weights
}

// NewEngine builds an engine after validating the weights: each must be
// non-negative and together they must sum to 1.0.
func NewEngine(w Weights) (*Engine, error) {
	if w.ApprovalRate < 0 || w.Commission < 0 || w.Volume < 0 {
		return nil, fmt.Errorf("%w: scoring weights must be non-negative", utils.ErrInvalidInput)
	}
	sum := w.ApprovalRate + w.Commission + w.Volume
	if math.Abs(sum-1.0) > 1e-9 {
		return nil, fmt.Errorf("%w: scoring weights must sum to 1.0, got %.6f", utils.ErrInvalidInput, sum)
	}
	return &Engine{weights: w}, nil
}

// Default returns an engine with the fixed scoring policy.
func Default() *Engine {
	e, _ := NewEngine(DefaultWeights)
	return e
}

// Weights returns the engine's weight set.
func (e *Engine) Weights() Weights {
	return e.weights
}

// Rank scores every candidate against the set and returns them ordered
// best-first. An empty input yields an empty result. Candidates whose
// scores differ by at most Epsilon are ordered by higher approval rate,
// then higher volume, then ascending ID, so equal inputs always produce
// the same output order.
func (e *Engine) Rank(cands []Candidate) []Scored {
	if len(cands) == 0 {
		return []Scored{}
	}

	var maxCommission float64
	var maxVolume int
	for _, c := range cands {
		if c.AvgCommission > maxCommission {
			maxCommission = c.AvgCommission
		}
		if c.Volume > maxVolume {
			maxVolume = c.Volume
		}
	}

	scored := make([]Scored, 0, len(cands))
	for _, c := range cands {
		scored = append(scored, e.score(c, maxCommission, maxVolume))
	}

	sort.SliceStable(scored, func(i, j int) bool {
		a, b := scored[i], scored[j]
		if math.Abs(a.Score-b.Score) > Epsilon {
			return a.Score > b.Score
		}
		if a.ApprovalRate != b.ApprovalRate {
			return a.ApprovalRate > b.ApprovalRate
		}
		if a.Volume != b.Volume {
			return a.Volume > b.Volume
		}
		return a.ID < b.ID
	})
	return scored
}

func (e *Engine) score(c Candidate, maxCommission float64, maxVolume int) Scored {
	commissionNorm := 0.0
	if maxCommission > 0 {
		commissionNorm = c.AvgCommission / maxCommission
	}
	volumeNorm := 0.0
	if maxVolume > 0 {
		volumeNorm = float64(c.Volume) / float64(maxVolume)
	}

	factors := []Factor{
		{Name: FactorApprovalRate, Value: c.ApprovalRate, Weight: e.weights.ApprovalRate},
		{Name: FactorCommission, Value: commissionNorm, Weight: e.weights.Commission},
		{Name: FactorVolume, Value: volumeNorm, Weight: e.weights.Volume},
	}

	total := 0.0
	for i := range factors {
		factors[i].Weighted = factors[i].Value * factors[i].Weight
		total += factors[i].Weighted
	}

	dominant := factors[0]
	for _, f := range factors[1:] {
		if f.Weighted > dominant.Weighted {
			dominant = f
		}
	}

	return Scored{
		Candidate:      c,
		Score:          total,
		Factors:        factors,
		DominantFactor: dominant.Name,
		Explanation:    explain(c, dominant),
	}
}

func explain(c Candidate, dominant Factor) string {
	switch dominant.Name {
	case FactorCommission:
		return fmt.Sprintf("Strong average commission of ₹%.0f per approval", c.AvgCommission)
	case FactorVolume:
		return fmt.Sprintf("High sales volume with %d applications", c.Volume)
	default:
		return fmt.Sprintf("High approval rate of %.0f%%", c.ApprovalRate*100)
	}
}
