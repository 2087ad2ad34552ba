package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEngineValidatesWeights(t *testing.T) {
	_, err := NewEngine(Weights{ApprovalRate: 0.6, Commission: 0.3, Volume: 0.2})
	require.Error(t, err, "weights summing to 1.1 must be rejected")

	_, err = NewEngine(Weights{ApprovalRate: 1.2, Commission: -0.3, Volume: 0.1})
	require.Error(t, err, "negative weights must be rejected")

	e, err := NewEngine(DefaultWeights)
	require.NoError(t, err)
	assert.Equal(t, DefaultWeights, e.Weights())
}

func TestRankEmptySet(t *testing.T) {
	ranked := Default().Rank(nil)
	require.NotNil(t, ranked)
	assert.Empty(t, ranked)
}

func TestRankThreeCards(t *testing.T) {
	ranked := Default().Rank([]Candidate{
		{ID: "CC10001", ApprovalRate: 0.5, AvgCommission: 1000, Volume: 10},
		{ID: "CC10002", ApprovalRate: 0.8, AvgCommission: 2000, Volume: 5},
		{ID: "CC10003", ApprovalRate: 0.8, AvgCommission: 1500, Volume: 5},
	})
	require.Len(t, ranked, 3)

	assert.Equal(t, "CC10002", ranked[0].ID)
	assert.Equal(t, "CC10003", ranked[1].ID)
	assert.Equal(t, "CC10001", ranked[2].ID)

	// CC10002 holds both maxima: 0.8*0.5 + 1.0*0.3 + 0.5*0.2
	assert.InDelta(t, 0.8, ranked[0].Score, 1e-9)
	for _, r := range ranked {
		assert.GreaterOrEqual(t, r.Score, 0.0)
		assert.LessOrEqual(t, r.Score, 1.0)
	}
}

func TestRankScoreBounds(t *testing.T) {
	ranked := Default().Rank([]Candidate{
		{ID: "A", ApprovalRate: 1.0, AvgCommission: 5000, Volume: 100},
		{ID: "B", ApprovalRate: 0.0, AvgCommission: 0, Volume: 0},
	})
	require.Len(t, ranked, 2)
	assert.InDelta(t, 1.0, ranked[0].Score, 1e-9)
	assert.InDelta(t, 0.0, ranked[1].Score, 1e-9)
}

func TestRankTieBreakApprovalThenVolumeThenID(t *testing.T) {
	// Identical stats: ID decides.
	ranked := Default().Rank([]Candidate{
		{ID: "CC10002", ApprovalRate: 0.6, AvgCommission: 1000, Volume: 4},
		{ID: "CC10001", ApprovalRate: 0.6, AvgCommission: 1000, Volume: 4},
	})
	assert.Equal(t, "CC10001", ranked[0].ID)
	assert.Equal(t, "CC10002", ranked[1].ID)

	// Equal scores, different volume: volume decides.
	ranked = Default().Rank([]Candidate{
		{ID: "X", ApprovalRate: 0.6, AvgCommission: 1000, Volume: 4},
		{ID: "Y", ApprovalRate: 0.6, AvgCommission: 1000, Volume: 8},
	})
	assert.Equal(t, "Y", ranked[0].ID)
}

func TestRankDeterministic(t *testing.T) {
	cands := []Candidate{
		{ID: "CC10003", ApprovalRate: 0.7, AvgCommission: 1800, Volume: 6},
		{ID: "CC10001", ApprovalRate: 0.7, AvgCommission: 1800, Volume: 6},
		{ID: "CC10002", ApprovalRate: 0.4, AvgCommission: 2400, Volume: 12},
	}
	first := Default().Rank(cands)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Default().Rank(cands))
	}
}

func TestRankSingleCandidateNormalizesAgainstItself(t *testing.T) {
	ranked := Default().Rank([]Candidate{
		{ID: "CC10007", ApprovalRate: 0.6, AvgCommission: 1234, Volume: 3},
	})
	require.Len(t, ranked, 1)
	// Own maxima: commission and volume sub-scores are both 1.
	assert.InDelta(t, 0.6*0.5+0.3+0.2, ranked[0].Score, 1e-9)
}

func TestRankZeroMaximaFallsBackToApprovalOnly(t *testing.T) {
	ranked := Default().Rank([]Candidate{
		{ID: "A", ApprovalRate: 0.9, AvgCommission: 0, Volume: 0},
		{ID: "B", ApprovalRate: 0.3, AvgCommission: 0, Volume: 0},
	})
	require.Len(t, ranked, 2)
	assert.Equal(t, "A", ranked[0].ID)
	assert.InDelta(t, 0.45, ranked[0].Score, 1e-9)
	assert.InDelta(t, 0.15, ranked[1].Score, 1e-9)
	assert.Equal(t, FactorApprovalRate, ranked[0].DominantFactor)
}

func TestDominantFactorAndExplanation(t *testing.T) {
	ranked := Default().Rank([]Candidate{
		{ID: "A", ApprovalRate: 0.2, AvgCommission: 3000, Volume: 1},
		{ID: "B", ApprovalRate: 0.9, AvgCommission: 100, Volume: 1},
	})
	require.Len(t, ranked, 2)

	for _, r := range ranked {
		assert.NotEmpty(t, r.Explanation)
		require.Len(t, r.Factors, 3)
		sum := 0.0
		for _, f := range r.Factors {
			sum += f.Weighted
		}
		assert.InDelta(t, r.Score, sum, 1e-9)
	}

	byID := map[string]Scored{ranked[0].ID: ranked[0], ranked[1].ID: ranked[1]}
	assert.Equal(t, FactorApprovalRate, byID["B"].DominantFactor)
	assert.Equal(t, FactorCommission, byID["A"].DominantFactor)
}
