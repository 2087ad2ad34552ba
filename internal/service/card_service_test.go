package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardwise/coach_api/internal/config"
	"github.com/cardwise/coach_api/internal/models"
	"github.com/cardwise/coach_api/internal/predict"
	"github.com/cardwise/coach_api/internal/scoring"
	"github.com/cardwise/coach_api/internal/utils"
)

func newCardService(agents []models.Agent, cards []models.Card, sales []models.Sale) *CardService {
	suite := predict.NewSuite(config.PredictConfig{MinApprovalSamples: 50, MinCommissionSamples: 30})
	return NewCardService(&fakeCards{cards: cards}, &fakeAgents{agents: agents},
		&fakeSales{sales: sales}, scoring.Default(), suite, nil)
}

func TestComputeSnapshotZeroFillsCards(t *testing.T) {
	cards := []models.Card{
		testCard("CC10001", "Regalia Gold", models.CardTypeGold, 500000),
		testCard("CC10002", "Millennia", models.CardTypeCashback, 300000),
	}
	sales := []models.Sale{
		testSale("AG1001", "CC10001", models.SaleStatusApproved, 2000, "2026-01-10"),
	}
	svc := newCardService(nil, cards, sales)

	snap, err := svc.ComputeSnapshot()
	require.NoError(t, err)

	require.Len(t, snap.Cards, 2)
	// Sorted by total commission descending.
	assert.Equal(t, "CC10001", snap.Cards[0].CardID)
	assert.Equal(t, "Regalia Gold", snap.Cards[0].CardName)
	assert.Equal(t, "CC10002", snap.Cards[1].CardID)
	assert.Equal(t, 0, snap.Cards[1].Total)
	assert.Zero(t, snap.Cards[1].ApprovalRate)

	assert.Equal(t, 1, snap.Network.TotalSales)
	assert.InDelta(t, 1.0, snap.Network.ApprovalRate, 1e-9)
	assert.InDelta(t, 2000, snap.Network.AvgCommission, 1e-9)
}

func TestAnalyzeAllCardsComputesLiveWithoutCache(t *testing.T) {
	cards := []models.Card{testCard("CC10001", "Regalia Gold", models.CardTypeGold, 500000)}
	svc := newCardService(nil, cards, nil)

	perf, network, err := svc.AnalyzeAllCards(context.Background())
	require.NoError(t, err)
	require.Len(t, perf, 1)
	assert.Equal(t, 0, network.TotalSales)
}

func TestRecommendCardsUnknownAgent(t *testing.T) {
	svc := newCardService(nil, nil, nil)

	_, err := svc.RecommendCards("AG9999", 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestRecommendCardsRanksByHistory(t *testing.T) {
	agent := testAgent("AG1001")
	agent.Specialization = models.CardTypeBasic
	cards := []models.Card{
		testCard("CC10001", "Entry", models.CardTypeBasic, 300000),
		testCard("CC10002", "Mid", models.CardTypeGold, 500000),
		testCard("CC10003", "Top", models.CardTypePremium, 1500000),
	}

	sales := []models.Sale{
		// CC10002 clearly dominates: better approval rate, commission and volume.
		testSale("AG1001", "CC10002", models.SaleStatusApproved, 3000, "2026-01-05"),
		testSale("AG1001", "CC10002", models.SaleStatusApproved, 3000, "2026-01-12"),
		testSale("AG1001", "CC10002", models.SaleStatusApproved, 3000, "2026-01-19"),
		testSale("AG1001", "CC10001", models.SaleStatusApproved, 800, "2026-01-06"),
		testSale("AG1001", "CC10001", models.SaleStatusRejected, 0, "2026-01-07"),
	}
	svc := newCardService([]models.Agent{agent}, cards, sales)

	result, err := svc.RecommendCards("AG1001", 5)
	require.NoError(t, err)
	assert.True(t, result.BasedOnHistory)
	require.NotEmpty(t, result.Recommendations)

	top := result.Recommendations[0]
	assert.Equal(t, "CC10002", top.Card.CardID)
	assert.InDelta(t, 1.0, top.ApprovalRate, 1e-9)
	assert.Equal(t, top.BaseScore+top.FitBonus, top.Score)

	// Scores stay descending after the fit bonus is applied.
	for i := 1; i < len(result.Recommendations); i++ {
		assert.GreaterOrEqual(t, result.Recommendations[i-1].Score, result.Recommendations[i].Score)
	}
}

func TestRecommendCardsColdStartUsesNetwork(t *testing.T) {
	cards := []models.Card{
		testCard("CC10001", "Entry", models.CardTypeBasic, 300000),
		testCard("CC10002", "Mid", models.CardTypeGold, 500000),
	}
	// AG1001 has no sales; the network has a clear winner.
	sales := []models.Sale{
		testSale("AG1002", "CC10002", models.SaleStatusApproved, 3000, "2026-01-05"),
		testSale("AG1002", "CC10002", models.SaleStatusApproved, 3000, "2026-01-12"),
		testSale("AG1003", "CC10001", models.SaleStatusRejected, 0, "2026-01-06"),
	}
	svc := newCardService([]models.Agent{testAgent("AG1001")}, cards, sales)

	result, err := svc.RecommendCards("AG1001", 5)
	require.NoError(t, err)
	assert.False(t, result.BasedOnHistory)
	require.Len(t, result.Recommendations, 2)
	assert.Equal(t, "CC10002", result.Recommendations[0].Card.CardID)
}

func TestRecommendCardsSpecializationBonus(t *testing.T) {
	agent := testAgent("AG1001")
	agent.Specialization = models.CardTypeGold
	cards := []models.Card{
		testCard("CC10001", "Entry", models.CardTypeBasic, 300000),
		testCard("CC10002", "Mid", models.CardTypeGold, 500000),
	}
	// Identical observed statistics for both cards.
	sales := []models.Sale{
		testSale("AG1001", "CC10001", models.SaleStatusApproved, 2000, "2026-01-05"),
		testSale("AG1001", "CC10001", models.SaleStatusApproved, 2000, "2026-01-06"),
		testSale("AG1001", "CC10001", models.SaleStatusApproved, 2000, "2026-01-08"),
		testSale("AG1001", "CC10002", models.SaleStatusApproved, 2000, "2026-01-05"),
		testSale("AG1001", "CC10002", models.SaleStatusApproved, 2000, "2026-01-07"),
		testSale("AG1001", "CC10002", models.SaleStatusApproved, 2000, "2026-01-09"),
	}
	svc := newCardService([]models.Agent{agent}, cards, sales)

	result, err := svc.RecommendCards("AG1001", 5)
	require.NoError(t, err)
	require.Len(t, result.Recommendations, 2)
	assert.Equal(t, "CC10002", result.Recommendations[0].Card.CardID)
	assert.InDelta(t, specializationBonus, result.Recommendations[0].FitBonus, 1e-9)
}

func TestRecommendCardsLimit(t *testing.T) {
	cards := []models.Card{
		testCard("CC10001", "A", models.CardTypeBasic, 300000),
		testCard("CC10002", "B", models.CardTypeGold, 500000),
		testCard("CC10003", "C", models.CardTypeTravel, 600000),
	}
	svc := newCardService([]models.Agent{testAgent("AG1001")}, cards, nil)

	result, err := svc.RecommendCards("AG1001", 2)
	require.NoError(t, err)
	assert.Len(t, result.Recommendations, 2)
}

func TestCompareCardsValidation(t *testing.T) {
	cards := []models.Card{
		testCard("CC10001", "A", models.CardTypeBasic, 300000),
		testCard("CC10002", "B", models.CardTypeGold, 500000),
	}
	svc := newCardService(nil, cards, nil)

	_, err := svc.CompareCards([]string{"CC10001"})
	assert.ErrorIs(t, err, utils.ErrInvalidInput)

	_, err = svc.CompareCards([]string{"CC10001", "CC9999"})
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestCompareCards(t *testing.T) {
	cards := []models.Card{
		testCard("CC10001", "A", models.CardTypeBasic, 300000),
		testCard("CC10002", "B", models.CardTypeGold, 500000),
	}
	sales := []models.Sale{
		testSale("AG1001", "CC10001", models.SaleStatusApproved, 1000, "2026-01-05"),
		testSale("AG1002", "CC10001", models.SaleStatusRejected, 0, "2026-01-06"),
		testSale("AG1001", "CC10002", models.SaleStatusApproved, 3000, "2026-01-07"),
	}
	svc := newCardService(nil, cards, sales)

	cmp, err := svc.CompareCards([]string{"CC10001", "CC10002"})
	require.NoError(t, err)
	require.Len(t, cmp.Cards, 2)
	require.Len(t, cmp.Performance, 2)

	assert.Equal(t, "CC10001", cmp.Performance[0].CardID)
	assert.Equal(t, 2, cmp.Performance[0].Total)
	assert.InDelta(t, 0.5, cmp.Performance[0].ApprovalRate, 1e-9)
	assert.Equal(t, "CC10002", cmp.Performance[1].CardID)
	assert.InDelta(t, 3000, cmp.Performance[1].AvgCommission, 1e-9)
}
