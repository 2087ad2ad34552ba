package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardwise/coach_api/internal/models"
	"github.com/cardwise/coach_api/internal/utils"
)

func newAgentService(agents []models.Agent, cards []models.Card, sales []models.Sale) *AgentService {
	return NewAgentService(&fakeAgents{agents: agents}, &fakeCards{cards: cards}, &fakeSales{sales: sales})
}

func TestAnalyzePerformanceUnknownAgent(t *testing.T) {
	svc := newAgentService(nil, nil, nil)

	_, err := svc.AnalyzePerformance("AG9999")
	require.Error(t, err)
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestAnalyzePerformanceNoSales(t *testing.T) {
	svc := newAgentService([]models.Agent{testAgent("AG1001")}, nil, nil)

	perf, err := svc.AnalyzePerformance("AG1001")
	require.NoError(t, err)
	assert.Equal(t, 0, perf.Total)
	assert.Equal(t, 0, perf.Approved)
	assert.Zero(t, perf.ApprovalRate)
	assert.Zero(t, perf.TotalCommission)
	assert.Zero(t, perf.AvgCommission)
	assert.Empty(t, perf.ByCard)
	assert.Empty(t, perf.Monthly)
	assert.Empty(t, perf.BySegment)
}

func TestAnalyzePerformanceBreakdowns(t *testing.T) {
	cards := []models.Card{
		testCard("CC10001", "Regalia Gold", models.CardTypeGold, 500000),
		testCard("CC10002", "Millennia", models.CardTypeCashback, 300000),
	}
	sales := []models.Sale{
		testSale("AG1001", "CC10001", models.SaleStatusApproved, 2500, "2026-01-10"),
		testSale("AG1001", "CC10001", models.SaleStatusRejected, 0, "2026-01-20"),
		testSale("AG1001", "CC10002", models.SaleStatusApproved, 1500, "2026-02-05"),
		testSale("AG1002", "CC10001", models.SaleStatusApproved, 9999, "2026-02-10"),
	}
	svc := newAgentService([]models.Agent{testAgent("AG1001")}, cards, sales)

	perf, err := svc.AnalyzePerformance("AG1001")
	require.NoError(t, err)

	assert.Equal(t, 3, perf.Total)
	assert.Equal(t, 2, perf.Approved)
	assert.InDelta(t, 2.0/3.0, perf.ApprovalRate, 1e-9)
	assert.InDelta(t, 4000, perf.TotalCommission, 1e-9)
	assert.InDelta(t, 2000, perf.AvgCommission, 1e-9)

	require.Len(t, perf.ByCard, 2)
	assert.Equal(t, "CC10001", perf.ByCard[0].CardID)
	assert.Equal(t, "Regalia Gold", perf.ByCard[0].CardName)
	assert.Equal(t, 2, perf.ByCard[0].Total)
	assert.Equal(t, "CC10002", perf.ByCard[1].CardID)

	require.Len(t, perf.Monthly, 2)
	assert.Equal(t, "2026-01", perf.Monthly[0].Month)
	assert.Equal(t, "2026-02", perf.Monthly[1].Month)

	require.Len(t, perf.BySegment, 1)
	assert.Equal(t, "High", perf.BySegment[0].Segment)
}

func TestGenerateInsightsNoSales(t *testing.T) {
	svc := newAgentService([]models.Agent{testAgent("AG1001")}, nil, nil)

	insights, err := svc.GenerateInsights("AG1001")
	require.NoError(t, err)
	assert.Empty(t, insights.Strengths)
	assert.Empty(t, insights.Improvements)
	require.Len(t, insights.Recommendations, 1)
	assert.Contains(t, insights.Recommendations[0], "No sales recorded yet")
}

func TestGenerateInsightsBenchmarks(t *testing.T) {
	cards := []models.Card{testCard("CC10001", "Regalia Gold", models.CardTypeGold, 500000)}

	// AG1001 approves everything at high commission; AG1002 drags the
	// network average down.
	sales := []models.Sale{
		testSale("AG1001", "CC10001", models.SaleStatusApproved, 3000, "2026-01-05"),
		testSale("AG1001", "CC10001", models.SaleStatusApproved, 3000, "2026-01-12"),
		testSale("AG1001", "CC10001", models.SaleStatusApproved, 3000, "2026-01-20"),
		testSale("AG1002", "CC10001", models.SaleStatusRejected, 0, "2026-01-06"),
		testSale("AG1002", "CC10001", models.SaleStatusRejected, 0, "2026-01-07"),
		testSale("AG1002", "CC10001", models.SaleStatusApproved, 1000, "2026-01-08"),
	}
	svc := newAgentService([]models.Agent{testAgent("AG1001")}, cards, sales)

	insights, err := svc.GenerateInsights("AG1001")
	require.NoError(t, err)

	assert.NotEmpty(t, insights.Strengths)
	assert.Empty(t, insights.Improvements)
	// Full concentration in one card triggers the diversification advice.
	found := false
	for _, rec := range insights.Recommendations {
		if strings.Contains(rec, "Diversify") {
			found = true
		}
	}
	assert.True(t, found, "expected a diversification recommendation")
}

func TestDashboardBundlesEverything(t *testing.T) {
	cards := []models.Card{testCard("CC10001", "Regalia Gold", models.CardTypeGold, 500000)}
	sales := []models.Sale{
		testSale("AG1001", "CC10001", models.SaleStatusApproved, 2000, "2026-01-05"),
	}
	svc := newAgentService([]models.Agent{testAgent("AG1001")}, cards, sales)

	dash, err := svc.Dashboard("AG1001")
	require.NoError(t, err)
	require.NotNil(t, dash.Agent)
	assert.Equal(t, "AG1001", dash.Agent.AgentID)
	require.NotNil(t, dash.Performance)
	assert.Equal(t, 1, dash.Performance.Total)
	require.NotNil(t, dash.Insights)
}
