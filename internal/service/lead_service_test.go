package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardwise/coach_api/internal/config"
	"github.com/cardwise/coach_api/internal/models"
	"github.com/cardwise/coach_api/internal/predict"
	"github.com/cardwise/coach_api/internal/utils"
)

func newLeadService(agents []models.Agent, cards []models.Card, sales []models.Sale) *LeadService {
	suite := predict.NewSuite(config.PredictConfig{MinApprovalSamples: 50, MinCommissionSamples: 30})
	return NewLeadService(&fakeCards{cards: cards}, &fakeAgents{agents: agents}, &fakeSales{sales: sales}, suite)
}

func validCustomer() models.CustomerProfile {
	return models.CustomerProfile{
		Age:            35,
		Income:         900000,
		EmploymentType: "Salaried",
		CreditScore:    760,
	}
}

func TestPredictSuccessValidation(t *testing.T) {
	cards := []models.Card{testCard("CC10001", "Regalia Gold", models.CardTypeGold, 500000)}
	svc := newLeadService(nil, cards, nil)

	cases := []struct {
		name   string
		mutate func(*models.CustomerProfile)
	}{
		{"zero age", func(c *models.CustomerProfile) { c.Age = 0 }},
		{"negative income", func(c *models.CustomerProfile) { c.Income = -1 }},
		{"credit score too low", func(c *models.CustomerProfile) { c.CreditScore = 250 }},
		{"credit score too high", func(c *models.CustomerProfile) { c.CreditScore = 950 }},
		{"missing employment", func(c *models.CustomerProfile) { c.EmploymentType = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			customer := validCustomer()
			tc.mutate(&customer)
			_, err := svc.PredictSuccess(customer, "CC10001")
			assert.ErrorIs(t, err, utils.ErrInvalidInput)
		})
	}
}

func TestPredictSuccessUnknownCard(t *testing.T) {
	svc := newLeadService(nil, nil, nil)

	_, err := svc.PredictSuccess(validCustomer(), "CC9999")
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestPredictSuccessFallbackWhenUntrained(t *testing.T) {
	cards := []models.Card{testCard("CC10001", "Regalia Gold", models.CardTypeGold, 500000)}
	svc := newLeadService(nil, cards, nil)

	pred, err := svc.PredictSuccess(validCustomer(), "CC10001")
	require.NoError(t, err)

	assert.False(t, pred.PredictionAssisted)
	assert.GreaterOrEqual(t, pred.SuccessProbability, 0.1)
	assert.LessOrEqual(t, pred.SuccessProbability, 0.9)
	// Gold is a mid-tier card; the fallback pays the mid-tier commission.
	assert.InDelta(t, 2000, pred.ExpectedCommission, 1e-9)
	assert.NotEmpty(t, pred.KeyFactors)
	assert.NotEmpty(t, pred.Recommendation)
}

func TestRecommendLeadsUnknownAgent(t *testing.T) {
	svc := newLeadService(nil, nil, nil)

	_, err := svc.RecommendLeads("AG9999", 5)
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestRecommendLeadsOrderingAndLimit(t *testing.T) {
	cards := []models.Card{
		testCard("CC10001", "Entry", models.CardTypeBasic, 300000),
		testCard("CC10002", "Mid", models.CardTypeGold, 500000),
		testCard("CC10003", "Top", models.CardTypePremium, 1500000),
	}
	svc := newLeadService([]models.Agent{testAgent("AG1001")}, cards, nil)

	leads, err := svc.RecommendLeads("AG1001", 4)
	require.NoError(t, err)
	require.NotEmpty(t, leads)
	assert.LessOrEqual(t, len(leads), 4)

	for i := 1; i < len(leads); i++ {
		if leads[i-1].ExpectedCommission == leads[i].ExpectedCommission {
			assert.GreaterOrEqual(t, leads[i-1].SuccessProbability, leads[i].SuccessProbability)
		} else {
			assert.Greater(t, leads[i-1].ExpectedCommission, leads[i].ExpectedCommission)
		}
	}

	for _, lead := range leads {
		assert.GreaterOrEqual(t, lead.SuccessProbability, minLeadProbability)
		assert.NotEmpty(t, lead.ProfileLabel)
	}
}

func TestRecommendLeadsDeterministic(t *testing.T) {
	cards := []models.Card{
		testCard("CC10001", "Entry", models.CardTypeBasic, 300000),
		testCard("CC10002", "Mid", models.CardTypeGold, 500000),
	}
	sales := []models.Sale{
		testSale("AG1001", "CC10002", models.SaleStatusApproved, 3000, "2026-01-05"),
		testSale("AG1001", "CC10001", models.SaleStatusRejected, 0, "2026-01-06"),
	}
	svc := newLeadService([]models.Agent{testAgent("AG1001")}, cards, sales)

	first, err := svc.RecommendLeads("AG1001", 5)
	require.NoError(t, err)
	second, err := svc.RecommendLeads("AG1001", 5)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
