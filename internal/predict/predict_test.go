package predict

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardwise/coach_api/internal/config"
	"github.com/cardwise/coach_api/internal/models"
)

func trainingSales(n int, card string, approvedEvery int, commission float64) []models.Sale {
	sales := make([]models.Sale, 0, n)
	for i := 0; i < n; i++ {
		s := models.Sale{
			AgentID:  "AG1001",
			CardID:   card,
			Status:   models.SaleStatusRejected,
			SaleDate: time.Date(2026, 3, 1+i%28, 0, 0, 0, 0, time.UTC),
		}
		if approvedEvery > 0 && i%approvedEvery == 0 {
			s.Status = models.SaleStatusApproved
			s.Commission = commission
		}
		sales = append(sales, s)
	}
	return sales
}

func testCard() *models.Card {
	return &models.Card{
		CardID:    "CC10001",
		Name:      "Everyday Cashback",
		Type:      models.CardTypeCashback,
		MinIncome: 300000,
	}
}

func goodCustomer() models.CustomerProfile {
	return models.CustomerProfile{
		Age:            35,
		Income:         900000,
		EmploymentType: "Salaried",
		CreditScore:    780,
	}
}

func TestApprovalModelRequiresSamples(t *testing.T) {
	m := NewApprovalModel(50)
	err := m.Train(trainingSales(10, "CC10001", 2, 1000), nil)
	require.ErrorIs(t, err, ErrModelUnavailable)
	assert.False(t, m.Ready())

	_, err = m.Predict(goodCustomer(), testCard())
	assert.ErrorIs(t, err, ErrModelUnavailable)
}

func TestApprovalModelPredictBounds(t *testing.T) {
	m := NewApprovalModel(50)
	require.NoError(t, m.Train(trainingSales(100, "CC10001", 2, 1500), nil))
	require.True(t, m.Ready())

	p, err := m.Predict(goodCustomer(), testCard())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, p, 0.0)
	assert.LessOrEqual(t, p, 1.0)

	weak := models.CustomerProfile{Age: 19, Income: 50000, EmploymentType: "Other", CreditScore: 400}
	pw, err := m.Predict(weak, testCard())
	require.NoError(t, err)
	assert.Less(t, pw, p, "weaker profile must not score higher")
	assert.GreaterOrEqual(t, pw, 0.0)
}

func TestApprovalModelUnknownCardUsesNetworkRate(t *testing.T) {
	m := NewApprovalModel(50)
	require.NoError(t, m.Train(trainingSales(100, "CC10001", 2, 1500), nil))

	unknown := &models.Card{CardID: "CC19999", Type: models.CardTypeGold, MinIncome: 400000}
	p, err := m.Predict(goodCustomer(), unknown)
	require.NoError(t, err)
	assert.Greater(t, p, 0.0)
	assert.LessOrEqual(t, p, 0.95)
}

func TestCommissionModelRequiresApprovedSamples(t *testing.T) {
	m := NewCommissionModel(30)
	// 40 sales but only 10 approved.
	err := m.Train(trainingSales(40, "CC10001", 4, 1000), nil)
	require.ErrorIs(t, err, ErrModelUnavailable)
	assert.False(t, m.Ready())
}

func TestCommissionModelPredictNonNegative(t *testing.T) {
	m := NewCommissionModel(30)
	require.NoError(t, m.Train(trainingSales(80, "CC10001", 2, 2000), nil))

	amount, err := m.Predict(goodCustomer(), testCard())
	require.NoError(t, err)
	assert.Greater(t, amount, 0.0)

	poor := models.CustomerProfile{Age: 40, Income: 100000, EmploymentType: "Salaried", CreditScore: 700}
	low, err := m.Predict(poor, testCard())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, low, 0.0)
	assert.LessOrEqual(t, low, amount)
}

func TestSuiteEvaluateFallsBackWhenUntrained(t *testing.T) {
	suite := NewSuite(config.PredictConfig{MinApprovalSamples: 50, MinCommissionSamples: 30})

	out := suite.Evaluate(goodCustomer(), testCard())
	assert.False(t, out.PredictionAssisted)
	assert.GreaterOrEqual(t, out.Probability, 0.0)
	assert.LessOrEqual(t, out.Probability, 1.0)
	assert.GreaterOrEqual(t, out.ExpectedCommission, 0.0)
	assert.NotEmpty(t, out.KeyFactors)
}

func TestSuiteEvaluateAssistedWhenTrained(t *testing.T) {
	suite := NewSuite(config.PredictConfig{MinApprovalSamples: 50, MinCommissionSamples: 30})
	aErr, cErr := suite.Retrain(trainingSales(120, "CC10001", 2, 1800), nil)
	require.NoError(t, aErr)
	require.NoError(t, cErr)

	out := suite.Evaluate(goodCustomer(), testCard())
	assert.True(t, out.PredictionAssisted)
	assert.Greater(t, out.ExpectedCommission, 0.0)
}

func TestTierCommissionFallback(t *testing.T) {
	assert.Equal(t, 3000.0, tierCommission(&models.Card{Type: models.CardTypePlatinum}))
	assert.Equal(t, 2000.0, tierCommission(&models.Card{Type: models.CardTypeTravel}))
	assert.Equal(t, 1000.0, tierCommission(&models.Card{Type: models.CardTypeStudent}))
}
