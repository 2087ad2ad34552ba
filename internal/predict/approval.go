package predict

import (
	"fmt"
	"sync"

	"github.com/cardwise/coach_api/internal/metrics"
	"github.com/cardwise/coach_api/internal/models"
)

// ApprovalModel predicts the probability that a customer's application for
// a card is approved. It blends the card's observed network approval rate
// with customer attribute factors:
//
//	income ratio 0.4, credit score 0.3, employment fit 0.2, age fit 0.1
//
// Results are always within [0.05, 0.95].
type ApprovalModel struct {
	mu          sync.RWMutex
	minSamples  int
	cardRates   map[string]float64
	networkRate float64
	trained     bool
}

// NewApprovalModel creates an untrained model requiring minSamples sales
// before it can train.
func NewApprovalModel(minSamples int) *ApprovalModel {
	return &ApprovalModel{minSamples: minSamples}
}

// Train computes per-card and network approval rates from the sales.
// Returns ErrModelUnavailable when there are not enough samples; previous
// training, if any, is kept in that case.
func (m *ApprovalModel) Train(sales []models.Sale, _ map[string]*models.Card) error {
	if len(sales) < m.minSamples {
		return fmt.Errorf("%w: need %d sales to train approval model, have %d",
			ErrModelUnavailable, m.minSamples, len(sales))
	}

	rates := make(map[string]float64)
	for _, agg := range metrics.Group(sales, metrics.ByCard) {
		rates[agg.Key] = agg.ApprovalRate
	}
	network := metrics.Summarize(sales).ApprovalRate

	m.mu.Lock()
	m.cardRates = rates
	m.networkRate = network
	m.trained = true
	m.mu.Unlock()
	return nil
}

// Ready reports whether the model has trained at least once.
func (m *ApprovalModel) Ready() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.trained
}

// Predict returns the approval probability for the customer/card pair.
func (m *ApprovalModel) Predict(customer models.CustomerProfile, card *models.Card) (float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.trained {
		return 0, fmt.Errorf("%w: approval model not trained", ErrModelUnavailable)
	}

	cardRate, ok := m.cardRates[card.CardID]
	if !ok {
		// No history for this card yet: lean on the network rate.
		cardRate = m.networkRate
	}

	customerScore := incomeFactor(customer.Income, card.MinIncome)*0.4 +
		creditFactor(customer.CreditScore)*0.3 +
		employmentFactor(customer.EmploymentType)*0.2 +
		ageFactor(customer.Age)*0.1

	p := 0.5*cardRate + 0.5*customerScore
	return clamp(p, 0.05, 0.95), nil
}
