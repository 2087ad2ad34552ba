package predict

import (
	"fmt"
	"sync"

	"github.com/cardwise/coach_api/internal/metrics"
	"github.com/cardwise/coach_api/internal/models"
)

// CommissionModel predicts the commission an approved application would
// earn: the card's observed average commission, nudged by how far the
// customer's income clears the card's threshold. Results are never
// negative.
type CommissionModel struct {
	mu         sync.RWMutex
	minSamples int
	cardAvg    map[string]float64
	networkAvg float64
	trained    bool
}

// NewCommissionModel creates an untrained model requiring minSamples
// approved sales before it can train.
func NewCommissionModel(minSamples int) *CommissionModel {
	return &CommissionModel{minSamples: minSamples}
}

// Train computes per-card average commissions over approved sales.
// Returns ErrModelUnavailable when there are not enough approved samples;
// previous training, if any, is kept in that case.
func (m *CommissionModel) Train(sales []models.Sale, _ map[string]*models.Card) error {
	approved := 0
	for i := range sales {
		if sales[i].Approved() {
			approved++
		}
	}
	if approved < m.minSamples {
		return fmt.Errorf("%w: need %d approved sales to train commission model, have %d",
			ErrModelUnavailable, m.minSamples, approved)
	}

	avgs := make(map[string]float64)
	for _, agg := range metrics.Group(sales, metrics.ByCard) {
		if agg.Approved > 0 {
			avgs[agg.Key] = agg.AvgCommission
		}
	}
	network := metrics.Summarize(sales).AvgCommission

	m.mu.Lock()
	m.cardAvg = avgs
	m.networkAvg = network
	m.trained = true
	m.mu.Unlock()
	return nil
}

// Ready reports whether the model has trained at least once.
func (m *CommissionModel) Ready() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.trained
}

// Predict returns the expected commission for the customer/card pair.
func (m *CommissionModel) Predict(customer models.CustomerProfile, card *models.Card) (float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.trained {
		return 0, fmt.Errorf("%w: commission model not trained", ErrModelUnavailable)
	}

	base, ok := m.cardAvg[card.CardID]
	if !ok || base <= 0 {
		base = m.networkAvg
	}
	if base <= 0 {
		base = tierCommission(card)
	}

	// Customers well above the income threshold tend to take higher
	// limits, which pays slightly better.
	adjusted := base * (0.9 + 0.2*incomeFactor(customer.Income, card.MinIncome))
	if adjusted < 0 {
		adjusted = 0
	}
	return adjusted, nil
}
