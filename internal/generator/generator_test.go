package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardwise/coach_api/internal/models"
)

func TestGenerateSizes(t *testing.T) {
	ds := Generate(Config{Agents: 10, Cards: 5, Sales: 200, Seed: 7})
	assert.Len(t, ds.Agents, 10)
	assert.Len(t, ds.Cards, 5)
	assert.Len(t, ds.Sales, 200)
}

func TestGenerateDefaults(t *testing.T) {
	ds := Generate(Config{Seed: 7})
	assert.Len(t, ds.Agents, DefaultConfig.Agents)
	assert.Len(t, ds.Cards, DefaultConfig.Cards)
	assert.Len(t, ds.Sales, DefaultConfig.Sales)
}

func TestGenerateDeterministicForSeed(t *testing.T) {
	a := Generate(Config{Agents: 5, Cards: 3, Sales: 50, Seed: 99})
	b := Generate(Config{Agents: 5, Cards: 3, Sales: 50, Seed: 99})
	assert.Equal(t, a.Agents, b.Agents)
	assert.Equal(t, a.Cards, b.Cards)
	assert.Equal(t, a.Sales, b.Sales)
}

func TestGeneratedSalesInvariants(t *testing.T) {
	ds := Generate(Config{Agents: 10, Cards: 5, Sales: 500, Seed: 3})

	agentIDs := make(map[string]bool)
	for _, a := range ds.Agents {
		agentIDs[a.AgentID] = true
	}
	cardIDs := make(map[string]bool)
	for _, c := range ds.Cards {
		cardIDs[c.CardID] = true
	}

	seen := make(map[string]bool)
	for _, s := range ds.Sales {
		require.False(t, seen[s.SaleID], "duplicate sale id %s", s.SaleID)
		seen[s.SaleID] = true

		assert.True(t, agentIDs[s.AgentID], "sale references unknown agent %s", s.AgentID)
		assert.True(t, cardIDs[s.CardID], "sale references unknown card %s", s.CardID)

		switch s.Status {
		case models.SaleStatusApproved:
			assert.GreaterOrEqual(t, s.Commission, 500.0)
			assert.Nil(t, s.RejectionReason)
		case models.SaleStatusRejected:
			assert.Zero(t, s.Commission)
			require.NotNil(t, s.RejectionReason)
			assert.NotEmpty(t, *s.RejectionReason)
		case models.SaleStatusPending:
			assert.Zero(t, s.Commission)
			assert.Nil(t, s.RejectionReason)
		default:
			t.Fatalf("unexpected status %q", s.Status)
		}

		assert.GreaterOrEqual(t, s.CustomerAge, 21)
		assert.LessOrEqual(t, s.CustomerAge, 65)
		assert.GreaterOrEqual(t, s.CustomerCreditScore, 550)
		assert.LessOrEqual(t, s.CustomerCreditScore, 850)
		assert.Greater(t, s.CustomerIncome, 0.0)
	}
}

func TestGeneratedCardInvariants(t *testing.T) {
	ds := Generate(Config{Agents: 5, Cards: 20, Sales: 10, Seed: 11})
	for _, c := range ds.Cards {
		assert.NotEmpty(t, c.Name)
		assert.NotEmpty(t, c.Eligibility)
		assert.Greater(t, c.MinIncome, 0.0)
		assert.GreaterOrEqual(t, len(c.Benefits), 3)
		assert.LessOrEqual(t, len(c.Benefits), 5)
		assert.Greater(t, c.CreditLimitMax, c.CreditLimitMin)
		assert.GreaterOrEqual(t, c.InterestRate, 24.0)
		assert.LessOrEqual(t, c.InterestRate, 42.0)

		if c.PremiumTier() {
			assert.GreaterOrEqual(t, c.MinIncome, 600000.0)
		}
	}
}
