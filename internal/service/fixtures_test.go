package service

import (
	"database/sql"
	"time"

	"github.com/cardwise/coach_api/internal/models"
)

// In-memory stores backing service tests.

type fakeAgents struct {
	agents []models.Agent
}

func (f *fakeAgents) GetByAgentID(agentID string) (*models.Agent, error) {
	for i := range f.agents {
		if f.agents[i].AgentID == agentID {
			return &f.agents[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeAgents) List() ([]models.Agent, error) {
	return f.agents, nil
}

type fakeCards struct {
	cards []models.Card
}

func (f *fakeCards) GetByCardID(cardID string) (*models.Card, error) {
	for i := range f.cards {
		if f.cards[i].CardID == cardID {
			return &f.cards[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeCards) List() ([]models.Card, error) {
	return f.cards, nil
}

func (f *fakeCards) ListByIDs(cardIDs []string) ([]models.Card, error) {
	want := make(map[string]bool, len(cardIDs))
	for _, id := range cardIDs {
		want[id] = true
	}
	var out []models.Card
	for i := range f.cards {
		if want[f.cards[i].CardID] {
			out = append(out, f.cards[i])
		}
	}
	return out, nil
}

type fakeSales struct {
	sales []models.Sale
}

func (f *fakeSales) ListAll() ([]models.Sale, error) {
	return f.sales, nil
}

func (f *fakeSales) ListByAgent(agentID string) ([]models.Sale, error) {
	var out []models.Sale
	for i := range f.sales {
		if f.sales[i].AgentID == agentID {
			out = append(out, f.sales[i])
		}
	}
	return out, nil
}

func (f *fakeSales) ListByCard(cardID string) ([]models.Sale, error) {
	var out []models.Sale
	for i := range f.sales {
		if f.sales[i].CardID == cardID {
			out = append(out, f.sales[i])
		}
	}
	return out, nil
}

func testAgent(id string) models.Agent {
	return models.Agent{
		AgentID:         id,
		Name:            "Priya Sharma",
		City:            "Mumbai",
		Specialization:  models.CardTypeTravel,
		ExperienceYears: 4,
		Rating:          4.2,
		IsActive:        true,
	}
}

func testCard(id, name, cardType string, minIncome float64) models.Card {
	return models.Card{
		CardID:         id,
		Name:           name,
		Issuer:         "HDFC Bank",
		Type:           cardType,
		Benefits:       []string{"Fuel surcharge waiver", "Welcome bonus points"},
		Eligibility:    "Minimum annual income of ₹500,000",
		MinIncome:      minIncome,
		JoiningFee:     1000,
		AnnualFee:      1000,
		InterestRate:   36,
		CreditLimitMin: 50000,
		CreditLimitMax: 300000,
		RewardRate:     "2 points per ₹100",
	}
}

func testSale(agent, card, status string, commission float64, date string) models.Sale {
	d, _ := time.Parse("2006-01-02", date)
	sale := models.Sale{
		AgentID:                agent,
		CardID:                 card,
		City:                   "Mumbai",
		CustomerAge:            34,
		CustomerIncome:         800000,
		CustomerEmploymentType: "Salaried",
		CustomerCreditScore:    730,
		Status:                 status,
		Commission:             commission,
		SaleDate:               d,
	}
	if status == models.SaleStatusRejected {
		reason := "Low credit score"
		sale.RejectionReason = &reason
	}
	return sale
}
