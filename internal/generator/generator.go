// Package generator produces the synthetic dataset: agents, a card
// catalog, and a sales history. Generation is deterministic for a given
// seed so test fixtures and reseeded environments are reproducible.
package generator

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/cardwise/coach_api/internal/models"
)

// Config controls dataset sizes and the random seed.
type Config struct {
	Agents int   `json:"agents"`
	Cards  int   `json:"cards"`
	Sales  int   `json:"sales"`
	Seed   int64 `json:"seed"`
}

// DefaultConfig matches the standard simulation size.
var DefaultConfig = Config{
	Agents: 50,
	Cards:  20,
	Sales:  2000,
	Seed:   42,
}

// Dataset is a fully generated in-memory dataset ready to persist.
type Dataset struct {
	Agents []models.Agent
	Cards  []models.Card
	Sales  []models.Sale
}

var firstNames = []string{
	"Rajesh", "Priya", "Amit", "Sneha", "Vikram", "Anita", "Suresh", "Kavita",
	"Arjun", "Deepa", "Manoj", "Pooja", "Ravi", "Neha", "Sanjay", "Meera",
	"Kiran", "Anil", "Swati", "Rohit",
}

var lastNames = []string{
	"Sharma", "Patel", "Singh", "Kumar", "Reddy", "Nair", "Iyer", "Gupta",
	"Joshi", "Desai", "Mehta", "Verma", "Rao", "Pillai", "Chopra", "Malhotra",
}

var languages = []string{"Hindi", "English", "Tamil", "Telugu", "Bengali", "Marathi", "Gujarati", "Kannada"}

var issuers = []string{"HDFC Bank", "ICICI Bank", "SBI Card", "Axis Bank", "Kotak Mahindra", "IndusInd Bank"}

var cardTypes = []string{
	models.CardTypeBasic, models.CardTypeStudent, models.CardTypeCashback,
	models.CardTypeRewards, models.CardTypeGold, models.CardTypeTravel,
	models.CardTypePlatinum, models.CardTypeBusiness, models.CardTypePremium,
}

var cardNameAdjectives = []string{
	"Everyday", "Smart", "Elite", "Prime", "Royal", "Classic", "Signature",
	"Advantage", "Select", "Infinite", "Freedom", "Horizon",
}

var benefitsPool = []string{
	"Airport lounge access",
	"Fuel surcharge waiver",
	"1% cashback on all spends",
	"5% cashback on groceries",
	"Complimentary travel insurance",
	"Reward points on dining",
	"Movie ticket discounts",
	"Zero liability on lost card",
	"EMI conversion on large purchases",
	"Welcome bonus points",
	"Milestone rewards",
	"Golf course access",
	"Concierge services",
	"International transaction fee waiver",
	"Extended warranty on electronics",
	"Buy one get one movie offers",
	"Accelerated rewards on online shopping",
	"Annual fee waiver on spend target",
	"Priority customer service",
	"Railway lounge access",
	"Health checkup vouchers",
	"Dining privileges at partner restaurants",
	"Free add-on cards",
	"Contactless payments",
	"Low foreign exchange markup",
}

// Generate builds a dataset per the config. A zero or negative seed falls
// back to the current time so ad hoc runs vary.
func Generate(cfg Config) *Dataset {
	if cfg.Agents <= 0 {
		cfg.Agents = DefaultConfig.Agents
	}
	if cfg.Cards <= 0 {
		cfg.Cards = DefaultConfig.Cards
	}
	if cfg.Sales <= 0 {
		cfg.Sales = DefaultConfig.Sales
	}
	seed := cfg.Seed
	if seed <= 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	ds := &Dataset{
		Agents: generateAgents(rng, cfg.Agents),
		Cards:  generateCards(rng, cfg.Cards),
	}
	ds.Sales = generateSales(rng, cfg.Sales, ds.Agents, ds.Cards)
	return ds
}

func generateAgents(rng *rand.Rand, n int) []models.Agent {
	agents := make([]models.Agent, 0, n)
	for i := 0; i < n; i++ {
		name := firstNames[rng.Intn(len(firstNames))] + " " + lastNames[rng.Intn(len(lastNames))]
		id := fmt.Sprintf("AG1%03d", i+1)
		agents = append(agents, models.Agent{
			AgentID:         id,
			Name:            name,
			Email:           fmt.Sprintf("%s@cardwise.example", id),
			Phone:           fmt.Sprintf("+91%010d", 7000000000+rng.Int63n(2999999999)),
			City:            models.AgentCities[rng.Intn(len(models.AgentCities))],
			Language:        languages[rng.Intn(len(languages))],
			ExperienceYears: rng.Intn(15) + 1,
			Specialization:  cardTypes[rng.Intn(len(cardTypes))],
			JoiningDate:     time.Now().AddDate(0, 0, -rng.Intn(1460)).UTC().Truncate(24 * time.Hour),
			Rating:          3.0 + rng.Float64()*2.0,
			IsActive:        true,
		})
	}
	return agents
}

func generateCards(rng *rand.Rand, n int) []models.Card {
	cards := make([]models.Card, 0, n)
	for i := 0; i < n; i++ {
		cardType := cardTypes[rng.Intn(len(cardTypes))]
		name := fmt.Sprintf("%s %s %s",
			issuers[rng.Intn(len(issuers))],
			cardNameAdjectives[rng.Intn(len(cardNameAdjectives))],
			cardType,
		)

		card := models.Card{
			CardID:       fmt.Sprintf("CC1%04d", i+1),
			Name:         name,
			Issuer:       issuers[rng.Intn(len(issuers))],
			Type:         cardType,
			InterestRate: 24 + rng.Float64()*18, // 24-42% APR
			RewardRate:   fmt.Sprintf("%.1f%% rewards on spends", 0.5+rng.Float64()*4.5),
		}

		switch {
		case card.PremiumTier():
			card.JoiningFee = float64(rng.Intn(5000))
			card.AnnualFee = float64(999 + rng.Intn(9001))
			card.MinIncome = float64(600000 + rng.Intn(900001))
			card.CreditLimitMin = 300000
			card.CreditLimitMax = float64(500000 + rng.Intn(1500001))
		case card.MidTier():
			card.JoiningFee = float64(rng.Intn(2000))
			card.AnnualFee = float64(499 + rng.Intn(2501))
			card.MinIncome = float64(300000 + rng.Intn(300001))
			card.CreditLimitMin = 100000
			card.CreditLimitMax = float64(200000 + rng.Intn(400001))
		default:
			card.JoiningFee = float64(rng.Intn(500))
			card.AnnualFee = float64(rng.Intn(1000))
			card.MinIncome = float64(150000 + rng.Intn(150001))
			card.CreditLimitMin = 25000
			card.CreditLimitMax = float64(50000 + rng.Intn(150001))
		}
		card.Eligibility = fmt.Sprintf("Income > ₹%.0f per annum", card.MinIncome)

		nBenefits := 3 + rng.Intn(3)
		perm := rng.Perm(len(benefitsPool))
		for _, idx := range perm[:nBenefits] {
			card.Benefits = append(card.Benefits, benefitsPool[idx])
		}

		cards = append(cards, card)
	}
	return cards
}

func generateSales(rng *rand.Rand, n int, agents []models.Agent, cards []models.Card) []models.Sale {
	now := time.Now().UTC()
	sales := make([]models.Sale, 0, n)

	for i := 0; i < n; i++ {
		agent := agents[rng.Intn(len(agents))]
		card := cards[rng.Intn(len(cards))]

		// Income sampled around the card's threshold: most applicants
		// qualify, some do not.
		incomeMultiplier := 0.7 + rng.Float64()*1.8
		income := card.MinIncome * incomeMultiplier

		customer := models.CustomerProfile{
			Age:            21 + rng.Intn(44),
			Income:         income,
			EmploymentType: models.EmploymentTypes[rng.Intn(len(models.EmploymentTypes))],
			CreditScore:    550 + rng.Intn(301),
		}

		// Approval odds rise with how far income clears the threshold.
		successProb := 0.5 + (incomeMultiplier-1)/4
		if successProb < 0.1 {
			successProb = 0.1
		}
		if successProb > 0.9 {
			successProb = 0.9
		}

		sale := models.Sale{
			SaleID:                 fmt.Sprintf("S1%05d", i+1),
			AgentID:                agent.AgentID,
			CardID:                 card.CardID,
			City:                   agent.City,
			CustomerAge:            customer.Age,
			CustomerIncome:         customer.Income,
			CustomerEmploymentType: customer.EmploymentType,
			CustomerCreditScore:    customer.CreditScore,
			SaleDate:               now.AddDate(0, 0, -rng.Intn(365)).Truncate(24 * time.Hour),
		}

		switch {
		case rng.Float64() < 0.05:
			sale.Status = models.SaleStatusPending
		case rng.Float64() < successProb:
			sale.Status = models.SaleStatusApproved
			base := tierBaseCommission(&card)
			commission := base + float64(rng.Intn(1001)) - 500
			if commission < 500 {
				commission = 500
			}
			sale.Commission = commission
		default:
			sale.Status = models.SaleStatusRejected
			reason := models.RejectionReasons[rng.Intn(len(models.RejectionReasons))]
			sale.RejectionReason = &reason
		}

		sales = append(sales, sale)
	}
	return sales
}

func tierBaseCommission(card *models.Card) float64 {
	switch {
	case card.PremiumTier():
		return 2500 + float64(int(card.AnnualFee)%2501)
	case card.MidTier():
		return 1500
	default:
		return 800
	}
}
