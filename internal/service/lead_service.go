package service

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/cardwise/coach_api/internal/metrics"
	"github.com/cardwise/coach_api/internal/models"
	"github.com/cardwise/coach_api/internal/predict"
	"github.com/cardwise/coach_api/internal/utils"
)

// Lead recommendation tuning.
const (
	defaultLeadLimit   = 5
	minLeadProbability = 0.4
	leadCardCount      = 3
)

// LeadService recommends prospects and predicts application success.
type LeadService struct {
	cards  CardStore
	agents AgentStore
	sales  SaleStore
	suite  *predict.Suite
}

// NewLeadService constructs a LeadService.
func NewLeadService(cards CardStore, agents AgentStore, sales SaleStore, suite *predict.Suite) *LeadService {
	return &LeadService{cards: cards, agents: agents, sales: sales, suite: suite}
}

// LeadRecommendation is one synthesized prospect matched to a card.
type LeadRecommendation struct {
	Card               *models.Card           `json:"card"`
	Customer           models.CustomerProfile `json:"customer"`
	ProfileLabel       string                 `json:"profile_label"`
	SuccessProbability float64                `json:"success_probability"`
	ExpectedCommission float64                `json:"expected_commission"`
	PredictionAssisted bool                   `json:"prediction_assisted"`
	KeyFactors         []string               `json:"key_factors"`
}

// SuccessPrediction is the response for a single customer/card check.
type SuccessPrediction struct {
	CardID             string   `json:"card_id"`
	SuccessProbability float64  `json:"success_probability"`
	ExpectedCommission float64  `json:"expected_commission"`
	PredictionAssisted bool     `json:"prediction_assisted"`
	KeyFactors         []string `json:"key_factors"`
	Recommendation     string   `json:"recommendation"`
}

// PredictSuccess evaluates one customer against one card. Unknown cards
// are NotFound; invalid customer attributes are InvalidInput. Model
// unavailability never fails the call.
func (s *LeadService) PredictSuccess(customer models.CustomerProfile, cardID string) (*SuccessPrediction, error) {
	if err := validateCustomer(customer); err != nil {
		return nil, err
	}

	card, err := s.cards.GetByCardID(cardID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: card %s", utils.ErrNotFound, cardID)
		}
		return nil, err
	}

	outcome := s.suite.Evaluate(customer, card)
	return &SuccessPrediction{
		CardID:             cardID,
		SuccessProbability: outcome.Probability,
		ExpectedCommission: outcome.ExpectedCommission,
		PredictionAssisted: outcome.PredictionAssisted,
		KeyFactors:         outcome.KeyFactors,
		Recommendation:     adviseOnProbability(outcome.Probability),
	}, nil
}

// RecommendLeads synthesizes prospect profiles for the agent's strongest
// cards, keeps those with a workable success probability, and ranks them
// by expected commission then probability.
func (s *LeadService) RecommendLeads(agentID string, limit int) ([]LeadRecommendation, error) {
	if _, err := s.agents.GetByAgentID(agentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: agent %s", utils.ErrNotFound, agentID)
		}
		return nil, err
	}
	if limit <= 0 {
		limit = defaultLeadLimit
	}

	cards, err := s.strongestCards(agentID)
	if err != nil {
		return nil, err
	}

	recs := make([]LeadRecommendation, 0, len(cards)*3)
	for i := range cards {
		card := &cards[i]
		for _, p := range prospectProfiles(card) {
			outcome := s.suite.Evaluate(p.customer, card)
			if outcome.Probability < minLeadProbability {
				continue
			}
			recs = append(recs, LeadRecommendation{
				Card:               card,
				Customer:           p.customer,
				ProfileLabel:       p.label,
				SuccessProbability: outcome.Probability,
				ExpectedCommission: outcome.ExpectedCommission,
				PredictionAssisted: outcome.PredictionAssisted,
				KeyFactors:         outcome.KeyFactors,
			})
		}
	}

	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].ExpectedCommission != recs[j].ExpectedCommission {
			return recs[i].ExpectedCommission > recs[j].ExpectedCommission
		}
		return recs[i].SuccessProbability > recs[j].SuccessProbability
	})

	if len(recs) > limit {
		recs = recs[:limit]
	}
	return recs, nil
}

// strongestCards picks the cards to prospect for: the agent's best by
// approval rate when history exists, otherwise the catalog's first cards.
func (s *LeadService) strongestCards(agentID string) ([]models.Card, error) {
	agentSales, err := s.sales.ListByAgent(agentID)
	if err != nil {
		return nil, err
	}

	if len(agentSales) > 0 {
		aggs := metrics.Group(agentSales, metrics.ByCard)
		sort.Slice(aggs, func(i, j int) bool {
			if aggs[i].ApprovalRate != aggs[j].ApprovalRate {
				return aggs[i].ApprovalRate > aggs[j].ApprovalRate
			}
			return aggs[i].Key < aggs[j].Key
		})
		ids := make([]string, 0, leadCardCount)
		for _, agg := range aggs {
			ids = append(ids, agg.Key)
			if len(ids) == leadCardCount {
				break
			}
		}
		return s.cards.ListByIDs(ids)
	}

	all, err := s.cards.List()
	if err != nil {
		return nil, err
	}
	if len(all) > leadCardCount {
		all = all[:leadCardCount]
	}
	return all, nil
}

type prospect struct {
	label    string
	customer models.CustomerProfile
}

// prospectProfiles builds three representative applicants around the
// card's income threshold. Deterministic so recommendations are stable.
func prospectProfiles(card *models.Card) []prospect {
	return []prospect{
		{
			label: "Qualifying salaried professional",
			customer: models.CustomerProfile{
				Age:            32,
				Income:         card.MinIncome * 1.3,
				EmploymentType: "Salaried",
				CreditScore:    710,
			},
		},
		{
			label: "Affluent business owner",
			customer: models.CustomerProfile{
				Age:            42,
				Income:         card.MinIncome * 2.0,
				EmploymentType: "Business Owner",
				CreditScore:    770,
			},
		},
		{
			label: "Young professional building credit",
			customer: models.CustomerProfile{
				Age:            26,
				Income:         card.MinIncome * 1.1,
				EmploymentType: "Professional",
				CreditScore:    660,
			},
		},
	}
}

func validateCustomer(c models.CustomerProfile) error {
	if c.Age <= 0 {
		return fmt.Errorf("%w: age must be positive", utils.ErrInvalidInput)
	}
	if c.Income <= 0 {
		return fmt.Errorf("%w: income must be positive", utils.ErrInvalidInput)
	}
	if c.CreditScore < 300 || c.CreditScore > 900 {
		return fmt.Errorf("%w: credit score must be between 300 and 900", utils.ErrInvalidInput)
	}
	if c.EmploymentType == "" {
		return fmt.Errorf("%w: employment type is required", utils.ErrInvalidInput)
	}
	return nil
}

func adviseOnProbability(p float64) string {
	switch {
	case p >= 0.7:
		return "Excellent prospect. Proceed with the application."
	case p >= 0.5:
		return "Good prospect. Verify documentation before applying."
	case p >= 0.3:
		return "Moderate prospect. Consider a card with lower eligibility requirements."
	default:
		return "Weak prospect. Recommend an entry-level card instead."
	}
}
