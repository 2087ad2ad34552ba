// Package predict provides approval and commission predictions for a
// customer/card pair. Models train from stored sales and may be
// unavailable; callers fall back to heuristics and flag the result.
package predict

import (
	"github.com/cardwise/coach_api/internal/config"
	"github.com/cardwise/coach_api/internal/models"
	"github.com/cardwise/coach_api/internal/utils"
)

// ErrModelUnavailable signals that a model is untrained or broken. Callers
// must degrade to statistics-only behavior, never surface this as a
// request failure.
var ErrModelUnavailable = utils.ErrModelUnavailable

// Model predicts a single value for a customer applying to a card.
// Implementations are safe for concurrent Predict and Train calls.
type Model interface {
	Train(sales []models.Sale, cards map[string]*models.Card) error
	Predict(customer models.CustomerProfile, card *models.Card) (float64, error)
	Ready() bool
}

// Outcome is a combined prediction for one customer/card pair.
// PredictionAssisted is false when any model was unavailable and a
// heuristic filled in.
type Outcome struct {
	Probability        float64  `json:"success_probability"`
	ExpectedCommission float64  `json:"expected_commission"`
	PredictionAssisted bool     `json:"prediction_assisted"`
	KeyFactors         []string `json:"key_factors"`
}

// Suite bundles both models behind one retrain/evaluate surface.
type Suite struct {
	Approval   *ApprovalModel
	Commission *CommissionModel
}

// NewSuite builds an untrained suite with the configured sample thresholds.
func NewSuite(cfg config.PredictConfig) *Suite {
	return &Suite{
		Approval:   NewApprovalModel(cfg.MinApprovalSamples),
		Commission: NewCommissionModel(cfg.MinCommissionSamples),
	}
}

// Retrain trains both models from the given sales. A model that cannot
// train (not enough samples) simply stays unready; evaluation then uses
// the fallback path.
func (s *Suite) Retrain(sales []models.Sale, cards map[string]*models.Card) (approvalErr, commissionErr error) {
	approvalErr = s.Approval.Train(sales, cards)
	commissionErr = s.Commission.Train(sales, cards)
	return approvalErr, commissionErr
}

// Evaluate predicts approval probability and expected commission for a
// customer/card pair, degrading per-model to heuristics when unavailable.
func (s *Suite) Evaluate(customer models.CustomerProfile, card *models.Card) Outcome {
	assisted := true

	prob, err := s.Approval.Predict(customer, card)
	if err != nil {
		prob = fallbackProbability(customer, card)
		assisted = false
	}

	commission, err := s.Commission.Predict(customer, card)
	if err != nil {
		commission = tierCommission(card)
		assisted = false
	}

	return Outcome{
		Probability:        prob,
		ExpectedCommission: commission,
		PredictionAssisted: assisted,
		KeyFactors:         KeyFactors(customer, card),
	}
}

// KeyFactors lists the customer attributes that move the prediction, in
// plain language for the agent.
func KeyFactors(customer models.CustomerProfile, card *models.Card) []string {
	var factors []string

	switch {
	case card.MinIncome > 0 && customer.Income >= 2*card.MinIncome:
		factors = append(factors, "Income comfortably above eligibility threshold")
	case card.MinIncome > 0 && customer.Income >= card.MinIncome:
		factors = append(factors, "Income meets eligibility threshold")
	default:
		factors = append(factors, "Income below eligibility threshold")
	}

	switch {
	case customer.CreditScore >= 750:
		factors = append(factors, "Excellent credit score")
	case customer.CreditScore >= 650:
		factors = append(factors, "Good credit score")
	default:
		factors = append(factors, "Low credit score may reduce approval chances")
	}

	if employmentFactor(customer.EmploymentType) >= 0.8 {
		factors = append(factors, "Stable employment profile")
	}
	if ageFactor(customer.Age) >= 1.0 {
		factors = append(factors, "Age within preferred applicant range")
	}

	return factors
}

// fallbackProbability is the statistics-free heuristic used when the
// approval model is unavailable. Bounded to [0.1, 0.9].
func fallbackProbability(customer models.CustomerProfile, card *models.Card) float64 {
	p := 0.3 +
		creditFactor(customer.CreditScore)*0.3 +
		incomeFactor(customer.Income, card.MinIncome)*0.3 +
		ageFactor(customer.Age)*0.1
	return clamp(p, 0.1, 0.9)
}

// tierCommission is the commission fallback by card tier.
func tierCommission(card *models.Card) float64 {
	switch {
	case card.PremiumTier():
		return 3000
	case card.MidTier():
		return 2000
	default:
		return 1000
	}
}

func incomeFactor(income, minIncome float64) float64 {
	if minIncome <= 0 {
		minIncome = 1
	}
	ratio := income / minIncome
	if ratio > 2 {
		ratio = 2
	}
	return clamp(ratio/2, 0, 1)
}

func creditFactor(score int) float64 {
	return clamp(float64(score-600)/300.0, 0, 1)
}

func employmentFactor(employmentType string) float64 {
	switch employmentType {
	case "Salaried", "Government Employee":
		return 1.0
	case "Business Owner", "Professional":
		return 0.8
	case "Self-Employed":
		return 0.7
	default:
		return 0.5
	}
}

func ageFactor(age int) float64 {
	switch {
	case age >= 25 && age <= 55:
		return 1.0
	case age >= 21 && age <= 60:
		return 0.7
	default:
		return 0.4
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
