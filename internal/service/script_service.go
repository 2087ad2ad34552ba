package service

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/cardwise/coach_api/internal/models"
	"github.com/cardwise/coach_api/internal/utils"
)

// ScriptService generates sales scripts and objection-handling guides
// from card details and observed rejection history.
type ScriptService struct {
	cards  CardStore
	agents AgentStore
	sales  SaleStore
}

// NewScriptService constructs a ScriptService.
func NewScriptService(cards CardStore, agents AgentStore, sales SaleStore) *ScriptService {
	return &ScriptService{cards: cards, agents: agents, sales: sales}
}

// SalesScript is a structured pitch for one card.
type SalesScript struct {
	CardID             string      `json:"card_id"`
	CardName           string      `json:"card_name"`
	Introduction       string      `json:"introduction"`
	Qualification      []string    `json:"qualification"`
	BenefitsPitch      []string    `json:"benefits_pitch"`
	ObjectionHandling  []Objection `json:"objection_handling"`
	Closing            string      `json:"closing"`
	ApplicationProcess []string    `json:"application_process"`
}

// Objection pairs a customer concern with a suggested response.
type Objection struct {
	Concern   string `json:"concern"`
	Response  string `json:"response"`
	Frequency int    `json:"frequency,omitempty"`
}

// ObjectionGuide is the standalone objection-handling view for a card.
type ObjectionGuide struct {
	CardID   string      `json:"card_id"`
	CardName string      `json:"card_name"`
	Common   []Objection `json:"common"`
	Observed []Objection `json:"observed"`
}

var commonObjections = []Objection{
	{
		Concern:  "The annual fee is too high",
		Response: "The fee is offset by the welcome bonus and annual benefits. Many cards waive it entirely once you hit the spend milestone.",
	},
	{
		Concern:  "I already have a credit card",
		Response: "This card complements your existing one. Use each where it rewards best and you earn more on the same spending.",
	},
	{
		Concern:  "I am worried about overspending",
		Response: "You can set your own spending limit and alerts in the app. Used for planned expenses only, the card simply earns you rewards on money you were spending anyway.",
	},
	{
		Concern:  "The interest rate seems high",
		Response: "Interest only applies if you carry a balance. Paying the full statement every month means you never pay interest at all.",
	},
}

var benefitPitches = map[string]string{
	"Airport lounge access":               "relax before every flight without paying lounge fees",
	"Fuel surcharge waiver":               "save on every tank with the fuel surcharge waived",
	"Complimentary travel insurance":      "travel covered automatically on tickets booked with the card",
	"Reward points on dining":             "earn extra on restaurant spends you already make",
	"Movie ticket discounts":              "regular savings on movie bookings",
	"EMI conversion on large purchases":   "split big purchases into easy installments",
	"Welcome bonus points":                "a substantial points bonus just for signing up",
	"Milestone rewards":                   "bonus rewards as your annual spend crosses milestones",
	"Concierge services":                  "a personal concierge for bookings and reservations",
	"Annual fee waiver on spend target":   "the annual fee disappears once you hit the spend target",
	"Priority customer service":           "a dedicated service line with no hold queues",
	"Low foreign exchange markup":         "cheaper international spending than most cards",
}

// rejectionResponses maps observed rejection reasons to coaching advice.
var rejectionResponses = map[string]string{
	"Low credit score":                 "Pre-check the customer's credit score. Below 650, start with a secured or entry-level card.",
	"Insufficient income":              "Confirm income against the card's eligibility line before applying.",
	"Incomplete documentation":         "Walk through the document checklist with the customer before submission.",
	"Existing debt too high":           "Ask about current EMIs up front; suggest consolidating before a new application.",
	"Employment verification failed":   "Collect an employment certificate or recent payslips with the application.",
	"Address verification failed":      "Verify the address proof matches the application exactly.",
	"Previous default history":         "Check bureau history first. A defaulted customer needs 6-12 months of clean repayments.",
	"Age criteria not met":             "Confirm the applicant's age against card terms before starting.",
	"Duplicate application":            "Check whether the customer already applied for this card recently.",
}

func (s *ScriptService) getCard(cardID string) (*models.Card, error) {
	card, err := s.cards.GetByCardID(cardID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: card %s", utils.ErrNotFound, cardID)
		}
		return nil, err
	}
	return card, nil
}

// CreateScript builds a full pitch for a card, personalized with the
// agent's name and city when an agent id is supplied.
func (s *ScriptService) CreateScript(cardID, agentID string) (*SalesScript, error) {
	card, err := s.getCard(cardID)
	if err != nil {
		return nil, err
	}

	agentName := "your advisor"
	if agentID != "" {
		agent, err := s.agents.GetByAgentID(agentID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, fmt.Errorf("%w: agent %s", utils.ErrNotFound, agentID)
			}
			return nil, err
		}
		agentName = agent.Name
	}

	script := &SalesScript{
		CardID:   card.CardID,
		CardName: card.Name,
		Introduction: fmt.Sprintf(
			"Hello! I am %s, and I would like to introduce you to the %s from %s. It is one of our most popular %s cards.",
			agentName, card.Name, card.Issuer, strings.ToLower(card.Type)),
		Qualification: []string{
			fmt.Sprintf("May I ask your approximate annual income? This card requires %s.", card.Eligibility),
			"Do you currently hold any other credit cards?",
			"What do you spend most on each month: travel, shopping, dining, or fuel?",
		},
		Closing: fmt.Sprintf(
			"With a joining fee of ₹%.0f and a credit limit of up to ₹%.0f, the %s pays for itself quickly. Shall we start your application today?",
			card.JoiningFee, card.CreditLimitMax, card.Name),
		ApplicationProcess: []string{
			"Collect PAN card, address proof, and last three months of salary slips or bank statements.",
			"Fill the application together; it takes about ten minutes.",
			"Verification call within 2-3 working days.",
			"Card dispatch within 7-10 working days of approval.",
		},
	}

	for _, b := range card.Benefits {
		if pitch, ok := benefitPitches[b]; ok {
			script.BenefitsPitch = append(script.BenefitsPitch, fmt.Sprintf("%s, so you %s.", b, pitch))
		} else {
			script.BenefitsPitch = append(script.BenefitsPitch, b+".")
		}
	}

	observed, err := s.observedObjections(cardID)
	if err != nil {
		return nil, err
	}
	script.ObjectionHandling = append(observed, commonObjections...)
	if len(script.ObjectionHandling) > 5 {
		script.ObjectionHandling = script.ObjectionHandling[:5]
	}

	return script, nil
}

// ObjectionHandling returns the common objections plus those actually
// observed as rejection reasons for this card, ordered by frequency.
func (s *ScriptService) ObjectionHandling(cardID string) (*ObjectionGuide, error) {
	card, err := s.getCard(cardID)
	if err != nil {
		return nil, err
	}

	observed, err := s.observedObjections(cardID)
	if err != nil {
		return nil, err
	}

	return &ObjectionGuide{
		CardID:   card.CardID,
		CardName: card.Name,
		Common:   commonObjections,
		Observed: observed,
	}, nil
}

func (s *ScriptService) observedObjections(cardID string) ([]Objection, error) {
	sales, err := s.sales.ListByCard(cardID)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for i := range sales {
		if sales[i].Status == models.SaleStatusRejected && sales[i].RejectionReason != nil {
			counts[*sales[i].RejectionReason]++
		}
	}

	observed := make([]Objection, 0, len(counts))
	for reason, n := range counts {
		response, ok := rejectionResponses[reason]
		if !ok {
			response = "Review the rejection details with the customer and address the gap before reapplying."
		}
		observed = append(observed, Objection{Concern: reason, Response: response, Frequency: n})
	}
	sort.Slice(observed, func(i, j int) bool {
		if observed[i].Frequency != observed[j].Frequency {
			return observed[i].Frequency > observed[j].Frequency
		}
		return observed[i].Concern < observed[j].Concern
	})
	return observed, nil
}
