package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/cardwise/coach_api/internal/cache"
	"github.com/cardwise/coach_api/internal/metrics"
	"github.com/cardwise/coach_api/internal/models"
	"github.com/cardwise/coach_api/internal/predict"
	"github.com/cardwise/coach_api/internal/scoring"
	"github.com/cardwise/coach_api/internal/utils"
)

// Recommendation tuning.
const (
	defaultRecommendLimit = 5
	minAgentHistory       = 5
	specializationBonus   = 0.2
	inexperiencePenalty   = 0.1
)

// CardService computes card analytics and agent-scoped recommendations.
type CardService struct {
	cards     CardStore
	agents    AgentStore
	sales     SaleStore
	engine    *scoring.Engine
	suite     *predict.Suite
	perfCache *cache.PerformanceCache
}

// NewCardService constructs a CardService. perfCache may be nil; card
// performance is then always computed live.
func NewCardService(cards CardStore, agents AgentStore, sales SaleStore,
	engine *scoring.Engine, suite *predict.Suite, perfCache *cache.PerformanceCache) *CardService {
	return &CardService{
		cards:     cards,
		agents:    agents,
		sales:     sales,
		engine:    engine,
		suite:     suite,
		perfCache: perfCache,
	}
}

// CardRecommendation is one ranked card with its score breakdown.
type CardRecommendation struct {
	Card               *models.Card     `json:"card"`
	Score              float64          `json:"score"`
	BaseScore          float64          `json:"base_score"`
	FitBonus           float64          `json:"fit_bonus"`
	ApprovalRate       float64          `json:"approval_rate"`
	AvgCommission      float64          `json:"avg_commission"`
	Volume             int              `json:"volume"`
	Factors            []scoring.Factor `json:"factors"`
	DominantFactor     string           `json:"dominant_factor"`
	Explanation        string           `json:"explanation"`
	PredictionAssisted bool             `json:"prediction_assisted"`
}

// RecommendationResult is the full recommendation response for an agent.
type RecommendationResult struct {
	AgentID         string               `json:"agent_id"`
	BasedOnHistory  bool                 `json:"based_on_history"`
	Recommendations []CardRecommendation `json:"recommendations"`
}

// CardComparison is the side-by-side view of selected cards.
type CardComparison struct {
	Cards       []models.Card            `json:"cards"`
	Performance []models.CardPerformance `json:"performance"`
}

// AnalyzeAllCards returns the network-wide card performance view, serving
// the cached snapshot when one is fresh.
func (s *CardService) AnalyzeAllCards(ctx context.Context) ([]models.CardPerformance, *models.NetworkStats, error) {
	if s.perfCache != nil {
		snap, err := s.perfCache.Get(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("performance cache read failed, computing live")
		} else if snap != nil {
			network := snap.Network
			return snap.Cards, &network, nil
		}
	}

	snap, err := s.ComputeSnapshot()
	if err != nil {
		return nil, nil, err
	}
	network := snap.Network
	return snap.Cards, &network, nil
}

// ComputeSnapshot recomputes card and network performance from the full
// sales history. Cards without sales appear with zero values. Also used by
// the snapshot worker to refresh the cache.
func (s *CardService) ComputeSnapshot() (*cache.PerformanceSnapshot, error) {
	cards, err := s.cards.List()
	if err != nil {
		return nil, err
	}
	sales, err := s.sales.ListAll()
	if err != nil {
		return nil, err
	}

	cardIDs := make([]string, 0, len(cards))
	byID := make(map[string]*models.Card, len(cards))
	for i := range cards {
		cardIDs = append(cardIDs, cards[i].CardID)
		byID[cards[i].CardID] = &cards[i]
	}

	aggs := metrics.ZeroFill(metrics.GroupWithMonthly(sales, metrics.ByCard), cardIDs)

	perf := make([]models.CardPerformance, 0, len(aggs))
	for _, agg := range aggs {
		card, known := byID[agg.Key]
		if !known {
			// Sale references a card missing from the catalog; skip it
			// rather than report a nameless row.
			continue
		}
		perf = append(perf, models.CardPerformance{
			CardID:          agg.Key,
			CardName:        card.Name,
			CardType:        card.Type,
			Total:           agg.Total,
			Approved:        agg.Approved,
			ApprovalRate:    agg.ApprovalRate,
			TotalCommission: agg.TotalCommission,
			AvgCommission:   agg.AvgCommission,
			Monthly:         agg.Monthly,
		})
	}

	sort.Slice(perf, func(i, j int) bool {
		if perf[i].TotalCommission != perf[j].TotalCommission {
			return perf[i].TotalCommission > perf[j].TotalCommission
		}
		return perf[i].CardID < perf[j].CardID
	})

	overall := metrics.Summarize(sales)
	return &cache.PerformanceSnapshot{
		Cards: perf,
		Network: models.NetworkStats{
			TotalSales:      overall.Total,
			ApprovalRate:    overall.ApprovalRate,
			AvgCommission:   overall.AvgCommission,
			TotalCommission: overall.TotalCommission,
		},
	}, nil
}

// RecommendCards ranks cards for an agent. Agents with enough history are
// scored on their own per-card record; new agents fall back to network
// statistics. Cards with no commission signal get an estimate from the
// commission model when it is available.
func (s *CardService) RecommendCards(agentID string, limit int) (*RecommendationResult, error) {
	agent, err := s.agents.GetByAgentID(agentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: agent %s", utils.ErrNotFound, agentID)
		}
		return nil, err
	}
	if limit <= 0 {
		limit = defaultRecommendLimit
	}

	cards, err := s.cards.List()
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*models.Card, len(cards))
	for i := range cards {
		byID[cards[i].CardID] = &cards[i]
	}

	agentSales, err := s.sales.ListByAgent(agentID)
	if err != nil {
		return nil, err
	}

	basedOnHistory := len(agentSales) >= minAgentHistory
	var scopeSales []models.Sale
	if basedOnHistory {
		scopeSales = agentSales
	} else {
		scopeSales, err = s.sales.ListAll()
		if err != nil {
			return nil, err
		}
	}

	cardIDs := make([]string, 0, len(cards))
	for i := range cards {
		cardIDs = append(cardIDs, cards[i].CardID)
	}
	aggs := metrics.ZeroFill(metrics.Group(scopeSales, metrics.ByCard), cardIDs)

	candidates := make([]scoring.Candidate, 0, len(aggs))
	assisted := make(map[string]bool)
	for _, agg := range aggs {
		card, known := byID[agg.Key]
		if !known {
			continue
		}
		cand := scoring.Candidate{
			ID:            agg.Key,
			ApprovalRate:  agg.ApprovalRate,
			AvgCommission: agg.AvgCommission,
			Volume:        agg.Total,
		}
		if agg.Approved == 0 && s.suite != nil {
			// No observed commission for this card: let the model fill in
			// an estimate for a typical qualifying customer. Unavailable
			// models leave the zero and the flag stays false.
			typical := typicalCustomer(card)
			if est, err := s.suite.Commission.Predict(typical, card); err == nil {
				cand.AvgCommission = est
				assisted[agg.Key] = true
			}
		}
		candidates = append(candidates, cand)
	}

	ranked := s.engine.Rank(candidates)

	recs := make([]CardRecommendation, 0, len(ranked))
	for _, r := range ranked {
		card := byID[r.ID]
		bonus := fitBonus(agent, card)
		recs = append(recs, CardRecommendation{
			Card:               card,
			Score:              r.Score + bonus,
			BaseScore:          r.Score,
			FitBonus:           bonus,
			ApprovalRate:       r.ApprovalRate,
			AvgCommission:      r.AvgCommission,
			Volume:             r.Volume,
			Factors:            r.Factors,
			DominantFactor:     r.DominantFactor,
			Explanation:        r.Explanation,
			PredictionAssisted: assisted[r.ID],
		})
	}

	// The fit bonus can reorder; re-sort keeping the engine's tie-break
	// order for equal adjusted scores.
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Score > recs[j].Score
	})

	if len(recs) > limit {
		recs = recs[:limit]
	}

	return &RecommendationResult{
		AgentID:         agentID,
		BasedOnHistory:  basedOnHistory,
		Recommendations: recs,
	}, nil
}

// CompareCards builds a side-by-side comparison. At least two known card
// identifiers are required.
func (s *CardService) CompareCards(cardIDs []string) (*CardComparison, error) {
	if len(cardIDs) < 2 {
		return nil, fmt.Errorf("%w: at least two card ids are required", utils.ErrInvalidInput)
	}

	cards, err := s.cards.ListByIDs(cardIDs)
	if err != nil {
		return nil, err
	}
	if len(cards) != len(uniqueStrings(cardIDs)) {
		return nil, fmt.Errorf("%w: one or more card ids are unknown", utils.ErrNotFound)
	}

	perf := make([]models.CardPerformance, 0, len(cards))
	for i := range cards {
		sales, err := s.sales.ListByCard(cards[i].CardID)
		if err != nil {
			return nil, err
		}
		agg := metrics.Summarize(sales)
		perf = append(perf, models.CardPerformance{
			CardID:          cards[i].CardID,
			CardName:        cards[i].Name,
			CardType:        cards[i].Type,
			Total:           agg.Total,
			Approved:        agg.Approved,
			ApprovalRate:    agg.ApprovalRate,
			TotalCommission: agg.TotalCommission,
			AvgCommission:   agg.AvgCommission,
		})
	}

	return &CardComparison{Cards: cards, Performance: perf}, nil
}

// fitBonus adjusts a card's score for the specific agent: specialization
// match helps, pushing premium cards with little field experience hurts.
func fitBonus(agent *models.Agent, card *models.Card) float64 {
	bonus := 0.0
	if agent.Specialization == card.Type {
		bonus += specializationBonus
	}
	if card.PremiumTier() && agent.ExperienceYears < 2 {
		bonus -= inexperiencePenalty
	}
	return bonus
}

// typicalCustomer is the profile used when a model needs a representative
// applicant for a card.
func typicalCustomer(card *models.Card) models.CustomerProfile {
	return models.CustomerProfile{
		Age:            35,
		Income:         card.MinIncome * 1.5,
		EmploymentType: "Salaried",
		CreditScore:    720,
	}
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
