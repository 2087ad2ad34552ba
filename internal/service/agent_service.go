package service

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/cardwise/coach_api/internal/metrics"
	"github.com/cardwise/coach_api/internal/models"
	"github.com/cardwise/coach_api/internal/utils"
)

// Thresholds for benchmarking an agent against the network.
const (
	insightRateMargin       = 0.05
	insightCommissionMargin = 200.0
	insightConcentration    = 0.7
	insightMinCardSales     = 3
)

// AgentService computes per-agent performance views and coaching insights.
type AgentService struct {
	agents AgentStore
	cards  CardStore
	sales  SaleStore
}

// NewAgentService constructs an AgentService.
func NewAgentService(agents AgentStore, cards CardStore, sales SaleStore) *AgentService {
	return &AgentService{agents: agents, cards: cards, sales: sales}
}

// AgentInsights is the coaching summary for one agent.
type AgentInsights struct {
	AgentID         string   `json:"agent_id"`
	Strengths       []string `json:"strengths"`
	Improvements    []string `json:"improvements"`
	Recommendations []string `json:"recommendations"`
}

// AgentDashboard bundles everything the agent-facing dashboard shows.
// Monthly series are data only; rendering happens client-side.
type AgentDashboard struct {
	Agent       *models.Agent            `json:"agent"`
	Performance *models.AgentPerformance `json:"performance"`
	Insights    *AgentInsights           `json:"insights"`
}

func (s *AgentService) getAgent(agentID string) (*models.Agent, error) {
	agent, err := s.agents.GetByAgentID(agentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: agent %s", utils.ErrNotFound, agentID)
		}
		return nil, err
	}
	return agent, nil
}

// AnalyzePerformance derives the full performance view for an agent.
// Unknown agents are a NotFound error; a known agent with no sales gets an
// all-zero view.
func (s *AgentService) AnalyzePerformance(agentID string) (*models.AgentPerformance, error) {
	if _, err := s.getAgent(agentID); err != nil {
		return nil, err
	}

	sales, err := s.sales.ListByAgent(agentID)
	if err != nil {
		return nil, err
	}

	cardNames, err := s.cardNames()
	if err != nil {
		return nil, err
	}

	overall := metrics.Summarize(sales)
	perf := &models.AgentPerformance{
		AgentID:         agentID,
		Total:           overall.Total,
		Approved:        overall.Approved,
		ApprovalRate:    overall.ApprovalRate,
		TotalCommission: overall.TotalCommission,
		AvgCommission:   overall.AvgCommission,
		ByCard:          []models.CardBreakdown{},
		Monthly:         metrics.MonthlyBuckets(sales),
		BySegment:       []models.SegmentPerformance{},
	}

	for _, agg := range metrics.Group(sales, metrics.ByCard) {
		perf.ByCard = append(perf.ByCard, models.CardBreakdown{
			CardID:          agg.Key,
			CardName:        cardNames[agg.Key],
			Total:           agg.Total,
			Approved:        agg.Approved,
			ApprovalRate:    agg.ApprovalRate,
			TotalCommission: agg.TotalCommission,
			AvgCommission:   agg.AvgCommission,
		})
	}

	for _, agg := range metrics.Group(sales, metrics.BySegment) {
		perf.BySegment = append(perf.BySegment, models.SegmentPerformance{
			Segment:       agg.Key,
			Total:         agg.Total,
			Approved:      agg.Approved,
			ApprovalRate:  agg.ApprovalRate,
			AvgCommission: agg.AvgCommission,
		})
	}

	return perf, nil
}

// GenerateInsights benchmarks the agent against the network and produces
// strengths, improvement areas, and concrete recommendations.
func (s *AgentService) GenerateInsights(agentID string) (*AgentInsights, error) {
	if _, err := s.getAgent(agentID); err != nil {
		return nil, err
	}

	agentSales, err := s.sales.ListByAgent(agentID)
	if err != nil {
		return nil, err
	}
	allSales, err := s.sales.ListAll()
	if err != nil {
		return nil, err
	}

	insights := &AgentInsights{
		AgentID:         agentID,
		Strengths:       []string{},
		Improvements:    []string{},
		Recommendations: []string{},
	}

	if len(agentSales) == 0 {
		insights.Recommendations = append(insights.Recommendations,
			"No sales recorded yet. Start with entry-level cards to build an approval track record.")
		return insights, nil
	}

	own := metrics.Summarize(agentSales)
	network := metrics.Summarize(allSales)

	// Approval rate vs network.
	switch {
	case own.ApprovalRate >= network.ApprovalRate+insightRateMargin:
		insights.Strengths = append(insights.Strengths,
			fmt.Sprintf("Approval rate of %.0f%% is above the network average of %.0f%%",
				own.ApprovalRate*100, network.ApprovalRate*100))
	case own.ApprovalRate <= network.ApprovalRate-insightRateMargin:
		insights.Improvements = append(insights.Improvements,
			fmt.Sprintf("Approval rate of %.0f%% trails the network average of %.0f%%",
				own.ApprovalRate*100, network.ApprovalRate*100))
		insights.Recommendations = append(insights.Recommendations,
			"Qualify leads against card eligibility before applying to lift your approval rate.")
	}

	// Commission vs network.
	switch {
	case own.AvgCommission >= network.AvgCommission+insightCommissionMargin:
		insights.Strengths = append(insights.Strengths,
			fmt.Sprintf("Average commission of ₹%.0f beats the network average of ₹%.0f",
				own.AvgCommission, network.AvgCommission))
	case own.AvgCommission <= network.AvgCommission-insightCommissionMargin:
		insights.Improvements = append(insights.Improvements,
			fmt.Sprintf("Average commission of ₹%.0f is below the network average of ₹%.0f",
				own.AvgCommission, network.AvgCommission))
		insights.Recommendations = append(insights.Recommendations,
			"Pitch higher-tier cards to qualified customers to raise your average commission.")
	}

	byCard := metrics.Group(agentSales, metrics.ByCard)

	// Card mix concentration.
	if top := topShare(byCard, own.Total); top != nil && top.share > insightConcentration {
		insights.Recommendations = append(insights.Recommendations,
			fmt.Sprintf("%.0f%% of your applications are for a single card. Diversify your portfolio to reduce risk.",
				top.share*100))
	}

	// Best performing card with meaningful volume.
	if best := bestCard(byCard); best != nil {
		insights.Strengths = append(insights.Strengths,
			fmt.Sprintf("Strong track record on %s with a %.0f%% approval rate",
				best.Key, best.ApprovalRate*100))
	}

	// Best income segment.
	for _, seg := range metrics.Group(agentSales, metrics.BySegment) {
		if seg.Total >= insightMinCardSales && seg.ApprovalRate > 0.5 {
			insights.Recommendations = append(insights.Recommendations,
				fmt.Sprintf("Customers in the %s income segment approve at %.0f%% for you. Target similar profiles.",
					seg.Key, seg.ApprovalRate*100))
			break
		}
	}

	// Recent volume trend over the last three month buckets.
	monthly := metrics.MonthlyBuckets(agentSales)
	if rising(monthly) {
		insights.Strengths = append(insights.Strengths, "Sales volume has been rising over recent months")
	}

	if len(insights.Recommendations) == 0 {
		insights.Recommendations = append(insights.Recommendations,
			"Keep the current approach and review card recommendations weekly for new opportunities.")
	}

	return insights, nil
}

// Dashboard combines performance and insights into one payload.
func (s *AgentService) Dashboard(agentID string) (*AgentDashboard, error) {
	agent, err := s.getAgent(agentID)
	if err != nil {
		return nil, err
	}
	perf, err := s.AnalyzePerformance(agentID)
	if err != nil {
		return nil, err
	}
	insights, err := s.GenerateInsights(agentID)
	if err != nil {
		return nil, err
	}
	return &AgentDashboard{Agent: agent, Performance: perf, Insights: insights}, nil
}

func (s *AgentService) cardNames() (map[string]string, error) {
	cards, err := s.cards.List()
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(cards))
	for i := range cards {
		names[cards[i].CardID] = cards[i].Name
	}
	return names, nil
}

type cardShare struct {
	key   string
	share float64
}

func topShare(byCard []metrics.Aggregate, total int) *cardShare {
	if total == 0 {
		return nil
	}
	var top *cardShare
	for _, agg := range byCard {
		share := float64(agg.Total) / float64(total)
		if top == nil || share > top.share {
			top = &cardShare{key: agg.Key, share: share}
		}
	}
	return top
}

func bestCard(byCard []metrics.Aggregate) *metrics.Aggregate {
	eligible := make([]metrics.Aggregate, 0, len(byCard))
	for _, agg := range byCard {
		if agg.Total >= insightMinCardSales && agg.ApprovalRate > 0.5 {
			eligible = append(eligible, agg)
		}
	}
	if len(eligible) == 0 {
		return nil
	}
	sort.Slice(eligible, func(i, j int) bool {
		if eligible[i].ApprovalRate != eligible[j].ApprovalRate {
			return eligible[i].ApprovalRate > eligible[j].ApprovalRate
		}
		return eligible[i].Key < eligible[j].Key
	})
	return &eligible[0]
}

func rising(monthly []models.MonthlyPerformance) bool {
	if len(monthly) < 3 {
		return false
	}
	last := monthly[len(monthly)-3:]
	return last[0].Total < last[1].Total && last[1].Total < last[2].Total
}
