package service

import (
	"database/sql"
	"errors"
	"fmt"
	"math"

	"github.com/cardwise/coach_api/internal/metrics"
	"github.com/cardwise/coach_api/internal/models"
	"github.com/cardwise/coach_api/internal/utils"
)

// Forecast tuning.
const (
	defaultForecastMonths = 3
	maxForecastMonths     = 12
	minGrowthRate         = -0.10
	maxGrowthRate         = 0.30
	newAgentGrowth        = 0.20
	newAgentGrowthDecay   = 0.03
	newAgentGrowthFloor   = 0.05
)

// ForecastService projects an agent's commission trajectory.
type ForecastService struct {
	agents AgentStore
	sales  SaleStore
}

// NewForecastService constructs a ForecastService.
func NewForecastService(agents AgentStore, sales SaleStore) *ForecastService {
	return &ForecastService{agents: agents, sales: sales}
}

// ForecastMonth is one projected month.
type ForecastMonth struct {
	MonthIndex           int     `json:"month_index"`
	ProjectedVolume      float64 `json:"projected_volume"`
	ProjectedApproved    float64 `json:"projected_approved"`
	ProjectedCommission  float64 `json:"projected_commission"`
	CumulativeCommission float64 `json:"cumulative_commission"`
}

// Forecast is the projection response for an agent.
type Forecast struct {
	AgentID       string                      `json:"agent_id"`
	NewAgent      bool                        `json:"new_agent"`
	GrowthRate    float64                     `json:"growth_rate"`
	ApprovalRate  float64                     `json:"approval_rate"`
	AvgCommission float64                     `json:"avg_commission"`
	History       []models.MonthlyPerformance `json:"history"`
	Months        []ForecastMonth             `json:"months"`
}

// OptimizationSuggestion is one actionable way to improve earnings.
type OptimizationSuggestion struct {
	Area       string `json:"area"`
	Suggestion string `json:"suggestion"`
	Impact     string `json:"impact"`
}

// GenerateForecast projects the next months of commission for an agent.
// months is clamped to [1, 12]; a non-positive value uses the default.
// Agents with fewer than two month buckets of history get the new-agent
// projection from network-wide figures.
func (s *ForecastService) GenerateForecast(agentID string, months int) (*Forecast, error) {
	if _, err := s.agents.GetByAgentID(agentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: agent %s", utils.ErrNotFound, agentID)
		}
		return nil, err
	}
	if months <= 0 {
		months = defaultForecastMonths
	}
	if months > maxForecastMonths {
		months = maxForecastMonths
	}

	agentSales, err := s.sales.ListByAgent(agentID)
	if err != nil {
		return nil, err
	}
	history := metrics.MonthlyBuckets(agentSales)

	if len(history) < 2 {
		return s.newAgentForecast(agentID, months, history)
	}

	growth := clampRate(averageGrowth(history), minGrowthRate, maxGrowthRate)
	rate := recencyWeightedRate(history)
	avgCommission := recencyWeightedCommission(history)
	lastVolume := float64(history[len(history)-1].Total)

	f := &Forecast{
		AgentID:       agentID,
		GrowthRate:    growth,
		ApprovalRate:  rate,
		AvgCommission: avgCommission,
		History:       history,
		Months:        make([]ForecastMonth, 0, months),
	}

	cumulative := 0.0
	volume := lastVolume
	for m := 1; m <= months; m++ {
		volume = volume * (1 + growth)
		approved := volume * rate
		commission := approved * avgCommission
		cumulative += commission
		f.Months = append(f.Months, ForecastMonth{
			MonthIndex:           m,
			ProjectedVolume:      round1(volume),
			ProjectedApproved:    round1(approved),
			ProjectedCommission:  round1(commission),
			CumulativeCommission: round1(cumulative),
		})
	}
	return f, nil
}

// newAgentForecast projects from network figures with front-loaded growth
// that decays month over month.
func (s *ForecastService) newAgentForecast(agentID string, months int, history []models.MonthlyPerformance) (*Forecast, error) {
	allSales, err := s.sales.ListAll()
	if err != nil {
		return nil, err
	}

	network := metrics.Summarize(allSales)
	networkMonths := metrics.MonthlyBuckets(allSales)

	monthlyVolume := 0.0
	if len(networkMonths) > 0 && network.Total > 0 {
		agents := countAgents(allSales)
		if agents > 0 {
			monthlyVolume = float64(network.Total) / float64(len(networkMonths)) / float64(agents)
		}
	}
	if monthlyVolume < 1 {
		monthlyVolume = 1
	}

	f := &Forecast{
		AgentID:       agentID,
		NewAgent:      true,
		GrowthRate:    newAgentGrowth,
		ApprovalRate:  network.ApprovalRate,
		AvgCommission: network.AvgCommission,
		History:       history,
		Months:        make([]ForecastMonth, 0, months),
	}

	cumulative := 0.0
	volume := monthlyVolume
	growth := newAgentGrowth
	for m := 1; m <= months; m++ {
		volume = volume * (1 + growth)
		approved := volume * network.ApprovalRate
		commission := approved * network.AvgCommission
		cumulative += commission
		f.Months = append(f.Months, ForecastMonth{
			MonthIndex:           m,
			ProjectedVolume:      round1(volume),
			ProjectedApproved:    round1(approved),
			ProjectedCommission:  round1(commission),
			CumulativeCommission: round1(cumulative),
		})
		growth -= newAgentGrowthDecay
		if growth < newAgentGrowthFloor {
			growth = newAgentGrowthFloor
		}
	}
	return f, nil
}

// OptimizationSuggestions lists concrete levers for higher earnings based
// on the agent's current numbers.
func (s *ForecastService) OptimizationSuggestions(agentID string) ([]OptimizationSuggestion, error) {
	if _, err := s.agents.GetByAgentID(agentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: agent %s", utils.ErrNotFound, agentID)
		}
		return nil, err
	}

	agentSales, err := s.sales.ListByAgent(agentID)
	if err != nil {
		return nil, err
	}
	own := metrics.Summarize(agentSales)
	history := metrics.MonthlyBuckets(agentSales)

	var suggestions []OptimizationSuggestion

	if own.Total > 0 && own.ApprovalRate < 0.7 {
		suggestions = append(suggestions, OptimizationSuggestion{
			Area:       "approval_rate",
			Suggestion: "Screen customers against card eligibility before applying.",
			Impact:     fmt.Sprintf("Raising approval to 70%% adds roughly ₹%.0f per month", missedCommission(own)),
		})
	}

	if len(history) >= 2 {
		growth := averageGrowth(history)
		if growth < 0.1 {
			suggestions = append(suggestions, OptimizationSuggestion{
				Area:       "volume",
				Suggestion: "Increase weekly customer outreach; volume growth has stalled.",
				Impact:     "A 10% monthly volume increase compounds quickly over a quarter",
			})
		}
	}

	if own.Approved > 0 && own.AvgCommission < 2000 {
		suggestions = append(suggestions, OptimizationSuggestion{
			Area:       "commission",
			Suggestion: "Pitch premium cards to customers whose income comfortably clears the threshold.",
			Impact:     "Premium approvals pay 2-3x the commission of entry-level cards",
		})
	}

	suggestions = append(suggestions, OptimizationSuggestion{
		Area:       "technique",
		Suggestion: "Review generated sales scripts before customer meetings and log every objection you hear.",
		Impact:     "Consistent scripts measurably improve conversion",
	})

	return suggestions, nil
}

func averageGrowth(history []models.MonthlyPerformance) float64 {
	if len(history) < 2 {
		return 0
	}
	total := 0.0
	n := 0
	for i := 1; i < len(history); i++ {
		prev := float64(history[i-1].Total)
		if prev == 0 {
			continue
		}
		g := (float64(history[i].Total) - prev) / prev
		// Trim single-month spikes before averaging.
		total += clampRate(g, -0.5, 1.0)
		n++
	}
	if n == 0 {
		return 0
	}
	return total / float64(n)
}

// recencyWeightedRate weights later months more heavily (weight i+1 for
// the i-th month).
func recencyWeightedRate(history []models.MonthlyPerformance) float64 {
	num, den := 0.0, 0.0
	for i, m := range history {
		w := float64(i + 1)
		num += m.ApprovalRate * w
		den += w
	}
	if den == 0 {
		return 0
	}
	return num / den
}

func recencyWeightedCommission(history []models.MonthlyPerformance) float64 {
	num, den := 0.0, 0.0
	for i, m := range history {
		if m.Approved == 0 {
			continue
		}
		w := float64(i + 1)
		num += m.AvgCommission * w
		den += w
	}
	if den == 0 {
		return 0
	}
	return num / den
}

func missedCommission(own metrics.Aggregate) float64 {
	if own.Total == 0 || own.AvgCommission == 0 {
		return 0
	}
	target := 0.7 * float64(own.Total)
	missed := target - float64(own.Approved)
	if missed <= 0 {
		return 0
	}
	return missed * own.AvgCommission
}

func countAgents(sales []models.Sale) int {
	seen := make(map[string]bool)
	for i := range sales {
		seen[sales[i].AgentID] = true
	}
	return len(seen)
}

func clampRate(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
