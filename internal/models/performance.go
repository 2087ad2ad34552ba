package models

// MonthlyPerformance is one month bucket of an aggregate, keyed YYYY-MM.
type MonthlyPerformance struct {
	Month           string  `json:"month"`
	Total           int     `json:"total_applications"`
	Approved        int     `json:"approved"`
	ApprovalRate    float64 `json:"approval_rate"`
	TotalCommission float64 `json:"total_commission"`
	AvgCommission   float64 `json:"avg_commission"`
}

// CardPerformance holds derived network-wide statistics for one card.
// Never persisted; recomputed from sales.
type CardPerformance struct {
	CardID          string               `json:"card_id"`
	CardName        string               `json:"card_name,omitempty"`
	CardType        string               `json:"card_type,omitempty"`
	Total           int                  `json:"total_applications"`
	Approved        int                  `json:"approved"`
	ApprovalRate    float64              `json:"approval_rate"`
	TotalCommission float64              `json:"total_commission"`
	AvgCommission   float64              `json:"avg_commission"`
	Monthly         []MonthlyPerformance `json:"monthly,omitempty"`
}

// CardBreakdown is an agent's aggregate for a single card.
type CardBreakdown struct {
	CardID          string  `json:"card_id"`
	CardName        string  `json:"card_name,omitempty"`
	Total           int     `json:"total_applications"`
	Approved        int     `json:"approved"`
	ApprovalRate    float64 `json:"approval_rate"`
	TotalCommission float64 `json:"total_commission"`
	AvgCommission   float64 `json:"avg_commission"`
}

// SegmentPerformance is an agent's aggregate within one customer income segment.
type SegmentPerformance struct {
	Segment       string  `json:"segment"`
	Total         int     `json:"total_applications"`
	Approved      int     `json:"approved"`
	ApprovalRate  float64 `json:"approval_rate"`
	AvgCommission float64 `json:"avg_commission"`
}

// AgentPerformance holds derived statistics for one agent.
type AgentPerformance struct {
	AgentID         string               `json:"agent_id"`
	Total           int                  `json:"total_applications"`
	Approved        int                  `json:"approved"`
	ApprovalRate    float64              `json:"approval_rate"`
	TotalCommission float64              `json:"total_commission"`
	AvgCommission   float64              `json:"avg_commission"`
	ByCard          []CardBreakdown      `json:"by_card"`
	Monthly         []MonthlyPerformance `json:"monthly"`
	BySegment       []SegmentPerformance `json:"by_segment"`
}

// NetworkStats summarizes the whole sales network, used as the comparison
// baseline for agent insights and the cold-start path for new agents.
type NetworkStats struct {
	TotalSales      int     `json:"total_sales"`
	TotalAgents     int     `json:"total_agents"`
	ApprovalRate    float64 `json:"approval_rate"`
	AvgCommission   float64 `json:"avg_commission"`
	TotalCommission float64 `json:"total_commission"`
}
