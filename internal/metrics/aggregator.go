// Package metrics computes derived performance statistics from sale records.
// Everything here is pure: aggregates are recomputed from the sales slice on
// every call and nothing is persisted.
package metrics

import (
	"sort"

	"github.com/cardwise/coach_api/internal/models"
)

// GroupKey extracts the grouping dimension from a sale.
type GroupKey func(s *models.Sale) string

// Standard grouping dimensions.
var (
	ByAgent GroupKey = func(s *models.Sale) string { return s.AgentID }
	ByCard  GroupKey = func(s *models.Sale) string { return s.CardID }
	ByCity  GroupKey = func(s *models.Sale) string { return s.City }
	ByMonth GroupKey = func(s *models.Sale) string { return s.Month() }

	// BySegment groups by the customer income segment of each sale.
	BySegment GroupKey = func(s *models.Sale) string { return IncomeSegment(s.CustomerIncome) }
)

// Aggregate is the derived statistics for one group of sales.
//
// ApprovalRate is approved/total and 0 when the group has no sales.
// AvgCommission averages over approved sales only and is 0 when the group
// has no approvals. Neither can be NaN or Inf.
type Aggregate struct {
	Key             string                      `json:"key"`
	Total           int                         `json:"total_applications"`
	Approved        int                         `json:"approved"`
	Rejected        int                         `json:"rejected"`
	Pending         int                         `json:"pending"`
	ApprovalRate    float64                     `json:"approval_rate"`
	TotalCommission float64                     `json:"total_commission"`
	AvgCommission   float64                     `json:"avg_commission"`
	Monthly         []models.MonthlyPerformance `json:"monthly,omitempty"`
}

// Summarize computes a single aggregate over all given sales.
func Summarize(sales []models.Sale) Aggregate {
	var agg Aggregate
	for i := range sales {
		accumulate(&agg, &sales[i])
	}
	finalize(&agg)
	return agg
}

// Group partitions sales by key and computes an aggregate per group.
// Groups with zero sales are omitted entirely; callers that need explicit
// zero rows use ZeroFill. Results are sorted by key ascending so output is
// deterministic for equal inputs.
func Group(sales []models.Sale, key GroupKey) []Aggregate {
	return group(sales, key, false)
}

// GroupWithMonthly is Group plus a month-bucketed breakdown per group.
func GroupWithMonthly(sales []models.Sale, key GroupKey) []Aggregate {
	return group(sales, key, true)
}

func group(sales []models.Sale, key GroupKey, monthly bool) []Aggregate {
	byKey := make(map[string]*Aggregate)
	monthsByKey := make(map[string][]models.Sale)

	for i := range sales {
		s := &sales[i]
		k := key(s)
		agg, ok := byKey[k]
		if !ok {
			agg = &Aggregate{Key: k}
			byKey[k] = agg
		}
		accumulate(agg, s)
		if monthly {
			monthsByKey[k] = append(monthsByKey[k], *s)
		}
	}

	out := make([]Aggregate, 0, len(byKey))
	for k, agg := range byKey {
		finalize(agg)
		if monthly {
			agg.Monthly = MonthlyBuckets(monthsByKey[k])
		}
		out = append(out, *agg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// MonthlyBuckets groups sales into YYYY-MM buckets sorted ascending.
func MonthlyBuckets(sales []models.Sale) []models.MonthlyPerformance {
	byMonth := Group(sales, ByMonth)
	out := make([]models.MonthlyPerformance, 0, len(byMonth))
	for _, agg := range byMonth {
		out = append(out, models.MonthlyPerformance{
			Month:           agg.Key,
			Total:           agg.Total,
			Approved:        agg.Approved,
			ApprovalRate:    agg.ApprovalRate,
			TotalCommission: agg.TotalCommission,
			AvgCommission:   agg.AvgCommission,
		})
	}
	return out
}

// ZeroFill appends zero-valued aggregates for any known key missing from
// aggs and re-sorts. Used when a report must show every card or agent even
// with no sales.
func ZeroFill(aggs []Aggregate, keys []string) []Aggregate {
	present := make(map[string]bool, len(aggs))
	for _, a := range aggs {
		present[a.Key] = true
	}
	out := append([]Aggregate(nil), aggs...)
	for _, k := range keys {
		if !present[k] {
			out = append(out, Aggregate{Key: k})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// IncomeSegment maps an annual income to its reporting segment.
func IncomeSegment(income float64) string {
	switch {
	case income < 300000:
		return "Low"
	case income < 600000:
		return "Medium"
	case income < 1000000:
		return "High"
	default:
		return "Very High"
	}
}

func accumulate(agg *Aggregate, s *models.Sale) {
	agg.Total++
	switch s.Status {
	case models.SaleStatusApproved:
		agg.Approved++
		agg.TotalCommission += s.Commission
	case models.SaleStatusRejected:
		agg.Rejected++
	case models.SaleStatusPending:
		agg.Pending++
	}
}

func finalize(agg *Aggregate) {
	if agg.Total > 0 {
		agg.ApprovalRate = float64(agg.Approved) / float64(agg.Total)
	}
	if agg.Approved > 0 {
		agg.AvgCommission = agg.TotalCommission / float64(agg.Approved)
	}
}
