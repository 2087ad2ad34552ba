package repository

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/cardwise/coach_api/internal/models"
)

// SaleRepository provides data access methods for the sales table.
// Sales are append-only; there are no update methods.
type SaleRepository struct {
	db *sqlx.DB
}

// NewSaleRepository creates a new SaleRepository.
func NewSaleRepository(db *sqlx.DB) *SaleRepository {
	return &SaleRepository{db: db}
}

const saleColumns = `id, sale_id, agent_id, card_id, city, customer_age, customer_income,
	customer_employment_type, customer_credit_score, status, rejection_reason,
	commission, sale_date, created_at`

// SaleFilter narrows List queries. Zero values mean no constraint.
type SaleFilter struct {
	AgentID   string
	CardID    string
	City      string
	Status    string
	StartDate string // inclusive, YYYY-MM-DD
	EndDate   string // inclusive, YYYY-MM-DD
}

// List retrieves sales matching the filter, oldest first.
func (r *SaleRepository) List(filter SaleFilter) ([]models.Sale, error) {
	q := `SELECT ` + saleColumns + ` FROM sales WHERE 1=1`

	args := []interface{}{}
	argIdx := 1

	if filter.AgentID != "" {
		q += fmt.Sprintf(" AND agent_id = $%d", argIdx)
		args = append(args, filter.AgentID)
		argIdx++
	}
	if filter.CardID != "" {
		q += fmt.Sprintf(" AND card_id = $%d", argIdx)
		args = append(args, filter.CardID)
		argIdx++
	}
	if filter.City != "" {
		q += fmt.Sprintf(" AND city = $%d", argIdx)
		args = append(args, filter.City)
		argIdx++
	}
	if filter.Status != "" {
		q += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, filter.Status)
		argIdx++
	}
	if filter.StartDate != "" {
		q += fmt.Sprintf(" AND sale_date >= $%d::date", argIdx)
		args = append(args, filter.StartDate)
		argIdx++
	}
	if filter.EndDate != "" {
		q += fmt.Sprintf(" AND sale_date < ($%d::date + interval '1 day')", argIdx)
		args = append(args, filter.EndDate)
		argIdx++
	}

	q += " ORDER BY sale_date ASC, sale_id ASC"

	var sales []models.Sale
	if err := r.db.Select(&sales, q, args...); err != nil {
		return nil, err
	}
	return sales, nil
}

// ListAll retrieves the entire sales history, oldest first.
func (r *SaleRepository) ListAll() ([]models.Sale, error) {
	return r.List(SaleFilter{})
}

// ListByAgent retrieves all sales made by one agent, oldest first.
func (r *SaleRepository) ListByAgent(agentID string) ([]models.Sale, error) {
	return r.List(SaleFilter{AgentID: agentID})
}

// ListByCard retrieves all sales for one card, oldest first.
func (r *SaleRepository) ListByCard(cardID string) ([]models.Sale, error) {
	return r.List(SaleFilter{CardID: cardID})
}

// Count returns the number of sale records.
func (r *SaleRepository) Count() (int, error) {
	var n int
	if err := r.db.Get(&n, `SELECT COUNT(*) FROM sales`); err != nil {
		return 0, err
	}
	return n, nil
}

// GetNetworkStats computes network-wide statistics in SQL so admin
// dashboards avoid loading the full history.
func (r *SaleRepository) GetNetworkStats() (*models.NetworkStats, error) {
	const q = `SELECT
	        COUNT(*) as total_sales,
	        COUNT(DISTINCT agent_id) as total_agents,
	        CASE WHEN COUNT(*) > 0
	             THEN COUNT(*) FILTER (WHERE status = 'Approved')::float / COUNT(*)
	             ELSE 0 END as approval_rate,
	        CASE WHEN COUNT(*) FILTER (WHERE status = 'Approved') > 0
	             THEN COALESCE(SUM(commission) FILTER (WHERE status = 'Approved'), 0)
	                  / COUNT(*) FILTER (WHERE status = 'Approved')
	             ELSE 0 END as avg_commission,
	        COALESCE(SUM(commission) FILTER (WHERE status = 'Approved'), 0) as total_commission
	      FROM sales`

	var stats struct {
		TotalSales      int     `db:"total_sales"`
		TotalAgents     int     `db:"total_agents"`
		ApprovalRate    float64 `db:"approval_rate"`
		AvgCommission   float64 `db:"avg_commission"`
		TotalCommission float64 `db:"total_commission"`
	}
	if err := r.db.Get(&stats, q); err != nil {
		return nil, err
	}
	return &models.NetworkStats{
		TotalSales:      stats.TotalSales,
		TotalAgents:     stats.TotalAgents,
		ApprovalRate:    stats.ApprovalRate,
		AvgCommission:   stats.AvgCommission,
		TotalCommission: stats.TotalCommission,
	}, nil
}

// DailyTrend is one day of sales activity for admin dashboards.
type DailyTrend struct {
	Date       string  `db:"date" json:"date"`
	Total      int     `db:"total" json:"total"`
	Approved   int     `db:"approved" json:"approved"`
	Rejected   int     `db:"rejected" json:"rejected"`
	Commission float64 `db:"commission" json:"commission"`
}

// GetDailyTrend returns per-day statistics for the most recent days.
func (r *SaleRepository) GetDailyTrend(days int) ([]DailyTrend, error) {
	if days <= 0 {
		days = 30
	}
	const q = `SELECT
	        TO_CHAR(sale_date, 'YYYY-MM-DD') as date,
	        COUNT(*) as total,
	        COUNT(*) FILTER (WHERE status = 'Approved') as approved,
	        COUNT(*) FILTER (WHERE status = 'Rejected') as rejected,
	        COALESCE(SUM(commission) FILTER (WHERE status = 'Approved'), 0) as commission
	      FROM sales
	      GROUP BY TO_CHAR(sale_date, 'YYYY-MM-DD')
	      ORDER BY date DESC
	      LIMIT $1`

	var trends []DailyTrend
	if err := r.db.Select(&trends, q, days); err != nil {
		return nil, err
	}
	return trends, nil
}

// BulkInsert writes generated sales inside a single transaction.
func (r *SaleRepository) BulkInsert(sales []models.Sale) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const q = `INSERT INTO sales (sale_id, agent_id, card_id, city, customer_age,
	               customer_income, customer_employment_type, customer_credit_score,
	               status, rejection_reason, commission, sale_date)
	           VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	stmt, err := tx.Preparex(q)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i := range sales {
		s := &sales[i]
		if _, err := stmt.Exec(
			s.SaleID, s.AgentID, s.CardID, s.City, s.CustomerAge,
			s.CustomerIncome, s.CustomerEmploymentType, s.CustomerCreditScore,
			s.Status, s.RejectionReason, s.Commission, s.SaleDate,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// DeleteAll wipes the sales history ahead of a dataset regeneration.
func (r *SaleRepository) DeleteAll() error {
	_, err := r.db.Exec(`DELETE FROM sales`)
	return err
}
