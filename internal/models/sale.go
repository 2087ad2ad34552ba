package models

import "time"

// Sale statuses.
const (
	SaleStatusApproved = "Approved"
	SaleStatusRejected = "Rejected"
	SaleStatusPending  = "Pending"
)

// Employment types recorded on customer snapshots.
var EmploymentTypes = []string{
	"Salaried", "Self-Employed", "Business Owner",
	"Freelancer", "Government Employee", "Professional",
}

// RejectionReasons is the fixed vocabulary for rejected applications.
var RejectionReasons = []string{
	"Low credit score",
	"Insufficient income",
	"Incomplete documentation",
	"Existing debt too high",
	"Employment verification failed",
	"Address verification failed",
	"Previous default history",
	"Age criteria not met",
	"Duplicate application",
}

// CustomerProfile is the customer snapshot captured on each sale. It is also
// the input shape for approval predictions on fresh leads.
type CustomerProfile struct {
	Age            int     `json:"age" binding:"required,gt=0"`
	Income         float64 `json:"income" binding:"required,gt=0"`
	EmploymentType string  `json:"employment_type" binding:"required"`
	CreditScore    int     `json:"credit_score" binding:"required,gte=300,lte=900"`
}

// Sale represents one card application attempt by an agent. Sales are
// append-only; commission is zero unless the application was approved,
// rejection_reason is set only when it was rejected. The customer snapshot
// is stored flat alongside the sale.
type Sale struct {
	ID                     int       `db:"id" json:"-"`
	SaleID                 string    `db:"sale_id" json:"sale_id"`
	AgentID                string    `db:"agent_id" json:"agent_id"`
	CardID                 string    `db:"card_id" json:"card_id"`
	City                   string    `db:"city" json:"city"`
	CustomerAge            int       `db:"customer_age" json:"customer_age"`
	CustomerIncome         float64   `db:"customer_income" json:"customer_income"`
	CustomerEmploymentType string    `db:"customer_employment_type" json:"customer_employment_type"`
	CustomerCreditScore    int       `db:"customer_credit_score" json:"customer_credit_score"`
	Status                 string    `db:"status" json:"status"`
	RejectionReason        *string   `db:"rejection_reason" json:"rejection_reason,omitempty"`
	Commission             float64   `db:"commission" json:"commission"`
	SaleDate               time.Time `db:"sale_date" json:"sale_date"`
	CreatedAt              time.Time `db:"created_at" json:"createdAt"`
}

// Approved reports whether the application went through.
func (s *Sale) Approved() bool {
	return s.Status == SaleStatusApproved
}

// Profile returns the customer snapshot in prediction input form.
func (s *Sale) Profile() CustomerProfile {
	return CustomerProfile{
		Age:            s.CustomerAge,
		Income:         s.CustomerIncome,
		EmploymentType: s.CustomerEmploymentType,
		CreditScore:    s.CustomerCreditScore,
	}
}

// Month returns the UTC month bucket of the sale in YYYY-MM form.
func (s *Sale) Month() string {
	return s.SaleDate.UTC().Format("2006-01")
}
