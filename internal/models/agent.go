package models

import "time"

// AgentCities is the fixed set of cities agents operate from. The dataset
// generator and the lead profile synthesizer both draw from this list.
var AgentCities = []string{
	"Mumbai", "Delhi", "Bangalore", "Hyderabad", "Chennai",
	"Kolkata", "Pune", "Ahmedabad", "Jaipur", "Lucknow",
	"Chandigarh", "Indore", "Nagpur", "Coimbatore", "Kochi",
	"Visakhapatnam", "Bhopal", "Patna", "Vadodara", "Surat",
}

// Agent represents a field sales agent. Performance figures are never stored
// on the agent row; they are derived from sales at query time.
type Agent struct {
	ID              int       `db:"id" json:"-"`
	AgentID         string    `db:"agent_id" json:"agent_id"`
	Name            string    `db:"name" json:"name"`
	Email           string    `db:"email" json:"email"`
	Phone           string    `db:"phone" json:"phone"`
	City            string    `db:"city" json:"city"`
	Language        string    `db:"language" json:"language"`
	ExperienceYears int       `db:"experience_years" json:"experience_years"`
	Specialization  string    `db:"specialization" json:"specialization"`
	JoiningDate     time.Time `db:"joining_date" json:"joining_date"`
	Rating          float64   `db:"rating" json:"rating"`
	IsActive        bool      `db:"is_active" json:"is_active"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`
}
