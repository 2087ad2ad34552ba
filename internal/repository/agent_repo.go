package repository

import (
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/cardwise/coach_api/internal/models"
)

// AgentRepository provides data access methods for the agents table.
type AgentRepository struct {
	db *sqlx.DB
}

// NewAgentRepository creates a new AgentRepository.
func NewAgentRepository(db *sqlx.DB) *AgentRepository {
	return &AgentRepository{db: db}
}

const agentColumns = `id, agent_id, name, email, phone, city, language, experience_years,
	specialization, joining_date, rating, is_active, created_at`

// GetByAgentID finds an agent by public identifier.
func (r *AgentRepository) GetByAgentID(agentID string) (*models.Agent, error) {
	const q = `SELECT ` + agentColumns + ` FROM agents WHERE agent_id = $1 LIMIT 1`
	var a models.Agent
	if err := r.db.Get(&a, q, agentID); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return &a, nil
}

// List retrieves all agents ordered by agent identifier.
func (r *AgentRepository) List() ([]models.Agent, error) {
	const q = `SELECT ` + agentColumns + ` FROM agents ORDER BY agent_id ASC`
	var agents []models.Agent
	if err := r.db.Select(&agents, q); err != nil {
		return nil, err
	}
	return agents, nil
}

// Count returns the number of agents.
func (r *AgentRepository) Count() (int, error) {
	var n int
	if err := r.db.Get(&n, `SELECT COUNT(*) FROM agents`); err != nil {
		return 0, err
	}
	return n, nil
}

// BulkInsert writes generated agents inside a single transaction.
func (r *AgentRepository) BulkInsert(agents []models.Agent) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const q = `INSERT INTO agents (agent_id, name, email, phone, city, language,
	               experience_years, specialization, joining_date, rating, is_active)
	           VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	stmt, err := tx.Preparex(q)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i := range agents {
		a := &agents[i]
		if _, err := stmt.Exec(
			a.AgentID, a.Name, a.Email, a.Phone, a.City, a.Language,
			a.ExperienceYears, a.Specialization, a.JoiningDate, a.Rating, a.IsActive,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// DeleteAll wipes agents ahead of a dataset regeneration.
func (r *AgentRepository) DeleteAll() error {
	_, err := r.db.Exec(`DELETE FROM agents`)
	return err
}
