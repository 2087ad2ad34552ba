package service

import "github.com/cardwise/coach_api/internal/models"

// Store interfaces implemented by the repository package. Services depend
// on these so tests can run against fixture data without a database.

type AgentStore interface {
	GetByAgentID(agentID string) (*models.Agent, error)
	List() ([]models.Agent, error)
}

type CardStore interface {
	GetByCardID(cardID string) (*models.Card, error)
	List() ([]models.Card, error)
	ListByIDs(cardIDs []string) ([]models.Card, error)
}

type SaleStore interface {
	ListAll() ([]models.Sale, error)
	ListByAgent(agentID string) ([]models.Sale, error)
	ListByCard(cardID string) ([]models.Sale, error)
}
