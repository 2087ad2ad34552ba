package repository

import (
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/cardwise/coach_api/internal/models"
)

// ClientRepository provides data access methods for the api_clients table.
type ClientRepository struct {
	db *sqlx.DB
}

// NewClientRepository creates a new ClientRepository.
func NewClientRepository(db *sqlx.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

const clientColumns = `id, client_id, name, api_key, ip_whitelist, is_active, created_at, updated_at`

// getBy fetches a single client by a specific column using a prepared
// statement.
func (r *ClientRepository) getBy(where string, arg any) (*models.Client, error) {
	stmt, err := r.db.Preparex(`SELECT ` + clientColumns + ` FROM api_clients WHERE ` + where + ` LIMIT 1`)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	var c models.Client
	if err := stmt.Get(&c, arg); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return &c, nil
}

// GetByAPIKey finds a client by API key.
func (r *ClientRepository) GetByAPIKey(apiKey string) (*models.Client, error) {
	return r.getBy("api_key = $1", apiKey)
}

// GetByClientID finds a client by public client identifier.
func (r *ClientRepository) GetByClientID(clientID string) (*models.Client, error) {
	return r.getBy("client_id = $1", clientID)
}

// GetByID finds a client by numeric id.
func (r *ClientRepository) GetByID(id int) (*models.Client, error) {
	return r.getBy("id = $1", id)
}

// Create creates a new client.
func (r *ClientRepository) Create(client *models.Client) error {
	const q = `INSERT INTO api_clients (client_id, name, api_key, ip_whitelist, is_active)
	           VALUES ($1, $2, $3, $4, $5)
	           RETURNING id, created_at, updated_at`

	return r.db.QueryRowx(q,
		client.ClientID,
		client.Name,
		client.APIKey,
		client.IPWhitelist,
		client.IsActive,
	).Scan(&client.ID, &client.CreatedAt, &client.UpdatedAt)
}

// Update updates an existing client.
func (r *ClientRepository) Update(client *models.Client) error {
	const q = `UPDATE api_clients
	           SET name = $1, ip_whitelist = $2, is_active = $3, api_key = $4
	           WHERE id = $5
	           RETURNING updated_at`

	return r.db.QueryRowx(q,
		client.Name,
		client.IPWhitelist,
		client.IsActive,
		client.APIKey,
		client.ID,
	).Scan(&client.UpdatedAt)
}

// List retrieves all clients, newest first.
func (r *ClientRepository) List() ([]*models.Client, error) {
	const q = `SELECT ` + clientColumns + ` FROM api_clients ORDER BY created_at DESC`

	var clients []*models.Client
	if err := r.db.Select(&clients, q); err != nil {
		return nil, err
	}
	return clients, nil
}
