package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/cardwise/coach_api/internal/models"
	"github.com/cardwise/coach_api/internal/repository"
	"github.com/cardwise/coach_api/internal/utils"
)

// ClientService handles API client management.
type ClientService struct {
	clientRepo *repository.ClientRepository
}

// NewClientService constructs a ClientService.
func NewClientService(clientRepo *repository.ClientRepository) *ClientService {
	return &ClientService{clientRepo: clientRepo}
}

// CreateClientRequest represents the request to create a new client.
type CreateClientRequest struct {
	ClientID    string   `json:"clientId" binding:"required"`
	Name        string   `json:"name" binding:"required"`
	IPWhitelist []string `json:"ipWhitelist"`
	IsActive    *bool    `json:"isActive"`
}

// UpdateClientRequest represents the request to update a client.
type UpdateClientRequest struct {
	Name        string   `json:"name"`
	IPWhitelist []string `json:"ipWhitelist"`
	IsActive    *bool    `json:"isActive"`
}

// CreateClient creates a new client with an auto-generated API key.
func (s *ClientService) CreateClient(ctx context.Context, req *CreateClientRequest) (*models.Client, error) {
	existing, _ := s.clientRepo.GetByClientID(req.ClientID)
	if existing != nil {
		return nil, errors.New("client_id already exists")
	}

	apiKey, err := utils.GenerateLiveKey()
	if err != nil {
		return nil, err
	}

	// default active true if not provided
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	client := &models.Client{
		ClientID:    req.ClientID,
		Name:        req.Name,
		APIKey:      apiKey,
		IPWhitelist: req.IPWhitelist,
		IsActive:    active,
	}

	if err := s.clientRepo.Create(client); err != nil {
		return nil, err
	}

	return client, nil
}

// GetClient retrieves a client by ID.
func (s *ClientService) GetClient(id int) (*models.Client, error) {
	return s.clientRepo.GetByID(id)
}

// ListClients retrieves all clients.
func (s *ClientService) ListClients() ([]*models.Client, error) {
	clients, err := s.clientRepo.List()
	if err != nil {
		return nil, err
	}
	// Keys are only shown at creation and rotation time.
	for _, c := range clients {
		c.APIKey = ""
	}
	return clients, nil
}

// UpdateClient updates a client.
func (s *ClientService) UpdateClient(id int, req *UpdateClientRequest) (*models.Client, error) {
	client, err := s.clientRepo.GetByID(id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.New("client not found")
		}
		return nil, err
	}

	if req.Name != "" {
		client.Name = req.Name
	}
	if req.IPWhitelist != nil {
		client.IPWhitelist = req.IPWhitelist
	}
	if req.IsActive != nil {
		client.IsActive = *req.IsActive
	}

	if err := s.clientRepo.Update(client); err != nil {
		return nil, err
	}

	return client, nil
}

// RegenerateKey rotates a client's API key.
func (s *ClientService) RegenerateKey(id int) (*models.Client, error) {
	client, err := s.clientRepo.GetByID(id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.New("client not found")
		}
		return nil, err
	}

	newKey, err := utils.GenerateLiveKey()
	if err != nil {
		return nil, err
	}
	client.APIKey = newKey

	if err := s.clientRepo.Update(client); err != nil {
		return nil, err
	}

	return client, nil
}
