package service

import (
	"database/sql"

	"github.com/cardwise/coach_api/internal/models"
	"github.com/cardwise/coach_api/internal/repository"
	"github.com/cardwise/coach_api/internal/utils"
)

// AuthService provides methods for authenticating and authorizing API clients.
type AuthService struct {
	clientRepo *repository.ClientRepository
}

// NewAuthService constructs a new AuthService.
func NewAuthService(clientRepo *repository.ClientRepository) *AuthService {
	return &AuthService{clientRepo: clientRepo}
}

// ValidateAPIKey verifies the provided token against registered clients.
func (s *AuthService) ValidateAPIKey(token string) (*models.Client, error) {
	if token == "" {
		return nil, utils.ErrInvalidToken
	}

	c, err := s.clientRepo.GetByAPIKey(token)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrInvalidToken
		}
		return nil, err
	}
	return c, nil
}

// ValidateClientID checks if the provided clientID matches the client's registered ID.
func (s *AuthService) ValidateClientID(client *models.Client, clientID string) bool {
	if client == nil {
		return false
	}
	return client.ClientID == clientID
}

// IsIPAllowed returns true if the provided IP is present in the client's
// whitelist. An empty whitelist allows any IP.
func (s *AuthService) IsIPAllowed(client *models.Client, ip string) bool {
	if client == nil {
		return false
	}
	if len(client.IPWhitelist) == 0 {
		return true
	}
	for _, allowed := range client.IPWhitelist {
		if allowed == ip {
			return true
		}
	}
	return false
}
