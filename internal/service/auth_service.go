package service

import (
	"strings"

	"github.com/centavoapp/centavo/centavo-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// AuthService handles authentication-related business logic
type AuthService struct {
	userRepo     domain.UserRepository
	categoryRepo domain.CategoryRepository
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo domain.UserRepository, categoryRepo domain.CategoryRepository) *AuthService {
	return &AuthService{userRepo: userRepo, categoryRepo: categoryRepo}
}

// AuthResult represents the result of an authentication operation
type AuthResult struct {
	User      *domain.User
	IsNewUser bool
}

// defaultCategories seed a fresh account so the first expense has somewhere
// to go.
var defaultCategories = []struct {
	Name  string
	Color string
}{
	{"Food", "#ef4444"},
	{"Transport", "#3b82f6"},
	{"Housing", "#8b5cf6"},
	{"Entertainment", "#f59e0b"},
	{"Health", "#10b981"},
	{"Other", "#6b7280"},
}

// AuthenticateUser handles the flow after Auth0 token validation: it creates
// the user on first sight and seeds the default categories for new accounts.
func (s *AuthService) AuthenticateUser(auth0ID, email string, name *string) (*AuthResult, error) {
	existing, err := s.userRepo.GetByAuth0ID(auth0ID)
	if err == nil {
		return &AuthResult{User: existing, IsNewUser: false}, nil
	}

	user, err := s.userRepo.CreateOrGetByAuth0ID(auth0ID, email, name)
	if err != nil {
		log.Error().Err(err).Str("auth0_id", auth0ID).Msg("Failed to create or get user")
		return nil, err
	}

	for _, seed := range defaultCategories {
		_, err := s.categoryRepo.Create(&domain.Category{
			UserID: user.ID,
			Name:   seed.Name,
			Color:  seed.Color,
		})
		if err != nil && err != domain.ErrCategoryNameTaken {
			log.Warn().Err(err).Str("user_id", user.ID.String()).Str("category", seed.Name).Msg("Failed to seed default category")
		}
	}
	log.Info().Str("user_id", user.ID.String()).Msg("Created new user with default categories")

	return &AuthResult{User: user, IsNewUser: true}, nil
}

// GetUserByAuth0ID retrieves a user by their Auth0 ID
func (s *AuthService) GetUserByAuth0ID(auth0ID string) (*domain.User, error) {
	if strings.TrimSpace(auth0ID) == "" {
		return nil, domain.ErrInvalidInput
	}
	return s.userRepo.GetByAuth0ID(auth0ID)
}

// GetUserIDByAuth0ID resolves an Auth0 subject to the internal user ID. It
// satisfies the websocket handshake's user lookup.
func (s *AuthService) GetUserIDByAuth0ID(auth0ID string) (uuid.UUID, error) {
	user, err := s.userRepo.GetByAuth0ID(auth0ID)
	if err != nil {
		return uuid.Nil, err
	}
	return user.ID, nil
}
