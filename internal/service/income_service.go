package service

import (
	"strings"
	"time"

	"github.com/centavoapp/centavo/centavo-backend/internal/domain"
	"github.com/centavoapp/centavo/centavo-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// IncomeService handles income business logic
type IncomeService struct {
	incomeRepo domain.IncomeRepository
	publisher  websocket.EventPublisher
}

// NewIncomeService creates a new IncomeService
func NewIncomeService(incomeRepo domain.IncomeRepository, publisher websocket.EventPublisher) *IncomeService {
	return &IncomeService{incomeRepo: incomeRepo, publisher: publisher}
}

// CreateIncomeInput holds the input for creating an income
type CreateIncomeInput struct {
	Date        time.Time
	Amount      decimal.Decimal
	Description string
}

// CreateIncome validates and persists a new income entry
func (s *IncomeService) CreateIncome(userID uuid.UUID, input CreateIncomeInput) (*domain.Income, error) {
	if input.Date.IsZero() {
		return nil, domain.ErrInvalidDate
	}
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, domain.ErrDescriptionRequired
	}
	if len(description) > domain.MaxDescriptionLength {
		return nil, domain.ErrNameTooLong
	}

	income, err := s.incomeRepo.Create(&domain.Income{
		UserID:      userID,
		Date:        input.Date,
		Amount:      input.Amount,
		Description: description,
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(userID, websocket.IncomeCreated(income))
	return income, nil
}

// GetIncomes returns the user's incomes, newest first
func (s *IncomeService) GetIncomes(userID uuid.UUID) ([]*domain.Income, error) {
	return s.incomeRepo.GetAllByUser(userID)
}

// DeleteIncome removes a single income entry
func (s *IncomeService) DeleteIncome(userID, incomeID uuid.UUID) error {
	if err := s.incomeRepo.Delete(userID, incomeID); err != nil {
		return err
	}
	s.publisher.Publish(userID, websocket.IncomeDeleted(incomeID))
	return nil
}
