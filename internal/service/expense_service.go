package service

import (
	"strings"
	"time"

	"github.com/centavoapp/centavo/centavo-backend/internal/domain"
	"github.com/centavoapp/centavo/centavo-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExpenseService handles expense business logic
type ExpenseService struct {
	expenseRepo  domain.ExpenseRepository
	categoryRepo domain.CategoryRepository
	publisher    websocket.EventPublisher
}

// NewExpenseService creates a new ExpenseService
func NewExpenseService(expenseRepo domain.ExpenseRepository, categoryRepo domain.CategoryRepository, publisher websocket.EventPublisher) *ExpenseService {
	return &ExpenseService{expenseRepo: expenseRepo, categoryRepo: categoryRepo, publisher: publisher}
}

// CreateExpenseInput holds the input for creating a standalone expense
type CreateExpenseInput struct {
	Date        time.Time
	Amount      decimal.Decimal
	Category    string
	Description string
}

// CreateExpense validates and persists a new expense. The category must
// exist; installment-generated expenses go through InstallmentService
// instead.
func (s *ExpenseService) CreateExpense(userID uuid.UUID, input CreateExpenseInput) (*domain.Expense, error) {
	if input.Date.IsZero() {
		return nil, domain.ErrInvalidDate
	}
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}
	if strings.TrimSpace(input.Category) == "" {
		return nil, domain.ErrCategoryRequired
	}
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, domain.ErrDescriptionRequired
	}
	if len(description) > domain.MaxDescriptionLength {
		return nil, domain.ErrNameTooLong
	}
	if _, err := s.categoryRepo.GetByName(userID, input.Category); err != nil {
		return nil, err
	}

	expense, err := s.expenseRepo.Create(&domain.Expense{
		UserID:      userID,
		Date:        input.Date,
		Amount:      input.Amount,
		Category:    input.Category,
		Description: description,
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(userID, websocket.ExpenseCreated(expense))
	return expense, nil
}

// GetExpenses returns the user's expenses, newest first
func (s *ExpenseService) GetExpenses(userID uuid.UUID) ([]*domain.Expense, error) {
	return s.expenseRepo.GetAllByUser(userID)
}

// DeleteExpense removes a single expense. Deleting an installment-generated
// expense does not touch its parent installment; the status calculation
// simply sees one fewer payment.
func (s *ExpenseService) DeleteExpense(userID, expenseID uuid.UUID) error {
	if err := s.expenseRepo.Delete(userID, expenseID); err != nil {
		return err
	}
	s.publisher.Publish(userID, websocket.ExpenseDeleted(expenseID))
	return nil
}
