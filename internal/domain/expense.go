package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Expense is a single dated expense. When IsInstallment is set, InstallmentID
// points at the parent Installment that generated it; the child remains
// independently deletable (no cascade in either direction).
type Expense struct {
	ID            uuid.UUID       `json:"id"`
	UserID        uuid.UUID       `json:"userId"`
	Date          time.Time       `json:"date"`
	Amount        decimal.Decimal `json:"amount"`
	Category      string          `json:"category"`
	Description   string          `json:"description"`
	IsInstallment bool            `json:"isInstallment"`
	InstallmentID *uuid.UUID      `json:"installmentId,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

type ExpenseRepository interface {
	Create(expense *Expense) (*Expense, error)
	GetAllByUser(userID uuid.UUID) ([]*Expense, error)
	Delete(userID uuid.UUID, id uuid.UUID) error
	DeleteAllByUser(userID uuid.UUID) error
}
