package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Income struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"userId"`
	Date        time.Time       `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type IncomeRepository interface {
	Create(income *Income) (*Income, error)
	GetAllByUser(userID uuid.UUID) ([]*Income, error)
	Delete(userID uuid.UUID, id uuid.UUID) error
	DeleteAllByUser(userID uuid.UUID) error
}
