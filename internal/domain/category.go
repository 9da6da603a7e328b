package domain

import (
	"time"

	"github.com/google/uuid"
)

// Category is a spending category. Expenses and installments reference it by
// name, not by id: the reference is non-owning, and deleting a category leaves
// the name behind on any expense that used it.
type Category struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	Icon      *string   `json:"icon,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type CategoryRepository interface {
	Create(category *Category) (*Category, error)
	GetAllByUser(userID uuid.UUID) ([]*Category, error)
	GetByName(userID uuid.UUID, name string) (*Category, error)
	Delete(userID uuid.UUID, id uuid.UUID) error
	DeleteAllByUser(userID uuid.UUID) error
}
