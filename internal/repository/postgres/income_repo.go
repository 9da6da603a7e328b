package postgres

import (
	"context"

	"github.com/centavoapp/centavo/centavo-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// IncomeRepository implements domain.IncomeRepository using PostgreSQL
type IncomeRepository struct {
	pool *pgxpool.Pool
}

// NewIncomeRepository creates a new IncomeRepository
func NewIncomeRepository(pool *pgxpool.Pool) *IncomeRepository {
	return &IncomeRepository{pool: pool}
}

const incomeColumns = `id, user_id, date, amount, description, created_at`

func scanIncome(row pgx.Row) (*domain.Income, error) {
	var income domain.Income
	err := row.Scan(&income.ID, &income.UserID, &income.Date,
		&income.Amount, &income.Description, &income.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &income, nil
}

// Create inserts a new income with a server-assigned id and timestamp
func (r *IncomeRepository) Create(income *domain.Income) (*domain.Income, error) {
	ctx := context.Background()
	return scanIncome(r.pool.QueryRow(ctx, `
		INSERT INTO incomes (user_id, date, amount, description)
		VALUES ($1, $2, $3, $4)
		RETURNING `+incomeColumns,
		income.UserID, income.Date, income.Amount, income.Description))
}

// GetAllByUser retrieves all incomes for a user, newest date first
func (r *IncomeRepository) GetAllByUser(userID uuid.UUID) ([]*domain.Income, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx,
		`SELECT `+incomeColumns+` FROM incomes WHERE user_id = $1 ORDER BY date DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	incomes := []*domain.Income{}
	for rows.Next() {
		income, err := scanIncome(rows)
		if err != nil {
			return nil, err
		}
		incomes = append(incomes, income)
	}
	return incomes, rows.Err()
}

// Delete removes an income by id
func (r *IncomeRepository) Delete(userID uuid.UUID, id uuid.UUID) error {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM incomes WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrIncomeNotFound
	}
	return nil
}

// DeleteAllByUser removes every income for a user
func (r *IncomeRepository) DeleteAllByUser(userID uuid.UUID) error {
	ctx := context.Background()
	_, err := r.pool.Exec(ctx, `DELETE FROM incomes WHERE user_id = $1`, userID)
	return err
}
