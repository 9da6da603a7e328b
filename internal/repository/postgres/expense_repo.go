package postgres

import (
	"context"

	"github.com/centavoapp/centavo/centavo-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ExpenseRepository implements domain.ExpenseRepository using PostgreSQL
type ExpenseRepository struct {
	pool *pgxpool.Pool
}

// NewExpenseRepository creates a new ExpenseRepository
func NewExpenseRepository(pool *pgxpool.Pool) *ExpenseRepository {
	return &ExpenseRepository{pool: pool}
}

const expenseColumns = `id, user_id, date, amount, category, description, is_installment, installment_id, created_at`

func scanExpense(row pgx.Row) (*domain.Expense, error) {
	var expense domain.Expense
	err := row.Scan(&expense.ID, &expense.UserID, &expense.Date, &expense.Amount,
		&expense.Category, &expense.Description, &expense.IsInstallment,
		&expense.InstallmentID, &expense.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &expense, nil
}

// Create inserts a new expense with a server-assigned id and timestamp
func (r *ExpenseRepository) Create(expense *domain.Expense) (*domain.Expense, error) {
	ctx := context.Background()
	return scanExpense(r.pool.QueryRow(ctx, `
		INSERT INTO expenses (user_id, date, amount, category, description, is_installment, installment_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+expenseColumns,
		expense.UserID, expense.Date, expense.Amount, expense.Category,
		expense.Description, expense.IsInstallment, expense.InstallmentID))
}

// GetAllByUser retrieves all expenses for a user, newest date first
func (r *ExpenseRepository) GetAllByUser(userID uuid.UUID) ([]*domain.Expense, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE user_id = $1 ORDER BY date DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	expenses := []*domain.Expense{}
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, expense)
	}
	return expenses, rows.Err()
}

// Delete removes an expense by id. Children of an installment are deletable
// like any other expense; the parent installment is not touched.
func (r *ExpenseRepository) Delete(userID uuid.UUID, id uuid.UUID) error {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM expenses WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrExpenseNotFound
	}
	return nil
}

// DeleteAllByUser removes every expense for a user
func (r *ExpenseRepository) DeleteAllByUser(userID uuid.UUID) error {
	ctx := context.Background()
	_, err := r.pool.Exec(ctx, `DELETE FROM expenses WHERE user_id = $1`, userID)
	return err
}
