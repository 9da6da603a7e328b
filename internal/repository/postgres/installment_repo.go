package postgres

import (
	"context"
	"errors"

	"github.com/centavoapp/centavo/centavo-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// InstallmentRepository implements domain.InstallmentRepository using PostgreSQL
type InstallmentRepository struct {
	pool *pgxpool.Pool
}

// NewInstallmentRepository creates a new InstallmentRepository
func NewInstallmentRepository(pool *pgxpool.Pool) *InstallmentRepository {
	return &InstallmentRepository{pool: pool}
}

const installmentColumns = `id, user_id, name, total_amount, installments, monthly_amount, paid_installments, start_date, category, created_at`

func scanInstallment(row pgx.Row) (*domain.Installment, error) {
	var installment domain.Installment
	err := row.Scan(&installment.ID, &installment.UserID, &installment.Name,
		&installment.TotalAmount, &installment.Installments, &installment.MonthlyAmount,
		&installment.PaidInstallments, &installment.StartDate, &installment.Category,
		&installment.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &installment, nil
}

// Create inserts a new installment with a server-assigned id and timestamp
func (r *InstallmentRepository) Create(installment *domain.Installment) (*domain.Installment, error) {
	ctx := context.Background()
	return scanInstallment(r.pool.QueryRow(ctx, `
		INSERT INTO installments (user_id, name, total_amount, installments, monthly_amount, paid_installments, start_date, category)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+installmentColumns,
		installment.UserID, installment.Name, installment.TotalAmount,
		installment.Installments, installment.MonthlyAmount, installment.PaidInstallments,
		installment.StartDate, installment.Category))
}

// GetByID retrieves an installment by id
func (r *InstallmentRepository) GetByID(userID uuid.UUID, id uuid.UUID) (*domain.Installment, error) {
	ctx := context.Background()
	installment, err := scanInstallment(r.pool.QueryRow(ctx,
		`SELECT `+installmentColumns+` FROM installments WHERE user_id = $1 AND id = $2`, userID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInstallmentNotFound
		}
		return nil, err
	}
	return installment, nil
}

// GetAllByUser retrieves all installments for a user, newest start date first
func (r *InstallmentRepository) GetAllByUser(userID uuid.UUID) ([]*domain.Installment, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx,
		`SELECT `+installmentColumns+` FROM installments WHERE user_id = $1 ORDER BY start_date DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	installments := []*domain.Installment{}
	for rows.Next() {
		installment, err := scanInstallment(rows)
		if err != nil {
			return nil, err
		}
		installments = append(installments, installment)
	}
	return installments, rows.Err()
}

// DeleteAllByUser removes every installment for a user
func (r *InstallmentRepository) DeleteAllByUser(userID uuid.UUID) error {
	ctx := context.Background()
	_, err := r.pool.Exec(ctx, `DELETE FROM installments WHERE user_id = $1`, userID)
	return err
}
