package postgres

import (
	"context"
	"errors"

	"github.com/centavoapp/centavo/centavo-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// uniqueViolation is the PostgreSQL error code for unique constraint violations
const uniqueViolation = "23505"

// CategoryRepository implements domain.CategoryRepository using PostgreSQL
type CategoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

const categoryColumns = `id, user_id, name, color, icon, created_at`

func scanCategory(row pgx.Row) (*domain.Category, error) {
	var category domain.Category
	err := row.Scan(&category.ID, &category.UserID, &category.Name,
		&category.Color, &category.Icon, &category.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// Create inserts a new category. Names are unique per user; a duplicate
// reports domain.ErrCategoryNameTaken.
func (r *CategoryRepository) Create(category *domain.Category) (*domain.Category, error) {
	ctx := context.Background()
	created, err := scanCategory(r.pool.QueryRow(ctx, `
		INSERT INTO categories (user_id, name, color, icon)
		VALUES ($1, $2, $3, $4)
		RETURNING `+categoryColumns,
		category.UserID, category.Name, category.Color, category.Icon))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, domain.ErrCategoryNameTaken
		}
		return nil, err
	}
	return created, nil
}

// GetAllByUser retrieves all categories for a user ordered by name
func (r *CategoryRepository) GetAllByUser(userID uuid.UUID) ([]*domain.Category, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE user_id = $1 ORDER BY name`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []*domain.Category{}
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

// GetByName retrieves a category by its exact name
func (r *CategoryRepository) GetByName(userID uuid.UUID, name string) (*domain.Category, error) {
	ctx := context.Background()
	category, err := scanCategory(r.pool.QueryRow(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE user_id = $1 AND name = $2`, userID, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

// Delete removes a category. Expenses keep the category name they were
// created with; nothing cascades.
func (r *CategoryRepository) Delete(userID uuid.UUID, id uuid.UUID) error {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM categories WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

// DeleteAllByUser removes every category for a user
func (r *CategoryRepository) DeleteAllByUser(userID uuid.UUID) error {
	ctx := context.Background()
	_, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE user_id = $1`, userID)
	return err
}
