package service

import (
	"regexp"
	"strings"

	"github.com/centavoapp/centavo/centavo-backend/internal/domain"
	"github.com/centavoapp/centavo/centavo-backend/internal/websocket"
	"github.com/google/uuid"
)

var hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// CategoryService handles expense category business logic
type CategoryService struct {
	categoryRepo domain.CategoryRepository
	publisher    websocket.EventPublisher
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo domain.CategoryRepository, publisher websocket.EventPublisher) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo, publisher: publisher}
}

// CreateCategoryInput holds the input for creating a category
type CreateCategoryInput struct {
	Name  string
	Color string
	Icon  *string
}

// CreateCategory validates and persists a new category. Names are unique per
// user; a duplicate returns domain.ErrCategoryNameTaken.
func (s *CategoryService) CreateCategory(userID uuid.UUID, input CreateCategoryInput) (*domain.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxNameLength {
		return nil, domain.ErrNameTooLong
	}
	if !hexColorPattern.MatchString(input.Color) {
		return nil, domain.ErrInvalidColor
	}

	category, err := s.categoryRepo.Create(&domain.Category{
		UserID: userID,
		Name:   name,
		Color:  input.Color,
		Icon:   input.Icon,
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(userID, websocket.CategoryCreated(category))
	return category, nil
}

// GetCategories returns the user's categories ordered by name
func (s *CategoryService) GetCategories(userID uuid.UUID) ([]*domain.Category, error) {
	return s.categoryRepo.GetAllByUser(userID)
}

// DeleteCategory removes a category. Expenses referencing it by name keep
// their category string; they simply point at a name that no longer exists.
func (s *CategoryService) DeleteCategory(userID, categoryID uuid.UUID) error {
	if err := s.categoryRepo.Delete(userID, categoryID); err != nil {
		return err
	}
	s.publisher.Publish(userID, websocket.CategoryDeleted(categoryID))
	return nil
}
