package service

import (
	"testing"

	"github.com/centavoapp/centavo/centavo-backend/internal/domain"
	"github.com/centavoapp/centavo/centavo-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCategoryFixture() (*CategoryService, *testutil.MockCategoryRepository, *testutil.MockEventPublisher, uuid.UUID) {
	categoryRepo := testutil.NewMockCategoryRepository()
	publisher := testutil.NewMockEventPublisher()
	return NewCategoryService(categoryRepo, publisher), categoryRepo, publisher, uuid.New()
}

func TestCategoryService_CreateCategory(t *testing.T) {
	svc, _, publisher, userID := newCategoryFixture()

	category, err := svc.CreateCategory(userID, CreateCategoryInput{Name: "  Food  ", Color: "#ef4444"})

	require.NoError(t, err)
	assert.Equal(t, "Food", category.Name, "name is trimmed")
	assert.Equal(t, "#ef4444", category.Color)
	require.Len(t, publisher.Events, 1)
	assert.Equal(t, "category.created", publisher.Events[0].Event.Type)
}

func TestCategoryService_CreateCategory_Validation(t *testing.T) {
	svc, _, _, userID := newCategoryFixture()

	_, err := svc.CreateCategory(userID, CreateCategoryInput{Name: "   ", Color: "#ef4444"})
	assert.ErrorIs(t, err, domain.ErrNameRequired)

	long := make([]byte, domain.MaxNameLength+1)
	for i := range long {
		long[i] = 'a'
	}
	_, err = svc.CreateCategory(userID, CreateCategoryInput{Name: string(long), Color: "#ef4444"})
	assert.ErrorIs(t, err, domain.ErrNameTooLong)

	for _, color := range []string{"", "red", "#12345", "#gggggg", "ef4444"} {
		_, err = svc.CreateCategory(userID, CreateCategoryInput{Name: "Food", Color: color})
		assert.ErrorIs(t, err, domain.ErrInvalidColor, "color %q", color)
	}
}

func TestCategoryService_CreateCategory_DuplicateName(t *testing.T) {
	svc, _, _, userID := newCategoryFixture()

	_, err := svc.CreateCategory(userID, CreateCategoryInput{Name: "Food", Color: "#ef4444"})
	require.NoError(t, err)

	_, err = svc.CreateCategory(userID, CreateCategoryInput{Name: "Food", Color: "#3b82f6"})
	assert.ErrorIs(t, err, domain.ErrCategoryNameTaken)
}

func TestCategoryService_DuplicateNameIsPerUser(t *testing.T) {
	svc, _, _, userID := newCategoryFixture()

	_, err := svc.CreateCategory(userID, CreateCategoryInput{Name: "Food", Color: "#ef4444"})
	require.NoError(t, err)

	_, err = svc.CreateCategory(uuid.New(), CreateCategoryInput{Name: "Food", Color: "#ef4444"})
	assert.NoError(t, err, "another user may reuse the name")
}

func TestCategoryService_DeleteCategory(t *testing.T) {
	svc, categoryRepo, publisher, userID := newCategoryFixture()

	category, err := svc.CreateCategory(userID, CreateCategoryInput{Name: "Food", Color: "#ef4444"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteCategory(userID, category.ID))
	remaining, _ := categoryRepo.GetAllByUser(userID)
	assert.Empty(t, remaining)
	assert.Equal(t, "category.deleted", publisher.Events[len(publisher.Events)-1].Event.Type)

	err = svc.DeleteCategory(userID, uuid.New())
	assert.ErrorIs(t, err, domain.ErrCategoryNotFound)
}
