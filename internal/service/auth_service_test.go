package service

import (
	"testing"

	"github.com/centavoapp/centavo/centavo-backend/internal/domain"
	"github.com/centavoapp/centavo/centavo-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_AuthenticateUser_NewUserSeedsDefaults(t *testing.T) {
	userRepo := testutil.NewMockUserRepository()
	categoryRepo := testutil.NewMockCategoryRepository()
	svc := NewAuthService(userRepo, categoryRepo)

	name := "Alice"
	result, err := svc.AuthenticateUser("auth0|abc123", "alice@example.com", &name)

	require.NoError(t, err)
	assert.True(t, result.IsNewUser)
	assert.Equal(t, "alice@example.com", result.User.Email)

	categories, err := categoryRepo.GetAllByUser(result.User.ID)
	require.NoError(t, err)
	assert.Len(t, categories, len(defaultCategories))
}

func TestAuthService_AuthenticateUser_ExistingUserKeepsCategories(t *testing.T) {
	userRepo := testutil.NewMockUserRepository()
	categoryRepo := testutil.NewMockCategoryRepository()
	svc := NewAuthService(userRepo, categoryRepo)

	first, err := svc.AuthenticateUser("auth0|abc123", "alice@example.com", nil)
	require.NoError(t, err)

	_ = categoryRepo.DeleteAllByUser(first.User.ID)
	_, _ = categoryRepo.Create(&domain.Category{UserID: first.User.ID, Name: "Custom", Color: "#123456"})

	second, err := svc.AuthenticateUser("auth0|abc123", "alice@example.com", nil)
	require.NoError(t, err)
	assert.False(t, second.IsNewUser)
	assert.Equal(t, first.User.ID, second.User.ID)

	categories, _ := categoryRepo.GetAllByUser(first.User.ID)
	require.Len(t, categories, 1, "defaults are not reseeded")
	assert.Equal(t, "Custom", categories[0].Name)
}

func TestAuthService_GetUserIDByAuth0ID(t *testing.T) {
	userRepo := testutil.NewMockUserRepository()
	svc := NewAuthService(userRepo, testutil.NewMockCategoryRepository())

	result, err := svc.AuthenticateUser("auth0|abc123", "alice@example.com", nil)
	require.NoError(t, err)

	id, err := svc.GetUserIDByAuth0ID("auth0|abc123")
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, id)

	_, err = svc.GetUserIDByAuth0ID("auth0|missing")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
