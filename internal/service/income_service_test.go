package service

import (
	"testing"
	"time"

	"github.com/centavoapp/centavo/centavo-backend/internal/domain"
	"github.com/centavoapp/centavo/centavo-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIncomeFixture() (*IncomeService, *testutil.MockIncomeRepository, *testutil.MockEventPublisher, uuid.UUID) {
	incomeRepo := testutil.NewMockIncomeRepository()
	publisher := testutil.NewMockEventPublisher()
	return NewIncomeService(incomeRepo, publisher), incomeRepo, publisher, uuid.New()
}

func TestIncomeService_CreateIncome(t *testing.T) {
	svc, _, publisher, userID := newIncomeFixture()

	income, err := svc.CreateIncome(userID, CreateIncomeInput{
		Date:        date("2024-03-01"),
		Amount:      decimal.NewFromInt(3000),
		Description: " Salary ",
	})

	require.NoError(t, err)
	assert.Equal(t, "Salary", income.Description)
	assert.Equal(t, "3000", income.Amount.String())
	require.Len(t, publisher.Events, 1)
	assert.Equal(t, "income.created", publisher.Events[0].Event.Type)
	assert.Equal(t, userID, publisher.Events[0].UserID)
}

func TestIncomeService_CreateIncome_Validation(t *testing.T) {
	svc, _, _, userID := newIncomeFixture()

	_, err := svc.CreateIncome(userID, CreateIncomeInput{Date: time.Time{}, Amount: decimal.NewFromInt(1), Description: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidDate)

	_, err = svc.CreateIncome(userID, CreateIncomeInput{Date: date("2024-03-01"), Amount: decimal.Zero, Description: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = svc.CreateIncome(userID, CreateIncomeInput{Date: date("2024-03-01"), Amount: decimal.NewFromInt(-5), Description: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = svc.CreateIncome(userID, CreateIncomeInput{Date: date("2024-03-01"), Amount: decimal.NewFromInt(1), Description: "   "})
	assert.ErrorIs(t, err, domain.ErrDescriptionRequired)
}

func TestIncomeService_DeleteIncome(t *testing.T) {
	svc, incomeRepo, publisher, userID := newIncomeFixture()

	income, err := svc.CreateIncome(userID, CreateIncomeInput{
		Date:        date("2024-03-01"),
		Amount:      decimal.NewFromInt(3000),
		Description: "Salary",
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteIncome(userID, income.ID))
	remaining, _ := incomeRepo.GetAllByUser(userID)
	assert.Empty(t, remaining)
	assert.Equal(t, "income.deleted", publisher.Events[len(publisher.Events)-1].Event.Type)

	assert.ErrorIs(t, svc.DeleteIncome(userID, income.ID), domain.ErrIncomeNotFound)
	assert.ErrorIs(t, svc.DeleteIncome(uuid.New(), income.ID), domain.ErrIncomeNotFound)
}
