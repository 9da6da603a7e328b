package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/centavoapp/centavo/centavo-backend/internal/domain"
	"github.com/centavoapp/centavo/centavo-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInstallmentFixture() (*InstallmentService, *testutil.MockInstallmentRepository, *testutil.MockExpenseRepository, *testutil.MockCategoryRepository, *testutil.MockEventPublisher, uuid.UUID) {
	installmentRepo := testutil.NewMockInstallmentRepository()
	expenseRepo := testutil.NewMockExpenseRepository()
	categoryRepo := testutil.NewMockCategoryRepository()
	publisher := testutil.NewMockEventPublisher()
	svc := NewInstallmentService(installmentRepo, expenseRepo, categoryRepo, publisher)

	userID := uuid.New()
	_, _ = categoryRepo.Create(&domain.Category{UserID: userID, Name: "Electronics", Color: "#3b82f6"})
	return svc, installmentRepo, expenseRepo, categoryRepo, publisher, userID
}

func TestMonthlyAmount(t *testing.T) {
	assert.Equal(t, "100", MonthlyAmount(decimal.NewFromInt(1200), 12).String())
	assert.Equal(t, "33.33", MonthlyAmount(decimal.NewFromInt(100), 3).String())
	assert.Equal(t, "0.33", MonthlyAmount(decimal.NewFromInt(1), 3).String())
}

func TestExpandInstallment_MonthlySchedule(t *testing.T) {
	installment := &domain.Installment{
		ID:            uuid.New(),
		UserID:        uuid.New(),
		Name:          "Laptop",
		TotalAmount:   decimal.NewFromInt(1200),
		Installments:  12,
		MonthlyAmount: MonthlyAmount(decimal.NewFromInt(1200), 12),
		StartDate:     time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Category:      "Electronics",
	}

	expenses := ExpandInstallment(installment)
	require.Len(t, expenses, 12)

	for i, expense := range expenses {
		assert.Equal(t, time.Month((i%12)+1), expense.Date.Month(), "payment %d month", i+1)
		assert.Equal(t, 15, expense.Date.Day(), "payment %d day", i+1)
		assert.Equal(t, "100", expense.Amount.String())
		assert.Equal(t, fmt.Sprintf("Laptop (%d/12)", i+1), expense.Description)
		assert.Equal(t, "Electronics", expense.Category)
		assert.True(t, expense.IsInstallment)
		require.NotNil(t, expense.InstallmentID)
		assert.Equal(t, installment.ID, *expense.InstallmentID)
	}
}

func TestExpandInstallment_ClampsShortMonths(t *testing.T) {
	installment := &domain.Installment{
		ID:            uuid.New(),
		UserID:        uuid.New(),
		Name:          "Headphones",
		TotalAmount:   decimal.NewFromInt(100),
		Installments:  3,
		MonthlyAmount: MonthlyAmount(decimal.NewFromInt(100), 3),
		StartDate:     time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		Category:      "Electronics",
	}

	expenses := ExpandInstallment(installment)
	require.Len(t, expenses, 3)

	// 2024 is a leap year; February clamps to the 29th and March recovers
	// the original day.
	assert.Equal(t, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), expenses[0].Date)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), expenses[1].Date)
	assert.Equal(t, time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), expenses[2].Date)
	for _, expense := range expenses {
		assert.Equal(t, "33.33", expense.Amount.String())
	}
}

func TestCreateInstallment_Success(t *testing.T) {
	svc, installmentRepo, expenseRepo, _, publisher, userID := newInstallmentFixture()

	parent, children, err := svc.CreateInstallment(userID, CreateInstallmentInput{
		Name:         "Laptop",
		TotalAmount:  decimal.NewFromInt(1200),
		Installments: 12,
		StartDate:    time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Category:     "Electronics",
	})
	require.NoError(t, err)
	require.NotNil(t, parent)
	assert.Equal(t, "100", parent.MonthlyAmount.String())
	assert.Len(t, children, 12)

	assert.Len(t, installmentRepo.Installments, 1)
	stored, err := expenseRepo.GetAllByUser(userID)
	require.NoError(t, err)
	assert.Len(t, stored, 12)

	// one installment event plus one per generated expense
	assert.Len(t, publisher.Events, 13)
}

func TestCreateInstallment_Validation(t *testing.T) {
	svc, _, _, _, _, userID := newInstallmentFixture()

	valid := CreateInstallmentInput{
		Name:         "Laptop",
		TotalAmount:  decimal.NewFromInt(1200),
		Installments: 12,
		StartDate:    time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Category:     "Electronics",
	}

	tests := []struct {
		name    string
		mutate  func(in *CreateInstallmentInput)
		wantErr error
	}{
		{"empty name", func(in *CreateInstallmentInput) { in.Name = "  " }, domain.ErrNameRequired},
		{"zero amount", func(in *CreateInstallmentInput) { in.TotalAmount = decimal.Zero }, domain.ErrInvalidAmount},
		{"negative amount", func(in *CreateInstallmentInput) { in.TotalAmount = decimal.NewFromInt(-5) }, domain.ErrInvalidAmount},
		{"zero count", func(in *CreateInstallmentInput) { in.Installments = 0 }, domain.ErrInvalidInstallmentCount},
		{"negative count", func(in *CreateInstallmentInput) { in.Installments = -1 }, domain.ErrInvalidInstallmentCount},
		{"zero date", func(in *CreateInstallmentInput) { in.StartDate = time.Time{} }, domain.ErrInvalidDate},
		{"empty category", func(in *CreateInstallmentInput) { in.Category = "" }, domain.ErrCategoryRequired},
		{"unknown category", func(in *CreateInstallmentInput) { in.Category = "Ghost" }, domain.ErrCategoryNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := valid
			tt.mutate(&input)
			_, _, err := svc.CreateInstallment(userID, input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCreateInstallment_PartialFailure(t *testing.T) {
	svc, installmentRepo, expenseRepo, _, publisher, userID := newInstallmentFixture()

	writeErr := errors.New("connection reset")
	expenseRepo.CreateFn = func(expense *domain.Expense) (*domain.Expense, error) {
		// payments 2 and 5 fail, the rest land
		if expense.Date.Month() == time.February || expense.Date.Month() == time.May {
			return nil, writeErr
		}
		expense.ID = uuid.New()
		return expense, nil
	}

	parent, children, err := svc.CreateInstallment(userID, CreateInstallmentInput{
		Name:         "Laptop",
		TotalAmount:  decimal.NewFromInt(1200),
		Installments: 12,
		StartDate:    time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Category:     "Electronics",
	})

	require.Error(t, err)
	assert.Nil(t, children)
	require.NotNil(t, parent, "parent survives a partial child failure")
	assert.Len(t, installmentRepo.Installments, 1)

	var partial *domain.PartialBatchError
	require.ErrorAs(t, err, &partial)
	assert.Equal(t, parent.ID, partial.InstallmentID)
	assert.Equal(t, []int{2, 5}, partial.FailedPayments)
	assert.ErrorIs(t, err, writeErr)

	// nothing announced while the batch is incomplete
	assert.Empty(t, publisher.Events)
}

func TestComputeInstallmentStatus_InProgress(t *testing.T) {
	installment := &domain.Installment{
		ID:            uuid.New(),
		UserID:        uuid.New(),
		Name:          "Laptop",
		TotalAmount:   decimal.NewFromInt(1200),
		Installments:  12,
		MonthlyAmount: decimal.NewFromInt(100),
		StartDate:     time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Category:      "Electronics",
	}
	related := ExpandInstallment(installment)

	today := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	status := ComputeInstallmentStatus(installment, related, today)

	assert.Equal(t, 2, status.PaidCount)
	assert.Equal(t, "200", status.TotalPaid.String())
	assert.Equal(t, 10, status.Remaining)
	assert.Equal(t, "1000", status.RemainingAmount.String())
	require.NotNil(t, status.NextPaymentDate)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), *status.NextPaymentDate)
	assert.Equal(t, domain.InstallmentInProgress, status.Label)
}

func TestComputeInstallmentStatus_PaymentTodayNotPaid(t *testing.T) {
	installment := &domain.Installment{
		ID:            uuid.New(),
		Installments:  3,
		MonthlyAmount: decimal.NewFromInt(50),
		StartDate:     time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
	}
	related := ExpandInstallment(installment)

	today := time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)
	status := ComputeInstallmentStatus(installment, related, today)

	assert.Equal(t, 1, status.PaidCount)
	require.NotNil(t, status.NextPaymentDate)
	assert.Equal(t, today, *status.NextPaymentDate)
	assert.Equal(t, domain.InstallmentInProgress, status.Label)
}

func TestComputeInstallmentStatus_Completed(t *testing.T) {
	installment := &domain.Installment{
		ID:            uuid.New(),
		Installments:  3,
		MonthlyAmount: decimal.NewFromInt(50),
		StartDate:     time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
	}
	related := ExpandInstallment(installment)

	today := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	status := ComputeInstallmentStatus(installment, related, today)

	assert.Equal(t, 3, status.PaidCount)
	assert.Equal(t, "150", status.TotalPaid.String())
	assert.Equal(t, 0, status.Remaining)
	assert.Equal(t, "0", status.RemainingAmount.String())
	assert.Nil(t, status.NextPaymentDate)
	assert.Equal(t, domain.InstallmentCompleted, status.Label)
}

func TestComputeInstallmentStatus_NoRelatedExpenses(t *testing.T) {
	installment := &domain.Installment{
		ID:            uuid.New(),
		Installments:  4,
		MonthlyAmount: decimal.NewFromInt(25),
		StartDate:     time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
	}

	status := ComputeInstallmentStatus(installment, nil, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))

	assert.Equal(t, 0, status.PaidCount)
	assert.Equal(t, 4, status.Remaining)
	assert.Equal(t, "100", status.RemainingAmount.String())
	assert.Nil(t, status.NextPaymentDate)
	assert.Equal(t, domain.InstallmentInProgress, status.Label)
}

func TestComputeInstallmentStatus_Monotonic(t *testing.T) {
	installment := &domain.Installment{
		ID:            uuid.New(),
		Installments:  6,
		MonthlyAmount: decimal.NewFromInt(20),
		StartDate:     time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
	}
	related := ExpandInstallment(installment)

	prevPaid := -1
	prevRemaining := installment.Installments + 1
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for day.Before(time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)) {
		status := ComputeInstallmentStatus(installment, related, day)
		assert.GreaterOrEqual(t, status.PaidCount, prevPaid, "paid count regressed at %s", day.Format("2006-01-02"))
		assert.LessOrEqual(t, status.Remaining, prevRemaining, "remaining grew at %s", day.Format("2006-01-02"))
		prevPaid = status.PaidCount
		prevRemaining = status.Remaining
		day = day.AddDate(0, 0, 1)
	}
	assert.Equal(t, installment.Installments, prevPaid)
	assert.Equal(t, 0, prevRemaining)
}

func TestUpcoming_FiltersAndOrders(t *testing.T) {
	svc, installmentRepo, expenseRepo, _, _, userID := newInstallmentFixture()

	today := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	seed := func(name string, start time.Time, count int) *domain.Installment {
		parent, _ := installmentRepo.Create(&domain.Installment{
			UserID:        userID,
			Name:          name,
			TotalAmount:   decimal.NewFromInt(int64(count * 10)),
			Installments:  count,
			MonthlyAmount: decimal.NewFromInt(10),
			StartDate:     start,
			Category:      "Electronics",
		})
		for _, child := range ExpandInstallment(parent) {
			_, _ = expenseRepo.Create(child)
		}
		return parent
	}

	later := seed("Later", time.Date(2024, 2, 20, 0, 0, 0, 0, time.UTC), 6)
	sooner := seed("Sooner", time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), 6)
	seed("Done", time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), 2)

	// an installment whose expenses were all removed is not upcoming
	orphan, _ := installmentRepo.Create(&domain.Installment{
		UserID:        userID,
		Name:          "Orphan",
		Installments:  4,
		MonthlyAmount: decimal.NewFromInt(10),
		StartDate:     time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		Category:      "Electronics",
	})
	_ = orphan

	upcoming, err := svc.Upcoming(userID, today, 5)
	require.NoError(t, err)
	require.Len(t, upcoming, 2)
	assert.Equal(t, sooner.ID, upcoming[0].Installment.ID)
	assert.Equal(t, later.ID, upcoming[1].Installment.ID)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), *upcoming[0].Status.NextPaymentDate)

	limited, err := svc.Upcoming(userID, today, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, sooner.ID, limited[0].Installment.ID)
}
