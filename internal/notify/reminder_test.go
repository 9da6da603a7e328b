package notify

import (
	"errors"
	"testing"
	"time"

	"github.com/centavoapp/centavo/centavo-backend/internal/domain"
	"github.com/centavoapp/centavo/centavo-backend/internal/service"
	"github.com/centavoapp/centavo/centavo-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedReminder struct {
	To              string
	InstallmentName string
	PaymentDate     time.Time
}

type fakeMailer struct {
	sent []recordedReminder
	fail bool
}

func (f *fakeMailer) SendPaymentReminder(to, installmentName string, paymentDate time.Time, amount decimal.Decimal, remaining int) error {
	if f.fail {
		return errors.New("smtp unavailable")
	}
	f.sent = append(f.sent, recordedReminder{To: to, InstallmentName: installmentName, PaymentDate: paymentDate})
	return nil
}

func seedUserWithInstallment(t *testing.T, userRepo *testutil.MockUserRepository, installmentRepo *testutil.MockInstallmentRepository, expenseRepo *testutil.MockExpenseRepository, email, name string, start time.Time) uuid.UUID {
	t.Helper()
	user, err := userRepo.CreateOrGetByAuth0ID("auth0|"+email, email, nil)
	require.NoError(t, err)

	parent, err := installmentRepo.Create(&domain.Installment{
		UserID:        user.ID,
		Name:          name,
		TotalAmount:   decimal.NewFromInt(120),
		Installments:  12,
		MonthlyAmount: decimal.NewFromInt(10),
		StartDate:     start,
		Category:      "Electronics",
	})
	require.NoError(t, err)
	for _, child := range service.ExpandInstallment(parent) {
		_, err := expenseRepo.Create(child)
		require.NoError(t, err)
	}
	return user.ID
}

func TestReminder_SendsOnlyInsideWindow(t *testing.T) {
	userRepo := testutil.NewMockUserRepository()
	installmentRepo := testutil.NewMockInstallmentRepository()
	expenseRepo := testutil.NewMockExpenseRepository()
	categoryRepo := testutil.NewMockCategoryRepository()
	publisher := testutil.NewMockEventPublisher()
	installmentService := service.NewInstallmentService(installmentRepo, expenseRepo, categoryRepo, publisher)

	now := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

	// next payment 2024-03-02, inside a 3 day window
	seedUserWithInstallment(t, userRepo, installmentRepo, expenseRepo, "due@example.com", "Laptop", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
	// next payment 2024-03-15, outside the window
	seedUserWithInstallment(t, userRepo, installmentRepo, expenseRepo, "later@example.com", "Phone", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))

	mailer := &fakeMailer{}
	reminder := NewReminder(userRepo, installmentService, mailer, 3)
	reminder.Run(now)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "due@example.com", mailer.sent[0].To)
	assert.Equal(t, "Laptop", mailer.sent[0].InstallmentName)
	assert.Equal(t, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), mailer.sent[0].PaymentDate)
}

func TestReminder_MailFailureDoesNotAbortSweep(t *testing.T) {
	userRepo := testutil.NewMockUserRepository()
	installmentRepo := testutil.NewMockInstallmentRepository()
	expenseRepo := testutil.NewMockExpenseRepository()
	installmentService := service.NewInstallmentService(installmentRepo, expenseRepo, testutil.NewMockCategoryRepository(), testutil.NewMockEventPublisher())

	now := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	seedUserWithInstallment(t, userRepo, installmentRepo, expenseRepo, "a@example.com", "Laptop", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))

	mailer := &fakeMailer{fail: true}
	reminder := NewReminder(userRepo, installmentService, mailer, 3)

	assert.NotPanics(t, func() { reminder.Run(now) })
	assert.Empty(t, mailer.sent)
}
