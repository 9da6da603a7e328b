package service

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/centavoapp/centavo/centavo-backend/internal/domain"
	"github.com/centavoapp/centavo/centavo-backend/internal/util"
	"github.com/centavoapp/centavo/centavo-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// InstallmentService handles installment purchases: expanding them into
// monthly expenses and deriving payment status.
type InstallmentService struct {
	installmentRepo domain.InstallmentRepository
	expenseRepo     domain.ExpenseRepository
	categoryRepo    domain.CategoryRepository
	publisher       websocket.EventPublisher
}

// NewInstallmentService creates a new InstallmentService
func NewInstallmentService(
	installmentRepo domain.InstallmentRepository,
	expenseRepo domain.ExpenseRepository,
	categoryRepo domain.CategoryRepository,
	publisher websocket.EventPublisher,
) *InstallmentService {
	return &InstallmentService{
		installmentRepo: installmentRepo,
		expenseRepo:     expenseRepo,
		categoryRepo:    categoryRepo,
		publisher:       publisher,
	}
}

// CreateInstallmentInput holds the input for creating an installment purchase
type CreateInstallmentInput struct {
	Name         string
	TotalAmount  decimal.Decimal
	Installments int
	StartDate    time.Time
	Category     string
}

// MonthlyAmount is the per-payment amount: total divided by count, rounded to
// two decimals. MonthlyAmount * count may drift from the total by the rounding
// remainder; that drift is part of the contract.
func MonthlyAmount(total decimal.Decimal, count int) decimal.Decimal {
	return total.Div(decimal.NewFromInt(int64(count))).Round(2)
}

// ExpandInstallment generates the N child expenses for an installment, one
// per month starting at the start date. The day of month is preserved; months
// too short for it clamp to their last day.
func ExpandInstallment(installment *domain.Installment) []*domain.Expense {
	installmentID := installment.ID
	expenses := make([]*domain.Expense, 0, installment.Installments)
	for index := 0; index < installment.Installments; index++ {
		expenses = append(expenses, &domain.Expense{
			UserID:        installment.UserID,
			Date:          util.AddMonthsClamped(installment.StartDate, index),
			Amount:        installment.MonthlyAmount,
			Category:      installment.Category,
			Description:   fmt.Sprintf("%s (%d/%d)", installment.Name, index+1, installment.Installments),
			IsInstallment: true,
			InstallmentID: &installmentID,
		})
	}
	return expenses
}

// CreateInstallment creates the parent installment record and fans out its
// child expenses. The parent is written first and confirmed; the children are
// then written in parallel. When some children fail after the parent exists,
// the error is a *domain.PartialBatchError naming the parent and the missing
// payment numbers so the caller can reconcile instead of re-running the whole
// batch.
func (s *InstallmentService) CreateInstallment(userID uuid.UUID, input CreateInstallmentInput) (*domain.Installment, []*domain.Expense, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxNameLength {
		return nil, nil, domain.ErrNameTooLong
	}
	if input.TotalAmount.LessThanOrEqual(decimal.Zero) {
		return nil, nil, domain.ErrInvalidAmount
	}
	if input.Installments <= 0 {
		return nil, nil, domain.ErrInvalidInstallmentCount
	}
	if input.StartDate.IsZero() {
		return nil, nil, domain.ErrInvalidDate
	}
	if strings.TrimSpace(input.Category) == "" {
		return nil, nil, domain.ErrCategoryRequired
	}
	if _, err := s.categoryRepo.GetByName(userID, input.Category); err != nil {
		return nil, nil, err
	}

	installment := &domain.Installment{
		UserID:           userID,
		Name:             name,
		TotalAmount:      input.TotalAmount,
		Installments:     input.Installments,
		MonthlyAmount:    MonthlyAmount(input.TotalAmount, input.Installments),
		PaidInstallments: 0,
		StartDate:        input.StartDate,
		Category:         input.Category,
	}

	parent, err := s.installmentRepo.Create(installment)
	if err != nil {
		return nil, nil, err
	}

	children := ExpandInstallment(parent)

	// Children are independent rows; write them in parallel and collect
	// every outcome so a partial failure can name what is missing.
	created := make([]*domain.Expense, len(children))
	errs := make([]error, len(children))
	var wg sync.WaitGroup
	for i, child := range children {
		wg.Add(1)
		go func(i int, child *domain.Expense) {
			defer wg.Done()
			created[i], errs[i] = s.expenseRepo.Create(child)
		}(i, child)
	}
	wg.Wait()

	var failedPayments []int
	var failures []error
	for i, err := range errs {
		if err != nil {
			failedPayments = append(failedPayments, i+1)
			failures = append(failures, err)
		}
	}

	if len(failedPayments) > 0 {
		log.Error().
			Str("installment_id", parent.ID.String()).
			Ints("failed_payments", failedPayments).
			Msg("Installment expansion partially failed")
		return parent, nil, &domain.PartialBatchError{
			InstallmentID:  parent.ID,
			FailedPayments: failedPayments,
			Errs:           failures,
		}
	}

	s.publisher.Publish(userID, websocket.InstallmentCreated(parent))
	for _, expense := range created {
		s.publisher.Publish(userID, websocket.ExpenseCreated(expense))
	}

	return parent, created, nil
}

// InstallmentWithStatus pairs an installment with its derived payment status
type InstallmentWithStatus struct {
	Installment *domain.Installment
	Status      domain.InstallmentStatus
}

// ListWithStatus returns every installment with its status against today,
// ordered soonest next payment first; installments without a next payment
// sort last.
func (s *InstallmentService) ListWithStatus(userID uuid.UUID, today time.Time) ([]*InstallmentWithStatus, error) {
	installments, err := s.installmentRepo.GetAllByUser(userID)
	if err != nil {
		return nil, err
	}
	expenses, err := s.expenseRepo.GetAllByUser(userID)
	if err != nil {
		return nil, err
	}

	byParent := groupByInstallment(expenses)
	result := make([]*InstallmentWithStatus, 0, len(installments))
	for _, installment := range installments {
		result = append(result, &InstallmentWithStatus{
			Installment: installment,
			Status:      ComputeInstallmentStatus(installment, byParent[installment.ID], today),
		})
	}
	sortByNextPayment(result)
	return result, nil
}

// Upcoming returns the pending installments with the soonest next payments.
// Fully paid installments are excluded, as are installments whose generated
// expenses were all deleted: with nothing left to pay they are treated as
// resolved.
func (s *InstallmentService) Upcoming(userID uuid.UUID, today time.Time, limit int) ([]*InstallmentWithStatus, error) {
	installments, err := s.installmentRepo.GetAllByUser(userID)
	if err != nil {
		return nil, err
	}
	expenses, err := s.expenseRepo.GetAllByUser(userID)
	if err != nil {
		return nil, err
	}

	upcoming := UpcomingInstallments(installments, expenses, today)
	if limit > 0 && len(upcoming) > limit {
		upcoming = upcoming[:limit]
	}
	return upcoming, nil
}

// ComputeInstallmentStatus derives the payment progress of an installment
// from its related expenses and a reference date. Comparison is by calendar
// day; a payment dated today is not yet paid.
func ComputeInstallmentStatus(installment *domain.Installment, related []*domain.Expense, today time.Time) domain.InstallmentStatus {
	sorted := make([]*domain.Expense, len(related))
	copy(sorted, related)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	day := dateOnly(today)

	paidCount := 0
	totalPaid := decimal.Zero
	var nextPaymentDate *time.Time
	for _, expense := range sorted {
		expenseDay := dateOnly(expense.Date)
		if expenseDay.Before(day) {
			paidCount++
			totalPaid = totalPaid.Add(expense.Amount)
		} else if nextPaymentDate == nil {
			next := expense.Date
			nextPaymentDate = &next
		}
	}

	remaining := installment.Installments - paidCount
	if remaining < 0 {
		remaining = 0
	}
	remainingAmount := installment.MonthlyAmount.Mul(decimal.NewFromInt(int64(remaining))).Round(2)

	label := domain.InstallmentInProgress
	if remaining == 0 {
		label = domain.InstallmentCompleted
	} else if nextPaymentDate != nil && dateOnly(*nextPaymentDate).Before(day) {
		label = domain.InstallmentOverdue
	}

	return domain.InstallmentStatus{
		PaidCount:       paidCount,
		TotalPaid:       totalPaid,
		Remaining:       remaining,
		RemainingAmount: remainingAmount,
		NextPaymentDate: nextPaymentDate,
		Label:           label,
	}
}

// UpcomingInstallments filters and orders installments that still have
// payments ahead of today. Installments with zero related expenses are
// skipped entirely.
func UpcomingInstallments(installments []*domain.Installment, expenses []*domain.Expense, today time.Time) []*InstallmentWithStatus {
	byParent := groupByInstallment(expenses)

	upcoming := make([]*InstallmentWithStatus, 0, len(installments))
	for _, installment := range installments {
		related := byParent[installment.ID]
		if len(related) == 0 {
			continue
		}
		status := ComputeInstallmentStatus(installment, related, today)
		if status.Remaining == 0 {
			continue
		}
		upcoming = append(upcoming, &InstallmentWithStatus{Installment: installment, Status: status})
	}
	sortByNextPayment(upcoming)
	return upcoming
}

func groupByInstallment(expenses []*domain.Expense) map[uuid.UUID][]*domain.Expense {
	byParent := make(map[uuid.UUID][]*domain.Expense)
	for _, expense := range expenses {
		if expense.InstallmentID == nil {
			continue
		}
		byParent[*expense.InstallmentID] = append(byParent[*expense.InstallmentID], expense)
	}
	return byParent
}

func sortByNextPayment(items []*InstallmentWithStatus) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].Status.NextPaymentDate, items[j].Status.NextPaymentDate
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return a.Before(*b)
	})
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
