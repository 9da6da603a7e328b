package service

import (
	"time"

	"github.com/centavoapp/centavo/centavo-backend/internal/domain"
	"github.com/centavoapp/centavo/centavo-backend/internal/util"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// MonthService aggregates the user's ledger by calendar month
type MonthService struct {
	incomeRepo      domain.IncomeRepository
	expenseRepo     domain.ExpenseRepository
	installmentRepo domain.InstallmentRepository
	categoryRepo    domain.CategoryRepository
}

// NewMonthService creates a new MonthService
func NewMonthService(
	incomeRepo domain.IncomeRepository,
	expenseRepo domain.ExpenseRepository,
	installmentRepo domain.InstallmentRepository,
	categoryRepo domain.CategoryRepository,
) *MonthService {
	return &MonthService{
		incomeRepo:      incomeRepo,
		expenseRepo:     expenseRepo,
		installmentRepo: installmentRepo,
		categoryRepo:    categoryRepo,
	}
}

// LoadLedger fetches all four collections concurrently. A failed read logs a
// warning and degrades that collection to empty rather than blanking the
// whole ledger: the other collections still render.
func (s *MonthService) LoadLedger(userID uuid.UUID) *domain.Ledger {
	ledger := &domain.Ledger{
		Incomes:      []*domain.Income{},
		Expenses:     []*domain.Expense{},
		Installments: []*domain.Installment{},
		Categories:   []*domain.Category{},
	}

	var g errgroup.Group
	g.Go(func() error {
		incomes, err := s.incomeRepo.GetAllByUser(userID)
		if err != nil {
			log.Warn().Err(err).Str("user_id", userID.String()).Msg("Failed to load incomes, using empty set")
			return nil
		}
		ledger.Incomes = incomes
		return nil
	})
	g.Go(func() error {
		expenses, err := s.expenseRepo.GetAllByUser(userID)
		if err != nil {
			log.Warn().Err(err).Str("user_id", userID.String()).Msg("Failed to load expenses, using empty set")
			return nil
		}
		ledger.Expenses = expenses
		return nil
	})
	g.Go(func() error {
		installments, err := s.installmentRepo.GetAllByUser(userID)
		if err != nil {
			log.Warn().Err(err).Str("user_id", userID.String()).Msg("Failed to load installments, using empty set")
			return nil
		}
		ledger.Installments = installments
		return nil
	})
	g.Go(func() error {
		categories, err := s.categoryRepo.GetAllByUser(userID)
		if err != nil {
			log.Warn().Err(err).Str("user_id", userID.String()).Msg("Failed to load categories, using empty set")
			return nil
		}
		ledger.Categories = categories
		return nil
	})
	_ = g.Wait()

	return ledger
}

// GetMonthlyTotals returns the income and expense totals for a "YYYY-MM" month
func (s *MonthService) GetMonthlyTotals(userID uuid.UUID, month string) (domain.MonthlyTotals, error) {
	if _, _, err := util.ParseMonthKey(month); err != nil {
		return domain.MonthlyTotals{}, domain.ErrInvalidMonthKey
	}
	return s.LoadLedger(userID).TotalsForMonth(month), nil
}

// GetAvailableMonths returns every month that has data, plus the current
// month, sorted ascending
func (s *MonthService) GetAvailableMonths(userID uuid.UUID, now time.Time) []string {
	return s.LoadLedger(userID).AvailableMonths(now)
}

// GetSnapshot returns the incomes, expenses, and installments of one month
func (s *MonthService) GetSnapshot(userID uuid.UUID, month string) (*domain.MonthlySnapshot, error) {
	if _, _, err := util.ParseMonthKey(month); err != nil {
		return nil, domain.ErrInvalidMonthKey
	}
	return s.LoadLedger(userID).SnapshotForMonth(month), nil
}

// GetCategoryTotals returns the per-category expense totals for one month,
// in the user's category order, omitting categories with nothing spent
func (s *MonthService) GetCategoryTotals(userID uuid.UUID, month string) ([]domain.CategoryTotal, error) {
	if _, _, err := util.ParseMonthKey(month); err != nil {
		return nil, domain.ErrInvalidMonthKey
	}
	return s.LoadLedger(userID).CategoryTotals(month), nil
}
