package service

import (
	"encoding/json"
	"time"

	"github.com/centavoapp/centavo/centavo-backend/internal/domain"
	"github.com/centavoapp/centavo/centavo-backend/internal/util"
	"github.com/centavoapp/centavo/centavo-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// BackupService exports and imports a user's complete ledger
type BackupService struct {
	monthService    *MonthService
	incomeRepo      domain.IncomeRepository
	expenseRepo     domain.ExpenseRepository
	installmentRepo domain.InstallmentRepository
	categoryRepo    domain.CategoryRepository
	publisher       websocket.EventPublisher
}

// NewBackupService creates a new BackupService
func NewBackupService(
	monthService *MonthService,
	incomeRepo domain.IncomeRepository,
	expenseRepo domain.ExpenseRepository,
	installmentRepo domain.InstallmentRepository,
	categoryRepo domain.CategoryRepository,
	publisher websocket.EventPublisher,
) *BackupService {
	return &BackupService{
		monthService:    monthService,
		incomeRepo:      incomeRepo,
		expenseRepo:     expenseRepo,
		installmentRepo: installmentRepo,
		categoryRepo:    categoryRepo,
		publisher:       publisher,
	}
}

// Export builds the versioned backup document: categories plus the ledger
// partitioned by month key. Records with no usable date land under the
// current month rather than being dropped.
func (s *BackupService) Export(userID uuid.UUID, now time.Time) *domain.BackupDocument {
	ledger := s.monthService.LoadLedger(userID)

	monthly := make(map[string]*domain.MonthlySnapshot)
	bucket := func(month string) *domain.MonthlySnapshot {
		snapshot, ok := monthly[month]
		if !ok {
			snapshot = &domain.MonthlySnapshot{
				Incomes:      []*domain.Income{},
				Expenses:     []*domain.Expense{},
				Installments: []*domain.Installment{},
			}
			monthly[month] = snapshot
		}
		return snapshot
	}

	for _, income := range ledger.Incomes {
		snapshot := bucket(util.MonthKeyOf(income.Date, now))
		snapshot.Incomes = append(snapshot.Incomes, income)
	}
	for _, expense := range ledger.Expenses {
		snapshot := bucket(util.MonthKeyOf(expense.Date, now))
		snapshot.Expenses = append(snapshot.Expenses, expense)
	}
	for _, installment := range ledger.Installments {
		snapshot := bucket(util.MonthKeyOf(installment.StartDate, now))
		snapshot.Installments = append(snapshot.Installments, installment)
	}

	return &domain.BackupDocument{
		Version:     domain.BackupVersion,
		Categories:  ledger.Categories,
		MonthlyData: monthly,
	}
}

// ParseBackup decodes a backup payload, accepting both the current versioned
// document and the legacy flat shape. Legacy records are bucketed under the
// month key of their date.
func ParseBackup(data []byte, now time.Time) (*domain.BackupDocument, error) {
	var doc domain.BackupDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, domain.ErrInvalidBackupFormat
	}

	if doc.Version >= domain.BackupVersion && doc.MonthlyData != nil {
		return &doc, nil
	}

	var legacy domain.LegacyBackup
	if err := json.Unmarshal(data, &legacy); err != nil {
		return nil, domain.ErrInvalidBackupFormat
	}
	if legacy.Categories == nil && legacy.Incomes == nil && legacy.Expenses == nil && legacy.Installments == nil {
		return nil, domain.ErrInvalidBackupFormat
	}

	migrated := &domain.BackupDocument{
		Version:     domain.BackupVersion,
		Categories:  legacy.Categories,
		MonthlyData: make(map[string]*domain.MonthlySnapshot),
	}
	bucket := func(month string) *domain.MonthlySnapshot {
		snapshot, ok := migrated.MonthlyData[month]
		if !ok {
			snapshot = &domain.MonthlySnapshot{
				Incomes:      []*domain.Income{},
				Expenses:     []*domain.Expense{},
				Installments: []*domain.Installment{},
			}
			migrated.MonthlyData[month] = snapshot
		}
		return snapshot
	}
	for _, income := range legacy.Incomes {
		snapshot := bucket(util.MonthKeyOf(income.Date, now))
		snapshot.Incomes = append(snapshot.Incomes, income)
	}
	for _, expense := range legacy.Expenses {
		snapshot := bucket(util.MonthKeyOf(expense.Date, now))
		snapshot.Expenses = append(snapshot.Expenses, expense)
	}
	for _, installment := range legacy.Installments {
		snapshot := bucket(util.MonthKeyOf(installment.StartDate, now))
		snapshot.Installments = append(snapshot.Installments, installment)
	}
	return migrated, nil
}

// Import replaces the user's ledger with the backup's contents. Existing data
// is wiped first; imported records get fresh IDs, and expense back-references
// to installments are rewired to the new installment IDs.
func (s *BackupService) Import(userID uuid.UUID, data []byte, now time.Time) error {
	doc, err := ParseBackup(data, now)
	if err != nil {
		return err
	}

	if err := s.wipe(userID); err != nil {
		return err
	}

	for _, category := range doc.Categories {
		_, err := s.categoryRepo.Create(&domain.Category{
			UserID: userID,
			Name:   category.Name,
			Color:  category.Color,
			Icon:   category.Icon,
		})
		if err != nil && err != domain.ErrCategoryNameTaken {
			return err
		}
	}

	installmentIDs := make(map[uuid.UUID]uuid.UUID)
	for _, snapshot := range doc.MonthlyData {
		for _, installment := range snapshot.Installments {
			created, err := s.installmentRepo.Create(&domain.Installment{
				UserID:           userID,
				Name:             installment.Name,
				TotalAmount:      installment.TotalAmount,
				Installments:     installment.Installments,
				MonthlyAmount:    installment.MonthlyAmount,
				PaidInstallments: installment.PaidInstallments,
				StartDate:        installment.StartDate,
				Category:         installment.Category,
			})
			if err != nil {
				return err
			}
			installmentIDs[installment.ID] = created.ID
		}
	}

	for month, snapshot := range doc.MonthlyData {
		for _, income := range snapshot.Incomes {
			_, err := s.incomeRepo.Create(&domain.Income{
				UserID:      userID,
				Date:        income.Date,
				Amount:      income.Amount,
				Description: income.Description,
			})
			if err != nil {
				return err
			}
		}
		for _, expense := range snapshot.Expenses {
			var installmentID *uuid.UUID
			if expense.InstallmentID != nil {
				if mapped, ok := installmentIDs[*expense.InstallmentID]; ok {
					installmentID = &mapped
				} else {
					log.Warn().
						Str("month", month).
						Str("installment_id", expense.InstallmentID.String()).
						Msg("Imported expense references an installment missing from the backup")
				}
			}
			_, err := s.expenseRepo.Create(&domain.Expense{
				UserID:        userID,
				Date:          expense.Date,
				Amount:        expense.Amount,
				Category:      expense.Category,
				Description:   expense.Description,
				IsInstallment: expense.IsInstallment,
				InstallmentID: installmentID,
			})
			if err != nil {
				return err
			}
		}
	}

	s.publisher.Publish(userID, websocket.LedgerImported(map[string]int{
		"months":     len(doc.MonthlyData),
		"categories": len(doc.Categories),
	}))
	return nil
}

// Reset wipes everything the user owns
func (s *BackupService) Reset(userID uuid.UUID) error {
	if err := s.wipe(userID); err != nil {
		return err
	}
	s.publisher.Publish(userID, websocket.LedgerReset(nil))
	return nil
}

func (s *BackupService) wipe(userID uuid.UUID) error {
	if err := s.expenseRepo.DeleteAllByUser(userID); err != nil {
		return err
	}
	if err := s.incomeRepo.DeleteAllByUser(userID); err != nil {
		return err
	}
	if err := s.installmentRepo.DeleteAllByUser(userID); err != nil {
		return err
	}
	return s.categoryRepo.DeleteAllByUser(userID)
}
