package service

import (
	"encoding/json"
	"testing"

	"github.com/centavoapp/centavo/centavo-backend/internal/domain"
	"github.com/centavoapp/centavo/centavo-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBackupFixture() (*BackupService, *testutil.MockIncomeRepository, *testutil.MockExpenseRepository, *testutil.MockInstallmentRepository, *testutil.MockCategoryRepository, *testutil.MockEventPublisher, uuid.UUID) {
	incomeRepo := testutil.NewMockIncomeRepository()
	expenseRepo := testutil.NewMockExpenseRepository()
	installmentRepo := testutil.NewMockInstallmentRepository()
	categoryRepo := testutil.NewMockCategoryRepository()
	publisher := testutil.NewMockEventPublisher()
	monthService := NewMonthService(incomeRepo, expenseRepo, installmentRepo, categoryRepo)
	svc := NewBackupService(monthService, incomeRepo, expenseRepo, installmentRepo, categoryRepo, publisher)
	return svc, incomeRepo, expenseRepo, installmentRepo, categoryRepo, publisher, uuid.New()
}

func TestBackup_ExportPartitionsByMonth(t *testing.T) {
	svc, incomeRepo, expenseRepo, installmentRepo, categoryRepo, _, userID := newBackupFixture()

	_, _ = categoryRepo.Create(&domain.Category{UserID: userID, Name: "Food", Color: "#ef4444"})
	_, _ = incomeRepo.Create(&domain.Income{UserID: userID, Date: date("2024-03-01"), Amount: decimal.NewFromInt(3000), Description: "Salary"})
	_, _ = expenseRepo.Create(&domain.Expense{UserID: userID, Date: date("2024-03-10"), Amount: decimal.NewFromInt(80), Category: "Food", Description: "Groceries"})
	_, _ = expenseRepo.Create(&domain.Expense{UserID: userID, Date: date("2024-04-02"), Amount: decimal.NewFromInt(40), Category: "Food", Description: "More groceries"})
	_, _ = installmentRepo.Create(&domain.Installment{UserID: userID, Name: "TV", TotalAmount: decimal.NewFromInt(600), Installments: 6, MonthlyAmount: decimal.NewFromInt(100), StartDate: date("2024-02-15"), Category: "Food"})

	doc := svc.Export(userID, date("2024-05-01"))

	assert.Equal(t, domain.BackupVersion, doc.Version)
	assert.Len(t, doc.Categories, 1)
	require.Len(t, doc.MonthlyData, 3)
	assert.Len(t, doc.MonthlyData["2024-03"].Incomes, 1)
	assert.Len(t, doc.MonthlyData["2024-03"].Expenses, 1)
	assert.Len(t, doc.MonthlyData["2024-04"].Expenses, 1)
	assert.Len(t, doc.MonthlyData["2024-02"].Installments, 1)
}

func TestBackup_ParseVersionedDocument(t *testing.T) {
	payload := []byte(`{
		"version": 2,
		"categories": [{"name": "Food", "color": "#ef4444"}],
		"monthlyData": {
			"2024-03": {
				"incomes": [{"date": "2024-03-01T00:00:00Z", "amount": "3000", "description": "Salary"}],
				"expenses": [],
				"installments": []
			}
		}
	}`)

	doc, err := ParseBackup(payload, date("2024-05-01"))

	require.NoError(t, err)
	assert.Equal(t, 2, doc.Version)
	require.Contains(t, doc.MonthlyData, "2024-03")
	require.Len(t, doc.MonthlyData["2024-03"].Incomes, 1)
	assert.Equal(t, "3000", doc.MonthlyData["2024-03"].Incomes[0].Amount.String())
}

func TestBackup_ParseLegacyFlatShape(t *testing.T) {
	payload := []byte(`{
		"categories": [{"name": "Food", "color": "#ef4444"}],
		"incomes": [
			{"date": "2024-03-01T00:00:00Z", "amount": "3000", "description": "Salary"},
			{"date": "2024-04-01T00:00:00Z", "amount": "3000", "description": "Salary"}
		],
		"expenses": [{"date": "2024-03-10T00:00:00Z", "amount": "80", "category": "Food", "description": "Groceries"}],
		"installments": []
	}`)

	doc, err := ParseBackup(payload, date("2024-05-01"))

	require.NoError(t, err)
	assert.Equal(t, domain.BackupVersion, doc.Version, "legacy imports are upgraded")
	assert.Len(t, doc.Categories, 1)
	require.Len(t, doc.MonthlyData, 2)
	assert.Len(t, doc.MonthlyData["2024-03"].Incomes, 1)
	assert.Len(t, doc.MonthlyData["2024-03"].Expenses, 1)
	assert.Len(t, doc.MonthlyData["2024-04"].Incomes, 1)
}

func TestBackup_ParseLegacy_ZeroDateFallsBackToCurrentMonth(t *testing.T) {
	payload := []byte(`{
		"incomes": [{"amount": "50", "description": "No date"}]
	}`)

	doc, err := ParseBackup(payload, date("2024-05-09"))

	require.NoError(t, err)
	require.Contains(t, doc.MonthlyData, "2024-05")
	assert.Len(t, doc.MonthlyData["2024-05"].Incomes, 1)
}

func TestBackup_ParseRejectsGarbage(t *testing.T) {
	for _, payload := range []string{`not json`, `[]`, `{}`, `{"version": 1}`} {
		_, err := ParseBackup([]byte(payload), date("2024-05-01"))
		assert.ErrorIs(t, err, domain.ErrInvalidBackupFormat, "payload %q", payload)
	}
}

func TestBackup_ImportReplacesExistingData(t *testing.T) {
	svc, incomeRepo, expenseRepo, _, categoryRepo, publisher, userID := newBackupFixture()

	_, _ = categoryRepo.Create(&domain.Category{UserID: userID, Name: "Old", Color: "#000000"})
	_, _ = incomeRepo.Create(&domain.Income{UserID: userID, Date: date("2023-01-01"), Amount: decimal.NewFromInt(1), Description: "stale"})

	payload := []byte(`{
		"version": 2,
		"categories": [{"name": "Food", "color": "#ef4444"}],
		"monthlyData": {
			"2024-03": {
				"incomes": [{"date": "2024-03-01T00:00:00Z", "amount": "3000", "description": "Salary"}],
				"expenses": [{"date": "2024-03-10T00:00:00Z", "amount": "80", "category": "Food", "description": "Groceries"}],
				"installments": []
			}
		}
	}`)

	require.NoError(t, svc.Import(userID, payload, date("2024-05-01")))

	categories, _ := categoryRepo.GetAllByUser(userID)
	require.Len(t, categories, 1)
	assert.Equal(t, "Food", categories[0].Name)

	incomes, _ := incomeRepo.GetAllByUser(userID)
	require.Len(t, incomes, 1)
	assert.Equal(t, "Salary", incomes[0].Description)

	expenses, _ := expenseRepo.GetAllByUser(userID)
	assert.Len(t, expenses, 1)

	require.Len(t, publisher.Events, 1)
	assert.Equal(t, "ledger.imported", publisher.Events[0].Event.Type)
}

func TestBackup_ImportRewiresInstallmentReferences(t *testing.T) {
	svc, _, expenseRepo, installmentRepo, _, _, userID := newBackupFixture()

	oldID := uuid.New()
	doc := map[string]interface{}{
		"version":    2,
		"categories": []map[string]string{{"name": "Electronics", "color": "#3b82f6"}},
		"monthlyData": map[string]interface{}{
			"2024-01": map[string]interface{}{
				"incomes": []interface{}{},
				"expenses": []map[string]interface{}{{
					"date":          "2024-01-15T00:00:00Z",
					"amount":        "100",
					"category":      "Electronics",
					"description":   "Laptop (1/12)",
					"isInstallment": true,
					"installmentId": oldID.String(),
				}},
				"installments": []map[string]interface{}{{
					"id":            oldID.String(),
					"name":          "Laptop",
					"totalAmount":   "1200",
					"installments":  12,
					"monthlyAmount": "100",
					"startDate":     "2024-01-15T00:00:00Z",
					"category":      "Electronics",
				}},
			},
		},
	}
	payload, err := json.Marshal(doc)
	require.NoError(t, err)

	require.NoError(t, svc.Import(userID, payload, date("2024-05-01")))

	installments, _ := installmentRepo.GetAllByUser(userID)
	require.Len(t, installments, 1)
	assert.NotEqual(t, oldID, installments[0].ID, "imports get fresh ids")

	expenses, _ := expenseRepo.GetAllByUser(userID)
	require.Len(t, expenses, 1)
	require.NotNil(t, expenses[0].InstallmentID)
	assert.Equal(t, installments[0].ID, *expenses[0].InstallmentID)
}

func TestBackup_ExportImportRoundTrip(t *testing.T) {
	svc, incomeRepo, expenseRepo, _, categoryRepo, _, userID := newBackupFixture()

	_, _ = categoryRepo.Create(&domain.Category{UserID: userID, Name: "Food", Color: "#ef4444"})
	_, _ = incomeRepo.Create(&domain.Income{UserID: userID, Date: date("2024-03-01"), Amount: decimal.NewFromInt(3000), Description: "Salary"})
	_, _ = expenseRepo.Create(&domain.Expense{UserID: userID, Date: date("2024-03-10"), Amount: decimal.NewFromInt(80), Category: "Food", Description: "Groceries"})

	now := date("2024-05-01")
	payload, err := json.Marshal(svc.Export(userID, now))
	require.NoError(t, err)

	require.NoError(t, svc.Import(userID, payload, now))

	restored := svc.Export(userID, now)
	assert.Len(t, restored.Categories, 1)
	require.Contains(t, restored.MonthlyData, "2024-03")
	assert.Equal(t, "3000", restored.MonthlyData["2024-03"].Incomes[0].Amount.String())
	assert.Equal(t, "80", restored.MonthlyData["2024-03"].Expenses[0].Amount.String())
}

func TestBackup_Reset(t *testing.T) {
	svc, incomeRepo, expenseRepo, installmentRepo, categoryRepo, publisher, userID := newBackupFixture()

	_, _ = categoryRepo.Create(&domain.Category{UserID: userID, Name: "Food", Color: "#ef4444"})
	_, _ = incomeRepo.Create(&domain.Income{UserID: userID, Date: date("2024-03-01"), Amount: decimal.NewFromInt(1), Description: "x"})
	_, _ = expenseRepo.Create(&domain.Expense{UserID: userID, Date: date("2024-03-01"), Amount: decimal.NewFromInt(1), Category: "Food", Description: "x"})
	_, _ = installmentRepo.Create(&domain.Installment{UserID: userID, Name: "TV", Installments: 2, MonthlyAmount: decimal.NewFromInt(1), StartDate: date("2024-03-01"), Category: "Food"})

	require.NoError(t, svc.Reset(userID))

	incomes, _ := incomeRepo.GetAllByUser(userID)
	expenses, _ := expenseRepo.GetAllByUser(userID)
	installments, _ := installmentRepo.GetAllByUser(userID)
	categories, _ := categoryRepo.GetAllByUser(userID)
	assert.Empty(t, incomes)
	assert.Empty(t, expenses)
	assert.Empty(t, installments)
	assert.Empty(t, categories)

	require.Len(t, publisher.Events, 1)
	assert.Equal(t, "ledger.reset", publisher.Events[0].Event.Type)
}
