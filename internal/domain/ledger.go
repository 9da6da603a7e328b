package domain

import (
	"sort"
	"time"

	"github.com/centavoapp/centavo/centavo-backend/internal/util"
	"github.com/shopspring/decimal"
)

// Ledger is the full in-memory view of one user's data, fetched once from the
// repositories. All aggregation below is pure and synchronous; anything that
// can block or fail happens before a Ledger exists.
type Ledger struct {
	Incomes      []*Income
	Expenses     []*Expense
	Installments []*Installment
	Categories   []*Category
}

// MonthlyTotals are the income and expense sums for one month key.
type MonthlyTotals struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// MonthlySnapshot is the subset of the ledger belonging to one month key.
// Installments appear under their start month only, not under every month
// they generate expenses into.
type MonthlySnapshot struct {
	Incomes      []*Income      `json:"incomes"`
	Expenses     []*Expense     `json:"expenses"`
	Installments []*Installment `json:"installments"`
}

// CategoryTotal is one slice of the per-category expense breakdown.
type CategoryTotal struct {
	Name  string          `json:"name"`
	Value decimal.Decimal `json:"value"`
	Color string          `json:"color"`
}

// TotalsForMonth sums income and expense amounts for the given month key.
func (l *Ledger) TotalsForMonth(month string) MonthlyTotals {
	totals := MonthlyTotals{Income: decimal.Zero, Expense: decimal.Zero}
	for _, income := range l.Incomes {
		if util.MonthKey(income.Date) == month {
			totals.Income = totals.Income.Add(income.Amount)
		}
	}
	for _, expense := range l.Expenses {
		if util.MonthKey(expense.Date) == month {
			totals.Expense = totals.Expense.Add(expense.Amount)
		}
	}
	return totals
}

// AvailableMonths returns the sorted set of month keys touched by any income,
// expense, or installment start date. The current month is always included so
// an empty ledger still has somewhere to land.
func (l *Ledger) AvailableMonths(now time.Time) []string {
	seen := make(map[string]struct{})
	for _, income := range l.Incomes {
		seen[util.MonthKey(income.Date)] = struct{}{}
	}
	for _, expense := range l.Expenses {
		seen[util.MonthKey(expense.Date)] = struct{}{}
	}
	for _, installment := range l.Installments {
		seen[util.MonthKey(installment.StartDate)] = struct{}{}
	}
	seen[util.CurrentMonthKey(now)] = struct{}{}

	months := make([]string, 0, len(seen))
	for month := range seen {
		months = append(months, month)
	}
	sort.Strings(months)
	return months
}

// SnapshotForMonth filters the three collections independently by month key.
func (l *Ledger) SnapshotForMonth(month string) *MonthlySnapshot {
	snapshot := &MonthlySnapshot{
		Incomes:      []*Income{},
		Expenses:     []*Expense{},
		Installments: []*Installment{},
	}
	for _, income := range l.Incomes {
		if util.MonthKey(income.Date) == month {
			snapshot.Incomes = append(snapshot.Incomes, income)
		}
	}
	for _, expense := range l.Expenses {
		if util.MonthKey(expense.Date) == month {
			snapshot.Expenses = append(snapshot.Expenses, expense)
		}
	}
	for _, installment := range l.Installments {
		if util.MonthKey(installment.StartDate) == month {
			snapshot.Installments = append(snapshot.Installments, installment)
		}
	}
	return snapshot
}

// CategoryTotals sums the month's expenses per category, in the order the
// categories were given. Matching is by exact name; categories with a zero
// sum are dropped.
func (l *Ledger) CategoryTotals(month string) []CategoryTotal {
	sums := make(map[string]decimal.Decimal, len(l.Categories))
	for _, expense := range l.Expenses {
		if util.MonthKey(expense.Date) == month {
			sums[expense.Category] = sums[expense.Category].Add(expense.Amount)
		}
	}

	totals := make([]CategoryTotal, 0, len(l.Categories))
	for _, category := range l.Categories {
		sum, ok := sums[category.Name]
		if !ok || sum.IsZero() {
			continue
		}
		totals = append(totals, CategoryTotal{
			Name:  category.Name,
			Value: sum,
			Color: category.Color,
		})
	}
	return totals
}
