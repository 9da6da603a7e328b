package service

import (
	"time"

	"github.com/centavoapp/centavo/centavo-backend/internal/domain"
	"github.com/centavoapp/centavo/centavo-backend/internal/util"
	"github.com/google/uuid"
)

// trendWindow caps how many months the income/expense trend looks back
const trendWindow = 6

// upcomingLimit caps how many pending installments the dashboard shows
const upcomingLimit = 5

// TrendPoint is one month on the income/expense trend chart
type TrendPoint struct {
	Month   string               `json:"month"`
	Totals  domain.MonthlyTotals `json:"totals"`
	Balance string               `json:"balance"`
}

// Dashboard is the aggregated view for one selected month
type Dashboard struct {
	Month           string                   `json:"month"`
	Totals          domain.MonthlyTotals     `json:"totals"`
	Balance         string                   `json:"balance"`
	AvailableMonths []string                 `json:"availableMonths"`
	Trend           []TrendPoint             `json:"trend"`
	CategoryTotals  []domain.CategoryTotal   `json:"categoryTotals"`
	Upcoming        []*InstallmentWithStatus `json:"upcoming"`
}

// DashboardService composes the per-month aggregates into a single view
type DashboardService struct {
	monthService       *MonthService
	installmentService *InstallmentService
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(monthService *MonthService, installmentService *InstallmentService) *DashboardService {
	return &DashboardService{monthService: monthService, installmentService: installmentService}
}

// GetDashboard builds the dashboard for the given month. An empty month
// selects the current one.
func (s *DashboardService) GetDashboard(userID uuid.UUID, month string, now time.Time) (*Dashboard, error) {
	if month == "" {
		month = util.CurrentMonthKey(now)
	}
	if _, _, err := util.ParseMonthKey(month); err != nil {
		return nil, domain.ErrInvalidMonthKey
	}

	ledger := s.monthService.LoadLedger(userID)

	totals := ledger.TotalsForMonth(month)
	upcoming := UpcomingInstallments(ledger.Installments, ledger.Expenses, now)
	if len(upcoming) > upcomingLimit {
		upcoming = upcoming[:upcomingLimit]
	}

	return &Dashboard{
		Month:           month,
		Totals:          totals,
		Balance:         totals.Income.Sub(totals.Expense).String(),
		AvailableMonths: ledger.AvailableMonths(now),
		Trend:           Trend(ledger, month, now),
		CategoryTotals:  ledger.CategoryTotals(month),
		Upcoming:        upcoming,
	}, nil
}

// Trend returns the months up to and including the selected one, capped at
// the trend window, with their totals. Months after the selected one are
// excluded so picking a past month shows the chart as it looked then.
func Trend(ledger *domain.Ledger, month string, now time.Time) []TrendPoint {
	months := ledger.AvailableMonths(now)

	upTo := make([]string, 0, len(months))
	for _, m := range months {
		if m <= month {
			upTo = append(upTo, m)
		}
	}
	if len(upTo) > trendWindow {
		upTo = upTo[len(upTo)-trendWindow:]
	}

	points := make([]TrendPoint, 0, len(upTo))
	for _, m := range upTo {
		totals := ledger.TotalsForMonth(m)
		points = append(points, TrendPoint{
			Month:   m,
			Totals:  totals,
			Balance: totals.Income.Sub(totals.Expense).String(),
		})
	}
	return points
}
