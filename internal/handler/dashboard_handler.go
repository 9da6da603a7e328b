package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/centavoapp/centavo/centavo-backend/internal/domain"
	"github.com/centavoapp/centavo/centavo-backend/internal/middleware"
	"github.com/centavoapp/centavo/centavo-backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// DashboardHandler handles dashboard HTTP requests
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// TrendPointResponse is one month on the trend chart
type TrendPointResponse struct {
	Month   string `json:"month"`
	Income  string `json:"income"`
	Expense string `json:"expense"`
	Balance string `json:"balance"`
}

// DashboardResponse is the aggregated view for one month
type DashboardResponse struct {
	Month           string                          `json:"month"`
	Income          string                          `json:"income"`
	Expense         string                          `json:"expense"`
	Balance         string                          `json:"balance"`
	AvailableMonths []string                        `json:"availableMonths"`
	Trend           []TrendPointResponse            `json:"trend"`
	CategoryTotals  []CategoryTotalResponse         `json:"categoryTotals"`
	Upcoming        []InstallmentWithStatusResponse `json:"upcomingInstallments"`
}

// GetDashboard godoc
// @Summary Get the dashboard
// @Description Get totals, trend, category breakdown, and upcoming installments for a month
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Param month query string false "Month key (YYYY-MM), defaults to the current month"
// @Success 200 {object} DashboardResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /dashboard [get]
func (h *DashboardHandler) GetDashboard(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	dashboard, err := h.dashboardService.GetDashboard(userID, c.QueryParam("month"), time.Now().UTC())
	if err != nil {
		if errors.Is(err, domain.ErrInvalidMonthKey) {
			return NewValidationError(c, "Invalid month key", []ValidationError{
				{Field: "month", Message: "Must be in YYYY-MM format"},
			})
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to build dashboard")
		return NewInternalError(c, "Failed to build dashboard")
	}

	trend := make([]TrendPointResponse, 0, len(dashboard.Trend))
	for _, point := range dashboard.Trend {
		trend = append(trend, TrendPointResponse{
			Month:   point.Month,
			Income:  point.Totals.Income.StringFixed(2),
			Expense: point.Totals.Expense.StringFixed(2),
			Balance: point.Totals.Income.Sub(point.Totals.Expense).StringFixed(2),
		})
	}

	upcoming := make([]InstallmentWithStatusResponse, 0, len(dashboard.Upcoming))
	for _, item := range dashboard.Upcoming {
		upcoming = append(upcoming, toWithStatusResponse(item))
	}

	return c.JSON(http.StatusOK, DashboardResponse{
		Month:           dashboard.Month,
		Income:          dashboard.Totals.Income.StringFixed(2),
		Expense:         dashboard.Totals.Expense.StringFixed(2),
		Balance:         dashboard.Totals.Income.Sub(dashboard.Totals.Expense).StringFixed(2),
		AvailableMonths: dashboard.AvailableMonths,
		Trend:           trend,
		CategoryTotals:  toCategoryTotalResponses(dashboard.CategoryTotals),
		Upcoming:        upcoming,
	})
}
