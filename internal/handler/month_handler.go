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

// MonthHandler handles month aggregation HTTP requests
type MonthHandler struct {
	monthService *service.MonthService
}

// NewMonthHandler creates a new MonthHandler
func NewMonthHandler(monthService *service.MonthService) *MonthHandler {
	return &MonthHandler{monthService: monthService}
}

// MonthlyTotalsResponse represents a month's income and expense totals
type MonthlyTotalsResponse struct {
	Month   string `json:"month"`
	Income  string `json:"income"`
	Expense string `json:"expense"`
	Balance string `json:"balance"`
}

// MonthlySnapshotResponse represents the ledger subset of one month
type MonthlySnapshotResponse struct {
	Month        string                `json:"month"`
	Incomes      []IncomeResponse      `json:"incomes"`
	Expenses     []ExpenseResponse     `json:"expenses"`
	Installments []InstallmentResponse `json:"installments"`
}

// CategoryTotalResponse is one slice of the category breakdown chart
type CategoryTotalResponse struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	Color string `json:"color"`
}

func toCategoryTotalResponses(totals []domain.CategoryTotal) []CategoryTotalResponse {
	responses := make([]CategoryTotalResponse, 0, len(totals))
	for _, total := range totals {
		responses = append(responses, CategoryTotalResponse{
			Name:  total.Name,
			Value: total.Value.StringFixed(2),
			Color: total.Color,
		})
	}
	return responses
}

// ListMonths godoc
// @Summary List available months
// @Description Get every month with data plus the current month, sorted ascending
// @Tags months
// @Produce json
// @Security BearerAuth
// @Success 200 {array} string
// @Failure 401 {object} ProblemDetails
// @Router /months [get]
func (h *MonthHandler) ListMonths(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	months := h.monthService.GetAvailableMonths(userID, time.Now().UTC())
	return c.JSON(http.StatusOK, months)
}

// GetMonthlyTotals godoc
// @Summary Get monthly totals
// @Description Get income and expense totals for a month key like 2024-03
// @Tags months
// @Produce json
// @Security BearerAuth
// @Param month path string true "Month key (YYYY-MM)"
// @Success 200 {object} MonthlyTotalsResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /months/{month}/totals [get]
func (h *MonthHandler) GetMonthlyTotals(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	month := c.Param("month")
	totals, err := h.monthService.GetMonthlyTotals(userID, month)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidMonthKey) {
			return NewValidationError(c, "Invalid month key", []ValidationError{
				{Field: "month", Message: "Must be in YYYY-MM format"},
			})
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to get monthly totals")
		return NewInternalError(c, "Failed to get monthly totals")
	}

	return c.JSON(http.StatusOK, MonthlyTotalsResponse{
		Month:   month,
		Income:  totals.Income.StringFixed(2),
		Expense: totals.Expense.StringFixed(2),
		Balance: totals.Income.Sub(totals.Expense).StringFixed(2),
	})
}

// GetMonthlySnapshot godoc
// @Summary Get a month's records
// @Description Get the incomes, expenses, and installments of one month
// @Tags months
// @Produce json
// @Security BearerAuth
// @Param month path string true "Month key (YYYY-MM)"
// @Success 200 {object} MonthlySnapshotResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /months/{month} [get]
func (h *MonthHandler) GetMonthlySnapshot(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	month := c.Param("month")
	snapshot, err := h.monthService.GetSnapshot(userID, month)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidMonthKey) {
			return NewValidationError(c, "Invalid month key", []ValidationError{
				{Field: "month", Message: "Must be in YYYY-MM format"},
			})
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to get monthly snapshot")
		return NewInternalError(c, "Failed to get monthly snapshot")
	}

	resp := MonthlySnapshotResponse{
		Month:        month,
		Incomes:      make([]IncomeResponse, 0, len(snapshot.Incomes)),
		Expenses:     make([]ExpenseResponse, 0, len(snapshot.Expenses)),
		Installments: make([]InstallmentResponse, 0, len(snapshot.Installments)),
	}
	for _, income := range snapshot.Incomes {
		resp.Incomes = append(resp.Incomes, toIncomeResponse(income))
	}
	for _, expense := range snapshot.Expenses {
		resp.Expenses = append(resp.Expenses, toExpenseResponse(expense))
	}
	for _, installment := range snapshot.Installments {
		resp.Installments = append(resp.Installments, toInstallmentResponse(installment))
	}
	return c.JSON(http.StatusOK, resp)
}

// GetCategoryTotals godoc
// @Summary Get category breakdown
// @Description Get per-category expense totals for a month, in category order
// @Tags months
// @Produce json
// @Security BearerAuth
// @Param month path string true "Month key (YYYY-MM)"
// @Success 200 {array} CategoryTotalResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /months/{month}/categories [get]
func (h *MonthHandler) GetCategoryTotals(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	month := c.Param("month")
	totals, err := h.monthService.GetCategoryTotals(userID, month)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidMonthKey) {
			return NewValidationError(c, "Invalid month key", []ValidationError{
				{Field: "month", Message: "Must be in YYYY-MM format"},
			})
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to get category totals")
		return NewInternalError(c, "Failed to get category totals")
	}

	return c.JSON(http.StatusOK, toCategoryTotalResponses(totals))
}
