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
	"github.com/shopspring/decimal"
)

// ExpenseHandler handles expense-related HTTP requests
type ExpenseHandler struct {
	expenseService *service.ExpenseService
}

// NewExpenseHandler creates a new ExpenseHandler
func NewExpenseHandler(expenseService *service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

// CreateExpenseRequest represents the create expense request body
type CreateExpenseRequest struct {
	Date        string `json:"date"`
	Amount      string `json:"amount"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

// ExpenseResponse represents an expense in API responses
type ExpenseResponse struct {
	ID            string  `json:"id"`
	Date          string  `json:"date"`
	Amount        string  `json:"amount"`
	Category      string  `json:"category"`
	Description   string  `json:"description"`
	IsInstallment bool    `json:"isInstallment"`
	InstallmentID *string `json:"installmentId,omitempty"`
	CreatedAt     string  `json:"createdAt"`
}

func toExpenseResponse(expense *domain.Expense) ExpenseResponse {
	resp := ExpenseResponse{
		ID:            expense.ID.String(),
		Date:          expense.Date.Format("2006-01-02"),
		Amount:        expense.Amount.StringFixed(2),
		Category:      expense.Category,
		Description:   expense.Description,
		IsInstallment: expense.IsInstallment,
		CreatedAt:     expense.CreatedAt.Format(time.RFC3339),
	}
	if expense.InstallmentID != nil {
		id := expense.InstallmentID.String()
		resp.InstallmentID = &id
	}
	return resp
}

// CreateExpense godoc
// @Summary Create an expense
// @Description Record a new standalone expense
// @Tags expenses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateExpenseRequest true "Expense creation request"
// @Success 201 {object} ExpenseResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /expenses [post]
func (h *ExpenseHandler) CreateExpense(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req CreateExpenseRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return NewValidationError(c, "Invalid date", []ValidationError{
			{Field: "date", Message: "Must be in YYYY-MM-DD format"},
		})
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	expense, err := h.expenseService.CreateExpense(userID, service.CreateExpenseInput{
		Date:        date,
		Amount:      amount,
		Category:    req.Category,
		Description: req.Description,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidAmount):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "amount", Message: "Must be positive"},
			})
		case errors.Is(err, domain.ErrCategoryRequired):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "category", Message: "Category is required"},
			})
		case errors.Is(err, domain.ErrCategoryNotFound):
			return NewNotFoundError(c, "Category not found")
		case errors.Is(err, domain.ErrDescriptionRequired):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "description", Message: "Description is required"},
			})
		case errors.Is(err, domain.ErrNameTooLong):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "description", Message: "Description is too long"},
			})
		default:
			log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to create expense")
			return NewInternalError(c, "Failed to create expense")
		}
	}

	return c.JSON(http.StatusCreated, toExpenseResponse(expense))
}

// ListExpenses godoc
// @Summary List expenses
// @Description Get all expenses for the authenticated user, newest first
// @Tags expenses
// @Produce json
// @Security BearerAuth
// @Success 200 {array} ExpenseResponse
// @Failure 401 {object} ProblemDetails
// @Router /expenses [get]
func (h *ExpenseHandler) ListExpenses(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	expenses, err := h.expenseService.GetExpenses(userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to list expenses")
		return NewInternalError(c, "Failed to list expenses")
	}

	responses := make([]ExpenseResponse, 0, len(expenses))
	for _, expense := range expenses {
		responses = append(responses, toExpenseResponse(expense))
	}
	return c.JSON(http.StatusOK, responses)
}

// DeleteExpense godoc
// @Summary Delete an expense
// @Description Remove a single expense. Installment-generated expenses can be
// removed individually; the parent installment is untouched.
// @Tags expenses
// @Produce json
// @Security BearerAuth
// @Param id path string true "Expense ID"
// @Success 204
// @Failure 401 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /expenses/{id} [delete]
func (h *ExpenseHandler) DeleteExpense(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	expenseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid expense ID", nil)
	}

	if err := h.expenseService.DeleteExpense(userID, expenseID); err != nil {
		if errors.Is(err, domain.ErrExpenseNotFound) {
			return NewNotFoundError(c, "Expense not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to delete expense")
		return NewInternalError(c, "Failed to delete expense")
	}

	return c.NoContent(http.StatusNoContent)
}
