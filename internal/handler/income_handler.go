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

// IncomeHandler handles income-related HTTP requests
type IncomeHandler struct {
	incomeService *service.IncomeService
}

// NewIncomeHandler creates a new IncomeHandler
func NewIncomeHandler(incomeService *service.IncomeService) *IncomeHandler {
	return &IncomeHandler{incomeService: incomeService}
}

// CreateIncomeRequest represents the create income request body
type CreateIncomeRequest struct {
	Date        string `json:"date"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
}

// IncomeResponse represents an income in API responses
type IncomeResponse struct {
	ID          string `json:"id"`
	Date        string `json:"date"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
	CreatedAt   string `json:"createdAt"`
}

func toIncomeResponse(income *domain.Income) IncomeResponse {
	return IncomeResponse{
		ID:          income.ID.String(),
		Date:        income.Date.Format("2006-01-02"),
		Amount:      income.Amount.StringFixed(2),
		Description: income.Description,
		CreatedAt:   income.CreatedAt.Format(time.RFC3339),
	}
}

// CreateIncome godoc
// @Summary Create an income
// @Description Record a new income entry
// @Tags incomes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateIncomeRequest true "Income creation request"
// @Success 201 {object} IncomeResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /incomes [post]
func (h *IncomeHandler) CreateIncome(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req CreateIncomeRequest
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

	income, err := h.incomeService.CreateIncome(userID, service.CreateIncomeInput{
		Date:        date,
		Amount:      amount,
		Description: req.Description,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidAmount):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "amount", Message: "Must be positive"},
			})
		case errors.Is(err, domain.ErrDescriptionRequired):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "description", Message: "Description is required"},
			})
		case errors.Is(err, domain.ErrNameTooLong):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "description", Message: "Description is too long"},
			})
		default:
			log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to create income")
			return NewInternalError(c, "Failed to create income")
		}
	}

	return c.JSON(http.StatusCreated, toIncomeResponse(income))
}

// ListIncomes godoc
// @Summary List incomes
// @Description Get all incomes for the authenticated user, newest first
// @Tags incomes
// @Produce json
// @Security BearerAuth
// @Success 200 {array} IncomeResponse
// @Failure 401 {object} ProblemDetails
// @Router /incomes [get]
func (h *IncomeHandler) ListIncomes(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	incomes, err := h.incomeService.GetIncomes(userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to list incomes")
		return NewInternalError(c, "Failed to list incomes")
	}

	responses := make([]IncomeResponse, 0, len(incomes))
	for _, income := range incomes {
		responses = append(responses, toIncomeResponse(income))
	}
	return c.JSON(http.StatusOK, responses)
}

// DeleteIncome godoc
// @Summary Delete an income
// @Description Remove a single income entry
// @Tags incomes
// @Produce json
// @Security BearerAuth
// @Param id path string true "Income ID"
// @Success 204
// @Failure 401 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /incomes/{id} [delete]
func (h *IncomeHandler) DeleteIncome(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	incomeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid income ID", nil)
	}

	if err := h.incomeService.DeleteIncome(userID, incomeID); err != nil {
		if errors.Is(err, domain.ErrIncomeNotFound) {
			return NewNotFoundError(c, "Income not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to delete income")
		return NewInternalError(c, "Failed to delete income")
	}

	return c.NoContent(http.StatusNoContent)
}
