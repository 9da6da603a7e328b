package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/centavoapp/centavo/centavo-backend/internal/domain"
	"github.com/centavoapp/centavo/centavo-backend/internal/middleware"
	"github.com/centavoapp/centavo/centavo-backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// InstallmentHandler handles installment-related HTTP requests
type InstallmentHandler struct {
	installmentService *service.InstallmentService
}

// NewInstallmentHandler creates a new InstallmentHandler
func NewInstallmentHandler(installmentService *service.InstallmentService) *InstallmentHandler {
	return &InstallmentHandler{installmentService: installmentService}
}

// CreateInstallmentRequest represents the create installment request body
type CreateInstallmentRequest struct {
	Name         string `json:"name"`
	TotalAmount  string `json:"totalAmount"`
	Installments int    `json:"installments"`
	StartDate    string `json:"startDate"`
	Category     string `json:"category"`
}

// InstallmentResponse represents an installment in API responses
type InstallmentResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	TotalAmount   string `json:"totalAmount"`
	Installments  int    `json:"installments"`
	MonthlyAmount string `json:"monthlyAmount"`
	StartDate     string `json:"startDate"`
	Category      string `json:"category"`
	CreatedAt     string `json:"createdAt"`
}

// InstallmentStatusResponse represents the derived payment status
type InstallmentStatusResponse struct {
	PaidCount       int     `json:"paidCount"`
	TotalPaid       string  `json:"totalPaid"`
	Remaining       int     `json:"remaining"`
	RemainingAmount string  `json:"remainingAmount"`
	NextPaymentDate *string `json:"nextPaymentDate,omitempty"`
	Status          string  `json:"status"`
}

// InstallmentWithStatusResponse pairs an installment with its status
type InstallmentWithStatusResponse struct {
	InstallmentResponse
	InstallmentStatus InstallmentStatusResponse `json:"paymentStatus"`
}

// CreateInstallmentResponse is the full result of creating an installment
type CreateInstallmentResponse struct {
	Installment InstallmentResponse `json:"installment"`
	Expenses    []ExpenseResponse   `json:"expenses"`
}

// PartialFailureResponse reports an installment whose parent record exists
// but whose payment expenses were only partially written
type PartialFailureResponse struct {
	ProblemDetails
	InstallmentID  string `json:"installmentId"`
	FailedPayments []int  `json:"failedPayments"`
}

func toInstallmentResponse(installment *domain.Installment) InstallmentResponse {
	return InstallmentResponse{
		ID:            installment.ID.String(),
		Name:          installment.Name,
		TotalAmount:   installment.TotalAmount.StringFixed(2),
		Installments:  installment.Installments,
		MonthlyAmount: installment.MonthlyAmount.StringFixed(2),
		StartDate:     installment.StartDate.Format("2006-01-02"),
		Category:      installment.Category,
		CreatedAt:     installment.CreatedAt.Format(time.RFC3339),
	}
}

func toStatusResponse(status domain.InstallmentStatus) InstallmentStatusResponse {
	resp := InstallmentStatusResponse{
		PaidCount:       status.PaidCount,
		TotalPaid:       status.TotalPaid.StringFixed(2),
		Remaining:       status.Remaining,
		RemainingAmount: status.RemainingAmount.StringFixed(2),
		Status:          string(status.Label),
	}
	if status.NextPaymentDate != nil {
		next := status.NextPaymentDate.Format("2006-01-02")
		resp.NextPaymentDate = &next
	}
	return resp
}

func toWithStatusResponse(item *service.InstallmentWithStatus) InstallmentWithStatusResponse {
	return InstallmentWithStatusResponse{
		InstallmentResponse: toInstallmentResponse(item.Installment),
		InstallmentStatus:   toStatusResponse(item.Status),
	}
}

// CreateInstallment godoc
// @Summary Create an installment purchase
// @Description Create an installment and expand it into one expense per month
// @Tags installments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateInstallmentRequest true "Installment creation request"
// @Success 201 {object} CreateInstallmentResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Failure 500 {object} PartialFailureResponse
// @Router /installments [post]
func (h *InstallmentHandler) CreateInstallment(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req CreateInstallmentRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	totalAmount, err := decimal.NewFromString(req.TotalAmount)
	if err != nil {
		return NewValidationError(c, "Invalid total amount", []ValidationError{
			{Field: "totalAmount", Message: "Must be a valid decimal number"},
		})
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return NewValidationError(c, "Invalid start date", []ValidationError{
			{Field: "startDate", Message: "Must be in YYYY-MM-DD format"},
		})
	}

	installment, expenses, err := h.installmentService.CreateInstallment(userID, service.CreateInstallmentInput{
		Name:         req.Name,
		TotalAmount:  totalAmount,
		Installments: req.Installments,
		StartDate:    startDate,
		Category:     req.Category,
	})
	if err != nil {
		var partial *domain.PartialBatchError
		switch {
		case errors.As(err, &partial):
			return c.JSON(http.StatusInternalServerError, PartialFailureResponse{
				ProblemDetails: ProblemDetails{
					Type:     ErrorTypePartial,
					Title:    "Partial Batch Failure",
					Status:   http.StatusInternalServerError,
					Detail:   "The installment was created but some payment expenses could not be written",
					Instance: c.Request().URL.Path,
				},
				InstallmentID:  partial.InstallmentID.String(),
				FailedPayments: partial.FailedPayments,
			})
		case errors.Is(err, domain.ErrNameRequired):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name is required"},
			})
		case errors.Is(err, domain.ErrNameTooLong):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name is too long"},
			})
		case errors.Is(err, domain.ErrInvalidAmount):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "totalAmount", Message: "Must be positive"},
			})
		case errors.Is(err, domain.ErrInvalidInstallmentCount):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "installments", Message: "Must be at least 1"},
			})
		case errors.Is(err, domain.ErrInvalidDate):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "startDate", Message: "Start date is required"},
			})
		case errors.Is(err, domain.ErrCategoryRequired):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "category", Message: "Category is required"},
			})
		case errors.Is(err, domain.ErrCategoryNotFound):
			return NewNotFoundError(c, "Category not found")
		default:
			log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to create installment")
			return NewInternalError(c, "Failed to create installment")
		}
	}

	expenseResponses := make([]ExpenseResponse, 0, len(expenses))
	for _, expense := range expenses {
		expenseResponses = append(expenseResponses, toExpenseResponse(expense))
	}
	return c.JSON(http.StatusCreated, CreateInstallmentResponse{
		Installment: toInstallmentResponse(installment),
		Expenses:    expenseResponses,
	})
}

// ListInstallments godoc
// @Summary List installments
// @Description Get all installments with their payment status, soonest next payment first
// @Tags installments
// @Produce json
// @Security BearerAuth
// @Success 200 {array} InstallmentWithStatusResponse
// @Failure 401 {object} ProblemDetails
// @Router /installments [get]
func (h *InstallmentHandler) ListInstallments(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	items, err := h.installmentService.ListWithStatus(userID, time.Now().UTC())
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to list installments")
		return NewInternalError(c, "Failed to list installments")
	}

	responses := make([]InstallmentWithStatusResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, toWithStatusResponse(item))
	}
	return c.JSON(http.StatusOK, responses)
}

// UpcomingInstallments godoc
// @Summary List upcoming installment payments
// @Description Get the pending installments with the soonest next payments
// @Tags installments
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum results (default 5)"
// @Success 200 {array} InstallmentWithStatusResponse
// @Failure 401 {object} ProblemDetails
// @Router /installments/upcoming [get]
func (h *InstallmentHandler) UpcomingInstallments(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	limit := 5
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return NewValidationError(c, "Invalid limit", []ValidationError{
				{Field: "limit", Message: "Must be a positive integer"},
			})
		}
		limit = parsed
	}

	items, err := h.installmentService.Upcoming(userID, time.Now().UTC(), limit)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to list upcoming installments")
		return NewInternalError(c, "Failed to list upcoming installments")
	}

	responses := make([]InstallmentWithStatusResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, toWithStatusResponse(item))
	}
	return c.JSON(http.StatusOK, responses)
}
