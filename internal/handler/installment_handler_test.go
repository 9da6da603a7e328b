package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/centavoapp/centavo/centavo-backend/internal/domain"
	"github.com/centavoapp/centavo/centavo-backend/internal/service"
	"github.com/centavoapp/centavo/centavo-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type installmentHandlerFixture struct {
	expenseRepo *testutil.MockExpenseRepository
	handler     *InstallmentHandler
	userID      uuid.UUID
}

func newInstallmentHandlerFixture() *installmentHandlerFixture {
	installmentRepo := testutil.NewMockInstallmentRepository()
	expenseRepo := testutil.NewMockExpenseRepository()
	categoryRepo := testutil.NewMockCategoryRepository()
	publisher := testutil.NewMockEventPublisher()
	userID := uuid.New()

	seedCategory(categoryRepo, userID, "Electronics", "#8b5cf6")

	installmentService := service.NewInstallmentService(installmentRepo, expenseRepo, categoryRepo, publisher)
	return &installmentHandlerFixture{
		expenseRepo: expenseRepo,
		handler:     NewInstallmentHandler(installmentService),
		userID:      userID,
	}
}

func postInstallment(e *echo.Echo, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/installments", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestCreateInstallment_ReturnsExpandedExpenses(t *testing.T) {
	e := echo.New()
	f := newInstallmentHandlerFixture()

	body := `{"name":"Laptop","totalAmount":"1200","installments":12,"startDate":"2024-01-15","category":"Electronics"}`
	c, rec := postInstallment(e, body)
	setupAuthContextWithUser(c, "auth0|test", "test@example.com", "", f.userID)

	if err := f.handler.CreateInstallment(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var response CreateInstallmentResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Installment.MonthlyAmount != "100.00" {
		t.Errorf("Expected monthly amount 100.00, got %s", response.Installment.MonthlyAmount)
	}
	if len(response.Expenses) != 12 {
		t.Fatalf("Expected 12 expenses, got %d", len(response.Expenses))
	}
	if response.Expenses[0].Description != "Laptop (1/12)" {
		t.Errorf("Expected description Laptop (1/12), got %s", response.Expenses[0].Description)
	}
	if response.Expenses[11].Date != "2024-12-15" {
		t.Errorf("Expected last payment on 2024-12-15, got %s", response.Expenses[11].Date)
	}
}

func TestCreateInstallment_ValidationFailure(t *testing.T) {
	e := echo.New()
	f := newInstallmentHandlerFixture()

	body := `{"name":"","totalAmount":"1200","installments":12,"startDate":"2024-01-15","category":"Electronics"}`
	c, rec := postInstallment(e, body)
	setupAuthContextWithUser(c, "auth0|test", "test@example.com", "", f.userID)

	if err := f.handler.CreateInstallment(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestCreateInstallment_UnknownCategory(t *testing.T) {
	e := echo.New()
	f := newInstallmentHandlerFixture()

	body := `{"name":"Laptop","totalAmount":"1200","installments":12,"startDate":"2024-01-15","category":"Nonexistent"}`
	c, rec := postInstallment(e, body)
	setupAuthContextWithUser(c, "auth0|test", "test@example.com", "", f.userID)

	if err := f.handler.CreateInstallment(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}

func TestCreateInstallment_PartialFailureReported(t *testing.T) {
	e := echo.New()
	f := newInstallmentHandlerFixture()

	writeErr := errors.New("connection reset")
	f.expenseRepo.CreateFn = func(expense *domain.Expense) (*domain.Expense, error) {
		if expense.Date.Month() == 2 {
			return nil, writeErr
		}
		expense.ID = uuid.New()
		return expense, nil
	}

	body := `{"name":"Laptop","totalAmount":"1200","installments":12,"startDate":"2024-01-15","category":"Electronics"}`
	c, rec := postInstallment(e, body)
	setupAuthContextWithUser(c, "auth0|test", "test@example.com", "", f.userID)

	if err := f.handler.CreateInstallment(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("Expected status 500, got %d", rec.Code)
	}

	var response PartialFailureResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Type != ErrorTypePartial {
		t.Errorf("Expected partial failure type, got %s", response.Type)
	}
	if response.InstallmentID == "" {
		t.Error("Expected installment ID in the response")
	}
	if len(response.FailedPayments) != 1 || response.FailedPayments[0] != 2 {
		t.Errorf("Expected failed payment [2], got %v", response.FailedPayments)
	}
}

func TestUpcomingInstallments_InvalidLimit(t *testing.T) {
	e := echo.New()
	f := newInstallmentHandlerFixture()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/installments/upcoming?limit=zero", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContextWithUser(c, "auth0|test", "test@example.com", "", f.userID)

	if err := f.handler.UpcomingInstallments(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}
