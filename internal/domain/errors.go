package domain

import "errors"

// Domain errors
var (
	ErrNotFound            = errors.New("resource not found")
	ErrInvalidInput        = errors.New("invalid input")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInternalError       = errors.New("internal error")
	ErrUserNotFound        = errors.New("user not found")
	ErrIncomeNotFound      = errors.New("income not found")
	ErrExpenseNotFound     = errors.New("expense not found")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrInstallmentNotFound = errors.New("installment not found")

	ErrNameRequired            = errors.New("name is required")
	ErrNameTooLong             = errors.New("name exceeds maximum length")
	ErrDescriptionRequired     = errors.New("description is required")
	ErrCategoryRequired        = errors.New("category is required")
	ErrCategoryNameTaken       = errors.New("category name already in use")
	ErrInvalidAmount           = errors.New("amount must be positive")
	ErrNegativeAmount          = errors.New("amount must not be negative")
	ErrInvalidInstallmentCount = errors.New("installment count must be a positive integer")
	ErrInvalidDate             = errors.New("invalid date")
	ErrInvalidMonthKey         = errors.New("invalid month key")
	ErrInvalidColor            = errors.New("invalid color")
	ErrInvalidBackupFormat     = errors.New("unrecognized backup format")
)

// Validation constants
const (
	MaxNameLength        = 255
	MaxDescriptionLength = 500
)
