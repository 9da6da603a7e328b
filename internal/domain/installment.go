package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Installment is a purchase split into N equal monthly payments. Each payment
// is materialized as an independent Expense; MonthlyAmount is the per-payment
// amount after rounding to two decimals. MonthlyAmount * Installments may
// drift from TotalAmount by up to half a cent per payment; the drift is
// accepted, not corrected.
type Installment struct {
	ID               uuid.UUID       `json:"id"`
	UserID           uuid.UUID       `json:"userId"`
	Name             string          `json:"name"`
	TotalAmount      decimal.Decimal `json:"totalAmount"`
	Installments     int             `json:"installments"`
	MonthlyAmount    decimal.Decimal `json:"monthlyAmount"`
	PaidInstallments int             `json:"paidInstallments"`
	StartDate        time.Time       `json:"startDate"`
	Category         string          `json:"category"`
	CreatedAt        time.Time       `json:"createdAt"`
}

// InstallmentStatusLabel classifies an installment against a reference date.
type InstallmentStatusLabel string

const (
	InstallmentCompleted  InstallmentStatusLabel = "completed"
	InstallmentOverdue    InstallmentStatusLabel = "overdue"
	InstallmentInProgress InstallmentStatusLabel = "in_progress"
)

// InstallmentStatus is the derived payment progress of an installment. It is
// computed from the generated expenses and a reference date, never stored.
type InstallmentStatus struct {
	PaidCount       int                    `json:"paidCount"`
	TotalPaid       decimal.Decimal        `json:"totalPaid"`
	Remaining       int                    `json:"remaining"`
	RemainingAmount decimal.Decimal        `json:"remainingAmount"`
	NextPaymentDate *time.Time             `json:"nextPaymentDate,omitempty"`
	Label           InstallmentStatusLabel `json:"status"`
}

type InstallmentRepository interface {
	Create(installment *Installment) (*Installment, error)
	GetByID(userID uuid.UUID, id uuid.UUID) (*Installment, error)
	GetAllByUser(userID uuid.UUID) ([]*Installment, error)
	DeleteAllByUser(userID uuid.UUID) error
}

// PartialBatchError reports an installment creation that wrote its parent
// record and only a subset of the child expenses. The caller needs the parent
// id and the missing payment numbers to reconcile; re-running the whole batch
// would duplicate the children that succeeded.
type PartialBatchError struct {
	InstallmentID  uuid.UUID
	FailedPayments []int // 1-based payment numbers that were not written
	Errs           []error
}

func (e *PartialBatchError) Error() string {
	return fmt.Sprintf("installment %s created with %d missing payment(s): %v",
		e.InstallmentID, len(e.FailedPayments), e.FailedPayments)
}

func (e *PartialBatchError) Unwrap() []error {
	return e.Errs
}
