package dtos

import (
	"time"

	"github.com/google/uuid"
)

type ManualPaymentRequest struct {
	TenantID     uuid.UUID `json:"tenantId" validate:"required"`
	PropertyID   uuid.UUID `json:"propertyId" validate:"required"`
	Amount       int64     `json:"amount" validate:"required"`
	ApplyDeposit bool      `json:"applyDeposit"`
}

// SplitSummary reports how one incoming amount was distributed. The
// "remaining" fields reflect each obligation's state after this
// allocation (0 when no open obligation of that type existed).
type SplitSummary struct {
	DepositPaid      int64 `json:"depositPaid"`
	RentPaid         int64 `json:"rentPaid"`
	Overpayment      int64 `json:"overpayment"`
	DepositRemaining int64 `json:"depositRemaining"`
	RentRemaining    int64 `json:"rentRemaining"`
}

type ManualPaymentResponse struct {
	Success      bool         `json:"success"`
	SplitSummary SplitSummary `json:"splitSummary"`
}

type PaymentDTO struct {
	ID          uuid.UUID  `json:"id"`
	TenantID    uuid.UUID  `json:"tenant_id"`
	PropertyID  uuid.UUID  `json:"property_id"`
	Type        string     `json:"type"`
	Amount      int64      `json:"amount"`
	AmountPaid  int64      `json:"amount_paid"`
	Status      string     `json:"status"`
	DueDate     time.Time  `json:"due_date"`
	PaymentDate *time.Time `json:"payment_date,omitempty"`
}

type ListPaymentsResponse struct {
	Results []PaymentDTO `json:"results"`
	Total   int          `json:"total"`
}
