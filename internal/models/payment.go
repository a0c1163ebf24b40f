package models

import (
	"time"

	"github.com/google/uuid"
)

// PaymentType distinguishes the two obligation kinds a tenant can owe.
type PaymentType string

const (
	PaymentTypeDeposit PaymentType = "DEPOSIT"
	PaymentTypeRent    PaymentType = "RENT"
)

// PaymentStatusType is derived from AmountPaid vs Amount.
type PaymentStatusType string

const (
	PaymentStatusUnpaid  PaymentStatusType = "UNPAID"
	PaymentStatusPartial PaymentStatusType = "PARTIAL"
	PaymentStatusPaid    PaymentStatusType = "PAID"
)

// Payment is a single obligation owed by a tenant for a property.
// At most one open (UNPAID/PARTIAL) payment exists per (tenant, property,
// type) at any time; the allocator mutates it in place and it is never
// deleted.
type Payment struct {
	Versioned
	ID          uuid.UUID         `json:"id"`
	TenantID    uuid.UUID         `json:"tenant_id"`
	PropertyID  uuid.UUID         `json:"property_id"`
	Type        PaymentType       `json:"type"`
	Amount      int64             `json:"amount"`
	AmountPaid  int64             `json:"amount_paid"`
	Status      PaymentStatusType `json:"status"`
	DueDate     time.Time         `json:"due_date"`
	PaymentDate *time.Time        `json:"payment_date,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

func (p *Payment) GetID() string { return p.ID.String() }

// Open reports whether the obligation still has an outstanding balance.
func (p *Payment) Open() bool {
	return p.Status == PaymentStatusUnpaid || p.Status == PaymentStatusPartial
}

// Due returns the outstanding balance on this obligation.
func (p *Payment) Due() int64 {
	if d := p.Amount - p.AmountPaid; d > 0 {
		return d
	}
	return 0
}
