package models

import (
	"time"

	"github.com/google/uuid"
)

type MpesaTransactionStatusType string

const (
	MpesaTransactionPending MpesaTransactionStatusType = "PENDING"
	MpesaTransactionSettled MpesaTransactionStatusType = "SETTLED"
	MpesaTransactionFailed  MpesaTransactionStatusType = "FAILED"
)

// MpesaTransaction tracks one STK push from initiation to callback.
// CheckoutRequestID is unique, which is what makes callback settlement
// at-most-once: a replayed callback finds the row already SETTLED.
type MpesaTransaction struct {
	Versioned
	ID                uuid.UUID                  `json:"id"`
	TenantID          uuid.UUID                  `json:"tenant_id"`
	PropertyID        uuid.UUID                  `json:"property_id"`
	CheckoutRequestID string                     `json:"checkout_request_id"`
	MerchantRequestID string                     `json:"merchant_request_id,omitempty"`
	PhoneNumber       string                     `json:"phone_number"`
	Amount            int64                      `json:"amount"`
	ApplyDeposit      bool                       `json:"apply_deposit"`
	Status            MpesaTransactionStatusType `json:"status"`
	MpesaReceipt      *string                    `json:"mpesa_receipt,omitempty"`
	ResultCode        *int                       `json:"result_code,omitempty"`
	ResultDesc        *string                    `json:"result_desc,omitempty"`
	SettledAt         *time.Time                 `json:"settled_at,omitempty"`
	CreatedAt         time.Time                  `json:"created_at"`
	UpdatedAt         time.Time                  `json:"updated_at"`
}

func (m *MpesaTransaction) GetID() string { return m.ID.String() }
