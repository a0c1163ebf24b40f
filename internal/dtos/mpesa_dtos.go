package dtos

import "github.com/google/uuid"

type StkPushRequest struct {
	TenantID     uuid.UUID `json:"tenant_id" validate:"required"`
	PropertyID   uuid.UUID `json:"property_id" validate:"required"`
	PhoneNumber  string    `json:"phone_number" validate:"required,e164"`
	Amount       int64     `json:"amount" validate:"required,gt=0"`
	ApplyDeposit bool      `json:"apply_deposit"`
}

type StkPushResponse struct {
	TransactionID     uuid.UUID `json:"transaction_id"`
	CheckoutRequestID string    `json:"checkout_request_id"`
	CustomerMessage   string    `json:"customer_message,omitempty"`
}

// Daraja STK push callback envelope. Field names follow the wire format
// Safaricom sends, hence the PascalCase JSON keys.
type StkCallbackEnvelope struct {
	Body struct {
		StkCallback StkCallback `json:"stkCallback"`
	} `json:"Body"`
}

type StkCallback struct {
	MerchantRequestID string           `json:"MerchantRequestID"`
	CheckoutRequestID string           `json:"CheckoutRequestID"`
	ResultCode        int              `json:"ResultCode"`
	ResultDesc        string           `json:"ResultDesc"`
	CallbackMetadata  CallbackMetadata `json:"CallbackMetadata"`
}

type CallbackMetadata struct {
	Items []CallbackItem `json:"Item"`
}

type CallbackItem struct {
	Name  string `json:"Name"`
	Value any    `json:"Value,omitempty"`
}

type MpesaCallbackResponse struct {
	ResultCode int    `json:"ResultCode"`
	ResultDesc string `json:"ResultDesc"`
}
