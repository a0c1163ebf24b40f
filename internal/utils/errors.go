package utils

import "errors"

// Sentinel errors for rentowl domain logic.
// Controllers map these with errors.Is onto HTTP status codes.
var (
	ErrInvalidPayload   = errors.New("invalid_payload")
	ErrInvalidAmount    = errors.New("invalid_amount")
	ErrMalformedUnits   = errors.New("malformed_units")
	ErrPropertyNotFound = errors.New("property_not_found")
	ErrTenantNotFound   = errors.New("tenant_not_found")
	ErrUnitNotFound     = errors.New("unit_not_found")
	ErrRequestNotFound  = errors.New("request_not_found")
	ErrNoOpenObligation = errors.New("no_open_obligation")
	ErrUnitOccupied     = errors.New("unit_occupied")
	ErrUnitsOccupied    = errors.New("units_occupied")
	ErrTenantMovedOut   = errors.New("tenant_moved_out")
	ErrWrongStatus      = errors.New("wrong_status")

	// For concurrency conflicts
	ErrRowVersionConflict = errors.New("row_version_conflict")

	// M-Pesa settlement replay (CheckoutRequestID already SETTLED/FAILED)
	ErrTransactionSettled = errors.New("transaction_already_settled")
	ErrTransactionExists  = errors.New("transaction_exists")

	// For external service failures (Daraja, Twilio, SendGrid)
	ErrExternalServiceFailure = errors.New("external_service_failure")
)
