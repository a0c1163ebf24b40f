package dtos

import (
	"time"

	"github.com/google/uuid"
)

type CreateTenantRequest struct {
	PropertyID  uuid.UUID `json:"property_id" validate:"required"`
	UnitLabel   string    `json:"unit_label" validate:"required,min=1"`
	FirstName   string    `json:"first_name" validate:"required,min=1"`
	LastName    string    `json:"last_name" validate:"required,min=1"`
	Email       string    `json:"email" validate:"required,email"`
	PhoneNumber *string   `json:"phone_number,omitempty" validate:"omitempty,e164"`
	// Deposit defaults to the unit's rent when omitted.
	Deposit *int64     `json:"deposit,omitempty" validate:"omitempty,gte=0"`
	DueDate *time.Time `json:"due_date,omitempty"`
}

type TenantResponse struct {
	ID          uuid.UUID  `json:"id"`
	PropertyID  uuid.UUID  `json:"property_id"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Email       string     `json:"email"`
	PhoneNumber *string    `json:"phone_number,omitempty"`
	UnitLabel   string     `json:"unit_label"`
	UnitType    string     `json:"unit_type"`
	FloorName   string     `json:"floor_name"`
	Rent        int64      `json:"rent"`
	Deposit     int64      `json:"deposit"`
	Credit      int64      `json:"credit"`
	MovedInAt   time.Time  `json:"moved_in_at"`
	MovedOutAt  *time.Time `json:"moved_out_at,omitempty"`
}

type ListTenantsResponse struct {
	Results []TenantResponse `json:"results"`
	Total   int              `json:"total"`
}
