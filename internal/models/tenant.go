package models

import (
	"time"

	"github.com/google/uuid"
)

// Tenant carries the rent/deposit obligations copied from the assigned
// unit at assignment time, plus denormalized pointers back to that unit.
// Credit accumulates overpayments banked against future obligations.
type Tenant struct {
	Versioned
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
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
}

func (t *Tenant) GetID() string { return t.ID.String() }
