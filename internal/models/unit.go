package models

import (
	"time"

	"github.com/google/uuid"
)

// UnitStatusType tracks whether a unit currently houses a tenant.
type UnitStatusType string

const (
	UnitStatusVacant   UnitStatusType = "VACANT"
	UnitStatusOccupied UnitStatusType = "OCCUPIED"
)

// Unit represents a single physical rentable space inside a property.
// Label is generated once at property creation and never recomputed;
// it is unique within the owning property.
type Unit struct {
	Versioned
	ID         uuid.UUID      `json:"id"`
	PropertyID uuid.UUID      `json:"property_id"`
	FloorIndex int16          `json:"floor_index"`
	FloorName  string         `json:"floor_name"`
	Position   int            `json:"position"`
	UnitType   string         `json:"unit_type"`
	Label      string         `json:"label"`
	Rent       int64          `json:"rent"`
	Status     UnitStatusType `json:"status"`
	TenantID   *uuid.UUID     `json:"tenant_id,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

func (u *Unit) GetID() string { return u.ID.String() }
