package models

import (
	"time"

	"github.com/google/uuid"
)

type MaintenanceStatusType string

const (
	MaintenanceStatusOpen       MaintenanceStatusType = "OPEN"
	MaintenanceStatusInProgress MaintenanceStatusType = "IN_PROGRESS"
	MaintenanceStatusResolved   MaintenanceStatusType = "RESOLVED"
)

// MaintenanceRequest is filed by a tenant against their unit and worked
// by a caretaker or the landlord.
type MaintenanceRequest struct {
	Versioned
	ID          uuid.UUID             `json:"id"`
	TenantID    uuid.UUID             `json:"tenant_id"`
	PropertyID  uuid.UUID             `json:"property_id"`
	UnitLabel   string                `json:"unit_label"`
	Title       string                `json:"title"`
	Description string                `json:"description,omitempty"`
	Status      MaintenanceStatusType `json:"status"`
	ResolvedAt  *time.Time            `json:"resolved_at,omitempty"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

func (m *MaintenanceRequest) GetID() string { return m.ID.String() }
