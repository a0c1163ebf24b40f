package dtos

import (
	"time"

	"github.com/google/uuid"
)

type CreateMaintenanceRequest struct {
	TenantID    uuid.UUID `json:"tenant_id" validate:"required"`
	Title       string    `json:"title" validate:"required,min=1"`
	Description string    `json:"description,omitempty"`
}

type SetMaintenanceStatusRequest struct {
	NewStatus string `json:"new_status" validate:"required,oneof=OPEN IN_PROGRESS RESOLVED"`
}

type MaintenanceRequestDTO struct {
	ID          uuid.UUID  `json:"id"`
	TenantID    uuid.UUID  `json:"tenant_id"`
	PropertyID  uuid.UUID  `json:"property_id"`
	UnitLabel   string     `json:"unit_label"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type ListMaintenanceResponse struct {
	Results []MaintenanceRequestDTO `json:"results"`
	Total   int                     `json:"total"`
}
