package dtos

import (
	"time"

	"github.com/google/uuid"

	"github.com/rentowl/backend/internal/models"
)

// UnitBlueprint is one element of a floor's unit list as submitted by
// the landlord UI. The UI submits one blueprint per physical unit;
// Count is optional UI decoration and is never used to multiply units
// server-side.
type UnitBlueprint struct {
	Type  string `json:"type" validate:"required,min=1"`
	Rent  int64  `json:"rent" validate:"gte=0"`
	Count *int   `json:"count,omitempty"`
}

// FloorBlueprint is one floor-entry in submission order. Floor index 0
// is the ground floor.
type FloorBlueprint struct {
	Units []UnitBlueprint `json:"units" validate:"required,dive"`
}

type CreatePropertyRequest struct {
	Name      string           `json:"name" validate:"required,min=1"`
	Address   string           `json:"address" validate:"required,min=1"`
	City      string           `json:"city,omitempty"`
	Latitude  *float64         `json:"latitude,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Longitude *float64         `json:"longitude,omitempty" validate:"omitempty,gte=-180,lte=180"`
	Units     []FloorBlueprint `json:"units" validate:"required,min=1,dive"`
}

type UpdatePropertyRequest struct {
	Name      *string          `json:"name,omitempty" validate:"omitempty,min=1"`
	Address   *string          `json:"address,omitempty" validate:"omitempty,min=1"`
	City      *string          `json:"city,omitempty"`
	Latitude  *float64         `json:"latitude,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Longitude *float64         `json:"longitude,omitempty" validate:"omitempty,gte=-180,lte=180"`
	// When present the whole unit inventory is regenerated; replacement
	// is wholesale, never a merge.
	Units []FloorBlueprint `json:"units,omitempty" validate:"omitempty,min=1,dive"`
}

// UnitDTO is one labeled physical unit in a property response.
type UnitDTO struct {
	Type     string     `json:"type"`
	Rent     int64      `json:"rent"`
	Label    string     `json:"label"`
	Status   string     `json:"status"`
	TenantID *uuid.UUID `json:"tenant,omitempty"`
}

// FloorGroupDTO groups a floor's units, floor submission order preserved.
type FloorGroupDTO struct {
	Floor string    `json:"floor"`
	Units []UnitDTO `json:"units"`
}

type PropertyResponse struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Address   string          `json:"address"`
	City      string          `json:"city,omitempty"`
	TimeZone  string          `json:"timezone,omitempty"`
	Units     []FloorGroupDTO `json:"units"`
	CreatedAt time.Time       `json:"created_at"`
}

type ListPropertiesResponse struct {
	Results []PropertyResponse `json:"results"`
	Total   int                `json:"total"`
}

// GroupUnitsByFloor rebuilds the floor-grouped view from the flat unit
// rows, preserving floor submission order.
func GroupUnitsByFloor(units []*models.Unit) []FloorGroupDTO {
	var groups []FloorGroupDTO
	idx := map[string]int{}
	for _, u := range units {
		g, ok := idx[u.FloorName]
		if !ok {
			groups = append(groups, FloorGroupDTO{Floor: u.FloorName})
			g = len(groups) - 1
			idx[u.FloorName] = g
		}
		groups[g].Units = append(groups[g].Units, UnitDTO{
			Type:     u.UnitType,
			Rent:     u.Rent,
			Label:    u.Label,
			Status:   string(u.Status),
			TenantID: u.TenantID,
		})
	}
	return groups
}
