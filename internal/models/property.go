package models

import (
	"time"

	"github.com/google/uuid"
)

type Property struct {
	Versioned
	ID         uuid.UUID  `json:"id"`
	LandlordID uuid.UUID  `json:"landlord_id"`
	Name       string     `json:"name"`
	Address    string     `json:"address"`
	City       string     `json:"city,omitempty"`
	Latitude   float64    `json:"latitude,omitempty"`
	Longitude  float64    `json:"longitude,omitempty"`
	TimeZone   string     `json:"timezone"`
	IsDemo     bool       `json:"is_demo"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty"`
}

func (p *Property) GetID() string { return p.ID.String() }
