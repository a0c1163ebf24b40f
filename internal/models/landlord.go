package models

import (
	"time"

	"github.com/google/uuid"
)

type Landlord struct {
	Versioned
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	PhoneNumber  *string    `json:"phone_number,omitempty"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	BusinessName string     `json:"business_name,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
}

func (l *Landlord) GetID() string { return l.ID.String() }
