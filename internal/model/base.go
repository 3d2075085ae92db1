package model

import (
	"time"

	"github.com/google/uuid"
)

// Base contains common fields for all stored records
type Base struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Address is the two-line free-text address used by doctors and hospitals
type Address struct {
	Line1 string `json:"line1" db:"address_line1"`
	Line2 string `json:"line2" db:"address_line2"`
}
