package models

import (
	"time"

	"github.com/google/uuid"
)

// CashRegister is a drawer session. Sales can only be recorded while one is
// open; the engine reads this state and never writes it.
type CashRegister struct {
	ID            uuid.UUID  `json:"id"`
	OpenedBy      uuid.UUID  `json:"opened_by"`
	OpeningAmount float64    `json:"opening_amount"`
	IsOpen        bool       `json:"is_open"`
	OpenedAt      time.Time  `json:"opened_at"`
	ClosedAt      *time.Time `json:"closed_at,omitempty"`
}

type RegisterStatusResponse struct {
	ID     *uuid.UUID `json:"id,omitempty"`
	IsOpen bool       `json:"is_open"`
}
