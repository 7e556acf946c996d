package models

import (
	"time"

	"github.com/google/uuid"
)

// ViewingStatus represents the status of a single viewing negotiation leg
type ViewingStatus string

const (
	ViewingStatusPending       ViewingStatus = "pending"
	ViewingStatusScheduled     ViewingStatus = "scheduled"
	ViewingStatusConfirmed     ViewingStatus = "confirmed"
	ViewingStatusDeclined      ViewingStatus = "declined"
	ViewingStatusFinalized     ViewingStatus = "finalized"
	ViewingStatusDeclinedFinal ViewingStatus = "declined_final"
)

// ParseViewingStatus normalizes a stored status string to a known value.
// Unrecognized values come back as the empty status.
func ParseViewingStatus(s string) ViewingStatus {
	switch ViewingStatus(s) {
	case ViewingStatusPending, ViewingStatusScheduled, ViewingStatusConfirmed,
		ViewingStatusDeclined, ViewingStatusFinalized, ViewingStatusDeclinedFinal:
		return ViewingStatus(s)
	}
	return ""
}

// Viewing links one client to one owner for a single property viewing.
// Rows are appended when a search fans out and mutated in place as the
// negotiation progresses; they are never deleted.
type Viewing struct {
	ID           string        `json:"id"`
	ClientEmail  string        `json:"client_email"`
	OwnerEmail   string        `json:"owner_email"`
	ProposedTime string        `json:"proposed_time"`
	Status       ViewingStatus `json:"status"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// NewViewing creates a pending Viewing between a client and an owner
func NewViewing(clientEmail, ownerEmail string) *Viewing {
	now := time.Now()
	return &Viewing{
		ID:           uuid.New().String(),
		ClientEmail:  NormalizeEmail(clientEmail),
		OwnerEmail:   NormalizeEmail(ownerEmail),
		ProposedTime: "",
		Status:       ViewingStatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// IsTerminal reports whether the finalizer already swept this row
func (v *Viewing) IsTerminal() bool {
	return v.Status == ViewingStatusFinalized || v.Status == ViewingStatusDeclinedFinal
}

// IsOpen reports whether the row can still take part in a negotiation
func (v *Viewing) IsOpen() bool {
	return !v.IsTerminal()
}
