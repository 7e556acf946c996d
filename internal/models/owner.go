package models

import (
	"time"

	"github.com/google/uuid"
)

// OwnerStatus represents where a property owner is in the workflow
type OwnerStatus string

const (
	OwnerStatusNew                  OwnerStatus = "new"
	OwnerStatusAwaitingDetails      OwnerStatus = "awaiting_details"
	OwnerStatusNoClients            OwnerStatus = "no_clients"
	OwnerStatusNotified             OwnerStatus = "notified"
	OwnerStatusAwaitingConfirmation OwnerStatus = "awaiting_confirmation"
	OwnerStatusConfirmed            OwnerStatus = "confirmed"
	OwnerStatusDeclined             OwnerStatus = "declined"
	OwnerStatusMeetingConfirmed     OwnerStatus = "meeting_confirmed"
)

// ParseOwnerStatus normalizes a stored status string to a known value.
// Unrecognized values come back as the empty status.
func ParseOwnerStatus(s string) OwnerStatus {
	switch OwnerStatus(s) {
	case OwnerStatusNew, OwnerStatusAwaitingDetails, OwnerStatusNoClients,
		OwnerStatusNotified, OwnerStatusAwaitingConfirmation,
		OwnerStatusConfirmed, OwnerStatusDeclined, OwnerStatusMeetingConfirmed:
		return OwnerStatus(s)
	}
	return ""
}

// Owner represents a property owner with one listing, keyed by normalized email
type Owner struct {
	ID          string      `json:"id"`
	Email       string      `json:"email"`
	Location    string      `json:"location"`
	Price       string      `json:"price"`
	Description string      `json:"description"`
	Status      OwnerStatus `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// NewOwner creates a new Owner with a generated UUID and status "new"
func NewOwner(email, location, price, description string) *Owner {
	now := time.Now()
	return &Owner{
		ID:          uuid.New().String(),
		Email:       NormalizeEmail(email),
		Location:    location,
		Price:       price,
		Description: description,
		Status:      OwnerStatusNew,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// HasListingDetails reports whether the stored record carries all three
// listing fields
func (o *Owner) HasListingDetails() bool {
	return o.Location != "" && o.Price != "" && o.Description != ""
}

// PriceAmount returns the digit-stripped numeric price, zero if unparsable
func (o *Owner) PriceAmount() int {
	return ParseAmount(o.Price)
}
