package models

import (
	"time"

	"github.com/google/uuid"
)

// ClientStatus represents where a client is in the viewing negotiation
type ClientStatus string

const (
	ClientStatusNew              ClientStatus = "new"
	ClientStatusAwaitingDetails  ClientStatus = "awaiting_details"
	ClientStatusNoMatches        ClientStatus = "no_matches"
	ClientStatusWaitingForTime   ClientStatus = "waiting_for_time"
	ClientStatusWaitingOwner     ClientStatus = "waiting_owner_response"
	ClientStatusAwaitingNewTime  ClientStatus = "awaiting_new_time"
	ClientStatusMeetingConfirmed ClientStatus = "meeting_confirmed"
)

// ParseClientStatus normalizes a stored status string to a known value.
// Unrecognized values come back as the empty status so free text never
// leaks out of the persistence layer.
func ParseClientStatus(s string) ClientStatus {
	switch ClientStatus(s) {
	case ClientStatusNew, ClientStatusAwaitingDetails, ClientStatusNoMatches,
		ClientStatusWaitingForTime, ClientStatusWaitingOwner,
		ClientStatusAwaitingNewTime, ClientStatusMeetingConfirmed:
		return ClientStatus(s)
	}
	return ""
}

// Client represents a prospective buyer or renter, keyed by normalized email
type Client struct {
	ID           string       `json:"id"`
	Email        string       `json:"email"`
	Location     string       `json:"location"`
	Budget       string       `json:"budget"`
	PropertyType string       `json:"property_type"`
	Status       ClientStatus `json:"status"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// NewClient creates a new Client with a generated UUID and status "new"
func NewClient(email, location, budget, propertyType string) *Client {
	now := time.Now()
	return &Client{
		ID:           uuid.New().String(),
		Email:        NormalizeEmail(email),
		Location:     location,
		Budget:       budget,
		PropertyType: propertyType,
		Status:       ClientStatusNew,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// HasSearchCriteria reports whether the stored record carries all three
// fields a search needs
func (c *Client) HasSearchCriteria() bool {
	return c.Location != "" && c.Budget != "" && c.PropertyType != ""
}

// BudgetAmount returns the digit-stripped numeric budget, zero if unparsable
func (c *Client) BudgetAmount() int {
	return ParseAmount(c.Budget)
}
