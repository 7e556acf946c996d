package models

import (
	"bytes"
	"encoding/json"
	"strings"
)

// IntentRole identifies who the extraction oracle thinks wrote the message
type IntentRole string

const (
	IntentRoleClient IntentRole = "client"
	IntentRoleOwner  IntentRole = "owner"
	IntentRoleOther  IntentRole = "other"
)

// FlexBool is a boolean that also accepts the string forms "true" and
// "yes", which the oracle occasionally produces instead of a JSON bool.
type FlexBool bool

// UnmarshalJSON implements json.Unmarshaler
func (b *FlexBool) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	var asBool bool
	if err := json.Unmarshal(data, &asBool); err == nil {
		*b = FlexBool(asBool)
		return nil
	}

	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		asString = strings.ToLower(strings.TrimSpace(asString))
		*b = FlexBool(asString == "true" || asString == "yes")
		return nil
	}

	// null or anything else is treated as false
	*b = false
	return nil
}

// IntentData carries the structured fields extracted from a conversation.
// Any field may be empty; the negotiation engine decides what is missing.
type IntentData struct {
	Location         string   `json:"location"`
	Budget           string   `json:"budget"`
	Type             string   `json:"type"`
	Price            string   `json:"price"`
	Description      string   `json:"description"`
	ViewingTime      string   `json:"viewing_time"`
	ConfirmationTime string   `json:"confirmation_time"`
	Decline          FlexBool `json:"decline"`
}

// Intent is the extraction oracle's verdict on one conversation
type Intent struct {
	Role  IntentRole `json:"role"`
	Data  IntentData `json:"data"`
	Reply string     `json:"reply"`
}

// IsDecision reports whether an owner intent carries an actionable
// confirmation or decline
func (i *Intent) IsDecision() bool {
	return i.Data.ConfirmationTime != "" || bool(i.Data.Decline)
}
