package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlexBoolUnmarshal(t *testing.T) {
	testCases := []struct {
		name     string
		payload  string
		expected bool
	}{
		{name: "JSON true", payload: `{"decline": true}`, expected: true},
		{name: "JSON false", payload: `{"decline": false}`, expected: false},
		{name: "String true", payload: `{"decline": "true"}`, expected: true},
		{name: "String yes", payload: `{"decline": "yes"}`, expected: true},
		{name: "String no", payload: `{"decline": "no"}`, expected: false},
		{name: "Empty string", payload: `{"decline": ""}`, expected: false},
		{name: "Null", payload: `{"decline": null}`, expected: false},
		{name: "Absent", payload: `{}`, expected: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var data IntentData
			err := json.Unmarshal([]byte(tc.payload), &data)
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, bool(data.Decline))
		})
	}
}

func TestIntentIsDecision(t *testing.T) {
	assert.False(t, (&Intent{}).IsDecision())
	assert.True(t, (&Intent{Data: IntentData{ConfirmationTime: "Saturday 10am"}}).IsDecision())
	assert.True(t, (&Intent{Data: IntentData{Decline: true}}).IsDecision())
}
