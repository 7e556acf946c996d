package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewViewing(t *testing.T) {
	viewing := NewViewing("Client <CLIENT@x.com>", "owner@y.com")

	assert.NotEmpty(t, viewing.ID)
	assert.Equal(t, "client@x.com", viewing.ClientEmail)
	assert.Equal(t, "owner@y.com", viewing.OwnerEmail)
	assert.Equal(t, ViewingStatusPending, viewing.Status)
	assert.Empty(t, viewing.ProposedTime)
	assert.True(t, viewing.IsOpen())
}

func TestViewingTerminalStates(t *testing.T) {
	open := []ViewingStatus{
		ViewingStatusPending,
		ViewingStatusScheduled,
		ViewingStatusConfirmed,
		ViewingStatusDeclined,
	}
	for _, status := range open {
		viewing := &Viewing{Status: status}
		assert.True(t, viewing.IsOpen(), "%s should be open", status)
		assert.False(t, viewing.IsTerminal())
	}

	terminal := []ViewingStatus{ViewingStatusFinalized, ViewingStatusDeclinedFinal}
	for _, status := range terminal {
		viewing := &Viewing{Status: status}
		assert.True(t, viewing.IsTerminal(), "%s should be terminal", status)
		assert.False(t, viewing.IsOpen())
	}
}

func TestParseStatuses(t *testing.T) {
	t.Run("Known values round-trip", func(t *testing.T) {
		assert.Equal(t, ClientStatusWaitingForTime, ParseClientStatus("waiting_for_time"))
		assert.Equal(t, OwnerStatusAwaitingConfirmation, ParseOwnerStatus("awaiting_confirmation"))
		assert.Equal(t, ViewingStatusDeclinedFinal, ParseViewingStatus("declined_final"))
	})

	t.Run("Free text is rejected", func(t *testing.T) {
		assert.Equal(t, ClientStatus(""), ParseClientStatus("Waiting For Time"))
		assert.Equal(t, OwnerStatus(""), ParseOwnerStatus("maybe later"))
		assert.Equal(t, ViewingStatus(""), ParseViewingStatus("done"))
	})

	t.Run("Empty stays empty", func(t *testing.T) {
		assert.Equal(t, ClientStatus(""), ParseClientStatus(""))
		assert.Equal(t, OwnerStatus(""), ParseOwnerStatus(""))
		assert.Equal(t, ViewingStatus(""), ParseViewingStatus(""))
	})
}
