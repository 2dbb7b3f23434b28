package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{"pending to confirmed", StatusPending, StatusConfirmed, true},
		{"pending to cancelled", StatusPending, StatusCancelled, true},
		{"pending to shipped skips steps", StatusPending, StatusShipped, false},
		{"confirmed to processing", StatusConfirmed, StatusProcessing, true},
		{"confirmed to cancelled", StatusConfirmed, StatusCancelled, true},
		{"processing to shipped", StatusProcessing, StatusShipped, true},
		{"processing to cancelled", StatusProcessing, StatusCancelled, true},
		{"shipped to delivered", StatusShipped, StatusDelivered, true},
		{"shipped to returned", StatusShipped, StatusReturned, true},
		{"shipped to cancelled too late", StatusShipped, StatusCancelled, false},
		{"delivered to returned", StatusDelivered, StatusReturned, true},
		{"delivered to cancelled", StatusDelivered, StatusCancelled, false},
		{"cancelled is terminal", StatusCancelled, StatusPending, false},
		{"returned is terminal", StatusReturned, StatusPending, false},
		{"no self transition", StatusPending, StatusPending, false},
		{"no backwards transition", StatusShipped, StatusProcessing, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, CanTransition(tt.from, tt.to))
		})
	}
}

func TestTerminalStatesHaveNoExits(t *testing.T) {
	for _, s := range []OrderStatus{StatusDelivered, StatusCancelled, StatusReturned} {
		if s == StatusDelivered {
			// DELIVERED still allows RETURNED, it is not terminal.
			assert.False(t, IsTerminal(s))
			continue
		}
		assert.True(t, IsTerminal(s), string(s))
		assert.Empty(t, AllowedTransitions(s), string(s))
	}
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus(" shipped ")
	assert.NoError(t, err)
	assert.Equal(t, StatusShipped, s)

	_, err = ParseStatus("TELEPORTED")
	assert.Error(t, err)
}

func TestRestoresStock(t *testing.T) {
	assert.True(t, RestoresStock(StatusCancelled))
	assert.True(t, RestoresStock(StatusReturned))
	assert.False(t, RestoresStock(StatusDelivered))
	assert.False(t, RestoresStock(StatusShipped))
}
