package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		from, to OrderStatus
		want     bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusShipped, false},
		{StatusConfirmed, StatusShipped, true},
		{StatusConfirmed, StatusPending, false},
		{StatusShipped, StatusDelivered, true},
		{StatusShipped, StatusCancelled, true},
		{StatusDelivered, StatusPending, false},
		{StatusDelivered, StatusCancelled, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusPending, StatusPending, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestParseOrderStatus(t *testing.T) {
	t.Parallel()

	st, ok := ParseOrderStatus("SHIPPED")
	assert.True(t, ok)
	assert.Equal(t, StatusShipped, st)

	_, ok = ParseOrderStatus("shipped")
	assert.False(t, ok)

	assert.True(t, StatusDelivered.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	assert.False(t, StatusConfirmed.Terminal())
}

func TestParseRole(t *testing.T) {
	t.Parallel()

	r, ok := ParseRole("DELIVERY_AGENT")
	assert.True(t, ok)
	assert.Equal(t, RoleDeliveryAgent, r)

	_, ok = ParseRole("ROOT")
	assert.False(t, ok)
}
