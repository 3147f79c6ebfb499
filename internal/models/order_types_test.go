package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOrderStatusTransitions(t *testing.T) {
	all := []OrderStatus{StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled}

	allowed := map[OrderStatus]map[OrderStatus]bool{
		StatusPending:    {StatusProcessing: true, StatusCancelled: true},
		StatusProcessing: {StatusShipped: true, StatusCancelled: true},
		StatusShipped:    {StatusDelivered: true},
	}

	for _, from := range all {
		for _, to := range all {
			got := from.CanTransitionTo(to)
			require.Equal(t, allowed[from][to], got, "%s -> %s", from, to)
		}
	}
}

func TestOrderStatusIsTerminal(t *testing.T) {
	require.False(t, StatusPending.IsTerminal())
	require.False(t, StatusProcessing.IsTerminal())
	require.False(t, StatusShipped.IsTerminal())
	require.True(t, StatusDelivered.IsTerminal())
	require.True(t, StatusCancelled.IsTerminal())
}

func TestOrderStatusIsValid(t *testing.T) {
	require.True(t, StatusShipped.IsValid())
	require.False(t, OrderStatus("refunded").IsValid())
	require.False(t, OrderStatus("").IsValid())
}
