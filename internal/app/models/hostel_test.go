package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComplaintStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to ComplaintStatus
		allowed  bool
	}{
		{ComplaintPending, ComplaintInProgress, true},
		{ComplaintPending, ComplaintResolved, true},
		{ComplaintPending, ComplaintRejected, true},
		{ComplaintInProgress, ComplaintResolved, true},
		{ComplaintInProgress, ComplaintRejected, true},
		{ComplaintInProgress, ComplaintPending, false},
		{ComplaintResolved, ComplaintInProgress, false},
		{ComplaintRejected, ComplaintPending, false},
		{ComplaintPending, ComplaintPending, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}

	assert.True(t, ComplaintResolved.IsTerminal())
	assert.True(t, ComplaintRejected.IsTerminal())
	assert.False(t, ComplaintPending.IsTerminal())
}

func TestComplaintStatusIsValid(t *testing.T) {
	assert.True(t, ComplaintInProgress.IsValid())
	assert.False(t, ComplaintStatus("CLOSED").IsValid())
	assert.False(t, ComplaintStatus("").IsValid())
}
