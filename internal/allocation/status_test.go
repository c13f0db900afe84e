package allocation

import (
	"testing"

	"transition-hub-backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestIsValidTransitionCustomer(t *testing.T) {
	tests := []struct {
		current models.AllocationStatus
		next    models.AllocationStatus
		want    bool
	}{
		{models.AllocationStatusAwaitingApproval, models.AllocationStatusApproved, true},
		{models.AllocationStatusAwaitingApproval, models.AllocationStatusRejected, true},
		{models.AllocationStatusAwaitingApproval, models.AllocationStatusRequested, false},
		{models.AllocationStatusApproved, models.AllocationStatusRejected, true},
		{models.AllocationStatusApproved, models.AllocationStatusAwaitingApproval, false},
		{models.AllocationStatusRejected, models.AllocationStatusRequested, true},
		{models.AllocationStatusRejected, models.AllocationStatusApproved, false},
		{models.AllocationStatusRequested, models.AllocationStatusApproved, false},
		{models.AllocationStatusRequested, models.AllocationStatusRequestDismissed, false},
		{models.AllocationStatusRequestDismissed, models.AllocationStatusRequested, true},
	}

	for _, tt := range tests {
		got := IsValidTransition(tt.current, tt.next, RoleCustomer)
		assert.Equal(t, tt.want, got, "customer %s -> %s", tt.current, tt.next)
	}
}

func TestIsValidTransitionSupplier(t *testing.T) {
	tests := []struct {
		current models.AllocationStatus
		next    models.AllocationStatus
		want    bool
	}{
		{models.AllocationStatusRequested, models.AllocationStatusAwaitingApproval, true},
		{models.AllocationStatusRequested, models.AllocationStatusRequestDismissed, true},
		{models.AllocationStatusApproved, models.AllocationStatusAwaitingApproval, true},
		{models.AllocationStatusRejected, models.AllocationStatusAwaitingApproval, true},
		{models.AllocationStatusAwaitingApproval, models.AllocationStatusApproved, false},
		{models.AllocationStatusRequestDismissed, models.AllocationStatusRequested, false},
	}

	for _, tt := range tests {
		got := IsValidTransition(tt.current, tt.next, RoleSupplier)
		assert.Equal(t, tt.want, got, "supplier %s -> %s", tt.current, tt.next)
	}
}

func TestIsValidTransitionUnknownRole(t *testing.T) {
	assert.False(t, IsValidTransition(models.AllocationStatusAwaitingApproval, models.AllocationStatusApproved, Role("auditor")))
}
