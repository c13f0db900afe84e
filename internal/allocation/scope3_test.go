package allocation

import (
	"testing"

	"transition-hub-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fptr(v float64) *float64 { return &v }
func bptr(v bool) *bool       { return &v }

func TestComputeAdjustmentDeletion(t *testing.T) {
	prev := Snapshot{
		Status:                    models.AllocationStatusApproved,
		Emissions:                 fptr(150),
		AddedToCustomerScopeTotal: bptr(true),
	}

	delta := ComputeAdjustment(prev, nil)
	require.NotNil(t, delta)
	assert.Equal(t, -150.0, *delta)
}

func TestComputeAdjustmentDeletionNotIncluded(t *testing.T) {
	prev := Snapshot{
		Status:                    models.AllocationStatusApproved,
		Emissions:                 fptr(150),
		AddedToCustomerScopeTotal: bptr(false),
	}

	assert.Nil(t, ComputeAdjustment(prev, nil))
}

func TestComputeAdjustmentDeletionNilEmissions(t *testing.T) {
	prev := Snapshot{
		Status:                    models.AllocationStatusApproved,
		AddedToCustomerScopeTotal: bptr(true),
	}

	assert.Nil(t, ComputeAdjustment(prev, nil))
}

func TestComputeAdjustmentNoLongerIncluded(t *testing.T) {
	prev := Snapshot{
		Status:                    models.AllocationStatusApproved,
		Emissions:                 fptr(80),
		AddedToCustomerScopeTotal: bptr(true),
	}
	curr := Snapshot{
		Status:                    models.AllocationStatusApproved,
		Emissions:                 fptr(80),
		AddedToCustomerScopeTotal: bptr(false),
	}

	delta := ComputeAdjustment(prev, &curr)
	require.NotNil(t, delta)
	assert.Equal(t, -80.0, *delta)
}

func TestComputeAdjustmentNewlyIncluded(t *testing.T) {
	prev := Snapshot{
		Status:    models.AllocationStatusAwaitingApproval,
		Emissions: fptr(100),
	}
	curr := Snapshot{
		Status:                    models.AllocationStatusApproved,
		Emissions:                 fptr(100),
		AddedToCustomerScopeTotal: bptr(true),
	}

	delta := ComputeAdjustment(prev, &curr)
	require.NotNil(t, delta)
	assert.Equal(t, 100.0, *delta)
}

func TestComputeAdjustmentNewlyIncludedButNotApproved(t *testing.T) {
	prev := Snapshot{
		Status:    models.AllocationStatusAwaitingApproval,
		Emissions: fptr(100),
	}
	curr := Snapshot{
		Status:                    models.AllocationStatusAwaitingApproval,
		Emissions:                 fptr(100),
		AddedToCustomerScopeTotal: bptr(true),
	}

	assert.Nil(t, ComputeAdjustment(prev, &curr))
}

func TestComputeAdjustmentIncludedBothSides(t *testing.T) {
	tests := []struct {
		name       string
		prevStatus models.AllocationStatus
		currStatus models.AllocationStatus
		prevEm     float64
		currEm     float64
		want       *float64
	}{
		{
			// Re-opening an approved allocation excludes the old amount
			// until it is approved again.
			name:       "approved to awaiting approval",
			prevStatus: models.AllocationStatusApproved,
			currStatus: models.AllocationStatusAwaitingApproval,
			prevEm:     100,
			currEm:     120,
			want:       fptr(-100),
		},
		{
			name:       "approved to rejected",
			prevStatus: models.AllocationStatusApproved,
			currStatus: models.AllocationStatusRejected,
			prevEm:     100,
			currEm:     100,
			want:       fptr(-100),
		},
		{
			name:       "awaiting approval to approved",
			prevStatus: models.AllocationStatusAwaitingApproval,
			currStatus: models.AllocationStatusApproved,
			prevEm:     100,
			currEm:     120,
			want:       fptr(120),
		},
		{
			name:       "approved to approved",
			prevStatus: models.AllocationStatusApproved,
			currStatus: models.AllocationStatusApproved,
			prevEm:     100,
			currEm:     100,
			want:       nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prev := Snapshot{
				Status:                    tt.prevStatus,
				Emissions:                 fptr(tt.prevEm),
				AddedToCustomerScopeTotal: bptr(true),
			}
			curr := Snapshot{
				Status:                    tt.currStatus,
				Emissions:                 fptr(tt.currEm),
				AddedToCustomerScopeTotal: bptr(true),
			}

			got := ComputeAdjustment(prev, &curr)
			if tt.want == nil {
				assert.Nil(t, got)
			} else {
				require.NotNil(t, got)
				assert.Equal(t, *tt.want, *got)
			}
		})
	}
}

func TestComputeAdjustmentNotIncludedEitherSide(t *testing.T) {
	prev := Snapshot{Status: models.AllocationStatusAwaitingApproval, Emissions: fptr(50)}
	curr := Snapshot{Status: models.AllocationStatusApproved, Emissions: fptr(50)}

	assert.Nil(t, ComputeAdjustment(prev, &curr))
}
