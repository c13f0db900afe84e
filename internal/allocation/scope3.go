package allocation

import "transition-hub-backend/internal/models"

// Snapshot is an immutable view of the fields the scope-3 reconciliation
// cares about. Update and delete paths build a {previous, next} pair instead
// of mutating the loaded record in place.
type Snapshot struct {
	Status                    models.AllocationStatus
	Emissions                 *float64
	AddedToCustomerScopeTotal *bool
}

func snapshotOf(a models.EmissionAllocation) Snapshot {
	return Snapshot{
		Status:                    a.Status,
		Emissions:                 a.Emissions,
		AddedToCustomerScopeTotal: a.AddedToCustomerScopeTotal,
	}
}

func (s Snapshot) included() bool {
	return s.AddedToCustomerScopeTotal != nil && *s.AddedToCustomerScopeTotal
}

// ComputeAdjustment returns the signed delta to apply to the customer's
// scope-3 total, or nil when no reconciliation is needed. current == nil
// means the allocation is being deleted. The delta is applied as
// scope3 = coalesce(scope3, 0) + delta in the same transaction as the
// allocation write.
func ComputeAdjustment(previous Snapshot, current *Snapshot) *float64 {
	// Deletion: reverse anything that was counted.
	if current == nil {
		if previous.included() && previous.Emissions != nil {
			return negated(previous.Emissions)
		}
		return nil
	}

	switch {
	case previous.included() && !current.included():
		return negated(previous.Emissions)

	case !previous.included() && current.included():
		if current.Status == models.AllocationStatusApproved && current.Emissions != nil {
			v := *current.Emissions
			return &v
		}
		return nil

	case previous.included() && current.included():
		// Still counted on both sides: only specific status moves change the
		// total, e.g. re-opening an approved allocation excludes it until it
		// is approved again.
		switch {
		case previous.Status == models.AllocationStatusApproved && current.Status == models.AllocationStatusAwaitingApproval:
			return negated(previous.Emissions)
		case previous.Status == models.AllocationStatusApproved && current.Status == models.AllocationStatusRejected:
			return negated(previous.Emissions)
		case previous.Status == models.AllocationStatusAwaitingApproval && current.Status == models.AllocationStatusApproved:
			if current.Emissions != nil {
				v := *current.Emissions
				return &v
			}
		}
	}

	return nil
}

func negated(v *float64) *float64 {
	if v == nil {
		return nil
	}
	n := -*v
	return &n
}
