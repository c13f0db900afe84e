package allocation

import "transition-hub-backend/internal/models"

// Role is the side of the relationship acting on an allocation.
type Role string

const (
	RoleSupplier Role = "supplier"
	RoleCustomer Role = "customer"
)

// statusRoutes lists the allowed next statuses per (role, current status).
//
// Customer-side updates are validated against this table. Supplier-side
// transitions are computed directly in the controller (resubmitting always
// forces AWAITING_APPROVAL, dismissing forces REQUEST_DISMISSED); the
// supplier table is kept for symmetry and for callers that want to probe
// what a supplier could do next.
var statusRoutes = map[Role]map[models.AllocationStatus][]models.AllocationStatus{
	RoleCustomer: {
		models.AllocationStatusApproved:         {models.AllocationStatusRejected},
		models.AllocationStatusAwaitingApproval: {models.AllocationStatusApproved, models.AllocationStatusRejected},
		models.AllocationStatusRejected:         {models.AllocationStatusRequested},
		models.AllocationStatusRequested:        {},
		models.AllocationStatusRequestDismissed: {models.AllocationStatusRequested},
	},
	RoleSupplier: {
		models.AllocationStatusApproved:         {models.AllocationStatusAwaitingApproval},
		models.AllocationStatusAwaitingApproval: {},
		models.AllocationStatusRejected:         {models.AllocationStatusAwaitingApproval},
		models.AllocationStatusRequested:        {models.AllocationStatusAwaitingApproval, models.AllocationStatusRequestDismissed},
		models.AllocationStatusRequestDismissed: {},
	},
}

// IsValidTransition reports whether role may move an allocation from
// current to next. Pure lookup, no side effects.
func IsValidTransition(current, next models.AllocationStatus, role Role) bool {
	routes, ok := statusRoutes[role]
	if !ok {
		return false
	}
	for _, allowed := range routes[current] {
		if allowed == next {
			return true
		}
	}
	return false
}
