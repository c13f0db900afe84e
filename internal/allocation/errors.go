package allocation

import "errors"

// User-facing failure conditions surfaced directly to the API caller. All
// are validation/authorization errors, never retried.
var (
	ErrNoCompanyRelationship  = errors.New("no approved relationship exists between the supplier and the customer")
	ErrAllocationExists       = errors.New("an allocation already exists for this supplier, customer and year")
	ErrMissingFields          = errors.New("required fields are missing")
	ErrAllocationDoesNotExist = errors.New("allocation does not exist")
	ErrNoEmission             = errors.New("emission record does not exist")
	ErrCannotAssignEmission   = errors.New("emission record does not belong to your company for this year")
	ErrInvalidStatusChange    = errors.New("this status change is not allowed")
	ErrDeleteNotAllowed       = errors.New("allocation cannot be deleted in its current status")
	ErrCompanyMismatch        = errors.New("your company is neither the supplier nor the customer of this allocation")
)
