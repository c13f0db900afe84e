package models

import "time"

type AllocationStatus string

const (
	AllocationStatusRequested        AllocationStatus = "REQUESTED"
	AllocationStatusAwaitingApproval AllocationStatus = "AWAITING_APPROVAL"
	AllocationStatusApproved         AllocationStatus = "APPROVED"
	AllocationStatusRejected         AllocationStatus = "REJECTED"
	AllocationStatusRequestDismissed AllocationStatus = "REQUEST_DISMISSED"
)

type AllocationMethod string

const (
	AllocationMethodEconomical AllocationMethod = "ECONOMICAL"
	AllocationMethodPhysical   AllocationMethod = "PHYSICAL"
	AllocationMethodOther      AllocationMethod = "OTHER"
)

// EmissionAllocationType is fixed for now: every allocation lands in the
// customer's scope-3 bucket.
const EmissionAllocationTypeScope3 = "SCOPE_3"

// EmissionAllocation is a claim of emissions transferred from a supplier
// company to a customer company for a reporting year. At most one allocation
// may exist per (supplier, customer, year).
type EmissionAllocation struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Year int    `gorm:"not null;uniqueIndex:idx_allocation_pair_year" json:"year"`
	Type string `gorm:"size:20;not null;default:SCOPE_3" json:"type"`

	Status AllocationStatus `gorm:"size:30;not null" json:"status"`

	SupplierID uint     `gorm:"not null;uniqueIndex:idx_allocation_pair_year" json:"supplier_id"`
	Supplier   *Company `json:"supplier,omitempty"`
	CustomerID uint     `gorm:"not null;uniqueIndex:idx_allocation_pair_year" json:"customer_id"`
	Customer   *Company `json:"customer,omitempty"`

	SupplierApproverID *uint `json:"supplier_approver_id"`
	CustomerApproverID *uint `json:"customer_approver_id"`

	SupplierEmissionID *uint              `json:"supplier_emission_id"`
	SupplierEmission   *CorporateEmission `gorm:"foreignKey:SupplierEmissionID" json:"supplier_emission,omitempty"`
	CustomerEmissionID *uint              `json:"customer_emission_id"`
	CustomerEmission   *CorporateEmission `gorm:"foreignKey:CustomerEmissionID" json:"customer_emission,omitempty"`

	CategoryID *uint     `json:"category_id"`
	Category   *Category `json:"category,omitempty"`

	// tCO2e claimed by the supplier for this customer.
	Emissions *float64 `json:"emissions"`

	AllocationMethod *AllocationMethod `gorm:"size:20" json:"allocation_method"`

	// Whether the customer counts this allocation inside its scope-3 total.
	AddedToCustomerScopeTotal *bool `json:"added_to_customer_scope_total"`

	Note *string `gorm:"size:500" json:"note"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
