package models

import "time"

type RelationshipStatus string

const (
	RelationshipStatusPending  RelationshipStatus = "pending"
	RelationshipStatusApproved RelationshipStatus = "approved"
	RelationshipStatusRejected RelationshipStatus = "rejected"
)

// CompanyRelationship records a supplier/customer connection between two
// companies. Emission allocations may only flow across approved rows.
type CompanyRelationship struct {
	ID          uint               `gorm:"primaryKey" json:"id"`
	SupplierID  uint               `gorm:"not null;uniqueIndex:idx_relationship_pair" json:"supplier_id"`
	Supplier    *Company           `json:"supplier,omitempty"`
	CustomerID  uint               `gorm:"not null;uniqueIndex:idx_relationship_pair" json:"customer_id"`
	Customer    *Company           `json:"customer,omitempty"`
	Status      RelationshipStatus `gorm:"size:20;not null;default:pending" json:"status"`
	InvitedByID uint               `gorm:"not null" json:"invited_by_id"`
	Note        string             `gorm:"size:255" json:"note"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}
