package models

import "time"

type CompanyStatus string

const (
	CompanyStatusActive              CompanyStatus = "active"
	CompanyStatusPendingConfirmation CompanyStatus = "pending_confirmation"
	CompanyStatusVetoed              CompanyStatus = "vetoed"
)

type Company struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	Name      string        `gorm:"size:160;not null;uniqueIndex" json:"name"`
	DUNS      string        `gorm:"size:20" json:"duns"`
	Status    CompanyStatus `gorm:"size:40;not null;default:active" json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}
