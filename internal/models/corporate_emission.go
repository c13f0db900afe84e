package models

import "time"

// CorporateEmission is a company's declared emissions for one reporting year.
// Scope3 is mutated by the allocation workflow as allocations are approved,
// re-opened or deleted, so it stays nullable until the first adjustment.
type CorporateEmission struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CompanyID uint      `gorm:"not null;uniqueIndex:idx_emission_company_year" json:"company_id"`
	Company   *Company  `json:"company,omitempty"`
	Year      int       `gorm:"not null;uniqueIndex:idx_emission_company_year" json:"year"`
	Scope1    float64   `gorm:"not null;default:0" json:"scope_1"`
	Scope2    float64   `gorm:"not null;default:0" json:"scope_2"`
	Scope3    *float64  `json:"scope_3"`
	Offset    float64   `gorm:"not null;default:0" json:"offset"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
