package models

// Category is a scope-3 reporting category. Customers pick one when they
// approve an incoming allocation.
type Category struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"size:120;not null" json:"name"`
	Order int    `gorm:"column:sort_order;not null;default:0" json:"order"`
}
