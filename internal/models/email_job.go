package models

import "time"

// EmailJob is one queued outbound notification email. The cron worker drains
// unsent rows; SentAt stays nil until delivery succeeds.
type EmailJob struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	MessageID string     `gorm:"size:36;uniqueIndex" json:"message_id"`
	Recipient string     `gorm:"size:100;not null;index" json:"recipient"`
	Subject   string     `gorm:"size:255;not null" json:"subject"`
	Body      string     `gorm:"type:text;not null" json:"body"`
	Attempts  int        `gorm:"not null;default:0" json:"attempts"`
	LastError string     `gorm:"size:500" json:"last_error"`
	SentAt    *time.Time `json:"sent_at"`
	CreatedAt time.Time  `json:"created_at"`
}
