package notification

import "transition-hub-backend/internal/models"

// Notification is one email-worth of information: a single recipient plus
// the rendered context.
type Notification struct {
	Type         EventType
	Recipient    models.User
	CompanyName  string
	Year         int
	AllocationID uint
	Emissions    *float64
}

// Strategy delivers a single notification. The dispatcher picks exactly one
// implementation at construction: the email queue or the transactional
// provider.
type Strategy interface {
	Deliver(n Notification) error
}
