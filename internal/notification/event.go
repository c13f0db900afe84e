package notification

// EventType names the allocation lifecycle event a notification is about.
type EventType string

const (
	EventSubmitted EventType = "submitted"
	EventRequested EventType = "requested"
	EventApproved  EventType = "approved"
	EventRejected  EventType = "rejected"
	EventUpdated   EventType = "updated"
	EventDeleted   EventType = "deleted"
)

// Event is raised by the allocation controller after a successful write.
// RecipientCompanyID is the counterpart company whose editors get notified;
// SenderCompanyName is the display name shown in the email copy.
type Event struct {
	Type               EventType
	AllocationID       uint
	Year               int
	SenderCompanyName  string
	RecipientCompanyID uint

	// Emissions is required for EventDeleted (the amount that disappeared
	// from the customer's reporting).
	Emissions *float64
}
