package notification

import "fmt"

// TransactionalStrategy delivers through the provider API instead of the
// email queue. Selected at construction when transactional email is enabled.
type TransactionalStrategy struct {
	client TransactionalClient
}

func NewTransactionalStrategy(client TransactionalClient) *TransactionalStrategy {
	return &TransactionalStrategy{client: client}
}

func (s *TransactionalStrategy) Deliver(n Notification) error {
	params := MailParams{
		Recipient:     n.Recipient.Email,
		RecipientName: n.Recipient.Name,
		CompanyName:   n.CompanyName,
		EmissionYear:  n.Year,
		Emissions:     n.Emissions,
	}

	switch n.Type {
	case EventSubmitted:
		return s.client.SendAllocationSubmitted(params)
	case EventRequested:
		return s.client.SendAllocationRequested(params)
	case EventApproved:
		return s.client.SendAllocationApproved(params)
	case EventRejected:
		return s.client.SendAllocationRejected(params)
	case EventUpdated:
		return s.client.SendAllocationUpdated(params)
	case EventDeleted:
		return s.client.SendAllocationDeleted(params)
	default:
		return fmt.Errorf("no transactional mapping for event type %q", n.Type)
	}
}
