package notification

import (
	"fmt"

	"transition-hub-backend/internal/models"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// recipientRoles: allocation emails go to the counterpart company's editors.
var recipientRoles = []models.UserRole{models.RoleEditor}

// Dispatcher fans an allocation event out to every eligible recipient via
// the configured delivery strategy. Delivery failures are logged and
// swallowed: the business write has already committed and must not fail
// because an email could not be sent.
type Dispatcher struct {
	db       *gorm.DB
	strategy Strategy
	log      zerolog.Logger
}

func NewDispatcher(db *gorm.DB, strategy Strategy, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{db: db, strategy: strategy, log: log}
}

// Dispatch resolves recipients and delivers one notification each. Returns
// an error only when the event itself is malformed; per-recipient delivery
// failures are logged and do not stop the loop.
func (d *Dispatcher) Dispatch(ev Event) error {
	if ev.Type == EventDeleted && ev.Emissions == nil {
		return fmt.Errorf("deleted event for allocation %d is missing the emissions amount", ev.AllocationID)
	}

	var recipients []models.User
	if err := d.db.
		Where("company_id = ? AND role IN ?", ev.RecipientCompanyID, recipientRoles).
		Find(&recipients).Error; err != nil {
		return fmt.Errorf("could not resolve recipients for company %d: %w", ev.RecipientCompanyID, err)
	}

	for _, recipient := range recipients {
		n := Notification{
			Type:         ev.Type,
			Recipient:    recipient,
			CompanyName:  ev.SenderCompanyName,
			Year:         ev.Year,
			AllocationID: ev.AllocationID,
			Emissions:    ev.Emissions,
		}
		if err := d.strategy.Deliver(n); err != nil {
			d.log.Error().
				Err(err).
				Str("event", string(ev.Type)).
				Uint("allocation_id", ev.AllocationID).
				Str("recipient", recipient.Email).
				Msg("notification delivery failed")
		}
	}

	return nil
}
