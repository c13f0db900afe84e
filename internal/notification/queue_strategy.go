package notification

import (
	"fmt"

	"transition-hub-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// QueueStrategy is the legacy delivery path: it renders the email and
// enqueues one EmailJob per recipient. The cron worker sends the jobs later.
type QueueStrategy struct {
	db *gorm.DB
}

func NewQueueStrategy(db *gorm.DB) *QueueStrategy {
	return &QueueStrategy{db: db}
}

func (s *QueueStrategy) Deliver(n Notification) error {
	subject, body, err := RenderEmail(n)
	if err != nil {
		return err
	}

	job := models.EmailJob{
		MessageID: uuid.NewString(),
		Recipient: n.Recipient.Email,
		Subject:   subject,
		Body:      body,
	}

	if err := s.db.Create(&job).Error; err != nil {
		return fmt.Errorf("could not enqueue email for %s: %w", n.Recipient.Email, err)
	}

	return nil
}
