package worker

import (
	"time"

	"transition-hub-backend/internal/models"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Mailer sends one queued email. The production implementation posts to the
// provider's generic send endpoint; tests use a fake.
type Mailer interface {
	Send(job models.EmailJob) error
}

// EmailWorker drains unsent EmailJob rows on a cron schedule. A job is
// retried until maxAttempts, then left in place with its last error for
// inspection.
type EmailWorker struct {
	db          *gorm.DB
	mailer      Mailer
	maxAttempts int
	log         zerolog.Logger
}

func NewEmailWorker(db *gorm.DB, mailer Mailer, maxAttempts int, log zerolog.Logger) *EmailWorker {
	return &EmailWorker{db: db, mailer: mailer, maxAttempts: maxAttempts, log: log}
}

// Start registers the drain on schedule (cron spec, e.g. "@every 30s") and
// starts the scheduler. The returned cron can be stopped on shutdown.
func (w *EmailWorker) Start(schedule string) (*cron.Cron, error) {
	c := cron.New()
	if _, err := c.AddFunc(schedule, w.Drain); err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}

// Drain sends every pending job once. Failures bump the attempt counter;
// successes stamp SentAt.
func (w *EmailWorker) Drain() {
	var jobs []models.EmailJob
	err := w.db.
		Where("sent_at IS NULL AND attempts < ?", w.maxAttempts).
		Order("created_at asc").
		Limit(50).
		Find(&jobs).Error
	if err != nil {
		w.log.Error().Err(err).Msg("could not load pending email jobs")
		return
	}

	for _, job := range jobs {
		job.Attempts++
		if err := w.mailer.Send(job); err != nil {
			job.LastError = err.Error()
			w.log.Error().
				Err(err).
				Str("message_id", job.MessageID).
				Int("attempts", job.Attempts).
				Msg("email delivery failed")
		} else {
			now := time.Now()
			job.SentAt = &now
			job.LastError = ""
		}

		if err := w.db.Save(&job).Error; err != nil {
			w.log.Error().Err(err).Str("message_id", job.MessageID).Msg("could not update email job")
		}
	}
}
