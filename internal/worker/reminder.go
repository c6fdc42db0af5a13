package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"renthub/internal/domain"
	"renthub/internal/mailer"
)

// staleAfter is how long a request may sit in Pending before the owner is
// nudged.
const staleAfter = 24 * time.Hour

// ReminderJob enqueues one daily digest per owner who has stale Pending
// requests. Scheduled through the shared cron runner.
type ReminderJob struct {
	repo      domain.Repository
	templates *mailer.Templates
	logger    *zerolog.Logger
}

func NewReminderJob(repo domain.Repository, templates *mailer.Templates, logger *zerolog.Logger) *ReminderJob {
	return &ReminderJob{
		repo:      repo,
		templates: templates,
		logger:    logger,
	}
}

func (j *ReminderJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	stale, err := j.repo.GetStalePendingBookings(ctx, time.Now().Add(-staleAfter))
	if err != nil {
		j.logger.Error().Err(err).Msg("Failed to fetch stale pending bookings")
		return
	}
	if len(stale) == 0 {
		return
	}

	// One digest per owner, bookings arrive oldest-first
	type digest struct {
		ownerName   string
		oldestTitle string
		count       int
	}
	digests := make(map[string]*digest)
	for _, b := range stale {
		d, ok := digests[b.OwnerEmail]
		if !ok {
			d = &digest{ownerName: b.OwnerName, oldestTitle: b.PropertyTitle}
			digests[b.OwnerEmail] = d
		}
		d.count++
	}

	for email, d := range digests {
		msg, err := j.templates.BookingReminder(email, d.ownerName, d.oldestTitle, d.count)
		if err != nil {
			j.logger.Error().Err(err).Msg("Failed to render reminder")
			continue
		}
		if err := j.repo.EnqueueEmail(ctx, msg); err != nil {
			j.logger.Error().Err(err).Str("owner", email).Msg("Failed to enqueue reminder")
		}
	}

	j.logger.Info().Int("owners", len(digests)).Int("bookings", len(stale)).Msg("Pending booking reminders queued")
}
