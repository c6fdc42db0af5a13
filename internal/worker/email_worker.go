package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"renthub/internal/domain"
	"renthub/internal/metrics"
	"renthub/internal/models"
)

// EmailWorker drains the email outbox. Each cycle it fetches a batch of
// deliverable rows, hands them to the mailer and records the outcome.
// Failed deliveries back off exponentially; after the retry budget the row
// is dead-lettered with its final error.
type EmailWorker struct {
	repo         domain.Repository
	mailer       domain.Mailer
	retryPolicy  RetryPolicy
	pollInterval time.Duration
	batchSize    int
	logger       *zerolog.Logger
}

func NewEmailWorker(repo domain.Repository, mailer domain.Mailer, retry RetryPolicy, pollInterval time.Duration, batchSize int, logger *zerolog.Logger) *EmailWorker {
	if retry.MaxRetries == 0 {
		retry.MaxRetries = 5
	}
	if retry.InitialDelay == 0 {
		retry.InitialDelay = 2 * time.Second
	}
	if retry.MaxDelay == 0 {
		retry.MaxDelay = 10 * time.Minute
	}
	if retry.BackoffFactor == 0 {
		retry.BackoffFactor = 2
	}
	if pollInterval <= 0 {
		pollInterval = 15 * time.Second
	}
	if batchSize <= 0 {
		batchSize = 20
	}

	return &EmailWorker{
		repo:         repo,
		mailer:       mailer,
		retryPolicy:  retry,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		logger:       logger,
	}
}

// Start runs the polling loop until ctx is done.
func (w *EmailWorker) Start(ctx context.Context) {
	w.logger.Info().Dur("poll_interval", w.pollInterval).Msg("Email worker started")
	defer w.logger.Info().Msg("Email worker stopped")

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		w.ProcessBatch(ctx)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// ProcessBatch delivers one batch of pending emails. Exposed so the cron
// reminder can flush its own enqueues without waiting for the next tick.
func (w *EmailWorker) ProcessBatch(ctx context.Context) {
	emails, err := w.repo.GetPendingEmails(ctx, w.batchSize)
	if err != nil {
		w.logger.Error().Err(err).Msg("Failed to fetch pending emails")
		return
	}

	for _, email := range emails {
		select {
		case <-ctx.Done():
			return
		default:
		}
		w.deliver(ctx, email)
	}

	w.reportDepth(ctx)
}

func (w *EmailWorker) deliver(ctx context.Context, email *models.OutboxEmail) {
	err := w.mailer.Send(ctx, email.Recipient, email.Subject, email.Body)
	if err == nil {
		if err := w.repo.MarkEmailSent(ctx, email.ID); err != nil {
			w.logger.Error().Err(err).Int64("email_id", email.ID).Msg("Failed to mark email sent")
		}
		metrics.IncEmail("sent")
		w.logger.Debug().Int64("email_id", email.ID).Str("kind", email.Kind).Msg("Email delivered")
		return
	}

	attempt := email.RetryCount + 1
	if w.retryPolicy.Exhausted(attempt) {
		if markErr := w.repo.MarkEmailFailed(ctx, email.ID, err.Error()); markErr != nil {
			w.logger.Error().Err(markErr).Int64("email_id", email.ID).Msg("Failed to dead-letter email")
		}
		metrics.IncEmail("failed")
		w.logger.Error().Err(err).Int64("email_id", email.ID).Str("kind", email.Kind).
			Int("attempts", attempt).Msg("Email dead-lettered")
		return
	}

	nextRetry := time.Now().Add(w.retryPolicy.NextDelay(attempt))
	if markErr := w.repo.MarkEmailRetry(ctx, email.ID, attempt, err.Error(), nextRetry); markErr != nil {
		w.logger.Error().Err(markErr).Int64("email_id", email.ID).Msg("Failed to schedule email retry")
	}
	metrics.IncEmail("retry")
	w.logger.Warn().Err(err).Int64("email_id", email.ID).Time("next_retry", nextRetry).Msg("Email delivery failed, will retry")
}

func (w *EmailWorker) reportDepth(ctx context.Context) {
	counts, err := w.repo.CountOutboxByStatus(ctx)
	if err != nil {
		return
	}
	for _, status := range []string{models.OutboxPending, models.OutboxRetry, models.OutboxSent, models.OutboxFailed} {
		metrics.SetOutboxDepth(status, counts[status])
	}
}
