package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"renthub/internal/models"
)

// enqueueEmailTx adds a notification inside the caller's transaction so the
// email is queued if and only if the change it announces commits.
func enqueueEmailTx(ctx context.Context, tx *sql.Tx, email *models.OutboxEmail) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO email_outbox (kind, recipient, subject, body, status, created_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		email.Kind, email.Recipient, email.Subject, email.Body,
		models.OutboxPending, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to enqueue email: %w", err)
	}
	return nil
}

// EnqueueEmail queues a standalone notification outside any transaction.
func (db *DB) EnqueueEmail(ctx context.Context, email *models.OutboxEmail) error {
	result, err := db.ExecContext(ctx,
		`INSERT INTO email_outbox (kind, recipient, subject, body, status, created_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		email.Kind, email.Recipient, email.Subject, email.Body,
		models.OutboxPending, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to enqueue email: %w", err)
	}
	if id, err := result.LastInsertId(); err == nil {
		email.ID = id
	}
	return nil
}

// GetPendingEmails returns up to limit deliverable messages: fresh ones plus
// retries whose backoff window has passed.
func (db *DB) GetPendingEmails(ctx context.Context, limit int) ([]*models.OutboxEmail, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, kind, recipient, subject, body, status, retry_count,
                last_error, created_at, processed_at, next_retry_at
         FROM email_outbox
         WHERE status = ? OR (status = ? AND next_retry_at <= ?)
         ORDER BY created_at ASC
         LIMIT ?`,
		models.OutboxPending, models.OutboxRetry, time.Now(), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending emails: %w", err)
	}
	defer rows.Close()

	var emails []*models.OutboxEmail
	for rows.Next() {
		e := &models.OutboxEmail{}
		var lastError sql.NullString
		var processedAt, nextRetryAt sql.NullTime
		err := rows.Scan(&e.ID, &e.Kind, &e.Recipient, &e.Subject, &e.Body,
			&e.Status, &e.RetryCount, &lastError, &e.CreatedAt, &processedAt, &nextRetryAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan outbox email: %w", err)
		}
		e.LastError = lastError.String
		if processedAt.Valid {
			e.ProcessedAt = &processedAt.Time
		}
		if nextRetryAt.Valid {
			e.NextRetryAt = &nextRetryAt.Time
		}
		emails = append(emails, e)
	}
	return emails, rows.Err()
}

// MarkEmailSent finalizes a delivered message.
func (db *DB) MarkEmailSent(ctx context.Context, id int64) error {
	result, err := db.ExecContext(ctx,
		`UPDATE email_outbox SET status = ?, processed_at = ?, last_error = NULL WHERE id = ?`,
		models.OutboxSent, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to mark email sent: %w", err)
	}
	return requireRow(result)
}

// MarkEmailRetry reschedules a failed delivery with its backoff deadline.
func (db *DB) MarkEmailRetry(ctx context.Context, id int64, retryCount int, lastError string, nextRetryAt time.Time) error {
	result, err := db.ExecContext(ctx,
		`UPDATE email_outbox SET status = ?, retry_count = ?, last_error = ?, next_retry_at = ? WHERE id = ?`,
		models.OutboxRetry, retryCount, lastError, nextRetryAt, id,
	)
	if err != nil {
		return fmt.Errorf("failed to mark email for retry: %w", err)
	}
	return requireRow(result)
}

// MarkEmailFailed dead-letters a message after the retry budget is spent.
// The row stays for inspection.
func (db *DB) MarkEmailFailed(ctx context.Context, id int64, lastError string) error {
	result, err := db.ExecContext(ctx,
		`UPDATE email_outbox SET status = ?, processed_at = ?, last_error = ? WHERE id = ?`,
		models.OutboxFailed, time.Now(), lastError, id,
	)
	if err != nil {
		return fmt.Errorf("failed to mark email failed: %w", err)
	}
	return requireRow(result)
}

// CountOutboxByStatus reports queue depth per status for metrics.
func (db *DB) CountOutboxByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM email_outbox GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count outbox: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("failed to scan outbox count: %w", err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}
