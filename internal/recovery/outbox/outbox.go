// Package outbox relays recovery attempt events to Kafka using the
// transactional outbox pattern. Attempts and their outbox rows are written in
// the same transaction; the relay publishes unpublished rows and marks them.
package outbox

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"ffwpu/internal/recovery/models"
)

// EventAttemptRecorded is the event type for appended attempts.
const EventAttemptRecorded = "recovery.attempt_recorded"

// AttemptEvent is the JSON payload published for each attempt.
type AttemptEvent struct {
	AttemptID     string `json:"attempt_id"`
	AccountID     string `json:"account_id"`
	Timestamp     string `json:"timestamp"`
	Outcome       string `json:"outcome"`
	Reason        string `json:"reason"`
	SourceAddress string `json:"source_address,omitempty"`
	Device        string `json:"device,omitempty"`
	EmailClaimed  bool   `json:"email_claimed"`
}

// Entry is one outbox row.
type Entry struct {
	ID          uuid.UUID
	AggregateID string
	EventType   string
	Payload     []byte
	CreatedAt   time.Time
}

// Execer is satisfied by *sql.DB and *sql.Tx.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Querier is satisfied by *sql.DB and *sql.Tx.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// NewAttemptEntry builds the outbox row for an attempt. The claimed email is
// not copied into the event.
func NewAttemptEntry(attempt *models.AttemptRecord) (*Entry, error) {
	payload, err := json.Marshal(AttemptEvent{
		AttemptID:     attempt.ID.String(),
		AccountID:     attempt.AccountID.String(),
		Timestamp:     attempt.Timestamp.UTC().Format(time.RFC3339Nano),
		Outcome:       string(attempt.Outcome),
		Reason:        attempt.Reason,
		SourceAddress: attempt.SourceAddress,
		Device:        attempt.Device,
		EmailClaimed:  attempt.ClaimedEmail != "",
	})
	if err != nil {
		return nil, fmt.Errorf("marshal attempt event: %w", err)
	}
	return &Entry{
		ID:          uuid.New(),
		AggregateID: attempt.AccountID.String(),
		EventType:   EventAttemptRecorded,
		Payload:     payload,
		CreatedAt:   attempt.Timestamp,
	}, nil
}

// Insert writes an entry with the caller's executor so it joins any open
// transaction.
func Insert(ctx context.Context, exec Execer, e *Entry) error {
	const query = `
		INSERT INTO recovery_outbox (id, aggregate_id, event_type, payload, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := exec.ExecContext(ctx, query, e.ID.String(), e.AggregateID, e.EventType, e.Payload, e.CreatedAt); err != nil {
		return fmt.Errorf("insert outbox entry: %w", err)
	}
	return nil
}

// FetchUnpublished locks up to limit unpublished rows, oldest first. Rows
// locked by a concurrent relay are skipped. Call inside a transaction.
func FetchUnpublished(ctx context.Context, q Querier, limit int) ([]*Entry, error) {
	const query = `
		SELECT id::text, aggregate_id, event_type, payload, created_at
		FROM recovery_outbox
		WHERE published_at IS NULL
		ORDER BY created_at
		LIMIT $1
		FOR UPDATE SKIP LOCKED
	`
	rows, err := q.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch outbox entries: %w", err)
	}
	defer rows.Close()

	var out []*Entry
	for rows.Next() {
		var (
			rawID string
			e     Entry
		)
		if err := rows.Scan(&rawID, &e.AggregateID, &e.EventType, &e.Payload, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan outbox entry: %w", err)
		}
		parsed, err := uuid.Parse(rawID)
		if err != nil {
			return nil, fmt.Errorf("outbox id %q: %w", rawID, err)
		}
		e.ID = parsed
		out = append(out, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outbox entries: %w", err)
	}
	return out, nil
}

// MarkPublished stamps published_at on the given rows.
func MarkPublished(ctx context.Context, exec Execer, ids []uuid.UUID, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	raw := make([]string, len(ids))
	for i, entryID := range ids {
		raw[i] = entryID.String()
	}
	const query = `UPDATE recovery_outbox SET published_at = $1 WHERE id = ANY($2::uuid[])`
	if _, err := exec.ExecContext(ctx, query, at, pq.Array(raw)); err != nil {
		return fmt.Errorf("mark outbox published: %w", err)
	}
	return nil
}
