package outbox

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"ffwpu/internal/recovery/metrics"
	"ffwpu/pkg/platform/tx"
)

// Publisher sends a batch of entries to the broker.
type Publisher interface {
	Publish(ctx context.Context, entries []*Entry) error
}

const (
	defaultInterval = 2 * time.Second
	defaultBatch    = 100
)

// Relay moves unpublished outbox rows to the broker. Publishing happens while
// the rows are locked, so a crash between produce and commit re-publishes;
// consumers dedupe on the outbox_id header.
type Relay struct {
	db        *sql.DB
	publisher Publisher
	logger    *slog.Logger
	metrics   *metrics.Metrics
	interval  time.Duration
	batch     int
	now       func() time.Time
}

type Option func(*Relay)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Relay) {
		r.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Relay) {
		r.metrics = m
	}
}

func WithInterval(d time.Duration) Option {
	return func(r *Relay) {
		if d > 0 {
			r.interval = d
		}
	}
}

func WithBatchSize(n int) Option {
	return func(r *Relay) {
		if n > 0 {
			r.batch = n
		}
	}
}

func NewRelay(db *sql.DB, publisher Publisher, opts ...Option) (*Relay, error) {
	if db == nil {
		return nil, errors.New("database is required")
	}
	if publisher == nil {
		return nil, errors.New("publisher is required")
	}
	r := &Relay{
		db:        db,
		publisher: publisher,
		logger:    slog.Default(),
		interval:  defaultInterval,
		batch:     defaultBatch,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Run relays on every tick until ctx is cancelled. Batch errors are logged
// and retried on the next tick.
func (r *Relay) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.InfoContext(ctx, "outbox relay started", "interval", r.interval, "batch", r.batch)
	for {
		select {
		case <-ctx.Done():
			r.logger.InfoContext(ctx, "outbox relay stopped")
			return nil
		case <-ticker.C:
			for {
				n, err := r.RelayOnce(ctx)
				if err != nil {
					if ctx.Err() != nil {
						return nil
					}
					r.metrics.IncrementOutboxFailures()
					r.logger.ErrorContext(ctx, "outbox relay batch failed", "error", err)
					break
				}
				// Drain quickly while full batches keep coming.
				if n < r.batch {
					break
				}
			}
		}
	}
}

// RelayOnce publishes one batch and returns how many entries were sent.
func (r *Relay) RelayOnce(ctx context.Context) (int, error) {
	var published int
	err := tx.Run(ctx, r.db, 0, func(ctx context.Context) error {
		sqlTx, _ := tx.From(ctx)
		entries, err := FetchUnpublished(ctx, sqlTx, r.batch)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}
		if err := r.publisher.Publish(ctx, entries); err != nil {
			return err
		}
		ids := make([]uuid.UUID, len(entries))
		for i, e := range entries {
			ids[i] = e.ID
		}
		if err := MarkPublished(ctx, sqlTx, ids, r.now().UTC()); err != nil {
			return err
		}
		published = len(entries)
		return nil
	})
	if err != nil {
		return 0, err
	}
	r.metrics.AddOutboxPublished(published)
	return published, nil
}
