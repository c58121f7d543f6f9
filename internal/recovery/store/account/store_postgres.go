package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"ffwpu/internal/recovery/models"
	"ffwpu/internal/recovery/outbox"
	id "ffwpu/pkg/domain"
	"ffwpu/pkg/email"
	"ffwpu/pkg/platform/sentinel"
	txcontext "ffwpu/pkg/platform/tx"
)

// PostgresStore persists accounts and attempt logs in PostgreSQL. Every
// appended attempt also writes an outbox row in the same transaction.
type PostgresStore struct {
	db      *sql.DB
	timeout time.Duration
	tracer  trace.Tracer
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{
		db:      db,
		timeout: txcontext.DefaultTimeout,
		tracer:  otel.Tracer("ffwpu/recovery/account"),
	}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

// RunInTx opens a transaction that the store's methods join through ctx.
func (s *PostgresStore) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return txcontext.Run(ctx, s.db, s.timeout, fn)
}

const accountColumns = `
	account_id::text, member_id::text, email, status,
	recovery_token_hash, recovery_token_issued_at, recovery_token_expires_at, created_at
`

func (s *PostgresStore) FindByMemberID(ctx context.Context, memberID id.MemberID) (*models.AccountRecord, error) {
	ctx, span := s.tracer.Start(ctx, "account.find_by_member")
	defer span.End()

	row := s.execer(ctx).QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE member_id = $1`, memberID.String())
	account, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find account by member: %w", err)
	}
	span.SetAttributes(attribute.String("account.status", string(account.Status)))
	return account, nil
}

func (s *PostgresStore) FindByID(ctx context.Context, accountID id.AccountID) (*models.AccountRecord, error) {
	row := s.execer(ctx).QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE account_id = $1`, accountID.String())
	account, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return account, nil
}

// Save upserts an account; used for seeding and tests. A second account for
// the same member violates the unique constraint and returns ErrConflict.
func (s *PostgresStore) Save(ctx context.Context, account *models.AccountRecord) error {
	const query = `
		INSERT INTO accounts (account_id, member_id, email, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (account_id) DO UPDATE SET
			email = EXCLUDED.email,
			status = EXCLUDED.status
	`
	createdAt := account.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := s.execer(ctx).ExecContext(ctx, query,
		account.ID.String(),
		account.MemberID.String(),
		email.Normalize(account.Email),
		string(account.Status),
		createdAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return fmt.Errorf("save account: %w", sentinel.ErrConflict)
		}
		return fmt.Errorf("save account: %w", err)
	}
	return nil
}

// SetRecoveryToken overwrites the outstanding token digest and expiry.
func (s *PostgresStore) SetRecoveryToken(ctx context.Context, accountID id.AccountID, token models.RecoveryToken) error {
	ctx, span := s.tracer.Start(ctx, "account.set_recovery_token")
	defer span.End()

	const query = `
		UPDATE accounts
		SET recovery_token_hash = $2,
			recovery_token_issued_at = $3,
			recovery_token_expires_at = $4
		WHERE account_id = $1
	`
	res, err := s.execer(ctx).ExecContext(ctx, query, accountID.String(), token.Hash, token.IssuedAt, token.ExpiresAt)
	if err != nil {
		return fmt.Errorf("set recovery token: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set recovery token: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// AppendAttempt inserts the attempt and its outbox row. Outside a caller's
// transaction it opens its own so both rows land together.
func (s *PostgresStore) AppendAttempt(ctx context.Context, attempt *models.AttemptRecord) error {
	if _, ok := txcontext.From(ctx); !ok {
		return s.RunInTx(ctx, func(ctx context.Context) error {
			return s.AppendAttempt(ctx, attempt)
		})
	}

	ctx, span := s.tracer.Start(ctx, "account.append_attempt",
		trace.WithAttributes(attribute.String("attempt.outcome", string(attempt.Outcome))),
	)
	defer span.End()

	const query = `
		INSERT INTO recovery_attempts (
			attempt_id, account_id, claimed_email, occurred_at,
			source_address, client_identifier, device, outcome, reason
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	exec := s.execer(ctx)
	_, err := exec.ExecContext(ctx, query,
		attempt.ID.String(),
		attempt.AccountID.String(),
		attempt.ClaimedEmail,
		attempt.Timestamp,
		attempt.SourceAddress,
		attempt.ClientIdentifier,
		attempt.Device,
		string(attempt.Outcome),
		attempt.Reason,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return sentinel.ErrNotFound
		}
		return fmt.Errorf("append attempt: %w", err)
	}

	entry, err := outbox.NewAttemptEntry(attempt)
	if err != nil {
		return err
	}
	return outbox.Insert(ctx, exec, entry)
}

// ListAttempts returns the account's log oldest first.
func (s *PostgresStore) ListAttempts(ctx context.Context, accountID id.AccountID) ([]*models.AttemptRecord, error) {
	const query = `
		SELECT attempt_id::text, account_id::text, claimed_email, occurred_at,
			   source_address, client_identifier, device, outcome, reason
		FROM recovery_attempts
		WHERE account_id = $1
		ORDER BY seq
	`
	rows, err := s.execer(ctx).QueryContext(ctx, query, accountID.String())
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	defer rows.Close()

	var out []*models.AttemptRecord
	for rows.Next() {
		var (
			rawID, rawAccount, outcome string
			a                          models.AttemptRecord
		)
		if err := rows.Scan(&rawID, &rawAccount, &a.ClaimedEmail, &a.Timestamp,
			&a.SourceAddress, &a.ClientIdentifier, &a.Device, &outcome, &a.Reason); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		if a.ID, err = id.ParseAttemptID(rawID); err != nil {
			return nil, fmt.Errorf("attempt id %q: %w", rawID, err)
		}
		if a.AccountID, err = id.ParseAccountID(rawAccount); err != nil {
			return nil, fmt.Errorf("account id %q: %w", rawAccount, err)
		}
		a.Outcome = models.AttemptOutcome(outcome)
		out = append(out, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attempts: %w", err)
	}
	return out, nil
}

func scanAccount(row *sql.Row) (*models.AccountRecord, error) {
	var (
		rawID, rawMember, status string
		hash                     sql.NullString
		issuedAt, expiresAt      sql.NullTime
		account                  models.AccountRecord
	)
	if err := row.Scan(&rawID, &rawMember, &account.Email, &status, &hash, &issuedAt, &expiresAt, &account.CreatedAt); err != nil {
		return nil, err
	}

	var err error
	if account.ID, err = id.ParseAccountID(rawID); err != nil {
		return nil, fmt.Errorf("account id %q: %w", rawID, err)
	}
	if account.MemberID, err = id.ParseMemberID(rawMember); err != nil {
		return nil, fmt.Errorf("member id %q: %w", rawMember, err)
	}
	if account.Status, err = models.ParseAccountStatus(status); err != nil {
		return nil, err
	}
	if hash.Valid {
		account.RecoveryToken = &models.RecoveryToken{
			Hash:      hash.String,
			IssuedAt:  issuedAt.Time,
			ExpiresAt: expiresAt.Time,
		}
	}
	return &account, nil
}
