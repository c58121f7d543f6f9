package member

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"ffwpu/internal/recovery/identity"
	"ffwpu/internal/recovery/models"
	id "ffwpu/pkg/domain"
)

// PostgresStore reads the member registry over a pgx pool. The pool is owned
// by the caller.
type PostgresStore struct {
	pool   *pgxpool.Pool
	tracer trace.Tracer
}

func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool, tracer: otel.Tracer("ffwpu/recovery/member")}
}

// FindCandidates matches on the stored normalized_name column, either equal
// to the canonical full name or bounded by the first and last names. Claimed
// text is escaped before it reaches LIKE. One row past the cap is fetched so
// an overflow is reported instead of silently truncated.
func (s *PostgresStore) FindCandidates(ctx context.Context, q identity.NameQuery) ([]*models.MemberRecord, error) {
	ctx, span := s.tracer.Start(ctx, "member.find_candidates",
		trace.WithAttributes(attribute.Bool("query.middle_name", q.Middle != "")),
	)
	defer span.End()

	if q.Empty() {
		return nil, nil
	}

	const query = `
		SELECT member_id::text, full_name, date_of_birth, church, region
		FROM members
		WHERE normalized_name = $1
		   OR normalized_name LIKE $2 ESCAPE '\'
		ORDER BY member_id
		LIMIT $3
	`
	rows, err := s.pool.Query(ctx, query,
		q.FullName(),
		identity.EscapeLike(q.First)+"%"+identity.EscapeLike(q.Last),
		identity.MaxCandidates+1,
	)
	if err != nil {
		span.SetStatus(codes.Error, "query failed")
		return nil, fmt.Errorf("find member candidates: %w", err)
	}

	out, err := pgx.CollectRows(rows, scanMember)
	if err != nil {
		span.SetStatus(codes.Error, "scan failed")
		return nil, fmt.Errorf("scan member candidates: %w", err)
	}
	span.SetAttributes(attribute.Int("query.rows", len(out)))
	if len(out) > identity.MaxCandidates {
		span.SetStatus(codes.Error, "candidate limit exceeded")
		return nil, fmt.Errorf("find member candidates: %w", identity.ErrTooManyCandidates)
	}
	return out, nil
}

// Save upserts a member; used for seeding and integration tests.
func (s *PostgresStore) Save(ctx context.Context, m *models.MemberRecord) error {
	const query = `
		INSERT INTO members (member_id, full_name, date_of_birth, church, region)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (member_id) DO UPDATE SET
			full_name = EXCLUDED.full_name,
			date_of_birth = EXCLUDED.date_of_birth,
			church = EXCLUDED.church,
			region = EXCLUDED.region
	`
	if _, err := s.pool.Exec(ctx, query, uuid.UUID(m.ID), m.FullName, m.DateOfBirth, m.Church, m.Region); err != nil {
		return fmt.Errorf("save member: %w", err)
	}
	return nil
}

func scanMember(row pgx.CollectableRow) (*models.MemberRecord, error) {
	var (
		rawID  string
		record models.MemberRecord
		dob    *time.Time
	)
	if err := row.Scan(&rawID, &record.FullName, &dob, &record.Church, &record.Region); err != nil {
		return nil, err
	}
	memberID, err := id.ParseMemberID(rawID)
	if err != nil {
		return nil, fmt.Errorf("member id %q: %w", rawID, err)
	}
	record.ID = memberID
	record.DateOfBirth = dob
	return &record, nil
}
