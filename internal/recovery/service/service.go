package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"ffwpu/internal/recovery/device"
	"ffwpu/internal/recovery/identity"
	"ffwpu/internal/recovery/metrics"
	"ffwpu/internal/recovery/models"
	id "ffwpu/pkg/domain"
	dErrors "ffwpu/pkg/domain-errors"
	"ffwpu/pkg/email"
	"ffwpu/pkg/platform/sentinel"
	"ffwpu/pkg/requestcontext"
)

// DefaultTokenTTL is how long an issued recovery token stays valid.
const DefaultTokenTTL = 24 * time.Hour

const (
	maxNameLen  = 100
	maxEmailLen = 254
)

// Audit reasons recorded on attempts.
const (
	ReasonTokenIssued   = "recovery token issued"
	ReasonEmailMismatch = "claimed email does not match account email"
)

// Service reconciles identity claims to a single member and issues recovery
// tokens for eligible accounts.
type Service struct {
	members     MemberRegistry
	accounts    AccountStore
	tx          AccountStoreTx
	delivery    TokenDelivery
	logger      *slog.Logger
	metrics     *metrics.Metrics
	tracer      trace.Tracer
	tokenTTL    time.Duration
	exposeToken bool
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithDelivery(d TokenDelivery) Option {
	return func(s *Service) {
		s.delivery = d
	}
}

func WithTokenTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.tokenTTL = ttl
		}
	}
}

// WithExposeToken returns the plaintext token in results. Staging and tests only.
func WithExposeToken(expose bool) Option {
	return func(s *Service) {
		s.exposeToken = expose
	}
}

func New(members MemberRegistry, accounts AccountStore, tx AccountStoreTx, opts ...Option) (*Service, error) {
	if members == nil {
		return nil, errors.New("member registry is required")
	}
	if accounts == nil {
		return nil, errors.New("account store is required")
	}
	if tx == nil {
		return nil, errors.New("account transaction runner is required")
	}

	s := &Service{
		members:  members,
		accounts: accounts,
		tx:       tx,
		logger:   slog.Default(),
		tracer:   otel.Tracer("ffwpu/recovery"),
		tokenTTL: DefaultTokenTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.delivery == nil {
		s.delivery = NewLogDelivery(s.logger)
	}
	return s, nil
}

// Recover runs the recovery flow: validate, match by name, confirm by birth
// date, look up the account, gate on status, check the optional email claim,
// then issue a token and record the attempt in one unit of work.
func (s *Service) Recover(ctx context.Context, req models.RecoveryRequest, meta models.RequestMeta) (*models.RecoveryResult, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "recovery.recover",
		trace.WithAttributes(
			attribute.Bool("request.email_claimed", strings.TrimSpace(req.Email) != ""),
			attribute.Bool("request.middle_name", strings.TrimSpace(req.MiddleName) != ""),
		),
	)
	defer span.End()

	result, err := s.recover(ctx, req, meta)

	kind := "success"
	if err != nil {
		kind = string(dErrors.CodeOf(err))
		span.SetStatus(codes.Error, kind)
		if dErrors.CodeOf(err).IsInternal() {
			span.RecordError(err)
		}
	}
	span.SetAttributes(attribute.String("recovery.outcome", kind))
	s.metrics.IncrementOutcome(kind)
	s.metrics.ObserveFlowDuration(time.Since(start))
	return result, err
}

func (s *Service) recover(ctx context.Context, req models.RecoveryRequest, meta models.RequestMeta) (*models.RecoveryResult, error) {
	requestID := requestcontext.RequestID(ctx)

	query, dob, claimedEmail, err := validate(req)
	if err != nil {
		return nil, err
	}

	member, err := s.resolveMember(ctx, query, dob)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNoMatchFound) || dErrors.HasCode(err, dErrors.CodeBirthDateMismatch) ||
			dErrors.HasCode(err, dErrors.CodeAmbiguousMatch) {
			s.logger.InfoContext(ctx, "recovery identity not resolved",
				"request_id", requestID,
				"kind", dErrors.CodeOf(err),
			)
		}
		return nil, err
	}

	account, err := s.accounts.FindByMemberID(ctx, member.ID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNoAccountForMember,
				"No account is registered for this member. You can create one instead.")
		}
		return nil, s.storageFailure(ctx, "failed to look up account", err, "member_id", member.ID.String())
	}

	if err := account.Status.CheckEligible(); err != nil {
		s.logger.WarnContext(ctx, "recovery rejected for ineligible account",
			"request_id", requestID,
			"account_id", account.ID.String(),
			"status", account.Status,
			"source_address", meta.SourceAddress,
		)
		return nil, err
	}

	attempt := &models.AttemptRecord{
		AccountID:        account.ID,
		ClaimedEmail:     claimedEmail,
		SourceAddress:    meta.SourceAddress,
		ClientIdentifier: device.TruncateIdentifier(meta.ClientIdentifier),
		Device:           device.ParseUserAgent(meta.ClientIdentifier),
	}

	if claimedEmail != "" && claimedEmail != email.Normalize(account.Email) {
		attempt.Outcome = models.AttemptOutcomeFailure
		attempt.Reason = ReasonEmailMismatch
		if err := s.recordAttempt(ctx, attempt, nil); err != nil {
			return nil, err
		}
		s.logger.WarnContext(ctx, "recovery email claim mismatch",
			"request_id", requestID,
			"account_id", account.ID.String(),
		)
		return nil, dErrors.New(dErrors.CodeEmailMismatch,
			"The email address does not match the one registered for this account.")
	}

	now := requestcontext.Now(ctx)
	issued, err := models.NewRecoveryToken(now, s.tokenTTL)
	if err != nil {
		return nil, s.storageFailure(ctx, "failed to generate recovery token", err, "account_id", account.ID.String())
	}

	attempt.Outcome = models.AttemptOutcomeSuccess
	attempt.Reason = ReasonTokenIssued
	if err := s.recordAttempt(ctx, attempt, &issued.Stored); err != nil {
		return nil, err
	}
	s.metrics.IncrementTokensIssued()

	if err := s.delivery.Deliver(ctx, Delivery{
		AccountID:   account.ID,
		Email:       account.Email,
		DisplayName: member.FullName,
		Token:       issued.Value,
		ExpiresAt:   issued.Stored.ExpiresAt,
	}); err != nil {
		s.logger.ErrorContext(ctx, "recovery token delivery failed",
			"request_id", requestID,
			"account_id", account.ID.String(),
			"error", err,
		)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "Something went wrong. Please try again.")
	}

	s.logger.InfoContext(ctx, "recovery token issued",
		"request_id", requestID,
		"account_id", account.ID.String(),
		"member_id", member.ID.String(),
		"masked_email", email.MaskAddress(account.Email),
		"expires_at", issued.Stored.ExpiresAt,
	)

	result := &models.RecoveryResult{
		AccountID:   account.ID.String(),
		MemberID:    member.ID.String(),
		MaskedEmail: email.MaskAddress(account.Email),
		DisplayName: member.FullName,
		Church:      member.Church,
		Region:      member.Region,
		ExpiresAt:   issued.Stored.ExpiresAt,
	}
	if s.exposeToken {
		result.Token = issued.Value
	}
	return result, nil
}

// validate checks required fields and parses the birth date before any
// registry access.
func validate(req models.RecoveryRequest) (identity.NameQuery, identity.Date, string, error) {
	first := strings.TrimSpace(req.FirstName)
	middle := strings.TrimSpace(req.MiddleName)
	last := strings.TrimSpace(req.LastName)
	dobRaw := strings.TrimSpace(req.DateOfBirth)
	claimed := email.Normalize(req.Email)

	if first == "" || last == "" || dobRaw == "" {
		return identity.NameQuery{}, identity.Date{}, "", dErrors.New(dErrors.CodeInvalidInput,
			"first_name, last_name and date_of_birth are required")
	}
	if len(first) > maxNameLen || len(middle) > maxNameLen || len(last) > maxNameLen {
		return identity.NameQuery{}, identity.Date{}, "", dErrors.New(dErrors.CodeInvalidInput,
			fmt.Sprintf("name parts must be at most %d characters", maxNameLen))
	}
	if claimed != "" {
		if len(claimed) > maxEmailLen {
			return identity.NameQuery{}, identity.Date{}, "", dErrors.New(dErrors.CodeInvalidInput,
				fmt.Sprintf("email must be at most %d characters", maxEmailLen))
		}
		if !email.LooksValid(claimed) {
			return identity.NameQuery{}, identity.Date{}, "", dErrors.New(dErrors.CodeInvalidInput, "email is not a valid address")
		}
	}

	dob, err := identity.ParseBirthDate(dobRaw)
	if err != nil {
		return identity.NameQuery{}, identity.Date{}, "", err
	}
	return identity.NewNameQuery(first, middle, last), dob, claimed, nil
}

func (s *Service) resolveMember(ctx context.Context, query identity.NameQuery, dob identity.Date) (*models.MemberRecord, error) {
	found, err := s.members.FindCandidates(ctx, query)
	if errors.Is(err, identity.ErrTooManyCandidates) {
		s.logger.WarnContext(ctx, "member registry candidate limit exceeded",
			"request_id", requestcontext.RequestID(ctx),
			"limit", identity.MaxCandidates,
		)
		return nil, dErrors.New(dErrors.CodeAmbiguousMatch, identity.AmbiguousMatchMessage)
	}
	if err != nil {
		return nil, s.storageFailure(ctx, "failed to query member registry", err)
	}
	candidates := identity.MatchCandidates(query, found)
	s.metrics.ObserveCandidates(len(candidates))
	trace.SpanFromContext(ctx).SetAttributes(attribute.Int("recovery.candidates", len(candidates)))

	if len(candidates) == 0 {
		return nil, dErrors.New(dErrors.CodeNoMatchFound, "no member matched the supplied name")
	}
	return identity.Disambiguate(candidates, dob)
}

// recordAttempt appends the attempt and, when token is set, stores it, as one
// unit of work. A failed write fails the request.
func (s *Service) recordAttempt(ctx context.Context, attempt *models.AttemptRecord, token *models.RecoveryToken) error {
	attempt.ID = id.NewAttemptID()
	attempt.Timestamp = requestcontext.Now(ctx)

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if token != nil {
			if err := s.accounts.SetRecoveryToken(ctx, attempt.AccountID, *token); err != nil {
				return fmt.Errorf("set recovery token: %w", err)
			}
		}
		if err := s.accounts.AppendAttempt(ctx, attempt); err != nil {
			return fmt.Errorf("append attempt: %w", err)
		}
		return nil
	})
	if err != nil {
		return s.storageFailure(ctx, "failed to record recovery attempt", err, "account_id", attempt.AccountID.String())
	}
	return nil
}

func (s *Service) storageFailure(ctx context.Context, msg string, err error, attrs ...any) error {
	args := append([]any{"request_id", requestcontext.RequestID(ctx), "error", err}, attrs...)
	s.logger.ErrorContext(ctx, msg, args...)
	return dErrors.Wrap(err, dErrors.CodeStorageFailure, "Something went wrong. Please try again.")
}
