package account

import (
	"context"
	"fmt"
	"sync"

	"ffwpu/internal/recovery/models"
	id "ffwpu/pkg/domain"
	"ffwpu/pkg/email"
	"ffwpu/pkg/platform/sentinel"
)

// InMemoryStore keeps accounts and their attempt logs in process memory.
// Writes made inside RunInTx are staged and applied together on success.
type InMemoryStore struct {
	mu       sync.RWMutex
	txMu     sync.Mutex
	accounts map[id.AccountID]*models.AccountRecord
	byMember map[id.MemberID]id.AccountID
	attempts map[id.AccountID][]*models.AttemptRecord
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		accounts: make(map[id.AccountID]*models.AccountRecord),
		byMember: make(map[id.MemberID]id.AccountID),
		attempts: make(map[id.AccountID][]*models.AttemptRecord),
	}
}

type stagedKey struct{}

type staged struct {
	tokens   map[id.AccountID]models.RecoveryToken
	attempts []*models.AttemptRecord
}

func stagedFrom(ctx context.Context) (*staged, bool) {
	st, ok := ctx.Value(stagedKey{}).(*staged)
	return st, ok
}

// RunInTx serializes units of work and applies their staged writes only when
// fn succeeds.
func (s *InMemoryStore) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("transaction aborted: %w", err)
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	st := &staged{tokens: make(map[id.AccountID]models.RecoveryToken)}
	if err := fn(context.WithValue(ctx, stagedKey{}, st)); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("transaction aborted: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for accountID, token := range st.tokens {
		s.applyToken(accountID, token)
	}
	for _, a := range st.attempts {
		s.attempts[a.AccountID] = append(s.attempts[a.AccountID], a)
	}
	return nil
}

// Save inserts or replaces an account. A member may link to one account only.
func (s *InMemoryStore) Save(_ context.Context, account *models.AccountRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.byMember[account.MemberID]; ok && existing != account.ID {
		return fmt.Errorf("member %s already has an account: %w", account.MemberID, sentinel.ErrConflict)
	}
	cp := *account
	cp.Email = email.Normalize(cp.Email)
	s.accounts[account.ID] = &cp
	s.byMember[account.MemberID] = account.ID
	return nil
}

func (s *InMemoryStore) FindByMemberID(_ context.Context, memberID id.MemberID) (*models.AccountRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	accountID, ok := s.byMember[memberID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return copyAccount(s.accounts[accountID]), nil
}

func (s *InMemoryStore) FindByID(_ context.Context, accountID id.AccountID) (*models.AccountRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.accounts[accountID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return copyAccount(account), nil
}

// SetRecoveryToken replaces any outstanding token on the account.
func (s *InMemoryStore) SetRecoveryToken(ctx context.Context, accountID id.AccountID, token models.RecoveryToken) error {
	if st, ok := stagedFrom(ctx); ok {
		if !s.exists(accountID) {
			return sentinel.ErrNotFound
		}
		st.tokens[accountID] = token
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[accountID]; !ok {
		return sentinel.ErrNotFound
	}
	s.applyToken(accountID, token)
	return nil
}

// AppendAttempt adds an entry to the account's log. Entries are never updated
// or removed.
func (s *InMemoryStore) AppendAttempt(ctx context.Context, attempt *models.AttemptRecord) error {
	cp := *attempt
	if st, ok := stagedFrom(ctx); ok {
		if !s.exists(attempt.AccountID) {
			return sentinel.ErrNotFound
		}
		st.attempts = append(st.attempts, &cp)
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[attempt.AccountID]; !ok {
		return sentinel.ErrNotFound
	}
	s.attempts[attempt.AccountID] = append(s.attempts[attempt.AccountID], &cp)
	return nil
}

// ListAttempts returns the account's log oldest first.
func (s *InMemoryStore) ListAttempts(_ context.Context, accountID id.AccountID) ([]*models.AttemptRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	log := s.attempts[accountID]
	out := make([]*models.AttemptRecord, len(log))
	for i, a := range log {
		cp := *a
		out[i] = &cp
	}
	return out, nil
}

func (s *InMemoryStore) exists(accountID id.AccountID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.accounts[accountID]
	return ok
}

// Must be called while holding s.mu.
func (s *InMemoryStore) applyToken(accountID id.AccountID, token models.RecoveryToken) {
	if account, ok := s.accounts[accountID]; ok {
		t := token
		account.RecoveryToken = &t
	}
}

func copyAccount(a *models.AccountRecord) *models.AccountRecord {
	cp := *a
	if a.RecoveryToken != nil {
		t := *a.RecoveryToken
		cp.RecoveryToken = &t
	}
	return &cp
}
