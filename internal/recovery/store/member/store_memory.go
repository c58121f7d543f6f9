package member

import (
	"context"
	"sync"

	"ffwpu/internal/recovery/identity"
	"ffwpu/internal/recovery/models"
	id "ffwpu/pkg/domain"
)

// InMemoryStore is a member registry held in process memory.
type InMemoryStore struct {
	mu      sync.RWMutex
	members map[id.MemberID]*models.MemberRecord
	order   []id.MemberID
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{members: make(map[id.MemberID]*models.MemberRecord)}
}

// Save inserts or replaces a member. Registration is owned elsewhere; this
// exists for seeding and tests.
func (s *InMemoryStore) Save(_ context.Context, m *models.MemberRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.members[m.ID]; !exists {
		s.order = append(s.order, m.ID)
	}
	cp := *m
	s.members[m.ID] = &cp
	return nil
}

// FindCandidates returns every member matching q, in insertion order, or
// identity.ErrTooManyCandidates past identity.MaxCandidates.
func (s *InMemoryStore) FindCandidates(_ context.Context, q identity.NameQuery) ([]*models.MemberRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.MemberRecord
	for _, memberID := range s.order {
		m := s.members[memberID]
		if q.Matches(m.FullName) {
			if len(out) == identity.MaxCandidates {
				return nil, identity.ErrTooManyCandidates
			}
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}
