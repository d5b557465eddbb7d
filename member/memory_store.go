package member

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps members in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]*Member
	now    func() time.Time
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextID: 1,
		byID:   make(map[int64]*Member),
		now:    time.Now,
	}
}

// FindByAPIKey implements Store.
func (s *MemoryStore) FindByAPIKey(_ context.Context, apiKey string) (*Member, error) {
	return s.find(func(m *Member) bool { return m.APIKey == apiKey })
}

// FindByUsername implements Store.
func (s *MemoryStore) FindByUsername(_ context.Context, username string) (*Member, error) {
	return s.find(func(m *Member) bool { return m.Username == username })
}

// Create implements Store.
func (s *MemoryStore) Create(_ context.Context, m *Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.byID {
		if existing.Username == m.Username || existing.APIKey == m.APIKey {
			return ErrDuplicate
		}
	}

	now := s.now()
	m.ID = s.nextID
	m.CreatedAt = now
	m.ModifiedAt = now
	s.nextID++

	stored := *m
	s.byID[m.ID] = &stored
	return nil
}

// Update implements Store.
func (s *MemoryStore) Update(_ context.Context, m *Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.byID[m.ID]
	if !ok {
		return ErrNotFound
	}

	m.ModifiedAt = s.now()
	stored.Nickname = m.Nickname
	stored.ProfileImageURL = m.ProfileImageURL
	stored.ModifiedAt = m.ModifiedAt
	return nil
}

func (s *MemoryStore) find(match func(*Member) bool) (*Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, m := range s.byID {
		if match(m) {
			found := *m
			return &found, nil
		}
	}
	return nil, ErrNotFound
}
