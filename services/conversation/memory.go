package conversation

import (
	"context"
	"sync"
	"time"

	"sammies/models"
)

// memoryStore keeps sessions in a process-local map. Mutations are
// guarded by a store-wide mutex; the heavier per-session serialization
// of the read→complete→merge turn belongs to the caller's keyed lock.
type memoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*models.Session
	ttl      time.Duration
	stop     chan struct{}
	stopOnce sync.Once
}

func newMemoryStore(ttl time.Duration) *memoryStore {
	s := &memoryStore{
		sessions: make(map[string]*models.Session),
		ttl:      ttl,
		stop:     make(chan struct{}),
	}
	go s.janitor()
	return s
}

func (s *memoryStore) GetOrCreate(ctx context.Context, id string) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getOrCreateLocked(id), nil
}

func (s *memoryStore) getOrCreateLocked(id string) *models.Session {
	sess, ok := s.sessions[id]
	if !ok {
		now := time.Now()
		sess = &models.Session{
			ID:        id,
			Booking:   &models.BookingRecord{Escalation: models.Escalation{Priority: models.PriorityNormal}},
			CreatedAt: now,
			UpdatedAt: now,
		}
		s.sessions[id] = sess
	}
	return sess
}

func (s *memoryStore) AppendTurn(ctx context.Context, id, role, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.getOrCreateLocked(id)
	sess.Messages = append(sess.Messages, models.Message{Role: role, Content: text})
	sess.UpdatedAt = time.Now()
	return nil
}

func (s *memoryStore) MergeBooking(ctx context.Context, id string, patch *models.BookingRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.getOrCreateLocked(id)
	sess.Booking.Merge(patch)
	sess.UpdatedAt = time.Now()
	return nil
}

func (s *memoryStore) Snapshot(ctx context.Context, id string) ([]models.Message, *models.BookingRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.getOrCreateLocked(id)
	transcript := make([]models.Message, len(sess.Messages))
	copy(transcript, sess.Messages)
	return transcript, sess.Booking.Clone(), nil
}

func (s *memoryStore) Clear(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func (s *memoryStore) Close() error {
	s.stopOnce.Do(func() { close(s.stop) })
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = make(map[string]*models.Session)
	return nil
}

// janitor evicts sessions idle longer than the TTL. Sweep interval is a
// fraction of the TTL so expiry lag stays small relative to the window.
func (s *memoryStore) janitor() {
	interval := s.ttl / 4
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.evictStale(time.Now())
		}
	}
}

func (s *memoryStore) evictStale(now time.Time) {
	cutoff := now.Add(-s.ttl)
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sess := range s.sessions {
		if sess.UpdatedAt.Before(cutoff) {
			delete(s.sessions, id)
		}
	}
}
