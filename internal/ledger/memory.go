package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/triagedesk/backend/internal/models"
)

type MemoryStore struct {
	mu     sync.RWMutex
	events []models.ReviewEvent
	seq    int64
	now    func() time.Time
}

func NewMemory() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

func (s *MemoryStore) Append(_ context.Context, event models.ReviewEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	event.Seq = s.seq
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.ReviewedAt.IsZero() {
		event.ReviewedAt = s.now().UTC()
	}
	s.events = append(s.events, event)
	return nil
}

func (s *MemoryStore) SessionMetrics(ctx context.Context, sessionID string) (models.SessionMetrics, error) {
	events, err := s.ListBySession(ctx, sessionID)
	if err != nil {
		return models.SessionMetrics{}, err
	}
	return aggregate(events), nil
}

func (s *MemoryStore) LastReviewFor(_ context.Context, registrationNumber string) (models.ReviewEvent, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var last models.ReviewEvent
	found := false
	for _, e := range s.events {
		if e.RegistrationNumber != registrationNumber {
			continue
		}
		if !found || e.ReviewedAt.After(last.ReviewedAt) ||
			(e.ReviewedAt.Equal(last.ReviewedAt) && e.Seq > last.Seq) {
			last = e
			found = true
		}
	}
	return last, found, nil
}

func (s *MemoryStore) ListBySession(_ context.Context, sessionID string) ([]models.ReviewEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.ReviewEvent
	for _, e := range s.events {
		if e.SessionID == sessionID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *MemoryStore) ListByCandidate(_ context.Context, registrationNumber string) ([]models.ReviewEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.ReviewEvent
	for _, e := range s.events {
		if e.RegistrationNumber == registrationNumber {
			out = append(out, e)
		}
	}
	return out, nil
}
