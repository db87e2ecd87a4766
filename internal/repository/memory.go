package repository

import (
	"context"
	"sync"
	"time"

	"github.com/triagedesk/backend/internal/models"
)

// MemoryRepository keeps the candidate set in process memory. It is the
// default backend in dev and the one the tests run against.
type MemoryRepository struct {
	mu         sync.RWMutex
	order      []string
	candidates map[string]models.Candidate
	now        func() time.Time
}

func NewMemory() *MemoryRepository {
	return &MemoryRepository{
		candidates: make(map[string]models.Candidate),
		now:        time.Now,
	}
}

func (r *MemoryRepository) List(_ context.Context) ([]models.Candidate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Candidate, 0, len(r.order))
	for _, reg := range r.order {
		out = append(out, r.candidates[reg])
	}
	return out, nil
}

func (r *MemoryRepository) UpdateStatus(_ context.Context, registrationNumber string, status models.Status, analyst string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.candidates[registrationNumber]
	if !ok {
		return false, nil
	}
	if c.Status == status && c.Analyst == analyst {
		return true, nil
	}
	c.Status = status
	c.Analyst = analyst
	c.TriagedAt = triageTimestamp(r.now())
	r.candidates[registrationNumber] = c
	return true, nil
}

// Upsert inserts or refreshes a candidate's intake fields. Triage fields of
// an existing candidate are preserved: status is mutated only through
// UpdateStatus.
func (r *MemoryRepository) Upsert(_ context.Context, c models.Candidate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.candidates[c.RegistrationNumber]; ok {
		c.Status = prev.Status
		c.TriagedAt = prev.TriagedAt
		c.Analyst = prev.Analyst
	} else {
		r.order = append(r.order, c.RegistrationNumber)
	}
	r.candidates[c.RegistrationNumber] = c
	return nil
}
