// Package session tracks one analyst's working period: started at login,
// incremented on every review, closed at logout.
package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/triagedesk/backend/internal/models"
)

var (
	ErrNotFound = errors.New("session not found")

	// ErrAuthRequired means no verified analyst identity was supplied.
	// Authentication itself happens outside this subsystem.
	ErrAuthRequired = errors.New("analyst identity required")
)

// Store persists sessions. Passed to the Tracker explicitly so its lifecycle
// is owned by the process, never by package-level state.
type Store interface {
	Create(ctx context.Context, s models.Session) error
	Get(ctx context.Context, id string) (models.Session, error)
	Update(ctx context.Context, s models.Session) error
}

type Tracker struct {
	store Store
	now   func() time.Time
}

func NewTracker(store Store) *Tracker {
	return &Tracker{store: store, now: time.Now}
}

func (t *Tracker) Start(ctx context.Context, analyst string) (models.Session, error) {
	if strings.TrimSpace(analyst) == "" {
		return models.Session{}, ErrAuthRequired
	}
	s := models.Session{
		ID:        uuid.NewString(),
		Analyst:   analyst,
		StartedAt: t.now().UTC(),
	}
	if err := t.store.Create(ctx, s); err != nil {
		return models.Session{}, err
	}
	return s, nil
}

func (t *Tracker) Get(ctx context.Context, id string) (models.Session, error) {
	return t.store.Get(ctx, id)
}

// RecordReview bumps the running counter. Reviews cannot land on a missing
// or already-ended session.
func (t *Tracker) RecordReview(ctx context.Context, id string) error {
	s, err := t.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if s.Ended() {
		return ErrNotFound
	}
	s.TotalReviewed++
	return t.store.Update(ctx, s)
}

// End closes the session. Ending an already-ended session succeeds, so a
// double logout never surfaces an error.
func (t *Tracker) End(ctx context.Context, id string) error {
	s, err := t.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if s.Ended() {
		return nil
	}
	endedAt := t.now().UTC()
	s.EndedAt = &endedAt
	return t.store.Update(ctx, s)
}
