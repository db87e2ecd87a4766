package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/triagedesk/backend/internal/ledger"
	"github.com/triagedesk/backend/internal/models"
	"github.com/triagedesk/backend/internal/repository"
	"github.com/triagedesk/backend/internal/session"
)

var (
	// ErrNoSelection means the queue has no current candidate to classify.
	ErrNoSelection = errors.New("no candidate selected")

	// ErrUpdateRejected means the backing store refused the status write
	// (candidate missing or credential absent). Recoverable: nothing else
	// was recorded and the analyst keeps their place in the queue.
	ErrUpdateRejected = errors.New("candidate status update rejected")

	// ErrBusy rejects a classify while a prior one is still in flight for
	// the same queue.
	ErrBusy = errors.New("classification already in progress")
)

// Triage is the classification workflow: persist the status, append a ledger
// event, bump the session counter, and advance the queue - in that order, so
// a review is never recorded for a status that did not persist.
type Triage struct {
	Repo     repository.CandidateRepository
	Ledger   ledger.Store
	Sessions *session.Tracker
	Logger   zerolog.Logger
}

type ClassifyResult struct {
	Candidate       models.Candidate      `json:"candidate"`
	DurationSeconds int                   `json:"duration_seconds"`
	Metrics         models.SessionMetrics `json:"metrics"`
}

func (t *Triage) Classify(ctx context.Context, q *Queue, decision models.Status, analyst, sessionID string) (ClassifyResult, error) {
	if !decision.Valid() {
		return ClassifyResult{}, fmt.Errorf("invalid decision %q", decision)
	}

	current, ok := q.Current()
	if !ok {
		return ClassifyResult{}, ErrNoSelection
	}
	if !q.beginClassify() {
		return ClassifyResult{}, ErrBusy
	}
	defer q.endClassify()

	durationSeconds := int(q.Elapsed().Seconds())

	updated, err := t.Repo.UpdateStatus(ctx, current.RegistrationNumber, decision, analyst)
	if err != nil {
		return ClassifyResult{}, fmt.Errorf("update candidate status: %w", err)
	}
	if !updated {
		return ClassifyResult{}, ErrUpdateRejected
	}

	event := models.ReviewEvent{
		RegistrationNumber: current.RegistrationNumber,
		Analyst:            analyst,
		Status:             decision,
		SessionID:          sessionID,
		DurationSeconds:    durationSeconds,
	}
	if err := t.Ledger.Append(ctx, event); err != nil {
		// The status did persist; surfacing the error without advancing lets
		// the analyst retry, and the repeated status write is idempotent.
		return ClassifyResult{}, fmt.Errorf("append review event: %w", err)
	}

	if err := t.Sessions.RecordReview(ctx, sessionID); err != nil {
		t.Logger.Warn().Err(err).Str("session", sessionID).Msg("review recorded but session counter not incremented")
	}

	q.Next()
	patched := current
	patched.Status = decision
	patched.Analyst = analyst
	q.UpdateCandidate(patched)

	metrics, err := t.Ledger.SessionMetrics(ctx, sessionID)
	if err != nil {
		t.Logger.Warn().Err(err).Str("session", sessionID).Msg("session metrics refresh failed")
	}

	return ClassifyResult{
		Candidate:       patched,
		DurationSeconds: durationSeconds,
		Metrics:         metrics,
	}, nil
}
