// Package ledger is the append-only log of classification events. It is the
// source of truth for session metrics and review history; a candidate's
// current status lives on the candidate record, not here.
package ledger

import (
	"context"

	"github.com/triagedesk/backend/internal/models"
)

type Store interface {
	// Append records one immutable event. Prior events for the same
	// candidate are never touched.
	Append(ctx context.Context, event models.ReviewEvent) error

	// SessionMetrics aggregates every event of one session. A session with
	// no events yields all-zero metrics, not an error.
	SessionMetrics(ctx context.Context, sessionID string) (models.SessionMetrics, error)

	// LastReviewFor returns the most recent event for a candidate, ordered
	// by timestamp then insertion sequence.
	LastReviewFor(ctx context.Context, registrationNumber string) (models.ReviewEvent, bool, error)

	ListBySession(ctx context.Context, sessionID string) ([]models.ReviewEvent, error)
	ListByCandidate(ctx context.Context, registrationNumber string) ([]models.ReviewEvent, error)
}

// aggregate computes session metrics from raw events. Average duration only
// counts events carrying a positive duration.
func aggregate(events []models.ReviewEvent) models.SessionMetrics {
	var m models.SessionMetrics
	var durTotal, durCount int
	for _, e := range events {
		m.TotalReviewed++
		switch e.Status {
		case models.StatusClassificado:
			m.Classified++
		case models.StatusDesclassificado:
			m.Disqualified++
		case models.StatusRevisar:
			m.Review++
		}
		if e.DurationSeconds > 0 {
			durTotal += e.DurationSeconds
			durCount++
		}
	}
	if durCount > 0 {
		m.AverageDurationSeconds = float64(durTotal) / float64(durCount)
	}
	return m
}
