package service

import (
	"context"

	"github.com/triagedesk/backend/internal/ledger"
	"github.com/triagedesk/backend/internal/models"
	"github.com/triagedesk/backend/internal/repository"
)

// Aggregator serves the two metric views. They are intentionally different:
// the session view replays the ledger for one session, while the analyst
// view reflects the candidates' current status fields, so a candidate
// re-classified several times counts once, under its latest status.
type Aggregator struct {
	Ledger ledger.Store
	Repo   repository.CandidateRepository
}

func (a *Aggregator) SessionView(ctx context.Context, sessionID string) (models.SessionMetrics, error) {
	return a.Ledger.SessionMetrics(ctx, sessionID)
}

func (a *Aggregator) AnalystView(ctx context.Context, analyst string) (models.AnalystStats, error) {
	candidates, err := a.Repo.List(ctx)
	if err != nil {
		return models.AnalystStats{}, err
	}

	stats := models.AnalystStats{Total: len(candidates)}
	for _, c := range candidates {
		if c.Pending() {
			stats.Pending++
			continue
		}
		if c.Analyst != analyst {
			continue
		}
		switch c.Status {
		case models.StatusClassificado:
			stats.Classified++
		case models.StatusDesclassificado:
			stats.Disqualified++
		case models.StatusRevisar:
			stats.Review++
		}
	}
	stats.TotalReviewed = stats.Classified + stats.Disqualified + stats.Review
	return stats, nil
}
