package service

import (
	"context"
	"testing"

	"github.com/triagedesk/backend/internal/ledger"
	"github.com/triagedesk/backend/internal/models"
	"github.com/triagedesk/backend/internal/repository"
)

func TestAnalystViewCountsCurrentStatuses(t *testing.T) {
	repo := repository.NewMemory()
	seed := []models.Candidate{
		{RegistrationNumber: "1", Name: "Ana"},
		{RegistrationNumber: "2", Name: "Bruno", Status: models.StatusClassificado, Analyst: "ana@org.br"},
		{RegistrationNumber: "3", Name: "Carla", Status: models.StatusDesclassificado, Analyst: "ana@org.br"},
		{RegistrationNumber: "4", Name: "Davi", Status: models.StatusRevisar, Analyst: "ana@org.br"},
		{RegistrationNumber: "5", Name: "Eva", Status: models.StatusClassificado, Analyst: "beto@org.br"},
		{RegistrationNumber: "6", Name: "Fabio"},
	}
	for _, c := range seed {
		if err := repo.Upsert(context.Background(), c); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	a := &Aggregator{Ledger: ledger.NewMemory(), Repo: repo}
	stats, err := a.AnalystView(context.Background(), "ana@org.br")
	if err != nil {
		t.Fatalf("analyst view: %v", err)
	}

	if stats.Total != 6 {
		t.Fatalf("expected total 6, got %d", stats.Total)
	}
	// Pending counts pool-wide work remaining, not per analyst.
	if stats.Pending != 2 {
		t.Fatalf("expected 2 pending, got %d", stats.Pending)
	}
	if stats.Classified != 1 || stats.Disqualified != 1 || stats.Review != 1 {
		t.Fatalf("unexpected breakdown: %+v", stats)
	}
	if stats.TotalReviewed != 3 {
		t.Fatalf("expected 3 reviewed by analyst, got %d", stats.TotalReviewed)
	}
}

func TestSessionViewDelegatesToLedger(t *testing.T) {
	store := ledger.NewMemory()
	if err := store.Append(context.Background(), models.ReviewEvent{
		RegistrationNumber: "1",
		SessionID:          "s1",
		Status:             models.StatusClassificado,
		DurationSeconds:    45,
	}); err != nil {
		t.Fatalf("append: %v", err)
	}

	a := &Aggregator{Ledger: store, Repo: repository.NewMemory()}
	m, err := a.SessionView(context.Background(), "s1")
	if err != nil {
		t.Fatalf("session view: %v", err)
	}
	if m.TotalReviewed != 1 || m.Classified != 1 || m.AverageDurationSeconds != 45 {
		t.Fatalf("unexpected metrics: %+v", m)
	}
}
