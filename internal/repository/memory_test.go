package repository

import (
	"context"
	"testing"
	"time"

	"github.com/triagedesk/backend/internal/models"
)

func seedMemory(t *testing.T, r *MemoryRepository, candidates ...models.Candidate) {
	t.Helper()
	for _, c := range candidates {
		if err := r.Upsert(context.Background(), c); err != nil {
			t.Fatalf("upsert %s: %v", c.RegistrationNumber, err)
		}
	}
}

func TestMemoryListPreservesInsertionOrder(t *testing.T) {
	r := NewMemory()
	seedMemory(t, r,
		models.Candidate{RegistrationNumber: "c", Name: "Carla"},
		models.Candidate{RegistrationNumber: "a", Name: "Ana"},
		models.Candidate{RegistrationNumber: "b", Name: "Bruno"},
	)

	out, err := r.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"c", "a", "b"}
	if len(out) != len(want) {
		t.Fatalf("expected %d candidates, got %d", len(want), len(out))
	}
	for i, reg := range want {
		if out[i].RegistrationNumber != reg {
			t.Fatalf("position %d: expected %s, got %s", i, reg, out[i].RegistrationNumber)
		}
	}
}

func TestMemoryUpdateStatusIdempotent(t *testing.T) {
	r := NewMemory()
	r.now = func() time.Time { return time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC) }
	seedMemory(t, r, models.Candidate{RegistrationNumber: "r1", Name: "Ana"})

	ok, err := r.UpdateStatus(context.Background(), "r1", models.StatusClassificado, "ana@org.br")
	if err != nil || !ok {
		t.Fatalf("first update: ok=%v err=%v", ok, err)
	}
	first, _ := r.List(context.Background())

	r.now = func() time.Time { return time.Date(2024, 3, 2, 18, 30, 0, 0, time.UTC) }
	ok, err = r.UpdateStatus(context.Background(), "r1", models.StatusClassificado, "ana@org.br")
	if err != nil || !ok {
		t.Fatalf("second update: ok=%v err=%v", ok, err)
	}
	second, _ := r.List(context.Background())

	if first[0].TriagedAt != second[0].TriagedAt {
		t.Fatalf("repeated update changed triage timestamp: %q vs %q", first[0].TriagedAt, second[0].TriagedAt)
	}
	if second[0].Status != models.StatusClassificado || second[0].Analyst != "ana@org.br" {
		t.Fatalf("unexpected final state: %+v", second[0])
	}
}

func TestMemoryUpdateStatusNotFound(t *testing.T) {
	r := NewMemory()
	ok, err := r.UpdateStatus(context.Background(), "ghost", models.StatusRevisar, "ana@org.br")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if ok {
		t.Fatal("expected update of missing candidate to report false")
	}
}

func TestMemoryUpsertPreservesTriageFields(t *testing.T) {
	r := NewMemory()
	seedMemory(t, r, models.Candidate{RegistrationNumber: "r1", Name: "Ana"})
	if _, err := r.UpdateStatus(context.Background(), "r1", models.StatusRevisar, "ana@org.br"); err != nil {
		t.Fatalf("update: %v", err)
	}

	seedMemory(t, r, models.Candidate{RegistrationNumber: "r1", Name: "Ana Maria", Phone: "11 99999-0000"})

	out, _ := r.List(context.Background())
	if out[0].Name != "Ana Maria" {
		t.Fatalf("expected intake fields refreshed, got %q", out[0].Name)
	}
	if out[0].Status != models.StatusRevisar || out[0].Analyst != "ana@org.br" {
		t.Fatalf("expected triage fields preserved, got %+v", out[0])
	}
}

func TestSplitDocumentCell(t *testing.T) {
	urls := splitDocumentCell("https://a/1<br>https://a/2, https://a/3\nundefined\n ")
	want := []string{"https://a/1", "https://a/2", "https://a/3"}
	if len(urls) != len(want) {
		t.Fatalf("expected %d urls, got %v", len(want), urls)
	}
	for i := range want {
		if urls[i] != want[i] {
			t.Fatalf("url %d: expected %s, got %s", i, want[i], urls[i])
		}
	}
	if got := splitDocumentCell("  "); got != nil {
		t.Fatalf("expected nil for blank cell, got %v", got)
	}
}
