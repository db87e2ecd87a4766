package service

import (
	"errors"
	"testing"
	"time"

	"github.com/triagedesk/backend/internal/models"
)

func newTestQueue(t *testing.T) (*Queue, *time.Time) {
	t.Helper()
	q := NewQueue(nil)
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	q.now = func() time.Time { return at }
	q.SetCandidates(sampleCandidates())
	return q, &at
}

func currentReg(t *testing.T, q *Queue) string {
	t.Helper()
	c, ok := q.Current()
	if !ok {
		t.Fatal("expected a current candidate")
	}
	return c.RegistrationNumber
}

func TestQueueDefaultsToFirstPending(t *testing.T) {
	q, _ := newTestQueue(t)
	if got := currentReg(t, q); got != "1" {
		t.Fatalf("expected cursor on first pending candidate, got %s", got)
	}
	if pos, total := q.Position(); pos != 0 || total != 2 {
		t.Fatalf("expected position 0 of 2, got %d of %d", pos, total)
	}
}

func TestQueueNextPreviousClamp(t *testing.T) {
	q, _ := newTestQueue(t)

	q.Previous()
	if got := currentReg(t, q); got != "1" {
		t.Fatalf("previous at start must not move, got %s", got)
	}

	q.Next()
	if got := currentReg(t, q); got != "4" {
		t.Fatalf("expected cursor on 4, got %s", got)
	}

	q.Next()
	if got := currentReg(t, q); got != "4" {
		t.Fatalf("next at end must not move, got %s", got)
	}

	q.Previous()
	if got := currentReg(t, q); got != "1" {
		t.Fatalf("expected cursor back on 1, got %s", got)
	}
}

func TestQueueSelect(t *testing.T) {
	q, _ := newTestQueue(t)
	if err := q.Select("4"); err != nil {
		t.Fatalf("select: %v", err)
	}
	if got := currentReg(t, q); got != "4" {
		t.Fatalf("expected cursor on 4, got %s", got)
	}

	// Candidate 2 exists but is filtered out of the pending view.
	if err := q.Select("2"); !errors.Is(err, ErrNotInQueue) {
		t.Fatalf("expected ErrNotInQueue, got %v", err)
	}
	if err := q.Select("ghost"); !errors.Is(err, ErrNotInQueue) {
		t.Fatalf("expected ErrNotInQueue, got %v", err)
	}
}

func TestQueueCursorSurvivesFilterChange(t *testing.T) {
	q, _ := newTestQueue(t)
	if err := q.Select("4"); err != nil {
		t.Fatalf("select: %v", err)
	}

	// 4 stays visible under the wider filter: the cursor must not move.
	q.SetFilter(models.Filter{Area: models.FilterAll, Cargo: models.FilterAll, Status: models.FilterAll})
	if got := currentReg(t, q); got != "4" {
		t.Fatalf("expected cursor kept on 4, got %s", got)
	}

	// 4 is Assistencial: narrowing to Administrativa evicts it and the
	// cursor falls back to the first visible candidate.
	q.SetFilter(models.Filter{Area: "Administrativa", Cargo: models.FilterAll, Status: models.FilterAll})
	if got := currentReg(t, q); got != "1" {
		t.Fatalf("expected cursor reset to 1, got %s", got)
	}
}

func TestQueueEmptyView(t *testing.T) {
	q, _ := newTestQueue(t)
	q.SetFilter(models.Filter{Area: "Assistencial", Cargo: "Recepcionista", Status: models.FilterAll})

	if _, ok := q.Current(); ok {
		t.Fatal("expected no current candidate in an empty view")
	}
	if pos, total := q.Position(); pos != -1 || total != 0 {
		t.Fatalf("expected position -1 of 0, got %d of %d", pos, total)
	}
	if q.Elapsed() != 0 {
		t.Fatalf("expected zero elapsed without a selection, got %v", q.Elapsed())
	}
}

func TestQueueElapsedResetsOnMove(t *testing.T) {
	q, at := newTestQueue(t)

	*at = at.Add(30 * time.Second)
	if got := q.Elapsed(); got != 30*time.Second {
		t.Fatalf("expected 30s elapsed, got %v", got)
	}

	q.Next()
	if got := q.Elapsed(); got != 0 {
		t.Fatalf("expected timer restart after move, got %v", got)
	}

	*at = at.Add(10 * time.Second)
	if err := q.Select("1"); err != nil {
		t.Fatalf("select: %v", err)
	}
	if got := q.Elapsed(); got != 0 {
		t.Fatalf("expected timer restart after select, got %v", got)
	}
}

func TestQueueClassifyGuard(t *testing.T) {
	q, _ := newTestQueue(t)
	if !q.beginClassify() {
		t.Fatal("expected first classification to acquire the guard")
	}
	if q.beginClassify() {
		t.Fatal("expected concurrent classification to be rejected")
	}
	q.endClassify()
	if !q.beginClassify() {
		t.Fatal("expected guard to be reusable after release")
	}
}
