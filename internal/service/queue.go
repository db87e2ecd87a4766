package service

import (
	"errors"
	"sync"
	"time"

	"github.com/triagedesk/backend/internal/models"
)

var (
	// ErrNotInQueue means the requested candidate is not part of the
	// currently visible subset.
	ErrNotInQueue = errors.New("candidate not in the visible queue")
)

// Queue is one analyst's working view over the candidate set: a snapshot of
// all candidates, the active filter, a cursor on the visible subset, and the
// per-candidate review timer. The timer starts whenever the cursor lands on
// a candidate and is read, not reset, at classification time.
type Queue struct {
	mu          sync.Mutex
	all         []models.Candidate
	filter      models.Filter
	visible     []models.Candidate
	current     string // registration number; "" when no candidate is selected
	reviewStart time.Time
	classifying bool
	now         func() time.Time
}

func NewQueue(candidates []models.Candidate) *Queue {
	q := &Queue{
		filter: models.DefaultFilter(),
		now:    time.Now,
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.all = candidates
	q.reapply()
	return q
}

// SetCandidates replaces the snapshot, e.g. after a refresh from the store.
func (q *Queue) SetCandidates(candidates []models.Candidate) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.all = candidates
	q.reapply()
}

// UpdateCandidate patches one candidate in the snapshot in place.
func (q *Queue) UpdateCandidate(c models.Candidate) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i := range q.all {
		if q.all[i].RegistrationNumber == c.RegistrationNumber {
			q.all[i] = c
			break
		}
	}
	q.reapply()
}

func (q *Queue) SetFilter(f models.Filter) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.filter = f
	q.reapply()
}

func (q *Queue) Filter() models.Filter {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.filter
}

func (q *Queue) Visible() []models.Candidate {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]models.Candidate, len(q.visible))
	copy(out, q.visible)
	return out
}

func (q *Queue) Current() (models.Candidate, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if i := q.index(); i >= 0 {
		return q.visible[i], true
	}
	return models.Candidate{}, false
}

// Position reports the cursor index within the visible subset (-1 when
// absent) and the subset size.
func (q *Queue) Position() (int, int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.index(), len(q.visible)
}

// Select sets the cursor explicitly and restarts the review timer.
func (q *Queue) Select(registrationNumber string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, c := range q.visible {
		if c.RegistrationNumber == registrationNumber {
			q.current = registrationNumber
			q.reviewStart = q.now()
			return nil
		}
	}
	return ErrNotInQueue
}

// Next moves the cursor to the following visible candidate. No-op at the
// end of the queue.
func (q *Queue) Next() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if i := q.index(); i >= 0 && i < len(q.visible)-1 {
		q.current = q.visible[i+1].RegistrationNumber
		q.reviewStart = q.now()
	}
}

// Previous moves the cursor to the preceding visible candidate. No-op at the
// start of the queue.
func (q *Queue) Previous() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if i := q.index(); i > 0 {
		q.current = q.visible[i-1].RegistrationNumber
		q.reviewStart = q.now()
	}
}

// Elapsed is the time the current candidate has been on screen.
func (q *Queue) Elapsed() time.Duration {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.current == "" {
		return 0
	}
	return q.now().Sub(q.reviewStart)
}

// beginClassify marks a classification in flight. A queue accepts one at a
// time; the flag spans the whole async chain against the backing store.
func (q *Queue) beginClassify() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.classifying {
		return false
	}
	q.classifying = true
	return true
}

func (q *Queue) endClassify() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.classifying = false
}

// reapply recomputes the visible subset. The cursor survives a filter or
// snapshot change while it remains visible; otherwise it defaults to the
// first visible candidate, or becomes absent when the subset is empty.
// Callers hold q.mu.
func (q *Queue) reapply() {
	q.visible = Visible(q.all, q.filter)
	if q.index() >= 0 {
		return
	}
	if len(q.visible) > 0 {
		q.current = q.visible[0].RegistrationNumber
	} else {
		q.current = ""
	}
	q.reviewStart = q.now()
}

// index locates the cursor in the visible subset. Callers hold q.mu.
func (q *Queue) index() int {
	if q.current == "" {
		return -1
	}
	for i, c := range q.visible {
		if c.RegistrationNumber == q.current {
			return i
		}
	}
	return -1
}
