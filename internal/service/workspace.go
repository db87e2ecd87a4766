package service

import (
	"sync"

	"github.com/triagedesk/backend/internal/models"
)

// Workspaces maps session ids to their queues. Created once at process start
// and passed to the handlers; entries live from session start to session end.
type Workspaces struct {
	mu     sync.RWMutex
	queues map[string]*Queue
}

func NewWorkspaces() *Workspaces {
	return &Workspaces{queues: make(map[string]*Queue)}
}

func (w *Workspaces) Create(sessionID string, candidates []models.Candidate) *Queue {
	q := NewQueue(candidates)
	w.mu.Lock()
	defer w.mu.Unlock()
	w.queues[sessionID] = q
	return q
}

func (w *Workspaces) Get(sessionID string) (*Queue, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	q, ok := w.queues[sessionID]
	return q, ok
}

func (w *Workspaces) Drop(sessionID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.queues, sessionID)
}
