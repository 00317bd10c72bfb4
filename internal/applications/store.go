package applications

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"
)

var (
	ErrNotFound = errors.New("application not found")
	// ErrDuplicate is returned when the user already applied to the job.
	ErrDuplicate = errors.New("already applied to this job")
)

// HistoryEntry records one status change.
type HistoryEntry struct {
	From Status    `json:"from"`
	To   Status    `json:"to"`
	At   time.Time `json:"at"`
}

// Application is one user's application to one job.
type Application struct {
	ID          string         `json:"id"`
	JobID       string         `json:"jobId"`
	UserID      string         `json:"userId"`
	ResumeID    string         `json:"resumeId,omitempty"`
	CoverLetter string         `json:"coverLetter,omitempty"`
	Status      Status         `json:"status"`
	AppliedAt   time.Time      `json:"appliedAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	History     []HistoryEntry `json:"history"`
}

func (a Application) clone() Application {
	a.History = slices.Clone(a.History)
	if a.History == nil {
		a.History = []HistoryEntry{}
	}
	return a
}

// Store persists applications. Lists come back in submission order. At most
// one application exists per (job, user) pair.
type Store interface {
	Create(ctx context.Context, a Application) (Application, error)
	Get(ctx context.Context, id string) (Application, error)
	// Update applies fn atomically. An error from fn aborts the update.
	Update(ctx context.Context, id string, fn func(*Application) error) (Application, error)
	ListByUser(ctx context.Context, userID string) ([]Application, error)
	ListByJob(ctx context.Context, jobID string) ([]Application, error)
}

// MemoryStore keeps applications in process memory.
type MemoryStore struct {
	mu   sync.RWMutex
	apps []Application
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Create(_ context.Context, a Application) (Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.apps {
		if existing.JobID == a.JobID && existing.UserID == a.UserID {
			return Application{}, ErrDuplicate
		}
	}
	a = a.clone()
	s.apps = append(s.apps, a)
	return a.clone(), nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return Application{}, ErrNotFound
	}
	return s.apps[i].clone(), nil
}

func (s *MemoryStore) Update(_ context.Context, id string, fn func(*Application) error) (Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return Application{}, ErrNotFound
	}
	next := s.apps[i].clone()
	if err := fn(&next); err != nil {
		return Application{}, err
	}
	s.apps[i] = next
	return next.clone(), nil
}

func (s *MemoryStore) ListByUser(_ context.Context, userID string) ([]Application, error) {
	return s.list(func(a Application) bool { return a.UserID == userID }), nil
}

func (s *MemoryStore) ListByJob(_ context.Context, jobID string) ([]Application, error) {
	return s.list(func(a Application) bool { return a.JobID == jobID }), nil
}

func (s *MemoryStore) list(keep func(Application) bool) []Application {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []Application{}
	for _, a := range s.apps {
		if keep(a) {
			out = append(out, a.clone())
		}
	}
	return out
}

func (s *MemoryStore) indexOf(id string) int {
	return slices.IndexFunc(s.apps, func(a Application) bool { return a.ID == id })
}
