package store

import (
	"context"
	"slices"
	"sync"
	"time"

	"jobverse/internal/model"
)

// MemoryStore keeps the corpus in process memory. It is constructed once at
// start-up and handed to whoever needs it; there is no package-level state.
type MemoryStore struct {
	mu   sync.RWMutex
	jobs []model.JobRecord
}

// NewMemoryStore returns a store holding copies of jobs in the given order.
func NewMemoryStore(jobs []model.JobRecord) *MemoryStore {
	s := &MemoryStore{jobs: make([]model.JobRecord, 0, len(jobs))}
	for _, j := range jobs {
		s.jobs = append(s.jobs, j.Clone())
	}
	return s
}

// ListJobs returns a deep copy of the corpus.
func (s *MemoryStore) ListJobs(_ context.Context) ([]model.JobRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.JobRecord, len(s.jobs))
	for i, j := range s.jobs {
		out[i] = j.Clone()
	}
	return out, nil
}

// GetJob returns model.ErrJobNotFound for an unknown id.
func (s *MemoryStore) GetJob(_ context.Context, id string) (model.JobRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return model.JobRecord{}, model.ErrJobNotFound
	}
	return s.jobs[i].Clone(), nil
}

// CreateJob appends a copy of j.
func (s *MemoryStore) CreateJob(_ context.Context, j model.JobRecord) (model.JobRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(j.ID) >= 0 {
		return model.JobRecord{}, model.ErrJobExists
	}
	s.jobs = append(s.jobs, j.Clone())
	return j.Clone(), nil
}

// UpdateJob runs fn on a copy and stores it only when fn succeeds.
func (s *MemoryStore) UpdateJob(_ context.Context, id string, fn UpdateFunc) (model.JobRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return model.JobRecord{}, model.ErrJobNotFound
	}
	next := s.jobs[i].Clone()
	if err := fn(&next); err != nil {
		return model.JobRecord{}, err
	}
	next.ID = id
	s.jobs[i] = next
	return next.Clone(), nil
}

// DeleteJob removes id, keeping the order of the remaining jobs.
func (s *MemoryStore) DeleteJob(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return model.ErrJobNotFound
	}
	s.jobs = slices.Delete(s.jobs, i, i+1)
	return nil
}

// IncrementViews bumps the view counter of id.
func (s *MemoryStore) IncrementViews(_ context.Context, id string) (model.JobRecord, error) {
	return s.bump(id, func(j *model.JobRecord) { j.Views++ })
}

// IncrementApplications bumps the application counter of id.
func (s *MemoryStore) IncrementApplications(_ context.Context, id string) (model.JobRecord, error) {
	return s.bump(id, func(j *model.JobRecord) { j.Applications++ })
}

func (s *MemoryStore) bump(id string, fn func(*model.JobRecord)) (model.JobRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return model.JobRecord{}, model.ErrJobNotFound
	}
	fn(&s.jobs[i])
	return s.jobs[i].Clone(), nil
}

// CloseExpired closes every open job whose deadline is before now.
func (s *MemoryStore) CloseExpired(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	closed := 0
	for i := range s.jobs {
		if s.jobs[i].IsExpired(now) {
			s.jobs[i].Status = model.JobStatusClosed
			closed++
		}
	}
	return closed, nil
}

func (s *MemoryStore) indexOf(id string) int {
	for i := range s.jobs {
		if s.jobs[i].ID == id {
			return i
		}
	}
	return -1
}
