package store

import (
	"sync"

	"github.com/amishk599/joblens/internal/model"
)

var _ model.JobStore = (*MemoryStore)(nil)

// MemoryStore keeps jobs in a map for the life of the process.
// With maxJobs > 0 the oldest insertions are evicted once the cap is reached;
// maxJobs == 0 means unbounded.
type MemoryStore struct {
	mu      sync.RWMutex
	jobs    map[string]model.Job
	order   []string
	maxJobs int
}

// NewMemoryStore returns an empty store.
func NewMemoryStore(maxJobs int) *MemoryStore {
	return &MemoryStore{
		jobs:    make(map[string]model.Job),
		maxJobs: maxJobs,
	}
}

// Put stores job under its id. Re-putting an existing id replaces the record
// without changing its eviction position.
func (s *MemoryStore) Put(job model.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[job.ID]; !exists {
		s.order = append(s.order, job.ID)
	}
	s.jobs[job.ID] = job

	if s.maxJobs > 0 {
		for len(s.order) > s.maxJobs {
			delete(s.jobs, s.order[0])
			s.order = s.order[1:]
		}
	}
	return nil
}

// Get returns the job with the given id or model.ErrJobNotFound.
func (s *MemoryStore) Get(id string) (model.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[id]
	if !ok {
		return model.Job{}, model.ErrJobNotFound
	}
	return job, nil
}

// Clear removes every job.
func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	s.jobs = make(map[string]model.Job)
	s.order = nil
	s.mu.Unlock()
	return nil
}

// Size returns the number of stored jobs.
func (s *MemoryStore) Size() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.jobs), nil
}
