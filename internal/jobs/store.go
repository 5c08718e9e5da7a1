// Package jobs runs player searches asynchronously: a request creates a
// tracked job, the scrape happens in the background, and callers poll the
// job until it reaches a terminal state.
package jobs

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/XOOPO/TrackingTurnover/internal/pkg/models"
)

// Store holds jobs in memory. Jobs are scoped to one process lifetime;
// durable history lives in the activity log.
type Store struct {
	mu   sync.RWMutex
	jobs map[string]*models.SearchJob
}

func NewStore() *Store {
	return &Store{jobs: make(map[string]*models.SearchJob)}
}

// Create registers a new pending job and returns a copy of it.
func (s *Store) Create(userID, playerID, provider, brand string) models.SearchJob {
	now := time.Now()
	job := &models.SearchJob{
		ID:        uuid.NewString(),
		UserID:    userID,
		PlayerID:  playerID,
		Provider:  provider,
		Brand:     brand,
		Status:    models.JobPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	s.jobs[job.ID] = job
	s.mu.Unlock()

	return *job
}

// Get returns a copy of the job, so callers never see mid-update state.
func (s *Store) Get(id string) (models.SearchJob, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok {
		return models.SearchJob{}, false
	}
	return *job, true
}

// update applies fn to the stored job under the lock. Terminal jobs are
// never modified again.
func (s *Store) update(id string, fn func(*models.SearchJob)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok || job.Status.Terminal() {
		return
	}
	fn(job)
	job.UpdatedAt = time.Now()
}

// Len reports the number of tracked jobs.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.jobs)
}
