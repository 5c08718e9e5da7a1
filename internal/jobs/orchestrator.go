package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/XOOPO/TrackingTurnover/internal/pkg/models"
	"github.com/XOOPO/TrackingTurnover/internal/pkg/storage"
)

var (
	ErrJobNotFound = errors.New("job not found")
	// ErrJobForbidden is returned when a user polls a job they did not
	// create. Job IDs are unguessable but access is still checked.
	ErrJobForbidden = errors.New("job belongs to another user")
)

// ValidationError reports a rejected search request.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}

// ScrapeFunc runs one player search end to end. Implemented by
// scraper.Scraper; injected so orchestrator tests need no browser.
type ScrapeFunc func(ctx context.Context, provider, brand, playerID string, window models.SearchWindow, onProgress func(int)) (*models.TurnoverResult, error)

// Notifier receives out-of-band alerts for noteworthy job outcomes.
// Implementations must not block.
type Notifier interface {
	SearchFailed(job models.SearchJob, errMsg string)
	NineLinesDetected(job models.SearchJob, result *models.TurnoverResult)
}

// SearchRequest is the validated input for one search.
type SearchRequest struct {
	PlayerID string              `json:"playerId"`
	Provider string              `json:"provider"`
	Brand    string              `json:"brand"`
	Window   models.SearchWindow `json:"window"`
}

// Orchestrator owns job lifecycles. Background scrapes run on their own
// context so an abandoned HTTP request does not kill a running search.
type Orchestrator struct {
	store    *Store
	scrape   ScrapeFunc
	activity storage.ActivityLogStorage
	notifier Notifier // may be nil

	recordTimeout time.Duration
}

func NewOrchestrator(store *Store, scrape ScrapeFunc, activity storage.ActivityLogStorage, notifier Notifier) *Orchestrator {
	if activity == nil {
		activity = storage.NoopActivityLog{}
	}
	return &Orchestrator{
		store:         store,
		scrape:        scrape,
		activity:      activity,
		notifier:      notifier,
		recordTimeout: 10 * time.Second,
	}
}

func validate(userID string, req SearchRequest) error {
	switch {
	case userID == "":
		return &ValidationError{Field: "userId"}
	case req.PlayerID == "":
		return &ValidationError{Field: "playerId"}
	case req.Provider == "":
		return &ValidationError{Field: "provider"}
	case req.Brand == "":
		return &ValidationError{Field: "brand"}
	}
	return nil
}

// StartSearch creates a job and launches the scrape in the background.
// The returned job is already visible via GetJob.
func (o *Orchestrator) StartSearch(userID string, req SearchRequest) (models.SearchJob, error) {
	if err := validate(userID, req); err != nil {
		return models.SearchJob{}, err
	}

	job := o.store.Create(userID, req.PlayerID, req.Provider, req.Brand)
	slog.Info("jobs: search job created", "jobId", job.ID, "userId", userID,
		"provider", req.Provider, "brand", req.Brand, "playerId", req.PlayerID)

	go o.run(job, req)
	return job, nil
}

// GetJob returns a job to its creator.
func (o *Orchestrator) GetJob(userID, jobID string) (models.SearchJob, error) {
	job, ok := o.store.Get(jobID)
	if !ok {
		return models.SearchJob{}, ErrJobNotFound
	}
	if job.UserID != userID {
		return models.SearchJob{}, ErrJobForbidden
	}
	return job, nil
}

// Search runs a scrape synchronously on the caller's context. Kept for
// clients that prefer one long request over polling; long paginations
// may exceed proxy timeouts.
func (o *Orchestrator) Search(ctx context.Context, userID string, req SearchRequest) (*models.TurnoverResult, error) {
	if err := validate(userID, req); err != nil {
		return nil, err
	}

	job := o.store.Create(userID, req.PlayerID, req.Provider, req.Brand)
	o.store.update(job.ID, func(j *models.SearchJob) {
		j.Status = models.JobRunning
		j.Progress = 5
	})
	o.recordActivity(job, models.ActivityPending, "", "")

	result, err := o.scrape(ctx, req.Provider, req.Brand, req.PlayerID, req.Window, func(pct int) {
		o.setProgress(job.ID, pct)
	})
	if err != nil {
		o.finishFailed(job, err)
		return nil, err
	}

	o.finishCompleted(job, result)
	return result, nil
}

// run executes one background job. Panics in driver code are confined to
// the job and recorded as a failure.
func (o *Orchestrator) run(job models.SearchJob, req SearchRequest) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("jobs: scrape panicked", "jobId", job.ID, "panic", r)
			o.finishFailed(job, fmt.Errorf("internal error: %v", r))
		}
	}()

	o.store.update(job.ID, func(j *models.SearchJob) {
		j.Status = models.JobRunning
		j.Progress = 5
	})
	o.recordActivity(job, models.ActivityPending, "", "")

	result, err := o.scrape(context.Background(), req.Provider, req.Brand, req.PlayerID, req.Window, func(pct int) {
		o.setProgress(job.ID, pct)
	})
	if err != nil {
		o.finishFailed(job, err)
		return
	}

	o.finishCompleted(job, result)
}

func (o *Orchestrator) setProgress(jobID string, pct int) {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	o.store.update(jobID, func(j *models.SearchJob) {
		j.Progress = pct
	})
}

func (o *Orchestrator) finishCompleted(job models.SearchJob, result *models.TurnoverResult) {
	o.store.update(job.ID, func(j *models.SearchJob) {
		j.Status = models.JobCompleted
		j.Progress = 100
		j.Result = result
	})

	// The log keeps a summary, not the full per-game breakdown.
	summary, err := json.Marshal(map[string]any{
		"gameCount":     len(result.Games),
		"totalTurnover": result.TotalTurnover,
		"hasNineLines":  result.HasNineLines,
		"scrapedAt":     result.ScrapedAt,
	})
	if err != nil {
		summary = nil
	}
	o.recordActivity(job, models.ActivitySuccess, "", string(summary))

	slog.Info("jobs: search completed", "jobId", job.ID,
		"games", len(result.Games), "totalTurnover", result.TotalTurnover)

	if o.notifier != nil && result.HasNineLines {
		o.notifier.NineLinesDetected(job, result)
	}
}

func (o *Orchestrator) finishFailed(job models.SearchJob, scrapeErr error) {
	msg := scrapeErr.Error()
	o.store.update(job.ID, func(j *models.SearchJob) {
		j.Status = models.JobFailed
		j.Error = msg
	})
	o.recordActivity(job, models.ActivityFailed, msg, "")

	slog.Error("jobs: search failed", "jobId", job.ID, "error", scrapeErr)

	if o.notifier != nil {
		o.notifier.SearchFailed(job, msg)
	}
}

// recordActivity writes to the durable log on its own deadline. Logging
// failures never affect the job outcome.
func (o *Orchestrator) recordActivity(job models.SearchJob, status models.ActivityStatus, errMsg, resultData string) {
	ctx, cancel := context.WithTimeout(context.Background(), o.recordTimeout)
	defer cancel()

	entry := models.ActivityEntry{
		JobID:        job.ID,
		UserID:       job.UserID,
		PlayerID:     job.PlayerID,
		Provider:     job.Provider,
		Brand:        job.Brand,
		Status:       status,
		ErrorMessage: errMsg,
		ResultData:   resultData,
	}
	if err := o.activity.Record(ctx, entry); err != nil {
		slog.Warn("jobs: activity log write failed", "jobId", job.ID, "status", status, "error", err)
	}
}
