// Package drivers defines the per-portal automation contract. Portals
// differ in selectors, field order, and whether finding a player and
// viewing their wager log are separate screens, but every driver follows
// the same shape: locate control, act, wait for settle, verify.
package drivers

import (
	"context"

	"github.com/XOOPO/TrackingTurnover/internal/pkg/models"
	"github.com/XOOPO/TrackingTurnover/internal/pkg/storage"
)

// Env carries the scrape-wide plumbing a driver needs but does not own.
type Env struct {
	// MaxPages caps the pagination loop.
	MaxPages int
	// OnProgress receives 0..100 progress values. May be nil.
	OnProgress func(int)
	// KeepAlive resets the pool idle timer during long extractions.
	// May be nil.
	KeepAlive func()
	// Screenshots receives diagnostic captures. May be nil; failures are
	// never fatal.
	Screenshots storage.ScreenshotStore
}

// Progress reports progress if a callback is wired.
func (e Env) Progress(pct int) {
	if e.OnProgress != nil {
		e.OnProgress(pct)
	}
}

// Driver automates one portal. The context passed to each method is the
// pooled browser session's tab context; the driver borrows it for the one
// call and must not retain it.
type Driver interface {
	Name() string

	// CheckLoggedIn probes the current page for an authenticated-state
	// marker (a logout or search affordance). It never returns an error:
	// any internal failure reads as "not logged in" and forces a fresh
	// login.
	CheckLoggedIn(ctx context.Context) bool

	// Login navigates to the portal, submits the credential form, and
	// waits for navigation to settle, retrying the full sequence a few
	// times before giving up.
	Login(ctx context.Context, loginURL, username, password string) error

	// SearchPlayer drives the portal's search UI for one player, extracts
	// the paginated wager log, and reduces it to a turnover result.
	SearchPlayer(ctx context.Context, playerID string, window models.SearchWindow, env Env) (*models.TurnoverResult, error)
}
