// Package scraper turns a provider/brand/player request into a turnover
// result: it borrows a pooled browser session, logs into the portal when
// the session is fresh or expired, drives the portal's search UI through
// the provider driver, and reduces the extracted wager rows.
package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/XOOPO/TrackingTurnover/internal/pkg/browser"
	"github.com/XOOPO/TrackingTurnover/internal/pkg/config"
	"github.com/XOOPO/TrackingTurnover/internal/pkg/credentials"
	"github.com/XOOPO/TrackingTurnover/internal/pkg/models"
	"github.com/XOOPO/TrackingTurnover/internal/pkg/storage"
	"github.com/XOOPO/TrackingTurnover/internal/scraper/drivers"
)

// Scraper coordinates sessions, credentials, and drivers for one
// deployment. Safe for concurrent use; concurrent requests for the same
// provider/brand serialize on the pooled session.
type Scraper struct {
	pool        *browser.Pool
	creds       credentials.Provider
	screenshots storage.ScreenshotStore

	loginTimeout time.Duration
	maxPages     int
}

// New wires a scraper from its collaborators. screenshots may be nil.
func New(pool *browser.Pool, creds credentials.Provider, screenshots storage.ScreenshotStore, cfg *config.ScraperConfig) *Scraper {
	return &Scraper{
		pool:         pool,
		creds:        creds,
		screenshots:  screenshots,
		loginTimeout: cfg.LoginTimeout,
		maxPages:     cfg.MaxPages,
	}
}

// Providers lists the provider names this deployment can scrape.
func (s *Scraper) Providers() []string {
	return drivers.AvailableNames()
}

// Scrape runs one player search end to end. Any browser-level failure
// invalidates the pooled session before the error propagates, so the
// next request starts from a clean login.
func (s *Scraper) Scrape(ctx context.Context, provider, brand, playerID string, window models.SearchWindow, onProgress func(int)) (*models.TurnoverResult, error) {
	drv, err := drivers.ByName(provider)
	if err != nil {
		return nil, err
	}
	provider = drv.Name()

	slog.Info("scraper: starting scrape", "provider", provider, "brand", brand, "playerId", playerID)

	sess, created, err := s.pool.Acquire(ctx, provider, brand)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire browser session: %w", err)
	}

	sess.Lock()
	defer sess.Unlock()

	tabCtx := sess.Ctx()

	loggedIn := !created && drv.CheckLoggedIn(tabCtx)
	slog.Info("scraper: session state", "provider", provider, "brand", brand,
		"reused", !created, "loggedIn", loggedIn)

	if !loggedIn {
		if err := s.login(ctx, tabCtx, drv, provider, brand); err != nil {
			s.pool.Invalidate(provider, brand)
			return nil, err
		}
	}

	env := drivers.Env{
		MaxPages:    s.maxPages,
		OnProgress:  onProgress,
		KeepAlive:   func() { s.pool.Touch(provider, brand) },
		Screenshots: s.screenshots,
	}

	result, err := drv.SearchPlayer(tabCtx, playerID, window, env)
	if err != nil {
		s.pool.Invalidate(provider, brand)
		return nil, err
	}

	result.Brand = brand
	s.pool.Touch(provider, brand)

	slog.Info("scraper: scrape complete", "provider", provider, "brand", brand,
		"playerId", playerID, "games", len(result.Games), "totalTurnover", result.TotalTurnover)
	return result, nil
}

func (s *Scraper) login(ctx, tabCtx context.Context, drv drivers.Driver, provider, brand string) error {
	cred, err := s.creds.GetCredential(ctx, provider, brand)
	if err != nil {
		return fmt.Errorf("credentials not found for %s/%s: %w", provider, brand, err)
	}

	loginCtx := tabCtx
	if s.loginTimeout > 0 {
		var cancel context.CancelFunc
		loginCtx, cancel = context.WithTimeout(tabCtx, s.loginTimeout)
		defer cancel()
	}

	if err := drv.Login(loginCtx, cred.LoginURL, cred.Username, cred.Password); err != nil {
		return err
	}
	return nil
}
