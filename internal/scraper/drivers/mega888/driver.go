// Package mega888 automates the MEGA888 agent portal. The portal is a
// single-screen flow: the search form and the wager table live on the
// same page, and the login form submits on Enter.
package mega888

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"

	"github.com/XOOPO/TrackingTurnover/internal/pkg/models"
	"github.com/XOOPO/TrackingTurnover/internal/scraper"
	"github.com/XOOPO/TrackingTurnover/internal/scraper/drivers"
)

const (
	providerName     = "MEGA888"
	loginMaxAttempts = 3
	loginRetryDelay  = 3 * time.Second
)

func init() {
	drivers.Register(providerName, func() drivers.Driver { return &Driver{} })
}

type Driver struct{}

func (d *Driver) Name() string { return providerName }

func (d *Driver) CheckLoggedIn(ctx context.Context) bool {
	loggedIn, err := drivers.HasAuthMarkers(ctx)
	if err != nil {
		slog.Debug("mega888: login probe failed", "error", err)
		return false
	}
	slog.Debug("mega888: login probe", "loggedIn", loggedIn)
	return loggedIn
}

// Login submits the credential form with the Enter key. The portal's
// login button is an unlabeled icon, so Enter is the reliable submit.
func (d *Driver) Login(ctx context.Context, loginURL, username, password string) error {
	var lastErr error

	for attempt := 1; attempt <= loginMaxAttempts; attempt++ {
		slog.Info("mega888: login attempt", "attempt", attempt, "max", loginMaxAttempts, "url", loginURL)

		if err := d.loginOnce(ctx, loginURL, username, password); err != nil {
			lastErr = err
			slog.Warn("mega888: login attempt failed", "attempt", attempt, "error", err)
			if attempt < loginMaxAttempts {
				select {
				case <-ctx.Done():
					return &scraper.LoginError{Provider: providerName, Attempts: attempt, Err: ctx.Err()}
				case <-time.After(loginRetryDelay):
				}
			}
			continue
		}

		slog.Info("mega888: login successful", "attempt", attempt)
		return nil
	}

	return &scraper.LoginError{Provider: providerName, Attempts: loginMaxAttempts, Err: lastErr}
}

func (d *Driver) loginOnce(ctx context.Context, loginURL, username, password string) error {
	err := chromedp.Run(ctx,
		chromedp.Navigate(loginURL),
		chromedp.WaitVisible(`input[type="text"]`, chromedp.ByQuery),
		chromedp.SendKeys(`input[type="text"]`, username, chromedp.ByQuery),
		chromedp.SendKeys(`input[type="password"]`, password+kb.Enter, chromedp.ByQuery),
		chromedp.Sleep(3*time.Second),
	)
	if err != nil {
		return fmt.Errorf("credential form: %w", err)
	}

	if !d.CheckLoggedIn(ctx) {
		return fmt.Errorf("no authenticated-state marker after submit")
	}
	return nil
}

func (d *Driver) SearchPlayer(ctx context.Context, playerID string, window models.SearchWindow, env drivers.Env) (*models.TurnoverResult, error) {
	slog.Info("mega888: searching for player", "playerId", playerID)

	clicked := drivers.ClickWithRetry(ctx, 3, func(ctx context.Context) (bool, error) {
		return drivers.ClickByText(ctx, "a", []string{"search user", "search"})
	})
	if !clicked {
		return nil, &scraper.SearchFlowError{Provider: providerName, Step: "search menu"}
	}
	drivers.Settle(ctx, 3*time.Second)

	// The sidebar quick-search box precedes the main form in DOM order,
	// so the player ID goes into the last visible text input.
	idx, err := drivers.LastVisibleInputIndex(ctx)
	if err != nil {
		return nil, &scraper.SearchFlowError{Provider: providerName, Step: "player input", Err: err}
	}
	if _, err := drivers.SetInputValue(ctx, `input[type="text"]`, idx, playerID); err != nil {
		return nil, &scraper.SearchFlowError{Provider: providerName, Step: "player input", Err: err}
	}

	drivers.FillOptionalDateTimeInputs(ctx, window.FromDate, window.FromTime, window.ToTime)

	ok := drivers.ClickWithRetry(ctx, 3, func(ctx context.Context) (bool, error) {
		return drivers.ClickByExactText(ctx, "button", []string{"ok"})
	})
	if !ok {
		return nil, &scraper.SearchFlowError{Provider: providerName, Step: "ok button"}
	}
	drivers.Settle(ctx, 2*time.Second)

	if err := waitForTable(ctx); err != nil {
		drivers.CaptureScreenshot(ctx, env, "mega888-no-table")
		return nil, &scraper.SearchFlowError{Provider: providerName, Step: "results table", Err: err}
	}

	rows, err := scraper.Paginator{
		Extract:    extractRows,
		Next:       drivers.ClickNextPager,
		Settle:     func(ctx context.Context) { drivers.Settle(ctx, 3*time.Second) },
		MaxPages:   env.MaxPages,
		OnProgress: env.OnProgress,
		KeepAlive:  env.KeepAlive,
	}.Run(ctx)
	if err != nil {
		return nil, &scraper.SearchFlowError{Provider: providerName, Step: "extraction", Err: err}
	}

	filtered := scraper.FilterRows(rows, window)
	agg := scraper.Aggregate(filtered)
	if len(agg.Unresolved) > 0 {
		slog.Warn("mega888: unmatched game names skipped", "names", agg.Unresolved)
	}

	slog.Info("mega888: search complete",
		"playerId", playerID, "games", len(agg.Games), "totalTurnover", agg.TotalTurnover)

	return &models.TurnoverResult{
		PlayerID:      playerID,
		Provider:      providerName,
		Games:         agg.Games,
		TotalTurnover: agg.TotalTurnover,
		HasNineLines:  agg.HasNineLines,
		ScrapedAt:     time.Now(),
	}, nil
}

// waitForTable polls for a rendered table. The portal loads results over
// a slow XHR with no completion signal.
func waitForTable(ctx context.Context) error {
	for attempt := 1; attempt <= 5; attempt++ {
		has, err := drivers.HasTable(ctx)
		if err != nil {
			return err
		}
		if has {
			return nil
		}
		slog.Debug("mega888: table not found yet", "attempt", attempt)
		drivers.Settle(ctx, 3*time.Second)
	}
	return fmt.Errorf("table not found after search")
}

// extractRows reads the visible wager table. Columns: GameName | Win |
// Bet | ... with the play timestamp in the last cell when present.
func extractRows(ctx context.Context) ([]models.RawRow, error) {
	html, err := drivers.AllTablesHTML(ctx)
	if err != nil {
		return nil, err
	}

	var rows []models.RawRow
	err = scraper.ForEachTableRow(html, 3, func(cells []string) {
		name := cells[0]
		betText := cells[2]
		if name == "" {
			return
		}

		timestamp := ""
		if last := cells[len(cells)-1]; scraper.LooksLikeTimestamp(last) {
			timestamp = last
		}

		rows = append(rows, models.RawRow{
			GameName:  name,
			BetText:   betText,
			Bet:       scraper.ParseBetAmount(betText),
			Timestamp: timestamp,
		})
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}
