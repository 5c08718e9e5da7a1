// Package pussy888 automates the PUSSY888 agent portal. Unlike MEGA888
// the flow is two screens: a player search that lists matching accounts,
// then a per-player game log with its own date and time form. Some
// brands behind this portal respond slowly, so login retries the whole
// sequence.
package pussy888

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/XOOPO/TrackingTurnover/internal/pkg/models"
	"github.com/XOOPO/TrackingTurnover/internal/scraper"
	"github.com/XOOPO/TrackingTurnover/internal/scraper/drivers"
)

const (
	providerName     = "PUSSY888"
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
		slog.Debug("pussy888: login probe failed", "error", err)
		return false
	}
	slog.Debug("pussy888: login probe", "loggedIn", loggedIn)
	return loggedIn
}

func (d *Driver) Login(ctx context.Context, loginURL, username, password string) error {
	var lastErr error

	for attempt := 1; attempt <= loginMaxAttempts; attempt++ {
		slog.Info("pussy888: login attempt", "attempt", attempt, "max", loginMaxAttempts, "url", loginURL)

		if err := d.loginOnce(ctx, loginURL, username, password); err != nil {
			lastErr = err
			slog.Warn("pussy888: login attempt failed", "attempt", attempt, "error", err)
			if attempt < loginMaxAttempts {
				select {
				case <-ctx.Done():
					return &scraper.LoginError{Provider: providerName, Attempts: attempt, Err: ctx.Err()}
				case <-time.After(loginRetryDelay):
				}
			}
			continue
		}

		slog.Info("pussy888: login successful", "attempt", attempt)
		return nil
	}

	return &scraper.LoginError{Provider: providerName, Attempts: loginMaxAttempts, Err: lastErr}
}

func (d *Driver) loginOnce(ctx context.Context, loginURL, username, password string) error {
	err := chromedp.Run(ctx,
		chromedp.Navigate(loginURL),
		chromedp.WaitVisible(`input[type="text"]`, chromedp.ByQuery),
		chromedp.SendKeys(`input[type="text"]`, username, chromedp.ByQuery),
		chromedp.SendKeys(`input[type="password"]`, password, chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("credential form: %w", err)
	}

	// Prefer a real submit control; older brand skins label it instead.
	clicked, err := drivers.ClickFirst(ctx, `button[type="submit"], input[type="submit"]`)
	if err != nil || !clicked {
		clicked, err = drivers.ClickByText(ctx, `button, input[type="button"]`,
			[]string{"login", "submit", "sign in"})
		if err != nil {
			return fmt.Errorf("submit click: %w", err)
		}
	}
	if !clicked {
		return fmt.Errorf("no submit control found")
	}

	drivers.Settle(ctx, 3*time.Second)
	if !d.CheckLoggedIn(ctx) {
		return fmt.Errorf("no authenticated-state marker after submit")
	}
	return nil
}

func (d *Driver) SearchPlayer(ctx context.Context, playerID string, window models.SearchWindow, env drivers.Env) (*models.TurnoverResult, error) {
	slog.Info("pussy888: searching for player", "playerId", playerID)

	if err := d.openGameLog(ctx, playerID); err != nil {
		drivers.CaptureScreenshot(ctx, env, "pussy888-search-flow")
		return nil, err
	}

	d.fillGameLogForm(ctx, window)

	ok := drivers.ClickWithRetry(ctx, 3, func(ctx context.Context) (bool, error) {
		return drivers.ClickByExactText(ctx, `button, input[type="button"]`, []string{"ok", "search", "submit"})
	})
	if !ok {
		return nil, &scraper.SearchFlowError{Provider: providerName, Step: "ok button"}
	}
	drivers.Settle(ctx, 5*time.Second)

	drivers.CaptureScreenshot(ctx, env, "pussy888-search-result")

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
	slog.Info("pussy888: rows after window filtering", "raw", len(rows), "kept", len(filtered))

	agg := scraper.Aggregate(filtered)
	if len(agg.Unresolved) > 0 {
		slog.Warn("pussy888: unmatched game names skipped", "names", agg.Unresolved)
	}

	slog.Info("pussy888: search complete",
		"playerId", playerID, "games", len(agg.Games),
		"totalTurnover", agg.TotalTurnover, "hasNineLines", agg.HasNineLines)

	return &models.TurnoverResult{
		PlayerID:      playerID,
		Provider:      providerName,
		Games:         agg.Games,
		TotalTurnover: agg.TotalTurnover,
		HasNineLines:  agg.HasNineLines,
		ScrapedAt:     time.Now(),
	}, nil
}

// openGameLog walks the two-screen flow: search form, player result row,
// then that player's game log page.
func (d *Driver) openGameLog(ctx context.Context, playerID string) error {
	clicked := drivers.ClickWithRetry(ctx, 3, func(ctx context.Context) (bool, error) {
		return drivers.ClickByText(ctx, "a", []string{"search user", "search"})
	})
	if !clicked {
		return &scraper.SearchFlowError{Provider: providerName, Step: "search menu"}
	}
	drivers.Settle(ctx, 2*time.Second)

	// The sidebar quick-search box is also input[type=text]; the main
	// form's field is the last visible one.
	idx, err := drivers.LastVisibleInputIndex(ctx)
	if err != nil {
		return &scraper.SearchFlowError{Provider: providerName, Step: "player input", Err: err}
	}
	if _, err := drivers.SetInputValue(ctx, `input[type="text"]`, idx, playerID); err != nil {
		return &scraper.SearchFlowError{Provider: providerName, Step: "player input", Err: err}
	}

	goClicked := drivers.ClickWithRetry(ctx, 3, func(ctx context.Context) (bool, error) {
		return drivers.ClickByExactText(ctx, `button, input[type="button"]`, []string{"go", "search", "submit"})
	})
	if !goClicked {
		return &scraper.SearchFlowError{Provider: providerName, Step: "go button"}
	}
	drivers.Settle(ctx, 5*time.Second)

	logClicked := drivers.ClickWithRetry(ctx, 3, func(ctx context.Context) (bool, error) {
		return drivers.ClickByText(ctx, "button, a", []string{"game log"})
	})
	if !logClicked {
		return &scraper.SearchFlowError{Provider: providerName, Step: "game log button"}
	}
	drivers.Settle(ctx, 5*time.Second)

	return nil
}

// fillGameLogForm sets the game log page's date and time pickers. The
// portal supports a single date, not a range, and its pickers are
// populated by value injection because the popup calendar is not
// automatable. Failures here are non-fatal: rows are re-filtered by
// window after extraction anyway.
func (d *Driver) fillGameLogForm(ctx context.Context, window models.SearchWindow) {
	if window.FromDate != "" {
		if ok, err := setDateInput(ctx, window.FromDate); err != nil || !ok {
			slog.Warn("pussy888: date input not set, relying on post-filter",
				"date", window.FromDate, "error", err)
		} else {
			slog.Debug("pussy888: date set", "date", window.FromDate)
		}
	}

	if window.FromTime != "" || window.ToTime != "" {
		begin := window.FromTime
		if begin == "" {
			begin = "00:00:00"
		}
		end := window.ToTime
		if end == "" {
			end = "23:59:59"
		}
		if ok, err := setTimeRange(ctx, begin, end); err != nil || !ok {
			slog.Warn("pussy888: time inputs not set, relying on post-filter", "error", err)
		} else {
			slog.Debug("pussy888: time range set", "from", begin, "to", end)
		}
	}

	drivers.Settle(ctx, time.Second)
}

// setDateInput writes into #txt_StartDateTime, falling back to the
// form-control input wired to the MdatePicker popup.
func setDateInput(ctx context.Context, date string) (bool, error) {
	script := fmt.Sprintf(`(() => {
		const byId = document.getElementById('txt_StartDateTime');
		if (byId) {
			byId.value = %q;
			byId.dispatchEvent(new Event('change', { bubbles: true }));
			return true;
		}
		const candidates = Array.from(document.querySelectorAll('input.form-control'));
		const picker = candidates.find(input => (input.getAttribute('onclick') || '').includes('MdatePicker'));
		if (picker) {
			picker.value = %q;
			picker.dispatchEvent(new Event('change', { bubbles: true }));
			return true;
		}
		return false;
	})()`, date, date)

	var set bool
	if err := chromedp.Run(ctx, chromedp.Evaluate(script, &set)); err != nil {
		return false, err
	}
	return set, nil
}

// setTimeRange writes the bootstrap timepicker inputs inside the
// #begin_tp and #end_tp containers.
func setTimeRange(ctx context.Context, begin, end string) (bool, error) {
	script := fmt.Sprintf(`(() => {
		const setIn = (containerId, value) => {
			const container = document.getElementById(containerId);
			const input = container ? container.querySelector('input[type="text"]') : null;
			if (!input) return false;
			input.value = value;
			input.dispatchEvent(new Event('change', { bubbles: true }));
			return true;
		};
		const beginSet = setIn('begin_tp', %q);
		const endSet = setIn('end_tp', %q);
		return beginSet || endSet;
	})()`, begin, end)

	var set bool
	if err := chromedp.Run(ctx, chromedp.Evaluate(script, &set)); err != nil {
		return false, err
	}
	return set, nil
}

// extractRows reads the game log table. Columns: GameName | TableID |
// Bet | Win | BeginMoney | EndMoney | DateTime. Administrative "set
// score" rows are interleaved with wagers and carry no turnover.
func extractRows(ctx context.Context) ([]models.RawRow, error) {
	html, err := drivers.AllTablesHTML(ctx)
	if err != nil {
		return nil, err
	}

	var rows []models.RawRow
	err = scraper.ForEachTableRow(html, 7, func(cells []string) {
		name := cells[0]
		betText := cells[2]
		timestamp := cells[6]

		if name == "" || strings.Contains(strings.ToLower(name), "set score") || timestamp == "" {
			return
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
