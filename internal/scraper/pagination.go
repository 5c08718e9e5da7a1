package scraper

import (
	"context"
	"log/slog"

	"github.com/XOOPO/TrackingTurnover/internal/pkg/models"
)

// Extraction occupies the 10..90% progress band. The true page count is
// unknown until pagination ends, so progress is computed against a fixed
// estimate.
const (
	progressExtractBase   = 10
	progressExtractSpan   = 80
	estimatedTotalPages   = 100
	// DefaultMaxPages bounds pagination: some portals' next-page controls
	// loop or never disappear, and an unbounded loop would hang the job.
	DefaultMaxPages = 150
)

// Paginator drives the per-page extraction loop of one search. The
// driver supplies the page-specific pieces; the loop, cap, and progress
// math are shared by every provider.
type Paginator struct {
	// Extract parses all wager rows visible on the current page.
	Extract func(ctx context.Context) ([]models.RawRow, error)
	// Next clicks the next-page control if one exists and reports
	// whether it did.
	Next func(ctx context.Context) (bool, error)
	// Settle waits for the table to reload after a page advance.
	Settle func(ctx context.Context)
	// MaxPages caps the loop; <=0 uses DefaultMaxPages.
	MaxPages int
	// OnProgress, if set, receives 0..100 progress values.
	OnProgress func(int)
	// KeepAlive, if set, is called each page to reset the session idle
	// timer during long extractions.
	KeepAlive func()
}

// Run extracts every page until no next-page control remains or the page
// cap is hit, returning all accumulated raw rows.
func (p Paginator) Run(ctx context.Context) ([]models.RawRow, error) {
	maxPages := p.MaxPages
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}

	var all []models.RawRow

	for page := 1; page <= maxPages; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		p.reportProgress(page)
		if p.KeepAlive != nil {
			p.KeepAlive()
		}

		rows, err := p.Extract(ctx)
		if err != nil {
			return nil, err
		}
		all = append(all, rows...)
		slog.Debug("pagination: extracted page", "page", page, "rows", len(rows), "total", len(all))

		hasNext, err := p.Next(ctx)
		if err != nil {
			return nil, err
		}
		if !hasNext {
			slog.Debug("pagination: no next page control, extraction complete", "pages", page)
			break
		}
		if page == maxPages {
			slog.Warn("pagination: page cap reached, stopping", "cap", maxPages, "rows", len(all))
			break
		}

		if p.Settle != nil {
			p.Settle(ctx)
		}
	}

	if p.OnProgress != nil {
		p.OnProgress(90)
	}
	return all, nil
}

func (p Paginator) reportProgress(page int) {
	if p.OnProgress == nil {
		return
	}
	// Round to the nearest percent; truncation would report page 1 as 10.
	pct := progressExtractBase + (progressExtractSpan*page+estimatedTotalPages/2)/estimatedTotalPages
	if pct > progressExtractBase+progressExtractSpan {
		pct = progressExtractBase + progressExtractSpan
	}
	p.OnProgress(pct)
}
