package scraper

import (
	"context"
	"testing"

	"github.com/XOOPO/TrackingTurnover/internal/pkg/models"
)

func TestPaginator_StopsWhenNoNextPage(t *testing.T) {
	pages := [][]models.RawRow{
		{row("Iceland", 0.50, "2026-02-17 10:00:00")},
		{row("Iceland", 0.50, "2026-02-17 10:00:01"), row("Top Gun", 0.25, "2026-02-17 10:00:02")},
	}
	current := 0

	p := Paginator{
		Extract: func(ctx context.Context) ([]models.RawRow, error) {
			return pages[current], nil
		},
		Next: func(ctx context.Context) (bool, error) {
			if current < len(pages)-1 {
				current++
				return true, nil
			}
			return false, nil
		},
		MaxPages: 150,
	}

	rows, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(rows) != 3 {
		t.Errorf("got %d rows, want 3", len(rows))
	}
}

func TestPaginator_HardCapOnEndlessPagination(t *testing.T) {
	extracted := 0

	p := Paginator{
		Extract: func(ctx context.Context) ([]models.RawRow, error) {
			extracted++
			return []models.RawRow{row("Iceland", 0.50, "2026-02-17 10:00:00")}, nil
		},
		// Portal whose next-page control never disappears.
		Next: func(ctx context.Context) (bool, error) {
			return true, nil
		},
		MaxPages: 10,
	}

	rows, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if extracted != 10 {
		t.Errorf("extracted %d pages, want exactly the cap of 10", extracted)
	}
	if len(rows) != 10 {
		t.Errorf("got %d rows, want the 10 collected before the cap", len(rows))
	}
}

func TestPaginator_ProgressStaysInExtractionBand(t *testing.T) {
	var reports []int
	pagesLeft := 200

	p := Paginator{
		Extract: func(ctx context.Context) ([]models.RawRow, error) { return nil, nil },
		Next: func(ctx context.Context) (bool, error) {
			pagesLeft--
			return pagesLeft > 0, nil
		},
		MaxPages:   150,
		OnProgress: func(pct int) { reports = append(reports, pct) },
	}

	if _, err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(reports) == 0 {
		t.Fatal("no progress reported")
	}
	for _, pct := range reports {
		if pct < 10 || pct > 90 {
			t.Errorf("progress %d outside the 10..90 extraction band", pct)
		}
	}
	if last := reports[len(reports)-1]; last != 90 {
		t.Errorf("final extraction progress = %d, want 90", last)
	}
}

func TestPaginator_ProgressRoundsPerPage(t *testing.T) {
	var reports []int
	pagesLeft := 3

	p := Paginator{
		Extract: func(ctx context.Context) ([]models.RawRow, error) { return nil, nil },
		Next: func(ctx context.Context) (bool, error) {
			pagesLeft--
			return pagesLeft > 0, nil
		},
		OnProgress: func(pct int) { reports = append(reports, pct) },
	}

	if _, err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	// Pages 1..3 are 10.8, 11.6, 12.4 percent, rounded to nearest,
	// then the terminal 90.
	want := []int{11, 12, 12, 90}
	if len(reports) != len(want) {
		t.Fatalf("got %d progress reports %v, want %v", len(reports), reports, want)
	}
	for i := range want {
		if reports[i] != want[i] {
			t.Errorf("report[%d] = %d, want %d (all: %v)", i, reports[i], want[i], reports)
		}
	}
}

func TestPaginator_KeepAliveCalledPerPage(t *testing.T) {
	touches := 0
	pagesLeft := 3

	p := Paginator{
		Extract: func(ctx context.Context) ([]models.RawRow, error) { return nil, nil },
		Next: func(ctx context.Context) (bool, error) {
			pagesLeft--
			return pagesLeft > 0, nil
		},
		KeepAlive: func() { touches++ },
	}

	if _, err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if touches != 3 {
		t.Errorf("keep-alive called %d times, want once per page (3)", touches)
	}
}
