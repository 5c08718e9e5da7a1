package scraper

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/XOOPO/TrackingTurnover/internal/pkg/models"
	"github.com/XOOPO/TrackingTurnover/internal/pkg/reference"
)

// FilterRows drops rows outside the requested date/time window, rows for
// free/bonus spins, and rows with non-positive bets. Time bounds are
// inclusive and compared lexicographically on "HH:MM:SS".
//
// Filtering must run before spin counting: spin counts are inferred from
// row repetition, so narrowing the row set changes the inferred totals.
func FilterRows(rows []models.RawRow, w models.SearchWindow) []models.RawRow {
	fromTime := w.FromTime
	if fromTime == "" {
		fromTime = "00:00:00"
	}
	toTime := w.ToTime
	if toTime == "" {
		toTime = "23:59:59"
	}
	windowed := w.FromDate != "" || w.FromTime != "" || w.ToTime != ""

	out := make([]models.RawRow, 0, len(rows))
	for _, row := range rows {
		if row.Bet <= 0 {
			continue
		}
		if strings.Contains(strings.ToLower(row.BetText), "free") {
			continue
		}
		if windowed {
			datePart, timePart, ok := splitTimestamp(row.Timestamp)
			if !ok {
				continue
			}
			if w.FromDate != "" && datePart != w.FromDate {
				continue
			}
			if timePart < fromTime || timePart > toTime {
				continue
			}
		}
		out = append(out, row)
	}
	return out
}

func splitTimestamp(ts string) (datePart, timePart string, ok bool) {
	parts := strings.SplitN(ts, " ", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// Aggregation is the reduction of a filtered row set into per-game totals.
type Aggregation struct {
	Games         []models.GameTotal
	TotalTurnover float64
	HasNineLines  bool
	// Unresolved lists raw game names absent from the reference table.
	// They are excluded from the totals but reported for data-quality
	// follow-up; an unknown label never fails a scrape.
	Unresolved []string
}

// Aggregate reduces filtered raw rows into canonical per-game totals.
//
// Portals report one row per spin with no spin-count column, so the spin
// count for a (game, bet) pair is the number of identical rows. This
// assumes no two distinct spins share (name, bet, timestamp) exactly —
// a heuristic carried from the source data, not a verified invariant.
func Aggregate(rows []models.RawRow) Aggregation {
	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[pairKey(row.GameName, row.Bet)]++
	}

	var agg Aggregation
	totals := make(map[string]int) // aggregate key -> index into agg.Games
	processed := make(map[string]bool, len(counts))
	unresolvedSeen := make(map[string]bool)

	for _, row := range rows {
		key := pairKey(row.GameName, row.Bet)
		if processed[key] {
			continue
		}
		processed[key] = true

		game, ok := reference.Resolve(row.GameName)
		if !ok {
			if !unresolvedSeen[row.GameName] {
				unresolvedSeen[row.GameName] = true
				agg.Unresolved = append(agg.Unresolved, row.GameName)
				slog.Warn("aggregate: game not found in reference, skipping", "game", row.GameName, "bet", row.Bet)
			}
			continue
		}

		spin := counts[key]
		total := models.GameTotal{
			GameName:     game.Name,
			Lines:        game.Lines,
			Betting:      row.Bet,
			Spin:         spin,
			TotalBetting: row.Bet * float64(spin),
		}

		// Aliases can map distinct raw labels onto the same canonical
		// game; their spins merge under one entry.
		aggKey := fmt.Sprintf("%s|%v|%s", game.Name, row.Bet, game.Lines)
		if idx, exists := totals[aggKey]; exists {
			agg.Games[idx].Spin += spin
			agg.Games[idx].TotalBetting += total.TotalBetting
		} else {
			totals[aggKey] = len(agg.Games)
			agg.Games = append(agg.Games, total)
		}

		if game.LineCount() == 9 {
			agg.HasNineLines = true
		}
	}

	for _, g := range agg.Games {
		agg.TotalTurnover += g.TotalBetting
	}
	return agg
}

func pairKey(name string, bet float64) string {
	return fmt.Sprintf("%s|%v", name, bet)
}
