package scraper

import (
	"math"
	"sort"
	"testing"

	"github.com/XOOPO/TrackingTurnover/internal/pkg/models"
)

func row(name string, bet float64, ts string) models.RawRow {
	return models.RawRow{GameName: name, BetText: "", Bet: bet, Timestamp: ts}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestAggregate_SpinCountFromRowRepetition(t *testing.T) {
	rows := []models.RawRow{
		row("Iceland", 0.50, "2026-02-17 10:00:01"),
		row("Iceland", 0.50, "2026-02-17 10:00:05"),
		row("Iceland", 0.60, "2026-02-17 10:00:09"),
	}

	agg := Aggregate(rows)

	if len(agg.Games) != 2 {
		t.Fatalf("got %d game totals, want 2", len(agg.Games))
	}

	byBet := map[float64]models.GameTotal{}
	for _, g := range agg.Games {
		if g.GameName != "Iceland" || g.Lines != "50 lines" {
			t.Errorf("unexpected game total: %+v", g)
		}
		byBet[g.Betting] = g
	}

	if g := byBet[0.50]; g.Spin != 2 || !almostEqual(g.TotalBetting, 1.00) {
		t.Errorf("0.50 group: spin=%d total=%v, want spin=2 total=1.00", g.Spin, g.TotalBetting)
	}
	if g := byBet[0.60]; g.Spin != 1 || !almostEqual(g.TotalBetting, 0.60) {
		t.Errorf("0.60 group: spin=%d total=%v, want spin=1 total=0.60", g.Spin, g.TotalBetting)
	}
	if !almostEqual(agg.TotalTurnover, 1.60) {
		t.Errorf("totalTurnover = %v, want 1.60", agg.TotalTurnover)
	}
	if agg.HasNineLines {
		t.Error("hasNineLines should be false for Iceland only")
	}
}

func TestAggregate_UnresolvedGameSkipped(t *testing.T) {
	rows := []models.RawRow{
		row("Unknown Slot X", 1.00, "2026-02-17 10:00:00"),
		row("Unknown Slot X", 1.00, "2026-02-17 10:00:03"),
		row("Iceland", 0.50, "2026-02-17 10:00:06"),
	}

	agg := Aggregate(rows)

	if len(agg.Games) != 1 || agg.Games[0].GameName != "Iceland" {
		t.Fatalf("unresolved game must be excluded, got %+v", agg.Games)
	}
	if !almostEqual(agg.TotalTurnover, 0.50) {
		t.Errorf("totalTurnover = %v, want 0.50 (unresolved excluded)", agg.TotalTurnover)
	}
	if len(agg.Unresolved) != 1 || agg.Unresolved[0] != "Unknown Slot X" {
		t.Errorf("unresolved diagnostics = %v", agg.Unresolved)
	}
}

func TestAggregate_NineLinesFlag(t *testing.T) {
	agg := Aggregate([]models.RawRow{row("Si Xiang", 0.09, "2026-02-17 10:00:00")})
	if !agg.HasNineLines {
		t.Error("Si Xiang (9 lines) should set hasNineLines")
	}
}

func TestAggregate_AliasesMergeIntoOneTotal(t *testing.T) {
	// "Dragons" and "dragon" both resolve to canonical "Dragons".
	rows := []models.RawRow{
		row("Dragons", 0.25, "2026-02-17 10:00:00"),
		row("dragon", 0.25, "2026-02-17 10:00:02"),
	}

	agg := Aggregate(rows)

	if len(agg.Games) != 1 {
		t.Fatalf("aliased names should merge, got %d totals", len(agg.Games))
	}
	if g := agg.Games[0]; g.Spin != 2 || !almostEqual(g.TotalBetting, 0.50) {
		t.Errorf("merged total: %+v", g)
	}
}

func TestAggregate_Idempotent(t *testing.T) {
	rows := []models.RawRow{
		row("Iceland", 0.50, "2026-02-17 10:00:00"),
		row("Top Gun", 0.25, "2026-02-17 10:00:01"),
		row("Iceland", 0.50, "2026-02-17 10:00:02"),
	}

	a := Aggregate(rows)
	b := Aggregate(rows)

	key := func(g models.GameTotal) string {
		return g.GameName + g.Lines
	}
	sort.Slice(a.Games, func(i, j int) bool { return key(a.Games[i]) < key(a.Games[j]) })
	sort.Slice(b.Games, func(i, j int) bool { return key(b.Games[i]) < key(b.Games[j]) })

	if len(a.Games) != len(b.Games) {
		t.Fatal("aggregation is not deterministic")
	}
	for i := range a.Games {
		if a.Games[i] != b.Games[i] {
			t.Errorf("run mismatch at %d: %+v vs %+v", i, a.Games[i], b.Games[i])
		}
	}
	if !almostEqual(a.TotalTurnover, b.TotalTurnover) {
		t.Error("totalTurnover differs between runs")
	}
}

func TestFilterRows_InclusiveTimeBounds(t *testing.T) {
	w := models.SearchWindow{FromDate: "2026-02-17", FromTime: "10:00:00", ToTime: "11:00:00"}
	rows := []models.RawRow{
		row("Iceland", 0.50, "2026-02-17 09:59:59"), // one second early
		row("Iceland", 0.50, "2026-02-17 10:00:00"), // exactly fromTime
		row("Iceland", 0.50, "2026-02-17 10:30:00"),
		row("Iceland", 0.50, "2026-02-17 11:00:00"), // exactly toTime
		row("Iceland", 0.50, "2026-02-17 11:00:01"), // one second late
		row("Iceland", 0.50, "2026-02-18 10:30:00"), // wrong date
	}

	got := FilterRows(rows, w)
	if len(got) != 3 {
		t.Fatalf("got %d rows, want 3 (inclusive bounds)", len(got))
	}
	for _, r := range got {
		if r.Timestamp < "2026-02-17 10:00:00" || r.Timestamp > "2026-02-17 11:00:00" {
			t.Errorf("row outside window survived: %s", r.Timestamp)
		}
	}
}

func TestFilterRows_DropsFreeSpinsAndBadBets(t *testing.T) {
	rows := []models.RawRow{
		{GameName: "Iceland", BetText: "0.50", Bet: 0.50, Timestamp: "2026-02-17 10:00:00"},
		{GameName: "Iceland", BetText: "FREE SPIN", Bet: 0.50, Timestamp: "2026-02-17 10:00:01"},
		{GameName: "Iceland", BetText: "0.00", Bet: 0, Timestamp: "2026-02-17 10:00:02"},
		{GameName: "Iceland", BetText: "-1", Bet: -1, Timestamp: "2026-02-17 10:00:03"},
	}

	got := FilterRows(rows, models.SearchWindow{})
	if len(got) != 1 {
		t.Fatalf("got %d rows, want 1", len(got))
	}
}

func TestFilterRows_MalformedTimestampDroppedOnlyWhenWindowed(t *testing.T) {
	rows := []models.RawRow{
		{GameName: "Iceland", Bet: 0.50, Timestamp: "not a timestamp"},
	}

	if got := FilterRows(rows, models.SearchWindow{}); len(got) != 1 {
		t.Error("without a window, rows pass regardless of timestamp")
	}
	if got := FilterRows(rows, models.SearchWindow{FromDate: "2026-02-17"}); len(got) != 0 {
		t.Error("with a window, malformed timestamps are dropped")
	}
}

func TestFilterRows_TurnoverMatchesFilteredCounts(t *testing.T) {
	// Filtering narrows the row set the spin counts are drawn from: one
	// of the two 0.50 spins is outside the window, so the total halves.
	w := models.SearchWindow{FromDate: "2026-02-17", FromTime: "10:00:00", ToTime: "10:00:30"}
	rows := []models.RawRow{
		row("Iceland", 0.50, "2026-02-17 10:00:10"),
		row("Iceland", 0.50, "2026-02-17 12:00:00"),
	}

	agg := Aggregate(FilterRows(rows, w))
	if len(agg.Games) != 1 || agg.Games[0].Spin != 1 {
		t.Fatalf("expected single spin after filtering, got %+v", agg.Games)
	}
	if !almostEqual(agg.TotalTurnover, 0.50) {
		t.Errorf("totalTurnover = %v, want 0.50", agg.TotalTurnover)
	}
}
