package scraper

import "testing"

func TestParseBetAmount(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"0.50", 0.50},
		{"MYR 1.25", 1.25},
		{"$2,000.10", 2000.10},
		{"free", 0},
		{"", 0},
	}
	for _, tt := range tests {
		got := ParseBetAmount(tt.in)
		if got != tt.want {
			t.Errorf("ParseBetAmount(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestForEachTableRow(t *testing.T) {
	html := `<table>
		<tr><th>GameName</th><th>TableID</th><th>Bet</th></tr>
		<tr><td> Iceland </td><td>T1</td><td>0.50</td></tr>
		<tr><td>short row</td></tr>
		<tr><td>Top Gun</td><td>T2</td><td>0.25</td></tr>
	</table>`

	var names []string
	err := ForEachTableRow(html, 3, func(cells []string) {
		names = append(names, cells[0])
	})
	if err != nil {
		t.Fatalf("ForEachTableRow: %v", err)
	}

	if len(names) != 2 || names[0] != "Iceland" || names[1] != "Top Gun" {
		t.Errorf("rows = %v, want [Iceland Top Gun]", names)
	}
}

func TestLooksLikeTimestamp(t *testing.T) {
	if !LooksLikeTimestamp("2026-02-17 00:53:10") {
		t.Error("valid timestamp rejected")
	}
	if LooksLikeTimestamp("0.50") || LooksLikeTimestamp("2026-02-17") {
		t.Error("non-timestamp accepted")
	}
}
