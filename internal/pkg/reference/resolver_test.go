package reference

import "testing"

func TestResolve_ExactMatch(t *testing.T) {
	g, ok := Resolve("Iceland")
	if !ok {
		t.Fatal("Iceland should resolve")
	}
	if g.Name != "Iceland" || g.Lines != "50 lines" {
		t.Errorf("Resolve(Iceland) = %+v", g)
	}
}

func TestResolve_AliasAndCaseInsensitive(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"iceland", "Iceland"},
		{"ICELAND", "Iceland"},
		{"boyking", "Boy Kings Treasure"},
		{"  Boy King  ", "Boy Kings Treasure"},
		{"girls", "Striper Night"},
		{"luckypanda", "Lucky Panda"},
		{"great china", "Great China"},
	}
	for _, tt := range tests {
		g, ok := Resolve(tt.in)
		if !ok {
			t.Errorf("Resolve(%q) did not resolve", tt.in)
			continue
		}
		if g.Name != tt.want {
			t.Errorf("Resolve(%q) = %q, want %q", tt.in, g.Name, tt.want)
		}
	}
}

func TestResolve_CollidingNamesAreStable(t *testing.T) {
	// The table carries pairs that differ only in letter case. A label
	// matching both must resolve to the same entry on every call.
	tests := []struct {
		in        string
		wantName  string
		wantLines string
	}{
		{"NIAN NIAN YOU YU", "Nian Nian You Yu", "9 lines"},
		{"FAIRY GARDEN", "Fairy Garden", "20 lines"},
	}
	for _, tt := range tests {
		for i := 0; i < 100; i++ {
			g, ok := Resolve(tt.in)
			if !ok {
				t.Fatalf("Resolve(%q) did not resolve", tt.in)
			}
			if g.Name != tt.wantName || g.Lines != tt.wantLines {
				t.Fatalf("Resolve(%q) = %q/%q on call %d, want %q/%q",
					tt.in, g.Name, g.Lines, i, tt.wantName, tt.wantLines)
			}
		}
	}
}

func TestResolve_Unknown(t *testing.T) {
	if _, ok := Resolve("Unknown Slot X"); ok {
		t.Error("unknown game should not resolve")
	}
	if _, ok := Resolve(""); ok {
		t.Error("empty name should not resolve")
	}
}

func TestLineCount(t *testing.T) {
	tests := []struct {
		lines string
		want  int
	}{
		{"9 lines", 9},
		{"50 lines", 50},
		{"72 lines", 72},
		{"lines", 0},
		{"", 0},
	}
	for _, tt := range tests {
		got := Game{Lines: tt.lines}.LineCount()
		if got != tt.want {
			t.Errorf("LineCount(%q) = %d, want %d", tt.lines, got, tt.want)
		}
	}
}

func TestDetectLinesFromBet(t *testing.T) {
	tests := []struct {
		bet  float64
		want int
	}{
		{0.05, 5},
		{0.09, 9},
		{0.15, 15},
		{0.20, 20},
		{0.25, 25},
		{0.30, 30},
		{0.40, 40},
		{0.50, 50},
		{0.75, 72},
		{1.00, 72},
	}
	for _, tt := range tests {
		got := DetectLinesFromBet(tt.bet)
		if got != tt.want {
			t.Errorf("DetectLinesFromBet(%v) = %d, want %d", tt.bet, got, tt.want)
		}
	}
}

func TestIsNineLineGame(t *testing.T) {
	if !IsNineLineGame("Si Xiang", 0.50) {
		t.Error("Si Xiang is a nine-line game")
	}
	if IsNineLineGame("Iceland", 0.50) {
		t.Error("Iceland is not a nine-line game")
	}
	// Unknown name falls back to the bet heuristic.
	if !IsNineLineGame("No Such Game", 0.09) {
		t.Error("bet 0.09 should infer nine lines for unknown game")
	}
}
