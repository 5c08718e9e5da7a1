// Package reference resolves raw game labels scraped from portal wager
// logs into canonical game identities and payline counts.
package reference

import (
	"sort"
	"strconv"
	"strings"
)

// Resolve maps a raw portal game label to its canonical reference entry.
// Lookup order: exact match, alias match, case-insensitive match.
// Returns false when the label is unknown; callers treat that as a
// data-quality signal, not an error.
func Resolve(gameName string) (Game, bool) {
	if gameName == "" {
		return Game{}, false
	}

	if g, ok := games[gameName]; ok {
		return g, true
	}

	normalized := normalizeName(gameName)

	if canonical, ok := aliases[normalized]; ok {
		if g, ok := games[canonical]; ok {
			return g, true
		}
	}

	if canonical, ok := normalizedIndex[normalized]; ok {
		return games[canonical], true
	}

	return Game{}, false
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// normalizedIndex maps normalized names to canonical table keys. A few
// table entries collide after normalization ("Fairy Garden" vs "Fairy
// garden"); the index is built over sorted keys with first-wins so the
// same label always resolves to the same entry.
var normalizedIndex = buildNormalizedIndex()

func buildNormalizedIndex() map[string]string {
	keys := make([]string, 0, len(games))
	for key := range games {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	index := make(map[string]string, len(keys))
	for _, key := range keys {
		norm := normalizeName(key)
		if _, ok := index[norm]; !ok {
			index[norm] = key
		}
	}
	return index
}

// LineCount parses the numeric payline count out of a lines label such as
// "50 lines". Returns 0 if the label has no leading number.
func (g Game) LineCount() int {
	label := strings.TrimSpace(g.Lines)
	i := 0
	for i < len(label) && label[i] >= '0' && label[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0
	}
	n, err := strconv.Atoi(label[:i])
	if err != nil {
		return 0
	}
	return n
}

// DetectLinesFromBet infers a payline count from the per-spin bet amount.
// Line counts track minimum bets in 0.01 steps per line, so the bet
// denomination bounds the configuration. Used only when the game name is
// absent from the reference table.
func DetectLinesFromBet(bet float64) int {
	switch {
	case bet < 0.06:
		return 5
	case bet < 0.12:
		return 9
	case bet < 0.18:
		return 15
	case bet < 0.22:
		return 20
	case bet < 0.27:
		return 25
	case bet < 0.35:
		return 30
	case bet < 0.45:
		return 40
	case bet < 0.75:
		return 50
	default:
		return 72
	}
}

// GameLines returns the payline count for a game, falling back to the
// bet-amount heuristic when the name is not in the reference table.
func GameLines(gameName string, bet float64) int {
	if g, ok := Resolve(gameName); ok {
		if n := g.LineCount(); n > 0 {
			return n
		}
	}
	return DetectLinesFromBet(bet)
}

// IsNineLineGame reports whether a game runs on nine paylines, the
// configuration flagged for compliance review.
func IsNineLineGame(gameName string, bet float64) bool {
	return GameLines(gameName, bet) == 9
}
