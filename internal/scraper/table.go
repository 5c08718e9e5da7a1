package scraper

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var nonNumeric = regexp.MustCompile(`[^0-9.]`)

// ParseBetAmount extracts a numeric bet from a displayed cell value,
// dropping currency symbols and thousand separators. Returns 0 when
// nothing numeric remains; callers drop non-positive bets.
func ParseBetAmount(betText string) float64 {
	cleaned := nonNumeric.ReplaceAllString(betText, "")
	if cleaned == "" {
		return 0
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return v
}

// ForEachTableRow parses table markup and invokes fn once per data row
// with the trimmed cell texts. Rows with fewer than minCells cells and
// header rows (no <td>) are skipped.
func ForEachTableRow(html string, minCells int, fn func(cells []string)) error {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return err
	}

	doc.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		tds := row.Find("td")
		if tds.Length() < minCells {
			return
		}
		cells := make([]string, 0, tds.Length())
		tds.Each(func(_ int, td *goquery.Selection) {
			cells = append(cells, strings.TrimSpace(td.Text()))
		})
		fn(cells)
	})

	return nil
}

// LooksLikeTimestamp reports whether a cell holds a
// "YYYY-MM-DD HH:MM:SS" style value.
var timestampPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}$`)

func LooksLikeTimestamp(s string) bool {
	return timestampPattern.MatchString(s)
}
