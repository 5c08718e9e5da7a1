// Package all registers every portal driver. Import for side effects
// from the binary entry point.
package all

import (
	_ "github.com/XOOPO/TrackingTurnover/internal/scraper/drivers/mega888"
	_ "github.com/XOOPO/TrackingTurnover/internal/scraper/drivers/pussy888"
)
