package models

import "time"

// RawRow is one scraped wager-log record as displayed by the portal.
// Rows live only in memory for the duration of one scrape.
type RawRow struct {
	GameName  string  // as displayed, not canonicalized
	BetText   string  // as displayed, may carry currency symbols or "free" markers
	Bet       float64 // parsed bet amount
	Timestamp string  // "YYYY-MM-DD HH:MM:SS"
}

// GameTotal is the aggregated turnover for one (canonical game, bet, lines)
// combination. Spin is the number of raw rows sharing the game name and bet
// amount; portals report one row per spin with no explicit spin column.
type GameTotal struct {
	GameName     string  `json:"gameName"`
	Lines        string  `json:"lines"`
	Betting      float64 `json:"betting"`
	Spin         int     `json:"spin"`
	TotalBetting float64 `json:"totalBetting"`
}

// TurnoverResult is the final outcome of one scrape. Immutable once produced.
type TurnoverResult struct {
	PlayerID      string      `json:"playerId"`
	Provider      string      `json:"provider"`
	Brand         string      `json:"brand"`
	Games         []GameTotal `json:"games"`
	TotalTurnover float64     `json:"totalTurnover"`
	HasNineLines  bool        `json:"hasNineLines"`
	ScrapedAt     time.Time   `json:"scrapedAt"`
}

// SearchWindow is an optional date/time filter for a scrape.
// Date is "YYYY-MM-DD"; times are "HH:MM:SS". Empty fields mean no bound.
type SearchWindow struct {
	FromDate string `json:"fromDate,omitempty"`
	ToDate   string `json:"toDate,omitempty"`
	FromTime string `json:"fromTime,omitempty"`
	ToTime   string `json:"toTime,omitempty"`
}

// JobStatus is the lifecycle state of a search job.
type JobStatus string

const (
	JobPending   JobStatus = "pending"
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
)

// Terminal reports whether the status can no longer change.
func (s JobStatus) Terminal() bool {
	return s == JobCompleted || s == JobFailed
}

// SearchJob tracks one asynchronous scrape. Mutated only by the
// orchestrator that created it; callers get copies.
type SearchJob struct {
	ID        string          `json:"id"`
	UserID    string          `json:"userId"`
	PlayerID  string          `json:"playerId"`
	Provider  string          `json:"provider"`
	Brand     string          `json:"brand"`
	Status    JobStatus       `json:"status"`
	Progress  int             `json:"progress"` // 0..100
	Result    *TurnoverResult `json:"result,omitempty"`
	Error     string          `json:"error,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Credential is one portal login issued for a (provider, brand) pair.
type Credential struct {
	Provider string `json:"provider"`
	Brand    string `json:"brand"`
	Username string `json:"username"`
	Password string `json:"-"`
	LoginURL string `json:"loginUrl"`
}

// ActivityStatus is the state recorded in the durable activity log.
type ActivityStatus string

const (
	ActivityPending ActivityStatus = "pending"
	ActivitySuccess ActivityStatus = "success"
	ActivityFailed  ActivityStatus = "failed"
)

// ActivityEntry is one row of the durable activity log.
type ActivityEntry struct {
	ID           int64          `json:"id"`
	JobID        string         `json:"jobId"`
	UserID       string         `json:"userId"`
	PlayerID     string         `json:"playerId"`
	Provider     string         `json:"provider"`
	Brand        string         `json:"brand"`
	Status       ActivityStatus `json:"status"`
	ErrorMessage string         `json:"errorMessage,omitempty"`
	ResultData   string         `json:"resultData,omitempty"` // JSON summary, not the full result
	CreatedAt    time.Time      `json:"createdAt"`
}
