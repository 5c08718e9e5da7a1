package scraper

import "fmt"

// LoginError reports that the full navigate-fill-submit sequence failed
// after every retry. The last underlying error is kept for the logs; the
// message stays free of selector internals.
type LoginError struct {
	Provider string
	Attempts int
	Err      error
}

func (e *LoginError) Error() string {
	return fmt.Sprintf("login failed for %s after %d attempts: %v", e.Provider, e.Attempts, e.Err)
}

func (e *LoginError) Unwrap() error { return e.Err }

// SearchFlowError reports that an expected UI control (search trigger,
// OK button, results table) never appeared during the search sequence.
type SearchFlowError struct {
	Provider string
	Step     string
	Err      error
}

func (e *SearchFlowError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("player search failed for %s at %s: %v", e.Provider, e.Step, e.Err)
	}
	return fmt.Sprintf("player search failed for %s at %s", e.Provider, e.Step)
}

func (e *SearchFlowError) Unwrap() error { return e.Err }
