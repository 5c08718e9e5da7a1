// Package credentials retrieves portal logins from the operator's shared
// spreadsheet. The sheet is public, so the gviz JSON endpoint works
// without OAuth; the response is a JS call wrapper around plain JSON.
package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/XOOPO/TrackingTurnover/internal/pkg/config"
	"github.com/XOOPO/TrackingTurnover/internal/pkg/models"
)

// ErrNotFound is returned when no credential exists for a provider+brand.
var ErrNotFound = errors.New("credential not found")

// Provider hands out portal logins by (provider, brand) key.
type Provider interface {
	GetCredential(ctx context.Context, provider, brand string) (models.Credential, error)
}

// brandColumns is the fixed column layout of the credential sheet:
// column A is the provider, column B the login URL, then one
// (username, password) pair per brand.
var brandColumns = []struct {
	brand    string
	userCol  int
	passCol  int
}{
	{"ABSG", 2, 3},
	{"WBSG", 4, 5},
	{"OK188SG", 6, 7},
	{"OXSG", 8, 9},
	{"FWSG", 10, 11},
	{"M24SG", 12, 13},
}

// Brands lists the brand names the sheet layout carries, in column order.
func Brands() []string {
	out := make([]string, len(brandColumns))
	for i, bc := range brandColumns {
		out[i] = bc.brand
	}
	return out
}

var gvizWrapper = regexp.MustCompile(`google\.visualization\.Query\.setResponse\((.*)\);`)

// SheetsProvider fetches credentials from the Google Sheets gviz endpoint,
// caching the full sheet for a short TTL so repeated scrapes don't hammer
// the spreadsheet.
type SheetsProvider struct {
	spreadsheetID string
	sheet         string
	httpClient    *http.Client
	cacheTTL      time.Duration

	mu        sync.Mutex
	cached    []models.Credential
	fetchedAt time.Time
}

func NewSheetsProvider(cfg *config.CredentialsConfig) *SheetsProvider {
	return &SheetsProvider{
		spreadsheetID: cfg.SpreadsheetID,
		sheet:         cfg.Sheet,
		httpClient:    &http.Client{Timeout: cfg.FetchTimeout},
		cacheTTL:      cfg.CacheTTL,
	}
}

// GetCredential returns the login for a (provider, brand) pair, or
// ErrNotFound if the sheet has no such row.
func (p *SheetsProvider) GetCredential(ctx context.Context, provider, brand string) (models.Credential, error) {
	all, err := p.FetchAll(ctx)
	if err != nil {
		return models.Credential{}, err
	}
	for _, c := range all {
		if strings.EqualFold(c.Provider, provider) && strings.EqualFold(c.Brand, brand) {
			return c, nil
		}
	}
	return models.Credential{}, fmt.Errorf("%w for %s/%s", ErrNotFound, provider, brand)
}

// FetchAll returns every credential in the sheet, serving from cache
// within the TTL. Fetch failures are retried 3 times with exponential
// backoff before surfacing.
func (p *SheetsProvider) FetchAll(ctx context.Context) ([]models.Credential, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cached != nil && time.Since(p.fetchedAt) < p.cacheTTL {
		return p.cached, nil
	}

	const maxRetries = 3
	var lastErr error

	for attempt := 1; attempt <= maxRetries; attempt++ {
		slog.Debug("sheets: fetching credentials", "attempt", attempt, "max", maxRetries)

		creds, err := p.fetchOnce(ctx)
		if err == nil {
			slog.Info("sheets: fetched credentials", "count", len(creds))
			p.cached = creds
			p.fetchedAt = time.Now()
			return creds, nil
		}

		lastErr = err
		slog.Warn("sheets: fetch attempt failed", "attempt", attempt, "error", err)

		if attempt < maxRetries {
			delay := time.Duration(1<<(attempt-1)) * time.Second
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	return nil, fmt.Errorf("failed to fetch credentials after %d attempts: %w", maxRetries, lastErr)
}

func (p *SheetsProvider) fetchOnce(ctx context.Context) ([]models.Credential, error) {
	url := fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/gviz/tq?tqx=out:json&sheet=%s", p.spreadsheetID, p.sheet)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return ParseGvizCredentials(body)
}

type gvizResponse struct {
	Table struct {
		Rows []struct {
			C []*struct {
				V any `json:"v"`
			} `json:"c"`
		} `json:"rows"`
	} `json:"table"`
}

// ParseGvizCredentials unwraps a gviz response and expands each sheet row
// into one credential per brand column pair that has both a username and a
// password. The first row is the header and is skipped.
func ParseGvizCredentials(body []byte) ([]models.Credential, error) {
	m := gvizWrapper.FindSubmatch(body)
	if m == nil {
		return nil, fmt.Errorf("invalid gviz response format")
	}

	var resp gvizResponse
	if err := json.Unmarshal(m[1], &resp); err != nil {
		return nil, fmt.Errorf("unmarshal gviz payload: %w", err)
	}

	var creds []models.Credential
	for i, row := range resp.Table.Rows {
		if i == 0 {
			continue // header
		}

		cell := func(idx int) string {
			if idx >= len(row.C) || row.C[idx] == nil {
				return ""
			}
			s, _ := row.C[idx].V.(string)
			return strings.TrimSpace(s)
		}

		provider := cell(0)
		loginURL := cell(1)
		if provider == "" || loginURL == "" {
			continue
		}

		for _, bc := range brandColumns {
			username := cell(bc.userCol)
			password := cell(bc.passCol)
			if username == "" || password == "" {
				continue
			}
			creds = append(creds, models.Credential{
				Provider: provider,
				Brand:    bc.brand,
				Username: username,
				Password: password,
				LoginURL: loginURL,
			})
		}
	}

	return creds, nil
}
