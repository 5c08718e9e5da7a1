package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/XOOPO/TrackingTurnover/internal/jobs"
	"github.com/XOOPO/TrackingTurnover/internal/pkg/models"
)

type fakeCreds struct {
	creds []models.Credential
}

func (f *fakeCreds) FetchAll(_ context.Context) ([]models.Credential, error) {
	return f.creds, nil
}

type fakeAlerter struct {
	messages []string
	err      error
}

func (f *fakeAlerter) SendTestAlert(_ context.Context, message string) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, message)
	return nil
}

func newTestServer(scrape jobs.ScrapeFunc) *Server {
	return newTestServerWithAlerter(scrape, nil)
}

func newTestServerWithAlerter(scrape jobs.ScrapeFunc, alerter TestAlerter) *Server {
	o := jobs.NewOrchestrator(jobs.NewStore(), scrape, nil, nil)
	return NewServer(o,
		func() []string { return []string{"MEGA888", "PUSSY888"} },
		&fakeCreds{creds: []models.Credential{
			{Provider: "PUSSY888", Brand: "ABSG", Username: "agent1", Password: "secret", LoginURL: "https://example.test/login"},
		}},
		nil, alerter)
}

func okScrape(result *models.TurnoverResult) jobs.ScrapeFunc {
	return func(_ context.Context, _, _, _ string, _ models.SearchWindow, onProgress func(int)) (*models.TurnoverResult, error) {
		if onProgress != nil {
			onProgress(90)
		}
		return result, nil
	}
}

func doJSON(t *testing.T, handler http.Handler, method, path, userID, role, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	if role != "" {
		req.Header.Set("X-User-Role", role)
	}
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestStartSearchEndpoint(t *testing.T) {
	srv := newTestServer(okScrape(&models.TurnoverResult{PlayerID: "p1"}))
	router := srv.Router()

	rr := doJSON(t, router, http.MethodPost, "/api/turnover/search", "u1", "",
		`{"playerId":"p1","provider":"MEGA888","brand":"ABSG"}`)
	if rr.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202 (body: %s)", rr.Code, rr.Body)
	}

	var resp struct {
		JobID  string `json:"jobId"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.JobID == "" || resp.Status != "pending" {
		t.Errorf("response = %+v", resp)
	}

	// The job should become visible and eventually complete.
	deadline := time.Now().Add(2 * time.Second)
	for {
		rr = doJSON(t, router, http.MethodGet, "/api/turnover/jobs/"+resp.JobID, "u1", "", "")
		if rr.Code != http.StatusOK {
			t.Fatalf("poll status = %d (body: %s)", rr.Code, rr.Body)
		}
		var job models.SearchJob
		if err := json.Unmarshal(rr.Body.Bytes(), &job); err != nil {
			t.Fatalf("decode job: %v", err)
		}
		if job.Status.Terminal() {
			if job.Status != models.JobCompleted {
				t.Fatalf("job status = %s, error = %s", job.Status, job.Error)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("job never completed")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestStartSearchRejections(t *testing.T) {
	srv := newTestServer(okScrape(&models.TurnoverResult{}))
	router := srv.Router()

	tests := []struct {
		name   string
		userID string
		body   string
		want   int
	}{
		{"no identity", "", `{"playerId":"p1","provider":"MEGA888","brand":"ABSG"}`, http.StatusUnauthorized},
		{"bad json", "u1", `{`, http.StatusBadRequest},
		{"missing player", "u1", `{"provider":"MEGA888","brand":"ABSG"}`, http.StatusBadRequest},
		{"missing brand", "u1", `{"playerId":"p1","provider":"MEGA888"}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doJSON(t, router, http.MethodPost, "/api/turnover/search", tt.userID, "", tt.body)
			if rr.Code != tt.want {
				t.Errorf("status = %d, want %d (body: %s)", rr.Code, tt.want, rr.Body)
			}
		})
	}
}

func TestGetJobVisibility(t *testing.T) {
	srv := newTestServer(okScrape(&models.TurnoverResult{}))
	router := srv.Router()

	rr := doJSON(t, router, http.MethodPost, "/api/turnover/search", "owner", "",
		`{"playerId":"p1","provider":"MEGA888","brand":"ABSG"}`)
	var resp struct {
		JobID string `json:"jobId"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if rr := doJSON(t, router, http.MethodGet, "/api/turnover/jobs/"+resp.JobID, "intruder", "", ""); rr.Code != http.StatusForbidden {
		t.Errorf("foreign user status = %d, want 403", rr.Code)
	}
	if rr := doJSON(t, router, http.MethodGet, "/api/turnover/jobs/missing", "owner", "", ""); rr.Code != http.StatusNotFound {
		t.Errorf("unknown job status = %d, want 404", rr.Code)
	}
}

func TestSyncSearchEndpoint(t *testing.T) {
	want := &models.TurnoverResult{PlayerID: "p1", TotalTurnover: 12.5}
	srv := newTestServer(okScrape(want))
	router := srv.Router()

	rr := doJSON(t, router, http.MethodPost, "/api/turnover/search/sync", "u1", "",
		`{"playerId":"p1","provider":"PUSSY888","brand":"ABSG"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d (body: %s)", rr.Code, rr.Body)
	}

	var got models.TurnoverResult
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.TotalTurnover != want.TotalTurnover {
		t.Errorf("totalTurnover = %v, want %v", got.TotalTurnover, want.TotalTurnover)
	}
}

func TestReferenceEndpoints(t *testing.T) {
	srv := newTestServer(okScrape(&models.TurnoverResult{}))
	router := srv.Router()

	rr := doJSON(t, router, http.MethodGet, "/api/turnover/providers", "", "", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("providers status = %d", rr.Code)
	}
	var providers []string
	if err := json.Unmarshal(rr.Body.Bytes(), &providers); err != nil {
		t.Fatalf("decode providers: %v", err)
	}
	if len(providers) != 2 {
		t.Errorf("providers = %v", providers)
	}

	rr = doJSON(t, router, http.MethodGet, "/api/turnover/brands", "", "", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("brands status = %d", rr.Code)
	}
	var brands []string
	if err := json.Unmarshal(rr.Body.Bytes(), &brands); err != nil {
		t.Fatalf("decode brands: %v", err)
	}
	if len(brands) != 6 || brands[0] != "ABSG" {
		t.Errorf("brands = %v", brands)
	}
}

func TestCredentialsEndpointHidesPasswords(t *testing.T) {
	srv := newTestServer(okScrape(&models.TurnoverResult{}))
	router := srv.Router()

	if rr := doJSON(t, router, http.MethodGet, "/api/turnover/credentials", "", "", ""); rr.Code != http.StatusUnauthorized {
		t.Errorf("anonymous status = %d, want 401", rr.Code)
	}

	rr := doJSON(t, router, http.MethodGet, "/api/turnover/credentials", "u1", "", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if strings.Contains(rr.Body.String(), "secret") {
		t.Error("password leaked in credentials response")
	}
	if !strings.Contains(rr.Body.String(), "agent1") {
		t.Error("username missing from credentials response")
	}
}

func TestActivityLogEndpoints(t *testing.T) {
	srv := newTestServer(okScrape(&models.TurnoverResult{}))
	router := srv.Router()

	if rr := doJSON(t, router, http.MethodGet, "/api/activity-logs/", "", "", ""); rr.Code != http.StatusUnauthorized {
		t.Errorf("anonymous status = %d, want 401", rr.Code)
	}
	if rr := doJSON(t, router, http.MethodGet, "/api/activity-logs/", "u1", "", ""); rr.Code != http.StatusOK {
		t.Errorf("user status = %d, want 200", rr.Code)
	}
	if rr := doJSON(t, router, http.MethodGet, "/api/activity-logs/all", "u1", "", ""); rr.Code != http.StatusForbidden {
		t.Errorf("non-admin status = %d, want 403", rr.Code)
	}
	if rr := doJSON(t, router, http.MethodGet, "/api/activity-logs/all", "u1", "admin", ""); rr.Code != http.StatusOK {
		t.Errorf("admin status = %d, want 200", rr.Code)
	}
}

func TestTestAlertEndpoint(t *testing.T) {
	alerter := &fakeAlerter{}
	srv := newTestServerWithAlerter(okScrape(&models.TurnoverResult{}), alerter)
	router := srv.Router()

	if rr := doJSON(t, router, http.MethodPost, "/api/admin/test-alert", "", "", ""); rr.Code != http.StatusUnauthorized {
		t.Errorf("anonymous status = %d, want 401", rr.Code)
	}
	if rr := doJSON(t, router, http.MethodPost, "/api/admin/test-alert", "u1", "", ""); rr.Code != http.StatusForbidden {
		t.Errorf("non-admin status = %d, want 403", rr.Code)
	}

	rr := doJSON(t, router, http.MethodPost, "/api/admin/test-alert", "u1", "admin", `{"message":"channel check"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("admin status = %d, body %s", rr.Code, rr.Body.String())
	}
	if len(alerter.messages) != 1 || alerter.messages[0] != "channel check" {
		t.Errorf("alerter received %v, want [channel check]", alerter.messages)
	}

	// Empty body gets a default message instead of a 400.
	rr = doJSON(t, router, http.MethodPost, "/api/admin/test-alert", "u1", "admin", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("empty-body status = %d", rr.Code)
	}
	if len(alerter.messages) != 2 || alerter.messages[1] == "" {
		t.Errorf("default message not applied: %v", alerter.messages)
	}
}

func TestTestAlertEndpointWithoutNotifier(t *testing.T) {
	srv := newTestServer(okScrape(&models.TurnoverResult{}))
	router := srv.Router()

	rr := doJSON(t, router, http.MethodPost, "/api/admin/test-alert", "u1", "admin", "")
	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503 when no notifier is configured", rr.Code)
	}
}
