package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hamed0406/urlreporter/internal/domain"
	apimw "github.com/hamed0406/urlreporter/internal/httpapi/middleware"
	"github.com/hamed0406/urlreporter/internal/scheduler"
)

// ---- test helpers ----

type fakeChecker struct {
	status map[string]bool
}

func (f *fakeChecker) CheckAll(_ context.Context, urls []string) *domain.StatusReport {
	r := domain.NewStatusReport(len(urls))
	for _, u := range urls {
		r.Set(u, f.status[u])
	}
	return r
}

type fakeRunner struct {
	mu    sync.Mutex
	calls []scheduler.Cycle
	err   error
}

func (f *fakeRunner) RunCycle(_ context.Context, c scheduler.Cycle) (scheduler.CycleResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
	return scheduler.CycleResult{Cycle: c, Checked: 2, Down: 1, Delivered: f.err == nil}, f.err
}

var testURLs = []string{"https://a.example", "https://b.example"}

func setupServer(t *testing.T, runner *fakeRunner) *httptest.Server {
	t.Helper()
	chk := &fakeChecker{status: map[string]bool{"https://a.example": true}}
	srv := NewServer(zap.NewNop(), chk, runner, testURLs)

	// very high rate limits to avoid flakiness in tests
	h := srv.Router(RouterConfig{
		Keys: apimw.Keys{
			Public: []string{"pub_test"},
			Admin:  []string{"adm_test"},
		},
		PublicRPM: 10_000, PublicBurst: 10_000,
		AdminRPM: 10_000, AdminBurst: 10_000,
	})
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, method, url, key string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, nil)
	require.NoError(t, err)
	if key != "" {
		req.Header.Set("X-API-Key", key)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

// ---- tests ----

func TestListURLs(t *testing.T) {
	ts := setupServer(t, &fakeRunner{})

	resp := do(t, http.MethodGet, ts.URL+"/api/urls", "pub_test")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var urls []string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&urls))
	assert.Equal(t, testURLs, urls)

	assert.Equal(t, http.StatusUnauthorized, do(t, http.MethodGet, ts.URL+"/api/urls", "").StatusCode)
}

func TestStatus_OrderedWithSummary(t *testing.T) {
	ts := setupServer(t, &fakeRunner{})

	resp := do(t, http.MethodGet, ts.URL+"/api/status", "pub_test")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Summary  string             `json:"summary"`
		Up       int                `json:"up"`
		Down     int                `json:"down"`
		Statuses []domain.URLStatus `json:"statuses"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "1/2 up", body.Summary)
	assert.Equal(t, 1, body.Up)
	assert.Equal(t, 1, body.Down)
	assert.Equal(t, []domain.URLStatus{
		{URL: "https://a.example", Up: true},
		{URL: "https://b.example", Up: false},
	}, body.Statuses)
}

func TestReport_PlainText(t *testing.T) {
	ts := setupServer(t, &fakeRunner{})

	resp := do(t, http.MethodGet, ts.URL+"/api/report", "pub_test")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/plain")
	b, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "🟢 https://a.example is up\n🔴 https://b.example is down", string(b))

	resp = do(t, http.MethodGet, ts.URL+"/api/report?only_failures=true", "pub_test")
	b, _ = io.ReadAll(resp.Body)
	assert.Equal(t, "🔴 https://b.example is down", string(b))

	resp = do(t, http.MethodGet, ts.URL+"/api/report?only_failures=maybe", "pub_test")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRunCycle(t *testing.T) {
	runner := &fakeRunner{}
	ts := setupServer(t, runner)

	resp := do(t, http.MethodPost, ts.URL+"/api/cycles/digest", "adm_test")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var res scheduler.CycleResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	assert.Equal(t, scheduler.CycleResult{Cycle: scheduler.CycleDigest, Checked: 2, Down: 1, Delivered: true}, res)

	assert.Equal(t, http.StatusForbidden, do(t, http.MethodPost, ts.URL+"/api/cycles/alert", "pub_test").StatusCode)
	assert.Equal(t, http.StatusBadRequest, do(t, http.MethodPost, ts.URL+"/api/cycles/weekly", "adm_test").StatusCode)

	runner.mu.Lock()
	defer runner.mu.Unlock()
	assert.Equal(t, []scheduler.Cycle{scheduler.CycleDigest}, runner.calls)
}

func TestRunCycle_DeliveryFailureIs502(t *testing.T) {
	ts := setupServer(t, &fakeRunner{err: errors.New("deliver alert report: webhook returned 500")})

	resp := do(t, http.MethodPost, ts.URL+"/api/cycles/alert", "adm_test")
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "alert", body["cycle"])
	assert.Equal(t, false, body["delivered"])
	assert.Contains(t, body["error"], "webhook returned 500")
}
