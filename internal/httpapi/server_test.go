package httpapi

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthzAndMetrics_NoAuth(t *testing.T) {
	ts := setupServer(t, &fakeRunner{})

	resp := do(t, http.MethodGet, ts.URL+"/healthz", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	b, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "ok", string(b))

	resp = do(t, http.MethodGet, ts.URL+"/metrics", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	b, _ = io.ReadAll(resp.Body)
	assert.True(t, strings.Contains(string(b), "go_goroutines"), "default collectors should be exposed")
}

func TestCORS_RestrictedOrigins(t *testing.T) {
	srv := NewServer(nil, &fakeChecker{}, &fakeRunner{}, nil)
	h := srv.Router(RouterConfig{AllowedOrigins: []string{"https://ops.example"}})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "https://ops.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "https://ops.example", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimit_ForwardedForOnlyBehindTrustedProxy(t *testing.T) {
	run := func(trust bool) []int {
		srv := NewServer(nil, &fakeChecker{}, &fakeRunner{}, nil)
		h := srv.Router(RouterConfig{PublicRPM: 1, PublicBurst: 1, TrustProxy: trust})
		var codes []int
		for _, ip := range []string{"198.51.100.1", "198.51.100.2"} {
			req := httptest.NewRequest(http.MethodGet, "/api/urls", nil)
			req.RemoteAddr = "10.0.0.1:4000"
			req.Header.Set("X-Forwarded-For", ip)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			codes = append(codes, rec.Code)
		}
		return codes
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests}, run(false))
	assert.Equal(t, []int{http.StatusOK, http.StatusOK}, run(true))
}

func TestNewServer_CopiesURLs(t *testing.T) {
	urls := []string{"https://a.example"}
	srv := NewServer(nil, &fakeChecker{}, &fakeRunner{}, urls)
	urls[0] = "https://changed.example"
	assert.Equal(t, []string{"https://a.example"}, srv.URLs)
	assert.NotNil(t, srv.Logger)
}
