package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimit_AllowsThenBlocks(t *testing.T) {
	h := RateLimit(60, 2)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "1.2.3.4:1234"

	for i := 0; i < 2; i++ {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != 200 {
			t.Fatalf("want 200 got %d", rr.Code)
		}
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != 429 {
		t.Fatalf("want 429 got %d", rr.Code)
	}

	// a different client has its own bucket
	other := httptest.NewRequest("GET", "/", nil)
	other.RemoteAddr = "5.6.7.8:999"
	rrOther := httptest.NewRecorder()
	h.ServeHTTP(rrOther, other)
	if rrOther.Code != 200 {
		t.Fatalf("other client should pass, got %d", rrOther.Code)
	}

	time.Sleep(1100 * time.Millisecond)
	rr2 := httptest.NewRecorder()
	h.ServeHTTP(rr2, req)
	if rr2.Code != 200 {
		t.Fatalf("want 200 after refill got %d", rr2.Code)
	}
}

func TestRateLimit_DisabledPassesThrough(t *testing.T) {
	h := RateLimit(0, 0)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	for i := 0; i < 50; i++ {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))
		if rr.Code != http.StatusNoContent {
			t.Fatalf("want 204 got %d", rr.Code)
		}
	}
}

func TestLimiter_SweepsIdleBuckets(t *testing.T) {
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l := newLimiter(1, 1, time.Minute)
	l.now = func() time.Time { return clock }
	l.lastSweep = clock

	l.allow("a")
	l.allow("b")
	if l.size() != 2 {
		t.Fatalf("want 2 buckets, got %d", l.size())
	}

	clock = clock.Add(2 * time.Minute)
	l.allow("c")
	if l.size() != 1 {
		t.Fatalf("idle buckets should be swept, got %d", l.size())
	}
}

func TestClientIP_IgnoresForwardingHeaders(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.1:5555"
	if got := clientIP(r); got != "10.0.0.1" {
		t.Fatalf("got %q", got)
	}
	r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	if got := clientIP(r); got != "10.0.0.1" {
		t.Fatalf("X-Forwarded-For must not pick the bucket, got %q", got)
	}
}

func TestRateLimit_SpoofedForwardedForSharesBucket(t *testing.T) {
	h := RateLimit(60, 1)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	codes := make([]int, 0, 2)
	for _, xff := range []string{"198.51.100.1", "198.51.100.2"} {
		req := httptest.NewRequest("GET", "/", nil)
		req.RemoteAddr = "1.2.3.4:1234"
		req.Header.Set("X-Forwarded-For", xff)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests {
		t.Fatalf("want [200 429], got %v", codes)
	}
}
