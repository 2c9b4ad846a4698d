package probe

import (
	"context"
	"crypto/tls"
	"io"
	"net"
	"net/http"
	"time"
)

// HTTPOptions tunes the probe client.
type HTTPOptions struct {
	Timeout         time.Duration
	UserAgent       string
	FollowRedirects bool
	VerifyTLS       bool
}

func DefaultHTTPOptions() HTTPOptions {
	return HTTPOptions{
		Timeout:         10 * time.Second,
		UserAgent:       "urlreporter/1.0",
		FollowRedirects: true,
		VerifyTLS:       true,
	}
}

type HTTPChecker struct {
	Client    *http.Client
	UserAgent string
}

func NewHTTPChecker(opts HTTPOptions) *HTTPChecker {
	return &HTTPChecker{
		Client:    NewHTTPClient(opts),
		UserAgent: opts.UserAgent,
	}
}

// NewHTTPClient builds the client used for reachability probes.
func NewHTTPClient(opts HTTPOptions) *http.Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   opts.Timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: !opts.VerifyTLS,
			MinVersion:         tls.VersionTLS12,
		},
	}
	client := &http.Client{Timeout: opts.Timeout, Transport: transport}
	if !opts.FollowRedirects {
		client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}
	return client
}

// IsUpStatus reports whether an HTTP status code counts as reachable:
// anything outside the 4xx and 5xx classes, including unknown classes.
func IsUpStatus(code int) bool {
	switch code / 100 {
	case 4, 5:
		return false
	default:
		return true
	}
}

// Check issues a single GET against target. It never retries.
func (h *HTTPChecker) Check(ctx context.Context, target string) CheckResult {
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return CheckResult{Success: false, Message: err.Error()}
	}
	if h.UserAgent != "" {
		req.Header.Set("User-Agent", h.UserAgent)
	}

	resp, err := h.Client.Do(req)
	latency := time.Since(start).Seconds() * 1000 // ms
	if err != nil {
		return CheckResult{Success: false, Message: err.Error(), LatencyMS: latency}
	}
	defer resp.Body.Close()
	// drain a little so the connection can be reused
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	return CheckResult{
		Success:    IsUpStatus(resp.StatusCode),
		StatusCode: resp.StatusCode,
		Message:    resp.Status,
		LatencyMS:  latency,
	}
}
