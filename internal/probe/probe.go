package probe

import "context"

// CheckResult is the unified result of a single probe.
//
// Fields:
//   - StatusCode: HTTP status code when a response arrived; 0 for transport errors
//     and for URLs that were never requested.
//   - Message: response status line or the error text.
type CheckResult struct {
	Success    bool
	StatusCode int
	LatencyMS  float64
	Message    string
}

// Checker performs a single check for a given target URL.
// Implementations report failures through CheckResult, never by panicking.
type Checker interface {
	Check(ctx context.Context, target string) CheckResult
}
