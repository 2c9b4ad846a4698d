package probe

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/urlreporter/internal/domain"
)

// URLChecker turns probe results into up/down statuses.
// A failed check is an expected outcome: it shows up as false in the
// report and is never returned as an error.
type URLChecker struct {
	Logger  *zap.Logger
	Checker Checker
	Timeout time.Duration
}

func NewURLChecker(logger *zap.Logger, checker Checker, timeout time.Duration) *URLChecker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &URLChecker{Logger: logger, Checker: checker, Timeout: timeout}
}

// CheckURL reports whether url is reachable. Blank URLs are down and are
// never requested.
func (u *URLChecker) CheckURL(ctx context.Context, url string) bool {
	if strings.TrimSpace(url) == "" {
		checksTotal.WithLabelValues(resultSkipped).Inc()
		u.Logger.Debug("url_skipped_blank", zap.String("url", url))
		return false
	}

	cctx, cancel := context.WithTimeout(ctx, u.Timeout)
	defer cancel()

	out := u.check(cctx, url)
	checkDuration.Observe(out.LatencyMS / 1000)

	result := resultDown
	if out.Success {
		result = resultUp
	}
	checksTotal.WithLabelValues(result).Inc()

	u.Logger.Debug("url_checked",
		zap.String("url", url),
		zap.Bool("up", out.Success),
		zap.Int("status", out.StatusCode),
		zap.Float64("latency_ms", out.LatencyMS),
		zap.String("reason", out.Message),
	)
	return out.Success
}

// check shields the batch from a misbehaving Checker.
func (u *URLChecker) check(ctx context.Context, url string) (out CheckResult) {
	defer func() {
		if rec := recover(); rec != nil {
			u.Logger.Error("url_check_panic", zap.String("url", url), zap.Any("panic", rec))
			out = CheckResult{Success: false, Message: "check panicked"}
		}
	}()
	return u.Checker.Check(ctx, url)
}

// CheckAll checks every URL once, in order, one at a time. Every input URL
// appears in the returned report exactly once; duplicates keep their first
// position and the latest result.
func (u *URLChecker) CheckAll(ctx context.Context, urls []string) *domain.StatusReport {
	report := domain.NewStatusReport(len(urls))
	for _, url := range urls {
		report.Set(url, u.CheckURL(ctx, url))
	}
	return report
}
