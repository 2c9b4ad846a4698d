package scheduler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/urlreporter/internal/domain"
	"github.com/hamed0406/urlreporter/internal/notify"
	"github.com/hamed0406/urlreporter/internal/report"
)

// Cycle names one of the two report kinds.
type Cycle string

const (
	// CycleAlert reports only the URLs that are down.
	CycleAlert Cycle = "alert"
	// CycleDigest reports every URL.
	CycleDigest Cycle = "digest"
)

func ParseCycle(s string) (Cycle, error) {
	switch c := Cycle(strings.ToLower(strings.TrimSpace(s))); c {
	case CycleAlert, CycleDigest:
		return c, nil
	default:
		return "", fmt.Errorf("unknown cycle %q", s)
	}
}

// StatusChecker produces a fresh status report for a list of URLs.
type StatusChecker interface {
	CheckAll(ctx context.Context, urls []string) *domain.StatusReport
}

type CycleResult struct {
	Cycle     Cycle `json:"cycle"`
	Checked   int   `json:"checked"`
	Down      int   `json:"down"`
	Delivered bool  `json:"delivered"`
}

// Reporter runs one check-format-deliver pass. It holds no state between
// passes, so concurrent passes are safe.
type Reporter struct {
	Logger          *zap.Logger
	Checker         StatusChecker
	Notifier        notify.Notifier
	URLs            []string
	SendWhenHealthy bool
}

func NewReporter(
	logger *zap.Logger,
	checker StatusChecker,
	notifier notify.Notifier,
	urls []string,
	sendWhenHealthy bool,
) *Reporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reporter{
		Logger:          logger,
		Checker:         checker,
		Notifier:        notifier,
		URLs:            append([]string(nil), urls...),
		SendWhenHealthy: sendWhenHealthy,
	}
}

// RunCycle checks every configured URL and delivers the report for c.
// An alert pass with nothing down is not delivered unless SendWhenHealthy
// is set. The returned error is only ever a delivery failure.
func (r *Reporter) RunCycle(ctx context.Context, c Cycle) (CycleResult, error) {
	if c != CycleAlert && c != CycleDigest {
		return CycleResult{}, fmt.Errorf("unknown cycle %q", c)
	}
	start := time.Now()
	cyclesTotal.WithLabelValues(string(c)).Inc()
	defer func() {
		cycleDuration.WithLabelValues(string(c)).Observe(time.Since(start).Seconds())
	}()

	r.Logger.Info("cycle_started", zap.String("cycle", string(c)), zap.Int("urls", len(r.URLs)))

	statuses := r.Checker.CheckAll(ctx, r.URLs)
	res := CycleResult{Cycle: c, Checked: statuses.Len(), Down: statuses.DownCount()}

	title, text, send := r.compose(c, statuses)
	if !send {
		deliveriesTotal.WithLabelValues(string(c), deliverySkipped).Inc()
		r.Logger.Info("alert_skipped_all_up", zap.Int("checked", res.Checked))
		return res, nil
	}

	if err := r.Notifier.Send(ctx, title, text); err != nil {
		deliveriesTotal.WithLabelValues(string(c), deliveryError).Inc()
		return res, fmt.Errorf("deliver %s report: %w", c, err)
	}
	deliveriesTotal.WithLabelValues(string(c), deliverySent).Inc()
	res.Delivered = true

	r.Logger.Info("cycle_delivered",
		zap.String("cycle", string(c)),
		zap.Int("checked", res.Checked),
		zap.Int("down", res.Down),
		zap.Duration("took", time.Since(start)),
	)
	return res, nil
}

func (r *Reporter) compose(c Cycle, statuses *domain.StatusReport) (title, text string, send bool) {
	if c == CycleDigest {
		return report.DigestTitle(statuses), report.Format(statuses, false), true
	}
	if statuses.DownCount() == 0 {
		if !r.SendWhenHealthy {
			return "", "", false
		}
		return report.AlertTitle(statuses), report.HealthyBody(statuses), true
	}
	return report.AlertTitle(statuses), report.Format(statuses, true), true
}
