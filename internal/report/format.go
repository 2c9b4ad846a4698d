// Package report renders status reports as Slack-flavoured text.
package report

import (
	"fmt"
	"strings"

	"github.com/hamed0406/urlreporter/internal/domain"
)

const (
	upMark   = "🟢"
	downMark = "🔴"

	blankURL = "(empty url)"
)

// Format renders one line per URL in report order. With onlyFailures set,
// up URLs are left out, so an all-up report yields an empty body.
func Format(r *domain.StatusReport, onlyFailures bool) string {
	var b strings.Builder
	for _, s := range r.Statuses() {
		if onlyFailures && s.Up {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(Line(s))
	}
	return b.String()
}

// Line renders a single status with its indicator.
func Line(s domain.URLStatus) string {
	url := s.URL
	if strings.TrimSpace(url) == "" {
		url = blankURL
	}
	if s.Up {
		return fmt.Sprintf("%s %s is up", upMark, url)
	}
	return fmt.Sprintf("%s %s is down", downMark, url)
}

// Summary is the "<up>/<total> up" fragment used in titles.
func Summary(r *domain.StatusReport) string {
	return fmt.Sprintf("%d/%d up", r.UpCount(), r.Len())
}

// AlertTitle heads a failures-only message.
func AlertTitle(r *domain.StatusReport) string {
	down := r.DownCount()
	if down == 0 {
		return fmt.Sprintf("%s All URLs up (%s)", upMark, Summary(r))
	}
	noun := "URLs"
	if down == 1 {
		noun = "URL"
	}
	return fmt.Sprintf("%s %d %s down (%s)", downMark, down, noun, Summary(r))
}

// DigestTitle heads the full daily status message.
func DigestTitle(r *domain.StatusReport) string {
	return fmt.Sprintf("Daily URL status (%s)", Summary(r))
}

// HealthyBody is sent in place of an empty alert body when all-up alerts are enabled.
func HealthyBody(r *domain.StatusReport) string {
	return fmt.Sprintf("All %d monitored URLs are reachable.", r.Len())
}
