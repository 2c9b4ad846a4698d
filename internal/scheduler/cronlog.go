package scheduler

import (
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// cronLogger routes cron's own logging into zap. Cron logs every wake-up
// at info, which is debug noise for us.
type cronLogger struct {
	s *zap.SugaredLogger
}

var _ cron.Logger = cronLogger{}

func newCronLogger(l *zap.Logger) cronLogger {
	return cronLogger{s: l.Named("cron").Sugar()}
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
