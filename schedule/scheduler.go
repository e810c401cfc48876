// Package schedule runs geoprocessing jobs on recurring cron schedules.
// Expressions are standard five-field cron, evaluated in UTC only.
package schedule

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

var standardParser = cron.NewParser(
	cron.Minute |
		cron.Hour |
		cron.Dom |
		cron.Month |
		cron.Dow,
)

// ParseUTC parses a five-field cron expression. Timezone prefixes are
// rejected: schedules are UTC-only.
func ParseUTC(expr string) (cron.Schedule, error) {
	clean := strings.TrimSpace(expr)
	if clean == "" {
		return nil, fmt.Errorf("cron expression is required")
	}

	upper := strings.ToUpper(clean)
	if strings.Contains(upper, "CRON_TZ=") || strings.Contains(upper, "TZ=") {
		return nil, fmt.Errorf("cron expression must be UTC-only (timezone prefixes are not allowed)")
	}

	schedule, err := standardParser.Parse(clean)
	if err != nil {
		return nil, fmt.Errorf("invalid cron expression: %w", err)
	}
	return schedule, nil
}

// NextRunUTC returns the next time after now at which the expression fires.
func NextRunUTC(expr string, now time.Time) (time.Time, error) {
	schedule, err := ParseUTC(expr)
	if err != nil {
		return time.Time{}, err
	}
	return schedule.Next(now.UTC()), nil
}

// Scheduler runs job functions on cron schedules.
type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger
}

// NewScheduler creates a stopped scheduler. Pass nil to use slog.Default().
func NewScheduler(logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		cron: cron.New(
			cron.WithParser(standardParser),
			cron.WithLocation(time.UTC),
		),
		logger: logger,
	}
}

// Add schedules a job function on the given expression.
func (s *Scheduler) Add(expr string, job func()) (cron.EntryID, error) {
	if _, err := ParseUTC(expr); err != nil {
		return 0, err
	}
	id, err := s.cron.AddFunc(expr, job)
	if err != nil {
		return 0, fmt.Errorf("scheduling job: %w", err)
	}
	s.logger.Info("job scheduled", "expr", expr)
	return id, nil
}

// Start begins running scheduled jobs in the scheduler's own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops the scheduler and waits for any running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
