package scheduler

import (
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"jobcore-api/pkg/errors"
)

// 5-field crontab plus descriptors (@daily, @every 1h)
var parser = cron.NewParser(
	cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// ValidateCron ตรวจ cron expression ของ task manifest
func ValidateCron(expr string) error {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return errors.Validation("cron expression is empty")
	}
	if _, err := parser.Parse(expr); err != nil {
		return errors.Mark(errors.Wrapf(err, "invalid cron expression %q", expr), errors.ErrValidation)
	}
	return nil
}

// NextRun first activation strictly after from, in from's location.
func NextRun(expr string, from time.Time) (*time.Time, error) {
	sched, err := parser.Parse(strings.TrimSpace(expr))
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "invalid cron expression %q", expr), errors.ErrValidation)
	}

	next := sched.Next(from)
	if next.IsZero() {
		return nil, nil
	}
	return &next, nil
}
