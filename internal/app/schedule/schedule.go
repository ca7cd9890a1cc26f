// Package schedule translates a module's per-field cron-like timing
// ({hour, min}, each a literal or the wildcard "*") into "should fire now".
package schedule

import (
	"strconv"
	"time"

	"bachd/internal/app/errors"
)

// Wildcard matches every value of its field.
const Wildcard = "*"

// Schedule is a module's fire schedule: each field is either Wildcard or a
// literal non-negative integer.
type Schedule struct {
	Hour string
	Min  string
}

// New validates and constructs a Schedule from raw config fields.
func New(hour, min string) (Schedule, error) {
	s := Schedule{Hour: hour, Min: min}
	if err := s.Validate(); err != nil {
		return Schedule{}, err
	}

	return s, nil
}

// Validate reports whether every field is either Wildcard or a literal
// within its field's range (hour 0-23, min 0-59) — a schedule outside that
// range would simply never fire, silently, which is worth rejecting at load
// time instead.
func (s Schedule) Validate() error {
	if err := validateField(s.Hour, 23); err != nil {
		return err
	}

	return validateField(s.Min, 59)
}

func validateField(f string, max int) error {
	if f == "" {
		return errors.ErrScheduleFieldRequired
	}

	if f == Wildcard {
		return nil
	}

	if n, err := strconv.Atoi(f); err != nil || n < 0 || n > max {
		return errors.ErrInvalidScheduleField
	}

	return nil
}

// Matches reports whether the schedule fires at t's local hour and minute.
// Both fields must match: a wildcard matches any value, a literal must
// equal the field exactly. "*"/"*" matches every minute, per the
// recommended reading of the ambiguous wildcard-combination case.
func (s Schedule) Matches(t time.Time) bool {
	return fieldMatches(s.Hour, t.Hour()) && fieldMatches(s.Min, t.Minute())
}

func fieldMatches(field string, value int) bool {
	if field == Wildcard {
		return true
	}

	n, err := strconv.Atoi(field)

	return err == nil && n == value
}
