package reconcile

import (
	"errors"
	"strings"
	"time"
)

var errEmptyTimestamp = errors.New("empty timestamp")

// ParseReportedAt parses an upstream timestamp in loc and returns it in UTC.
func ParseReportedAt(raw, layout string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errEmptyTimestamp
	}
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(layout, raw, loc)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// admit decides whether an observation reported at raw is kept for a run at runAt.
func (e *Engine) admit(raw string, runAt time.Time) (time.Time, RejectReason, bool) {
	reported, err := ParseReportedAt(raw, e.opts.Layout, e.opts.Location)
	if err != nil {
		return time.Time{}, ReasonUnparseable, false
	}
	if reported.Before(runAt.Add(-e.opts.StaleAfter)) {
		return reported, ReasonStale, false
	}
	return reported, "", true
}
