package charger

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"chargeshare/internal/pkg/validator"
)

// AvailabilityWindow is one weekly opening on a weekday, in 24-hour clock time.
// DayOfWeek follows time.Weekday: 0 is Sunday.
type AvailabilityWindow struct {
	DayOfWeek int    `json:"day_of_week" validate:"min=0,max=6"`
	StartTime string `json:"start_time" validate:"required,hhmm"`
	EndTime   string `json:"end_time" validate:"required,hhmm"`
}

type Windows []AvailabilityWindow

// EmptyWindowsPolicy decides what a charger with no published windows means.
type EmptyWindowsPolicy int

const (
	AlwaysOpen EmptyWindowsPolicy = iota
	NeverOpen
)

func ParseEmptyWindowsPolicy(s string) (EmptyWindowsPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "always_open":
		return AlwaysOpen, nil
	case "never_open":
		return NeverOpen, nil
	}
	return AlwaysOpen, fmt.Errorf("unknown empty windows policy %q", s)
}

// Validate checks the structural invariants of every window.
func (ws Windows) Validate() error {
	for i, w := range ws {
		if errs := validator.Validate(w); errs != nil {
			field := slices.Sorted(maps.Keys(errs))[0]
			return fmt.Errorf("%w: window %d: %s failed %s", ErrInvalidWindows, i, field, errs[field])
		}
		start, _ := parseClock(w.StartTime)
		end, _ := parseClock(w.EndTime)
		if end <= start {
			return fmt.Errorf("%w: window %d: end_time must be after start_time", ErrInvalidWindows, i)
		}
	}
	return nil
}

// ForDay returns the windows published for a weekday, in stored order.
func (ws Windows) ForDay(day time.Weekday) Windows {
	out := Windows{}
	for _, w := range ws {
		if w.DayOfWeek == int(day) {
			out = append(out, w)
		}
	}
	return out
}

// Availability evaluates windows on a wall clock. The zero value works in
// UTC and treats an empty window set as always open.
type Availability struct {
	Location    *time.Location
	EmptyPolicy EmptyWindowsPolicy
}

// IsOpenAt is the UTC, AlwaysOpen form of Availability.IsOpenAt.
func IsOpenAt(ws Windows, start, end time.Time) bool {
	return Availability{}.IsOpenAt(ws, start, end)
}

// IsOpenAt reports whether every calendar day touched by [start, end) has a
// window on that weekday containing the day's part of the range. Windows never
// reach 24:00, so a range crossing midnight is never open.
func (a Availability) IsOpenAt(ws Windows, start, end time.Time) bool {
	if !end.After(start) {
		return false
	}
	if len(ws) == 0 {
		return a.EmptyPolicy == AlwaysOpen
	}

	loc := a.Location
	if loc == nil {
		loc = time.UTC
	}
	s, e := start.In(loc), end.In(loc)

	day := time.Date(s.Year(), s.Month(), s.Day(), 0, 0, 0, 0, loc)
	for day.Before(e) {
		next := day.AddDate(0, 0, 1)

		from := clockOf(s)
		if s.Before(day) {
			from = 0
		}
		to := 24 * time.Hour
		if e.Before(next) {
			to = clockOf(e)
		}

		if !ws.covers(day.Weekday(), from, to) {
			return false
		}
		day = next
	}
	return true
}

func (ws Windows) covers(day time.Weekday, from, to time.Duration) bool {
	for _, w := range ws {
		if w.DayOfWeek != int(day) {
			continue
		}
		open, ok1 := parseClock(w.StartTime)
		closeAt, ok2 := parseClock(w.EndTime)
		if !ok1 || !ok2 {
			continue
		}
		if from >= open && to <= closeAt {
			return true
		}
	}
	return false
}

// clockOf is the wall-clock offset since local midnight.
func clockOf(t time.Time) time.Duration {
	h, m, s := t.Clock()
	return time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second +
		time.Duration(t.Nanosecond())
}

func parseClock(v string) (time.Duration, bool) {
	if !validator.IsClock(v) {
		return 0, false
	}
	t, err := time.Parse("15:04", v)
	if err != nil {
		return 0, false
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, true
}
