package booking

import (
	"sort"
	"time"
)

// BlockingStatuses are the statuses considered by conflict detection.
var BlockingStatuses = []Status{StatusConfirmed, StatusActive}

func blockingStatusValues() []string {
	out := make([]string, 0, len(BlockingStatuses))
	for _, s := range BlockingStatuses {
		out = append(out, string(s))
	}
	return out
}

// Overlaps reports whether half-open ranges [aStart, aEnd) and [bStart, bEnd)
// intersect. Touching endpoints do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// FilterConflicts returns the blocking bookings that overlap [start, end),
// ordered by start time.
func FilterConflicts(bookings []Booking, start, end time.Time) []Booking {
	out := make([]Booking, 0)
	for _, b := range bookings {
		if b.Status.Blocking() && Overlaps(b.Schedule.StartTime, b.Schedule.EndTime, start, end) {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Schedule.StartTime.Before(out[j].Schedule.StartTime)
	})
	return out
}

func bookingIDs(bookings []Booking) []string {
	ids := make([]string, 0, len(bookings))
	for _, b := range bookings {
		ids = append(ids, b.ID)
	}
	return ids
}
