package timeslot

import (
	"fmt"
	"time"
)

// Range is a half-open, hour-granular interval [Start, Start+Hours*1h) on a
// unit's timeline. Start is expected to be hour-aligned.
type Range struct {
	Start time.Time
	Hours int
}

// NewRange builds a Range, rejecting non-positive durations and unaligned starts.
func NewRange(start time.Time, hours int) (Range, error) {
	if hours < 1 {
		return Range{}, fmt.Errorf("timeslot: duration must be at least 1 hour, got %d", hours)
	}
	if !IsHourAligned(start) {
		return Range{}, fmt.Errorf("timeslot: start %s is not hour-aligned", start.Format(time.RFC3339))
	}
	return Range{Start: start.UTC(), Hours: hours}, nil
}

// End returns the exclusive end of the range.
func (r Range) End() time.Time {
	return r.Start.Add(time.Duration(r.Hours) * time.Hour)
}

// Overlaps reports whether two half-open ranges intersect.
// Touching boundaries (one ends exactly where the other starts) do not overlap.
func (r Range) Overlaps(other Range) bool {
	return r.Start.Before(other.End()) && other.Start.Before(r.End())
}

// Contains reports whether t falls inside the range.
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End())
}

// Window is a half-open observation interval [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

// Intersects reports whether the range intersects the window.
func (w Window) Intersects(r Range) bool {
	return r.Start.Before(w.End) && w.Start.Before(r.End())
}

// TruncateHour rounds t down to the hour grid.
func TruncateHour(t time.Time) time.Time {
	return t.Truncate(time.Hour)
}

// IsHourAligned reports whether t sits exactly on the hour grid.
func IsHourAligned(t time.Time) bool {
	return t.Truncate(time.Hour).Equal(t)
}

// SameDay reports whether a and b fall on the same calendar day in loc.
// The business timezone decides day boundaries, never the caller's clock.
func SameDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}

// HoursBetween returns the number of whole hours from a to b.
func HoursBetween(a, b time.Time) int {
	return int(b.Sub(a) / time.Hour)
}
