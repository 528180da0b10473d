package timeslot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(hour int) time.Time {
	return time.Date(2026, 3, 14, hour, 0, 0, 0, time.UTC)
}

func TestNewRange(t *testing.T) {
	r, err := NewRange(at(10), 2)
	require.NoError(t, err)
	assert.Equal(t, at(10), r.Start)
	assert.Equal(t, at(12), r.End())

	_, err = NewRange(at(10), 0)
	assert.Error(t, err)

	_, err = NewRange(at(10).Add(15*time.Minute), 1)
	assert.Error(t, err)
}

func TestRangeOverlaps(t *testing.T) {
	base := Range{Start: at(10), Hours: 2} // [10:00, 12:00)

	tests := []struct {
		name  string
		other Range
		want  bool
	}{
		{"identical", Range{Start: at(10), Hours: 2}, true},
		{"nested", Range{Start: at(10), Hours: 1}, true},
		{"partial overlap left", Range{Start: at(9), Hours: 2}, true},
		{"partial overlap right", Range{Start: at(11), Hours: 2}, true},
		{"covering", Range{Start: at(9), Hours: 4}, true},
		{"touching before", Range{Start: at(8), Hours: 2}, false},
		{"touching after", Range{Start: at(12), Hours: 1}, false},
		{"disjoint", Range{Start: at(14), Hours: 1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, base.Overlaps(tt.other))
			assert.Equal(t, tt.want, tt.other.Overlaps(base))
		})
	}
}

func TestRangeContains(t *testing.T) {
	r := Range{Start: at(10), Hours: 2}

	assert.True(t, r.Contains(at(10)))
	assert.True(t, r.Contains(at(11).Add(59*time.Minute)))
	assert.False(t, r.Contains(at(12)))
	assert.False(t, r.Contains(at(9)))
}

func TestWindowIntersects(t *testing.T) {
	w := Window{Start: at(10), End: at(14)}

	assert.True(t, w.Intersects(Range{Start: at(9), Hours: 2}))
	assert.True(t, w.Intersects(Range{Start: at(13), Hours: 3}))
	assert.False(t, w.Intersects(Range{Start: at(8), Hours: 2}))
	assert.False(t, w.Intersects(Range{Start: at(14), Hours: 1}))
}

func TestTruncateHour(t *testing.T) {
	assert.Equal(t, at(10), TruncateHour(at(10).Add(59*time.Minute)))
	assert.Equal(t, at(10), TruncateHour(at(10)))

	assert.True(t, IsHourAligned(at(10)))
	assert.False(t, IsHourAligned(at(10).Add(time.Second)))
}

func TestSameDay(t *testing.T) {
	seoul, err := time.LoadLocation("Asia/Seoul")
	require.NoError(t, err)

	// 2026-03-14 20:00 UTC is already 2026-03-15 05:00 in Seoul
	assert.False(t, SameDay(at(20), at(10), seoul))
	assert.True(t, SameDay(at(20), at(20).Add(2*time.Hour), seoul))
	assert.True(t, SameDay(at(1), at(10), seoul))

	// Same instants compared in UTC stay on 2026-03-14
	assert.True(t, SameDay(at(20), at(10), time.UTC))
}

func TestHoursBetween(t *testing.T) {
	assert.Equal(t, 3, HoursBetween(at(10), at(13)))
	assert.Equal(t, 0, HoursBetween(at(10), at(10)))
	assert.Equal(t, -2, HoursBetween(at(12), at(10)))
}
