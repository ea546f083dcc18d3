// Package availability implements the rental availability and allocation
// engine: date-range overlap, per-item occupancy counting, product-group
// availability resolution, unit allocation for contract item lists and
// package slot fulfillment. All functions are pure over explicit snapshots
// of the catalog and contract list.
package availability

import "time"

const dayDuration = 24 * time.Hour

// normalizeDate strips the time-of-day component so that all range
// comparisons work on whole calendar days.
func normalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Overlaps reports whether two date ranges intersect, comparing whole days
// and inclusive on both ends: a contract ending on day D and another
// starting on day D overlap. Same-day handover risk is modeled on purpose.
//
// bufferDays extends bEnd forward before testing, protecting the
// cleaning/maintenance window immediately after an existing contract's
// return. The buffer is one-directional and uses strict day arithmetic,
// never calendar-month addition.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time, bufferDays int) bool {
	aStart = normalizeDate(aStart)
	aEnd = normalizeDate(aEnd)
	bStart = normalizeDate(bStart)
	bEnd = normalizeDate(bEnd)

	if bufferDays > 0 {
		bEnd = bEnd.Add(time.Duration(bufferDays) * dayDuration)
	}

	return !aStart.After(bEnd) && !aEnd.Before(bStart)
}
