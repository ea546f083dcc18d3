package availability

import (
	"errors"
	"time"

	"rental-service/internal/model"
)

// ErrMissingDateRange is returned when a rental availability query lacks
// either end of the candidate range. The caller must treat availability as
// undetermined, never as zero or full.
var ErrMissingDateRange = errors.New("availability query requires both start and end dates")

// AvailableUnits resolves how many units of the item can be promised for
// the candidate range: total quantity minus overlapping commitments,
// clamped at zero. excludeContractID carves the contract under edit out of
// the occupancy scan.
func AvailableUnits(item *model.Item, rangeStart, rangeEnd time.Time, contracts []model.Contract, excludeContractID string) (int, error) {
	if rangeStart.IsZero() || rangeEnd.IsZero() {
		return 0, ErrMissingDateRange
	}
	occupied := OccupiedUnits(item.ID, rangeStart, rangeEnd, contracts, excludeContractID)
	available := item.Units() - occupied
	if available < 0 {
		available = 0
	}
	return available, nil
}

// DayAvailability is the current-instant availability of an item or group,
// used by the inventory grid rather than date-range booking queries.
type DayAvailability struct {
	Available   int `json:"available"`
	Booked      int `json:"booked"`
	Maintenance int `json:"maintenance"`
}

// TodayAvailability computes availability for the current date. Unlike the
// date-range query it also reflects physical custody: an item at the
// laundry or workshop today has one unit blocked even with zero contracts,
// because one physical garment is out of circulation.
func TodayAvailability(item *model.Item, contracts []model.Contract, now time.Time) DayAvailability {
	today := normalizeDate(now)
	booked := OccupiedUnits(item.ID, today, today, contracts, "")

	maintenance := 0
	if !item.Operational() {
		// Exactly one unit is assumed blocked, not the whole quantity.
		maintenance = 1
	}

	available := item.Units() - booked - maintenance
	if available < 0 {
		available = 0
	}
	return DayAvailability{Available: available, Booked: booked, Maintenance: maintenance}
}
