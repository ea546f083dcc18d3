package availability

import (
	"time"

	"rental-service/internal/model"
)

// OccupiedUnits counts the unit-occurrences of itemID committed by
// contracts overlapping the candidate range. Cancelled and finished
// contracts release their units and are skipped, as is the contract
// identified by excludeContractID so that a contract under edit does not
// count against itself.
//
// Occurrences are counted, not presence: a contract holding the same item
// ID twice consumes two units. This scan is O(contracts × items-per-
// contract), which is fine at single-store scale.
func OccupiedUnits(itemID string, rangeStart, rangeEnd time.Time, contracts []model.Contract, excludeContractID string) int {
	return occupiedUnits(itemID, rangeStart, rangeEnd, contracts, excludeContractID, 0)
}

func occupiedUnits(itemID string, rangeStart, rangeEnd time.Time, contracts []model.Contract, excludeContractID string, bufferDays int) int {
	total := 0
	for i := range contracts {
		c := &contracts[i]
		if !c.CountsAgainstAvailability() {
			continue
		}
		if excludeContractID != "" && c.ID == excludeContractID {
			continue
		}
		cStart, cEnd := c.OccupancyRange()
		if !Overlaps(rangeStart, rangeEnd, cStart, cEnd, bufferDays) {
			continue
		}
		total += c.Items.Count(itemID)
	}
	return total
}
