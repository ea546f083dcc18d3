package availability

import (
	"time"

	"rental-service/internal/model"
)

// FulfillmentPlan assigns concrete item IDs to the flattened slots of a
// package. An empty string marks an unfilled slot; Unsatisfied lists the
// categories (deduplicated) that could not be fully covered. A partial
// plan is a valid result, not an error.
type FulfillmentPlan struct {
	Slots       []string `json:"slots"`
	Unsatisfied []string `json:"unsatisfied"`
}

// Complete reports whether every slot received a unit
func (p *FulfillmentPlan) Complete() bool {
	return len(p.Unsatisfied) == 0
}

// FulfillPackage auto-assigns available units to each required slot of a
// package for the candidate range. Slot indexes run sequentially across
// the category list: the running sum of prior quantities plus the position
// within the current category.
//
// Availability here is stricter than the booking query: overlaps are
// tested with the trailing bufferDays blackout after each existing
// contract, and units already committed to the same in-progress contract
// (earlier slots and à-la-carte selections) are subtracted before a unit
// is drawn. The first catalog item of the matching category with a unit
// to spare wins each slot.
func FulfillPackage(pkg *model.Package, rangeStart, rangeEnd time.Time, catalog []model.Item, contracts []model.Contract, committed *Selection, excludeContractID string, bufferDays int) (*FulfillmentPlan, error) {
	if rangeStart.IsZero() || rangeEnd.IsZero() {
		return nil, ErrMissingDateRange
	}

	plan := &FulfillmentPlan{Slots: make([]string, pkg.ItemsConfig.TotalSlots())}

	committedCount := make(map[string]int)
	if committed != nil {
		for _, id := range committed.Items {
			committedCount[id]++
		}
	}

	unsatisfied := make(map[string]bool)
	slot := 0
	for _, req := range pkg.ItemsConfig {
		for n := 0; n < req.Quantity; n++ {
			itemID := findUnit(req.Category, rangeStart, rangeEnd, catalog, contracts, committedCount, excludeContractID, bufferDays)
			if itemID == "" {
				if !unsatisfied[req.Category] {
					unsatisfied[req.Category] = true
					plan.Unsatisfied = append(plan.Unsatisfied, req.Category)
				}
				slot++
				continue
			}
			plan.Slots[slot] = itemID
			committedCount[itemID]++
			slot++
		}
	}

	return plan, nil
}

func findUnit(category string, rangeStart, rangeEnd time.Time, catalog []model.Item, contracts []model.Contract, committedCount map[string]int, excludeContractID string, bufferDays int) string {
	for i := range catalog {
		item := &catalog[i]
		if item.Type != category {
			continue
		}
		occupied := occupiedUnits(item.ID, rangeStart, rangeEnd, contracts, excludeContractID, bufferDays)
		if item.Units()-occupied-committedCount[item.ID] > 0 {
			return item.ID
		}
	}
	return ""
}
