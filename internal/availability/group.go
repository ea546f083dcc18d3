package availability

import (
	"time"

	"rental-service/internal/model"
)

// ProductGroup pools the items sharing a (name, type, size, color) key.
// Distinct records of the same product (different barcodes, added at
// different times) are sold as one line with a combined quantity.
type ProductGroup struct {
	Key   model.GroupKey
	Items []model.Item
}

// GroupItems partitions the catalog into product groups, preserving the
// order in which groups first appear. Member order inside a group follows
// catalog order, which the allocator relies on when drawing units.
func GroupItems(items []model.Item) []ProductGroup {
	index := make(map[model.GroupKey]int)
	var groups []ProductGroup
	for i := range items {
		key := items[i].GroupKey()
		if pos, ok := index[key]; ok {
			groups[pos].Items = append(groups[pos].Items, items[i])
			continue
		}
		index[key] = len(groups)
		groups = append(groups, ProductGroup{Key: key, Items: []model.Item{items[i]}})
	}
	return groups
}

// Contains reports whether the item ID belongs to a member of the group
func (g *ProductGroup) Contains(itemID string) bool {
	for i := range g.Items {
		if g.Items[i].ID == itemID {
			return true
		}
	}
	return false
}

// TotalUnits returns the group's combined physical unit count
func (g *ProductGroup) TotalUnits() int {
	total := 0
	for i := range g.Items {
		total += g.Items[i].Units()
	}
	return total
}

// AvailableUnits resolves the group's availability for a date range as the
// sum over every member item.
func (g *ProductGroup) AvailableUnits(rangeStart, rangeEnd time.Time, contracts []model.Contract, excludeContractID string) (int, error) {
	total := 0
	for i := range g.Items {
		available, err := AvailableUnits(&g.Items[i], rangeStart, rangeEnd, contracts, excludeContractID)
		if err != nil {
			return 0, err
		}
		total += available
	}
	return total, nil
}

// FindCapacityConflict checks a requested item list against per-group
// availability for the range. It returns the first group whose requested
// unit count exceeds its availability, or nil when the whole selection
// fits. An unresolvable range (ErrMissingDateRange) is an error, never a
// pass: availability must not be assumed when it cannot be computed.
func FindCapacityConflict(selected model.StringList, items []model.Item, contracts []model.Contract, rangeStart, rangeEnd time.Time, excludeContractID string) (*ProductGroup, error) {
	if len(selected) == 0 {
		return nil, nil
	}

	selection := Selection{Items: selected}
	groups := GroupItems(items)
	for i := range groups {
		requested := selection.CountGroup(&groups[i])
		if requested == 0 {
			continue
		}
		available, err := groups[i].AvailableUnits(rangeStart, rangeEnd, contracts, excludeContractID)
		if err != nil {
			return nil, err
		}
		if requested > available {
			return &groups[i], nil
		}
	}
	return nil, nil
}

// TodayAvailability sums current-instant availability over the group
func (g *ProductGroup) TodayAvailability(contracts []model.Contract, now time.Time) DayAvailability {
	var sum DayAvailability
	for i := range g.Items {
		day := TodayAvailability(&g.Items[i], contracts, now)
		sum.Available += day.Available
		sum.Booked += day.Booked
		sum.Maintenance += day.Maintenance
	}
	return sum
}
