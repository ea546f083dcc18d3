package availability

import (
	"errors"

	"rental-service/internal/model"
)

// ErrCapacityExceeded signals an allocation beyond the group's resolved
// availability. The selection is left unchanged; the caller is expected to
// warn and let the operator retry with different dates or quantities.
var ErrCapacityExceeded = errors.New("no more units available for this product in the selected period")

// Selection is the in-progress item list of a contract being built or
// edited. Items may hold duplicate IDs (one entry per unit); SaleItems is
// the parallel subset billed at sale price.
type Selection struct {
	Items     model.StringList `json:"items"`
	SaleItems model.StringList `json:"sale_items"`
}

// CountGroup returns how many selected units belong to the group
func (s *Selection) CountGroup(group *ProductGroup) int {
	n := 0
	for _, id := range s.Items {
		if group.Contains(id) {
			n++
		}
	}
	return n
}

// Add appends one unit of the group to the selection, enforcing the
// resolved availability ceiling at the add boundary. Units within a group
// are fungible, so the unit is always drawn from the group's first member
// item.
func (s *Selection) Add(group *ProductGroup, availableForGroup int) error {
	if len(group.Items) == 0 {
		return ErrCapacityExceeded
	}
	if s.CountGroup(group) >= availableForGroup {
		return ErrCapacityExceeded
	}
	s.Items = append(s.Items, group.Items[0].ID)
	return nil
}

// Remove drops the last-added unit of the group from the selection:
// scanning from the end, the first entry belonging to the group is
// removed. At most one matching entry is also removed from the sale list
// to keep both lists consistent. Returns false when the group has no
// selected units.
func (s *Selection) Remove(group *ProductGroup) bool {
	for i := len(s.Items) - 1; i >= 0; i-- {
		if !group.Contains(s.Items[i]) {
			continue
		}
		removed := s.Items[i]
		s.Items = append(s.Items[:i], s.Items[i+1:]...)
		s.removeSaleEntry(removed)
		return true
	}
	return false
}

func (s *Selection) removeSaleEntry(itemID string) {
	for i := len(s.SaleItems) - 1; i >= 0; i-- {
		if s.SaleItems[i] == itemID {
			s.SaleItems = append(s.SaleItems[:i], s.SaleItems[i+1:]...)
			return
		}
	}
}
