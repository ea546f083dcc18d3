package availability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"rental-service/internal/model"
)

func galaGroup() ProductGroup {
	return ProductGroup{
		Key: model.GroupKey{Name: "Vestido Gala", Type: "Vestido", Size: "M"},
		Items: []model.Item{
			catalogItem("A1", "Vestido Gala", 2),
			catalogItem("A2", "Vestido Gala", 1),
		},
	}
}

func TestSelectionAddDrawsFromFirstMember(t *testing.T) {
	group := galaGroup()
	selection := Selection{}

	require.NoError(t, selection.Add(&group, 3))
	require.NoError(t, selection.Add(&group, 3))

	// Units within a group are fungible; the allocator always draws the
	// first member's ID, even repeatedly.
	assert.Equal(t, model.StringList{"A1", "A1"}, selection.Items)
}

func TestSelectionAddEnforcesCeiling(t *testing.T) {
	group := galaGroup()
	selection := Selection{Items: model.StringList{"A1", "A1"}}

	err := selection.Add(&group, 2)
	assert.ErrorIs(t, err, ErrCapacityExceeded)
	// Rejection leaves the selection unchanged.
	assert.Equal(t, model.StringList{"A1", "A1"}, selection.Items)
}

func TestSelectionAddCountsAllGroupMembers(t *testing.T) {
	group := galaGroup()
	// A unit of a non-first member still counts against the ceiling.
	selection := Selection{Items: model.StringList{"A2", "A1"}}

	err := selection.Add(&group, 2)
	assert.ErrorIs(t, err, ErrCapacityExceeded)
}

func TestSelectionAddZeroAvailability(t *testing.T) {
	group := galaGroup()
	selection := Selection{}

	assert.ErrorIs(t, selection.Add(&group, 0), ErrCapacityExceeded)
	assert.Empty(t, selection.Items)
}

func TestSelectionRemoveTakesLastAdded(t *testing.T) {
	group := galaGroup()
	selection := Selection{Items: model.StringList{"A1", "X", "A2", "A1"}}

	assert.True(t, selection.Remove(&group))
	assert.Equal(t, model.StringList{"A1", "X", "A2"}, selection.Items)

	assert.True(t, selection.Remove(&group))
	assert.Equal(t, model.StringList{"A1", "X"}, selection.Items)
}

func TestSelectionRemoveEmptyGroupIsNoOp(t *testing.T) {
	group := galaGroup()
	selection := Selection{Items: model.StringList{"X", "Y"}}

	assert.False(t, selection.Remove(&group))
	assert.Equal(t, model.StringList{"X", "Y"}, selection.Items)
}

func TestSelectionRemoveKeepsSaleListConsistent(t *testing.T) {
	group := galaGroup()
	selection := Selection{
		Items:     model.StringList{"A1", "A1"},
		SaleItems: model.StringList{"A1"},
	}

	assert.True(t, selection.Remove(&group))
	assert.Equal(t, model.StringList{"A1"}, selection.Items)
	// At most one sale entry goes with the removed unit.
	assert.Empty(t, selection.SaleItems)

	assert.True(t, selection.Remove(&group))
	assert.Empty(t, selection.Items)
	assert.Empty(t, selection.SaleItems)
}

func TestSelectionRemoveLeavesUnrelatedSaleEntries(t *testing.T) {
	group := galaGroup()
	selection := Selection{
		Items:     model.StringList{"A1", "X"},
		SaleItems: model.StringList{"X"},
	}

	assert.True(t, selection.Remove(&group))
	assert.Equal(t, model.StringList{"X"}, selection.Items)
	assert.Equal(t, model.StringList{"X"}, selection.SaleItems)
}

func TestSelectionCountGroup(t *testing.T) {
	group := galaGroup()
	selection := Selection{Items: model.StringList{"A1", "A2", "X", "A1"}}

	assert.Equal(t, 3, selection.CountGroup(&group))
}
