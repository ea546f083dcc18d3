package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"rental-service/internal/model"
)

func catalogItem(id, name string, quantity int) model.Item {
	return model.Item{
		ID:            id,
		Name:          name,
		Type:          "Vestido",
		Size:          "M",
		TotalQuantity: quantity,
		Status:        model.ItemStatusAvailable,
	}
}

func TestAvailableUnitsNoContracts(t *testing.T) {
	item := catalogItem("A", "Vestido Gala", 3)

	available, err := AvailableUnits(&item, date(2025, 7, 1), date(2025, 7, 5), nil, "")
	require.NoError(t, err)
	assert.Equal(t, 3, available)
}

func TestAvailableUnitsMissingDateRange(t *testing.T) {
	item := catalogItem("A", "Vestido Gala", 3)

	_, err := AvailableUnits(&item, time.Time{}, date(2025, 7, 5), nil, "")
	assert.ErrorIs(t, err, ErrMissingDateRange)

	_, err = AvailableUnits(&item, date(2025, 7, 1), time.Time{}, nil, "")
	assert.ErrorIs(t, err, ErrMissingDateRange)
}

func TestAvailableUnitsClampedAtZero(t *testing.T) {
	item := catalogItem("A", "Vestido Gala", 1)
	contracts := []model.Contract{
		rentalContract("C1", model.ContractStatusScheduled,
			[]string{"A", "A", "A"}, date(2025, 7, 1), date(2025, 7, 5)),
	}

	available, err := AvailableUnits(&item, date(2025, 7, 1), date(2025, 7, 5), contracts, "")
	require.NoError(t, err)
	assert.Equal(t, 0, available)
}

func TestAvailableUnitsLegacySingleUnitDefault(t *testing.T) {
	item := model.Item{ID: "L", Name: "Gravata", Type: "Acessório"}

	available, err := AvailableUnits(&item, date(2025, 7, 1), date(2025, 7, 5), nil, "")
	require.NoError(t, err)
	assert.Equal(t, 1, available)
}

func TestAvailableUnitsOverlappingContract(t *testing.T) {
	item := catalogItem("A", "Vestido Gala", 3)
	contracts := []model.Contract{
		rentalContract("C1", model.ContractStatusScheduled,
			[]string{"A", "A"}, date(2025, 7, 1), date(2025, 7, 5)),
	}

	available, err := AvailableUnits(&item, date(2025, 7, 3), date(2025, 7, 10), contracts, "")
	require.NoError(t, err)
	assert.Equal(t, 1, available)

	available, err = AvailableUnits(&item, date(2025, 7, 6), date(2025, 7, 10), contracts, "")
	require.NoError(t, err)
	assert.Equal(t, 3, available)
}

func TestAvailableUnitsAfterCancellation(t *testing.T) {
	item := catalogItem("A", "Vestido Gala", 3)
	contracts := []model.Contract{
		rentalContract("C1", model.ContractStatusScheduled,
			[]string{"A", "A"}, date(2025, 7, 1), date(2025, 7, 5)),
	}

	contracts[0].Status = model.ContractStatusCancelled

	available, err := AvailableUnits(&item, date(2025, 7, 3), date(2025, 7, 10), contracts, "")
	require.NoError(t, err)
	assert.Equal(t, 3, available)
}

func TestAvailableUnitsExcludesContractUnderEdit(t *testing.T) {
	item := catalogItem("D", "Terno Slim", 2)
	contracts := []model.Contract{
		rentalContract("C2", model.ContractStatusScheduled,
			[]string{"D", "D"}, date(2025, 7, 1), date(2025, 7, 5)),
	}

	withExclusion, err := AvailableUnits(&item, date(2025, 7, 1), date(2025, 7, 5), contracts, "C2")
	require.NoError(t, err)
	assert.Equal(t, 2, withExclusion)

	withoutExclusion, err := AvailableUnits(&item, date(2025, 7, 1), date(2025, 7, 5), contracts, "")
	require.NoError(t, err)
	assert.Equal(t, 0, withoutExclusion)
}

func TestTodayAvailabilityMaintenanceBlocksOneUnit(t *testing.T) {
	item := catalogItem("B", "Vestido Festa", 1)
	item.Status = model.ItemStatusLaundry

	day := TodayAvailability(&item, nil, date(2025, 7, 1))
	assert.Equal(t, 0, day.Available)
	assert.Equal(t, 0, day.Booked)
	assert.Equal(t, 1, day.Maintenance)
}

func TestTodayAvailabilityMaintenanceBlocksExactlyOne(t *testing.T) {
	item := catalogItem("B", "Vestido Festa", 5)
	item.Status = model.ItemStatusQuarantine

	day := TodayAvailability(&item, nil, date(2025, 7, 1))
	assert.Equal(t, 4, day.Available)
	assert.Equal(t, 1, day.Maintenance)
}

func TestTodayAvailabilityCombinesBookingAndCustody(t *testing.T) {
	item := catalogItem("B", "Vestido Festa", 3)
	item.Status = model.ItemStatusAtelier
	contracts := []model.Contract{
		rentalContract("C1", model.ContractStatusActive,
			[]string{"B"}, date(2025, 6, 28), date(2025, 7, 2)),
	}

	day := TodayAvailability(&item, contracts, date(2025, 7, 1))
	assert.Equal(t, 1, day.Available)
	assert.Equal(t, 1, day.Booked)
	assert.Equal(t, 1, day.Maintenance)
}

func TestGroupItemsPoolsByKey(t *testing.T) {
	items := []model.Item{
		catalogItem("A1", "Vestido Gala", 2),
		catalogItem("A2", "Vestido Gala", 1),
		catalogItem("B1", "Terno Slim", 1),
	}

	groups := GroupItems(items)
	require.Len(t, groups, 2)
	assert.Len(t, groups[0].Items, 2)
	assert.Equal(t, 3, groups[0].TotalUnits())
	assert.Len(t, groups[1].Items, 1)
}

func TestGroupAvailabilitySumsMembers(t *testing.T) {
	items := []model.Item{
		catalogItem("A1", "Vestido Gala", 2),
		catalogItem("A2", "Vestido Gala", 1),
	}
	contracts := []model.Contract{
		rentalContract("C1", model.ContractStatusScheduled,
			[]string{"A1"}, date(2025, 7, 1), date(2025, 7, 5)),
	}

	groups := GroupItems(items)
	require.Len(t, groups, 1)

	available, err := groups[0].AvailableUnits(date(2025, 7, 1), date(2025, 7, 5), contracts, "")
	require.NoError(t, err)
	assert.Equal(t, 2, available)
}

func TestFindCapacityConflictDetectsOversell(t *testing.T) {
	items := []model.Item{
		catalogItem("A1", "Vestido Gala", 2),
		catalogItem("B1", "Terno Slim", 1),
	}
	contracts := []model.Contract{
		rentalContract("C1", model.ContractStatusScheduled,
			[]string{"A1"}, date(2025, 7, 1), date(2025, 7, 5)),
	}

	// Two requested units of a group with one free unit conflict.
	conflict, err := FindCapacityConflict(model.StringList{"A1", "A1"},
		items, contracts, date(2025, 7, 1), date(2025, 7, 5), "")
	require.NoError(t, err)
	require.NotNil(t, conflict)
	assert.Equal(t, "Vestido Gala", conflict.Key.Name)

	// One unit fits.
	conflict, err = FindCapacityConflict(model.StringList{"A1"},
		items, contracts, date(2025, 7, 1), date(2025, 7, 5), "")
	require.NoError(t, err)
	assert.Nil(t, conflict)
}

func TestFindCapacityConflictEmptySelection(t *testing.T) {
	conflict, err := FindCapacityConflict(nil, nil, nil, time.Time{}, time.Time{}, "")
	require.NoError(t, err)
	assert.Nil(t, conflict)
}

func TestFindCapacityConflictMissingRangeIsError(t *testing.T) {
	items := []model.Item{catalogItem("A1", "Vestido Gala", 2)}

	// An unresolvable range must surface as an error, never as "fits".
	_, err := FindCapacityConflict(model.StringList{"A1"},
		items, nil, time.Time{}, date(2025, 7, 5), "")
	assert.ErrorIs(t, err, ErrMissingDateRange)
}

func TestFindCapacityConflictExcludesContractUnderEdit(t *testing.T) {
	items := []model.Item{catalogItem("D1", "Terno Slim", 2)}
	contracts := []model.Contract{
		rentalContract("C2", model.ContractStatusScheduled,
			[]string{"D1", "D1"}, date(2025, 7, 1), date(2025, 7, 5)),
	}

	conflict, err := FindCapacityConflict(model.StringList{"D1", "D1"},
		items, contracts, date(2025, 7, 1), date(2025, 7, 5), "C2")
	require.NoError(t, err)
	assert.Nil(t, conflict)

	conflict, err = FindCapacityConflict(model.StringList{"D1", "D1"},
		items, contracts, date(2025, 7, 1), date(2025, 7, 5), "")
	require.NoError(t, err)
	assert.NotNil(t, conflict)
}

func TestGroupKeyNormalizesMissingColor(t *testing.T) {
	a := model.Item{ID: "1", Name: "Vestido", Type: "Vestido", Size: "M", Color: ""}
	b := model.Item{ID: "2", Name: "Vestido", Type: "Vestido", Size: "M"}

	groups := GroupItems([]model.Item{a, b})
	assert.Len(t, groups, 1)
}
