package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"rental-service/internal/model"
)

func typedItem(id, itemType string, quantity int) model.Item {
	return model.Item{
		ID:            id,
		Name:          id,
		Type:          itemType,
		TotalQuantity: quantity,
		Status:        model.ItemStatusAvailable,
	}
}

func weddingPackage() *model.Package {
	return &model.Package{
		ID:   "PKG1",
		Name: "Pacote Noiva",
		ItemsConfig: model.PackageConfig{
			{Category: "Vestido", Quantity: 2},
			{Category: "Terno", Quantity: 1},
		},
	}
}

func TestFulfillPackageAssignsSequentialSlots(t *testing.T) {
	catalog := []model.Item{
		typedItem("V1", "Vestido", 2),
		typedItem("T1", "Terno", 1),
	}

	plan, err := FulfillPackage(weddingPackage(), date(2025, 7, 1), date(2025, 7, 5),
		catalog, nil, nil, "", 2)
	require.NoError(t, err)

	// Slot indexes flatten across categories: two Vestido slots then one
	// Terno slot.
	assert.Equal(t, []string{"V1", "V1", "T1"}, plan.Slots)
	assert.True(t, plan.Complete())
}

func TestFulfillPackageMissingDateRange(t *testing.T) {
	_, err := FulfillPackage(weddingPackage(), time.Time{}, date(2025, 7, 5),
		nil, nil, nil, "", 2)
	assert.ErrorIs(t, err, ErrMissingDateRange)
}

func TestFulfillPackageUnknownCategoryUnsatisfied(t *testing.T) {
	catalog := []model.Item{
		typedItem("V1", "Vestido", 2),
	}

	plan, err := FulfillPackage(weddingPackage(), date(2025, 7, 1), date(2025, 7, 5),
		catalog, nil, nil, "", 2)
	require.NoError(t, err)

	assert.Equal(t, []string{"V1", "V1", ""}, plan.Slots)
	assert.Equal(t, []string{"Terno"}, plan.Unsatisfied)
	assert.False(t, plan.Complete())
}

func TestFulfillPackageDeduplicatesUnsatisfiedCategories(t *testing.T) {
	pkg := &model.Package{
		ID: "PKG2",
		ItemsConfig: model.PackageConfig{
			{Category: "Terno", Quantity: 3},
		},
	}

	plan, err := FulfillPackage(pkg, date(2025, 7, 1), date(2025, 7, 5),
		nil, nil, nil, "", 2)
	require.NoError(t, err)

	assert.Equal(t, []string{"", "", ""}, plan.Slots)
	assert.Equal(t, []string{"Terno"}, plan.Unsatisfied)
}

func TestFulfillPackageRespectsBufferedOverlap(t *testing.T) {
	catalog := []model.Item{
		typedItem("V1", "Vestido", 1),
	}
	pkg := &model.Package{
		ID:          "PKG3",
		ItemsConfig: model.PackageConfig{{Category: "Vestido", Quantity: 1}},
	}
	contracts := []model.Contract{
		rentalContract("C1", model.ContractStatusScheduled,
			[]string{"V1"}, date(2025, 6, 25), date(2025, 6, 30)),
	}

	// July 1st falls inside the 2-day post-return buffer of C1, so the
	// slot stays empty even though the plain overlap is clear.
	plan, err := FulfillPackage(pkg, date(2025, 7, 1), date(2025, 7, 5),
		catalog, contracts, nil, "", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{""}, plan.Slots)
	assert.Equal(t, []string{"Vestido"}, plan.Unsatisfied)

	// July 3rd is past the buffer.
	plan, err = FulfillPackage(pkg, date(2025, 7, 3), date(2025, 7, 5),
		catalog, contracts, nil, "", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"V1"}, plan.Slots)
}

func TestFulfillPackageAccountsForCommittedSelection(t *testing.T) {
	catalog := []model.Item{
		typedItem("V1", "Vestido", 2),
	}
	pkg := &model.Package{
		ID:          "PKG4",
		ItemsConfig: model.PackageConfig{{Category: "Vestido", Quantity: 2}},
	}

	// One unit of V1 is already in the contract's à-la-carte selection,
	// so only one package slot can draw from it.
	committed := &Selection{Items: model.StringList{"V1"}}

	plan, err := FulfillPackage(pkg, date(2025, 7, 1), date(2025, 7, 5),
		catalog, nil, committed, "", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"V1", ""}, plan.Slots)
	assert.Equal(t, []string{"Vestido"}, plan.Unsatisfied)
}

func TestFulfillPackageSpillsToNextCatalogItem(t *testing.T) {
	catalog := []model.Item{
		typedItem("V1", "Vestido", 1),
		typedItem("V2", "Vestido", 1),
	}
	pkg := &model.Package{
		ID:          "PKG5",
		ItemsConfig: model.PackageConfig{{Category: "Vestido", Quantity: 2}},
	}

	plan, err := FulfillPackage(pkg, date(2025, 7, 1), date(2025, 7, 5),
		catalog, nil, nil, "", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"V1", "V2"}, plan.Slots)
}

func TestFulfillPackageSkipsNonPositiveQuantities(t *testing.T) {
	catalog := []model.Item{
		typedItem("V1", "Vestido", 1),
		typedItem("T1", "Terno", 2),
	}
	pkg := &model.Package{
		ID: "PKG7",
		ItemsConfig: model.PackageConfig{
			{Category: "Vestido", Quantity: -1},
			{Category: "Terno", Quantity: 2},
		},
	}

	// A non-positive quantity contributes no slots; later categories must
	// still land on valid slot indexes.
	plan, err := FulfillPackage(pkg, date(2025, 7, 1), date(2025, 7, 5),
		catalog, nil, nil, "", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"T1", "T1"}, plan.Slots)
	assert.True(t, plan.Complete())
}

func TestFulfillPackageExcludesContractUnderEdit(t *testing.T) {
	catalog := []model.Item{
		typedItem("V1", "Vestido", 1),
	}
	pkg := &model.Package{
		ID:          "PKG6",
		ItemsConfig: model.PackageConfig{{Category: "Vestido", Quantity: 1}},
	}
	contracts := []model.Contract{
		rentalContract("C9", model.ContractStatusScheduled,
			[]string{"V1"}, date(2025, 7, 1), date(2025, 7, 5)),
	}

	plan, err := FulfillPackage(pkg, date(2025, 7, 1), date(2025, 7, 5),
		catalog, contracts, nil, "C9", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"V1"}, plan.Slots)
}
