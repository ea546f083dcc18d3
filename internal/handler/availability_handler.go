package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"rental-service/internal/availability"
	"rental-service/internal/model"
	"rental-service/pkg/database"
	"rental-service/pkg/logger"
	"rental-service/prometheus"
)

const dateLayout = "2006-01-02"

// parseDateRange reads start_date/end_date query params. A missing or
// malformed date yields a zero time, which the engine rejects with
// ErrMissingDateRange rather than guessing.
func parseDateRange(c echo.Context) (time.Time, time.Time) {
	var start, end time.Time
	if v := c.QueryParam("start_date"); v != "" {
		if t, err := time.Parse(dateLayout, v); err == nil {
			start = t
		}
	}
	if v := c.QueryParam("end_date"); v != "" {
		if t, err := time.Parse(dateLayout, v); err == nil {
			end = t
		}
	}
	return start, end
}

// loadSnapshot fetches the full catalog and contract list once; all
// availability arithmetic runs against this in-memory snapshot.
func loadSnapshot(c echo.Context) ([]model.Item, []model.Contract, error) {
	db := database.GetDB()
	var items []model.Item
	if err := db.Order("created_at").Find(&items).Error; err != nil {
		return nil, nil, err
	}
	var contracts []model.Contract
	if err := db.Find(&contracts).Error; err != nil {
		return nil, nil, err
	}
	return items, contracts, nil
}

// GroupAvailability is the availability of one product group for a
// candidate date range
type GroupAvailability struct {
	Key        model.GroupKey `json:"key"`
	TotalUnits int            `json:"total_units"`
	Available  int            `json:"available"`
}

// QueryAvailability handles per-group availability resolution for a
// candidate date range, excluding an optional contract under edit.
func QueryAvailability(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.AvailabilityQueriesCounter.Inc()

	start, end := parseDateRange(c)
	excludeContract := c.QueryParam("exclude_contract")

	items, contracts, err := loadSnapshot(c)
	if err != nil {
		log.Error("Failed to load availability snapshot", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to compute availability",
		})
	}

	groups := availability.GroupItems(items)
	results := make([]GroupAvailability, 0, len(groups))
	for i := range groups {
		available, err := groups[i].AvailableUnits(start, end, contracts, excludeContract)
		if err != nil {
			if errors.Is(err, availability.ErrMissingDateRange) {
				log.Warn("Availability query without a complete date range")
				return c.JSON(http.StatusUnprocessableEntity, echo.Map{
					"error": "start_date and end_date are required",
				})
			}
			log.Error("Failed to resolve group availability", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{
				"error": "Failed to compute availability",
			})
		}
		results = append(results, GroupAvailability{
			Key:        groups[i].Key,
			TotalUnits: groups[i].TotalUnits(),
			Available:  available,
		})
	}

	log.Info("Availability resolved",
		zap.Time("start", start),
		zap.Time("end", end),
		zap.String("exclude_contract", excludeContract),
		zap.Int("groups", len(results)))
	return c.JSON(http.StatusOK, results)
}

// AllocateRequest is the body for selection adjustments while building or
// editing a contract
type AllocateRequest struct {
	StartDate       string                 `json:"start_date"`
	EndDate         string                 `json:"end_date"`
	ExcludeContract string                 `json:"exclude_contract"`
	GroupKey        model.GroupKey         `json:"group_key"`
	Delta           int                    `json:"delta"`
	Selection       availability.Selection `json:"selection"`
}

// Allocate handles adding or removing one unit of a product group in an
// in-progress contract selection, enforcing the availability ceiling at
// the add boundary.
func Allocate(c echo.Context) error {
	log := logger.FromContext(c)

	var req AllocateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}
	if req.Delta != 1 && req.Delta != -1 {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "delta must be +1 or -1",
		})
	}

	items, contracts, err := loadSnapshot(c)
	if err != nil {
		log.Error("Failed to load availability snapshot", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to compute availability",
		})
	}

	group := findGroup(availability.GroupItems(items), req.GroupKey)
	if group == nil {
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Product group not found",
		})
	}

	selection := req.Selection

	if req.Delta == 1 {
		start, _ := time.Parse(dateLayout, req.StartDate)
		end, _ := time.Parse(dateLayout, req.EndDate)

		available, err := group.AvailableUnits(start, end, contracts, req.ExcludeContract)
		if err != nil {
			if errors.Is(err, availability.ErrMissingDateRange) {
				return c.JSON(http.StatusUnprocessableEntity, echo.Map{
					"error": "start_date and end_date are required",
				})
			}
			log.Error("Failed to resolve group availability", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{
				"error": "Failed to compute availability",
			})
		}

		if err := selection.Add(group, available); err != nil {
			prometheus.AllocationRejectionsCounter.Inc()
			log.Warn("Allocation rejected at capacity ceiling",
				zap.String("group_name", req.GroupKey.Name),
				zap.Int("available", available))
			return c.JSON(http.StatusConflict, echo.Map{
				"error":     err.Error(),
				"selection": selection,
			})
		}
	} else {
		// Removal below zero is a no-op, not an error.
		selection.Remove(group)
	}

	log.Info("Selection adjusted",
		zap.String("group_name", req.GroupKey.Name),
		zap.Int("delta", req.Delta),
		zap.Int("selected", len(selection.Items)))
	return c.JSON(http.StatusOK, echo.Map{
		"selection": selection,
	})
}

func findGroup(groups []availability.ProductGroup, key model.GroupKey) *availability.ProductGroup {
	for i := range groups {
		if groups[i].Key == key {
			return &groups[i]
		}
	}
	return nil
}
