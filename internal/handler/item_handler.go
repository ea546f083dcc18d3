package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"rental-service/internal/availability"
	"rental-service/internal/model"
	"rental-service/pkg/database"
	"rental-service/pkg/logger"
	"rental-service/prometheus"
)

// ItemRequest defines the structure for item creation/update requests
type ItemRequest struct {
	Name          string   `json:"name" validate:"required"`
	Type          string   `json:"type" validate:"required"`
	Size          string   `json:"size"`
	Color         string   `json:"color"`
	TotalQuantity int      `json:"total_quantity"`
	Status        string   `json:"status"`
	Price         float64  `json:"price" validate:"required,gt=0"`
	SalePrice     *float64 `json:"sale_price"`
	ImageURL      string   `json:"image_url"`
	Location      string   `json:"location"`
}

// GroupSummary is one line of the inventory grid: a product group with its
// current-date availability.
type GroupSummary struct {
	Key        model.GroupKey               `json:"key"`
	Items      []model.Item                 `json:"items"`
	TotalUnits int                          `json:"total_units"`
	Today      availability.DayAvailability `json:"today"`
}

// ListItems handles retrieving all items with optional filtering
func ListItems(c echo.Context) error {
	log := logger.FromContext(c)

	db := database.GetDB()
	var items []model.Item

	query := db
	if itemType := c.QueryParam("type"); itemType != "" {
		query = query.Where("type = ?", itemType)
	}
	if status := c.QueryParam("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	result := query.Order("created_at").Find(&items)
	if result.Error != nil {
		log.Error("Failed to list items", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to retrieve items",
		})
	}

	log.Info("Items retrieved successfully", zap.Int("count", len(items)))
	return c.JSON(http.StatusOK, items)
}

// ListInventory handles the grouped catalog view: items pooled by product
// group with "available today" and "rented today" counts.
func ListInventory(c echo.Context) error {
	log := logger.FromContext(c)

	db := database.GetDB()
	var items []model.Item
	if err := db.Order("created_at").Find(&items).Error; err != nil {
		log.Error("Failed to load catalog", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to retrieve inventory",
		})
	}

	var contracts []model.Contract
	if err := db.Find(&contracts).Error; err != nil {
		log.Error("Failed to load contracts", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to retrieve inventory",
		})
	}

	now := time.Now()
	groups := availability.GroupItems(items)
	summaries := make([]GroupSummary, 0, len(groups))
	for i := range groups {
		today := groups[i].TodayAvailability(contracts, now)
		summaries = append(summaries, GroupSummary{
			Key:        groups[i].Key,
			Items:      groups[i].Items,
			TotalUnits: groups[i].TotalUnits(),
			Today:      today,
		})
		prometheus.UpdateGroupAvailability(
			groups[i].Key.Name, groups[i].Key.Type, groups[i].Key.Size,
			float64(today.Available))
	}

	log.Info("Inventory retrieved", zap.Int("groups", len(summaries)))
	return c.JSON(http.StatusOK, summaries)
}

// GetItem handles retrieving a single item by ID
func GetItem(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var item model.Item
	result := database.GetDB().First(&item, "id = ?", id)
	if result.Error != nil {
		log.Error("Item not found",
			zap.String("item_id", id),
			zap.Error(result.Error))
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Item not found",
		})
	}

	return c.JSON(http.StatusOK, item)
}

// CreateItem handles adding an item to the catalog, optionally with an
// initial quantity of physical units
func CreateItem(c echo.Context) error {
	log := logger.FromContext(c)

	var req ItemRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}

	quantity := req.TotalQuantity
	if quantity < 1 {
		quantity = 1
	}
	status := req.Status
	if status == "" {
		status = model.ItemStatusAvailable
	}

	item := model.Item{
		Name:          req.Name,
		Type:          req.Type,
		Size:          req.Size,
		Color:         req.Color,
		TotalQuantity: quantity,
		Status:        status,
		Price:         req.Price,
		SalePrice:     req.SalePrice,
		ImageURL:      req.ImageURL,
		Location:      req.Location,
	}

	result := database.GetDB().Create(&item)
	if result.Error != nil {
		log.Error("Failed to create item",
			zap.String("name", req.Name),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to create item",
		})
	}

	prometheus.RecordItemOperation("create")
	log.Info("Item created successfully",
		zap.String("item_id", item.ID),
		zap.String("name", item.Name),
		zap.Int("total_quantity", item.TotalQuantity))
	return c.JSON(http.StatusCreated, item)
}

// UpdateProductGroup handles a bulk product-level edit: the changed fields
// propagate to every item sharing the group key so the pooled product
// stays consistent.
func UpdateProductGroup(c echo.Context) error {
	log := logger.FromContext(c)

	var req struct {
		Key     model.GroupKey `json:"key"`
		Updates ItemRequest    `json:"updates"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}

	updates := map[string]interface{}{
		"name":  req.Updates.Name,
		"type":  req.Updates.Type,
		"size":  req.Updates.Size,
		"color": req.Updates.Color,
		"price": req.Updates.Price,
	}
	if req.Updates.SalePrice != nil {
		updates["sale_price"] = *req.Updates.SalePrice
	}
	if req.Updates.ImageURL != "" {
		updates["image_url"] = req.Updates.ImageURL
	}
	if req.Updates.Location != "" {
		updates["location"] = req.Updates.Location
	}

	result := database.GetDB().Model(&model.Item{}).
		Where("name = ? AND type = ? AND size = ? AND color = ?",
			req.Key.Name, req.Key.Type, req.Key.Size, req.Key.Color).
		Updates(updates)
	if result.Error != nil {
		log.Error("Failed to update product group", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to update product group",
		})
	}
	if result.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Product group not found",
		})
	}

	prometheus.RecordItemOperation("group_update")
	log.Info("Product group updated",
		zap.String("name", req.Key.Name),
		zap.Int64("items_affected", result.RowsAffected))
	return c.JSON(http.StatusOK, echo.Map{
		"items_affected": result.RowsAffected,
	})
}

// AdjustItemQuantity handles adding or removing physical units of an item.
// Reducing the quantity to zero removes the record entirely.
func AdjustItemQuantity(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	delta, err := strconv.Atoi(c.QueryParam("delta"))
	if err != nil || delta == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "delta must be a non-zero integer",
		})
	}

	var item model.Item
	db := database.GetDB()
	if err := db.First(&item, "id = ?", id).Error; err != nil {
		log.Error("Item not found", zap.String("item_id", id), zap.Error(err))
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Item not found",
		})
	}

	newQuantity := item.Units() + delta
	if newQuantity < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "cannot remove more units than the item has",
		})
	}

	if newQuantity == 0 {
		// Last unit removed, drop the record.
		if err := db.Delete(&item).Error; err != nil {
			log.Error("Failed to delete item", zap.String("item_id", id), zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{
				"error": "Failed to delete item",
			})
		}
		prometheus.RecordItemOperation("delete")
		log.Info("Item removed with last unit", zap.String("item_id", id))
		return c.JSON(http.StatusOK, echo.Map{
			"message": "Item removed",
		})
	}

	item.TotalQuantity = newQuantity
	if err := db.Model(&item).Update("total_quantity", newQuantity).Error; err != nil {
		log.Error("Failed to adjust quantity", zap.String("item_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to adjust quantity",
		})
	}

	prometheus.RecordItemOperation("adjust_quantity")
	log.Info("Item quantity adjusted",
		zap.String("item_id", id),
		zap.Int("delta", delta),
		zap.Int("total_quantity", newQuantity))
	return c.JSON(http.StatusOK, item)
}

// CheckInItem handles the return of a unit from the laundry or workshop
// back to the rack
func CheckInItem(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var item model.Item
	db := database.GetDB()
	if err := db.First(&item, "id = ?", id).Error; err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Item not found",
		})
	}

	if item.Operational() {
		return c.JSON(http.StatusConflict, echo.Map{
			"error": "Item is not at the laundry or workshop",
		})
	}

	previous := item.Status
	item.Status = model.ItemStatusAvailable
	if err := db.Model(&item).Update("status", item.Status).Error; err != nil {
		log.Error("Failed to check in item", zap.String("item_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to check in item",
		})
	}

	prometheus.RecordItemOperation("check_in")
	log.Info("Item checked in",
		zap.String("item_id", id),
		zap.String("from", previous))
	return c.JSON(http.StatusOK, item)
}

// DeleteItem handles removing an item record entirely
func DeleteItem(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	result := database.GetDB().Delete(&model.Item{}, "id = ?", id)
	if result.Error != nil {
		log.Error("Failed to delete item",
			zap.String("item_id", id),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to delete item",
		})
	}
	if result.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Item not found",
		})
	}

	prometheus.RecordItemOperation("delete")
	log.Info("Item deleted successfully", zap.String("item_id", id))
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Item deleted successfully",
	})
}
