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

var fulfillmentBufferDays = 2

// InitPackageHandler sets the post-return buffer used in fulfillment
func InitPackageHandler(bufferDays int) {
	fulfillmentBufferDays = bufferDays
}

// PackageRequest defines the structure for package creation/update requests
type PackageRequest struct {
	Name        string              `json:"name" validate:"required"`
	Description string              `json:"description"`
	Price       float64             `json:"price" validate:"required,gt=0"`
	ItemsConfig model.PackageConfig `json:"items_config"`
}

// ListPackages handles retrieving all package definitions
func ListPackages(c echo.Context) error {
	log := logger.FromContext(c)

	var packages []model.Package
	if err := database.GetDB().Order("name").Find(&packages).Error; err != nil {
		log.Error("Failed to list packages", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to retrieve packages",
		})
	}

	return c.JSON(http.StatusOK, packages)
}

// GetPackage handles retrieving a single package by ID
func GetPackage(c echo.Context) error {
	id := c.Param("id")

	var pkg model.Package
	if err := database.GetDB().First(&pkg, "id = ?", id).Error; err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Package not found",
		})
	}

	return c.JSON(http.StatusOK, pkg)
}

// CreatePackage handles creating a new package definition
func CreatePackage(c echo.Context) error {
	log := logger.FromContext(c)

	var req PackageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}
	if err := req.ItemsConfig.Validate(); err != nil {
		log.Warn("Rejected invalid package configuration", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": err.Error(),
		})
	}

	pkg := model.Package{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ItemsConfig: req.ItemsConfig,
	}

	if err := database.GetDB().Create(&pkg).Error; err != nil {
		log.Error("Failed to create package",
			zap.String("name", req.Name),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to create package",
		})
	}

	log.Info("Package created",
		zap.String("package_id", pkg.ID),
		zap.String("name", pkg.Name),
		zap.Int("slots", pkg.ItemsConfig.TotalSlots()))
	return c.JSON(http.StatusCreated, pkg)
}

// UpdatePackage handles updating an existing package definition
func UpdatePackage(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var req PackageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}
	if err := req.ItemsConfig.Validate(); err != nil {
		log.Warn("Rejected invalid package configuration", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": err.Error(),
		})
	}

	var pkg model.Package
	db := database.GetDB()
	if err := db.First(&pkg, "id = ?", id).Error; err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Package not found",
		})
	}

	pkg.Name = req.Name
	pkg.Description = req.Description
	pkg.Price = req.Price
	pkg.ItemsConfig = req.ItemsConfig

	if err := db.Save(&pkg).Error; err != nil {
		log.Error("Failed to update package",
			zap.String("package_id", id),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to update package",
		})
	}

	return c.JSON(http.StatusOK, pkg)
}

// DeletePackage handles removing a package definition
func DeletePackage(c echo.Context) error {
	id := c.Param("id")

	result := database.GetDB().Delete(&model.Package{}, "id = ?", id)
	if result.Error != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to delete package",
		})
	}
	if result.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Package not found",
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Package deleted successfully",
	})
}

// FulfillRequest is the body for package fulfillment
type FulfillRequest struct {
	StartDate       string                 `json:"start_date"`
	EndDate         string                 `json:"end_date"`
	ExcludeContract string                 `json:"exclude_contract"`
	Selection       availability.Selection `json:"selection"`
}

// FulfillPackage handles the explicit package selection action: slots are
// auto-assigned and unsatisfied categories are surfaced as warnings.
func FulfillPackage(c echo.Context) error {
	return fulfillPackage(c, false)
}

// ResyncPackage handles the silent re-fulfillment triggered by a date
// change while a package stays selected: the plan is recomputed but
// unsatisfied categories produce no warning payload.
func ResyncPackage(c echo.Context) error {
	return fulfillPackage(c, true)
}

func fulfillPackage(c echo.Context, silent bool) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var req FulfillRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}

	var pkg model.Package
	if err := database.GetDB().First(&pkg, "id = ?", id).Error; err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Package not found",
		})
	}

	start, _ := time.Parse(dateLayout, req.StartDate)
	end, _ := time.Parse(dateLayout, req.EndDate)

	items, contracts, err := loadSnapshot(c)
	if err != nil {
		log.Error("Failed to load availability snapshot", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to fulfill package",
		})
	}

	plan, err := availability.FulfillPackage(&pkg, start, end, items, contracts,
		&req.Selection, req.ExcludeContract, fulfillmentBufferDays)
	if err != nil {
		if errors.Is(err, availability.ErrMissingDateRange) {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{
				"error": "start_date and end_date are required",
			})
		}
		log.Error("Package fulfillment failed",
			zap.String("package_id", id),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to fulfill package",
		})
	}

	for _, category := range plan.Unsatisfied {
		prometheus.RecordUnsatisfiedCategory(category)
	}

	log.Info("Package fulfillment computed",
		zap.String("package_id", id),
		zap.Bool("silent", silent),
		zap.Bool("complete", plan.Complete()),
		zap.Strings("unsatisfied", plan.Unsatisfied))

	response := echo.Map{"slots": plan.Slots}
	if !silent {
		// Warnings surface only on the explicit selection action.
		response["unsatisfied"] = plan.Unsatisfied
	}
	return c.JSON(http.StatusOK, response)
}
