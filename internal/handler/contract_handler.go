package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"rental-service/internal/availability"
	"rental-service/internal/model"
	"rental-service/internal/service"
	"rental-service/pkg/database"
	"rental-service/pkg/logger"
	"rental-service/prometheus"
)

var contractService *service.ContractService

// InitContractHandler wires the contract service used by the handlers
func InitContractHandler(svc *service.ContractService) {
	contractService = svc
}

// ContractRequest defines the structure for contract creation requests
type ContractRequest struct {
	ClientID     string           `json:"client_id"`
	ContractType string           `json:"contract_type"`
	Items        model.StringList `json:"items"`
	SaleItems    model.StringList `json:"sale_items"`
	StartDate    string           `json:"start_date"`
	EndDate      string           `json:"end_date"`
	StartTime    string           `json:"start_time"`
	EndTime      string           `json:"end_time"`
	TotalValue   float64          `json:"total_value"`
	PaidAmount   float64          `json:"paid_amount"`
	Notes        string           `json:"notes"`
}

// ContractResponse decorates a contract with its derived fields
type ContractResponse struct {
	model.Contract
	DisplayStatus string  `json:"display_status"`
	Balance       float64 `json:"balance"`
}

func contractResponse(c *model.Contract) ContractResponse {
	return ContractResponse{
		Contract:      *c,
		DisplayStatus: c.DisplayStatus(),
		Balance:       c.Balance(),
	}
}

// ListContracts handles retrieving all contracts with optional filtering
func ListContracts(c echo.Context) error {
	log := logger.FromContext(c)

	db := database.GetDB()
	query := db
	if status := c.QueryParam("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if clientID := c.QueryParam("client_id"); clientID != "" {
		query = query.Where("client_id = ?", clientID)
	}

	var contracts []model.Contract
	if err := query.Order("created_at desc").Find(&contracts).Error; err != nil {
		log.Error("Failed to list contracts", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to retrieve contracts",
		})
	}

	responses := make([]ContractResponse, 0, len(contracts))
	for i := range contracts {
		responses = append(responses, contractResponse(&contracts[i]))
	}

	log.Info("Contracts retrieved successfully", zap.Int("count", len(responses)))
	return c.JSON(http.StatusOK, responses)
}

// GetContract handles retrieving a single contract by ID
func GetContract(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var contract model.Contract
	if err := database.GetDB().First(&contract, "id = ?", id).Error; err != nil {
		log.Error("Contract not found",
			zap.String("contract_id", id),
			zap.Error(err))
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Contract not found",
		})
	}

	return c.JSON(http.StatusOK, contractResponse(&contract))
}

// CreateContract handles creating a new contract. The requested item list
// is validated per product group against availability for the contract's
// date range before anything is persisted.
func CreateContract(c echo.Context) error {
	log := logger.FromContext(c)

	var req ContractRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}

	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"error": "start_date is required (YYYY-MM-DD)",
		})
	}

	var endDate time.Time
	if req.ContractType == model.ContractTypeSale {
		// A sale occupies a one-day range on the delivery date.
		endDate = startDate
	} else {
		endDate, err = time.Parse(dateLayout, req.EndDate)
		if err != nil {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{
				"error": "end_date is required for rental contracts (YYYY-MM-DD)",
			})
		}
	}

	conflict, err := validateSelection(c, req.Items, startDate, endDate, "")
	if err != nil {
		if errors.Is(err, availability.ErrMissingDateRange) {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{
				"error": "start_date and end_date are required",
			})
		}
		log.Error("Failed to validate selection against availability", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to compute availability",
		})
	}
	if conflict != nil {
		prometheus.AllocationRejectionsCounter.Inc()
		log.Warn("Contract creation rejected for capacity",
			zap.String("group_name", conflict.Key.Name))
		return c.JSON(http.StatusConflict, echo.Map{
			"error": "Requested units exceed availability for the selected period",
			"group": conflict.Key,
		})
	}

	contractType := req.ContractType
	if contractType == "" {
		contractType = model.ContractTypeRental
	}

	contract := model.Contract{
		ClientID:     req.ClientID,
		ContractType: contractType,
		Items:        req.Items,
		SaleItems:    req.SaleItems,
		StartDate:    startDate,
		EndDate:      endDate,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		TotalValue:   req.TotalValue,
		PaidAmount:   req.PaidAmount,
		Notes:        req.Notes,
	}

	if err := contractService.Create(&contract); err != nil {
		log.Error("Failed to create contract", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to create contract",
		})
	}

	prometheus.RecordContractOperation("create")
	return c.JSON(http.StatusCreated, contractResponse(&contract))
}

// UpdateContractItems handles replacing a contract's item list during an
// edit. The contract being edited is excluded from the occupancy scan so
// its own prior commitment does not count against itself.
func UpdateContractItems(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var req struct {
		Items      model.StringList `json:"items"`
		SaleItems  model.StringList `json:"sale_items"`
		TotalValue float64          `json:"total_value"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}

	var contract model.Contract
	if err := database.GetDB().First(&contract, "id = ?", id).Error; err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Contract not found",
		})
	}

	rangeStart, rangeEnd := contract.OccupancyRange()
	conflict, err := validateSelection(c, req.Items, rangeStart, rangeEnd, id)
	if err != nil {
		if errors.Is(err, availability.ErrMissingDateRange) {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{
				"error": "Contract has no usable date range",
			})
		}
		log.Error("Failed to validate selection against availability",
			zap.String("contract_id", id),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to compute availability",
		})
	}
	if conflict != nil {
		prometheus.AllocationRejectionsCounter.Inc()
		return c.JSON(http.StatusConflict, echo.Map{
			"error": "Requested units exceed availability for the selected period",
			"group": conflict.Key,
		})
	}

	updated, err := contractService.UpdateItems(id, req.Items, req.SaleItems, req.TotalValue)
	if err != nil {
		log.Error("Failed to update contract items",
			zap.String("contract_id", id),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to update contract",
		})
	}

	prometheus.RecordContractOperation("update_items")
	return c.JSON(http.StatusOK, contractResponse(updated))
}

// validateSelection checks every product group referenced by the item list
// against its availability for the range. Returns the first offending
// group, or nil when the whole selection fits. A snapshot-load failure or
// an unresolvable range is an error: the request must fail rather than
// skip the capacity check.
func validateSelection(c echo.Context, selected model.StringList, rangeStart, rangeEnd time.Time, excludeContractID string) (*availability.ProductGroup, error) {
	if len(selected) == 0 {
		return nil, nil
	}

	items, contracts, err := loadSnapshot(c)
	if err != nil {
		return nil, err
	}

	return availability.FindCapacityConflict(selected, items, contracts, rangeStart, rangeEnd, excludeContractID)
}

// CancelContract handles cancelling a scheduled or active contract,
// releasing all its units back to availability
func CancelContract(c echo.Context) error {
	return transitionContract(c, "cancel", func(id string) (*model.Contract, error) {
		return contractService.Cancel(id)
	})
}

// ActivateContract handles moving a scheduled contract to active
func ActivateContract(c echo.Context) error {
	return transitionContract(c, "activate", func(id string) (*model.Contract, error) {
		return contractService.Activate(id)
	})
}

// FinishContract handles closing an active contract after check-in. The
// laundry query param routes returned garments through the laundry.
func FinishContract(c echo.Context) error {
	toLaundry := c.QueryParam("laundry") == "true"
	return transitionContract(c, "finish", func(id string) (*model.Contract, error) {
		return contractService.Finish(id, toLaundry)
	})
}

func transitionContract(c echo.Context, operation string, fn func(string) (*model.Contract, error)) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	contract, err := fn(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{
				"error": "Contract not found",
			})
		}
		if errors.Is(err, service.ErrInvalidTransition) {
			return c.JSON(http.StatusConflict, echo.Map{
				"error": "Contract status does not allow this operation",
			})
		}
		log.Error("Contract transition failed",
			zap.String("contract_id", id),
			zap.String("operation", operation),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to update contract",
		})
	}

	prometheus.RecordContractOperation(operation)
	log.Info("Contract transition applied",
		zap.String("contract_id", id),
		zap.String("operation", operation),
		zap.String("status", contract.Status))
	return c.JSON(http.StatusOK, contractResponse(contract))
}

// SignContract handles recording a signature for one party
func SignContract(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var req struct {
		Party     string `json:"party"`
		Signature string `json:"signature"`
	}
	if err := c.Bind(&req); err != nil || req.Signature == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "party and signature are required",
		})
	}

	contract, err := contractService.Sign(id, req.Party, req.Signature)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{
				"error": "Contract not found",
			})
		}
		log.Error("Failed to record signature",
			zap.String("contract_id", id),
			zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": err.Error(),
		})
	}

	prometheus.RecordContractOperation("sign")
	return c.JSON(http.StatusOK, contractResponse(contract))
}

// RecordContractPayment handles adding a payment against the contract
func RecordContractPayment(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var req struct {
		Amount float64 `json:"amount"`
	}
	if err := c.Bind(&req); err != nil || req.Amount <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "amount must be positive",
		})
	}

	contract, err := contractService.RecordPayment(id, req.Amount)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{
				"error": "Contract not found",
			})
		}
		log.Error("Failed to record payment",
			zap.String("contract_id", id),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to record payment",
		})
	}

	prometheus.RecordContractOperation("payment")
	return c.JSON(http.StatusOK, contractResponse(contract))
}
