package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"rental-service/internal/model"
	"rental-service/pkg/cep"
	"rental-service/pkg/database"
	"rental-service/pkg/logger"
)

var cepClient *cep.Client

// InitClientHandler wires the address lookup client
func InitClientHandler(client *cep.Client) {
	cepClient = client
}

// ClientRequest defines the structure for client creation/update requests
type ClientRequest struct {
	Name       string `json:"name" validate:"required"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	CPF        string `json:"cpf"`
	CEP        string `json:"cep"`
	Street     string `json:"street"`
	Number     string `json:"number"`
	Complement string `json:"complement"`
}

// ListClients handles retrieving all clients
func ListClients(c echo.Context) error {
	log := logger.FromContext(c)

	var clients []model.RentalClient
	query := database.GetDB()
	if name := c.QueryParam("name"); name != "" {
		query = query.Where("name ILIKE ?", "%"+name+"%")
	}
	if err := query.Order("name").Find(&clients).Error; err != nil {
		log.Error("Failed to list clients", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to retrieve clients",
		})
	}

	return c.JSON(http.StatusOK, clients)
}

// GetClient handles retrieving a single client by ID
func GetClient(c echo.Context) error {
	id := c.Param("id")

	var client model.RentalClient
	if err := database.GetDB().First(&client, "id = ?", id).Error; err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Client not found",
		})
	}

	return c.JSON(http.StatusOK, client)
}

// CreateClient handles creating a new client. When a CEP is supplied the
// address fields are autofilled from the lookup service; lookup failure is
// logged and ignored.
func CreateClient(c echo.Context) error {
	log := logger.FromContext(c)

	var req ClientRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}

	client := model.RentalClient{
		Name:       req.Name,
		Phone:      req.Phone,
		Email:      req.Email,
		CPF:        req.CPF,
		CEP:        req.CEP,
		Street:     req.Street,
		Number:     req.Number,
		Complement: req.Complement,
	}
	fillAddress(&client, log)

	if err := database.GetDB().Create(&client).Error; err != nil {
		log.Error("Failed to create client",
			zap.String("name", req.Name),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to create client",
		})
	}

	log.Info("Client created",
		zap.String("client_id", client.ID),
		zap.String("name", client.Name))
	return c.JSON(http.StatusCreated, client)
}

// UpdateClient handles updating an existing client
func UpdateClient(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var req ClientRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}

	var client model.RentalClient
	db := database.GetDB()
	if err := db.First(&client, "id = ?", id).Error; err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Client not found",
		})
	}

	cepChanged := req.CEP != "" && req.CEP != client.CEP

	client.Name = req.Name
	client.Phone = req.Phone
	client.Email = req.Email
	client.CPF = req.CPF
	client.CEP = req.CEP
	client.Street = req.Street
	client.Number = req.Number
	client.Complement = req.Complement

	if cepChanged {
		fillAddress(&client, log)
	}

	if err := db.Save(&client).Error; err != nil {
		log.Error("Failed to update client",
			zap.String("client_id", id),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to update client",
		})
	}

	return c.JSON(http.StatusOK, client)
}

// DeleteClient handles removing a client
func DeleteClient(c echo.Context) error {
	id := c.Param("id")

	result := database.GetDB().Delete(&model.RentalClient{}, "id = ?", id)
	if result.Error != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to delete client",
		})
	}
	if result.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Client not found",
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Client deleted successfully",
	})
}

func fillAddress(client *model.RentalClient, log *zap.Logger) {
	if cepClient == nil || client.CEP == "" || client.Street != "" {
		return
	}
	addr, err := cepClient.LookupWithRetry(client.CEP)
	if err != nil {
		log.Warn("Address lookup failed",
			zap.String("cep", client.CEP),
			zap.Error(err))
		return
	}
	client.Street = addr.Street
	client.Neighborhood = addr.Neighborhood
	client.City = addr.City
	client.State = addr.State
}
