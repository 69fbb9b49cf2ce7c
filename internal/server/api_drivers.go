package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	driversports "github.com/Apurer/restaurant-backoffice/internal/domains/drivers/ports"
)

// DriversAPI exposes the driver roster.
type DriversAPI struct {
	service driversports.Service
}

func NewDriversAPI(service driversports.Service) DriversAPI {
	return DriversAPI{service: service}
}

// Get /v1/drivers
func (api *DriversAPI) ListDrivers(c *gin.Context) {
	drivers, err := api.service.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromDrivers(drivers))
}

// Post /v1/drivers
func (api *DriversAPI) CreateDriver(c *gin.Context) {
	var payload DriverPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, err)
		return
	}
	driver, err := api.service.Create(c.Request.Context(), payload.input())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, fromDriver(driver))
}

// Get /v1/drivers/:driverId
func (api *DriversAPI) GetDriver(c *gin.Context) {
	driver, err := api.service.Get(c.Request.Context(), c.Param("driverId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromDriver(driver))
}

// Put /v1/drivers/:driverId
func (api *DriversAPI) UpdateDriver(c *gin.Context) {
	var payload DriverPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, err)
		return
	}
	driver, err := api.service.Update(c.Request.Context(), c.Param("driverId"), payload.input())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromDriver(driver))
}

// Delete /v1/drivers/:driverId
func (api *DriversAPI) DeleteDriver(c *gin.Context) {
	if err := api.service.Delete(c.Request.Context(), c.Param("driverId")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
