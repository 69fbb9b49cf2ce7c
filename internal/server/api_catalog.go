package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	catalogports "github.com/Apurer/restaurant-backoffice/internal/domains/catalog/ports"
)

// CatalogAPI exposes item management.
type CatalogAPI struct {
	service catalogports.Service
}

func NewCatalogAPI(service catalogports.Service) CatalogAPI {
	return CatalogAPI{service: service}
}

// Get /v1/items
// Lists items ordered by name
func (api *CatalogAPI) ListItems(c *gin.Context) {
	items, err := api.service.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromItems(items))
}

// Post /v1/items
func (api *CatalogAPI) CreateItem(c *gin.Context) {
	var payload ItemPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, err)
		return
	}
	item, err := api.service.Create(c.Request.Context(), payload.input())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, fromItem(item))
}

// Get /v1/items/:itemId
func (api *CatalogAPI) GetItem(c *gin.Context) {
	item, err := api.service.Get(c.Request.Context(), c.Param("itemId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromItem(item))
}

// Put /v1/items/:itemId
func (api *CatalogAPI) UpdateItem(c *gin.Context) {
	var payload ItemPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, err)
		return
	}
	item, err := api.service.Update(c.Request.Context(), c.Param("itemId"), payload.input())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromItem(item))
}

// Delete /v1/items/:itemId
func (api *CatalogAPI) DeleteItem(c *gin.Context) {
	if err := api.service.Delete(c.Request.Context(), c.Param("itemId")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Put /v1/items/:itemId/cutoff
// Sets the weekly ordering deadline of an item
func (api *CatalogAPI) SetCutOff(c *gin.Context) {
	var payload CutOffPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, err)
		return
	}
	item, err := api.service.SetCutOff(c.Request.Context(), c.Param("itemId"), payload.Day, payload.Time)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromItem(item))
}
