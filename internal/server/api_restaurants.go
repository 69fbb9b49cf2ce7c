package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	restaurantsports "github.com/Apurer/restaurant-backoffice/internal/domains/restaurants/ports"
)

// RestaurantsAPI exposes the restaurant directory.
type RestaurantsAPI struct {
	service restaurantsports.Service
}

func NewRestaurantsAPI(service restaurantsports.Service) RestaurantsAPI {
	return RestaurantsAPI{service: service}
}

// Get /v1/restaurants
// Lists restaurants; parentId restricts to the locations of one chain
func (api *RestaurantsAPI) ListRestaurants(c *gin.Context) {
	parentID, err := optionalString(c, "parentId")
	if err != nil {
		badRequest(c, err)
		return
	}
	list, err := api.service.List(c.Request.Context(), parentID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromRestaurants(list))
}

// Post /v1/restaurants
func (api *RestaurantsAPI) CreateRestaurant(c *gin.Context) {
	var payload RestaurantPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, err)
		return
	}
	r, err := api.service.Create(c.Request.Context(), payload.input())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, fromRestaurant(r))
}

// Get /v1/restaurants/:restaurantId
func (api *RestaurantsAPI) GetRestaurant(c *gin.Context) {
	r, err := api.service.Get(c.Request.Context(), c.Param("restaurantId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromRestaurant(r))
}
