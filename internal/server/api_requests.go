package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	ordermapper "github.com/Apurer/restaurant-backoffice/internal/domains/orders/adapters/http/mapper"
	"github.com/Apurer/restaurant-backoffice/internal/domains/orders/domain"
	ordersports "github.com/Apurer/restaurant-backoffice/internal/domains/orders/ports"
	apierrors "github.com/Apurer/restaurant-backoffice/internal/shared/errors"
)

// RequestsAPI wires HTTP transport with the orders service and the dispatch orchestrator.
type RequestsAPI struct {
	service  ordersports.Service
	dispatch ordersports.DispatchOrchestrator
}

// NewRequestsAPI creates a RequestsAPI. A nil orchestrator dispatches through the service.
func NewRequestsAPI(service ordersports.Service, dispatch ordersports.DispatchOrchestrator) RequestsAPI {
	return RequestsAPI{service: service, dispatch: dispatch}
}

// Get /v1/requests
// Lists inventory requests of one view
func (api *RequestsAPI) ListRequests(c *gin.Context) {
	view, err := optionalString(c, "view")
	if err != nil {
		badRequest(c, err)
		return
	}
	restaurantID, err := optionalString(c, "restaurantId")
	if err != nil {
		badRequest(c, err)
		return
	}
	month, year, err := monthYear(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	loc, err := location(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	list, err := api.service.List(c.Request.Context(), ordersports.ListQuery{
		View:         ordersports.View(strings.ToLower(view)),
		RestaurantID: restaurantID,
		Month:        month,
		Year:         year,
		Location:     loc,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordermapper.FromDomainList(list))
}

// Post /v1/requests
// Submits a new inventory request
func (api *RequestsAPI) SubmitRequest(c *gin.Context) {
	var payload ordermapper.SubmitRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, err)
		return
	}
	req, err := api.service.Submit(c.Request.Context(), ordermapper.ToSubmitInput(payload))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ordermapper.FromDomain(req))
}

// Get /v1/requests/:requestId
func (api *RequestsAPI) GetRequest(c *gin.Context) {
	id, ok := requestID(c)
	if !ok {
		return
	}
	req, err := api.service.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordermapper.FromDomain(req))
}

// Post /v1/requests/:requestId/accept
func (api *RequestsAPI) AcceptRequest(c *gin.Context) {
	api.transition(c, api.service.Accept)
}

// Post /v1/requests/:requestId/reject
func (api *RequestsAPI) RejectRequest(c *gin.Context) {
	api.transition(c, api.service.Reject)
}

// Post /v1/requests/:requestId/confirm
// Confirms an accepted request for billing
func (api *RequestsAPI) ConfirmRequest(c *gin.Context) {
	api.transition(c, api.service.Confirm)
}

// Post /v1/requests/:requestId/dispatch
// Marks an accepted request dispatched and notifies every driver
func (api *RequestsAPI) DispatchRequest(c *gin.Context) {
	id, ok := requestID(c)
	if !ok {
		return
	}
	var (
		report *ordersports.DispatchReport
		err    error
	)
	if api.dispatch != nil {
		report, err = api.dispatch.Dispatch(c.Request.Context(), id)
	} else {
		report, err = api.service.Dispatch(c.Request.Context(), id)
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordermapper.FromDispatchReport(report))
}

func (api *RequestsAPI) transition(c *gin.Context, action func(ctx context.Context, id string) (*domain.InventoryRequest, error)) {
	id, ok := requestID(c)
	if !ok {
		return
	}
	req, err := action(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordermapper.FromDomain(req))
}

func requestID(c *gin.Context) (string, bool) {
	id := strings.TrimSpace(c.Param("requestId"))
	if id == "" {
		respondProblem(c, apierrors.ErrBadRequest.WithDetail("requestId is required"))
		return "", false
	}
	return id, true
}
