package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	ordermapper "github.com/Apurer/restaurant-backoffice/internal/domains/orders/adapters/http/mapper"
	ordersports "github.com/Apurer/restaurant-backoffice/internal/domains/orders/ports"
	apierrors "github.com/Apurer/restaurant-backoffice/internal/shared/errors"
)

// AlertStream upgrades a request to a live alert event stream.
type AlertStream interface {
	Serve(w http.ResponseWriter, r *http.Request)
}

// AlertsAPI exposes new-order alerts.
type AlertsAPI struct {
	service ordersports.Service
	stream  AlertStream
}

func NewAlertsAPI(service ordersports.Service, stream AlertStream) AlertsAPI {
	return AlertsAPI{service: service, stream: stream}
}

// Get /v1/alerts
// Lists the alerts that are still visible
func (api *AlertsAPI) ListAlerts(c *gin.Context) {
	c.JSON(http.StatusOK, ordermapper.FromAlerts(api.service.ActiveAlerts()))
}

// Delete /v1/alerts/:requestId
// Dismisses an alert before it expires
func (api *AlertsAPI) DismissAlert(c *gin.Context) {
	id, ok := requestID(c)
	if !ok {
		return
	}
	if !api.service.DismissAlert(c.Request.Context(), id) {
		respondProblem(c, apierrors.NewNotFoundProblem("alert", id))
		return
	}
	c.Status(http.StatusNoContent)
}

// Get /v1/alerts/stream
// Streams alert and lifecycle events over a websocket
func (api *AlertsAPI) StreamAlerts(c *gin.Context) {
	if api.stream == nil {
		respondProblem(c, apierrors.ErrUnavailable.WithDetail("alert stream not configured"))
		return
	}
	api.stream.Serve(c.Writer, c.Request)
}
