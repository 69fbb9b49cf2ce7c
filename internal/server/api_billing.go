package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	billingmapper "github.com/Apurer/restaurant-backoffice/internal/domains/billing/adapters/http/mapper"
	billingports "github.com/Apurer/restaurant-backoffice/internal/domains/billing/ports"
)

// BillingAPI exposes statements, chain totals, settings and invoices.
type BillingAPI struct {
	service billingports.Service
}

func NewBillingAPI(service billingports.Service) BillingAPI {
	return BillingAPI{service: service}
}

// Get /v1/billing/statement
// Builds the consolidated statement of a location
func (api *BillingAPI) GetStatement(c *gin.Context) {
	restaurantID, err := requiredString(c, "restaurantId")
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
	period, err := optionalString(c, "period")
	if err != nil {
		badRequest(c, err)
		return
	}
	ref, err := reference(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	view, err := api.service.Statement(c.Request.Context(), billingports.StatementQuery{
		RestaurantID: restaurantID,
		Month:        month,
		Year:         year,
		Location:     loc,
		Period:       period,
		Reference:    ref,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, billingmapper.FromStatementView(view))
}

// Get /v1/billing/totals
// Sums billable orders per restaurant since the period cutoff
func (api *BillingAPI) GetTotals(c *gin.Context) {
	period, err := optionalString(c, "period")
	if err != nil {
		badRequest(c, err)
		return
	}
	ref, err := reference(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	totals, err := api.service.Totals(c.Request.Context(), billingports.TotalsQuery{Period: period, Reference: ref})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, billingmapper.FromTotals(totals))
}

// Get /v1/billing/settings/:restaurantId
func (api *BillingAPI) GetSettings(c *gin.Context) {
	settings, err := api.service.Settings(c.Request.Context(), strings.TrimSpace(c.Param("restaurantId")))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, billingmapper.FromSettings(settings))
}

// Put /v1/billing/settings/:restaurantId
// Upserts the invoice email and frequency
func (api *BillingAPI) SaveSettings(c *gin.Context) {
	var payload billingmapper.SettingsPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, err)
		return
	}
	input := billingmapper.ToSettingsInput(strings.TrimSpace(c.Param("restaurantId")), payload)
	settings, err := api.service.SaveSettings(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, billingmapper.FromSettings(settings))
}

// Get /v1/billing/invoices
func (api *BillingAPI) ListInvoices(c *gin.Context) {
	restaurantID, err := requiredString(c, "restaurantId")
	if err != nil {
		badRequest(c, err)
		return
	}
	invoices, err := api.service.Invoices(c.Request.Context(), restaurantID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, billingmapper.FromInvoices(invoices))
}
