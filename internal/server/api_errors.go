package server

import (
	"github.com/gin-gonic/gin"

	billingapp "github.com/Apurer/restaurant-backoffice/internal/domains/billing/application"
	catalogapp "github.com/Apurer/restaurant-backoffice/internal/domains/catalog/application"
	driversapp "github.com/Apurer/restaurant-backoffice/internal/domains/drivers/application"
	ordersapp "github.com/Apurer/restaurant-backoffice/internal/domains/orders/application"
	restaurantsapp "github.com/Apurer/restaurant-backoffice/internal/domains/restaurants/application"
	apierrors "github.com/Apurer/restaurant-backoffice/internal/shared/errors"
)

var responder = apierrors.NewResponder("",
	apierrors.Map(apierrors.ErrNotFound,
		ordersapp.ErrNotFound,
		billingapp.ErrNotFound,
		catalogapp.ErrNotFound,
		driversapp.ErrNotFound,
		restaurantsapp.ErrNotFound,
	),
	apierrors.Map(apierrors.ErrConflict, ordersapp.ErrInvalidTransition),
	apierrors.Map(apierrors.ErrValidation,
		ordersapp.ErrInvalidInput,
		billingapp.ErrInvalidInput,
		billingapp.ErrUnknownPeriod,
		billingapp.ErrUnknownFrequency,
		catalogapp.ErrInvalidInput,
		driversapp.ErrInvalidInput,
		restaurantsapp.ErrInvalidInput,
	),
	apierrors.Map(apierrors.ErrUnavailable,
		ordersapp.ErrPersistence,
		billingapp.ErrSourceUnavailable,
	),
)

// respondProblem writes a ProblemDetail through the shared responder.
func respondProblem(c *gin.Context, problem apierrors.ProblemDetail) {
	responder.Respond(c, problem)
}

// respondServiceError maps application errors to RFC 7807 responses.
func respondServiceError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	responder.RespondError(c, err)
}

func badRequest(c *gin.Context, err error) {
	respondProblem(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
}
