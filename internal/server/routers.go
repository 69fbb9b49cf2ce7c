package server

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/Apurer/restaurant-backoffice/internal/platform/metrics"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
}

// ApiHandleFunctions bundles the handlers of every resource group.
type ApiHandleFunctions struct {
	RequestsAPI    RequestsAPI
	AlertsAPI      AlertsAPI
	BillingAPI     BillingAPI
	CatalogAPI     CatalogAPI
	DriversAPI     DriversAPI
	RestaurantsAPI RestaurantsAPI
	HealthAPI      HealthAPI
}

// Options configures the middleware stack installed by NewRouter.
type Options struct {
	ServiceName    string
	AllowedOrigins []string
	Metrics        *metrics.ServerMetrics
	Logger         *slog.Logger
}

// NewRouter returns a new router with middleware and every route registered.
func NewRouter(handleFunctions ApiHandleFunctions, opts Options) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	if opts.ServiceName != "" {
		router.Use(otelgin.Middleware(opts.ServiceName))
	}
	router.Use(cors.New(corsConfig(opts.AllowedOrigins)))
	if opts.Logger != nil {
		router.Use(requestLogger(opts.Logger))
	}
	if opts.Metrics != nil {
		router.Use(opts.Metrics.Middleware())
		router.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}
	return NewRouterWithGinEngine(router, handleFunctions)
}

// NewRouterWithGinEngine adds the routes to an existing engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		switch route.Method {
		case http.MethodGet:
			router.GET(route.Pattern, route.HandlerFunc)
		case http.MethodPost:
			router.POST(route.Pattern, route.HandlerFunc)
		case http.MethodPut:
			router.PUT(route.Pattern, route.HandlerFunc)
		case http.MethodDelete:
			router.DELETE(route.Pattern, route.HandlerFunc)
		}
	}
	return router
}

// DefaultHandleFunc answers routes whose handler was not wired.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	var allowed []string
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
		if origin != "" {
			allowed = append(allowed, origin)
		}
	}
	if len(allowed) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = allowed
	return cfg
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		level := slog.LevelInfo
		if c.Writer.Status() >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		attrs := []slog.Attr{
			slog.String("method", c.Request.Method),
			slog.String("route", c.FullPath()),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("latency", time.Since(start)),
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, slog.String("error", c.Errors.String()))
		}
		logger.LogAttrs(c.Request.Context(), level, "http request", attrs...)
	}
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{"Healthz", http.MethodGet, "/healthz", handleFunctions.HealthAPI.Healthz},

		{"ListRequests", http.MethodGet, "/v1/requests", handleFunctions.RequestsAPI.ListRequests},
		{"SubmitRequest", http.MethodPost, "/v1/requests", handleFunctions.RequestsAPI.SubmitRequest},
		{"GetRequest", http.MethodGet, "/v1/requests/:requestId", handleFunctions.RequestsAPI.GetRequest},
		{"AcceptRequest", http.MethodPost, "/v1/requests/:requestId/accept", handleFunctions.RequestsAPI.AcceptRequest},
		{"RejectRequest", http.MethodPost, "/v1/requests/:requestId/reject", handleFunctions.RequestsAPI.RejectRequest},
		{"ConfirmRequest", http.MethodPost, "/v1/requests/:requestId/confirm", handleFunctions.RequestsAPI.ConfirmRequest},
		{"DispatchRequest", http.MethodPost, "/v1/requests/:requestId/dispatch", handleFunctions.RequestsAPI.DispatchRequest},

		{"ListAlerts", http.MethodGet, "/v1/alerts", handleFunctions.AlertsAPI.ListAlerts},
		{"StreamAlerts", http.MethodGet, "/v1/alerts/stream", handleFunctions.AlertsAPI.StreamAlerts},
		{"DismissAlert", http.MethodDelete, "/v1/alerts/:requestId", handleFunctions.AlertsAPI.DismissAlert},

		{"GetStatement", http.MethodGet, "/v1/billing/statement", handleFunctions.BillingAPI.GetStatement},
		{"GetTotals", http.MethodGet, "/v1/billing/totals", handleFunctions.BillingAPI.GetTotals},
		{"GetBillingSettings", http.MethodGet, "/v1/billing/settings/:restaurantId", handleFunctions.BillingAPI.GetSettings},
		{"SaveBillingSettings", http.MethodPut, "/v1/billing/settings/:restaurantId", handleFunctions.BillingAPI.SaveSettings},
		{"ListInvoices", http.MethodGet, "/v1/billing/invoices", handleFunctions.BillingAPI.ListInvoices},

		{"ListItems", http.MethodGet, "/v1/items", handleFunctions.CatalogAPI.ListItems},
		{"CreateItem", http.MethodPost, "/v1/items", handleFunctions.CatalogAPI.CreateItem},
		{"GetItem", http.MethodGet, "/v1/items/:itemId", handleFunctions.CatalogAPI.GetItem},
		{"UpdateItem", http.MethodPut, "/v1/items/:itemId", handleFunctions.CatalogAPI.UpdateItem},
		{"DeleteItem", http.MethodDelete, "/v1/items/:itemId", handleFunctions.CatalogAPI.DeleteItem},
		{"SetItemCutOff", http.MethodPut, "/v1/items/:itemId/cutoff", handleFunctions.CatalogAPI.SetCutOff},

		{"ListDrivers", http.MethodGet, "/v1/drivers", handleFunctions.DriversAPI.ListDrivers},
		{"CreateDriver", http.MethodPost, "/v1/drivers", handleFunctions.DriversAPI.CreateDriver},
		{"GetDriver", http.MethodGet, "/v1/drivers/:driverId", handleFunctions.DriversAPI.GetDriver},
		{"UpdateDriver", http.MethodPut, "/v1/drivers/:driverId", handleFunctions.DriversAPI.UpdateDriver},
		{"DeleteDriver", http.MethodDelete, "/v1/drivers/:driverId", handleFunctions.DriversAPI.DeleteDriver},

		{"ListRestaurants", http.MethodGet, "/v1/restaurants", handleFunctions.RestaurantsAPI.ListRestaurants},
		{"CreateRestaurant", http.MethodPost, "/v1/restaurants", handleFunctions.RestaurantsAPI.CreateRestaurant},
		{"GetRestaurant", http.MethodGet, "/v1/restaurants/:restaurantId", handleFunctions.RestaurantsAPI.GetRestaurant},
	}
}
