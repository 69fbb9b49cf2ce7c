package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/pflag"

	billingmapper "github.com/Apurer/restaurant-backoffice/internal/domains/billing/adapters/http/mapper"
	billingpostgres "github.com/Apurer/restaurant-backoffice/internal/domains/billing/adapters/persistence/postgres"
	billingsources "github.com/Apurer/restaurant-backoffice/internal/domains/billing/adapters/sources"
	billingapp "github.com/Apurer/restaurant-backoffice/internal/domains/billing/application"
	"github.com/Apurer/restaurant-backoffice/internal/domains/billing/ports"
	catalogpostgres "github.com/Apurer/restaurant-backoffice/internal/domains/catalog/adapters/persistence/postgres"
	catalogapp "github.com/Apurer/restaurant-backoffice/internal/domains/catalog/application"
	orderspostgres "github.com/Apurer/restaurant-backoffice/internal/domains/orders/adapters/persistence/postgres"
	platformobservability "github.com/Apurer/restaurant-backoffice/internal/platform/observability"
	platformpostgres "github.com/Apurer/restaurant-backoffice/internal/platform/postgres"
)

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		log.Fatalf("invalid arguments: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: platformobservability.ParseLevel(os.Getenv("LOG_LEVEL")),
	}))
	db, cleanup, err := platformpostgres.Open(ctx, platformpostgres.Config{DSN: os.Getenv("POSTGRES_DSN")}, logger)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer cleanup()
	if db == nil {
		log.Fatal("POSTGRES_DSN not set; cannot build a statement")
	}

	service := billingapp.NewService(
		billingsources.NewOrders(orderspostgres.NewRepository(db), opts.requireConfirmation),
		billingsources.NewCatalog(catalogapp.NewService(catalogpostgres.NewRepository(db))),
		billingpostgres.NewSettingsRepository(db),
		billingpostgres.NewInvoiceRepository(db),
	)
	view, err := service.Statement(ctx, ports.StatementQuery{
		RestaurantID: opts.restaurantID,
		Month:        time.Month(opts.month),
		Year:         opts.year,
		Location:     opts.location,
		Period:       opts.period,
	})
	if err != nil {
		log.Fatalf("failed to build statement: %v", err)
	}
	if len(view.Statement.Missing) > 0 {
		logger.Warn("statement has lines without cost data", slog.Int("lines", len(view.Statement.Missing)))
	}

	if opts.format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(billingmapper.FromStatementView(view)); err != nil {
			log.Fatalf("failed to write statement: %v", err)
		}
		return
	}
	if err := renderText(os.Stdout, view); err != nil {
		log.Fatalf("failed to write statement: %v", err)
	}
}

type options struct {
	restaurantID        string
	month               int
	year                int
	period              string
	location            *time.Location
	format              string
	requireConfirmation bool
}

func parseFlags(args []string) (options, error) {
	fs := pflag.NewFlagSet("billing-report", pflag.ContinueOnError)
	restaurant := fs.StringP("restaurant", "r", "", "restaurant id to bill (required)")
	month := fs.IntP("month", "m", 0, "calendar month 1-12, 0 for every month")
	year := fs.IntP("year", "y", 0, "calendar year, 0 for every year")
	period := fs.StringP("period", "p", "", "only orders since the start of this period (weekly, bi-weekly, monthly, yearly)")
	tz := fs.String("tz", "", "IANA time zone for month/year filtering (default local)")
	format := fs.StringP("format", "f", "text", "output format: text or json")
	confirmed := fs.Bool("confirmed-only", true, "count only confirmed orders")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	opts := options{
		restaurantID:        *restaurant,
		month:               *month,
		year:                *year,
		period:              *period,
		location:            time.Local,
		format:              *format,
		requireConfirmation: *confirmed,
	}
	if opts.restaurantID == "" {
		return options{}, errors.New("--restaurant is required")
	}
	if opts.month < 0 || opts.month > 12 {
		return options{}, fmt.Errorf("--month %d is out of range", opts.month)
	}
	if opts.format != "text" && opts.format != "json" {
		return options{}, fmt.Errorf("--format must be text or json, got %q", opts.format)
	}
	if *tz != "" {
		loc, err := time.LoadLocation(*tz)
		if err != nil {
			return options{}, err
		}
		opts.location = loc
	}
	return opts, nil
}
