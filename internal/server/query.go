package server

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"
)

// optionalString binds a form-style query parameter; absent values yield "".
func optionalString(c *gin.Context, name string) (string, error) {
	var value *string
	if err := runtime.BindQueryParameter("form", true, false, name, c.Request.URL.Query(), &value); err != nil {
		return "", fmt.Errorf("invalid format for parameter %s: %w", name, err)
	}
	if value == nil {
		return "", nil
	}
	return strings.TrimSpace(*value), nil
}

func requiredString(c *gin.Context, name string) (string, error) {
	var value string
	if err := runtime.BindQueryParameter("form", true, true, name, c.Request.URL.Query(), &value); err != nil {
		return "", fmt.Errorf("invalid format for parameter %s: %w", name, err)
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("parameter %s is required", name)
	}
	return value, nil
}

func optionalInt(c *gin.Context, name string) (int, error) {
	var value *int
	if err := runtime.BindQueryParameter("form", true, false, name, c.Request.URL.Query(), &value); err != nil {
		return 0, fmt.Errorf("invalid format for parameter %s: %w", name, err)
	}
	if value == nil {
		return 0, nil
	}
	return *value, nil
}

// monthYear reads month (1-12) and year; zero means not filtered.
func monthYear(c *gin.Context) (time.Month, int, error) {
	month, err := optionalInt(c, "month")
	if err != nil {
		return 0, 0, err
	}
	if month < 0 || month > 12 {
		return 0, 0, fmt.Errorf("month must be between 1 and 12")
	}
	year, err := optionalInt(c, "year")
	if err != nil {
		return 0, 0, err
	}
	if year < 0 {
		return 0, 0, fmt.Errorf("year must be positive")
	}
	return time.Month(month), year, nil
}

// location resolves the tz parameter; absent means the server's local zone.
func location(c *gin.Context) (*time.Location, error) {
	name, err := optionalString(c, "tz")
	if err != nil || name == "" {
		return nil, err
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("unknown time zone %q", name)
	}
	return loc, nil
}

// reference parses an RFC 3339 timestamp or a YYYY-MM-DD date.
func reference(c *gin.Context) (time.Time, error) {
	raw, err := optionalString(c, "reference")
	if err != nil || raw == "" {
		return time.Time{}, err
	}
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return ts, nil
	}
	ts, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("reference must be RFC 3339 or YYYY-MM-DD")
	}
	return ts, nil
}
