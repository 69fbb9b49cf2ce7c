//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "restaurant-backoffice-api"
	ConsumerName = "location-portal"

	StateRequestsBaseline = "no inventory requests exist"
	StateRequestPending   = "inventory request req-pending is pending"
	StateRequestAccepted  = "inventory request req-accepted is awaiting dispatch"
	StateRequestMissing   = "no inventory request with id req-missing"
)

const (
	PendingRequestID  = "req-pending"
	AcceptedRequestID = "req-accepted"
	MissingRequestID  = "req-missing"

	ExampleRestaurantID = "rest-001"
	ExampleItemID       = "item-flour"
	ExampleQuantity     = "2.5"
	ExampleUnit         = "kg"
	ExampleBilling      = "2024-06"
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the location portal consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExampleSubmitPayload is the body a location sends to request stock.
func ExampleSubmitPayload() map[string]any {
	return map[string]any{
		"restaurantId":  ExampleRestaurantID,
		"itemId":        ExampleItemID,
		"quantity":      ExampleQuantity,
		"unit":          ExampleUnit,
		"billingPeriod": ExampleBilling,
	}
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
