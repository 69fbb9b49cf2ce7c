//go:build integration

package changefeed

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	pgrepo "github.com/Apurer/restaurant-backoffice/internal/domains/orders/adapters/persistence/postgres"
	"github.com/Apurer/restaurant-backoffice/internal/domains/orders/domain"
	"github.com/Apurer/restaurant-backoffice/internal/platform/migrations"
)

func TestPostgresFeed_DeliversTriggeredInserts(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("backoffice_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	defer pgContainer.Terminate(ctx)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, migrations.Run(db))

	repo := pgrepo.NewRepository(db)
	feed := NewPostgresFeed(dsn, repo, WithChannel(migrations.InsertNotifyChannel))

	received := make(chan *domain.InventoryRequest, 1)
	sub, err := feed.Subscribe(ctx, func(_ context.Context, req *domain.InventoryRequest) error {
		received <- req
		return nil
	})
	require.NoError(t, err)
	defer sub.Unsubscribe()

	req, err := domain.NewInventoryRequest("r1", "i1", decimal.RequireFromString("3"), "kg")
	require.NoError(t, err)
	req.ID = "feed-1"
	req.CreatedAt = time.Now().UTC()
	_, err = repo.Create(ctx, req)
	require.NoError(t, err)

	select {
	case got := <-received:
		require.Equal(t, "feed-1", got.ID)
		require.Equal(t, domain.StatePending, got.Lifecycle.State)
	case <-time.After(10 * time.Second):
		t.Fatal("insert notification not delivered")
	}
}
