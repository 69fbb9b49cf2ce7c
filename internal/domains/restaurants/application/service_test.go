package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/restaurant-backoffice/internal/domains/restaurants/adapters/memory"
	"github.com/Apurer/restaurant-backoffice/internal/domains/restaurants/ports"
)

func TestCreate_LocationsUnderParent(t *testing.T) {
	svc := NewService(memory.NewRepository())
	ctx := context.Background()

	chain, err := svc.Create(ctx, ports.RestaurantInput{Name: "Harbor Group"})
	require.NoError(t, err)
	require.False(t, chain.IsLocation())

	_, err = svc.Create(ctx, ports.RestaurantInput{Name: "Harbor Downtown", ParentID: chain.ID})
	require.NoError(t, err)
	_, err = svc.Create(ctx, ports.RestaurantInput{Name: "Harbor Airport", ParentID: chain.ID})
	require.NoError(t, err)

	locations, err := svc.List(ctx, chain.ID)
	require.NoError(t, err)
	require.Len(t, locations, 2)
	require.Equal(t, "Harbor Airport", locations[0].Name)

	all, err := svc.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
}

func TestCreate_Validation(t *testing.T) {
	svc := NewService(memory.NewRepository())
	ctx := context.Background()

	_, err := svc.Create(ctx, ports.RestaurantInput{Name: " "})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Create(ctx, ports.RestaurantInput{Name: "Orphan", ParentID: "missing"})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, ErrNotFound)
}
