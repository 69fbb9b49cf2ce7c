package application

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/restaurant-backoffice/internal/domains/catalog/adapters/memory"
	"github.com/Apurer/restaurant-backoffice/internal/domains/catalog/ports"
)

func TestCreate_ListOrderedByName(t *testing.T) {
	svc := NewService(memory.NewRepository())
	ctx := context.Background()

	for _, name := range []string{"Tomatoes", "avocados", "Basil"} {
		_, err := svc.Create(ctx, ports.ItemInput{Name: name, CostPerUnit: "1.25", Unit: "kg"})
		require.NoError(t, err)
	}

	items, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)
	require.Equal(t, "avocados", items[0].Name)
	require.Equal(t, "Basil", items[1].Name)
	require.Equal(t, "Tomatoes", items[2].Name)
}

func TestCreate_RejectsBadCost(t *testing.T) {
	svc := NewService(memory.NewRepository())
	_, err := svc.Create(context.Background(), ports.ItemInput{Name: "Salt", CostPerUnit: "-1", Unit: "kg"})
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.Create(context.Background(), ports.ItemInput{Name: "Salt", CostPerUnit: "cheap", Unit: "kg"})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestSetCutOff_AndCosts(t *testing.T) {
	svc := NewService(memory.NewRepository())
	ctx := context.Background()
	item, err := svc.Create(ctx, ports.ItemInput{Name: "Milk", CostPerUnit: "0.99", Unit: "l"})
	require.NoError(t, err)

	updated, err := svc.SetCutOff(ctx, item.ID, "Thursday", "16:00")
	require.NoError(t, err)
	require.Equal(t, time.Thursday, updated.CutOff.Day)

	_, err = svc.SetCutOff(ctx, item.ID, "Thursday", "25:00")
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.SetCutOff(ctx, "missing", "Thursday", "16:00")
	require.ErrorIs(t, err, ErrNotFound)

	costs, err := svc.Costs(ctx)
	require.NoError(t, err)
	require.True(t, decimal.RequireFromString("0.99").Equal(costs[item.ID]))
}

func TestUpdateAndDelete(t *testing.T) {
	svc := NewService(memory.NewRepository())
	ctx := context.Background()
	item, err := svc.Create(ctx, ports.ItemInput{Name: "Eggs", CostPerUnit: "3", Unit: "dozen"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, item.ID, ports.ItemInput{Name: "Eggs (free range)", CostPerUnit: "4.5", Unit: "dozen"})
	require.NoError(t, err)
	require.Equal(t, "Eggs (free range)", updated.Name)

	require.NoError(t, svc.Delete(ctx, item.ID))
	require.ErrorIs(t, svc.Delete(ctx, item.ID), ErrNotFound)
}
