package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConnect_RequiresDSN(t *testing.T) {
	_, err := Connect(context.Background(), Config{DSN: "  "})
	require.Error(t, err)
}

func TestOpen_EmptyDSNMeansMemory(t *testing.T) {
	db, cleanup, err := Open(context.Background(), Config{}, nil)
	require.NoError(t, err)
	require.Nil(t, db)
	cleanup()
}
