//go:build integration

package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"example.com/exercisetracker/internal/testsupport"
)

func TestPostgresRepositoryContract(t *testing.T) {
	ctx := context.Background()
	pool := testsupport.StartPostgres(ctx, t)

	repo := NewRepository(pool)
	require.NoError(t, repo.EnsureSchema(ctx))
	// Applying the schema twice must be harmless.
	require.NoError(t, repo.EnsureSchema(ctx))

	testsupport.RunRepositoryContract(t, repo)
}
