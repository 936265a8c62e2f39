package domain_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"example.com/exercisetracker/internal/domain"
	"example.com/exercisetracker/internal/persistence/memory"
)

func TestFindOrCreateIsIdempotent(t *testing.T) {
	dir := domain.NewDirectory(memory.NewRepository())
	ctx := context.Background()

	first, err := dir.FindOrCreate(ctx, "alice")
	require.NoError(t, err)
	require.True(t, domain.ValidID(first.ID))

	second, err := dir.FindOrCreate(ctx, "  alice ")
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, first.CreatedAt, second.CreatedAt)

	other, err := dir.FindOrCreate(ctx, "Alice")
	require.NoError(t, err)
	require.NotEqual(t, first.ID, other.ID, "usernames match exactly")
}

func TestFindOrCreateRejectsBeforeStoreAccess(t *testing.T) {
	repo := &countingUsers{}
	dir := domain.NewDirectory(repo)

	for _, name := range []string{"", "<img>", "semi;colon", "new\nline"} {
		_, err := dir.FindOrCreate(context.Background(), name)
		require.ErrorIs(t, err, domain.ErrValidation, "username %q", name)
	}
	require.Zero(t, repo.calls)
}

func TestListAllProjectsUsers(t *testing.T) {
	dir := domain.NewDirectory(memory.NewRepository())
	ctx := context.Background()

	for _, name := range []string{"zed", "amy", "mo"} {
		_, err := dir.FindOrCreate(ctx, name)
		require.NoError(t, err)
	}

	users, err := dir.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)
	require.Equal(t, []string{"zed", "amy", "mo"}, []string{users[0].Username, users[1].Username, users[2].Username})
}

type countingUsers struct {
	calls int
}

func (c *countingUsers) FindUserByID(context.Context, string) (*domain.User, error) {
	c.calls++
	return nil, nil
}

func (c *countingUsers) UpsertUserByName(_ context.Context, name string, createdAt time.Time) (*domain.User, error) {
	c.calls++
	return &domain.User{ID: domain.NewID(), Username: name, CreatedAt: createdAt}, nil
}

func (c *countingUsers) ListUsers(context.Context) ([]domain.User, error) {
	c.calls++
	return nil, nil
}
