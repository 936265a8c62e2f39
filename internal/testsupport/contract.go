// Package testsupport holds helpers shared by repository tests: a behavioural contract and,
// under the integration build tag, throwaway store containers.
package testsupport

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"example.com/exercisetracker/internal/domain"
)

// RunRepositoryContract checks the behaviour every domain.Repository backend must share.
// The repository is reset before each subtest.
func RunRepositoryContract(t *testing.T, repo domain.Repository) {
	t.Helper()
	ctx := context.Background()
	day := func(d int) time.Time { return time.Date(2020, time.December, d, 0, 0, 0, 0, time.UTC) }

	reset := func(t *testing.T) {
		t.Helper()
		require.NoError(t, repo.Reset(ctx))
	}

	t.Run("upsert by name is idempotent", func(t *testing.T) {
		reset(t)
		created := day(1)

		first, err := repo.UpsertUserByName(ctx, "alice", created)
		require.NoError(t, err)
		require.True(t, domain.ValidID(first.ID))

		again, err := repo.UpsertUserByName(ctx, "alice", day(9))
		require.NoError(t, err)
		require.Equal(t, first.ID, again.ID)
		require.True(t, created.Equal(again.CreatedAt), "createdAt must not change")

		found, err := repo.FindUserByID(ctx, first.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		require.Equal(t, "alice", found.Username)
	})

	t.Run("unknown id resolves to nil", func(t *testing.T) {
		reset(t)
		found, err := repo.FindUserByID(ctx, domain.NewID())
		require.NoError(t, err)
		require.Nil(t, found)
	})

	t.Run("list users projects id and username", func(t *testing.T) {
		reset(t)
		for _, name := range []string{"alice", "bob"} {
			_, err := repo.UpsertUserByName(ctx, name, day(1))
			require.NoError(t, err)
		}
		users, err := repo.ListUsers(ctx)
		require.NoError(t, err)
		require.Len(t, users, 2)
		names := []string{users[0].Username, users[1].Username}
		require.ElementsMatch(t, []string{"alice", "bob"}, names)
		for _, u := range users {
			require.True(t, domain.ValidID(u.ID))
		}
	})

	t.Run("records filter by user and inclusive range, sorted by date", func(t *testing.T) {
		reset(t)
		alice, err := repo.UpsertUserByName(ctx, "alice", day(1))
		require.NoError(t, err)
		bob, err := repo.UpsertUserByName(ctx, "bob", day(1))
		require.NoError(t, err)

		for _, d := range []int{4, 1, 5, 3, 2} {
			require.NoError(t, repo.InsertRecord(ctx, domain.Record{
				ID: domain.NewID(), UserID: alice.ID, Description: "run", DurationMin: d * 10, Date: day(d),
			}))
		}
		// Same calendar day as the upper bound, with a time of day.
		require.NoError(t, repo.InsertRecord(ctx, domain.Record{
			ID: domain.NewID(), UserID: alice.ID, Description: "late", DurationMin: 5, Date: day(4).Add(18 * time.Hour),
		}))
		require.NoError(t, repo.InsertRecord(ctx, domain.Record{
			ID: domain.NewID(), UserID: bob.ID, Description: "swim", DurationMin: 15, Date: day(3),
		}))

		all, err := repo.ListRecords(ctx, alice.ID, domain.DateRange{})
		require.NoError(t, err)
		require.Len(t, all, 6)
		for i := 1; i < len(all); i++ {
			require.False(t, all[i].Date.Before(all[i-1].Date), "records must be ascending")
		}
		require.Equal(t, alice.ID, all[0].UserID)
		require.Equal(t, 10, all[0].DurationMin)

		from, to := day(2), day(4)
		ranged, err := repo.ListRecords(ctx, alice.ID, domain.DateRange{From: &from, To: &to})
		require.NoError(t, err)
		require.Len(t, ranged, 4)
		require.True(t, ranged[0].Date.Equal(day(2)))
		require.Equal(t, "late", ranged[3].Description)

		onlyFrom, err := repo.ListRecords(ctx, alice.ID, domain.DateRange{From: &to})
		require.NoError(t, err)
		require.Len(t, onlyFrom, 3)

		onlyTo, err := repo.ListRecords(ctx, alice.ID, domain.DateRange{To: &from})
		require.NoError(t, err)
		require.Len(t, onlyTo, 2)
	})
}
