//go:build integration

package mongodb_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"example.com/exercisetracker/internal/domain"
	"example.com/exercisetracker/internal/persistence/mongodb"
	"example.com/exercisetracker/internal/testsupport"
)

func TestMongoRepositoryContract(t *testing.T) {
	ctx := context.Background()
	db := testsupport.StartMongo(ctx, t)

	repo := mongodb.NewRepository(db)
	require.NoError(t, repo.EnsureIndexes(ctx))

	testsupport.RunRepositoryContract(t, repo)
}

func TestMongoDocumentShape(t *testing.T) {
	ctx := context.Background()
	db := testsupport.StartMongo(ctx, t)
	repo := mongodb.NewRepository(db)

	user, err := repo.UpsertUserByName(ctx, "alice", time.Now().UTC())
	require.NoError(t, err)
	require.NoError(t, repo.InsertRecord(ctx, domain.Record{
		ID:          domain.NewID(),
		UserID:      user.ID,
		Description: "swim",
		DurationMin: 20,
		Date:        time.Date(2020, 12, 5, 0, 0, 0, 0, time.UTC),
	}))

	var raw bson.M
	require.NoError(t, db.Collection(mongodb.RecordsCollection).FindOne(ctx, bson.M{}).Decode(&raw))
	require.Contains(t, raw, "userId")
	require.Contains(t, raw, "duration")
	require.Equal(t, "swim", raw["description"])
}
