// Package mongodb provides document-store persistence for users and exercise records.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"example.com/exercisetracker/internal/domain"
)

const (
	usersCollection   = "users"
	recordsCollection = "exercises"
)

type userDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Username  string             `bson:"username"`
	CreatedAt time.Time          `bson:"date"`
}

type recordDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	UserID      primitive.ObjectID `bson:"userId"`
	Description string             `bson:"description"`
	Duration    int                `bson:"duration"`
	Date        time.Time          `bson:"date"`
}

// Connect dials the deployment at uri and verifies it with a ping.
func Connect(ctx context.Context, uri string, timeout time.Duration) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, nil
}

// Repository implements domain.Repository on two collections.
type Repository struct {
	users   *mongo.Collection
	records *mongo.Collection
}

// NewRepository constructs a Repository over db.
func NewRepository(db *mongo.Database) *Repository {
	return &Repository{
		users:   db.Collection(usersCollection),
		records: db.Collection(recordsCollection),
	}
}

// EnsureIndexes creates the index backing log queries.
func (r *Repository) EnsureIndexes(ctx context.Context) error {
	_, err := r.records.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: 1}},
	})
	return err
}

// FindUserByID implements domain.UserRepository.
func (r *Repository) FindUserByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	var doc userDocument
	if err := r.users.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	user := doc.toDomain()
	return &user, nil
}

// UpsertUserByName returns the user stored under username, inserting it when absent.
// Existing documents are left untouched.
func (r *Repository) UpsertUserByName(ctx context.Context, username string, createdAt time.Time) (*domain.User, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	update := bson.M{"$setOnInsert": bson.M{"username": username, "date": createdAt}}

	var doc userDocument
	if err := r.users.FindOneAndUpdate(ctx, bson.M{"username": username}, update, opts).Decode(&doc); err != nil {
		return nil, err
	}
	user := doc.toDomain()
	return &user, nil
}

// ListUsers returns every user projected to id and username, in natural order.
func (r *Repository) ListUsers(ctx context.Context) ([]domain.User, error) {
	opts := options.Find().SetProjection(bson.M{"_id": 1, "username": 1})
	cursor, err := r.users.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	users := make([]domain.User, 0)
	for cursor.Next(ctx) {
		var doc userDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		users = append(users, domain.User{ID: doc.ID.Hex(), Username: doc.Username})
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

// InsertRecord implements domain.RecordRepository.
func (r *Repository) InsertRecord(ctx context.Context, record domain.Record) error {
	userID, err := primitive.ObjectIDFromHex(record.UserID)
	if err != nil {
		return fmt.Errorf("record user id: %w", err)
	}
	doc := recordDocument{
		UserID:      userID,
		Description: record.Description,
		Duration:    record.DurationMin,
		Date:        record.Date,
	}
	if record.ID != "" {
		if doc.ID, err = primitive.ObjectIDFromHex(record.ID); err != nil {
			return fmt.Errorf("record id: %w", err)
		}
	}
	_, err = r.records.InsertOne(ctx, doc)
	return err
}

// ListRecords returns the user's records inside dates sorted by date, then _id.
func (r *Repository) ListRecords(ctx context.Context, userID string, dates domain.DateRange) ([]domain.Record, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, fmt.Errorf("record user id: %w", err)
	}

	cursor, err := r.records.Find(ctx, recordFilter(oid, dates),
		options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	records := make([]domain.Record, 0)
	for cursor.Next(ctx) {
		var doc recordDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		records = append(records, domain.Record{
			ID:          doc.ID.Hex(),
			UserID:      doc.UserID.Hex(),
			Description: doc.Description,
			DurationMin: doc.Duration,
			Date:        doc.Date.UTC(),
		})
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// Reset deletes every user and record.
func (r *Repository) Reset(ctx context.Context) error {
	if _, err := r.records.DeleteMany(ctx, bson.M{}); err != nil {
		return err
	}
	_, err := r.users.DeleteMany(ctx, bson.M{})
	return err
}

func recordFilter(userID primitive.ObjectID, dates domain.DateRange) bson.M {
	filter := bson.M{"userId": userID}
	bounds := bson.M{}
	if dates.From != nil {
		bounds["$gte"] = *dates.From
	}
	if upper, ok := dates.UpperBound(); ok {
		bounds["$lt"] = upper
	}
	if len(bounds) > 0 {
		filter["date"] = bounds
	}
	return filter
}

func (d userDocument) toDomain() domain.User {
	return domain.User{ID: d.ID.Hex(), Username: d.Username, CreatedAt: d.CreatedAt.UTC()}
}
