package domain

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DisplayDateLayout renders dates the way the log and add responses present them, e.g. "Sat Dec 05 2020".
const DisplayDateLayout = "Mon Jan 02 2006"

// User is a directory entry keyed by a human-chosen username.
type User struct {
	ID        string
	Username  string
	CreatedAt time.Time
}

// Record is a single exercise log entry owned by a user.
type Record struct {
	ID          string
	UserID      string
	Description string
	DurationMin int
	Date        time.Time
}

// DateRange bounds a log query. Nil bounds are open.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// Contains reports whether ts falls inside the range. To covers its whole calendar day.
func (r DateRange) Contains(ts time.Time) bool {
	if r.From != nil && ts.Before(*r.From) {
		return false
	}
	if r.To != nil && !ts.Before(r.To.Add(24*time.Hour)) {
		return false
	}
	return true
}

// UpperBound returns the exclusive upper bound derived from To, if any.
func (r DateRange) UpperBound() (time.Time, bool) {
	if r.To == nil {
		return time.Time{}, false
	}
	return r.To.Add(24 * time.Hour), true
}

// ExerciseLog is the packaged result of a log query.
type ExerciseLog struct {
	User    User
	Count   int
	Records []Record
}

// LoggedRecord is the composite returned after a record is added.
type LoggedRecord struct {
	User   User
	Record Record
}

// UserRepository captures user persistence operations.
type UserRepository interface {
	FindUserByID(ctx context.Context, id string) (*User, error)
	UpsertUserByName(ctx context.Context, username string, createdAt time.Time) (*User, error)
	ListUsers(ctx context.Context) ([]User, error)
}

// RecordRepository captures exercise record persistence operations.
type RecordRepository interface {
	InsertRecord(ctx context.Context, record Record) error
	// ListRecords returns the user's records inside the range ordered by date, then id, ascending.
	ListRecords(ctx context.Context, userID string, dates DateRange) ([]Record, error)
}

// Repository is the full store contract consumed by the services.
type Repository interface {
	UserRepository
	RecordRepository
	Reset(ctx context.Context) error
}

// NewID returns a fresh store-native identifier.
func NewID() string {
	return primitive.NewObjectID().Hex()
}

// ValidID reports whether id is a well-formed store identifier.
func ValidID(id string) bool {
	return primitive.IsValidObjectID(id)
}
