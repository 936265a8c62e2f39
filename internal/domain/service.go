// Package domain defines users, exercise records and the log query rules of the exercise tracker.
package domain

import (
	"context"
	"log"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"example.com/exercisetracker/internal/events"
	"example.com/exercisetracker/internal/observability"
)

// Service records exercises and answers log queries.
type Service struct {
	users     UserRepository
	records   RecordRepository
	publisher events.Publisher
	now       func() time.Time
	logger    *log.Logger
}

// Option configures optional behaviour for the Service.
type Option func(*Service)

// WithClock overrides the source of "now" used for defaulted dates.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithPublisher sets the sink for exercise.logged events.
func WithPublisher(publisher events.Publisher) Option {
	return func(s *Service) {
		if publisher != nil {
			s.publisher = publisher
		}
	}
}

// WithLogger overrides the logger used to report publish failures.
func WithLogger(logger *log.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService constructs a Service.
func NewService(users UserRepository, records RecordRepository, opts ...Option) *Service {
	s := &Service{
		users:     users,
		records:   records,
		publisher: events.NoopPublisher{},
		now:       time.Now,
		logger:    log.New(log.Writer(), "[domain] ", log.LstdFlags),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddRecordInput carries the raw add request fields.
type AddRecordInput struct {
	UserID      string
	Description string
	Duration    string
	Date        string
}

// LogQuery carries the raw log request fields.
type LogQuery struct {
	UserID string
	From   string
	To     string
	Limit  string
}

// AddRecord validates the input, resolves the user and persists a new record.
// Nothing is written unless every check passes and the user exists.
func (s *Service) AddRecord(ctx context.Context, input AddRecordInput) (*LoggedRecord, error) {
	var (
		record Record
		date   *time.Time
	)
	err := firstFailure(
		func() (err error) { record.UserID, err = ParseUserID(input.UserID); return err },
		func() (err error) { record.Description, err = ParseDescription(input.Description); return err },
		func() (err error) { record.DurationMin, err = ParseDuration(input.Duration); return err },
		func() (err error) { date, err = ParseDate("date", input.Date); return err },
	)
	if err != nil {
		return nil, err
	}

	user, err := s.resolveUser(ctx, record.UserID)
	if err != nil {
		return nil, err
	}

	record.ID = NewID()
	if date != nil {
		record.Date = *date
	} else {
		record.Date = s.now().UTC()
	}

	if err := s.records.InsertRecord(ctx, record); err != nil {
		observability.RecordStorageError("insert_record")
		return nil, storageErr("insert record", err)
	}
	observability.RecordExerciseAdded(record.Date)

	s.publish(ctx, *user, record)
	return &LoggedRecord{User: *user, Record: record}, nil
}

// GetLog returns the user's records inside the optional date range, trimmed to the
// trailing limit.
func (s *Service) GetLog(ctx context.Context, query LogQuery) (*ExerciseLog, error) {
	var (
		userID string
		dates  DateRange
		limit  *int
	)
	err := firstFailure(
		func() (err error) { userID, err = ParseUserID(query.UserID); return err },
		func() (err error) { limit, err = ParseLimit(query.Limit); return err },
		func() (err error) { dates.From, err = ParseDate("from", query.From); return err },
		func() (err error) { dates.To, err = ParseDate("to", query.To); return err },
	)
	if err != nil {
		return nil, err
	}

	user, err := s.resolveUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	records, err := s.records.ListRecords(ctx, user.ID, dates)
	if err != nil {
		observability.RecordStorageError("list_records")
		return nil, storageErr("list records", err)
	}
	slices.SortStableFunc(records, compareRecords)

	window := TrailingWindow(records, limit)
	observability.RecordLogQuery(len(window))
	return &ExerciseLog{User: *user, Count: len(window), Records: window}, nil
}

// TrailingWindow keeps the newest limit records of an ascending slice, still ascending.
// A nil limit, or one at least as large as the slice, returns everything.
func TrailingWindow(records []Record, limit *int) []Record {
	if limit == nil || *limit >= len(records) {
		return records
	}
	return records[len(records)-*limit:]
}

func compareRecords(a, b Record) int {
	if c := a.Date.Compare(b.Date); c != 0 {
		return c
	}
	return strings.Compare(a.ID, b.ID)
}

func (s *Service) resolveUser(ctx context.Context, id string) (*User, error) {
	user, err := s.users.FindUserByID(ctx, id)
	if err != nil {
		observability.RecordStorageError("find_user")
		return nil, storageErr("find user", err)
	}
	if user == nil {
		return nil, &NotFoundError{UserID: id}
	}
	return user, nil
}

func (s *Service) publish(ctx context.Context, user User, record Record) {
	event := events.ExerciseLogged{
		EventID:     uuid.NewString(),
		RecordID:    record.ID,
		UserID:      user.ID,
		Username:    user.Username,
		Description: record.Description,
		DurationMin: record.DurationMin,
		Date:        record.Date,
		OccurredAt:  s.now().UTC(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Printf("publish exercise.logged (record=%s): %v", record.ID, err)
	}
}
