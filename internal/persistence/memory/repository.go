// Package memory provides an in-process repository for local development and tests.
package memory

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"example.com/exercisetracker/internal/domain"
)

// Repository stores users and records in memory.
type Repository struct {
	mu      sync.RWMutex
	users   []domain.User
	records map[string][]domain.Record
}

// NewRepository constructs an empty Repository.
func NewRepository() *Repository {
	return &Repository{records: make(map[string][]domain.Record)}
}

// FindUserByID implements domain.UserRepository.
func (r *Repository) FindUserByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.ID == id {
			found := user
			return &found, nil
		}
	}
	return nil, nil
}

// UpsertUserByName returns the first user with the given name or appends a new one.
func (r *Repository) UpsertUserByName(ctx context.Context, username string, createdAt time.Time) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.Username == username {
			found := user
			return &found, nil
		}
	}

	user := domain.User{ID: domain.NewID(), Username: username, CreatedAt: createdAt}
	r.users = append(r.users, user)
	return &user, nil
}

// ListUsers returns users in insertion order.
func (r *Repository) ListUsers(ctx context.Context) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.User, len(r.users))
	copy(out, r.users)
	return out, nil
}

// InsertRecord implements domain.RecordRepository.
func (r *Repository) InsertRecord(ctx context.Context, record domain.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(record.ID) == "" {
		record.ID = domain.NewID()
	}
	r.records[record.UserID] = append(r.records[record.UserID], record)
	return nil
}

// ListRecords returns the user's records inside dates, ascending by date then id.
func (r *Repository) ListRecords(ctx context.Context, userID string, dates domain.DateRange) ([]domain.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Record, 0, len(r.records[userID]))
	for _, record := range r.records[userID] {
		if dates.Contains(record.Date) {
			out = append(out, record)
		}
	}
	slices.SortStableFunc(out, func(a, b domain.Record) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out, nil
}

// Reset deletes every user and record.
func (r *Repository) Reset(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.users = nil
	r.records = make(map[string][]domain.Record)
	return nil
}
