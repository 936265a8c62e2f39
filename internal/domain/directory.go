package domain

import (
	"context"
	"time"

	"example.com/exercisetracker/internal/observability"
)

// Directory maps usernames to stable user identifiers.
type Directory struct {
	repo UserRepository
	now  func() time.Time
}

// NewDirectory constructs a Directory.
func NewDirectory(repo UserRepository) *Directory {
	return &Directory{repo: repo, now: time.Now}
}

// FindOrCreate returns the user registered under username, creating it on first use.
// Two concurrent calls for the same new username may both create a user; no uniqueness
// constraint backs the lookup.
func (d *Directory) FindOrCreate(ctx context.Context, username string) (*User, error) {
	name, err := ParseUsername(username)
	if err != nil {
		return nil, err
	}

	user, err := d.repo.UpsertUserByName(ctx, name, d.now().UTC())
	if err != nil {
		observability.RecordStorageError("upsert_user")
		return nil, storageErr("upsert user", err)
	}
	observability.RecordUserResolved()
	return user, nil
}

// ListAll returns every user in store order.
func (d *Directory) ListAll(ctx context.Context) ([]User, error) {
	users, err := d.repo.ListUsers(ctx)
	if err != nil {
		observability.RecordStorageError("list_users")
		return nil, storageErr("list users", err)
	}
	return users, nil
}
