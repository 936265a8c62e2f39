// Package postgres provides relational persistence for users and exercise records.
package postgres

import (
	"context"
	_ "embed"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/exercisetracker/internal/domain"
)

//go:embed schema.sql
var schema string

// Repository provides Postgres-backed persistence for users and records.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// EnsureSchema creates the tables and indexes when missing.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, schema)
	return err
}

// FindUserByID implements domain.UserRepository.
func (r *Repository) FindUserByID(ctx context.Context, id string) (*domain.User, error) {
	const query = `SELECT user_id, username, created_at FROM users WHERE user_id=$1`

	var user domain.User
	if err := r.pool.QueryRow(ctx, query, id).Scan(&user.ID, &user.Username, &user.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	user.CreatedAt = user.CreatedAt.UTC()
	return &user, nil
}

// UpsertUserByName returns the first user stored under username, inserting one when absent.
// The lookup and insert are not serialised, so concurrent first requests may both insert.
func (r *Repository) UpsertUserByName(ctx context.Context, username string, createdAt time.Time) (*domain.User, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	const lookup = `SELECT user_id, username, created_at FROM users WHERE username=$1 ORDER BY created_at, user_id LIMIT 1`

	var user domain.User
	err = tx.QueryRow(ctx, lookup, username).Scan(&user.ID, &user.Username, &user.CreatedAt)
	switch {
	case err == nil:
	case errors.Is(err, pgx.ErrNoRows):
		user = domain.User{ID: domain.NewID(), Username: username, CreatedAt: createdAt}
		const insert = `INSERT INTO users (user_id, username, created_at) VALUES ($1,$2,$3)`
		if _, err := tx.Exec(ctx, insert, user.ID, user.Username, user.CreatedAt); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	user.CreatedAt = user.CreatedAt.UTC()
	return &user, nil
}

// ListUsers returns every user projected to id and username, in table order.
func (r *Repository) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT user_id, username FROM users`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(&user.ID, &user.Username); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

// InsertRecord implements domain.RecordRepository.
func (r *Repository) InsertRecord(ctx context.Context, record domain.Record) error {
	if record.ID == "" {
		record.ID = domain.NewID()
	}
	const stmt = `INSERT INTO exercises (record_id, user_id, description, duration_min, date)
        VALUES ($1,$2,$3,$4,$5)`

	_, err := r.pool.Exec(ctx, stmt,
		record.ID,
		record.UserID,
		record.Description,
		record.DurationMin,
		record.Date,
	)
	return err
}

// ListRecords returns the user's records inside dates ordered by date, then record id.
func (r *Repository) ListRecords(ctx context.Context, userID string, dates domain.DateRange) ([]domain.Record, error) {
	args := []interface{}{userID}
	query := `SELECT record_id, user_id, description, duration_min, date
        FROM exercises WHERE user_id=$1`

	if dates.From != nil {
		args = append(args, *dates.From)
		query += ` AND date >= $` + strconv.Itoa(len(args))
	}
	if upper, ok := dates.UpperBound(); ok {
		args = append(args, upper)
		query += ` AND date < $` + strconv.Itoa(len(args))
	}

	query += ` ORDER BY date ASC, record_id ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]domain.Record, 0)
	for rows.Next() {
		var rec domain.Record
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Description, &rec.DurationMin, &rec.Date); err != nil {
			return nil, err
		}
		rec.Date = rec.Date.UTC()
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// Reset deletes every user and record.
func (r *Repository) Reset(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `TRUNCATE exercises, users`)
	return err
}
