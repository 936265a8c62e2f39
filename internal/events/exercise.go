// Package events defines the payloads the tracker emits and the Kafka plumbing that delivers them.
package events

import "time"

// ExerciseLoggedType is the event_type header value for ExerciseLogged.
const ExerciseLoggedType = "exercise.logged"

// ExerciseLogged is emitted after an exercise record has been persisted.
type ExerciseLogged struct {
	EventID     string    `json:"event_id"`
	RecordID    string    `json:"record_id"`
	UserID      string    `json:"user_id"`
	Username    string    `json:"username"`
	Description string    `json:"description"`
	DurationMin int       `json:"duration_min"`
	Date        time.Time `json:"date"`
	OccurredAt  time.Time `json:"occurred_at"`
}
