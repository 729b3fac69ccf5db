package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"leasebook/pkg/domain"
	"leasebook/pkg/platform/events"
)

// Store implements events.Store on PostgreSQL. Events are append-only; rows
// are never updated or deleted by the service.
type Store struct {
	db *sql.DB
}

// New creates a PostgreSQL event store.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// EnsureSchema creates the events table when it does not exist yet. Called
// once at startup; safe to call repeatedly.
func (s *Store) EnsureSchema(ctx context.Context) error {
	const ddl = `
		CREATE TABLE IF NOT EXISTS lifecycle_events (
			id          UUID PRIMARY KEY,
			property_id UUID NOT NULL,
			event_type  TEXT NOT NULL,
			actor_id    UUID NOT NULL,
			price_cents BIGINT NOT NULL DEFAULT 0,
			request_id  TEXT NOT NULL DEFAULT '',
			occurred_at TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS lifecycle_events_property_idx
			ON lifecycle_events (property_id, occurred_at);
	`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("ensure events schema: %w", err)
	}
	return nil
}

// Append writes one event row.
func (s *Store) Append(ctx context.Context, event events.Event) error {
	const query = `
		INSERT INTO lifecycle_events (id, property_id, event_type, actor_id, price_cents, request_id, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	ts := event.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	_, err := s.db.ExecContext(ctx, query,
		uuid.New(),
		uuid.UUID(event.Property),
		string(event.Type),
		uuid.UUID(event.Actor),
		int64(event.Price),
		event.RequestID,
		ts,
	)
	if err != nil {
		return fmt.Errorf("insert lifecycle event: %w", err)
	}
	return nil
}

// ListByProperty returns a property's events in emission order.
func (s *Store) ListByProperty(ctx context.Context, property domain.PropertyID) ([]events.Event, error) {
	const query = `
		SELECT property_id, event_type, actor_id, price_cents, request_id, occurred_at
		FROM lifecycle_events
		WHERE property_id = $1
		ORDER BY occurred_at
	`
	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(property))
	if err != nil {
		return nil, fmt.Errorf("query lifecycle events: %w", err)
	}
	defer rows.Close()

	var out []events.Event
	for rows.Next() {
		var (
			propertyID uuid.UUID
			eventType  string
			actorID    uuid.UUID
			price      int64
			requestID  string
			occurredAt time.Time
		)
		if err := rows.Scan(&propertyID, &eventType, &actorID, &price, &requestID, &occurredAt); err != nil {
			return nil, fmt.Errorf("scan lifecycle event: %w", err)
		}
		out = append(out, events.Event{
			Type:      events.EventType(eventType),
			Property:  domain.PropertyID(propertyID),
			Actor:     domain.ParticipantID(actorID),
			Price:     domain.Amount(price),
			Timestamp: occurredAt,
			RequestID: requestID,
		})
	}
	return out, rows.Err()
}
