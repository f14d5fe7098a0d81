package repository

import (
	"context"
	"fmt"

	"fenrir/database"
	"fenrir/models"
	"github.com/jackc/pgx/v5"
)

// EventConfigRepository stores per-event enablement flags for a guild.
// Enablement is independent of channel mappings: an event can be enabled
// with no destination and vice versa.
type EventConfigRepository struct {
	q queryable
}

// NewEventConfigRepository creates a new event config repository
func NewEventConfigRepository(db *database.DB) *EventConfigRepository {
	return &EventConfigRepository{q: db.Pool}
}

// newEventConfigRepositoryWithTx creates a new event config repository with a transaction
func newEventConfigRepositoryWithTx(tx queryable) *EventConfigRepository {
	return &EventConfigRepository{q: tx}
}

// SetEnabled sets the enabled flag for an event type, creating the row if needed
func (r *EventConfigRepository) SetEnabled(ctx context.Context, guildID int64, eventType models.EventType, enabled bool) error {
	query := `
		INSERT INTO log_events (guild_id, event_type, enabled)
		VALUES ($1, $2, $3)
		ON CONFLICT (guild_id, event_type) DO UPDATE SET
			enabled = EXCLUDED.enabled
	`

	_, err := r.q.Exec(ctx, query, guildID, string(eventType), enabled)
	if err != nil {
		return fmt.Errorf("failed to set event %s for guild %d: %w", eventType, guildID, err)
	}

	return nil
}

// IsEnabled reports whether an event type is enabled for a guild.
// Events with no row have never been configured and default to disabled.
func (r *EventConfigRepository) IsEnabled(ctx context.Context, guildID int64, eventType models.EventType) (bool, error) {
	query := `
		SELECT enabled
		FROM log_events
		WHERE guild_id = $1 AND event_type = $2
	`

	var enabled bool
	err := r.q.QueryRow(ctx, query, guildID, string(eventType)).Scan(&enabled)

	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check event %s for guild %d: %w", eventType, guildID, err)
	}

	return enabled, nil
}

// GetEnabled returns the set of enabled event types for a guild
func (r *EventConfigRepository) GetEnabled(ctx context.Context, guildID int64) (map[models.EventType]bool, error) {
	query := `
		SELECT event_type
		FROM log_events
		WHERE guild_id = $1 AND enabled = TRUE
	`

	rows, err := r.q.Query(ctx, query, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to get enabled events for guild %d: %w", guildID, err)
	}
	defer rows.Close()

	enabled := make(map[models.EventType]bool)
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan event type: %w", err)
		}
		eventType, err := models.ParseEventType(raw)
		if err != nil {
			// Unknown rows from older schema versions are skipped, not fatal
			continue
		}
		enabled[eventType] = true
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read enabled events for guild %d: %w", guildID, err)
	}

	return enabled, nil
}
