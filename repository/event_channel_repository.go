package repository

import (
	"context"
	"fmt"

	"fenrir/database"
	"fenrir/models"
	"github.com/jackc/pgx/v5"
)

// EventChannelRepository stores event-to-channel routing mappings.
// Each (guild, event) pair routes to at most one channel; many events
// may share the same channel.
type EventChannelRepository struct {
	db *database.DB
	q  queryable
}

// NewEventChannelRepository creates a new event channel repository
func NewEventChannelRepository(db *database.DB) *EventChannelRepository {
	return &EventChannelRepository{db: db, q: db.Pool}
}

// Set maps an event type to a channel, replacing any existing mapping
func (r *EventChannelRepository) Set(ctx context.Context, mapping *models.EventChannelMapping) error {
	query := `
		INSERT INTO log_event_channels (guild_id, event_type, channel_id, channel_name)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (guild_id, event_type) DO UPDATE SET
			channel_id = EXCLUDED.channel_id,
			channel_name = EXCLUDED.channel_name
	`

	_, err := r.q.Exec(ctx, query,
		mapping.GuildID,
		string(mapping.EventType),
		mapping.ChannelID,
		mapping.ChannelName,
	)
	if err != nil {
		return fmt.Errorf("failed to map event %s for guild %d: %w", mapping.EventType, mapping.GuildID, err)
	}

	return nil
}

// SetMany maps several event types to the same channel in one transaction
func (r *EventChannelRepository) SetMany(ctx context.Context, guildID int64, eventTypes []models.EventType, channelID int64, channelName string) error {
	return r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		query := `
			INSERT INTO log_event_channels (guild_id, event_type, channel_id, channel_name)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (guild_id, event_type) DO UPDATE SET
				channel_id = EXCLUDED.channel_id,
				channel_name = EXCLUDED.channel_name
		`
		for _, eventType := range eventTypes {
			if _, err := tx.Exec(ctx, query, guildID, string(eventType), channelID, channelName); err != nil {
				return fmt.Errorf("failed to map event %s for guild %d: %w", eventType, guildID, err)
			}
		}
		return nil
	})
}

// Get retrieves the mapping for an event type, or nil if none exists
func (r *EventChannelRepository) Get(ctx context.Context, guildID int64, eventType models.EventType) (*models.EventChannelMapping, error) {
	query := `
		SELECT guild_id, event_type, channel_id, channel_name
		FROM log_event_channels
		WHERE guild_id = $1 AND event_type = $2
	`

	var mapping models.EventChannelMapping
	var raw string
	err := r.q.QueryRow(ctx, query, guildID, string(eventType)).Scan(
		&mapping.GuildID,
		&raw,
		&mapping.ChannelID,
		&mapping.ChannelName,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get mapping for event %s in guild %d: %w", eventType, guildID, err)
	}

	mapping.EventType = models.EventType(raw)
	return &mapping, nil
}

// GetAll returns every mapping for a guild
func (r *EventChannelRepository) GetAll(ctx context.Context, guildID int64) ([]*models.EventChannelMapping, error) {
	query := `
		SELECT guild_id, event_type, channel_id, channel_name
		FROM log_event_channels
		WHERE guild_id = $1
		ORDER BY event_type
	`

	rows, err := r.q.Query(ctx, query, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to get mappings for guild %d: %w", guildID, err)
	}
	defer rows.Close()

	return scanMappings(rows)
}

// GetByChannel returns the event types routed to a specific channel
func (r *EventChannelRepository) GetByChannel(ctx context.Context, guildID int64, channelID int64) ([]models.EventType, error) {
	query := `
		SELECT event_type
		FROM log_event_channels
		WHERE guild_id = $1 AND channel_id = $2
		ORDER BY event_type
	`

	rows, err := r.q.Query(ctx, query, guildID, channelID)
	if err != nil {
		return nil, fmt.Errorf("failed to get events for channel %d in guild %d: %w", channelID, guildID, err)
	}
	defer rows.Close()

	var eventTypes []models.EventType
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan event type: %w", err)
		}
		eventType, err := models.ParseEventType(raw)
		if err != nil {
			continue
		}
		eventTypes = append(eventTypes, eventType)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read events for channel %d: %w", channelID, err)
	}

	return eventTypes, nil
}

// GetSummary returns all mappings for a guild grouped by destination channel
func (r *EventChannelRepository) GetSummary(ctx context.Context, guildID int64) (*models.ChannelMappingSummary, error) {
	mappings, err := r.GetAll(ctx, guildID)
	if err != nil {
		return nil, err
	}

	byChannel := make(map[int64]*models.ChannelMappingGroup)
	var order []int64
	for _, m := range mappings {
		group, ok := byChannel[m.ChannelID]
		if !ok {
			group = &models.ChannelMappingGroup{
				ChannelID:   m.ChannelID,
				ChannelName: m.ChannelName,
			}
			byChannel[m.ChannelID] = group
			order = append(order, m.ChannelID)
		}
		group.Events = append(group.Events, m.EventType)
	}

	summary := &models.ChannelMappingSummary{
		TotalChannels:     len(order),
		TotalEventsMapped: len(mappings),
	}
	for _, channelID := range order {
		summary.Channels = append(summary.Channels, *byChannel[channelID])
	}

	return summary, nil
}

// Remove deletes the mapping for an event type. Removing an absent
// mapping is not an error.
func (r *EventChannelRepository) Remove(ctx context.Context, guildID int64, eventType models.EventType) error {
	query := `
		DELETE FROM log_event_channels
		WHERE guild_id = $1 AND event_type = $2
	`

	_, err := r.q.Exec(ctx, query, guildID, string(eventType))
	if err != nil {
		return fmt.Errorf("failed to remove mapping for event %s in guild %d: %w", eventType, guildID, err)
	}

	return nil
}

// Clear deletes all mappings for a guild and returns the number removed.
// Enablement flags are untouched.
func (r *EventChannelRepository) Clear(ctx context.Context, guildID int64) (int, error) {
	query := `
		DELETE FROM log_event_channels
		WHERE guild_id = $1
	`

	result, err := r.q.Exec(ctx, query, guildID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear mappings for guild %d: %w", guildID, err)
	}

	return int(result.RowsAffected()), nil
}

func scanMappings(rows pgx.Rows) ([]*models.EventChannelMapping, error) {
	var mappings []*models.EventChannelMapping
	for rows.Next() {
		var mapping models.EventChannelMapping
		var raw string
		if err := rows.Scan(&mapping.GuildID, &raw, &mapping.ChannelID, &mapping.ChannelName); err != nil {
			return nil, fmt.Errorf("failed to scan mapping: %w", err)
		}
		mapping.EventType = models.EventType(raw)
		mappings = append(mappings, &mapping)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read mappings: %w", err)
	}

	return mappings, nil
}
