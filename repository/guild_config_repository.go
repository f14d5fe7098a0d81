package repository

import (
	"context"
	"fmt"

	"fenrir/database"
	"fenrir/models"
	"github.com/jackc/pgx/v5"
)

// GuildConfigRepository provides access to per-guild logging configuration
type GuildConfigRepository struct {
	q queryable
}

// NewGuildConfigRepository creates a new guild config repository
func NewGuildConfigRepository(db *database.DB) *GuildConfigRepository {
	return &GuildConfigRepository{q: db.Pool}
}

// newGuildConfigRepositoryWithTx creates a new guild config repository with a transaction
func newGuildConfigRepositoryWithTx(tx queryable) *GuildConfigRepository {
	return &GuildConfigRepository{q: tx}
}

// Get retrieves the config for a guild, or nil if the guild has never been configured
func (r *GuildConfigRepository) Get(ctx context.Context, guildID int64) (*models.GuildConfig, error) {
	query := `
		SELECT guild_id, guild_name, logging_enabled, default_channel_id,
		       show_avatars, show_timestamps, embed_color, updated_at
		FROM guild_configs
		WHERE guild_id = $1
	`

	var config models.GuildConfig
	err := r.q.QueryRow(ctx, query, guildID).Scan(
		&config.GuildID,
		&config.GuildName,
		&config.LoggingEnabled,
		&config.DefaultChannelID,
		&config.ShowAvatars,
		&config.ShowTimestamps,
		&config.EmbedColor,
		&config.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get config for guild %d: %w", guildID, err)
	}

	return &config, nil
}

// Upsert inserts or updates the full config row for a guild
func (r *GuildConfigRepository) Upsert(ctx context.Context, config *models.GuildConfig) error {
	query := `
		INSERT INTO guild_configs (
			guild_id, guild_name, logging_enabled, default_channel_id,
			show_avatars, show_timestamps, embed_color, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (guild_id) DO UPDATE SET
			guild_name = EXCLUDED.guild_name,
			logging_enabled = EXCLUDED.logging_enabled,
			default_channel_id = EXCLUDED.default_channel_id,
			show_avatars = EXCLUDED.show_avatars,
			show_timestamps = EXCLUDED.show_timestamps,
			embed_color = EXCLUDED.embed_color,
			updated_at = NOW()
		RETURNING updated_at
	`

	err := r.q.QueryRow(ctx, query,
		config.GuildID,
		config.GuildName,
		config.LoggingEnabled,
		config.DefaultChannelID,
		config.ShowAvatars,
		config.ShowTimestamps,
		config.EmbedColor,
	).Scan(&config.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to upsert config for guild %d: %w", config.GuildID, err)
	}

	return nil
}
