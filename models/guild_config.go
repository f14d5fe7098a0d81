package models

import "time"

// GuildConfig represents per-guild logging configuration
type GuildConfig struct {
	GuildID          int64     `db:"guild_id"`
	GuildName        string    `db:"guild_name"`
	LoggingEnabled   bool      `db:"logging_enabled"`
	DefaultChannelID *int64    `db:"default_channel_id"` // Nullable - fallback destination when no per-event mapping exists
	ShowAvatars      bool      `db:"show_avatars"`
	ShowTimestamps   bool      `db:"show_timestamps"`
	EmbedColor       string    `db:"embed_color"` // hex string, e.g. "#3498db"
	UpdatedAt        time.Time `db:"updated_at"`
}

// DefaultEmbedColor is applied when a guild has not customized its embeds
const DefaultEmbedColor = "#3498db"

// NewGuildConfig returns a config row with display defaults for a guild that
// is being configured for the first time
func NewGuildConfig(guildID int64, guildName string) *GuildConfig {
	return &GuildConfig{
		GuildID:        guildID,
		GuildName:      guildName,
		ShowAvatars:    true,
		ShowTimestamps: true,
		EmbedColor:     DefaultEmbedColor,
	}
}
