package service

import (
	"context"

	"fenrir/models"
)

// GuildConfigRepository defines the interface for guild config data access
type GuildConfigRepository interface {
	// Get retrieves the config for a guild, or nil if never configured
	Get(ctx context.Context, guildID int64) (*models.GuildConfig, error)

	// Upsert inserts or updates the full config row for a guild
	Upsert(ctx context.Context, config *models.GuildConfig) error
}

// EventConfigRepository defines the interface for per-event enablement flags
type EventConfigRepository interface {
	// SetEnabled sets the enabled flag for an event type
	SetEnabled(ctx context.Context, guildID int64, eventType models.EventType, enabled bool) error

	// IsEnabled reports whether an event type is enabled; unconfigured defaults to disabled
	IsEnabled(ctx context.Context, guildID int64, eventType models.EventType) (bool, error)

	// GetEnabled returns the set of enabled event types for a guild
	GetEnabled(ctx context.Context, guildID int64) (map[models.EventType]bool, error)
}

// EventChannelRepository defines the interface for event-to-channel mappings
type EventChannelRepository interface {
	// Set maps an event type to a channel, replacing any existing mapping
	Set(ctx context.Context, mapping *models.EventChannelMapping) error

	// SetMany maps several event types to the same channel atomically
	SetMany(ctx context.Context, guildID int64, eventTypes []models.EventType, channelID int64, channelName string) error

	// Get retrieves the mapping for an event type, or nil if none exists
	Get(ctx context.Context, guildID int64, eventType models.EventType) (*models.EventChannelMapping, error)

	// GetAll returns every mapping for a guild
	GetAll(ctx context.Context, guildID int64) ([]*models.EventChannelMapping, error)

	// GetByChannel returns the event types routed to a specific channel
	GetByChannel(ctx context.Context, guildID int64, channelID int64) ([]models.EventType, error)

	// GetSummary returns all mappings grouped by destination channel
	GetSummary(ctx context.Context, guildID int64) (*models.ChannelMappingSummary, error)

	// Remove deletes the mapping for an event type
	Remove(ctx context.Context, guildID int64, eventType models.EventType) error

	// Clear deletes all mappings for a guild and returns the number removed
	Clear(ctx context.Context, guildID int64) (int, error)
}

// ChannelValidator checks that a log destination still exists and the bot
// can send embeds to it. A nil error means the channel is usable.
type ChannelValidator interface {
	ValidateChannel(guildID, channelID int64) error
}

// ConfigService defines the interface for guild logging configuration
type ConfigService interface {
	// GetConfig retrieves the config for a guild, or nil if never configured
	GetConfig(ctx context.Context, guildID int64) (*models.GuildConfig, error)

	// GetOrCreateConfig retrieves the config for a guild, creating defaults on first use
	GetOrCreateConfig(ctx context.Context, guildID int64, guildName string) (*models.GuildConfig, error)

	// UpdateConfig persists changes to an existing config
	UpdateConfig(ctx context.Context, config *models.GuildConfig) error

	// SetEventEnabled enables or disables logging of a single event type
	SetEventEnabled(ctx context.Context, guildID int64, eventType models.EventType, enabled bool) error

	// SetEventsEnabled enables or disables several event types
	SetEventsEnabled(ctx context.Context, guildID int64, eventTypes []models.EventType, enabled bool) error

	// IsEventLoggable reports whether an event should be dispatched: the
	// guild must exist, logging must be on, and the event must be enabled
	IsEventLoggable(ctx context.Context, guildID int64, eventType models.EventType) (bool, error)

	// EnabledEvents returns the set of enabled event types for a guild
	EnabledEvents(ctx context.Context, guildID int64) (map[models.EventType]bool, error)

	// MapEventChannel routes an event type to a channel and enables it
	MapEventChannel(ctx context.Context, guildID int64, eventType models.EventType, channelID int64, channelName string) error

	// MapEventsChannel routes several event types to one channel and enables them
	MapEventsChannel(ctx context.Context, guildID int64, eventTypes []models.EventType, channelID int64, channelName string) error

	// MappingSummary returns the guild's mappings grouped by channel
	MappingSummary(ctx context.Context, guildID int64) (*models.ChannelMappingSummary, error)

	// ResetMappings removes all channel mappings, leaving enablement untouched
	ResetMappings(ctx context.Context, guildID int64) (int, error)
}

// ResolvedChannel is the destination chosen for an event
type ResolvedChannel struct {
	ChannelID int64
	// Tier is 1 for a per-event mapping, 2 for the guild default channel
	Tier int
}

// ResolutionResult records the decision path taken while resolving a
// destination, for diagnostics
type ResolutionResult struct {
	Success  bool
	Resolved *ResolvedChannel
	Path     []string
}

// ChannelResolver picks the destination channel for an event
type ChannelResolver interface {
	// ResolveChannel returns the destination for an event, or nil when the
	// guild has no usable destination configured
	ResolveChannel(ctx context.Context, guildID int64, eventType models.EventType) (*ResolvedChannel, error)

	// TestResolution runs resolution and records each step taken
	TestResolution(ctx context.Context, guildID int64, eventType models.EventType) (*ResolutionResult, error)

	// HealMapping removes the per-event mapping after a send to it failed
	// with an unknown-channel error
	HealMapping(ctx context.Context, guildID int64, eventType models.EventType) error
}
