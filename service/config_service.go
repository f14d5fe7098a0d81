package service

import (
	"context"
	"fmt"

	"fenrir/models"
)

// configService implements the ConfigService interface
type configService struct {
	guildRepo   GuildConfigRepository
	eventRepo   EventConfigRepository
	channelRepo EventChannelRepository
}

// NewConfigService creates a new config service
func NewConfigService(guildRepo GuildConfigRepository, eventRepo EventConfigRepository, channelRepo EventChannelRepository) ConfigService {
	return &configService{
		guildRepo:   guildRepo,
		eventRepo:   eventRepo,
		channelRepo: channelRepo,
	}
}

// GetConfig retrieves the config for a guild, or nil if never configured
func (s *configService) GetConfig(ctx context.Context, guildID int64) (*models.GuildConfig, error) {
	return s.guildRepo.Get(ctx, guildID)
}

// GetOrCreateConfig retrieves the config for a guild, creating defaults on first use
func (s *configService) GetOrCreateConfig(ctx context.Context, guildID int64, guildName string) (*models.GuildConfig, error) {
	config, err := s.guildRepo.Get(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing config: %w", err)
	}

	if config != nil {
		// Keep the stored name current
		if guildName != "" && config.GuildName != guildName {
			config.GuildName = guildName
			if err := s.guildRepo.Upsert(ctx, config); err != nil {
				return nil, fmt.Errorf("failed to refresh guild name: %w", err)
			}
		}
		return config, nil
	}

	config = models.NewGuildConfig(guildID, guildName)
	if err := s.guildRepo.Upsert(ctx, config); err != nil {
		return nil, fmt.Errorf("failed to create config: %w", err)
	}

	return config, nil
}

// UpdateConfig persists changes to an existing config
func (s *configService) UpdateConfig(ctx context.Context, config *models.GuildConfig) error {
	if err := s.guildRepo.Upsert(ctx, config); err != nil {
		return fmt.Errorf("failed to update config: %w", err)
	}
	return nil
}

// SetEventEnabled enables or disables logging of a single event type
func (s *configService) SetEventEnabled(ctx context.Context, guildID int64, eventType models.EventType, enabled bool) error {
	if !eventType.IsValid() {
		return fmt.Errorf("unknown event type %q", eventType)
	}
	return s.eventRepo.SetEnabled(ctx, guildID, eventType, enabled)
}

// SetEventsEnabled enables or disables several event types
func (s *configService) SetEventsEnabled(ctx context.Context, guildID int64, eventTypes []models.EventType, enabled bool) error {
	for _, eventType := range eventTypes {
		if err := s.SetEventEnabled(ctx, guildID, eventType, enabled); err != nil {
			return err
		}
	}
	return nil
}

// IsEventLoggable reports whether an event should be dispatched
func (s *configService) IsEventLoggable(ctx context.Context, guildID int64, eventType models.EventType) (bool, error) {
	config, err := s.guildRepo.Get(ctx, guildID)
	if err != nil {
		return false, fmt.Errorf("failed to get config: %w", err)
	}

	// Never configured or master switch off: silent no-op
	if config == nil || !config.LoggingEnabled {
		return false, nil
	}

	return s.eventRepo.IsEnabled(ctx, guildID, eventType)
}

// EnabledEvents returns the set of enabled event types for a guild
func (s *configService) EnabledEvents(ctx context.Context, guildID int64) (map[models.EventType]bool, error) {
	return s.eventRepo.GetEnabled(ctx, guildID)
}

// MapEventChannel routes an event type to a channel and enables it
func (s *configService) MapEventChannel(ctx context.Context, guildID int64, eventType models.EventType, channelID int64, channelName string) error {
	if !eventType.IsValid() {
		return fmt.Errorf("unknown event type %q", eventType)
	}

	err := s.channelRepo.Set(ctx, &models.EventChannelMapping{
		GuildID:     guildID,
		EventType:   eventType,
		ChannelID:   channelID,
		ChannelName: channelName,
	})
	if err != nil {
		return err
	}

	// Mapping an event implies wanting it logged
	return s.eventRepo.SetEnabled(ctx, guildID, eventType, true)
}

// MapEventsChannel routes several event types to one channel and enables them
func (s *configService) MapEventsChannel(ctx context.Context, guildID int64, eventTypes []models.EventType, channelID int64, channelName string) error {
	for _, eventType := range eventTypes {
		if !eventType.IsValid() {
			return fmt.Errorf("unknown event type %q", eventType)
		}
	}

	if err := s.channelRepo.SetMany(ctx, guildID, eventTypes, channelID, channelName); err != nil {
		return err
	}

	return s.SetEventsEnabled(ctx, guildID, eventTypes, true)
}

// MappingSummary returns the guild's mappings grouped by channel
func (s *configService) MappingSummary(ctx context.Context, guildID int64) (*models.ChannelMappingSummary, error) {
	return s.channelRepo.GetSummary(ctx, guildID)
}

// ResetMappings removes all channel mappings, leaving enablement untouched
func (s *configService) ResetMappings(ctx context.Context, guildID int64) (int, error) {
	return s.channelRepo.Clear(ctx, guildID)
}
