package service

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"fenrir/models"
)

// channelResolver implements the ChannelResolver interface.
//
// Resolution is tiered: the per-event mapping wins, then the guild's
// default channel, then nothing. A per-event mapping that fails
// validation is removed so the next event falls straight through; the
// default channel is never removed automatically since it is the
// admin's explicit catch-all.
type channelResolver struct {
	guildRepo   GuildConfigRepository
	channelRepo EventChannelRepository
	validator   ChannelValidator
}

// NewChannelResolver creates a new channel resolver
func NewChannelResolver(guildRepo GuildConfigRepository, channelRepo EventChannelRepository, validator ChannelValidator) ChannelResolver {
	return &channelResolver{
		guildRepo:   guildRepo,
		channelRepo: channelRepo,
		validator:   validator,
	}
}

// ResolveChannel returns the destination for an event, or nil when the
// guild has no usable destination configured
func (r *channelResolver) ResolveChannel(ctx context.Context, guildID int64, eventType models.EventType) (*ResolvedChannel, error) {
	resolved, _, err := r.resolve(ctx, guildID, eventType, nil)
	return resolved, err
}

// TestResolution runs resolution and records each step taken
func (r *channelResolver) TestResolution(ctx context.Context, guildID int64, eventType models.EventType) (*ResolutionResult, error) {
	resolved, path, err := r.resolve(ctx, guildID, eventType, make([]string, 0, 4))
	if err != nil {
		return nil, err
	}

	return &ResolutionResult{
		Success:  resolved != nil,
		Resolved: resolved,
		Path:     path,
	}, nil
}

// HealMapping removes the per-event mapping after a send to it failed
func (r *channelResolver) HealMapping(ctx context.Context, guildID int64, eventType models.EventType) error {
	log.WithFields(log.Fields{
		"guild_id":   guildID,
		"event_type": eventType,
	}).Warn("Removing broken event channel mapping")

	return r.channelRepo.Remove(ctx, guildID, eventType)
}

// resolve walks the tiers. The path slice is only appended to when the
// caller passed a non-nil one, so the hot path allocates nothing.
func (r *channelResolver) resolve(ctx context.Context, guildID int64, eventType models.EventType, path []string) (*ResolvedChannel, []string, error) {
	record := func(format string, args ...any) {
		if path != nil {
			path = append(path, fmt.Sprintf(format, args...))
		}
	}
	recording := path != nil

	// Tier 1: per-event mapping
	mapping, err := r.channelRepo.Get(ctx, guildID, eventType)
	if err != nil {
		return nil, path, fmt.Errorf("failed to look up mapping: %w", err)
	}

	if mapping == nil {
		record("tier 1: no mapping for %s", eventType)
	} else if validErr := r.validator.ValidateChannel(guildID, mapping.ChannelID); validErr != nil {
		record("tier 1: mapping to channel %d invalid: %v, removing", mapping.ChannelID, validErr)
		log.WithFields(log.Fields{
			"guild_id":   guildID,
			"event_type": eventType,
			"channel_id": mapping.ChannelID,
		}).Warnf("Event channel mapping no longer usable, removing: %v", validErr)

		if err := r.channelRepo.Remove(ctx, guildID, eventType); err != nil {
			return nil, path, fmt.Errorf("failed to remove broken mapping: %w", err)
		}
	} else {
		record("tier 1: resolved to mapped channel %d", mapping.ChannelID)
		return &ResolvedChannel{ChannelID: mapping.ChannelID, Tier: 1}, path, nil
	}

	// Tier 2: guild default channel, never self-healed
	config, err := r.guildRepo.Get(ctx, guildID)
	if err != nil {
		return nil, path, fmt.Errorf("failed to get config: %w", err)
	}

	if config == nil || config.DefaultChannelID == nil {
		record("tier 2: no default channel configured")
	} else if validErr := r.validator.ValidateChannel(guildID, *config.DefaultChannelID); validErr != nil {
		record("tier 2: default channel %d invalid: %v", *config.DefaultChannelID, validErr)
		if !recording {
			log.WithFields(log.Fields{
				"guild_id":   guildID,
				"channel_id": *config.DefaultChannelID,
			}).Warnf("Default log channel not usable: %v", validErr)
		}
	} else {
		record("tier 2: resolved to default channel %d", *config.DefaultChannelID)
		return &ResolvedChannel{ChannelID: *config.DefaultChannelID, Tier: 2}, path, nil
	}

	record("tier 3: no destination, event dropped")
	return nil, path, nil
}
