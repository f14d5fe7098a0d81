package dispatch

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"

	"fenrir/bot/common"
	"fenrir/models"
	"fenrir/service"

	"github.com/bwmarrin/discordgo"
)

// ChannelSender delivers an embed to a channel
type ChannelSender interface {
	SendEmbed(channelID int64, embed *discordgo.MessageEmbed) error
}

// EventRouter carries events from the gateway handlers to their log
// channels. Every dispatch is fire-and-forget: an event that cannot be
// delivered is dropped, never retried.
type EventRouter struct {
	configService service.ConfigService
	resolver      service.ChannelResolver
	sender        ChannelSender
}

// NewEventRouter creates a new event router
func NewEventRouter(configService service.ConfigService, resolver service.ChannelResolver, sender ChannelSender) *EventRouter {
	return &EventRouter{
		configService: configService,
		resolver:      resolver,
		sender:        sender,
	}
}

// Dispatch routes one event to its destination channel. The embed is
// built lazily: a disabled or unroutable event never pays for formatting
func (r *EventRouter) Dispatch(ctx context.Context, guildID int64, eventType models.EventType, build func() *discordgo.MessageEmbed) {
	loggable, err := r.configService.IsEventLoggable(ctx, guildID, eventType)
	if err != nil {
		// Storage trouble degrades to logging-disabled
		log.WithFields(log.Fields{
			"guild_id":   guildID,
			"event_type": eventType,
		}).Warnf("Config unavailable, dropping event: %v", err)
		return
	}
	if !loggable {
		return
	}

	resolved, err := r.resolver.ResolveChannel(ctx, guildID, eventType)
	if err != nil {
		log.WithFields(log.Fields{
			"guild_id":   guildID,
			"event_type": eventType,
		}).Warnf("Resolution failed, dropping event: %v", err)
		return
	}
	if resolved == nil {
		log.WithFields(log.Fields{
			"guild_id":   guildID,
			"event_type": eventType,
		}).Warn("No destination channel for event, dropping")
		return
	}

	embed := build()
	if embed == nil {
		return
	}

	if config, err := r.configService.GetConfig(ctx, guildID); err == nil && config != nil {
		applyStyle(config, embed)
	}

	if err := r.sender.SendEmbed(resolved.ChannelID, embed); err != nil {
		if resolved.Tier == 1 && IsUnknownChannel(err) {
			if healErr := r.resolver.HealMapping(ctx, guildID, eventType); healErr != nil {
				log.Errorf("Failed to heal mapping for event %s in guild %d: %v", eventType, guildID, healErr)
			}
		}
		log.WithFields(log.Fields{
			"guild_id":   guildID,
			"event_type": eventType,
			"channel_id": resolved.ChannelID,
		}).Errorf("Failed to send log embed: %v", err)
	}
}

// applyStyle applies the guild's stored display options to an embed
func applyStyle(config *models.GuildConfig, embed *discordgo.MessageEmbed) {
	embed.Color = common.ParseHexColor(config.EmbedColor, common.ParseHexColor(models.DefaultEmbedColor, 0))

	if config.ShowTimestamps {
		if embed.Timestamp == "" {
			embed.Timestamp = time.Now().UTC().Format(time.RFC3339)
		}
	} else {
		embed.Timestamp = ""
	}

	if !config.ShowAvatars {
		if embed.Author != nil {
			embed.Author.IconURL = ""
		}
		embed.Thumbnail = nil
	}
}

// IsUnknownChannel reports whether an error is Discord's unknown-channel
// response, meaning the destination was deleted out from under us
func IsUnknownChannel(err error) bool {
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Message != nil {
		return restErr.Message.Code == discordgo.ErrCodeUnknownChannel
	}
	return false
}
