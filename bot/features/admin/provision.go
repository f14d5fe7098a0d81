package admin

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"fenrir/bot/common"
	"fenrir/models"
	"fenrir/service"

	"github.com/bwmarrin/discordgo"
)

// ProvisionMode selects the channel layout created by /logs setup
type ProvisionMode string

const (
	// ModeGranular creates one channel per event type
	ModeGranular ProvisionMode = "granular"

	// ModeGrouped creates one channel per event group
	ModeGrouped ProvisionMode = "grouped"
)

// logCategoryName is the category all provisioned channels live under
const logCategoryName = "Logs"

// guildChannelManager is the slice of the Discord API provisioning
// needs, kept narrow so tests can fake it
type guildChannelManager interface {
	GuildChannels(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Channel, error)
	GuildChannelCreateComplex(guildID string, data discordgo.GuildChannelCreateData, options ...discordgo.RequestOption) (*discordgo.Channel, error)
}

// ProvisionResult reports what a provisioning run did
type ProvisionResult struct {
	ChannelsCreated int
	ChannelsReused  int
	EventsMapped    int
	Errors          []string
}

// Provisioner creates log channels and writes the matching routing
// configuration. Runs are best-effort: a failed channel is recorded and
// skipped, channels already created are kept.
type Provisioner struct {
	channels      guildChannelManager
	configService service.ConfigService
}

// NewProvisioner creates a new provisioner
func NewProvisioner(channels guildChannelManager, configService service.ConfigService) *Provisioner {
	return &Provisioner{
		channels:      channels,
		configService: configService,
	}
}

// Provision builds the channel layout for a mode and maps every covered
// event, enabling them and the guild master switch
func (p *Provisioner) Provision(ctx context.Context, guildID string, guildName string, mode ProvisionMode) (*ProvisionResult, error) {
	if mode != ModeGranular && mode != ModeGrouped {
		return nil, fmt.Errorf("unknown provisioning mode %q", mode)
	}

	numericGuildID, err := common.ParseSnowflake(guildID)
	if err != nil {
		return nil, fmt.Errorf("invalid guild ID %q: %w", guildID, err)
	}

	existing, err := p.channels.GuildChannels(guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list guild channels: %w", err)
	}

	result := &ProvisionResult{}

	category := findChannel(existing, logCategoryName, discordgo.ChannelTypeGuildCategory)
	if category == nil {
		category, err = p.channels.GuildChannelCreateComplex(guildID, discordgo.GuildChannelCreateData{
			Name: logCategoryName,
			Type: discordgo.ChannelTypeGuildCategory,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create log category: %w", err)
		}
		result.ChannelsCreated++
	} else {
		result.ChannelsReused++
	}

	switch mode {
	case ModeGranular:
		for _, eventType := range models.AllEventTypes() {
			channel := p.ensureChannel(guildID, existing, eventType.ChannelName(), category.ID, result)
			if channel == nil {
				continue
			}

			channelID, err := common.ParseSnowflake(channel.ID)
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("%s: bad channel ID %q", eventType, channel.ID))
				continue
			}

			if err := p.configService.MapEventChannel(ctx, numericGuildID, eventType, channelID, channel.Name); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", eventType, err))
				continue
			}
			result.EventsMapped++
		}

	case ModeGrouped:
		for _, group := range models.AllEventGroups() {
			channel := p.ensureChannel(guildID, existing, group.ChannelName(), category.ID, result)
			if channel == nil {
				continue
			}

			channelID, err := common.ParseSnowflake(channel.ID)
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("%s: bad channel ID %q", group, channel.ID))
				continue
			}

			events := models.EventTypesInGroup(group)
			if err := p.configService.MapEventsChannel(ctx, numericGuildID, events, channelID, channel.Name); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", group, err))
				continue
			}
			result.EventsMapped += len(events)
		}
	}

	config, err := p.configService.GetOrCreateConfig(ctx, numericGuildID, guildName)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("config: %v", err))
		return result, nil
	}
	if !config.LoggingEnabled {
		config.LoggingEnabled = true
		if err := p.configService.UpdateConfig(ctx, config); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("config: %v", err))
		}
	}

	return result, nil
}

// ensureChannel reuses a text channel with the expected name or creates
// it under the category. A nil return means creation failed and was
// recorded in the result.
func (p *Provisioner) ensureChannel(guildID string, existing []*discordgo.Channel, name, parentID string, result *ProvisionResult) *discordgo.Channel {
	if channel := findChannel(existing, name, discordgo.ChannelTypeGuildText); channel != nil {
		result.ChannelsReused++
		return channel
	}

	channel, err := p.channels.GuildChannelCreateComplex(guildID, discordgo.GuildChannelCreateData{
		Name:     name,
		Type:     discordgo.ChannelTypeGuildText,
		ParentID: parentID,
	})
	if err != nil {
		log.Errorf("Failed to create channel %s: %v", name, err)
		result.Errors = append(result.Errors, fmt.Sprintf("#%s: %v", name, err))
		return nil
	}

	result.ChannelsCreated++
	return channel
}

func findChannel(channels []*discordgo.Channel, name string, channelType discordgo.ChannelType) *discordgo.Channel {
	for _, channel := range channels {
		if channel.Name == name && channel.Type == channelType {
			return channel
		}
	}
	return nil
}
