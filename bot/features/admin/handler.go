package admin

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"fenrir/bot/common"
	"fenrir/models"

	"github.com/bwmarrin/discordgo"
)

// handleConfig handles /logs config: default channel and master switch
func (f *Feature) handleConfig(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if err := common.DeferResponse(s, i, true); err != nil {
		log.Errorf("Failed to defer response: %v", err)
		return
	}

	guildID, err := common.ParseSnowflake(i.GuildID)
	if err != nil {
		editError(s, i, common.NewSystemError(err, "unparsable guild id "+i.GuildID))
		return
	}

	ctx := context.Background()
	config, err := f.configService.GetOrCreateConfig(ctx, guildID, f.guildName(i.GuildID))
	if err != nil {
		editError(s, i, common.NewSystemError(err, fmt.Sprintf("failed to load config for guild %d", guildID)))
		return
	}

	var changes []string
	for _, opt := range i.ApplicationCommandData().Options[0].Options {
		switch opt.Name {
		case "channel":
			channel := opt.ChannelValue(s)
			if channel == nil {
				editError(s, i, common.NewUserError("Invalid channel", "channel option missing or unparsable"))
				return
			}
			channelID, err := common.ParseSnowflake(channel.ID)
			if err != nil {
				editError(s, i, common.NewUserError("Invalid channel", "channel option missing or unparsable"))
				return
			}
			config.DefaultChannelID = &channelID
			changes = append(changes, fmt.Sprintf("default channel set to <#%s>", channel.ID))
		case "enabled":
			config.LoggingEnabled = opt.BoolValue()
			if config.LoggingEnabled {
				changes = append(changes, "logging enabled")
			} else {
				changes = append(changes, "logging disabled")
			}
		}
	}

	if len(changes) == 0 {
		f.editConfigSummary(s, i, config)
		return
	}

	if err := f.configService.UpdateConfig(ctx, config); err != nil {
		editError(s, i, common.NewSystemError(err, fmt.Sprintf("failed to update config for guild %d", guildID)))
		return
	}

	common.EditResponse(s, i, "✅ Updated: "+strings.Join(changes, ", "))
}

// editConfigSummary shows the current config when /logs config is called
// with no options
func (f *Feature) editConfigSummary(s *discordgo.Session, i *discordgo.InteractionCreate, config *models.GuildConfig) {
	state := "disabled"
	if config.LoggingEnabled {
		state = "enabled"
	}
	defaultChannel := "not set"
	if config.DefaultChannelID != nil {
		defaultChannel = common.ChannelMention(*config.DefaultChannelID)
	}

	embed := &discordgo.MessageEmbed{
		Title: "⚙️ Logging Configuration",
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Logging", Value: state, Inline: true},
			{Name: "Default Channel", Value: defaultChannel, Inline: true},
			{Name: "Embed Color", Value: config.EmbedColor, Inline: true},
		},
	}
	common.EditResponseEmbed(s, i, embed)
}

// handleEvent handles /logs event: per-event enablement
func (f *Feature) handleEvent(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if err := common.DeferResponse(s, i, true); err != nil {
		log.Errorf("Failed to defer response: %v", err)
		return
	}

	guildID, err := common.ParseSnowflake(i.GuildID)
	if err != nil {
		editError(s, i, common.NewSystemError(err, "unparsable guild id "+i.GuildID))
		return
	}

	var rawType string
	enabled := true
	for _, opt := range i.ApplicationCommandData().Options[0].Options {
		switch opt.Name {
		case "type":
			rawType = opt.StringValue()
		case "enabled":
			enabled = opt.BoolValue()
		}
	}

	eventType, err := models.ParseEventType(rawType)
	if err != nil {
		editError(s, i, common.NewUserError(fmt.Sprintf("Unknown event type `%s`", rawType), "unknown event type"))
		return
	}

	if err := f.configService.SetEventEnabled(context.Background(), guildID, eventType, enabled); err != nil {
		editError(s, i, common.NewSystemError(err, fmt.Sprintf("failed to set event %s for guild %d", eventType, guildID)))
		return
	}

	state := "disabled"
	if enabled {
		state = "enabled"
	}
	common.EditResponse(s, i, fmt.Sprintf("✅ **%s** %s", eventType.Display(), state))
}

// handleChannel handles /logs channel: map one event to a channel
func (f *Feature) handleChannel(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if err := common.DeferResponse(s, i, true); err != nil {
		log.Errorf("Failed to defer response: %v", err)
		return
	}

	guildID, err := common.ParseSnowflake(i.GuildID)
	if err != nil {
		editError(s, i, common.NewSystemError(err, "unparsable guild id "+i.GuildID))
		return
	}

	var rawType string
	var channel *discordgo.Channel
	for _, opt := range i.ApplicationCommandData().Options[0].Options {
		switch opt.Name {
		case "type":
			rawType = opt.StringValue()
		case "channel":
			channel = opt.ChannelValue(s)
		}
	}

	eventType, err := models.ParseEventType(rawType)
	if err != nil {
		editError(s, i, common.NewUserError(fmt.Sprintf("Unknown event type `%s`", rawType), "unknown event type"))
		return
	}
	if channel == nil {
		editError(s, i, common.NewUserError("Invalid channel", "channel option missing or unparsable"))
		return
	}
	channelID, err := common.ParseSnowflake(channel.ID)
	if err != nil {
		editError(s, i, common.NewUserError("Invalid channel", "channel option missing or unparsable"))
		return
	}

	if err := f.configService.MapEventChannel(context.Background(), guildID, eventType, channelID, channel.Name); err != nil {
		editError(s, i, common.NewSystemError(err, fmt.Sprintf("failed to map event %s for guild %d", eventType, guildID)))
		return
	}

	common.EditResponse(s, i, fmt.Sprintf("✅ **%s** now logs to <#%s> (event enabled)", eventType.Display(), channel.ID))
}

// handleGroup handles /logs group: map several events to one channel.
// Accepts a comma-separated list of event types and group aliases.
func (f *Feature) handleGroup(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if err := common.DeferResponse(s, i, true); err != nil {
		log.Errorf("Failed to defer response: %v", err)
		return
	}

	guildID, err := common.ParseSnowflake(i.GuildID)
	if err != nil {
		editError(s, i, common.NewSystemError(err, "unparsable guild id "+i.GuildID))
		return
	}

	var rawTypes string
	var channel *discordgo.Channel
	for _, opt := range i.ApplicationCommandData().Options[0].Options {
		switch opt.Name {
		case "types":
			rawTypes = opt.StringValue()
		case "channel":
			channel = opt.ChannelValue(s)
		}
	}

	eventTypes, unknown := parseEventList(rawTypes)
	if len(unknown) > 0 {
		editError(s, i, common.NewUserError(fmt.Sprintf("Unknown event types: `%s`", strings.Join(unknown, "`, `")), "unknown event types in list"))
		return
	}
	if len(eventTypes) == 0 {
		editError(s, i, common.NewUserError("No event types given", "empty event type list"))
		return
	}
	if channel == nil {
		editError(s, i, common.NewUserError("Invalid channel", "channel option missing or unparsable"))
		return
	}
	channelID, err := common.ParseSnowflake(channel.ID)
	if err != nil {
		editError(s, i, common.NewUserError("Invalid channel", "channel option missing or unparsable"))
		return
	}

	if err := f.configService.MapEventsChannel(context.Background(), guildID, eventTypes, channelID, channel.Name); err != nil {
		editError(s, i, common.NewSystemError(err, fmt.Sprintf("failed to map events for guild %d", guildID)))
		return
	}

	common.EditResponse(s, i, fmt.Sprintf("✅ %d event types now log to <#%s>", len(eventTypes), channel.ID))
}

// handleReset handles /logs reset: clear all mappings
func (f *Feature) handleReset(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if err := common.DeferResponse(s, i, true); err != nil {
		log.Errorf("Failed to defer response: %v", err)
		return
	}

	guildID, err := common.ParseSnowflake(i.GuildID)
	if err != nil {
		editError(s, i, common.NewSystemError(err, "unparsable guild id "+i.GuildID))
		return
	}

	removed, err := f.configService.ResetMappings(context.Background(), guildID)
	if err != nil {
		editError(s, i, common.NewSystemError(err, fmt.Sprintf("failed to reset mappings for guild %d", guildID)))
		return
	}

	common.EditResponse(s, i, fmt.Sprintf("✅ Removed %d channel mappings. Event enablement is unchanged.", removed))
}

// handleSetup handles /logs setup: channel provisioning
func (f *Feature) handleSetup(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if err := common.DeferResponse(s, i, true); err != nil {
		log.Errorf("Failed to defer response: %v", err)
		return
	}

	mode := ModeGrouped
	for _, opt := range i.ApplicationCommandData().Options[0].Options {
		if opt.Name == "mode" {
			mode = ProvisionMode(opt.StringValue())
		}
	}

	result, err := f.provisioner.Provision(context.Background(), i.GuildID, f.guildName(i.GuildID), mode)
	if err != nil {
		editError(s, i, common.NewSystemError(err, "provisioning failed for guild "+i.GuildID))
		return
	}

	lines := []string{
		fmt.Sprintf("✅ Setup complete (%s mode)", mode),
		fmt.Sprintf("Channels created: %d, reused: %d", result.ChannelsCreated, result.ChannelsReused),
		fmt.Sprintf("Events mapped: %d", result.EventsMapped),
	}
	if len(result.Errors) > 0 {
		lines = append(lines, fmt.Sprintf("⚠️ %d problems:", len(result.Errors)))
		for _, e := range result.Errors {
			lines = append(lines, "• "+e)
		}
	}

	common.EditResponse(s, i, strings.Join(lines, "\n"))
}

// parseEventList parses a comma-separated list of event types, expanding
// group aliases like "voice" to their member events
func parseEventList(raw string) ([]models.EventType, []string) {
	seen := make(map[models.EventType]bool)
	var eventTypes []models.EventType
	var unknown []string

	add := func(e models.EventType) {
		if !seen[e] {
			seen[e] = true
			eventTypes = append(eventTypes, e)
		}
	}

	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if eventType, err := models.ParseEventType(part); err == nil {
			add(eventType)
			continue
		}

		expanded := models.EventTypesInGroup(models.EventGroup(part))
		if len(expanded) > 0 {
			for _, e := range expanded {
				add(e)
			}
			continue
		}

		unknown = append(unknown, part)
	}

	return eventTypes, unknown
}
