package admin

import (
	"context"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"fenrir/bot/common"
	"fenrir/models"

	"github.com/bwmarrin/discordgo"
)

// handleList handles /logs list: mapping summary including unmapped events
func (f *Feature) handleList(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if err := common.DeferResponse(s, i, true); err != nil {
		log.Errorf("Failed to defer response: %v", err)
		return
	}

	guildID, err := common.ParseSnowflake(i.GuildID)
	if err != nil {
		editError(s, i, common.NewSystemError(err, "unparsable guild id "+i.GuildID))
		return
	}

	summary, err := f.configService.MappingSummary(context.Background(), guildID)
	if err != nil {
		editError(s, i, common.NewSystemError(err, fmt.Sprintf("failed to get mapping summary for guild %d", guildID)))
		return
	}

	embed := &discordgo.MessageEmbed{
		Title: "📋 Log Channel Mappings",
	}

	mapped := make(map[models.EventType]bool)
	for _, group := range summary.Channels {
		names := make([]string, 0, len(group.Events))
		for _, eventType := range group.Events {
			names = append(names, eventType.Display())
			mapped[eventType] = true
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "#" + group.ChannelName,
			Value: strings.Join(names, "\n"),
		})
	}

	var unmapped []string
	for _, eventType := range models.AllEventTypes() {
		if !mapped[eventType] {
			unmapped = append(unmapped, eventType.Display())
		}
	}
	if len(unmapped) > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Unmapped",
			Value: strings.Join(unmapped, "\n"),
		})
	}

	if len(embed.Fields) == 0 {
		common.EditResponse(s, i, "No channel mappings configured. Use `/logs setup` to get started.")
		return
	}

	embed.Description = fmt.Sprintf("%d events mapped across %d channels", summary.TotalEventsMapped, summary.TotalChannels)
	common.EditResponseEmbed(s, i, embed)
}

// handleTest handles /logs test: send a test record to each mapped channel
func (f *Feature) handleTest(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if err := common.DeferResponse(s, i, true); err != nil {
		log.Errorf("Failed to defer response: %v", err)
		return
	}

	guildID, err := common.ParseSnowflake(i.GuildID)
	if err != nil {
		editError(s, i, common.NewSystemError(err, "unparsable guild id "+i.GuildID))
		return
	}

	summary, err := f.configService.MappingSummary(context.Background(), guildID)
	if err != nil {
		editError(s, i, common.NewSystemError(err, fmt.Sprintf("failed to get mapping summary for guild %d", guildID)))
		return
	}

	if summary.TotalChannels == 0 {
		common.EditResponse(s, i, "No channel mappings to test.")
		return
	}

	sent, failed := 0, 0
	for _, group := range summary.Channels {
		names := make([]string, 0, len(group.Events))
		for _, eventType := range group.Events {
			names = append(names, eventType.Display())
		}

		embed := &discordgo.MessageEmbed{
			Title:       "🧪 Test Log Record",
			Description: "Events routed here:\n" + strings.Join(names, "\n"),
			Timestamp:   time.Now().UTC().Format(time.RFC3339),
		}

		if err := f.sender.SendEmbed(group.ChannelID, embed); err != nil {
			log.Warnf("Test send to channel %d failed: %v", group.ChannelID, err)
			failed++
			continue
		}
		sent++
	}

	common.EditResponse(s, i, fmt.Sprintf("✅ Test records sent to %d channels (%d failed)", sent, failed))
}

// handleStatus handles /logs status: comprehensive configuration overview
func (f *Feature) handleStatus(s *discordgo.Session, i *discordgo.InteractionCreate) {
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
	config, err := f.configService.GetConfig(ctx, guildID)
	if err != nil {
		editError(s, i, common.NewSystemError(err, fmt.Sprintf("failed to get config for guild %d", guildID)))
		return
	}

	if config == nil {
		common.EditResponse(s, i, "This server has no logging configuration yet. Use `/logs setup` or `/logs config` to start.")
		return
	}

	enabledEvents, err := f.configService.EnabledEvents(ctx, guildID)
	if err != nil {
		editError(s, i, common.NewSystemError(err, fmt.Sprintf("failed to get enabled events for guild %d", guildID)))
		return
	}

	summary, err := f.configService.MappingSummary(ctx, guildID)
	if err != nil {
		editError(s, i, common.NewSystemError(err, fmt.Sprintf("failed to get mapping summary for guild %d", guildID)))
		return
	}

	state := "❌ disabled"
	if config.LoggingEnabled {
		state = "✅ enabled"
	}
	defaultChannel := "not set"
	if config.DefaultChannelID != nil {
		defaultChannel = common.ChannelMention(*config.DefaultChannelID)
	}

	embed := &discordgo.MessageEmbed{
		Title: "📊 Logging Status",
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Logging", Value: state, Inline: true},
			{Name: "Default Channel", Value: defaultChannel, Inline: true},
			{Name: "Enabled Events", Value: fmt.Sprintf("%d / %d", len(enabledEvents), len(models.AllEventTypes())), Inline: true},
			{Name: "Mapped Events", Value: fmt.Sprintf("%d", summary.TotalEventsMapped), Inline: true},
			{Name: "Log Channels", Value: fmt.Sprintf("%d", summary.TotalChannels), Inline: true},
			{Name: "Show Avatars", Value: onOff(config.ShowAvatars), Inline: true},
			{Name: "Show Timestamps", Value: onOff(config.ShowTimestamps), Inline: true},
			{Name: "Embed Color", Value: config.EmbedColor, Inline: true},
		},
	}

	// Flag enabled events that have nowhere to go and no default to fall back to
	if config.DefaultChannelID == nil {
		mapped := make(map[models.EventType]bool)
		for _, group := range summary.Channels {
			for _, eventType := range group.Events {
				mapped[eventType] = true
			}
		}
		var orphaned []string
		for eventType := range enabledEvents {
			if !mapped[eventType] {
				orphaned = append(orphaned, eventType.Display())
			}
		}
		if len(orphaned) > 0 {
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
				Name:  "⚠️ Enabled but unroutable",
				Value: strings.Join(orphaned, "\n"),
			})
		}
	}

	common.EditResponseEmbed(s, i, embed)
}

// handleEvents handles /logs events: reference list of event types.
// The list is static so it answers directly instead of deferring.
func (f *Feature) handleEvents(s *discordgo.Session, i *discordgo.InteractionCreate) {
	embed := &discordgo.MessageEmbed{
		Title:       "📚 Available Event Types",
		Description: "Use these identifiers with `/logs event`, `/logs channel` and `/logs group`. Group aliases: message, member, file, voice.",
	}

	for _, group := range models.AllEventGroups() {
		var lines []string
		for _, eventType := range models.EventTypesInGroup(group) {
			lines = append(lines, fmt.Sprintf("`%s` — %s", eventType, eventType.Display()))
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  titleCase(string(group)),
			Value: strings.Join(lines, "\n"),
		})
	}

	if err := common.RespondWithEmbed(s, i, embed, true); err != nil {
		log.Errorf("Failed to respond with event list: %v", err)
	}
}

// handleDebug handles /logs debug: resolution diagnostics for one event type
func (f *Feature) handleDebug(s *discordgo.Session, i *discordgo.InteractionCreate) {
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
	for _, opt := range i.ApplicationCommandData().Options[0].Options {
		if opt.Name == "type" {
			rawType = opt.StringValue()
		}
	}

	eventType, err := models.ParseEventType(rawType)
	if err != nil {
		editError(s, i, common.NewUserError(fmt.Sprintf("Unknown event type `%s`", rawType), "unknown event type"))
		return
	}

	result, err := f.resolver.TestResolution(context.Background(), guildID, eventType)
	if err != nil {
		editError(s, i, common.NewSystemError(err, fmt.Sprintf("resolution test failed for guild %d", guildID)))
		return
	}

	outcome := "❌ No destination: the event would be dropped"
	if result.Success {
		outcome = fmt.Sprintf("✅ Resolves to %s (tier %d)", common.ChannelMention(result.Resolved.ChannelID), result.Resolved.Tier)
	}

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("🔍 Resolution: %s", eventType.Display()),
		Description: outcome,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Decision path", Value: "```\n" + strings.Join(result.Path, "\n") + "\n```"},
		},
	}

	common.EditResponseEmbed(s, i, embed)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
