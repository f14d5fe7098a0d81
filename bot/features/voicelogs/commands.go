package voicelogs

import (
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"fenrir/bot/common"

	"github.com/bwmarrin/discordgo"
)

// handleStats handles the /voice stats command
func (f *Feature) handleStats(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if err := common.DeferResponse(s, i, true); err != nil {
		log.Errorf("Failed to defer response: %v", err)
		return
	}

	guildID, err := common.ParseSnowflake(i.GuildID)
	if err != nil {
		log.Errorf("Failed to parse guild ID: %v", err)
		common.EditResponseError(s, i)
		return
	}

	days := 7
	for _, opt := range i.ApplicationCommandData().Options[0].Options {
		if opt.Name == "days" {
			days = int(opt.IntValue())
		}
	}

	stats := f.tracker.Statistics(guildID, days)

	embed := &discordgo.MessageEmbed{
		Title: "🔊 Voice Activity",
		Description: fmt.Sprintf("Since the bot last started (display window: %d days). "+
			"Counters reset on restart.", stats.PeriodDays),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Joins", Value: fmt.Sprintf("%d", stats.Joins), Inline: true},
			{Name: "Leaves", Value: fmt.Sprintf("%d", stats.Leaves), Inline: true},
			{Name: "Moves", Value: fmt.Sprintf("%d", stats.Moves), Inline: true},
			{Name: "Currently Active", Value: fmt.Sprintf("%d", stats.CurrentlyActive), Inline: true},
			{Name: "Unique Users", Value: fmt.Sprintf("%d", stats.UniqueUsers), Inline: true},
		},
	}

	common.EditResponseEmbed(s, i, embed)
}

// handleSessions handles the /voice sessions command
func (f *Feature) handleSessions(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if err := common.DeferResponse(s, i, true); err != nil {
		log.Errorf("Failed to defer response: %v", err)
		return
	}

	guildID, err := common.ParseSnowflake(i.GuildID)
	if err != nil {
		log.Errorf("Failed to parse guild ID: %v", err)
		common.EditResponseError(s, i)
		return
	}

	var lines []string
	now := time.Now()
	for _, session := range f.tracker.ActiveSessions() {
		if session.GuildID != guildID {
			continue
		}
		lines = append(lines, fmt.Sprintf("**%s** in 🔊 %s for %s",
			session.Username,
			session.ChannelName,
			common.FormatDuration(now.Sub(session.StartTime))))
		if len(lines) >= 20 {
			lines = append(lines, "…")
			break
		}
	}

	if len(lines) == 0 {
		common.EditResponse(s, i, "No active voice sessions.")
		return
	}

	embed := &discordgo.MessageEmbed{
		Title:       "🔊 Active Voice Sessions",
		Description: strings.Join(lines, "\n"),
	}

	common.EditResponseEmbed(s, i, embed)
}
