package voicelogs

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"fenrir/bot/common"
	"fenrir/models"

	"github.com/bwmarrin/discordgo"
)

// handleVoiceStateUpdate turns raw voice state transitions into log events
func (f *Feature) handleVoiceStateUpdate(s *discordgo.Session, vsu *discordgo.VoiceStateUpdate) {
	if vsu.GuildID == "" {
		return
	}
	if vsu.Member != nil && vsu.Member.User != nil && vsu.Member.User.Bot {
		return
	}

	guildID, err := common.ParseSnowflake(vsu.GuildID)
	if err != nil {
		log.Errorf("Failed to parse guild ID %s: %v", vsu.GuildID, err)
		return
	}
	userID, err := common.ParseSnowflake(vsu.UserID)
	if err != nil {
		log.Errorf("Failed to parse user ID %s: %v", vsu.UserID, err)
		return
	}

	ctx := context.Background()
	before := vsu.BeforeUpdate

	beforeChannel := ""
	if before != nil {
		beforeChannel = before.ChannelID
	}

	switch {
	case beforeChannel == "" && vsu.ChannelID != "":
		f.handleJoin(ctx, s, vsu, guildID, userID)
	case beforeChannel != "" && vsu.ChannelID == "":
		f.handleLeave(ctx, s, vsu, guildID, userID, beforeChannel)
	case beforeChannel != "" && beforeChannel != vsu.ChannelID:
		f.handleMove(ctx, s, vsu, guildID, userID, beforeChannel)
	default:
		f.handleStateChange(ctx, s, vsu, before, guildID)
	}
}

func (f *Feature) handleJoin(ctx context.Context, s *discordgo.Session, vsu *discordgo.VoiceStateUpdate, guildID, userID int64) {
	channelID, err := common.ParseSnowflake(vsu.ChannelID)
	if err != nil {
		return
	}
	channelName := f.channelName(vsu.ChannelID)

	stale := f.tracker.Start(&models.VoiceSession{
		UserID:      userID,
		Username:    memberUsername(vsu.Member),
		GuildID:     guildID,
		ChannelID:   channelID,
		ChannelName: channelName,
		StartTime:   time.Now(),
	})
	if stale != nil {
		log.WithFields(log.Fields{
			"user_id":  userID,
			"guild_id": stale.GuildID,
		}).Warn("Voice join with existing session, previous session discarded")
	}

	f.router.Dispatch(ctx, guildID, models.EventVoiceJoin, func() *discordgo.MessageEmbed {
		embed := f.newVoiceEmbed(vsu.Member, "🔊 Voice Channel Joined")
		embed.Fields = []*discordgo.MessageEmbedField{
			{Name: "Channel", Value: fmt.Sprintf("🔊 %s", channelName), Inline: true},
		}
		return embed
	})
}

func (f *Feature) handleLeave(ctx context.Context, s *discordgo.Session, vsu *discordgo.VoiceStateUpdate, guildID, userID int64, beforeChannel string) {
	channelName := f.channelName(beforeChannel)

	// The session ends whether or not the event gets logged
	summary := f.tracker.End(userID, ReasonLeft)

	f.router.Dispatch(ctx, guildID, models.EventVoiceLeave, func() *discordgo.MessageEmbed {
		embed := f.newVoiceEmbed(vsu.Member, "🔇 Voice Channel Left")
		embed.Fields = []*discordgo.MessageEmbedField{
			{Name: "Channel", Value: fmt.Sprintf("🔊 %s", channelName), Inline: true},
		}

		if summary != nil {
			embed.Fields = append(embed.Fields,
				&discordgo.MessageEmbedField{Name: "Duration", Value: common.FormatDuration(summary.Duration), Inline: true},
			)
			if summary.Moves > 0 {
				embed.Fields = append(embed.Fields,
					&discordgo.MessageEmbedField{Name: "Channel Moves", Value: fmt.Sprintf("%d", summary.Moves), Inline: true},
				)
			}
		}
		return embed
	})
}

func (f *Feature) handleMove(ctx context.Context, s *discordgo.Session, vsu *discordgo.VoiceStateUpdate, guildID, userID int64, beforeChannel string) {
	toID, err := common.ParseSnowflake(vsu.ChannelID)
	if err != nil {
		return
	}
	fromName := f.channelName(beforeChannel)
	toName := f.channelName(vsu.ChannelID)

	f.tracker.Move(userID, toID, toName)

	f.router.Dispatch(ctx, guildID, models.EventVoiceMove, func() *discordgo.MessageEmbed {
		embed := f.newVoiceEmbed(vsu.Member, "↔️ Voice Channel Moved")
		embed.Fields = []*discordgo.MessageEmbedField{
			{Name: "From", Value: fmt.Sprintf("🔊 %s", fromName), Inline: true},
			{Name: "To", Value: fmt.Sprintf("🔊 %s", toName), Inline: true},
		}
		return embed
	})
}

// handleStateChange covers mute, deafen, stream and camera toggles
// within the same channel
func (f *Feature) handleStateChange(ctx context.Context, s *discordgo.Session, vsu *discordgo.VoiceStateUpdate, before *discordgo.VoiceState, guildID int64) {
	if before == nil {
		return
	}

	channelField := &discordgo.MessageEmbedField{
		Name:   "Channel",
		Value:  fmt.Sprintf("🔊 %s", f.channelName(vsu.ChannelID)),
		Inline: true,
	}

	if before.SelfMute != vsu.SelfMute || before.Mute != vsu.Mute {
		f.router.Dispatch(ctx, guildID, models.EventVoiceMute, func() *discordgo.MessageEmbed {
			muted := vsu.SelfMute || vsu.Mute
			title := "🎙️ Unmuted"
			if muted {
				title = "🔇 Muted"
			}
			embed := f.newVoiceEmbed(vsu.Member, title)
			embed.Fields = []*discordgo.MessageEmbedField{
				channelField,
				{Name: "Type", Value: muteSource(before.Mute != vsu.Mute), Inline: true},
			}
			return embed
		})
	}

	if before.SelfDeaf != vsu.SelfDeaf || before.Deaf != vsu.Deaf {
		f.router.Dispatch(ctx, guildID, models.EventVoiceDeafen, func() *discordgo.MessageEmbed {
			deafened := vsu.SelfDeaf || vsu.Deaf
			title := "🔊 Undeafened"
			if deafened {
				title = "🔕 Deafened"
			}
			embed := f.newVoiceEmbed(vsu.Member, title)
			embed.Fields = []*discordgo.MessageEmbedField{
				channelField,
				{Name: "Type", Value: muteSource(before.Deaf != vsu.Deaf), Inline: true},
			}
			return embed
		})
	}

	if before.SelfStream != vsu.SelfStream {
		f.router.Dispatch(ctx, guildID, models.EventVoiceStream, func() *discordgo.MessageEmbed {
			title := "📴 Stopped Streaming"
			if vsu.SelfStream {
				title = "📺 Started Streaming"
			}
			embed := f.newVoiceEmbed(vsu.Member, title)
			embed.Fields = []*discordgo.MessageEmbedField{channelField}
			return embed
		})
	}

	if before.SelfVideo != vsu.SelfVideo {
		f.router.Dispatch(ctx, guildID, models.EventVoiceVideo, func() *discordgo.MessageEmbed {
			title := "📷 Camera Off"
			if vsu.SelfVideo {
				title = "🎥 Camera On"
			}
			embed := f.newVoiceEmbed(vsu.Member, title)
			embed.Fields = []*discordgo.MessageEmbedField{channelField}
			return embed
		})
	}
}

func (f *Feature) newVoiceEmbed(member *discordgo.Member, title string) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{Title: title}
	if member != nil && member.User != nil {
		embed.Author = &discordgo.MessageEmbedAuthor{
			Name:    member.User.Username,
			IconURL: member.User.AvatarURL("64"),
		}
		embed.Footer = &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("User ID: %s", member.User.ID),
		}
	}
	return embed
}

func memberUsername(member *discordgo.Member) string {
	if member != nil && member.User != nil {
		return member.User.Username
	}
	return "unknown"
}

// muteSource distinguishes a server-side moderation action from a user
// toggling their own state
func muteSource(server bool) string {
	if server {
		return "Server"
	}
	return "Self"
}
