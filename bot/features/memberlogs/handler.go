package memberlogs

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

// youngAccountAge marks freshly created accounts on join
const youngAccountAge = 7 * 24 * time.Hour

// auditLookbackLimit bounds the audit log scan for ban attribution
const auditLookbackLimit = 10

// handleMemberAdd logs member joins with an account-age notice for
// young accounts
func (f *Feature) handleMemberAdd(s *discordgo.Session, m *discordgo.GuildMemberAdd) {
	if m.User == nil || m.User.Bot {
		return
	}

	guildID, err := common.ParseSnowflake(m.GuildID)
	if err != nil {
		log.Errorf("Failed to parse guild ID %s: %v", m.GuildID, err)
		return
	}

	f.router.Dispatch(context.Background(), guildID, models.EventMemberJoin, func() *discordgo.MessageEmbed {
		created, _ := discordgo.SnowflakeTimestamp(m.User.ID)

		embed := newMemberEmbed(m.User, "📥 Member Joined")
		embed.Fields = []*discordgo.MessageEmbedField{
			{Name: "Account Created", Value: common.FormatDiscordTimestamp(created, "R"), Inline: true},
		}

		if age := time.Since(created); age < youngAccountAge {
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
				Name:   "⚠️ New Account",
				Value:  fmt.Sprintf("Created %s ago", common.FormatDuration(age)),
				Inline: true,
			})
		}

		if guild, err := s.State.Guild(m.GuildID); err == nil && guild.MemberCount > 0 {
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
				Name:   "Member Count",
				Value:  fmt.Sprintf("%d", guild.MemberCount),
				Inline: true,
			})
		}
		return embed
	})
}

// handleMemberRemove logs member leaves with the roles they held
func (f *Feature) handleMemberRemove(s *discordgo.Session, m *discordgo.GuildMemberRemove) {
	if m.User == nil || m.User.Bot {
		return
	}

	guildID, err := common.ParseSnowflake(m.GuildID)
	if err != nil {
		log.Errorf("Failed to parse guild ID %s: %v", m.GuildID, err)
		return
	}

	f.router.Dispatch(context.Background(), guildID, models.EventMemberLeave, func() *discordgo.MessageEmbed {
		embed := newMemberEmbed(m.User, "📤 Member Left")

		if len(m.Roles) > 0 {
			mentions := make([]string, 0, len(m.Roles))
			for _, roleID := range m.Roles {
				mentions = append(mentions, fmt.Sprintf("<@&%s>", roleID))
			}
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
				Name:  "Roles",
				Value: common.Truncate(strings.Join(mentions, " "), 1024),
			})
		}
		return embed
	})
}

// handleBanAdd logs bans, attributing the moderator from the audit log
// when possible
func (f *Feature) handleBanAdd(s *discordgo.Session, b *discordgo.GuildBanAdd) {
	if b.User == nil {
		return
	}

	guildID, err := common.ParseSnowflake(b.GuildID)
	if err != nil {
		log.Errorf("Failed to parse guild ID %s: %v", b.GuildID, err)
		return
	}

	f.router.Dispatch(context.Background(), guildID, models.EventMemberBan, func() *discordgo.MessageEmbed {
		embed := newMemberEmbed(b.User, "🔨 Member Banned")
		f.enrichFromAuditLog(s, embed, b.GuildID, b.User.ID, discordgo.AuditLogActionMemberBanAdd)
		return embed
	})
}

// handleBanRemove logs unbans with the same audit attribution
func (f *Feature) handleBanRemove(s *discordgo.Session, b *discordgo.GuildBanRemove) {
	if b.User == nil {
		return
	}

	guildID, err := common.ParseSnowflake(b.GuildID)
	if err != nil {
		log.Errorf("Failed to parse guild ID %s: %v", b.GuildID, err)
		return
	}

	f.router.Dispatch(context.Background(), guildID, models.EventMemberUnban, func() *discordgo.MessageEmbed {
		embed := newMemberEmbed(b.User, "🔓 Member Unbanned")
		f.enrichFromAuditLog(s, embed, b.GuildID, b.User.ID, discordgo.AuditLogActionMemberBanRemove)
		return embed
	})
}

// enrichFromAuditLog scans the most recent audit entries for a matching
// action and adds moderator and reason fields. Enrichment is strictly
// best-effort: missing permission or no match leaves the embed as is.
func (f *Feature) enrichFromAuditLog(s *discordgo.Session, embed *discordgo.MessageEmbed, guildID, targetUserID string, action discordgo.AuditLogAction) {
	audit, err := s.GuildAuditLog(guildID, "", "", int(action), auditLookbackLimit)
	if err != nil {
		log.Warnf("Audit log lookup failed for guild %s: %v", guildID, err)
		return
	}

	for _, entry := range audit.AuditLogEntries {
		if entry.TargetID != targetUserID {
			continue
		}

		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "Moderator",
			Value:  common.UserMention(entry.UserID),
			Inline: true,
		})
		if entry.Reason != "" {
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
				Name:  "Reason",
				Value: common.Truncate(entry.Reason, 1024),
			})
		}
		return
	}
}

func newMemberEmbed(user *discordgo.User, title string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: title,
		Author: &discordgo.MessageEmbedAuthor{
			Name:    user.Username,
			IconURL: user.AvatarURL("64"),
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("User ID: %s", user.ID),
		},
	}
}
