package messagelogs

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"fenrir/bot/common"
	"fenrir/models"

	"github.com/bwmarrin/discordgo"
)

const fieldLimit = 1024

// handleMessageUpdate logs edits where the content actually changed
func (f *Feature) handleMessageUpdate(s *discordgo.Session, m *discordgo.MessageUpdate) {
	if m.GuildID == "" || m.Author == nil || m.Author.Bot {
		return
	}

	// Embed unfurls and pin changes also fire updates
	before := m.BeforeUpdate
	if before != nil && before.Content == m.Content {
		return
	}

	guildID, err := common.ParseSnowflake(m.GuildID)
	if err != nil {
		log.Errorf("Failed to parse guild ID %s: %v", m.GuildID, err)
		return
	}

	f.router.Dispatch(context.Background(), guildID, models.EventMessageEdit, func() *discordgo.MessageEmbed {
		embed := newMessageEmbed(m.Author, "✏️ Message Edited")
		embed.Fields = []*discordgo.MessageEmbedField{
			{Name: "Channel", Value: fmt.Sprintf("<#%s>", m.ChannelID), Inline: true},
		}

		if before != nil && before.Content != "" {
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
				Name:  "Before",
				Value: common.Truncate(before.Content, fieldLimit),
			})
		}
		if m.Content != "" {
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
				Name:  "After",
				Value: common.Truncate(m.Content, fieldLimit),
			})
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Jump",
			Value: fmt.Sprintf("[Go to message](https://discord.com/channels/%s/%s/%s)", m.GuildID, m.ChannelID, m.ID),
		})
		return embed
	})
}

// handleMessageDelete logs deletions of plain messages. Messages whose
// cached copy carried attachments belong to the attachment logs.
func (f *Feature) handleMessageDelete(s *discordgo.Session, m *discordgo.MessageDelete) {
	if m.GuildID == "" {
		return
	}

	cached := m.BeforeDelete
	if cached != nil {
		if cached.Author != nil && cached.Author.Bot {
			return
		}
		if len(cached.Attachments) > 0 {
			return
		}
	}

	if !f.dedupe.Claim(m.ID) {
		return
	}

	guildID, err := common.ParseSnowflake(m.GuildID)
	if err != nil {
		log.Errorf("Failed to parse guild ID %s: %v", m.GuildID, err)
		return
	}

	f.router.Dispatch(context.Background(), guildID, models.EventMessageDelete, func() *discordgo.MessageEmbed {
		var embed *discordgo.MessageEmbed
		if cached != nil && cached.Author != nil {
			embed = newMessageEmbed(cached.Author, "🗑️ Message Deleted")
			if cached.Content != "" {
				embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
					Name:  "Content",
					Value: common.Truncate(cached.Content, fieldLimit),
				})
			}
		} else {
			// Message was not in the cache, log what little we know
			embed = &discordgo.MessageEmbed{
				Title:       "🗑️ Message Deleted",
				Description: "An uncached message was deleted.",
				Footer:      &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("Message ID: %s", m.ID)},
			}
		}

		embed.Fields = append([]*discordgo.MessageEmbedField{
			{Name: "Channel", Value: fmt.Sprintf("<#%s>", m.ChannelID), Inline: true},
		}, embed.Fields...)
		return embed
	})
}

func newMessageEmbed(author *discordgo.User, title string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: title,
		Author: &discordgo.MessageEmbedAuthor{
			Name:    author.Username,
			IconURL: author.AvatarURL("64"),
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("User ID: %s", author.ID),
		},
	}
}
