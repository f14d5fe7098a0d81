package attachmentlogs

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"fenrir/bot/common"
	"fenrir/models"

	"github.com/bwmarrin/discordgo"
)

// handleMessageCreate logs uploads on messages that carry attachments
func (f *Feature) handleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.GuildID == "" || m.Author == nil || m.Author.Bot {
		return
	}
	if len(m.Attachments) == 0 {
		return
	}

	guildID, err := common.ParseSnowflake(m.GuildID)
	if err != nil {
		log.Errorf("Failed to parse guild ID %s: %v", m.GuildID, err)
		return
	}

	f.router.Dispatch(context.Background(), guildID, models.EventImageSend, func() *discordgo.MessageEmbed {
		embed := newAttachmentEmbed(m.Author, "📎 File Uploaded")
		embed.Fields = []*discordgo.MessageEmbedField{
			{Name: "Channel", Value: fmt.Sprintf("<#%s>", m.ChannelID), Inline: true},
			{Name: "Count", Value: fmt.Sprintf("%d", len(m.Attachments)), Inline: true},
		}
		embed.Fields = append(embed.Fields, attachmentFields(m.Attachments)...)

		// First image becomes the embed preview while its URL is still live
		for _, a := range m.Attachments {
			if CategorizeFile(a.Filename) == CategoryImage && !isSpoiler(a.Filename) {
				embed.Image = &discordgo.MessageEmbedImage{URL: a.URL}
				break
			}
		}
		return embed
	})
}

// handleMessageDelete logs deletions of messages that carried
// attachments, using whatever the cache still holds
func (f *Feature) handleMessageDelete(s *discordgo.Session, m *discordgo.MessageDelete) {
	if m.GuildID == "" {
		return
	}

	cached := m.BeforeDelete
	if cached == nil || len(cached.Attachments) == 0 {
		return
	}
	if cached.Author != nil && cached.Author.Bot {
		return
	}

	if !f.dedupe.Claim(m.ID) {
		return
	}

	guildID, err := common.ParseSnowflake(m.GuildID)
	if err != nil {
		log.Errorf("Failed to parse guild ID %s: %v", m.GuildID, err)
		return
	}

	f.router.Dispatch(context.Background(), guildID, models.EventImageDelete, func() *discordgo.MessageEmbed {
		embed := newAttachmentEmbed(cached.Author, "🗑️ File Deleted")
		embed.Fields = []*discordgo.MessageEmbedField{
			{Name: "Channel", Value: fmt.Sprintf("<#%s>", m.ChannelID), Inline: true},
			{Name: "Count", Value: fmt.Sprintf("%d", len(cached.Attachments)), Inline: true},
		}
		if cached.Content != "" {
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
				Name:  "Message",
				Value: common.Truncate(cached.Content, 1024),
			})
		}
		embed.Fields = append(embed.Fields, attachmentFields(cached.Attachments)...)
		return embed
	})
}

// attachmentFields renders one field per attachment with the metadata
// worth keeping once the URL is gone
func attachmentFields(attachments []*discordgo.MessageAttachment) []*discordgo.MessageEmbedField {
	fields := make([]*discordgo.MessageEmbedField, 0, len(attachments))
	for _, a := range attachments {
		var parts []string
		parts = append(parts, common.FormatFileSize(a.Size))
		if a.ContentType != "" {
			parts = append(parts, a.ContentType)
		}
		if a.Width > 0 && a.Height > 0 {
			parts = append(parts, fmt.Sprintf("%dx%d", a.Width, a.Height))
		}
		if isSpoiler(a.Filename) {
			parts = append(parts, "spoiler")
		}
		parts = append(parts, string(CategorizeFile(a.Filename)))

		fields = append(fields, &discordgo.MessageEmbedField{
			Name:  common.Truncate(a.Filename, 256),
			Value: strings.Join(parts, " · "),
		})
	}
	return fields
}

func newAttachmentEmbed(author *discordgo.User, title string) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{Title: title}
	if author != nil {
		embed.Author = &discordgo.MessageEmbedAuthor{
			Name:    author.Username,
			IconURL: author.AvatarURL("64"),
		}
		embed.Footer = &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("User ID: %s", author.ID),
		}
	}
	return embed
}

func isSpoiler(filename string) bool {
	return strings.HasPrefix(filename, "SPOILER_")
}
