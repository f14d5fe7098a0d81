package common

import (
	"strconv"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// ParseSnowflake converts a Discord snowflake ID string to int64
func ParseSnowflake(id string) (int64, error) {
	return strconv.ParseInt(id, 10, 64)
}

// FormatSnowflake converts an int64 snowflake ID to string
func FormatSnowflake(id int64) string {
	return strconv.FormatInt(id, 10)
}

// UserMention returns a Discord mention string for a user
func UserMention(userID string) string {
	return "<@" + userID + ">"
}

// ChannelMention returns a Discord mention string for a channel
func ChannelMention(channelID int64) string {
	return "<#" + FormatSnowflake(channelID) + ">"
}

// IsUserAdmin checks if a user has administrator permissions in a guild
func IsUserAdmin(s *discordgo.Session, guildID, userID string) bool {
	member, err := s.GuildMember(guildID, userID)
	if err != nil {
		log.Errorf("Failed to get guild member: %v", err)
		return false
	}

	for _, roleID := range member.Roles {
		role, err := s.State.Role(guildID, roleID)
		if err != nil {
			continue
		}
		if role.Permissions&discordgo.PermissionAdministrator != 0 {
			return true
		}
	}

	return false
}
