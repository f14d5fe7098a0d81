package bot

import (
	"fmt"

	"fenrir/models"

	"github.com/bwmarrin/discordgo"
)

// eventTypeChoices builds the choice list for event type options. Discord
// caps choices at 25 per option; all fifteen event types fit.
func eventTypeChoices() []*discordgo.ApplicationCommandOptionChoice {
	eventTypes := models.AllEventTypes()
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(eventTypes))
	for _, et := range eventTypes {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  et.Display(),
			Value: string(et),
		})
	}
	return choices
}

// registerCommands registers all slash commands with Discord
func (b *Bot) registerCommands() error {
	commands := []*discordgo.ApplicationCommand{
		{
			Name:        "logs",
			Description: "Configure server logging",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "config",
					Description: "View or change logging settings",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:         discordgo.ApplicationCommandOptionChannel,
							Name:         "channel",
							Description:  "Default channel for unmapped events",
							ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
						},
						{
							Type:        discordgo.ApplicationCommandOptionBoolean,
							Name:        "enabled",
							Description: "Master switch for all logging",
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "event",
					Description: "Enable or disable a single event type",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "type",
							Description: "Event type to toggle",
							Required:    true,
							Choices:     eventTypeChoices(),
						},
						{
							Type:        discordgo.ApplicationCommandOptionBoolean,
							Name:        "enabled",
							Description: "Whether to log this event",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "channel",
					Description: "Route one event type to a channel",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "type",
							Description: "Event type to route",
							Required:    true,
							Choices:     eventTypeChoices(),
						},
						{
							Type:         discordgo.ApplicationCommandOptionChannel,
							Name:         "channel",
							Description:  "Destination channel",
							Required:     true,
							ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "group",
					Description: "Route several event types to one channel",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "types",
							Description: "Comma-separated event types or a group name (message, member, file, voice)",
							Required:    true,
						},
						{
							Type:         discordgo.ApplicationCommandOptionChannel,
							Name:         "channel",
							Description:  "Destination channel",
							Required:     true,
							ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "list",
					Description: "Show which events go to which channels",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "test",
					Description: "Send a test record to every configured channel",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "reset",
					Description: "Remove all channel mappings",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "setup",
					Description: "Create log channels and wire up routing",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "mode",
							Description: "One channel per event, or one per group",
							Choices: []*discordgo.ApplicationCommandOptionChoice{
								{Name: "Granular (one channel per event)", Value: "granular"},
								{Name: "Grouped (one channel per group)", Value: "grouped"},
							},
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "status",
					Description: "Show logging health for this server",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "events",
					Description: "List all supported event types",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "debug",
					Description: "Trace where an event would be delivered",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "type",
							Description: "Event type to trace",
							Required:    true,
							Choices:     eventTypeChoices(),
						},
					},
				},
			},
		},
		{
			Name:        "voice",
			Description: "Voice activity tracking",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "stats",
					Description: "Voice activity statistics for this server",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "days",
							Description: "Reporting window in days (default 7)",
							MinValue:    float64Ptr(1),
							MaxValue:    30,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "sessions",
					Description: "List users currently in voice channels",
				},
			},
		},
	}

	for _, cmd := range commands {
		_, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, "", cmd)
		if err != nil {
			return fmt.Errorf("cannot create '%s' command: %w", cmd.Name, err)
		}
	}

	return nil
}

func float64Ptr(v float64) *float64 {
	return &v
}
