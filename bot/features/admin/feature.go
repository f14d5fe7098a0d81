package admin

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"

	"fenrir/bot/common"
	"fenrir/bot/dispatch"
	"fenrir/service"

	"github.com/bwmarrin/discordgo"
)

// Feature handles the /logs administration surface: configuration,
// routing, diagnostics and channel provisioning
type Feature struct {
	session       *discordgo.Session
	configService service.ConfigService
	resolver      service.ChannelResolver
	sender        dispatch.ChannelSender
	provisioner   *Provisioner
}

// NewFeature creates a new admin feature instance
func NewFeature(session *discordgo.Session, configService service.ConfigService, resolver service.ChannelResolver, sender dispatch.ChannelSender) *Feature {
	return &Feature{
		session:       session,
		configService: configService,
		resolver:      resolver,
		sender:        sender,
		provisioner:   NewProvisioner(session, configService),
	}
}

// Name identifies the module in logs
func (f *Feature) Name() string {
	return "admin"
}

// Setup is a no-op: the admin feature only reacts to slash commands
func (f *Feature) Setup(ctx context.Context) error {
	return nil
}

// Teardown is a no-op
func (f *Feature) Teardown(ctx context.Context) error {
	return nil
}

// HandleCommand routes /logs subcommands to appropriate handlers
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		return
	}

	if !common.IsUserAdmin(s, i.GuildID, i.Member.User.ID) {
		common.RespondWithError(s, i, "You need administrator permissions to use this command")
		return
	}

	switch options[0].Name {
	case "config":
		f.handleConfig(s, i)
	case "event":
		f.handleEvent(s, i)
	case "channel":
		f.handleChannel(s, i)
	case "group":
		f.handleGroup(s, i)
	case "list":
		f.handleList(s, i)
	case "test":
		f.handleTest(s, i)
	case "reset":
		f.handleReset(s, i)
	case "setup":
		f.handleSetup(s, i)
	case "status":
		f.handleStatus(s, i)
	case "events":
		f.handleEvents(s, i)
	case "debug":
		f.handleDebug(s, i)
	}
}

// editError replaces a deferred response with the message matching the
// failure: user mistakes get their own text, everything else downgrades
// to a generic error after logging
func editError(s *discordgo.Session, i *discordgo.InteractionCreate, err error) {
	var botErr *common.BotError
	if errors.As(err, &botErr) {
		if botErr.Err != nil {
			log.Error(botErr.Error())
		}
		common.EditResponse(s, i, "❌ "+botErr.UserMessage)
		return
	}
	log.Errorf("Command failed: %v", err)
	common.EditResponseError(s, i)
}

// guildName resolves the guild's name from the state cache
func (f *Feature) guildName(guildID string) string {
	guild, err := f.session.State.Guild(guildID)
	if err != nil || guild == nil {
		return ""
	}
	return guild.Name
}
