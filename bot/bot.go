package bot

import (
	"context"
	"fmt"

	"fenrir/bot/common"
	"fenrir/bot/dispatch"
	"fenrir/bot/features/admin"
	"fenrir/bot/features/attachmentlogs"
	"fenrir/bot/features/memberlogs"
	"fenrir/bot/features/messagelogs"
	"fenrir/bot/features/voicelogs"
	"fenrir/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Config holds bot configuration
type Config struct {
	Token            string
	MessageCacheSize int
}

// gatewayIntents covers every event the feature modules subscribe to:
// message edits/deletes with content, member joins/leaves, bans and
// audit log access, and voice state changes
const gatewayIntents = discordgo.IntentGuilds |
	discordgo.IntentGuildMessages |
	discordgo.IntentGuildMembers |
	discordgo.IntentGuildModeration |
	discordgo.IntentGuildVoiceStates |
	discordgo.IntentMessageContent

// Bot manages the Discord session and all logging feature modules
type Bot struct {
	config        Config
	session       *discordgo.Session
	configService service.ConfigService
	resolver      service.ChannelResolver

	// Feature modules
	admin          *admin.Feature
	messageLogs    *messagelogs.Feature
	attachmentLogs *attachmentlogs.Feature
	memberLogs     *memberlogs.Feature
	voiceLogs      *voicelogs.Feature

	modules []dispatch.Module

	// Worker cleanup functions
	stopDedupeWorker func()
}

// New creates a new bot instance with all features wired and the gateway open
func New(config Config, guildRepo service.GuildConfigRepository, eventRepo service.EventConfigRepository, channelRepo service.EventChannelRepository) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = gatewayIntents

	// Delete and edit handlers depend on the state cache for pre-change content
	dg.State.MaxMessageCount = config.MessageCacheSize

	validator := newStateChannelValidator(dg)
	configService := service.NewConfigService(guildRepo, eventRepo, channelRepo)
	resolver := service.NewChannelResolver(guildRepo, channelRepo, validator)
	sender := newSessionSender(dg)
	router := dispatch.NewEventRouter(configService, resolver, sender)
	dedupe := dispatch.NewDedupe()

	bot := &Bot{
		config:        config,
		session:       dg,
		configService: configService,
		resolver:      resolver,
	}

	bot.admin = admin.NewFeature(dg, configService, resolver, sender)
	bot.messageLogs = messagelogs.NewFeature(dg, router, dedupe)
	bot.attachmentLogs = attachmentlogs.NewFeature(dg, router, dedupe)
	bot.memberLogs = memberlogs.NewFeature(dg, router)
	bot.voiceLogs = voicelogs.NewFeature(dg, router)

	bot.modules = []dispatch.Module{
		bot.messageLogs,
		bot.attachmentLogs,
		bot.memberLogs,
		bot.voiceLogs,
	}

	dg.AddHandler(bot.handleCommands)

	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	ctx := context.Background()
	for _, module := range bot.modules {
		if err := module.Setup(ctx); err != nil {
			bot.teardownModules(ctx)
			dg.Close()
			return nil, fmt.Errorf("error setting up %s module: %w", module.Name(), err)
		}
		log.Infof("Module %s started", module.Name())
	}

	bot.stopDedupeWorker = dedupe.StartResetWorker(dispatch.DedupeResetInterval)

	return bot, nil
}

// GetSession returns the Discord session
func (b *Bot) GetSession() *discordgo.Session {
	return b.session
}

// Close gracefully shuts down the bot
func (b *Bot) Close() error {
	if b.stopDedupeWorker != nil {
		b.stopDedupeWorker()
	}

	b.teardownModules(context.Background())
	log.Info("Feature modules stopped")

	return b.session.Close()
}

// teardownModules stops modules in reverse setup order
func (b *Bot) teardownModules(ctx context.Context) {
	for i := len(b.modules) - 1; i >= 0; i-- {
		module := b.modules[i]
		if err := module.Teardown(ctx); err != nil {
			log.Errorf("Error tearing down %s module: %v", module.Name(), err)
		}
	}
}

// handleCommands routes slash commands to appropriate handlers
func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	switch i.ApplicationCommandData().Name {
	case "logs":
		b.admin.HandleCommand(s, i)
	case "voice":
		b.voiceLogs.HandleCommand(s, i)
	}
}

// sessionSender posts embeds through the live Discord session
type sessionSender struct {
	session *discordgo.Session
}

func newSessionSender(session *discordgo.Session) *sessionSender {
	return &sessionSender{session: session}
}

func (s *sessionSender) SendEmbed(channelID int64, embed *discordgo.MessageEmbed) error {
	_, err := s.session.ChannelMessageSendEmbed(common.FormatSnowflake(channelID), embed)
	return err
}

// stateChannelValidator checks channel existence and bot permissions,
// preferring the state cache and falling back to the REST API on a miss.
type stateChannelValidator struct {
	session *discordgo.Session
}

func newStateChannelValidator(session *discordgo.Session) *stateChannelValidator {
	return &stateChannelValidator{session: session}
}

func (v *stateChannelValidator) ValidateChannel(guildID, channelID int64) error {
	channelIDStr := common.FormatSnowflake(channelID)

	channel, err := v.session.State.Channel(channelIDStr)
	if err != nil {
		channel, err = v.session.Channel(channelIDStr)
		if err != nil {
			return fmt.Errorf("channel %d not found: %w", channelID, err)
		}
	}

	if channel.GuildID != common.FormatSnowflake(guildID) {
		return fmt.Errorf("channel %d belongs to a different guild", channelID)
	}
	if channel.Type != discordgo.ChannelTypeGuildText && channel.Type != discordgo.ChannelTypeGuildNews {
		return fmt.Errorf("channel %d is not a text channel", channelID)
	}

	perms, err := v.session.State.UserChannelPermissions(v.session.State.User.ID, channelIDStr)
	if err != nil {
		return fmt.Errorf("cannot determine permissions for channel %d: %w", channelID, err)
	}
	const required = discordgo.PermissionViewChannel | discordgo.PermissionSendMessages | discordgo.PermissionEmbedLinks
	if perms&required != required {
		return fmt.Errorf("missing send or embed permission in channel %d", channelID)
	}

	return nil
}
