package voicelogs

import (
	"context"
	"strconv"

	log "github.com/sirupsen/logrus"

	"fenrir/bot/common"
	"fenrir/bot/dispatch"

	"github.com/bwmarrin/discordgo"
)

// Feature logs voice channel activity: joins, leaves, moves, and state
// changes, backed by the in-memory session tracker
type Feature struct {
	session *discordgo.Session
	router  *dispatch.EventRouter
	tracker *Tracker

	removeHandler func()
	stopCleanup   func()
}

// NewFeature creates a new voice logging feature instance
func NewFeature(session *discordgo.Session, router *dispatch.EventRouter) *Feature {
	f := &Feature{
		session: session,
		router:  router,
	}
	f.tracker = NewTracker(f.userInVoice)
	return f
}

// Name identifies the module in logs
func (f *Feature) Name() string {
	return "voicelogs"
}

// Tracker exposes the session tracker for command handlers
func (f *Feature) Tracker() *Tracker {
	return f.tracker
}

// Setup registers the voice state handler and starts the cleanup worker
func (f *Feature) Setup(ctx context.Context) error {
	f.removeHandler = f.session.AddHandler(f.handleVoiceStateUpdate)
	f.stopCleanup = f.tracker.StartCleanupWorker()
	return nil
}

// Teardown stops the worker and flushes all live sessions
func (f *Feature) Teardown(ctx context.Context) error {
	if f.removeHandler != nil {
		f.removeHandler()
	}
	if f.stopCleanup != nil {
		f.stopCleanup()
	}

	for _, summary := range f.tracker.EndAll(ReasonShutdown) {
		log.WithFields(log.Fields{
			"user_id":  summary.UserID,
			"guild_id": summary.GuildID,
			"duration": summary.Duration,
		}).Info("Flushed voice session at shutdown")
	}

	return nil
}

// HandleCommand routes /voice subcommands to appropriate handlers
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
	case "stats":
		f.handleStats(s, i)
	case "sessions":
		f.handleSessions(s, i)
	}
}

// userInVoice checks the gateway state cache for a live voice connection
func (f *Feature) userInVoice(guildID, userID int64) bool {
	guild, err := f.session.State.Guild(strconv.FormatInt(guildID, 10))
	if err != nil {
		// Cache miss tells us nothing, keep the session
		return true
	}

	target := strconv.FormatInt(userID, 10)
	for _, vs := range guild.VoiceStates {
		if vs.UserID == target {
			return true
		}
	}

	return false
}

// channelName resolves a channel's name from the state cache
func (f *Feature) channelName(channelID string) string {
	channel, err := f.session.State.Channel(channelID)
	if err != nil || channel == nil {
		return "unknown"
	}
	return channel.Name
}
