package memberlogs

import (
	"context"

	"fenrir/bot/dispatch"

	"github.com/bwmarrin/discordgo"
)

// Feature logs membership changes: joins, leaves, bans and unbans, with
// best-effort moderator attribution from the audit log
type Feature struct {
	session *discordgo.Session
	router  *dispatch.EventRouter

	removeHandlers []func()
}

// NewFeature creates a new member logging feature instance
func NewFeature(session *discordgo.Session, router *dispatch.EventRouter) *Feature {
	return &Feature{
		session: session,
		router:  router,
	}
}

// Name identifies the module in logs
func (f *Feature) Name() string {
	return "memberlogs"
}

// Setup registers the membership handlers
func (f *Feature) Setup(ctx context.Context) error {
	f.removeHandlers = append(f.removeHandlers,
		f.session.AddHandler(f.handleMemberAdd),
		f.session.AddHandler(f.handleMemberRemove),
		f.session.AddHandler(f.handleBanAdd),
		f.session.AddHandler(f.handleBanRemove),
	)
	return nil
}

// Teardown removes the membership handlers
func (f *Feature) Teardown(ctx context.Context) error {
	for _, remove := range f.removeHandlers {
		remove()
	}
	f.removeHandlers = nil
	return nil
}
