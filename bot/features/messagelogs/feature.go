package messagelogs

import (
	"context"

	"fenrir/bot/dispatch"

	"github.com/bwmarrin/discordgo"
)

// Feature logs message edits and deletions. Deleted messages that
// carried attachments are left to the attachment logging feature.
type Feature struct {
	session *discordgo.Session
	router  *dispatch.EventRouter
	dedupe  *dispatch.Dedupe

	removeHandlers []func()
}

// NewFeature creates a new message logging feature instance
func NewFeature(session *discordgo.Session, router *dispatch.EventRouter, dedupe *dispatch.Dedupe) *Feature {
	return &Feature{
		session: session,
		router:  router,
		dedupe:  dedupe,
	}
}

// Name identifies the module in logs
func (f *Feature) Name() string {
	return "messagelogs"
}

// Setup registers the message handlers
func (f *Feature) Setup(ctx context.Context) error {
	f.removeHandlers = append(f.removeHandlers,
		f.session.AddHandler(f.handleMessageUpdate),
		f.session.AddHandler(f.handleMessageDelete),
	)
	return nil
}

// Teardown removes the message handlers
func (f *Feature) Teardown(ctx context.Context) error {
	for _, remove := range f.removeHandlers {
		remove()
	}
	f.removeHandlers = nil
	return nil
}
