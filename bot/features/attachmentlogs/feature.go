package attachmentlogs

import (
	"context"

	"fenrir/bot/dispatch"

	"github.com/bwmarrin/discordgo"
)

// Feature logs file uploads and deletions of messages that carried
// attachments. Attachment URLs die shortly after deletion, so metadata
// is captured immediately and best-effort.
type Feature struct {
	session *discordgo.Session
	router  *dispatch.EventRouter
	dedupe  *dispatch.Dedupe

	removeHandlers []func()
}

// NewFeature creates a new attachment logging feature instance
func NewFeature(session *discordgo.Session, router *dispatch.EventRouter, dedupe *dispatch.Dedupe) *Feature {
	return &Feature{
		session: session,
		router:  router,
		dedupe:  dedupe,
	}
}

// Name identifies the module in logs
func (f *Feature) Name() string {
	return "attachmentlogs"
}

// Setup registers the message handlers
func (f *Feature) Setup(ctx context.Context) error {
	f.removeHandlers = append(f.removeHandlers,
		f.session.AddHandler(f.handleMessageCreate),
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
