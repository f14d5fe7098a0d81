package bot

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
)

func TestGatewayIntentsCoverHandledEvents(t *testing.T) {
	required := []discordgo.Intent{
		discordgo.IntentGuilds,
		discordgo.IntentGuildMessages,
		discordgo.IntentGuildMembers,
		discordgo.IntentGuildModeration,
		discordgo.IntentGuildVoiceStates,
		discordgo.IntentMessageContent,
	}
	for _, intent := range required {
		assert.NotZero(t, gatewayIntents&intent, "intent %d missing", intent)
	}
}
