package admin

import (
	"testing"

	"fenrir/models"

	"github.com/stretchr/testify/assert"
)

func TestParseEventList(t *testing.T) {
	t.Run("plain types", func(t *testing.T) {
		eventTypes, unknown := parseEventList("message_delete, member_ban")
		assert.Empty(t, unknown)
		assert.Equal(t, []models.EventType{models.EventMessageDelete, models.EventMemberBan}, eventTypes)
	})

	t.Run("group alias expands", func(t *testing.T) {
		eventTypes, unknown := parseEventList("voice")
		assert.Empty(t, unknown)
		assert.ElementsMatch(t, models.EventTypesInGroup(models.GroupVoice), eventTypes)
	})

	t.Run("mixed with duplicates", func(t *testing.T) {
		eventTypes, unknown := parseEventList("voice_join, voice")
		assert.Empty(t, unknown)
		assert.ElementsMatch(t, models.EventTypesInGroup(models.GroupVoice), eventTypes)
	})

	t.Run("unknown entries reported", func(t *testing.T) {
		eventTypes, unknown := parseEventList("message_delete, bogus, nonsense")
		assert.Equal(t, []models.EventType{models.EventMessageDelete}, eventTypes)
		assert.Equal(t, []string{"bogus", "nonsense"}, unknown)
	})

	t.Run("empty input", func(t *testing.T) {
		eventTypes, unknown := parseEventList("  ,, ")
		assert.Empty(t, eventTypes)
		assert.Empty(t, unknown)
	})
}
