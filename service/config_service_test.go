package service

import (
	"context"
	"testing"

	"fenrir/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestConfigService_GetOrCreateConfig_Existing(t *testing.T) {
	ctx := context.Background()

	mockGuildRepo := new(MockGuildConfigRepository)
	mockEventRepo := new(MockEventConfigRepository)
	mockChannelRepo := new(MockEventChannelRepository)

	service := NewConfigService(mockGuildRepo, mockEventRepo, mockChannelRepo)

	existing := models.NewGuildConfig(77, "Old Name")
	mockGuildRepo.On("Get", ctx, int64(77)).Return(existing, nil)
	mockGuildRepo.On("Upsert", ctx, mock.MatchedBy(func(c *models.GuildConfig) bool {
		return c.GuildID == 77 && c.GuildName == "New Name"
	})).Return(nil)

	config, err := service.GetOrCreateConfig(ctx, 77, "New Name")

	require.NoError(t, err)
	assert.Equal(t, "New Name", config.GuildName)
	mockGuildRepo.AssertExpectations(t)
}

func TestConfigService_GetOrCreateConfig_New(t *testing.T) {
	ctx := context.Background()

	mockGuildRepo := new(MockGuildConfigRepository)
	mockEventRepo := new(MockEventConfigRepository)
	mockChannelRepo := new(MockEventChannelRepository)

	service := NewConfigService(mockGuildRepo, mockEventRepo, mockChannelRepo)

	mockGuildRepo.On("Get", ctx, int64(77)).Return(nil, nil)
	mockGuildRepo.On("Upsert", ctx, mock.MatchedBy(func(c *models.GuildConfig) bool {
		return c.GuildID == 77 && !c.LoggingEnabled && c.EmbedColor == models.DefaultEmbedColor
	})).Return(nil)

	config, err := service.GetOrCreateConfig(ctx, 77, "Fresh Guild")

	require.NoError(t, err)
	assert.Equal(t, int64(77), config.GuildID)
	assert.False(t, config.LoggingEnabled, "fresh configs start with logging off")
	mockGuildRepo.AssertExpectations(t)
}

func TestConfigService_IsEventLoggable(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name         string
		config       *models.GuildConfig
		eventEnabled bool
		want         bool
	}{
		{
			name:   "unconfigured guild",
			config: nil,
			want:   false,
		},
		{
			name:   "master switch off",
			config: &models.GuildConfig{GuildID: 1, LoggingEnabled: false},
			want:   false,
		},
		{
			name:         "enabled event",
			config:       &models.GuildConfig{GuildID: 1, LoggingEnabled: true},
			eventEnabled: true,
			want:         true,
		},
		{
			name:         "disabled event",
			config:       &models.GuildConfig{GuildID: 1, LoggingEnabled: true},
			eventEnabled: false,
			want:         false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockGuildRepo := new(MockGuildConfigRepository)
			mockEventRepo := new(MockEventConfigRepository)
			mockChannelRepo := new(MockEventChannelRepository)

			service := NewConfigService(mockGuildRepo, mockEventRepo, mockChannelRepo)

			if tt.config == nil {
				mockGuildRepo.On("Get", ctx, int64(1)).Return(nil, nil)
			} else {
				mockGuildRepo.On("Get", ctx, int64(1)).Return(tt.config, nil)
			}
			if tt.config != nil && tt.config.LoggingEnabled {
				mockEventRepo.On("IsEnabled", ctx, int64(1), models.EventMessageDelete).Return(tt.eventEnabled, nil)
			}

			loggable, err := service.IsEventLoggable(ctx, 1, models.EventMessageDelete)

			require.NoError(t, err)
			assert.Equal(t, tt.want, loggable)

			if tt.config == nil || !tt.config.LoggingEnabled {
				mockEventRepo.AssertNotCalled(t, "IsEnabled")
			}
		})
	}
}

func TestConfigService_MapEventChannel(t *testing.T) {
	ctx := context.Background()

	mockGuildRepo := new(MockGuildConfigRepository)
	mockEventRepo := new(MockEventConfigRepository)
	mockChannelRepo := new(MockEventChannelRepository)

	service := NewConfigService(mockGuildRepo, mockEventRepo, mockChannelRepo)

	mockChannelRepo.On("Set", ctx, mock.MatchedBy(func(m *models.EventChannelMapping) bool {
		return m.GuildID == 10 && m.EventType == models.EventVoiceJoin && m.ChannelID == 88
	})).Return(nil)
	mockEventRepo.On("SetEnabled", ctx, int64(10), models.EventVoiceJoin, true).Return(nil)

	err := service.MapEventChannel(ctx, 10, models.EventVoiceJoin, 88, "voice-joins")

	require.NoError(t, err)
	mockChannelRepo.AssertExpectations(t)
	mockEventRepo.AssertExpectations(t)
}

func TestConfigService_MapEventChannel_UnknownType(t *testing.T) {
	ctx := context.Background()

	mockGuildRepo := new(MockGuildConfigRepository)
	mockEventRepo := new(MockEventConfigRepository)
	mockChannelRepo := new(MockEventChannelRepository)

	service := NewConfigService(mockGuildRepo, mockEventRepo, mockChannelRepo)

	err := service.MapEventChannel(ctx, 10, models.EventType("nonsense"), 88, "nonsense")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown event type")
	mockChannelRepo.AssertNotCalled(t, "Set")
}

func TestConfigService_MapEventsChannel(t *testing.T) {
	ctx := context.Background()

	mockGuildRepo := new(MockGuildConfigRepository)
	mockEventRepo := new(MockEventConfigRepository)
	mockChannelRepo := new(MockEventChannelRepository)

	service := NewConfigService(mockGuildRepo, mockEventRepo, mockChannelRepo)

	events := []models.EventType{models.EventMemberJoin, models.EventMemberLeave}
	mockChannelRepo.On("SetMany", ctx, int64(4), events, int64(200), "member-logs").Return(nil)
	mockEventRepo.On("SetEnabled", ctx, int64(4), models.EventMemberJoin, true).Return(nil)
	mockEventRepo.On("SetEnabled", ctx, int64(4), models.EventMemberLeave, true).Return(nil)

	err := service.MapEventsChannel(ctx, 4, events, 200, "member-logs")

	require.NoError(t, err)
	mockChannelRepo.AssertExpectations(t)
	mockEventRepo.AssertExpectations(t)
}

func TestConfigService_ResetMappings(t *testing.T) {
	ctx := context.Background()

	mockGuildRepo := new(MockGuildConfigRepository)
	mockEventRepo := new(MockEventConfigRepository)
	mockChannelRepo := new(MockEventChannelRepository)

	service := NewConfigService(mockGuildRepo, mockEventRepo, mockChannelRepo)

	mockChannelRepo.On("Clear", ctx, int64(6)).Return(5, nil)

	removed, err := service.ResetMappings(ctx, 6)

	require.NoError(t, err)
	assert.Equal(t, 5, removed)

	// Reset touches only mappings
	mockEventRepo.AssertNotCalled(t, "SetEnabled")
}
