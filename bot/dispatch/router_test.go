package dispatch

import (
	"context"
	"errors"
	"testing"

	"fenrir/models"
	"fenrir/service"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockConfigService struct {
	mock.Mock
}

func (m *mockConfigService) GetConfig(ctx context.Context, guildID int64) (*models.GuildConfig, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GuildConfig), args.Error(1)
}

func (m *mockConfigService) GetOrCreateConfig(ctx context.Context, guildID int64, guildName string) (*models.GuildConfig, error) {
	args := m.Called(ctx, guildID, guildName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GuildConfig), args.Error(1)
}

func (m *mockConfigService) UpdateConfig(ctx context.Context, config *models.GuildConfig) error {
	args := m.Called(ctx, config)
	return args.Error(0)
}

func (m *mockConfigService) SetEventEnabled(ctx context.Context, guildID int64, eventType models.EventType, enabled bool) error {
	args := m.Called(ctx, guildID, eventType, enabled)
	return args.Error(0)
}

func (m *mockConfigService) SetEventsEnabled(ctx context.Context, guildID int64, eventTypes []models.EventType, enabled bool) error {
	args := m.Called(ctx, guildID, eventTypes, enabled)
	return args.Error(0)
}

func (m *mockConfigService) IsEventLoggable(ctx context.Context, guildID int64, eventType models.EventType) (bool, error) {
	args := m.Called(ctx, guildID, eventType)
	return args.Bool(0), args.Error(1)
}

func (m *mockConfigService) EnabledEvents(ctx context.Context, guildID int64) (map[models.EventType]bool, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[models.EventType]bool), args.Error(1)
}

func (m *mockConfigService) MapEventChannel(ctx context.Context, guildID int64, eventType models.EventType, channelID int64, channelName string) error {
	args := m.Called(ctx, guildID, eventType, channelID, channelName)
	return args.Error(0)
}

func (m *mockConfigService) MapEventsChannel(ctx context.Context, guildID int64, eventTypes []models.EventType, channelID int64, channelName string) error {
	args := m.Called(ctx, guildID, eventTypes, channelID, channelName)
	return args.Error(0)
}

func (m *mockConfigService) MappingSummary(ctx context.Context, guildID int64) (*models.ChannelMappingSummary, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChannelMappingSummary), args.Error(1)
}

func (m *mockConfigService) ResetMappings(ctx context.Context, guildID int64) (int, error) {
	args := m.Called(ctx, guildID)
	return args.Int(0), args.Error(1)
}

type mockResolver struct {
	mock.Mock
}

func (m *mockResolver) ResolveChannel(ctx context.Context, guildID int64, eventType models.EventType) (*service.ResolvedChannel, error) {
	args := m.Called(ctx, guildID, eventType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ResolvedChannel), args.Error(1)
}

func (m *mockResolver) TestResolution(ctx context.Context, guildID int64, eventType models.EventType) (*service.ResolutionResult, error) {
	args := m.Called(ctx, guildID, eventType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ResolutionResult), args.Error(1)
}

func (m *mockResolver) HealMapping(ctx context.Context, guildID int64, eventType models.EventType) error {
	args := m.Called(ctx, guildID, eventType)
	return args.Error(0)
}

type mockSender struct {
	mock.Mock
}

func (m *mockSender) SendEmbed(channelID int64, embed *discordgo.MessageEmbed) error {
	args := m.Called(channelID, embed)
	return args.Error(0)
}

func TestEventRouter_DisabledEventIsSilent(t *testing.T) {
	ctx := context.Background()

	configService := new(mockConfigService)
	resolver := new(mockResolver)
	sender := new(mockSender)

	router := NewEventRouter(configService, resolver, sender)

	configService.On("IsEventLoggable", ctx, int64(1), models.EventMessageDelete).Return(false, nil)

	built := false
	router.Dispatch(ctx, 1, models.EventMessageDelete, func() *discordgo.MessageEmbed {
		built = true
		return &discordgo.MessageEmbed{Title: "x"}
	})

	assert.False(t, built, "disabled events must not pay for embed building")
	resolver.AssertNotCalled(t, "ResolveChannel")
	sender.AssertNotCalled(t, "SendEmbed")
}

func TestEventRouter_DispatchSendsStyledEmbed(t *testing.T) {
	ctx := context.Background()

	configService := new(mockConfigService)
	resolver := new(mockResolver)
	sender := new(mockSender)

	router := NewEventRouter(configService, resolver, sender)

	configService.On("IsEventLoggable", ctx, int64(1), models.EventMemberJoin).Return(true, nil)
	resolver.On("ResolveChannel", ctx, int64(1), models.EventMemberJoin).Return(&service.ResolvedChannel{ChannelID: 42, Tier: 1}, nil)
	configService.On("GetConfig", ctx, int64(1)).Return(&models.GuildConfig{
		GuildID:        1,
		LoggingEnabled: true,
		ShowAvatars:    true,
		ShowTimestamps: true,
		EmbedColor:     "#ff0000",
	}, nil)

	embed := &discordgo.MessageEmbed{Title: "Member joined"}
	sender.On("SendEmbed", int64(42), embed).Return(nil)

	router.Dispatch(ctx, 1, models.EventMemberJoin, func() *discordgo.MessageEmbed { return embed })

	assert.Equal(t, 0xff0000, embed.Color)
	assert.NotEmpty(t, embed.Timestamp)
	sender.AssertExpectations(t)
}

func TestEventRouter_NoDestinationDrops(t *testing.T) {
	ctx := context.Background()

	configService := new(mockConfigService)
	resolver := new(mockResolver)
	sender := new(mockSender)

	router := NewEventRouter(configService, resolver, sender)

	configService.On("IsEventLoggable", ctx, int64(1), models.EventVoiceJoin).Return(true, nil)
	resolver.On("ResolveChannel", ctx, int64(1), models.EventVoiceJoin).Return(nil, nil)

	built := false
	router.Dispatch(ctx, 1, models.EventVoiceJoin, func() *discordgo.MessageEmbed {
		built = true
		return &discordgo.MessageEmbed{}
	})

	assert.False(t, built, "unroutable events must not pay for embed building")
	sender.AssertNotCalled(t, "SendEmbed")
}

func TestEventRouter_UnknownChannelHealsMapping(t *testing.T) {
	ctx := context.Background()

	configService := new(mockConfigService)
	resolver := new(mockResolver)
	sender := new(mockSender)

	router := NewEventRouter(configService, resolver, sender)

	configService.On("IsEventLoggable", ctx, int64(1), models.EventMessageEdit).Return(true, nil)
	resolver.On("ResolveChannel", ctx, int64(1), models.EventMessageEdit).Return(&service.ResolvedChannel{ChannelID: 42, Tier: 1}, nil)
	configService.On("GetConfig", ctx, int64(1)).Return(nil, nil)

	sendErr := &discordgo.RESTError{Message: &discordgo.APIErrorMessage{Code: discordgo.ErrCodeUnknownChannel}}
	sender.On("SendEmbed", int64(42), mock.Anything).Return(sendErr)
	resolver.On("HealMapping", ctx, int64(1), models.EventMessageEdit).Return(nil)

	router.Dispatch(ctx, 1, models.EventMessageEdit, func() *discordgo.MessageEmbed { return &discordgo.MessageEmbed{} })

	resolver.AssertCalled(t, "HealMapping", ctx, int64(1), models.EventMessageEdit)
}

func TestEventRouter_PermissionFailureDoesNotHeal(t *testing.T) {
	ctx := context.Background()

	configService := new(mockConfigService)
	resolver := new(mockResolver)
	sender := new(mockSender)

	router := NewEventRouter(configService, resolver, sender)

	configService.On("IsEventLoggable", ctx, int64(1), models.EventMessageEdit).Return(true, nil)
	resolver.On("ResolveChannel", ctx, int64(1), models.EventMessageEdit).Return(&service.ResolvedChannel{ChannelID: 42, Tier: 1}, nil)
	configService.On("GetConfig", ctx, int64(1)).Return(nil, nil)

	sender.On("SendEmbed", int64(42), mock.Anything).Return(errors.New("HTTP 403 Forbidden"))

	router.Dispatch(ctx, 1, models.EventMessageEdit, func() *discordgo.MessageEmbed { return &discordgo.MessageEmbed{} })

	resolver.AssertNotCalled(t, "HealMapping")
}

func TestIsUnknownChannel(t *testing.T) {
	assert.True(t, IsUnknownChannel(&discordgo.RESTError{
		Message: &discordgo.APIErrorMessage{Code: discordgo.ErrCodeUnknownChannel},
	}))
	assert.False(t, IsUnknownChannel(&discordgo.RESTError{
		Message: &discordgo.APIErrorMessage{Code: discordgo.ErrCodeMissingPermissions},
	}))
	assert.False(t, IsUnknownChannel(errors.New("plain error")))
	assert.False(t, IsUnknownChannel(nil))
}
