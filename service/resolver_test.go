package service

import (
	"context"
	"errors"
	"testing"

	"fenrir/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelResolver_MappedChannelWins(t *testing.T) {
	ctx := context.Background()

	mockGuildRepo := new(MockGuildConfigRepository)
	mockChannelRepo := new(MockEventChannelRepository)
	mockValidator := new(MockChannelValidator)

	resolver := NewChannelResolver(mockGuildRepo, mockChannelRepo, mockValidator)

	mockChannelRepo.On("Get", ctx, int64(1), models.EventMessageDelete).Return(&models.EventChannelMapping{
		GuildID:   1,
		EventType: models.EventMessageDelete,
		ChannelID: 500,
	}, nil)
	mockValidator.On("ValidateChannel", int64(1), int64(500)).Return(nil)

	resolved, err := resolver.ResolveChannel(ctx, 1, models.EventMessageDelete)

	require.NoError(t, err)
	require.NotNil(t, resolved)
	assert.Equal(t, int64(500), resolved.ChannelID)
	assert.Equal(t, 1, resolved.Tier)

	// The default channel is never consulted when the mapping holds
	mockGuildRepo.AssertNotCalled(t, "Get")
	mockChannelRepo.AssertExpectations(t)
	mockValidator.AssertExpectations(t)
}

func TestChannelResolver_BrokenMappingSelfHeals(t *testing.T) {
	ctx := context.Background()

	mockGuildRepo := new(MockGuildConfigRepository)
	mockChannelRepo := new(MockEventChannelRepository)
	mockValidator := new(MockChannelValidator)

	resolver := NewChannelResolver(mockGuildRepo, mockChannelRepo, mockValidator)

	defaultChannel := int64(900)
	mockChannelRepo.On("Get", ctx, int64(1), models.EventMemberJoin).Return(&models.EventChannelMapping{
		GuildID:   1,
		EventType: models.EventMemberJoin,
		ChannelID: 500,
	}, nil)
	mockValidator.On("ValidateChannel", int64(1), int64(500)).Return(errors.New("channel deleted"))
	mockChannelRepo.On("Remove", ctx, int64(1), models.EventMemberJoin).Return(nil)
	mockGuildRepo.On("Get", ctx, int64(1)).Return(&models.GuildConfig{
		GuildID:          1,
		LoggingEnabled:   true,
		DefaultChannelID: &defaultChannel,
	}, nil)
	mockValidator.On("ValidateChannel", int64(1), int64(900)).Return(nil)

	resolved, err := resolver.ResolveChannel(ctx, 1, models.EventMemberJoin)

	require.NoError(t, err)
	require.NotNil(t, resolved)
	assert.Equal(t, int64(900), resolved.ChannelID)
	assert.Equal(t, 2, resolved.Tier)

	mockChannelRepo.AssertExpectations(t)
	mockValidator.AssertExpectations(t)
}

func TestChannelResolver_NoMappingFallsToDefault(t *testing.T) {
	ctx := context.Background()

	mockGuildRepo := new(MockGuildConfigRepository)
	mockChannelRepo := new(MockEventChannelRepository)
	mockValidator := new(MockChannelValidator)

	resolver := NewChannelResolver(mockGuildRepo, mockChannelRepo, mockValidator)

	defaultChannel := int64(321)
	mockChannelRepo.On("Get", ctx, int64(5), models.EventVoiceJoin).Return(nil, nil)
	mockGuildRepo.On("Get", ctx, int64(5)).Return(&models.GuildConfig{
		GuildID:          5,
		LoggingEnabled:   true,
		DefaultChannelID: &defaultChannel,
	}, nil)
	mockValidator.On("ValidateChannel", int64(5), int64(321)).Return(nil)

	resolved, err := resolver.ResolveChannel(ctx, 5, models.EventVoiceJoin)

	require.NoError(t, err)
	require.NotNil(t, resolved)
	assert.Equal(t, int64(321), resolved.ChannelID)
	assert.Equal(t, 2, resolved.Tier)

	// No mapping means nothing to heal
	mockChannelRepo.AssertNotCalled(t, "Remove")
}

func TestChannelResolver_BrokenDefaultNotHealed(t *testing.T) {
	ctx := context.Background()

	mockGuildRepo := new(MockGuildConfigRepository)
	mockChannelRepo := new(MockEventChannelRepository)
	mockValidator := new(MockChannelValidator)

	resolver := NewChannelResolver(mockGuildRepo, mockChannelRepo, mockValidator)

	defaultChannel := int64(321)
	mockChannelRepo.On("Get", ctx, int64(5), models.EventVoiceJoin).Return(nil, nil)
	mockGuildRepo.On("Get", ctx, int64(5)).Return(&models.GuildConfig{
		GuildID:          5,
		LoggingEnabled:   true,
		DefaultChannelID: &defaultChannel,
	}, nil)
	mockValidator.On("ValidateChannel", int64(5), int64(321)).Return(errors.New("missing permissions"))

	resolved, err := resolver.ResolveChannel(ctx, 5, models.EventVoiceJoin)

	require.NoError(t, err)
	assert.Nil(t, resolved)

	// Only the per-event tier self-heals
	mockChannelRepo.AssertNotCalled(t, "Remove")
	mockGuildRepo.AssertNotCalled(t, "Upsert")
}

func TestChannelResolver_NothingConfigured(t *testing.T) {
	ctx := context.Background()

	mockGuildRepo := new(MockGuildConfigRepository)
	mockChannelRepo := new(MockEventChannelRepository)
	mockValidator := new(MockChannelValidator)

	resolver := NewChannelResolver(mockGuildRepo, mockChannelRepo, mockValidator)

	mockChannelRepo.On("Get", ctx, int64(9), models.EventMemberBan).Return(nil, nil)
	mockGuildRepo.On("Get", ctx, int64(9)).Return(nil, nil)

	resolved, err := resolver.ResolveChannel(ctx, 9, models.EventMemberBan)

	require.NoError(t, err)
	assert.Nil(t, resolved)
	mockValidator.AssertNotCalled(t, "ValidateChannel")
}

func TestChannelResolver_TestResolutionRecordsPath(t *testing.T) {
	ctx := context.Background()

	mockGuildRepo := new(MockGuildConfigRepository)
	mockChannelRepo := new(MockEventChannelRepository)
	mockValidator := new(MockChannelValidator)

	resolver := NewChannelResolver(mockGuildRepo, mockChannelRepo, mockValidator)

	t.Run("success via mapping", func(t *testing.T) {
		mockChannelRepo.On("Get", ctx, int64(1), models.EventMessageEdit).Return(&models.EventChannelMapping{
			GuildID:   1,
			EventType: models.EventMessageEdit,
			ChannelID: 42,
		}, nil).Once()
		mockValidator.On("ValidateChannel", int64(1), int64(42)).Return(nil).Once()

		result, err := resolver.TestResolution(ctx, 1, models.EventMessageEdit)

		require.NoError(t, err)
		assert.True(t, result.Success)
		require.NotNil(t, result.Resolved)
		assert.Equal(t, int64(42), result.Resolved.ChannelID)
		require.Len(t, result.Path, 1)
		assert.Contains(t, result.Path[0], "tier 1")
	})

	t.Run("full fall-through", func(t *testing.T) {
		mockChannelRepo.On("Get", ctx, int64(2), models.EventMessageEdit).Return(nil, nil).Once()
		mockGuildRepo.On("Get", ctx, int64(2)).Return(nil, nil).Once()

		result, err := resolver.TestResolution(ctx, 2, models.EventMessageEdit)

		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Nil(t, result.Resolved)
		require.Len(t, result.Path, 3)
		assert.Contains(t, result.Path[0], "no mapping")
		assert.Contains(t, result.Path[1], "no default channel")
		assert.Contains(t, result.Path[2], "dropped")
	})
}

func TestChannelResolver_HealMapping(t *testing.T) {
	ctx := context.Background()

	mockGuildRepo := new(MockGuildConfigRepository)
	mockChannelRepo := new(MockEventChannelRepository)
	mockValidator := new(MockChannelValidator)

	resolver := NewChannelResolver(mockGuildRepo, mockChannelRepo, mockValidator)

	mockChannelRepo.On("Remove", ctx, int64(3), models.EventImageSend).Return(nil)

	err := resolver.HealMapping(ctx, 3, models.EventImageSend)

	require.NoError(t, err)
	mockChannelRepo.AssertExpectations(t)
}
