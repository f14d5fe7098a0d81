package service

import (
	"context"

	"fenrir/models"

	"github.com/stretchr/testify/mock"
)

// MockGuildConfigRepository is a mock implementation of GuildConfigRepository
type MockGuildConfigRepository struct {
	mock.Mock
}

func (m *MockGuildConfigRepository) Get(ctx context.Context, guildID int64) (*models.GuildConfig, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GuildConfig), args.Error(1)
}

func (m *MockGuildConfigRepository) Upsert(ctx context.Context, config *models.GuildConfig) error {
	args := m.Called(ctx, config)
	return args.Error(0)
}

// MockEventConfigRepository is a mock implementation of EventConfigRepository
type MockEventConfigRepository struct {
	mock.Mock
}

func (m *MockEventConfigRepository) SetEnabled(ctx context.Context, guildID int64, eventType models.EventType, enabled bool) error {
	args := m.Called(ctx, guildID, eventType, enabled)
	return args.Error(0)
}

func (m *MockEventConfigRepository) IsEnabled(ctx context.Context, guildID int64, eventType models.EventType) (bool, error) {
	args := m.Called(ctx, guildID, eventType)
	return args.Bool(0), args.Error(1)
}

func (m *MockEventConfigRepository) GetEnabled(ctx context.Context, guildID int64) (map[models.EventType]bool, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[models.EventType]bool), args.Error(1)
}

// MockEventChannelRepository is a mock implementation of EventChannelRepository
type MockEventChannelRepository struct {
	mock.Mock
}

func (m *MockEventChannelRepository) Set(ctx context.Context, mapping *models.EventChannelMapping) error {
	args := m.Called(ctx, mapping)
	return args.Error(0)
}

func (m *MockEventChannelRepository) SetMany(ctx context.Context, guildID int64, eventTypes []models.EventType, channelID int64, channelName string) error {
	args := m.Called(ctx, guildID, eventTypes, channelID, channelName)
	return args.Error(0)
}

func (m *MockEventChannelRepository) Get(ctx context.Context, guildID int64, eventType models.EventType) (*models.EventChannelMapping, error) {
	args := m.Called(ctx, guildID, eventType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EventChannelMapping), args.Error(1)
}

func (m *MockEventChannelRepository) GetAll(ctx context.Context, guildID int64) ([]*models.EventChannelMapping, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.EventChannelMapping), args.Error(1)
}

func (m *MockEventChannelRepository) GetByChannel(ctx context.Context, guildID int64, channelID int64) ([]models.EventType, error) {
	args := m.Called(ctx, guildID, channelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.EventType), args.Error(1)
}

func (m *MockEventChannelRepository) GetSummary(ctx context.Context, guildID int64) (*models.ChannelMappingSummary, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChannelMappingSummary), args.Error(1)
}

func (m *MockEventChannelRepository) Remove(ctx context.Context, guildID int64, eventType models.EventType) error {
	args := m.Called(ctx, guildID, eventType)
	return args.Error(0)
}

func (m *MockEventChannelRepository) Clear(ctx context.Context, guildID int64) (int, error) {
	args := m.Called(ctx, guildID)
	return args.Int(0), args.Error(1)
}

// MockChannelValidator is a mock implementation of ChannelValidator
type MockChannelValidator struct {
	mock.Mock
}

func (m *MockChannelValidator) ValidateChannel(guildID, channelID int64) error {
	args := m.Called(guildID, channelID)
	return args.Error(0)
}
