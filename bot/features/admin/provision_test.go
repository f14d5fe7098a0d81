package admin

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"fenrir/models"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChannelManager struct {
	channels []*discordgo.Channel
	nextID   int
	failFor  map[string]error
	created  []string
}

func (f *fakeChannelManager) GuildChannels(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Channel, error) {
	return f.channels, nil
}

func (f *fakeChannelManager) GuildChannelCreateComplex(guildID string, data discordgo.GuildChannelCreateData, options ...discordgo.RequestOption) (*discordgo.Channel, error) {
	if err, ok := f.failFor[data.Name]; ok {
		return nil, err
	}
	f.nextID++
	channel := &discordgo.Channel{
		ID:       fmt.Sprintf("%d", 1000+f.nextID),
		Name:     data.Name,
		Type:     data.Type,
		ParentID: data.ParentID,
	}
	f.created = append(f.created, data.Name)
	return channel, nil
}

type fakeConfigService struct {
	configs  map[int64]*models.GuildConfig
	enabled  map[string]bool
	mappings map[string]int64
}

func newFakeConfigService() *fakeConfigService {
	return &fakeConfigService{
		configs:  make(map[int64]*models.GuildConfig),
		enabled:  make(map[string]bool),
		mappings: make(map[string]int64),
	}
}

func (f *fakeConfigService) key(guildID int64, eventType models.EventType) string {
	return fmt.Sprintf("%d/%s", guildID, eventType)
}

func (f *fakeConfigService) GetConfig(ctx context.Context, guildID int64) (*models.GuildConfig, error) {
	return f.configs[guildID], nil
}

func (f *fakeConfigService) GetOrCreateConfig(ctx context.Context, guildID int64, guildName string) (*models.GuildConfig, error) {
	if config, ok := f.configs[guildID]; ok {
		return config, nil
	}
	config := models.NewGuildConfig(guildID, guildName)
	f.configs[guildID] = config
	return config, nil
}

func (f *fakeConfigService) UpdateConfig(ctx context.Context, config *models.GuildConfig) error {
	f.configs[config.GuildID] = config
	return nil
}

func (f *fakeConfigService) SetEventEnabled(ctx context.Context, guildID int64, eventType models.EventType, enabled bool) error {
	f.enabled[f.key(guildID, eventType)] = enabled
	return nil
}

func (f *fakeConfigService) SetEventsEnabled(ctx context.Context, guildID int64, eventTypes []models.EventType, enabled bool) error {
	for _, eventType := range eventTypes {
		f.enabled[f.key(guildID, eventType)] = enabled
	}
	return nil
}

func (f *fakeConfigService) IsEventLoggable(ctx context.Context, guildID int64, eventType models.EventType) (bool, error) {
	return f.enabled[f.key(guildID, eventType)], nil
}

func (f *fakeConfigService) EnabledEvents(ctx context.Context, guildID int64) (map[models.EventType]bool, error) {
	return nil, nil
}

func (f *fakeConfigService) MapEventChannel(ctx context.Context, guildID int64, eventType models.EventType, channelID int64, channelName string) error {
	f.mappings[f.key(guildID, eventType)] = channelID
	f.enabled[f.key(guildID, eventType)] = true
	return nil
}

func (f *fakeConfigService) MapEventsChannel(ctx context.Context, guildID int64, eventTypes []models.EventType, channelID int64, channelName string) error {
	for _, eventType := range eventTypes {
		f.mappings[f.key(guildID, eventType)] = channelID
		f.enabled[f.key(guildID, eventType)] = true
	}
	return nil
}

func (f *fakeConfigService) MappingSummary(ctx context.Context, guildID int64) (*models.ChannelMappingSummary, error) {
	return &models.ChannelMappingSummary{}, nil
}

func (f *fakeConfigService) ResetMappings(ctx context.Context, guildID int64) (int, error) {
	n := len(f.mappings)
	f.mappings = make(map[string]int64)
	return n, nil
}

func TestProvisioner_Grouped(t *testing.T) {
	ctx := context.Background()
	channels := &fakeChannelManager{}
	configService := newFakeConfigService()

	provisioner := NewProvisioner(channels, configService)

	result, err := provisioner.Provision(ctx, "100", "Test Guild", ModeGrouped)

	require.NoError(t, err)
	assert.Empty(t, result.Errors)

	// One category plus the four group channels
	assert.Equal(t, 5, result.ChannelsCreated)
	assert.Equal(t, 0, result.ChannelsReused)
	assert.ElementsMatch(t, []string{"Logs", "message-logs", "member-logs", "file-logs", "voice-logs"}, channels.created)

	// All fifteen event types are mapped and enabled
	assert.Equal(t, len(models.AllEventTypes()), result.EventsMapped)
	assert.Len(t, configService.mappings, len(models.AllEventTypes()))
	for _, eventType := range models.AllEventTypes() {
		assert.True(t, configService.enabled[configService.key(100, eventType)], "event %s should be enabled", eventType)
	}

	// Master switch flipped on
	config := configService.configs[100]
	require.NotNil(t, config)
	assert.True(t, config.LoggingEnabled)
}

func TestProvisioner_Granular(t *testing.T) {
	ctx := context.Background()
	channels := &fakeChannelManager{}
	configService := newFakeConfigService()

	provisioner := NewProvisioner(channels, configService)

	result, err := provisioner.Provision(ctx, "100", "Test Guild", ModeGranular)

	require.NoError(t, err)
	assert.Empty(t, result.Errors)

	// One category plus fifteen event channels
	assert.Equal(t, 1+len(models.AllEventTypes()), result.ChannelsCreated)
	assert.Equal(t, len(models.AllEventTypes()), result.EventsMapped)
}

func TestProvisioner_ReusesExistingChannels(t *testing.T) {
	ctx := context.Background()
	channels := &fakeChannelManager{
		channels: []*discordgo.Channel{
			{ID: "1", Name: "Logs", Type: discordgo.ChannelTypeGuildCategory},
			{ID: "2", Name: "voice-logs", Type: discordgo.ChannelTypeGuildText},
		},
	}
	configService := newFakeConfigService()

	provisioner := NewProvisioner(channels, configService)

	result, err := provisioner.Provision(ctx, "100", "Test Guild", ModeGrouped)

	require.NoError(t, err)
	assert.Equal(t, 2, result.ChannelsReused)
	assert.Equal(t, 3, result.ChannelsCreated)
	assert.NotContains(t, channels.created, "voice-logs")
}

func TestProvisioner_PartialFailureContinues(t *testing.T) {
	ctx := context.Background()
	channels := &fakeChannelManager{
		failFor: map[string]error{"member-logs": errors.New("missing permissions")},
	}
	configService := newFakeConfigService()

	provisioner := NewProvisioner(channels, configService)

	result, err := provisioner.Provision(ctx, "100", "Test Guild", ModeGrouped)

	require.NoError(t, err)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "member-logs")

	// The other three groups still got mapped
	memberEvents := models.EventTypesInGroup(models.GroupMember)
	assert.Equal(t, len(models.AllEventTypes())-len(memberEvents), result.EventsMapped)
}

func TestProvisioner_UnknownMode(t *testing.T) {
	provisioner := NewProvisioner(&fakeChannelManager{}, newFakeConfigService())

	_, err := provisioner.Provision(context.Background(), "100", "Test Guild", ProvisionMode("custom"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown provisioning mode")
}
