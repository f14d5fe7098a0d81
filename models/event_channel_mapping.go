package models

// EventChannelMapping routes one event type to a destination channel within
// a guild. At most one mapping exists per (guild, event type); writes are
// last-write-wins upserts.
type EventChannelMapping struct {
	GuildID     int64     `db:"guild_id"`
	EventType   EventType `db:"event_type"`
	ChannelID   int64     `db:"channel_id"`
	ChannelName string    `db:"channel_name"`
}

// ChannelMappingSummary aggregates a guild's mappings per destination channel
type ChannelMappingSummary struct {
	TotalChannels     int
	TotalEventsMapped int
	Channels          []ChannelMappingGroup
}

// ChannelMappingGroup lists the event types routed to a single channel
type ChannelMappingGroup struct {
	ChannelID   int64
	ChannelName string
	Events      []EventType
}
