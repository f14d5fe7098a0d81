package models

import "fmt"

// EventType identifies one category of loggable guild activity
type EventType string

const (
	EventMessageDelete EventType = "message_delete"
	EventMessageEdit   EventType = "message_edit"
	EventImageSend     EventType = "image_send"
	EventImageDelete   EventType = "image_delete"
	EventMemberJoin    EventType = "member_join"
	EventMemberLeave   EventType = "member_leave"
	EventMemberBan     EventType = "member_ban"
	EventMemberUnban   EventType = "member_unban"
	EventVoiceJoin     EventType = "voice_join"
	EventVoiceLeave    EventType = "voice_leave"
	EventVoiceMove     EventType = "voice_move"
	EventVoiceMute     EventType = "voice_mute"
	EventVoiceDeafen   EventType = "voice_deafen"
	EventVoiceStream   EventType = "voice_stream"
	EventVoiceVideo    EventType = "voice_video"
)

// EventGroup is the logical category an event type belongs to, used for
// grouped channel provisioning
type EventGroup string

const (
	GroupMessage EventGroup = "message"
	GroupMember  EventGroup = "member"
	GroupFile    EventGroup = "file"
	GroupVoice   EventGroup = "voice"
)

// EventTypeInfo holds display metadata for an event type
type EventTypeInfo struct {
	Display     string
	ChannelName string // channel name used by granular provisioning
	Group       EventGroup
}

// allEventTypes fixes the canonical ordering used everywhere an event list
// is rendered or provisioned
var allEventTypes = []EventType{
	EventMessageDelete,
	EventMessageEdit,
	EventImageSend,
	EventImageDelete,
	EventMemberJoin,
	EventMemberLeave,
	EventMemberBan,
	EventMemberUnban,
	EventVoiceJoin,
	EventVoiceLeave,
	EventVoiceMove,
	EventVoiceMute,
	EventVoiceDeafen,
	EventVoiceStream,
	EventVoiceVideo,
}

var eventTypeInfo = map[EventType]EventTypeInfo{
	EventMessageDelete: {Display: "Message Deletions", ChannelName: "message-deletions", Group: GroupMessage},
	EventMessageEdit:   {Display: "Message Edits", ChannelName: "message-edits", Group: GroupMessage},
	EventImageSend:     {Display: "Image/File Uploads", ChannelName: "file-uploads", Group: GroupFile},
	EventImageDelete:   {Display: "Image/File Deletions", ChannelName: "file-deletions", Group: GroupFile},
	EventMemberJoin:    {Display: "Member Joins", ChannelName: "member-joins", Group: GroupMember},
	EventMemberLeave:   {Display: "Member Leaves", ChannelName: "member-leaves", Group: GroupMember},
	EventMemberBan:     {Display: "Member Bans", ChannelName: "member-bans", Group: GroupMember},
	EventMemberUnban:   {Display: "Member Unbans", ChannelName: "member-unbans", Group: GroupMember},
	EventVoiceJoin:     {Display: "Voice Channel Joins", ChannelName: "voice-joins", Group: GroupVoice},
	EventVoiceLeave:    {Display: "Voice Channel Leaves", ChannelName: "voice-leaves", Group: GroupVoice},
	EventVoiceMove:     {Display: "Voice Channel Moves", ChannelName: "voice-moves", Group: GroupVoice},
	EventVoiceMute:     {Display: "Voice Mute/Unmute", ChannelName: "voice-mutes", Group: GroupVoice},
	EventVoiceDeafen:   {Display: "Voice Deafen/Undeafen", ChannelName: "voice-deafens", Group: GroupVoice},
	EventVoiceStream:   {Display: "Voice Streaming", ChannelName: "voice-streaming", Group: GroupVoice},
	EventVoiceVideo:    {Display: "Voice Video/Camera", ChannelName: "voice-video", Group: GroupVoice},
}

// groupChannelNames maps each group to the channel name used by grouped
// provisioning
var groupChannelNames = map[EventGroup]string{
	GroupMessage: "message-logs",
	GroupMember:  "member-logs",
	GroupFile:    "file-logs",
	GroupVoice:   "voice-logs",
}

var allGroups = []EventGroup{GroupMessage, GroupMember, GroupFile, GroupVoice}

// IsValid reports whether e is a member of the closed event type enumeration
func (e EventType) IsValid() bool {
	_, ok := eventTypeInfo[e]
	return ok
}

// String returns the wire identifier of the event type
func (e EventType) String() string {
	return string(e)
}

// Display returns the human-readable name of the event type
func (e EventType) Display() string {
	if info, ok := eventTypeInfo[e]; ok {
		return info.Display
	}
	return string(e)
}

// Group returns the logical group of the event type
func (e EventType) Group() EventGroup {
	return eventTypeInfo[e].Group
}

// ChannelName returns the destination channel name used for this event type
// by granular provisioning
func (e EventType) ChannelName() string {
	return eventTypeInfo[e].ChannelName
}

// ParseEventType converts a wire identifier into an EventType, rejecting
// anything outside the enumeration
func ParseEventType(s string) (EventType, error) {
	e := EventType(s)
	if !e.IsValid() {
		return "", fmt.Errorf("unknown event type: %q", s)
	}
	return e, nil
}

// AllEventTypes returns every event type in canonical order
func AllEventTypes() []EventType {
	out := make([]EventType, len(allEventTypes))
	copy(out, allEventTypes)
	return out
}

// AllEventGroups returns every event group in canonical order
func AllEventGroups() []EventGroup {
	out := make([]EventGroup, len(allGroups))
	copy(out, allGroups)
	return out
}

// ChannelName returns the destination channel name used for this group by
// grouped provisioning
func (g EventGroup) ChannelName() string {
	return groupChannelNames[g]
}

// EventTypesInGroup returns the event types belonging to a group, in
// canonical order
func EventTypesInGroup(g EventGroup) []EventType {
	var out []EventType
	for _, e := range allEventTypes {
		if e.Group() == g {
			out = append(out, e)
		}
	}
	return out
}
