package models

import (
	"fmt"
	"time"
)

// VoiceSession tracks one user's active presence in voice. Sessions live in
// bot-process memory only and do not survive a restart.
type VoiceSession struct {
	UserID      int64
	Username    string
	GuildID     int64
	ChannelID   int64
	ChannelName string
	StartTime   time.Time
	Moves       int
}

// Validate reports whether the session carries the fields the tracker
// requires. Sessions failing validation are swept with a cleanup reason.
func (s *VoiceSession) Validate() error {
	if s == nil {
		return fmt.Errorf("nil session")
	}
	if s.UserID == 0 {
		return fmt.Errorf("session missing user id")
	}
	if s.GuildID == 0 {
		return fmt.Errorf("session missing guild id")
	}
	if s.StartTime.IsZero() {
		return fmt.Errorf("session missing start time")
	}
	return nil
}

// VoiceSessionSummary is emitted when a session ends, whatever the cause
type VoiceSessionSummary struct {
	UserID      int64
	Username    string
	GuildID     int64
	ChannelID   int64
	ChannelName string
	StartTime   time.Time
	EndTime     time.Time
	Duration    time.Duration
	Moves       int
	Reason      string
}

// VoiceStatistics is session-scoped telemetry computed from in-memory
// counters; it resets on process restart and is not an audit log.
type VoiceStatistics struct {
	Joins           int
	Leaves          int
	Moves           int
	CurrentlyActive int
	UniqueUsers     int
	PeriodDays      int
}
