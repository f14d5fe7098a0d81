package voicelogs

import (
	"sort"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"fenrir/models"
)

const (
	// CleanupInterval is how often the tracker sweeps for dead sessions
	CleanupInterval = 30 * time.Minute

	// MaxSessionAge is the age past which a session is considered stale
	MaxSessionAge = 6 * time.Hour
)

// Session end reasons
const (
	ReasonLeft       = "left"
	ReasonStale      = "stale"
	ReasonNotInVoice = "not_in_voice"
	ReasonInvalid    = "invalid"
	ReasonOverwrite  = "overwrite"
	ReasonShutdown   = "shutdown"
)

// PresenceFunc reports whether a user currently has a voice connection
// in a guild. The tracker uses it during cleanup to spot sessions whose
// leave event was missed.
type PresenceFunc func(guildID, userID int64) bool

// Tracker keeps one live voice session per user. Gateway handlers call
// Start/Move/End; a background sweep reaps sessions whose end was never
// observed.
type Tracker struct {
	mu       sync.Mutex
	sessions map[int64]*models.VoiceSession
	stats    map[int64]*guildCounters
	presence PresenceFunc
}

type guildCounters struct {
	joins  int
	leaves int
	moves  int
	users  map[int64]struct{}
}

// NewTracker creates a new voice session tracker
func NewTracker(presence PresenceFunc) *Tracker {
	return &Tracker{
		sessions: make(map[int64]*models.VoiceSession),
		stats:    make(map[int64]*guildCounters),
		presence: presence,
	}
}

// Start begins a session for a user. If a session already exists it is
// ended first and its summary returned, so a missed leave never leaks.
func (t *Tracker) Start(session *models.VoiceSession) *models.VoiceSessionSummary {
	t.mu.Lock()
	defer t.mu.Unlock()

	var stale *models.VoiceSessionSummary
	if existing, ok := t.sessions[session.UserID]; ok {
		stale = t.summarize(existing, ReasonOverwrite)
		log.WithFields(log.Fields{
			"user_id":  session.UserID,
			"guild_id": existing.GuildID,
		}).Warn("Overwriting untracked voice session")
	}

	t.sessions[session.UserID] = session

	counters := t.counters(session.GuildID)
	counters.joins++
	counters.users[session.UserID] = struct{}{}

	return stale
}

// Move updates the channel of a user's session and increments its move
// count. Returns nil when the user has no tracked session.
func (t *Tracker) Move(userID, channelID int64, channelName string) *models.VoiceSession {
	t.mu.Lock()
	defer t.mu.Unlock()

	session, ok := t.sessions[userID]
	if !ok {
		return nil
	}

	session.ChannelID = channelID
	session.ChannelName = channelName
	session.Moves++

	t.counters(session.GuildID).moves++

	return session
}

// End closes a user's session and returns its summary, or nil when no
// session was tracked
func (t *Tracker) End(userID int64, reason string) *models.VoiceSessionSummary {
	t.mu.Lock()
	defer t.mu.Unlock()

	session, ok := t.sessions[userID]
	if !ok {
		return nil
	}

	delete(t.sessions, userID)
	t.counters(session.GuildID).leaves++

	return t.summarize(session, reason)
}

// EndAll closes every session, used at shutdown
func (t *Tracker) EndAll(reason string) []*models.VoiceSessionSummary {
	t.mu.Lock()
	defer t.mu.Unlock()

	summaries := make([]*models.VoiceSessionSummary, 0, len(t.sessions))
	for userID, session := range t.sessions {
		summaries = append(summaries, t.summarize(session, reason))
		delete(t.sessions, userID)
	}

	return summaries
}

// Get returns the tracked session for a user, or nil
func (t *Tracker) Get(userID int64) *models.VoiceSession {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sessions[userID]
}

// ActiveSessions returns all live sessions sorted by duration, longest first
func (t *Tracker) ActiveSessions() []*models.VoiceSession {
	t.mu.Lock()
	defer t.mu.Unlock()

	sessions := make([]*models.VoiceSession, 0, len(t.sessions))
	for _, session := range t.sessions {
		sessions = append(sessions, session)
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].StartTime.Before(sessions[j].StartTime)
	})

	return sessions
}

// Statistics returns the in-memory voice counters for a guild. The
// counters accumulate since process start, capped at days for display.
func (t *Tracker) Statistics(guildID int64, days int) *models.VoiceStatistics {
	t.mu.Lock()
	defer t.mu.Unlock()

	active := 0
	for _, session := range t.sessions {
		if session.GuildID == guildID {
			active++
		}
	}

	counters := t.counters(guildID)
	return &models.VoiceStatistics{
		Joins:           counters.joins,
		Leaves:          counters.leaves,
		Moves:           counters.moves,
		CurrentlyActive: active,
		UniqueUsers:     len(counters.users),
		PeriodDays:      days,
	}
}

// Cleanup sweeps for sessions that should no longer be tracked and
// returns their summaries: stale sessions, sessions whose user is no
// longer in voice, and sessions that fail validation
func (t *Tracker) Cleanup(now time.Time) []*models.VoiceSessionSummary {
	t.mu.Lock()
	defer t.mu.Unlock()

	var ended []*models.VoiceSessionSummary
	for userID, session := range t.sessions {
		var reason string
		switch {
		case session.Validate() != nil:
			reason = ReasonInvalid
		case now.Sub(session.StartTime) > MaxSessionAge:
			reason = ReasonStale
		case t.presence != nil && !t.presence(session.GuildID, session.UserID):
			reason = ReasonNotInVoice
		default:
			continue
		}

		delete(t.sessions, userID)
		t.counters(session.GuildID).leaves++
		ended = append(ended, t.summarize(session, reason))
	}

	return ended
}

// StartCleanupWorker sweeps on an interval until the returned cleanup
// function is called. The stop function waits for an in-flight sweep.
func (t *Tracker) StartCleanupWorker() func() {
	ticker := time.NewTicker(CleanupInterval)
	stopChan := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)
		log.Info("Voice session cleanup worker started")

		for {
			select {
			case <-stopChan:
				log.Info("Voice session cleanup worker shutting down (stop requested)...")
				return
			case <-ticker.C:
				for _, summary := range t.Cleanup(time.Now()) {
					log.WithFields(log.Fields{
						"user_id":  summary.UserID,
						"guild_id": summary.GuildID,
						"reason":   summary.Reason,
						"duration": summary.Duration,
					}).Warn("Reaped voice session")
				}
			}
		}
	}()

	return func() {
		ticker.Stop()
		close(stopChan)
		<-done
	}
}

// counters must be called with the mutex held
func (t *Tracker) counters(guildID int64) *guildCounters {
	c, ok := t.stats[guildID]
	if !ok {
		c = &guildCounters{users: make(map[int64]struct{})}
		t.stats[guildID] = c
	}
	return c
}

// summarize must be called with the mutex held
func (t *Tracker) summarize(session *models.VoiceSession, reason string) *models.VoiceSessionSummary {
	now := time.Now()
	return &models.VoiceSessionSummary{
		UserID:      session.UserID,
		Username:    session.Username,
		GuildID:     session.GuildID,
		ChannelID:   session.ChannelID,
		ChannelName: session.ChannelName,
		StartTime:   session.StartTime,
		EndTime:     now,
		Duration:    now.Sub(session.StartTime),
		Moves:       session.Moves,
		Reason:      reason,
	}
}
