package dispatch

import (
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// DedupeResetInterval is how often the claimed-ID set is flushed
const DedupeResetInterval = 5 * time.Minute

// Dedupe tracks message IDs that have already been logged so a delete
// is never forwarded twice. The set is flushed on a fixed interval
// rather than evicting per entry; a flushed ID can in theory be claimed
// again, but deletes do not repeat for the same message.
type Dedupe struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// NewDedupe creates a new dedupe guard
func NewDedupe() *Dedupe {
	return &Dedupe{
		seen: make(map[string]struct{}),
	}
}

// Claim marks an ID as handled and reports whether this call was the
// first to claim it
func (d *Dedupe) Claim(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[id]; ok {
		return false
	}
	d.seen[id] = struct{}{}
	return true
}

// Size returns the number of currently claimed IDs
func (d *Dedupe) Size() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}

// Reset flushes all claimed IDs
func (d *Dedupe) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seen = make(map[string]struct{})
}

// StartResetWorker flushes the set on an interval until the returned
// cleanup function is called
func (d *Dedupe) StartResetWorker(interval time.Duration) func() {
	ticker := time.NewTicker(interval)
	stopChan := make(chan struct{})

	go func() {
		log.Info("Dedupe reset worker started")

		for {
			select {
			case <-stopChan:
				log.Info("Dedupe reset worker shutting down (stop requested)...")
				return
			case <-ticker.C:
				d.Reset()
			}
		}
	}()

	return func() {
		ticker.Stop()
		close(stopChan)
	}
}
