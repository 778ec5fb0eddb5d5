package jobs

import (
	"log"
	"time"

	"github.com/provigo/provigo-backend/internal/storage"
)

// SessionReaper deletes stale USSD sessions in the background. The
// request path already treats expired sessions as absent; the reaper
// just keeps abandoned rows from piling up.
type SessionReaper struct {
	store    storage.Store
	expiry   time.Duration
	interval time.Duration
	stop     chan struct{}
}

// NewSessionReaper creates a new session reaper
func NewSessionReaper(store storage.Store, expiry time.Duration) *SessionReaper {
	return &SessionReaper{
		store:    store,
		expiry:   expiry,
		interval: 5 * time.Minute,
		stop:     make(chan struct{}),
	}
}

// Start begins the background cleanup loop
func (r *SessionReaper) Start() {
	log.Println("Starting USSD session reaper...")
	go r.run()
}

// Stop halts the cleanup loop
func (r *SessionReaper) Stop() {
	close(r.stop)
	log.Println("Stopping USSD session reaper...")
}

func (r *SessionReaper) run() {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			removed, err := r.store.DeleteExpiredSessions(time.Now().Add(-r.expiry))
			if err != nil {
				log.Printf("Error reaping expired sessions: %v", err)
				continue
			}
			if removed > 0 {
				log.Printf("Reaped %d expired USSD sessions", removed)
			}
		case <-r.stop:
			return
		}
	}
}
