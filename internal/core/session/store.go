package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/markdave123-py/Textora/internal/core"
)

// Store keeps live sessions in memory, keyed by id.
type Store struct {
	extractor core.TextExtractor
	log       zerolog.Logger
	now       func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewStore(extractor core.TextExtractor, log zerolog.Logger) *Store {
	return &Store{
		extractor: extractor,
		log:       log.With().Str("component", "sessions").Logger(),
		now:       time.Now,
		sessions:  make(map[string]*Session),
	}
}

// Create starts a new empty session.
func (st *Store) Create() *Session {
	sess := New(uuid.NewString(), st.extractor, st.log)
	sess.now = st.now
	sess.lastSeen = st.now()

	st.mu.Lock()
	st.sessions[sess.ID] = sess
	st.mu.Unlock()

	st.log.Debug().Str("session_id", sess.ID).Msg("session created")
	return sess
}

func (st *Store) Get(id string) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	sess, ok := st.sessions[id]
	return sess, ok
}

func (st *Store) Delete(id string) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()
}

func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Sweep drops sessions idle for longer than ttl. Sessions with an extraction
// in flight are kept.
func (st *Store) Sweep(ttl time.Duration) int {
	cutoff := st.now().Add(-ttl)

	st.mu.Lock()
	defer st.mu.Unlock()

	removed := 0
	for id, sess := range st.sessions {
		if sess.LastSeen().After(cutoff) || sess.Extracting() {
			continue
		}
		delete(st.sessions, id)
		removed++
	}
	if removed > 0 {
		st.log.Info().Int("removed", removed).Int("live", len(st.sessions)).Msg("swept idle sessions")
	}
	return removed
}

// RunJanitor sweeps every interval until ctx is done.
func (st *Store) RunJanitor(ctx context.Context, interval, ttl time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			st.log.Debug().Msg("janitor stopped")
			return nil
		case <-ticker.C:
			st.Sweep(ttl)
		}
	}
}
