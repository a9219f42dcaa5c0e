package memory

import (
	"time"

	"ship-consultant-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

// SessionRepository holds runtime conversation state between turns. Entries
// expire on their own so abandoned sessions do not pile up; the durable
// record lives in Postgres and can rebuild this state at any time.
type SessionRepository struct {
	cache *cache.Cache
	locks *cache.Cache
}

func NewSessionRepository(ttl time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = 1 * time.Hour
	}
	return &SessionRepository{
		cache: cache.New(ttl, 10*time.Minute),
		// Turn locks expire on their own in case a holder crashes mid-turn.
		locks: cache.New(2*time.Minute, 1*time.Minute),
	}
}

func (r *SessionRepository) Save(session *store.Session) {
	r.cache.Set(session.ID, session, cache.DefaultExpiration)
}

func (r *SessionRepository) Get(sessionID string) (*store.Session, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*store.Session), true
	}
	return nil, false
}

func (r *SessionRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}

// TryLock claims the per-session turn lock. cache.Add is atomic: it fails
// when the key already exists, which makes it a test-and-set. Returns false
// when another turn is in flight.
func (r *SessionRepository) TryLock(sessionID string) bool {
	return r.locks.Add("lock:"+sessionID, struct{}{}, cache.DefaultExpiration) == nil
}

func (r *SessionRepository) Unlock(sessionID string) {
	r.locks.Delete("lock:" + sessionID)
}
