package form

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// Sessions is an in-memory session registry. Sessions idle for longer than
// the expiry are discarded along with whatever state they held.
type Sessions struct {
	cache *cache.Cache
}

func NewSessions(expiry time.Duration) *Sessions {
	return &Sessions{
		cache: cache.New(expiry, expiry/2),
	}
}

// Get returns the session for the id, creating a new one if the id is
// unknown or has expired. The returned session's ID may differ from the
// requested id.
func (ss *Sessions) Get(id string) *Session {
	if id != "" {
		if v, ok := ss.cache.Get(id); ok {
			session := v.(*Session)
			ss.cache.SetDefault(id, session)

			return session
		}
	}

	session := NewSession(uuid.New().String())
	ss.cache.SetDefault(session.ID, session)

	return session
}

// Lookup returns the session for the id without creating one.
func (ss *Sessions) Lookup(id string) (*Session, bool) {
	if id == "" {
		return nil, false
	}

	if v, ok := ss.cache.Get(id); ok {
		session := v.(*Session)
		ss.cache.SetDefault(id, session)

		return session, true
	}

	return nil, false
}

func (ss *Sessions) Delete(id string) {
	ss.cache.Delete(id)
}

func (ss *Sessions) Len() int {
	return ss.cache.ItemCount()
}
