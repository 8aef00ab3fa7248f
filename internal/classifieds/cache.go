// Package classifieds tracks which classified ads a client has been shown
// and who created them, so a later detail fetch can be routed to the
// creator's profile service.
//
// An entry lives exactly as long as it has outstanding interest: every
// listing that returns an ad adds one, every detail fetch consumes one, and
// the entry disappears when the count reaches zero. Ads that are listed but
// never opened stay until they are opened or the process restarts; growth is
// therefore bounded by client behaviour, not by time.
package classifieds

import (
	"sync"

	"github.com/google/uuid"
)

// Cache maps classified ids to their creators with an interest count.
// The zero value is not usable; call NewCache.
type Cache struct {
	mu       sync.Mutex
	creators map[uuid.UUID]uuid.UUID // classified → creator
	interest map[uuid.UUID]int       // classified → outstanding fetches, always ≥ 1
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{
		creators: make(map[uuid.UUID]uuid.UUID),
		interest: make(map[uuid.UUID]int),
	}
}

// Register records one more outstanding detail fetch for classifiedID. The
// creator captured on first registration is kept for the entry's lifetime.
func (c *Cache) Register(classifiedID, creatorID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.creators[classifiedID]; !ok {
		c.creators[classifiedID] = creatorID
	}
	c.interest[classifiedID]++
}

// Resolve consumes one unit of interest and returns the creator. When the
// count reaches zero both maps drop the entry in the same critical section.
// ok is false when the id was never registered or is already used up; the
// caller must then refuse the fetch.
func (c *Cache) Resolve(classifiedID uuid.UUID) (creatorID uuid.UUID, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	creatorID, ok = c.creators[classifiedID]
	if !ok {
		return uuid.Nil, false
	}
	if n := c.interest[classifiedID] - 1; n > 0 {
		c.interest[classifiedID] = n
	} else {
		delete(c.interest, classifiedID)
		delete(c.creators, classifiedID)
	}
	return creatorID, true
}

// Interest returns the outstanding count for classifiedID, zero if absent.
func (c *Cache) Interest(classifiedID uuid.UUID) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.interest[classifiedID]
}

// Len returns the number of live entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.creators)
}
