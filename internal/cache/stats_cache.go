package cache

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

const megabyte = 1024 * 1024

// StatsCache keeps serialized stats views per user. Entries of one user are
// invalidated together by bumping the user's generation, which is part of every view key.
type StatsCache struct {
	cache      *freecache.Cache
	ttlSeconds int
	now        func() time.Time
}

func NewStatsCache(sizeMB, ttlSeconds int) *StatsCache {
	if sizeMB <= 0 {
		sizeMB = 20
	}
	return &StatsCache{
		cache:      freecache.NewCache(sizeMB * megabyte),
		ttlSeconds: ttlSeconds,
		now:        time.Now,
	}
}

// Get returns the cached view and the user's current generation. A value loaded after a
// miss should be stored with Set under that generation, so a write that lands during the
// load leaves it unreachable.
func (c *StatsCache) Get(userID, view string) ([]byte, uint64, bool) {
	gen := c.generation(userID)
	value, err := c.cache.Get(viewKey(userID, gen, view))
	if err != nil {
		log.Tracef("stats cache miss [%s][%s]: %s", userID, view, err)
		return nil, gen, false
	}
	return value, gen, true
}

func (c *StatsCache) Set(userID, view string, gen uint64, value []byte) {
	if err := c.cache.Set(viewKey(userID, gen, view), value, c.ttlSeconds); err != nil {
		log.Errorf("set stats cache [%s][%s]: %s", userID, view, err)
	}
}

// InvalidateUser drops all cached views of the user.
func (c *StatsCache) InvalidateUser(userID string) {
	c.setGeneration(userID)
}

func (c *StatsCache) EntryCount() int64 {
	return c.cache.EntryCount()
}

func viewKey(userID string, gen uint64, view string) []byte {
	return []byte(fmt.Sprintf("stats::%s::%d::%s", userID, gen, view))
}

func (c *StatsCache) generation(userID string) uint64 {
	genBytes, err := c.cache.Get(generationKey(userID))
	if err == nil && len(genBytes) == 8 {
		return binary.BigEndian.Uint64(genBytes)
	}
	// a missing (or evicted) generation gets a fresh one, newer than any used before
	return c.setGeneration(userID)
}

func (c *StatsCache) setGeneration(userID string) uint64 {
	gen := uint64(c.now().UnixNano())
	if prevBytes, err := c.cache.Get(generationKey(userID)); err == nil && len(prevBytes) == 8 {
		if prev := binary.BigEndian.Uint64(prevBytes); gen <= prev {
			gen = prev + 1
		}
	}
	genBytes := make([]byte, 8)
	binary.BigEndian.PutUint64(genBytes, gen)
	if err := c.cache.Set(generationKey(userID), genBytes, 0); err != nil {
		log.Errorf("set stats cache generation [%s]: %s", userID, err)
	}
	return gen
}

func generationKey(userID string) []byte {
	return []byte("stats-gen::" + userID)
}
