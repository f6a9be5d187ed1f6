package ephemeris

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru"
)

// computeCache memoizes eclipticPos lookups keyed by (body, truncated JD).
// Repeated position queries for the same body at the same instant are
// common in a REPL session (a rise/transit/set search samples the same
// body hundreds of times per invocation, and the eclipse search re-derives
// the Sun and Moon positions for the same candidate repeatedly), so caching
// at this layer is cheap and effective. Adapted from the teacher's unused
// astronomy/ephemeris/cache.go TTL-cache idea, but backed by a real
// bounded LRU (golang-lru) instead of a hand-rolled map+mutex.
type computeCache struct {
	lru *lru.Cache
}

func newComputeCache(size int) *computeCache {
	c, err := lru.New(size)
	if err != nil {
		// Only returns an error for size <= 0; the engine always passes a
		// positive constant.
		panic(err)
	}
	return &computeCache{lru: c}
}

func cacheKey(body string, jd float64) string {
	// Truncate to whole seconds of JD: plenty for the precision this engine
	// targets, and every lookup for the same body within the same second
	// shares one key.
	const secondsPerDay = 86400.0
	rounded := float64(int64(jd*secondsPerDay)) / secondsPerDay
	return fmt.Sprintf("%s:%.8f", body, rounded)
}

func (c *computeCache) get(body string, jd float64) (eclipticPos, bool) {
	v, ok := c.lru.Get(cacheKey(body, jd))
	if !ok {
		return eclipticPos{}, false
	}
	return v.(eclipticPos), true
}

func (c *computeCache) put(body string, jd float64, pos eclipticPos) {
	c.lru.Add(cacheKey(body, jd), pos)
}
