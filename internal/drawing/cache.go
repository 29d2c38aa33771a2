package drawing

import "math"

// ShapeHandle identifies a tessellated shape registered with a
// renderer backend; drawing.Cache stores these without depending on
// the renderer interface itself, so it stays reusable outside the
// root package too.
type ShapeHandle uint32

const (
	retessellationScaleThreshold        = 2.0
	retessellationScaleThresholdInverse = 1.0 / retessellationScaleThreshold
	retessellationCacheSize             = 4
)

type cacheEntry struct {
	scale  float64
	handle ShapeHandle
	used   bool
}

// Cache is a small LRU cache mapping render scale to a previously
// tessellated shape handle, so a shape scaled within a factor-of-two
// band of a cached entry is reused rather than retessellated. LRU
// index 0, MRU index len-1. Ported exactly from
// tessellation_cache.rs's TessellationCache (constants, find_near_and_touch,
// insert, touch_entry all mirrored field-for-field and branch-for-branch).
type Cache struct {
	entries [retessellationCacheSize]cacheEntry
	length  int
}

// NewCache returns an empty tessellation cache.
func NewCache() *Cache {
	return &Cache{}
}

// Len returns the number of entries currently cached.
func (c *Cache) Len() int { return c.length }

// FindNearAndTouch returns the cached handle whose scale is closest to
// targetScale, provided its ratio to targetScale falls within
// [1/2, 2], promoting it to the most-recently-used slot. Returns
// (0, false) if no entry qualifies, meaning the caller must retessellate.
func (c *Cache) FindNearAndTouch(targetScale float64) (ShapeHandle, bool) {
	bestIndex := -1
	bestDeviation := math.Inf(1)

	for i := 0; i < c.length; i++ {
		e := &c.entries[i]
		ratio := abs(targetScale / e.scale)
		if ratio <= retessellationScaleThreshold && ratio >= retessellationScaleThresholdInverse {
			deviation := abs(ratio - 1.0)
			if deviation < bestDeviation {
				bestDeviation = deviation
				bestIndex = i
			}
		}
	}

	if bestIndex < 0 {
		return 0, false
	}
	return c.touchEntry(bestIndex), true
}

// Insert adds a new (scale, handle) pair, evicting the least-recently-used
// entry if the cache is already full. The caller is responsible for
// having already checked FindNearAndTouch found nothing suitable.
func (c *Cache) Insert(scale float64, handle ShapeHandle) {
	if c.length < retessellationCacheSize {
		c.entries[c.length] = cacheEntry{scale: scale, handle: handle, used: true}
		c.length++
		return
	}

	for i := 1; i < c.length; i++ {
		c.entries[i-1] = c.entries[i]
	}
	c.entries[c.length-1] = cacheEntry{scale: scale, handle: handle, used: true}
}

// touchEntry moves the entry at index to the MRU position (end) and
// returns its handle.
func (c *Cache) touchEntry(index int) ShapeHandle {
	if index == c.length-1 {
		return c.entries[index].handle
	}
	entry := c.entries[index]
	for i := index + 1; i < c.length; i++ {
		c.entries[i-1] = c.entries[i]
	}
	c.entries[c.length-1] = entry
	return entry.handle
}

func abs(v float64) float64 {
	return math.Abs(v)
}
