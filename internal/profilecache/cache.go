// Package profilecache memoizes barrel contour extraction per source image.
//
// Extraction is expensive and its result depends only on the photo and the two
// measurements, so the server keeps recent results in a bounded LRU. Concurrent
// requests for the same key share one computation.
//
// Both successful contours and "extraction unavailable" outcomes are cached:
// running the pipeline again on the same photo would fail the same way. Any
// other error (I/O, decoding, invalid measurements) is returned to every
// waiting caller but not stored.
package profilecache

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/ironsheep/barrel-contour-mcp/internal/contour"
)

// Key identifies one extraction.
type Key struct {
	// Source identifies the photo, e.g. path plus size and modification time.
	Source string

	LengthMm float64
	MaxDiaMm float64
}

func (k Key) String() string {
	return fmt.Sprintf("%s|%g|%g", k.Source, k.LengthMm, k.MaxDiaMm)
}

// ComputeFunc produces the extraction for a key on a cache miss.
type ComputeFunc func() (*contour.Extraction, error)

type entry struct {
	extraction *contour.Extraction
	err        error
}

// Cache is a bounded, single-flight memo of extractions. It is safe for
// concurrent use.
type Cache struct {
	entries *lru.Cache[Key, entry]
	group   singleflight.Group
}

// New creates a cache holding at most size entries.
func New(size int) (*Cache, error) {
	entries, err := lru.New[Key, entry](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create contour cache: %w", err)
	}
	return &Cache{entries: entries}, nil
}

// Get returns the cached extraction for key, computing it with compute on a
// miss. Only one compute runs per key at a time; concurrent callers wait for
// it and receive its result.
//
// cached is true when the result came from a previous computation.
func (c *Cache) Get(key Key, compute ComputeFunc) (e *contour.Extraction, cached bool, err error) {
	if ent, ok := c.entries.Get(key); ok {
		return ent.extraction, true, ent.err
	}

	v, err, _ := c.group.Do(key.String(), func() (interface{}, error) {
		if ent, ok := c.entries.Get(key); ok {
			return ent, nil
		}
		ex, err := compute()
		if err != nil && !contour.IsUnavailable(err) {
			return nil, err
		}
		ent := entry{extraction: ex, err: err}
		c.entries.Add(key, ent)
		return ent, nil
	})
	if err != nil {
		return nil, false, err
	}
	ent := v.(entry)
	return ent.extraction, false, ent.err
}

// Evict removes every cached result whose Source matches source.
func (c *Cache) Evict(source string) {
	for _, k := range c.entries.Keys() {
		if k.Source == source {
			c.entries.Remove(k)
		}
	}
}

// Clear drops all cached results.
func (c *Cache) Clear() {
	c.entries.Purge()
}

// Len returns the number of cached results.
func (c *Cache) Len() int {
	return c.entries.Len()
}
