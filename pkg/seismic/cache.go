// pkg/seismic/cache.go

package seismic

import (
	"container/list"
	"sync"

	"github.com/pkg/errors"
)

type cacheItem struct {
	bc    BrickCoordinate
	brick *Brick
}

// brickCache holds decompressed bricks keyed by brick coordinate with
// bounded LRU eviction. The key is independent of which axis query loaded
// the brick; the store returns identical content regardless of access
// pattern, so a brick fetched for an inline query serves later crossline
// or trace queries directly.
type brickCache struct {
	sync.Mutex
	capacity int // resident bricks
	lru      *list.List
	items    map[BrickCoordinate]*list.Element
	flights  controller
}

func newBrickCache(sizeMiB int64) *brickCache {
	capacity := int(sizeMiB << 20 / brickBytes)
	if capacity < 1 {
		capacity = 1
	}
	return &brickCache{
		capacity: capacity,
		lru:      list.New(),
		items:    make(map[BrickCoordinate]*list.Element),
	}
}

func (c *brickCache) lookup(bc BrickCoordinate) (*Brick, bool) {
	c.Lock()
	defer c.Unlock()
	if el, ok := c.items[bc]; ok {
		c.lru.MoveToFront(el)
		return el.Value.(*cacheItem).brick, true
	}
	return nil, false
}

func (c *brickCache) insert(bc BrickCoordinate, b *Brick) {
	c.Lock()
	defer c.Unlock()
	if _, ok := c.items[bc]; ok {
		return // bricks are immutable, the resident copy is identical
	}
	c.items[bc] = c.lru.PushFront(&cacheItem{bc, b})
	for c.lru.Len() > c.capacity {
		el := c.lru.Back()
		item := el.Value.(*cacheItem)
		c.lru.Remove(el)
		delete(c.items, item.bc)
		logger.Debugf("evict brick %s from cache", item.bc)
	}
}

// getOrLoad returns the resident brick, or runs load once per coordinate
// under contention. load returns every brick of the slab it decompressed;
// all of them are inserted so neighbouring queries on any axis hit the
// cache. A load failure leaves no residual state.
func (c *brickCache) getOrLoad(bc BrickCoordinate, load func() (map[BrickCoordinate]*Brick, error)) (*Brick, error) {
	if b, ok := c.lookup(bc); ok {
		return b, nil
	}
	return c.flights.execute(bc, func() (*Brick, error) {
		if b, ok := c.lookup(bc); ok { // filled by a sibling slab while queued
			return b, nil
		}
		bricks, err := load()
		if err != nil {
			return nil, err
		}
		for k, b := range bricks {
			c.insert(k, b)
		}
		b := bricks[bc]
		if b == nil {
			return nil, errors.Errorf("store did not return brick %s", bc)
		}
		return b, nil
	})
}

func (c *brickCache) stats() (int64, int64) {
	c.Lock()
	defer c.Unlock()
	return int64(len(c.items)), int64(len(c.items)) * brickBytes
}

func (c *brickCache) drop() {
	c.Lock()
	defer c.Unlock()
	c.lru.Init()
	c.items = make(map[BrickCoordinate]*list.Element)
}
