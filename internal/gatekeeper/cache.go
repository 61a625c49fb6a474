package gatekeeper

import (
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// Cache memoizes UUID lookups for the lifetime of the process. Keys combine
// the operation name and its arguments, so distinct lookups never collide.
//
// Concurrent callers of the same key collapse to a single in-flight compute
// via singleflight. Failed computes are not cached; the next caller retries.
type Cache struct {
	group  singleflight.Group
	values sync.Map
}

func NewCache() *Cache {
	return &Cache{}
}

// GetOrCompute returns the cached value for key, or runs compute once and
// caches its result.
func (c *Cache) GetOrCompute(key string, compute func() (uuid.UUID, error)) (uuid.UUID, error) {
	if v, ok := c.values.Load(key); ok {
		return v.(uuid.UUID), nil
	}
	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		// A previous flight may have stored the value between our Load
		// miss and entering the group.
		if v, ok := c.values.Load(key); ok {
			return v, nil
		}
		id, err := compute()
		if err != nil {
			return nil, err
		}
		c.values.Store(key, id)
		return id, nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return v.(uuid.UUID), nil
}

// Len reports how many values are memoized.
func (c *Cache) Len() int {
	n := 0
	c.values.Range(func(_, _ interface{}) bool {
		n++
		return true
	})
	return n
}
