// Copyright 2023 Meta Platforms, Inc. and affiliates.
//
// Redistribution and use in source and binary forms, with or without modification, are permitted provided that the following conditions are met:
//
// 1. Redistributions of source code must retain the above copyright notice, this list of conditions and the following disclaimer.
//
// 2. Redistributions in binary form must reproduce the above copyright notice, this list of conditions and the following disclaimer in the documentation and/or other materials provided with the distribution.
//
// 3. Neither the name of the copyright holder nor the names of its contributors may be used to endorse or promote products derived from this software without specific prior written permission.
//
// THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS "AS IS" AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT LIMITED TO, THE IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR CONTRIBUTORS BE LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL, SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER CAUSED AND ON ANY THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT (INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE.

// Package objcache is a memory-bounded cache of parsed objects keyed by
// the hash of their source.
package objcache

import (
	"context"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/facebookincubator/go-belt/tool/logger"

	"github.com/immune-gmbh/fwtest/pkg/objhash"
)

const (
	// DefaultTTL is how long an object is kept if nothing evicts it earlier.
	DefaultTTL = 10 * time.Minute
)

// Cache keeps objects up to a total cost, the cost of an object is its
// approximate size in bytes.
type Cache struct {
	cache   *ristretto.Cache
	maxCost int64
}

// New returns a Cache limited to memoryLimit bytes.
func New(memoryLimit uint64) (*Cache, error) {
	cfg := &ristretto.Config{
		NumCounters: 1000,
		MaxCost:     int64(memoryLimit),
		BufferItems: 64,
		Metrics:     false,

		// costs are the sizes of the objects
		IgnoreInternalCost: true,
	}
	cache, err := ristretto.NewCache(cfg)
	if err != nil {
		return nil, ErrInit{Err: err}
	}
	return &Cache{
		cache:   cache,
		maxCost: int64(memoryLimit),
	}, nil
}

// Get returns the object stored under the key, or nil.
func (c *Cache) Get(ctx context.Context, objKey objhash.ObjHash) any {
	obj, ok := c.cache.Get(string(objKey[:]))
	if ok {
		logger.FromCtx(ctx).Tracef("objcache hit %s", objKey)
	}
	return obj
}

// Set stores the object. Objects costing more than the whole cache are
// ignored.
func (c *Cache) Set(ctx context.Context, objKey objhash.ObjHash, obj any, cost uint64) {
	if int64(cost) > c.maxCost {
		logger.FromCtx(ctx).Debugf("object %s is too big for the cache: %d > %d", objKey, cost, c.maxCost)
		return
	}

	c.cache.SetWithTTL(string(objKey[:]), obj, int64(cost), DefaultTTL)
	// make the object visible to the next Get
	c.cache.Wait()
}

// Close stops the background goroutines of the cache.
func (c *Cache) Close() {
	c.cache.Close()
}
