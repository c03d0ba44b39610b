/*
 * Copyright 2024 The RuleGo Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package sourcestore

import (
	"github.com/msgflow/pipeline/api/types"
	"github.com/msgflow/pipeline/utils/cache"
)

// lookupSource is the narrow shape CachedLookup wraps — satisfied by
// *SQLStore without importing funcs, which would make a cycle (funcs
// depends on sourcestore implementations at wiring time, not the other
// way around).
type lookupSource interface {
	LookupValue(table, key string) (interface{}, bool, error)
}

// CachedLookup wraps a lookup source (typically a *SQLStore) with a front
// cache, so lookup_value calls made for every message in a batch don't
// each round-trip to the database. Misses are cached too (as a typed miss
// marker), so a key that doesn't exist doesn't cost a query on every
// message either.
type CachedLookup struct {
	source lookupSource
	cache  types.Cache
	ttl    string
}

// missMarker distinguishes "looked up, not found" from "not yet looked
// up" in the cache, so a true miss is cached the same as a hit.
type missMarker struct{}

// NewCachedLookup wraps source with a front cache whose entries expire
// after ttl (e.g. "30s"). An empty ttl caches forever, which is only
// appropriate for lookup tables the host reloads out-of-band. c is the
// host-supplied Config.Cache; if nil, CachedLookup falls back to a private
// unbounded cache.MemoryCache.
func NewCachedLookup(source lookupSource, c types.Cache, ttl string) *CachedLookup {
	if c == nil {
		c = cache.NewMemoryCache(0)
	}
	return &CachedLookup{source: source, cache: c, ttl: ttl}
}

// LookupValue implements funcs.LookupService.
func (c *CachedLookup) LookupValue(table, key string) (interface{}, bool, error) {
	cacheKey := table + "\x00" + key
	if v := c.cache.Get(cacheKey); v != nil {
		if _, miss := v.(missMarker); miss {
			return nil, false, nil
		}
		return v, true, nil
	}

	v, ok, err := c.source.LookupValue(table, key)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		_ = c.cache.Set(cacheKey, missMarker{}, c.ttl)
		return nil, false, nil
	}
	_ = c.cache.Set(cacheKey, v, c.ttl)
	return v, true, nil
}
