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
	"errors"
	"testing"

	"github.com/msgflow/pipeline/test/assert"
	"github.com/msgflow/pipeline/utils/cache"
)

type countingLookup struct {
	calls int
	value interface{}
	ok    bool
	err   error
}

func (c *countingLookup) LookupValue(table, key string) (interface{}, bool, error) {
	c.calls++
	return c.value, c.ok, c.err
}

func TestCachedLookupServesRepeatHitFromCache(t *testing.T) {
	src := &countingLookup{value: "gold", ok: true}
	c := NewCachedLookup(src, nil, "")

	for i := 0; i < 3; i++ {
		v, ok, err := c.LookupValue("tiers", "acme")
		assert.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "gold", v)
	}
	assert.Equal(t, 1, src.calls)
}

func TestCachedLookupCachesMisses(t *testing.T) {
	src := &countingLookup{ok: false}
	c := NewCachedLookup(src, nil, "")

	for i := 0; i < 3; i++ {
		_, ok, err := c.LookupValue("tiers", "unknown")
		assert.NoError(t, err)
		assert.False(t, ok)
	}
	assert.Equal(t, 1, src.calls)
}

func TestCachedLookupDoesNotCacheErrors(t *testing.T) {
	src := &countingLookup{err: errors.New("db down")}
	c := NewCachedLookup(src, nil, "")

	_, _, err1 := c.LookupValue("tiers", "acme")
	_, _, err2 := c.LookupValue("tiers", "acme")
	assert.Error(t, err1)
	assert.Error(t, err2)
	assert.Equal(t, 2, src.calls)
}

func TestCachedLookupKeysAreScopedByTable(t *testing.T) {
	src := &countingLookup{value: "v", ok: true}
	c := NewCachedLookup(src, nil, "")

	c.LookupValue("a", "k")
	c.LookupValue("b", "k")
	assert.Equal(t, 2, src.calls)
}

func TestCachedLookupUsesHostSuppliedCache(t *testing.T) {
	src := &countingLookup{value: "gold", ok: true}
	hostCache := cache.NewMemoryCache(0)
	c := NewCachedLookup(src, hostCache, "")

	v, ok, err := c.LookupValue("tiers", "acme")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "gold", v)

	assert.True(t, hostCache.Has("tiers\x00acme"))
}
