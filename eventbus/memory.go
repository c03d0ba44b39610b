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

package eventbus

import "sync"

// MemoryBus is an in-process Bus: Publish calls registered handlers
// synchronously on the publisher's goroutine, the simplest transport that
// satisfies the "invoked on its own thread" contract for a single-node
// embedder or a test.
type MemoryBus struct {
	mu       sync.RWMutex
	handlers map[EventKind][]Handler
}

// NewMemoryBus returns an empty MemoryBus.
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{handlers: make(map[EventKind][]Handler)}
}

// Subscribe implements Bus.
func (b *MemoryBus) Subscribe(kind EventKind, handler Handler) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[kind] = append(b.handlers[kind], handler)
	return nil
}

// Publish invokes every handler subscribed to evt.Kind, in registration
// order, on the calling goroutine.
func (b *MemoryBus) Publish(evt Event) {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers[evt.Kind]...)
	b.mu.RUnlock()
	for _, h := range handlers {
		h(evt)
	}
}

// Close implements Bus. MemoryBus holds no transport resources.
func (b *MemoryBus) Close() error { return nil }
