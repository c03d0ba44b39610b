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

package metrics

import "sync/atomic"

// ReloadMetrics tracks the reload controller's lifetime counters: how many
// reloads were attempted, how many failed to parse/link and fell back to
// the previous snapshot, and how long the most recent one took.
type ReloadMetrics struct {
	Total          int64
	Failed         int64
	Succeeded      int64
	LastDurationMs int64
}

// NewReloadMetrics returns a zeroed ReloadMetrics.
func NewReloadMetrics() *ReloadMetrics {
	return &ReloadMetrics{}
}

// RecordSuccess records a reload that published a new snapshot.
func (m *ReloadMetrics) RecordSuccess(duration int64) {
	atomic.AddInt64(&m.Total, 1)
	atomic.AddInt64(&m.Succeeded, 1)
	atomic.StoreInt64(&m.LastDurationMs, duration)
}

// RecordFailure records a reload that failed and kept the prior snapshot.
func (m *ReloadMetrics) RecordFailure(duration int64) {
	atomic.AddInt64(&m.Total, 1)
	atomic.AddInt64(&m.Failed, 1)
	atomic.StoreInt64(&m.LastDurationMs, duration)
}

// Get returns a point-in-time copy of the counters.
func (m *ReloadMetrics) Get() ReloadMetrics {
	return ReloadMetrics{
		Total:          atomic.LoadInt64(&m.Total),
		Failed:         atomic.LoadInt64(&m.Failed),
		Succeeded:      atomic.LoadInt64(&m.Succeeded),
		LastDurationMs: atomic.LoadInt64(&m.LastDurationMs),
	}
}

// Reset zeroes all counters.
func (m *ReloadMetrics) Reset() {
	atomic.StoreInt64(&m.Total, 0)
	atomic.StoreInt64(&m.Failed, 0)
	atomic.StoreInt64(&m.Succeeded, 0)
	atomic.StoreInt64(&m.LastDurationMs, 0)
}
