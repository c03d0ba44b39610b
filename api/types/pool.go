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

package types

// Pool is the coroutine pool the interpreter submits per-message evaluation
// work to, so a slow stage on one message cannot block the goroutine driving
// the rest of the batch.
type Pool interface {
	// Submit queues fn for execution. Returns an error if fn cannot be
	// queued, e.g. because the pool is full.
	Submit(fn func()) error
	// Release shuts the pool down. Queued workers finish their current task
	// before terminating.
	Release()
}
