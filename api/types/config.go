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

import (
	"time"

	"github.com/msgflow/pipeline/message"
)

// Config carries the interpreter's ambient dependencies: the logger rules
// evaluate against, the script execution budget, the coroutine pool
// batches are fanned out over, the lookup-table cache, and the debug hook
// used to trace individual rule evaluations.
type Config struct {
	// Logger receives non-fatal failures: parse errors, link errors,
	// per-rule evaluation errors, and reload failures. Defaults to
	// DefaultLogger().
	Logger Logger
	// Pool is the coroutine pool used to evaluate messages concurrently.
	// If nil, the interpreter processes messages on the calling goroutine.
	Pool Pool
	// Cache fronts lookup_value's table reads, set on sourcestore.CachedLookup
	// by pipeline.Bootstrap. If nil, CachedLookup falls back to a private
	// unbounded cache.MemoryCache instead of going uncached.
	Cache Cache
	// ScriptMaxExecutionTime bounds the js() builtin's execution time.
	// Defaults to 2000 milliseconds.
	ScriptMaxExecutionTime time.Duration
	// OnRuleDebug, if set, is invoked after every rule evaluation in every
	// stage, matched or not, for tracing and debug-mode rule inspection.
	//   - pipelineID: the pipeline the rule belongs to.
	//   - stageNum: the stage number the rule ran in.
	//   - ruleName: the rule's name.
	//   - msg: the message the rule ran against.
	//   - matched: whether the rule's condition evaluated true.
	//   - err: the evaluation error, if any; matched is false when err != nil.
	OnRuleDebug func(pipelineID string, stageNum int, ruleName string, msg *message.Message, matched bool, err error)
}

// NewConfig returns a Config with teacher-standard defaults applied, then
// runs opts over it.
func NewConfig(opts ...Option) Config {
	c := &Config{
		Logger:                 DefaultLogger(),
		ScriptMaxExecutionTime: 2000 * time.Millisecond,
	}
	for _, opt := range opts {
		_ = opt(c)
	}
	return *c
}
