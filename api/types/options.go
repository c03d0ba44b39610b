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
	"math"
	"time"

	"github.com/msgflow/pipeline/message"
	"github.com/msgflow/pipeline/pool"
)

// Option is a function type that modifies the Config.
type Option func(*Config) error

// WithLogger sets the logger of the Config.
func WithLogger(logger Logger) Option {
	return func(c *Config) error {
		c.Logger = logger
		return nil
	}
}

// WithPool sets the coroutine pool of the Config.
func WithPool(p Pool) Option {
	return func(c *Config) error {
		c.Pool = p
		return nil
	}
}

// WithDefaultPool installs the bundled pool.WorkerPool implementation,
// unbounded except by MaxInt32 workers.
func WithDefaultPool() Option {
	return func(c *Config) error {
		wp := &pool.WorkerPool{MaxWorkersCount: math.MaxInt32}
		wp.Start()
		c.Pool = wp
		return nil
	}
}

// WithCache sets the lookup-table cache of the Config.
func WithCache(cache Cache) Option {
	return func(c *Config) error {
		c.Cache = cache
		return nil
	}
}

// WithScriptMaxExecutionTime sets the js() builtin's execution budget.
func WithScriptMaxExecutionTime(d time.Duration) Option {
	return func(c *Config) error {
		c.ScriptMaxExecutionTime = d
		return nil
	}
}

// WithOnRuleDebug sets the per-rule debug trace callback.
func WithOnRuleDebug(fn func(pipelineID string, stageNum int, ruleName string, msg *message.Message, matched bool, err error)) Option {
	return func(c *Config) error {
		c.OnRuleDebug = fn
		return nil
	}
}
