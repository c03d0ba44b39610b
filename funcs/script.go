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

package funcs

import (
	"fmt"
	"sync"
	"time"

	"github.com/dop251/goja"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/msgflow/pipeline/evalctx"
	"github.com/msgflow/pipeline/value"
)

// exprCache compiles eval_expr's first argument once per distinct source
// string and reuses the compiled program on every later call, the same
// bind-once/run-many split the exprFilter node follows.
type exprCache struct {
	mu    sync.RWMutex
	progs map[string]*vm.Program
}

func newExprCache() *exprCache { return &exprCache{progs: make(map[string]*vm.Program)} }

func (c *exprCache) compile(src string) (*vm.Program, error) {
	c.mu.RLock()
	p, ok := c.progs[src]
	c.mu.RUnlock()
	if ok {
		return p, nil
	}
	p, err := expr.Compile(src, expr.AllowUndefinedVariables())
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.progs[src] = p
	c.mu.Unlock()
	return p, nil
}

// registerEvalExpr wires eval_expr(source) — a compiled boolean/arithmetic
// expression over the message under evaluation, the expr-lang escape hatch
// for predicates too irregular to express in the rule language directly.
func registerEvalExpr(r *Registry) {
	cache := newExprCache()
	r.MustRegister(adapt("eval_expr", 1, 1, func(pos []value.Value, _ map[string]value.Value, ctx *evalctx.Context) (value.Value, error) {
		src, err := requireString("eval_expr", pos[0])
		if err != nil {
			return value.Null, err
		}
		program, err := cache.compile(src)
		if err != nil {
			return value.Null, fmt.Errorf("%w: eval_expr compile: %v", ErrTypeMismatch, err)
		}
		env := exprEnv(ctx)
		out, err := expr.Run(program, env)
		if err != nil {
			return value.Null, fmt.Errorf("eval_expr: %w", err)
		}
		return value.FromGo(out), nil
	}))
}

func exprEnv(ctx *evalctx.Context) map[string]interface{} {
	msg := ctx.Message()
	env := map[string]interface{}{
		"id":   msg.Id,
		"ts":   msg.Ts,
		"type": msg.Type,
		"msg":  msg.Fields,
	}
	return env
}

// jsVMPool pools goja runtimes the way GojaJsEngine did: a runtime is
// returned to the pool after each call and reused by later calls, including
// calls running a different script. The msg, id and type globals are set
// afresh on every call; other globals a script defines are not cleared.
var jsVMPool = sync.Pool{New: func() interface{} { return goja.New() }}

// registerJS wires js(source) — an inline JavaScript escape hatch evaluated
// in a pooled goja runtime, with the message exposed as the `msg` global.
// A fixed execution budget guards against runaway scripts.
func registerJS(r *Registry, maxExecutionTime time.Duration) {
	if maxExecutionTime <= 0 {
		maxExecutionTime = 2000 * time.Millisecond
	}
	r.MustRegister(adapt("js", 1, 1, func(pos []value.Value, _ map[string]value.Value, ctx *evalctx.Context) (value.Value, error) {
		src, err := requireString("js", pos[0])
		if err != nil {
			return value.Null, err
		}
		rt := jsVMPool.Get().(*goja.Runtime)
		defer jsVMPool.Put(rt)

		msg := ctx.Message()
		if err := rt.Set("msg", msg.Fields); err != nil {
			return value.Null, fmt.Errorf("js: set msg: %w", err)
		}
		if err := rt.Set("id", msg.Id); err != nil {
			return value.Null, fmt.Errorf("js: set id: %w", err)
		}
		if err := rt.Set("type", msg.Type); err != nil {
			return value.Null, fmt.Errorf("js: set type: %w", err)
		}

		timer := time.AfterFunc(maxExecutionTime, func() {
			rt.Interrupt("js execution timeout")
		})
		out, runErr := rt.RunString(src)
		timer.Stop()
		rt.ClearInterrupt()
		if runErr != nil {
			return value.Null, fmt.Errorf("js: %w", runErr)
		}
		return value.FromGo(out.Export()), nil
	}))
}
