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

import "time"

// NewStandardRegistry builds a Registry carrying every builtin this
// package ships: the pure core functions, the mutating action builtins,
// and the eval_expr/js script escape hatches. scriptMaxExecutionTime
// bounds the js() builtin the way Config.ScriptMaxExecutionTime bounds
// the teacher's script engines; pass 0 for the default. lookup_value is
// registered separately via RegisterLookupValue once a LookupService
// exists, since it needs a host-provided data source. The caller must
// Seal the returned registry once all extensions (including
// lookup_value) are registered.
func NewStandardRegistry(scriptMaxExecutionTime time.Duration) *Registry {
	r := NewRegistry()
	registerCore(r)
	registerActions(r)
	registerEvalExpr(r)
	registerJS(r, scriptMaxExecutionTime)
	return r
}
