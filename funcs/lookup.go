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

	"github.com/msgflow/pipeline/evalctx"
	"github.com/msgflow/pipeline/value"
)

// LookupService is the enrichment data source behind the lookup_value
// builtin. sourcestore provides the sql.DB-backed implementation
// (mysql/postgres); funcs only depends on this narrow interface so the
// registry never needs a driver import.
type LookupService interface {
	// LookupValue returns the value stored for key in table, or ok=false
	// if no row matches.
	LookupValue(table, key string) (interface{}, bool, error)
}

// RegisterLookupValue wires lookup_value(table, key) against source. Called
// by the host during startup, after a LookupService implementation has
// been built, and before the registry is sealed.
func RegisterLookupValue(r *Registry, source LookupService) {
	r.MustRegister(adapt("lookup_value", 2, 2, func(pos []value.Value, _ map[string]value.Value, _ *evalctx.Context) (value.Value, error) {
		table, err := requireString("lookup_value", pos[0])
		if err != nil {
			return value.Null, err
		}
		key := pos[1].String()
		v, ok, err := source.LookupValue(table, key)
		if err != nil {
			return value.Null, fmt.Errorf("lookup_value: %w", err)
		}
		if !ok {
			return value.Null, nil
		}
		return value.FromGo(v), nil
	}))
}
