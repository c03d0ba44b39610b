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
	"testing"

	"github.com/msgflow/pipeline/test/assert"
)

func TestMemoryStoreLoadAllRulesReflectsPuts(t *testing.T) {
	s := NewMemoryStore()
	s.PutRule("r1", `{"name":"r1"}`)
	s.PutRule("r2", `{"name":"r2"}`)

	rules, err := s.AsRuleSourceService().LoadAll()
	assert.NoError(t, err)
	assert.Len(t, rules, 2)
}

func TestMemoryStoreDeleteRuleRemovesIt(t *testing.T) {
	s := NewMemoryStore()
	s.PutRule("r1", `{}`)
	s.DeleteRule("r1")

	rules, err := s.AsRuleSourceService().LoadAll()
	assert.NoError(t, err)
	assert.Len(t, rules, 0)
}

func TestMemoryStorePipelinesAndAssignments(t *testing.T) {
	s := NewMemoryStore()
	s.PutPipeline("p1", `{}`)
	s.PutAssignment("default", []string{"p1"})

	pipelines, err := s.AsPipelineSourceService().LoadAll()
	assert.NoError(t, err)
	assert.Len(t, pipelines, 1)

	assignments, err := s.AsAssignmentService().LoadAll()
	assert.NoError(t, err)
	assert.Len(t, assignments, 1)
	assert.Equal(t, "default", assignments[0].StreamID)
}
