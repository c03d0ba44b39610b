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

import (
	"testing"

	"github.com/msgflow/pipeline/test/assert"
)

func TestMemoryBusDeliversOnlyToMatchingKind(t *testing.T) {
	b := NewMemoryBus()
	var rulesFired, pipelinesFired int

	assert.NoError(t, b.Subscribe(RulesChanged, func(Event) { rulesFired++ }))
	assert.NoError(t, b.Subscribe(PipelinesChanged, func(Event) { pipelinesFired++ }))

	b.Publish(Event{Kind: RulesChanged, Updated: []string{"r1"}})

	assert.Equal(t, 1, rulesFired)
	assert.Equal(t, 0, pipelinesFired)
}

func TestMemoryBusMultipleHandlersSameKind(t *testing.T) {
	b := NewMemoryBus()
	var calls int

	assert.NoError(t, b.Subscribe(PipelineStreamAssignmentChanged, func(Event) { calls++ }))
	assert.NoError(t, b.Subscribe(PipelineStreamAssignmentChanged, func(Event) { calls++ }))

	b.Publish(Event{Kind: PipelineStreamAssignmentChanged, StreamID: "alerts"})

	assert.Equal(t, 2, calls)
}

func TestMemoryBusCloseIsNoop(t *testing.T) {
	b := NewMemoryBus()
	assert.NoError(t, b.Close())
}
