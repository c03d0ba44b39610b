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

package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/msgflow/pipeline/api/types"
	"github.com/msgflow/pipeline/journal"
	"github.com/msgflow/pipeline/message"
	"github.com/msgflow/pipeline/model"
	"github.com/msgflow/pipeline/sourcestore"
	"github.com/msgflow/pipeline/test/assert"
)

const tagRule = `{
	"name": "tag-it",
	"when": {"kind": "const", "type": "bool", "value": true},
	"then": [
		{"kind": "call", "name": "set_field", "args": [
			{"kind": "const", "type": "string", "value": "tagged"},
			{"kind": "const", "type": "bool", "value": true}
		]}
	]
}`

const onePipeline = `{"stages": [{"number": 0, "matchAll": false, "rules": ["tag-it"]}]}`

func waitForSnapshot(t *testing.T, a *Assembled, timeout time.Duration) {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		out := a.Processor.Process(context.Background(), []*message.Message{message.New("test", nil)})
		if out[0].Field("tagged") != nil {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("timed out waiting for the reload to publish a snapshot")
}

func TestBootstrapReloadsAndProcessesAMessage(t *testing.T) {
	store := sourcestore.NewMemoryStore()
	store.PutRule("r1", tagRule)
	store.PutPipeline("p1", onePipeline)
	store.PutAssignment(model.DefaultStream, []string{"p1"})

	a := Bootstrap(Setup{
		Rules:       store.AsRuleSourceService(),
		Pipelines:   store.AsPipelineSourceService(),
		Assignments: store.AsAssignmentService(),
		Config:      types.NewConfig(),
		Committer:   journal.NoopCommitter{},
	})

	a.Reload.ReloadNow()
	waitForSnapshot(t, a, time.Second)

	msg := message.New("test", map[string]interface{}{"hello": "world"})
	out := a.Processor.Process(context.Background(), []*message.Message{msg})

	assert.Equal(t, 1, len(out))
	assert.Equal(t, true, out[0].Field("tagged"))
}

func TestBootstrapDefaultDescriptorWhenUnset(t *testing.T) {
	a := Bootstrap(Setup{
		Rules:       sourcestore.NewMemoryStore().AsRuleSourceService(),
		Pipelines:   sourcestore.NewMemoryStore().AsPipelineSourceService(),
		Assignments: sourcestore.NewMemoryStore().AsAssignmentService(),
		Config:      types.NewConfig(),
		Committer:   journal.NoopCommitter{},
	})

	assert.Equal(t, DefaultDescriptor, a.Processor.Descriptor())
}

func TestBootstrapWithLookupRegistersLookupValue(t *testing.T) {
	lookupSrc := &staticLookup{values: map[string]interface{}{"acme": "gold"}}
	a := Bootstrap(Setup{
		Rules:          sourcestore.NewMemoryStore().AsRuleSourceService(),
		Pipelines:      sourcestore.NewMemoryStore().AsPipelineSourceService(),
		Assignments:    sourcestore.NewMemoryStore().AsAssignmentService(),
		Lookup:         lookupSrc,
		LookupCacheTTL: "1m",
		Config:         types.NewConfig(),
		Committer:      journal.NoopCommitter{},
	})

	assert.NotNil(t, a.Processor)
}

type staticLookup struct {
	values map[string]interface{}
}

func (s *staticLookup) LookupValue(table, key string) (interface{}, bool, error) {
	v, ok := s.values[key]
	return v, ok, nil
}
