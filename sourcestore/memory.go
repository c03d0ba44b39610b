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

import "sync"

// MemoryStore is a RuleSourceService + PipelineSourceService +
// PipelineStreamAssignmentService backed by plain maps, guarded by one
// mutex. Suitable for tests and for hosts small enough not to need a
// database; mutating methods are safe to call from the event-bus callback
// goroutine while a reload concurrently reads a prior LoadAll snapshot,
// since each LoadAll copies out of the maps under lock.
type MemoryStore struct {
	mu          sync.Mutex
	rules       map[string]string
	pipelines   map[string]string
	assignments map[string][]string
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rules:       make(map[string]string),
		pipelines:   make(map[string]string),
		assignments: make(map[string][]string),
	}
}

// PutRule sets or replaces rule id's source text.
func (s *MemoryStore) PutRule(id, source string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rules[id] = source
}

// DeleteRule removes rule id.
func (s *MemoryStore) DeleteRule(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rules, id)
}

// PutPipeline sets or replaces pipeline id's source text.
func (s *MemoryStore) PutPipeline(id, source string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pipelines[id] = source
}

// DeletePipeline removes pipeline id.
func (s *MemoryStore) DeletePipeline(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pipelines, id)
}

// PutAssignment sets streamID's pipeline id list, replacing any prior one.
func (s *MemoryStore) PutAssignment(streamID string, pipelineIDs []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assignments[streamID] = pipelineIDs
}

// LoadAllRules backs RuleSourceService; see AsRuleSourceService.
func (s *MemoryStore) LoadAllRules() ([]RuleSource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]RuleSource, 0, len(s.rules))
	for id, src := range s.rules {
		out = append(out, RuleSource{ID: id, Source: src})
	}
	return out, nil
}

// LoadAllPipelines implements PipelineSourceService.
func (s *MemoryStore) LoadAllPipelines() ([]PipelineSource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]PipelineSource, 0, len(s.pipelines))
	for id, src := range s.pipelines {
		out = append(out, PipelineSource{ID: id, Source: src})
	}
	return out, nil
}

// LoadAllAssignments implements PipelineStreamAssignmentService.
func (s *MemoryStore) LoadAllAssignments() ([]StreamAssignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]StreamAssignment, 0, len(s.assignments))
	for streamID, ids := range s.assignments {
		cp := make([]string, len(ids))
		copy(cp, ids)
		out = append(out, StreamAssignment{StreamID: streamID, PipelineIDs: cp})
	}
	return out, nil
}

// ruleSourceServiceAdapter and its siblings exist because MemoryStore
// implements all three LoadAll shapes under distinct method names
// (LoadAllRules/LoadAllPipelines/LoadAllAssignments) to live on one type
// without a name collision; RuleSourceService etc. want a single LoadAll
// each. AsRuleSourceService and friends hand back the narrow view.
type ruleSourceServiceAdapter struct{ s *MemoryStore }

func (a ruleSourceServiceAdapter) LoadAll() ([]RuleSource, error) { return a.s.LoadAllRules() }

// AsRuleSourceService returns s viewed as a RuleSourceService.
func (s *MemoryStore) AsRuleSourceService() RuleSourceService { return ruleSourceServiceAdapter{s} }

type pipelineSourceServiceAdapter struct{ s *MemoryStore }

func (a pipelineSourceServiceAdapter) LoadAll() ([]PipelineSource, error) {
	return a.s.LoadAllPipelines()
}

// AsPipelineSourceService returns s viewed as a PipelineSourceService.
func (s *MemoryStore) AsPipelineSourceService() PipelineSourceService {
	return pipelineSourceServiceAdapter{s}
}

type assignmentServiceAdapter struct{ s *MemoryStore }

func (a assignmentServiceAdapter) LoadAll() ([]StreamAssignment, error) {
	return a.s.LoadAllAssignments()
}

// AsAssignmentService returns s viewed as a PipelineStreamAssignmentService.
func (s *MemoryStore) AsAssignmentService() PipelineStreamAssignmentService {
	return assignmentServiceAdapter{s}
}
