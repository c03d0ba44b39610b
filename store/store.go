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

// Package store holds the hot-swappable program snapshot: the linked
// pipelines and the stream-to-pipeline assignment multimap the interpreter
// reads on every message. A Store exposes exactly one read operation,
// Snapshot, backed by a single atomic.Pointer so readers never take a lock
// (spec.md §4.3, §5).
package store

import (
	"errors"
	"sync/atomic"

	"github.com/msgflow/pipeline/api/types"
	"github.com/msgflow/pipeline/model"
)

var errNilPipelineSet = errors.New("pipeline set must not be nil")

// Snapshot is the immutable program image published by a reload. Once
// returned from Store.Snapshot, none of its fields are mutated again; a
// reader may hold the reference for the lifetime of one process() call
// without fear of it changing underneath them.
type Snapshot struct {
	Pipelines map[string]*model.Pipeline
	ByStream  map[string][]*model.Pipeline
}

// Build links pipelines and assignments into a Snapshot. Assignment
// entries naming a pipeline id absent from pipelines are dropped rather
// than failing the build (spec.md §4.7 step 4) — a stream assignment that
// outruns its pipeline's own reload is expected to self-heal on the next
// reload, not abort this one. pipelines must be non-nil; a nil map is the
// one structurally-impossible case this returns ConfigurationError for
// (spec.md §7) — every other degradation (bad rule, bad pipeline, stale
// assignment) is handled upstream by substituting a sentinel.
func Build(pipelines map[string]*model.Pipeline, assignments model.StreamAssignments) (*Snapshot, error) {
	if pipelines == nil {
		return nil, &types.ConfigurationError{Err: errNilPipelineSet}
	}
	byStream := make(map[string][]*model.Pipeline, len(assignments))
	for streamID, pipelineIDs := range assignments {
		var assigned []*model.Pipeline
		for _, pid := range pipelineIDs {
			if p, ok := pipelines[pid]; ok {
				assigned = append(assigned, p)
			}
		}
		if len(assigned) > 0 {
			byStream[streamID] = assigned
		}
	}
	return &Snapshot{Pipelines: pipelines, ByStream: byStream}, nil
}

// PipelinesForStream returns the pipelines assigned to streamID, or nil if
// none are assigned.
func (s *Snapshot) PipelinesForStream(streamID string) []*model.Pipeline {
	if s == nil {
		return nil
	}
	return s.ByStream[streamID]
}

// Store is a single-cell, lock-free holder for the current Snapshot.
// Readers call Snapshot; the reload controller is the only writer, via
// Publish.
type Store struct {
	cell atomic.Pointer[Snapshot]
}

// NewStore returns a Store with no published snapshot. Snapshot returns
// nil until the first Publish.
func NewStore() *Store {
	return &Store{}
}

// Snapshot returns the current program image with a single atomic load.
// It returns nil if Publish has never been called.
func (s *Store) Snapshot() *Snapshot {
	return s.cell.Load()
}

// Publish atomically replaces the current snapshot. Readers already
// holding the previous snapshot are unaffected; the next call to Snapshot
// observes snap.
func (s *Store) Publish(snap *Snapshot) {
	s.cell.Store(snap)
}
