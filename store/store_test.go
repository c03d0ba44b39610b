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

package store

import (
	"testing"

	"github.com/msgflow/pipeline/model"
	"github.com/msgflow/pipeline/test/assert"
)

func TestStoreSnapshotNilBeforeFirstPublish(t *testing.T) {
	s := NewStore()
	assert.Nil(t, s.Snapshot())
}

func TestStorePublishThenSnapshotReturnsSamePointer(t *testing.T) {
	s := NewStore()
	snap, err := Build(map[string]*model.Pipeline{}, nil)
	assert.NoError(t, err)
	s.Publish(snap)
	assert.Equal(t, snap, s.Snapshot())
}

func TestBuildDropsAssignmentsToUnknownPipelines(t *testing.T) {
	p1 := &model.Pipeline{ID: "p1", Name: "p1"}
	pipelines := map[string]*model.Pipeline{"p1": p1}
	assignments := model.StreamAssignments{
		"syslog": {"p1", "missing"},
	}
	snap, err := Build(pipelines, assignments)
	assert.NoError(t, err)
	assert.Len(t, snap.ByStream["syslog"], 1)
	assert.Equal(t, p1, snap.ByStream["syslog"][0])
}

func TestBuildDropsStreamWithOnlyUnknownPipelines(t *testing.T) {
	pipelines := map[string]*model.Pipeline{}
	assignments := model.StreamAssignments{"syslog": {"missing"}}
	snap, err := Build(pipelines, assignments)
	assert.NoError(t, err)
	_, ok := snap.ByStream["syslog"]
	assert.False(t, ok)
}

func TestBuildRejectsNilPipelineSet(t *testing.T) {
	_, err := Build(nil, nil)
	assert.Error(t, err)
}

func TestPipelinesForStreamOnNilSnapshotReturnsNil(t *testing.T) {
	var snap *Snapshot
	assert.Nil(t, snap.PipelinesForStream(model.DefaultStream))
}
