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

package stage

import (
	"testing"

	"github.com/msgflow/pipeline/model"
	"github.com/msgflow/pipeline/test/assert"
)

func TestIteratorOrdersSlicesByAscendingStageNumber(t *testing.T) {
	p := &model.Pipeline{
		ID: "p1",
		Stages: []model.Stage{
			{Number: 0},
			{Number: 10},
			{Number: 20},
		},
	}
	it := New([]*model.Pipeline{p})

	var seen []int
	for {
		slice, ok := it.Next()
		if !ok {
			break
		}
		for _, e := range slice {
			seen = append(seen, e.Stage.Number)
		}
	}
	assert.Equal(t, []int{0, 10, 20}, seen)
}

func TestIteratorGroupsPipelinesSharingAStageNumber(t *testing.T) {
	p1 := &model.Pipeline{ID: "p1", Stages: []model.Stage{{Number: 0}, {Number: 5}}}
	p2 := &model.Pipeline{ID: "p2", Stages: []model.Stage{{Number: 0}}}
	it := New([]*model.Pipeline{p1, p2})

	slice, ok := it.Next()
	assert.True(t, ok)
	assert.Len(t, slice, 2)

	slice, ok = it.Next()
	assert.True(t, ok)
	assert.Len(t, slice, 1)
	assert.Equal(t, "p1", slice[0].Pipeline.ID)

	_, ok = it.Next()
	assert.False(t, ok)
}

func TestIteratorShorterPipelineStopsContributing(t *testing.T) {
	short := &model.Pipeline{ID: "short", Stages: []model.Stage{{Number: 0}}}
	long := &model.Pipeline{ID: "long", Stages: []model.Stage{{Number: 0}, {Number: 1}, {Number: 2}}}
	it := New([]*model.Pipeline{short, long})

	total := 0
	for {
		slice, ok := it.Next()
		if !ok {
			break
		}
		total += len(slice)
	}
	assert.Equal(t, 4, total)
}

func TestIteratorHandlesNonContiguousStageNumbers(t *testing.T) {
	p := &model.Pipeline{ID: "p", Stages: []model.Stage{{Number: 0}, {Number: 100}}}
	it := New([]*model.Pipeline{p})

	_, ok := it.Next()
	assert.True(t, ok)
	slice, ok := it.Next()
	assert.True(t, ok)
	assert.Equal(t, 100, slice[0].Stage.Number)
}

func TestIteratorOnEmptyPipelineSetYieldsNoSlices(t *testing.T) {
	it := New(nil)
	_, ok := it.Next()
	assert.False(t, ok)
}
