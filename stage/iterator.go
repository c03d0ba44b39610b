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

// Package stage slices a set of pipelines into stage slices: the
// (Stage, Pipeline) pairs sharing the current minimum stage number across
// the pipelines still participating. Slices are produced in strictly
// ascending stage-number order; order within a slice is unspecified
// (spec.md §4.4).
package stage

import "github.com/msgflow/pipeline/model"

// Entry pairs one Stage with the Pipeline it belongs to, inside a slice
// produced by Iterator.Next.
type Entry struct {
	Stage    *model.Stage
	Pipeline *model.Pipeline
}

// Iterator walks a fixed set of pipelines stage by stage. Each pipeline
// tracks its own cursor into its Stages; a pipeline with fewer stages than
// its peers simply stops contributing once its cursor runs out.
type Iterator struct {
	pipelines []*model.Pipeline
	cursor    []int
}

// New returns an Iterator over pipelines. The slice is not retained beyond
// construction; callers may reuse it afterward.
func New(pipelines []*model.Pipeline) *Iterator {
	cursor := make([]int, len(pipelines))
	cp := make([]*model.Pipeline, len(pipelines))
	copy(cp, pipelines)
	return &Iterator{pipelines: cp, cursor: cursor}
}

// Next returns the next stage slice in ascending stage-number order, and
// true, or (nil, false) once every pipeline's cursor has run past its last
// stage.
func (it *Iterator) Next() ([]Entry, bool) {
	min := 0
	haveMin := false
	for i, p := range it.pipelines {
		if it.cursor[i] >= len(p.Stages) {
			continue
		}
		n := p.Stages[it.cursor[i]].Number
		if !haveMin || n < min {
			min = n
			haveMin = true
		}
	}
	if !haveMin {
		return nil, false
	}

	var slice []Entry
	for i, p := range it.pipelines {
		if it.cursor[i] >= len(p.Stages) {
			continue
		}
		s := &p.Stages[it.cursor[i]]
		if s.Number != min {
			continue
		}
		slice = append(slice, Entry{Stage: s, Pipeline: p})
		it.cursor[i]++
	}
	return slice, true
}
