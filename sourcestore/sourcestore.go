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

// Package sourcestore defines the persistent source-of-truth contracts the
// reload controller consumes (spec.md §6) and ships two implementations of
// them: an in-memory one for tests and small embedders, and a
// database/sql-backed one for hosts that keep rule/pipeline definitions in
// a relational store. Neither implementation is required; a host may
// supply its own.
package sourcestore

// RuleSource is one named rule definition as stored by the host.
type RuleSource struct {
	ID     string
	Source string
}

// PipelineSource is one named pipeline definition as stored by the host.
type PipelineSource struct {
	ID     string
	Source string
}

// StreamAssignment is one stream's pipeline assignment list.
type StreamAssignment struct {
	StreamID    string
	PipelineIDs []string
}

// RuleSourceService loads every rule definition currently on record.
type RuleSourceService interface {
	LoadAll() ([]RuleSource, error)
}

// PipelineSourceService loads every pipeline definition currently on record.
type PipelineSourceService interface {
	LoadAll() ([]PipelineSource, error)
}

// PipelineStreamAssignmentService loads the current stream-to-pipeline
// assignment list.
type PipelineStreamAssignmentService interface {
	LoadAll() ([]StreamAssignment, error)
}
