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

// Package model defines the linked, directly-executable shape of a
// pipeline: a tree of stages, each holding the rules that belong to it.
// Parsing and linking (turning source text into these types) happens
// outside this package, in the consumed rule-language parser; model only
// carries the result.
package model

import (
	"github.com/msgflow/pipeline/ast"
	"github.com/msgflow/pipeline/value"
)

// DefaultStream is the reserved stream id used to select pipelines for a
// message that carries no stream membership.
const DefaultStream = "default"

// Rule is one when/then pair. A Rule with a nil When never matches; Then
// only runs once When evaluates truthy.
type Rule struct {
	ID   string
	Name string
	When ast.Expression
	Then []ast.Statement
}

// AlwaysFalse returns a Rule whose predicate never matches, used by the
// reload controller in place of a rule that failed to parse or link so a
// single bad rule degrades to a no-op instead of aborting the whole
// reload (spec.md §4.7).
func AlwaysFalse(reason string) Rule {
	return Rule{
		ID:   "_always_false",
		Name: reason,
		When: ast.NewConstant(value.Bool(false)),
		Then: nil,
	}
}

// Stage is one numbered slice of a Pipeline. The stage reaches quorum when
// at least one of its rules matched, whether or not MatchAll is set; with
// MatchAll set it also reaches quorum when every rule in Rules matched,
// which only differs for a stage with no rules. MatchAll does not stop a
// stage with a non-matching rule from reaching quorum. Either way every
// rule that matched runs its Then, not just the first.
type Stage struct {
	Number   int
	MatchAll bool
	RuleRefs []string
	Rules    []*Rule
}

// Pipeline is a named, ordered sequence of Stages.
type Pipeline struct {
	ID     string
	Name   string
	Stages []Stage
}

// EmptyPipeline returns a Pipeline with no stages, used by the reload
// controller in place of a pipeline that failed to parse or link
// (spec.md §4.7); an empty pipeline contributes to no stage slice and
// never runs any rule.
func EmptyPipeline(reason string) Pipeline {
	return Pipeline{ID: "_empty", Name: reason, Stages: nil}
}

// StreamAssignments maps a stream id to the pipeline ids that run against
// messages carrying that stream.
type StreamAssignments map[string][]string
