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

// Package parser defines the rule-language parser contract the reload
// controller consumes (spec.md §6: parseRule/parsePipeline are an external
// collaborator; the interpreter is agnostic to surface syntax) and ships a
// reference implementation of it. Swapping RuleFunc/PipelineFunc for a
// different surface syntax (a DSL, an expression grammar, anything) never
// touches reload or interp.
package parser

import "github.com/msgflow/pipeline/model"

// RuleFunc parses one named rule source into its linked AST. id identifies
// the source for error reporting; it is not necessarily the rule's Name.
type RuleFunc func(id, source string) (*model.Rule, error)

// PipelineFunc parses one named pipeline source into its Stage/RuleRefs
// shape. Stage.Rules is left nil; the reload controller resolves RuleRefs
// against the rule-name map during linking (spec.md §4.7 step 3).
type PipelineFunc func(id, source string) (*model.Pipeline, error)
