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

package types

import (
	"errors"
	"fmt"
)

var (
	// ErrCacheNotInitialized is returned by Cache-backed lookups when no
	// Cache was configured.
	ErrCacheNotInitialized = errors.New("cache not initialized")
	// ErrReloadInProgress reports a reload requested while another is
	// running. reload.Controller does not return it: it coalesces such a
	// request into one follow-up run instead.
	ErrReloadInProgress = errors.New("reload already in progress")
	// ErrUnknownSource reports a message source with no matching stream
	// assignment. No code in this module returns it.
	ErrUnknownSource = errors.New("no pipeline assigned to source stream")
	// ErrStoreEmpty reports a snapshot store that has not been published
	// to yet. Store.Snapshot does not return it: before the first Publish
	// it returns a nil *Snapshot.
	ErrStoreEmpty = errors.New("snapshot store has not been published to yet")
)

// ParseError reports a syntax failure while compiling one rule or pipeline
// source. SourceID identifies the rule/pipeline the source belongs to; Line
// and Col are 1-based.
type ParseError struct {
	SourceID string
	Line     int
	Col      int
	Err      error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse %s:%d:%d: %v", e.SourceID, e.Line, e.Col, e.Err)
	}
	return fmt.Sprintf("parse %s: %v", e.SourceID, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// LinkError reports a rule that parsed but could not be linked into a
// pipeline stage, e.g. because it calls an unknown function.
type LinkError struct {
	RuleName string
	Err      error
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("link rule %q: %v", e.RuleName, e.Err)
}

func (e *LinkError) Unwrap() error { return e.Err }

// EvaluationError reports a rule that failed while evaluating against a
// specific message. The interpreter logs it and continues to the next rule
// instead of aborting the message.
type EvaluationError struct {
	RuleName  string
	MessageID string
	Err       error
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("evaluate rule %q on message %s: %v", e.RuleName, e.MessageID, e.Err)
}

func (e *EvaluationError) Unwrap() error { return e.Err }

// ConfigurationError reports a store-build or reload-time failure not tied
// to any single rule, e.g. a nil pipeline map handed to store.Build.
type ConfigurationError struct {
	Err error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration: %v", e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }
