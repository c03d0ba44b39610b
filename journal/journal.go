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

// Package journal defines and implements the host's message journal as
// consumed by the interpreter: the single operation it calls to acknowledge
// a dropped message's offset so the host never redelivers it (spec.md §6).
package journal

import "github.com/msgflow/pipeline/api/types"

// Committer is the consumed offset-commit contract. The interpreter calls
// MarkOffsetCommitted once per message dropped by FilterOut; the core
// treats offset as opaque.
type Committer interface {
	MarkOffsetCommitted(offset int64) error
}

// NoopCommitter discards every offset. Useful in tests and for hosts that
// track offsets themselves outside the message journal.
type NoopCommitter struct{}

func (NoopCommitter) MarkOffsetCommitted(int64) error { return nil }

// LoggingCommitter logs every committed offset through a Logger, then
// delegates to an underlying Committer (or discards if nil).
type LoggingCommitter struct {
	Logger types.Logger
	Next   Committer
}

func (c LoggingCommitter) MarkOffsetCommitted(offset int64) error {
	if c.Logger != nil {
		c.Logger.Printf("journal: committed offset %d", offset)
	}
	if c.Next != nil {
		return c.Next.MarkOffsetCommitted(offset)
	}
	return nil
}
