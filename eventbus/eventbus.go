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

// Package eventbus defines the cluster-wide event bus subscription
// contract the reload controller consumes (spec.md §4.7, §6) and ships
// two implementations: an in-process Bus for single-node embedders and
// tests, and an MQTT-backed one for hosts whose rule/pipeline/assignment
// definitions live behind a cluster of interpreter instances that all need
// to reload together.
package eventbus

// EventKind discriminates the three reload triggers. The core treats
// every kind identically — any one schedules a debounced reload — so the
// distinction exists purely for logging and for a Bus's own topic/subject
// routing.
type EventKind int

const (
	RulesChanged EventKind = iota
	PipelinesChanged
	PipelineStreamAssignmentChanged
)

func (k EventKind) String() string {
	switch k {
	case RulesChanged:
		return "RulesChanged"
	case PipelinesChanged:
		return "PipelinesChanged"
	case PipelineStreamAssignmentChanged:
		return "PipelineStreamAssignmentChanged"
	default:
		return "Unknown"
	}
}

// Event carries the informational payload of a reload trigger. The
// reload controller logs Updated/Deleted/StreamID/PipelineIDs but never
// uses them to patch a snapshot incrementally — every event, regardless
// of payload, results in the same full reload procedure (spec.md §6).
type Event struct {
	Kind        EventKind
	Updated     []string
	Deleted     []string
	StreamID    string
	PipelineIDs []string
}

// Handler is invoked by a Bus on its own goroutine whenever a subscribed
// EventKind fires. Handlers must not block.
type Handler func(Event)

// Bus is the consumed cluster event-bus subscription contract (spec.md
// §4.7): the reload controller calls Subscribe three times, once per
// EventKind, during startup.
type Bus interface {
	Subscribe(kind EventKind, handler Handler) error
	Close() error
}
