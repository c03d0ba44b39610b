/*
 * Copyright 2023 The RuleGo Authors.
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

// Package message defines the unit of data the interpreter processes: a
// mutable field bag with a stable id, a set of stream memberships and a
// drop flag. The host owns Message instances; the interpreter mutates
// their fields, streams and FilterOut in place as rules run.
package message

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// DefaultStream is the reserved stream id used when a message carries no
// explicit stream membership.
const DefaultStream = "default"

// Message is the unit of data flowing through the pipeline interpreter.
type Message struct {
	// Id uniquely identifies the message for the lifetime of one process() call.
	Id string
	// Ts is the message timestamp in unix milliseconds.
	Ts int64
	// Type is the host-assigned message type, informational only to the core.
	Type string
	// Fields holds the message's mutable payload, keyed by field name.
	Fields map[string]interface{}
	// streams is the message's current stream membership.
	streams map[string]struct{}
	// FilterOut marks the message as dropped; set by the drop_message() builtin.
	FilterOut bool
	// Offset is the host-assigned journal offset this message was read at.
	// The interpreter commits it via the journal contract when the message
	// is dropped by FilterOut; the core never interprets its value.
	Offset int64
}

// New creates a Message with a generated id and no stream membership.
func New(msgType string, fields map[string]interface{}) *Message {
	id, _ := uuid.NewV4()
	if fields == nil {
		fields = make(map[string]interface{})
	}
	return &Message{
		Id:      id.String(),
		Ts:      time.Now().UnixMilli(),
		Type:    msgType,
		Fields:  fields,
		streams: make(map[string]struct{}),
	}
}

// Copy returns a deep-enough copy of m: a new id, a snapshot of fields and streams.
func (m *Message) Copy() *Message {
	id, _ := uuid.NewV4()
	fields := make(map[string]interface{}, len(m.Fields))
	for k, v := range m.Fields {
		fields[k] = v
	}
	cp := &Message{
		Id:      id.String(),
		Ts:      m.Ts,
		Type:    m.Type,
		Fields:  fields,
		streams: make(map[string]struct{}, len(m.streams)),
	}
	for s := range m.streams {
		cp.streams[s] = struct{}{}
	}
	return cp
}

// Field returns the named field, or nil if absent.
func (m *Message) Field(name string) interface{} {
	return m.Fields[name]
}

// SetField sets the named field on the message.
func (m *Message) SetField(name string, v interface{}) {
	if m.Fields == nil {
		m.Fields = make(map[string]interface{})
	}
	m.Fields[name] = v
}

// Streams returns the message's current stream ids. Safe to range over;
// mutating the message's streams afterward does not affect the returned slice.
func (m *Message) Streams() []string {
	if len(m.streams) == 0 {
		return nil
	}
	out := make([]string, 0, len(m.streams))
	for s := range m.streams {
		out = append(out, s)
	}
	return out
}

// HasStream reports whether id is among the message's current streams.
func (m *Message) HasStream(id string) bool {
	_, ok := m.streams[id]
	return ok
}

// AddStream adds id to the message's stream membership.
func (m *Message) AddStream(id string) {
	if m.streams == nil {
		m.streams = make(map[string]struct{})
	}
	m.streams[id] = struct{}{}
}

// RemoveStream removes id from the message's stream membership.
func (m *Message) RemoveStream(id string) {
	delete(m.streams, id)
}

// StreamSet returns a snapshot copy of the message's current stream ids as a set.
func (m *Message) StreamSet() map[string]struct{} {
	cp := make(map[string]struct{}, len(m.streams))
	for s := range m.streams {
		cp[s] = struct{}{}
	}
	return cp
}
