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

// Package evalctx implements the per (message, stage) scratchpad that AST
// evaluation reads and writes: variable bindings, the message under
// evaluation, and messages newly created by rule actions.
//
// A fresh Context is created for every (message, stage) pair and discarded
// once that stage completes; bindings never leak across stages (spec.md §4.6).
package evalctx

import "github.com/msgflow/pipeline/message"

// Context is the scratchpad threaded through one stage's rule evaluations.
type Context struct {
	msg      *message.Message
	bindings map[string]interface{}
	created  []*message.Message
}

// New creates a fresh Context for msg. Call New once per (message, stage) pair.
func New(msg *message.Message) *Context {
	return &Context{msg: msg, bindings: make(map[string]interface{})}
}

// Message returns the message under evaluation.
func (c *Context) Message() *message.Message { return c.msg }

// SetVar binds name to value for the remainder of this context's lifetime.
func (c *Context) SetVar(name string, val interface{}) {
	c.bindings[name] = val
}

// GetVar looks up name; the second return is false if the binding is absent
// (VarRef evaluation treats an absent binding as Null, not a failure).
func (c *Context) GetVar(name string) (interface{}, bool) {
	v, ok := c.bindings[name]
	return v, ok
}

// CreateMessage registers a newly created message; it enters the
// interpreter's next pass rather than the current one (spec.md §4.5, §9).
func (c *Context) CreateMessage(m *message.Message) {
	c.created = append(c.created, m)
}

// CreatedMessages returns the messages created so far against this context.
func (c *Context) CreatedMessages() []*message.Message {
	return c.created
}

// ClearCreatedMessages drains the created-message list. Called by the
// interpreter loop after each stage, once created messages have been
// appended to its working queue.
func (c *Context) ClearCreatedMessages() {
	c.created = nil
}
