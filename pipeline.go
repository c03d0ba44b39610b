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

// Package pipeline is the host-facing surface (spec.md §6 "To the host"):
// a single process(Messages) → Messages operation and a Descriptor a host
// registers its message processor under. Everything else — the store, the
// reload controller, the event bus and source-store adapters — is wired by
// the host and handed to New; this package only assembles them behind the
// two operations a host actually calls.
package pipeline

import (
	"context"

	"github.com/msgflow/pipeline/api/types"
	"github.com/msgflow/pipeline/eventbus"
	"github.com/msgflow/pipeline/funcs"
	"github.com/msgflow/pipeline/interp"
	"github.com/msgflow/pipeline/journal"
	"github.com/msgflow/pipeline/message"
	"github.com/msgflow/pipeline/parser"
	"github.com/msgflow/pipeline/reload"
	"github.com/msgflow/pipeline/sourcestore"
	"github.com/msgflow/pipeline/store"
)

// Descriptor statically identifies this message processor to a host
// registry, the way the host's message-processor registration (spec.md
// §6, out of scope here) expects every registered processor to name
// itself.
type Descriptor struct {
	Name    string
	Version string
}

// DefaultDescriptor is the Descriptor this module registers under when the
// host does not need a custom one.
var DefaultDescriptor = Descriptor{Name: "pipeline-processor", Version: "1.0.0"}

// Processor is the top-level, host-facing type: process(Messages) and a
// Descriptor. It wraps interp.Interpreter directly, so the scheduling
// loop's behavior is exactly the one documented in package interp —
// Processor adds nothing but the Descriptor and a smaller import surface
// for hosts that only need the two host-facing operations.
type Processor struct {
	*interp.Interpreter
	descriptor Descriptor
}

// New returns a Processor reading its program from s, using committer to
// acknowledge offsets of dropped messages. descriptor may be the zero
// value, in which case DefaultDescriptor is used.
func New(s *store.Store, config types.Config, committer journal.Committer, descriptor Descriptor) *Processor {
	if descriptor == (Descriptor{}) {
		descriptor = DefaultDescriptor
	}
	return &Processor{
		Interpreter: interp.New(s, config, committer),
		descriptor:  descriptor,
	}
}

// Descriptor returns p's static registration identity.
func (p *Processor) Descriptor() Descriptor { return p.descriptor }

// Process batch-transforms msgs against the program snapshot current at
// the start of this call (spec.md §4.5, §5). Exposed here as a named
// method, rather than relying solely on the embedded interp.Interpreter,
// so the host-facing signature in this doc comment stays the canonical
// reference for spec.md §6's process(Messages) → Messages.
func (p *Processor) Process(ctx context.Context, msgs []*message.Message) []*message.Message {
	return p.Interpreter.Process(ctx, msgs)
}

// Setup bundles everything a host needs to hand Bootstrap: the source-of-truth
// adapters the reload controller reads from, and the lookup source the
// rule language's lookup_value builtin enriches against. Lookup is
// optional — a host with no enrichment database leaves it nil and
// lookup_value simply isn't registered.
type Setup struct {
	Rules       sourcestore.RuleSourceService
	Pipelines   sourcestore.PipelineSourceService
	Assignments sourcestore.PipelineStreamAssignmentService
	Lookup      funcs.LookupService
	// LookupCacheTTL, if non-empty, wraps Lookup in sourcestore.CachedLookup
	// (e.g. "30s"). Ignored when Lookup is nil.
	LookupCacheTTL string

	Config     types.Config
	Committer  journal.Committer
	Descriptor Descriptor
}

// Assembled is everything Bootstrap built: the host-facing Processor and
// the reload.Controller that keeps its backing store.Store current.
// Subscribe(bus) still needs to be called by the host once its event bus
// is available, and ReloadNow() once to force the initial load.
type Assembled struct {
	Processor *Processor
	Reload    *reload.Controller
}

// Bootstrap wires a Registry (with lookup_value registered against
// setup.Lookup, if set) into a JSONParser, a fresh store.Store, a
// reload.Controller over setup's source-of-truth adapters, and a
// Processor reading from that store — the full assembly a host needs to
// go from "I have a database and an event bus" to "I can call Process".
func Bootstrap(setup Setup) *Assembled {
	registry := funcs.NewStandardRegistry(setup.Config.ScriptMaxExecutionTime)
	if setup.Lookup != nil {
		lookup := setup.Lookup
		if setup.LookupCacheTTL != "" {
			lookup = sourcestore.NewCachedLookup(lookup, setup.Config.Cache, setup.LookupCacheTTL)
		}
		funcs.RegisterLookupValue(registry, lookup)
	}
	registry.Seal()

	jsonParser := parser.NewJSONParser(registry)
	s := store.NewStore()

	rc := reload.New(reload.Deps{
		Rules:         setup.Rules,
		Pipelines:     setup.Pipelines,
		Assignments:   setup.Assignments,
		ParseRule:     jsonParser.ParseRule,
		ParsePipeline: jsonParser.ParsePipeline,
		Store:         s,
		Logger:        setup.Config.Logger,
		Pool:          setup.Config.Pool,
	})

	return &Assembled{
		Processor: New(s, setup.Config, setup.Committer, setup.Descriptor),
		Reload:    rc,
	}
}

// Subscribe wires a.Reload onto bus for all three reload-trigger event
// kinds, a thin pass-through kept here so callers holding an Assembled
// don't need to import eventbus themselves just to start listening.
func (a *Assembled) Subscribe(bus eventbus.Bus) error {
	return a.Reload.Subscribe(bus)
}
