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

// Package reload implements the debounced, serialized reload controller
// (C7, spec.md §4.7): on a RulesChanged/PipelinesChanged/
// PipelineStreamAssignmentChanged event, it reloads every rule and
// pipeline source, links stage rule-references by name, builds a new
// program snapshot and publishes it to a store.Store. A parse or link
// failure degrades the offending rule or pipeline to a sentinel instead of
// aborting the reload.
package reload

import (
	"sync"
	"time"

	"github.com/msgflow/pipeline/api/types"
	"github.com/msgflow/pipeline/api/types/metrics"
	"github.com/msgflow/pipeline/eventbus"
	"github.com/msgflow/pipeline/model"
	"github.com/msgflow/pipeline/parser"
	"github.com/msgflow/pipeline/sourcestore"
	"github.com/msgflow/pipeline/store"
)

// Controller is the single-slot debounced reload scheduler. At most one
// reload runs at a time; any Trigger received while one is running is
// coalesced into a single follow-up pass rather than queued individually
// (spec.md §4.7).
type Controller struct {
	rules       sourcestore.RuleSourceService
	pipelines   sourcestore.PipelineSourceService
	assignments sourcestore.PipelineStreamAssignmentService
	parseRule   parser.RuleFunc
	parsePipeline parser.PipelineFunc
	store       *store.Store
	logger      types.Logger
	pool        types.Pool
	metrics     *metrics.ReloadMetrics

	mu      sync.Mutex
	running bool
	pending bool
}

// Deps bundles Controller's consumed collaborators so New takes one
// argument per concern without an unreadable long parameter list.
type Deps struct {
	Rules         sourcestore.RuleSourceService
	Pipelines     sourcestore.PipelineSourceService
	Assignments   sourcestore.PipelineStreamAssignmentService
	ParseRule     parser.RuleFunc
	ParsePipeline parser.PipelineFunc
	Store         *store.Store
	Logger        types.Logger
	// Pool, if set, runs each reload pass on a pooled goroutine instead of
	// a bare `go` statement, so reload work is visible to the same
	// coroutine budget as message processing.
	Pool types.Pool
}

// New returns a Controller over deps. Reload does not run until Trigger
// (directly, or via Subscribe) is called at least once.
func New(deps Deps) *Controller {
	if deps.Logger == nil {
		deps.Logger = types.DefaultLogger()
	}
	return &Controller{
		rules:         deps.Rules,
		pipelines:     deps.Pipelines,
		assignments:   deps.Assignments,
		parseRule:     deps.ParseRule,
		parsePipeline: deps.ParsePipeline,
		store:         deps.Store,
		logger:        deps.Logger,
		pool:          deps.Pool,
		metrics:       metrics.NewReloadMetrics(),
	}
}

// Metrics returns the controller's lifetime reload counters.
func (c *Controller) Metrics() *metrics.ReloadMetrics { return c.metrics }

// Subscribe registers c on bus for all three reload-trigger event kinds.
func (c *Controller) Subscribe(bus eventbus.Bus) error {
	kinds := []eventbus.EventKind{
		eventbus.RulesChanged,
		eventbus.PipelinesChanged,
		eventbus.PipelineStreamAssignmentChanged,
	}
	for _, kind := range kinds {
		if err := bus.Subscribe(kind, func(evt eventbus.Event) { c.Trigger(evt) }); err != nil {
			return err
		}
	}
	return nil
}

// Trigger schedules a reload in response to evt. Safe to call from the
// event bus's own callback goroutine; it never blocks on the reload
// itself.
func (c *Controller) Trigger(evt eventbus.Event) {
	c.logger.Printf("reload: triggered by %s (updated=%v deleted=%v stream=%s pipelines=%v)",
		evt.Kind, evt.Updated, evt.Deleted, evt.StreamID, evt.PipelineIDs)
	c.schedule()
}

// ReloadNow runs (or schedules, if one is already running) a reload pass
// synchronously-triggered the same way an event would, for hosts that want
// to force an initial load at startup without waiting on the event bus.
func (c *Controller) ReloadNow() {
	c.schedule()
}

// schedule is the debounce gate: if no pass is running, it starts one; if
// one is running, it marks pending so the running pass loops once more
// before going idle. The running/pending pair is only ever read or
// written under mu, so a Trigger arriving in the narrow window between a
// pass finishing its work and the loop deciding whether to continue can
// never be lost.
func (c *Controller) schedule() {
	c.mu.Lock()
	if c.running {
		c.pending = true
		c.mu.Unlock()
		return
	}
	c.running = true
	c.mu.Unlock()

	dispatch := func() { go c.loop() }
	if c.pool != nil {
		if err := c.pool.Submit(c.loop); err == nil {
			return
		}
		c.logger.Printf("reload: pool submit failed, falling back to a bare goroutine")
	}
	dispatch()
}

// loop runs reload passes until no further pass was requested while the
// last one ran.
func (c *Controller) loop() {
	for {
		c.runOnce()

		c.mu.Lock()
		if !c.pending {
			c.running = false
			c.mu.Unlock()
			return
		}
		c.pending = false
		c.mu.Unlock()
	}
}

// runOnce executes the five-step reload procedure of spec.md §4.7 and
// publishes the result, or keeps the prior snapshot on a structural
// failure.
func (c *Controller) runOnce() {
	start := time.Now()

	rulesByName, err := c.loadAndParseRules()
	if err != nil {
		c.metrics.RecordFailure(time.Since(start).Milliseconds())
		c.logger.Printf("reload: abandoned: %v", err)
		return
	}

	pipelines, err := c.loadAndParsePipelines(rulesByName)
	if err != nil {
		c.metrics.RecordFailure(time.Since(start).Milliseconds())
		c.logger.Printf("reload: abandoned: %v", err)
		return
	}

	assignments, err := c.loadAssignments()
	if err != nil {
		c.metrics.RecordFailure(time.Since(start).Milliseconds())
		c.logger.Printf("reload: abandoned: %v", err)
		return
	}

	snap, err := store.Build(pipelines, assignments)
	if err != nil {
		c.metrics.RecordFailure(time.Since(start).Milliseconds())
		c.logger.Printf("reload: %v", err)
		return
	}

	c.store.Publish(snap)
	c.metrics.RecordSuccess(time.Since(start).Milliseconds())
}

// loadAndParseRules loads every rule source and parses each one, replacing
// a parse failure with an alwaysFalse sentinel (spec.md §4.7 step 1)
// rather than abandoning the reload. The result is keyed by rule Name,
// the key linking resolves RuleRefs against; a later source reusing an
// earlier rule's name silently wins, logged once.
func (c *Controller) loadAndParseRules() (map[string]*model.Rule, error) {
	sources, err := c.rules.LoadAll()
	if err != nil {
		return nil, err
	}
	byName := make(map[string]*model.Rule, len(sources))
	for _, src := range sources {
		rule, err := c.parseRule(src.ID, src.Source)
		if err != nil {
			c.logger.Printf("reload: rule %s failed to parse, using alwaysFalse: %v", src.ID, err)
			sentinel := model.AlwaysFalse("parse failed for " + src.ID + ": " + err.Error())
			rule = &sentinel
		}
		if _, exists := byName[rule.Name]; exists {
			c.logger.Printf("reload: duplicate rule name %q, source %s overrides an earlier one", rule.Name, src.ID)
		}
		byName[rule.Name] = rule
	}
	return byName, nil
}

// loadAndParsePipelines loads every pipeline source, parses each one
// (substituting an empty sentinel on parse failure, spec.md §4.7 step 2),
// then links each Stage's RuleRefs against rulesByName (step 3).
func (c *Controller) loadAndParsePipelines(rulesByName map[string]*model.Rule) (map[string]*model.Pipeline, error) {
	sources, err := c.pipelines.LoadAll()
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*model.Pipeline, len(sources))
	for _, src := range sources {
		pipeline, err := c.parsePipeline(src.ID, src.Source)
		if err != nil {
			c.logger.Printf("reload: pipeline %s failed to parse, using empty: %v", src.ID, err)
			sentinel := model.EmptyPipeline("parse failed for " + src.ID + ": " + err.Error())
			pipeline = &sentinel
		}
		c.link(pipeline, rulesByName)
		byID[pipeline.ID] = pipeline
	}
	return byID, nil
}

// link resolves every Stage's RuleRefs against rulesByName, substituting
// an alwaysFalse sentinel for any name with no match (spec.md §4.7 step 3).
func (c *Controller) link(pipeline *model.Pipeline, rulesByName map[string]*model.Rule) {
	for i := range pipeline.Stages {
		stage := &pipeline.Stages[i]
		stage.Rules = make([]*model.Rule, 0, len(stage.RuleRefs))
		for _, name := range stage.RuleRefs {
			rule, ok := rulesByName[name]
			if !ok {
				c.logger.Printf("reload: pipeline %s stage %d references unresolved rule %q", pipeline.ID, stage.Number, name)
				sentinel := model.AlwaysFalse("Unresolved rule " + name)
				rule = &sentinel
			}
			stage.Rules = append(stage.Rules, rule)
		}
	}
}

// loadAssignments loads the current stream assignment list and folds it
// into the map shape store.Build expects (spec.md §4.7 step 4).
func (c *Controller) loadAssignments() (model.StreamAssignments, error) {
	list, err := c.assignments.LoadAll()
	if err != nil {
		return nil, err
	}
	assignments := make(model.StreamAssignments, len(list))
	for _, a := range list {
		assignments[a.StreamID] = a.PipelineIDs
	}
	return assignments, nil
}
