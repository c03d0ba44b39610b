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

// Package interp implements the scheduling loop that drives messages
// through the pipelines selected for them: pipeline selection by stream
// membership, stage-sliced rule evaluation with match-quorum tracking, and
// the fixed-point re-queue that lets a message's own rules route it onto
// new streams within one Process call (spec.md §4.5).
package interp

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/msgflow/pipeline/api/types"
	"github.com/msgflow/pipeline/evalctx"
	"github.com/msgflow/pipeline/journal"
	"github.com/msgflow/pipeline/message"
	"github.com/msgflow/pipeline/model"
	"github.com/msgflow/pipeline/stage"
	"github.com/msgflow/pipeline/store"
)

// Interpreter holds the dependencies the scheduling loop needs: the
// program snapshot store, ambient config (logger, debug hook), and the
// journal committer for dropped messages.
type Interpreter struct {
	store    *store.Store
	config   types.Config
	journal  journal.Committer
	filtered int64
}

// New returns an Interpreter reading its program from s. committer may be
// journal.NoopCommitter{} if the host does not track offsets.
func New(s *store.Store, config types.Config, committer journal.Committer) *Interpreter {
	if config.Logger == nil {
		config.Logger = types.DefaultLogger()
	}
	if committer == nil {
		committer = journal.NoopCommitter{}
	}
	return &Interpreter{store: s, config: config, journal: committer}
}

// FilteredOutMessages returns the lifetime count of messages dropped by
// FilterOut across every Process call (spec.md §6's filteredOutMessages meter).
func (i *Interpreter) FilteredOutMessages() int64 { return atomic.LoadInt64(&i.filtered) }

type blacklistKey struct {
	messageID string
	streamID  string
}

// messageResult is what processOne reports for a single message of one
// fixed-point round: where the message goes next, any messages its rules
// created, and the blacklist entries it earned. Batch merges these back
// into the shared blacklist and toProcess/fullyProcessed slices once every
// message in the round has been run, so a pooled round never needs to
// guard the shared maps with a lock.
type messageResult struct {
	created     []*message.Message
	requeue     *message.Message
	done        *message.Message
	blacklisted map[blacklistKey]struct{}
}

// Process runs msgs to a fixed point against the program snapshot current
// at the start of this call, and returns every message once it can no
// longer acquire a new stream (spec.md §4.5). ctx is accepted for the
// host-facing signature but is not consulted for cancellation: process()
// runs a batch to completion by design (spec.md §5).
func (i *Interpreter) Process(_ context.Context, msgs []*message.Message) []*message.Message {
	snap := i.store.Snapshot()

	toProcess := append([]*message.Message(nil), msgs...)
	var fullyProcessed []*message.Message
	blacklist := make(map[blacklistKey]struct{})

	for len(toProcess) > 0 {
		current := toProcess
		toProcess = nil

		for _, r := range i.processBatch(current, snap, blacklist) {
			for key := range r.blacklisted {
				blacklist[key] = struct{}{}
			}
			toProcess = append(toProcess, r.created...)
			if r.requeue != nil {
				toProcess = append(toProcess, r.requeue)
			}
			if r.done != nil {
				fullyProcessed = append(fullyProcessed, r.done)
			}
		}
	}

	return fullyProcessed
}

// processBatch runs processOne for every message of one fixed-point round.
// If Config.Pool is set, each message is submitted to it and the round
// waits for every submission to finish, so a slow stage on one message
// cannot block the goroutine driving the rest of the batch (a pool submit
// failure falls back to running that message inline, logged, the same way
// reload.Controller.schedule degrades to a bare goroutine). With no pool
// configured, messages run sequentially on the calling goroutine exactly as
// before this round-batching was introduced.
func (i *Interpreter) processBatch(current []*message.Message, snap *store.Snapshot, blacklist map[blacklistKey]struct{}) []messageResult {
	results := make([]messageResult, len(current))

	if i.config.Pool == nil {
		for idx, msg := range current {
			results[idx] = i.processOne(msg, snap, blacklist)
		}
		return results
	}

	var wg sync.WaitGroup
	for idx, msg := range current {
		idx, msg := idx, msg
		run := func() {
			defer wg.Done()
			results[idx] = i.processOne(msg, snap, blacklist)
		}
		wg.Add(1)
		if err := i.config.Pool.Submit(run); err != nil {
			i.config.Logger.Printf("interp: pool submit failed for message %s, running inline: %v", msg.Id, err)
			run()
		}
	}
	wg.Wait()
	return results
}

// processOne implements spec.md §4.5 steps 1-2 for a single message:
// pipeline selection, stage-sliced evaluation, and the bookkeeping that
// decides whether the message re-enters the fixed-point loop on a newly
// acquired stream or leaves the batch. blacklist is read only here, never
// written — callers merge the earned entries back after every message in
// the round has reported, so concurrent processOne calls never race on it.
func (i *Interpreter) processOne(msg *message.Message, snap *store.Snapshot, blacklist map[blacklistKey]struct{}) messageResult {
	before := msg.StreamSet()

	pipelines := selectPipelines(msg, snap, blacklist)
	created := i.runStageSlices(msg, pipelines)

	after := msg.StreamSet()
	addedStreams := false
	earned := make(map[blacklistKey]struct{})
	for s := range after {
		if _, ok := before[s]; ok {
			earned[blacklistKey{msg.Id, s}] = struct{}{}
		} else {
			addedStreams = true
		}
	}

	result := messageResult{created: created, blacklisted: earned}

	if msg.FilterOut {
		atomic.AddInt64(&i.filtered, 1)
		if err := i.journal.MarkOffsetCommitted(msg.Offset); err != nil {
			i.config.Logger.Printf("journal commit failed for message %s: %v", msg.Id, err)
		}
		result.done = msg
		return result
	}

	if addedStreams {
		result.requeue = msg
	} else {
		result.done = msg
	}
	return result
}

// selectPipelines implements spec.md §4.5 step 1.
func selectPipelines(msg *message.Message, snap *store.Snapshot, blacklist map[blacklistKey]struct{}) []*model.Pipeline {
	streams := msg.Streams()
	if len(streams) == 0 {
		if _, blocked := blacklist[blacklistKey{msg.Id, model.DefaultStream}]; blocked {
			return nil
		}
		return snap.PipelinesForStream(model.DefaultStream)
	}

	seen := make(map[string]struct{})
	var result []*model.Pipeline
	for _, s := range streams {
		if _, blocked := blacklist[blacklistKey{msg.Id, s}]; blocked {
			continue
		}
		for _, p := range snap.PipelinesForStream(s) {
			if _, ok := seen[p.ID]; ok {
				continue
			}
			seen[p.ID] = struct{}{}
			result = append(result, p)
		}
	}
	return result
}

// runStageSlices implements spec.md §4.5 step 2: stage-sliced execution
// with match-quorum tracking. proceeding starts empty and only ever grows:
// a pipeline is added once it clears a stage's match-quorum, never removed.
// The skip check only engages once proceeding is non-empty, so a pipeline
// is never skipped purely because it is the only one that has run so far —
// this mirrors the reference pipeline processor's pipelinesToProceedWith
// set exactly (it is built with add-only semantics there too).
func (i *Interpreter) runStageSlices(msg *message.Message, pipelines []*model.Pipeline) []*message.Message {
	proceeding := make(map[string]struct{}, len(pipelines))

	var created []*message.Message
	it := stage.New(pipelines)
	for {
		slice, ok := it.Next()
		if !ok {
			break
		}
		for _, entry := range slice {
			if len(proceeding) > 0 {
				if _, ok := proceeding[entry.Pipeline.ID]; !ok {
					continue
				}
			}

			ctx := evalctx.New(msg)
			matched := i.evaluateStage(entry.Pipeline.ID, entry.Stage, ctx)

			quorum := (entry.Stage.MatchAll && len(matched) == len(entry.Stage.Rules)) || len(matched) > 0
			if quorum {
				proceeding[entry.Pipeline.ID] = struct{}{}
			}

			created = append(created, ctx.CreatedMessages()...)
			ctx.ClearCreatedMessages()
		}
	}
	return created
}

// evaluateStage runs the rule-selection and action phases of one
// (Stage, Pipeline) entry against ctx, returning the rules that matched.
func (i *Interpreter) evaluateStage(pipelineID string, s *model.Stage, ctx *evalctx.Context) []*model.Rule {
	var matched []*model.Rule
	for _, rule := range s.Rules {
		ok, err := i.evaluateWhen(rule, ctx)
		i.debug(pipelineID, s.Number, rule.Name, ctx, ok, err)
		if err != nil {
			i.config.Logger.Printf("%v", &types.EvaluationError{RuleName: rule.Name, MessageID: ctx.Message().Id, Err: err})
			continue
		}
		if ok {
			matched = append(matched, rule)
		}
	}

	for _, rule := range matched {
		i.runThen(rule, ctx)
	}
	return matched
}

func (i *Interpreter) evaluateWhen(rule *model.Rule, ctx *evalctx.Context) (bool, error) {
	if rule.When == nil {
		return false, nil
	}
	v, err := rule.When.Evaluate(ctx)
	if err != nil {
		return false, err
	}
	return v.Truthy(), nil
}

// runThen evaluates rule.Then in order; a statement failure aborts the
// remaining statements of this rule only — the message and the rest of the
// stage proceed (spec.md §7).
func (i *Interpreter) runThen(rule *model.Rule, ctx *evalctx.Context) {
	for _, stmt := range rule.Then {
		if err := stmt.Execute(ctx); err != nil {
			i.config.Logger.Printf("%v", &types.EvaluationError{RuleName: rule.Name, MessageID: ctx.Message().Id, Err: err})
			return
		}
	}
}

func (i *Interpreter) debug(pipelineID string, stageNum int, ruleName string, ctx *evalctx.Context, matched bool, err error) {
	if i.config.OnRuleDebug == nil {
		return
	}
	i.config.OnRuleDebug(pipelineID, stageNum, ruleName, ctx.Message(), matched, err)
}
