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

package ast

import (
	"testing"

	"github.com/msgflow/pipeline/funcs"
	"github.com/msgflow/pipeline/test/assert"
	"github.com/msgflow/pipeline/value"
)

func TestLetBindsVariableForLaterVarRef(t *testing.T) {
	ctx := newCtx(nil)
	assert.NoError(t, NewLet("x", NewConstant(value.Long(9))).Execute(ctx))
	v, err := NewVarRef("x").Evaluate(ctx)
	assert.NoError(t, err)
	assert.Equal(t, int64(9), v.AsLong())
}

func TestExprStatementDiscardsResult(t *testing.T) {
	ctx := newCtx(nil)
	err := NewExprStatement(NewConstant(value.Long(1))).Execute(ctx)
	assert.NoError(t, err)
}

func TestFunctionCallStatementRunsActionForEffect(t *testing.T) {
	registry := funcs.NewStandardRegistry(0)
	registry.Seal()
	ctx := newCtx(nil)
	call := NewFunctionCall(registry, "set_field", []Expression{
		NewConstant(value.String("status")),
		NewConstant(value.String("ok")),
	}, nil)
	err := NewFunctionCallStatement(call).Execute(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "ok", ctx.Message().Field("status"))
}

func TestFunctionCallStatementPropagatesError(t *testing.T) {
	registry := funcs.NewStandardRegistry(0)
	registry.Seal()
	ctx := newCtx(nil)
	call := NewFunctionCall(registry, "unknown_fn", nil, nil)
	err := NewFunctionCallStatement(call).Execute(ctx)
	assert.Error(t, err)
}
