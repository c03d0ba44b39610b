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

package funcs

import (
	"testing"

	"github.com/msgflow/pipeline/evalctx"
	"github.com/msgflow/pipeline/message"
	"github.com/msgflow/pipeline/test/assert"
	"github.com/msgflow/pipeline/value"
)

func TestRegisterThenSealRejectsFurtherRegistration(t *testing.T) {
	r := NewRegistry()
	assert.NoError(t, r.Register(adapt("noop", 0, 0, func(_ []value.Value, _ map[string]value.Value, _ *evalctx.Context) (value.Value, error) {
		return value.Null, nil
	})))
	r.Seal()
	err := r.Register(adapt("late", 0, 0, nil))
	assert.Error(t, err)
}

func TestRegisterDuplicateNameFails(t *testing.T) {
	r := NewRegistry()
	fn := adapt("dup", 0, 0, func(_ []value.Value, _ map[string]value.Value, _ *evalctx.Context) (value.Value, error) {
		return value.Null, nil
	})
	assert.NoError(t, r.Register(fn))
	assert.Error(t, r.Register(fn))
}

func TestCheckArityRejectsOutOfBoundsCallCount(t *testing.T) {
	fn := adapt("f", 1, 2, nil)
	assert.NoError(t, CheckArity(fn, []value.Value{value.Long(1)}, nil))
	assert.Error(t, CheckArity(fn, nil, nil))
	assert.Error(t, CheckArity(fn, []value.Value{value.Long(1), value.Long(2), value.Long(3)}, nil))
}

func TestStandardRegistryLenAndStringBuiltins(t *testing.T) {
	r := NewStandardRegistry(0)
	r.Seal()

	lenFn, ok := r.Get("len")
	assert.True(t, ok)
	v, err := lenFn.Call([]value.Value{value.String("hello")}, nil, nil)
	assert.NoError(t, err)
	assert.Equal(t, int64(5), v.AsLong())

	upperFn, _ := r.Get("upper")
	v, err = upperFn.Call([]value.Value{value.String("ok")}, nil, nil)
	assert.NoError(t, err)
	assert.Equal(t, "OK", v.AsString())
}

func TestSetFieldMutatesMessageUnderEvaluation(t *testing.T) {
	r := NewStandardRegistry(0)
	r.Seal()
	fn, _ := r.Get("set_field")

	msg := message.New("test", nil)
	ctx := evalctx.New(msg)
	_, err := fn.Call([]value.Value{value.String("status"), value.String("ok")}, nil, ctx)
	assert.NoError(t, err)
	assert.Equal(t, "ok", msg.Field("status"))
}

func TestDropMessageSetsFilterOut(t *testing.T) {
	r := NewStandardRegistry(0)
	r.Seal()
	fn, _ := r.Get("drop_message")

	msg := message.New("test", nil)
	ctx := evalctx.New(msg)
	_, err := fn.Call(nil, nil, ctx)
	assert.NoError(t, err)
	assert.True(t, msg.FilterOut)
}

func TestCreateMessageBuffersOnContext(t *testing.T) {
	r := NewStandardRegistry(0)
	r.Seal()
	fn, _ := r.Get("create_message")

	msg := message.New("test", nil)
	ctx := evalctx.New(msg)
	fields := value.Map(map[string]value.Value{"a": value.Long(1)})
	_, err := fn.Call([]value.Value{value.String("alert"), fields}, nil, ctx)
	assert.NoError(t, err)
	assert.Len(t, ctx.CreatedMessages(), 1)
	assert.Equal(t, "alert", ctx.CreatedMessages()[0].Type)
}

func TestUnknownFunctionLookupMisses(t *testing.T) {
	r := NewStandardRegistry(0)
	_, ok := r.Get("does_not_exist")
	assert.False(t, ok)
}
