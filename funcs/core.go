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
	"fmt"
	"strings"
	"time"

	"github.com/msgflow/pipeline/evalctx"
	"github.com/msgflow/pipeline/message"
	"github.com/msgflow/pipeline/value"
)

// registerCore adds the pure, side-effect-free builtins: string and
// collection helpers, type conversions, and a clock function.
func registerCore(r *Registry) {
	r.MustRegister(adapt("len", 1, 1, fnLen))
	r.MustRegister(adapt("upper", 1, 1, fnUpper))
	r.MustRegister(adapt("lower", 1, 1, fnLower))
	r.MustRegister(adapt("trim", 1, 1, fnTrim))
	r.MustRegister(adapt("concat", 0, Unbounded, fnConcat))
	r.MustRegister(adapt("contains", 2, 2, fnContains))
	r.MustRegister(adapt("to_string", 1, 1, fnToString))
	r.MustRegister(adapt("to_long", 1, 1, fnToLong))
	r.MustRegister(adapt("to_double", 1, 1, fnToDouble))
	r.MustRegister(adapt("is_null", 1, 1, fnIsNull))
	r.MustRegister(adapt("now", 0, 0, fnNow))
}

func fnLen(pos []value.Value, _ map[string]value.Value, _ *evalctx.Context) (value.Value, error) {
	switch pos[0].Kind() {
	case value.KindString:
		return value.Long(int64(len(pos[0].AsString()))), nil
	case value.KindList:
		return value.Long(int64(len(pos[0].AsList()))), nil
	case value.KindMap:
		return value.Long(int64(len(pos[0].AsMap()))), nil
	case value.KindNull:
		return value.Long(0), nil
	default:
		return value.Null, fmt.Errorf("%w: len() requires a string, list or map, got %s", ErrTypeMismatch, pos[0].Kind())
	}
}

func fnUpper(pos []value.Value, _ map[string]value.Value, _ *evalctx.Context) (value.Value, error) {
	s, err := requireString("upper", pos[0])
	if err != nil {
		return value.Null, err
	}
	return value.String(strings.ToUpper(s)), nil
}

func fnLower(pos []value.Value, _ map[string]value.Value, _ *evalctx.Context) (value.Value, error) {
	s, err := requireString("lower", pos[0])
	if err != nil {
		return value.Null, err
	}
	return value.String(strings.ToLower(s)), nil
}

func fnTrim(pos []value.Value, _ map[string]value.Value, _ *evalctx.Context) (value.Value, error) {
	s, err := requireString("trim", pos[0])
	if err != nil {
		return value.Null, err
	}
	return value.String(strings.TrimSpace(s)), nil
}

func fnConcat(pos []value.Value, _ map[string]value.Value, _ *evalctx.Context) (value.Value, error) {
	var b strings.Builder
	for _, p := range pos {
		b.WriteString(p.String())
	}
	return value.String(b.String()), nil
}

func fnContains(pos []value.Value, _ map[string]value.Value, _ *evalctx.Context) (value.Value, error) {
	haystack, needle := pos[0], pos[1]
	switch haystack.Kind() {
	case value.KindString:
		return value.Bool(strings.Contains(haystack.AsString(), needle.String())), nil
	case value.KindList:
		for _, item := range haystack.AsList() {
			if value.Equal(item, needle) {
				return value.Bool(true), nil
			}
		}
		return value.Bool(false), nil
	case value.KindMap:
		_, ok := haystack.AsMap()[needle.String()]
		return value.Bool(ok), nil
	default:
		return value.Bool(false), nil
	}
}

func fnToString(pos []value.Value, _ map[string]value.Value, _ *evalctx.Context) (value.Value, error) {
	return value.String(pos[0].String()), nil
}

func fnToLong(pos []value.Value, _ map[string]value.Value, _ *evalctx.Context) (value.Value, error) {
	v := pos[0]
	switch v.Kind() {
	case value.KindLong:
		return v, nil
	case value.KindDouble:
		return value.Long(int64(v.AsDouble())), nil
	case value.KindBool:
		if v.AsBool() {
			return value.Long(1), nil
		}
		return value.Long(0), nil
	case value.KindString:
		var n int64
		if _, err := fmt.Sscanf(strings.TrimSpace(v.AsString()), "%d", &n); err != nil {
			return value.Null, fmt.Errorf("%w: to_long() cannot parse %q", ErrTypeMismatch, v.AsString())
		}
		return value.Long(n), nil
	default:
		return value.Null, fmt.Errorf("%w: to_long() cannot convert %s", ErrTypeMismatch, v.Kind())
	}
}

func fnToDouble(pos []value.Value, _ map[string]value.Value, _ *evalctx.Context) (value.Value, error) {
	v := pos[0]
	switch v.Kind() {
	case value.KindLong, value.KindDouble:
		return value.Double(v.Float64()), nil
	case value.KindString:
		var f float64
		if _, err := fmt.Sscanf(strings.TrimSpace(v.AsString()), "%g", &f); err != nil {
			return value.Null, fmt.Errorf("%w: to_double() cannot parse %q", ErrTypeMismatch, v.AsString())
		}
		return value.Double(f), nil
	default:
		return value.Null, fmt.Errorf("%w: to_double() cannot convert %s", ErrTypeMismatch, v.Kind())
	}
}

func fnIsNull(pos []value.Value, _ map[string]value.Value, _ *evalctx.Context) (value.Value, error) {
	return value.Bool(pos[0].IsNull()), nil
}

func fnNow(_ []value.Value, _ map[string]value.Value, _ *evalctx.Context) (value.Value, error) {
	return value.Long(time.Now().UnixMilli()), nil
}

func requireString(fnName string, v value.Value) (string, error) {
	if v.Kind() != value.KindString {
		return "", fmt.Errorf("%w: %s() requires a string, got %s", ErrTypeMismatch, fnName, v.Kind())
	}
	return v.AsString(), nil
}

// registerActions adds the mutating builtins that drive a rule's effect
// on the message under evaluation: field writes, stream routing, message
// suppression and message fan-out (spec.md §4.2, §4.3).
func registerActions(r *Registry) {
	r.MustRegister(adapt("set_field", 2, 2, fnSetField))
	r.MustRegister(adapt("drop_message", 0, 0, fnDropMessage))
	r.MustRegister(adapt("route_to_stream", 1, 1, fnRouteToStream))
	r.MustRegister(adapt("remove_stream", 1, 1, fnRemoveStream))
	r.MustRegister(adapt("create_message", 2, 2, fnCreateMessage))
}

func fnSetField(pos []value.Value, _ map[string]value.Value, ctx *evalctx.Context) (value.Value, error) {
	name, err := requireString("set_field", pos[0])
	if err != nil {
		return value.Null, err
	}
	ctx.Message().SetField(name, value.ToGo(pos[1]))
	return value.Null, nil
}

func fnDropMessage(_ []value.Value, _ map[string]value.Value, ctx *evalctx.Context) (value.Value, error) {
	ctx.Message().FilterOut = true
	return value.Null, nil
}

func fnRouteToStream(pos []value.Value, _ map[string]value.Value, ctx *evalctx.Context) (value.Value, error) {
	streamID, err := requireString("route_to_stream", pos[0])
	if err != nil {
		return value.Null, err
	}
	ctx.Message().AddStream(streamID)
	return value.Null, nil
}

func fnRemoveStream(pos []value.Value, _ map[string]value.Value, ctx *evalctx.Context) (value.Value, error) {
	streamID, err := requireString("remove_stream", pos[0])
	if err != nil {
		return value.Null, err
	}
	ctx.Message().RemoveStream(streamID)
	return value.Null, nil
}

func fnCreateMessage(pos []value.Value, _ map[string]value.Value, ctx *evalctx.Context) (value.Value, error) {
	msgType, err := requireString("create_message", pos[0])
	if err != nil {
		return value.Null, err
	}
	if pos[1].Kind() != value.KindMap {
		return value.Null, fmt.Errorf("%w: create_message() second argument must be a map, got %s", ErrTypeMismatch, pos[1].Kind())
	}
	fields, ok := value.ToGo(pos[1]).(map[string]interface{})
	if !ok {
		fields = map[string]interface{}{}
	}
	m := message.New(msgType, fields)
	ctx.CreateMessage(m)
	return value.MessageHandle(m), nil
}
