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

// Package value implements the tagged value union that every AST node
// evaluates to: Long, Double, Bool, String, Map, List, a Message handle,
// or Null. Values are immutable once constructed.
package value

import (
	"fmt"
	"strconv"

	"github.com/msgflow/pipeline/message"
)

// Kind tags the concrete representation held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindLong
	KindDouble
	KindBool
	KindString
	KindMap
	KindList
	KindMessage
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindLong:
		return "long"
	case KindDouble:
		return "double"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindMap:
		return "map"
	case KindList:
		return "list"
	case KindMessage:
		return "message"
	default:
		return "unknown"
	}
}

// Value is the tagged union evaluated by every Expression node.
type Value struct {
	kind Kind
	i    int64
	f    float64
	b    bool
	s    string
	m    map[string]Value
	l    []Value
	msg  *message.Message
}

// Null is the absence of a value. VarRef/FieldAccess/Indexed yield it
// instead of failing when a lookup has nothing to resolve.
var Null = Value{kind: KindNull}

// Long wraps an integral value.
func Long(v int64) Value { return Value{kind: KindLong, i: v} }

// Double wraps a floating value.
func Double(v float64) Value { return Value{kind: KindDouble, f: v} }

// Bool wraps a boolean value.
func Bool(v bool) Value { return Value{kind: KindBool, b: v} }

// String wraps a string value.
func String(v string) Value { return Value{kind: KindString, s: v} }

// Map wraps a string-keyed map of values.
func Map(v map[string]Value) Value {
	if v == nil {
		v = map[string]Value{}
	}
	return Value{kind: KindMap, m: v}
}

// List wraps an ordered list of values.
func List(v []Value) Value { return Value{kind: KindList, l: v} }

// MessageHandle wraps a reference to a message, e.g. the one under evaluation
// or one created by createMessage during a statement.
func MessageHandle(m *message.Message) Value { return Value{kind: KindMessage, msg: m} }

// Kind reports the tag of v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is the Null value.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsLong returns the integral payload; only meaningful when Kind() == KindLong.
func (v Value) AsLong() int64 { return v.i }

// AsDouble returns the floating payload; only meaningful when Kind() == KindDouble.
func (v Value) AsDouble() float64 { return v.f }

// AsBool returns the boolean payload; only meaningful when Kind() == KindBool.
func (v Value) AsBool() bool { return v.b }

// AsString returns the string payload; only meaningful when Kind() == KindString.
func (v Value) AsString() string { return v.s }

// AsMap returns the map payload; only meaningful when Kind() == KindMap.
func (v Value) AsMap() map[string]Value { return v.m }

// AsList returns the list payload; only meaningful when Kind() == KindList.
func (v Value) AsList() []Value { return v.l }

// AsMessage returns the message payload; only meaningful when Kind() == KindMessage.
func (v Value) AsMessage() *message.Message { return v.msg }

// IsNumeric reports whether v is a Long or a Double.
func (v Value) IsNumeric() bool { return v.kind == KindLong || v.kind == KindDouble }

// Truthy implements the truthiness rule of spec.md §4.1: Null and
// Boolean(false) are false, everything else is true.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindNull:
		return false
	case KindBool:
		return v.b
	default:
		return true
	}
}

// Float64 returns v's numeric value widened to float64. For a non-numeric v
// it returns 0; callers must check IsNumeric first.
func (v Value) Float64() float64 {
	if v.kind == KindLong {
		return float64(v.i)
	}
	return v.f
}

// String canonicalizes v to its string form, used by the string-concatenation
// coercion rule of spec.md §4.1 ("+" with a non-string operand).
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindLong:
		return strconv.FormatInt(v.i, 10)
	case KindDouble:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindString:
		return v.s
	case KindMessage:
		if v.msg != nil {
			return fmt.Sprintf("message(%s)", v.msg.Id)
		}
		return "message(nil)"
	case KindList:
		return fmt.Sprintf("%v", v.l)
	case KindMap:
		return fmt.Sprintf("%v", v.m)
	default:
		return ""
	}
}

// Equal implements the "==" rule of spec.md §4.1: numeric vs numeric compares
// by value with promotion, numeric vs non-numeric is always false, otherwise
// tagged values compare equal only when their kind and payload match.
func Equal(a, b Value) bool {
	if a.IsNumeric() && b.IsNumeric() {
		return a.Float64() == b.Float64()
	}
	if a.IsNumeric() != b.IsNumeric() {
		// one numeric, one not: numeric vs non-numeric equality is always false,
		// *unless* both are simply non-numeric and happen to be compared below.
		if a.IsNumeric() || b.IsNumeric() {
			return false
		}
	}
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindString:
		return a.s == b.s
	case KindMessage:
		return a.msg == b.msg
	case KindList:
		if len(a.l) != len(b.l) {
			return false
		}
		for i := range a.l {
			if !Equal(a.l[i], b.l[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(a.m) != len(b.m) {
			return false
		}
		for k, av := range a.m {
			bv, ok := b.m[k]
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// FromGo lifts a plain Go value (as produced by JSON decoding or a builtin
// function's native return) into the tagged union. Unrecognized types map to Null.
func FromGo(v interface{}) Value {
	switch t := v.(type) {
	case nil:
		return Null
	case Value:
		return t
	case bool:
		return Bool(t)
	case string:
		return String(t)
	case int:
		return Long(int64(t))
	case int32:
		return Long(int64(t))
	case int64:
		return Long(t)
	case float32:
		return Double(float64(t))
	case float64:
		return Double(t)
	case *message.Message:
		return MessageHandle(t)
	case map[string]interface{}:
		m := make(map[string]Value, len(t))
		for k, val := range t {
			m[k] = FromGo(val)
		}
		return Map(m)
	case map[string]Value:
		return Map(t)
	case []interface{}:
		l := make([]Value, len(t))
		for i, val := range t {
			l[i] = FromGo(val)
		}
		return List(l)
	case []Value:
		return List(t)
	default:
		return Null
	}
}

// ToGo lowers v back to a plain Go value, the inverse of FromGo, used when
// handing a Value to a native builtin function or to message.Message.Fields.
func ToGo(v Value) interface{} {
	switch v.kind {
	case KindNull:
		return nil
	case KindLong:
		return v.i
	case KindDouble:
		return v.f
	case KindBool:
		return v.b
	case KindString:
		return v.s
	case KindMessage:
		return v.msg
	case KindList:
		out := make([]interface{}, len(v.l))
		for i, item := range v.l {
			out[i] = ToGo(item)
		}
		return out
	case KindMap:
		out := make(map[string]interface{}, len(v.m))
		for k, item := range v.m {
			out[k] = ToGo(item)
		}
		return out
	default:
		return nil
	}
}
