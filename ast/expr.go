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

// Package ast implements the rule language's abstract syntax tree: a
// polymorphic Expression (predicate/value side) and Statement (action
// side) node set that evaluate against an *evalctx.Context. Nodes are
// immutable once constructed; the rule-language parser (an external
// collaborator, see spec.md §6) is the only producer of AST trees — this
// package only dispatches and evaluates them.
package ast

import (
	"fmt"

	"github.com/msgflow/pipeline/evalctx"
	"github.com/msgflow/pipeline/funcs"
	"github.com/msgflow/pipeline/value"
)

// Expression is implemented by every node on the predicate/value side of
// the AST. Evaluate is deterministic given ctx; it never mutates ctx
// except through an explicitly mutating FunctionCall.
type Expression interface {
	Evaluate(ctx *evalctx.Context) (value.Value, error)
}

// Constant is a literal Long, Double, Bool or String baked in at parse time.
type Constant struct {
	Val value.Value
}

// NewConstant returns a Constant wrapping v.
func NewConstant(v value.Value) *Constant { return &Constant{Val: v} }

func (c *Constant) Evaluate(_ *evalctx.Context) (value.Value, error) {
	return c.Val, nil
}

// VarRef resolves a rule-local binding created by a preceding Let statement.
// An absent binding yields Null rather than an error (spec.md §4.1).
type VarRef struct {
	Name string
}

func NewVarRef(name string) *VarRef { return &VarRef{Name: name} }

func (v *VarRef) Evaluate(ctx *evalctx.Context) (value.Value, error) {
	bound, ok := ctx.GetVar(v.Name)
	if !ok {
		return value.Null, nil
	}
	if val, ok := bound.(value.Value); ok {
		return val, nil
	}
	return value.FromGo(bound), nil
}

// FieldAccess reads a named field off the value produced by Target: a map
// key, a message field, or Null-on-Null (spec.md §4.1).
type FieldAccess struct {
	Target Expression
	Field  string
}

func NewFieldAccess(target Expression, field string) *FieldAccess {
	return &FieldAccess{Target: target, Field: field}
}

func (f *FieldAccess) Evaluate(ctx *evalctx.Context) (value.Value, error) {
	tv, err := f.Target.Evaluate(ctx)
	if err != nil {
		return value.Null, err
	}
	return accessField(tv, f.Field)
}

func accessField(tv value.Value, field string) (value.Value, error) {
	switch tv.Kind() {
	case value.KindNull:
		return value.Null, nil
	case value.KindMap:
		if v, ok := tv.AsMap()[field]; ok {
			return v, nil
		}
		return value.Null, nil
	case value.KindMessage:
		m := tv.AsMessage()
		if m == nil {
			return value.Null, nil
		}
		return value.FromGo(m.Field(field)), nil
	default:
		return value.Null, fmt.Errorf("cannot access field %q on a %s value", field, tv.Kind())
	}
}

// Indexed reads Target[Key]. A numeric Key on a List selects by position
// (Null when out of range); otherwise Key is coerced to string and resolved
// with the same rules as FieldAccess (spec.md §4.1).
type Indexed struct {
	Target Expression
	Key    Expression
}

func NewIndexed(target, key Expression) *Indexed { return &Indexed{Target: target, Key: key} }

func (ix *Indexed) Evaluate(ctx *evalctx.Context) (value.Value, error) {
	tv, err := ix.Target.Evaluate(ctx)
	if err != nil {
		return value.Null, err
	}
	kv, err := ix.Key.Evaluate(ctx)
	if err != nil {
		return value.Null, err
	}
	if tv.Kind() == value.KindList && kv.IsNumeric() {
		idx := int(kv.Float64())
		list := tv.AsList()
		if idx < 0 || idx >= len(list) {
			return value.Null, nil
		}
		return list[idx], nil
	}
	return accessField(tv, kv.String())
}

// FunctionCall resolves Name in the bound Function Registry, binds
// positional then named arguments, and invokes the function (spec.md §4.1).
type FunctionCall struct {
	Registry   *funcs.Registry
	Name       string
	Positional []Expression
	Named      map[string]Expression
}

// NewFunctionCall returns a FunctionCall resolved against registry.
func NewFunctionCall(registry *funcs.Registry, name string, positional []Expression, named map[string]Expression) *FunctionCall {
	return &FunctionCall{Registry: registry, Name: name, Positional: positional, Named: named}
}

func (fc *FunctionCall) Evaluate(ctx *evalctx.Context) (value.Value, error) {
	fn, ok := fc.Registry.Get(fc.Name)
	if !ok {
		return value.Null, fmt.Errorf("%w: %s", funcs.ErrUnknownFunction, fc.Name)
	}
	pos := make([]value.Value, len(fc.Positional))
	for i, expr := range fc.Positional {
		v, err := expr.Evaluate(ctx)
		if err != nil {
			return value.Null, err
		}
		pos[i] = v
	}
	var named map[string]value.Value
	if len(fc.Named) > 0 {
		named = make(map[string]value.Value, len(fc.Named))
		for k, expr := range fc.Named {
			v, err := expr.Evaluate(ctx)
			if err != nil {
				return value.Null, err
			}
			named[k] = v
		}
	}
	if err := funcs.CheckArity(fn, pos, named); err != nil {
		return value.Null, fmt.Errorf("%s: %w", fc.Name, err)
	}
	v, err := fn.Call(pos, named, ctx)
	if err != nil {
		return value.Null, fmt.Errorf("%s: %w", fc.Name, err)
	}
	return v, nil
}

// BinaryOp names an arithmetic binary operator.
type BinaryOp string

const (
	Add BinaryOp = "+"
	Sub BinaryOp = "-"
	Mul BinaryOp = "*"
	Div BinaryOp = "/"
	Mod BinaryOp = "%"
)

// Binary implements the arithmetic binary operators of spec.md §4.1.
type Binary struct {
	Op    BinaryOp
	Left  Expression
	Right Expression
}

func NewBinary(op BinaryOp, left, right Expression) *Binary {
	return &Binary{Op: op, Left: left, Right: right}
}

func (b *Binary) Evaluate(ctx *evalctx.Context) (value.Value, error) {
	lv, err := b.Left.Evaluate(ctx)
	if err != nil {
		return value.Null, err
	}
	rv, err := b.Right.Evaluate(ctx)
	if err != nil {
		return value.Null, err
	}
	return value.Arith(string(b.Op), lv, rv)
}

// Unary implements numeric negation ("-x").
type Unary struct {
	Operand Expression
}

func NewUnary(operand Expression) *Unary { return &Unary{Operand: operand} }

func (u *Unary) Evaluate(ctx *evalctx.Context) (value.Value, error) {
	v, err := u.Operand.Evaluate(ctx)
	if err != nil {
		return value.Null, err
	}
	if !v.IsNumeric() {
		return value.Null, fmt.Errorf("unary - requires a numeric operand, got %s", v.Kind())
	}
	if v.Kind() == value.KindLong {
		return value.Long(-v.AsLong()), nil
	}
	return value.Double(-v.AsDouble()), nil
}

// CompareOp names a comparison operator.
type CompareOp string

const (
	Lt CompareOp = "<"
	Le CompareOp = "<="
	Gt CompareOp = ">"
	Ge CompareOp = ">="
	Eq CompareOp = "=="
	Ne CompareOp = "!="
)

// Comparison implements the comparison operators of spec.md §4.1.
type Comparison struct {
	Op    CompareOp
	Left  Expression
	Right Expression
}

func NewComparison(op CompareOp, left, right Expression) *Comparison {
	return &Comparison{Op: op, Left: left, Right: right}
}

func (c *Comparison) Evaluate(ctx *evalctx.Context) (value.Value, error) {
	lv, err := c.Left.Evaluate(ctx)
	if err != nil {
		return value.Null, err
	}
	rv, err := c.Right.Evaluate(ctx)
	if err != nil {
		return value.Null, err
	}
	return value.Compare(string(c.Op), lv, rv)
}

// LogicalOp names a logical operator.
type LogicalOp int

const (
	And LogicalOp = iota
	Or
	Not
)

// Logical implements short-circuiting And/Or and unary Not over truthiness
// (spec.md §4.1). And/Or take exactly two Operands; Not takes exactly one.
type Logical struct {
	Op       LogicalOp
	Operands []Expression
}

func NewLogical(op LogicalOp, operands ...Expression) *Logical {
	return &Logical{Op: op, Operands: operands}
}

func (l *Logical) Evaluate(ctx *evalctx.Context) (value.Value, error) {
	switch l.Op {
	case Not:
		v, err := l.Operands[0].Evaluate(ctx)
		if err != nil {
			return value.Null, err
		}
		return value.Bool(!v.Truthy()), nil
	case And:
		lv, err := l.Operands[0].Evaluate(ctx)
		if err != nil {
			return value.Null, err
		}
		if !lv.Truthy() {
			return value.Bool(false), nil
		}
		rv, err := l.Operands[1].Evaluate(ctx)
		if err != nil {
			return value.Null, err
		}
		return value.Bool(rv.Truthy()), nil
	case Or:
		lv, err := l.Operands[0].Evaluate(ctx)
		if err != nil {
			return value.Null, err
		}
		if lv.Truthy() {
			return value.Bool(true), nil
		}
		rv, err := l.Operands[1].Evaluate(ctx)
		if err != nil {
			return value.Null, err
		}
		return value.Bool(rv.Truthy()), nil
	default:
		return value.Null, fmt.Errorf("unknown logical operator %d", l.Op)
	}
}
