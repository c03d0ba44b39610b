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

import "github.com/msgflow/pipeline/evalctx"

// Statement is implemented by every node on the action side of a rule
// body: the ordered list of steps a rule runs once its predicate matches.
type Statement interface {
	Execute(ctx *evalctx.Context) error
}

// Let binds the result of evaluating Expr to Name for the remainder of
// the enclosing rule's evaluation against ctx.
type Let struct {
	Name string
	Expr Expression
}

func NewLet(name string, expr Expression) *Let { return &Let{Name: name, Expr: expr} }

func (l *Let) Execute(ctx *evalctx.Context) error {
	v, err := l.Expr.Evaluate(ctx)
	if err != nil {
		return err
	}
	ctx.SetVar(l.Name, v)
	return nil
}

// ExprStatement evaluates Expr for its side effects and discards the
// result; used for expressions whose evaluation can mutate ctx indirectly
// (e.g. through a nested FunctionCall) without the rule needing the value.
type ExprStatement struct {
	Expr Expression
}

func NewExprStatement(expr Expression) *ExprStatement { return &ExprStatement{Expr: expr} }

func (e *ExprStatement) Execute(ctx *evalctx.Context) error {
	_, err := e.Expr.Evaluate(ctx)
	return err
}

// FunctionCallStatement executes a FunctionCall purely for effect — the
// common case for action builtins like set_field or drop_message, where a
// rule body calls the function as a standalone statement rather than as a
// sub-expression of a Let or comparison.
type FunctionCallStatement struct {
	Call *FunctionCall
}

func NewFunctionCallStatement(call *FunctionCall) *FunctionCallStatement {
	return &FunctionCallStatement{Call: call}
}

func (f *FunctionCallStatement) Execute(ctx *evalctx.Context) error {
	_, err := f.Call.Evaluate(ctx)
	return err
}
