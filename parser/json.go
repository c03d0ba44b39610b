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

package parser

import (
	"encoding/json"
	"fmt"

	"github.com/msgflow/pipeline/api/types"
	"github.com/msgflow/pipeline/ast"
	"github.com/msgflow/pipeline/evalctx"
	"github.com/msgflow/pipeline/funcs"
	"github.com/msgflow/pipeline/model"
	"github.com/msgflow/pipeline/utils/cast"
	"github.com/msgflow/pipeline/value"
)

// JSONParser is a reference RuleFunc/PipelineFunc source backed by a small
// JSON expression tree. Any host is free to swap in a different surface
// syntax; reload only depends on the RuleFunc/PipelineFunc signatures, not
// on this type.
type JSONParser struct {
	registry *funcs.Registry
}

// NewJSONParser returns a JSONParser resolving function calls against registry.
func NewJSONParser(registry *funcs.Registry) *JSONParser {
	return &JSONParser{registry: registry}
}

// ruleDoc is the top-level shape of a rule source document.
type ruleDoc struct {
	Name string          `json:"name"`
	When json.RawMessage `json:"when"`
	Then []json.RawMessage `json:"then"`
}

// pipelineDoc is the top-level shape of a pipeline source document.
type pipelineDoc struct {
	Name   string `json:"name"`
	Stages []struct {
		Number   int      `json:"number"`
		MatchAll bool     `json:"matchAll"`
		Rules    []string `json:"rules"`
	} `json:"stages"`
}

// ParseRule implements RuleFunc.
func (p *JSONParser) ParseRule(id, source string) (*model.Rule, error) {
	var doc ruleDoc
	if err := json.Unmarshal([]byte(source), &doc); err != nil {
		return nil, wrapSyntaxError(id, source, err)
	}
	when, err := p.parseExpr(doc.When)
	if err != nil {
		return nil, &types.ParseError{SourceID: id, Err: fmt.Errorf("when: %w", err)}
	}
	then := make([]ast.Statement, 0, len(doc.Then))
	for i, raw := range doc.Then {
		stmt, err := p.parseStmt(raw)
		if err != nil {
			return nil, &types.ParseError{SourceID: id, Err: fmt.Errorf("then[%d]: %w", i, err)}
		}
		then = append(then, stmt)
	}
	name := doc.Name
	if name == "" {
		name = id
	}
	return &model.Rule{ID: id, Name: name, When: when, Then: then}, nil
}

// ParsePipeline implements PipelineFunc. Rules is left nil on every Stage;
// the reload controller links RuleRefs by name after all rule sources have
// parsed.
func (p *JSONParser) ParsePipeline(id, source string) (*model.Pipeline, error) {
	var doc pipelineDoc
	if err := json.Unmarshal([]byte(source), &doc); err != nil {
		return nil, wrapSyntaxError(id, source, err)
	}
	name := doc.Name
	if name == "" {
		name = id
	}
	stages := make([]model.Stage, 0, len(doc.Stages))
	for _, s := range doc.Stages {
		stages = append(stages, model.Stage{Number: s.Number, MatchAll: s.MatchAll, RuleRefs: s.Rules})
	}
	return &model.Pipeline{ID: id, Name: name, Stages: stages}, nil
}

// exprNode is the generic decode target for one node of the expression
// tree; Kind selects which of the remaining fields are meaningful. Decoded
// with encoding/json directly, not maps.Map2Struct: a node's fields are
// json.RawMessage sub-trees, not the flat struct shape Map2Struct expects.
type exprNode struct {
	Kind   string                     `json:"kind"`
	Type   string                     `json:"type"`
	Value  interface{}                `json:"value"`
	Name   string                     `json:"name"`
	Target json.RawMessage            `json:"target"`
	Key    json.RawMessage            `json:"key"`
	Left   json.RawMessage            `json:"left"`
	Right  json.RawMessage            `json:"right"`
	Operand json.RawMessage           `json:"operand"`
	Op     string                     `json:"op"`
	Args   []json.RawMessage          `json:"args"`
	Named  map[string]json.RawMessage `json:"named"`
}

func (p *JSONParser) parseExpr(raw json.RawMessage) (ast.Expression, error) {
	if len(raw) == 0 {
		return ast.NewConstant(value.Bool(false)), nil
	}
	var n exprNode
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, err
	}
	switch n.Kind {
	case "const":
		return ast.NewConstant(literalValue(n.Type, n.Value)), nil
	case "field":
		target, err := p.targetOrMessage(n.Target)
		if err != nil {
			return nil, err
		}
		return ast.NewFieldAccess(target, n.Name), nil
	case "var":
		return ast.NewVarRef(n.Name), nil
	case "index":
		target, err := p.targetOrMessage(n.Target)
		if err != nil {
			return nil, err
		}
		key, err := p.parseExpr(n.Key)
		if err != nil {
			return nil, err
		}
		return ast.NewIndexed(target, key), nil
	case "call":
		call, err := p.parseCall(n)
		if err != nil {
			return nil, err
		}
		return call, nil
	case "binary":
		left, right, err := p.binaryOperands(n)
		if err != nil {
			return nil, err
		}
		return ast.NewBinary(ast.BinaryOp(n.Op), left, right), nil
	case "unary":
		operand, err := p.parseExpr(n.Operand)
		if err != nil {
			return nil, err
		}
		return ast.NewUnary(operand), nil
	case "cmp":
		left, right, err := p.binaryOperands(n)
		if err != nil {
			return nil, err
		}
		return ast.NewComparison(ast.CompareOp(n.Op), left, right), nil
	case "and", "or":
		left, right, err := p.binaryOperands(n)
		if err != nil {
			return nil, err
		}
		op := ast.And
		if n.Kind == "or" {
			op = ast.Or
		}
		return ast.NewLogical(op, left, right), nil
	case "not":
		operand, err := p.parseExpr(n.Operand)
		if err != nil {
			return nil, err
		}
		return ast.NewLogical(ast.Not, operand), nil
	default:
		return nil, fmt.Errorf("unknown expression kind %q", n.Kind)
	}
}

// targetOrMessage treats a field/index node with no explicit target as
// reading off the message under evaluation — the common case for rule
// bodies that mostly inspect msg.field rather than a nested structure.
func (p *JSONParser) targetOrMessage(raw json.RawMessage) (ast.Expression, error) {
	if len(raw) == 0 {
		return messageExpr{}, nil
	}
	return p.parseExpr(raw)
}

func (p *JSONParser) binaryOperands(n exprNode) (ast.Expression, ast.Expression, error) {
	left, err := p.parseExpr(n.Left)
	if err != nil {
		return nil, nil, err
	}
	right, err := p.parseExpr(n.Right)
	if err != nil {
		return nil, nil, err
	}
	return left, right, nil
}

func (p *JSONParser) parseCall(n exprNode) (*ast.FunctionCall, error) {
	pos := make([]ast.Expression, 0, len(n.Args))
	for _, raw := range n.Args {
		e, err := p.parseExpr(raw)
		if err != nil {
			return nil, err
		}
		pos = append(pos, e)
	}
	var named map[string]ast.Expression
	if len(n.Named) > 0 {
		named = make(map[string]ast.Expression, len(n.Named))
		for k, raw := range n.Named {
			e, err := p.parseExpr(raw)
			if err != nil {
				return nil, err
			}
			named[k] = e
		}
	}
	return ast.NewFunctionCall(p.registry, n.Name, pos, named), nil
}

func (p *JSONParser) parseStmt(raw json.RawMessage) (ast.Statement, error) {
	var n exprNode
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, err
	}
	switch n.Kind {
	case "let":
		expr, err := p.parseExpr(rawOf(n.Value))
		if err != nil {
			return nil, err
		}
		return ast.NewLet(n.Name, expr), nil
	case "call":
		call, err := p.parseCall(n)
		if err != nil {
			return nil, err
		}
		return ast.NewFunctionCallStatement(call), nil
	case "expr":
		expr, err := p.parseExpr(rawOf(n.Value))
		if err != nil {
			return nil, err
		}
		return ast.NewExprStatement(expr), nil
	default:
		return nil, fmt.Errorf("unknown statement kind %q", n.Kind)
	}
}

// rawOf re-marshals an already-decoded interface{} back into a
// json.RawMessage so a "let"/"expr" statement's nested expression (decoded
// once as interface{} through exprNode.Value) can be re-parsed recursively
// through parseExpr without a second hand-written decode path.
func rawOf(v interface{}) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return b
}

func literalValue(typ string, raw interface{}) value.Value {
	switch typ {
	case "long":
		return value.Long(int64(cast.ToFloat64(raw)))
	case "double":
		return value.Double(cast.ToFloat64(raw))
	case "bool":
		return value.Bool(cast.ToBool(raw))
	case "string":
		return value.String(cast.ToString(raw))
	default:
		return value.FromGo(raw)
	}
}

// messageExpr resolves to the message under evaluation itself, the implicit
// target of a bare field/index node ({"kind":"field","name":"foo"} reads
// msg.foo).
type messageExpr struct{}

func (messageExpr) Evaluate(ctx *evalctx.Context) (value.Value, error) {
	return value.MessageHandle(ctx.Message()), nil
}

// wrapSyntaxError turns a json.SyntaxError's byte offset into a 1-based
// line/column pair so ParseError carries the same locator a hand-written
// scanner would.
func wrapSyntaxError(id, source string, err error) error {
	se, ok := err.(*json.SyntaxError)
	if !ok {
		return &types.ParseError{SourceID: id, Err: err}
	}
	line, col := offsetToLineCol(source, int(se.Offset))
	return &types.ParseError{SourceID: id, Line: line, Col: col, Err: err}
}

func offsetToLineCol(source string, offset int) (line, col int) {
	if offset > len(source) {
		offset = len(source)
	}
	line = 1
	lastNL := -1
	for i := 0; i < offset; i++ {
		if source[i] == '\n' {
			line++
			lastNL = i
		}
	}
	return line, offset - lastNL
}
