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

package sourcestore

import (
	"database/sql"
	"fmt"
	"regexp"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"

	"github.com/msgflow/pipeline/utils/str"
)

// validTableName matches the identifiers LookupValue will accept for the
// table argument of the rule-language lookup_value(table, key) builtin.
// table comes straight from rule-author-authored AST, not host-trusted
// code, and database/sql has no placeholder syntax for identifiers, so it
// is checked against this allowlist pattern before being interpolated.
var validTableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLStore is a RuleSourceService + PipelineSourceService +
// PipelineStreamAssignmentService + funcs.LookupService backed by a plain
// SQL schema (rules(id, source), pipelines(id, source),
// stream_assignments(stream_id, pipeline_id)), selectable by driver name
// the way the teacher's db client node opens its pool.
type SQLStore struct {
	db         *sql.DB
	driverName string
}

// NewSQLStore opens and pings a connection pool for driverName ("mysql" or
// "postgres") against dsn, sized to poolSize open/idle connections.
func NewSQLStore(driverName, dsn string, poolSize int) (*SQLStore, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("sourcestore: open %s: %w", driverName, err)
	}
	if poolSize > 0 {
		db.SetMaxOpenConns(poolSize)
		db.SetMaxIdleConns(poolSize / 2)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sourcestore: ping %s: %w", driverName, err)
	}
	return &SQLStore{db: db, driverName: driverName}, nil
}

// Close releases the underlying connection pool.
func (s *SQLStore) Close() error { return s.db.Close() }

func (s *SQLStore) rewrite(query string) string {
	return str.ConvertDollarPlaceholder(query, s.driverName)
}

// LoadAll implements RuleSourceService.
func (s *SQLStore) LoadAll() ([]RuleSource, error) {
	rows, err := s.db.Query(s.rewrite("SELECT id, source FROM rules"))
	if err != nil {
		return nil, fmt.Errorf("sourcestore: load rules: %w", err)
	}
	defer rows.Close()

	var out []RuleSource
	for rows.Next() {
		var r RuleSource
		if err := rows.Scan(&r.ID, &r.Source); err != nil {
			return nil, fmt.Errorf("sourcestore: scan rule: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// LoadAllPipelines implements PipelineSourceService.
func (s *SQLStore) LoadAllPipelines() ([]PipelineSource, error) {
	rows, err := s.db.Query(s.rewrite("SELECT id, source FROM pipelines"))
	if err != nil {
		return nil, fmt.Errorf("sourcestore: load pipelines: %w", err)
	}
	defer rows.Close()

	var out []PipelineSource
	for rows.Next() {
		var p PipelineSource
		if err := rows.Scan(&p.ID, &p.Source); err != nil {
			return nil, fmt.Errorf("sourcestore: scan pipeline: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// LoadAllAssignments implements PipelineStreamAssignmentService, grouping
// the flat (stream_id, pipeline_id) rows by stream.
func (s *SQLStore) LoadAllAssignments() ([]StreamAssignment, error) {
	rows, err := s.db.Query(s.rewrite("SELECT stream_id, pipeline_id FROM stream_assignments ORDER BY stream_id"))
	if err != nil {
		return nil, fmt.Errorf("sourcestore: load assignments: %w", err)
	}
	defer rows.Close()

	byStream := make(map[string][]string)
	var order []string
	for rows.Next() {
		var streamID, pipelineID string
		if err := rows.Scan(&streamID, &pipelineID); err != nil {
			return nil, fmt.Errorf("sourcestore: scan assignment: %w", err)
		}
		if _, ok := byStream[streamID]; !ok {
			order = append(order, streamID)
		}
		byStream[streamID] = append(byStream[streamID], pipelineID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	out := make([]StreamAssignment, 0, len(order))
	for _, streamID := range order {
		out = append(out, StreamAssignment{StreamID: streamID, PipelineIDs: byStream[streamID]})
	}
	return out, nil
}

// LookupValue implements funcs.LookupService against an arbitrary
// single-row-per-key lookup table: SELECT value FROM <table> WHERE key = ?.
// table is rule-author input (the first argument of the lookup_value(table,
// key) builtin) and database/sql cannot bind an identifier as a query
// parameter, so table is checked against validTableName before it is
// interpolated; anything that doesn't look like a bare identifier is
// rejected rather than reaching the database.
func (s *SQLStore) LookupValue(table, key string) (interface{}, bool, error) {
	if !validTableName.MatchString(table) {
		return nil, false, fmt.Errorf("sourcestore: lookup: invalid table name %q", table)
	}
	query := s.rewrite(fmt.Sprintf("SELECT value FROM %s WHERE key = ?", table))
	var value sql.NullString
	err := s.db.QueryRow(query, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("sourcestore: lookup %s[%s]: %w", table, key, err)
	}
	if !value.Valid {
		return nil, true, nil
	}
	return value.String, true, nil
}

// sqlRuleSourceServiceAdapter and its siblings exist because SQLStore
// implements all three LoadAll shapes under distinct method names
// (LoadAll/LoadAllPipelines/LoadAllAssignments) to live on one type
// without a name collision; RuleSourceService etc. want a single LoadAll
// each. AsRuleSourceService and friends hand back the narrow view.
type sqlRuleSourceServiceAdapter struct{ s *SQLStore }

func (a sqlRuleSourceServiceAdapter) LoadAll() ([]RuleSource, error) { return a.s.LoadAll() }

// AsRuleSourceService returns s viewed as a RuleSourceService.
func (s *SQLStore) AsRuleSourceService() RuleSourceService { return sqlRuleSourceServiceAdapter{s} }

type sqlPipelineSourceServiceAdapter struct{ s *SQLStore }

func (a sqlPipelineSourceServiceAdapter) LoadAll() ([]PipelineSource, error) {
	return a.s.LoadAllPipelines()
}

// AsPipelineSourceService returns s viewed as a PipelineSourceService.
func (s *SQLStore) AsPipelineSourceService() PipelineSourceService {
	return sqlPipelineSourceServiceAdapter{s}
}

type sqlAssignmentServiceAdapter struct{ s *SQLStore }

func (a sqlAssignmentServiceAdapter) LoadAll() ([]StreamAssignment, error) {
	return a.s.LoadAllAssignments()
}

// AsAssignmentService returns s viewed as a PipelineStreamAssignmentService.
func (s *SQLStore) AsAssignmentService() PipelineStreamAssignmentService {
	return sqlAssignmentServiceAdapter{s}
}

var _ = RuleSourceService(sqlRuleSourceServiceAdapter{&SQLStore{}})
var _ = PipelineSourceService(sqlPipelineSourceServiceAdapter{&SQLStore{}})
var _ = PipelineStreamAssignmentService(sqlAssignmentServiceAdapter{&SQLStore{}})
