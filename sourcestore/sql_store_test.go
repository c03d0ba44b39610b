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
	"testing"

	"github.com/msgflow/pipeline/test/assert"
)

// table is the first argument of the rule-language lookup_value(table, key)
// builtin, so it is rule-author input. LookupValue must reject anything
// that isn't a bare identifier before it ever reaches s.db — these cases
// never touch the database, so a SQLStore with a nil db is enough to prove
// the rejection happens before the query is built.
func TestLookupValueRejectsNonIdentifierTableNames(t *testing.T) {
	s := &SQLStore{driverName: "postgres"}

	cases := []string{
		"x WHERE 1=1 UNION SELECT password FROM users --",
		"users; DROP TABLE users;",
		"users--",
		"",
		"1tbl",
		"tbl name",
		"tbl'name",
	}
	for _, table := range cases {
		_, _, err := s.LookupValue(table, "k")
		assert.Error(t, err)
	}
}

func TestValidTableNameAcceptsBareIdentifiers(t *testing.T) {
	for _, name := range []string{"geoip", "tiers", "_private", "table_123"} {
		assert.True(t, validTableName.MatchString(name))
	}
}
