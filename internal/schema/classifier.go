// Copyright 2023 Greenmask
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package schema

import (
	"fmt"
	"slices"

	"github.com/rs/zerolog/log"
)

const relationshipTableKeyColumns = 2

// Classify - finds the tables that exist only to implement a many-to-many association and marks them. A table
// qualifies when exactly two of its columns are members of both the primary key and a foreign key. For each such
// table the first bridge foreign key is redirected to the table referenced by the second one, so it reads as a
// direct reference between the two associated tables.
//
// The bridges are searched by the original constraint binding, so running Classify again on the same Schema
// produces the same result
func Classify(s *Schema) error {
	for _, t := range s.tables {
		keyColumns := relationshipKeyColumns(s, t.Name)
		if len(keyColumns) != relationshipTableKeyColumns {
			continue
		}
		bridges := bridgeForeignKeys(s, t.Name)
		if len(bridges) < relationshipTableKeyColumns {
			return fmt.Errorf(
				"relationship table %s has %d bridge foreign keys, expected %d: %w",
				t.Name, len(bridges), relationshipTableKeyColumns, ErrMalformedMetadata,
			)
		}
		t.IsRelationshipTable = true

		derived := bridges[0].RedirectTo(bridges[1].ReferencedTable)
		if err := s.replaceConstraint(derived); err != nil {
			return err
		}
		log.Debug().
			Str("Table", t.Name).
			Str("Constraint", derived.Name).
			Str("From", derived.EffectiveTable()).
			Str("To", derived.ReferencedTable).
			Msg("relationship table detected")
	}
	return nil
}

// relationshipKeyColumns - returns the distinct columns of the table that are both primary key and foreign key
// members in load order
func relationshipKeyColumns(s *Schema, tableName string) []ColumnKey {
	var res []ColumnKey
	for _, c := range s.TableConstraints(tableName) {
		if c.Type != PrimaryKey || slices.Contains(res, c.ColumnKey()) {
			continue
		}
		if s.HasConstraint(c.ColumnKey(), ForeignKey) {
			res = append(res, c.ColumnKey())
		}
	}
	return res
}

// bridgeForeignKeys - returns the foreign keys of the table whose column is a primary key column of the same table
func bridgeForeignKeys(s *Schema, tableName string) []Constraint {
	var res []Constraint
	for _, c := range s.TableConstraints(tableName) {
		if c.Type.IsForeignKey() && s.HasConstraint(c.ColumnKey(), PrimaryKey) {
			res = append(res, c)
		}
	}
	return res
}
