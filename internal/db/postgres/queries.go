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

package postgres

import (
	"fmt"

	"github.com/jackc/pgx/v5"
)

var (
	// information_schema constraint types are spelled with a space and mapped onto the loader tokens
	tablesQuery = `
		SELECT t.table_name
		FROM information_schema.tables t
		WHERE t.table_schema = $1
		  AND t.table_type = 'BASE TABLE'
		ORDER BY t.table_name
	`

	columnsQuery = `
		SELECT c.column_name
		FROM information_schema.columns c
		WHERE c.table_schema = $1
		  AND c.table_name = $2
		ORDER BY c.ordinal_position
	`

	constraintsQuery = `
		SELECT tc.constraint_name,
		       replace(tc.constraint_type, ' ', '_') AS constraint_type,
		       kcu.column_name,
		       ref.table_name                        AS referenced_table_name,
		       ref.column_name                       AS referenced_column_name
		FROM information_schema.table_constraints tc
		         JOIN information_schema.key_column_usage kcu
		              ON kcu.constraint_schema = tc.constraint_schema
		                  AND kcu.constraint_name = tc.constraint_name
		                  AND kcu.table_name = tc.table_name
		         LEFT JOIN information_schema.referential_constraints rc
		                   ON tc.constraint_type = 'FOREIGN KEY'
		                       AND rc.constraint_schema = tc.constraint_schema
		                       AND rc.constraint_name = tc.constraint_name
		         LEFT JOIN information_schema.key_column_usage ref
		                   ON ref.constraint_schema = rc.unique_constraint_schema
		                       AND ref.constraint_name = rc.unique_constraint_name
		                       AND ref.ordinal_position = kcu.position_in_unique_constraint
		WHERE tc.table_schema = $1
		  AND tc.table_name = $2
		  AND tc.constraint_type IN ('PRIMARY KEY', 'FOREIGN KEY', 'UNIQUE')
		ORDER BY constraint_type, tc.constraint_name, kcu.ordinal_position
	`

	relationshipTablesQuery = `
		SELECT pk.table_name
		FROM information_schema.table_constraints tc
		         JOIN information_schema.key_column_usage pk
		              ON pk.constraint_schema = tc.constraint_schema
		                  AND pk.constraint_name = tc.constraint_name
		                  AND pk.table_name = tc.table_name
		WHERE tc.constraint_type = 'PRIMARY KEY'
		  AND tc.table_schema = $1
		  AND EXISTS (SELECT 1
		              FROM information_schema.table_constraints fc
		                       JOIN information_schema.key_column_usage fk
		                            ON fk.constraint_schema = fc.constraint_schema
		                                AND fk.constraint_name = fc.constraint_name
		                                AND fk.table_name = fc.table_name
		              WHERE fc.constraint_type = 'FOREIGN KEY'
		                AND fc.table_schema = tc.table_schema
		                AND fc.table_name = tc.table_name
		                AND fk.column_name = pk.column_name)
		GROUP BY pk.table_name
		HAVING count(*) = 2
		ORDER BY pk.table_name
	`
)

var (
	viewTablesQueryTemplate = `
		SELECT table_name
		FROM %s
		WHERE upper(table_schema) = upper($1)
		ORDER BY table_name
	`

	viewColumnsQueryTemplate = `
		SELECT column_name
		FROM %s
		WHERE upper(table_schema) = upper($1)
		  AND upper(table_name) = upper($2)
		ORDER BY table_name
	`

	viewConstraintsQueryTemplate = `
		SELECT constraint_name,
		       constraint_type,
		       column_name,
		       referenced_table_name,
		       referenced_column_name
		FROM %s
		WHERE upper(table_schema) = upper($1)
		  AND upper(table_name) = upper($2)
		ORDER BY table_name, constraint_type, constraint_name
	`

	viewRelationshipTablesQueryTemplate = `
		SELECT c1.table_name
		FROM %[1]s c1
		WHERE c1.constraint_type = 'PRIMARY_KEY'
		  AND upper(c1.table_schema) = upper($1)
		  AND EXISTS (SELECT 1
		              FROM %[1]s c2
		              WHERE c2.constraint_type = 'FOREIGN_KEY'
		                AND c2.table_schema = c1.table_schema
		                AND c2.table_name = c1.table_name
		                AND c2.column_name = c1.column_name)
		GROUP BY c1.table_name
		HAVING count(*) = 2
		ORDER BY c1.table_name
	`
)

type queries struct {
	tables             string
	columns            string
	constraints        string
	relationshipTables string
}

func newInformationSchemaQueries() *queries {
	return &queries{
		tables:             tablesQuery,
		columns:            columnsQuery,
		constraints:        constraintsQuery,
		relationshipTables: relationshipTablesQuery,
	}
}

// newViewQueries - builds the queries over user provided catalog views living in the inspected schema
func newViewQueries(schema, tablesView, columnsView, constraintsView string) *queries {
	constraints := pgx.Identifier{schema, constraintsView}.Sanitize()
	return &queries{
		tables:             fmt.Sprintf(viewTablesQueryTemplate, pgx.Identifier{schema, tablesView}.Sanitize()),
		columns:            fmt.Sprintf(viewColumnsQueryTemplate, pgx.Identifier{schema, columnsView}.Sanitize()),
		constraints:        fmt.Sprintf(viewConstraintsQueryTemplate, constraints),
		relationshipTables: fmt.Sprintf(viewRelationshipTablesQueryTemplate, constraints),
	}
}
