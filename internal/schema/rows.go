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

import "context"

type TableRow struct {
	Name string
}

type ColumnRow struct {
	Name string
}

// ConstraintRow - one row per constraint column. Referenced table and column are NULL for anything except
// foreign keys
type ConstraintRow struct {
	Name                 string
	Type                 string
	ColumnName           string
	ReferencedTableName  *string
	ReferencedColumnName *string
}

// RowSource - supplies the catalog rows. Each method returns rows in the order they have to be loaded
type RowSource interface {
	Tables(ctx context.Context, schema string) ([]TableRow, error)
	Columns(ctx context.Context, schema, table string) ([]ColumnRow, error)
	Constraints(ctx context.Context, schema, table string) ([]ConstraintRow, error)
}

// RelationshipTableSource - optionally implemented by a RowSource that can detect relationship tables on the
// database side. The result must match the in-process classification
type RelationshipTableSource interface {
	RelationshipTables(ctx context.Context, schema string) ([]string, error)
}
