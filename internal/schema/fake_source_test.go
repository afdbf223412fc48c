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
	"context"
	"errors"
)

var errQueryFailed = errors.New("query failed")

type fakeSource struct {
	tables            []TableRow
	columns           map[string][]ColumnRow
	constraints       map[string][]ConstraintRow
	failOn            string
	calls             []string
	relationshipNames []string
	withRelationships bool
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		columns:     make(map[string][]ColumnRow),
		constraints: make(map[string][]ConstraintRow),
	}
}

func (f *fakeSource) table(name string, columns ...string) *fakeSource {
	f.tables = append(f.tables, TableRow{Name: name})
	for _, c := range columns {
		f.columns[name] = append(f.columns[name], ColumnRow{Name: c})
	}
	return f
}

func (f *fakeSource) pk(table, name string, columns ...string) *fakeSource {
	for _, c := range columns {
		f.constraints[table] = append(f.constraints[table], ConstraintRow{
			Name: name, Type: PrimaryKeyToken, ColumnName: c,
		})
	}
	return f
}

func (f *fakeSource) fk(table, name, column, refTable, refColumn string) *fakeSource {
	f.constraints[table] = append(f.constraints[table], ConstraintRow{
		Name:                 name,
		Type:                 ForeignKeyToken,
		ColumnName:           column,
		ReferencedTableName:  &refTable,
		ReferencedColumnName: &refColumn,
	})
	return f
}

func (f *fakeSource) Tables(ctx context.Context, schema string) ([]TableRow, error) {
	f.calls = append(f.calls, "tables")
	if f.failOn == "tables" {
		return nil, errQueryFailed
	}
	return f.tables, nil
}

func (f *fakeSource) Columns(ctx context.Context, schema, table string) ([]ColumnRow, error) {
	f.calls = append(f.calls, "columns:"+table)
	if f.failOn == "columns" {
		return nil, errQueryFailed
	}
	return f.columns[table], nil
}

func (f *fakeSource) Constraints(ctx context.Context, schema, table string) ([]ConstraintRow, error) {
	f.calls = append(f.calls, "constraints:"+table)
	if f.failOn == "constraints" {
		return nil, errQueryFailed
	}
	return f.constraints[table], nil
}

type fakeRelationshipSource struct {
	*fakeSource
}

func (f fakeRelationshipSource) RelationshipTables(ctx context.Context, schema string) ([]string, error) {
	return f.relationshipNames, nil
}

// orderTagSource - USER(id), ORDER(id, user_id -> USER.id), TAG(id) and the ORDER_TAG junction table
func orderTagSource() *fakeSource {
	return newFakeSource().
		table("USER", "id").
		table("ORDER", "id", "user_id").
		table("TAG", "id").
		table("ORDER_TAG", "order_id", "tag_id").
		pk("USER", "user_pk", "id").
		pk("ORDER", "order_pk", "id").
		fk("ORDER", "order_user_fk", "user_id", "USER", "id").
		pk("TAG", "tag_pk", "id").
		pk("ORDER_TAG", "order_tag_pk", "order_id", "tag_id").
		fk("ORDER_TAG", "order_tag_order_fk", "order_id", "ORDER", "id").
		fk("ORDER_TAG", "order_tag_tag_fk", "tag_id", "TAG", "id")
}
