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

package testutils

import (
	"context"

	"github.com/zessin/relational-to-graph/internal/schema"
)

// RowSource - in-memory schema.RowSource for tests. Tables are returned in declaration order
type RowSource struct {
	tables      []schema.TableRow
	columns     map[string][]schema.ColumnRow
	constraints map[string][]schema.ConstraintRow
}

func NewRowSource() *RowSource {
	return &RowSource{
		columns:     make(map[string][]schema.ColumnRow),
		constraints: make(map[string][]schema.ConstraintRow),
	}
}

func (rs *RowSource) Table(name string, columns ...string) *RowSource {
	rs.tables = append(rs.tables, schema.TableRow{Name: name})
	for _, c := range columns {
		rs.columns[name] = append(rs.columns[name], schema.ColumnRow{Name: c})
	}
	return rs
}

func (rs *RowSource) PrimaryKey(table, name string, columns ...string) *RowSource {
	for _, c := range columns {
		rs.constraints[table] = append(rs.constraints[table], schema.ConstraintRow{
			Name:       name,
			Type:       schema.PrimaryKeyToken,
			ColumnName: c,
		})
	}
	return rs
}

func (rs *RowSource) ForeignKey(table, name, column, refTable, refColumn string) *RowSource {
	rs.constraints[table] = append(rs.constraints[table], schema.ConstraintRow{
		Name:                 name,
		Type:                 schema.ForeignKeyToken,
		ColumnName:           column,
		ReferencedTableName:  &refTable,
		ReferencedColumnName: &refColumn,
	})
	return rs
}

func (rs *RowSource) Unique(table, name, column string) *RowSource {
	rs.constraints[table] = append(rs.constraints[table], schema.ConstraintRow{
		Name:       name,
		Type:       schema.UniqueKeyToken,
		ColumnName: column,
	})
	return rs
}

func (rs *RowSource) Tables(ctx context.Context, schemaName string) ([]schema.TableRow, error) {
	return rs.tables, nil
}

func (rs *RowSource) Columns(ctx context.Context, schemaName, table string) ([]schema.ColumnRow, error) {
	return rs.columns[table], nil
}

func (rs *RowSource) Constraints(ctx context.Context, schemaName, table string) ([]schema.ConstraintRow, error) {
	return rs.constraints[table], nil
}

// OrderTagRowSource - USER(id), ORDER(id, user_id -> USER.id), TAG(id) and the ORDER_TAG junction table. The
// foreign key on tag_id is declared first, so the derived edge goes from ORDER to TAG
func OrderTagRowSource() *RowSource {
	return NewRowSource().
		Table("USER", "id").
		Table("ORDER", "id", "user_id").
		Table("TAG", "id").
		Table("ORDER_TAG", "order_id", "tag_id").
		PrimaryKey("USER", "user_pk", "id").
		PrimaryKey("ORDER", "order_pk", "id").
		ForeignKey("ORDER", "order_user_fk", "user_id", "USER", "id").
		PrimaryKey("TAG", "tag_pk", "id").
		PrimaryKey("ORDER_TAG", "order_tag_pk", "order_id", "tag_id").
		ForeignKey("ORDER_TAG", "order_tag_tag_fk", "tag_id", "TAG", "id").
		ForeignKey("ORDER_TAG", "order_tag_order_fk", "order_id", "ORDER", "id")
}
