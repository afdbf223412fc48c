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
	"fmt"
	"slices"

	"github.com/rs/zerolog/log"
)

// Loader - loads the catalog metadata in the strict order: tables, columns, constraints and then the
// relationship tables classification
type Loader struct {
	source     RowSource
	schemaName string
}

func NewLoader(source RowSource, schemaName string) *Loader {
	return &Loader{
		source:     source,
		schemaName: schemaName,
	}
}

func (l *Loader) Load(ctx context.Context) (*Schema, error) {
	s := NewSchema(l.schemaName)

	if err := l.loadTables(ctx, s); err != nil {
		return nil, fmt.Errorf("tables stage: %w", err)
	}
	if err := l.loadColumns(ctx, s); err != nil {
		return nil, fmt.Errorf("columns stage: %w", err)
	}
	if err := l.loadConstraints(ctx, s); err != nil {
		return nil, fmt.Errorf("constraints stage: %w", err)
	}
	if err := Classify(s); err != nil {
		return nil, fmt.Errorf("classification stage: %w", err)
	}
	if err := l.verifyRelationshipTables(ctx, s); err != nil {
		return nil, fmt.Errorf("classification stage: %w", err)
	}

	log.Info().
		Str("Schema", l.schemaName).
		Int("Tables", len(s.tables)).
		Int("Columns", len(s.columns)).
		Int("Constraints", len(s.constraints)).
		Int("RelationshipTables", len(s.RelationshipTables())).
		Msg("metadata loaded")
	return s, nil
}

func (l *Loader) loadTables(ctx context.Context, s *Schema) error {
	log.Info().Str("Schema", l.schemaName).Msg("loading tables metadata")
	rows, err := l.source.Tables(ctx, l.schemaName)
	if err != nil {
		return fmt.Errorf("cannot query tables of schema %s: %w", l.schemaName, err)
	}
	for _, row := range rows {
		if _, err = s.AddTable(row.Name); err != nil {
			return err
		}
	}
	return nil
}

func (l *Loader) loadColumns(ctx context.Context, s *Schema) error {
	for _, t := range s.tables {
		log.Debug().Str("Table", t.Name).Msg("loading columns metadata")
		rows, err := l.source.Columns(ctx, l.schemaName, t.Name)
		if err != nil {
			return fmt.Errorf("cannot query columns of table %s: %w", t.Name, err)
		}
		for _, row := range rows {
			if _, err = s.AddColumn(t.Name, row.Name); err != nil {
				return err
			}
		}
	}
	return nil
}

func (l *Loader) loadConstraints(ctx context.Context, s *Schema) error {
	for _, t := range s.tables {
		log.Debug().Str("Table", t.Name).Msg("loading constraints metadata")
		rows, err := l.source.Constraints(ctx, l.schemaName, t.Name)
		if err != nil {
			return fmt.Errorf("cannot query constraints of table %s: %w", t.Name, err)
		}
		for _, row := range rows {
			c, err := newConstraintFromRow(t.Name, row)
			if err != nil {
				return err
			}
			if err = s.AddConstraint(c); err != nil {
				return err
			}
		}
	}
	return nil
}

func newConstraintFromRow(tableName string, row ConstraintRow) (Constraint, error) {
	ct, err := ParseConstraintType(row.Type)
	if err != nil {
		return Constraint{}, fmt.Errorf("constraint %s on %s: %w", row.Name, tableName, err)
	}
	c := Constraint{
		Name:   row.Name,
		Table:  tableName,
		Column: row.ColumnName,
		Type:   ct,
	}
	if !ct.IsForeignKey() {
		return c, nil
	}
	if row.ReferencedTableName == nil || row.ReferencedColumnName == nil {
		return Constraint{}, fmt.Errorf(
			"foreign key %s on %s has no referenced table or column: %w", row.Name, tableName, ErrMalformedMetadata,
		)
	}
	c.ReferencedTable = *row.ReferencedTableName
	c.ReferencedColumn = *row.ReferencedColumnName
	return c, nil
}

// verifyRelationshipTables - cross-checks the classification against the database side detection when the
// source supports it
func (l *Loader) verifyRelationshipTables(ctx context.Context, s *Schema) error {
	rts, ok := l.source.(RelationshipTableSource)
	if !ok {
		return nil
	}
	names, err := rts.RelationshipTables(ctx, l.schemaName)
	if err != nil {
		return fmt.Errorf("cannot query relationship tables of schema %s: %w", l.schemaName, err)
	}
	for _, name := range names {
		t, err := s.Table(name)
		if err != nil {
			return fmt.Errorf("relationship %w", err)
		}
		if !t.IsRelationshipTable {
			return fmt.Errorf(
				"table %s is reported as relationship table but was not classified so: %w",
				name, ErrMalformedMetadata,
			)
		}
	}
	for _, t := range s.RelationshipTables() {
		if !slices.Contains(names, t.Name) {
			return fmt.Errorf(
				"table %s was classified as relationship table but is not reported so: %w",
				t.Name, ErrMalformedMetadata,
			)
		}
	}
	return nil
}
