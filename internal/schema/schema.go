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
)

// Schema - the loaded catalog metadata of a single database schema. Every collection keeps the load order and
// every cross reference is resolved through the name keyed indexes
type Schema struct {
	Name        string
	tables      []*Table
	columns     []*Column
	constraints []Constraint

	tablesIdx      map[string]int
	columnsIdx     map[ColumnKey]int
	constraintsIdx map[ConstraintKey]int
}

func NewSchema(name string) *Schema {
	return &Schema{
		Name:           name,
		tablesIdx:      make(map[string]int),
		columnsIdx:     make(map[ColumnKey]int),
		constraintsIdx: make(map[ConstraintKey]int),
	}
}

func (s *Schema) AddTable(name string) (*Table, error) {
	if _, ok := s.tablesIdx[name]; ok {
		return nil, fmt.Errorf("duplicate table %s: %w", name, ErrMalformedMetadata)
	}
	t := NewTable(name)
	s.tablesIdx[name] = len(s.tables)
	s.tables = append(s.tables, t)
	return t, nil
}

func (s *Schema) AddColumn(tableName, name string) (*Column, error) {
	t, err := s.Table(tableName)
	if err != nil {
		return nil, err
	}
	c := NewColumn(t, name)
	if _, ok := s.columnsIdx[c.Key()]; ok {
		return nil, fmt.Errorf("duplicate column %s: %w", c, ErrMalformedMetadata)
	}
	s.columnsIdx[c.Key()] = len(s.columns)
	s.columns = append(s.columns, c)
	return c, nil
}

// AddConstraint - validates the constraint bindings and appends it. Owning and referenced tables and columns
// must be already loaded
func (s *Schema) AddConstraint(c Constraint) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if _, err := s.Column(c.Table, c.Column); err != nil {
		return fmt.Errorf("constraint %s: %w", c.Name, err)
	}
	if c.Type.IsForeignKey() {
		if _, err := s.Table(c.ReferencedTable); err != nil {
			return fmt.Errorf("constraint %s: referenced %w", c.Name, err)
		}
		if _, err := s.Column(c.ReferencedTable, c.ReferencedColumn); err != nil {
			return fmt.Errorf("constraint %s: referenced %w", c.Name, err)
		}
	}
	// A composite key is reported as one row per column under the same name, so the duplicate check has to
	// include the column as well
	if slices.ContainsFunc(s.constraints, func(existing Constraint) bool {
		return existing.Key() == c.Key() && existing.Column == c.Column
	}) {
		return fmt.Errorf("duplicate constraint %s on %s.%s: %w", c.Name, c.Table, c.Column, ErrMalformedMetadata)
	}
	if _, ok := s.constraintsIdx[c.Key()]; !ok {
		s.constraintsIdx[c.Key()] = len(s.constraints)
	}
	s.constraints = append(s.constraints, c)
	return nil
}

func (s *Schema) Table(name string) (*Table, error) {
	idx, ok := s.tablesIdx[name]
	if !ok {
		return nil, fmt.Errorf("table %s: %w", name, ErrNotFound)
	}
	return s.tables[idx], nil
}

func (s *Schema) Column(tableName, name string) (*Column, error) {
	key := ColumnKey{Table: tableName, Name: name}
	idx, ok := s.columnsIdx[key]
	if !ok {
		return nil, fmt.Errorf("column %s: %w", key, ErrNotFound)
	}
	return s.columns[idx], nil
}

// Constraint - returns the first constraint loaded under the provided key
func (s *Schema) Constraint(key ConstraintKey) (Constraint, error) {
	idx, ok := s.constraintsIdx[key]
	if !ok {
		return Constraint{}, fmt.Errorf("constraint %s on %s: %w", key.Name, key.Table, ErrNotFound)
	}
	return s.constraints[idx], nil
}

func (s *Schema) Tables() []*Table {
	return slices.Clone(s.tables)
}

func (s *Schema) Columns() []*Column {
	return slices.Clone(s.columns)
}

func (s *Schema) Constraints() []Constraint {
	return slices.Clone(s.constraints)
}

// TableConstraints - returns the constraints owned by the table. The ownership is the original one, the redirect
// made by the classification is not taken into account
func (s *Schema) TableConstraints(tableName string) []Constraint {
	var res []Constraint
	for _, c := range s.constraints {
		if c.Table == tableName {
			res = append(res, c)
		}
	}
	return res
}

func (s *Schema) RelationshipTables() []*Table {
	var res []*Table
	for _, t := range s.tables {
		if t.IsRelationshipTable {
			res = append(res, t)
		}
	}
	return res
}

// HasConstraint - checks that the column carries at least one constraint of the provided type
func (s *Schema) HasConstraint(column ColumnKey, ct ConstraintType) bool {
	return slices.ContainsFunc(s.constraints, func(c Constraint) bool {
		return c.Type == ct && c.ColumnKey() == column
	})
}

// replaceConstraint - stores the derived constraint at the position of the constraint with the same key and column
func (s *Schema) replaceConstraint(derived Constraint) error {
	idx := slices.IndexFunc(s.constraints, func(c Constraint) bool {
		return c.Key() == derived.Key() && c.Column == derived.Column
	})
	if idx == -1 {
		return fmt.Errorf("constraint %s on %s: %w", derived.Name, derived.Table, ErrNotFound)
	}
	s.constraints[idx] = derived
	return nil
}
