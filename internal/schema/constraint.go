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

import "fmt"

// ConstraintKey - the business key of a constraint
type ConstraintKey struct {
	Table string
	Name  string
	Type  ConstraintType
}

// Constraint - the constraint bound to a single column. The references are kept by name and resolved through
// the Schema indexes
type Constraint struct {
	Name             string         `json:"name" yaml:"name"`
	Table            string         `json:"table" yaml:"table"`
	Column           string         `json:"column" yaml:"column"`
	ReferencedTable  string         `json:"referenced_table,omitempty" yaml:"referenced_table,omitempty"`
	ReferencedColumn string         `json:"referenced_column,omitempty" yaml:"referenced_column,omitempty"`
	Type             ConstraintType `json:"type" yaml:"type"`
	// RedirectedTable - the table the constraint is read as belonging to after the relationship table
	// classification. Empty for any constraint that was not rewritten
	RedirectedTable string `json:"redirected_table,omitempty" yaml:"redirected_table,omitempty"`
}

func (c Constraint) Key() ConstraintKey {
	return ConstraintKey{
		Table: c.Table,
		Name:  c.Name,
		Type:  c.Type,
	}
}

func (c Constraint) Equal(other Constraint) bool {
	return c.Key() == other.Key()
}

func (c Constraint) ColumnKey() ColumnKey {
	return ColumnKey{Table: c.Table, Name: c.Column}
}

func (c Constraint) ReferencedColumnKey() ColumnKey {
	return ColumnKey{Table: c.ReferencedTable, Name: c.ReferencedColumn}
}

// EffectiveTable - returns the table the constraint belongs to for the graph building. It is the redirected table
// if the constraint was rewritten and the owning table otherwise
func (c Constraint) EffectiveTable() string {
	if c.RedirectedTable != "" {
		return c.RedirectedTable
	}
	return c.Table
}

func (c Constraint) IsRedirected() bool {
	return c.RedirectedTable != ""
}

// RedirectTo - returns the derived copy of the constraint bound to the provided table. The receiver is not changed
func (c Constraint) RedirectTo(table string) Constraint {
	c.RedirectedTable = table
	return c
}

// Validate - checks that the referenced table and column are set if and only if the constraint is a foreign key
func (c Constraint) Validate() error {
	hasReference := c.ReferencedTable != "" || c.ReferencedColumn != ""
	if c.Type.IsForeignKey() {
		if c.ReferencedTable == "" || c.ReferencedColumn == "" {
			return fmt.Errorf(
				"foreign key %s on %s has no referenced table or column: %w", c.Name, c.Table, ErrMalformedMetadata,
			)
		}
		return nil
	}
	if hasReference {
		return fmt.Errorf(
			"%s constraint %s on %s cannot reference %s.%s: %w",
			c.Type, c.Name, c.Table, c.ReferencedTable, c.ReferencedColumn, ErrMalformedMetadata,
		)
	}
	return nil
}

func (c Constraint) String() string {
	if c.Type.IsForeignKey() {
		return fmt.Sprintf(
			"%s %s (%s.%s -> %s.%s)",
			c.Type, c.Name, c.EffectiveTable(), c.Column, c.ReferencedTable, c.ReferencedColumn,
		)
	}
	return fmt.Sprintf("%s %s (%s.%s)", c.Type, c.Name, c.Table, c.Column)
}
