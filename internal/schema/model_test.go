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
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseConstraintType(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected ConstraintType
	}{
		{name: "primary key token", input: "PRIMARY_KEY", expected: PrimaryKey},
		{name: "foreign key token", input: "FOREIGN_KEY", expected: ForeignKey},
		{name: "unique key token", input: "UNIQUE_KEY", expected: UniqueKey},
		{name: "information schema primary key", input: "PRIMARY KEY", expected: PrimaryKey},
		{name: "information schema foreign key", input: "FOREIGN KEY", expected: ForeignKey},
		{name: "information schema unique", input: "UNIQUE", expected: UniqueKey},
		{name: "lower case", input: "foreign_key", expected: ForeignKey},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ct, err := ParseConstraintType(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ct)
		})
	}

	_, err := ParseConstraintType("CHECK")
	require.ErrorIs(t, err, ErrMalformedMetadata)
}

func TestConstraintType_Names(t *testing.T) {
	assert.Equal(t, "PRIMARY KEY", PrimaryKey.String())
	assert.Equal(t, "FOREIGN KEY", ForeignKey.String())
	assert.Equal(t, "UNIQUE", UniqueKey.String())
	assert.True(t, ForeignKey.IsForeignKey())
	assert.False(t, PrimaryKey.IsForeignKey())
	assert.False(t, UniqueKey.IsForeignKey())
}

func TestConstraintType_TextEncoding(t *testing.T) {
	c := Constraint{Name: "a_pk", Table: "a", Column: "id", Type: PrimaryKey}

	data, err := json.Marshal(c)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"type":"PRIMARY_KEY"`)

	var decoded Constraint
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, c, decoded)

	yamlData, err := yaml.Marshal(c)
	require.NoError(t, err)
	assert.Contains(t, string(yamlData), "type: PRIMARY_KEY")
}

func TestConstraint_Validate(t *testing.T) {
	fk := Constraint{Name: "fk", Table: "a", Column: "b_id", Type: ForeignKey}
	require.ErrorIs(t, fk.Validate(), ErrMalformedMetadata)

	fk.ReferencedTable = "b"
	fk.ReferencedColumn = "id"
	require.NoError(t, fk.Validate())

	pk := Constraint{Name: "pk", Table: "a", Column: "id", Type: PrimaryKey, ReferencedTable: "b"}
	require.ErrorIs(t, pk.Validate(), ErrMalformedMetadata)
}

func TestConstraint_RedirectTo(t *testing.T) {
	original := Constraint{
		Name: "fk", Table: "ab", Column: "a_id", ReferencedTable: "a", ReferencedColumn: "id", Type: ForeignKey,
	}
	derived := original.RedirectTo("b")

	assert.Equal(t, "ab", original.EffectiveTable())
	assert.False(t, original.IsRedirected())
	assert.Equal(t, "b", derived.EffectiveTable())
	assert.Equal(t, "ab", derived.Table)
	assert.True(t, derived.Equal(original))
}

func TestEquality(t *testing.T) {
	assert.True(t, NewTable("a").Equal(&Table{Name: "a", IsRelationshipTable: true}))
	assert.False(t, NewTable("a").Equal(NewTable("b")))

	a := NewTable("a")
	assert.True(t, NewColumn(a, "id").Equal(&Column{Table: "a", Name: "id"}))
	assert.False(t, NewColumn(a, "id").Equal(&Column{Table: "b", Name: "id"}))

	pk := Constraint{Name: "c", Table: "a", Type: PrimaryKey}
	unique := Constraint{Name: "c", Table: "a", Type: UniqueKey}
	assert.False(t, pk.Equal(unique))
}

func TestSchema_IndexesByBusinessKey(t *testing.T) {
	s := NewSchema("public")
	_, err := s.AddTable("a")
	require.NoError(t, err)
	_, err = s.AddColumn("a", "id")
	require.NoError(t, err)

	// Two distinct key values with the same fields must address the same entry
	k1 := ColumnKey{Table: "a", Name: "id"}
	k2 := (&Column{Table: "a", Name: "id"}).Key()
	assert.Equal(t, s.columnsIdx[k1], s.columnsIdx[k2])
	assert.Len(t, s.columnsIdx, 1)

	_, err = s.AddColumn("a", "id")
	require.ErrorIs(t, err, ErrMalformedMetadata)
	_, err = s.AddTable("a")
	require.ErrorIs(t, err, ErrMalformedMetadata)

	_, err = s.AddColumn("missing", "id")
	require.ErrorIs(t, err, ErrNotFound)
	_, err = s.Column("a", "missing")
	require.ErrorIs(t, err, ErrNotFound)
	_, err = s.Table("missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSchema_AddConstraint(t *testing.T) {
	s := NewSchema("public")
	for _, name := range []string{"a", "b"} {
		_, err := s.AddTable(name)
		require.NoError(t, err)
		_, err = s.AddColumn(name, "id")
		require.NoError(t, err)
	}
	_, err := s.AddColumn("a", "b_id")
	require.NoError(t, err)

	err = s.AddConstraint(Constraint{
		Name: "fk", Table: "a", Column: "b_id", ReferencedTable: "b", ReferencedColumn: "missing", Type: ForeignKey,
	})
	require.ErrorIs(t, err, ErrNotFound)

	err = s.AddConstraint(Constraint{
		Name: "fk", Table: "a", Column: "b_id", ReferencedTable: "c", ReferencedColumn: "id", Type: ForeignKey,
	})
	require.ErrorIs(t, err, ErrNotFound)

	pk := Constraint{Name: "pk", Table: "a", Column: "id", Type: PrimaryKey}
	require.NoError(t, s.AddConstraint(pk))
	require.ErrorIs(t, s.AddConstraint(pk), ErrMalformedMetadata)

	// composite keys share the name
	require.NoError(t, s.AddConstraint(Constraint{Name: "pk", Table: "a", Column: "b_id", Type: PrimaryKey}))
	assert.Len(t, s.TableConstraints("a"), 2)

	found, err := s.Constraint(ConstraintKey{Table: "a", Name: "pk", Type: PrimaryKey})
	require.NoError(t, err)
	assert.Equal(t, "id", found.Column)
}
