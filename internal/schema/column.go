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

// ColumnKey - the business key of a column. It is comparable and used directly as a map key
type ColumnKey struct {
	Table string
	Name  string
}

func (k ColumnKey) String() string {
	return fmt.Sprintf("%s.%s", k.Table, k.Name)
}

type Column struct {
	Table string `json:"table" yaml:"table"`
	Name  string `json:"name" yaml:"name"`
}

func NewColumn(table *Table, name string) *Column {
	return &Column{
		Table: table.Name,
		Name:  name,
	}
}

func (c *Column) Key() ColumnKey {
	return ColumnKey{Table: c.Table, Name: c.Name}
}

func (c *Column) Equal(other *Column) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c.Key() == other.Key()
}

func (c *Column) String() string {
	return c.Key().String()
}
