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

type Table struct {
	Name string `json:"name" yaml:"name"`
	// IsRelationshipTable - set by classification only. The table exists to implement a many-to-many association
	IsRelationshipTable bool `json:"is_relationship_table" yaml:"is_relationship_table"`
}

func NewTable(name string) *Table {
	return &Table{Name: name}
}

func (t *Table) Equal(other *Table) bool {
	if t == nil || other == nil {
		return t == other
	}
	return t.Name == other.Name
}

func (t *Table) String() string {
	return t.Name
}
