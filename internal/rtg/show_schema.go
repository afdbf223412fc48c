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

package rtg

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"github.com/zessin/relational-to-graph/internal/schema"
)

const (
	FormatText = "text"
	FormatYaml = "yaml"
	FormatJson = "json"
)

// SchemaSnapshot - loaded and classified metadata of one schema
type SchemaSnapshot struct {
	Schema      string              `json:"schema" yaml:"schema"`
	Tables      []*schema.Table     `json:"tables" yaml:"tables"`
	Columns     []*schema.Column    `json:"columns" yaml:"columns"`
	Constraints []schema.Constraint `json:"constraints" yaml:"constraints"`
}

func NewSchemaSnapshot(s *schema.Schema) *SchemaSnapshot {
	return &SchemaSnapshot{
		Schema:      s.Name,
		Tables:      s.Tables(),
		Columns:     s.Columns(),
		Constraints: s.Constraints(),
	}
}

// ShowSchema - loads the schema metadata and prints it in the requested format
func ShowSchema(ctx context.Context, source schema.RowSource, schemaName string, format string, w io.Writer) error {
	switch format {
	case FormatText, FormatYaml, FormatJson:
	default:
		return fmt.Errorf("unknown output format %s", format)
	}

	s, err := schema.NewLoader(source, schemaName).Load(ctx)
	if err != nil {
		return fmt.Errorf("cannot load metadata: %w", err)
	}
	snapshot := NewSchemaSnapshot(s)

	switch format {
	case FormatYaml:
		return printYaml(w, snapshot)
	case FormatJson:
		return printJson(w, snapshot)
	}
	printText(w, snapshot)
	return nil
}

func printJson(w io.Writer, snapshot *SchemaSnapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snapshot); err != nil {
		return fmt.Errorf("json render error: %w", err)
	}
	return nil
}

func printYaml(w io.Writer, snapshot *SchemaSnapshot) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	if err := enc.Encode(snapshot); err != nil {
		return fmt.Errorf("yaml render error: %w", err)
	}
	return nil
}

func printText(w io.Writer, snapshot *SchemaSnapshot) {
	tables := make([][]string, 0, len(snapshot.Tables))
	for _, t := range snapshot.Tables {
		tables = append(tables, []string{t.Name, strconv.FormatBool(t.IsRelationshipTable)})
	}
	renderTable(w, []string{"table", "relationship table"}, tables)

	columns := make([][]string, 0, len(snapshot.Columns))
	for _, c := range snapshot.Columns {
		columns = append(columns, []string{c.Table, c.Name})
	}
	renderTable(w, []string{"table", "column"}, columns)

	constraints := make([][]string, 0, len(snapshot.Constraints))
	for _, c := range snapshot.Constraints {
		constraints = append(constraints, []string{
			c.Table, c.Name, c.Type.String(), c.Column, c.ReferencedTable, c.ReferencedColumn, c.EffectiveTable(),
		})
	}
	renderTable(
		w,
		[]string{"table", "constraint", "type", "column", "referenced table", "referenced column", "effective table"},
		constraints,
	)
}

func renderTable(w io.Writer, header []string, data [][]string) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.AppendBulk(data)
	table.Render()
}
