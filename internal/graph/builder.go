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

package graph

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/zessin/relational-to-graph/internal/schema"
)

// FromSchema - builds the graph of the classified schema. Every table except the relationship tables becomes a
// vertex and every foreign key becomes an edge from the table it effectively belongs to towards the referenced
// table
func FromSchema(s *schema.Schema, directed bool) (*Graph, error) {
	log.Info().Str("Schema", s.Name).Bool("Directed", directed).Msg("generating graph structure")
	g := New(directed)

	for _, t := range s.Tables() {
		if t.IsRelationshipTable {
			continue
		}
		if err := g.AddVertex(NewVertex(t.Name)); err != nil {
			return nil, err
		}
	}

	for _, c := range s.Constraints() {
		if !c.Type.IsForeignKey() {
			continue
		}
		if err := g.addEdgeFromForeignKey(s, c); err != nil {
			return nil, fmt.Errorf("foreign key %s on %s: %w", c.Name, c.Table, err)
		}
	}

	log.Debug().
		Int("Vertices", len(g.vertices)).
		Int("Edges", len(g.edges)).
		Msg("graph structure generated")
	return g, nil
}

func (g *Graph) addEdgeFromForeignKey(s *schema.Schema, fk schema.Constraint) error {
	// the redirected foreign keys of relationship tables already point to the associated tables, so the owning
	// table is looked up again here
	owner, err := s.Table(fk.EffectiveTable())
	if err != nil {
		return err
	}
	if owner.IsRelationshipTable {
		return nil
	}
	from, err := g.Vertex(owner.Name)
	if err != nil {
		return err
	}
	to, err := g.Vertex(fk.ReferencedTable)
	if err != nil {
		return err
	}
	return g.AddEdge(NewEdge(from, to))
}
