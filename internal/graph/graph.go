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
	"errors"
	"fmt"
	"slices"

	"github.com/zessin/relational-to-graph/internal/schema"
)

var (
	// ErrNotFound - the same sentinel the schema lookups use, so the pipeline checks a single condition
	ErrNotFound        = schema.ErrNotFound
	ErrDuplicateVertex = errors.New("duplicate vertex")
)

// Graph - the graph of tables. Adjacency and edge lookups are keyed by the derived vertex keys, so any vertex
// instance equal to a registered one addresses the same entries
type Graph struct {
	vertices    []*Vertex
	edges       []*Edge
	adjacency   map[VertexKey][]*Vertex
	edgesByPair map[PairKey]*Edge
	verticesIdx map[VertexKey]int
	directed    bool
}

func New(directed bool) *Graph {
	return &Graph{
		adjacency:   make(map[VertexKey][]*Vertex),
		edgesByPair: make(map[PairKey]*Edge),
		verticesIdx: make(map[VertexKey]int),
		directed:    directed,
	}
}

func (g *Graph) AddVertex(v *Vertex) error {
	if _, ok := g.verticesIdx[v.Key()]; ok {
		return fmt.Errorf("vertex %s: %w", v.Name, ErrDuplicateVertex)
	}
	g.verticesIdx[v.Key()] = len(g.vertices)
	g.vertices = append(g.vertices, v)
	g.adjacency[v.Key()] = make([]*Vertex, 0)
	return nil
}

// AddEdge - registers the edge between two already registered vertexes. The registered vertex instances are used
// for the bookkeeping even if the edge carries other instances with the same keys
func (g *Graph) AddEdge(e *Edge) error {
	from, err := g.registered(e.From)
	if err != nil {
		return err
	}
	to, err := g.registered(e.To)
	if err != nil {
		return err
	}
	e.From, e.To = from, to

	g.edges = append(g.edges, e)
	g.adjacency[from.Key()] = append(g.adjacency[from.Key()], to)
	g.edgesByPair[e.Key()] = e
	from.increaseDegree()

	if !g.directed {
		g.adjacency[to.Key()] = append(g.adjacency[to.Key()], from)
		g.edgesByPair[e.Key().Reverse()] = e
		to.increaseDegree()
	}
	return nil
}

func (g *Graph) registered(v *Vertex) (*Vertex, error) {
	if v == nil {
		return nil, fmt.Errorf("nil vertex: %w", ErrNotFound)
	}
	return g.Vertex(v.Name)
}

// Vertex - returns the registered vertex by name
func (g *Graph) Vertex(name string) (*Vertex, error) {
	idx, ok := g.verticesIdx[VertexKey(name)]
	if !ok {
		return nil, fmt.Errorf("vertex %s: %w", name, ErrNotFound)
	}
	return g.vertices[idx], nil
}

// Neighbors - returns the adjacency list of the vertex in edge insertion order
func (g *Graph) Neighbors(v *Vertex) []*Vertex {
	return slices.Clone(g.adjacency[v.Key()])
}

// EdgeBetween - returns the edge registered under the ordered pair of vertexes
func (g *Graph) EdgeBetween(from, to *Vertex) (*Edge, bool) {
	e, ok := g.edgesByPair[NewPairKey(from, to)]
	return e, ok
}

func (g *Graph) Vertices() []*Vertex {
	return slices.Clone(g.vertices)
}

func (g *Graph) Edges() []*Edge {
	return slices.Clone(g.edges)
}

func (g *Graph) IsDirected() bool {
	return g.directed
}
