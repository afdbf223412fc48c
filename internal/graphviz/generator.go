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

package graphviz

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/zessin/relational-to-graph/internal/graph"
)

const (
	DefaultNodeSep   = 1
	DefaultNodeStyle = "filled"
	indent           = "  "
)

var (
	plainIdRegexp = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	reservedIds   = map[string]struct{}{
		"node": {}, "edge": {}, "graph": {}, "digraph": {}, "subgraph": {}, "strict": {},
	}
)

type Options struct {
	NodeSep   int
	NodeStyle string
}

func DefaultOptions() *Options {
	return &Options{
		NodeSep:   DefaultNodeSep,
		NodeStyle: DefaultNodeStyle,
	}
}

// Generator - produces the DOT source of the graph. The output depends only on the vertex order and the
// adjacency order of the graph
type Generator struct {
	opts *Options
}

func NewGenerator(opts *Options) *Generator {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &Generator{opts: opts}
}

// Generate - writes the opening directive, the global style, the adjacency lines of every vertex with positive
// degree, the declaration of every isolated vertex and the closing directive
func (gen *Generator) Generate(g *graph.Graph) string {
	var sb strings.Builder

	graphType, edgeOp := "digraph", "->"
	if !g.IsDirected() {
		graphType, edgeOp = "graph", "--"
	}

	sb.WriteString(fmt.Sprintf("%s G {\n", graphType))
	sb.WriteString(fmt.Sprintf("%snodesep=%d;\n", indent, gen.opts.NodeSep))
	sb.WriteString(fmt.Sprintf("%snode[style=%s];\n", indent, QuoteId(gen.opts.NodeStyle)))
	sb.WriteString("\n")

	gen.writeConnected(&sb, g, edgeOp)
	gen.writeIsolated(&sb, g)

	sb.WriteString("}\n")
	return sb.String()
}

func (gen *Generator) writeConnected(sb *strings.Builder, g *graph.Graph, edgeOp string) {
	// an undirected edge is present in the adjacency of both endpoints, the reverse entry is skipped once per
	// emitted line
	pendingReverse := make(map[graph.PairKey]int)
	for _, v := range g.Vertices() {
		if !v.IsDegreePositive() {
			continue
		}
		for _, w := range g.Neighbors(v) {
			if !g.IsDirected() {
				key := graph.NewPairKey(v, w)
				if pendingReverse[key] > 0 {
					pendingReverse[key]--
					continue
				}
				pendingReverse[key.Reverse()]++
			}
			sb.WriteString(fmt.Sprintf("%s%s %s %s;\n", indent, QuoteId(v.Name), edgeOp, QuoteId(w.Name)))
		}
	}
}

func (gen *Generator) writeIsolated(sb *strings.Builder, g *graph.Graph) {
	for _, v := range g.Vertices() {
		if v.IsDegreePositive() {
			continue
		}
		sb.WriteString(fmt.Sprintf("%s%s;\n", indent, QuoteId(v.Name)))
	}
}

// QuoteId - returns the identifier as is when it is a plain DOT ID, otherwise it is double-quoted
func QuoteId(id string) string {
	if plainIdRegexp.MatchString(id) {
		if _, ok := reservedIds[strings.ToLower(id)]; !ok {
			return id
		}
	}
	return fmt.Sprintf(`"%s"`, strings.ReplaceAll(id, `"`, `\"`))
}
