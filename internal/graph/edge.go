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

import "fmt"

// PairKey - the ordered pair of vertex keys. (a, b) and (b, a) are different keys
type PairKey struct {
	From VertexKey
	To   VertexKey
}

func NewPairKey(from, to *Vertex) PairKey {
	return PairKey{From: from.Key(), To: to.Key()}
}

func (p PairKey) Reverse() PairKey {
	return PairKey{From: p.To, To: p.From}
}

// Edge - the name is informational only, edges are equal when their endpoints are equal
type Edge struct {
	Name string
	From *Vertex
	To   *Vertex
}

func NewEdge(from, to *Vertex) *Edge {
	return &Edge{
		Name: fmt.Sprintf("%s-%s", from.Name, to.Name),
		From: from,
		To:   to,
	}
}

func (e *Edge) Key() PairKey {
	return NewPairKey(e.From, e.To)
}

func (e *Edge) Equal(other *Edge) bool {
	if e == nil || other == nil {
		return e == other
	}
	return e.Key() == other.Key()
}

func (e *Edge) String() string {
	return e.Name
}
