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

// VertexKey - the business key of the vertex. Vertexes are equal when their keys are equal regardless of degree
type VertexKey string

type Vertex struct {
	Name   string
	degree int
}

func NewVertex(name string) *Vertex {
	return &Vertex{Name: name}
}

func (v *Vertex) Key() VertexKey {
	return VertexKey(v.Name)
}

func (v *Vertex) Equal(other *Vertex) bool {
	if v == nil || other == nil {
		return v == other
	}
	return v.Key() == other.Key()
}

func (v *Vertex) Degree() int {
	return v.degree
}

func (v *Vertex) IsDegreePositive() bool {
	return v.degree > 0
}

func (v *Vertex) increaseDegree() {
	v.degree++
}

func (v *Vertex) String() string {
	return v.Name
}
