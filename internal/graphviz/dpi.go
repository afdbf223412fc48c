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

// dpiSizes - the resolution ladder. Each rung is roughly 10% bigger than the previous one
var dpiSizes = []int{46, 51, 57, 63, 70, 78, 86, 96, 106, 116, 128, 141, 155, 170, 187, 206, 226, 249}

const (
	initialDpiPos = 7
	// defaultDpiSteps - rungs stepped down from the initial resolution to get the rendering default
	defaultDpiSteps = 3
)

type Dpi struct {
	pos int
}

func NewDpi() *Dpi {
	return &Dpi{pos: initialDpiPos}
}

// DefaultDpi - returns the ladder positioned on the rendering default, 70 dpi
func DefaultDpi() *Dpi {
	d := NewDpi()
	for i := 0; i < defaultDpiSteps; i++ {
		d.Decrease()
	}
	return d
}

// NearestDpi - returns the ladder positioned on the rung closest to the requested value. Ties go to the lower rung
func NearestDpi(value int) *Dpi {
	best := 0
	for i, size := range dpiSizes {
		if abs(size-value) < abs(dpiSizes[best]-value) {
			best = i
		}
	}
	return &Dpi{pos: best}
}

func (d *Dpi) Decrease() {
	if d.pos > 0 {
		d.pos--
	}
}

func (d *Dpi) Value() int {
	return dpiSizes[d.pos]
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
