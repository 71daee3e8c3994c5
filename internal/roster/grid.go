// Copyright 2010-2024 Google LLC
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

package roster

import (
	"github.com/google/or-tools/ortools/sat/go/cpmodel"
)

// CellKey identifies one (nurse, department, day, slot) assignment
// cell, spec.md §3's "Cell".
type CellKey struct {
	Nurse      string
	Department string
	Day        string
	Slot       string
}

// Grid is the dense boolean decision-variable grid (spec.md §4.2,
// component C2): one cpmodel.BoolVar per (nurse, department, day, slot)
// cell in the Cartesian product. It carries no semantic content beyond
// storage and guarantees a variable exists for every cell.
type Grid struct {
	builder *cpmodel.Builder

	nurses []string
	depts  []string
	days   []string
	slots  []string

	nurseIdx map[string]int
	deptIdx  map[string]int
	dayIdx   map[string]int
	slotIdx  map[string]int

	// vars[n][k][d][s] is the BoolVar for that cell, in the dense
	// layout SPEC_FULL.md §4.2 calls for: this preserves a stable
	// iteration order the extractor relies on, rather than a hash map.
	vars [][][][]cpmodel.BoolVar
}

// NewGrid allocates one BoolVar per (nurse, department, day, slot) cell
// of inst on builder.
func NewGrid(builder *cpmodel.Builder, inst *Instance) *Grid {
	nurses := make([]string, len(inst.nurses))
	for i, n := range inst.nurses {
		nurses[i] = n.id
	}
	depts := inst.Departments()
	days := inst.Days()
	slots := inst.Slots()

	g := &Grid{
		builder:  builder,
		nurses:   nurses,
		depts:    depts,
		days:     days,
		slots:    slots,
		nurseIdx: indexOf(nurses),
		deptIdx:  indexOf(depts),
		dayIdx:   indexOf(days),
		slotIdx:  indexOf(slots),
	}

	g.vars = make([][][][]cpmodel.BoolVar, len(nurses))
	for n, nurseID := range nurses {
		g.vars[n] = make([][][]cpmodel.BoolVar, len(depts))
		for k, dept := range depts {
			g.vars[n][k] = make([][]cpmodel.BoolVar, len(days))
			for d, day := range days {
				g.vars[n][k][d] = make([]cpmodel.BoolVar, len(slots))
				for s, slot := range slots {
					name := "x_" + nurseID + "_" + dept + "_" + day + "_" + slot
					g.vars[n][k][d][s] = builder.NewBoolVar().WithName(name)
				}
			}
		}
	}
	return g
}

func indexOf(names []string) map[string]int {
	m := make(map[string]int, len(names))
	for i, n := range names {
		m[n] = i
	}
	return m
}

// X returns the decision variable for the (nurse, department, day,
// slot) cell. It panics if any coordinate is not part of the grid,
// since that would indicate a Constraint Builder bug, not bad input
// (inputs are validated by NewInstance before the grid ever exists).
func (g *Grid) X(nurse, dept, day, slot string) cpmodel.BoolVar {
	n, ok := g.nurseIdx[nurse]
	if !ok {
		panic("roster: unknown nurse " + nurse)
	}
	k, ok := g.deptIdx[dept]
	if !ok {
		panic("roster: unknown department " + dept)
	}
	d, ok := g.dayIdx[day]
	if !ok {
		panic("roster: unknown day " + day)
	}
	s, ok := g.slotIdx[slot]
	if !ok {
		panic("roster: unknown slot " + slot)
	}
	return g.vars[n][k][d][s]
}

// Nurses, Departments, Days, Slots return the grid's canonical
// iteration order along each axis.
func (g *Grid) Nurses() []string      { return append([]string(nil), g.nurses...) }
func (g *Grid) Departments() []string { return append([]string(nil), g.depts...) }
func (g *Grid) Days() []string        { return append([]string(nil), g.days...) }
func (g *Grid) Slots() []string       { return append([]string(nil), g.slots...) }

// NumVariables returns the total number of decision variables the grid
// allocated, for regression-testing idempotence of model construction
// (spec.md §8, "Idempotence of build").
func (g *Grid) NumVariables() int {
	return len(g.nurses) * len(g.depts) * len(g.days) * len(g.slots)
}
