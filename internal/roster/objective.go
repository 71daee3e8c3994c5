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
	"math"

	"github.com/google/or-tools/ortools/sat/go/cpmodel"
)

// preferenceWeightAlone is the preference-bonus weight used when no
// scoring oracle is attached (spec.md §4.4 default W_pref).
const preferenceWeightAlone = 1

// preferenceWeightWithOracle is the preference-bonus weight used
// alongside a quality-score term, grounded on generateRoster.py's
// `100 * assignment[...]` preference bonus running next to a
// 1000-scaled XGBoost term.
const preferenceWeightWithOracle = 100

// qualityScale is the integer scaling applied to a ScoringOracle's
// real-valued score, grounded on generateRoster.py's
// `int(score * 1000)`.
const qualityScale = 1000

// BuildObjective assembles the linear scalar objective (spec.md §4.4,
// component C4): a preference bonus for every cell whose slot matches a
// nurse's preferred shift part, plus an optional per-cell quality term
// when oracle is non-nil. If neither term has any contributors, no
// objective is set and any feasible assignment is acceptable.
func BuildObjective(builder *cpmodel.Builder, inst *Instance, grid *Grid, oracle ScoringOracle) {
	prefWeight := int64(preferenceWeightAlone)
	if oracle != nil {
		prefWeight = preferenceWeightWithOracle
	}

	objective := cpmodel.NewLinearExpr()
	var contributors int

	for _, n := range inst.nurses {
		prefParts := make(map[ShiftPart]bool, len(n.preferences))
		for _, p := range n.preferences {
			prefParts[p] = true
		}
		if len(prefParts) == 0 {
			continue
		}
		for _, dept := range grid.depts {
			for _, day := range grid.days {
				for _, slot := range grid.slots {
					if !prefParts[ShiftPartOf(slot)] {
						continue
					}
					objective.AddTerm(grid.X(n.id, dept, day, slot), prefWeight)
					contributors++
				}
			}
		}
	}

	if oracle != nil {
		for _, n := range inst.nurses {
			for _, dept := range grid.depts {
				for _, day := range grid.days {
					for _, slot := range grid.slots {
						cell := CellKey{Nurse: n.id, Department: dept, Day: day, Slot: slot}
						score := evaluateOracle(oracle, cell)
						weight := int64(math.Round(score * qualityScale))
						objective.AddTerm(grid.X(n.id, dept, day, slot), weight)
						contributors++
					}
				}
			}
		}
	}

	if contributors == 0 {
		return
	}
	builder.Maximize(objective)
}
