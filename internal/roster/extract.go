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

// Assignment is one (day, slot) a nurse works within a department.
type Assignment struct {
	Day  string `json:"day"`
	Slot string `json:"slot"`
}

// NurseSchedule is one nurse's assignments within a single department.
type NurseSchedule struct {
	NurseID     string       `json:"nurse_id"`
	Assignments []Assignment `json:"assignments"`
}

// DepartmentSchedule is one department's nurse schedules.
type DepartmentSchedule struct {
	Department string          `json:"department"`
	Nurses     []NurseSchedule `json:"nurses"`
}

// RosterDocument is the extracted solution (spec.md §4.6, component
// C6): an ordered list per department, each listing the nurses with at
// least one assigned cell in that department, in (rule-configured
// department order, input nurse order, day order, slot-catalogue
// order) — spec.md §6's "Roster Document" is itself an ordered list,
// so this is a slice rather than a map to preserve that order through
// JSON encoding.
type RosterDocument struct {
	Departments []DepartmentSchedule `json:"departments"`
	SolverStats *SolverStats         `json:"solver_stats,omitempty"`
}

// SolverStats summarizes one solve for diagnostic output.
type SolverStats struct {
	Status         Status  `json:"status"`
	ObjectiveValue float64 `json:"objective_value"`
	WallTimeSec    float64 `json:"wall_time_seconds"`
	NumConflicts   int64   `json:"num_conflicts"`
	NumBranches    int64   `json:"num_branches"`
}

// ExtractRoster reads every grid cell's solved value out of response
// and assembles a RosterDocument. It is only meaningful when result's
// status is StatusOptimal or StatusFeasible; callers must check that
// before extracting (spec.md §4.5/§4.6).
func ExtractRoster(inst *Instance, grid *Grid, result Result) RosterDocument {
	var doc RosterDocument

	for _, dept := range grid.depts {
		var schedules []NurseSchedule
		for _, n := range inst.nurses {
			var assignments []Assignment
			for _, day := range grid.days {
				for _, slot := range grid.slots {
					if cpmodel.SolutionBooleanValue(result.Response, grid.X(n.id, dept, day, slot)) {
						assignments = append(assignments, Assignment{Day: day, Slot: slot})
					}
				}
			}
			if len(assignments) == 0 {
				continue
			}
			schedules = append(schedules, NurseSchedule{NurseID: n.id, Assignments: assignments})
		}
		doc.Departments = append(doc.Departments, DepartmentSchedule{Department: dept, Nurses: schedules})
	}

	return doc
}

// ExtractStats summarizes the solver's own diagnostics for result.
func ExtractStats(result Result) SolverStats {
	r := result.Response
	return SolverStats{
		Status:         result.Status,
		ObjectiveValue: r.GetObjectiveValue(),
		WallTimeSec:    r.GetWallTime(),
		NumConflicts:   r.GetNumConflicts(),
		NumBranches:    r.GetNumBranches(),
	}
}
