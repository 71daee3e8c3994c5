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
	"testing"

	"github.com/google/or-tools/ortools/sat/go/cpmodel"
	cmpb "github.com/google/or-tools/ortools/sat/proto/cpmodel"
)

// tinyInstance builds a single-department instance over baseShifts'
// three slots and the rule configuration's days, small enough to solve
// to optimality in a unit test.
func tinyInstance(t *testing.T, nurses []NurseRecord, rules RuleConfiguration, demand DemandGrid) *Instance {
	t.Helper()
	inst, err := NewInstance(nurses, baseShifts(), rules, demand)
	if err != nil {
		t.Fatalf("NewInstance: %v", err)
	}
	return inst
}

func solveForTest(t *testing.T, builder *cpmodel.Builder) *cmpb.CpSolverResponse {
	t.Helper()
	result, err := Solve(builder, SolverConfig{MaxTimeSeconds: 5}, false)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	return result.Response
}

func TestBuildConstraints_MinimalFeasibleInstance(t *testing.T) {
	rules := baseRules()
	rules.Constraints.WeeklyRestDays = 2
	nurses := []NurseRecord{
		{NurseID: "n1", Skills: []string{"triage"}},
		{NurseID: "n2", Skills: []string{"triage", "trauma"}},
		{NurseID: "n3", Skills: []string{"trauma"}},
		{NurseID: "n4", Skills: []string{"triage"}},
		{NurseID: "n5", Skills: []string{"triage", "trauma"}},
		{NurseID: "n6", Skills: []string{"trauma"}},
	}
	inst := tinyInstance(t, nurses, rules, baseDemand())

	builder := cpmodel.NewCpModelBuilder()
	grid := NewGrid(builder, inst)
	if err := BuildConstraints(builder, inst, grid); err != nil {
		t.Fatalf("BuildConstraints: %v", err)
	}

	response := solveForTest(t, builder)
	if response.GetStatus() != cmpb.CpSolverStatus_OPTIMAL && response.GetStatus() != cmpb.CpSolverStatus_FEASIBLE {
		t.Fatalf("status = %v, want OPTIMAL or FEASIBLE", response.GetStatus())
	}
}

func TestAddUnavailability_CellForcedToZero(t *testing.T) {
	rules := baseRules()
	rules.Constraints.WeeklyRestDays = 2
	nurses := []NurseRecord{
		{NurseID: "n1", Skills: []string{"triage"}, Unavailability: []string{"Mon-Morning"}},
	}
	demand := DemandGrid{"ER": map[string]map[string]DemandBounds{
		"Mon": {"Morning": {Min: 0, Max: 1}},
	}}
	for _, d := range []string{"Tue", "Wed", "Thu", "Fri", "Sat", "Sun"} {
		demand["ER"][d] = map[string]DemandBounds{"Morning": {Min: 0, Max: 1}, "Evening": {Min: 0, Max: 1}, "Night": {Min: 0, Max: 1}}
	}
	demand["ER"]["Mon"]["Evening"] = DemandBounds{Min: 0, Max: 1}
	demand["ER"]["Mon"]["Night"] = DemandBounds{Min: 0, Max: 1}

	inst := tinyInstance(t, nurses, rules, demand)
	builder := cpmodel.NewCpModelBuilder()
	grid := NewGrid(builder, inst)
	if err := BuildConstraints(builder, inst, grid); err != nil {
		t.Fatalf("BuildConstraints: %v", err)
	}
	response := solveForTest(t, builder)
	if cpmodel.SolutionBooleanValue(response, grid.X("n1", "ER", "Mon", "Morning")) {
		t.Error("nurse n1 was assigned to a cell they are unavailable for")
	}
}

func TestAddContractedHours_EqualityMode(t *testing.T) {
	rules := baseRules()
	rules.Constraints.WeeklyRestDays = 6
	nurses := []NurseRecord{{NurseID: "n1", ContractedHours: 8, Skills: []string{"triage"}}}
	demand := DemandGrid{"ER": map[string]map[string]DemandBounds{}}
	for _, d := range rules.General.Days {
		demand["ER"][d] = map[string]DemandBounds{
			"Morning": {Min: 0, Max: 1}, "Evening": {Min: 0, Max: 0}, "Night": {Min: 0, Max: 0},
		}
	}
	inst := tinyInstance(t, nurses, rules, demand)
	builder := cpmodel.NewCpModelBuilder()
	grid := NewGrid(builder, inst)
	if err := BuildConstraints(builder, inst, grid); err != nil {
		t.Fatalf("BuildConstraints: %v", err)
	}
	response := solveForTest(t, builder)

	total := 0
	for _, day := range inst.Days() {
		for _, slot := range inst.Slots() {
			if cpmodel.SolutionBooleanValue(response, grid.X("n1", "ER", day, slot)) {
				total += inst.ShiftHours(slot)
			}
		}
	}
	if total != 8 {
		t.Errorf("nurse n1 worked %d hours, want exactly 8 (contracted, equality mode)", total)
	}
}
