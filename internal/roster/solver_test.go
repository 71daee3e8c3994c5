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
)

func TestSolve_InfeasibleInstanceReportsProvedInfeasible(t *testing.T) {
	rules := baseRules()
	// Demand requires 2 concurrent nurses on Morning cells in a
	// single-nurse instance: no assignment can satisfy R5. baseDemand
	// shares one slot map across all days, so setting Monday's Morning
	// sets every day's Morning.
	demand := baseDemand()
	demand["ER"]["Mon"]["Morning"] = DemandBounds{Min: 2, Max: 2}

	nurses := []NurseRecord{{NurseID: "n1", Skills: []string{"triage"}}}
	inst := tinyInstance(t, nurses, rules, demand)

	builder := cpmodel.NewCpModelBuilder()
	grid := NewGrid(builder, inst)
	if err := BuildConstraints(builder, inst, grid); err != nil {
		t.Fatalf("BuildConstraints: %v", err)
	}

	result, err := Solve(builder, SolverConfig{MaxTimeSeconds: 5}, false)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if result.Status != StatusInfeasible {
		t.Errorf("Status = %v, want StatusInfeasible", result.Status)
	}
	if !result.ProvedInfeasible {
		t.Error("ProvedInfeasible = false, want true (the model is genuinely unsatisfiable)")
	}
}

func TestSolve_DefaultConfigWithOracleReachesFeasibleOutcome(t *testing.T) {
	rules := baseRules()
	rules.Constraints.WeeklyRestDays = 2
	demand := DemandGrid{"ER": map[string]map[string]DemandBounds{}}
	for _, d := range rules.General.Days {
		demand["ER"][d] = map[string]DemandBounds{
			"Morning": {Min: 0, Max: 1}, "Evening": {Min: 0, Max: 1}, "Night": {Min: 0, Max: 1},
		}
	}
	nurses := []NurseRecord{{NurseID: "n1", Skills: []string{"triage"}}}
	inst := tinyInstance(t, nurses, rules, demand)
	builder := cpmodel.NewCpModelBuilder()
	grid := NewGrid(builder, inst)
	if err := BuildConstraints(builder, inst, grid); err != nil {
		t.Fatalf("BuildConstraints: %v", err)
	}

	result, err := Solve(builder, SolverConfig{}, true)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if result.Status != StatusOptimal && result.Status != StatusFeasible {
		t.Fatalf("Status = %v, want a feasible outcome", result.Status)
	}
}
