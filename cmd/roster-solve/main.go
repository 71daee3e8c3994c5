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

// The roster-solve command builds and solves one weekly nurse-roster
// instance and writes the resulting roster document to stdout.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	log "github.com/golang/glog"
	"github.com/google/or-tools/ortools/sat/go/cpmodel"

	"github.com/nurseroster/rostersolve/internal/roster"
)

var (
	nursesPath = flag.String("nurses", "", "path to the nurse document (JSON)")
	shiftsPath = flag.String("shifts", "", "path to the shift catalogue document (JSON)")
	rulesPath  = flag.String("rules", "", "path to the rule configuration document (JSON)")
	demandPath = flag.String("demand", "", "path to the demand grid document (JSON)")

	maxTimeSeconds   = flag.Float64("max_time_seconds", 0, "wall-clock solve budget in seconds (0 selects the default)")
	numSearchWorkers = flag.Int("num_search_workers", 0, "CP-SAT search worker count (0 selects the default)")
)

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

func run() (int, error) {
	flag.Parse()
	if *nursesPath == "" || *shiftsPath == "" || *rulesPath == "" || *demandPath == "" {
		return 1, fmt.Errorf("-nurses, -shifts, -rules and -demand are all required")
	}

	var nurseRecords []roster.NurseRecord
	if err := readJSON(*nursesPath, &nurseRecords); err != nil {
		return 1, err
	}
	var shifts roster.ShiftCatalogue
	if err := readJSON(*shiftsPath, &shifts); err != nil {
		return 1, err
	}
	var rules roster.RuleConfiguration
	if err := readJSON(*rulesPath, &rules); err != nil {
		return 1, err
	}
	var demand roster.DemandGrid
	if err := readJSON(*demandPath, &demand); err != nil {
		return 1, err
	}

	inst, err := roster.NewInstance(nurseRecords, shifts, rules, demand)
	if err != nil {
		return 1, fmt.Errorf("invalid instance: %w", err)
	}
	for _, w := range inst.Warnings() {
		log.Warning(w)
	}

	builder := cpmodel.NewCpModelBuilder()
	grid := roster.NewGrid(builder, inst)
	if err := roster.BuildConstraints(builder, inst, grid); err != nil {
		return 1, fmt.Errorf("building constraints: %w", err)
	}
	roster.BuildObjective(builder, inst, grid, nil)

	cfg := roster.SolverConfig{
		MaxTimeSeconds:   *maxTimeSeconds,
		NumSearchWorkers: int32(*numSearchWorkers),
	}
	result, err := roster.Solve(builder, cfg, false)
	if err != nil {
		return 1, fmt.Errorf("solving: %w", err)
	}

	if result.Status != roster.StatusOptimal && result.Status != roster.StatusFeasible {
		log.Errorf("solve did not produce a feasible roster: status=%v proved_infeasible=%v", result.Status, result.ProvedInfeasible)
		return 1, nil
	}

	doc := roster.ExtractRoster(inst, grid, result)
	stats := roster.ExtractStats(result)
	doc.SolverStats = &stats

	out, err := json.Marshal(doc)
	if err != nil {
		return 1, fmt.Errorf("marshaling roster document: %w", err)
	}
	fmt.Println(string(out))
	return 0, nil
}

func main() {
	code, err := run()
	if err != nil {
		log.Errorf("roster-solve: %v", err)
	}
	os.Exit(code)
}
