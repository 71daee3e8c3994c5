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
	"fmt"

	"github.com/google/or-tools/ortools/sat/go/cpmodel"
	cmpb "github.com/google/or-tools/ortools/sat/proto/cpmodel"
	sppb "github.com/google/or-tools/ortools/sat/proto/satparameters"
	"google.golang.org/protobuf/proto"
)

// defaultMaxTimeSeconds and oracleMaxTimeSeconds are the wall-clock
// budgets in SPEC_FULL.md §4.5: a quality-score term widens the search
// space enough that the longer budget is warranted.
const (
	defaultMaxTimeSeconds = 60.0
	oracleMaxTimeSeconds  = 300.0
	defaultSearchWorkers  = 8
)

// Status is the simplified three-way solve outcome spec.md §4.5
// collapses CpSolverStatus into.
type Status string

// The three solve outcomes the Solver Driver reports.
const (
	StatusOptimal    Status = "optimal"
	StatusFeasible   Status = "feasible"
	StatusInfeasible Status = "infeasible"
)

// SolverConfig is the Go-native analogue of CP-SAT's SatParameters
// (SPEC_FULL.md §4.5): the knobs the Solver Driver exposes to callers,
// with every field optional.
type SolverConfig struct {
	// MaxTimeSeconds bounds the wall-clock solve budget. Zero selects
	// defaultMaxTimeSeconds, or oracleMaxTimeSeconds when a
	// ScoringOracle is attached.
	MaxTimeSeconds float64
	// NumSearchWorkers bounds the number of parallel search workers.
	// Zero selects defaultSearchWorkers.
	NumSearchWorkers int32
}

// Result is the outcome of one solve (spec.md §4.5, component C5).
type Result struct {
	Status           Status
	ProvedInfeasible bool
	Response         *cmpb.CpSolverResponse
}

// Solve builds the SatParameters from cfg (applying SPEC_FULL.md §4.5's
// defaults) and invokes the CP-SAT solver against builder's model.
func Solve(builder *cpmodel.Builder, cfg SolverConfig, hasOracle bool) (Result, error) {
	m, err := builder.Model()
	if err != nil {
		return Result{}, fmt.Errorf("roster: failed to instantiate the CP model: %w", err)
	}

	maxTime := cfg.MaxTimeSeconds
	if maxTime <= 0 {
		maxTime = defaultMaxTimeSeconds
		if hasOracle {
			maxTime = oracleMaxTimeSeconds
		}
	}
	workers := cfg.NumSearchWorkers
	if workers <= 0 {
		workers = defaultSearchWorkers
	}

	params := &sppb.SatParameters{
		MaxTimeInSeconds: proto.Float64(maxTime),
		NumSearchWorkers: proto.Int32(workers),
	}

	response, err := cpmodel.SolveCpModelWithParameters(m, params)
	if err != nil {
		return Result{}, fmt.Errorf("roster: failed to solve the model: %w", err)
	}

	return Result{
		Status:           statusFromResponse(response),
		ProvedInfeasible: response.GetStatus() == cmpb.CpSolverStatus_INFEASIBLE,
		Response:         response,
	}, nil
}

// statusFromResponse maps CpSolverStatus onto the simplified three-way
// contract in SPEC_FULL.md §4.5's status table: OPTIMAL and FEASIBLE
// are both "extracted" outcomes, everything else collapses to
// infeasible (MODEL_INVALID/UNKNOWN are reported as unproven
// infeasibility, distinguished from true INFEASIBLE by
// Result.ProvedInfeasible).
func statusFromResponse(r *cmpb.CpSolverResponse) Status {
	switch r.GetStatus() {
	case cmpb.CpSolverStatus_OPTIMAL:
		return StatusOptimal
	case cmpb.CpSolverStatus_FEASIBLE:
		return StatusFeasible
	default:
		return StatusInfeasible
	}
}
