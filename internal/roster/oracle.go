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

	log "github.com/golang/glog"
)

// neutralScore is substituted whenever a ScoringOracle fails or panics,
// grounded on predict_assignment_quality's `except Exception: return 0.5`.
const neutralScore = 0.5

// ScoringOracle is the optional, opaque per-assignment quality score
// (spec.md §4.7, component C7). It must be total over the cell space,
// deterministic for a given instance, and return finite values; the
// Objective Builder does not interpret them beyond scaling.
//
// priorAssignments is always an empty map: the core calls Score exactly
// once per cell, with no solve state yet decided.
type ScoringOracle interface {
	Score(cell CellKey, priorAssignments map[CellKey]struct{}) float64
}

// ScoringOracleFunc adapts a function to a ScoringOracle.
type ScoringOracleFunc func(cell CellKey, priorAssignments map[CellKey]struct{}) float64

// Score implements ScoringOracle.
func (f ScoringOracleFunc) Score(cell CellKey, priorAssignments map[CellKey]struct{}) float64 {
	return f(cell, priorAssignments)
}

// evaluateOracle calls oracle.Score for cell, catching both a returned
// non-finite value and a panic, and substituting the neutral score in
// either case (spec.md §4.7/§7, kind 3: oracle failures are non-fatal).
func evaluateOracle(oracle ScoringOracle, cell CellKey) (score float64) {
	defer func() {
		if r := recover(); r != nil {
			log.Warningf("roster: scoring oracle panicked for cell %+v: %v; using neutral score", cell, r)
			score = neutralScore
		}
	}()

	empty := map[CellKey]struct{}{}
	s := oracle.Score(cell, empty)
	if !math.IsNaN(s) && !math.IsInf(s, 0) {
		return s
	}
	log.Warningf("roster: scoring oracle returned non-finite value for cell %+v; using neutral score", cell)
	return neutralScore
}
