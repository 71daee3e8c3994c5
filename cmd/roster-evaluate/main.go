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

// The roster-evaluate command re-verifies a produced roster document
// against an instance and prints the violation list and reward
// breakdown as JSON.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	log "github.com/golang/glog"

	"github.com/nurseroster/rostersolve/internal/roster"
	"github.com/nurseroster/rostersolve/internal/rosterval"
)

var (
	nursesPath = flag.String("nurses", "", "path to the nurse document (JSON)")
	shiftsPath = flag.String("shifts", "", "path to the shift catalogue document (JSON)")
	rulesPath  = flag.String("rules", "", "path to the rule configuration document (JSON)")
	demandPath = flag.String("demand", "", "path to the demand grid document (JSON)")
	rosterPath = flag.String("roster", "", "path to the roster document to evaluate (JSON)")
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

func run() error {
	flag.Parse()
	if *nursesPath == "" || *shiftsPath == "" || *rulesPath == "" || *demandPath == "" || *rosterPath == "" {
		return fmt.Errorf("-nurses, -shifts, -rules, -demand and -roster are all required")
	}

	var nurseRecords []roster.NurseRecord
	if err := readJSON(*nursesPath, &nurseRecords); err != nil {
		return err
	}
	var shifts roster.ShiftCatalogue
	if err := readJSON(*shiftsPath, &shifts); err != nil {
		return err
	}
	var rules roster.RuleConfiguration
	if err := readJSON(*rulesPath, &rules); err != nil {
		return err
	}
	var demand roster.DemandGrid
	if err := readJSON(*demandPath, &demand); err != nil {
		return err
	}
	var doc roster.RosterDocument
	if err := readJSON(*rosterPath, &doc); err != nil {
		return err
	}

	inst, err := roster.NewInstance(nurseRecords, shifts, rules, demand)
	if err != nil {
		return fmt.Errorf("invalid instance: %w", err)
	}

	report := rosterval.Validate(inst, doc)
	out, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

func main() {
	if err := run(); err != nil {
		log.Exitf("roster-evaluate: %v", err)
	}
}
