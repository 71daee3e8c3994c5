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

func TestNewGrid_NumVariables(t *testing.T) {
	nurses := []NurseRecord{{NurseID: "n1"}, {NurseID: "n2"}}
	inst, err := NewInstance(nurses, baseShifts(), baseRules(), baseDemand())
	if err != nil {
		t.Fatalf("NewInstance: %v", err)
	}

	builder := cpmodel.NewCpModelBuilder()
	grid := NewGrid(builder, inst)

	want := 2 /* nurses */ * 1 /* departments */ * 7 /* days */ * 3 /* slots */
	if got := grid.NumVariables(); got != want {
		t.Errorf("NumVariables() = %d, want %d", got, want)
	}
}

func TestGrid_X_PanicsOnUnknownCoordinate(t *testing.T) {
	nurses := []NurseRecord{{NurseID: "n1"}}
	inst, err := NewInstance(nurses, baseShifts(), baseRules(), baseDemand())
	if err != nil {
		t.Fatalf("NewInstance: %v", err)
	}
	builder := cpmodel.NewCpModelBuilder()
	grid := NewGrid(builder, inst)

	defer func() {
		if recover() == nil {
			t.Error("X() with an unknown nurse should panic")
		}
	}()
	grid.X("does-not-exist", "ER", "Mon", "Morning")
}

func TestGrid_X_IsStablePerCell(t *testing.T) {
	nurses := []NurseRecord{{NurseID: "n1"}}
	inst, err := NewInstance(nurses, baseShifts(), baseRules(), baseDemand())
	if err != nil {
		t.Fatalf("NewInstance: %v", err)
	}
	builder := cpmodel.NewCpModelBuilder()
	grid := NewGrid(builder, inst)

	a := grid.X("n1", "ER", "Mon", "Morning")
	b := grid.X("n1", "ER", "Mon", "Morning")
	if a.Name() != b.Name() {
		t.Errorf("X() returned different variables for the same cell: %q vs %q", a.Name(), b.Name())
	}
}
