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
	"errors"
	"testing"
)

func baseRules() RuleConfiguration {
	return RuleConfiguration{
		General: generalConfig{
			Days:        []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"},
			Departments: []string{"ER"},
			Skills:      []string{"triage", "trauma"},
			CoreSkill:   map[string]string{"ER": "triage"},
		},
		Constraints: constraintsConfig{
			DailyHoursCap:  12,
			WeeklyHoursCap: 40,
			RestTimeHours:  11,
			WeeklyRestDays: 1,
		},
	}
}

func baseShifts() ShiftCatalogue {
	return NewShiftCatalogue(
		[]string{"Morning", "Evening", "Night"},
		map[string][2]string{
			"Morning": {"06:00", "14:00"},
			"Evening": {"14:00", "22:00"},
			"Night":   {"22:00", "06:00"},
		},
		map[string]int{"Morning": 8, "Evening": 8, "Night": 8},
	)
}

func baseDemand() DemandGrid {
	full := map[string]DemandBounds{"Morning": {Min: 1, Max: 2}, "Evening": {Min: 1, Max: 2}, "Night": {Min: 1, Max: 2}}
	byDay := map[string]map[string]DemandBounds{}
	for _, d := range []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"} {
		byDay[d] = full
	}
	return DemandGrid{"ER": byDay}
}

func TestNewInstance_Valid(t *testing.T) {
	nurses := []NurseRecord{
		{NurseID: "n1", ContractedHours: 40, Skills: []string{"triage"}, Preferences: []string{"Morning"}},
	}
	inst, err := NewInstance(nurses, baseShifts(), baseRules(), baseDemand())
	if err != nil {
		t.Fatalf("NewInstance: %v", err)
	}
	if got := inst.Slots(); len(got) != 3 || got[0] != "Morning" {
		t.Errorf("Slots() = %v, want [Morning Evening Night]", got)
	}
	if got := inst.ShiftHours("Night"); got != 8 {
		t.Errorf("ShiftHours(Night) = %d, want 8", got)
	}
}

func TestNewInstance_DuplicateNurse(t *testing.T) {
	nurses := []NurseRecord{{NurseID: "n1"}, {NurseID: "n1"}}
	_, err := NewInstance(nurses, baseShifts(), baseRules(), baseDemand())
	var instErr *InstanceError
	if !errors.As(err, &instErr) {
		t.Fatalf("NewInstance error = %v, want *InstanceError", err)
	}
}

func TestNewInstance_ContractedExceedsWeeklyCap(t *testing.T) {
	nurses := []NurseRecord{{NurseID: "n1", ContractedHours: 999}}
	_, err := NewInstance(nurses, baseShifts(), baseRules(), baseDemand())
	if err == nil {
		t.Fatal("expected an error when contracted_hours exceeds weekly_hours_cap")
	}
}

func TestNewInstance_NegativeContractedHours(t *testing.T) {
	nurses := []NurseRecord{{NurseID: "n1", ContractedHours: -1}}
	_, err := NewInstance(nurses, baseShifts(), baseRules(), baseDemand())
	if err == nil {
		t.Fatal("expected an error for negative contracted_hours")
	}
}

func TestNewInstance_InconsistentShiftHours(t *testing.T) {
	shifts := baseShifts()
	shifts.Hours["Morning"] = 99
	_, err := NewInstance(nil, shifts, baseRules(), baseDemand())
	if err == nil {
		t.Fatal("expected an error when SHIFT_HOURS disagrees with SHIFT_TIMES")
	}
}

func TestNewInstance_MissingCoreSkillEntry(t *testing.T) {
	rules := baseRules()
	delete(rules.General.CoreSkill, "ER")
	_, err := NewInstance(nil, baseShifts(), rules, baseDemand())
	if err == nil {
		t.Fatal("expected an error when a department has no core_skill entry")
	}
}

func TestNewInstance_DemandReferencesUnknownDepartment(t *testing.T) {
	demand := baseDemand()
	demand["ICU"] = map[string]map[string]DemandBounds{}
	_, err := NewInstance(nil, baseShifts(), baseRules(), demand)
	if err == nil {
		t.Fatal("expected an error when the demand grid references an unconfigured department")
	}
}

func TestNewInstance_UnavailabilityWarningsAreNonFatal(t *testing.T) {
	nurses := []NurseRecord{{NurseID: "n1", Unavailability: []string{"Mon-Morning", "not-a-real-entry-at-all"}}}
	inst, err := NewInstance(nurses, baseShifts(), baseRules(), baseDemand())
	if err != nil {
		t.Fatalf("NewInstance: %v", err)
	}
	if len(inst.Warnings()) == 0 {
		t.Error("expected a warning for the malformed unavailability entry")
	}
}

func TestShiftPartOf(t *testing.T) {
	tests := map[string]ShiftPart{
		"Morning":      Morning,
		"Full-Morning": Morning,
		"Evening":      Evening,
		"Night":        Night,
		"Unknown":      "",
	}
	for slot, want := range tests {
		if got := ShiftPartOf(slot); got != want {
			t.Errorf("ShiftPartOf(%q) = %q, want %q", slot, got, want)
		}
	}
}
