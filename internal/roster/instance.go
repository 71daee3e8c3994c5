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
)

// InstanceError reports a fatal input-validation failure (spec.md §7,
// kind 1): malformed instances are rejected before any CP-SAT model
// state is created.
type InstanceError struct {
	msg string
	err error
}

func (e *InstanceError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

func (e *InstanceError) Unwrap() error { return e.err }

func instanceErrorf(format string, a ...any) *InstanceError {
	return &InstanceError{msg: fmt.Sprintf(format, a...)}
}

// nurse is the validated, immutable in-memory representation of a
// NurseRecord.
type nurse struct {
	id              string
	contractedHours int
	skills          map[string]bool
	preferences     []ShiftPart
	unavailability  map[unavailabilityCell]bool
}

// Instance is the immutable, validated bundle of nurses, shift
// catalogue, demand grid, and rule configuration a solve runs against
// (spec.md §3/§4.1, component C1). Construct with NewInstance. The
// slice accessors below return copies; Rules() returns the configuration
// by value, so its slices and maps still share storage with the
// instance, and NewInstance keeps the caller's shift and demand maps
// without copying them.
type Instance struct {
	nurses     []nurse
	nurseIndex map[string]int
	shiftOrder []string
	shiftTimes map[string][2]string
	shiftHours map[string]int
	rules      RuleConfiguration
	demand     DemandGrid
	warnings   []string
}

// NewInstance validates and assembles an Instance from the four wire
// documents in spec.md §6. It fails fast on every malformed-instance
// condition spec.md §4.1 lists; it never creates any CP-SAT model state.
func NewInstance(nurseRecords []NurseRecord, shifts ShiftCatalogue, rules RuleConfiguration, demand DemandGrid) (*Instance, error) {
	inst := &Instance{
		shiftOrder: append([]string(nil), shifts.order...),
		shiftTimes: shifts.Times,
		shiftHours: shifts.Hours,
		rules:      rules,
		demand:     demand,
	}

	if err := inst.validateShiftCatalogue(); err != nil {
		return nil, err
	}

	dayExists := make(map[string]bool, len(rules.General.Days))
	for _, d := range rules.General.Days {
		dayExists[d] = true
	}
	slotExists := make(map[string]bool, len(inst.shiftOrder))
	for _, s := range inst.shiftOrder {
		slotExists[s] = true
	}
	skillUniverse := make(map[string]bool, len(rules.General.Skills))
	for _, s := range rules.General.Skills {
		skillUniverse[s] = true
	}

	if err := inst.validateCoreSkills(skillUniverse); err != nil {
		return nil, err
	}

	inst.nurseIndex = make(map[string]int, len(nurseRecords))
	inst.nurses = make([]nurse, 0, len(nurseRecords))
	for _, rec := range nurseRecords {
		if _, dup := inst.nurseIndex[rec.NurseID]; dup {
			return nil, instanceErrorf("duplicate nurse id %q", rec.NurseID)
		}

		unavail, warnings := parseUnavailability(rec.NurseID, rec.Unavailability, dayExists, slotExists)
		inst.warnings = append(inst.warnings, warnings...)

		unavailSet := make(map[unavailabilityCell]bool, len(unavail))
		for _, c := range unavail {
			unavailSet[c] = true
		}

		skillSet := make(map[string]bool, len(rec.Skills))
		for _, s := range rec.Skills {
			skillSet[s] = true
		}

		prefs := make([]ShiftPart, 0, len(rec.Preferences))
		for _, p := range rec.Preferences {
			prefs = append(prefs, ShiftPart(p))
		}

		if rec.ContractedHours < 0 {
			return nil, instanceErrorf("nurse %q: contracted_hours must be >= 0, got %d", rec.NurseID, rec.ContractedHours)
		}
		if rec.ContractedHours > rules.Constraints.WeeklyHoursCap {
			return nil, instanceErrorf("nurse %q: contracted_hours %d exceeds weekly_hours_cap %d", rec.NurseID, rec.ContractedHours, rules.Constraints.WeeklyHoursCap)
		}

		inst.nurseIndex[rec.NurseID] = len(inst.nurses)
		inst.nurses = append(inst.nurses, nurse{
			id:              rec.NurseID,
			contractedHours: rec.ContractedHours,
			skills:          skillSet,
			preferences:     prefs,
			unavailability:  unavailSet,
		})
	}

	if err := inst.validateDemand(dayExists, slotExists); err != nil {
		return nil, err
	}

	return inst, nil
}

func (inst *Instance) validateShiftCatalogue() error {
	for _, name := range inst.shiftOrder {
		bounds, present := inst.shiftTimes[name]
		if !present {
			return instanceErrorf("slot %q has no SHIFT_TIMES entry", name)
		}
		hours, present := inst.shiftHours[name]
		if !present {
			return instanceErrorf("slot %q has no SHIFT_HOURS entry", name)
		}
		startMin, err := parseTimeOfDay(bounds[0])
		if err != nil {
			return &InstanceError{msg: fmt.Sprintf("slot %q: invalid start time %q", name, bounds[0]), err: err}
		}
		endMin, err := parseTimeOfDay(bounds[1])
		if err != nil {
			return &InstanceError{msg: fmt.Sprintf("slot %q: invalid end time %q", name, bounds[1]), err: err}
		}
		if endMin <= startMin {
			endMin += 24 * 60
		}
		gotHours := (endMin - startMin) / 60
		if gotHours != hours {
			return instanceErrorf("slot %q: SHIFT_HOURS %d is inconsistent with SHIFT_TIMES %v (computed %d hours)", name, hours, bounds, gotHours)
		}
	}
	return nil
}

func (inst *Instance) validateCoreSkills(skillUniverse map[string]bool) error {
	for _, dept := range inst.rules.General.Departments {
		core, ok := inst.rules.General.CoreSkill[dept]
		if !ok {
			return instanceErrorf("department %q has no core_skill entry", dept)
		}
		if !skillUniverse[core] {
			return instanceErrorf("department %q core skill %q is not in the skill universe", dept, core)
		}
	}
	return nil
}

func (inst *Instance) validateDemand(dayExists, slotExists map[string]bool) error {
	for _, dept := range inst.rules.General.Departments {
		byDay, ok := inst.demand[dept]
		if !ok {
			return instanceErrorf("demand grid has no entry for department %q", dept)
		}
		for day, bySlot := range byDay {
			if !dayExists[day] {
				return instanceErrorf("demand grid references unknown day %q in department %q", day, dept)
			}
			for slot, bounds := range bySlot {
				if !slotExists[slot] {
					return instanceErrorf("demand grid references unknown slot %q in department %q day %q", slot, dept, day)
				}
				if bounds.Min < 0 || bounds.Max < bounds.Min {
					return instanceErrorf("demand grid %q/%q/%q has invalid bounds [%d,%d]", dept, day, slot, bounds.Min, bounds.Max)
				}
			}
		}
	}
	for dept := range inst.demand {
		found := false
		for _, d := range inst.rules.General.Departments {
			if d == dept {
				found = true
				break
			}
		}
		if !found {
			return instanceErrorf("demand grid references unknown department %q", dept)
		}
	}
	return nil
}

// NurseIDs returns every nurse id, in input order.
func (inst *Instance) NurseIDs() []string {
	ids := make([]string, len(inst.nurses))
	for i, n := range inst.nurses {
		ids[i] = n.id
	}
	return ids
}

// NurseHasSkill reports whether nurseID has skill. Unknown nurses or
// skills report false.
func (inst *Instance) NurseHasSkill(nurseID, skill string) bool {
	if i, ok := inst.nurseIndex[nurseID]; ok {
		return inst.nurses[i].skills[skill]
	}
	return false
}

// Departments returns the rule-configured department list, in order.
func (inst *Instance) Departments() []string {
	return append([]string(nil), inst.rules.General.Departments...)
}

// Days returns the rule-configured day list, in order.
func (inst *Instance) Days() []string {
	return append([]string(nil), inst.rules.General.Days...)
}

// Slots returns the shift catalogue's slot names in their canonical,
// stable (insertion) order. This is the iteration order every other
// component in the pipeline uses.
func (inst *Instance) Slots() []string {
	return append([]string(nil), inst.shiftOrder...)
}

// ShiftHours returns the integer duration of slot in hours.
func (inst *Instance) ShiftHours(slot string) int { return inst.shiftHours[slot] }

// SlotMinutes returns slot's local start and end time of day, in
// minutes since midnight, as given by the shift catalogue (before any
// midnight-wrap adjustment).
func (inst *Instance) SlotMinutes(slot string) (startMin, endMin int) {
	bounds := inst.shiftTimes[slot]
	start, _ := parseTimeOfDay(bounds[0])
	end, _ := parseTimeOfDay(bounds[1])
	return start, end
}

// Rules returns the rule configuration.
func (inst *Instance) Rules() RuleConfiguration { return inst.rules }

// Demand returns the (min, max) bounds for one (department, day, slot)
// cell, defaulting to (0, 0) if absent.
func (inst *Instance) Demand(dept, day, slot string) DemandBounds {
	if byDay, ok := inst.demand[dept]; ok {
		if bySlot, ok := byDay[day]; ok {
			if bounds, ok := bySlot[slot]; ok {
				return bounds
			}
		}
	}
	return DemandBounds{}
}

// CyclicWeek reports whether R10's minimum-rest check also considers
// the Sun->Mon week wrap, per RuleConfiguration.CyclicWeek
// (SPEC_FULL.md §10).
func (inst *Instance) CyclicWeek() bool { return inst.rules.cyclicWeek() }

// Warnings returns the non-fatal diagnostics accumulated while
// validating this instance (spec.md §7: malformed unavailability
// entries are skipped, not fatal).
func (inst *Instance) Warnings() []string { return append([]string(nil), inst.warnings...) }

// ShiftPartOf classifies a slot name by its suffix (Morning/Evening/Night).
func ShiftPartOf(slot string) ShiftPart {
	for _, part := range []ShiftPart{Morning, Evening, Night} {
		if hasSuffix(slot, string(part)) {
			return part
		}
	}
	return ""
}

func hasSuffix(s, suffix string) bool {
	return len(s) >= len(suffix) && s[len(s)-len(suffix):] == suffix
}
