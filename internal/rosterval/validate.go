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

// Package rosterval re-verifies a produced roster against a subset of
// the constraint families the core enforces, and scores it with the
// composite reward spec.md §4.8 (component C8) defines.
//
// The validator is deliberately not a superset check of everything the
// Constraint Builder enforces: it re-checks R1, R2, R3 (as a bound
// rather than an equality), R5, R7, R8, and R10, and it does not
// re-check R9 (skill-mix) or R4/R6/R11 at all. That asymmetry matches
// evaluateRoster.py, which the core was distilled from, and is
// intentional rather than an oversight (SPEC_FULL.md §4.8).
package rosterval

import (
	"fmt"

	"github.com/nurseroster/rostersolve/internal/roster"
)

const minutesPerDay = 24 * 60

// Breakdown is the composite reward's additive terms.
type Breakdown struct {
	DemandScore          float64 `json:"demand_score"`
	ComplianceViolations int     `json:"compliance_violations"`
	FairnessPenalty      float64 `json:"fairness_penalty"`
	PreferenceScore      float64 `json:"preference_score"`
}

// Report is the validator's full output.
type Report struct {
	Reward     float64   `json:"reward"`
	Breakdown  Breakdown `json:"breakdown"`
	Violations []string  `json:"violations"`
}

type assignment struct {
	day, slot        string
	startAbs, endAbs int
	hours            int
}

// Validate re-verifies roster against inst and computes the composite
// reward (spec.md §4.8, component C8), grounded on evaluate_roster.
func Validate(inst *roster.Instance, doc roster.RosterDocument) Report {
	var violations []string
	violations = append(violations, validateDemand(inst, doc)...)
	violations = append(violations, validateHoursAndRest(inst, doc)...)
	violations = append(violations, validateCoreSkill(inst, doc)...)

	totalShifts := len(inst.Departments()) * len(inst.Days()) * len(inst.Slots())

	demandViolations := 0
	for _, v := range violations {
		if hasPrefix(v, "demand violated") {
			demandViolations++
		}
	}
	demandSatisfied := totalShifts - demandViolations
	demandScore := 0.0
	if totalShifts > 0 {
		demandScore = float64(demandSatisfied) / float64(totalShifts)
	}

	hours := hoursPerNurse(inst, doc)
	fairnessPenalty := 0.0
	if len(hours) > 0 {
		fairnessPenalty = variance(hours)
	}

	const preferenceScore = 0.0
	complianceViolations := len(violations)

	reward := 5.0*demandScore - 10.0*float64(complianceViolations) - 0.1*fairnessPenalty + 2.0*preferenceScore

	return Report{
		Reward: reward,
		Breakdown: Breakdown{
			DemandScore:          demandScore,
			ComplianceViolations: complianceViolations,
			FairnessPenalty:      fairnessPenalty,
			PreferenceScore:      preferenceScore,
		},
		Violations: violations,
	}
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}

// R5: re-check coverage bounds per (department, day, slot).
func validateDemand(inst *roster.Instance, doc roster.RosterDocument) []string {
	var violations []string
	for _, dept := range doc.Departments {
		for _, day := range inst.Days() {
			for _, slot := range inst.Slots() {
				assigned := 0
				for _, n := range dept.Nurses {
					for _, a := range n.Assignments {
						if a.Day == day && a.Slot == slot {
							assigned++
						}
					}
				}
				bounds := inst.Demand(dept.Department, day, slot)
				if assigned < bounds.Min || assigned > bounds.Max {
					violations = append(violations, fmt.Sprintf(
						"demand violated in %s %s %s (assigned=%d, allowed=[%d,%d])",
						dept.Department, day, slot, assigned, bounds.Min, bounds.Max))
				}
			}
		}
	}
	return violations
}

// R1, R2, R3 (as <=), R7, R10: re-check hour caps, the weekly-rest-day
// requirement, and minimum rest between shifts, per nurse.
func validateHoursAndRest(inst *roster.Instance, doc roster.RosterDocument) []string {
	var violations []string

	dayIndex := make(map[string]int, len(inst.Days()))
	for i, d := range inst.Days() {
		dayIndex[d] = i
	}

	byNurse := make(map[string][]assignment)
	for _, dept := range doc.Departments {
		for _, n := range dept.Nurses {
			for _, a := range n.Assignments {
				start, end := inst.SlotMinutes(a.Slot)
				if end <= start {
					end += minutesPerDay
				}
				base := dayIndex[a.Day] * minutesPerDay
				byNurse[n.NurseID] = append(byNurse[n.NurseID], assignment{
					day:      a.Day,
					slot:     a.Slot,
					startAbs: base + start,
					endAbs:   base + end,
					hours:    inst.ShiftHours(a.Slot),
				})
			}
		}
	}

	dailyCap := inst.Rules().Constraints.DailyHoursCap
	weeklyCap := inst.Rules().Constraints.WeeklyHoursCap
	restMinutes := inst.Rules().Constraints.RestTimeHours * 60
	totalDays := len(inst.Days())

	for _, nid := range inst.NurseIDs() {
		assigns := byNurse[nid]
		if len(assigns) == 0 {
			continue
		}

		totalWeek := 0
		daily := make(map[string]int)
		daysWorked := make(map[string]bool)
		for _, a := range assigns {
			totalWeek += a.hours
			daily[a.day] += a.hours
			daysWorked[a.day] = true
		}
		if totalWeek > weeklyCap {
			violations = append(violations, fmt.Sprintf("nurse %s exceeds weekly cap: %dh > %dh", nid, totalWeek, weeklyCap))
		}
		for _, day := range inst.Days() {
			if h := daily[day]; h > dailyCap {
				violations = append(violations, fmt.Sprintf("nurse %s exceeds daily cap on %s: %dh > %dh", nid, day, h, dailyCap))
			}
		}
		if len(daysWorked) >= totalDays {
			violations = append(violations, fmt.Sprintf("nurse %s has no rest day (worked all days)", nid))
		}

		sortByStart(assigns)
		for i := 0; i+1 < len(assigns); i++ {
			cur, next := assigns[i], assigns[i+1]
			if rest := next.startAbs - cur.endAbs; rest < 0 {
				violations = append(violations, fmt.Sprintf(
					"nurse %s has overlapping shifts: %s %s and %s %s", nid, cur.day, cur.slot, next.day, next.slot))
			}
		}

		// R10: every ordered pair, not just immediate successors, and
		// including the Sun->Mon wrap when the rule configuration
		// models the week cyclically (SPEC_FULL.md §10: "The validator
		// should match" the Constraint Builder's tight encoding).
		weekLen := totalDays * minutesPerDay
		cyclic := inst.CyclicWeek()
		for i := range assigns {
			for j := range assigns {
				if i == j {
					continue
				}
				a, b := assigns[i], assigns[j]
				rest := b.startAbs - a.endAbs
				wrapped := rest < 0 && cyclic && (b.startAbs+weekLen)-a.endAbs >= 0
				if wrapped {
					rest = (b.startAbs + weekLen) - a.endAbs
				}
				if rest >= 0 && rest < restMinutes {
					violations = append(violations, fmt.Sprintf(
						"nurse %s rest violation: only %d min between %s %s -> %s %s; requires %d min",
						nid, rest, a.day, a.slot, b.day, b.slot, restMinutes))
				}
			}
		}
	}
	return violations
}

// R8: every (department, day, slot) with at least one assigned nurse
// must have at least one nurse holding the department's core skill.
func validateCoreSkill(inst *roster.Instance, doc roster.RosterDocument) []string {
	var violations []string
	rules := inst.Rules()
	for _, dept := range doc.Departments {
		core := rules.General.CoreSkill[dept.Department]
		for _, day := range inst.Days() {
			for _, slot := range inst.Slots() {
				var assigned []string
				for _, n := range dept.Nurses {
					for _, a := range n.Assignments {
						if a.Day == day && a.Slot == slot {
							assigned = append(assigned, n.NurseID)
						}
					}
				}
				if len(assigned) == 0 {
					continue
				}
				hasCore := false
				for _, nid := range assigned {
					if inst.NurseHasSkill(nid, core) {
						hasCore = true
						break
					}
				}
				if !hasCore {
					violations = append(violations, fmt.Sprintf(
						"%s %s %s missing core skill nurse (assigned=%v)", dept.Department, day, slot, assigned))
				}
			}
		}
	}
	return violations
}

func hoursPerNurse(inst *roster.Instance, doc roster.RosterDocument) map[string]int {
	hours := make(map[string]int)
	for _, dept := range doc.Departments {
		for _, n := range dept.Nurses {
			for _, a := range n.Assignments {
				hours[n.NurseID] += inst.ShiftHours(a.Slot)
			}
		}
	}
	return hours
}

// variance is the population variance (numpy.var's default ddof=0),
// grounded on evaluate_roster's `np.var(list(hours_per_nurse.values()))`.
func variance(values map[string]int) float64 {
	n := float64(len(values))
	var sum float64
	for _, v := range values {
		sum += float64(v)
	}
	mean := sum / n
	var sq float64
	for _, v := range values {
		d := float64(v) - mean
		sq += d * d
	}
	return sq / n
}

func sortByStart(a []assignment) {
	for i := 1; i < len(a); i++ {
		for j := i; j > 0 && a[j].startAbs < a[j-1].startAbs; j-- {
			a[j], a[j-1] = a[j-1], a[j]
		}
	}
}
