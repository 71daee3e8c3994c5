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
	"github.com/google/or-tools/ortools/sat/go/cpmodel"
)

// BuildConstraints emits every rule family in spec.md §4.3 (R1-R11)
// against grid's variables on builder. It is called exactly once, after
// the grid has been fully allocated; no variable or constraint is
// created anywhere else in the pipeline (spec.md §5).
func BuildConstraints(builder *cpmodel.Builder, inst *Instance, grid *Grid) error {
	addDailyHoursCap(builder, inst, grid)
	addWeeklyHoursCap(builder, inst, grid)
	addContractedHours(builder, inst, grid)
	addSingleDepartmentExclusivity(builder, inst, grid)
	addCoverage(builder, inst, grid)
	addUnavailability(builder, inst, grid)
	addWeeklyRestDays(builder, inst, grid)
	if inst.rules.Constraints.CoreSkillRequirement.Enabled || inst.rules.Constraints.SkillMixRequirement.Enabled {
		addSkillConstraints(builder, inst, grid)
	}
	addMinimumRest(builder, inst, grid)
	if inst.rules.Constraints.DepartmentBalance.Enabled {
		addDepartmentBalance(builder, inst, grid)
	}

	if _, err := builder.Model(); err != nil {
		return err
	}
	return nil
}

func hoursExpr(inst *Instance, grid *Grid, nurseID string, filter func(dept, day, slot string) bool) *cpmodel.LinearExpr {
	expr := cpmodel.NewLinearExpr()
	for _, dept := range grid.depts {
		for _, day := range grid.days {
			for _, slot := range grid.slots {
				if filter != nil && !filter(dept, day, slot) {
					continue
				}
				expr.AddTerm(grid.X(nurseID, dept, day, slot), int64(inst.ShiftHours(slot)))
			}
		}
	}
	return expr
}

// R1: daily hour cap.
func addDailyHoursCap(builder *cpmodel.Builder, inst *Instance, grid *Grid) {
	dailyCap := int64(inst.rules.Constraints.DailyHoursCap)
	for _, n := range inst.nurses {
		for _, day := range grid.days {
			d := day
			expr := hoursExpr(inst, grid, n.id, func(_, dd, _ string) bool { return dd == d })
			builder.AddLessOrEqual(expr, cpmodel.NewConstant(dailyCap))
		}
	}
}

// R2: weekly hour cap.
func addWeeklyHoursCap(builder *cpmodel.Builder, inst *Instance, grid *Grid) {
	weeklyCap := int64(inst.rules.Constraints.WeeklyHoursCap)
	for _, n := range inst.nurses {
		expr := hoursExpr(inst, grid, n.id, nil)
		builder.AddLessOrEqual(expr, cpmodel.NewConstant(weeklyCap))
	}
}

// R3: contracted hours, equality by default or a declared lower bound
// when RuleConfiguration.ContractedHoursMode is "at-least" (SPEC_FULL.md §10).
func addContractedHours(builder *cpmodel.Builder, inst *Instance, grid *Grid) {
	mode := inst.rules.contractedMode()
	for _, n := range inst.nurses {
		if n.contractedHours <= 0 {
			continue
		}
		expr := hoursExpr(inst, grid, n.id, nil)
		target := cpmodel.NewConstant(int64(n.contractedHours))
		if mode == ContractedAtLeast {
			builder.AddGreaterOrEqual(expr, target)
		} else {
			builder.AddEquality(expr, target)
		}
	}
}

// R4: single-department exclusivity per (nurse, day, slot).
func addSingleDepartmentExclusivity(builder *cpmodel.Builder, inst *Instance, grid *Grid) {
	for _, n := range inst.nurses {
		for _, day := range grid.days {
			for _, slot := range grid.slots {
				var vars []cpmodel.BoolVar
				for _, dept := range grid.depts {
					vars = append(vars, grid.X(n.id, dept, day, slot))
				}
				builder.AddAtMostOne(vars...)
			}
		}
	}
}

// R5: coverage bounds per (department, day, slot).
func addCoverage(builder *cpmodel.Builder, inst *Instance, grid *Grid) {
	for _, dept := range grid.depts {
		for _, day := range grid.days {
			for _, slot := range grid.slots {
				bounds := inst.Demand(dept, day, slot)
				expr := cpmodel.NewLinearExpr()
				for _, n := range inst.nurses {
					expr.Add(grid.X(n.id, dept, day, slot))
				}
				builder.AddLinearConstraint(expr, int64(bounds.Min), int64(bounds.Max))
			}
		}
	}
}

// R6: unavailability forces the cell to zero in every department.
func addUnavailability(builder *cpmodel.Builder, inst *Instance, grid *Grid) {
	zero := cpmodel.NewConstant(0)
	for _, n := range inst.nurses {
		for cell := range n.unavailability {
			for _, dept := range grid.depts {
				builder.AddEquality(grid.X(n.id, dept, cell.day, cell.slot), zero)
			}
		}
	}
}

// R7: exactly required_rest_days days with zero assignments, via exact
// two-way reification (b <=> sum == 0).
func addWeeklyRestDays(builder *cpmodel.Builder, inst *Instance, grid *Grid) {
	required := int64(inst.rules.Constraints.WeeklyRestDays)
	for _, n := range inst.nurses {
		var restVars []cpmodel.BoolVar
		for _, day := range grid.days {
			expr := cpmodel.NewLinearExpr()
			for _, dept := range grid.depts {
				for _, slot := range grid.slots {
					expr.Add(grid.X(n.id, dept, day, slot))
				}
			}
			rest := builder.NewBoolVar().WithName("rest_" + n.id + "_" + day)
			zero := cpmodel.NewConstant(0)
			builder.AddEquality(expr, zero).OnlyEnforceIf(rest)
			builder.AddGreaterOrEqual(expr, cpmodel.NewConstant(1)).OnlyEnforceIf(rest.Not())
			restVars = append(restVars, rest)
		}
		sum := cpmodel.NewLinearExpr().AddSum(boolArgs(restVars)...)
		builder.AddEquality(sum, cpmodel.NewConstant(required))
	}
}

func boolArgs(bvs []cpmodel.BoolVar) []cpmodel.LinearArgument {
	args := make([]cpmodel.LinearArgument, len(bvs))
	for i, b := range bvs {
		args[i] = b
	}
	return args
}

// R8/R9: core-skill presence and skill-mix cardinality, only over cells
// with strictly positive minimum demand.
func addSkillConstraints(builder *cpmodel.Builder, inst *Instance, grid *Grid) {
	coreSkill := inst.rules.General.CoreSkill
	skills := inst.rules.General.Skills
	coreReq := inst.rules.Constraints.CoreSkillRequirement.Enabled
	mixReq := inst.rules.Constraints.SkillMixRequirement.Enabled

	for _, dept := range grid.depts {
		core := coreSkill[dept]
		for _, day := range grid.days {
			for _, slot := range grid.slots {
				if inst.Demand(dept, day, slot).Min <= 0 {
					continue
				}

				if coreReq {
					expr := cpmodel.NewLinearExpr()
					for _, n := range inst.nurses {
						if n.skills[core] {
							expr.Add(grid.X(n.id, dept, day, slot))
						}
					}
					builder.AddGreaterOrEqual(expr, cpmodel.NewConstant(1))
				}

				if mixReq {
					var present []cpmodel.BoolVar
					for _, skill := range skills {
						p := builder.NewBoolVar().WithName("skill_present_" + dept + "_" + day + "_" + slot + "_" + skill)
						var skilled []cpmodel.LinearArgument
						for _, n := range inst.nurses {
							if n.skills[skill] {
								skilled = append(skilled, grid.X(n.id, dept, day, slot))
							}
						}
						if len(skilled) > 0 {
							builder.AddMaxEquality(p, skilled...)
						} else {
							builder.AddEquality(p, cpmodel.NewConstant(0))
						}
						present = append(present, p)
					}
					sum := cpmodel.NewLinearExpr().AddSum(boolArgs(present)...)
					builder.AddGreaterOrEqual(sum, cpmodel.NewConstant(3))
				}
			}
		}
	}
}

// R10: minimum rest between shifts, using the tight pairwise encoding
// (SPEC_FULL.md §10).
func addMinimumRest(builder *cpmodel.Builder, inst *Instance, grid *Grid) {
	restHours := inst.rules.Constraints.RestTimeHours
	cyclic := inst.rules.cyclicWeek()
	offsets := inst.slotOffsets()
	events := inst.weekEvents(offsets)
	pairs := restViolatingPairs(events, restHours, cyclic)

	for _, n := range inst.nurses {
		for _, pair := range pairs {
			a, b := pair[0], pair[1]
			expr := cpmodel.NewLinearExpr()
			for _, dept := range grid.depts {
				expr.Add(grid.X(n.id, dept, a.day, a.slot))
				expr.Add(grid.X(n.id, dept, b.day, b.slot))
			}
			builder.AddLessOrEqual(expr, cpmodel.NewConstant(1))
		}
	}
}

// R11: pairwise department balance.
func addDepartmentBalance(builder *cpmodel.Builder, inst *Instance, grid *Grid) {
	for _, day := range grid.days {
		for _, slot := range grid.slots {
			counts := make([]*cpmodel.LinearExpr, len(grid.depts))
			for i, dept := range grid.depts {
				expr := cpmodel.NewLinearExpr()
				for _, n := range inst.nurses {
					expr.Add(grid.X(n.id, dept, day, slot))
				}
				counts[i] = expr
			}
			for i := range counts {
				for j := i + 1; j < len(counts); j++ {
					diff := cpmodel.NewLinearExpr().Add(counts[i]).AddTerm(counts[j], -1)
					builder.AddLessOrEqual(diff, cpmodel.NewConstant(1))
					negDiff := cpmodel.NewLinearExpr().Add(counts[j]).AddTerm(counts[i], -1)
					builder.AddLessOrEqual(negDiff, cpmodel.NewConstant(1))
				}
			}
		}
	}
}
