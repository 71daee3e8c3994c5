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
	"strconv"
	"strings"
)

const minutesPerDay = 24 * 60

// parseTimeOfDay parses an "HH:MM" time-of-day string into minutes
// since local midnight.
func parseTimeOfDay(s string) (int, error) {
	h, m, ok := strings.Cut(s, ":")
	if !ok {
		return 0, fmt.Errorf("expected \"HH:MM\"")
	}
	hh, err := strconv.Atoi(h)
	if err != nil {
		return 0, fmt.Errorf("invalid hour: %w", err)
	}
	mm, err := strconv.Atoi(m)
	if err != nil {
		return 0, fmt.Errorf("invalid minute: %w", err)
	}
	return hh*60 + mm, nil
}

// slotOffset is a slot's (start, end) offset in minutes from the start
// of the day it is scheduled on, with end already adjusted past
// midnight when the slot wraps (end <= start in local time).
type slotOffset struct {
	startMin, endMin int
}

// slotOffsets computes the local-day minute offsets for every slot in
// inst's shift catalogue, grounded on generateRoster.py's
// `slot_offsets` precomputation.
func (inst *Instance) slotOffsets() map[string]slotOffset {
	offsets := make(map[string]slotOffset, len(inst.shiftOrder))
	for _, name := range inst.shiftOrder {
		bounds := inst.shiftTimes[name]
		start, _ := parseTimeOfDay(bounds[0])
		end, _ := parseTimeOfDay(bounds[1])
		if end <= start {
			end += minutesPerDay
		}
		offsets[name] = slotOffset{startMin: start, endMin: end}
	}
	return offsets
}

// weekEvent is one (day, slot) occurrence placed on the absolute
// 7*24*60-minute week timeline used by R10.
type weekEvent struct {
	day, slot        string
	startAbs, endAbs int
}

// weekEvents lays out every (day, slot) pair on the week's absolute
// minute timeline, in (day-order, slot-catalogue-order), grounded on
// generateRoster.py's `tasks` list.
func (inst *Instance) weekEvents(offsets map[string]slotOffset) []weekEvent {
	days := inst.rules.General.Days
	events := make([]weekEvent, 0, len(days)*len(inst.shiftOrder))
	for dayIdx, day := range days {
		for _, slot := range inst.shiftOrder {
			off := offsets[slot]
			base := dayIdx * minutesPerDay
			events = append(events, weekEvent{
				day:      day,
				slot:     slot,
				startAbs: base + off.startMin,
				endAbs:   base + off.endMin,
			})
		}
	}
	return events
}

// restViolatingPairs returns every ordered pair (a, b) of week events,
// with b starting at or after a, such that the elapsed time from a's
// end to b's start is strictly less than restHours hours — including a
// negative elapsed time, i.e. an outright overlap. This mirrors
// generateRoster.py's directional rest loop (`if start2 < start1:
// continue; rest_minutes = start2 - end1; if rest_minutes < threshold`),
// which forbids overlapping shifts the same way it forbids merely-too-
// short rest: both produce a `sum(vars1)+sum(vars2) <= 1` constraint.
// When cyclic is true, pairs that only fail to meet the threshold when
// b's start is treated as occurring the following week (the Sun->Mon
// wrap) are included too.
func restViolatingPairs(events []weekEvent, restHours int, cyclic bool) [][2]weekEvent {
	thresholdMin := restHours * 60
	weekLen := 7 * minutesPerDay
	var pairs [][2]weekEvent
	for _, a := range events {
		for _, b := range events {
			if a.day == b.day && a.slot == b.slot {
				continue
			}
			if b.startAbs >= a.startAbs && b.startAbs-a.endAbs < thresholdMin {
				pairs = append(pairs, [2]weekEvent{a, b})
				continue
			}
			if cyclic && b.startAbs+weekLen >= a.startAbs && (b.startAbs+weekLen)-a.endAbs < thresholdMin {
				pairs = append(pairs, [2]weekEvent{a, b})
			}
		}
	}
	return pairs
}
