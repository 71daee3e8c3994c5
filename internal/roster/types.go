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

// Package roster builds and solves the weekly nurse-roster constraint
// satisfaction / optimisation problem: for every nurse, department, day
// and shift slot, whether that nurse works the slot, subject to labour,
// contractual, clinical-safety and operational rules.
package roster

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ShiftPart is one of the three coarse parts of a day a shift slot can
// belong to, derived from the slot's name suffix.
type ShiftPart string

// The three shift parts a slot name may end in.
const (
	Morning ShiftPart = "Morning"
	Evening ShiftPart = "Evening"
	Night   ShiftPart = "Night"
)

// ContractedHoursMode selects whether R3 is enforced as an equality or
// as a lower bound.
type ContractedHoursMode string

// The two contracted-hours semantics spec.md §9 allows.
const (
	ContractedEquality ContractedHoursMode = "equality"
	ContractedAtLeast  ContractedHoursMode = "at-least"
)

// NurseRecord is the wire shape of a single nurse, as consumed from the
// nurse document described in spec.md §6.
type NurseRecord struct {
	NurseID         string   `json:"nurse_id"`
	ContractedHours int      `json:"contracted_hours"`
	Skills          []string `json:"skills"`
	Preferences     []string `json:"preferences"`
	Unavailability  []string `json:"unavailability"`
}

// ShiftCatalogue is the wire shape of the shift document in spec.md §6:
// a name -> [start, end] time-of-day table and a name -> duration table.
type ShiftCatalogue struct {
	Times map[string][2]string `json:"SHIFT_TIMES"`
	Hours map[string]int       `json:"SHIFT_HOURS"`
	// order is the insertion order of slot names, captured at decode
	// time since Go maps do not preserve it. Slots() (instance.go)
	// returns this order; it is the canonical iteration order used by
	// every other component.
	order []string
}

// NewShiftCatalogue builds a ShiftCatalogue from explicit, ordered slot
// data, for programmatic construction (tests, in-process callers) where
// there is no JSON document to decode order from.
func NewShiftCatalogue(order []string, times map[string][2]string, hours map[string]int) ShiftCatalogue {
	return ShiftCatalogue{Times: times, Hours: hours, order: append([]string(nil), order...)}
}

// UnmarshalJSON decodes the wire shape while recording SHIFT_TIMES's key
// order, which plain map decoding would discard.
func (sc *ShiftCatalogue) UnmarshalJSON(data []byte) error {
	type wire struct {
		Times map[string][2]string `json:"SHIFT_TIMES"`
		Hours map[string]int       `json:"SHIFT_HOURS"`
	}
	var w wire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	order, err := objectKeyOrder(data, "SHIFT_TIMES")
	if err != nil {
		return err
	}
	sc.Times, sc.Hours, sc.order = w.Times, w.Hours, order
	return nil
}

// objectKeyOrder scans a JSON object for the top-level key field and
// returns the key order of that nested object, using a streaming
// decoder since map-based unmarshaling does not preserve key order.
func objectKeyOrder(data []byte, field string) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("roster: expected object key, got %v", tok)
		}
		if key != field {
			if err := skipValue(dec); err != nil {
				return nil, err
			}
			continue
		}
		return readObjectKeys(dec)
	}
	return nil, fmt.Errorf("roster: field %q not found", field)
}

func readObjectKeys(dec *json.Decoder) ([]string, error) {
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}
	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("roster: expected object key, got %v", tok)
		}
		keys = append(keys, key)
		if err := skipValue(dec); err != nil {
			return nil, err
		}
	}
	// Consume the closing '}'.
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return keys, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	d, ok := tok.(json.Delim)
	if !ok || d != want {
		return fmt.Errorf("roster: expected delimiter %q, got %v", want, tok)
	}
	return nil
}

// skipValue consumes one complete JSON value (scalar or nested
// object/array) from dec.
func skipValue(dec *json.Decoder) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	d, ok := tok.(json.Delim)
	if !ok {
		return nil
	}
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		if dd, ok := tok.(json.Delim); ok {
			switch dd {
			case '{', '[':
				depth++
			case '}', ']':
				depth--
			}
		}
	}
	_ = d
	return nil
}

// generalConfig is the "general" section of the rule-configuration
// document in spec.md §6.
type generalConfig struct {
	Days        []string          `json:"days"`
	Departments []string          `json:"departments"`
	Skills      []string          `json:"skills"`
	CoreSkill   map[string]string `json:"core_skill"`
}

type flagConfig struct {
	Enabled bool `json:"enabled"`
}

type constraintsConfig struct {
	DailyHoursCap        int        `json:"daily_hours_cap"`
	WeeklyHoursCap       int        `json:"weekly_hours_cap"`
	RestTimeHours        int        `json:"rest_time_hours"`
	WeeklyRestDays       int        `json:"weekly_rest_days"`
	DepartmentBalance    flagConfig `json:"department_balance"`
	CoreSkillRequirement flagConfig `json:"core_skill_requirement"`
	SkillMixRequirement  flagConfig `json:"skill_mix_requirement"`
}

// RuleConfiguration is the wire shape of the rule-configuration document
// in spec.md §6, plus the two resolved-Open-Question extensions from
// SPEC_FULL.md §10 (ContractedHoursMode, CyclicWeek). Both extensions
// default to the spec's dominant interpretation when the JSON document
// omits them.
type RuleConfiguration struct {
	General     generalConfig     `json:"general"`
	Constraints constraintsConfig `json:"constraints"`

	// ContractedHoursMode selects R3's semantics. Empty decodes to
	// ContractedEquality.
	ContractedHoursMode ContractedHoursMode `json:"contracted_hours_mode,omitempty"`
	// CyclicWeek controls whether R10 also checks the Sun->Mon wrap.
	// Absent in JSON decodes to true (the source treats the week as
	// cyclic; see SPEC_FULL.md §10).
	CyclicWeek *bool `json:"cyclic_week,omitempty"`
}

func (rc *RuleConfiguration) contractedMode() ContractedHoursMode {
	if rc.ContractedHoursMode == "" {
		return ContractedEquality
	}
	return rc.ContractedHoursMode
}

func (rc *RuleConfiguration) cyclicWeek() bool {
	if rc.CyclicWeek == nil {
		return true
	}
	return *rc.CyclicWeek
}

// DemandBounds is the (min, max) concurrent-nurse bound for one
// (department, day, slot) cell.
type DemandBounds struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// DemandGrid is the wire shape of the demand document in spec.md §6:
// department -> day -> slot -> bounds.
type DemandGrid map[string]map[string]map[string]DemandBounds

// unavailabilityCell is a parsed, validated (day, slot) unavailability
// entry, derived from the "<Day>-<Slot>" wire strings.
type unavailabilityCell struct {
	day  string
	slot string
}

// parseUnavailability splits the wire-format "<Day>-<Slot>" entries in
// raw, skipping (and reporting via the returned warnings) any entry
// that doesn't parse or that references a day/slot outside the given
// sets. This is the silently-tolerant behavior spec.md §7 and §9
// require: malformed entries are dropped, not fatal.
func parseUnavailability(nurseID string, raw []string, days, slots map[string]bool) ([]unavailabilityCell, []string) {
	var cells []unavailabilityCell
	var warnings []string
	for _, entry := range raw {
		day, slot, ok := splitUnavailability(entry)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("nurse %q: unavailability entry %q does not parse as \"<Day>-<Slot>\"; skipped", nurseID, entry))
			continue
		}
		if !days[day] || !slots[slot] {
			warnings = append(warnings, fmt.Sprintf("nurse %q: unavailability entry %q references an unknown day or slot; skipped", nurseID, entry))
			continue
		}
		cells = append(cells, unavailabilityCell{day: day, slot: slot})
	}
	return cells, warnings
}

// splitUnavailability splits "<Day>-<Slot>" on the first hyphen, since
// slot names themselves may contain hyphens (e.g. "Full-Morning").
func splitUnavailability(entry string) (day, slot string, ok bool) {
	days, slots := splitDayPrefixedName(entry)
	if days == "" || slots == "" {
		return "", "", false
	}
	return days, slots, true
}

// splitDayPrefixedName splits a "<prefix>-<rest>" string on its first
// hyphen: the day name never itself contains a hyphen, while slot names
// (e.g. "Full-Morning") do.
func splitDayPrefixedName(entry string) (prefix, rest string) {
	for i := 0; i < len(entry); i++ {
		if entry[i] == '-' {
			return entry[:i], entry[i+1:]
		}
	}
	return "", ""
}
