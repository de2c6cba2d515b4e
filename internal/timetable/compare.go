package timetable

import "github.com/polarhive/timetable-backend/internal/model"

// FreePeriod is one (day, slot) position where both compared grids are free.
// Time is the 24-hour normalized form of the slot label.
type FreePeriod struct {
	Day  string             `json:"day"`
	Time string             `json:"time"`
	Slot model.TimeSlotSpec `json:"slot"`
}

// SlotFreePeriod is a free period within a single day's comparison.
type SlotFreePeriod struct {
	Slot model.TimeSlotSpec `json:"slot"`
	Time string             `json:"time"`
}

// SlotOverlay is the dual-occupancy view of one compared slot position, used
// by overlay rendering.
type SlotOverlay struct {
	Slot       model.TimeSlotSpec `json:"slot"`
	Time       string             `json:"time"`
	User1Cells []model.Cell       `json:"user1_cells"`
	User2Cells []model.Cell       `json:"user2_cells"`
	BothFree   bool               `json:"both_free"`
}

// DayComparison groups one day's comparison output.
type DayComparison struct {
	Day         string           `json:"day"`
	FreePeriods []SlotFreePeriod `json:"free_periods"`
	Slots       []SlotOverlay    `json:"slots"`
}

// ComparisonResult is the full cross-grid comparison: both sides' metadata,
// the flat common-free-period list, and the per-day breakdown.
type ComparisonResult struct {
	User1Meta          map[string]string `json:"user1_meta"`
	User2Meta          map[string]string `json:"user2_meta"`
	CommonFreePeriods  []FreePeriod      `json:"common_free_periods"`
	ScheduleComparison []DayComparison   `json:"schedule_comparison"`
}

// Compare walks two grids positionally and reports every slot position where
// both sides are simultaneously free. Days and slots are aligned by index,
// not by name or label: slot ordering is the authoritative identity, and two
// grids from the same institution share position semantics even when label
// formatting differs. Comparison is truncated to the shorter side at both
// the day and slot level; grids with zero days simply yield zero results.
func Compare(a, b model.WeekGrid) ComparisonResult {
	result := ComparisonResult{
		User1Meta:          a.Meta,
		User2Meta:          b.Meta,
		CommonFreePeriods:  []FreePeriod{},
		ScheduleComparison: []DayComparison{},
	}

	for i, dayA := range a.Schedule {
		if i >= len(b.Schedule) {
			break
		}
		dayB := b.Schedule[i]

		dayCmp := DayComparison{
			Day:         dayA.Name,
			FreePeriods: []SlotFreePeriod{},
			Slots:       []SlotOverlay{},
		}

		for j, slotA := range dayA.Slots {
			if j >= len(dayB.Slots) {
				break
			}
			slotB := dayB.Slots[j]
			bothFree := slotA.Free() && slotB.Free()
			normalized := To24Hour(slotA.Spec.Label)

			dayCmp.Slots = append(dayCmp.Slots, SlotOverlay{
				Slot:       slotA.Spec,
				Time:       normalized,
				User1Cells: slotA.Cells,
				User2Cells: slotB.Cells,
				BothFree:   bothFree,
			})

			if bothFree {
				dayCmp.FreePeriods = append(dayCmp.FreePeriods, SlotFreePeriod{
					Slot: slotA.Spec,
					Time: normalized,
				})
			}
		}

		result.ScheduleComparison = append(result.ScheduleComparison, dayCmp)
	}

	for _, day := range result.ScheduleComparison {
		for _, period := range day.FreePeriods {
			result.CommonFreePeriods = append(result.CommonFreePeriods, FreePeriod{
				Day:  day.Day,
				Time: period.Time,
				Slot: period.Slot,
			})
		}
	}

	return result
}
