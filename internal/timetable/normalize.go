package timetable

import (
	"errors"
	"strings"

	"github.com/polarhive/timetable-backend/internal/model"
)

// ErrMalformedInput is returned when the raw payload lacks the minimal
// day/period list shape. Normalization never produces a partial grid.
var ErrMalformedInput = errors.New("malformed raw timetable: missing day list")

// Normalize converts a scraped raw week into the canonical WeekGrid. Day and
// slot order is preserved exactly as delivered; per-cell faculty lists are
// deduplicated case-insensitively and subject codes are derived from the
// subject string when no explicit code is present.
func Normalize(raw model.RawWeek) (model.WeekGrid, error) {
	if raw.Days == nil {
		return model.WeekGrid{}, ErrMalformedInput
	}

	meta := raw.Meta
	if meta == nil {
		meta = map[string]string{}
	}

	schedule := make([]model.Day, 0, len(raw.Days))
	for _, rawDay := range raw.Days {
		day := model.Day{
			Name:  rawDay.Name,
			Slots: make([]model.Slot, 0, len(rawDay.Periods)),
		}
		for _, p := range rawDay.Periods {
			spec := model.TimeSlotSpec{
				OrderedBy: p.OrderedBy,
				Label:     p.Label,
				Status:    normalizeStatus(p),
			}
			slot := model.Slot{Spec: spec, Cells: make([]model.Cell, 0, len(p.Entries))}
			for _, e := range p.Entries {
				slot.Cells = append(slot.Cells, normalizeCell(e))
			}
			day.Slots = append(day.Slots, slot)
		}
		schedule = append(schedule, day)
	}

	return model.WeekGrid{Meta: meta, Schedule: schedule}, nil
}

// normalizeStatus maps the raw status flag to the canonical slot status. The
// explicit flag wins; otherwise a "break" token in the label marks the slot.
func normalizeStatus(p model.RawPeriod) int {
	if p.Status == model.SlotStatusBreak {
		return model.SlotStatusBreak
	}
	if strings.Contains(strings.ToLower(p.Label), "break") {
		return model.SlotStatusBreak
	}
	return model.SlotStatusNormal
}

func normalizeCell(e model.RawEntry) model.Cell {
	code := e.Code
	name := ""
	if idx := strings.Index(e.Subject, "-"); idx >= 0 {
		if code == "" {
			code = e.Subject[:idx]
		}
		name = e.Subject[idx+1:]
	} else if code == "" {
		code = e.Subject
	}

	return model.Cell{
		Code:      code,
		Subject:   e.Subject,
		Name:      name,
		Faculties: dedupeFaculties(e.Faculties),
	}
}

// dedupeFaculties collapses case-insensitive duplicates to the first-seen
// casing, preserving order and discarding blank names.
func dedupeFaculties(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		trimmed := strings.TrimSpace(n)
		if trimmed == "" {
			continue
		}
		key := strings.ToLower(trimmed)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}
