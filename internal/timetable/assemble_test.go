package timetable

import (
	"reflect"
	"testing"

	"github.com/polarhive/timetable-backend/internal/model"
)

func breakSlot(orderedBy int, label string) model.Slot {
	return model.Slot{
		Spec: model.TimeSlotSpec{OrderedBy: orderedBy, Label: label, Status: model.SlotStatusBreak},
	}
}

func TestAssembleLayoutFromFirstDay(t *testing.T) {
	grid := week(nil,
		model.Day{Name: "Monday", Slots: []model.Slot{
			slot(1, "08:45 AM - 09:45 AM", "A"),
			slot(2, "09:45 AM - 10:45 AM"),
		}},
		model.Day{Name: "Tuesday", Slots: []model.Slot{
			slot(1, "08:45 AM - 09:45 AM"),
			slot(2, "09:45 AM - 10:45 AM", "B"),
			slot(3, "11:00 AM - 12:00 PM", "C"),
		}},
	)

	out := Assemble(grid, RenderOptions{ShowBreaks: true})

	if len(out.Columns) != 2 {
		t.Fatalf("layout should come from the first day: got %d columns", len(out.Columns))
	}
	for _, day := range out.Days {
		if len(day.Cells) != 2 {
			t.Errorf("day %s has %d cells, want 2", day.Day, len(day.Cells))
		}
	}
	// Tuesday's extra slot 3 does not appear anywhere.
	for _, col := range out.Columns {
		for _, key := range col.OrderedBy {
			if key == 3 {
				t.Error("slot outside the layout leaked into columns")
			}
		}
	}
}

func TestAssembleEmptyGrid(t *testing.T) {
	out := Assemble(model.WeekGrid{}, RenderOptions{})
	if len(out.Columns) != 0 || len(out.Days) != 0 {
		t.Errorf("empty grid should render empty: %+v", out)
	}
}

func TestAssembleColumnLabelsNormalized(t *testing.T) {
	grid := week(nil, model.Day{Name: "Monday", Slots: []model.Slot{
		slot(1, "08:45 AM - 09:45 AM", "A"),
	}})
	out := Assemble(grid, RenderOptions{})
	if out.Columns[0].Label != "08:45-09:45" {
		t.Errorf("column label = %q, want 24-hour form", out.Columns[0].Label)
	}
}

func TestAssembleMergeColumns(t *testing.T) {
	// Monday runs the same lab across slots 1 and 2; Tuesday has different
	// subjects in those positions.
	grid := week(nil,
		model.Day{Name: "Monday", Slots: []model.Slot{
			slot(1, "08:45 AM - 09:45 AM", "LAB1"),
			slot(2, "09:45 AM - 10:45 AM", "LAB1"),
		}},
		model.Day{Name: "Tuesday", Slots: []model.Slot{
			slot(1, "08:45 AM - 09:45 AM", "X"),
			slot(2, "09:45 AM - 10:45 AM", "Y"),
		}},
	)

	out := Assemble(grid, RenderOptions{MergeColumns: true})

	if len(out.Columns) != 1 {
		t.Fatalf("expected one merged column, got %d", len(out.Columns))
	}
	col := out.Columns[0]
	if col.Colspan != 2 || !reflect.DeepEqual(col.OrderedBy, []int{1, 2}) {
		t.Errorf("merged column wrong: %+v", col)
	}
	if col.Label != "08:45-10:45" {
		t.Errorf("merged label = %q, want 08:45-10:45", col.Label)
	}

	// Monday renders one colspan-2 cell; Tuesday splits back into two cells.
	monday := out.Days[0]
	if len(monday.Cells) != 1 || monday.Cells[0].Colspan != 2 {
		t.Errorf("monday should render merged: %+v", monday.Cells)
	}
	tuesday := out.Days[1]
	if len(tuesday.Cells) != 2 || tuesday.Cells[0].Colspan != 1 {
		t.Errorf("tuesday should render split: %+v", tuesday.Cells)
	}
}

func TestAssembleMergeDisabled(t *testing.T) {
	grid := week(nil, model.Day{Name: "Monday", Slots: []model.Slot{
		slot(1, "08:45 AM - 09:45 AM", "LAB1"),
		slot(2, "09:45 AM - 10:45 AM", "LAB1"),
	}})
	out := Assemble(grid, RenderOptions{MergeColumns: false})
	if len(out.Columns) != 2 {
		t.Errorf("merging disabled should keep columns separate, got %d", len(out.Columns))
	}
}

func TestAssembleMergeNeverCrossesBreaks(t *testing.T) {
	grid := week(nil, model.Day{Name: "Monday", Slots: []model.Slot{
		slot(1, "08:45 AM - 09:45 AM", "LAB1"),
		breakSlot(2, "TEA BREAK"),
		slot(3, "10:00 AM - 11:00 AM", "LAB1"),
	}})
	out := Assemble(grid, RenderOptions{MergeColumns: true, ShowBreaks: true})
	if len(out.Columns) != 3 {
		t.Errorf("break-adjacent slots must not merge, got %d columns", len(out.Columns))
	}
}

func TestAssembleBreakVisibility(t *testing.T) {
	grid := week(nil, model.Day{Name: "Monday", Slots: []model.Slot{
		slot(1, "08:45 AM - 09:45 AM", "A"),
		breakSlot(2, "TEA BREAK"),
	}})

	shown := Assemble(grid, RenderOptions{ShowBreaks: true})
	if shown.Columns[1].Hidden {
		t.Error("break column hidden despite ShowBreaks")
	}

	hidden := Assemble(grid, RenderOptions{ShowBreaks: false})
	if !hidden.Columns[1].Hidden {
		t.Error("break column not hidden with ShowBreaks off")
	}
}

func TestAssembleHideEmptyIndependentOfBreaks(t *testing.T) {
	// Slot 2 is empty on every day, slot 3 is a break. HideEmpty removes the
	// empty teaching column but leaves the break column to the breaks toggle.
	grid := week(nil, model.Day{Name: "Monday", Slots: []model.Slot{
		slot(1, "08:45 AM - 09:45 AM", "A"),
		slot(2, "09:45 AM - 10:45 AM"),
		breakSlot(3, "TEA BREAK"),
	}})

	out := Assemble(grid, RenderOptions{ShowBreaks: true, HideEmpty: true})
	if out.Columns[0].Hidden {
		t.Error("occupied column hidden")
	}
	if !out.Columns[1].Hidden {
		t.Error("empty column not hidden with HideEmpty")
	}
	if out.Columns[2].Hidden {
		t.Error("break column visibility must not depend on emptiness")
	}
	if out.Columns[1].HasContent {
		t.Error("empty column marked as having content")
	}
}

func TestAssembleElectivePairCollapse(t *testing.T) {
	grid := week(nil, model.Day{Name: "Monday", Slots: []model.Slot{
		slot(1, "08:45 AM - 09:45 AM", "UE23CS341AA2", "UE23CS341AA5"),
	}})

	out := Assemble(grid, RenderOptions{})
	entries := out.Days[0].Cells[0].Entries
	if len(entries) != 1 {
		t.Fatalf("elective pair should collapse to one entry, got %d", len(entries))
	}
	if entries[0].Label != "E1" || entries[0].Elective != "E1" {
		t.Errorf("collapsed entry wrong: %+v", entries[0])
	}
	if entries[0].Code != "UE23CS341AA2" {
		t.Errorf("collapsed entry should keep the first code, got %q", entries[0].Code)
	}
}

func TestAssembleThreeElectivesStayApart(t *testing.T) {
	grid := week(nil, model.Day{Name: "Monday", Slots: []model.Slot{
		slot(1, "08:45 AM - 09:45 AM", "UE23CS341AA2", "UE23CS341AA5", "UE23CS341AA7"),
	}})

	out := Assemble(grid, RenderOptions{})
	entries := out.Days[0].Cells[0].Entries
	if len(entries) != 3 {
		t.Fatalf("three electives should render individually, got %d", len(entries))
	}
	for _, e := range entries {
		if e.Elective != "E1" {
			t.Errorf("entry should still be tagged with its group: %+v", e)
		}
	}
}

func TestAssembleMixedGroupsNoCollapse(t *testing.T) {
	grid := week(nil, model.Day{Name: "Monday", Slots: []model.Slot{
		slot(1, "08:45 AM - 09:45 AM", "UE23CS341AA2", "UE23CS341AB1"),
	}})

	out := Assemble(grid, RenderOptions{})
	if got := len(out.Days[0].Cells[0].Entries); got != 2 {
		t.Errorf("different groups must not collapse, got %d entries", got)
	}
}

func TestAssembleDedupeByCode(t *testing.T) {
	grid := week(nil, model.Day{Name: "Monday", Slots: []model.Slot{
		slot(1, "08:45 AM - 09:45 AM", "X", "X", "Y"),
	}})

	out := Assemble(grid, RenderOptions{})
	if got := len(out.Days[0].Cells[0].Entries); got != 2 {
		t.Errorf("duplicate codes should collapse, got %d entries", got)
	}
}

func TestAssembleShowTeachers(t *testing.T) {
	grid := week(nil, model.Day{Name: "Monday", Slots: []model.Slot{
		{
			Spec: model.TimeSlotSpec{OrderedBy: 1, Label: "08:45 AM - 09:45 AM"},
			Cells: []model.Cell{
				{Code: "X", Subject: "X", Faculties: []string{"Dr. A"}},
			},
		},
	}})

	with := Assemble(grid, RenderOptions{ShowTeachers: true})
	if !reflect.DeepEqual(with.Days[0].Cells[0].Entries[0].Faculties, []string{"Dr. A"}) {
		t.Error("faculties missing with ShowTeachers on")
	}

	without := Assemble(grid, RenderOptions{ShowTeachers: false})
	if without.Days[0].Cells[0].Entries[0].Faculties != nil {
		t.Error("faculties present with ShowTeachers off")
	}
}

func TestAssembleDisplayLabel(t *testing.T) {
	grid := week(nil, model.Day{Name: "Monday", Slots: []model.Slot{
		{
			Spec: model.TimeSlotSpec{OrderedBy: 1, Label: "08:45 AM - 09:45 AM"},
			Cells: []model.Cell{
				{Code: "UE23CS351A", Subject: "UE23CS351A-Compiler Design", Name: "Compiler Design"},
				{Code: "UE23CS352", Subject: "UE23CS352"},
				{Code: "UE23CS353", Subject: "UE23CS353"},
			},
		},
	}})

	names := map[string]string{"UE23CS352": "DBMS"}
	out := Assemble(grid, RenderOptions{SubjectNames: names})
	entries := out.Days[0].Cells[0].Entries

	if entries[0].Label != "Compiler Design" {
		t.Errorf("cell name should win: %q", entries[0].Label)
	}
	if entries[1].Label != "DBMS" {
		t.Errorf("mapping should fill in code-only cells: %q", entries[1].Label)
	}
	if entries[2].Label != "UE23CS353" {
		t.Errorf("unmapped code-only cell falls back to the code: %q", entries[2].Label)
	}
}
