package timetable

import (
	"errors"
	"reflect"
	"testing"

	"github.com/polarhive/timetable-backend/internal/model"
)

func TestNormalizeMalformedInput(t *testing.T) {
	_, err := Normalize(model.RawWeek{})
	if !errors.Is(err, ErrMalformedInput) {
		t.Fatalf("expected ErrMalformedInput, got %v", err)
	}
}

func TestNormalizeEmptyWeek(t *testing.T) {
	grid, err := Normalize(model.RawWeek{Days: []model.RawDay{}})
	if err != nil {
		t.Fatalf("empty day list should normalize: %v", err)
	}
	if len(grid.Schedule) != 0 {
		t.Errorf("expected empty schedule, got %d days", len(grid.Schedule))
	}
	if grid.Meta == nil {
		t.Error("meta should never be nil after normalization")
	}
}

func TestNormalizePreservesOrder(t *testing.T) {
	raw := model.RawWeek{
		Days: []model.RawDay{
			{Name: "Monday", Periods: []model.RawPeriod{
				{OrderedBy: 1, Label: "08:45 AM - 09:45 AM"},
				{OrderedBy: 2, Label: "09:45 AM - 10:45 AM"},
			}},
			{Name: "Tuesday", Periods: []model.RawPeriod{
				{OrderedBy: 1, Label: "08:45 AM - 09:45 AM"},
			}},
		},
	}

	grid, err := Normalize(raw)
	if err != nil {
		t.Fatal(err)
	}
	if len(grid.Schedule) != 2 || grid.Schedule[0].Name != "Monday" || grid.Schedule[1].Name != "Tuesday" {
		t.Fatalf("day order not preserved: %+v", grid.Schedule)
	}
	if grid.Schedule[0].Slots[0].Spec.OrderedBy != 1 || grid.Schedule[0].Slots[1].Spec.OrderedBy != 2 {
		t.Error("slot order not preserved")
	}
	// Labels are carried through untouched.
	if grid.Schedule[0].Slots[0].Spec.Label != "08:45 AM - 09:45 AM" {
		t.Errorf("label altered: %q", grid.Schedule[0].Slots[0].Spec.Label)
	}
}

func TestNormalizeBreakDetection(t *testing.T) {
	raw := model.RawWeek{
		Days: []model.RawDay{
			{Name: "Monday", Periods: []model.RawPeriod{
				{OrderedBy: 1, Label: "TEA BREAK"},
				{OrderedBy: 2, Label: "10:00 AM - 11:00 AM", Status: model.SlotStatusBreak},
				{OrderedBy: 3, Label: "11:00 AM - 12:00 PM"},
			}},
		},
	}

	grid, err := Normalize(raw)
	if err != nil {
		t.Fatal(err)
	}
	slots := grid.Schedule[0].Slots
	if !slots[0].Spec.IsBreak() {
		t.Error("label-only break not detected")
	}
	if slots[1].Spec.Status != model.SlotStatusBreak {
		t.Error("explicit break flag not preserved")
	}
	if slots[2].Spec.IsBreak() {
		t.Error("teaching slot misclassified as break")
	}
}

func TestNormalizeCellCodeDerivation(t *testing.T) {
	raw := model.RawWeek{
		Days: []model.RawDay{
			{Name: "Monday", Periods: []model.RawPeriod{
				{OrderedBy: 1, Label: "08:45 AM - 09:45 AM", Entries: []model.RawEntry{
					{Subject: "UE23CS351A-Compiler Design"},
					{Subject: "UE23CS352", Code: ""},
					{Subject: "anything", Code: "EXPLICIT"},
				}},
			}},
		},
	}

	grid, err := Normalize(raw)
	if err != nil {
		t.Fatal(err)
	}
	cells := grid.Schedule[0].Slots[0].Cells
	if cells[0].Code != "UE23CS351A" || cells[0].Name != "Compiler Design" {
		t.Errorf("split failed: %+v", cells[0])
	}
	if cells[1].Code != "UE23CS352" || cells[1].Name != "" {
		t.Errorf("bare subject should become the code: %+v", cells[1])
	}
	if cells[2].Code != "EXPLICIT" {
		t.Errorf("explicit code should win: %+v", cells[2])
	}
}

func TestNormalizeFacultyDedup(t *testing.T) {
	raw := model.RawWeek{
		Days: []model.RawDay{
			{Name: "Monday", Periods: []model.RawPeriod{
				{OrderedBy: 1, Label: "08:45 AM - 09:45 AM", Entries: []model.RawEntry{
					{Subject: "X", Faculties: []string{"Dr. A", "dr. a", "  ", "Dr. B", "DR. A"}},
				}},
			}},
		},
	}

	grid, err := Normalize(raw)
	if err != nil {
		t.Fatal(err)
	}
	got := grid.Schedule[0].Slots[0].Cells[0].Faculties
	want := []string{"Dr. A", "Dr. B"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("faculties = %v, want %v", got, want)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	// Running an already-normalized grid's content back through produces the
	// same result.
	raw := model.RawWeek{
		Meta: map[string]string{"Section": "Section A"},
		Days: []model.RawDay{
			{Name: "Monday", Periods: []model.RawPeriod{
				{OrderedBy: 1, Label: "08:45 AM - 09:45 AM", Entries: []model.RawEntry{
					{Subject: "UE23CS351A-Compiler Design", Faculties: []string{"Dr. A"}},
				}},
				{OrderedBy: 2, Label: "BREAK"},
			}},
		},
	}

	first, err := Normalize(raw)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Normalize(raw)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("normalization is not deterministic")
	}
}
