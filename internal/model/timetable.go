package model

import "strings"

// Slot status values as delivered by the portal template details.
const (
	SlotStatusNormal = 0
	SlotStatusBreak  = 1
)

// TimeSlotSpec identifies one period position within a day. OrderedBy is the
// stable ordering key from the portal template; it is the slot's identity, the
// label is display-only.
type TimeSlotSpec struct {
	OrderedBy int    `json:"orderedBy"`
	Label     string `json:"label"`
	Status    int    `json:"status"`
}

// IsBreak reports whether the slot is a break period. The explicit status flag
// wins; otherwise the label text is checked for a "break" token.
func (s TimeSlotSpec) IsBreak() bool {
	if s.Status == SlotStatusBreak {
		return true
	}
	return strings.Contains(strings.ToLower(s.Label), "break")
}

// Cell is one scheduled class occupying a slot.
type Cell struct {
	Code      string   `json:"code"`
	Subject   string   `json:"subject"`
	Name      string   `json:"name,omitempty"`
	Faculties []string `json:"faculties"`
}

// Slot pairs a TimeSlotSpec with the cells scheduled in it. A slot with zero
// cells is a free period.
type Slot struct {
	Spec  TimeSlotSpec `json:"slot"`
	Cells []Cell       `json:"cells"`
}

// Free reports whether the slot has no scheduled cells.
func (s Slot) Free() bool {
	return len(s.Cells) == 0
}

// Day is a named day with its ordered slot sequence.
type Day struct {
	Name  string `json:"day"`
	Slots []Slot `json:"slots"`
}

// WeekGrid is the canonical normalized weekly schedule for one student or
// section. It is the unit that gets persisted, compared and rendered, and is
// read-only after normalization.
type WeekGrid struct {
	Meta     map[string]string `json:"meta"`
	Schedule []Day             `json:"schedule"`
}

// StoredTimetable is an index entry for a persisted WeekGrid document.
type StoredTimetable struct {
	Name string            `json:"name"`
	Meta map[string]string `json:"meta"`
}
