package timetable

import "github.com/polarhive/timetable-backend/internal/model"

// RenderOptions controls visibility and merging in the assembled grid. It
// replaces the per-toggle global state the web client used to keep; callers
// pass an explicit configuration and persistence of the chosen options stays
// outside the core.
type RenderOptions struct {
	// ShowTeachers includes per-entry faculty lists in the output.
	ShowTeachers bool
	// ShowBreaks keeps break columns visible.
	ShowBreaks bool
	// HideEmpty hides non-break columns that have no content on any day.
	HideEmpty bool
	// MergeColumns enables pairing of adjacent slots into width-2 column
	// groups. Off by default; every slot then stays its own column.
	MergeColumns bool
	// SubjectNames maps subject codes to display names, used when a cell
	// carries no subject text of its own.
	SubjectNames map[string]string
}

// ColumnGroup is one rendered column: one slot, or two adjacent slots merged
// under a combined header.
type ColumnGroup struct {
	OrderedBy  []int  `json:"orderedBy"`
	Colspan    int    `json:"colspan"`
	Label      string `json:"label"`
	Break      bool   `json:"break"`
	HasContent bool   `json:"has_content"`
	Hidden     bool   `json:"hidden"`
}

// RenderEntry is one display entry inside a rendered cell.
type RenderEntry struct {
	Code      string   `json:"code"`
	Label     string   `json:"label"`
	Elective  string   `json:"elective,omitempty"`
	Faculties []string `json:"faculties,omitempty"`
}

// RenderCell is one table cell for a day. A width-2 column group contributes
// either a single merged cell (Colspan 2) or two separate cells, decided per
// day.
type RenderCell struct {
	Colspan int           `json:"colspan"`
	Entries []RenderEntry `json:"entries"`
}

// RenderDay is one day's cell row, aligned with the column group sequence.
type RenderDay struct {
	Day   string       `json:"day"`
	Cells []RenderCell `json:"cells"`
}

// RenderGrid is the pure, presentation-free output of Assemble; a separate
// adapter turns it into markup.
type RenderGrid struct {
	Meta    map[string]string `json:"meta"`
	Columns []ColumnGroup     `json:"columns"`
	Days    []RenderDay       `json:"days"`
}

// Assemble derives the render grid for a normalized week. The column layout
// comes from the first day's slot sequence; later days are matched to it by
// ordering key, and any slot a day does not have renders as an empty
// placeholder rather than altering the layout.
func Assemble(grid model.WeekGrid, opts RenderOptions) RenderGrid {
	out := RenderGrid{
		Meta:    grid.Meta,
		Columns: []ColumnGroup{},
		Days:    []RenderDay{},
	}
	if len(grid.Schedule) == 0 {
		return out
	}

	layout := grid.Schedule[0].Slots
	out.Columns = buildColumns(grid, layout, opts)

	for _, day := range grid.Schedule {
		slots := slotsByKey(day)
		rd := RenderDay{Day: day.Name, Cells: []RenderCell{}}
		for _, col := range out.Columns {
			rd.Cells = append(rd.Cells, renderGroupForDay(col, slots, opts)...)
		}
		out.Days = append(out.Days, rd)
	}

	return out
}

// buildColumns derives the column group sequence from the layout day. When
// merging is enabled, an adjacent pair of non-break slots is pre-merged into
// a width-2 group if any day shares a resolved subject code across both
// slots; the per-day render decision can still split the pair back out.
func buildColumns(grid model.WeekGrid, layout []model.Slot, opts RenderOptions) []ColumnGroup {
	columns := []ColumnGroup{}

	for i := 0; i < len(layout); i++ {
		spec := layout[i].Spec

		if opts.MergeColumns && i+1 < len(layout) {
			next := layout[i+1].Spec
			if !spec.IsBreak() && !next.IsBreak() && anyDayShares(grid, spec.OrderedBy, next.OrderedBy) {
				columns = append(columns, ColumnGroup{
					OrderedBy: []int{spec.OrderedBy, next.OrderedBy},
					Colspan:   2,
					Label:     mergeLabels(To24Hour(spec.Label), To24Hour(next.Label)),
				})
				i++
				continue
			}
		}

		columns = append(columns, ColumnGroup{
			OrderedBy: []int{spec.OrderedBy},
			Colspan:   1,
			Label:     To24Hour(spec.Label),
			Break:     spec.IsBreak(),
		})
	}

	for c := range columns {
		columns[c].HasContent = groupHasContent(grid, columns[c])
		if columns[c].Break {
			columns[c].Hidden = !opts.ShowBreaks
		} else {
			columns[c].Hidden = opts.HideEmpty && !columns[c].HasContent
		}
	}

	return columns
}

// anyDayShares reports whether any day holds a common resolved code across
// the two slot positions. This is the day-independent heuristic behind the
// group-level merge decision.
func anyDayShares(grid model.WeekGrid, keyA, keyB int) bool {
	for _, day := range grid.Schedule {
		slots := slotsByKey(day)
		a, okA := slots[keyA]
		b, okB := slots[keyB]
		if okA && okB && sharesResolvedCode(a.Cells, b.Cells) {
			return true
		}
	}
	return false
}

// groupHasContent reports whether any day has at least one cell in any slot
// belonging to the group. Break status plays no part here: emptiness and
// break visibility are independent toggles.
func groupHasContent(grid model.WeekGrid, col ColumnGroup) bool {
	for _, day := range grid.Schedule {
		slots := slotsByKey(day)
		for _, key := range col.OrderedBy {
			if s, ok := slots[key]; ok && len(s.Cells) > 0 {
				return true
			}
		}
	}
	return false
}

// renderGroupForDay resolves a column group into this day's cells. For a
// width-2 group the two slots render as one merged cell only when they share
// a resolved code on this specific day; otherwise they render separately even
// though the header is merged. A slot the day does not have renders empty.
func renderGroupForDay(col ColumnGroup, slots map[int]model.Slot, opts RenderOptions) []RenderCell {
	if col.Colspan == 2 {
		a := slots[col.OrderedBy[0]]
		b := slots[col.OrderedBy[1]]
		if sharesResolvedCode(a.Cells, b.Cells) {
			merged := append(append([]model.Cell{}, a.Cells...), b.Cells...)
			return []RenderCell{{Colspan: 2, Entries: renderEntries(merged, opts)}}
		}
		return []RenderCell{
			{Colspan: 1, Entries: renderEntries(a.Cells, opts)},
			{Colspan: 1, Entries: renderEntries(b.Cells, opts)},
		}
	}

	s := slots[col.OrderedBy[0]]
	return []RenderCell{{Colspan: 1, Entries: renderEntries(s.Cells, opts)}}
}

// renderEntries turns a slot's cell set into display entries: duplicates by
// code are discarded (first wins), and a pair of exactly two cells from the
// same elective group collapses into a single entry labeled with the group.
// Three or more simultaneous electives render individually.
func renderEntries(cells []model.Cell, opts RenderOptions) []RenderEntry {
	distinct := dedupeByCode(cells)

	if len(distinct) == 2 {
		g1, ok1 := ResolveElectiveGroup(distinct[0].Code)
		g2, ok2 := ResolveElectiveGroup(distinct[1].Code)
		if ok1 && ok2 && g1 == g2 {
			entry := RenderEntry{Code: distinct[0].Code, Label: g1, Elective: g1}
			if opts.ShowTeachers {
				entry.Faculties = mergedFaculties(distinct)
			}
			return []RenderEntry{entry}
		}
	}

	entries := make([]RenderEntry, 0, len(distinct))
	for _, c := range distinct {
		entry := RenderEntry{Code: c.Code, Label: displayLabel(c, opts.SubjectNames)}
		if g, ok := ResolveElectiveGroup(c.Code); ok {
			entry.Elective = g
		}
		if opts.ShowTeachers {
			entry.Faculties = c.Faculties
		}
		entries = append(entries, entry)
	}
	return entries
}

// displayLabel picks a cell's display text: its subject name, then the
// external code mapping, then the raw code.
func displayLabel(c model.Cell, names map[string]string) string {
	if c.Name != "" {
		return c.Name
	}
	if c.Subject != "" && c.Subject != c.Code {
		return c.Subject
	}
	if mapped, ok := names[c.Code]; ok && mapped != "" {
		return mapped
	}
	return c.Code
}

// resolvedCode substitutes the elective group for elective codes so that two
// parallel sections of the same elective count as the same subject.
func resolvedCode(code string) string {
	if g, ok := ResolveElectiveGroup(code); ok {
		return g
	}
	return code
}

func sharesResolvedCode(a, b []model.Cell) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	set := make(map[string]struct{}, len(a))
	for _, c := range a {
		set[resolvedCode(c.Code)] = struct{}{}
	}
	for _, c := range b {
		if _, ok := set[resolvedCode(c.Code)]; ok {
			return true
		}
	}
	return false
}

func dedupeByCode(cells []model.Cell) []model.Cell {
	out := make([]model.Cell, 0, len(cells))
	seen := make(map[string]struct{}, len(cells))
	for _, c := range cells {
		if _, ok := seen[c.Code]; ok {
			continue
		}
		seen[c.Code] = struct{}{}
		out = append(out, c)
	}
	return out
}

func mergedFaculties(cells []model.Cell) []string {
	all := []string{}
	for _, c := range cells {
		all = append(all, c.Faculties...)
	}
	return dedupeFaculties(all)
}

func slotsByKey(day model.Day) map[int]model.Slot {
	m := make(map[int]model.Slot, len(day.Slots))
	for _, s := range day.Slots {
		m[s.Spec.OrderedBy] = s
	}
	return m
}
