package service

import (
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/rs/zerolog"

	"github.com/polarhive/timetable-backend/internal/model"
	"github.com/polarhive/timetable-backend/internal/timetable"
)

var weekdayByDayName = map[string]time.Weekday{
	"Monday":    time.Monday,
	"Tuesday":   time.Tuesday,
	"Wednesday": time.Wednesday,
	"Thursday":  time.Thursday,
	"Friday":    time.Friday,
	"Saturday":  time.Saturday,
	"Sunday":    time.Sunday,
}

var bydayByDayName = map[string]string{
	"Monday":    "MO",
	"Tuesday":   "TU",
	"Wednesday": "WE",
	"Thursday":  "TH",
	"Friday":    "FR",
	"Saturday":  "SA",
	"Sunday":    "SU",
}

// CalendarService turns a normalized week grid into an iCalendar document of
// weekly recurring events.
type CalendarService struct {
	log zerolog.Logger
}

func NewCalendarService(log zerolog.Logger) *CalendarService {
	return &CalendarService{
		log: log.With().Str("component", "calendar_service").Logger(),
	}
}

// BuildICS renders the grid as an ICS string. Each teaching cell becomes a
// weekly recurring VEVENT anchored on the first matching weekday on or after
// start. Break slots, slots without a parsable time range, and duplicate
// codes within one slot are skipped. The subjects mapping supplies short
// display names; pass an empty map to render raw codes.
func (s *CalendarService) BuildICS(grid model.WeekGrid, start time.Time, subjects map[string]string) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)

	location := grid.Meta["Room"]
	if location == "" {
		location = grid.Meta["Batch"]
	}

	events := 0
	for _, day := range grid.Schedule {
		weekday, ok := weekdayByDayName[day.Name]
		if !ok {
			continue
		}
		anchor := nextDateForWeekday(start, weekday)

		for _, slot := range day.Slots {
			if slot.Spec.IsBreak() {
				continue
			}
			tr, ok := timetable.ParseTimeRange(slot.Spec.Label)
			if !ok {
				continue
			}

			seen := map[string]bool{}
			for _, cell := range slot.Cells {
				code := cell.Code
				if code == "" {
					code = cell.Subject
				}
				if code == "" || seen[code] {
					continue
				}
				seen[code] = true

				uid := fmt.Sprintf("%s-%s-%d@timetable", code, day.Name, slot.Spec.OrderedBy)
				ev := cal.AddEvent(uid)
				ev.SetDtStampTime(start)
				ev.SetSummary(summaryLabel(cell, subjects))
				if len(cell.Faculties) > 0 {
					ev.SetDescription("Faculties: " + strings.Join(cell.Faculties, ", "))
				}
				if location != "" {
					ev.SetLocation(location)
				}

				// Floating local times: no Z suffix and no TZID, so the
				// event lands at the wall-clock time in any calendar app.
				dtStart := time.Date(anchor.Year(), anchor.Month(), anchor.Day(), tr.StartHour, tr.StartMinute, 0, 0, time.Local)
				dtEnd := time.Date(anchor.Year(), anchor.Month(), anchor.Day(), tr.EndHour, tr.EndMinute, 0, 0, time.Local)
				ev.SetProperty(ics.ComponentPropertyDtStart, dtStart.Format("20060102T150405"))
				ev.SetProperty(ics.ComponentPropertyDtEnd, dtEnd.Format("20060102T150405"))
				ev.AddRrule("FREQ=WEEKLY;BYDAY=" + bydayByDayName[day.Name])
				events++
			}
		}
	}

	s.log.Debug().Int("events", events).Msg("ICS built")
	return cal.Serialize()
}

// summaryLabel picks the event title: elective group, then the mapped short
// name, then the cell's own name, then the raw code.
func summaryLabel(cell model.Cell, subjects map[string]string) string {
	code := cell.Code
	if code == "" {
		code = cell.Subject
	}
	if group, ok := timetable.ResolveElectiveGroup(code); ok {
		return group
	}
	if name, ok := subjects[code]; ok && name != "" {
		return name
	}
	if cell.Name != "" {
		return cell.Name
	}
	return code
}

// nextDateForWeekday returns the first date on or after start that falls on
// the given weekday.
func nextDateForWeekday(start time.Time, weekday time.Weekday) time.Time {
	daysAhead := (int(weekday) - int(start.Weekday()) + 7) % 7
	return start.AddDate(0, 0, daysAhead)
}
