package timetable

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// timeRangeRe matches labels like "08:45 AM - 09:45 AM", "8:45am-9:45am" or
// "14:00 - 15:00". The AM/PM markers are optional per side.
var timeRangeRe = regexp.MustCompile(`(\d{1,2}:\d{2})\s*([AaPp][Mm])?\s*-\s*(\d{1,2}:\d{2})\s*([AaPp][Mm])?`)

// TimeRange is a parsed slot time range in 24-hour clock components.
type TimeRange struct {
	StartHour   int
	StartMinute int
	EndHour     int
	EndMinute   int
}

// ParseTimeRange extracts the start/end clock times from a slot label.
// Returns false when the label carries no recognizable time range (e.g. a
// plain "BREAK" label).
func ParseTimeRange(label string) (TimeRange, bool) {
	m := timeRangeRe.FindStringSubmatch(label)
	if m == nil {
		return TimeRange{}, false
	}
	sh, sm := to24(m[1], m[2])
	eh, em := to24(m[3], m[4])
	return TimeRange{StartHour: sh, StartMinute: sm, EndHour: eh, EndMinute: em}, true
}

// To24Hour normalizes a slot label's time range to 24-hour "HH:MM-HH:MM"
// form. Labels without an AM/PM marker are assumed to already be 24-hour and
// are returned unchanged, as are labels with no time range at all.
func To24Hour(label string) string {
	m := timeRangeRe.FindStringSubmatch(label)
	if m == nil || (m[2] == "" && m[4] == "") {
		return label
	}
	sh, sm := to24(m[1], m[2])
	eh, em := to24(m[3], m[4])
	return fmt.Sprintf("%02d:%02d-%02d:%02d", sh, sm, eh, em)
}

// mergeLabels builds the label for a merged column: the first slot's start
// time through the second slot's end time. Falls back to joining the raw
// labels when either side cannot be parsed.
func mergeLabels(first, second string) string {
	a, okA := ParseTimeRange(first)
	b, okB := ParseTimeRange(second)
	if !okA || !okB {
		return first + " / " + second
	}
	return fmt.Sprintf("%02d:%02d-%02d:%02d", a.StartHour, a.StartMinute, b.EndHour, b.EndMinute)
}

func to24(clock, ampm string) (int, int) {
	parts := strings.SplitN(clock, ":", 2)
	h, _ := strconv.Atoi(parts[0])
	m, _ := strconv.Atoi(parts[1])
	switch strings.ToLower(strings.TrimSpace(ampm)) {
	case "pm":
		if h < 12 {
			h += 12
		}
	case "am":
		if h == 12 {
			h = 0
		}
	}
	return h, m
}
