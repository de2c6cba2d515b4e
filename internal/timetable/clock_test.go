package timetable

import "testing"

func TestTo24Hour(t *testing.T) {
	cases := []struct {
		label string
		want  string
	}{
		{"08:45 AM - 09:45 AM", "08:45-09:45"},
		{"01:15 PM - 02:15 PM", "13:15-14:15"},
		{"12:00 PM - 01:00 PM", "12:00-13:00"},
		{"12:15 AM - 01:00 AM", "00:15-01:00"},
		{"8:45am-9:45am", "08:45-09:45"},
		{"09:45 AM-10:45", "09:45-10:45"},
	}
	for _, c := range cases {
		if got := To24Hour(c.label); got != c.want {
			t.Errorf("To24Hour(%q) = %q, want %q", c.label, got, c.want)
		}
	}
}

func TestTo24HourPassthrough(t *testing.T) {
	// Labels already in 24-hour form, or with no time range at all, come back
	// untouched.
	for _, label := range []string{"14:00 - 15:00", "BREAK", "LUNCH BREAK", ""} {
		if got := To24Hour(label); got != label {
			t.Errorf("To24Hour(%q) = %q, want unchanged", label, got)
		}
	}
}

func TestParseTimeRange(t *testing.T) {
	tr, ok := ParseTimeRange("02:30 PM - 03:25 PM")
	if !ok {
		t.Fatal("expected a parsed range")
	}
	if tr.StartHour != 14 || tr.StartMinute != 30 || tr.EndHour != 15 || tr.EndMinute != 25 {
		t.Errorf("unexpected range: %+v", tr)
	}

	if _, ok := ParseTimeRange("BREAK"); ok {
		t.Error("BREAK should not parse as a time range")
	}
}

func TestMergeLabels(t *testing.T) {
	if got := mergeLabels("08:45-09:45", "09:45-10:45"); got != "08:45-10:45" {
		t.Errorf("mergeLabels = %q, want 08:45-10:45", got)
	}
	if got := mergeLabels("BREAK", "09:45-10:45"); got != "BREAK / 09:45-10:45" {
		t.Errorf("unparsable side should join raw labels, got %q", got)
	}
}
