package timetable

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	semesterRe = regexp.MustCompile(`(?i)Sem-(\d+)`)
	sectionRe  = regexp.MustCompile(`(?i)Section\s+([A-Za-z])`)
	deptRe     = regexp.MustCompile(`PES[12]UG\d{2}([A-Z]{2,3})\d+`)
)

// semesterYearCodes maps a semester number to the two-digit admission-year
// code used in canonical names. Unmapped semesters fall back to the default.
var semesterYearCodes = map[string]string{
	"6": "23",
	"4": "24",
	"8": "22",
}

const defaultYearCode = "23"

// DeriveName maps a student id and timetable metadata to the canonical short
// name used as the cross-system lookup key (storage filename, comparison key,
// calendar-export route key). The result is deterministic for identical
// inputs.
//
// Format: {campus}_{year}{dept}_{semester}{section}, e.g. "ec_23cs_6A", or
// {campus}_{year}_{semester}{section} when no department code can be
// extracted from the id. Missing metadata degrades to empty components.
func DeriveName(studentID string, meta map[string]string) string {
	srn := strings.ToUpper(studentID)

	campus := "ec" // EC campus (PES2) is the default
	if strings.HasPrefix(srn, "PES1") {
		campus = "rr"
	}

	semester := ""
	if m := semesterRe.FindStringSubmatch(meta["Class Name"]); m != nil {
		semester = m[1]
	}

	section := ""
	if m := sectionRe.FindStringSubmatch(meta["Section"]); m != nil {
		section = strings.ToUpper(m[1])
	}

	dept := ""
	if m := deptRe.FindStringSubmatch(srn); m != nil {
		dept = strings.ToLower(m[1])
	}

	year := defaultYearCode
	if y, ok := semesterYearCodes[semester]; ok {
		year = y
	}

	if dept != "" {
		return fmt.Sprintf("%s_%s%s_%s%s", campus, year, dept, semester, section)
	}
	return fmt.Sprintf("%s_%s_%s%s", campus, year, semester, section)
}
