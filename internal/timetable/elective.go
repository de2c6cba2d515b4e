package timetable

import "regexp"

// electiveCodeRe matches elective subject codes: the course prefix, a
// two-letter section-pair marker, and a numeric section suffix
// (e.g. "UE23CS341AA2").
var electiveCodeRe = regexp.MustCompile(`UE\d+CS\d+(AA|AB|BA|BB)\d+`)

// electiveGroups maps the section-pair marker to its logical elective group.
var electiveGroups = map[string]string{
	"AA": "E1",
	"AB": "E2",
	"BA": "E3",
	"BB": "E4",
}

// ResolveElectiveGroup maps a subject code to its elective group label
// (E1..E4). Returns false for codes outside the recognized pattern; callers
// treat those as regular, non-elective subjects.
func ResolveElectiveGroup(code string) (string, bool) {
	m := electiveCodeRe.FindStringSubmatch(code)
	if m == nil {
		return "", false
	}
	group, ok := electiveGroups[m[1]]
	return group, ok
}
