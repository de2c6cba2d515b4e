package scraper

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/polarhive/timetable-backend/internal/model"
)

// maxOrderedBy caps the template slots included in a week: the portal
// template runs past the last teaching period (04:00 PM-04:45 PM is
// orderedBy 9) into evening slots that are never scheduled.
const maxOrderedBy = 9

// templateDetail mirrors one entry of the portal's
// timeTableTemplateDetailsJson variable.
type templateDetail struct {
	OrderedBy      int    `json:"orderedBy"`
	Status         int    `json:"timeTableTemplateDetailsStatus"`
	AdditionalInfo string `json:"additionalInfo"`
	StartTime      string `json:"startTime"`
	EndTime        string `json:"endTime"`
}

var cellKeyRe = regexp.MustCompile(`^ttDivText_(\d+)_(\d+)_\d+$`)

// ParseAdminPage extracts a raw week from the admin timetable HTML: the
// metadata spans, and the timeTableTemplateDetailsJson / days /
// timeTableJson inline JS variables.
func ParseAdminPage(html string) (model.RawWeek, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return model.RawWeek{}, fmt.Errorf("%w: parse html: %v", ErrScrape, err)
	}

	meta := extractMeta(doc)

	var scripts strings.Builder
	doc.Find("script").Each(func(_ int, s *goquery.Selection) {
		scripts.WriteString(s.Text())
		scripts.WriteString("\n")
	})
	scriptText := scripts.String()

	var template []templateDetail
	if err := extractJSVar(scriptText, "timeTableTemplateDetailsJson", &template); err != nil {
		// Missing template details still allow an (empty-slot) week.
		template = nil
	}

	var days []string
	if err := extractJSVar(scriptText, "days", &days); err != nil {
		days = nil
	}

	var cells map[string][]string
	if err := extractJSVar(scriptText, "timeTableJson", &cells); err != nil {
		cells = map[string][]string{}
	}

	return buildRawWeek(meta, template, days, cells), nil
}

// extractMeta collects the Batch / Class Name / Department / Section / Room
// label spans.
func extractMeta(doc *goquery.Document) map[string]string {
	meta := map[string]string{}
	doc.Find("span.lbl-title-light").Each(func(_ int, s *goquery.Selection) {
		label := strings.TrimSuffix(strings.TrimSpace(s.Text()), ":")
		value := ""
		if sibling := s.Nodes[0].NextSibling; sibling != nil {
			value = strings.TrimSpace(sibling.Data)
		}
		meta[label] = value
	})
	return meta
}

// extractJSVar finds `var <name> = <json>;` in the page scripts and decodes
// the JSON literal into dst.
func extractJSVar(scriptText, name string, dst interface{}) error {
	re := regexp.MustCompile(`var\s+` + regexp.QuoteMeta(name) + `\s*=\s*([\s\S]*?);`)
	m := re.FindStringSubmatch(scriptText)
	if m == nil {
		return fmt.Errorf("%w: js variable %s not found", ErrScrape, name)
	}
	if err := json.Unmarshal([]byte(m[1]), dst); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrScrape, name, err)
	}
	return nil
}

// buildRawWeek assembles the per-day period lists from the template slots and
// the flat timeTableJson cell map. Cell keys look like
// ttDivText_{dayIndex}_{orderedBy}_{n} (day indexes are 1-based) and each
// value is a list of "ttSubject…&&CODE-Name" / "ttFaculty…&&Name" entries.
func buildRawWeek(meta map[string]string, template []templateDetail, days []string, cells map[string][]string) model.RawWeek {
	slots := map[int]model.RawPeriod{}
	keys := []int{}
	for _, item := range template {
		if item.OrderedBy > maxOrderedBy {
			continue
		}
		slots[item.OrderedBy] = model.RawPeriod{
			OrderedBy: item.OrderedBy,
			Label:     slotLabel(item),
			Status:    item.Status,
		}
		keys = append(keys, item.OrderedBy)
	}
	sort.Ints(keys)

	// Group cell entries by (day, slot) up front.
	type position struct{ day, slot int }
	entriesByPos := map[position][]model.RawEntry{}
	for key, values := range cells {
		m := cellKeyRe.FindStringSubmatch(key)
		if m == nil {
			continue
		}
		pos := position{day: atoi(m[1]), slot: atoi(m[2])}
		entriesByPos[pos] = append(entriesByPos[pos], parseEntries(values)...)
	}

	week := model.RawWeek{Meta: meta, Days: []model.RawDay{}}
	for dayIdx := 1; dayIdx <= len(days); dayIdx++ {
		day := model.RawDay{Name: days[dayIdx-1], Periods: []model.RawPeriod{}}
		for _, ordered := range keys {
			period := slots[ordered]
			period.Entries = entriesByPos[position{day: dayIdx, slot: ordered}]
			day.Periods = append(day.Periods, period)
		}
		week.Days = append(week.Days, day)
	}
	return week
}

// slotLabel builds the display label for a template slot. Break slots use
// their info text (or a plain "BREAK"); teaching slots prefer the info text
// and otherwise format the start/end times into a 12-hour range the way the
// portal renders them.
func slotLabel(item templateDetail) string {
	if item.Status == model.SlotStatusBreak {
		if item.AdditionalInfo != "" {
			return item.AdditionalInfo
		}
		return "BREAK"
	}
	if item.AdditionalInfo != "" {
		return item.AdditionalInfo
	}
	start, errS := time.Parse("3:04:05 PM", item.StartTime)
	end, errE := time.Parse("3:04:05 PM", item.EndTime)
	if errS != nil || errE != nil {
		return item.StartTime + "-" + item.EndTime
	}
	return start.Format("03:04 PM") + "-" + end.Format("03:04 PM")
}

// parseEntries splits a cell's value list into subject entries. A ttSubject
// line opens a new entry; subsequent ttFaculty lines attach to it. The
// payload follows the final "&&" separator.
func parseEntries(values []string) []model.RawEntry {
	entries := []model.RawEntry{}
	var current *model.RawEntry
	for _, v := range values {
		payload := v
		if idx := strings.LastIndex(v, "&&"); idx >= 0 {
			payload = v[idx+2:]
		}
		switch {
		case strings.HasPrefix(v, "ttSubject"):
			if current != nil {
				entries = append(entries, *current)
			}
			current = &model.RawEntry{Subject: payload, Faculties: []string{}}
		case strings.HasPrefix(v, "ttFaculty") && current != nil:
			current.Faculties = append(current.Faculties, payload)
		}
	}
	if current != nil {
		entries = append(entries, *current)
	}
	return entries
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
