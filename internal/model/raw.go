package model

// RawEntry is one occupant record scraped from a timetable cell before
// normalization: a subject string (usually "CODE-Name") plus faculty names in
// source order, duplicates included.
type RawEntry struct {
	Subject   string   `json:"subject"`
	Code      string   `json:"code,omitempty"`
	Faculties []string `json:"faculties"`
}

// RawPeriod is one scraped period: the template slot metadata plus the
// occupant entries found for that (day, slot) position.
type RawPeriod struct {
	OrderedBy int        `json:"orderedBy"`
	Label     string     `json:"label"`
	Status    int        `json:"status"`
	Entries   []RawEntry `json:"entries"`
}

// RawDay is one scraped day with its period list in template order.
type RawDay struct {
	Name    string      `json:"day"`
	Periods []RawPeriod `json:"periods"`
}

// RawWeek is the scraper's output and the normalizer's input: the weekly
// schedule exactly as extracted from the portal, before deduplication, break
// detection and code derivation.
type RawWeek struct {
	Meta map[string]string `json:"meta"`
	Days []RawDay          `json:"days"`
}
