package service

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"
)

var (
	// explicit period markers like "Q1 FY24" or "Q3 2024"
	rePeriod = regexp.MustCompile(`(?i)\bQ([1-4])\s*(FY\s*)?(\d{2,4})\b`)

	// dates in d-m-y or d/m/y form, as Indian financial statements carry them
	reDate = regexp.MustCompile(`\b(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})\b`)

	reYear = regexp.MustCompile(`\b\d{4}\b`)

	reCompany = regexp.MustCompile(`(?i)(?:Company Name|Statement of|Financial Report of)\s*[:\-\s]*([A-Za-z0-9&.,\s]+)`)
)

var dateLayouts = []string{"2-1-2006", "2/1/2006", "2-1-06", "2/1/06"}

var financialUnits = []string{"Crores", "Lakhs", "Millions", "Billions"}

// periodMarker returns the normalized period label on a line, if any
// ("Q1 FY24" stays "Q1 FY24", "q3 2024" becomes "Q3 2024").
func periodMarker(line string) (string, bool) {
	m := rePeriod.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	if strings.TrimSpace(m[2]) != "" {
		return fmt.Sprintf("Q%s FY%s", m[1], m[3]), true
	}
	return fmt.Sprintf("Q%s %s", m[1], m[3]), true
}

// quarterLabelsFromDates finds all dates in the text and derives quarter
// labels from the latest and second-latest ones.
func quarterLabelsFromDates(text string) (current, previous string) {
	var dates []time.Time
	for _, m := range reDate.FindAllStringSubmatch(text, -1) {
		for _, layout := range dateLayouts {
			if d, err := time.Parse(layout, m[1]); err == nil {
				dates = append(dates, d)
				break
			}
		}
	}
	if len(dates) == 0 {
		return "", ""
	}

	sort.Slice(dates, func(i, j int) bool { return dates[i].After(dates[j]) })

	current = quarterLabel(dates[0])
	if len(dates) > 1 {
		previous = quarterLabel(dates[1])
	}
	return current, previous
}

func quarterLabel(d time.Time) string {
	quarter := (int(d.Month())-1)/3 + 1
	return fmt.Sprintf("Q%d %d", quarter, d.Year())
}

// detectUnit returns the financial unit mentioned in the text, or "".
func detectUnit(text string) string {
	lower := strings.ToLower(text)
	for _, unit := range financialUnits {
		if strings.Contains(lower, strings.ToLower(unit)) {
			return unit
		}
	}
	return ""
}

// detectCompanyName pulls the company name from headings like
// "Statement of <name>". Best-effort, empty when nothing matches.
func detectCompanyName(text string) string {
	m := reCompany.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	name := m[1]
	if idx := strings.IndexAny(name, "\n\f"); idx >= 0 {
		name = name[:idx]
	}
	return strings.TrimSpace(name)
}

// annualYear returns the first four-digit year in the text, or "".
func annualYear(text string) string {
	return reYear.FindString(text)
}
