package service

import "strings"

// Financial statement line-item synonyms with match priority. Lower number
// wins when several terms appear in the same row, so the more specific label
// ("Revenue from operations") beats the generic one ("Revenue").
var revenueTerms = map[string]int{
	"revenue from operations": 1,
	"total revenue":           2,
	"turnover":                3,
	"net sales":               4,
	"gross revenue":           5,
	"operating revenue":       6,
	"revenues":                7,
	"receipts":                8,
	"income from operations":  9,
	"business income":         10,
	"gross sales":             11,
	"revenue":                 12,
}

var operatingProfitTerms = map[string]int{
	"operating profit":                 1,
	"ebit":                             2,
	"earnings before interest and tax": 3,
	"profit before tax":                4,
	"pbit":                             5,
	"operating income":                 6,
	"operating earnings":               7,
	"core earnings":                    8,
	"nopat":                            9,
	"operating margin":                 10,
	"pre-tax operating profit":         11,
}

var netProfitTerms = map[string]int{
	"net profit":                 1,
	"net income":                 2,
	"profit after tax":           3,
	"earnings after tax":         4,
	"final profit":               5,
	"net earnings":               6,
	"total comprehensive income": 7,
	"post-tax profit":            8,
}

// matchTerm finds the highest-priority term present in the line and returns
// the rest of the line after its occurrence, so callers can look for values
// to the right of the label. The returned fragment comes from the lowered
// line: lowercasing can change a rune's byte length, so offsets into the
// lowered string must never be applied to the original.
func matchTerm(terms map[string]int, line string) (fragment string, ok bool) {
	lower := strings.ToLower(line)

	best := -1
	bestPriority := 0
	for term, priority := range terms {
		idx := strings.Index(lower, term)
		if idx < 0 {
			continue
		}
		if best < 0 || priority < bestPriority {
			best = idx + len(term)
			bestPriority = priority
		}
	}
	if best < 0 {
		return "", false
	}
	return lower[best:], true
}
