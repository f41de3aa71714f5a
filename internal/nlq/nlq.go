// Package nlq extracts structured transaction filters from free-text
// queries. Extraction is best-effort: a pattern that does not match simply
// leaves its field unset, and parsing never fails.
package nlq

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Filters is the partial transaction filter extracted from a query.
// Unset fields are omitted from Record().
type Filters struct {
	Limit        int
	Search       string
	StartDate    string
	EndDate      string
	AmountMin    *float64
	AmountMax    *float64
	SortByAmount string // "desc" | "asc" | ""
}

// Record converts the filters into a transaction-filter request map,
// dropping unset fields. The sort directive is a rendering concern and is
// deliberately not included here.
func (f Filters) Record() map[string]any {
	out := map[string]any{}
	if f.Limit > 0 {
		out["limit"] = f.Limit
	}
	if f.Search != "" {
		out["search"] = f.Search
	}
	if f.StartDate != "" {
		out["startDate"] = f.StartDate
	}
	if f.EndDate != "" {
		out["endDate"] = f.EndDate
	}
	if f.AmountMin != nil || f.AmountMax != nil {
		rng := []any{nil, nil}
		if f.AmountMin != nil {
			rng[0] = *f.AmountMin
		}
		if f.AmountMax != nil {
			rng[1] = *f.AmountMax
		}
		out["absAmountRange"] = rng
	}
	return out
}

// The count pattern requires a leading keyword so it can never consume the
// dollar figure matched by the amount-threshold patterns below. Rule order
// within this file is the tie-break and must be preserved.
var (
	countAfterKeyword = regexp.MustCompile(`(?i)\b(?:last|top|first|recent)\s+(\d{1,3})\b`)
	countBeforeSize   = regexp.MustCompile(`(?i)\b(\d{1,3})\s+(?:largest|biggest|smallest|most recent)\b`)

	amountOver  = regexp.MustCompile(`(?i)\b(?:over|above|more than)\s+\$?([\d,]+(?:\.\d{1,2})?)`)
	amountUnder = regexp.MustCompile(`(?i)\b(?:under|below|less than)\s+\$?([\d,]+(?:\.\d{1,2})?)`)

	sortDesc = regexp.MustCompile(`(?i)\b(?:largest|biggest|highest)\b`)
	sortAsc  = regexp.MustCompile(`(?i)\b(?:smallest|lowest)\b`)
)

// merchantPatterns is an ordered list of brand/category matchers; the first
// match wins and the search stops.
var merchantPatterns = []struct {
	re     *regexp.Regexp
	search string
}{
	{regexp.MustCompile(`(?i)\bamazon\b`), "amazon"},
	{regexp.MustCompile(`(?i)\bwalmart\b`), "walmart"},
	{regexp.MustCompile(`(?i)\btarget\b`), "target"},
	{regexp.MustCompile(`(?i)\bcostco\b`), "costco"},
	{regexp.MustCompile(`(?i)\bstarbucks\b`), "starbucks"},
	{regexp.MustCompile(`(?i)\bmcdonald'?s?\b`), "mcdonalds"},
	{regexp.MustCompile(`(?i)\bnetflix\b`), "netflix"},
	{regexp.MustCompile(`(?i)\bspotify\b`), "spotify"},
	{regexp.MustCompile(`(?i)\b(?:uber|lyft)\b`), "uber"},
	{regexp.MustCompile(`(?i)\bapple\b`), "apple"},
	{regexp.MustCompile(`(?i)\b(?:google|youtube)\b`), "google"},
	{regexp.MustCompile(`(?i)\b(?:gas|fuel)\b`), "gas"},
	{regexp.MustCompile(`(?i)\b(?:restaurant|dining)\b`), "restaurant"},
	{regexp.MustCompile(`(?i)\b(?:grocery|groceries)\b`), "grocery"},
	{regexp.MustCompile(`(?i)\bsubscriptions?\b`), "subscription"},
}

// Parse extracts filters from a free-text query relative to the current date.
func Parse(query string) Filters {
	return parseAt(query, time.Now())
}

func parseAt(query string, now time.Time) Filters {
	var f Filters

	if m := countAfterKeyword.FindStringSubmatch(query); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n <= 100 {
			f.Limit = n
		}
	} else if m := countBeforeSize.FindStringSubmatch(query); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n <= 100 {
			f.Limit = n
		}
	}

	for _, mp := range merchantPatterns {
		if mp.re.MatchString(query) {
			f.Search = mp.search
			break
		}
	}

	lower := strings.ToLower(query)
	switch {
	case strings.Contains(lower, "this month"):
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		f.StartDate = start.Format("2006-01-02")
		f.EndDate = now.Format("2006-01-02")
	case strings.Contains(lower, "last month"):
		firstOfThis := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		start := firstOfThis.AddDate(0, -1, 0)
		f.StartDate = start.Format("2006-01-02")
		f.EndDate = firstOfThis.AddDate(0, 0, -1).Format("2006-01-02")
	case strings.Contains(lower, "this week"):
		// Week starts on Monday.
		offset := (int(now.Weekday()) + 6) % 7
		f.StartDate = now.AddDate(0, 0, -offset).Format("2006-01-02")
		f.EndDate = now.Format("2006-01-02")
	}

	if m := amountOver.FindStringSubmatch(query); m != nil {
		if v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64); err == nil {
			f.AmountMin = &v
		}
	}
	if m := amountUnder.FindStringSubmatch(query); m != nil {
		if v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64); err == nil {
			f.AmountMax = &v
		}
	}

	if sortDesc.MatchString(query) {
		f.SortByAmount = "desc"
	} else if sortAsc.MatchString(query) {
		f.SortByAmount = "asc"
	}

	return f
}
