package nlq

import (
	"reflect"
	"testing"
	"time"
)

// Thursday 2026-08-20; week-relative windows count from Monday 2026-08-17.
var fixedNow = time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

func TestParseCountAndMerchant(t *testing.T) {
	f := parseAt("last 3 amazon purchases", fixedNow)
	if f.Limit != 3 {
		t.Errorf("Limit = %d, want 3", f.Limit)
	}
	if f.Search != "amazon" {
		t.Errorf("Search = %q, want amazon", f.Search)
	}
}

func TestParseCountBeforeSizeWord(t *testing.T) {
	f := parseAt("5 largest transactions", fixedNow)
	if f.Limit != 5 {
		t.Errorf("Limit = %d, want 5", f.Limit)
	}
	if f.SortByAmount != "desc" {
		t.Errorf("SortByAmount = %q, want desc", f.SortByAmount)
	}
}

// A dollar figure must never be mistaken for a count.
func TestParseAmountIsNotACount(t *testing.T) {
	f := parseAt("transactions over $200", fixedNow)
	if f.Limit != 0 {
		t.Errorf("Limit = %d, want 0", f.Limit)
	}
	if f.AmountMin == nil || *f.AmountMin != 200 {
		t.Errorf("AmountMin = %v, want 200", f.AmountMin)
	}
}

func TestParseAmountBounds(t *testing.T) {
	f := parseAt("purchases over $10.50 and under $1,000", fixedNow)
	if f.AmountMin == nil || *f.AmountMin != 10.5 {
		t.Errorf("AmountMin = %v", f.AmountMin)
	}
	if f.AmountMax == nil || *f.AmountMax != 1000 {
		t.Errorf("AmountMax = %v", f.AmountMax)
	}
}

func TestParseOversizedCountIgnored(t *testing.T) {
	f := parseAt("last 999 transactions", fixedNow)
	if f.Limit != 0 {
		t.Errorf("Limit = %d, want 0 for out-of-range count", f.Limit)
	}
}

func TestParseDateWindows(t *testing.T) {
	tests := []struct {
		query      string
		start, end string
	}{
		{"spending this month", "2026-08-01", "2026-08-20"},
		{"spending last month", "2026-07-01", "2026-07-31"},
		{"spending this week", "2026-08-17", "2026-08-20"},
	}
	for _, tt := range tests {
		f := parseAt(tt.query, fixedNow)
		if f.StartDate != tt.start || f.EndDate != tt.end {
			t.Errorf("%q: window = %s..%s, want %s..%s",
				tt.query, f.StartDate, f.EndDate, tt.start, tt.end)
		}
	}
}

func TestParseSortDirections(t *testing.T) {
	if f := parseAt("biggest purchases", fixedNow); f.SortByAmount != "desc" {
		t.Errorf("desc: %q", f.SortByAmount)
	}
	if f := parseAt("smallest charges", fixedNow); f.SortByAmount != "asc" {
		t.Errorf("asc: %q", f.SortByAmount)
	}
	if f := parseAt("recent purchases", fixedNow); f.SortByAmount != "" {
		t.Errorf("no directive: %q", f.SortByAmount)
	}
}

func TestParseMerchantFirstMatchWins(t *testing.T) {
	f := parseAt("amazon and netflix charges", fixedNow)
	if f.Search != "amazon" {
		t.Errorf("Search = %q, want amazon", f.Search)
	}
}

func TestParseCategoryKeywords(t *testing.T) {
	tests := map[string]string{
		"uber rides":            "uber",
		"lyft rides":            "uber",
		"grocery runs":          "grocery",
		"gas stations":          "gas",
		"my subscriptions":      "subscription",
		"youtube premium":       "google",
		"dining out last month": "restaurant",
	}
	for query, want := range tests {
		if f := parseAt(query, fixedNow); f.Search != want {
			t.Errorf("%q: Search = %q, want %q", query, f.Search, want)
		}
	}
}

func TestParseUnrecognizedQuery(t *testing.T) {
	f := parseAt("what did I spend on stuff", fixedNow)
	if !reflect.DeepEqual(f, Filters{}) {
		t.Errorf("expected empty filters, got %+v", f)
	}
	if len(f.Record()) != 0 {
		t.Errorf("Record() = %v, want empty", f.Record())
	}
}

func TestRecordShape(t *testing.T) {
	min := 10.0
	f := Filters{Limit: 3, Search: "amazon", AmountMin: &min}
	rec := f.Record()

	if rec["limit"] != 3 || rec["search"] != "amazon" {
		t.Errorf("rec = %v", rec)
	}
	rng, ok := rec["absAmountRange"].([]any)
	if !ok || len(rng) != 2 {
		t.Fatalf("absAmountRange = %v", rec["absAmountRange"])
	}
	if rng[0] != 10.0 || rng[1] != nil {
		t.Errorf("range = %v", rng)
	}
	if _, ok := rec["startDate"]; ok {
		t.Errorf("unset field leaked: %v", rec)
	}
}

func TestCombinedQuery(t *testing.T) {
	f := parseAt("last 3 amazon purchases over $10 this month", fixedNow)
	if f.Limit != 3 || f.Search != "amazon" {
		t.Errorf("filters = %+v", f)
	}
	if f.AmountMin == nil || *f.AmountMin != 10 {
		t.Errorf("AmountMin = %v", f.AmountMin)
	}
	if f.StartDate != "2026-08-01" {
		t.Errorf("StartDate = %q", f.StartDate)
	}
}
