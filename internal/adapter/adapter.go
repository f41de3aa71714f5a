// Package adapter converts validated tool input into the positional
// argument list the upstream operation expects.
package adapter

import (
	"time"

	"github.com/UnbankableCode/monarchmoney-mcp/internal/schema"
)

// MaxTransactionLimit caps the transaction page size regardless of what the
// caller asked for. Validation happily accepts larger values; the clamp
// happens here, after defaulting.
const MaxTransactionLimit = 100

// DefaultWindowDays is the trailing window synthesized for transaction
// filters that carry neither startDate nor endDate.
const DefaultWindowDays = 30

// timeNow is swapped in tests to pin the synthesized date window.
var timeNow = time.Now

// zeroArgOps are upstream operations that take no arguments at all; any
// validated input is ignored for these.
var zeroArgOps = map[string]bool{
	"getMe":                  true,
	"getSubscriptionDetails": true,
	"institutions_getAll":    true,
	"recurring_getAll":       true,
}

// Adapt builds the positional argument list for one operation. It must run
// after schema validation and defaulting so that defaults (e.g. limit=50)
// are present before clamping and date-filling.
func Adapt(key string, kind schema.Kind, input map[string]any) []any {
	if zeroArgOps[key] {
		return nil
	}

	switch kind {
	case schema.KindLookupByID:
		return []any{input["id"]}

	case schema.KindTransactionDetail:
		return []any{input["transactionId"]}

	case schema.KindHistoryRange:
		// Empty range means skip the fetch entirely rather than pull all
		// history; the caller sees an argument-free invocation.
		if !hasDateBound(input) {
			return nil
		}
		return []any{cloneRecord(input)}

	case schema.KindTransactionFilter:
		out := cloneRecord(input)
		if limit, ok := intValue(out["limit"]); ok && limit > MaxTransactionLimit {
			out["limit"] = MaxTransactionLimit
		}
		if !hasDateBound(out) {
			today := timeNow()
			out["endDate"] = today.Format("2006-01-02")
			out["startDate"] = today.AddDate(0, 0, -DefaultWindowDays).Format("2006-01-02")
		}
		return []any{out}

	case schema.KindMutationUpdate:
		return []any{input["id"], input["data"]}

	case schema.KindMutationCreate:
		return []any{input["data"]}

	default:
		if len(input) == 0 {
			return nil
		}
		return []any{cloneRecord(input)}
	}
}

func hasDateBound(input map[string]any) bool {
	if s, ok := input["startDate"].(string); ok && s != "" {
		return true
	}
	if s, ok := input["endDate"].(string); ok && s != "" {
		return true
	}
	return false
}

func cloneRecord(input map[string]any) map[string]any {
	out := make(map[string]any, len(input))
	for k, v := range input {
		out[k] = v
	}
	return out
}

// intValue coerces the numeric representations JSON decoding can produce.
func intValue(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}
