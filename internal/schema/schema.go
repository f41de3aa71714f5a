package schema

import (
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/mark3labs/mcp-go/mcp"
)

// Verbosity levels accepted wherever a schema carries a verbosity field.
const (
	VerbosityBrief    = "brief"
	VerbositySummary  = "summary"
	VerbosityDetailed = "detailed"
)

// DefaultLimit is the transaction filter page size applied when the caller
// omits limit. The schema never caps caller-supplied values; clamping is the
// adapter's job.
const DefaultLimit = 50

// Schema validates raw tool input and applies per-kind defaults.
type Schema struct {
	kind     Kind
	resolved *jsonschema.Resolved
	defaults map[string]any
}

// Kind returns the operation kind this schema was derived for.
func (s *Schema) Kind() Kind { return s.kind }

// Parse validates raw input and returns a defaulted copy. The input map is
// never mutated. A nil map is treated as an empty record.
func (s *Schema) Parse(raw map[string]any) (map[string]any, error) {
	if raw == nil {
		raw = map[string]any{}
	}
	if err := s.resolved.Validate(raw); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}

	out := make(map[string]any, len(raw)+len(s.defaults))
	for k, v := range raw {
		out[k] = v
	}
	for k, v := range s.defaults {
		if _, ok := out[k]; !ok {
			out[k] = v
		}
	}
	return out, nil
}

// mustResolve compiles a JSON Schema document given as a plain map.
// Schemas are static so a failure here is a programming error.
func mustResolve(doc map[string]any) *jsonschema.Resolved {
	data, err := json.Marshal(doc)
	if err != nil {
		panic(fmt.Sprintf("schema: marshal: %v", err))
	}
	var js jsonschema.Schema
	if err := json.Unmarshal(data, &js); err != nil {
		panic(fmt.Sprintf("schema: unmarshal: %v", err))
	}
	resolved, err := js.Resolve(nil)
	if err != nil {
		panic(fmt.Sprintf("schema: resolve: %v", err))
	}
	return resolved
}

func verbosityProperty() map[string]any {
	return map[string]any{"enum": []any{VerbosityBrief, VerbositySummary, VerbosityDetailed}}
}

var schemasByKind = map[Kind]*Schema{
	KindEmpty: {
		kind: KindEmpty,
		resolved: mustResolve(map[string]any{
			"type":                 "object",
			"additionalProperties": false,
		}),
	},
	KindLookupByID: {
		kind: KindLookupByID,
		resolved: mustResolve(map[string]any{
			"type":     "object",
			"required": []any{"id"},
			"properties": map[string]any{
				"id": map[string]any{"type": "string"},
			},
		}),
	},
	KindTransactionDetail: {
		kind: KindTransactionDetail,
		resolved: mustResolve(map[string]any{
			"type":     "object",
			"required": []any{"transactionId"},
			"properties": map[string]any{
				"transactionId": map[string]any{"type": "string"},
			},
		}),
	},
	KindTransactionFilter: {
		kind: KindTransactionFilter,
		resolved: mustResolve(map[string]any{
			"type": "object",
			"properties": map[string]any{
				"limit":     map[string]any{"type": "integer", "minimum": 1},
				"offset":    map[string]any{"type": "integer", "minimum": 0},
				"startDate": map[string]any{"type": "string"},
				"endDate":   map[string]any{"type": "string"},
				"accountIds": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
				"categoryIds": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
				"search": map[string]any{"type": "string"},
				"absAmountRange": map[string]any{
					"type":     "array",
					"items":    map[string]any{"type": []any{"number", "null"}},
					"minItems": 2,
					"maxItems": 2,
				},
				"verbosity": verbosityProperty(),
			},
		}),
		defaults: map[string]any{
			"limit":     DefaultLimit,
			"offset":    0,
			"verbosity": VerbositySummary,
		},
	},
	KindHistoryRange: {
		kind: KindHistoryRange,
		resolved: mustResolve(map[string]any{
			"type": "object",
			"properties": map[string]any{
				"startDate": map[string]any{"type": "string"},
				"endDate":   map[string]any{"type": "string"},
			},
		}),
	},
	KindMutationUpdate: {
		kind: KindMutationUpdate,
		resolved: mustResolve(map[string]any{
			"type":     "object",
			"required": []any{"id", "data"},
			"properties": map[string]any{
				"id":   map[string]any{"type": "string"},
				"data": map[string]any{"type": "object"},
			},
		}),
	},
	KindMutationCreate: {
		kind: KindMutationCreate,
		resolved: mustResolve(map[string]any{
			"type":     "object",
			"required": []any{"data"},
			"properties": map[string]any{
				"data": map[string]any{"type": "object"},
			},
		}),
	},
	KindAccountList: {
		kind: KindAccountList,
		resolved: mustResolve(map[string]any{
			"type": "object",
			"properties": map[string]any{
				"includeHidden": map[string]any{"type": "boolean"},
				"verbosity":     verbosityProperty(),
			},
		}),
		defaults: map[string]any{"verbosity": VerbositySummary},
	},
	KindPlainList: {
		kind: KindPlainList,
		resolved: mustResolve(map[string]any{
			"type": "object",
			"properties": map[string]any{
				"verbosity": verbosityProperty(),
			},
		}),
		defaults: map[string]any{"verbosity": VerbositySummary},
	},
}

// For returns the schema for an operation kind.
func For(kind Kind) *Schema {
	return schemasByKind[kind]
}

// Derive classifies an operation and returns its schema in one step.
func Derive(group, op string) *Schema {
	return For(Classify(group, op))
}

var smartQuerySchema = &Schema{
	kind: KindTransactionFilter,
	resolved: mustResolve(map[string]any{
		"type":     "object",
		"required": []any{"query"},
		"properties": map[string]any{
			"query":     map[string]any{"type": "string"},
			"verbosity": verbosityProperty(),
		},
	}),
	defaults: map[string]any{"verbosity": VerbositySummary},
}

// SmartQuery returns the schema for the synthesized free-text transaction
// query tool: a required query string plus verbosity.
func SmartQuery() *Schema { return smartQuerySchema }

// ToolOptions returns the mcp-go property options describing this kind's
// input fields, for inclusion in the tool definition.
func ToolOptions(kind Kind) []mcp.ToolOption {
	verbosity := mcp.WithString("verbosity",
		mcp.Description("Output size: 'brief', 'summary', or 'detailed' (default: summary)"),
		mcp.Enum(VerbosityBrief, VerbositySummary, VerbosityDetailed),
	)

	switch kind {
	case KindLookupByID:
		return []mcp.ToolOption{
			mcp.WithString("id", mcp.Required(), mcp.Description("Identifier of the record to fetch")),
		}
	case KindTransactionDetail:
		return []mcp.ToolOption{
			mcp.WithString("transactionId", mcp.Required(), mcp.Description("Transaction ID")),
		}
	case KindTransactionFilter:
		return []mcp.ToolOption{
			mcp.WithNumber("limit", mcp.Description("Maximum transactions to return (default: 50, max: 100)")),
			mcp.WithNumber("offset", mcp.Description("Number of transactions to skip (default: 0)")),
			mcp.WithString("startDate", mcp.Description("Start date in YYYY-MM-DD format (default: 30 days ago)")),
			mcp.WithString("endDate", mcp.Description("End date in YYYY-MM-DD format (default: today)")),
			mcp.WithArray("accountIds", mcp.WithStringItems(), mcp.Description("Restrict to these account IDs")),
			mcp.WithArray("categoryIds", mcp.WithStringItems(), mcp.Description("Restrict to these category IDs")),
			mcp.WithString("search", mcp.Description("Free-text merchant/description filter")),
			mcp.WithArray("absAmountRange", mcp.Description("Absolute amount range [min, max]; either bound may be null")),
			verbosity,
		}
	case KindHistoryRange:
		return []mcp.ToolOption{
			mcp.WithString("startDate", mcp.Description("Start date in YYYY-MM-DD format")),
			mcp.WithString("endDate", mcp.Description("End date in YYYY-MM-DD format")),
		}
	case KindMutationUpdate:
		return []mcp.ToolOption{
			mcp.WithString("id", mcp.Required(), mcp.Description("Identifier of the record to update")),
			mcp.WithObject("data", mcp.Required(), mcp.Description("Fields to set on the record")),
		}
	case KindMutationCreate:
		return []mcp.ToolOption{
			mcp.WithObject("data", mcp.Required(), mcp.Description("Fields for the new record")),
		}
	case KindAccountList:
		return []mcp.ToolOption{
			mcp.WithBoolean("includeHidden", mcp.Description("Include hidden accounts (default: false)")),
			verbosity,
		}
	case KindPlainList:
		return []mcp.ToolOption{verbosity}
	default:
		return nil
	}
}
