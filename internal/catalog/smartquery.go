package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/UnbankableCode/monarchmoney-mcp/internal/common"
	"github.com/UnbankableCode/monarchmoney-mcp/internal/nlq"
	"github.com/UnbankableCode/monarchmoney-mcp/internal/render"
	"github.com/UnbankableCode/monarchmoney-mcp/internal/schema"
)

// fallbackQueryLimit is the page size used when the query text carries no
// count of its own.
const fallbackQueryLimit = 25

// smartQueryTool synthesizes the free-text transaction query tool. It is
// only added when the client itself did not produce a tool with this name.
func smartQueryTool(client Invoker, ensureAuth AuthFunc, logger *common.Logger) Tool {
	def := mcp.NewTool(smartQueryKey,
		mcp.WithDescription("Query transactions in plain English, e.g. 'last 5 amazon purchases over $20' or 'largest transactions this month'."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Free-text transaction query")),
		mcp.WithString("verbosity",
			mcp.Description("Output size: 'brief', 'summary', or 'detailed' (default: summary)"),
			mcp.Enum(schema.VerbosityBrief, schema.VerbositySummary, schema.VerbosityDetailed),
		),
	)

	return Tool{
		Key:     smartQueryKey,
		Def:     def,
		Handler: smartQueryHandler(client, ensureAuth, logger),
	}
}

func smartQueryHandler(client Invoker, ensureAuth AuthFunc, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		log := logger.WithCorrelationId(uuid.New().String())

		input, err := schema.SmartQuery().Parse(req.GetArguments())
		if err != nil {
			return errorResult(fmt.Sprintf("%s: %v", smartQueryKey, err)), nil
		}
		query, _ := input["query"].(string)

		if err := ensureAuth(ctx); err != nil {
			return errorResult(fmt.Sprintf("%s: %v", smartQueryKey, err)), nil
		}

		filters := nlq.Parse(query)
		filter := filters.Record()
		if _, ok := filter["limit"]; !ok {
			filter["limit"] = fallbackQueryLimit
		}

		var raw any
		if client.Supports(smartQueryKey) {
			// The client carries a native smart-query operation; prefer it.
			raw, err = client.Call(ctx, smartQueryKey, []any{map[string]any{"query": query}})
		} else {
			raw, err = client.Call(ctx, "transactions_getTransactions", []any{filter})
		}
		if err != nil {
			log.Error().Err(err).Str("tool", smartQueryKey).Msg("tool call failed")
			return errorResult(fmt.Sprintf("%s failed: %v", smartQueryKey, err)), nil
		}

		tagged := &render.TaggedTransactions{
			Transactions: transactionList(raw),
			Query:        query,
			Filters:      filter,
		}

		fmtInput := map[string]any{"verbosity": input["verbosity"]}
		if filters.SortByAmount != "" {
			fmtInput["_sortByAmount"] = filters.SortByAmount
		}

		return textResult(render.Format(smartQueryKey, tagged, fmtInput)), nil
	}
}

// transactionList normalizes a raw result into a transaction slice,
// unwrapping a top-level "transactions" field when the response carries one.
func transactionList(raw any) []any {
	switch v := raw.(type) {
	case []any:
		return v
	case map[string]any:
		if list, ok := v["transactions"].([]any); ok {
			return list
		}
	}
	return nil
}
