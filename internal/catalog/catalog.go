// Package catalog builds the MCP tool catalog from the client's statically
// declared operations: one schema-validated tool per operation, plus the
// synthesized smart-query and summary tools.
package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/UnbankableCode/monarchmoney-mcp/internal/adapter"
	"github.com/UnbankableCode/monarchmoney-mcp/internal/common"
	"github.com/UnbankableCode/monarchmoney-mcp/internal/render"
	"github.com/UnbankableCode/monarchmoney-mcp/internal/schema"
)

// Invoker is the slice of the Monarch client the catalog needs: static
// operation enumeration and generic invocation by identity key.
type Invoker interface {
	HasGroup(group string) bool
	Operations(group string) []string
	TopLevelOperations() []string
	Supports(key string) bool
	Call(ctx context.Context, key string, args []any) (any, error)
}

// AuthFunc is the authentication gate awaited before every upstream call.
type AuthFunc func(ctx context.Context) error

// Tool pairs an MCP tool definition with its handler.
type Tool struct {
	Key     string
	Def     mcp.Tool
	Handler server.ToolHandlerFunc
}

// groups is the fixed list of logical operation groups, in catalog order.
var groups = []string{
	"accounts", "transactions", "budgets", "categories",
	"cashflow", "recurring", "institutions", "insights",
}

const smartQueryKey = "transactions_smartQuery"

// Build assembles the tool catalog. Tool names are unique: a generated tool
// always wins over a synthesized one with the same name.
func Build(client Invoker, ensureAuth AuthFunc, logger *common.Logger) []Tool {
	var tools []Tool
	seen := map[string]bool{}

	add := func(t Tool) {
		if seen[t.Key] {
			logger.Warn().Str("name", t.Key).Msg("skipping duplicate catalog tool")
			return
		}
		seen[t.Key] = true
		tools = append(tools, t)
	}

	for _, group := range groups {
		if !client.HasGroup(group) {
			continue
		}
		for _, op := range client.Operations(group) {
			add(operationTool(client, ensureAuth, logger, group, op))
		}
	}

	if !seen[smartQueryKey] && client.HasGroup("transactions") {
		add(smartQueryTool(client, ensureAuth, logger))
	}

	for _, op := range client.TopLevelOperations() {
		add(operationTool(client, ensureAuth, logger, "client", op))
	}

	for _, t := range summaryTools(client, ensureAuth, logger) {
		add(t)
	}

	return tools
}

// Register adds every catalog tool to the MCP server.
func Register(s *server.MCPServer, tools []Tool) {
	for _, t := range tools {
		s.AddTool(t.Def, t.Handler)
	}
}

// identityKey is group_operation, or the bare operation for top-level calls.
func identityKey(group, op string) string {
	if group == "client" {
		return op
	}
	return group + "_" + op
}

// operationTool builds the tool definition and handler for one upstream
// operation.
func operationTool(client Invoker, ensureAuth AuthFunc, logger *common.Logger, group, op string) Tool {
	key := identityKey(group, op)
	kind := schema.Classify(group, op)
	s := schema.For(kind)

	opts := append([]mcp.ToolOption{mcp.WithDescription(describe(group, op, kind))}, schema.ToolOptions(kind)...)
	def := mcp.NewTool(key, opts...)

	return Tool{
		Key:     key,
		Def:     def,
		Handler: operationHandler(client, ensureAuth, logger, key, kind, s),
	}
}

// operationHandler is the generic invocation pipeline shared by every
// generated tool: validate, authenticate, locate, adapt, call, format.
// Validation failures surface before authentication is attempted.
func operationHandler(client Invoker, ensureAuth AuthFunc, logger *common.Logger, key string, kind schema.Kind, s *schema.Schema) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		log := logger.WithCorrelationId(uuid.New().String())

		input, err := s.Parse(req.GetArguments())
		if err != nil {
			return errorResult(fmt.Sprintf("%s: %v", key, err)), nil
		}

		if err := ensureAuth(ctx); err != nil {
			return errorResult(fmt.Sprintf("%s: %v", key, err)), nil
		}

		if !client.Supports(key) {
			return errorResult(fmt.Sprintf("unsupported tool: %s", key)), nil
		}

		args := adapter.Adapt(key, kind, input)
		raw, err := client.Call(ctx, key, args)
		if err != nil {
			log.Error().Err(err).Str("tool", key).Msg("tool call failed")
			return errorResult(fmt.Sprintf("%s failed: %v", key, err)), nil
		}

		log.Debug().Str("tool", key).Msg("tool call succeeded")
		return textResult(render.Format(key, raw, input)), nil
	}
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(text)},
	}
}

func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(message)},
		IsError: true,
	}
}

// descriptions for operations whose generated text would be too vague.
var descriptions = map[string]string{
	"accounts_getAll":                     "List all linked accounts with balances. Set includeHidden to include hidden accounts.",
	"accounts_getById":                    "Get a single account by ID.",
	"accounts_getBalances":                "Get current balances across all accounts.",
	"accounts_getNetWorthHistory":         "Get net worth history, optionally bounded by startDate/endDate.",
	"transactions_getTransactions":        "Search transactions with filters: date range, accounts, categories, search text, amount range. Defaults to the last 30 days.",
	"transactions_getTransactionDetails":  "Get full details for a single transaction.",
	"transactions_getTransactionsSummary": "Get an aggregate income/expense summary for a transaction filter.",
	"transactions_createTransaction":      "Create a manual transaction.",
	"transactions_updateTransaction":      "Update fields on an existing transaction.",
	"budgets_getAll":                      "List budgets with budgeted and spent amounts.",
	"budgets_update":                      "Update a budget's fields, e.g. the budgeted amount.",
	"categories_getAll":                   "List transaction categories.",
	"categories_create":                   "Create a transaction category.",
	"cashflow_getCashflow":                "Get cashflow broken down by category and month.",
	"cashflow_getCashflowSummary":         "Get the overall income/expense/savings summary.",
	"recurring_getAll":                    "List recurring merchants and upcoming charges.",
	"institutions_getAll":                 "List linked financial institutions.",
	"insights_getSpendingOverTime":        "Get spending totals over time, optionally bounded by startDate/endDate.",
	"getMe":                               "Get the authenticated user's profile.",
	"getSubscriptionDetails":              "Get Monarch subscription details.",
}

func describe(group, op string, kind schema.Kind) string {
	if d, ok := descriptions[identityKey(group, op)]; ok {
		return d
	}
	if group == "client" {
		return fmt.Sprintf("Call the %s operation (%s).", op, kind)
	}
	return fmt.Sprintf("Call the %s %s operation (%s).", group, op, kind)
}
