package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"golang.org/x/sync/errgroup"

	"github.com/UnbankableCode/monarchmoney-mcp/internal/common"
	"github.com/UnbankableCode/monarchmoney-mcp/internal/schema"
)

// onTrackThreshold is the spent/budgeted ratio below which a budget counts
// as on track.
const onTrackThreshold = 0.8

// budgetUnavailableMessage is the fixed degradation string for budget
// variance. This tool deliberately swallows its own failure instead of
// failing the invocation.
const budgetUnavailableMessage = "Budget data unavailable."

// summaryStatsLimit bounds the transaction page pulled by summary tools.
const summaryStatsLimit = 100

// summaryTools builds the synthesized cross-cutting tools that compose
// multiple raw calls. Their handlers return already-formatted strings that
// the renderer passes through unchanged.
func summaryTools(client Invoker, ensureAuth AuthFunc, logger *common.Logger) []Tool {
	rangeOpts := []mcp.ToolOption{
		mcp.WithString("startDate", mcp.Description("Start date in YYYY-MM-DD format (default: 30 days ago)")),
		mcp.WithString("endDate", mcp.Description("End date in YYYY-MM-DD format (default: today)")),
	}

	return []Tool{
		{
			Key: "summary_spendingByCategory",
			Def: mcp.NewTool("summary_spendingByCategory",
				append([]mcp.ToolOption{mcp.WithDescription("Total spending per category over a date range (default: last 30 days).")}, rangeOpts...)...),
			Handler: summaryHandler(client, ensureAuth, "summary_spendingByCategory", spendingByCategory),
		},
		{
			Key: "summary_balanceTrend",
			Def: mcp.NewTool("summary_balanceTrend",
				append([]mcp.ToolOption{mcp.WithDescription("Net worth trend over a date range: start, end, and net change.")}, rangeOpts...)...),
			Handler: summaryHandler(client, ensureAuth, "summary_balanceTrend", balanceTrend),
		},
		{
			Key: "summary_budgetVariance",
			Def: mcp.NewTool("summary_budgetVariance",
				mcp.WithDescription("Per-budget spent vs budgeted variance with on-track status.")),
			Handler: summaryHandler(client, ensureAuth, "summary_budgetVariance", budgetVariance),
		},
		{
			Key: "summary_quickStats",
			Def: mcp.NewTool("summary_quickStats",
				mcp.WithDescription("One-screen overview: account totals plus last-30-day transaction activity.")),
			Handler: summaryHandler(client, ensureAuth, "summary_quickStats", quickStats),
		},
	}
}

type summaryFunc func(ctx context.Context, client Invoker, input map[string]any) (string, error)

// summaryHandler wraps a summary computation in the standard pipeline:
// validate, authenticate, compute, wrap failures with the tool key.
func summaryHandler(client Invoker, ensureAuth AuthFunc, key string, fn summaryFunc) server.ToolHandlerFunc {
	s := schema.For(schema.KindHistoryRange)
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		input, err := s.Parse(req.GetArguments())
		if err != nil {
			return errorResult(fmt.Sprintf("%s: %v", key, err)), nil
		}
		if err := ensureAuth(ctx); err != nil {
			return errorResult(fmt.Sprintf("%s: %v", key, err)), nil
		}
		text, err := fn(ctx, client, input)
		if err != nil {
			return errorResult(fmt.Sprintf("%s failed: %v", key, err)), nil
		}
		return textResult(text), nil
	}
}

// dateWindow returns the requested range, defaulting to a 30-day trailing
// window ending today.
func dateWindow(input map[string]any) (string, string) {
	start, _ := input["startDate"].(string)
	end, _ := input["endDate"].(string)
	if start == "" && end == "" {
		today := time.Now()
		return today.AddDate(0, 0, -30).Format("2006-01-02"), today.Format("2006-01-02")
	}
	return start, end
}

func spendingByCategory(ctx context.Context, client Invoker, input map[string]any) (string, error) {
	start, end := dateWindow(input)
	filter := map[string]any{"limit": summaryStatsLimit, "startDate": start, "endDate": end}

	raw, err := client.Call(ctx, "transactions_getTransactions", []any{filter})
	if err != nil {
		return "", err
	}
	items := transactionList(raw)

	totals := map[string]float64{}
	for _, item := range items {
		rec, ok := item.(map[string]any)
		if !ok {
			continue
		}
		amount, _ := rec["amount"].(float64)
		if amount >= 0 {
			continue // spending only
		}
		category, _ := rec["category"].(string)
		if category == "" {
			category = "Uncategorized"
		}
		totals[category] += -amount
	}

	names := make([]string, 0, len(totals))
	for name := range totals {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if totals[names[i]] != totals[names[j]] {
			return totals[names[i]] > totals[names[j]]
		}
		return names[i] < names[j]
	})

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# Spending by Category (%s to %s)\n\n", start, end))
	if len(names) == 0 {
		sb.WriteString("No spending found in this period.\n")
		return sb.String(), nil
	}

	total := 0.0
	for _, name := range names {
		sb.WriteString(fmt.Sprintf("- %s: %s\n", name, common.FormatWholeMoney(totals[name])))
		total += totals[name]
	}
	sb.WriteString(fmt.Sprintf("\n**Total spending:** %s\n", common.FormatWholeMoney(total)))
	return sb.String(), nil
}

func balanceTrend(ctx context.Context, client Invoker, input map[string]any) (string, error) {
	// History calls skip arguments entirely when no bound is set.
	var args []any
	start, _ := input["startDate"].(string)
	end, _ := input["endDate"].(string)
	if start != "" || end != "" {
		args = []any{map[string]any{"startDate": start, "endDate": end}}
	}

	raw, err := client.Call(ctx, "accounts_getNetWorthHistory", args)
	if err != nil {
		return "", err
	}
	points, _ := raw.([]any)
	if len(points) == 0 {
		return "No balance history found.", nil
	}

	value := func(item any) (string, float64) {
		rec, ok := item.(map[string]any)
		if !ok {
			return "", 0
		}
		date, _ := rec["date"].(string)
		for _, k := range []string{"netWorth", "balance", "value"} {
			if v, ok := rec[k].(float64); ok {
				return date, v
			}
		}
		return date, 0
	}

	firstDate, firstValue := value(points[0])
	lastDate, lastValue := value(points[len(points)-1])
	change := lastValue - firstValue
	changePct := 0.0
	if firstValue != 0 {
		changePct = change / firstValue * 100
	}

	var sb strings.Builder
	sb.WriteString("# Balance Trend\n\n")
	sb.WriteString(fmt.Sprintf("**%s:** %s\n", firstDate, common.FormatMoney(firstValue)))
	sb.WriteString(fmt.Sprintf("**%s:** %s\n", lastDate, common.FormatMoney(lastValue)))
	sb.WriteString(fmt.Sprintf("**Change:** %s (%s) over %d data points\n",
		common.FormatSignedMoney(change), common.FormatSignedPct(changePct), len(points)))
	return sb.String(), nil
}

// budgetVariance degrades to a fixed message on any internal failure rather
// than failing the invocation.
func budgetVariance(ctx context.Context, client Invoker, input map[string]any) (string, error) {
	text, err := computeBudgetVariance(ctx, client)
	if err != nil {
		return budgetUnavailableMessage, nil
	}
	return text, nil
}

func computeBudgetVariance(ctx context.Context, client Invoker) (string, error) {
	raw, err := client.Call(ctx, "budgets_getAll", nil)
	if err != nil {
		return "", err
	}
	items, ok := raw.([]any)
	if !ok {
		return "", fmt.Errorf("unexpected budget response shape")
	}
	if len(items) == 0 {
		return "No budgets found.", nil
	}

	var sb strings.Builder
	sb.WriteString("# Budget Variance\n\n")
	for _, item := range items {
		rec, ok := item.(map[string]any)
		if !ok {
			continue
		}
		name, _ := rec["name"].(string)
		budgeted, _ := rec["budgeted"].(float64)
		spent, _ := rec["spent"].(float64)

		status := "on track"
		switch {
		case budgeted > 0 && spent > budgeted:
			status = "over budget"
		case budgeted > 0 && spent > budgeted*onTrackThreshold:
			status = "near limit"
		}

		sb.WriteString(fmt.Sprintf("- %s: %s of %s (%d%%) — %s\n",
			name, common.FormatMoney(spent), common.FormatMoney(budgeted),
			common.BudgetPercent(spent, budgeted), status))
	}
	return sb.String(), nil
}

// quickStats issues its two fetches concurrently; they are independent and
// the combined output is deterministic regardless of completion order.
func quickStats(ctx context.Context, client Invoker, input map[string]any) (string, error) {
	start, end := dateWindow(input)

	var accounts, transactions any
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		accounts, err = client.Call(gctx, "accounts_getAll", nil)
		return err
	})
	g.Go(func() error {
		filter := map[string]any{"limit": summaryStatsLimit, "startDate": start, "endDate": end}
		var err error
		transactions, err = client.Call(gctx, "transactions_getTransactions", []any{filter})
		return err
	})
	if err := g.Wait(); err != nil {
		return "", err
	}

	accountItems, _ := accounts.([]any)
	totalBalance := 0.0
	for _, item := range accountItems {
		if rec, ok := item.(map[string]any); ok {
			if b, ok := rec["currentBalance"].(float64); ok {
				totalBalance += b
			} else if b, ok := rec["balance"].(float64); ok {
				totalBalance += b
			}
		}
	}

	txnItems := transactionList(transactions)
	spent := 0.0
	earned := 0.0
	for _, item := range txnItems {
		if rec, ok := item.(map[string]any); ok {
			if amt, ok := rec["amount"].(float64); ok {
				if amt < 0 {
					spent += -amt
				} else {
					earned += amt
				}
			}
		}
	}

	var sb strings.Builder
	sb.WriteString("# Quick Stats\n\n")
	sb.WriteString(fmt.Sprintf("**Accounts:** %d, total balance %s\n", len(accountItems), common.FormatMoney(totalBalance)))
	sb.WriteString(fmt.Sprintf("**Transactions (%s to %s):** %d\n", start, end, len(txnItems)))
	sb.WriteString(fmt.Sprintf("**Spent:** %s\n", common.FormatMoney(spent)))
	sb.WriteString(fmt.Sprintf("**Received:** %s\n", common.FormatMoney(earned)))
	return sb.String(), nil
}
