// Package render turns raw upstream results into bounded, verbosity-aware
// text for tool responses.
package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/UnbankableCode/monarchmoney-mcp/internal/common"
	"github.com/UnbankableCode/monarchmoney-mcp/internal/schema"
)

// TaggedTransactions carries a transaction list together with the free-text
// query that produced it, so the renderer can show provenance.
type TaggedTransactions struct {
	Transactions []any
	Query        string
	Filters      map[string]any
}

// summaryToolKeys are synthesized tools whose handlers produce an
// already-formatted string; Format passes those through untouched.
var summaryToolKeys = map[string]bool{
	"summary_spendingByCategory": true,
	"summary_balanceTrend":       true,
	"summary_budgetVariance":     true,
	"summary_quickStats":         true,
}

// importantFields is the allow-list used when rendering an untyped record
// that is neither a financial summary nor an account card.
var importantFields = []string{
	"id", "name", "displayName", "email", "date", "amount", "balance",
	"currency", "type", "subtype", "status", "total", "count",
	"createdAt", "updatedAt",
}

// Format renders a raw result for the given tool identity key. The original
// validated input supplies verbosity and the optional sort directive; it is
// never mutated.
func Format(key string, raw any, input map[string]any) string {
	if summaryToolKeys[key] {
		return fmt.Sprint(raw)
	}

	switch v := raw.(type) {
	case nil:
		return fmt.Sprintf("No data returned by %s.", key)
	case string:
		return v
	case *TaggedTransactions:
		banner := fmt.Sprintf("Smart query: %q\n\n", v.Query)
		return banner + formatList(key, v.Transactions, input)
	case []any:
		return formatList(key, v, input)
	case map[string]any:
		return formatRecord(key, v)
	default:
		return fmt.Sprint(v)
	}
}

func verbosityOf(input map[string]any) string {
	if input != nil {
		if v, ok := input["verbosity"].(string); ok && v != "" {
			return v
		}
	}
	return schema.VerbositySummary
}

func formatList(key string, items []any, input map[string]any) string {
	if len(items) == 0 {
		return fmt.Sprintf("No %s found.", listNoun(key))
	}

	verbosity := verbosityOf(input)
	switch {
	case strings.Contains(key, "accounts"):
		return formatAccounts(items, verbosity)
	case strings.Contains(key, "transactions"):
		return formatTransactions(items, verbosity, input)
	case strings.Contains(key, "categories"):
		return formatCategories(items, verbosity)
	case strings.Contains(key, "budgets"):
		return formatBudgets(items, verbosity)
	default:
		return formatGenericList(key, items)
	}
}

// listNoun derives the empty-result noun from the tool key.
func listNoun(key string) string {
	for _, noun := range []string{"accounts", "transactions", "categories", "budgets"} {
		if strings.Contains(key, noun) {
			return noun
		}
	}
	return "results"
}

const genericListCap = 10

func formatGenericList(key string, items []any) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# %s (%d items)\n\n", key, len(items)))
	for i, item := range items {
		if i >= genericListCap {
			sb.WriteString(fmt.Sprintf("... and %d more\n", len(items)-genericListCap))
			break
		}
		data, err := json.Marshal(item)
		if err != nil {
			sb.WriteString(fmt.Sprintf("- %v\n", item))
			continue
		}
		sb.WriteString(fmt.Sprintf("- %s\n", common.Truncate(string(data), 200)))
	}
	return sb.String()
}

func formatRecord(key string, record map[string]any) string {
	income, hasIncome := numberField(record, "income", "sumIncome", "totalIncome")
	expense, hasExpense := numberField(record, "expense", "expenses", "sumExpense", "totalExpense")
	if hasIncome && hasExpense {
		return formatFinancialSummary(record, income, expense)
	}

	if balance, ok := numberField(record, "balance", "currentBalance", "displayBalance"); ok {
		return formatAccountCard(record, balance)
	}

	var lines []string
	for _, field := range importantFields {
		v, ok := record[field]
		if !ok || v == nil {
			continue
		}
		switch field {
		case "amount", "balance", "total":
			if n, ok := toFloat(v); ok {
				lines = append(lines, fmt.Sprintf("%s: %s", field, common.FormatMoney(n)))
				continue
			}
		}
		lines = append(lines, fmt.Sprintf("%s: %v", field, v))
	}
	if len(lines) == 0 {
		return fmt.Sprintf("Object returned by %s.", key)
	}
	return strings.Join(lines, "\n")
}

func formatFinancialSummary(record map[string]any, income, expense float64) string {
	var sb strings.Builder
	sb.WriteString("## Financial Summary\n\n")
	sb.WriteString(fmt.Sprintf("**Income:** %s\n", common.FormatMoney(income)))
	sb.WriteString(fmt.Sprintf("**Expenses:** %s\n", common.FormatMoney(expense)))

	savings := income - expense
	if v, ok := numberField(record, "savings", "netSavings"); ok {
		savings = v
	}
	sb.WriteString(fmt.Sprintf("**Net savings:** %s\n", common.FormatSignedMoney(savings)))

	if rate, ok := numberField(record, "savingsRate", "savings_rate"); ok {
		sb.WriteString(fmt.Sprintf("**Savings rate:** %.1f%%\n", rate*100))
	}
	return sb.String()
}

func formatAccountCard(record map[string]any, balance float64) string {
	var sb strings.Builder
	name := stringField(record, "displayName", "name")
	if name == "" {
		name = "Account"
	}
	sb.WriteString(fmt.Sprintf("## %s\n\n", name))
	sb.WriteString(fmt.Sprintf("**Balance:** %s\n", common.FormatMoney(balance)))
	if t := stringField(record, "type", "accountType"); t != "" {
		sb.WriteString(fmt.Sprintf("**Type:** %s\n", t))
	}
	if inst := stringField(record, "institutionName", "institution"); inst != "" {
		sb.WriteString(fmt.Sprintf("**Institution:** %s\n", inst))
	}
	if id := stringField(record, "id"); id != "" {
		sb.WriteString(fmt.Sprintf("**ID:** %s\n", id))
	}
	return sb.String()
}

// --- untyped field access helpers ---

func asRecord(item any) map[string]any {
	if m, ok := item.(map[string]any); ok {
		return m
	}
	return nil
}

func stringField(record map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := record[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func numberField(record map[string]any, keys ...string) (float64, bool) {
	for _, k := range keys {
		if v, ok := record[k]; ok {
			if n, ok := toFloat(v); ok {
				return n, true
			}
		}
	}
	return 0, false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
