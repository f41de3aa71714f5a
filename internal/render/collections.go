package render

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/UnbankableCode/monarchmoney-mcp/internal/common"
	"github.com/UnbankableCode/monarchmoney-mcp/internal/schema"
)

// Per-entity item caps. Detailed transactions get a slightly larger page
// because each block is the unit a caller drills into.
const (
	accountItemCap             = 15
	categoryItemCap            = 15
	transactionItemCap         = 20
	transactionDetailedItemCap = 25
	budgetItemCap              = 10
)

func moreSuffix(shown, total int) string {
	if total > shown {
		return fmt.Sprintf("... and %d more\n", total-shown)
	}
	return ""
}

func formatAccounts(items []any, verbosity string) string {
	total := 0.0
	for _, item := range items {
		if rec := asRecord(item); rec != nil {
			if b, ok := numberField(rec, "currentBalance", "displayBalance", "balance"); ok {
				total += b
			}
		}
	}

	if verbosity == schema.VerbosityBrief {
		return fmt.Sprintf("%d accounts, total balance %s", len(items), common.FormatMoney(total))
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# Accounts (%d)\n\n", len(items)))

	shown := 0
	for _, item := range items {
		if shown >= accountItemCap {
			break
		}
		rec := asRecord(item)
		if rec == nil {
			continue
		}
		name := stringField(rec, "displayName", "name")
		balance, _ := numberField(rec, "currentBalance", "displayBalance", "balance")

		if verbosity == schema.VerbosityDetailed {
			sb.WriteString(fmt.Sprintf("## %s\n", name))
			sb.WriteString(fmt.Sprintf("- Balance: %s\n", common.FormatMoney(balance)))
			if t := stringField(rec, "type", "accountType"); t != "" {
				sb.WriteString(fmt.Sprintf("- Type: %s\n", t))
			}
			if sub := stringField(rec, "subtype"); sub != "" {
				sb.WriteString(fmt.Sprintf("- Subtype: %s\n", sub))
			}
			if inst := stringField(rec, "institutionName", "institution"); inst != "" {
				sb.WriteString(fmt.Sprintf("- Institution: %s\n", inst))
			}
			if hidden, ok := rec["isHidden"].(bool); ok && hidden {
				sb.WriteString("- Hidden: yes\n")
			}
			if id := stringField(rec, "id"); id != "" {
				sb.WriteString(fmt.Sprintf("- ID: %s\n", id))
			}
			sb.WriteString("\n")
		} else {
			line := fmt.Sprintf("- %s: %s", name, common.FormatMoney(balance))
			if t := stringField(rec, "type", "accountType"); t != "" {
				line += fmt.Sprintf(" (%s)", t)
			}
			sb.WriteString(line + "\n")
		}
		shown++
	}

	sb.WriteString(moreSuffix(shown, len(items)))
	sb.WriteString(fmt.Sprintf("\n**Total balance:** %s\n", common.FormatMoney(total)))
	return sb.String()
}

func formatTransactions(items []any, verbosity string, input map[string]any) string {
	net := 0.0
	for _, item := range items {
		if rec := asRecord(item); rec != nil {
			if amt, ok := numberField(rec, "amount"); ok {
				net += amt
			}
		}
	}

	if verbosity == schema.VerbosityBrief {
		return fmt.Sprintf("%d transactions, net total %s", len(items), common.FormatSignedMoney(net))
	}

	// A sort directive ranks a copy by absolute amount; the input list is
	// left in upstream order.
	ranked := false
	if dir, ok := input["_sortByAmount"].(string); ok && (dir == "desc" || dir == "asc") {
		sorted := make([]any, len(items))
		copy(sorted, items)
		sort.SliceStable(sorted, func(i, j int) bool {
			a, _ := numberField(asRecord(sorted[i]), "amount")
			b, _ := numberField(asRecord(sorted[j]), "amount")
			if dir == "asc" {
				return math.Abs(a) < math.Abs(b)
			}
			return math.Abs(a) > math.Abs(b)
		})
		items = sorted
		ranked = true
	}

	itemCap := transactionItemCap
	if verbosity == schema.VerbosityDetailed {
		itemCap = transactionDetailedItemCap
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# Transactions (%d)\n\n", len(items)))

	shown := 0
	for _, item := range items {
		if shown >= itemCap {
			break
		}
		rec := asRecord(item)
		if rec == nil {
			continue
		}
		prefix := "- "
		if ranked {
			prefix = fmt.Sprintf("%d. ", shown+1)
		}

		date := stringField(rec, "date")
		merchant := stringField(rec, "merchant", "plaidName", "description")
		amount, _ := numberField(rec, "amount")
		category := stringField(rec, "category", "categoryName")

		if verbosity == schema.VerbosityDetailed {
			sb.WriteString(fmt.Sprintf("%s%s — %s — %s\n", prefix, date, merchant, common.FormatSignedMoney(amount)))
			if category != "" {
				sb.WriteString(fmt.Sprintf("  - Category: %s\n", category))
			}
			if acct := stringField(rec, "account", "accountName"); acct != "" {
				sb.WriteString(fmt.Sprintf("  - Account: %s\n", acct))
			}
			if pending, ok := rec["pending"].(bool); ok && pending {
				sb.WriteString("  - Pending: yes\n")
			}
			if notes := stringField(rec, "notes"); notes != "" {
				sb.WriteString(fmt.Sprintf("  - Notes: %s\n", common.Truncate(notes, 80)))
			}
			if id := stringField(rec, "id"); id != "" {
				sb.WriteString(fmt.Sprintf("  - ID: %s\n", id))
			}
		} else {
			line := fmt.Sprintf("%s%s %s %s", prefix, date, merchant, common.FormatSignedMoney(amount))
			if category != "" {
				line += fmt.Sprintf(" (%s)", category)
			}
			sb.WriteString(line + "\n")
		}
		shown++
	}

	sb.WriteString(moreSuffix(shown, len(items)))
	sb.WriteString(fmt.Sprintf("\n**Net total:** %s\n", common.FormatSignedMoney(net)))
	return sb.String()
}

func formatCategories(items []any, verbosity string) string {
	spent := 0.0
	for _, item := range items {
		if rec := asRecord(item); rec != nil {
			if v, ok := numberField(rec, "spent", "amount"); ok {
				spent += v
			}
		}
	}

	if verbosity == schema.VerbosityBrief {
		return fmt.Sprintf("%d categories, total spent %s", len(items), common.FormatWholeMoney(spent))
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# Categories (%d)\n\n", len(items)))

	shown := 0
	for _, item := range items {
		if shown >= categoryItemCap {
			break
		}
		rec := asRecord(item)
		if rec == nil {
			continue
		}
		name := stringField(rec, "name")
		line := "- " + name
		if group := stringField(rec, "group", "groupName"); group != "" {
			line += fmt.Sprintf(" [%s]", group)
		}
		if v, ok := numberField(rec, "spent", "amount"); ok {
			line += ": " + common.FormatWholeMoney(v)
		}
		sb.WriteString(line + "\n")
		if verbosity == schema.VerbosityDetailed {
			if id := stringField(rec, "id"); id != "" {
				sb.WriteString(fmt.Sprintf("  - ID: %s\n", id))
			}
		}
		shown++
	}

	sb.WriteString(moreSuffix(shown, len(items)))
	sb.WriteString(fmt.Sprintf("\n**Total spent:** %s\n", common.FormatWholeMoney(spent)))
	return sb.String()
}

func formatBudgets(items []any, verbosity string) string {
	totalBudgeted := 0.0
	totalSpent := 0.0
	for _, item := range items {
		if rec := asRecord(item); rec != nil {
			b, _ := numberField(rec, "budgeted", "amount")
			s, _ := numberField(rec, "spent", "actual")
			totalBudgeted += b
			totalSpent += s
		}
	}

	if verbosity == schema.VerbosityBrief {
		return fmt.Sprintf("%d budgets, %s budgeted, %s spent",
			len(items), common.FormatMoney(totalBudgeted), common.FormatMoney(totalSpent))
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# Budgets (%d)\n\n", len(items)))

	shown := 0
	for _, item := range items {
		if shown >= budgetItemCap {
			break
		}
		rec := asRecord(item)
		if rec == nil {
			continue
		}
		name := stringField(rec, "name", "category", "categoryName")
		budgeted, _ := numberField(rec, "budgeted", "amount")
		spent, _ := numberField(rec, "spent", "actual")
		pct := common.BudgetPercent(spent, budgeted)

		sb.WriteString(fmt.Sprintf("- %s: %s of %s (%d%%)\n",
			name, common.FormatMoney(spent), common.FormatMoney(budgeted), pct))
		if verbosity == schema.VerbosityDetailed {
			sb.WriteString(fmt.Sprintf("  - Remaining: %s\n", common.FormatMoney(budgeted-spent)))
			if id := stringField(rec, "id"); id != "" {
				sb.WriteString(fmt.Sprintf("  - ID: %s\n", id))
			}
		}
		shown++
	}

	sb.WriteString(moreSuffix(shown, len(items)))
	sb.WriteString(fmt.Sprintf("\n**Total:** %s of %s budgeted\n",
		common.FormatMoney(totalSpent), common.FormatMoney(totalBudgeted)))
	return sb.String()
}
