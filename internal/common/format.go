package common

import (
	"fmt"
	"strings"
)

// groupDigits inserts comma separators into a string of digits.
func groupDigits(s string) string {
	if len(s) <= 3 {
		return s
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	return strings.Join(parts, ",")
}

// FormatMoney formats a float as a dollar amount with comma separators.
func FormatMoney(v float64) string {
	negative := v < 0
	if negative {
		v = -v
	}
	whole := int64(v)
	cents := int64((v-float64(whole))*100 + 0.5)
	if cents >= 100 {
		whole++
		cents -= 100
	}

	s := groupDigits(fmt.Sprintf("%d", whole))
	if negative {
		return fmt.Sprintf("-$%s.%02d", s, cents)
	}
	return fmt.Sprintf("$%s.%02d", s, cents)
}

// FormatWholeMoney formats a dollar amount rounded to whole dollars.
// Used for category spending totals where cents are noise.
func FormatWholeMoney(v float64) string {
	negative := v < 0
	if negative {
		v = -v
	}
	whole := int64(v + 0.5)

	s := groupDigits(fmt.Sprintf("%d", whole))
	if negative {
		return "-$" + s
	}
	return "$" + s
}

// FormatSignedMoney formats a dollar amount with +/- prefix.
func FormatSignedMoney(v float64) string {
	if v >= 0 {
		return "+" + FormatMoney(v)
	}
	return FormatMoney(v)
}

// FormatSignedPct formats a percentage with +/- prefix.
func FormatSignedPct(v float64) string {
	if v >= 0 {
		return fmt.Sprintf("+%.2f%%", v)
	}
	return fmt.Sprintf("%.2f%%", v)
}

// BudgetPercent returns spent/budgeted as a rounded integer percent.
// Returns 0 when budgeted is 0 so callers never divide by zero.
func BudgetPercent(spent, budgeted float64) int {
	if budgeted == 0 {
		return 0
	}
	return int(spent/budgeted*100 + 0.5)
}

// Truncate shortens a string to max length with ellipsis.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
