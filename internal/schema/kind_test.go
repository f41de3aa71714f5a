package schema

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		group, op string
		want      Kind
	}{
		{"accounts", "getAll", KindAccountList},
		{"accounts", "getById", KindLookupByID},
		{"accounts", "getBalances", KindPlainList},
		{"accounts", "getNetWorthHistory", KindHistoryRange},
		{"transactions", "getTransactions", KindTransactionFilter},
		{"transactions", "getTransactionDetails", KindTransactionDetail},
		{"transactions", "getTransactionsSummary", KindTransactionFilter},
		{"transactions", "createTransaction", KindMutationCreate},
		{"transactions", "updateTransaction", KindMutationUpdate},
		{"budgets", "getAll", KindPlainList},
		{"budgets", "update", KindMutationUpdate},
		{"categories", "create", KindMutationCreate},
		{"insights", "getSpendingOverTime", KindHistoryRange},
		{"client", "getMe", KindPlainList},
		{"client", "login", KindEmpty},
	}
	for _, tt := range tests {
		if got := Classify(tt.group, tt.op); got != tt.want {
			t.Errorf("Classify(%q, %q) = %v, want %v", tt.group, tt.op, got, tt.want)
		}
	}
}

// Detail lookup must win over the generic transaction-filter match even
// though the name contains "Transaction".
func TestClassifyPrecedence(t *testing.T) {
	if got := Classify("transactions", "getTransactionDetails"); got != KindTransactionDetail {
		t.Fatalf("detail lookup classified as %v", got)
	}
	if got := Classify("transactions", "getById"); got != KindLookupByID {
		t.Fatalf("id lookup classified as %v", got)
	}
}
