package adapter

import (
	"reflect"
	"testing"
	"time"

	"github.com/UnbankableCode/monarchmoney-mcp/internal/schema"
)

func pinTime(t *testing.T, at time.Time) {
	t.Helper()
	orig := timeNow
	timeNow = func() time.Time { return at }
	t.Cleanup(func() { timeNow = orig })
}

func TestAdaptLookupByID(t *testing.T) {
	args := Adapt("accounts_getById", schema.KindLookupByID, map[string]any{"id": "abc"})
	if !reflect.DeepEqual(args, []any{"abc"}) {
		t.Errorf("args = %v", args)
	}
}

func TestAdaptTransactionDetail(t *testing.T) {
	args := Adapt("transactions_getTransactionDetails", schema.KindTransactionDetail,
		map[string]any{"transactionId": "txn-1"})
	if !reflect.DeepEqual(args, []any{"txn-1"}) {
		t.Errorf("args = %v", args)
	}
}

func TestAdaptZeroArgOperations(t *testing.T) {
	for _, key := range []string{"getMe", "getSubscriptionDetails", "institutions_getAll", "recurring_getAll"} {
		if args := Adapt(key, schema.KindPlainList, map[string]any{"verbosity": "summary"}); args != nil {
			t.Errorf("%s: args = %v, want nil", key, args)
		}
	}
}

func TestAdaptClampsTransactionLimit(t *testing.T) {
	args := Adapt("transactions_getTransactions", schema.KindTransactionFilter,
		map[string]any{"limit": 500, "startDate": "2026-01-01"})
	filter := args[0].(map[string]any)
	if filter["limit"] != MaxTransactionLimit {
		t.Errorf("limit = %v, want %d", filter["limit"], MaxTransactionLimit)
	}
}

func TestAdaptKeepsLimitWithinCap(t *testing.T) {
	args := Adapt("transactions_getTransactions", schema.KindTransactionFilter,
		map[string]any{"limit": 50, "startDate": "2026-01-01"})
	filter := args[0].(map[string]any)
	if filter["limit"] != 50 {
		t.Errorf("limit = %v, want 50", filter["limit"])
	}
}

func TestAdaptSynthesizesDateWindow(t *testing.T) {
	pinTime(t, time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC))

	args := Adapt("transactions_getTransactions", schema.KindTransactionFilter,
		map[string]any{"limit": 50})
	filter := args[0].(map[string]any)
	if filter["endDate"] != "2026-08-28" {
		t.Errorf("endDate = %v", filter["endDate"])
	}
	if filter["startDate"] != "2026-07-29" {
		t.Errorf("startDate = %v", filter["startDate"])
	}
}

func TestAdaptKeepsCallerDateBounds(t *testing.T) {
	args := Adapt("transactions_getTransactions", schema.KindTransactionFilter,
		map[string]any{"limit": 50, "endDate": "2026-02-01"})
	filter := args[0].(map[string]any)
	if filter["endDate"] != "2026-02-01" {
		t.Errorf("endDate = %v", filter["endDate"])
	}
	if _, ok := filter["startDate"]; ok {
		t.Errorf("startDate synthesized despite caller bound: %v", filter["startDate"])
	}
}

func TestAdaptHistoryRange(t *testing.T) {
	// No bounds means no arguments at all.
	if args := Adapt("accounts_getNetWorthHistory", schema.KindHistoryRange, map[string]any{}); args != nil {
		t.Errorf("empty range args = %v, want nil", args)
	}

	args := Adapt("accounts_getNetWorthHistory", schema.KindHistoryRange,
		map[string]any{"startDate": "2026-01-01"})
	rng := args[0].(map[string]any)
	if rng["startDate"] != "2026-01-01" {
		t.Errorf("range = %v", rng)
	}
}

func TestAdaptMutations(t *testing.T) {
	data := map[string]any{"amount": 25.0}

	update := Adapt("budgets_update", schema.KindMutationUpdate, map[string]any{"id": "b1", "data": data})
	if !reflect.DeepEqual(update, []any{"b1", data}) {
		t.Errorf("update args = %v", update)
	}

	create := Adapt("categories_create", schema.KindMutationCreate, map[string]any{"data": data})
	if !reflect.DeepEqual(create, []any{data}) {
		t.Errorf("create args = %v", create)
	}
}

func TestAdaptDoesNotMutateInput(t *testing.T) {
	in := map[string]any{"limit": 500}
	Adapt("transactions_getTransactions", schema.KindTransactionFilter, in)
	if in["limit"] != 500 {
		t.Errorf("input mutated: %v", in)
	}
	if _, ok := in["endDate"]; ok {
		t.Errorf("input mutated with endDate")
	}
}
