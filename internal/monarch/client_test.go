package monarch

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/UnbankableCode/monarchmoney-mcp/internal/common"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, common.NewSilentLogger())
}

func TestClientOperationTable(t *testing.T) {
	c := NewClient("", common.NewSilentLogger())

	wantGroups := map[string][]string{
		"accounts":     {"getAll", "getById", "getBalances", "getNetWorthHistory"},
		"transactions": {"getTransactions", "getTransactionDetails", "getTransactionsSummary", "createTransaction", "updateTransaction"},
		"budgets":      {"getAll", "update"},
		"categories":   {"getAll", "create"},
		"cashflow":     {"getCashflow", "getCashflowSummary"},
		"recurring":    {"getAll"},
		"institutions": {"getAll"},
		"insights":     {"getSpendingOverTime"},
	}
	for group, ops := range wantGroups {
		if !c.HasGroup(group) {
			t.Errorf("missing group %s", group)
			continue
		}
		got := c.Operations(group)
		if len(got) != len(ops) {
			t.Errorf("%s: ops = %v, want %v", group, got, ops)
			continue
		}
		for i, op := range ops {
			if got[i] != op {
				t.Errorf("%s[%d] = %s, want %s", group, i, got[i], op)
			}
		}
	}

	top := c.TopLevelOperations()
	if len(top) != 2 || top[0] != "getMe" || top[1] != "getSubscriptionDetails" {
		t.Errorf("top-level ops = %v", top)
	}

	// Authentication never appears as a callable operation.
	for _, key := range []string{"login", "client_login", "multiFactorAuthenticate"} {
		if c.Supports(key) {
			t.Errorf("auth operation %s exposed", key)
		}
	}
}

func TestClientCallUnsupported(t *testing.T) {
	c := NewClient("", common.NewSilentLogger())
	_, err := c.Call(context.Background(), "accounts_destroyAll", nil)
	if !errors.Is(err, ErrUnsupportedOperation) {
		t.Fatalf("err = %v, want ErrUnsupportedOperation", err)
	}
	if !strings.Contains(err.Error(), "accounts_destroyAll") {
		t.Errorf("error does not name the key: %v", err)
	}
}

func TestClientLoginStoresToken(t *testing.T) {
	var loginBody map[string]any
	var gotAuth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			json.NewDecoder(r.Body).Decode(&loginBody)
			json.NewEncoder(w).Encode(map[string]any{"token": "tok-123"})
		case "/me":
			gotAuth = r.Header.Get("Authorization")
			json.NewEncoder(w).Encode(map[string]any{"id": "u1"})
		default:
			http.NotFound(w, r)
		}
	})

	if err := c.Login(context.Background(), "a@b.c", "pw", "secret"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if loginBody["username"] != "a@b.c" || loginBody["password"] != "pw" || loginBody["totp"] != "secret" {
		t.Errorf("login body = %v", loginBody)
	}

	if _, err := c.Call(context.Background(), "getMe", nil); err != nil {
		t.Fatalf("getMe: %v", err)
	}
	if gotAuth != "Token tok-123" {
		t.Errorf("Authorization = %q", gotAuth)
	}
}

func TestClientLoginOmitsEmptyTotp(t *testing.T) {
	var loginBody map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&loginBody)
		json.NewEncoder(w).Encode(map[string]any{"token": "tok"})
	})

	if err := c.Login(context.Background(), "a@b.c", "pw", ""); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if _, ok := loginBody["totp"]; ok {
		t.Errorf("empty totp sent: %v", loginBody)
	}
}

func TestClientUnwrapsErrorField(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]any{"error": "Forbidden"})
	})

	err := c.Login(context.Background(), "a@b.c", "pw", "")
	if err == nil {
		t.Fatal("no error")
	}
	if err.Error() != "Forbidden" {
		t.Errorf("err = %q, want unwrapped message", err.Error())
	}
}

func TestClientTransactionQueryPostsFilter(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode([]any{})
	})

	filter := map[string]any{"limit": 50, "startDate": "2026-07-29"}
	if _, err := c.Call(context.Background(), "transactions_getTransactions", []any{filter}); err != nil {
		t.Fatalf("Call: %v", err)
	}
	if gotMethod != http.MethodPost || gotPath != "/transactions/query" {
		t.Errorf("request = %s %s", gotMethod, gotPath)
	}
	if gotBody["startDate"] != "2026-07-29" {
		t.Errorf("body = %v", gotBody)
	}
}

func TestClientLookupEscapesID(t *testing.T) {
	var gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		json.NewEncoder(w).Encode(map[string]any{"id": "a/b"})
	})

	if _, err := c.Call(context.Background(), "accounts_getById", []any{"a/b"}); err != nil {
		t.Fatalf("Call: %v", err)
	}
	if gotPath != "/accounts/a%2Fb" {
		t.Errorf("path = %q", gotPath)
	}
}

func TestClientUpdatePutsData(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]any{"id": "b1"})
	})

	args := []any{"b1", map[string]any{"budgeted": 400.0}}
	if _, err := c.Call(context.Background(), "budgets_update", args); err != nil {
		t.Fatalf("Call: %v", err)
	}
	if gotMethod != http.MethodPut || gotPath != "/budgets/b1" {
		t.Errorf("request = %s %s", gotMethod, gotPath)
	}
	if gotBody["budgeted"] != 400.0 {
		t.Errorf("body = %v", gotBody)
	}
}

func TestClientHistorySkipsEmptyQuery(t *testing.T) {
	var gotURL string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotURL = r.URL.String()
		json.NewEncoder(w).Encode([]any{})
	})

	if _, err := c.Call(context.Background(), "accounts_getNetWorthHistory", nil); err != nil {
		t.Fatalf("Call: %v", err)
	}
	if gotURL != "/accounts/net-worth" {
		t.Errorf("url = %q, want no query string", gotURL)
	}
}
