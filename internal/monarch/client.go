// Package monarch is a client for the Monarch personal-finance API. It
// exposes grouped services (accounts, transactions, budgets, ...) and a
// statically declared operation table keyed by tool identity so callers can
// invoke operations generically without reflection.
package monarch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/UnbankableCode/monarchmoney-mcp/internal/common"
)

// DefaultBaseURL is the production Monarch API endpoint.
const DefaultBaseURL = "https://api.monarchmoney.com"

// Operation is one callable upstream operation. Arguments are positional;
// each operation knows how to coerce its own.
type Operation func(ctx context.Context, args []any) (any, error)

// Client talks to the Monarch API over JSON/HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *common.Logger

	mu    sync.RWMutex
	token string

	Accounts     *AccountsService
	Transactions *TransactionsService
	Budgets      *BudgetsService
	Categories   *CategoriesService
	Cashflow     *CashflowService
	Recurring    *RecurringService
	Institutions *InstitutionsService
	Insights     *InsightsService

	ops      map[string]Operation
	groups   map[string][]string
	topLevel []string
}

// NewClient creates a client for the given base URL. An empty baseURL uses
// the production endpoint.
func NewClient(baseURL string, logger *common.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		logger: logger,
	}
	c.Accounts = &AccountsService{client: c}
	c.Transactions = &TransactionsService{client: c}
	c.Budgets = &BudgetsService{client: c}
	c.Categories = &CategoriesService{client: c}
	c.Cashflow = &CashflowService{client: c}
	c.Recurring = &RecurringService{client: c}
	c.Institutions = &InstitutionsService{client: c}
	c.Insights = &InsightsService{client: c}
	c.registerOperations()
	return c
}

// registerOperations declares every callable operation once, at construction.
// The identity key is group + "_" + operation, or the bare operation name for
// top-level calls. Login and MFA are deliberately absent: they are not tools.
func (c *Client) registerOperations() {
	c.ops = make(map[string]Operation)
	c.groups = make(map[string][]string)

	reg := func(group, op string, fn Operation) {
		c.groups[group] = append(c.groups[group], op)
		c.ops[group+"_"+op] = fn
	}
	regTop := func(op string, fn Operation) {
		c.topLevel = append(c.topLevel, op)
		c.ops[op] = fn
	}

	reg("accounts", "getAll", func(ctx context.Context, args []any) (any, error) {
		return c.Accounts.GetAll(ctx, argRecord(args, 0))
	})
	reg("accounts", "getById", func(ctx context.Context, args []any) (any, error) {
		return c.Accounts.GetByID(ctx, argString(args, 0))
	})
	reg("accounts", "getBalances", func(ctx context.Context, args []any) (any, error) {
		return c.Accounts.GetBalances(ctx, argRecord(args, 0))
	})
	reg("accounts", "getNetWorthHistory", func(ctx context.Context, args []any) (any, error) {
		return c.Accounts.GetNetWorthHistory(ctx, argRecord(args, 0))
	})

	reg("transactions", "getTransactions", func(ctx context.Context, args []any) (any, error) {
		return c.Transactions.GetTransactions(ctx, argRecord(args, 0))
	})
	reg("transactions", "getTransactionDetails", func(ctx context.Context, args []any) (any, error) {
		return c.Transactions.GetDetails(ctx, argString(args, 0))
	})
	reg("transactions", "getTransactionsSummary", func(ctx context.Context, args []any) (any, error) {
		return c.Transactions.GetSummary(ctx, argRecord(args, 0))
	})
	reg("transactions", "createTransaction", func(ctx context.Context, args []any) (any, error) {
		return c.Transactions.Create(ctx, argRecord(args, 0))
	})
	reg("transactions", "updateTransaction", func(ctx context.Context, args []any) (any, error) {
		return c.Transactions.Update(ctx, argString(args, 0), argRecord(args, 1))
	})

	reg("budgets", "getAll", func(ctx context.Context, args []any) (any, error) {
		return c.Budgets.GetAll(ctx, argRecord(args, 0))
	})
	reg("budgets", "update", func(ctx context.Context, args []any) (any, error) {
		return c.Budgets.Update(ctx, argString(args, 0), argRecord(args, 1))
	})

	reg("categories", "getAll", func(ctx context.Context, args []any) (any, error) {
		return c.Categories.GetAll(ctx, argRecord(args, 0))
	})
	reg("categories", "create", func(ctx context.Context, args []any) (any, error) {
		return c.Categories.Create(ctx, argRecord(args, 0))
	})

	reg("cashflow", "getCashflow", func(ctx context.Context, args []any) (any, error) {
		return c.Cashflow.GetCashflow(ctx, argRecord(args, 0))
	})
	reg("cashflow", "getCashflowSummary", func(ctx context.Context, args []any) (any, error) {
		return c.Cashflow.GetSummary(ctx, argRecord(args, 0))
	})

	reg("recurring", "getAll", func(ctx context.Context, args []any) (any, error) {
		return c.Recurring.GetAll(ctx)
	})

	reg("institutions", "getAll", func(ctx context.Context, args []any) (any, error) {
		return c.Institutions.GetAll(ctx)
	})

	reg("insights", "getSpendingOverTime", func(ctx context.Context, args []any) (any, error) {
		return c.Insights.GetSpendingOverTime(ctx, argRecord(args, 0))
	})

	regTop("getMe", func(ctx context.Context, args []any) (any, error) {
		return c.getJSON(ctx, "/me")
	})
	regTop("getSubscriptionDetails", func(ctx context.Context, args []any) (any, error) {
		return c.getJSON(ctx, "/subscription")
	})
}

// HasGroup reports whether the client declares any operation in the group.
func (c *Client) HasGroup(group string) bool {
	return len(c.groups[group]) > 0
}

// Operations returns the declared operation names for a group, in
// declaration order.
func (c *Client) Operations(group string) []string {
	return c.groups[group]
}

// TopLevelOperations returns ungrouped operations. Authentication calls are
// excluded by construction.
func (c *Client) TopLevelOperations() []string {
	return c.topLevel
}

// Supports reports whether an identity key resolves to a callable operation.
func (c *Client) Supports(key string) bool {
	_, ok := c.ops[key]
	return ok
}

// Call invokes an operation by identity key with positional arguments.
func (c *Client) Call(ctx context.Context, key string, args []any) (any, error) {
	fn, ok := c.ops[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedOperation, key)
	}
	return fn(ctx, args)
}

// Login authenticates against the Monarch API and stores the session token.
// MFA secret is optional and passed through opaquely.
func (c *Client) Login(ctx context.Context, email, password, mfaSecret string) error {
	body := map[string]any{
		"username": email,
		"password": password,
	}
	if mfaSecret != "" {
		body["totp"] = mfaSecret
	}

	raw, err := c.doJSON(ctx, http.MethodPost, "/auth/login", body)
	if err != nil {
		return err
	}

	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return fmt.Errorf("failed to parse login response: %w", err)
	}
	if resp.Token == "" {
		return fmt.Errorf("login response carried no token")
	}

	c.mu.Lock()
	c.token = resp.Token
	c.mu.Unlock()
	return nil
}

// --- HTTP plumbing ---

func (c *Client) authHeader() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.token == "" {
		return ""
	}
	return "Token " + c.token
}

// getJSON performs a GET and decodes the response into an untyped value.
func (c *Client) getJSON(ctx context.Context, path string) (any, error) {
	raw, err := c.doJSON(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	return decodeAny(raw)
}

// postJSON performs a POST with a JSON body and decodes the response.
func (c *Client) postJSON(ctx context.Context, path string, data any) (any, error) {
	raw, err := c.doJSON(ctx, http.MethodPost, path, data)
	if err != nil {
		return nil, err
	}
	return decodeAny(raw)
}

// putJSON performs a PUT with a JSON body and decodes the response.
func (c *Client) putJSON(ctx context.Context, path string, data any) (any, error) {
	raw, err := c.doJSON(ctx, http.MethodPut, path, data)
	if err != nil {
		return nil, err
	}
	return decodeAny(raw)
}

// doJSON performs an HTTP request with an optional JSON body and returns the
// raw response body. Error responses carrying {"error": ...} are unwrapped
// into plain messages.
func (c *Client) doJSON(ctx context.Context, method, path string, data any) ([]byte, error) {
	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Msg("Monarch API Request")

	var bodyReader io.Reader
	if data != nil {
		jsonData, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if auth := c.authHeader(); auth != "" {
		req.Header.Set("Authorization", auth)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logger.Error().Err(err).Str("path", path).Dur("duration", duration).Msg("Monarch API Request Failed")
		return nil, fmt.Errorf("api request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.logger.Debug().
		Str("status", resp.Status).
		Int("status_code", resp.StatusCode).
		Dur("duration", duration).
		Msg("Monarch API Response")

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &errResp) == nil && errResp.Error != "" {
			return nil, fmt.Errorf("%s", errResp.Error)
		}
		return nil, fmt.Errorf("api returned %d: %s", resp.StatusCode, string(body))
	}

	return body, nil
}

func decodeAny(raw []byte) (any, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		// Some endpoints answer with plain text.
		return string(raw), nil
	}
	return out, nil
}

// --- positional argument coercion ---

func argString(args []any, i int) string {
	if i < len(args) {
		if s, ok := args[i].(string); ok {
			return s
		}
	}
	return ""
}

func argRecord(args []any, i int) map[string]any {
	if i < len(args) {
		if m, ok := args[i].(map[string]any); ok {
			return m
		}
	}
	return nil
}
