package monarch

import (
	"context"
	"fmt"
	"net/url"
)

// queryString converts an optional filter record into a URL query string.
// Nil or empty records produce no query at all.
func queryString(filter map[string]any) string {
	if len(filter) == 0 {
		return ""
	}
	q := url.Values{}
	for k, v := range filter {
		q.Set(k, fmt.Sprint(v))
	}
	return "?" + q.Encode()
}

// AccountsService covers account listing, lookup, and balance history.
type AccountsService struct {
	client *Client
}

func (s *AccountsService) GetAll(ctx context.Context, filter map[string]any) (any, error) {
	return s.client.getJSON(ctx, "/accounts"+queryString(filter))
}

func (s *AccountsService) GetByID(ctx context.Context, id string) (any, error) {
	return s.client.getJSON(ctx, "/accounts/"+url.PathEscape(id))
}

func (s *AccountsService) GetBalances(ctx context.Context, filter map[string]any) (any, error) {
	return s.client.getJSON(ctx, "/accounts/balances"+queryString(filter))
}

func (s *AccountsService) GetNetWorthHistory(ctx context.Context, rng map[string]any) (any, error) {
	return s.client.getJSON(ctx, "/accounts/net-worth"+queryString(rng))
}

// TransactionsService covers transaction search, detail lookup, and mutation.
type TransactionsService struct {
	client *Client
}

func (s *TransactionsService) GetTransactions(ctx context.Context, filter map[string]any) (any, error) {
	return s.client.postJSON(ctx, "/transactions/query", filter)
}

func (s *TransactionsService) GetDetails(ctx context.Context, id string) (any, error) {
	return s.client.getJSON(ctx, "/transactions/"+url.PathEscape(id))
}

func (s *TransactionsService) GetSummary(ctx context.Context, filter map[string]any) (any, error) {
	return s.client.postJSON(ctx, "/transactions/summary", filter)
}

func (s *TransactionsService) Create(ctx context.Context, data map[string]any) (any, error) {
	return s.client.postJSON(ctx, "/transactions", data)
}

func (s *TransactionsService) Update(ctx context.Context, id string, data map[string]any) (any, error) {
	return s.client.putJSON(ctx, "/transactions/"+url.PathEscape(id), data)
}

// BudgetsService covers budget listing and amount updates.
type BudgetsService struct {
	client *Client
}

func (s *BudgetsService) GetAll(ctx context.Context, filter map[string]any) (any, error) {
	return s.client.getJSON(ctx, "/budgets"+queryString(filter))
}

func (s *BudgetsService) Update(ctx context.Context, id string, data map[string]any) (any, error) {
	return s.client.putJSON(ctx, "/budgets/"+url.PathEscape(id), data)
}

// CategoriesService covers transaction category listing and creation.
type CategoriesService struct {
	client *Client
}

func (s *CategoriesService) GetAll(ctx context.Context, filter map[string]any) (any, error) {
	return s.client.getJSON(ctx, "/categories"+queryString(filter))
}

func (s *CategoriesService) Create(ctx context.Context, data map[string]any) (any, error) {
	return s.client.postJSON(ctx, "/categories", data)
}

// CashflowService covers cashflow breakdowns and the income/expense summary.
type CashflowService struct {
	client *Client
}

func (s *CashflowService) GetCashflow(ctx context.Context, filter map[string]any) (any, error) {
	return s.client.getJSON(ctx, "/cashflow"+queryString(filter))
}

func (s *CashflowService) GetSummary(ctx context.Context, filter map[string]any) (any, error) {
	return s.client.getJSON(ctx, "/cashflow/summary"+queryString(filter))
}

// RecurringService lists recurring merchants and upcoming charges.
type RecurringService struct {
	client *Client
}

func (s *RecurringService) GetAll(ctx context.Context) (any, error) {
	return s.client.getJSON(ctx, "/recurring")
}

// InstitutionsService lists linked financial institutions.
type InstitutionsService struct {
	client *Client
}

func (s *InstitutionsService) GetAll(ctx context.Context) (any, error) {
	return s.client.getJSON(ctx, "/institutions")
}

// InsightsService covers derived spending analytics.
type InsightsService struct {
	client *Client
}

func (s *InsightsService) GetSpendingOverTime(ctx context.Context, rng map[string]any) (any, error) {
	return s.client.getJSON(ctx, "/insights/spending"+queryString(rng))
}
