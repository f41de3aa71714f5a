// Package schema classifies upstream operations and derives the input
// schema each one validates against.
package schema

import "strings"

// Kind is the shape category an operation's input falls into. Every
// operation is classified exactly once; the adapter and renderer switch on
// the same Kind instead of re-testing name substrings.
type Kind int

const (
	// KindEmpty accepts no input fields at all.
	KindEmpty Kind = iota
	// KindLookupByID requires a single string id.
	KindLookupByID
	// KindTransactionDetail requires a single string transactionId.
	KindTransactionDetail
	// KindTransactionFilter is the full transaction filter: limit, offset,
	// date range, account/category lists, search, amount range, verbosity.
	KindTransactionFilter
	// KindHistoryRange accepts only an optional startDate/endDate pair.
	KindHistoryRange
	// KindMutationUpdate requires an id plus an arbitrary data record.
	KindMutationUpdate
	// KindMutationCreate requires an arbitrary data record.
	KindMutationCreate
	// KindAccountList accepts includeHidden and verbosity.
	KindAccountList
	// KindPlainList accepts only verbosity.
	KindPlainList
)

func (k Kind) String() string {
	switch k {
	case KindLookupByID:
		return "lookup-by-id"
	case KindTransactionDetail:
		return "detail-lookup"
	case KindTransactionFilter:
		return "list-with-filter"
	case KindHistoryRange:
		return "history-range"
	case KindMutationUpdate:
		return "mutation-update"
	case KindMutationCreate:
		return "mutation-create"
	case KindAccountList:
		return "account-list"
	case KindPlainList:
		return "list-plain"
	default:
		return "empty"
	}
}

// Classify maps an operation to its Kind. First match wins: operation names
// can satisfy several of these tests, so the ordering here is load-bearing
// and must not be rearranged.
func Classify(group, op string) Kind {
	switch {
	case strings.Contains(op, "ById"):
		return KindLookupByID
	case group == "transactions" && op == "getTransactionDetails":
		return KindTransactionDetail
	case strings.Contains(op, "Transactions") || op == "getTransactions":
		return KindTransactionFilter
	case strings.Contains(op, "History") || strings.Contains(op, "OverTime"):
		return KindHistoryRange
	case strings.Contains(op, "update"):
		return KindMutationUpdate
	case strings.Contains(op, "create"):
		return KindMutationCreate
	case group == "accounts" && op == "getAll":
		return KindAccountList
	case strings.Contains(op, "getAll") || strings.HasPrefix(op, "get"):
		return KindPlainList
	default:
		return KindEmpty
	}
}
