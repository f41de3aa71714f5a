package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAppliesTransactionFilterDefaults(t *testing.T) {
	s := For(KindTransactionFilter)

	out, err := s.Parse(map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, DefaultLimit, out["limit"])
	assert.Equal(t, 0, out["offset"])
	assert.Equal(t, VerbositySummary, out["verbosity"])
}

func TestParseDoesNotOverrideCallerValues(t *testing.T) {
	s := For(KindTransactionFilter)

	out, err := s.Parse(map[string]any{"limit": 5, "verbosity": "detailed"})
	require.NoError(t, err)
	assert.Equal(t, 5, out["limit"])
	assert.Equal(t, "detailed", out["verbosity"])
}

// Validation accepts any positive limit; the clamp is downstream.
func TestParseAcceptsOversizedLimit(t *testing.T) {
	s := For(KindTransactionFilter)
	out, err := s.Parse(map[string]any{"limit": 500})
	require.NoError(t, err)
	assert.Equal(t, 500, out["limit"])
}

func TestParseRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
		in   map[string]any
	}{
		{"limit below minimum", KindTransactionFilter, map[string]any{"limit": 0}},
		{"negative offset", KindTransactionFilter, map[string]any{"offset": -1}},
		{"bad verbosity", KindTransactionFilter, map[string]any{"verbosity": "loud"}},
		{"missing id", KindLookupByID, map[string]any{}},
		{"wrong id type", KindLookupByID, map[string]any{"id": 7}},
		{"missing transactionId", KindTransactionDetail, map[string]any{}},
		{"missing data", KindMutationCreate, map[string]any{}},
		{"missing id on update", KindMutationUpdate, map[string]any{"data": map[string]any{}}},
		{"unexpected field on empty", KindEmpty, map[string]any{"anything": true}},
		{"short amount range", KindTransactionFilter, map[string]any{"absAmountRange": []any{10.0}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := For(tt.kind).Parse(tt.in)
			assert.Error(t, err)
		})
	}
}

func TestParseNeverMutatesInput(t *testing.T) {
	s := For(KindTransactionFilter)
	in := map[string]any{"search": "coffee"}

	_, err := s.Parse(in)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"search": "coffee"}, in)
}

func TestParseNilInput(t *testing.T) {
	out, err := For(KindPlainList).Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, VerbositySummary, out["verbosity"])
}

func TestParseAmountRangeWithNullBound(t *testing.T) {
	s := For(KindTransactionFilter)

	_, err := s.Parse(map[string]any{"absAmountRange": []any{10.0, nil}})
	assert.NoError(t, err, "null upper bound")

	_, err = s.Parse(map[string]any{"absAmountRange": []any{nil, 100.0}})
	assert.NoError(t, err, "null lower bound")
}

func TestSmartQueryRequiresQuery(t *testing.T) {
	_, err := SmartQuery().Parse(map[string]any{})
	assert.Error(t, err)

	out, err := SmartQuery().Parse(map[string]any{"query": "last 5 amazon"})
	require.NoError(t, err)
	assert.Equal(t, VerbositySummary, out["verbosity"])
}

func TestDeriveMatchesClassify(t *testing.T) {
	s := Derive("transactions", "getTransactions")
	assert.Equal(t, KindTransactionFilter, s.Kind())
}
