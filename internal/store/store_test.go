package store

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/aura/backend/internal/contracts"
	"github.com/wonny/aura/backend/internal/profile"
	"github.com/wonny/aura/backend/internal/statements"
	"github.com/wonny/aura/backend/pkg/logger"
	"github.com/wonny/aura/backend/pkg/redis"
)

func newTestStore(t *testing.T) (*Store, *Loader) {
	t.Helper()
	table, err := profile.Default()
	require.NoError(t, err)
	gen, err := statements.NewGenerator(table, statements.DefaultPeriods)
	require.NoError(t, err)

	loader := NewLoader(gen, redis.NewCache(redis.Disabled(), "test"), time.Hour, logger.Nop())
	ds, err := loader.Load(context.Background(), 42)
	require.NoError(t, err)
	return New(table, ds), loader
}

func TestQueryDefaults(t *testing.T) {
	s, _ := newTestStore(t)

	resp, err := s.Query("", "", "")
	require.NoError(t, err)
	assert.Equal(t, "aura", resp.CompanyID)
	assert.Equal(t, "AURA稳健", resp.CompanyName)
	assert.Equal(t, contracts.SheetBalanceSheet, resp.SheetType)
	assert.Equal(t, statements.DefaultPeriods, resp.PeriodsRequested)

	rows, ok := resp.Data.([]contracts.RowView)
	require.True(t, ok)
	assert.Len(t, rows, len(statements.BalanceSheetTemplate.Items))
}

func TestQueryAliases(t *testing.T) {
	s, _ := newTestStore(t)

	for alias, want := range map[string]contracts.SheetType{
		"bs":     contracts.SheetBalanceSheet,
		"is":     contracts.SheetIncomeStatement,
		"cf":     contracts.SheetCashFlow,
		"ratios": contracts.SheetRatios,
	} {
		resp, err := s.Query("beta", alias, "")
		require.NoError(t, err, alias)
		assert.Equal(t, want, resp.SheetType)
	}
}

func TestQueryErrors(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.Query("unknown", "", "")
	var nf *contracts.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "company", nf.Kind)
	assert.Contains(t, err.Error(), "unknown")

	_, err = s.Query("aura", "合并-xx", "")
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "sheet", nf.Kind)

	_, err = s.Query("aura", "bs", "2024,1999")
	var ip *contracts.InvalidPeriodError
	require.True(t, errors.As(err, &ip))
	assert.Equal(t, "1999", ip.Period)
	assert.Equal(t, statements.DefaultPeriods, ip.Valid)
	assert.Contains(t, err.Error(), "2025_Q1")
}

func TestQueryPeriodProjection(t *testing.T) {
	s, _ := newTestStore(t)

	resp, err := s.Query("crisis", "合并-bs", "2025_Q1, 2024")
	require.NoError(t, err)
	assert.Equal(t, []contracts.Period{"2025_Q1", "2024"}, resp.PeriodsRequested)

	rows := resp.Data.([]contracts.RowView)
	assert.GreaterOrEqual(t, len(rows), 80)

	full := s.Current().Companies["crisis"].Sheets[contracts.SheetBalanceSheet]
	for i, row := range rows {
		assert.Equal(t, full.Rows[i].Item, row.Item)
		require.Len(t, row.Values, 2)
		assert.Equal(t, full.Rows[i].Values[5], row.Values[0])
		assert.Equal(t, full.Rows[i].Values[4], row.Values[1])
	}

	// 자산총계 = 유동 + 비유동
	byItem := make(map[string]contracts.RowView)
	for _, row := range rows {
		byItem[row.Item] = row
	}
	for i := range resp.PeriodsRequested {
		total := *byItem["资产总计"].Values[i]
		parts := *byItem["流动资产合计"].Values[i] + *byItem["非流动资产合计"].Values[i]
		assert.Equal(t, total, math.Round(parts*100)/100)
	}
}

func TestQueryFilteringIdempotence(t *testing.T) {
	s, _ := newTestStore(t)

	all, err := s.Query("beta", "is", "")
	require.NoError(t, err)
	explicit, err := s.Query("beta", "is", "2020,2021,2022,2023,2024,2025_Q1")
	require.NoError(t, err)

	a, err := json.Marshal(all)
	require.NoError(t, err)
	b, err := json.Marshal(explicit)
	require.NoError(t, err)
	assert.JSONEq(t, string(a), string(b))

	single, err := s.Query("beta", "is", "2023")
	require.NoError(t, err)
	raw, err := json.Marshal(single.Data)
	require.NoError(t, err)

	var decoded []map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Len(t, decoded, len(statements.IncomeStatementTemplate.Items))
	for _, row := range decoded {
		assert.Len(t, row, 2)
		assert.Contains(t, row, "item")
		assert.Contains(t, row, "2023")
	}
}

func TestQueryRatios(t *testing.T) {
	s, _ := newTestStore(t)

	resp, err := s.Query("aura", "financial_ratios", "2021")
	require.NoError(t, err)

	ratios, ok := resp.Data.(contracts.RatioTable)
	require.True(t, ok)
	require.Len(t, ratios, 1)

	leverage := ratios["2021"][statements.RatioDebtToAssets]
	require.NotNil(t, leverage)
	assert.Greater(t, *leverage, 0.0)
	assert.Less(t, *leverage, 100.0)
}

func TestParsePeriods(t *testing.T) {
	valid := statements.DefaultPeriods

	got, err := ParsePeriods("2024,2024, 2020", valid)
	require.NoError(t, err)
	assert.Equal(t, []contracts.Period{"2024", "2020"}, got)

	got, err = ParsePeriods("  ", valid)
	require.NoError(t, err)
	assert.Equal(t, valid, got)

	_, err = ParsePeriods("2024,", valid)
	assert.Error(t, err)
}

func TestReplaceIsAtomicForReaders(t *testing.T) {
	s, loader := newTestStore(t)
	first := s.Current()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				resp, err := s.Query("crisis", "cf", "")
				if assert.NoError(t, err) {
					assert.Len(t, resp.Data.([]contracts.RowView), len(statements.CashFlowTemplate.Items))
				}
			}
		}()
	}

	for i := 0; i < 5; i++ {
		ds, err := loader.Regenerate(context.Background(), int64(100+i))
		require.NoError(t, err)
		s.Replace(ds)
	}
	wg.Wait()

	assert.NotEqual(t, first.ID, s.Current().ID)
	assert.Equal(t, int64(104), s.Current().Seed)
}

func TestCompaniesAndPeriods(t *testing.T) {
	s, _ := newTestStore(t)

	companies := s.Companies()
	require.Len(t, companies, 3)
	assert.Equal(t, "crisis", companies[2].ID)
	assert.Equal(t, "压力型", companies[2].Type)

	assert.Equal(t, statements.DefaultPeriods, s.Periods())
}

func TestLoaderFetchDisabled(t *testing.T) {
	_, loader := newTestStore(t)

	ds, found, err := loader.Fetch(context.Background())
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, ds)
}

func TestFollowDisabledReturnsImmediately(t *testing.T) {
	s, loader := newTestStore(t)
	before := s.Current()

	called := false
	err := Follow(context.Background(), redis.Disabled(), s, loader, func(contracts.DatasetEvent) { called = true }, logger.Nop())
	require.NoError(t, err)
	assert.False(t, called)
	assert.Same(t, before, s.Current())
}
