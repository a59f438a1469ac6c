package statements

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/aura/backend/internal/contracts"
)

// tableOf builds a statement table from label → per-period values
func tableOf(sheet contracts.SheetType, periods []contracts.Period, values map[string][]float64) *contracts.StatementTable {
	t := &contracts.StatementTable{Sheet: sheet, Periods: periods}
	for item, vs := range values {
		row := contracts.StatementRow{Item: item, Values: make([]*float64, len(vs))}
		for i := range vs {
			v := vs[i]
			row.Values[i] = &v
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func TestComputeRatios(t *testing.T) {
	periods := []contracts.Period{"2023", "2024"}
	bs := tableOf(contracts.SheetBalanceSheet, periods, map[string][]float64{
		bsTotalAssets:             {1000, 1200},
		bsTotalLiabilities:        {600, 600},
		bsCurrentAssetsTotal:      {400, 500},
		bsCurrentLiabilitiesTotal: {200, 250},
		bsInventory:               {100, 150},
		bsReceivables:             {80, 120},
		bsCash:                    {50, 100},
		bsShortTermLoans:          {100, 100},
		bsLongTermLoans:           {200, 100},
		bsParentEquity:            {400, 600},
		bsTotalEquity:             {400, 600},
	})
	is := tableOf(contracts.SheetIncomeStatement, periods, map[string][]float64{
		isTotalRevenue:    {900, 1100},
		isCOGS:            {600, 770},
		isOperatingProfit: {90, 110},
		isParentNetProfit: {60, 75},
	})

	ratios := ComputeRatios(bs, is, periods)
	require.Len(t, ratios, 2)

	first := ratios["2023"]
	assert.Len(t, first, len(RatioNames))
	assert.InDelta(t, 60.0, *first[RatioDebtToAssets], 1e-9)
	assert.InDelta(t, 2.0, *first[RatioCurrent], 1e-9)
	assert.InDelta(t, 1.5, *first[RatioQuick], 1e-9)
	// 첫 기간: 평균 대신 당기
	assert.InDelta(t, 15.0, *first[RatioROE], 1e-9)
	assert.InDelta(t, 30.0, *first[RatioInterestBearingDebt], 1e-9)
	// 90 / (400+300-50)
	assert.InDelta(t, 13.8462, *first[RatioROIC], 1e-9)
	assert.InDelta(t, 33.3333, *first[RatioGrossMargin], 1e-9)
	assert.InDelta(t, 0.9, *first[RatioTotalAssetTurnover], 1e-9)
	assert.InDelta(t, 11.25, *first[RatioReceivablesTurnover], 1e-9)
	assert.InDelta(t, 6.0, *first[RatioInventoryTurnover], 1e-9)

	second := ratios["2024"]
	assert.InDelta(t, 50.0, *second[RatioDebtToAssets], 1e-9)
	// 평균 분모: (당기 + 전기) / 2
	assert.InDelta(t, 15.0, *second[RatioROE], 1e-9)
	assert.InDelta(t, 1.0, *second[RatioTotalAssetTurnover], 1e-9)
	assert.InDelta(t, 11.0, *second[RatioReceivablesTurnover], 1e-9)
	assert.InDelta(t, 6.16, *second[RatioInventoryTurnover], 1e-9)
}

func TestComputeRatiosNullOnZeroDenominator(t *testing.T) {
	periods := []contracts.Period{"2024"}
	bs := tableOf(contracts.SheetBalanceSheet, periods, map[string][]float64{
		bsTotalAssets:        {1000},
		bsCurrentAssetsTotal: {300},
	})
	is := tableOf(contracts.SheetIncomeStatement, periods, map[string][]float64{
		isTotalRevenue: {0},
	})

	r := ComputeRatios(bs, is, periods)["2024"]
	assert.NotNil(t, r[RatioDebtToAssets])
	assert.Nil(t, r[RatioCurrent])
	assert.Nil(t, r[RatioQuick])
	assert.Nil(t, r[RatioROE])
	assert.Nil(t, r[RatioGrossMargin])
	assert.Nil(t, r[RatioReceivablesTurnover])
	assert.Nil(t, r[RatioInventoryTurnover])
	assert.Contains(t, r, RatioCurrent)
}

func TestGeneratedRatiosAreFinite(t *testing.T) {
	g := newTestGenerator(t)

	for seed := int64(1); seed <= 10; seed++ {
		ds, err := g.Generate(seed)
		require.NoError(t, err)

		for _, id := range ds.CompanyIDs {
			for p, byName := range ds.Companies[id].Ratios {
				for _, name := range RatioNames {
					v, ok := byName[name]
					require.True(t, ok, "%s %s %s", id, p, name)
					if v != nil {
						assert.False(t, math.IsInf(*v, 0) || math.IsNaN(*v), "%s %s %s", id, p, name)
					}
				}
			}
		}
	}

	// aura 2021 부채비율은 0~100 사이 백분율
	ds, err := g.Generate(2021)
	require.NoError(t, err)
	leverage := ds.Companies["aura"].Ratios["2021"][RatioDebtToAssets]
	require.NotNil(t, leverage)
	assert.Greater(t, *leverage, 0.0)
	assert.Less(t, *leverage, 100.0)
	assert.InDelta(t, 50.0, *leverage, 0.5)
}
