package statements

import (
	"github.com/wonny/aura/backend/internal/contracts"
)

// Ratio names (keys of contracts.RatioTable)
const (
	RatioDebtToAssets        = "资产负债率"
	RatioCurrent             = "流动比率"
	RatioQuick               = "速动比率"
	RatioROE                 = "净资产收益率"
	RatioInterestBearingDebt = "有息负债占总资产比"
	RatioROIC                = "资本回报率"
	RatioGrossMargin         = "主营业务利润率"
	RatioTotalAssetTurnover  = "总资产周转率"
	RatioReceivablesTurnover = "应收账款周转率"
	RatioInventoryTurnover   = "存货周转率"
)

// RatioNames lists every ratio in presentation order
var RatioNames = []string{
	RatioDebtToAssets,
	RatioCurrent,
	RatioQuick,
	RatioROE,
	RatioInterestBearingDebt,
	RatioROIC,
	RatioGrossMargin,
	RatioTotalAssetTurnover,
	RatioReceivablesTurnover,
	RatioInventoryTurnover,
}

// interestBearingDebt 유이자부채 구성 항목
var interestBearingDebt = []string{bsShortTermLoans, bsCurrentPortionLTDebt, bsLongTermLoans, bsBondsPayable}

// ComputeRatios derives the per-period ratio table from BS and IS.
// A ratio is nil when its denominator is zero; averaged denominators fall back
// to the current value when the prior period is missing or zero.
func ComputeRatios(bs, is *contracts.StatementTable, periods []contracts.Period) contracts.RatioTable {
	out := make(contracts.RatioTable, len(periods))

	for i, period := range periods {
		cur := func(t *contracts.StatementTable, item string) float64 {
			v, _ := t.Value(item, period)
			return v
		}
		avg := func(t *contracts.StatementTable, item string) float64 {
			v := cur(t, item)
			if i == 0 {
				return v
			}
			prev, ok := t.Value(item, periods[i-1])
			if !ok || prev == 0 {
				return v
			}
			return (v + prev) / 2
		}

		totalAssets := cur(bs, bsTotalAssets)
		currentAssets := cur(bs, bsCurrentAssetsTotal)
		currentLiabs := cur(bs, bsCurrentLiabilitiesTotal)
		inventory := cur(bs, bsInventory)

		debt := 0.0
		for _, item := range interestBearingDebt {
			debt += cur(bs, item)
		}

		revenue := cur(is, isTotalRevenue)
		cogs := cur(is, isCOGS)

		out[period] = map[string]*float64{
			RatioDebtToAssets:        percent(cur(bs, bsTotalLiabilities), totalAssets),
			RatioCurrent:             ratio(currentAssets, currentLiabs),
			RatioQuick:               ratio(currentAssets-inventory, currentLiabs),
			RatioROE:                 percent(cur(is, isParentNetProfit), avg(bs, bsParentEquity)),
			RatioInterestBearingDebt: percent(debt, totalAssets),
			RatioROIC:                percent(cur(is, isOperatingProfit), cur(bs, bsTotalEquity)+debt-cur(bs, bsCash)),
			RatioGrossMargin:         percent(revenue-cogs, revenue),
			RatioTotalAssetTurnover:  ratio(revenue, avg(bs, bsTotalAssets)),
			RatioReceivablesTurnover: ratio(revenue, avg(bs, bsReceivables)),
			RatioInventoryTurnover:   ratio(cogs, avg(bs, bsInventory)),
		}
	}

	return out
}

func ratio(num, den float64) *float64 {
	if den == 0 {
		return nil
	}
	v := round(num/den, ratioDecimals)
	return &v
}

func percent(num, den float64) *float64 {
	if den == 0 {
		return nil
	}
	v := round(num/den*100, ratioDecimals)
	return &v
}
