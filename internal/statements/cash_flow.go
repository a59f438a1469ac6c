package statements

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/wonny/aura/backend/internal/contracts"
	"github.com/wonny/aura/backend/internal/profile"
)

// GenerateCashFlow derives the three activity nets from the already generated
// income statement (净利润) and balance sheet (资产总计).
// The net increase is summed from the rounded components so it closes exactly.
func GenerateCashFlow(p *profile.CompanyProfile, periods []contracts.Period, is, bs *contracts.StatementTable, rng *rand.Rand) (*contracts.StatementTable, error) {
	cf := p.CashFlow
	l := newLedger(CashFlowTemplate, len(periods))

	prevAssets := 0.0
	for i, period := range periods {
		netProfit, ok := is.Value(isNetProfit, period)
		if !ok {
			return nil, fmt.Errorf("cash flow %s: missing %s for %s", p.ID, isNetProfit, period)
		}
		assets, ok := bs.Value(bsTotalAssets, period)
		if !ok {
			return nil, fmt.Errorf("cash flow %s: missing %s for %s", p.ID, bsTotalAssets, period)
		}

		delta := assets - prevAssets
		if i == 0 {
			delta = assets * p.AssetGrowth
		}
		prevAssets = assets

		operating := round(netProfit*uniform(rng, cf.OperatingMultiplierMin, cf.OperatingMultiplierMax), statementDecimals)

		var investing float64
		switch cf.InvestingMode {
		case profile.InvestingAssetLevel:
			investing = -math.Abs(assets * cf.InvestingIntensity)
		default:
			investing = -math.Abs(delta * cf.InvestingIntensity)
		}
		investing = round(investing, statementDecimals)

		var financing float64
		switch cf.FinancingMode {
		case profile.FinancingInvestmentFunded:
			financing = math.Abs(investing) * cf.FinancingFactor
		case profile.FinancingDebtService:
			financing = (operating+investing)*cf.FinancingFactor - assets*cf.DebtServiceShare
		default:
			// plug: 부족하면 외부 조달, 남으면 자산 증가분 일부 상환
			if shortfall := operating + investing; shortfall < 0 {
				financing = shortfall * cf.FinancingFactor
			} else {
				financing = -math.Abs(delta * cf.RepaymentShare)
			}
		}
		financing = round(financing, statementDecimals)

		l.set(cfOperatingNet, i, operating)
		l.set(cfInvestingNet, i, investing)
		l.set(cfFinancingNet, i, financing)
		l.set(cfNetCashIncrease, i, round(operating+investing+financing, statementDecimals))
	}

	return l.table(CashFlowTemplate, periods), nil
}
