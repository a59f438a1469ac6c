package statements

import (
	"math"
	"math/rand/v2"

	"github.com/wonny/aura/backend/internal/contracts"
	"github.com/wonny/aura/backend/internal/profile"
)

const (
	nonOperatingIncomeRate  = 0.002  // 营业外收入 / 매출
	nonOperatingExpenseRate = 0.0015 // 营业外支出 / 매출
)

// GenerateIncomeStatement builds the consolidated income statement from the
// asset trajectory produced by the balance sheet generator.
func GenerateIncomeStatement(p *profile.CompanyProfile, periods []contracts.Period, traj []float64, rng *rand.Rand) *contracts.StatementTable {
	nz := newNoise(rng, p.Volatility)
	is := p.IncomeStatement
	l := newLedger(IncomeStatementTemplate, len(periods))

	for i := range periods {
		revenue := nz.perturb(traj[i]*p.RevenueToAsset, 1)
		l.set(isTotalRevenue, i, revenue)
		l.set(isRevenue, i, revenue)

		// 매출원가: 사업부문별 원가율 가중합
		cogs := 0.0
		for _, s := range is.Segments {
			cogs += revenue * s.Share * s.CostRatio
		}
		if cogs != 0 {
			cogs = nz.perturb(cogs, expenseVolatilityFactor)
		}
		l.set(isCOGS, i, cogs)

		surcharges := cogs * is.SurchargeRate
		l.set(isSurcharges, i, surcharges)

		expenses := allocate(l, i, is.Expenses, revenue, expenseVolatilityFactor, nz)
		otherIncome := allocate(l, i, is.OtherIncome, revenue, expenseVolatilityFactor, nz)

		impairments := 0.0
		for _, a := range is.Impairments {
			v := -math.Abs(nz.perturb(revenue*a.Share, expenseVolatilityFactor))
			l.add(a.Item, i, v)
			impairments += v
		}

		totalCost := cogs + surcharges + expenses
		l.set(isTotalCost, i, totalCost)

		operatingProfit := revenue - totalCost + otherIncome + impairments
		l.set(isOperatingProfit, i, operatingProfit)

		nonOpIncome := nz.perturb(revenue*nonOperatingIncomeRate, 1)
		nonOpExpense := nz.perturb(revenue*nonOperatingExpenseRate, 1)
		l.set(isNonOpIncome, i, nonOpIncome)
		l.set(isNonOpExpense, i, nonOpExpense)

		profitBeforeTax := operatingProfit + nonOpIncome - nonOpExpense
		l.set(isProfitBeforeTax, i, profitBeforeTax)

		// 손실 시 법인세 없음
		tax := 0.0
		if profitBeforeTax > 0 {
			tax = profitBeforeTax * is.TaxRate
		}
		l.set(isIncomeTax, i, tax)

		netProfit := profitBeforeTax - tax
		l.set(isNetProfit, i, netProfit)

		minority := 0.0
		if is.MinorityInterestShare > 0 {
			minority = nz.perturb(netProfit*is.MinorityInterestShare, minorityVolatilityFactor)
		}
		l.set(isMinorityNetProfit, i, minority)
		l.set(isParentNetProfit, i, netProfit-minority)
	}

	return l.table(IncomeStatementTemplate, periods)
}
