package statements

import (
	"math"
	"math/rand/v2"

	"github.com/wonny/aura/backend/internal/contracts"
	"github.com/wonny/aura/backend/internal/profile"
)

const (
	// baseAssets 기준 총자산 (1억)
	baseAssets = 1e8

	// assetRemainderThreshold: 배분 오차가 총자산의 15%를 넘으면 유동/비유동에 반씩
	assetRemainderThreshold = 0.15
	// remainderCurrentShare 양의 잔여분 중 유동자산 몫 (나머지 40%는 비유동)
	remainderCurrentShare = 0.6

	// balanceDriftTolerance 자산 = 부채 + 자본 허용 오차 (총자산 대비)
	balanceDriftTolerance = 0.01
)

// AssetTrajectory returns the noisy total-asset path shared by BS and IS.
// ⭐ SSOT: 총자산 궤적은 여기서만 생성
func AssetTrajectory(p *profile.CompanyProfile, n int, rng *rand.Rand) []float64 {
	nz := newNoise(rng, p.Volatility)
	base := baseAssets * p.BaseAssetMultiplier

	traj := make([]float64, n)
	for i := range traj {
		traj[i] = nz.perturb(base*math.Pow(1+p.AssetGrowth, float64(i)), trajectoryVolatilityFactor)
	}
	return traj
}

// GenerateBalanceSheet builds the consolidated balance sheet for one company.
// It returns the table together with the unrounded asset trajectory used to size
// the income statement.
func GenerateBalanceSheet(p *profile.CompanyProfile, periods []contracts.Period, rng *rand.Rand) (*contracts.StatementTable, []float64) {
	traj := AssetTrajectory(p, len(periods), rng)
	nz := newNoise(rng, p.Volatility)
	bs := p.BalanceSheet
	l := newLedger(BalanceSheetTemplate, len(periods))

	for i := range periods {
		totalAssets := traj[i]
		totalLiabilities := totalAssets * p.LiabilityRatio
		totalEquity := totalAssets - totalLiabilities

		// === 자산 ===
		currentSum := allocate(l, i, bs.CurrentAssets, totalAssets, 1, nz)
		nonCurrentSum := allocate(l, i, bs.NonCurrentAssets, totalAssets, 1, nz)

		var remCurrent, remNonCurrent float64
		diff := totalAssets - (currentSum + nonCurrentSum)
		switch {
		case math.Abs(diff/totalAssets) > assetRemainderThreshold:
			remCurrent, remNonCurrent = diff/2, diff/2
		case diff >= 0:
			remCurrent = diff * remainderCurrentShare
			remNonCurrent = diff - remCurrent
		default:
			remCurrent = diff
		}
		l.add(bsOtherCurrentAssets, i, remCurrent)
		l.add(bsOtherNonCurrentAssets, i, remNonCurrent)

		currentAssets := currentSum + remCurrent
		nonCurrentAssets := nonCurrentSum + remNonCurrent
		l.set(bsCurrentAssetsTotal, i, currentAssets)
		l.set(bsNonCurrentAssetsTotal, i, nonCurrentAssets)
		l.set(bsTotalAssets, i, currentAssets+nonCurrentAssets)

		// === 부채 ===
		currentTarget := totalLiabilities * bs.CurrentLiabilityShare
		nonCurrentTarget := totalLiabilities - currentTarget

		clSum := allocate(l, i, bs.CurrentLiabilities, currentTarget, 1, nz)
		nclSum := allocate(l, i, bs.NonCurrentLiabilities, nonCurrentTarget, 1, nz)
		provisions := allocate(l, i, bs.Provisions, totalLiabilities, 1, nz)

		l.add(bsOtherCurrentLiabilities, i, currentTarget-clSum)
		l.add(bsOtherNonCurrentLiabs, i, nonCurrentTarget-nclSum-provisions)
		l.set(bsCurrentLiabilitiesTotal, i, currentTarget)
		l.set(bsNonCurrentLiabsTotal, i, nonCurrentTarget)
		l.set(bsTotalLiabilities, i, currentTarget+nonCurrentTarget)

		// === 자본 ===
		equitySum := allocate(l, i, bs.Equity, totalEquity, equityVolatilityFactor, nz)
		minority := 0.0
		if bs.MinorityInterestShare > 0 {
			minority = nz.perturb(totalEquity*bs.MinorityInterestShare, equityVolatilityFactor)
			l.set(bsMinorityInterest, i, minority)
		}
		l.add(bsUndistributedProfit, i, totalEquity-equitySum-minority)
		l.set(bsParentEquity, i, totalEquity-minority)
		l.set(bsTotalEquity, i, totalEquity)
		l.set(bsLiabilitiesEquity, i, l.get(bsTotalLiabilities, i)+totalEquity)

		reconcileBalance(l, i)
		settleTotals(l, i)
	}

	return l.table(BalanceSheetTemplate, periods), traj
}

// allocate books perturbed base×share amounts and returns their sum
func allocate(l *ledger, i int, allocs []profile.Allocation, base, factor float64, nz noise) float64 {
	sum := 0.0
	for _, a := range allocs {
		v := nz.perturb(base*a.Share, factor)
		l.add(a.Item, i, v)
		sum += v
	}
	return sum
}

// reconcileBalance pushes any assets − (liabilities + equity) drift above the
// tolerance into undistributed profit. Returns the amount booked (0 if none).
func reconcileBalance(l *ledger, i int) float64 {
	assets := l.get(bsTotalAssets, i)
	drift := assets - (l.get(bsTotalLiabilities, i) + l.get(bsTotalEquity, i))
	if math.Abs(drift) <= balanceDriftTolerance*math.Abs(assets) {
		return 0
	}

	l.add(bsUndistributedProfit, i, drift)
	l.add(bsParentEquity, i, drift)
	l.add(bsTotalEquity, i, drift)
	l.set(bsLiabilitiesEquity, i, assets)
	return drift
}

// settleTotals rounds the subtotals to 2 dp and rebuilds each total from the
// rounded parts, so the published rows add up exactly.
func settleTotals(l *ledger, i int) {
	sum := func(total string, parts ...string) {
		s := 0.0
		for _, part := range parts {
			v := round(l.get(part, i), statementDecimals)
			l.set(part, i, v)
			s += v
		}
		l.set(total, i, round(s, statementDecimals))
	}

	// 순서 중요: 부채합계/자본합계 확정 후 총계
	sum(bsTotalAssets, bsCurrentAssetsTotal, bsNonCurrentAssetsTotal)
	sum(bsTotalLiabilities, bsCurrentLiabilitiesTotal, bsNonCurrentLiabsTotal)
	sum(bsTotalEquity, bsParentEquity, bsMinorityInterest)
	sum(bsLiabilitiesEquity, bsTotalLiabilities, bsTotalEquity)
}
