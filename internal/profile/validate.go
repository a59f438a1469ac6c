package profile

import (
	"fmt"
)

// ValidationError 검증 실패 (프로필 로딩 중단)
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the numeric constraints of a single profile.
// Line item labels are checked against the statement templates by the generator.
func Validate(p *CompanyProfile) error {
	field := func(name string) string { return p.ID + "." + name }

	// === Identity ===
	if p.ID == "" {
		return ValidationError{"id", "required"}
	}
	if p.Name == "" {
		return ValidationError{field("name"), "required"}
	}

	// === Scale ===
	if p.BaseAssetMultiplier <= 0 {
		return ValidationError{field("base_asset_multiplier"), "must be > 0"}
	}
	if p.AssetGrowth <= -1 {
		return ValidationError{field("asset_growth"), "must be > -1"}
	}
	if p.LiabilityRatio < 0 || p.LiabilityRatio >= 1 {
		return ValidationError{field("liability_ratio"), "must be in [0, 1)"}
	}
	if p.Volatility < 0 || p.Volatility >= 1 {
		return ValidationError{field("volatility"), "must be in [0, 1)"}
	}
	if p.RevenueToAsset <= 0 {
		return ValidationError{field("revenue_to_asset"), "must be > 0"}
	}

	// === Balance sheet ===
	bs := p.BalanceSheet
	if bs.CurrentLiabilityShare < 0 || bs.CurrentLiabilityShare > 1 {
		return ValidationError{field("balance_sheet.current_liability_share"), "must be in [0, 1]"}
	}
	if bs.MinorityInterestShare < 0 || bs.MinorityInterestShare >= 1 {
		return ValidationError{field("balance_sheet.minority_interest_share"), "must be in [0, 1)"}
	}
	groups := map[string][]Allocation{
		"balance_sheet.current_assets":          bs.CurrentAssets,
		"balance_sheet.non_current_assets":      bs.NonCurrentAssets,
		"balance_sheet.current_liabilities":     bs.CurrentLiabilities,
		"balance_sheet.non_current_liabilities": bs.NonCurrentLiabilities,
		"balance_sheet.provisions":              bs.Provisions,
		"balance_sheet.equity":                  bs.Equity,
	}
	for name, allocs := range groups {
		if err := validateAllocations(field(name), allocs); err != nil {
			return err
		}
	}

	// === Income statement ===
	is := p.IncomeStatement
	if len(is.Segments) == 0 {
		return ValidationError{field("income_statement.segments"), "at least one segment is required"}
	}
	segmentTotal := 0.0
	for i, s := range is.Segments {
		if s.Share < 0 || s.CostRatio < 0 {
			return ValidationError{fmt.Sprintf("%s[%d]", field("income_statement.segments"), i), "share and cost_ratio must be >= 0"}
		}
		segmentTotal += s.Share
	}
	if segmentTotal > 1.0001 {
		return ValidationError{field("income_statement.segments"), fmt.Sprintf("shares sum to %.4f (> 1)", segmentTotal)}
	}
	for name, allocs := range map[string][]Allocation{
		"income_statement.expenses":     is.Expenses,
		"income_statement.other_income": is.OtherIncome,
		"income_statement.impairments":  is.Impairments,
	} {
		if err := validateAllocations(field(name), allocs); err != nil {
			return err
		}
	}
	if is.TaxRate < 0 || is.TaxRate >= 1 {
		return ValidationError{field("income_statement.tax_rate"), "must be in [0, 1)"}
	}
	if is.MinorityInterestShare < 0 || is.MinorityInterestShare >= 1 {
		return ValidationError{field("income_statement.minority_interest_share"), "must be in [0, 1)"}
	}

	// === Cash flow ===
	cf := p.CashFlow
	if cf.OperatingMultiplierMin > cf.OperatingMultiplierMax {
		return ValidationError{field("cash_flow.operating_multiplier"), "min must be <= max"}
	}
	switch cf.InvestingMode {
	case InvestingAssetDelta, InvestingAssetLevel:
	default:
		return ValidationError{field("cash_flow.investing_mode"), fmt.Sprintf("unknown mode '%s'", cf.InvestingMode)}
	}
	switch cf.FinancingMode {
	case FinancingPlug, FinancingInvestmentFunded, FinancingDebtService:
	default:
		return ValidationError{field("cash_flow.financing_mode"), fmt.Sprintf("unknown mode '%s'", cf.FinancingMode)}
	}

	return nil
}

func validateAllocations(field string, allocs []Allocation) error {
	seen := make(map[string]bool, len(allocs))
	for i, a := range allocs {
		if a.Item == "" {
			return ValidationError{fmt.Sprintf("%s[%d].item", field, i), "required"}
		}
		if seen[a.Item] {
			return ValidationError{fmt.Sprintf("%s[%d].item", field, i), fmt.Sprintf("duplicate item '%s'", a.Item)}
		}
		seen[a.Item] = true
		if a.Share < 0 || a.Share > 1 {
			return ValidationError{fmt.Sprintf("%s[%d].share", field, i), "must be in [0, 1]"}
		}
	}
	return nil
}
