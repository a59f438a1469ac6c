package statements

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/wonny/aura/backend/internal/contracts"
	"github.com/wonny/aura/backend/internal/profile"
)

// DefaultPeriods is the fixed reporting sequence shared by every statement
var DefaultPeriods = []contracts.Period{"2020", "2021", "2022", "2023", "2024", "2025_Q1"}

// computedLabels are written by the generators and cannot be profile allocation targets
var computedLabels = map[string]bool{
	bsCurrentAssetsTotal: true, bsNonCurrentAssetsTotal: true, bsTotalAssets: true,
	bsCurrentLiabilitiesTotal: true, bsNonCurrentLiabsTotal: true, bsTotalLiabilities: true,
	bsParentEquity: true, bsMinorityInterest: true, bsTotalEquity: true, bsLiabilitiesEquity: true,

	isTotalRevenue: true, isRevenue: true, isTotalCost: true, isCOGS: true, isSurcharges: true,
	isOperatingProfit: true, isNonOpIncome: true, isNonOpExpense: true, isProfitBeforeTax: true,
	isIncomeTax: true, isNetProfit: true, isParentNetProfit: true, isMinorityNetProfit: true,
}

// Generator runs Profile → BS → IS → CF → Ratios for every company
type Generator struct {
	profiles *profile.Table
	periods  []contracts.Period
	now      func() time.Time
}

// NewGenerator checks every profile allocation against the statement templates
func NewGenerator(profiles *profile.Table, periods []contracts.Period) (*Generator, error) {
	if profiles == nil || profiles.Len() == 0 {
		return nil, fmt.Errorf("generator: empty profile table")
	}
	if len(periods) == 0 {
		return nil, fmt.Errorf("generator: empty period sequence")
	}

	for _, p := range profiles.All() {
		if err := ValidateLabels(p); err != nil {
			return nil, err
		}
	}

	return &Generator{
		profiles: profiles,
		periods:  append([]contracts.Period(nil), periods...),
		now:      time.Now,
	}, nil
}

// ValidateLabels reports allocations whose item is not a writable data row
// of the section it is booked in, or that is booked by more than one group.
func ValidateLabels(p *profile.CompanyProfile) error {
	bs, is := p.BalanceSheet, p.IncomeStatement
	groups := []struct {
		name     string
		t        Template
		from, to string // 섹션 경계 (양끝 제외)
		allocs   []profile.Allocation
	}{
		{"balance_sheet.current_assets", BalanceSheetTemplate, "流动资产：", bsCurrentAssetsTotal, bs.CurrentAssets},
		{"balance_sheet.non_current_assets", BalanceSheetTemplate, "非流动资产：", bsNonCurrentAssetsTotal, bs.NonCurrentAssets},
		{"balance_sheet.current_liabilities", BalanceSheetTemplate, "流动负债：", bsCurrentLiabilitiesTotal, bs.CurrentLiabilities},
		{"balance_sheet.non_current_liabilities", BalanceSheetTemplate, "非流动负债：", bsNonCurrentLiabsTotal, bs.NonCurrentLiabilities},
		{"balance_sheet.provisions", BalanceSheetTemplate, "非流动负债：", bsNonCurrentLiabsTotal, bs.Provisions},
		{"balance_sheet.equity", BalanceSheetTemplate, "所有者权益（或股东权益）：", bsParentEquity, bs.Equity},
		{"income_statement.expenses", IncomeStatementTemplate, isTotalCost, "资产减值损失", is.Expenses},
		{"income_statement.impairments", IncomeStatementTemplate, "财务费用", "其他收益", is.Impairments},
		{"income_statement.other_income", IncomeStatementTemplate, "信用减值损失", isOperatingProfit, is.OtherIncome},
	}

	booked := make(map[string]string) // label → 처음 배분한 field
	for _, g := range groups {
		section := Template{Sheet: g.t.Sheet, Items: g.t.Between(g.from, g.to)}

		for i, a := range g.allocs {
			field := fmt.Sprintf("%s.%s[%d].item", p.ID, g.name, i)
			switch {
			case !g.t.Contains(a.Item):
				return profile.ValidationError{Field: field, Message: fmt.Sprintf("'%s' is not a %s label", a.Item, g.t.Sheet)}
			case g.t.IsHeader(a.Item):
				return profile.ValidationError{Field: field, Message: fmt.Sprintf("'%s' is a section header", a.Item)}
			case computedLabels[a.Item]:
				return profile.ValidationError{Field: field, Message: fmt.Sprintf("'%s' is computed", a.Item)}
			case !section.Contains(a.Item):
				return profile.ValidationError{Field: field, Message: fmt.Sprintf("'%s' is outside %s..%s", a.Item, g.from, g.to)}
			}

			key := string(g.t.Sheet) + "/" + a.Item
			if prev, dup := booked[key]; dup {
				return profile.ValidationError{Field: field, Message: fmt.Sprintf("'%s' already booked by %s", a.Item, prev)}
			}
			booked[key] = field
		}
	}
	return nil
}

// Periods returns a copy of the period sequence
func (g *Generator) Periods() []contracts.Period {
	return append([]contracts.Period(nil), g.periods...)
}

// ResolveSeed maps seed 0 onto a time based seed
func ResolveSeed(seed int64) int64 {
	if seed == 0 {
		return time.Now().UnixNano()
	}
	return seed
}

// Generate builds a complete dataset. The same seed reproduces the same values.
func (g *Generator) Generate(seed int64) (*contracts.Dataset, error) {
	seed = ResolveSeed(seed)

	ds := &contracts.Dataset{
		ID:          uuid.NewString(),
		Seed:        seed,
		GeneratedAt: g.now().UTC(),
		Periods:     g.Periods(),
		CompanyIDs:  g.profiles.IDs(),
		Companies:   make(map[string]*contracts.CompanyData, g.profiles.Len()),
	}

	for i, p := range g.profiles.All() {
		// 회사별 독립 스트림 (seed + 테이블 순번)
		rng := rand.New(rand.NewPCG(uint64(seed), uint64(i)+1))

		company, err := g.generateCompany(p, rng)
		if err != nil {
			return nil, err
		}
		ds.Companies[p.ID] = company
	}

	return ds, nil
}

func (g *Generator) generateCompany(p *profile.CompanyProfile, rng *rand.Rand) (*contracts.CompanyData, error) {
	bs, traj := GenerateBalanceSheet(p, g.periods, rng)
	is := GenerateIncomeStatement(p, g.periods, traj, rng)
	cf, err := GenerateCashFlow(p, g.periods, is, bs, rng)
	if err != nil {
		return nil, fmt.Errorf("generate %s: %w", p.ID, err)
	}

	return &contracts.CompanyData{
		ID:   p.ID,
		Name: p.Name,
		Sheets: map[contracts.SheetType]*contracts.StatementTable{
			contracts.SheetBalanceSheet:    bs,
			contracts.SheetIncomeStatement: is,
			contracts.SheetCashFlow:        cf,
		},
		Ratios: ComputeRatios(bs, is, g.periods),
	}, nil
}
